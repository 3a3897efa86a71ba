package prometheus

import (
	"strconv"
	"time"
)

// AppMetrics holds the instrument set for the intelligence engine.
type AppMetrics struct {
	// HTTP layer
	HTTPRequestsTotal   CounterVec
	HTTPRequestDuration HistogramVec
	HTTPActiveRequests  GaugeVec

	// Analysis engine
	AnalysesTotal      CounterVec
	AnalysisDuration   HistogramVec
	BatchItemsTotal    CounterVec
	ReportsTotal       CounterVec
	ReportDuration     HistogramVec
	ClusteringsTotal   CounterVec
	ClusteringDuration HistogramVec

	// Collaborators
	OracleSearchDuration  HistogramVec
	OracleFailuresTotal   CounterVec
	InsightRequestsTotal  CounterVec
	InsightDuration       HistogramVec
	InsightFallbacksTotal CounterVec
	PersistFailuresTotal  CounterVec
	EventsPublishedTotal  CounterVec

	// Infrastructure
	GraphQueryDuration   HistogramVec
	PricingQueryDuration HistogramVec
	CacheHitsTotal       CounterVec
	CacheMissesTotal     CounterVec

	// System health
	HealthCheckStatus GaugeVec
	ErrorsTotal       CounterVec
}

var (
	DefaultHTTPDurationBuckets     = []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}
	DefaultAnalysisDurationBuckets = []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60}
	DefaultDBDurationBuckets       = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 5}
)

// NewAppMetrics registers the full instrument set on the collector.
func NewAppMetrics(collector Collector) *AppMetrics {
	m := &AppMetrics{}

	m.HTTPRequestsTotal = collector.RegisterCounter("http_requests_total", "Total HTTP requests", "method", "path", "status_code")
	m.HTTPRequestDuration = collector.RegisterHistogram("http_request_duration_seconds", "HTTP request duration", DefaultHTTPDurationBuckets, "method", "path")
	m.HTTPActiveRequests = collector.RegisterGauge("http_active_requests", "In-flight HTTP requests", "method")

	m.AnalysesTotal = collector.RegisterCounter("analyses_total", "Similarity analyses by type and outcome", "type", "status")
	m.AnalysisDuration = collector.RegisterHistogram("analysis_duration_seconds", "Similarity analysis duration", DefaultAnalysisDurationBuckets, "type")
	m.BatchItemsTotal = collector.RegisterCounter("batch_items_total", "Batch analysis items by outcome", "status")
	m.ReportsTotal = collector.RegisterCounter("reports_total", "Intelligence reports by outcome", "status")
	m.ReportDuration = collector.RegisterHistogram("report_duration_seconds", "Report generation duration", DefaultAnalysisDurationBuckets)
	m.ClusteringsTotal = collector.RegisterCounter("clusterings_total", "Clustering runs by method and outcome", "method", "status")
	m.ClusteringDuration = collector.RegisterHistogram("clustering_duration_seconds", "Clustering run duration", DefaultAnalysisDurationBuckets, "method")

	m.OracleSearchDuration = collector.RegisterHistogram("oracle_search_duration_seconds", "Similarity oracle search duration", DefaultDBDurationBuckets)
	m.OracleFailuresTotal = collector.RegisterCounter("oracle_failures_total", "Similarity oracle failures")
	m.InsightRequestsTotal = collector.RegisterCounter("insight_requests_total", "Insight provider requests", "provider", "status")
	m.InsightDuration = collector.RegisterHistogram("insight_duration_seconds", "Insight provider latency", DefaultAnalysisDurationBuckets, "provider")
	m.InsightFallbacksTotal = collector.RegisterCounter("insight_fallbacks_total", "Insight requests served by the rule-based fallback")
	m.PersistFailuresTotal = collector.RegisterCounter("persist_failures_total", "Persistence failures after successful analysis", "entity")
	m.EventsPublishedTotal = collector.RegisterCounter("events_published_total", "Events published by topic and outcome", "topic", "status")

	m.GraphQueryDuration = collector.RegisterHistogram("graph_query_duration_seconds", "Graph store query duration", DefaultDBDurationBuckets, "operation")
	m.PricingQueryDuration = collector.RegisterHistogram("pricing_query_duration_seconds", "Pricing store query duration", DefaultDBDurationBuckets, "operation")
	m.CacheHitsTotal = collector.RegisterCounter("cache_hits_total", "Report cache hits")
	m.CacheMissesTotal = collector.RegisterCounter("cache_misses_total", "Report cache misses")

	m.HealthCheckStatus = collector.RegisterGauge("health_check_status", "Component health (1=up, 0=down)", "component")
	m.ErrorsTotal = collector.RegisterCounter("errors_total", "Errors by component and code", "component", "code")

	return m
}

// Recording helpers used at the call sites.

func (m *AppMetrics) RecordHTTPRequest(method, path string, statusCode int, duration time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(statusCode)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

func (m *AppMetrics) RecordAnalysis(analysisType string, duration time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "failure"
	}
	m.AnalysesTotal.WithLabelValues(analysisType, status).Inc()
	m.AnalysisDuration.WithLabelValues(analysisType).Observe(duration.Seconds())
}

func (m *AppMetrics) RecordReport(duration time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "failure"
	}
	m.ReportsTotal.WithLabelValues(status).Inc()
	m.ReportDuration.WithLabelValues().Observe(duration.Seconds())
}

func (m *AppMetrics) RecordClustering(method string, duration time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "failure"
	}
	m.ClusteringsTotal.WithLabelValues(method, status).Inc()
	m.ClusteringDuration.WithLabelValues(method).Observe(duration.Seconds())
}

func (m *AppMetrics) RecordInsight(provider string, duration time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "failure"
	}
	m.InsightRequestsTotal.WithLabelValues(provider, status).Inc()
	m.InsightDuration.WithLabelValues(provider).Observe(duration.Seconds())
}

func (m *AppMetrics) RecordEvent(topic string, err error) {
	status := "success"
	if err != nil {
		status = "failure"
	}
	m.EventsPublishedTotal.WithLabelValues(topic, status).Inc()
}

func (m *AppMetrics) RecordCacheAccess(hit bool) {
	if hit {
		m.CacheHitsTotal.WithLabelValues().Inc()
	} else {
		m.CacheMissesTotal.WithLabelValues().Inc()
	}
}

func (m *AppMetrics) SetComponentHealth(component string, healthy bool) {
	val := 0.0
	if healthy {
		val = 1.0
	}
	m.HealthCheckStatus.WithLabelValues(component).Set(val)
}

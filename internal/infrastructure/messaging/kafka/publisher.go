package kafka

import (
	"context"
	"encoding/json"
	"sync/atomic"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/turtacn/MarketEdge-Intelligence/internal/config"
	"github.com/turtacn/MarketEdge-Intelligence/internal/domain/analysis"
	"github.com/turtacn/MarketEdge-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/MarketEdge-Intelligence/pkg/errors"
)

var ErrPublisherClosed = errors.New(errors.ErrCodeInternal, "event publisher is closed")

// WriterInterface abstracts kafka.Writer for testing.
type WriterInterface interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Publisher writes analysis lifecycle events to the broker.
type Publisher struct {
	writer WriterInterface
	logger logging.Logger
	closed atomic.Bool
}

// NewPublisher builds a producer over the configured brokers. Messages for
// both topics go through one writer; the topic is set per message.
func NewPublisher(cfg config.KafkaConfig, log logging.Logger) (*Publisher, error) {
	if len(cfg.Brokers) == 0 {
		return nil, errors.NewValidation("kafka brokers are required")
	}

	batchTimeout := cfg.BatchTimeout
	if batchTimeout == 0 {
		batchTimeout = time.Second
	}
	writeTimeout := cfg.WriteTimeout
	if writeTimeout == 0 {
		writeTimeout = 10 * time.Second
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Balancer:     &kafka.Hash{},
		BatchTimeout: batchTimeout,
		WriteTimeout: writeTimeout,
		RequiredAcks: kafka.RequireOne,
	}

	return &Publisher{
		writer: writer,
		logger: log,
	}, nil
}

// NewPublisherWithWriter wraps an existing writer, used by tests.
func NewPublisherWithWriter(w WriterInterface, log logging.Logger) *Publisher {
	return &Publisher{
		writer: w,
		logger: log,
	}
}

// PublishAnalysisCompleted emits one event for a persisted analysis.
// Messages are keyed by source product so per-product ordering holds.
func (p *Publisher) PublishAnalysisCompleted(ctx context.Context, a *analysis.ProductSimilarityAnalysis) error {
	event := AnalysisCompletedEvent{
		AnalysisID:      a.ID,
		SourceProductID: a.SourceProductID,
		TargetProductID: a.TargetProductID,
		Type:            string(a.Type),
		OverallScore:    a.OverallScore,
		Relationship:    string(a.Relationship),
		AnalyzedAt:      a.AnalyzedAt,
	}
	return p.publish(ctx, TopicAnalysisCompleted, a.SourceProductID, event)
}

// PublishReportGenerated emits one event for a generated report.
func (p *Publisher) PublishReportGenerated(ctx context.Context, r *analysis.ProductIntelligenceReport) error {
	event := ReportGeneratedEvent{
		ReportID:    r.ID,
		ProductID:   r.ProductID,
		Positioning: r.MarketPosition.Positioning,
		OverallRisk: r.Threats.OverallRisk,
		Confidence:  r.Confidence,
		GeneratedAt: r.GeneratedAt,
	}
	return p.publish(ctx, TopicReportGenerated, r.ProductID, event)
}

func (p *Publisher) publish(ctx context.Context, topic, key string, event any) error {
	if p.closed.Load() {
		return ErrPublisherClosed
	}

	value, err := json.Marshal(event)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "failed to serialize event")
	}

	msg := kafka.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: value,
		Time:  time.Now(),
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return errors.Wrapf(err, errors.ErrCodeExternalService, "failed to publish to %s", topic)
	}

	p.logger.Debug("Event published",
		logging.String("topic", topic),
		logging.String("key", key))
	return nil
}

// Close flushes and closes the writer. Safe to call more than once.
func (p *Publisher) Close() error {
	if !p.closed.CompareAndSwap(false, true) {
		return nil
	}
	err := p.writer.Close()
	if err == nil {
		p.logger.Info("Kafka publisher closed")
	}
	return err
}

// NopPublisher satisfies the event contract when kafka is disabled.
type NopPublisher struct{}

func (NopPublisher) PublishAnalysisCompleted(context.Context, *analysis.ProductSimilarityAnalysis) error {
	return nil
}

func (NopPublisher) PublishReportGenerated(context.Context, *analysis.ProductIntelligenceReport) error {
	return nil
}

func (NopPublisher) Close() error { return nil }

// Package bootstrap wires configuration into a fully-assembled analysis
// engine. Both binaries (apiserver and medge) share this container so the
// dependency graph exists in exactly one place.
package bootstrap

import (
	"github.com/turtacn/MarketEdge-Intelligence/internal/application/clustering"
	"github.com/turtacn/MarketEdge-Intelligence/internal/application/competitive"
	"github.com/turtacn/MarketEdge-Intelligence/internal/application/engine"
	"github.com/turtacn/MarketEdge-Intelligence/internal/application/feature"
	appricing "github.com/turtacn/MarketEdge-Intelligence/internal/application/pricing"
	"github.com/turtacn/MarketEdge-Intelligence/internal/application/similarity"
	"github.com/turtacn/MarketEdge-Intelligence/internal/application/strategy"
	"github.com/turtacn/MarketEdge-Intelligence/internal/config"
	"github.com/turtacn/MarketEdge-Intelligence/internal/domain/pricing"
	neo4jdriver "github.com/turtacn/MarketEdge-Intelligence/internal/infrastructure/database/neo4j"
	neorepo "github.com/turtacn/MarketEdge-Intelligence/internal/infrastructure/database/neo4j/repositories"
	"github.com/turtacn/MarketEdge-Intelligence/internal/infrastructure/database/postgres"
	pgrepo "github.com/turtacn/MarketEdge-Intelligence/internal/infrastructure/database/postgres/repositories"
	"github.com/turtacn/MarketEdge-Intelligence/internal/infrastructure/database/redis"
	"github.com/turtacn/MarketEdge-Intelligence/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/MarketEdge-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/MarketEdge-Intelligence/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/MarketEdge-Intelligence/internal/infrastructure/search/milvus"
	"github.com/turtacn/MarketEdge-Intelligence/internal/infrastructure/storage/minio"
	"github.com/turtacn/MarketEdge-Intelligence/internal/intelligence/insight"
)

// metricsNamespace prefixes every exported metric.
const metricsNamespace = "medge"

// Container holds the wired application with everything the binaries need.
type Container struct {
	Config       *config.Config
	Logger       logging.Logger
	Collector    prometheus.Collector
	Metrics      *prometheus.AppMetrics
	Engine       engine.Engine
	PricingStore pricing.Store

	closers []func() error
}

// New assembles the container. Required stores (graph, pricing, oracle) fail
// construction; optional collaborators (cache, events, archive, AI) degrade
// to no-op or fallback wiring with a logged warning.
func New(cfg *config.Config) (*Container, error) {
	log, err := logging.NewLogger(logging.LogConfig{
		Level:       cfg.Log.Level,
		Format:      cfg.Log.Format,
		OutputPaths: cfg.Log.OutputPaths,
	})
	if err != nil {
		return nil, err
	}

	c := &Container{Config: cfg, Logger: log}

	collector, err := prometheus.NewCollector(prometheus.CollectorConfig{
		Namespace:            metricsNamespace,
		EnableProcessMetrics: true,
		EnableGoMetrics:      true,
	}, log)
	if err != nil {
		return nil, err
	}
	c.Collector = collector
	c.Metrics = prometheus.NewAppMetrics(collector)

	graph, err := neo4jdriver.NewDriver(cfg.Neo4j, log)
	if err != nil {
		return nil, err
	}
	c.closers = append(c.closers, graph.Close)

	pg, err := postgres.NewConnection(cfg.Postgres, log)
	if err != nil {
		c.Close()
		return nil, err
	}
	c.closers = append(c.closers, pg.Close)
	if cfg.Postgres.MigrationPath != "" {
		if err := pg.RunMigrations(cfg.Postgres.MigrationPath); err != nil {
			c.Close()
			return nil, err
		}
	}
	c.PricingStore = pgrepo.NewPostgresPricingStore(pg, log)

	oracle, err := milvus.NewOracle(cfg.Milvus, log)
	if err != nil {
		c.Close()
		return nil, err
	}
	c.closers = append(c.closers, oracle.Close)

	// Cache loss degrades latency, not correctness, so a failed connection
	// downgrades to uncached operation.
	var cache redis.Cache
	if client, err := redis.NewClient(cfg.Redis, log); err != nil {
		log.Warn("Redis unavailable, running without report cache", logging.Err(err))
	} else {
		c.closers = append(c.closers, client.Close)
		cache = redis.NewRedisCache(client, log,
			redis.WithPrefix(cfg.Redis.KeyPrefix),
			redis.WithDefaultTTL(cfg.Redis.ReportTTL))
	}

	var events engine.EventPublisher = kafka.NopPublisher{}
	if cfg.Kafka.Enabled {
		publisher, err := kafka.NewPublisher(cfg.Kafka, log)
		if err != nil {
			log.Warn("Kafka unavailable, events disabled", logging.Err(err))
		} else {
			c.closers = append(c.closers, publisher.Close)
			events = publisher
		}
	}

	var archive engine.ReportArchive = minio.NopArchive{}
	if cfg.MinIO.Enabled {
		store, err := minio.NewArchive(cfg.MinIO, log)
		if err != nil {
			log.Warn("MinIO unavailable, report archival disabled", logging.Err(err))
		} else {
			archive = store
		}
	}

	var primary insight.Provider
	if provider, err := insight.NewOpenAIProvider(cfg.Insight, log); err != nil {
		log.Info("AI insight provider not configured, using rule-based fallback only")
	} else {
		primary = provider
	}
	insights := insight.NewChain(primary, insight.NewRuleFallback(), log)

	products := neorepo.NewNeo4jProductRepo(graph, log)
	analyses := neorepo.NewNeo4jAnalysisRepo(graph, log)

	c.Engine = engine.New(cfg.Engine, engine.Dependencies{
		Products:     products,
		Analyses:     analyses,
		Oracle:       oracle,
		Similarity:   similarity.NewAnalyzer(oracle, log),
		Features:     feature.NewAnalyzer(products, log),
		Pricing:      appricing.NewAnalyzer(log),
		Clustering:   clustering.NewAnalyzer(cfg.Engine.MaxClusters, log),
		Competitive:  competitive.NewAnalyzer(log),
		Strategy:     strategy.NewAnalyzer(insights, log),
		PricingStore: c.PricingStore,
		Cache:        cache,
		Archive:      archive,
		Events:       events,
		Metrics:      c.Metrics,
		Logger:       log,
	})

	return c, nil
}

// Close releases infrastructure connections in reverse construction order.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](); err != nil && c.Logger != nil {
			c.Logger.Warn("Close failed", logging.Err(err))
		}
	}
	c.closers = nil
}

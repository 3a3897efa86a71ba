package config

import "time"

// ApplyDefaults fills every unset field of cfg with its platform default.
// It never overrides a value the operator has set explicitly.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.Mode == "" {
		cfg.Server.Mode = "release"
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 30 * time.Second
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 60 * time.Second
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 15 * time.Second
	}

	if cfg.Neo4j.URI == "" {
		cfg.Neo4j.URI = "bolt://localhost:7687"
	}
	if cfg.Neo4j.Database == "" {
		cfg.Neo4j.Database = "neo4j"
	}
	if cfg.Neo4j.MaxConnectionPoolSize == 0 {
		cfg.Neo4j.MaxConnectionPoolSize = 50
	}
	if cfg.Neo4j.MaxConnectionLifetime == 0 {
		cfg.Neo4j.MaxConnectionLifetime = time.Hour
	}
	if cfg.Neo4j.ConnectionTimeout == 0 {
		cfg.Neo4j.ConnectionTimeout = 10 * time.Second
	}

	if cfg.Postgres.Host == "" {
		cfg.Postgres.Host = "localhost"
	}
	if cfg.Postgres.Port == 0 {
		cfg.Postgres.Port = 5432
	}
	if cfg.Postgres.User == "" {
		cfg.Postgres.User = "marketedge"
	}
	if cfg.Postgres.DBName == "" {
		cfg.Postgres.DBName = "marketedge"
	}
	if cfg.Postgres.SSLMode == "" {
		cfg.Postgres.SSLMode = "disable"
	}
	if cfg.Postgres.MaxConns == 0 {
		cfg.Postgres.MaxConns = 10
	}
	if cfg.Postgres.MinConns == 0 {
		cfg.Postgres.MinConns = 2
	}
	if cfg.Postgres.ConnMaxLifetime == 0 {
		cfg.Postgres.ConnMaxLifetime = time.Hour
	}
	if cfg.Postgres.MigrationPath == "" {
		cfg.Postgres.MigrationPath = "file://migrations"
	}

	if cfg.Redis.Addr == "" {
		cfg.Redis.Addr = "localhost:6379"
	}
	if cfg.Redis.PoolSize == 0 {
		cfg.Redis.PoolSize = 10
	}
	if cfg.Redis.DialTimeout == 0 {
		cfg.Redis.DialTimeout = 5 * time.Second
	}
	if cfg.Redis.ReadTimeout == 0 {
		cfg.Redis.ReadTimeout = 3 * time.Second
	}
	if cfg.Redis.WriteTimeout == 0 {
		cfg.Redis.WriteTimeout = 3 * time.Second
	}
	if cfg.Redis.KeyPrefix == "" {
		cfg.Redis.KeyPrefix = "medge:"
	}
	if cfg.Redis.ReportTTL == 0 {
		cfg.Redis.ReportTTL = 30 * time.Minute
	}

	if cfg.Milvus.Addr == "" {
		cfg.Milvus.Addr = "localhost:19530"
	}
	if cfg.Milvus.CollectionName == "" {
		cfg.Milvus.CollectionName = "product_embeddings"
	}
	if cfg.Milvus.VectorField == "" {
		cfg.Milvus.VectorField = "embedding"
	}
	if cfg.Milvus.DefaultTopK == 0 {
		cfg.Milvus.DefaultTopK = 20
	}
	if cfg.Milvus.MinScore == 0 {
		cfg.Milvus.MinScore = 0.3
	}
	if cfg.Milvus.SearchTimeout == 0 {
		cfg.Milvus.SearchTimeout = 10 * time.Second
	}

	if cfg.Kafka.BatchTimeout == 0 {
		cfg.Kafka.BatchTimeout = time.Second
	}
	if cfg.Kafka.WriteTimeout == 0 {
		cfg.Kafka.WriteTimeout = 10 * time.Second
	}

	if cfg.MinIO.Bucket == "" {
		cfg.MinIO.Bucket = "intelligence-reports"
	}

	if cfg.Insight.Model == "" {
		cfg.Insight.Model = "gpt-4o-mini"
	}
	if cfg.Insight.Temperature == 0 {
		cfg.Insight.Temperature = 0.3
	}
	if cfg.Insight.MaxTokens == 0 {
		cfg.Insight.MaxTokens = 1024
	}
	if cfg.Insight.Timeout == 0 {
		cfg.Insight.Timeout = 30 * time.Second
	}

	if cfg.Engine.BatchDelay == 0 {
		cfg.Engine.BatchDelay = time.Second
	}
	if cfg.Engine.SimilarLimit == 0 {
		cfg.Engine.SimilarLimit = 20
	}
	if cfg.Engine.SimilarMinScore == 0 {
		cfg.Engine.SimilarMinScore = 0.3
	}
	if cfg.Engine.PricingRetention == 0 {
		cfg.Engine.PricingRetention = 180 * 24 * time.Hour
	}
	if cfg.Engine.MaxClusters == 0 {
		cfg.Engine.MaxClusters = 10
	}

	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	if len(cfg.Log.OutputPaths) == 0 {
		cfg.Log.OutputPaths = []string{"stdout"}
	}
}

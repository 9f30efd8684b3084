package config

import "time"

// Default values for optional configuration fields.
const (
	DefaultInstanceID     = "stockstats"
	DefaultAPIHost        = "bloomberg-market-and-financial-news.p.rapidapi.com"
	DefaultBaseURL        = "https://" + DefaultAPIHost
	DefaultTemplate       = "STOCK"
	DefaultAPITimeout     = 15 * time.Second
	DefaultConcurrency    = 1
	DefaultTimestampMode  = "run"
	DefaultSink           = SinkBigQuery
	DefaultPartitionField = "updated_at"
	DefaultDBPort         = 5432
	DefaultDBSSLMode      = "prefer"
	DefaultMaxConns       = 4
	DefaultMinConns       = 0
	DefaultDBTable        = "stock_statistics"
	DefaultCommand        = "Invoke"
	DefaultLogLevel       = "info"
	DefaultLogFormat      = "text"
	DefaultMetricsPort    = 9090
	DefaultMetricsPath    = "/metrics"
)

// Sink names.
const (
	SinkBigQuery = "bigquery"
	SinkPostgres = "postgres"
)

// DefaultEntities is the tracked company set used when none is configured.
func DefaultEntities() []EntityConfig {
	return []EntityConfig{
		{Name: "facebook", ID: "meta:us"},
		{Name: "amazon", ID: "amzn:us"},
		{Name: "apple", ID: "aapl:us"},
		{Name: "netflix", ID: "nflx:us"},
		{Name: "google", ID: "googl:us"},
		{Name: "microsoft", ID: "msft:us"},
	}
}

func (c *JobConfig) applyDefaults() {
	if c.Instance.ID == "" {
		c.Instance.ID = DefaultInstanceID
	}

	// API defaults
	if c.API.Host == "" {
		c.API.Host = DefaultAPIHost
	}
	if c.API.BaseURL == "" {
		c.API.BaseURL = "https://" + c.API.Host
	}
	if c.API.Template == "" {
		c.API.Template = DefaultTemplate
	}
	if c.API.Timeout == 0 {
		c.API.Timeout = DefaultAPITimeout
	}

	if len(c.Entities) == 0 {
		c.Entities = DefaultEntities()
	}

	if c.Fetch.Concurrency == 0 {
		c.Fetch.Concurrency = DefaultConcurrency
	}
	if c.Transform.TimestampMode == "" {
		c.Transform.TimestampMode = DefaultTimestampMode
	}

	// Loader defaults
	if c.Loader.Sink == "" {
		c.Loader.Sink = DefaultSink
	}
	if c.BigQuery.PartitionField == "" {
		c.BigQuery.PartitionField = DefaultPartitionField
	}
	applyDBDefaults(&c.Database.Postgres)
	if c.Database.Table == "" {
		c.Database.Table = DefaultDBTable
	}

	if c.Trigger.Command == "" {
		c.Trigger.Command = DefaultCommand
	}

	if c.Logging.Level == "" {
		c.Logging.Level = DefaultLogLevel
	}
	if c.Logging.Format == "" {
		c.Logging.Format = DefaultLogFormat
	}

	if c.Metrics.Port == 0 {
		c.Metrics.Port = DefaultMetricsPort
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = DefaultMetricsPath
	}
}

func applyDBDefaults(db *DBConfig) {
	if db.Port == 0 {
		db.Port = DefaultDBPort
	}
	if db.SSLMode == "" {
		db.SSLMode = DefaultDBSSLMode
	}
	if db.MaxConns == 0 {
		db.MaxConns = DefaultMaxConns
	}
	if db.MinConns == 0 {
		db.MinConns = DefaultMinConns
	}
}

package config

import "time"

// JobConfig is the root configuration for the statistics job.
type JobConfig struct {
	Instance  InstanceConfig  `yaml:"instance"`
	API       APIConfig       `yaml:"api"`
	Entities  []EntityConfig  `yaml:"entities"`
	Fetch     FetchConfig     `yaml:"fetch"`
	Transform TransformConfig `yaml:"transform"`
	Loader    LoaderConfig    `yaml:"loader"`
	BigQuery  BigQueryConfig  `yaml:"bigquery"`
	Database  DatabaseConfig  `yaml:"database"`
	Trigger   TriggerConfig   `yaml:"trigger"`
	Logging   LoggingConfig   `yaml:"logging"`
	Metrics   MetricsConfig   `yaml:"metrics"`
}

// InstanceConfig identifies this deployment in logs.
type InstanceConfig struct {
	ID string `yaml:"id"`
}

// APIConfig holds statistics API settings.
type APIConfig struct {
	BaseURL  string        `yaml:"base_url"`
	Host     string        `yaml:"host"`    // X-RapidAPI-Host header
	APIKey   string        `yaml:"api_key"` // X-RapidAPI-Key header
	Template string        `yaml:"template"`
	Timeout  time.Duration `yaml:"timeout"`
}

// EntityConfig is one tracked company.
type EntityConfig struct {
	Name string `yaml:"name"`
	ID   string `yaml:"id"` // exchange-qualified ticker, e.g. "aapl:us"
}

// FetchConfig controls extraction.
type FetchConfig struct {
	// Concurrency is the number of entities fetched at once. 1 fetches sequentially.
	Concurrency int `yaml:"concurrency"`
}

// TransformConfig controls normalization.
type TransformConfig struct {
	// TimestampMode is "run" (one updated_at per run) or "row" (captured per row).
	TimestampMode string `yaml:"timestamp_mode"`
}

// LoaderConfig selects the load sink.
type LoaderConfig struct {
	Sink string `yaml:"sink"` // "bigquery" or "postgres"
}

// BigQueryConfig holds the analytical table target.
type BigQueryConfig struct {
	Table           string `yaml:"table"` // project.dataset.table
	CredentialsFile string `yaml:"credentials_file"`
	Location        string `yaml:"location"`
	PartitionField  string `yaml:"partition_field"`
}

// DatabaseConfig holds the Postgres sink connection and target table.
type DatabaseConfig struct {
	Postgres DBConfig `yaml:"postgres"`
	Table    string   `yaml:"table"` // [schema.]table
}

// DBConfig holds a single database connection.
type DBConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"ssl_mode"`
	MaxConns int    `yaml:"max_conns"`
	MinConns int    `yaml:"min_conns"`
}

// TriggerConfig holds the inbound event settings.
type TriggerConfig struct {
	// Command is the message payload that starts a run.
	Command string `yaml:"command"`

	// Interval schedules runs when hosted by "stockstats serve". 0 disables.
	Interval time.Duration `yaml:"interval"`
}

// LoggingConfig holds slog handler settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text or json
}

// MetricsConfig holds the ops server settings used by "stockstats serve".
type MetricsConfig struct {
	Port int    `yaml:"port"`
	Path string `yaml:"path"`
}

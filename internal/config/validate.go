package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate checks that all required fields are set and values are valid.
func (c *JobConfig) Validate() error {
	if c.Instance.ID == "" {
		return errors.New("instance.id is required")
	}

	if c.API.BaseURL == "" {
		return errors.New("api.base_url is required")
	}
	if c.API.APIKey == "" {
		return errors.New("api.api_key is required")
	}
	if c.API.Timeout < 0 {
		return errors.New("api.timeout must be >= 0")
	}

	if len(c.Entities) == 0 {
		return errors.New("entities must not be empty")
	}
	seen := make(map[string]bool, len(c.Entities))
	for i, e := range c.Entities {
		if e.ID == "" {
			return fmt.Errorf("entities[%d].id is required", i)
		}
		if seen[e.ID] {
			return fmt.Errorf("entities[%d].id %q is duplicated", i, e.ID)
		}
		seen[e.ID] = true
	}

	if c.Fetch.Concurrency < 1 {
		return errors.New("fetch.concurrency must be >= 1")
	}

	switch c.Transform.TimestampMode {
	case "run", "row":
	default:
		return fmt.Errorf("transform.timestamp_mode must be run or row, got %q", c.Transform.TimestampMode)
	}

	switch c.Loader.Sink {
	case SinkBigQuery:
		if err := c.BigQuery.validate("bigquery"); err != nil {
			return err
		}
	case SinkPostgres:
		if err := c.Database.Postgres.validate("database.postgres"); err != nil {
			return err
		}
		if c.Database.Table == "" {
			return errors.New("database.table is required")
		}
	default:
		return fmt.Errorf("loader.sink must be bigquery or postgres, got %q", c.Loader.Sink)
	}

	if c.Trigger.Command == "" {
		return errors.New("trigger.command is required")
	}
	if c.Trigger.Interval < 0 {
		return errors.New("trigger.interval must be >= 0")
	}

	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn or error, got %q", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "text", "json":
	default:
		return fmt.Errorf("logging.format must be text or json, got %q", c.Logging.Format)
	}

	if c.Metrics.Port < 1 || c.Metrics.Port > 65535 {
		return fmt.Errorf("metrics.port must be between 1 and 65535, got %d", c.Metrics.Port)
	}

	return nil
}

func (bq *BigQueryConfig) validate(prefix string) error {
	if bq.Table == "" {
		return fmt.Errorf("%s.table is required", prefix)
	}
	parts := strings.Split(bq.Table, ".")
	if len(parts) < 3 {
		return fmt.Errorf("%s.table must be project.dataset.table, got %q", prefix, bq.Table)
	}
	for _, p := range parts {
		if p == "" {
			return fmt.Errorf("%s.table must be project.dataset.table, got %q", prefix, bq.Table)
		}
	}
	if bq.PartitionField == "" {
		return fmt.Errorf("%s.partition_field is required", prefix)
	}
	return nil
}

func (db *DBConfig) validate(prefix string) error {
	if db.Host == "" {
		return fmt.Errorf("%s.host is required", prefix)
	}
	if db.Name == "" {
		return fmt.Errorf("%s.name is required", prefix)
	}
	if db.User == "" {
		return fmt.Errorf("%s.user is required", prefix)
	}
	if db.Password == "" {
		return fmt.Errorf("%s.password is required", prefix)
	}
	if db.MaxConns < 1 {
		return fmt.Errorf("%s.max_conns must be >= 1", prefix)
	}
	if db.MinConns < 0 {
		return fmt.Errorf("%s.min_conns must be >= 0", prefix)
	}
	if db.MinConns > db.MaxConns {
		return fmt.Errorf("%s.min_conns (%d) cannot exceed max_conns (%d)", prefix, db.MinConns, db.MaxConns)
	}
	return nil
}

package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/rickgao/stockstats/internal/api"
	"github.com/rickgao/stockstats/internal/config"
	"github.com/rickgao/stockstats/internal/database"
	"github.com/rickgao/stockstats/internal/extract"
	"github.com/rickgao/stockstats/internal/load"
	"github.com/rickgao/stockstats/internal/metrics"
	"github.com/rickgao/stockstats/internal/model"
	"github.com/rickgao/stockstats/internal/transform"
	"github.com/rickgao/stockstats/internal/version"
)

// Build assembles a Pipeline from validated configuration. The returned
// function releases the sink's resources.
func Build(ctx context.Context, cfg *config.JobConfig, logger *slog.Logger, reg prometheus.Registerer) (*Pipeline, func(), error) {
	if logger == nil {
		logger = slog.Default()
	}

	client := api.NewClient(cfg.API.BaseURL, cfg.API.Host, cfg.API.APIKey,
		api.WithTimeout(cfg.API.Timeout),
		api.WithTemplate(cfg.API.Template),
		api.WithUserAgent(version.UserAgent()),
		api.WithLogger(logger.With("component", "api")),
	)
	fetcher := extract.New(client, cfg.Fetch.Concurrency, logger.With("component", "extract"))
	normalizer := transform.NewNormalizer(
		transform.TimestampMode(cfg.Transform.TimestampMode),
		logger.With("component", "transform"),
	)

	loader, cleanup, err := buildLoader(ctx, cfg, logger.With("component", "load"))
	if err != nil {
		return nil, nil, err
	}

	p := New(Entities(cfg), fetcher, normalizer, loader,
		WithLogger(logger),
		WithMetrics(metrics.New(reg)),
		WithSink(cfg.Loader.Sink),
	)
	return p, cleanup, nil
}

func buildLoader(ctx context.Context, cfg *config.JobConfig, logger *slog.Logger) (load.Loader, func(), error) {
	switch cfg.Loader.Sink {
	case config.SinkBigQuery:
		l, err := load.NewBigQueryLoader(ctx, cfg.BigQuery, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("create bigquery loader: %w", err)
		}
		return l, func() {
			if err := l.Close(); err != nil {
				logger.Warn("close bigquery client", "error", err)
			}
		}, nil

	case config.SinkPostgres:
		pool, err := database.Connect(ctx, cfg.Database.Postgres)
		if err != nil {
			return nil, nil, fmt.Errorf("connect postgres: %w", err)
		}
		l, err := load.NewPostgresLoader(pool, cfg.Database.Table, logger)
		if err != nil {
			pool.Close()
			return nil, nil, err
		}
		return l, pool.Close, nil

	default:
		return nil, nil, fmt.Errorf("unknown sink %q", cfg.Loader.Sink)
	}
}

// Entities converts the configured entity list.
func Entities(cfg *config.JobConfig) []model.Entity {
	out := make([]model.Entity, len(cfg.Entities))
	for i, e := range cfg.Entities {
		out[i] = model.Entity{Name: e.Name, ID: e.ID}
	}
	return out
}

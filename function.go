// Package stockstats is the Cloud Functions entry point of the statistics job.
//
// The function "StockStats" receives Pub/Sub CloudEvents. Its handler is built
// on the first event from the embedded configuration and the environment
// (RAPIDAPI_API_KEY, BQ_PROJECT_DATASET_TABLE, ...), then reused for the life
// of the instance.
package stockstats

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"sync"

	"github.com/GoogleCloudPlatform/functions-framework-go/functions"
	"github.com/cloudevents/sdk-go/v2/event"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/rickgao/stockstats/internal/config"
	"github.com/rickgao/stockstats/internal/logging"
	"github.com/rickgao/stockstats/internal/pipeline"
	"github.com/rickgao/stockstats/internal/trigger"
	"github.com/rickgao/stockstats/internal/version"
)

// FunctionName is the registered CloudEvent function.
const FunctionName = "StockStats"

func init() {
	functions.CloudEvent(FunctionName, StockStats)
}

var (
	handlerOnce sync.Once
	handler     *trigger.Handler
	handlerErr  error
)

// StockStats handles one Pub/Sub delivery.
func StockStats(ctx context.Context, e event.Event) error {
	handlerOnce.Do(func() {
		cfg, err := config.LoadEmbedded()
		if err != nil {
			handlerErr = err
			return
		}
		logger := logging.New(cfg.Logging, os.Stdout)
		handler, _, handlerErr = newHandler(cfg, logger, prometheus.DefaultRegisterer)
	})
	if handlerErr != nil {
		slog.Error("function not configured", "error", handlerErr)
		return handlerErr
	}
	return handler.HandleCloudEvent(ctx, e)
}

// Configure builds the function's handler from cfg instead of the embedded
// configuration. It must be called before the first event is served.
func Configure(cfg *config.JobConfig, logger *slog.Logger, reg prometheus.Registerer) (*trigger.Handler, func(), error) {
	var cleanup func()
	configured := false
	handlerOnce.Do(func() {
		configured = true
		handler, cleanup, handlerErr = newHandler(cfg, logger, reg)
	})
	if !configured {
		return nil, nil, errors.New("function handler already initialized")
	}
	if handlerErr != nil {
		return nil, nil, handlerErr
	}
	return handler, cleanup, nil
}

func newHandler(cfg *config.JobConfig, logger *slog.Logger, reg prometheus.Registerer) (*trigger.Handler, func(), error) {
	logger = logger.With("instance", cfg.Instance.ID)
	logger.Info("initializing function",
		"function", FunctionName,
		"version", version.Version,
		"commit", version.Commit,
		"sink", cfg.Loader.Sink,
		"entities", len(cfg.Entities),
	)

	// Sink clients live for the whole instance.
	p, cleanup, err := pipeline.Build(context.Background(), cfg, logger, reg)
	if err != nil {
		return nil, nil, err
	}
	return trigger.NewHandler(cfg.Trigger.Command, p, logger), cleanup, nil
}

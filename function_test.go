package stockstats

import (
	"context"
	"log/slog"
	"testing"

	"github.com/cloudevents/sdk-go/v2/event"

	"github.com/rickgao/stockstats/internal/config"
)

func TestConfigure(t *testing.T) {
	cfg := &config.JobConfig{
		Instance: config.InstanceConfig{ID: "test"},
		Loader:   config.LoaderConfig{Sink: "s3"},
	}

	if _, _, err := Configure(cfg, slog.Default(), nil); err == nil {
		t.Fatal("Configure() expected error for unknown sink")
	}

	if _, _, err := Configure(cfg, slog.Default(), nil); err == nil {
		t.Error("second Configure() expected already initialized error")
	}

	e := event.New()
	e.SetID("1")
	e.SetSource("test")
	e.SetType("google.cloud.pubsub.topic.v1.messagePublished")
	if err := StockStats(context.Background(), e); err == nil {
		t.Error("StockStats() expected configuration error")
	}
}

package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNew_Registers(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.Runs.WithLabelValues(OutcomeSuccess).Inc()
	m.Runs.WithLabelValues(OutcomeSkipped).Add(2)
	m.EntitiesFetched.Add(6)
	m.RowsLoaded.WithLabelValues("bigquery").Add(6)
	m.ObserveStage(StageExtract, time.Now().Add(-time.Second))

	if got := testutil.ToFloat64(m.Runs.WithLabelValues(OutcomeSuccess)); got != 1 {
		t.Errorf("runs{success} = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.Runs.WithLabelValues(OutcomeSkipped)); got != 2 {
		t.Errorf("runs{skipped} = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.EntitiesFetched); got != 6 {
		t.Errorf("entities_fetched = %v, want 6", got)
	}
	if got := testutil.ToFloat64(m.RowsLoaded.WithLabelValues("bigquery")); got != 6 {
		t.Errorf("rows_loaded{bigquery} = %v, want 6", got)
	}
	if got := testutil.CollectAndCount(m.StageDuration); got != 1 {
		t.Errorf("stage_duration series = %d, want 1", got)
	}

	n, err := testutil.GatherAndCount(reg, "stockstats_build_info")
	if err != nil {
		t.Fatalf("GatherAndCount() error = %v", err)
	}
	if n != 1 {
		t.Errorf("build_info series = %d, want 1", n)
	}
}

func TestNew_NilRegisterer(t *testing.T) {
	m := New(nil)
	m.Runs.WithLabelValues(OutcomeFailure).Inc()
	if got := testutil.ToFloat64(m.Runs.WithLabelValues(OutcomeFailure)); got != 1 {
		t.Errorf("runs{failure} = %v, want 1", got)
	}
}

func TestHandler(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)
	m.EntitiesFetched.Add(3)

	rec := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, _ := io.ReadAll(rec.Body)
	if !strings.Contains(string(body), "stockstats_entities_fetched_total 3") {
		t.Errorf("metrics output missing entities_fetched_total:\n%s", body)
	}
}

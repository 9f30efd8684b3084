package pipeline

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/guregu/null/v6"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/rickgao/stockstats/internal/config"
	"github.com/rickgao/stockstats/internal/extract"
	"github.com/rickgao/stockstats/internal/load"
	"github.com/rickgao/stockstats/internal/metrics"
	"github.com/rickgao/stockstats/internal/model"
	"github.com/rickgao/stockstats/internal/transform"
)

type fakeFetcher struct {
	raws  []model.RawStat
	err   error
	calls int
}

func (f *fakeFetcher) Fetch(ctx context.Context, entities []model.Entity) ([]model.RawStat, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.raws, nil
}

func rawFor(stock, marketCap string) model.RawStat {
	return model.RawStat{
		Stock: stock,
		Stats: []model.Stat{
			{Name: "Market Cap (M)", Value: null.StringFrom(marketCap)},
			{Name: "P/E Ratio", Value: null.StringFrom("25.1")},
		},
	}
}

func testEntities() []model.Entity {
	return Entities(&config.JobConfig{Entities: config.DefaultEntities()})
}

func TestPipeline_Run(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	fetcher := &fakeFetcher{}
	for _, e := range testEntities() {
		fetcher.raws = append(fetcher.raws, rawFor(e.ID, "1,000"))
	}

	var loaded *model.Table
	loader := load.NewMockLoader(ctrl)
	loader.EXPECT().Load(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, table *model.Table) (*load.Result, error) {
			loaded = table
			return &load.Result{JobID: load.JobID(table), Rows: table.Len()}, nil
		})

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	runStart := time.Date(2024, 3, 1, 14, 30, 0, 0, time.UTC)

	p := New(testEntities(), fetcher, transform.NewNormalizer(transform.TimestampPerRun, nil), loader,
		WithMetrics(m),
		WithSink("bigquery"),
		WithClock(func() time.Time { return runStart }),
	)

	res, err := p.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if res.Fetched != 6 || res.Loaded != 6 {
		t.Errorf("Fetched/Loaded = %d/%d, want 6/6", res.Fetched, res.Loaded)
	}
	if res.JobID != "stockstats_"+res.RunID.String() {
		t.Errorf("JobID = %q, want derived from run id %s", res.JobID, res.RunID)
	}
	if loaded.RunID != res.RunID {
		t.Errorf("table RunID = %s, want %s", loaded.RunID, res.RunID)
	}
	for i := range loaded.Rows {
		if got := loaded.Cell(i, "market_cap_in_m"); got != 1000.0 {
			t.Errorf("row %d market_cap_in_m = %v, want 1000", i, got)
		}
		if !loaded.Rows[i].UpdatedAt.Equal(runStart) {
			t.Errorf("row %d UpdatedAt = %v, want %v", i, loaded.Rows[i].UpdatedAt, runStart)
		}
	}

	if got := testutil.ToFloat64(m.Runs.WithLabelValues(metrics.OutcomeSuccess)); got != 1 {
		t.Errorf("runs{success} = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.EntitiesFetched); got != 6 {
		t.Errorf("entities_fetched = %v, want 6", got)
	}
	if got := testutil.ToFloat64(m.RowsLoaded.WithLabelValues("bigquery")); got != 6 {
		t.Errorf("rows_loaded = %v, want 6", got)
	}
}

func TestPipeline_FetchErrorSkipsLoad(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	fetchErr := &extract.FetchError{Stock: "nflx:us", Err: extract.ErrNoData}
	loader := load.NewMockLoader(ctrl) // no EXPECT: any Load call fails the test

	m := metrics.New(nil)
	p := New(testEntities(), &fakeFetcher{err: fetchErr}, transform.NewNormalizer("", nil), loader, WithMetrics(m))

	_, err := p.Run(context.Background())
	if !errors.Is(err, extract.ErrNoData) {
		t.Fatalf("Run() error = %v, want ErrNoData", err)
	}

	var fe *extract.FetchError
	if !errors.As(err, &fe) || fe.Stock != "nflx:us" {
		t.Errorf("errors.As(*FetchError) stock = %v, want nflx:us", fe)
	}
	if got := testutil.ToFloat64(m.Runs.WithLabelValues(metrics.OutcomeFailure)); got != 1 {
		t.Errorf("runs{failure} = %v, want 1", got)
	}
}

func TestPipeline_CoerceErrorSkipsLoad(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	fetcher := &fakeFetcher{raws: []model.RawStat{rawFor("aapl:us", "n/a")}}
	p := New(testEntities()[:1], fetcher, transform.NewNormalizer("", nil), load.NewMockLoader(ctrl))

	_, err := p.Run(context.Background())

	var ce *transform.CoerceError
	if !errors.As(err, &ce) {
		t.Fatalf("Run() error = %v, want *CoerceError", err)
	}
	if ce.Column != "market_cap_in_m" {
		t.Errorf("Column = %q, want market_cap_in_m", ce.Column)
	}
}

func TestPipeline_LoadError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	loadErr := &load.LoadError{JobID: "job-1", Errors: []error{errors.New("quota exceeded")}}
	loader := load.NewMockLoader(ctrl)
	loader.EXPECT().Load(gomock.Any(), gomock.Any()).Return(nil, loadErr)

	fetcher := &fakeFetcher{raws: []model.RawStat{rawFor("aapl:us", "1")}}
	p := New(testEntities()[:1], fetcher, transform.NewNormalizer("", nil), loader)

	_, err := p.Run(context.Background())

	var le *load.LoadError
	if !errors.As(err, &le) || le.JobID != "job-1" {
		t.Fatalf("Run() error = %v, want *LoadError job-1", err)
	}
}

func TestPipeline_Skip(t *testing.T) {
	m := metrics.New(nil)
	p := New(nil, &fakeFetcher{}, transform.NewNormalizer("", nil), nil, WithMetrics(m))

	p.Skip()

	if got := testutil.ToFloat64(m.Runs.WithLabelValues(metrics.OutcomeSkipped)); got != 1 {
		t.Errorf("runs{skipped} = %v, want 1", got)
	}
}

func TestEntities(t *testing.T) {
	got := Entities(&config.JobConfig{Entities: []config.EntityConfig{
		{Name: "apple", ID: "aapl:us"},
		{Name: "netflix", ID: "nflx:us"},
	}})
	want := []model.Entity{{Name: "apple", ID: "aapl:us"}, {Name: "netflix", ID: "nflx:us"}}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("Entities() = %v, want %v", got, want)
	}
}

func TestBuild_UnknownSink(t *testing.T) {
	cfg := &config.JobConfig{Loader: config.LoaderConfig{Sink: "s3"}}
	if _, _, err := Build(context.Background(), cfg, nil, nil); err == nil {
		t.Error("Build() expected error for unknown sink")
	}
}

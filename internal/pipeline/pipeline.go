package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/rickgao/stockstats/internal/load"
	"github.com/rickgao/stockstats/internal/metrics"
	"github.com/rickgao/stockstats/internal/model"
)

// Fetcher retrieves raw statistics for a list of entities.
type Fetcher interface {
	Fetch(ctx context.Context, entities []model.Entity) ([]model.RawStat, error)
}

// Normalizer converts raw statistics into a table.
type Normalizer interface {
	Normalize(runID uuid.UUID, raws []model.RawStat, runStart time.Time) (*model.Table, error)
}

// Result summarizes a completed run.
type Result struct {
	RunID    uuid.UUID
	Fetched  int
	Loaded   int
	JobID    string
	Duration time.Duration
}

// Pipeline wires the three stages together.
type Pipeline struct {
	entities   []model.Entity
	fetcher    Fetcher
	normalizer Normalizer
	loader     load.Loader
	sink       string

	metrics *metrics.Metrics
	logger  *slog.Logger
	now     func() time.Time
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithMetrics records run outcomes and stage durations to m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(p *Pipeline) {
		p.metrics = m
	}
}

// WithSink names the sink in logs and metrics.
func WithSink(name string) Option {
	return func(p *Pipeline) {
		p.sink = name
	}
}

// WithClock sets the clock used for the run start time.
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) {
		p.now = now
	}
}

// New creates a Pipeline.
func New(entities []model.Entity, fetcher Fetcher, normalizer Normalizer, loader load.Loader, opts ...Option) *Pipeline {
	p := &Pipeline{
		entities:   entities,
		fetcher:    fetcher,
		normalizer: normalizer,
		loader:     loader,
		sink:       "unknown",
		logger:     slog.Default(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run executes one pass. Errors from each stage are returned wrapped, so
// *extract.FetchError, *transform.CoerceError and *load.LoadError remain
// reachable through errors.As.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	runID := uuid.New()
	start := p.now()
	logger := p.logger.With("run_id", runID.String())

	logger.Info("run started", "entities", len(p.entities), "sink", p.sink)

	res, err := p.run(ctx, logger, runID, start)
	if err != nil {
		p.countRun(metrics.OutcomeFailure)
		logger.Error("run failed", "error", err)
		return nil, err
	}

	p.countRun(metrics.OutcomeSuccess)
	if p.metrics != nil {
		p.metrics.LastSuccess.SetToCurrentTime()
	}
	logger.Info("run finished",
		"fetched", res.Fetched,
		"loaded", res.Loaded,
		"job_id", res.JobID,
		"duration", res.Duration,
	)
	return res, nil
}

func (p *Pipeline) run(ctx context.Context, logger *slog.Logger, runID uuid.UUID, start time.Time) (*Result, error) {
	stageStart := time.Now()
	raws, err := p.fetcher.Fetch(ctx, p.entities)
	p.observe(metrics.StageExtract, stageStart)
	if err != nil {
		return nil, fmt.Errorf("extract statistics: %w", err)
	}
	if p.metrics != nil {
		p.metrics.EntitiesFetched.Add(float64(len(raws)))
	}
	logger.Info(fmt.Sprintf("%d new record(s) are found", len(raws)), "count", len(raws))

	stageStart = time.Now()
	table, err := p.normalizer.Normalize(runID, raws, start)
	p.observe(metrics.StageTransform, stageStart)
	if err != nil {
		return nil, fmt.Errorf("transform statistics: %w", err)
	}

	stageStart = time.Now()
	loaded, err := p.loader.Load(ctx, table)
	p.observe(metrics.StageLoad, stageStart)
	if err != nil {
		return nil, fmt.Errorf("load statistics: %w", err)
	}
	if p.metrics != nil {
		p.metrics.RowsLoaded.WithLabelValues(p.sink).Add(float64(loaded.Rows))
	}
	logger.Info(fmt.Sprintf("%d record(s) inserted", loaded.Rows), "count", loaded.Rows, "job_id", loaded.JobID)

	return &Result{
		RunID:    runID,
		Fetched:  len(raws),
		Loaded:   loaded.Rows,
		JobID:    loaded.JobID,
		Duration: p.now().Sub(start),
	}, nil
}

// Skip records an invocation that did not run the pipeline.
func (p *Pipeline) Skip() {
	p.countRun(metrics.OutcomeSkipped)
}

func (p *Pipeline) countRun(outcome string) {
	if p.metrics != nil {
		p.metrics.Runs.WithLabelValues(outcome).Inc()
	}
}

func (p *Pipeline) observe(stage string, start time.Time) {
	if p.metrics != nil {
		p.metrics.ObserveStage(stage, start)
	}
}

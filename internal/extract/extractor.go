package extract

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/rickgao/stockstats/internal/api"
	"github.com/rickgao/stockstats/internal/model"
)

// StatisticsSource fetches the statistics of one entity.
type StatisticsSource interface {
	GetStatistics(ctx context.Context, id string) (*api.StatisticsResponse, error)
}

// Extractor fetches raw statistics for a fixed entity list.
type Extractor struct {
	source      StatisticsSource
	concurrency int
	logger      *slog.Logger
}

// New creates an Extractor. concurrency below 2 fetches sequentially.
func New(source StatisticsSource, concurrency int, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	if concurrency < 1 {
		concurrency = 1
	}
	return &Extractor{
		source:      source,
		concurrency: concurrency,
		logger:      logger,
	}
}

// Fetch returns one RawStat per entity in entity order. Any failure discards
// every result and is returned as a *FetchError.
func (e *Extractor) Fetch(ctx context.Context, entities []model.Entity) ([]model.RawStat, error) {
	e.logger.Info("extracting statistics",
		"entities", len(entities),
		"concurrency", e.concurrency,
	)

	if e.concurrency == 1 {
		return e.fetchSequential(ctx, entities)
	}
	return e.fetchParallel(ctx, entities)
}

func (e *Extractor) fetchSequential(ctx context.Context, entities []model.Entity) ([]model.RawStat, error) {
	out := make([]model.RawStat, 0, len(entities))
	for _, ent := range entities {
		raw, err := e.fetchOne(ctx, ent)
		if err != nil {
			return nil, err
		}
		out = append(out, raw)
	}
	return out, nil
}

// fetchParallel keeps failures deterministic: every entity is attempted and the
// error of the first failing entity in list order is returned.
func (e *Extractor) fetchParallel(ctx context.Context, entities []model.Entity) ([]model.RawStat, error) {
	out := make([]model.RawStat, len(entities))
	errs := make([]error, len(entities))

	var g errgroup.Group
	g.SetLimit(e.concurrency)

	for i, ent := range entities {
		g.Go(func() error {
			out[i], errs[i] = e.fetchOne(ctx, ent)
			return nil
		})
	}
	g.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (e *Extractor) fetchOne(ctx context.Context, ent model.Entity) (model.RawStat, error) {
	start := time.Now()

	resp, err := e.source.GetStatistics(ctx, ent.ID)
	if err != nil {
		e.logger.Warn("failed to fetch statistics", "stock", ent.ID, "error", err)
		return model.RawStat{}, &FetchError{Stock: ent.ID, Err: err}
	}

	table := resp.Statistics()
	if len(table) == 0 {
		e.logger.Warn("empty statistics table", "stock", ent.ID)
		return model.RawStat{}, &FetchError{Stock: ent.ID, Err: ErrNoData}
	}

	raw := model.RawStat{
		Stock: ent.ID,
		Stats: make([]model.Stat, len(table)),
	}
	for i, s := range table {
		raw.Stats[i] = model.Stat{Name: s.Name, Value: s.Value}
	}

	e.logger.Debug("fetched statistics",
		"stock", ent.ID,
		"name", ent.Name,
		"stats", len(raw.Stats),
		"duration", time.Since(start),
	)
	return raw, nil
}

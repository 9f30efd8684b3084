package transform

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/rickgao/stockstats/internal/model"
)

// TimestampMode selects how updated_at is assigned.
type TimestampMode string

const (
	// TimestampPerRun pins the run start time on every row.
	TimestampPerRun TimestampMode = "run"
	// TimestampPerRow captures the clock as each row is built.
	TimestampPerRow TimestampMode = "row"
)

// Normalizer converts raw statistics to a table.
type Normalizer struct {
	mode   TimestampMode
	now    func() time.Time
	logger *slog.Logger
}

// Option configures a Normalizer.
type Option func(*Normalizer)

// WithClock sets the clock used in TimestampPerRow mode.
func WithClock(now func() time.Time) Option {
	return func(n *Normalizer) {
		n.now = now
	}
}

// NewNormalizer creates a Normalizer.
func NewNormalizer(mode TimestampMode, logger *slog.Logger, opts ...Option) *Normalizer {
	if logger == nil {
		logger = slog.Default()
	}
	if mode == "" {
		mode = TimestampPerRun
	}
	n := &Normalizer{
		mode:   mode,
		now:    time.Now,
		logger: logger,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Normalize builds one row per RawStat. runStart is the updated_at of every row
// in TimestampPerRun mode.
func (n *Normalizer) Normalize(runID uuid.UUID, raws []model.RawStat, runStart time.Time) (*model.Table, error) {
	n.logger.Info("transforming statistics", "entities", len(raws), "timestamp_mode", string(n.mode))

	table := model.NewTable(runID)
	for _, raw := range raws {
		ts := runStart
		if n.mode == TimestampPerRow {
			ts = n.now()
		}

		row, err := n.normalizeOne(raw, ts.UTC().Truncate(time.Second))
		if err != nil {
			return nil, err
		}
		table.Append(row)
	}

	n.logger.Debug("table built", "rows", table.Len(), "columns", len(table.Columns))
	return table, nil
}

func (n *Normalizer) normalizeOne(raw model.RawStat, updatedAt time.Time) (model.Row, error) {
	row := model.NewRow(raw.Stock, updatedAt)

	for _, stat := range raw.Stats {
		key := Slugify(stat.Name)
		if key == model.ColumnStock || key == model.ColumnUpdatedAt {
			n.logger.Warn("statistic shadows reserved column, skipped", "stock", raw.Stock, "name", stat.Name)
			continue
		}

		if !stat.Value.Valid {
			row.Set(key, nil)
			continue
		}

		if !IsNumeric(key) {
			row.Set(key, CleanValue(stat.Value.String))
			continue
		}

		f, err := Coerce(key, stat.Value.String)
		if err != nil {
			return model.Row{}, &CoerceError{
				Stock:  raw.Stock,
				Column: key,
				Value:  stat.Value.String,
				Err:    fmt.Errorf("parse number: %w", err),
			}
		}
		row.Set(key, f)
	}

	return row, nil
}

package load

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/rickgao/stockstats/internal/model"
)

// Postgres sink columns. Statistics are stored as one JSONB document per row
// because the column set is only known after normalization.
var postgresColumns = []string{model.ColumnStock, model.ColumnUpdatedAt, "partition_date", "stats"}

// TxBeginner starts a transaction. *pgxpool.Pool satisfies it.
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// PostgresLoader overwrites a Postgres table with the latest statistics.
type PostgresLoader struct {
	db     TxBeginner
	table  pgx.Identifier
	logger *slog.Logger
}

// NewPostgresLoader creates a loader for table, given as "table" or "schema.table".
func NewPostgresLoader(db TxBeginner, table string, logger *slog.Logger) (*PostgresLoader, error) {
	if logger == nil {
		logger = slog.Default()
	}

	ident, err := ParseIdentifier(table)
	if err != nil {
		return nil, err
	}

	return &PostgresLoader{
		db:     db,
		table:  ident,
		logger: logger,
	}, nil
}

// ParseIdentifier splits "[schema.]table" into a quoted identifier.
func ParseIdentifier(s string) (pgx.Identifier, error) {
	parts := strings.Split(s, ".")
	if len(parts) > 2 {
		return nil, fmt.Errorf("invalid table name %q: want [schema.]table", s)
	}
	for _, p := range parts {
		if p == "" {
			return nil, fmt.Errorf("invalid table name %q: empty component", s)
		}
	}
	return pgx.Identifier(parts), nil
}

// Load replaces the table contents in one transaction. The table is created on
// first use.
func (l *PostgresLoader) Load(ctx context.Context, table *model.Table) (*Result, error) {
	jobID := JobID(table)
	name := l.table.Sanitize()

	tx, err := l.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, stmt := range createTableSQL(l.table) {
		if _, err := tx.Exec(ctx, stmt); err != nil {
			return nil, fmt.Errorf("create table %s: %w", name, err)
		}
	}
	if _, err := tx.Exec(ctx, "TRUNCATE TABLE "+name); err != nil {
		return nil, fmt.Errorf("truncate %s: %w", name, err)
	}

	n, err := tx.CopyFrom(ctx, l.table, postgresColumns, pgx.CopyFromRows(copyRows(table)))
	if err != nil {
		return nil, &LoadError{JobID: jobID, Errors: []error{fmt.Errorf("copy into %s: %w", name, err)}}
	}
	if int(n) != table.Len() {
		return nil, &LoadError{JobID: jobID, Errors: []error{fmt.Errorf("copied %d of %d rows", n, table.Len())}}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}

	l.logger.Info("postgres load done", "job_id", jobID, "table", name, "rows", n)
	return &Result{JobID: jobID, Rows: int(n)}, nil
}

func createTableSQL(ident pgx.Identifier) []string {
	name := ident.Sanitize()
	index := pgx.Identifier{ident[len(ident)-1] + "_partition_date_idx"}.Sanitize()
	return []string{
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				stock          TEXT        NOT NULL,
				updated_at     TIMESTAMPTZ NOT NULL,
				partition_date DATE        NOT NULL,
				stats          JSONB       NOT NULL
			)`, name),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s ON %s (partition_date)`, index, name),
	}
}

// copyRows converts the table to COPY rows in postgresColumns order.
func copyRows(table *model.Table) [][]any {
	rows := make([][]any, 0, table.Len())
	for i, r := range table.Rows {
		stats := make(map[string]any, len(table.Columns))
		for _, c := range table.Columns {
			if c == model.ColumnStock || c == model.ColumnUpdatedAt {
				continue
			}
			stats[c] = table.Cell(i, c)
		}

		ts := r.UpdatedAt.UTC()
		rows = append(rows, []any{
			r.Stock,
			ts,
			time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, time.UTC),
			stats,
		})
	}
	return rows
}

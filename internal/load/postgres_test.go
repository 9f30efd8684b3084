package load

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// fakeTx records the statements of one transaction. Unused pgx.Tx methods panic.
type fakeTx struct {
	pgx.Tx

	execs      []string
	copyTable  pgx.Identifier
	copyCols   []string
	copied     [][]any
	copyErr    error
	committed  bool
	rolledBack bool
}

func (f *fakeTx) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	f.execs = append(f.execs, sql)
	return pgconn.CommandTag{}, nil
}

func (f *fakeTx) CopyFrom(ctx context.Context, table pgx.Identifier, cols []string, src pgx.CopyFromSource) (int64, error) {
	if f.copyErr != nil {
		return 0, f.copyErr
	}
	f.copyTable = table
	f.copyCols = cols
	for src.Next() {
		vals, err := src.Values()
		if err != nil {
			return 0, err
		}
		f.copied = append(f.copied, vals)
	}
	return int64(len(f.copied)), src.Err()
}

func (f *fakeTx) Commit(ctx context.Context) error {
	f.committed = true
	return nil
}

func (f *fakeTx) Rollback(ctx context.Context) error {
	if !f.committed {
		f.rolledBack = true
	}
	return nil
}

type fakeDB struct {
	tx *fakeTx
}

func (d *fakeDB) Begin(ctx context.Context) (pgx.Tx, error) {
	return d.tx, nil
}

func TestParseIdentifier(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "stock_statistics", want: `"stock_statistics"`},
		{in: "market.stock_statistics", want: `"market"."stock_statistics"`},
		{in: "a.b.c", wantErr: true},
		{in: ".stats", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseIdentifier(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Errorf("ParseIdentifier(%q) expected error", tt.in)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseIdentifier(%q) error = %v", tt.in, err)
			}
			if got.Sanitize() != tt.want {
				t.Errorf("Sanitize() = %s, want %s", got.Sanitize(), tt.want)
			}
		})
	}
}

func TestPostgresLoader_Load(t *testing.T) {
	tx := &fakeTx{}
	l, err := NewPostgresLoader(&fakeDB{tx: tx}, "market.stock_statistics", nil)
	if err != nil {
		t.Fatalf("NewPostgresLoader() error = %v", err)
	}

	table := testTable()
	res, err := l.Load(context.Background(), table)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if res.Rows != 2 {
		t.Errorf("Rows = %d, want 2", res.Rows)
	}
	if res.JobID != JobID(table) {
		t.Errorf("JobID = %q, want %q", res.JobID, JobID(table))
	}
	if !tx.committed {
		t.Error("transaction not committed")
	}
	if tx.rolledBack {
		t.Error("transaction rolled back after commit")
	}

	if len(tx.execs) != 3 {
		t.Fatalf("got %d statements, want 3", len(tx.execs))
	}
	if !strings.Contains(tx.execs[0], `CREATE TABLE IF NOT EXISTS "market"."stock_statistics"`) {
		t.Errorf("first statement = %q, want CREATE TABLE", tx.execs[0])
	}
	if tx.execs[2] != `TRUNCATE TABLE "market"."stock_statistics"` {
		t.Errorf("third statement = %q, want TRUNCATE", tx.execs[2])
	}

	if tx.copyTable.Sanitize() != `"market"."stock_statistics"` {
		t.Errorf("copy table = %s", tx.copyTable.Sanitize())
	}
	if strings.Join(tx.copyCols, ",") != "stock,updated_at,partition_date,stats" {
		t.Errorf("copy columns = %v", tx.copyCols)
	}

	row := tx.copied[0]
	if row[0] != "aapl:us" {
		t.Errorf("stock = %v, want aapl:us", row[0])
	}
	if want := time.Date(2024, 3, 1, 14, 30, 15, 0, time.UTC); !row[1].(time.Time).Equal(want) {
		t.Errorf("updated_at = %v, want %v", row[1], want)
	}
	if want := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC); !row[2].(time.Time).Equal(want) {
		t.Errorf("partition_date = %v, want %v", row[2], want)
	}

	stats := row[3].(map[string]any)
	if stats["market_cap_in_m"] != 2801455.0 {
		t.Errorf("stats.market_cap_in_m = %v, want 2801455", stats["market_cap_in_m"])
	}
	if v, ok := stats["5y_net_dividend_growth"]; !ok || v != nil {
		t.Errorf("stats.5y_net_dividend_growth = %v (present %v), want null", v, ok)
	}
	if _, ok := stats["stock"]; ok {
		t.Error("stats should not repeat the stock column")
	}
}

func TestPostgresLoader_CopyFailureRollsBack(t *testing.T) {
	tx := &fakeTx{copyErr: errors.New("connection reset")}
	l, err := NewPostgresLoader(&fakeDB{tx: tx}, "stock_statistics", nil)
	if err != nil {
		t.Fatalf("NewPostgresLoader() error = %v", err)
	}

	_, err = l.Load(context.Background(), testTable())

	var le *LoadError
	if !errors.As(err, &le) {
		t.Fatalf("expected *LoadError, got %T (%v)", err, err)
	}
	if tx.committed {
		t.Error("transaction committed after copy failure")
	}
	if !tx.rolledBack {
		t.Error("transaction not rolled back")
	}
}

package load

import (
	"context"
	"errors"
	"fmt"

	"github.com/rickgao/stockstats/internal/model"
)

//go:generate mockgen -destination=mock_loader.go -package=load github.com/rickgao/stockstats/internal/load Loader

// Loader writes a table to a sink.
type Loader interface {
	Load(ctx context.Context, table *model.Table) (*Result, error)
}

// Result describes a completed load.
type Result struct {
	JobID string
	Rows  int
}

// LoadError reports a load job that failed or finished with row-level errors.
type LoadError struct {
	JobID  string
	Errors []error
}

func (e *LoadError) Error() string {
	switch len(e.Errors) {
	case 0:
		return fmt.Sprintf("load job %s failed", e.JobID)
	case 1:
		return fmt.Sprintf("load job %s failed: %v", e.JobID, e.Errors[0])
	default:
		return fmt.Sprintf("load job %s failed with %d errors: %v", e.JobID, len(e.Errors), errors.Join(e.Errors...))
	}
}

func (e *LoadError) Unwrap() []error {
	return e.Errors
}

// JobID derives a sink job identifier from the run of table.
func JobID(table *model.Table) string {
	return "stockstats_" + table.RunID.String()
}

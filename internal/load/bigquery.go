package load

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"cloud.google.com/go/bigquery"
	"google.golang.org/api/option"

	"github.com/rickgao/stockstats/internal/config"
	"github.com/rickgao/stockstats/internal/model"
)

// TableID identifies a BigQuery table.
type TableID struct {
	Project string
	Dataset string
	Table   string
}

func (id TableID) String() string {
	return id.Project + "." + id.Dataset + "." + id.Table
}

// ParseTableID parses "project.dataset.table". The project may itself contain
// dots (e.g. "example.com:proj"), so the split is taken from the right.
func ParseTableID(s string) (TableID, error) {
	last := strings.LastIndex(s, ".")
	if last < 0 {
		return TableID{}, fmt.Errorf("invalid table id %q: want project.dataset.table", s)
	}
	mid := strings.LastIndex(s[:last], ".")
	if mid < 0 {
		return TableID{}, fmt.Errorf("invalid table id %q: want project.dataset.table", s)
	}

	id := TableID{
		Project: s[:mid],
		Dataset: s[mid+1 : last],
		Table:   s[last+1:],
	}
	if id.Project == "" || id.Dataset == "" || id.Table == "" {
		return TableID{}, fmt.Errorf("invalid table id %q: empty component", s)
	}
	return id, nil
}

// BigQueryLoader overwrites a day-partitioned BigQuery table through a load job.
type BigQueryLoader struct {
	client         *bigquery.Client
	table          TableID
	location       string
	partitionField string
	logger         *slog.Logger
}

// NewBigQueryLoader creates a client for the configured table. An empty
// credentials file falls back to application default credentials.
func NewBigQueryLoader(ctx context.Context, cfg config.BigQueryConfig, logger *slog.Logger) (*BigQueryLoader, error) {
	id, err := ParseTableID(cfg.Table)
	if err != nil {
		return nil, err
	}

	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}

	client, err := bigquery.NewClient(ctx, id.Project, opts...)
	if err != nil {
		return nil, fmt.Errorf("create bigquery client: %w", err)
	}

	return NewBigQueryLoaderWithClient(client, cfg, logger)
}

// NewBigQueryLoaderWithClient creates a loader using an existing client.
func NewBigQueryLoaderWithClient(client *bigquery.Client, cfg config.BigQueryConfig, logger *slog.Logger) (*BigQueryLoader, error) {
	if logger == nil {
		logger = slog.Default()
	}

	id, err := ParseTableID(cfg.Table)
	if err != nil {
		return nil, err
	}

	field := cfg.PartitionField
	if field == "" {
		field = model.ColumnUpdatedAt
	}

	return &BigQueryLoader{
		client:         client,
		table:          id,
		location:       cfg.Location,
		partitionField: field,
		logger:         logger,
	}, nil
}

// Table returns the target table.
func (l *BigQueryLoader) Table() TableID {
	return l.table
}

// Close releases the BigQuery client.
func (l *BigQueryLoader) Close() error {
	return l.client.Close()
}

// Load submits the table as a load job and waits for it to finish.
func (l *BigQueryLoader) Load(ctx context.Context, table *model.Table) (*Result, error) {
	data, err := MarshalNDJSON(table)
	if err != nil {
		return nil, fmt.Errorf("encode table: %w", err)
	}

	loader := l.newLoader(JobID(table), data)

	l.logger.Info("submitting load job",
		"job_id", loader.JobID,
		"table", l.table.String(),
		"rows", table.Len(),
		"bytes", len(data),
	)

	job, err := loader.Run(ctx)
	if err != nil {
		return nil, fmt.Errorf("start load job: %w", err)
	}

	status, err := job.Wait(ctx)
	if err != nil {
		return nil, fmt.Errorf("wait for load job %s: %w", job.ID(), err)
	}
	if err := statusError(job.ID(), status); err != nil {
		return nil, err
	}

	l.logger.Info("load job done", "job_id", job.ID(), "rows", table.Len())
	return &Result{JobID: job.ID(), Rows: table.Len()}, nil
}

// newLoader builds the job: NDJSON source with autodetected schema, truncating
// write, table created on first run, day partitioning.
func (l *BigQueryLoader) newLoader(jobID string, data []byte) *bigquery.Loader {
	src := bigquery.NewReaderSource(bytes.NewReader(data))
	src.SourceFormat = bigquery.JSON
	src.AutoDetect = true

	loader := l.client.DatasetInProject(l.table.Project, l.table.Dataset).Table(l.table.Table).LoaderFrom(src)
	loader.JobID = jobID
	loader.Location = l.location
	loader.CreateDisposition = bigquery.CreateIfNeeded
	loader.WriteDisposition = bigquery.WriteTruncate
	loader.TimePartitioning = &bigquery.TimePartitioning{
		Type:  bigquery.DayPartitioningType,
		Field: l.partitionField,
	}
	return loader
}

func statusError(jobID string, status *bigquery.JobStatus) error {
	if status == nil {
		return nil
	}

	var errs []error
	if err := status.Err(); err != nil {
		errs = append(errs, err)
	}
	for _, e := range status.Errors {
		if e == nil {
			continue
		}
		dup := false
		for _, prev := range errs {
			var be *bigquery.Error
			if errors.As(prev, &be) && *be == *e {
				dup = true
				break
			}
		}
		if !dup {
			errs = append(errs, e)
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return &LoadError{JobID: jobID, Errors: errs}
}

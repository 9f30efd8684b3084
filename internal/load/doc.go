// Package load writes a normalized statistics table to its sink.
//
// Two sinks implement Loader:
//   - BigQueryLoader: NDJSON load job, autodetected schema, full overwrite,
//     day partitioning on updated_at
//   - PostgresLoader: TRUNCATE + COPY of one JSONB document per row inside a
//     single transaction
//
// Both replace the target's previous contents on every run and leave it
// untouched when the load fails.
package load

// Package metrics provides Prometheus metrics for the statistics job.
//
// Key metrics:
//   - Runs by outcome (success, failure, skipped)
//   - Entities fetched and rows loaded per sink
//   - Stage latencies (extract, transform, load)
//   - Build information
package metrics

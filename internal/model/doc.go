// Package model defines the data types passed between the pipeline stages.
//
// Conventions:
//   - Entity IDs are exchange-qualified tickers ("aapl:us")
//   - Column names are slugs (lowercase, punctuation replaced by underscores)
//   - Cell values are string, float64 or nil (null)
//   - Timestamps are UTC with second precision
package model

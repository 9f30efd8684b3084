// Package database opens the PostgreSQL pool used by the Postgres statistics sink.
package database

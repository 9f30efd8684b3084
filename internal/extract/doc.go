// Package extract implements the fetch stage: one statistics request per entity,
// in configured order, with all-or-nothing results.
package extract

// Package pipeline runs one extract, transform and load pass over the
// configured entities.
//
// A run is all-or-nothing: a failure in any stage returns before the sink is
// touched or leaves the sink's previous contents in place.
package pipeline

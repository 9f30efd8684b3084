// Package scheduler delivers the trigger command on a fixed interval.
//
// It stands in for Cloud Scheduler + Pub/Sub when the function is hosted
// locally with "stockstats serve". Runs never overlap: a tick that arrives
// while a run is in progress is dropped.
package scheduler

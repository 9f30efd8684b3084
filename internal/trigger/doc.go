// Package trigger adapts inbound events to pipeline runs.
//
// An event carries a command string. Only the configured sentinel command
// ("Invoke" by default) starts a run; any other command is logged and
// acknowledged without doing work.
package trigger

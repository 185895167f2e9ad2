// Package datadog reports pass outcomes to a DogStatsD agent: one event per
// pass describing what happened, plus the certsync.status service check as a
// binary health signal (OK after a successful pass, CRITICAL after a failed
// one).
//
// The agent endpoint comes from the environment:
//
//	DOGSTATSD_HOST agent host (default 127.0.0.1)
//	DOGSTATSD_PORT agent port (default 8125)
//
// Emission failures are returned to the caller for logging; monitoring must
// never take the daemon down.
package datadog

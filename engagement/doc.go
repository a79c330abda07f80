// Package engagement provides default persistence helpers for the
// go-homebrief EngagementSink. The Repository implements both the sink
// (writes) and the EngagementRepository read-side contract so UI surfaces can
// log interactions and the signal aggregator can later read them back. Host
// applications can swap the repository if they prefer a different storage
// engine.
package engagement

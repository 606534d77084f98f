// Package telemetry provides the process-wide structured logger (§6a),
// generalized from the teacher's internal/telemetry package. Metrics live
// in the sibling internal/metrics package rather than here, matching the
// split SPEC_FULL.md §6a draws between logging and metrics.
package telemetry

// Package cli implements the orchestrator's command line tool.
//
// # Overview
//
// The CLI is a thin client over the REST adapter (internal/api): every
// command issues HTTP requests and never imports the orchestrator's
// internal packages directly, matching the teacher's client/server split.
//
// # Components
//
// Client wraps every HTTP call (list/post/get), decoding the shared
// DataResponse/ListResponse/ErrorResponse envelopes internal/api writes.
//
// Output renders either a tab-aligned table (default) or indented JSON
// (--json), writing data to stdout and messages to stderr so the table
// output stays pipeable: automata task list --json | jq .
//
// Commands are grouped by resource, each built by a factory taking
// clientFn/outputFn closures so Client/Output are constructed lazily,
// after cobra parses the root command's persistent flags:
//   - task: list, create, show, from-template
//   - workflow: execute, status, cancel, approve
package cli

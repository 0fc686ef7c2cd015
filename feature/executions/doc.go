// Package executions exposes the execution history over HTTP.
//
// Routes:
//   - GET /executions lists the newest executions, optionally filtered by
//     ?workflow= and bounded by ?limit=
//   - GET /executions/:id returns one execution with its node states
package executions

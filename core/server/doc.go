// Package server holds the HTTP server configuration.
//
// The serve command owns the Fiber application itself; this package only
// describes how it listens and how long a workflow run started over HTTP
// may take.
//
// # Configuration
//
// The Config struct defines the HTTP port, the API key and the run timeout.
package server

package server

import "time"

// Config holds configuration for the HTTP server.
type Config struct {
	// Port is the port where the server will listen.
	Port string `mapstructure:"port" default:"8080"`
	// ApiKey is the secret key required to access the API.
	ApiKey string `mapstructure:"api_key" default:""`
	// RunTimeoutSeconds bounds a workflow run triggered over HTTP. 0 disables the bound.
	RunTimeoutSeconds int `mapstructure:"run_timeout_seconds" default:"300"`
}

// Address returns the listen address.
func (c Config) Address() string {
	return ":" + c.Port
}

// RunTimeout returns the HTTP run bound as a duration.
func (c Config) RunTimeout() time.Duration {
	if c.RunTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(c.RunTimeoutSeconds) * time.Second
}

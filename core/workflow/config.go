package workflow

import "time"

// Config holds configuration for the workflow runner.
type Config struct {
	// MaxParallel bounds the number of tasks running at once. 1 runs the
	// workflow sequentially; 0 removes the bound.
	MaxParallel int `mapstructure:"max_parallel" default:"4"`
	// FailurePolicy is fail_immediately or fail_after_executable_nodes_complete.
	FailurePolicy string `mapstructure:"failure_policy" default:"fail_immediately"`
	// CacheTTLSeconds expires cached task outputs; 0 keeps them for the
	// lifetime of the process.
	CacheTTLSeconds int `mapstructure:"cache_ttl_seconds" default:"0"`
	// DefinitionsDir holds extra YAML workflow definitions. Empty disables loading.
	DefinitionsDir string `mapstructure:"definitions_dir" default:""`
}

// CacheTTL returns the cache expiry as a duration.
func (c Config) CacheTTL() time.Duration {
	if c.CacheTTLSeconds <= 0 {
		return 0
	}
	return time.Duration(c.CacheTTLSeconds) * time.Second
}

// Policy returns the configured failure policy, defaulting to FailImmediately.
func (c Config) Policy() FailurePolicy {
	if FailurePolicy(c.FailurePolicy) == FailAfterExecutableNodesComplete {
		return FailAfterExecutableNodesComplete
	}
	return FailImmediately
}

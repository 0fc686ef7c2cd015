package config

import (
	"os"
	"path/filepath"
	"testing"

	"chainflow/core/database"
	"chainflow/core/workflow"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "chain-flyte-entities", cfg.Storage.Bucket)
	assert.Equal(t, "localhost:30002", cfg.Storage.Endpoint)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, database.DriverSQLite, cfg.Database.Driver)
	assert.Equal(t, 4, cfg.Workflow.MaxParallel)
	assert.Equal(t, workflow.FailImmediately, cfg.Workflow.Policy())
}

func TestLoadConfig_Environment(t *testing.T) {
	t.Setenv("STORAGE_ENDPOINT", "minio.internal:9000")
	t.Setenv("WORKFLOW_MAX_PARALLEL", "1")
	t.Setenv("WORKFLOW_FAILURE_POLICY", "fail_after_executable_nodes_complete")

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "minio.internal:9000", cfg.Storage.Endpoint)
	assert.Equal(t, 1, cfg.Workflow.MaxParallel)
	assert.Equal(t, workflow.FailAfterExecutableNodesComplete, cfg.Workflow.Policy())
}

func TestLoadConfig_DotEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("STORAGE_BUCKET=from-dotenv\nLOG_FORMAT=json\n"), 0o644))
	t.Cleanup(func() {
		os.Unsetenv("STORAGE_BUCKET")
		os.Unsetenv("LOG_FORMAT")
	})

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, "from-dotenv", cfg.Storage.Bucket)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestBindValues(t *testing.T) {
	type nested struct {
		Value string `mapstructure:"value" default:"inner"`
	}
	type root struct {
		Name   string `mapstructure:"name" default:"outer"`
		Nested nested `mapstructure:"nested"`
		Ignore string
	}

	v := viper.New()
	bindValues(v, root{}, "")

	assert.Equal(t, "outer", v.GetString("name"))
	assert.Equal(t, "inner", v.GetString("nested.value"))
	assert.False(t, v.IsSet("ignore"))
}

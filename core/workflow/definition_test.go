package workflow

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const chainDefinition = `
name: chain_from_yaml
nodes:
  - id: create
    task: create_bucket
  - id: write
    task: write
    after: [create]
  - id: read
    task: read
    after: [write]
output: read
`

func TestParseDefinitionYAML(t *testing.T) {
	def, err := ParseDefinitionYAML([]byte(chainDefinition))
	require.NoError(t, err)
	assert.Equal(t, "chain_from_yaml", def.Name)
	require.Len(t, def.Nodes, 3)
	assert.Equal(t, []string{"write"}, def.Nodes[2].After)
	assert.Equal(t, "read", def.Output)
}

func TestParseDefinitionYAMLRejectsInvalid(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		want    string
	}{
		{"Empty", "   ", "definition payload is empty"},
		{"MissingName", "nodes: []", "name is required"},
		{"MissingID", "name: x\nnodes:\n  - task: a\n", "id is required"},
		{"TaskAndWorkflow", "name: x\nnodes:\n  - id: a\n    task: a\n    workflow: b\n", "exactly one of task or workflow"},
		{"UnknownAfter", "name: x\nnodes:\n  - id: a\n    task: a\n    after: [missing]\n", "references unknown node missing"},
		{"UnknownOutput", "name: x\nnodes:\n  - id: a\n    task: a\noutput: b\n", "output references unknown node b"},
		{"Duplicate", "name: x\nnodes:\n  - id: a\n    task: a\n  - id: a\n    task: b\n", "duplicate node id a"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseDefinitionYAML([]byte(tt.payload))
			require.Error(t, err)
			assert.True(t, strings.Contains(err.Error(), tt.want), err.Error())
		})
	}
}

func TestRegistryBuild(t *testing.T) {
	tl := &timeline{}
	reg := NewRegistry()
	reg.RegisterTask(
		tl.task("create_bucket", 10*time.Millisecond),
		tl.task("write", 10*time.Millisecond),
		tl.task("read", 0),
	)

	def, err := ParseDefinitionYAML([]byte(chainDefinition))
	require.NoError(t, err)

	wf, err := reg.Build(def)
	require.NoError(t, err)

	exec, err := NewRunner(zap.NewNop()).Run(context.Background(), wf)
	require.NoError(t, err)
	assert.Equal(t, "read", exec.Output)
	assert.Greater(t, tl.index("write", "start"), tl.index("create_bucket", "end"))
	assert.Greater(t, tl.index("read", "start"), tl.index("write", "end"))
}

func TestRegistryBuildUnknownEntity(t *testing.T) {
	def, err := ParseDefinitionYAML([]byte(chainDefinition))
	require.NoError(t, err)

	_, err = NewRegistry().Build(def)
	assert.ErrorIs(t, err, ErrUnknownEntity)
	assert.ErrorContains(t, err, "task create_bucket (workflow chain_from_yaml node create)")

	sub := Definition{Name: "outer", Nodes: []NodeDefinition{{ID: "inner", Workflow: "missing_wf"}}}
	_, err = NewRegistry().Build(sub)
	assert.ErrorContains(t, err, "workflow missing_wf (workflow outer node inner)")
}

func TestLoadDefinitionReader(t *testing.T) {
	def, err := LoadDefinitionReader(strings.NewReader(chainDefinition))
	require.NoError(t, err)
	assert.Equal(t, "chain_from_yaml", def.Name)
	assert.Equal(t, "create_bucket", def.Nodes[0].Entity())

	_, err = LoadDefinitionReader(strings.NewReader(""))
	assert.ErrorIs(t, err, ErrInvalidDefinition)
}

func TestRegistryBuildAndRegisterSubWorkflows(t *testing.T) {
	tl := &timeline{}
	reg := NewRegistry()
	reg.RegisterTask(tl.task("write", 0), tl.task("read", 0))

	defs := []Definition{
		{Name: "write_sub", Nodes: []NodeDefinition{{ID: "write", Task: "write"}}},
		{Name: "read_sub", Nodes: []NodeDefinition{{ID: "read", Task: "read"}}, Output: "read"},
		{
			Name: "outer",
			Nodes: []NodeDefinition{
				{ID: "w", Workflow: "write_sub"},
				{ID: "r", Workflow: "read_sub", After: []string{"w"}},
			},
			Output: "r",
		},
	}
	require.NoError(t, reg.BuildAndRegister(defs...))
	assert.Equal(t, []string{"outer", "read_sub", "write_sub"}, reg.Workflows())

	outer, ok := reg.Workflow("outer")
	require.True(t, ok)
	exec, err := NewRunner(zap.NewNop()).Run(context.Background(), outer)
	require.NoError(t, err)
	assert.Equal(t, "read", exec.Output)
	assert.Greater(t, tl.index("read", "start"), tl.index("write", "end"))
}

func TestLoadDefinitionDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "chain.yaml"), []byte(chainDefinition), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644))

	defs, err := LoadDefinitionDir(dir)
	require.NoError(t, err)
	require.Len(t, defs, 1)
	assert.Equal(t, "chain_from_yaml", defs[0].Name)

	_, err = LoadDefinitionDir(filepath.Join(dir, "missing"))
	assert.Error(t, err)
}

func TestWorkflowDOT(t *testing.T) {
	tl := &timeline{}
	sub := New("write_sub_workflow")
	sub.Call(tl.task("write", 0))

	wf := New("chain_workflows_wf")
	a := wf.Call(tl.task("create_bucket", 0))
	b := wf.Call(sub)
	a.Then(b)

	var sb strings.Builder
	require.NoError(t, wf.DOT(&sb))
	out := sb.String()
	assert.Contains(t, out, "digraph")
	assert.Contains(t, out, `"create_bucket" -> "write_sub_workflow"`)
}

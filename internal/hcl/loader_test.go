package hcl_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/startupgo/internal/hcl"
	"github.com/vk/startupgo/internal/registry"
	"github.com/vk/startupgo/internal/startup"
)

func writePlan(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadSingleFile(t *testing.T) {
	path := writePlan(t, "plan.hcl", `
task "fetch_config" {
  handler = "ReadFile"
  key     = "010_config"

  input "path" {
    var = "config_path"
  }

  outputs = ["config"]
}

task "report" {
  handler = "Print"

  input "value" {
    var  = "config"
    mode = "all"
  }
}

value "config_path" {
  value = "/etc/app.conf"
}

value "retries" {
  value = 3
}

value "verbose" {
  value = true
}

value "tags" {
  value = ["a", "b"]
}

value "limits" {
  value = { cpu = 2, mem = 512 }
}
`)

	plan, err := hcl.NewLoader().Load(context.Background(), path)
	require.NoError(t, err)

	require.Len(t, plan.Tasks, 2)
	fetch := plan.Tasks[0]
	assert.Equal(t, "fetch_config", fetch.Name)
	assert.Equal(t, "ReadFile", fetch.Handler)
	assert.Equal(t, "010_config", fetch.Key)
	require.Len(t, fetch.Inputs, 1)
	assert.Equal(t, registry.InputSpec{Param: "path", Var: "config_path", Mode: startup.Latest}, fetch.Inputs[0])
	assert.Equal(t, []string{"config"}, fetch.Outputs)

	report := plan.Tasks[1]
	require.Len(t, report.Inputs, 1)
	assert.Equal(t, startup.All, report.Inputs[0].Mode)
	assert.Empty(t, report.Outputs)

	assert.Equal(t, map[string]any{
		"config_path": "/etc/app.conf",
		"retries":     3,
		"verbose":     true,
		"tags":        []any{"a", "b"},
		"limits":      map[string]any{"cpu": 2, "mem": 512},
	}, plan.Values)
}

func TestLoadDirectoryMergesFilesInSortedOrder(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.hcl"), []byte(`
task "second" {
  handler = "Noop"
}
`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.hcl"), []byte(`
task "first" {
  handler = "Noop"
}
`), 0o644))

	plan, err := hcl.NewLoader().Load(context.Background(), dir)
	require.NoError(t, err)
	require.Len(t, plan.Tasks, 2)
	assert.Equal(t, "first", plan.Tasks[0].Name)
	assert.Equal(t, "second", plan.Tasks[1].Name)
}

func TestLoadDuplicateTaskAcrossFiles(t *testing.T) {
	dir := t.TempDir()
	block := []byte(`
task "dup" {
  handler = "Noop"
}
`)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.hcl"), block, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.hcl"), block, 0o644))

	_, err := hcl.NewLoader().Load(context.Background(), dir)
	assert.ErrorIs(t, err, startup.ErrDuplicateTask)
}

func TestLoadDuplicateValue(t *testing.T) {
	path := writePlan(t, "plan.hcl", `
value "x" {
  value = 1
}

value "x" {
  value = 2
}
`)

	_, err := hcl.NewLoader().Load(context.Background(), path)
	assert.ErrorIs(t, err, startup.ErrMalformedBinding)
}

func TestLoadRejectsUnknownMode(t *testing.T) {
	path := writePlan(t, "plan.hcl", `
task "t" {
  handler = "Noop"

  input "p" {
    var  = "x"
    mode = "newest"
  }
}
`)

	_, err := hcl.NewLoader().Load(context.Background(), path)
	assert.ErrorIs(t, err, startup.ErrMalformedBinding)
	assert.Contains(t, err.Error(), "newest")
}

func TestLoadRejectsInputWithoutVariable(t *testing.T) {
	path := writePlan(t, "plan.hcl", `
task "t" {
  handler = "Noop"

  input "p" {
    var = ""
  }
}
`)

	_, err := hcl.NewLoader().Load(context.Background(), path)
	assert.ErrorIs(t, err, startup.ErrMalformedBinding)
}

func TestLoadRejectsEmptyOutputName(t *testing.T) {
	path := writePlan(t, "plan.hcl", `
task "t" {
  handler = "Noop"
  outputs = ["ok", ""]
}
`)

	_, err := hcl.NewLoader().Load(context.Background(), path)
	assert.ErrorIs(t, err, startup.ErrMalformedBinding)
	assert.Contains(t, err.Error(), "empty output name")
}

func TestLoadRejectsMissingHandler(t *testing.T) {
	path := writePlan(t, "plan.hcl", `
task "t" {
  handler = ""
}
`)

	_, err := hcl.NewLoader().Load(context.Background(), path)
	assert.ErrorIs(t, err, startup.ErrMalformedBinding)
}

func TestLoadNoFiles(t *testing.T) {
	_, err := hcl.NewLoader().Load(context.Background(), t.TempDir())
	assert.ErrorContains(t, err, "no .hcl plan files")
}

func TestLoadParseError(t *testing.T) {
	path := writePlan(t, "plan.hcl", `task "broken" {`)

	_, err := hcl.NewLoader().Load(context.Background(), path)
	assert.ErrorContains(t, err, "failed to parse plan file")
}

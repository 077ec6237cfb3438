// Package integrationtests boots the full application against in-memory
// plan files and asserts on the observable outcome: final variable values,
// execution order, and failure modes.
package integrationtests

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/startupgo/internal/testutil"
)

// orderRecorder collects the order in which handlers actually ran.
type orderRecorder struct {
	mu  sync.Mutex
	log []string
}

func (r *orderRecorder) record(key string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.log = append(r.log, key)
}

func (r *orderRecorder) order() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.log...)
}

// TestBootChain wires three tasks into a chain through the plan's variable
// bindings alone and verifies they run in dependency order, each seeing its
// upstream value.
func TestBootChain(t *testing.T) {
	planHCL := `
task "load_config" {
  handler = "LoadConfig"
  outputs = ["config"]
}

task "open_pool" {
  handler = "OpenPool"

  input "config" {
    var = "config"
  }

  outputs = ["pool"]
}

task "serve" {
  handler = "Serve"

  input "pool" {
    var = "pool"
  }

  outputs = ["addr"]
}
`
	rec := &orderRecorder{}
	result := testutil.RunPlanTest(t,
		map[string]string{"plan.hcl": planHCL},
		testutil.HandlerModule("LoadConfig", func() string {
			rec.record("load_config")
			return "conf:v1"
		}),
		testutil.HandlerModule("OpenPool", func(config string) string {
			rec.record("open_pool")
			return "pool(" + config + ")"
		}),
		testutil.HandlerModule("Serve", func(pool string) string {
			rec.record("serve")
			return "listening on " + pool
		}),
	)

	require.NoError(t, result.Err)
	assert.Equal(t, []string{"load_config", "open_pool", "serve"}, rec.order())
	assert.Equal(t, map[string]any{
		"config": "conf:v1",
		"pool":   "pool(conf:v1)",
		"addr":   "listening on pool(conf:v1)",
	}, result.Values)
}

// TestBootChainFromInitialValue seeds the chain with a value block instead
// of a source task.
func TestBootChainFromInitialValue(t *testing.T) {
	planHCL := `
value "config_path" {
  value = "/etc/app.conf"
}

task "read" {
  handler = "Read"

  input "path" {
    var = "config_path"
  }

  outputs = ["config"]
}
`
	result := testutil.RunPlanTest(t,
		map[string]string{"plan.hcl": planHCL},
		testutil.HandlerModule("Read", func(path string) string { return "read:" + path }),
	)

	require.NoError(t, result.Err)
	assert.Equal(t, "read:/etc/app.conf", result.Values["config"])
	assert.Equal(t, "/etc/app.conf", result.Values["config_path"])
}

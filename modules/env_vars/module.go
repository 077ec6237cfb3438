// Package env_vars provides a handler that snapshots the process
// environment into a variable, so later boot tasks can read configuration
// from it instead of touching os.Environ themselves.
package env_vars

import (
	"os"
	"strings"

	"github.com/vk/startupgo/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Snapshot is the handler for the 'EnvVars' task. It returns the current
// process environment as a map, written to whatever variable the plan binds
// it to.
func Snapshot() map[string]string {
	envMap := make(map[string]string)
	for _, e := range os.Environ() {
		pair := strings.SplitN(e, "=", 2)
		if len(pair) == 2 {
			envMap[pair[0]] = pair[1]
		}
	}
	return envMap
}

// Register registers the handler with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterHandler("EnvVars", Snapshot)
}

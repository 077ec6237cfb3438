package registry

import (
	"fmt"
	"log/slog"

	"github.com/vk/startupgo/internal/startup"
)

// Module is the interface compiled-in handler packages implement to be
// registered with an application instance.
type Module interface {
	Register(r *Registry)
}

// Registry holds the named Go handlers available to boot plans, for a single
// application instance.
type Registry struct {
	handlers map[string]any
}

// New creates an empty Registry.
func New() *Registry {
	return &Registry{handlers: make(map[string]any)}
}

// RegisterHandler makes fn available to plans under the given name.
// Registering the same name twice is a programmer error and panics.
func (r *Registry) RegisterHandler(name string, fn any) {
	if _, exists := r.handlers[name]; exists {
		panic(fmt.Sprintf("handler with name '%s' already registered", name))
	}
	slog.Debug("Registering handler.", "name", name)
	r.handlers[name] = fn
}

// Handler returns the function registered under name.
func (r *Registry) Handler(name string) (any, bool) {
	fn, ok := r.handlers[name]
	return fn, ok
}

// InputSpec names one input binding of a plan task.
type InputSpec struct {
	Param string
	Var   string
	Mode  startup.Mode
}

// TaskSpec is one task as a plan declares it: which handler to invoke and
// how its parameters and results map to variables.
type TaskSpec struct {
	// Name is the task's instance name in the plan, used in diagnostics.
	Name string
	// Handler is the registered handler name.
	Handler string
	// Key overrides the tie-break sort key. When empty, the handler's fully
	// qualified function name is used.
	Key string
	// Inputs are the input bindings, in parameter order.
	Inputs []InputSpec
	// Outputs are the variables the handler's results are written to.
	Outputs []string
}

// ResolveAll resolves every spec against the registry, in order.
func (r *Registry) ResolveAll(specs []TaskSpec) ([]startup.Registration, error) {
	regs := make([]startup.Registration, 0, len(specs))
	for _, spec := range specs {
		reg, err := r.Resolve(spec)
		if err != nil {
			return nil, err
		}
		regs = append(regs, reg)
	}
	return regs, nil
}

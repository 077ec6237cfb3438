package startup

import (
	"context"
	"fmt"
)

// Mode selects how an input binding reads its variable.
type Mode int

const (
	// Latest reads the most recently written value.
	Latest Mode = iota
	// All reads every value ever written, in write order.
	All
)

// String returns the plan-file spelling of the mode.
func (m Mode) String() string {
	switch m {
	case Latest:
		return "latest"
	case All:
		return "all"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// Input binds one parameter of a task to a named variable.
type Input struct {
	// Param is the parameter name, used in diagnostics only.
	Param string
	// Var is the variable the parameter reads.
	Var string
	// Mode selects latest-value or all-values reading.
	Mode Mode
}

// Callable is the invocation adapter the engine drives. Args holds one value
// per input binding, in binding order (a []any for All-mode bindings).
// Results must hold one value per declared output; both are empty when the
// task declares none.
type Callable func(ctx context.Context, args []any) (results []any, err error)

// Registration declares one task as plain data: a stable sort key, ordered
// input bindings, output variable names, and the callable to drive. The
// engine validates the structure but never inspects the callable itself.
type Registration struct {
	// Key is the lexicographic tie-break key. It must be derived from static
	// identity (the registry uses the handler's fully qualified function
	// name, or an explicit override), never from registration order, so that
	// reordering registrations does not change execution order.
	Key string
	// Inputs are the task's input bindings, in parameter order.
	Inputs []Input
	// Outputs are the variables the task writes, in result order. The same
	// variable may appear more than once; each occurrence counts as an
	// independent write.
	Outputs []string
	// Call invokes the underlying function.
	Call Callable
}

// validate checks structural well-formedness of a registration. The binding
// adapter is expected to reject malformed specifications before the engine
// sees them; this is the engine's own last line of defense.
func (r Registration) validate() error {
	if r.Key == "" {
		return fmt.Errorf("%w: empty task key", ErrMalformedBinding)
	}
	if r.Call == nil {
		return fmt.Errorf("%w: task %q has no callable", ErrNotCallable, r.Key)
	}
	for _, in := range r.Inputs {
		if in.Var == "" {
			return fmt.Errorf("%w: task %q: input %q names no variable",
				ErrMalformedBinding, r.Key, in.Param)
		}
		if in.Mode != Latest && in.Mode != All {
			return fmt.Errorf("%w: task %q: input %q has unknown mode %d",
				ErrMalformedBinding, r.Key, in.Param, int(in.Mode))
		}
	}
	for i, name := range r.Outputs {
		if name == "" {
			return fmt.Errorf("%w: task %q: output %d names no variable",
				ErrMalformedBinding, r.Key, i)
		}
	}
	return nil
}

package registry

import (
	"context"
	"fmt"
	"reflect"
	"runtime"

	"github.com/vk/startupgo/internal/startup"
)

var (
	ctxType = reflect.TypeOf((*context.Context)(nil)).Elem()
	errType = reflect.TypeOf((*error)(nil)).Elem()
)

// Resolve turns one plan task into the plain-data registration the engine
// consumes. The handler's signature is checked against the declared bindings
// here so that arity mismatches surface at resolution time, not mid-boot:
//
//   - an optional leading context.Context parameter is passed through and not
//     bound to a variable;
//   - every remaining parameter must have exactly one input binding, in
//     order (an All-mode binding supplies a []any);
//   - an optional trailing error result aborts the run when non-nil;
//   - every remaining result must have exactly one declared output variable,
//     unless the task declares no outputs at all, in which case results are
//     discarded.
func (r *Registry) Resolve(spec TaskSpec) (startup.Registration, error) {
	fn, ok := r.Handler(spec.Handler)
	if !ok {
		return startup.Registration{}, fmt.Errorf("%w: task %q: no handler named %q",
			startup.ErrNotCallable, spec.Name, spec.Handler)
	}
	v := reflect.ValueOf(fn)
	if !v.IsValid() || v.Kind() != reflect.Func || v.IsNil() {
		return startup.Registration{}, fmt.Errorf("%w: task %q: handler %q is %T, not a function",
			startup.ErrNotCallable, spec.Name, spec.Handler, fn)
	}
	t := v.Type()
	if t.IsVariadic() {
		return startup.Registration{}, fmt.Errorf("%w: task %q: handler %q is variadic",
			startup.ErrMalformedBinding, spec.Name, spec.Handler)
	}

	takesCtx := t.NumIn() > 0 && t.In(0) == ctxType
	bound := t.NumIn()
	if takesCtx {
		bound--
	}
	if bound != len(spec.Inputs) {
		return startup.Registration{}, fmt.Errorf(
			"%w: task %q: handler %q takes %d bindable parameters but the plan declares %d inputs",
			startup.ErrMalformedBinding, spec.Name, spec.Handler, bound, len(spec.Inputs))
	}

	hasErr := t.NumOut() > 0 && t.Out(t.NumOut()-1) == errType
	results := t.NumOut()
	if hasErr {
		results--
	}
	if len(spec.Outputs) > 0 && results != len(spec.Outputs) {
		return startup.Registration{}, fmt.Errorf(
			"%w: task %q: handler %q returns %d values but the plan declares %d outputs",
			startup.ErrMalformedBinding, spec.Name, spec.Handler, results, len(spec.Outputs))
	}

	key := spec.Key
	if key == "" {
		key = runtime.FuncForPC(v.Pointer()).Name()
	}

	inputs := make([]startup.Input, len(spec.Inputs))
	for i, in := range spec.Inputs {
		inputs[i] = startup.Input{Param: in.Param, Var: in.Var, Mode: in.Mode}
	}

	return startup.Registration{
		Key:     key,
		Inputs:  inputs,
		Outputs: append([]string(nil), spec.Outputs...),
		Call:    invoker(spec.Name, v, takesCtx, hasErr, len(spec.Outputs)),
	}, nil
}

// invoker wraps a reflected function as the engine's Callable.
func invoker(name string, fn reflect.Value, takesCtx, hasErr bool, outputs int) startup.Callable {
	t := fn.Type()
	return func(ctx context.Context, args []any) ([]any, error) {
		in := make([]reflect.Value, 0, t.NumIn())
		offset := 0
		if takesCtx {
			in = append(in, reflect.ValueOf(ctx))
			offset = 1
		}
		for i, arg := range args {
			pt := t.In(i + offset)
			av, err := coerce(arg, pt)
			if err != nil {
				return nil, fmt.Errorf("task %q: argument %d: %w", name, i, err)
			}
			in = append(in, av)
		}

		out := fn.Call(in)
		if hasErr {
			last := out[len(out)-1]
			if !last.IsNil() {
				return nil, last.Interface().(error)
			}
			out = out[:len(out)-1]
		}
		if outputs == 0 {
			// No declared outputs: the engine discards results anyway.
			return nil, nil
		}
		results := make([]any, len(out))
		for i, rv := range out {
			results[i] = rv.Interface()
		}
		return results, nil
	}
}

// coerce adapts one variable value to the parameter type, converting where
// Go's rules allow it (an int initial value feeding an int64 parameter).
func coerce(arg any, pt reflect.Type) (reflect.Value, error) {
	if arg == nil {
		return reflect.Zero(pt), nil
	}
	av := reflect.ValueOf(arg)
	if av.Type().AssignableTo(pt) {
		return av, nil
	}
	if av.Type().ConvertibleTo(pt) {
		return av.Convert(pt), nil
	}
	return reflect.Value{}, fmt.Errorf("value of type %T is not assignable to %s", arg, pt)
}

package startup

import (
	"context"
	"fmt"
)

// taskBinding pairs one parameter with the variable it reads.
type taskBinding struct {
	param string
	src   *variable
	mode  Mode
}

// task is one registered unit of work. It runs at most once: invoke reads the
// bound inputs and calls the underlying function, commit writes the declared
// outputs and releases the transient state. The two halves are split so the
// parallel runner can serialize commits while invocations overlap.
type task struct {
	key      string
	bindings []taskBinding
	outputs  []*variable
	call     Callable

	// pendingReads counts input bindings whose variable is not yet readable.
	pendingReads int
}

func newTask(reg Registration, bindings []taskBinding, outputs []*variable) *task {
	return &task{
		key:          reg.Key,
		bindings:     bindings,
		outputs:      outputs,
		call:         reg.Call,
		pendingReads: len(bindings),
	}
}

// notifyReadReady records that one bound input became readable. Notifying a
// task with no outstanding reads is a defect.
func (t *task) notifyReadReady() {
	if t.pendingReads <= 0 {
		panic(fmt.Sprintf("startup: task %q: read-ready notification without a pending read", t.key))
	}
	t.pendingReads--
}

// satisfied reports whether every bound input is readable.
func (t *task) satisfied() bool {
	if t.pendingReads < 0 {
		panic(fmt.Sprintf("startup: task %q: negative pending-read count %d", t.key, t.pendingReads))
	}
	return t.pendingReads == 0
}

// invoke reads every bound input via its mode and calls the underlying
// function. It does not touch the output variables.
func (t *task) invoke(ctx context.Context) ([]any, error) {
	if !t.satisfied() {
		panic(fmt.Sprintf("startup: task %q invoked before satisfied", t.key))
	}
	args := make([]any, len(t.bindings))
	for i, b := range t.bindings {
		switch b.mode {
		case All:
			args[i] = b.src.readAll()
		default:
			args[i] = b.src.readLatest()
		}
	}
	results, err := t.call(ctx, args)
	if err != nil {
		return nil, &TaskError{Key: t.key, Err: err}
	}
	return results, nil
}

// commit interprets the results against the output spec and writes them in
// order. A repeated variable in the output list receives each of its result
// elements as an independent write. It returns the distinct variables
// written, deduplicated in declaration order, and releases the task's
// transient state. On error nothing is released, preserving the task for
// diagnostic inspection.
func (t *task) commit(results []any) ([]*variable, error) {
	switch {
	case len(t.outputs) == 0:
		// No declared outputs: discard any results.
	case len(results) != len(t.outputs):
		return nil, &TaskError{Key: t.key, Err: fmt.Errorf(
			"%w: %d results for %d declared outputs", ErrMalformedBinding, len(results), len(t.outputs))}
	default:
		for i, v := range t.outputs {
			v.write(results[i])
		}
	}

	written := make([]*variable, 0, len(t.outputs))
	seen := make(map[*variable]bool, len(t.outputs))
	for _, v := range t.outputs {
		if !seen[v] {
			seen[v] = true
			written = append(written, v)
		}
	}

	// One-shot: drop everything but the key, which the scheduler still needs
	// for completion bookkeeping.
	t.bindings = nil
	t.outputs = nil
	t.call = nil

	return written, nil
}

package startup

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/vk/startupgo/internal/ctxlog"
)

// runState tags an engine's lifecycle. An engine is good for exactly one
// register/run cycle; every public operation checks the tag up front instead
// of relying on released internal state.
type runState int

const (
	stateNotStarted runState = iota
	stateCompleted
	stateFailed
)

// Startup owns the variable table and the set of not-yet-run tasks, and
// drives execution through a readiness queue. The zero value is not usable;
// call New. A Startup must not be shared between goroutines: one in-progress
// Run exclusively owns all internal state.
type Startup struct {
	state     runState
	tasks     map[string]*task
	variables map[string]*variable

	// staged holds tasks that were already satisfied at registration time.
	// They are promoted to the ready queue, sorted, when Run starts.
	staged []*task
}

// New creates an empty engine for one register/run cycle. Create a fresh
// instance per boot sequence; a consumed engine refuses further use.
func New() *Startup {
	return &Startup{
		tasks:     make(map[string]*task),
		variables: make(map[string]*variable),
	}
}

// variable resolves or lazily creates the named variable.
func (s *Startup) variable(name string) *variable {
	v, ok := s.variables[name]
	if !ok {
		v = &variable{name: name}
		s.variables[name] = v
	}
	return v
}

// Register adds one task to the dependency graph. Output writes are declared
// here, before any execution, so a variable with several writers can never
// become falsely readable after only some of them have run.
func (s *Startup) Register(reg Registration) error {
	if s.state != stateNotStarted {
		return fmt.Errorf("cannot register %q: %w", reg.Key, ErrReused)
	}
	if err := reg.validate(); err != nil {
		return err
	}
	if _, ok := s.tasks[reg.Key]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateTask, reg.Key)
	}

	bindings := make([]taskBinding, len(reg.Inputs))
	for i, in := range reg.Inputs {
		bindings[i] = taskBinding{param: in.Param, src: s.variable(in.Var), mode: in.Mode}
	}
	outputs := make([]*variable, len(reg.Outputs))
	for i, name := range reg.Outputs {
		outputs[i] = s.variable(name)
		outputs[i].declareWrite()
	}

	t := newTask(reg, bindings, outputs)
	for _, b := range bindings {
		b.src.readers = append(b.src.readers, t)
	}
	s.tasks[reg.Key] = t
	if t.satisfied() {
		s.staged = append(s.staged, t)
	}

	slog.Debug("Task registered.", "key", reg.Key, "inputs", len(bindings), "outputs", len(outputs))
	return nil
}

// Run executes every registered task exactly once, strictly sequentially, in
// an order that satisfies all data dependencies. Initial values each count as
// one writer of their variable, independent of and in addition to any
// writer tasks. On success it returns the latest value of every readable
// variable. The engine is consumed either way: a second Run returns
// ErrReused, and after a failure all internal state is retained for
// inspection.
func (s *Startup) Run(ctx context.Context, initial map[string]any) (map[string]any, error) {
	if s.state != stateNotStarted {
		return nil, s.refuseRerun()
	}
	logger := ctxlog.FromContext(ctx)

	queue := sortTasks(s.staged)
	queue = append(queue, s.writeInitial(logger, initial)...)

	for len(queue) > 0 {
		t := queue[0]
		queue = queue[1:]

		logger.Debug("Running task.", "key", t.key)
		results, err := t.invoke(ctx)
		if err != nil {
			s.state = stateFailed
			return nil, err
		}
		written, err := t.commit(results)
		if err != nil {
			s.state = stateFailed
			return nil, err
		}
		delete(s.tasks, t.key)
		queue = append(queue, s.notifyReaders(logger, written)...)
	}

	if len(s.tasks) > 0 {
		s.state = stateFailed
		return nil, fmt.Errorf("cannot satisfy dependency for [%s]: %w",
			strings.Join(s.pendingKeys(), ", "), ErrUnsatisfiable)
	}

	s.state = stateCompleted
	return s.values(), nil
}

// writeInitial declares and writes the externally supplied values, sorted by
// name for determinism, and returns the tasks they satisfied in tie-break
// order. All initial writes form a single notification batch.
func (s *Startup) writeInitial(logger *slog.Logger, initial map[string]any) []*task {
	names := make([]string, 0, len(initial))
	for name := range initial {
		names = append(names, name)
	}
	sort.Strings(names)

	written := make([]*variable, 0, len(names))
	for _, name := range names {
		v := s.variable(name)
		v.declareWrite()
		v.write(initial[name])
		written = append(written, v)
	}
	return s.notifyReaders(logger, written)
}

// notifyReaders tells the readers of each newly readable variable that one
// input became ready, and returns the tasks this satisfied, sorted by key.
// Each call handles one batch of simultaneous writes, so the returned order
// is the batch's final execution order.
func (s *Startup) notifyReaders(logger *slog.Logger, written []*variable) []*task {
	var satisfied []*task
	for _, v := range written {
		if !v.readable() {
			continue
		}
		logger.Debug("Variable became readable.", "variable", v.name, "writes", len(v.values))
		for _, r := range v.readers {
			r.notifyReadReady()
			if r.satisfied() {
				satisfied = append(satisfied, r)
			}
		}
	}
	return sortTasks(satisfied)
}

// values builds the output mapping: the latest value of every variable that
// became readable. A variable with zero declared writers never becomes
// readable and is absent.
func (s *Startup) values() map[string]any {
	out := make(map[string]any, len(s.variables))
	for name, v := range s.variables {
		if v.readable() {
			out[name] = v.readLatest()
		}
	}
	return out
}

// pendingKeys returns the keys of the tasks that never ran, sorted.
func (s *Startup) pendingKeys() []string {
	keys := make([]string, 0, len(s.tasks))
	for key := range s.tasks {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func (s *Startup) refuseRerun() error {
	if s.state == stateFailed {
		return fmt.Errorf("%w (previous run failed)", ErrReused)
	}
	return ErrReused
}

// sortTasks returns a copy of tasks sorted by the lexicographic tie-break
// key. The key is the only ordering input: no memory address, no
// registration sequence.
func sortTasks(tasks []*task) []*task {
	sorted := make([]*task, len(tasks))
	copy(sorted, tasks)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].key < sorted[j].key })
	return sorted
}

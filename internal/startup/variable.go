package startup

import "fmt"

// variable is a named slot holding the ordered history of every value written
// to it, plus the bookkeeping that gates when it may be read.
type variable struct {
	name string

	// pendingWrites counts declared writers that have not yet written.
	// Counting down from declarations, rather than comparing against a fixed
	// expected total, lets writers be declared incrementally (at registration
	// and again when initial values are supplied) while still guaranteeing
	// that no reader observes a partially written variable.
	pendingWrites int

	// values holds all past and current values, append-only.
	values []any

	// readers are the tasks that consume this variable, one entry per input
	// binding (a task reading the same variable twice appears twice).
	readers []*task
}

// declareWrite records that one more writer will write this variable. It must
// be called before that writer runs.
func (v *variable) declareWrite() {
	v.pendingWrites++
}

// readable reports whether the variable may be read: every declared writer
// has run and at least one value exists. A variable becomes readable exactly
// once and never becomes unreadable again.
func (v *variable) readable() bool {
	if v.pendingWrites < 0 {
		panic(fmt.Sprintf("startup: variable %q: negative pending-write count %d", v.name, v.pendingWrites))
	}
	return v.pendingWrites == 0 && len(v.values) > 0
}

// write appends a value and consumes one declared write. Writing past the
// declared count is a programming defect, not a recoverable condition.
func (v *variable) write(value any) {
	if v.pendingWrites <= 0 {
		panic(fmt.Sprintf("startup: variable %q: write without a pending declaration", v.name))
	}
	v.pendingWrites--
	v.values = append(v.values, value)
}

// readLatest returns the most recently written value.
func (v *variable) readLatest() any {
	if !v.readable() {
		panic(fmt.Sprintf("startup: variable %q read before readable", v.name))
	}
	return v.values[len(v.values)-1]
}

// readAll returns every value written, in write order. Callers must not
// mutate the returned slice.
func (v *variable) readAll() []any {
	if !v.readable() {
		panic(fmt.Sprintf("startup: variable %q read before readable", v.name))
	}
	return v.values
}

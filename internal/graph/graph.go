package graph

import (
	"fmt"
	"sort"
	"strings"

	"github.com/gammazero/toposort"

	"github.com/vk/startupgo/internal/startup"
)

// Validate checks a set of registrations plus externally supplied initial
// values for structural dead ends: input variables nothing ever writes, and
// dependency cycles. On success it returns one valid topological order of
// the task keys, for logging. The order is not the engine's execution order
// (the engine additionally applies its tie-break rule); it only proves one
// exists.
func Validate(regs []startup.Registration, initialNames []string) ([]string, error) {
	writers := make(map[string]int)
	for _, name := range initialNames {
		writers[name]++
	}
	for _, reg := range regs {
		for _, name := range reg.Outputs {
			writers[name]++
		}
	}

	var missing []string
	for _, reg := range regs {
		for _, in := range reg.Inputs {
			if writers[in.Var] == 0 {
				missing = append(missing, fmt.Sprintf("variable %q read by task %q", in.Var, reg.Key))
			}
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, fmt.Errorf("%w: no writer for %s",
			startup.ErrUnsatisfiable, strings.Join(missing, "; "))
	}

	// Bipartite edge list: variable -> reading task, writing task -> variable.
	// Tasks with no inputs get a nil-source edge so they still appear in the
	// sort.
	var edges []toposort.Edge
	for _, reg := range regs {
		if len(reg.Inputs) == 0 {
			edges = append(edges, toposort.Edge{nil, taskNode(reg.Key)})
		}
		for _, in := range reg.Inputs {
			edges = append(edges, toposort.Edge{varNode(in.Var), taskNode(reg.Key)})
		}
		for _, name := range reg.Outputs {
			edges = append(edges, toposort.Edge{taskNode(reg.Key), varNode(name)})
		}
	}
	for _, name := range initialNames {
		edges = append(edges, toposort.Edge{nil, varNode(name)})
	}

	sorted, err := toposort.Toposort(edges)
	if err != nil {
		return nil, fmt.Errorf("%w: dependency cycle: %v", startup.ErrUnsatisfiable, err)
	}

	order := make([]string, 0, len(regs))
	for _, n := range sorted {
		name, ok := n.(string)
		if !ok {
			// The nil root node surfaces in the sorted output.
			continue
		}
		if key, ok := strings.CutPrefix(name, "task:"); ok {
			order = append(order, key)
		}
	}
	return order, nil
}

func taskNode(key string) string { return "task:" + key }

func varNode(name string) string { return "var:" + name }

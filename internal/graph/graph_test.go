package graph_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/vk/startupgo/internal/graph"
	"github.com/vk/startupgo/internal/startup"
)

func noop(ctx context.Context, args []any) ([]any, error) { return nil, nil }

func reg(key string, inputs []string, outputs []string) startup.Registration {
	r := startup.Registration{Key: key, Outputs: outputs, Call: noop}
	for _, v := range inputs {
		r.Inputs = append(r.Inputs, startup.Input{Param: v, Var: v})
	}
	return r
}

func TestValidateChain(t *testing.T) {
	regs := []startup.Registration{
		reg("c", []string{"y"}, nil),
		reg("b", []string{"x"}, []string{"y"}),
		reg("a", nil, []string{"x"}),
	}

	order, err := graph.Validate(regs, nil)
	if err != nil {
		t.Fatalf("Validate() error: %v", err)
	}
	if len(order) != 3 {
		t.Fatalf("Validate() order = %v, want 3 tasks", order)
	}
	pos := map[string]int{}
	for i, key := range order {
		pos[key] = i
	}
	if !(pos["a"] < pos["b"] && pos["b"] < pos["c"]) {
		t.Errorf("Validate() order %v violates a < b < c", order)
	}
}

func TestValidateMissingWriter(t *testing.T) {
	regs := []startup.Registration{
		reg("consumer", []string{"present", "absent"}, nil),
		reg("producer", nil, []string{"present"}),
	}

	_, err := graph.Validate(regs, nil)
	if !errors.Is(err, startup.ErrUnsatisfiable) {
		t.Fatalf("Validate() error = %v, want ErrUnsatisfiable", err)
	}
	if !strings.Contains(err.Error(), `"absent"`) || !strings.Contains(err.Error(), `"consumer"`) {
		t.Errorf("error %q does not name the unwritten variable and its reader", err)
	}
}

func TestValidateInitialValueSatisfiesReader(t *testing.T) {
	regs := []startup.Registration{
		reg("consumer", []string{"cfg"}, nil),
	}

	if _, err := graph.Validate(regs, []string{"cfg"}); err != nil {
		t.Fatalf("Validate() error: %v", err)
	}
}

func TestValidateCycle(t *testing.T) {
	regs := []startup.Registration{
		reg("f1", []string{"x"}, []string{"y"}),
		reg("f2", []string{"y"}, []string{"x"}),
	}

	_, err := graph.Validate(regs, nil)
	if !errors.Is(err, startup.ErrUnsatisfiable) {
		t.Fatalf("Validate() error = %v, want ErrUnsatisfiable", err)
	}
	if !strings.Contains(err.Error(), "cycle") {
		t.Errorf("error %q does not mention the cycle", err)
	}
}

func TestValidateSelfCycleThroughOwnOutput(t *testing.T) {
	// A task reading a variable only it writes is a writer on paper and a
	// cycle in practice.
	regs := []startup.Registration{
		reg("selfish", []string{"x"}, []string{"x"}),
	}

	if _, err := graph.Validate(regs, nil); !errors.Is(err, startup.ErrUnsatisfiable) {
		t.Fatalf("Validate() error = %v, want ErrUnsatisfiable", err)
	}
}

func TestValidateEmpty(t *testing.T) {
	order, err := graph.Validate(nil, nil)
	if err != nil {
		t.Fatalf("Validate() error: %v", err)
	}
	if len(order) != 0 {
		t.Errorf("Validate() order = %v, want empty", order)
	}
}

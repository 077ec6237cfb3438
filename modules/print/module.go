// Package print provides a handler that prints a variable's value, useful as
// a terminal step in a boot plan and as the smallest possible example of the
// registration surface.
package print

import (
	"context"
	"fmt"
	"sort"

	"github.com/vk/startupgo/internal/ctxlog"
	"github.com/vk/startupgo/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// OnPrint is the handler for the 'Print' task. It prints the single value
// the plan binds to it. Maps print with sorted keys for consistent output.
func OnPrint(ctx context.Context, value any) error {
	ctxlog.FromContext(ctx).Info("Printing value")

	switch v := value.(type) {
	case nil:
		fmt.Println("      (null)")
	case map[string]string:
		for _, k := range sortedKeys(v) {
			fmt.Printf("      %s = %q\n", k, v[k])
		}
	case map[string]any:
		for _, k := range sortedKeys(v) {
			fmt.Printf("      %s = %v\n", k, v[k])
		}
	default:
		fmt.Printf("      %v\n", v)
	}
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Register registers the handler with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterHandler("Print", OnPrint)
}

package hcl

import (
	"fmt"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"
)

// ctyToNative recursively converts a cty.Value to its most natural Go
// counterpart, so plan values can flow through the engine as ordinary Go
// values.
func ctyToNative(v cty.Value) (any, error) {
	if v.IsNull() || !v.IsKnown() {
		return nil, nil
	}

	ty := v.Type()

	switch {
	case ty == cty.String:
		return v.AsString(), nil

	case ty == cty.Number:
		// Prefer an exact integer where the value has one; handlers dealing
		// in counts and ports should not be handed floats.
		var i int64
		if err := gocty.FromCtyValue(v, &i); err == nil {
			return int(i), nil
		}
		var f float64
		if err := gocty.FromCtyValue(v, &f); err != nil {
			return nil, fmt.Errorf("could not convert number: %w", err)
		}
		return f, nil

	case ty == cty.Bool:
		return v.True(), nil

	case ty.IsListType() || ty.IsTupleType() || ty.IsSetType():
		slice := make([]any, 0, v.LengthInt())
		it := v.ElementIterator()
		for it.Next() {
			_, ev := it.Element()
			native, err := ctyToNative(ev)
			if err != nil {
				return nil, err
			}
			slice = append(slice, native)
		}
		return slice, nil

	case ty.IsObjectType() || ty.IsMapType():
		m := make(map[string]any)
		it := v.ElementIterator()
		for it.Next() {
			key, ev := it.Element()
			native, err := ctyToNative(ev)
			if err != nil {
				return nil, fmt.Errorf("in attribute %q: %w", key.AsString(), err)
			}
			m[key.AsString()] = native
		}
		return m, nil

	default:
		return nil, fmt.Errorf("unsupported plan value type %s", ty.FriendlyName())
	}
}

package schema

import (
	"math"
	"strconv"
	"strings"
)

// DefaultValue builds an initial value for the node. Objects yield a map of
// their properties' defaults (derived expression fields are skipped), arrays
// yield minItems default elements, scalars yield the declared default.
func (s *Schema) DefaultValue() any {
	return s.defaultValue(map[NodeID]bool{})
}

func (s *Schema) defaultValue(active map[NodeID]bool) any {
	r := s.Resolve()
	if active[r.id] {
		// recursive reference, stop at an empty value
		return nil
	}
	active[r.id] = true
	defer delete(active, r.id)

	switch r.Shape() {
	case ShapeArray:
		if v, ok := r.Default(); ok {
			return v
		}
		out := []any{}
		n, _ := r.MinItems()
		items, ok := r.Items()
		for i := 0; i < n; i++ {
			if ok {
				out = append(out, items.defaultValue(active))
			} else {
				out = append(out, nil)
			}
		}
		return out
	case ShapeObject:
		out := map[string]any{}
		for _, p := range r.n().props {
			child := r.tree.at(p.id).Resolve()
			switch {
			case child.Kind() == KindExpression:
				continue
			case child.Shape() == ShapeScalar:
				v, _ := child.Default()
				out[p.name] = v
			default:
				out[p.name] = child.defaultValue(active)
			}
		}
		return out
	}
	v, _ := r.Default()
	return v
}

// Coerce converts raw form input into the node's type. Values that cannot
// be converted are returned unchanged so that validation reports them.
func (s *Schema) Coerce(v any) any {
	switch s.Resolve().Kind() {
	case KindInteger:
		if str, ok := v.(string); ok {
			f, err := strconv.ParseFloat(strings.TrimSpace(str), 64)
			if err != nil {
				return v
			}
			return math.Trunc(f)
		}
	case KindNumber:
		if str, ok := v.(string); ok {
			f, err := strconv.ParseFloat(strings.TrimSpace(str), 64)
			if err != nil {
				return v
			}
			return f
		}
	case KindBoolean:
		switch t := v.(type) {
		case bool:
			return t
		case string:
			return t == "true" || t == "True"
		default:
			return false
		}
	}
	return v
}

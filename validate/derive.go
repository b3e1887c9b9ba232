package validate

import (
	"strconv"

	"github.com/reoring/formskema/dataset"
	"github.com/reoring/formskema/expression"
	"github.com/reoring/formskema/schema"
)

// Derive computes every derived (type expression) field reachable in the
// dataset and returns the values keyed by dotted path. Failed formulas yield
// expression.ErrorMarker.
func (v *Validator) Derive(s *schema.Schema, ds dataset.Dataset) map[string]any {
	out := map[string]any{}
	root := ds.Root()
	v.derive(s, frame{ds: ds, value: root, present: true, owner: root}, out)
	return out
}

func (v *Validator) derive(s *schema.Schema, f frame, out map[string]any) {
	s = s.Resolve()
	switch s.Shape() {
	case schema.ShapeObject:
		if f.value == nil {
			return
		}
		for _, name := range s.Properties() {
			ps, _ := s.Property(name)
			v.derive(ps, f.child(name), out)
		}
	case schema.ShapeArray:
		items, ok := s.Items()
		elements, isList := dataset.Elements(f.value)
		if !ok || !isList {
			return
		}
		for i := range elements {
			v.derive(items, f.child(strconv.Itoa(i)), out)
		}
	default:
		if s.Kind() == schema.KindExpression && s.Expression() != "" {
			out[f.path] = expression.Derive(v.ev, f.scope(), s.Expression())
		}
	}
}

package definition

import "reflect"

// Merge deep-merges overlay onto base and returns the result.
//
// Nested definitions are merged key by key, "required" lists are unioned in
// first-seen order and every other key takes the overlay's value.
func Merge(base, overlay *Definition) *Definition {
	if base == nil {
		return overlay
	}
	if overlay == nil {
		return base
	}
	out := base.shallowCopy()
	for _, k := range overlay.keys {
		ov := overlay.vals[k]
		bv, exists := out.vals[k]
		if !exists {
			out.set(k, ov)
			continue
		}
		if k == "required" {
			bl, bok := bv.([]any)
			ol, ook := ov.([]any)
			if bok && ook {
				out.set(k, union(bl, ol))
				continue
			}
		}
		bd, bok := bv.(*Definition)
		od, ook := ov.(*Definition)
		if bok && ook {
			out.set(k, Merge(bd, od))
			continue
		}
		out.set(k, ov)
	}
	return out
}

func union(a, b []any) []any {
	out := make([]any, 0, len(a)+len(b))
	add := func(v any) {
		for _, have := range out {
			if reflect.DeepEqual(have, v) {
				return
			}
		}
		out = append(out, v)
	}
	for _, v := range a {
		add(v)
	}
	for _, v := range b {
		add(v)
	}
	return out
}

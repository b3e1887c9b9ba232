package explode

import (
	"github.com/cockroachdb/errors"

	"github.com/reoring/formskema/definition"
	"github.com/reoring/formskema/schema"
)

var (
	// ErrOneOfUnsupported is returned when a oneOf clause is met anywhere in
	// the tree. Exclusive choice only works with direct validation.
	ErrOneOfUnsupported = errors.New("explode: oneOf cannot be expanded")
	// ErrTooManyVariants is returned when the configured limit is exceeded.
	ErrTooManyVariants = errors.New("explode: too many variants")
)

// Result is the outcome of an expansion.
type Result struct {
	// Variants are combinator-free definitions, in expansion order.
	Variants []*definition.Definition
	// Exploded reports whether any combinator was expanded.
	Exploded bool
}

// Schemas parses every variant.
func (r Result) Schemas() ([]*schema.Schema, error) {
	out := make([]*schema.Schema, 0, len(r.Variants))
	for i, v := range r.Variants {
		s, err := schema.Parse(v)
		if err != nil {
			return nil, errors.Wrapf(err, "explode: variant %d", i)
		}
		out = append(out, s)
	}
	return out, nil
}

// Option configures Explode.
type Option func(*exploder)

// WithLimit caps the number of variants. Zero means unbounded.
func WithLimit(n int) Option {
	return func(e *exploder) { e.limit = n }
}

// Explode turns a definition with anyOf/allOf clauses into the list of
// concrete definitions they imply. The input is never modified.
func Explode(def *definition.Definition, opts ...Option) (Result, error) {
	if def == nil {
		return Result{}, errors.Mark(errors.New("explode: nil definition"), schema.ErrInvalidSchema)
	}
	e := &exploder{}
	for _, o := range opts {
		o(e)
	}
	vs, exploded, err := e.node(def, "#")
	if err != nil {
		return Result{}, err
	}
	return Result{Variants: vs, Exploded: exploded}, nil
}

type exploder struct {
	limit int
}

func (e *exploder) check(n int) error {
	if e.limit > 0 && n > e.limit {
		return errors.WithHintf(errors.Newf("explode: %d variants exceed the limit of %d", n, e.limit),
			"validate with the direct strategy instead")
	}
	return nil
}

func (e *exploder) add(out, vs []*definition.Definition) ([]*definition.Definition, error) {
	out = append(out, vs...)
	if err := e.check(len(out)); err != nil {
		return nil, errors.Mark(err, ErrTooManyVariants)
	}
	return out, nil
}

// node expands one definition. It returns the variants and whether a
// combinator was expanded below d.
func (e *exploder) node(d *definition.Definition, at string) ([]*definition.Definition, bool, error) {
	if d.Has("$ref") {
		return []*definition.Definition{d}, false, nil
	}
	if d.Has("oneOf") {
		return nil, false, errors.WithHint(
			errors.Mark(errors.Newf("explode: oneOf at %s", at), ErrOneOfUnsupported),
			"exclusive choice is only available with direct validation")
	}
	if d.Has("anyOf") {
		return e.anyOf(d, at)
	}
	if d.Has("allOf") {
		return e.allOf(d, at)
	}
	if d.Has("properties") {
		return e.object(d, nil, d, 0, at)
	}
	if items, ok := d.Items(); ok {
		vs, exploded, err := e.node(items, at+"/items")
		if err != nil {
			return nil, false, err
		}
		out := make([]*definition.Definition, len(vs))
		for i, v := range vs {
			out[i] = d.With("items", v)
		}
		return out, exploded, nil
	}
	return []*definition.Definition{d}, false, nil
}

func alternatives(d *definition.Definition, keyword, at string) ([]*definition.Definition, error) {
	list, ok := d.List(keyword)
	if !ok || len(list) == 0 {
		return nil, errors.Mark(errors.Newf("explode: at %s: %s must be a non-empty array", at, keyword), schema.ErrInvalidSchema)
	}
	out := make([]*definition.Definition, len(list))
	for i, v := range list {
		alt, ok := v.(*definition.Definition)
		if !ok {
			return nil, errors.Mark(errors.Newf("explode: at %s/%s/%d: alternative must be an object", at, keyword, i), schema.ErrInvalidSchema)
		}
		out[i] = alt
	}
	return out, nil
}

// anyOf yields the variants of every alternative merged over the rest of the
// node, concatenated in declaration order.
func (e *exploder) anyOf(d *definition.Definition, at string) ([]*definition.Definition, bool, error) {
	alts, err := alternatives(d, "anyOf", at)
	if err != nil {
		return nil, false, err
	}
	rest := d.Without("anyOf")
	var out []*definition.Definition
	for i, alt := range alts {
		vs, _, err := e.node(definition.Merge(rest, alt), fmtAt(at, "anyOf", i))
		if err != nil {
			return nil, false, err
		}
		if out, err = e.add(out, vs); err != nil {
			return nil, false, err
		}
	}
	return out, true, nil
}

// allOf expands every alternative on its own and merges the results onto the
// rest of the node as a cartesian product.
func (e *exploder) allOf(d *definition.Definition, at string) ([]*definition.Definition, bool, error) {
	alts, err := alternatives(d, "allOf", at)
	if err != nil {
		return nil, false, err
	}
	acc := []*definition.Definition{d.Without("allOf")}
	for i, alt := range alts {
		vs, _, err := e.node(alt, fmtAt(at, "allOf", i))
		if err != nil {
			return nil, false, err
		}
		next := make([]*definition.Definition, 0, len(acc)*len(vs))
		for _, a := range acc {
			for _, v := range vs {
				next = append(next, definition.Merge(a, v))
			}
		}
		if err := e.check(len(next)); err != nil {
			return nil, false, errors.Mark(err, ErrTooManyVariants)
		}
		acc = next
	}

	// the merged rest may still carry nested combinators
	var out []*definition.Definition
	for _, a := range acc {
		vs, _, err := e.node(a, at)
		if err != nil {
			return nil, false, err
		}
		if out, err = e.add(out, vs); err != nil {
			return nil, false, err
		}
	}
	return out, true, nil
}

// object expands the properties of obj, which sits at tr below root, starting
// with the property at index from. Whenever a property yields more than one
// variant, root is rebuilt once per variant and the remaining siblings are
// expanded on each rebuilt tree. It returns complete roots.
func (e *exploder) object(root *definition.Definition, tr *trail, obj *definition.Definition, from int, at string) ([]*definition.Definition, bool, error) {
	props, ok := obj.Properties()
	if !ok {
		if obj.Has("properties") {
			return nil, false, errors.Mark(errors.Newf("explode: at %s: properties must be an object", at), schema.ErrInvalidSchema)
		}
		return []*definition.Definition{root}, false, nil
	}
	keys := props.Keys()
	exploded := false

	for i := from; i < len(keys); i++ {
		key := keys[i]
		child, ok := props.Definition(key)
		if !ok {
			return nil, false, errors.Mark(errors.Newf("explode: at %s/properties/%s: property must be an object", at, key), schema.ErrInvalidSchema)
		}
		childAt := at + "/properties/" + key

		if plainObject(child) {
			roots, ex, err := e.object(root, tr.push(key), child, 0, childAt)
			if err != nil {
				return nil, false, err
			}
			exploded = exploded || ex
			if len(roots) == 1 {
				root = roots[0]
				obj = locate(root, tr)
				props, _ = obj.Properties()
				continue
			}
			var out []*definition.Definition
			for _, r := range roots {
				vs, _, err := e.object(r, tr, locate(r, tr), i+1, at)
				if err != nil {
					return nil, false, err
				}
				if out, err = e.add(out, vs); err != nil {
					return nil, false, err
				}
			}
			return out, true, nil
		}

		vs, ex, err := e.node(child, childAt)
		if err != nil {
			return nil, false, err
		}
		exploded = exploded || ex
		if len(vs) == 1 {
			obj = obj.WithProperty(key, vs[0])
			props, _ = obj.Properties()
			root = replay(root, tr, obj)
			continue
		}
		var out []*definition.Definition
		for _, v := range vs {
			o := obj.WithProperty(key, v)
			rs, _, err := e.object(replay(root, tr, o), tr, o, i+1, at)
			if err != nil {
				return nil, false, err
			}
			if out, err = e.add(out, rs); err != nil {
				return nil, false, err
			}
		}
		return out, true, nil
	}
	return []*definition.Definition{root}, exploded, nil
}

// plainObject reports whether d is an object node the trail can descend
// into: it has properties and no combinator or reference of its own.
func plainObject(d *definition.Definition) bool {
	if !d.Has("properties") || d.Has("$ref") {
		return false
	}
	for _, k := range schema.CombinatorKeywords {
		if d.Has(k) {
			return false
		}
	}
	return true
}

package schema

import (
	"fmt"
	"math"
	"regexp"

	"github.com/cockroachdb/errors"

	"github.com/reoring/formskema/definition"
)

// Parse compiles a raw definition into a Tree and returns its root.
//
// Parsing never looks at data. It fails fast on structurally invalid input
// (errors are marked with ErrInvalidSchema or ErrUnresolvedRef).
func Parse(def *definition.Definition) (*Schema, error) {
	if def == nil {
		return nil, errors.Mark(errors.New("schema: nil definition"), ErrInvalidSchema)
	}
	p := &parser{tree: &Tree{named: map[string]NodeID{}}}
	root, err := p.parse(def, NoNode, "", "#", false)
	if err != nil {
		return nil, err
	}
	p.tree.root = root

	for _, section := range []string{"definitions", "$defs"} {
		defs, ok := def.Definition(section)
		if !ok {
			if def.Has(section) {
				return nil, invalidf("#", "%q must be an object", section)
			}
			continue
		}
		for _, name := range defs.Keys() {
			nd, ok := defs.Definition(name)
			if !ok {
				return nil, invalidf("#/"+section+"/"+name, "definition must be an object")
			}
			id, err := p.parse(nd, NoNode, name, "#/"+section+"/"+name, false)
			if err != nil {
				return nil, err
			}
			p.tree.named["#/"+section+"/"+name] = id
		}
	}

	if err := p.checkRefs(); err != nil {
		return nil, err
	}
	return p.tree.Root(), nil
}

// MustParse is Parse that panics on error. Intended for schemas embedded in
// programs and tests.
func MustParse(def *definition.Definition) *Schema {
	s, err := Parse(def)
	if err != nil {
		panic(err)
	}
	return s
}

type refUse struct {
	ref string
	at  string
}

type parser struct {
	tree *Tree
	refs []refUse
}

func (p *parser) parse(d *definition.Definition, parent NodeID, key, at string, alternative bool) (NodeID, error) {
	id := NodeID(len(p.tree.nodes))
	// reserve the slot so children can point at it
	p.tree.nodes = append(p.tree.nodes, node{})

	n := node{
		parent:      parent,
		key:         key,
		alternative: alternative,
		source:      d,
		items:       NoNode,
	}

	if ref, ok := d.String("$ref"); ok {
		n.ref = ref
		p.refs = append(p.refs, refUse{ref: ref, at: at})
		p.tree.nodes[id] = n
		return id, nil
	}

	kind, err := kindFor(d, at)
	if err != nil {
		return NoNode, err
	}
	n.kind = kind

	if err := p.parseProperties(d, &n, id, at); err != nil {
		return NoNode, err
	}
	if err := p.parseItems(d, &n, id, at); err != nil {
		return NoNode, err
	}
	if err := parseConstraints(d, &n, at); err != nil {
		return NoNode, err
	}
	if err := p.parseClauses(d, &n, id, key, at); err != nil {
		return NoNode, err
	}

	p.tree.nodes[id] = n
	return id, nil
}

func kindFor(d *definition.Definition, at string) (Kind, error) {
	if raw, ok := d.Get("type"); ok {
		name, isString := raw.(string)
		if !isString {
			return KindAny, invalidf(at, "type must be a string, got %T", raw)
		}
		k, known := kindOf(name)
		if !known {
			return KindAny, invalidf(at, "unsupported type %q", name)
		}
		if k == KindObject && !d.Has("properties") {
			return KindAny, errors.WithHint(invalidf(at, "type object requires properties"),
				"declare \"properties\": {} for an object without fields")
		}
		return k, nil
	}
	// untyped nodes are classified by the keywords they carry
	switch {
	case d.Has("properties") || d.Has("required"):
		return KindObject, nil
	case d.Has("items") || d.Has("minItems") || d.Has("maxItems") || d.Has("uniqueItems"):
		return KindArray, nil
	case d.Has("expression"):
		return KindExpression, nil
	case d.Has("minimum") || d.Has("maximum") || d.Has("exclusiveMinimum") || d.Has("exclusiveMaximum"):
		return KindNumber, nil
	case d.Has("minLength") || d.Has("maxLength") || d.Has("pattern"):
		return KindString, nil
	}
	return KindAny, nil
}

func (p *parser) parseProperties(d *definition.Definition, n *node, id NodeID, at string) error {
	raw, ok := d.Get("properties")
	if !ok {
		return nil
	}
	props, ok := raw.(*definition.Definition)
	if !ok {
		return invalidf(at, "properties must be an object, got %T", raw)
	}
	for _, name := range props.Keys() {
		pd, ok := props.Definition(name)
		if !ok {
			return invalidf(at+"/properties/"+name, "property schema must be an object")
		}
		cid, err := p.parse(pd, id, name, at+"/properties/"+name, false)
		if err != nil {
			return err
		}
		n.props = append(n.props, property{name: name, id: cid})
	}
	return nil
}

func (p *parser) parseItems(d *definition.Definition, n *node, id NodeID, at string) error {
	raw, ok := d.Get("items")
	if !ok {
		return nil
	}
	items, ok := raw.(*definition.Definition)
	if !ok {
		return errors.WithHint(invalidf(at, "items must be a single schema, got %T", raw),
			"tuple validation (items as an array) is not supported")
	}
	cid, err := p.parse(items, id, "*", at+"/items", false)
	if err != nil {
		return err
	}
	n.items = cid
	return nil
}

func parseConstraints(d *definition.Definition, n *node, at string) error {
	if raw, ok := d.Get("required"); ok {
		list, ok := raw.([]any)
		if !ok {
			return invalidf(at, "required must be an array of strings")
		}
		for _, r := range list {
			s, ok := r.(string)
			if !ok {
				return invalidf(at, "required entries must be strings, got %T", r)
			}
			n.required = append(n.required, s)
		}
	}

	var err error
	if n.minimum, err = number(d, "minimum", at); err != nil {
		return err
	}
	if n.maximum, err = number(d, "maximum", at); err != nil {
		return err
	}
	if n.exclusiveMinimum, err = number(d, "exclusiveMinimum", at); err != nil {
		return err
	}
	if n.exclusiveMaximum, err = number(d, "exclusiveMaximum", at); err != nil {
		return err
	}
	if n.minLength, err = count(d, "minLength", at); err != nil {
		return err
	}
	if n.maxLength, err = count(d, "maxLength", at); err != nil {
		return err
	}
	if n.minItems, err = count(d, "minItems", at); err != nil {
		return err
	}
	if n.maxItems, err = count(d, "maxItems", at); err != nil {
		return err
	}
	if raw, ok := d.Get("uniqueItems"); ok {
		b, ok := raw.(bool)
		if !ok {
			return invalidf(at, "uniqueItems must be a boolean")
		}
		n.uniqueItems = b
	}
	if raw, ok := d.Get("pattern"); ok {
		src, ok := raw.(string)
		if !ok {
			return invalidf(at, "pattern must be a string")
		}
		if src != "" {
			re, err := regexp.Compile(src)
			if err != nil {
				return errors.Mark(errors.Wrapf(err, "schema: at %s: pattern", at), ErrInvalidSchema)
			}
			n.pattern = re
		}
	}
	if raw, ok := d.Get("enum"); ok {
		list, ok := raw.([]any)
		if !ok {
			return invalidf(at, "enum must be an array")
		}
		for _, e := range list {
			n.enum = append(n.enum, enumItem(e))
		}
	}
	if v, ok := d.Get("default"); ok {
		n.def = plainValue(v)
		n.hasDefault = true
	}
	n.expression, _ = d.String("expression")
	n.validationExpression, _ = d.String("validationExpression")
	n.validationMessage, _ = d.String("validationMessage")
	n.readOnly, _ = d.Bool("readOnly")
	return nil
}

func (p *parser) parseClauses(d *definition.Definition, n *node, id NodeID, key, at string) error {
	base := d.Without(CombinatorKeywords...)
	for _, c := range Combinators {
		raw, ok := d.Get(c.Keyword())
		if !ok {
			continue
		}
		list, ok := raw.([]any)
		if !ok || len(list) == 0 {
			return invalidf(at, "%s must be a non-empty array of schemas", c)
		}
		cl := clause{kind: c}
		for i, entry := range list {
			alt, ok := entry.(*definition.Definition)
			if !ok {
				return invalidf(fmt.Sprintf("%s/%s/%d", at, c, i), "alternative must be an object")
			}
			aid, err := p.parse(definition.Merge(base, alt), id, key, fmt.Sprintf("%s/%s/%d", at, c, i), true)
			if err != nil {
				return err
			}
			cl.alts = append(cl.alts, aid)
		}
		n.clauses = append(n.clauses, cl)
	}
	return nil
}

func number(d *definition.Definition, key, at string) (*float64, error) {
	raw, ok := d.Get(key)
	if !ok {
		return nil, nil
	}
	f, ok := raw.(float64)
	if !ok || math.IsNaN(f) {
		return nil, invalidf(at, "%s must be a number, got %T", key, raw)
	}
	return &f, nil
}

func count(d *definition.Definition, key, at string) (*int, error) {
	f, err := number(d, key, at)
	if err != nil || f == nil {
		return nil, err
	}
	if *f < 0 || *f != math.Trunc(*f) {
		return nil, invalidf(at, "%s must be a non-negative integer, got %v", key, *f)
	}
	v := int(*f)
	return &v, nil
}

func enumItem(e any) EnumItem {
	if d, ok := e.(*definition.Definition); ok {
		v, hasValue := d.Get("value")
		text, _ := d.String("text")
		if hasValue {
			if text == "" {
				text = fmt.Sprint(v)
			}
			return EnumItem{Text: text, Value: plainValue(v)}
		}
		return EnumItem{Text: text, Value: d.ToMap()}
	}
	return EnumItem{Text: fmt.Sprint(e), Value: e}
}

func plainValue(v any) any {
	switch t := v.(type) {
	case *definition.Definition:
		return t.ToMap()
	case []any:
		out := make([]any, len(t))
		for i := range t {
			out[i] = plainValue(t[i])
		}
		return out
	default:
		return v
	}
}

package result

import (
	"slices"
	"strconv"

	"github.com/reoring/formskema/schema"
)

// Interpret reduces a raw result tree. Combinator wrappers are replaced by
// per-field Choices: for every field that failed in some alternative, the
// distinct messages for that field across all alternatives, keyed by the
// combinator kind. When all alternatives failed with a plain message, the
// messages are kept as they are under the node itself. Pass mode outcomes
// collapse to messages (invalid) or nothing (valid).
//
// Interpret is idempotent.
func Interpret(n Node) Node {
	switch t := n.(type) {
	case nil:
		return nil
	case Message, Sentinel, *Choice:
		return n
	case Outcome:
		if t.Invalid {
			return Message(t.Message)
		}
		return nil
	case *Object:
		out := NewObject()
		for _, k := range t.keys {
			out.Set(k, Interpret(t.vals[k]))
		}
		if out.Len() == 0 {
			return nil
		}
		return out
	case *List:
		out := &List{Message: Interpret(t.Message), Items: make([]Node, len(t.Items))}
		for i, it := range t.Items {
			out.Items[i] = Interpret(it)
		}
		if out.Empty() {
			return nil
		}
		return out
	case *Combined:
		var acc Node
		for _, c := range t.Clauses {
			acc = merge(acc, group(c.Kind, c.Results, true))
		}
		return acc
	}
	return n
}

// group folds the results the alternatives of one combinator produced for
// the same location. Messages are deduplicated unless verbatim is set and
// every part is a leaf.
func group(kind schema.Combinator, parts []Node, verbatim bool) Node {
	var (
		leaves  []string
		objects []*Object
		lists   []*List
		acc     Node
	)
	for _, p := range parts {
		switch t := p.(type) {
		case nil:
		case Outcome:
			if t.Invalid {
				leaves = append(leaves, t.Message)
			}
		case Message, Sentinel:
			s, _ := Text(t)
			leaves = append(leaves, s)
		case *Object:
			objects = append(objects, t)
		case *List:
			lists = append(lists, t)
		default:
			acc = merge(acc, Interpret(t))
		}
	}

	if len(objects) == 0 && len(lists) == 0 && acc == nil {
		if len(leaves) == 0 {
			return nil
		}
		c := &Choice{}
		if verbatim {
			c.entries = append(c.entries, choiceEntry{kind: kind, messages: leaves})
		} else {
			c.Add(kind, leaves...)
		}
		return c
	}
	if len(leaves) > 0 {
		c := &Choice{}
		c.Add(kind, leaves...)
		acc = merge(acc, c)
	}

	if len(objects) > 0 {
		var keys []string
		for _, o := range objects {
			for _, k := range o.keys {
				if !slices.Contains(keys, k) {
					keys = append(keys, k)
				}
			}
		}
		obj := NewObject()
		for _, k := range keys {
			var children []Node
			for _, o := range objects {
				if v, ok := o.vals[k]; ok {
					children = append(children, v)
				}
			}
			obj.Set(k, group(kind, children, false))
		}
		if obj.Len() > 0 {
			acc = merge(acc, obj)
		}
	}

	if len(lists) > 0 {
		size := 0
		var messages []Node
		for _, l := range lists {
			size = max(size, len(l.Items))
			if l.Message != nil {
				messages = append(messages, l.Message)
			}
		}
		out := &List{Message: group(kind, messages, false), Items: make([]Node, size)}
		for i := range size {
			var children []Node
			for _, l := range lists {
				if i < len(l.Items) {
					children = append(children, l.Items[i])
				}
			}
			out.Items[i] = group(kind, children, false)
		}
		if !out.Empty() {
			acc = merge(acc, out)
		}
	}
	return acc
}

// merge combines two interpreted nodes describing the same location.
func merge(a, b Node) Node {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	if ac, ok := a.(*Choice); ok {
		if bc, ok := b.(*Choice); ok {
			out := &Choice{}
			for _, e := range ac.entries {
				out.Add(e.kind, e.messages...)
			}
			for _, e := range bc.entries {
				out.Add(e.kind, e.messages...)
			}
			return out
		}
	}
	ao, aObj := a.(*Object)
	bo, bObj := b.(*Object)
	switch {
	case aObj && bObj:
		out := NewObject()
		for _, k := range ao.keys {
			out.Set(k, ao.vals[k])
		}
		for _, k := range bo.keys {
			prev, _ := out.Get(k)
			out.Set(k, merge(prev, bo.vals[k]))
		}
		return out
	case aObj:
		return merge(a, lift(b))
	case bObj:
		return merge(lift(a), b)
	}
	if al, ok := a.(*List); ok {
		if bl, ok := b.(*List); ok {
			out := &List{Message: merge(al.Message, bl.Message), Items: make([]Node, max(len(al.Items), len(bl.Items)))}
			for i := range out.Items {
				var x, y Node
				if i < len(al.Items) {
					x = al.Items[i]
				}
				if i < len(bl.Items) {
					y = bl.Items[i]
				}
				out.Items[i] = merge(x, y)
			}
			return out
		}
		if IsLeaf(b) || isChoice(b) {
			return &List{Message: merge(al.Message, b), Items: al.Items}
		}
	}
	if bl, ok := b.(*List); ok && (IsLeaf(a) || isChoice(a)) {
		return &List{Message: merge(a, bl.Message), Items: bl.Items}
	}
	// leaves without a common combinator kind cannot be combined
	return a
}

func isChoice(n Node) bool {
	_, ok := n.(*Choice)
	return ok
}

// lift puts a node-level result under the empty key so that it can live next
// to field results.
func lift(n Node) *Object {
	o := NewObject()
	o.Set("", n)
	return o
}

// Flatten maps dotted field paths to their distinct messages. Array elements
// contribute their index; node-level messages use the node's own path (the
// root is "").
func Flatten(n Node) map[string][]string {
	out := map[string][]string{}
	flatten(Interpret(n), "", out)
	return out
}

func flatten(n Node, path string, out map[string][]string) {
	add := func(msgs ...string) {
		for _, m := range msgs {
			if !slices.Contains(out[path], m) {
				out[path] = append(out[path], m)
			}
		}
	}
	switch t := n.(type) {
	case nil:
	case *Choice:
		add(t.All()...)
	case *Object:
		for _, k := range t.keys {
			flatten(t.vals[k], join(path, k), out)
		}
	case *List:
		flatten(t.Message, path, out)
		for i, it := range t.Items {
			flatten(it, join(path, strconv.Itoa(i)), out)
		}
	default:
		if s, ok := Text(t); ok {
			add(s)
		}
	}
}

func join(path, key string) string {
	switch {
	case path == "":
		return key
	case key == "":
		return path
	}
	return path + "." + key
}

package result

import (
	"slices"

	"github.com/reoring/formskema/schema"
)

// Node is one element of a validation result tree. A nil Node means valid.
type Node interface {
	isNode()
}

// Message is a failure with human-readable text.
type Message string

// Sentinel is a distinguished marker that is not free text.
type Sentinel string

// Required marks a mandatory field that has no value.
const Required Sentinel = "REQUIRED"

// Outcome is a leaf reported in pass mode: it carries its message whether
// the check failed or not.
type Outcome struct {
	Message string
	Invalid bool
}

// Object holds per-field results in schema order.
type Object struct {
	keys []string
	vals map[string]Node
}

// List is the result of an array node: a failure of the array itself and
// one entry per element (nil for valid elements).
type List struct {
	Message Node
	Items   []Node
}

// Clause is the raw outcome of one combinator on a node.
type Clause struct {
	Kind    schema.Combinator
	Results []Node
}

// Combined wraps the combinator outcomes of a single node.
type Combined struct {
	Clauses []Clause
}

// Choice is an interpreted combinator outcome: per combinator kind, the
// distinct messages that apply.
type Choice struct {
	entries []choiceEntry
}

type choiceEntry struct {
	kind     schema.Combinator
	messages []string
}

func (Message) isNode()   {}
func (Sentinel) isNode()  {}
func (Outcome) isNode()   {}
func (*Object) isNode()   {}
func (*List) isNode()     {}
func (*Combined) isNode() {}
func (*Choice) isNode()   {}

// NewObject returns an empty object result.
func NewObject() *Object { return &Object{vals: map[string]Node{}} }

// Set stores n under key. Setting nil removes the key.
func (o *Object) Set(key string, n Node) {
	if n == nil {
		if _, ok := o.vals[key]; ok {
			delete(o.vals, key)
			o.keys = slices.DeleteFunc(o.keys, func(k string) bool { return k == key })
		}
		return
	}
	if _, ok := o.vals[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.vals[key] = n
}

func (o *Object) Get(key string) (Node, bool) {
	n, ok := o.vals[key]
	return n, ok
}

// Keys returns the field names in insertion order.
func (o *Object) Keys() []string { return slices.Clone(o.keys) }

func (o *Object) Len() int { return len(o.keys) }

// Empty reports whether the list carries no failure at all.
func (l *List) Empty() bool {
	if l.Message != nil {
		return false
	}
	for _, it := range l.Items {
		if it != nil {
			return false
		}
	}
	return true
}

// Add appends messages under kind, skipping duplicates.
func (c *Choice) Add(kind schema.Combinator, messages ...string) {
	i := slices.IndexFunc(c.entries, func(e choiceEntry) bool { return e.kind == kind })
	if i < 0 {
		c.entries = append(c.entries, choiceEntry{kind: kind})
		i = len(c.entries) - 1
	}
	for _, m := range messages {
		if !slices.Contains(c.entries[i].messages, m) {
			c.entries[i].messages = append(c.entries[i].messages, m)
		}
	}
}

// Kinds returns the combinators present, in insertion order.
func (c *Choice) Kinds() []schema.Combinator {
	out := make([]schema.Combinator, len(c.entries))
	for i, e := range c.entries {
		out[i] = e.kind
	}
	return out
}

// Messages returns the messages recorded for kind.
func (c *Choice) Messages(kind schema.Combinator) []string {
	for _, e := range c.entries {
		if e.kind == kind {
			return slices.Clone(e.messages)
		}
	}
	return nil
}

// All returns every distinct message across kinds.
func (c *Choice) All() []string {
	var out []string
	for _, e := range c.entries {
		for _, m := range e.messages {
			if !slices.Contains(out, m) {
				out = append(out, m)
			}
		}
	}
	return out
}

// Text returns the message carried by a leaf, if n is one.
func Text(n Node) (string, bool) {
	switch t := n.(type) {
	case Message:
		return string(t), true
	case Sentinel:
		return string(t), true
	case Outcome:
		return t.Message, true
	}
	return "", false
}

// IsLeaf reports whether n is a leaf (message, sentinel or outcome).
func IsLeaf(n Node) bool {
	_, ok := Text(n)
	return ok
}

// Failing reports whether n holds any failure. Valid outcomes do not count.
func Failing(n Node) bool {
	switch t := n.(type) {
	case nil:
		return false
	case Outcome:
		return t.Invalid
	case *Object:
		for _, k := range t.keys {
			if Failing(t.vals[k]) {
				return true
			}
		}
		return false
	case *List:
		if Failing(t.Message) {
			return true
		}
		for _, it := range t.Items {
			if Failing(it) {
				return true
			}
		}
		return false
	case *Combined:
		for _, c := range t.Clauses {
			for _, r := range c.Results {
				if Failing(r) {
					return true
				}
			}
		}
		return false
	case *Choice:
		return len(t.entries) > 0
	}
	return true
}

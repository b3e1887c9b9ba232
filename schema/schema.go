package schema

import (
	"regexp"
	"slices"

	"github.com/reoring/formskema/definition"
)

// NodeID addresses a node inside a Tree.
type NodeID int32

// NoNode is the id of an absent node (no parent, no items).
const NoNode NodeID = -1

// EnumItem is one entry of a closed value set.
type EnumItem struct {
	Text  string
	Value any
}

// Clause is one combinator together with its alternatives. Every
// alternative is a complete schema: the owning node's own keywords merged
// with the alternative's entry.
type Clause struct {
	Kind         Combinator
	Alternatives []*Schema
}

type property struct {
	name string
	id   NodeID
}

type clause struct {
	kind Combinator
	alts []NodeID
}

type node struct {
	parent      NodeID
	key         string
	alternative bool
	kind        Kind
	source      *definition.Definition

	props []property
	items NodeID
	ref   string

	required         []string
	minimum          *float64
	maximum          *float64
	exclusiveMinimum *float64
	exclusiveMaximum *float64
	minLength        *int
	maxLength        *int
	minItems         *int
	maxItems         *int
	uniqueItems      bool
	pattern          *regexp.Regexp
	enum             []EnumItem

	def        any
	hasDefault bool

	expression           string
	validationExpression string
	validationMessage    string
	readOnly             bool

	clauses []clause
}

// Tree is the arena owning every node of a parsed schema. Nodes refer to
// each other by index only; a Tree is never modified after Parse returns
// and can be shared by concurrent validations.
type Tree struct {
	nodes []node
	root  NodeID
	named map[string]NodeID
}

// Schema is a read-only handle on one node of a Tree.
type Schema struct {
	tree *Tree
	id   NodeID
}

func (t *Tree) at(id NodeID) *Schema {
	if id == NoNode {
		return nil
	}
	return &Schema{tree: t, id: id}
}

// Root returns the root node of the tree.
func (t *Tree) Root() *Schema { return t.at(t.root) }

// Len returns the number of nodes in the arena.
func (t *Tree) Len() int { return len(t.nodes) }

func (s *Schema) n() *node { return &s.tree.nodes[s.id] }

// ID returns the arena index of the node.
func (s *Schema) ID() NodeID { return s.id }

// Tree returns the arena the node belongs to.
func (s *Schema) Tree() *Tree { return s.tree }

func (s *Schema) Kind() Kind   { return s.n().kind }
func (s *Schema) Shape() Shape { return s.n().kind.Shape() }

// Key is the property name this node is reached by ("" for roots).
func (s *Schema) Key() string { return s.n().key }

// Definition returns the raw definition the node was parsed from.
func (s *Schema) Definition() *definition.Definition { return s.n().source }

// Parent returns the enclosing node, if any.
func (s *Schema) Parent() (*Schema, bool) {
	p := s.n().parent
	if p == NoNode {
		return nil, false
	}
	return s.tree.at(p), true
}

// IsAlternative reports whether the node is a combinator alternative of its
// parent rather than a property or item.
func (s *Schema) IsAlternative() bool { return s.n().alternative }

// Path returns the property names leading from the root to this node.
// Array items contribute "*"; combinator alternatives contribute nothing.
func (s *Schema) Path() []string {
	var out []string
	for id := s.id; id != NoNode; id = s.tree.nodes[id].parent {
		n := &s.tree.nodes[id]
		if n.alternative || n.parent == NoNode {
			continue
		}
		out = append(out, n.key)
	}
	slices.Reverse(out)
	return out
}

// Properties returns the property names in declaration order.
func (s *Schema) Properties() []string {
	props := s.n().props
	out := make([]string, len(props))
	for i, p := range props {
		out[i] = p.name
	}
	return out
}

// Property returns the schema of the named property.
func (s *Schema) Property(name string) (*Schema, bool) {
	for _, p := range s.n().props {
		if p.name == name {
			return s.tree.at(p.id), true
		}
	}
	return nil, false
}

// Items returns the element schema of an array node.
func (s *Schema) Items() (*Schema, bool) {
	id := s.n().items
	if id == NoNode {
		return nil, false
	}
	return s.tree.at(id), true
}

// Required returns the names of mandatory properties.
func (s *Schema) Required() []string { return slices.Clone(s.n().required) }

func (s *Schema) Minimum() (float64, bool)          { return deref(s.n().minimum) }
func (s *Schema) Maximum() (float64, bool)          { return deref(s.n().maximum) }
func (s *Schema) ExclusiveMinimum() (float64, bool) { return deref(s.n().exclusiveMinimum) }
func (s *Schema) ExclusiveMaximum() (float64, bool) { return deref(s.n().exclusiveMaximum) }
func (s *Schema) MinLength() (int, bool)            { return deref(s.n().minLength) }
func (s *Schema) MaxLength() (int, bool)            { return deref(s.n().maxLength) }
func (s *Schema) MinItems() (int, bool)             { return deref(s.n().minItems) }
func (s *Schema) MaxItems() (int, bool)             { return deref(s.n().maxItems) }
func (s *Schema) UniqueItems() bool                 { return s.n().uniqueItems }
func (s *Schema) Pattern() *regexp.Regexp           { return s.n().pattern }
func (s *Schema) Enum() []EnumItem                  { return slices.Clone(s.n().enum) }

// Default returns the declared default value.
func (s *Schema) Default() (any, bool) { return s.n().def, s.n().hasDefault }

// Expression is the formula attached to the node. On expression nodes it
// computes a derived value, on typed nodes it is a validity test.
func (s *Schema) Expression() string { return s.n().expression }

// ValidationExpression is an explicit validity test formula.
func (s *Schema) ValidationExpression() string { return s.n().validationExpression }

// ValidationMessage overrides every message produced for this node.
func (s *Schema) ValidationMessage() string { return s.n().validationMessage }

func (s *Schema) ReadOnly() bool { return s.n().readOnly }

// Clauses returns the combinators attached to the node, in anyOf, allOf,
// oneOf order.
func (s *Schema) Clauses() []Clause {
	cs := s.n().clauses
	out := make([]Clause, len(cs))
	for i, c := range cs {
		alts := make([]*Schema, len(c.alts))
		for j, id := range c.alts {
			alts[j] = s.tree.at(id)
		}
		out[i] = Clause{Kind: c.kind, Alternatives: alts}
	}
	return out
}

// HasCombinators reports whether any combinator is attached.
func (s *Schema) HasCombinators() bool { return len(s.n().clauses) > 0 }

func deref[T any](p *T) (T, bool) {
	if p == nil {
		var zero T
		return zero, false
	}
	return *p, true
}

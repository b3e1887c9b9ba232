package schema

import (
	"slices"
	"strings"

	"github.com/cockroachdb/errors"
)

func (p *parser) checkRefs() error {
	for _, use := range p.refs {
		if _, ok := p.tree.lookup(use.ref); !ok {
			err := errors.Newf("schema: at %s: $ref %q", use.at, use.ref)
			return errors.WithHint(errors.Mark(err, ErrUnresolvedRef),
				"refs are local: use \"#\", \"#/definitions/<name>\" or \"#/$defs/<name>\"")
		}
	}
	return nil
}

func (t *Tree) lookup(ref string) (NodeID, bool) {
	if ref == "#" || ref == "" {
		return t.root, true
	}
	ref = strings.TrimSuffix(ref, "/")
	id, ok := t.named[ref]
	return id, ok
}

// Ref returns the $ref target string of the node, if it is a reference.
func (s *Schema) Ref() (string, bool) {
	r := s.n().ref
	return r, r != ""
}

// Resolve returns the node a reference points at. Non-reference nodes
// resolve to themselves. Chains of references are followed; a cycle made
// only of references resolves to the last distinct node visited.
func (s *Schema) Resolve() *Schema {
	cur := s
	seen := map[NodeID]bool{}
	for {
		ref, ok := cur.Ref()
		if !ok || seen[cur.id] {
			return cur
		}
		seen[cur.id] = true
		id, ok := cur.tree.lookup(ref)
		if !ok {
			return cur
		}
		cur = cur.tree.at(id)
	}
}

// Named returns a schema declared under definitions or $defs.
func (t *Tree) Named(ref string) (*Schema, bool) {
	id, ok := t.lookup(ref)
	if !ok {
		return nil, false
	}
	return t.at(id), true
}

// NamedRefs lists the references of every definitions/$defs entry, sorted.
func (t *Tree) NamedRefs() []string {
	refs := make([]string, 0, len(t.named))
	for ref := range t.named {
		refs = append(refs, ref)
	}
	slices.Sort(refs)
	return refs
}

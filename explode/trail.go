package explode

import (
	"fmt"
	"slices"

	"github.com/reoring/formskema/definition"
)

// trail is the persistent chain of property names leading from an
// explosion root down to the object being expanded. Pushing never touches
// the receiver, so sibling branches share their common prefix.
type trail struct {
	key string
	up  *trail
}

func (t *trail) push(key string) *trail { return &trail{key: key, up: t} }

// keys returns the names root first.
func (t *trail) keys() []string {
	var out []string
	for c := t; c != nil; c = c.up {
		out = append(out, c.key)
	}
	slices.Reverse(out)
	return out
}

// replay rebuilds root with obj placed at the end of the trail. Nodes off the
// trail are shared with the input.
func replay(root *definition.Definition, t *trail, obj *definition.Definition) *definition.Definition {
	return place(root, t.keys(), obj)
}

func place(node *definition.Definition, keys []string, obj *definition.Definition) *definition.Definition {
	if len(keys) == 0 {
		return obj
	}
	child, _ := node.Property(keys[0])
	return node.WithProperty(keys[0], place(child, keys[1:], obj))
}

// locate walks the trail down from root.
func locate(root *definition.Definition, t *trail) *definition.Definition {
	cur := root
	for _, k := range t.keys() {
		cur, _ = cur.Property(k)
	}
	return cur
}

func fmtAt(at, keyword string, i int) string {
	return fmt.Sprintf("%s/%s/%d", at, keyword, i)
}

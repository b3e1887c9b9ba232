package definition

import (
	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"
)

// DecodeYAML parses a single YAML document. Mapping order is taken from the
// node tree, so properties keep their declaration order.
func DecodeYAML(data []byte) (*Definition, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Mark(errors.Wrap(err, "definition: decoding YAML"), ErrInvalidDocument)
	}
	v, err := fromYAMLNode(&doc)
	if err != nil {
		return nil, errors.Mark(errors.Wrap(err, "definition: decoding YAML"), ErrInvalidDocument)
	}
	d, ok := v.(*Definition)
	if !ok {
		return nil, errors.Mark(errors.Newf("definition: document root must be a mapping, got %T", v), ErrInvalidDocument)
	}
	return d, nil
}

func fromYAMLNode(n *yaml.Node) (any, error) {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil, nil
		}
		return fromYAMLNode(n.Content[0])
	case yaml.AliasNode:
		return fromYAMLNode(n.Alias)
	case yaml.MappingNode:
		d := New()
		for i := 0; i+1 < len(n.Content); i += 2 {
			kn, vn := n.Content[i], n.Content[i+1]
			if kn.Kind != yaml.ScalarNode {
				return nil, errors.Newf("line %d: mapping keys must be scalars", kn.Line)
			}
			v, err := fromYAMLNode(vn)
			if err != nil {
				return nil, err
			}
			d.set(kn.Value, v)
		}
		return d, nil
	case yaml.SequenceNode:
		out := make([]any, 0, len(n.Content))
		for _, c := range n.Content {
			v, err := fromYAMLNode(c)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil
	case yaml.ScalarNode:
		var v any
		if err := n.Decode(&v); err != nil {
			return nil, errors.Wrapf(err, "line %d", n.Line)
		}
		return normalize(v), nil
	}
	return nil, errors.Newf("line %d: unsupported YAML node kind %d", n.Line, n.Kind)
}

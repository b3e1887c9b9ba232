package definition

import (
	"strings"

	"github.com/cockroachdb/errors"
)

// ErrUnknownField is returned by Project for a field path the schema does
// not declare.
var ErrUnknownField = errors.New("definition: unknown field")

// Project reduces def to the properties reachable through the given dotted
// field paths. Every object on a path keeps its own keywords (type,
// required, constraints); only its "properties" are narrowed.
func Project(def *Definition, fields []string) (*Definition, error) {
	out := def.With("properties", New())
	for _, f := range fields {
		parts := strings.Split(f, ".")
		var err error
		out, err = project(def, out, parts, f)
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

func project(src, dst *Definition, parts []string, field string) (*Definition, error) {
	name := parts[0]
	sp, ok := src.Property(name)
	if !ok {
		return nil, errors.WithHintf(
			errors.Mark(errors.Newf("definition: field %q: no property %q", field, name), ErrUnknownField),
			"declared properties: %s", strings.Join(propertyNames(src), ", "))
	}
	node, ok := dst.Property(name)
	if !ok {
		node = New()
	}
	for _, k := range sp.keys {
		if k == "properties" {
			continue
		}
		node = node.With(k, sp.vals[k])
	}
	if len(parts) > 1 {
		if !node.Has("properties") {
			node = node.With("properties", New())
		}
		var err error
		node, err = project(sp, node, parts[1:], field)
		if err != nil {
			return nil, err
		}
	}
	return dst.WithProperty(name, node), nil
}

func propertyNames(d *Definition) []string {
	props, _ := d.Properties()
	return props.Keys()
}

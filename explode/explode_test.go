package explode_test

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reoring/formskema/definition"
	"github.com/reoring/formskema/explode"
	"github.com/reoring/formskema/schema"
)

type m = map[string]any

func numbers(names ...string) m {
	props := m{}
	for _, n := range names {
		props[n] = m{"type": "number"}
	}
	return props
}

func base() m {
	return m{"type": "object", "properties": numbers("first", "second", "third", "fourth")}
}

func maps(r explode.Result) []map[string]any {
	out := make([]map[string]any, len(r.Variants))
	for i, v := range r.Variants {
		out[i] = v.ToMap()
	}
	return out
}

func run(t *testing.T, src m, opts ...explode.Option) explode.Result {
	t.Helper()
	r, err := explode.Explode(definition.FromMap(src), opts...)
	require.NoError(t, err)
	return r
}

func TestExplode_NoCombinatorsIsFixpoint(t *testing.T) {
	src := m{
		"type": "object",
		"properties": m{
			"name":     m{"type": "string"},
			"accounts": m{"type": "array", "items": m{"type": "object", "properties": numbers("n")}},
			"address":  m{"type": "object", "properties": numbers("street")},
		},
	}
	r := run(t, src)
	assert.False(t, r.Exploded)
	require.Len(t, r.Variants, 1)
	assert.True(t, definition.Equal(definition.FromMap(src), r.Variants[0]))
}

func TestExplode_SimpleAnyOf(t *testing.T) {
	s := base()
	s["anyOf"] = []any{m{"required": []any{"first"}}, m{"required": []any{"second"}}}

	r := run(t, s)
	assert.True(t, r.Exploded)
	want := []map[string]any{
		{"type": "object", "properties": numbers("first", "second", "third", "fourth"), "required": []any{"first"}},
		{"type": "object", "properties": numbers("first", "second", "third", "fourth"), "required": []any{"second"}},
	}
	assert.Equal(t, want, maps(r))
}

func TestExplode_NestedAnyOf(t *testing.T) {
	s := base()
	s["anyOf"] = []any{
		m{"anyOf": []any{m{"required": []any{"first"}}, m{"required": []any{"third"}}}},
		m{"required": []any{"second"}},
	}
	r := run(t, s)
	require.Len(t, r.Variants, 3)
	var required [][]any
	for _, v := range r.Variants {
		l, _ := v.List("required")
		required = append(required, l)
		assert.False(t, v.Has("anyOf"))
	}
	assert.Equal(t, [][]any{{"first"}, {"third"}, {"second"}}, required)
}

func TestExplode_AllOfMergesRequired(t *testing.T) {
	s := base()
	s["allOf"] = []any{
		m{"required": []any{"first"}},
		m{"required": []any{"second"}},
		m{"required": []any{"fourth"}},
	}
	r := run(t, s)
	require.Len(t, r.Variants, 1)
	req, _ := r.Variants[0].List("required")
	assert.Equal(t, []any{"first", "second", "fourth"}, req)
}

func TestExplode_AllOfWithNestedAnyOf(t *testing.T) {
	s := base()
	s["allOf"] = []any{
		m{"required": []any{"first"}},
		m{"anyOf": []any{m{"required": []any{"second"}}, m{"required": []any{"third"}}}},
		m{"required": []any{"fourth"}},
	}
	r := run(t, s)
	require.Len(t, r.Variants, 2)
	first, _ := r.Variants[0].List("required")
	second, _ := r.Variants[1].List("required")
	assert.Equal(t, []any{"first", "second", "fourth"}, first)
	assert.Equal(t, []any{"first", "third", "fourth"}, second)
}

func TestExplode_CartesianProductLaw(t *testing.T) {
	s := m{
		"type": "number",
		"allOf": []any{
			m{"anyOf": []any{m{"minimum": 1}, m{"minimum": 2}}},
			m{"anyOf": []any{m{"maximum": 10}, m{"maximum": 20}, m{"maximum": 30}}},
		},
	}
	r := run(t, s)
	assert.Len(t, r.Variants, 6)
	for _, v := range r.Variants {
		assert.True(t, v.Has("minimum"))
		assert.True(t, v.Has("maximum"))
		assert.Equal(t, "number", v.ToMap()["type"])
	}
}

func TestExplode_UnionLaw(t *testing.T) {
	s := m{
		"type": "number",
		"anyOf": []any{
			m{"anyOf": []any{m{"minimum": 1}, m{"minimum": 2}}},
			m{"anyOf": []any{m{"maximum": 10}, m{"maximum": 20}, m{"maximum": 30}}},
		},
	}
	assert.Len(t, run(t, s).Variants, 5)
}

func TestExplode_PropertyRoundTrip(t *testing.T) {
	s := m{
		"type": "object",
		"properties": m{
			"a": m{"type": "number", "anyOf": []any{m{"minimum": 0}, m{"maximum": 1000}}},
			"b": m{"type": "string"},
		},
	}
	r := run(t, s)
	require.True(t, r.Exploded)
	require.Len(t, r.Variants, 2)
	assert.Equal(t, m{"type": "number", "minimum": 0.0}, prop(t, r.Variants[0], "a"))
	assert.Equal(t, m{"type": "number", "maximum": 1000.0}, prop(t, r.Variants[1], "a"))
	for _, v := range r.Variants {
		assert.Equal(t, m{"type": "string"}, prop(t, v, "b"))
	}
}

func TestExplode_MultipleProperties(t *testing.T) {
	s := base()
	props := s["properties"].(m)
	props["first"] = m{"type": "number", "anyOf": []any{m{"minimum": 2}, m{"maximum": 10}}}
	props["third"] = m{"type": "number", "anyOf": []any{m{"minimum": 0}, m{"maximum": 1}}}

	r := run(t, s)
	require.Len(t, r.Variants, 4)
	want := [][2]m{
		{{"type": "number", "minimum": 2.0}, {"type": "number", "minimum": 0.0}},
		{{"type": "number", "minimum": 2.0}, {"type": "number", "maximum": 1.0}},
		{{"type": "number", "maximum": 10.0}, {"type": "number", "minimum": 0.0}},
		{{"type": "number", "maximum": 10.0}, {"type": "number", "maximum": 1.0}},
	}
	for i, v := range r.Variants {
		assert.Equal(t, want[i][0], prop(t, v, "first"), "variant %d", i)
		assert.Equal(t, want[i][1], prop(t, v, "third"), "variant %d", i)
		assert.Equal(t, m{"type": "number"}, prop(t, v, "second"))
		assert.Equal(t, m{"type": "number"}, prop(t, v, "fourth"))
	}
}

func TestExplode_AnyOfAndAllOfProperties(t *testing.T) {
	s := base()
	props := s["properties"].(m)
	props["first"] = m{"type": "number", "anyOf": []any{m{"minimum": 2}, m{"maximum": 10}}}
	props["third"] = m{"type": "number", "allOf": []any{m{"minimum": 0}, m{"maximum": 1}}}

	r := run(t, s)
	require.Len(t, r.Variants, 2)
	for _, v := range r.Variants {
		assert.Equal(t, m{"type": "number", "minimum": 0.0, "maximum": 1.0}, prop(t, v, "third"))
	}
	assert.Equal(t, m{"type": "number", "minimum": 2.0}, prop(t, r.Variants[0], "first"))
	assert.Equal(t, m{"type": "number", "maximum": 10.0}, prop(t, r.Variants[1], "first"))
}

func TestExplode_DeepProperties(t *testing.T) {
	s := m{
		"type": "object",
		"properties": m{
			"name": m{"type": "string"},
			"first": m{
				"type": "object",
				"properties": m{
					"second": m{
						"type": "object",
						"properties": m{
							"third": m{"type": "number", "anyOf": []any{m{"minimum": 2}, m{"maximum": 2}}},
							"other": m{"type": "number", "anyOf": []any{m{"minimum": 5}, m{"maximum": 6}}},
						},
					},
				},
			},
			"last": m{"type": "integer", "anyOf": []any{m{"minimum": 1}, m{"maximum": 9}}},
		},
	}
	r := run(t, s)
	require.Len(t, r.Variants, 8)

	seen := map[string]bool{}
	for _, v := range r.Variants {
		mm := v.ToMap()
		second := mm["properties"].(m)["first"].(m)["properties"].(m)["second"].(m)["properties"].(m)
		key := ""
		for _, f := range []m{second["other"].(m), second["third"].(m), mm["properties"].(m)["last"].(m)} {
			assert.NotContains(t, f, "anyOf")
			assert.Len(t, f, 2)
			for k := range f {
				if k != "type" {
					key += k + "/"
				}
			}
		}
		assert.Equal(t, m{"type": "string"}, mm["properties"].(m)["name"])
		seen[key] = true
	}
	assert.Len(t, seen, 8, "every combination appears once")
}

func TestExplode_ArrayItems(t *testing.T) {
	s := m{
		"type":     "array",
		"minItems": 1,
		"items":    m{"type": "string", "anyOf": []any{m{"minLength": 2}, m{"pattern": "^x"}}},
	}
	r := run(t, s)
	require.Len(t, r.Variants, 2)
	for _, v := range r.Variants {
		n, _ := v.Number("minItems")
		assert.Equal(t, 1.0, n)
		items, ok := v.Items()
		require.True(t, ok)
		assert.False(t, items.Has("anyOf"))
	}
}

func TestExplode_RejectsOneOf(t *testing.T) {
	s := base()
	s["properties"].(m)["second"] = m{"type": "number", "oneOf": []any{m{"minimum": 1}, m{"maximum": 0}}}
	_, err := explode.Explode(definition.FromMap(s))
	require.Error(t, err)
	assert.True(t, errors.Is(err, explode.ErrOneOfUnsupported))

	s = m{"allOf": []any{m{"oneOf": []any{m{"required": []any{"a"}}}}}}
	_, err = explode.Explode(definition.FromMap(s))
	assert.True(t, errors.Is(err, explode.ErrOneOfUnsupported))
}

func TestExplode_Limit(t *testing.T) {
	s := m{
		"type": "number",
		"allOf": []any{
			m{"anyOf": []any{m{"minimum": 1}, m{"minimum": 2}}},
			m{"anyOf": []any{m{"maximum": 10}, m{"maximum": 20}}},
		},
	}
	_, err := explode.Explode(definition.FromMap(s), explode.WithLimit(3))
	require.Error(t, err)
	assert.True(t, errors.Is(err, explode.ErrTooManyVariants))

	r := run(t, s, explode.WithLimit(4))
	assert.Len(t, r.Variants, 4)
}

func TestExplode_InvalidAlternative(t *testing.T) {
	_, err := explode.Explode(definition.FromMap(m{"anyOf": []any{"nope"}}))
	require.Error(t, err)
	assert.True(t, errors.Is(err, schema.ErrInvalidSchema))
}

func TestResult_Schemas(t *testing.T) {
	s := base()
	s["anyOf"] = []any{m{"required": []any{"first"}}, m{"required": []any{"second"}}}
	schemas, err := run(t, s).Schemas()
	require.NoError(t, err)
	require.Len(t, schemas, 2)
	assert.Equal(t, []string{"first"}, schemas[0].Required())
	assert.False(t, schemas[1].HasCombinators())
}

func prop(t *testing.T, d *definition.Definition, name string) map[string]any {
	t.Helper()
	p, ok := d.Property(name)
	require.True(t, ok, "property %s", name)
	return p.ToMap()
}

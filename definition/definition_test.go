package definition_test

import (
	"strings"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reoring/formskema/definition"
)

func TestDecodeJSON_PreservesKeyOrder(t *testing.T) {
	d, err := definition.DecodeJSON(strings.NewReader(`{
		"type": "object",
		"properties": {"zeta": {"type": "string"}, "alpha": {"type": "number", "minimum": 2}},
		"required": ["zeta"]
	}`))
	require.NoError(t, err)
	assert.Equal(t, []string{"type", "properties", "required"}, d.Keys())

	props, ok := d.Properties()
	require.True(t, ok)
	assert.Equal(t, []string{"zeta", "alpha"}, props.Keys())

	alpha, ok := d.Property("alpha")
	require.True(t, ok)
	min, ok := alpha.Number("minimum")
	require.True(t, ok)
	assert.Equal(t, 2.0, min)
}

func TestDecodeJSON_RejectsNonObjectRoot(t *testing.T) {
	_, err := definition.DecodeJSONBytes([]byte(`[1,2]`))
	require.Error(t, err)
	assert.True(t, errors.Is(err, definition.ErrInvalidDocument))

	_, err = definition.DecodeJSONBytes([]byte(`{"type": `))
	require.Error(t, err)
	assert.True(t, errors.Is(err, definition.ErrInvalidDocument))
}

func TestDecodeJSON_RejectsDuplicateKeys(t *testing.T) {
	_, err := definition.DecodeJSONBytes([]byte(`{"properties": {"a": {}, "b": {"type": "string", "type": "number"}}}`))
	require.Error(t, err)
	assert.True(t, errors.Is(err, definition.ErrInvalidDocument))
	assert.Contains(t, err.Error(), `duplicate key "type"`)
}

func TestDecodeYAML_PreservesKeyOrder(t *testing.T) {
	d, err := definition.DecodeYAML([]byte(`
type: object
properties:
  second:
    type: integer
    maximum: 5
  first:
    type: boolean
required: [first]
`))
	require.NoError(t, err)
	props, _ := d.Properties()
	assert.Equal(t, []string{"second", "first"}, props.Keys())

	second, _ := d.Property("second")
	max, ok := second.Number("maximum")
	require.True(t, ok)
	assert.Equal(t, 5.0, max)

	req, ok := d.List("required")
	require.True(t, ok)
	assert.Equal(t, []any{"first"}, req)
}

func TestMarshalJSON_DocumentOrder(t *testing.T) {
	d, err := definition.DecodeJSONBytes([]byte(`{"b":1,"a":{"y":true,"x":[1,"s",null]}}`))
	require.NoError(t, err)
	out, err := d.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `{"b":1,"a":{"y":true,"x":[1,"s",null]}}`, string(out))
}

func TestWith_DoesNotMutateReceiver(t *testing.T) {
	base := definition.FromMap(map[string]any{"type": "number"})
	next := base.With("minimum", 3)

	assert.False(t, base.Has("minimum"))
	v, ok := next.Number("minimum")
	require.True(t, ok)
	assert.Equal(t, 3.0, v)

	without := next.Without("type")
	assert.True(t, next.Has("type"))
	assert.False(t, without.Has("type"))
}

func TestMerge_UnionsRequiredAndOverridesScalars(t *testing.T) {
	base := definition.FromMap(map[string]any{
		"type":     "object",
		"required": []any{"a"},
		"properties": map[string]any{
			"a": map[string]any{"type": "number", "minimum": 1},
		},
	})
	overlay := definition.FromMap(map[string]any{
		"required": []any{"b", "a"},
		"properties": map[string]any{
			"a": map[string]any{"minimum": 5},
			"b": map[string]any{"type": "string"},
		},
	})

	got := definition.Merge(base, overlay)
	assert.Equal(t, map[string]any{
		"type":     "object",
		"required": []any{"a", "b"},
		"properties": map[string]any{
			"a": map[string]any{"type": "number", "minimum": 5.0},
			"b": map[string]any{"type": "string"},
		},
	}, got.ToMap())

	// inputs untouched
	a, _ := base.Property("a")
	min, _ := a.Number("minimum")
	assert.Equal(t, 1.0, min)
}

func TestProject_KeepsOnlySelectedFields(t *testing.T) {
	def := definition.FromMap(map[string]any{
		"type":     "object",
		"required": []any{"name"},
		"properties": map[string]any{
			"name": map[string]any{"type": "string"},
			"age":  map[string]any{"type": "integer"},
			"address": map[string]any{
				"type":     "object",
				"required": []any{"street"},
				"properties": map[string]any{
					"street": map[string]any{"type": "string", "minLength": 5},
					"number": map[string]any{"type": "number"},
				},
			},
		},
	})

	got, err := definition.Project(def, []string{"name", "address.street"})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"type":     "object",
		"required": []any{"name"},
		"properties": map[string]any{
			"name": map[string]any{"type": "string"},
			"address": map[string]any{
				"type":     "object",
				"required": []any{"street"},
				"properties": map[string]any{
					"street": map[string]any{"type": "string", "minLength": 5.0},
				},
			},
		},
	}, got.ToMap())

	_, err = definition.Project(def, []string{"address.zip"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, definition.ErrUnknownField))
}

package result_test

import (
	"testing"

	j "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reoring/formskema/result"
	"github.com/reoring/formskema/schema"
)

func object(kv ...any) *result.Object {
	o := result.NewObject()
	for i := 0; i < len(kv); i += 2 {
		var n result.Node
		if kv[i+1] != nil {
			n = kv[i+1].(result.Node)
		}
		o.Set(kv[i].(string), n)
	}
	return o
}

func marshal(t *testing.T, n result.Node) string {
	t.Helper()
	b, err := j.Marshal(n)
	require.NoError(t, err)
	return string(b)
}

func TestObject_SetKeepsOrderAndRemovesNil(t *testing.T) {
	o := object("b", result.Message("x"), "a", result.Required)
	o.Set("b", result.Message("y"))
	assert.Equal(t, []string{"b", "a"}, o.Keys())
	o.Set("b", nil)
	assert.Equal(t, []string{"a"}, o.Keys())
	assert.Equal(t, `{"a":"REQUIRED"}`, marshal(t, o))
}

func TestMarshal_CombinedShape(t *testing.T) {
	raw := &result.Combined{Clauses: []result.Clause{
		{Kind: schema.AnyOf, Results: []result.Node{object("x", result.Required), result.Message("too short")}},
		{Kind: schema.OneOf, Results: []result.Node{result.Outcome{Message: "m", Invalid: true}}},
	}}
	assert.JSONEq(t, `{"VALIDATION":[
		{"anyOf":[{"x":"REQUIRED"},"too short"]},
		{"oneOf":[{"message":"m","invalid":true}]}
	]}`, marshal(t, raw))

	list := &result.List{Items: []result.Node{nil, result.Message("bad")}}
	assert.Equal(t, `[null,"bad"]`, marshal(t, list))
	list.Message = result.Message("Collection has to contain at least 3 items")
	assert.JSONEq(t, `{"message":"Collection has to contain at least 3 items","items":[null,"bad"]}`, marshal(t, list))
}

func TestInterpret_LeafAlternativesKeptVerbatim(t *testing.T) {
	raw := &result.Combined{Clauses: []result.Clause{{
		Kind: schema.AllOf,
		Results: []result.Node{
			result.Message("Value has to be higher or equal than 10"),
			result.Message("Value has to be lower or equal than 0"),
		},
	}}}
	got := result.Interpret(raw)
	assert.JSONEq(t, `{"allOf":["Value has to be higher or equal than 10","Value has to be lower or equal than 0"]}`, marshal(t, got))
}

func TestInterpret_CollectsDistinctMessagesPerField(t *testing.T) {
	raw := object(
		"name", result.Message("Incorrect format"),
		"", &result.Combined{Clauses: []result.Clause{{
			Kind: schema.AnyOf,
			Results: []result.Node{
				object("first", result.Required, "second", result.Message("Too short")),
				object("first", result.Required, "third", result.Required),
			},
		}}},
	)
	got := result.Interpret(raw)
	assert.JSONEq(t, `{
		"name": "Incorrect format",
		"": {
			"first": {"anyOf": ["REQUIRED"]},
			"second": {"anyOf": ["Too short"]},
			"third": {"anyOf": ["REQUIRED"]}
		}
	}`, marshal(t, got))

	flat := result.Flatten(raw)
	assert.Equal(t, map[string][]string{
		"name":   {"Incorrect format"},
		"first":  {"REQUIRED"},
		"second": {"Too short"},
		"third":  {"REQUIRED"},
	}, flat)
}

func TestInterpret_NestedCombinatorsRecurse(t *testing.T) {
	inner := &result.Combined{Clauses: []result.Clause{{
		Kind:    schema.OneOf,
		Results: []result.Node{object("a", result.Required), object("b", result.Required)},
	}}}
	raw := &result.Combined{Clauses: []result.Clause{{
		Kind:    schema.AllOf,
		Results: []result.Node{object("group", inner, "n", result.Message("x"))},
	}}}

	got := result.Interpret(raw)
	assert.JSONEq(t, `{
		"group": {"a": {"oneOf": ["REQUIRED"]}, "b": {"oneOf": ["REQUIRED"]}},
		"n": {"allOf": ["x"]}
	}`, marshal(t, got))
}

func TestInterpret_MultipleClausesOnOneNode(t *testing.T) {
	raw := &result.Combined{Clauses: []result.Clause{
		{Kind: schema.AnyOf, Results: []result.Node{object("a", result.Required), object("b", result.Required)}},
		{Kind: schema.AllOf, Results: []result.Node{object("a", result.Message("Too short"))}},
	}}
	got := result.Interpret(raw)
	assert.JSONEq(t, `{
		"a": {"anyOf": ["REQUIRED"], "allOf": ["Too short"]},
		"b": {"anyOf": ["REQUIRED"]}
	}`, marshal(t, got))
}

func TestInterpret_Idempotent(t *testing.T) {
	trees := []result.Node{
		nil,
		result.Message("x"),
		result.Required,
		result.Outcome{Message: "ok"},
		object("a", result.Message("x"), "list", &result.List{Items: []result.Node{nil, object("n", result.Required)}}),
		&result.Combined{Clauses: []result.Clause{
			{Kind: schema.AnyOf, Results: []result.Node{result.Message("m1"), result.Message("m1")}},
		}},
		object("", &result.Combined{Clauses: []result.Clause{
			{Kind: schema.OneOf, Results: []result.Node{
				object("a", result.Required, "deep", object("z", result.Message("q"))),
				result.Message("node level"),
			}},
			{Kind: schema.AllOf, Results: []result.Node{
				&result.List{Message: result.Message("few"), Items: []result.Node{result.Message("e")}},
			}},
		}}),
	}
	for i, raw := range trees {
		once := result.Interpret(raw)
		twice := result.Interpret(once)
		assert.Equal(t, once, twice, "tree %d", i)
	}
}

func TestInterpret_OutcomesCollapse(t *testing.T) {
	assert.Nil(t, result.Interpret(result.Outcome{Message: "REQUIRED"}))
	assert.Equal(t, result.Message("REQUIRED"), result.Interpret(result.Outcome{Message: "REQUIRED", Invalid: true}))
	assert.Nil(t, result.Interpret(object("a", result.Outcome{Message: "fine"})))
}

func TestFlatten_ArraysUseIndexes(t *testing.T) {
	raw := object(
		"accounts", &result.List{
			Message: result.Message("Collection has to contain maximum 1 item"),
			Items:   []result.Node{nil, object("number", result.Message("Too long"))},
		},
	)
	assert.Equal(t, map[string][]string{
		"accounts":          {"Collection has to contain maximum 1 item"},
		"accounts.1.number": {"Too long"},
	}, result.Flatten(raw))

	assert.Equal(t, map[string][]string{"": {"boom"}}, result.Flatten(result.Message("boom")))
}

func TestFailing(t *testing.T) {
	assert.False(t, result.Failing(nil))
	assert.False(t, result.Failing(result.Outcome{Message: "x"}))
	assert.True(t, result.Failing(result.Outcome{Message: "x", Invalid: true}))
	assert.False(t, result.Failing(object("a", result.Outcome{Message: "x"})))
	assert.True(t, result.Failing(&result.List{Items: []result.Node{result.Required}}))
}

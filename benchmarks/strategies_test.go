package benchmarks_test

import (
	"fmt"
	"testing"

	"github.com/reoring/formskema"
	"github.com/reoring/formskema/dataset"
	"github.com/reoring/formskema/definition"
	"github.com/reoring/formskema/explode"
	"github.com/reoring/formskema/i18n"
)

// --- Fixtures ---

type m = map[string]any

// contactSchema has n independent anyOf groups, so expansion yields 2^n
// variants.
func contactSchema(n int) m {
	props := m{}
	var groups []any
	for i := range n {
		a, b := fmt.Sprintf("email%d", i), fmt.Sprintf("phone%d", i)
		props[a] = m{"type": "string", "minLength": 3}
		props[b] = m{"type": "string", "pattern": "^[0-9-]+$"}
		groups = append(groups, m{"anyOf": []any{m{"required": []any{a}}, m{"required": []any{b}}}})
	}
	return m{"type": "object", "properties": props, "allOf": groups}
}

func contactData(n int, valid bool) any {
	out := m{}
	for i := range n {
		if valid || i < n-1 {
			out[fmt.Sprintf("phone%d", i)] = "555-0100"
		}
	}
	return out
}

func compiled(b *testing.B, n int, s formskema.Strategy) *formskema.Compiled {
	b.Helper()
	c, err := formskema.CompileMap(contactSchema(n),
		formskema.WithStrategy(s),
		formskema.WithTranslator(i18n.Dictionary("en")))
	if err != nil {
		b.Fatalf("compile: %v", err)
	}
	return c
}

// --- Validation ---

func BenchmarkValidate(b *testing.B) {
	for _, n := range []int{1, 4, 8} {
		for _, s := range []formskema.Strategy{formskema.StrategyDirect, formskema.StrategyExpand} {
			for _, valid := range []bool{true, false} {
				name := fmt.Sprintf("groups=%d/%s/valid=%t", n, s, valid)
				b.Run(name, func(b *testing.B) {
					c := compiled(b, n, s)
					ds := dataset.New(contactData(n, valid))
					b.ReportAllocs()
					for b.Loop() {
						if r := c.Validate(ds); r.Valid() != valid {
							b.Fatalf("valid = %t", r.Valid())
						}
					}
				})
			}
		}
	}
}

// --- Expansion ---

func BenchmarkExplode(b *testing.B) {
	for _, n := range []int{1, 4, 8} {
		b.Run(fmt.Sprintf("groups=%d", n), func(b *testing.B) {
			def := definition.FromMap(contactSchema(n))
			b.ReportAllocs()
			for b.Loop() {
				res, err := explode.Explode(def)
				if err != nil {
					b.Fatal(err)
				}
				if len(res.Variants) != 1<<n {
					b.Fatalf("variants = %d", len(res.Variants))
				}
			}
		})
	}
}

func BenchmarkDecodeDefinition(b *testing.B) {
	def := definition.FromMap(contactSchema(8))
	data, err := def.MarshalJSON()
	if err != nil {
		b.Fatal(err)
	}
	b.SetBytes(int64(len(data)))
	b.ReportAllocs()
	for b.Loop() {
		if _, err := definition.DecodeJSONBytes(data); err != nil {
			b.Fatal(err)
		}
	}
}

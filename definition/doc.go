// Package definition holds raw schema documents before they are compiled.
//
// A Definition is an immutable ordered mapping decoded from JSON (via a
// go-json token stream) or YAML (via yaml.v3 nodes). Ordered keys matter:
// properties are validated and exploded in declaration order, and variant
// lists produced from them must be reproducible.
//
// Typical usage:
//
//	def, err := definition.Load("person.schema.yaml")
//	merged := definition.Merge(def.Without("anyOf"), alternative)
package definition

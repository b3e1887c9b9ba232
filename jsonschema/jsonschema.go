// Package jsonschema exports parsed form schemas as standard JSON Schema
// (draft 2020-12) for tools that do not know the form keywords.
//
// Form-only keywords are dropped: expression fields become read-only
// numbers, validationExpression and validationMessage disappear, and
// {text, value} enum entries are reduced to their values (the texts are kept
// as x-enumNames).
package jsonschema

import (
	"strings"

	"github.com/reoring/formskema/schema"
)

// Draft is the $schema URI written on exported roots.
const Draft = "https://json-schema.org/draft/2020-12/schema"

// Schema is the exported JSON Schema document.
type Schema struct {
	SchemaURI string `json:"$schema,omitempty"`
	Ref       string `json:"$ref,omitempty"`

	// Core
	Type     string `json:"type,omitempty"`
	Default  any    `json:"default,omitempty"`
	ReadOnly bool   `json:"readOnly,omitempty"`
	Enum     []any  `json:"enum,omitempty"`
	// EnumNames carries display texts of enum values.
	EnumNames []string `json:"x-enumNames,omitempty"`

	// Number
	Minimum          *float64 `json:"minimum,omitempty"`
	Maximum          *float64 `json:"maximum,omitempty"`
	ExclusiveMinimum *float64 `json:"exclusiveMinimum,omitempty"`
	ExclusiveMaximum *float64 `json:"exclusiveMaximum,omitempty"`

	// String
	MinLength *int   `json:"minLength,omitempty"`
	MaxLength *int   `json:"maxLength,omitempty"`
	Pattern   string `json:"pattern,omitempty"`

	// Object
	Properties *Properties `json:"properties,omitempty"`
	Required   []string    `json:"required,omitempty"`

	// Array
	Items       *Schema `json:"items,omitempty"`
	MinItems    *int    `json:"minItems,omitempty"`
	MaxItems    *int    `json:"maxItems,omitempty"`
	UniqueItems bool    `json:"uniqueItems,omitempty"`

	// Composition
	AnyOf []*Schema `json:"anyOf,omitempty"`
	AllOf []*Schema `json:"allOf,omitempty"`
	OneOf []*Schema `json:"oneOf,omitempty"`

	Defs map[string]*Schema `json:"$defs,omitempty"`
}

// Export converts s and every named schema of its tree.
func Export(s *schema.Schema) *Schema {
	tree := s.Tree()
	out := convert(s)
	out.SchemaURI = Draft
	for _, ref := range tree.NamedRefs() {
		named, _ := tree.Named(ref)
		if out.Defs == nil {
			out.Defs = map[string]*Schema{}
		}
		out.Defs[ref[strings.LastIndex(ref, "/")+1:]] = convert(named)
	}
	return out
}

// refTarget rewrites definitions references to $defs, which is where
// Export places every named schema.
func refTarget(ref string) string {
	if name, ok := strings.CutPrefix(ref, "#/definitions/"); ok {
		return "#/$defs/" + name
	}
	return ref
}

func convert(s *schema.Schema) *Schema {
	if ref, ok := s.Ref(); ok {
		return &Schema{Ref: refTarget(ref)}
	}
	out := &Schema{}
	if d, ok := s.Default(); ok {
		out.Default = d
	}
	out.ReadOnly = s.ReadOnly()

	switch s.Kind() {
	case schema.KindExpression:
		out.Type = "number"
		out.ReadOnly = true
	case schema.KindAny:
	default:
		out.Type = s.Kind().String()
	}

	out.Minimum = ptr(s.Minimum())
	out.Maximum = ptr(s.Maximum())
	out.ExclusiveMinimum = ptr(s.ExclusiveMinimum())
	out.ExclusiveMaximum = ptr(s.ExclusiveMaximum())
	out.MinLength = ptr(s.MinLength())
	out.MaxLength = ptr(s.MaxLength())
	out.MinItems = ptr(s.MinItems())
	out.MaxItems = ptr(s.MaxItems())
	out.UniqueItems = s.UniqueItems()
	if re := s.Pattern(); re != nil {
		out.Pattern = re.String()
	}

	named := false
	for _, e := range s.Enum() {
		out.Enum = append(out.Enum, e.Value)
		out.EnumNames = append(out.EnumNames, e.Text)
		named = named || e.Text != ""
	}
	if !named {
		out.EnumNames = nil
	}

	if s.Shape() == schema.ShapeObject {
		out.Required = s.Required()
		out.Properties = &Properties{}
		for _, name := range s.Properties() {
			p, _ := s.Property(name)
			out.Properties.add(name, convert(p))
		}
	}
	if items, ok := s.Items(); ok {
		out.Items = convert(items)
	}

	for _, c := range s.Clauses() {
		alts := make([]*Schema, len(c.Alternatives))
		for i, alt := range c.Alternatives {
			alts[i] = convert(alt)
		}
		switch c.Kind {
		case schema.AnyOf:
			out.AnyOf = alts
		case schema.AllOf:
			out.AllOf = alts
		case schema.OneOf:
			out.OneOf = alts
		}
	}
	return out
}

func ptr[T any](v T, ok bool) *T {
	if !ok {
		return nil
	}
	return &v
}

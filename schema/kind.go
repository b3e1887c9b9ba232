package schema

// Kind identifies the primitive type tag of a node.
type Kind int

const (
	// KindAny is an untyped leaf: no type check, only expression and enum
	// constraints apply.
	KindAny Kind = iota
	KindObject
	KindArray
	KindString
	KindInteger
	KindNumber
	KindBoolean
	// KindExpression marks a derived value computed from a formula.
	KindExpression
)

var kindNames = map[Kind]string{
	KindAny:        "any",
	KindObject:     "object",
	KindArray:      "array",
	KindString:     "string",
	KindInteger:    "integer",
	KindNumber:     "number",
	KindBoolean:    "boolean",
	KindExpression: "expression",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown"
}

func kindOf(name string) (Kind, bool) {
	for k, s := range kindNames {
		if s == name && k != KindAny {
			return k, true
		}
	}
	return KindAny, false
}

// Shape is the structural class of a kind. Validation dispatches on it.
type Shape int

const (
	ShapeScalar Shape = iota
	ShapeObject
	ShapeArray
)

// Shape returns the structural class of k.
func (k Kind) Shape() Shape {
	switch k {
	case KindObject:
		return ShapeObject
	case KindArray:
		return ShapeArray
	default:
		return ShapeScalar
	}
}

// Combinator is one of the logical composition keywords.
type Combinator int

const (
	AnyOf Combinator = iota
	AllOf
	OneOf
)

// Combinators lists the composition keywords in evaluation order.
var Combinators = []Combinator{AnyOf, AllOf, OneOf}

func (c Combinator) String() string {
	switch c {
	case AnyOf:
		return "anyOf"
	case AllOf:
		return "allOf"
	case OneOf:
		return "oneOf"
	}
	return "unknown"
}

// Keyword returns the schema keyword of c (same as String).
func (c Combinator) Keyword() string { return c.String() }

// CombinatorKeywords are the raw definition keys of all combinators.
var CombinatorKeywords = []string{"anyOf", "allOf", "oneOf"}

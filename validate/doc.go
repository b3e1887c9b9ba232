// Package validate evaluates data against a parsed schema and produces raw
// result trees.
//
// Combinators are resolved inline per node: anyOf fails only when every
// alternative fails, allOf reports each failing alternative and oneOf
// requires exactly one alternative to hold. When a node carries combinators
// its own constraints are checked through the alternatives, which inherit
// them. Valid data yields a nil result.
package validate

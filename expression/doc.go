// Package expression evaluates the formulas attached to schema nodes.
//
// Validity tests (validationExpression, or expression on a typed field) must
// return a truthy value. Derived fields (type expression) must return a
// finite number; anything else is reported as ErrorMarker.
package expression

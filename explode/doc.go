// Package explode expands anyOf and allOf clauses into concrete,
// combinator-free schema variants.
//
// anyOf contributes one variant per alternative (a sum), allOf combines the
// variants of its alternatives pairwise (a product). When a nested property
// multiplies, the whole document is rebuilt along the path to that property
// for every variant, and the remaining siblings are expanded on each copy.
// oneOf cannot be expanded and is rejected.
package explode

// Package schema compiles raw definitions into an immutable, index-linked
// node tree.
//
// A Tree is an arena: every node lives in one slice and refers to its parent,
// properties, items and combinator alternatives by NodeID. Handles returned
// to callers (*Schema) are cheap values over (tree, id) and never expose
// mutable state. $ref nodes are resolved lazily through the tree's table of
// named definitions, so recursive schemas do not need cyclic pointers.
package schema

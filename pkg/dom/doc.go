// Package dom provides the rendered-output model the binding engine works
// against: a lightweight node tree, element and attribute builders, and
// Region, the contiguous sibling span a mount point owns.
//
// The engine consumes only the Region contract (ordered insert, remove,
// and move of nodes between two sentinels); ChildRegion is the in-memory
// reference implementation used by the widget layer, the live server, and
// tests. While a binding is active its Region must be mutated only by that
// binding's mount point.
package dom

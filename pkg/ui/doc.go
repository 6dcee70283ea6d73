// Package ui provides form widgets bound to value streams.
//
// Each widget is a functional-options factory returning a dom.Node wired
// for two-way binding: the node's initial state comes from a
// stream.Store, and its host event handler writes user input back into
// the same store. CheckboxGroup goes further and mounts a keyed binding,
// so choices can be added, removed, and reordered live without
// re-rendering the retained rows.
package ui

// Package keyed computes minimal structural edit scripts between ordered
// keyed sequences.
//
// A sequence snapshot is an ordered list of (key, item) pairs with unique
// keys. Diff compares two snapshots by key presence and key order only and
// returns an ordered patch script of Insert, Remove, and Move operations
// that transforms the first snapshot's key order into the second's.
// Patches are order-sensitive: earlier patches change the positional
// references later ones rely on, so a script must be applied in the exact
// order it was returned.
package keyed

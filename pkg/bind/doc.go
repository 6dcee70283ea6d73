// Package bind wires value streams to live DOM regions through keyed
// reconciliation.
//
// EachOf turns a stream of sequence snapshots into a SequenceBinding;
// Bind mounts it into a dom.Region and returns a MountHandle. From then
// on every snapshot is diffed against the previous rendered key order and
// only the affected fragments are created, moved, or destroyed. Fragments
// for keys present in consecutive snapshots are preserved: the item
// renderer runs exactly once per continuously-present key, and value-only
// changes reach the fragment through its own per-key sub-stream without
// going through the differ.
//
// All mutation of one mount point's region happens on a single goroutine
// that drains snapshots strictly in arrival order; a snapshot arriving
// while another is being applied is queued, never interleaved or dropped.
package bind

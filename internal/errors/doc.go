// Package errors provides structured, coded errors for bindkit.
//
// Every error carries a stable code (e.g. "B102"), a category, and an
// optional suggestion so that failures surfaced by the engine, the live
// server, or the CLI can be identified and acted on without parsing
// message text.
package errors

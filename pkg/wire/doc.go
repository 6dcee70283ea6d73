// Package wire implements the binary framing used between a live server
// and its clients.
//
// Two payloads travel over the wire: patch scripts (server to client,
// the structural edits produced for one sequence snapshot) and host
// events (client to server, e.g. an input's new value). Both are encoded
// with protobuf-style varints and length-prefixed strings inside a
// 4-byte frame header.
//
// Length prefixes are bounds-checked against the buffer and capped, so a
// malicious peer cannot force large allocations during decode.
package wire

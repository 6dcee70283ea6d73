// Package live serves bound regions to browsers over HTTP and
// WebSocket.
//
// The server renders the page tree for the initial GET, then streams
// every applied patch script to connected clients as binary frames.
// Clients report host events (input, change, click) back over the same
// connection; the server decodes them and hands them to the registered
// event handler.
//
// Wiring a binding to the wire is one line: pass Publisher(region) to
// bind's WithObserver option.
package live

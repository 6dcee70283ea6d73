// Package stream provides the reactive value primitives the binding engine
// consumes: Source, a replay-latest multi-subscriber stream of typed values,
// and Store, which owns a current value and exposes it as a Source plus an
// update sink.
//
// Delivery guarantees: every subscriber receives the latest value immediately
// on subscribe, then every subsequent emission in emission order. Emissions
// to a slow subscriber are buffered, never dropped and never reordered.
package stream

// Package format converts values returned by the reporting API's object
// model into plain JSON-serializable values.
//
// It has three entry points: Normalize turns a single value into a
// JSON-safe one, Resolve walks a dotted field path against a record, and
// FormatRow applies both to a list of field paths to produce a flat
// path-to-value map for one result row. All three are stateless; a call
// owns every value it creates, so concurrent invocations need no locking.
package format

// Package validate is the validation engine of the reconciliation core.
//
// Run gates an upload bundle before diffing: blocking errors (duplicate
// keys, orphaned references, malformed years, over-long fields, bad status
// values) make the bundle unimportable, while warnings (changed values,
// drastically shortened specifications, legacy brand cell format) are
// surfaced for human acknowledgement but never block.
//
// The engine is a pure function over the parsed file and an in-memory store
// snapshot. It performs no I/O and never mutates either input, so it can be
// invoked speculatively for live previews.
package validate

// Package diff is the diff engine of the reconciliation core.
//
// Generate matches uploaded rows against the current store state on business
// keys (never surrogate ids, which spreadsheets do not round-trip reliably)
// and classifies every record as ADD, UPDATE, DELETE or UNCHANGED. The
// engine runs in two phases: phase one resolves part identities and
// pre-allocates surrogate ids for new parts, phase two consumes that map so
// vehicle applications can resolve their foreign key within the same upload.
// Cross-references are extracted from the delimited brand columns of matched
// parts.
//
// Deletion is strictly opt-in: a record absent from the file is UNCHANGED,
// never an implicit DELETE.
package diff

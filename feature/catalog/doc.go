// Package catalog implements the spreadsheet-driven catalog reconciliation feature.
//
// An operator maintains the auto-parts catalog in a spreadsheet workbook and
// periodically uploads a parsed copy of it. The feature reconciles that upload
// against the live catalog in three stages:
//  1. Validation: blocking errors and advisory warnings, each pinned to a
//     sheet/row/column location (validate subpackage).
//  2. Diff: a change-set of adds, updates and deletes against the current
//     store state, matched by business key (diff subpackage).
//  3. Import: snapshot-first atomic commit of the change-set, with single-use
//     rollback per import (importer and store subpackages).
//
// Validation and diff are pure: they read a point-in-time StoreState and never
// mutate anything, so previews can be run any number of times.
//
// # Components
//
//   - Service: Orchestrates the pipeline and owns the validate/diff/import ordering.
//   - Handler: Exposes HTTP endpoints for validate, preview, import and rollback.
//
// # HTTP Endpoints
//
//   - POST /catalog/validate             : Validate a bundle, no mutation.
//   - POST /catalog/preview             : Validate and diff, no mutation.
//   - POST /catalog/import              : Commit a bundle atomically.
//   - GET  /catalog/imports             : List snapshots available for rollback.
//   - GET  /catalog/imports/:id/archive : Fetch the archived upload bundle.
//   - POST /catalog/imports/:id/rollback: Restore the pre-import state.
package catalog

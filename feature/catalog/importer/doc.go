// Package importer contains the import and rollback services.
//
// Execute is the only mutating entry point of the reconciliation core:
// snapshot first, mutate second. Rollback restores a snapshot's pre-image
// exactly (original surrogate ids included) and consumes the snapshot, so
// a second rollback of the same import fails with
// store.ErrSnapshotNotFound.
package importer

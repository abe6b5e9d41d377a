package store

import (
	"context"
	"errors"

	"catalog-manager/feature/catalog/models"
)

// ErrSnapshotNotFound is returned when an import snapshot id does not exist
// or has already been consumed by a rollback.
var ErrSnapshotNotFound = errors.New("import snapshot not found")

// ErrDuplicateKey is returned when an insert violates a business-key
// uniqueness constraint. Validation should have caught it, but the store is
// the final authority and must not accept a partial write silently.
var ErrDuplicateKey = errors.New("duplicate business key")

// Batch is one logically-atomic heterogeneous set of mutations produced
// from a diff. Apply executes it in fixed dependency order: parts first,
// then the rows that reference them.
type Batch struct {
	PartAdds    []models.Part
	PartUpdates []models.Part
	PartDeletes []uint

	ApplicationAdds    []models.VehicleApplication
	ApplicationUpdates []models.VehicleApplication
	ApplicationDeletes []uint

	CrossReferenceAdds    []models.CrossReference
	CrossReferenceDeletes []uint

	AliasAdds    []models.Alias
	AliasUpdates []models.Alias
	AliasDeletes []uint
}

// Empty reports whether the batch carries no mutations.
func (b *Batch) Empty() bool {
	return len(b.PartAdds)+len(b.PartUpdates)+len(b.PartDeletes)+
		len(b.ApplicationAdds)+len(b.ApplicationUpdates)+len(b.ApplicationDeletes)+
		len(b.CrossReferenceAdds)+len(b.CrossReferenceDeletes)+
		len(b.AliasAdds)+len(b.AliasUpdates)+len(b.AliasDeletes) == 0
}

// Store is the bulk-capable persistence interface of the reconciliation
// core. It is injected into the import and rollback services so they can be
// tested deterministically against the in-memory implementation.
type Store interface {
	// LoadState reads the full current contents of every entity table. It
	// serves both as the diff input and as the snapshot pre-image.
	LoadState(ctx context.Context) (*models.StoreState, error)

	// Apply executes a mutation batch as one atomic unit. Constraint
	// violations propagate; nothing is partially committed.
	Apply(ctx context.Context, batch *Batch) error

	// Restore replaces the contents of every entity table with the given
	// pre-image, preserving original surrogate ids.
	Restore(ctx context.Context, pre *models.StoreState) error

	// SaveSnapshot persists an import snapshot record.
	SaveSnapshot(ctx context.Context, snap *models.ImportSnapshot) error

	// GetSnapshot fetches a snapshot by id, or ErrSnapshotNotFound.
	GetSnapshot(ctx context.Context, id string) (*models.ImportSnapshot, error)

	// ListSnapshots returns all snapshot records, newest first, without
	// their pre-image payloads.
	ListSnapshots(ctx context.Context) ([]models.ImportSnapshot, error)

	// DeleteSnapshot removes a snapshot record, or ErrSnapshotNotFound.
	DeleteSnapshot(ctx context.Context, id string) error
}

package store

import (
	"context"
	"errors"
	"fmt"

	"catalog-manager/feature/catalog/models"

	"gorm.io/gorm"
)

// Insert batch size for bulk creates.
const batchSize = 500

// Gorm is the MySQL-backed Store implementation.
type Gorm struct {
	db *gorm.DB
}

// NewGorm creates a Store backed by the given GORM connection.
func NewGorm(db *gorm.DB) *Gorm {
	return &Gorm{db: db}
}

// Migrate creates or updates the catalog tables.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Part{},
		&models.VehicleApplication{},
		&models.CrossReference{},
		&models.Alias{},
		&models.ImportSnapshot{},
	)
}

// LoadState reads the full contents of every entity table.
func (g *Gorm) LoadState(ctx context.Context) (*models.StoreState, error) {
	state := &models.StoreState{}
	db := g.db.WithContext(ctx)

	if err := db.Order("id").Find(&state.Parts).Error; err != nil {
		return nil, fmt.Errorf("failed to load parts: %w", err)
	}
	if err := db.Order("id").Find(&state.VehicleApplications).Error; err != nil {
		return nil, fmt.Errorf("failed to load vehicle applications: %w", err)
	}
	if err := db.Order("id").Find(&state.CrossReferences).Error; err != nil {
		return nil, fmt.Errorf("failed to load cross references: %w", err)
	}
	if err := db.Order("id").Find(&state.Aliases).Error; err != nil {
		return nil, fmt.Errorf("failed to load aliases: %w", err)
	}

	return state, nil
}

// Apply executes the batch inside a single transaction, parts before the
// rows that reference them. Deleting a part also removes its dependent
// applications and cross-references so no dangling foreign keys survive.
func (g *Gorm) Apply(ctx context.Context, batch *Batch) error {
	if batch.Empty() {
		return nil
	}

	return g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(batch.PartAdds) > 0 {
			if err := tx.CreateInBatches(batch.PartAdds, batchSize).Error; err != nil {
				return translateErr("failed to insert parts", err)
			}
		}
		for i := range batch.PartUpdates {
			if err := tx.Save(&batch.PartUpdates[i]).Error; err != nil {
				return translateErr("failed to update part", err)
			}
		}
		if len(batch.PartDeletes) > 0 {
			if err := tx.Where("part_id IN ?", batch.PartDeletes).Delete(&models.VehicleApplication{}).Error; err != nil {
				return fmt.Errorf("failed to delete dependent applications: %w", err)
			}
			if err := tx.Where("part_id IN ?", batch.PartDeletes).Delete(&models.CrossReference{}).Error; err != nil {
				return fmt.Errorf("failed to delete dependent cross references: %w", err)
			}
			if err := tx.Where("id IN ?", batch.PartDeletes).Delete(&models.Part{}).Error; err != nil {
				return fmt.Errorf("failed to delete parts: %w", err)
			}
		}

		if len(batch.ApplicationAdds) > 0 {
			if err := tx.CreateInBatches(batch.ApplicationAdds, batchSize).Error; err != nil {
				return translateErr("failed to insert applications", err)
			}
		}
		for i := range batch.ApplicationUpdates {
			if err := tx.Save(&batch.ApplicationUpdates[i]).Error; err != nil {
				return translateErr("failed to update application", err)
			}
		}
		if len(batch.ApplicationDeletes) > 0 {
			if err := tx.Where("id IN ?", batch.ApplicationDeletes).Delete(&models.VehicleApplication{}).Error; err != nil {
				return fmt.Errorf("failed to delete applications: %w", err)
			}
		}

		if len(batch.CrossReferenceAdds) > 0 {
			if err := tx.CreateInBatches(batch.CrossReferenceAdds, batchSize).Error; err != nil {
				return translateErr("failed to insert cross references", err)
			}
		}
		if len(batch.CrossReferenceDeletes) > 0 {
			if err := tx.Where("id IN ?", batch.CrossReferenceDeletes).Delete(&models.CrossReference{}).Error; err != nil {
				return fmt.Errorf("failed to delete cross references: %w", err)
			}
		}

		if len(batch.AliasAdds) > 0 {
			if err := tx.CreateInBatches(batch.AliasAdds, batchSize).Error; err != nil {
				return translateErr("failed to insert aliases", err)
			}
		}
		for i := range batch.AliasUpdates {
			if err := tx.Save(&batch.AliasUpdates[i]).Error; err != nil {
				return translateErr("failed to update alias", err)
			}
		}
		if len(batch.AliasDeletes) > 0 {
			if err := tx.Where("id IN ?", batch.AliasDeletes).Delete(&models.Alias{}).Error; err != nil {
				return fmt.Errorf("failed to delete aliases: %w", err)
			}
		}

		return nil
	})
}

// Restore wipes every entity table and reinserts the pre-image rows with
// their original surrogate ids.
func (g *Gorm) Restore(ctx context.Context, pre *models.StoreState) error {
	return g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		wipe := tx.Session(&gorm.Session{AllowGlobalUpdate: true})
		for _, model := range []any{
			&models.CrossReference{},
			&models.VehicleApplication{},
			&models.Alias{},
			&models.Part{},
		} {
			if err := wipe.Delete(model).Error; err != nil {
				return fmt.Errorf("failed to clear table: %w", err)
			}
		}

		if len(pre.Parts) > 0 {
			if err := tx.CreateInBatches(pre.Parts, batchSize).Error; err != nil {
				return fmt.Errorf("failed to restore parts: %w", err)
			}
		}
		if len(pre.VehicleApplications) > 0 {
			if err := tx.CreateInBatches(pre.VehicleApplications, batchSize).Error; err != nil {
				return fmt.Errorf("failed to restore vehicle applications: %w", err)
			}
		}
		if len(pre.CrossReferences) > 0 {
			if err := tx.CreateInBatches(pre.CrossReferences, batchSize).Error; err != nil {
				return fmt.Errorf("failed to restore cross references: %w", err)
			}
		}
		if len(pre.Aliases) > 0 {
			if err := tx.CreateInBatches(pre.Aliases, batchSize).Error; err != nil {
				return fmt.Errorf("failed to restore aliases: %w", err)
			}
		}

		return nil
	})
}

// SaveSnapshot persists an import snapshot record.
func (g *Gorm) SaveSnapshot(ctx context.Context, snap *models.ImportSnapshot) error {
	if err := g.db.WithContext(ctx).Create(snap).Error; err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}
	return nil
}

// GetSnapshot fetches a snapshot by id.
func (g *Gorm) GetSnapshot(ctx context.Context, id string) (*models.ImportSnapshot, error) {
	var snap models.ImportSnapshot
	err := g.db.WithContext(ctx).First(&snap, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrSnapshotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch snapshot: %w", err)
	}
	return &snap, nil
}

// ListSnapshots returns all snapshot records without their pre-image blobs.
func (g *Gorm) ListSnapshots(ctx context.Context) ([]models.ImportSnapshot, error) {
	var snaps []models.ImportSnapshot
	err := g.db.WithContext(ctx).
		Omit("pre_image").
		Order("created_at DESC").
		Find(&snaps).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}
	return snaps, nil
}

// DeleteSnapshot removes a snapshot record.
func (g *Gorm) DeleteSnapshot(ctx context.Context, id string) error {
	result := g.db.WithContext(ctx).Where("id = ?", id).Delete(&models.ImportSnapshot{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete snapshot: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrSnapshotNotFound
	}
	return nil
}

// translateErr maps driver-level uniqueness violations onto ErrDuplicateKey
// so callers can distinguish them from infrastructure failures.
func translateErr(msg string, err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%s: %w: %v", msg, ErrDuplicateKey, err)
	}
	return fmt.Errorf("%s: %w", msg, err)
}

package store_test

import (
	"context"
	"testing"

	"catalog-manager/feature/catalog/models"
	"catalog-manager/feature/catalog/store"

	"github.com/stretchr/testify/assert"
)

func ptr(s string) *string { return &s }

func seedMemory() *store.Memory {
	m := store.NewMemory()
	m.Seed(&models.StoreState{
		Parts: []models.Part{
			{ID: 7, ACRSku: "ACR-100", PartType: "Brake Pad", WorkflowStatus: models.StatusActive},
		},
		VehicleApplications: []models.VehicleApplication{
			{ID: 3, PartID: 7, ACRSku: "ACR-100", Make: "Ford", Model: "Focus", StartYear: 2010, EndYear: 2015},
		},
		CrossReferences: []models.CrossReference{
			{ID: 1, PartID: 7, Brand: "national", CompetitorSku: "NAT-100"},
		},
		Aliases: []models.Alias{
			{ID: 1, Alias: "FOC-BRK", CanonicalName: "ACR-100", AliasType: ptr("legacy")},
		},
	})
	return m
}

func TestMemoryLoadStateIsACopy(t *testing.T) {
	m := seedMemory()
	ctx := context.Background()

	state, err := m.LoadState(ctx)
	assert.NoError(t, err)
	state.Parts[0].PartType = "tampered"

	fresh, err := m.LoadState(ctx)
	assert.NoError(t, err)
	assert.Equal(t, "Brake Pad", fresh.Parts[0].PartType)
}

func TestMemoryApply(t *testing.T) {
	m := seedMemory()
	ctx := context.Background()

	err := m.Apply(ctx, &store.Batch{
		PartAdds: []models.Part{{ID: 8, ACRSku: "ACR-200", PartType: "Rotor", WorkflowStatus: models.StatusActive}},
		PartUpdates: []models.Part{
			{ID: 7, ACRSku: "ACR-100", PartType: "Brake Pad", PositionType: ptr("Rear"), WorkflowStatus: models.StatusActive},
		},
		ApplicationAdds: []models.VehicleApplication{
			{PartID: 8, ACRSku: "ACR-200", Make: "Ford", Model: "Ka", StartYear: 2012, EndYear: 2014},
		},
		CrossReferenceDeletes: []uint{1},
	})
	assert.NoError(t, err)

	state, err := m.LoadState(ctx)
	assert.NoError(t, err)
	assert.Len(t, state.Parts, 2)
	assert.Equal(t, "Rear", *state.Parts[0].PositionType)
	assert.Len(t, state.VehicleApplications, 2)
	// Auto-assigned id continues past the seeded maximum.
	assert.Equal(t, uint(4), state.VehicleApplications[1].ID)
	assert.Empty(t, state.CrossReferences)
}

func TestMemoryApplyRejectsDuplicateSku(t *testing.T) {
	m := seedMemory()
	ctx := context.Background()

	err := m.Apply(ctx, &store.Batch{
		PartAdds: []models.Part{{ID: 8, ACRSku: "ACR-100", PartType: "Clone", WorkflowStatus: models.StatusActive}},
	})
	assert.ErrorIs(t, err, store.ErrDuplicateKey)

	// Nothing was written.
	state, _ := m.LoadState(ctx)
	assert.Len(t, state.Parts, 1)
	assert.Equal(t, "Brake Pad", state.Parts[0].PartType)
}

func TestMemoryApplyAllowsSkuReuseAfterDelete(t *testing.T) {
	m := seedMemory()
	ctx := context.Background()

	err := m.Apply(ctx, &store.Batch{
		PartAdds:    []models.Part{{ID: 8, ACRSku: "ACR-100", PartType: "Replacement", WorkflowStatus: models.StatusActive}},
		PartDeletes: []uint{7},
	})
	assert.NoError(t, err)

	state, _ := m.LoadState(ctx)
	assert.Len(t, state.Parts, 1)
	assert.Equal(t, uint(8), state.Parts[0].ID)
}

func TestMemoryPartDeleteCascades(t *testing.T) {
	m := seedMemory()
	ctx := context.Background()

	err := m.Apply(ctx, &store.Batch{PartDeletes: []uint{7}})
	assert.NoError(t, err)

	state, _ := m.LoadState(ctx)
	assert.Empty(t, state.Parts)
	assert.Empty(t, state.VehicleApplications)
	assert.Empty(t, state.CrossReferences)
	// Aliases are name-based, not foreign-keyed; they survive.
	assert.Len(t, state.Aliases, 1)
}

func TestMemoryRestore(t *testing.T) {
	m := seedMemory()
	ctx := context.Background()

	pre, err := m.LoadState(ctx)
	assert.NoError(t, err)

	err = m.Apply(ctx, &store.Batch{
		PartAdds:    []models.Part{{ID: 8, ACRSku: "ACR-200", PartType: "Rotor", WorkflowStatus: models.StatusActive}},
		AliasDeletes: []uint{1},
	})
	assert.NoError(t, err)

	assert.NoError(t, m.Restore(ctx, pre))

	state, _ := m.LoadState(ctx)
	assert.Equal(t, pre, state)
}

func TestMemorySnapshotLifecycle(t *testing.T) {
	m := store.NewMemory()
	ctx := context.Background()

	_, err := m.GetSnapshot(ctx, "missing")
	assert.ErrorIs(t, err, store.ErrSnapshotNotFound)

	snap := &models.ImportSnapshot{ID: "snap-1", FileName: "catalog.xlsx", PreImage: "{}"}
	assert.NoError(t, m.SaveSnapshot(ctx, snap))

	got, err := m.GetSnapshot(ctx, "snap-1")
	assert.NoError(t, err)
	assert.Equal(t, "catalog.xlsx", got.FileName)
	assert.Equal(t, "{}", got.PreImage)

	// Listings omit the bulky pre-image payload.
	list, err := m.ListSnapshots(ctx)
	assert.NoError(t, err)
	assert.Len(t, list, 1)
	assert.Empty(t, list[0].PreImage)

	assert.NoError(t, m.DeleteSnapshot(ctx, "snap-1"))
	assert.ErrorIs(t, m.DeleteSnapshot(ctx, "snap-1"), store.ErrSnapshotNotFound)
}

package catalog_test

import (
	"context"
	"testing"

	"catalog-manager/feature/catalog"
	"catalog-manager/feature/catalog/importer"
	"catalog-manager/feature/catalog/models"
	"catalog-manager/feature/catalog/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestService() (*catalog.Service, *store.Memory) {
	st := store.NewMemory()
	st.Seed(&models.StoreState{
		Parts: []models.Part{
			{ID: 7, ACRSku: "ACR-100", PartType: "Brake Pad", WorkflowStatus: models.StatusActive},
		},
		VehicleApplications: []models.VehicleApplication{
			{ID: 3, PartID: 7, ACRSku: "ACR-100", Make: "Ford", Model: "Focus", StartYear: 2010, EndYear: 2015},
		},
	})

	imp := importer.NewService(st, nil, importer.Config{}, zap.NewNop())
	svc := catalog.NewService(st, imp, catalog.Config{SKUPrefix: "ACR"}, zap.NewNop())
	return svc, st
}

func validBundle() *models.ParsedExcelFile {
	return &models.ParsedExcelFile{
		FileName: "catalog.xlsx",
		FileSize: 2048,
		Parts: models.PartSheet{Rows: []models.PartRow{
			{ACRSku: "ACR-200", PartType: "Rotor", Row: 2},
		}},
	}
}

func TestImportCommitsValidBundle(t *testing.T) {
	svc, st := newTestService()
	ctx := context.Background()

	outcome, err := svc.Import(ctx, validBundle(), "ops@acr")
	require.NoError(t, err)

	assert.True(t, outcome.Committed)
	assert.NotEmpty(t, outcome.ImportID)
	assert.True(t, outcome.Validation.Valid)
	assert.Equal(t, 1, outcome.Summary.Total)

	state, err := st.LoadState(ctx)
	require.NoError(t, err)
	assert.Len(t, state.Parts, 2)

	snaps, err := svc.ListImports(ctx)
	require.NoError(t, err)
	require.Len(t, snaps, 1)
	assert.Equal(t, outcome.ImportID, snaps[0].ID)
	assert.Equal(t, "ops@acr", snaps[0].UploadedBy)
}

func TestImportBlockedByValidation(t *testing.T) {
	svc, st := newTestService()
	ctx := context.Background()

	bundle := validBundle()
	bundle.Parts.Rows[0].ACRSku = "XXX-200" // wrong prefix

	outcome, err := svc.Import(ctx, bundle, "ops@acr")
	require.NoError(t, err)

	assert.False(t, outcome.Committed)
	assert.Empty(t, outcome.ImportID)
	assert.False(t, outcome.Validation.Valid)
	assert.Nil(t, outcome.Summary)

	// Nothing was written, not even a snapshot.
	state, _ := st.LoadState(ctx)
	assert.Len(t, state.Parts, 1)
	snaps, _ := svc.ListImports(ctx)
	assert.Empty(t, snaps)
}

func TestImportSkipsWhenNothingChanged(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	bundle := &models.ParsedExcelFile{
		FileName: "same.xlsx",
		Parts: models.PartSheet{Rows: []models.PartRow{
			{ACRSku: "ACR-100", PartType: "Brake Pad", WorkflowStatus: "Activo", Row: 2},
		}},
	}

	outcome, err := svc.Import(ctx, bundle, "ops@acr")
	require.NoError(t, err)

	assert.False(t, outcome.Committed)
	assert.Empty(t, outcome.ImportID)
	assert.True(t, outcome.Validation.Valid)
	assert.True(t, outcome.Summary.Empty())

	snaps, _ := svc.ListImports(ctx)
	assert.Empty(t, snaps)
}

func TestPreviewNeverMutates(t *testing.T) {
	svc, st := newTestService()
	ctx := context.Background()

	before, err := st.LoadState(ctx)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		p, err := svc.Preview(ctx, validBundle())
		require.NoError(t, err)
		assert.True(t, p.Validation.Valid)
		require.NotNil(t, p.Diff)
		assert.Equal(t, 1, p.Diff.Summary.Parts.Adds)
	}

	after, err := st.LoadState(ctx)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestPreviewOmitsDiffWhenInvalid(t *testing.T) {
	svc, _ := newTestService()

	bundle := validBundle()
	bundle.Parts.Rows[0].PartType = ""

	p, err := svc.Preview(context.Background(), bundle)
	require.NoError(t, err)
	assert.False(t, p.Validation.Valid)
	assert.Nil(t, p.Diff)
}

func TestImportThenRollback(t *testing.T) {
	svc, st := newTestService()
	ctx := context.Background()

	before, err := st.LoadState(ctx)
	require.NoError(t, err)

	outcome, err := svc.Import(ctx, validBundle(), "ops@acr")
	require.NoError(t, err)
	require.True(t, outcome.Committed)

	rb, err := svc.Rollback(ctx, outcome.ImportID)
	require.NoError(t, err)
	assert.Equal(t, outcome.ImportID, rb.ImportID)

	after, err := st.LoadState(ctx)
	require.NoError(t, err)
	assert.Equal(t, before, after)

	// The snapshot was consumed.
	_, err = svc.Rollback(ctx, outcome.ImportID)
	assert.ErrorIs(t, err, store.ErrSnapshotNotFound)
}

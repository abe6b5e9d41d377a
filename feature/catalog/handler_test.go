package catalog_test

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"catalog-manager/feature/catalog"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupTestApp() (*fiber.App, *catalog.Service) {
	app := fiber.New()
	svc, _ := newTestService()
	handler := catalog.NewHandler(svc, zap.NewNop())
	handler.RegisterRoutes(app)
	return app, svc
}

func TestHandleValidate(t *testing.T) {
	app, _ := setupTestApp()

	body, err := json.Marshal(validBundle())
	require.NoError(t, err)

	req := httptest.NewRequest("POST", "/catalog/validate", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)

	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, true, out["valid"])
}

func TestHandleValidateMalformedBody(t *testing.T) {
	app, _ := setupTestApp()

	req := httptest.NewRequest("POST", "/catalog/validate", bytes.NewReader([]byte("{not json")))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)

	require.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)
}

func TestHandlePreview(t *testing.T) {
	app, _ := setupTestApp()

	body, _ := json.Marshal(validBundle())
	req := httptest.NewRequest("POST", "/catalog/preview", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)

	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var out struct {
		Validation struct {
			Valid bool `json:"valid"`
		} `json:"validation"`
		Diff *struct {
			Summary struct {
				Total int `json:"total"`
			} `json:"summary"`
		} `json:"diff"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.True(t, out.Validation.Valid)
	require.NotNil(t, out.Diff)
	assert.Equal(t, 1, out.Diff.Summary.Total)
}

func TestHandleImportAndRollback(t *testing.T) {
	app, _ := setupTestApp()

	body, _ := json.Marshal(validBundle())
	req := httptest.NewRequest("POST", "/catalog/import?uploaded_by=ops%40acr", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)

	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var outcome struct {
		Committed bool   `json:"committed"`
		ImportID  string `json:"import_id"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&outcome))
	assert.True(t, outcome.Committed)
	require.NotEmpty(t, outcome.ImportID)

	// The import shows up in the listing.
	req = httptest.NewRequest("GET", "/catalog/imports", nil)
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var snaps []map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&snaps))
	require.Len(t, snaps, 1)
	assert.Equal(t, outcome.ImportID, snaps[0]["id"])

	// First rollback succeeds, second 404s: the snapshot is single-use.
	req = httptest.NewRequest("POST", "/catalog/imports/"+outcome.ImportID+"/rollback", nil)
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	req = httptest.NewRequest("POST", "/catalog/imports/"+outcome.ImportID+"/rollback", nil)
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 404, resp.StatusCode)
}

func TestHandleImportBlockedByValidation(t *testing.T) {
	app, _ := setupTestApp()

	bundle := validBundle()
	bundle.Parts.Rows[0].ACRSku = "XXX-200"
	body, _ := json.Marshal(bundle)

	req := httptest.NewRequest("POST", "/catalog/import", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)

	require.NoError(t, err)
	assert.Equal(t, 422, resp.StatusCode)

	var outcome struct {
		Committed  bool `json:"committed"`
		Validation struct {
			Errors []map[string]any `json:"errors"`
		} `json:"validation"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&outcome))
	assert.False(t, outcome.Committed)
	assert.NotEmpty(t, outcome.Validation.Errors)
}

func TestHandleRollbackUnknownID(t *testing.T) {
	app, _ := setupTestApp()

	req := httptest.NewRequest("POST", "/catalog/imports/no-such-import/rollback", nil)
	resp, err := app.Test(req)

	require.NoError(t, err)
	assert.Equal(t, 404, resp.StatusCode)
}

func TestHandleArchiveWithoutStorage(t *testing.T) {
	app, _ := setupTestApp()

	req := httptest.NewRequest("GET", "/catalog/imports/abc/archive", nil)
	resp, err := app.Test(req)

	require.NoError(t, err)
	assert.Equal(t, 404, resp.StatusCode)
}

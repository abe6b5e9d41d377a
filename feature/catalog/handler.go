package catalog

import (
	"errors"

	"catalog-manager/core/logger"
	"catalog-manager/feature/catalog/importer"
	"catalog-manager/feature/catalog/models"
	"catalog-manager/feature/catalog/store"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for the catalog reconciliation pipeline.
type Handler struct {
	service *Service
	log     *zap.Logger
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service, log *zap.Logger) *Handler {
	return &Handler{service: service, log: log}
}

// RegisterRoutes registers the catalog routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/catalog")
	group.Post("/validate", h.HandleValidate)
	group.Post("/preview", h.HandlePreview)
	group.Post("/import", h.HandleImport)
	group.Get("/imports", h.HandleListImports)
	group.Get("/imports/:id/archive", h.HandleArchive)
	group.Post("/imports/:id/rollback", h.HandleRollback)
}

// HandleValidate validates an upload bundle without mutating anything.
// @Summary Validate Upload Bundle
// @Description Runs the validation engine against the current catalog state. Returns blocking errors and non-blocking warnings with sheet/row/column locations.
// @Tags catalog
// @Accept json
// @Produce json
// @Param bundle body models.ParsedExcelFile true "Parsed upload bundle"
// @Success 200 {object} validate.Result
// @Failure 400 {object} map[string]string "Malformed bundle"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /catalog/validate [post]
func (h *Handler) HandleValidate(c *fiber.Ctx) error {
	l := logger.WithRayID(h.log, c)

	file, ok := parseBundle(c)
	if !ok {
		return nil
	}

	res, err := h.service.Validate(c.Context(), file)
	if err != nil {
		l.Error("Validation failed to read store state", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	l.Info("Bundle validated",
		zap.String("file", file.FileName),
		zap.Bool("valid", res.Valid),
		zap.Int("errors", len(res.Errors)),
		zap.Int("warnings", len(res.Warnings)))
	return c.JSON(res)
}

// HandlePreview validates and diffs an upload bundle without committing.
// @Summary Preview Change-Set
// @Description Validates the bundle and, when importable, returns the computed change-set for human review. Never mutates the store.
// @Tags catalog
// @Accept json
// @Produce json
// @Param bundle body models.ParsedExcelFile true "Parsed upload bundle"
// @Success 200 {object} catalog.Preview
// @Failure 400 {object} map[string]string "Malformed bundle"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /catalog/preview [post]
func (h *Handler) HandlePreview(c *fiber.Ctx) error {
	l := logger.WithRayID(h.log, c)

	file, ok := parseBundle(c)
	if !ok {
		return nil
	}

	p, err := h.service.Preview(c.Context(), file)
	if err != nil {
		l.Error("Preview failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(p)
}

// HandleImport commits an upload bundle.
// @Summary Import Upload Bundle
// @Description Validates, diffs and atomically commits the bundle. A pre-image snapshot is persisted first so the import can be rolled back. Returns 422 when validation blocks the commit.
// @Tags catalog
// @Accept json
// @Produce json
// @Param bundle body models.ParsedExcelFile true "Parsed upload bundle"
// @Param uploaded_by query string false "Uploader identity recorded on the snapshot"
// @Success 200 {object} catalog.Outcome
// @Failure 400 {object} map[string]string "Malformed bundle"
// @Failure 422 {object} catalog.Outcome "Validation blocked the import"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /catalog/import [post]
func (h *Handler) HandleImport(c *fiber.Ctx) error {
	l := logger.WithRayID(h.log, c)

	file, ok := parseBundle(c)
	if !ok {
		return nil
	}

	outcome, err := h.service.Import(c.Context(), file, c.Query("uploaded_by"))
	if err != nil {
		var applyErr *importer.ApplyError
		if errors.As(err, &applyErr) {
			// The snapshot survived; tell the caller which id to roll back.
			l.Error("Import failed after snapshot", zap.String("import_id", applyErr.ImportID), zap.Error(err))
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error":     applyErr.Error(),
				"import_id": applyErr.ImportID,
			})
		}
		l.Error("Import failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	if !outcome.Validation.Valid {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(outcome)
	}

	return c.JSON(outcome)
}

// HandleListImports lists the snapshots available for rollback.
// @Summary List Imports
// @Description Returns all committed imports that have not been rolled back, newest first.
// @Tags catalog
// @Produce json
// @Success 200 {array} models.ImportSnapshot
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /catalog/imports [get]
func (h *Handler) HandleListImports(c *fiber.Ctx) error {
	snaps, err := h.service.ListImports(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(snaps)
}

// HandleArchive streams the archived upload bundle of an import.
// @Summary Fetch Archived Bundle
// @Description Returns the normalized upload bundle that was archived when the import committed.
// @Tags catalog
// @Produce json
// @Param id path string true "Import id"
// @Success 200 {object} models.ParsedExcelFile
// @Failure 404 {object} map[string]string "No archive for this import"
// @Router /catalog/imports/{id}/archive [get]
func (h *Handler) HandleArchive(c *fiber.Ctx) error {
	payload, err := h.service.Archive(c.Context(), c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	}
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Send(payload)
}

// HandleRollback undoes a committed import.
// @Summary Rollback Import
// @Description Restores the pre-image captured by the import and consumes the snapshot. A second call with the same id returns 404; rollback is single-use.
// @Tags catalog
// @Produce json
// @Param id path string true "Import id"
// @Success 200 {object} importer.RollbackResult
// @Failure 404 {object} map[string]string "Snapshot not found or already consumed"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /catalog/imports/{id}/rollback [post]
func (h *Handler) HandleRollback(c *fiber.Ctx) error {
	l := logger.WithRayID(h.log, c)

	res, err := h.service.Rollback(c.Context(), c.Params("id"))
	if err != nil {
		// "Nothing to undo" is reported distinctly from "undo broke".
		if errors.Is(err, store.ErrSnapshotNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
		}
		l.Error("Rollback failed", zap.String("import_id", c.Params("id")), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	l.Info("Import rolled back", zap.String("import_id", res.ImportID))
	return c.JSON(res)
}

// parseBundle decodes the request body. On failure it writes the 400
// response itself and reports ok=false.
func parseBundle(c *fiber.Ctx) (*models.ParsedExcelFile, bool) {
	var file models.ParsedExcelFile
	if err := c.BodyParser(&file); err != nil {
		_ = c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "malformed upload bundle: " + err.Error(),
		})
		return nil, false
	}
	return &file, true
}

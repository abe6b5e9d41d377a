package catalog

import (
	"context"

	"catalog-manager/feature/catalog/diff"
	"catalog-manager/feature/catalog/importer"
	"catalog-manager/feature/catalog/models"
	"catalog-manager/feature/catalog/store"
	"catalog-manager/feature/catalog/validate"

	"go.uber.org/zap"
)

// Service orchestrates the reconciliation pipeline: read store state, gate
// the bundle through validation, compute the diff, and hand committed
// changes to the import service.
type Service struct {
	store    store.Store
	importer *importer.Service
	vcfg     validate.Config
	logger   *zap.Logger
}

// NewService creates the catalog service.
func NewService(st store.Store, imp *importer.Service, cfg Config, logger *zap.Logger) *Service {
	return &Service{
		store:    st,
		importer: imp,
		vcfg:     validate.Config{SKUPrefix: cfg.SKUPrefix},
		logger:   logger,
	}
}

// Preview is the non-mutating view of an upload: validation plus, when the
// bundle is valid, the computed change-set.
type Preview struct {
	Validation *validate.Result `json:"validation"`
	Diff       *diff.Result     `json:"diff,omitempty"`
}

// Outcome reports an import attempt. Committed is false when validation
// blocked the bundle or the diff carried no changes.
type Outcome struct {
	Validation *validate.Result `json:"validation"`
	Summary    *diff.Summary    `json:"summary,omitempty"`
	ImportID   string           `json:"import_id,omitempty"`
	Committed  bool             `json:"committed"`
}

// Validate runs the validation engine against the current store state.
func (s *Service) Validate(ctx context.Context, file *models.ParsedExcelFile) (*validate.Result, error) {
	state, err := s.store.LoadState(ctx)
	if err != nil {
		return nil, err
	}
	return validate.Run(file, state, s.vcfg), nil
}

// Preview validates and, if the bundle is importable, diffs it. Both
// engines are pure, so previews are safe to run repeatedly.
func (s *Service) Preview(ctx context.Context, file *models.ParsedExcelFile) (*Preview, error) {
	state, err := s.store.LoadState(ctx)
	if err != nil {
		return nil, err
	}

	p := &Preview{Validation: validate.Run(file, state, s.vcfg)}
	if p.Validation.Valid {
		p.Diff = diff.Generate(file, state)
	}
	return p, nil
}

// Import runs the full pipeline and commits the change-set. Validation
// errors and an empty diff short-circuit without touching the store.
func (s *Service) Import(ctx context.Context, file *models.ParsedExcelFile, uploadedBy string) (*Outcome, error) {
	state, err := s.store.LoadState(ctx)
	if err != nil {
		return nil, err
	}

	outcome := &Outcome{Validation: validate.Run(file, state, s.vcfg)}
	if !outcome.Validation.Valid {
		s.logger.Info("Import blocked by validation",
			zap.String("file", file.FileName),
			zap.Int("errors", len(outcome.Validation.Errors)))
		return outcome, nil
	}

	d := diff.Generate(file, state)
	outcome.Summary = &d.Summary

	if d.Summary.Empty() {
		s.logger.Info("Import skipped, nothing to do", zap.String("file", file.FileName))
		return outcome, nil
	}

	res, err := s.importer.Execute(ctx, file, d, importer.Metadata{
		FileName:   file.FileName,
		FileSize:   file.FileSize,
		UploadedBy: uploadedBy,
	})
	if err != nil {
		return nil, err
	}

	outcome.ImportID = res.ImportID
	outcome.Committed = true
	return outcome, nil
}

// Rollback undoes a committed import by snapshot id.
func (s *Service) Rollback(ctx context.Context, importID string) (*importer.RollbackResult, error) {
	return s.importer.Rollback(ctx, importID)
}

// ListImports returns the snapshot records available for rollback.
func (s *Service) ListImports(ctx context.Context) ([]models.ImportSnapshot, error) {
	return s.store.ListSnapshots(ctx)
}

// Archive fetches the archived upload bundle of a committed import.
func (s *Service) Archive(ctx context.Context, importID string) ([]byte, error) {
	return s.importer.FetchArchive(ctx, importID)
}

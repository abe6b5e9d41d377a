package importer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"catalog-manager/core/storage"
	"catalog-manager/feature/catalog/diff"
	"catalog-manager/feature/catalog/models"
	"catalog-manager/feature/catalog/store"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

// Config holds configuration for the import service's archive behavior.
type Config struct {
	// ArchiveEnabled turns on upload-bundle archiving.
	ArchiveEnabled bool
	// Bucket is the archive bucket.
	Bucket string
	// Prefix is the object key prefix for archived bundles.
	Prefix string
}

// Metadata identifies one import attempt for the snapshot record.
type Metadata struct {
	FileName   string
	FileSize   int64
	UploadedBy string
}

// Result is the outcome of a committed import.
type Result struct {
	ImportID string       `json:"import_id"`
	Summary  diff.Summary `json:"summary"`
}

// RollbackResult reports a completed rollback.
type RollbackResult struct {
	ImportID string         `json:"import_id"`
	Restored map[string]int `json:"restored"`
}

// ApplyError reports a mutation failure that happened after the snapshot
// was safely persisted. The caller can use ImportID to roll back; the
// service deliberately does not auto-rollback, so the root cause is never
// masked by a second failure mode.
type ApplyError struct {
	ImportID string
	Err      error
}

func (e *ApplyError) Error() string {
	return fmt.Sprintf("import %s failed after snapshot was written: %v", e.ImportID, e.Err)
}

func (e *ApplyError) Unwrap() error { return e.Err }

// Service is the only component that mutates the store. It executes a diff
// as one atomic unit, always capturing a recoverable snapshot first, and
// undoes a committed import on request. Concurrent imports against the same
// store are not coordinated here; callers must serialize them.
type Service struct {
	store   store.Store
	archive storage.Client
	cfg     Config
	logger  *zap.Logger
}

// NewService creates the import/rollback service. archive may be nil when
// no object storage is configured.
func NewService(st store.Store, archive storage.Client, cfg Config, logger *zap.Logger) *Service {
	return &Service{
		store:   st,
		archive: archive,
		cfg:     cfg,
		logger:  logger,
	}
}

// Execute commits a computed diff. Order matters: the pre-image snapshot is
// persisted before the first mutation so a mid-sequence failure is always
// recoverable. Store-level constraint violations propagate verbatim inside
// an ApplyError.
func (s *Service) Execute(ctx context.Context, file *models.ParsedExcelFile, d *diff.Result, meta Metadata) (*Result, error) {
	// 1. Capture the pre-image of every entity table.
	pre, err := s.store.LoadState(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to capture pre-image: %w", err)
	}

	snap, err := buildSnapshot(pre, d.Summary, meta, file.RowCount())
	if err != nil {
		return nil, err
	}

	// 2. Persist the snapshot before touching anything. The window between
	// snapshot write and mutation is the only unrecoverable one; keep it as
	// short as possible.
	if err := s.store.SaveSnapshot(ctx, snap); err != nil {
		return nil, fmt.Errorf("failed to persist snapshot: %w", err)
	}

	// 3. Apply all mutations as one atomic unit.
	if err := s.store.Apply(ctx, buildBatch(d)); err != nil {
		return nil, &ApplyError{ImportID: snap.ID, Err: err}
	}

	// 4. Archive the upload bundle for audit. Best effort: the snapshot row
	// is the source of truth for rollback, so an archive failure must not
	// fail a committed import.
	s.archiveBundle(ctx, snap.ID, file)

	s.logger.Info("Import committed",
		zap.String("import_id", snap.ID),
		zap.String("file", meta.FileName),
		zap.String("uploaded_by", meta.UploadedBy),
		zap.Int("changes", d.Summary.Total),
	)

	return &Result{ImportID: snap.ID, Summary: d.Summary}, nil
}

// Rollback restores the pre-image captured by an import and consumes the
// snapshot. A second call with the same id fails with
// store.ErrSnapshotNotFound; rollback is single-use by design.
func (s *Service) Rollback(ctx context.Context, importID string) (*RollbackResult, error) {
	snap, err := s.store.GetSnapshot(ctx, importID)
	if err != nil {
		return nil, err
	}

	pre, err := decodePreImage(snap)
	if err != nil {
		return nil, err
	}

	if err := s.store.Restore(ctx, pre); err != nil {
		return nil, fmt.Errorf("failed to restore pre-image: %w", err)
	}

	if err := s.store.DeleteSnapshot(ctx, importID); err != nil {
		return nil, fmt.Errorf("failed to consume snapshot: %w", err)
	}

	s.logger.Info("Import rolled back",
		zap.String("import_id", importID),
		zap.Int("parts", len(pre.Parts)),
		zap.Int("applications", len(pre.VehicleApplications)),
	)

	return &RollbackResult{
		ImportID: importID,
		Restored: map[string]int{
			"parts":                len(pre.Parts),
			"vehicle_applications": len(pre.VehicleApplications),
			"cross_references":     len(pre.CrossReferences),
			"aliases":              len(pre.Aliases),
		},
	}, nil
}

// buildBatch flattens a diff into the store's mutation batch.
func buildBatch(d *diff.Result) *store.Batch {
	batch := &store.Batch{
		PartAdds:           d.Parts.Adds,
		ApplicationAdds:    d.Applications.Adds,
		CrossReferenceAdds: d.CrossReferences.Adds,
		AliasAdds:          d.Aliases.Adds,
	}

	for _, u := range d.Parts.Updates {
		batch.PartUpdates = append(batch.PartUpdates, u.After)
	}
	for _, p := range d.Parts.Deletes {
		batch.PartDeletes = append(batch.PartDeletes, p.ID)
	}

	for _, u := range d.Applications.Updates {
		batch.ApplicationUpdates = append(batch.ApplicationUpdates, u.After)
	}
	for _, a := range d.Applications.Deletes {
		batch.ApplicationDeletes = append(batch.ApplicationDeletes, a.ID)
	}

	for _, x := range d.CrossReferences.Deletes {
		batch.CrossReferenceDeletes = append(batch.CrossReferenceDeletes, x.ID)
	}

	for _, u := range d.Aliases.Updates {
		batch.AliasUpdates = append(batch.AliasUpdates, u.After)
	}
	for _, al := range d.Aliases.Deletes {
		batch.AliasDeletes = append(batch.AliasDeletes, al.ID)
	}

	return batch
}

// archiveBundle uploads the normalized bundle as JSON next to the snapshot.
func (s *Service) archiveBundle(ctx context.Context, importID string, file *models.ParsedExcelFile) {
	if s.archive == nil || !s.cfg.ArchiveEnabled {
		return
	}

	payload, err := json.Marshal(file)
	if err != nil {
		s.logger.Warn("Failed to encode bundle for archiving", zap.Error(err))
		return
	}

	objectName := ArchiveObjectName(s.cfg.Prefix, importID)
	_, err = s.archive.PutObject(ctx, s.cfg.Bucket, objectName,
		bytes.NewReader(payload), int64(len(payload)),
		minio.PutObjectOptions{ContentType: "application/json"})
	if err != nil {
		s.logger.Warn("Failed to archive upload bundle",
			zap.String("import_id", importID),
			zap.String("object", objectName),
			zap.Error(err))
		return
	}

	s.logger.Debug("Archived upload bundle",
		zap.String("import_id", importID),
		zap.String("object", objectName))
}

// FetchArchive streams a previously archived upload bundle.
func (s *Service) FetchArchive(ctx context.Context, importID string) ([]byte, error) {
	if s.archive == nil {
		return nil, fmt.Errorf("archive storage is not configured")
	}

	obj, err := s.archive.GetObject(ctx, s.cfg.Bucket, ArchiveObjectName(s.cfg.Prefix, importID), minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch archived bundle: %w", err)
	}
	defer obj.Close()

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(obj); err != nil {
		return nil, fmt.Errorf("failed to read archived bundle: %w", err)
	}
	return buf.Bytes(), nil
}

// ArchiveObjectName builds the object key of an archived bundle.
func ArchiveObjectName(prefix, importID string) string {
	if prefix == "" {
		return importID + ".json"
	}
	return prefix + "/" + importID + ".json"
}

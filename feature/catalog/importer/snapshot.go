package importer

import (
	"encoding/json"
	"fmt"
	"time"

	"catalog-manager/feature/catalog/diff"
	"catalog-manager/feature/catalog/models"

	"github.com/google/uuid"
)

// buildSnapshot assembles the immutable snapshot record persisted before
// any mutation runs: the full pre-image of every entity table, the file
// metadata and the change summary.
func buildSnapshot(pre *models.StoreState, summary diff.Summary, meta Metadata, rowCount int) (*models.ImportSnapshot, error) {
	preImage, err := json.Marshal(pre)
	if err != nil {
		return nil, fmt.Errorf("failed to encode pre-image: %w", err)
	}

	summaryJSON, err := json.Marshal(summary)
	if err != nil {
		return nil, fmt.Errorf("failed to encode summary: %w", err)
	}

	return &models.ImportSnapshot{
		ID:         uuid.NewString(),
		FileName:   meta.FileName,
		FileSize:   meta.FileSize,
		UploadedBy: meta.UploadedBy,
		RowCount:   rowCount,
		Summary:    string(summaryJSON),
		PreImage:   string(preImage),
		CreatedAt:  time.Now(),
	}, nil
}

// decodePreImage reads the pre-image back out of a snapshot record. A
// decode failure here is a corrupt snapshot, not bad user input.
func decodePreImage(snap *models.ImportSnapshot) (*models.StoreState, error) {
	var pre models.StoreState
	if err := json.Unmarshal([]byte(snap.PreImage), &pre); err != nil {
		return nil, fmt.Errorf("corrupt snapshot %s: %w", snap.ID, err)
	}
	return &pre, nil
}

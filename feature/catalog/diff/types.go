package diff

import (
	"catalog-manager/feature/catalog/models"
)

// FieldChange describes one field-level difference between an uploaded row
// and its matched store record, using normalized values.
type FieldChange struct {
	Field string `json:"field"`
	From  string `json:"from"`
	To    string `json:"to"`
}

// PartUpdate is an UPDATE classification for one part. After carries the
// full post-image so the import service can persist it by surrogate id.
type PartUpdate struct {
	Before models.Part   `json:"before"`
	After  models.Part   `json:"after"`
	Fields []FieldChange `json:"fields"`
}

// PartDiff is the per-entity change-set for parts.
type PartDiff struct {
	Adds      []models.Part `json:"adds"`
	Updates   []PartUpdate  `json:"updates"`
	Deletes   []models.Part `json:"deletes"`
	Unchanged []models.Part `json:"unchanged"`
}

// ApplicationUpdate is an UPDATE classification for one vehicle application.
// Only the end year can change without changing identity.
type ApplicationUpdate struct {
	Before models.VehicleApplication `json:"before"`
	After  models.VehicleApplication `json:"after"`
	Fields []FieldChange             `json:"fields"`
}

// ApplicationDiff is the per-entity change-set for vehicle applications.
type ApplicationDiff struct {
	Adds      []models.VehicleApplication `json:"adds"`
	Updates   []ApplicationUpdate         `json:"updates"`
	Deletes   []models.VehicleApplication `json:"deletes"`
	Unchanged []models.VehicleApplication `json:"unchanged"`
}

// AliasUpdate is an UPDATE classification for one alias.
type AliasUpdate struct {
	Before models.Alias  `json:"before"`
	After  models.Alias  `json:"after"`
	Fields []FieldChange `json:"fields"`
}

// AliasDiff is the per-entity change-set for aliases.
type AliasDiff struct {
	Adds      []models.Alias `json:"adds"`
	Updates   []AliasUpdate  `json:"updates"`
	Deletes   []models.Alias `json:"deletes"`
	Unchanged []models.Alias `json:"unchanged"`
}

// CrossReferenceDiff is the change-set for derived cross-references. There
// is no update concept: a cross-reference is either present or absent.
type CrossReferenceDiff struct {
	Adds    []models.CrossReference `json:"adds"`
	Deletes []models.CrossReference `json:"deletes"`
}

// Counts aggregates classifications for one entity type.
type Counts struct {
	Adds      int `json:"adds"`
	Updates   int `json:"updates"`
	Deletes   int `json:"deletes"`
	Unchanged int `json:"unchanged"`
}

func (c Counts) changes() int { return c.Adds + c.Updates + c.Deletes }

// Summary aggregates per-entity counts plus the overall change total that
// drives "nothing to do" short-circuits and the change-preview UI.
type Summary struct {
	Parts           Counts `json:"parts"`
	Applications    Counts `json:"applications"`
	Aliases         Counts `json:"aliases"`
	CrossReferences Counts `json:"cross_references"`
	Total           int    `json:"total"`
}

// Empty reports whether the diff carries no mutations at all.
func (s Summary) Empty() bool { return s.Total == 0 }

// Result is the computed change-set for one upload bundle.
type Result struct {
	Parts           PartDiff           `json:"parts"`
	Applications    ApplicationDiff    `json:"applications"`
	Aliases         AliasDiff          `json:"aliases"`
	CrossReferences CrossReferenceDiff `json:"cross_references"`
	Summary         Summary            `json:"summary"`
}

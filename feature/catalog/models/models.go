package models

import (
	"time"
)

// Column width contracts. Validation enforces these so the store never
// truncates silently.
const (
	MaxKeyLen   = 50
	MaxTypeLen  = 100
	MaxAliasLen = 100
	MaxSpecsLen = 2000
	MaxBrandLen = 2000
	MaxURLLen   = 500
)

// Part is a vendor-neutral catalog part. The business key is ACRSku; the
// surrogate ID never leaves the store and is not round-tripped through
// spreadsheets.
type Part struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	ACRSku         string         `gorm:"column:acr_sku;size:50;uniqueIndex;not null" json:"acr_sku"`
	PartType       string         `gorm:"column:part_type;size:100;not null" json:"part_type"`
	PositionType   *string        `gorm:"column:position_type;size:50" json:"position_type,omitempty"`
	ABSType        *string        `gorm:"column:abs_type;size:50" json:"abs_type,omitempty"`
	BoltPattern    *string        `gorm:"column:bolt_pattern;size:50" json:"bolt_pattern,omitempty"`
	DriveType      *string        `gorm:"column:drive_type;size:50" json:"drive_type,omitempty"`
	Specifications *string        `gorm:"column:specifications;size:2000" json:"specifications,omitempty"`
	ImageURL       *string        `gorm:"column:image_url;size:500" json:"image_url,omitempty"`
	WorkflowStatus WorkflowStatus `gorm:"column:workflow_status;size:20;not null;default:'ACTIVE'" json:"workflow_status"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

// TableName overrides the default table name.
func (Part) TableName() string { return "parts" }

// VehicleApplication records that a part fits a vehicle for a year range.
// The composite business key is (acr_sku, make, model, start_year); EndYear
// is the only field that can change without changing identity.
type VehicleApplication struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	PartID    uint      `gorm:"column:part_id;index;not null" json:"part_id"`
	ACRSku    string    `gorm:"column:acr_sku;size:50;index;not null" json:"acr_sku"`
	Make      string    `gorm:"size:50;not null" json:"make"`
	Model     string    `gorm:"size:50;not null" json:"model"`
	StartYear int       `gorm:"column:start_year;not null" json:"start_year"`
	EndYear   int       `gorm:"column:end_year;not null" json:"end_year"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName overrides the default table name.
func (VehicleApplication) TableName() string { return "vehicle_applications" }

// Key returns the composite business key used for cross-file matching.
func (a VehicleApplication) Key() string {
	return ApplicationKey(a.ACRSku, a.Make, a.Model, a.StartYear)
}

// CrossReference links a part to one competitor SKU. It is never a sheet row
// of its own; it is derived from brand columns on the Parts sheet. A
// cross-reference is either present or absent, there are no updates.
type CrossReference struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	PartID        uint      `gorm:"column:part_id;index;not null" json:"part_id"`
	Brand         string    `gorm:"size:50;not null" json:"brand"`
	CompetitorSku string    `gorm:"column:competitor_sku;size:50;not null" json:"competitor_sku"`
	CreatedAt     time.Time `json:"created_at"`
}

// TableName overrides the default table name.
func (CrossReference) TableName() string { return "cross_references" }

// Alias maps an alternative name to a canonical part identifier.
// The composite business key is (alias, canonical_name).
type Alias struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Alias         string    `gorm:"size:100;not null;uniqueIndex:idx_alias_canonical" json:"alias"`
	CanonicalName string    `gorm:"column:canonical_name;size:100;not null;uniqueIndex:idx_alias_canonical" json:"canonical_name"`
	AliasType     *string   `gorm:"column:alias_type;size:100" json:"alias_type,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// TableName overrides the default table name.
func (Alias) TableName() string { return "aliases" }

// Key returns the composite business key used for cross-file matching.
func (al Alias) Key() string {
	return AliasKey(al.Alias, al.CanonicalName)
}

// ImportSnapshot is the persisted pre-image of the catalog tables captured
// immediately before an import mutated the store. It is consumed (deleted)
// by a successful rollback, so only un-rolled-back imports accumulate.
type ImportSnapshot struct {
	ID         string    `gorm:"primaryKey;size:36" json:"id"`
	FileName   string    `gorm:"column:file_name;size:255" json:"file_name"`
	FileSize   int64     `gorm:"column:file_size" json:"file_size"`
	UploadedBy string    `gorm:"column:uploaded_by;size:100" json:"uploaded_by"`
	RowCount   int       `gorm:"column:row_count" json:"row_count"`
	Summary    string    `gorm:"type:text" json:"summary"`
	PreImage   string    `gorm:"column:pre_image;type:longtext" json:"-"`
	CreatedAt  time.Time `json:"created_at"`
}

// TableName overrides the default table name.
func (ImportSnapshot) TableName() string { return "import_snapshots" }

// StoreState is an in-memory snapshot of the current store contents. The
// validation and diff engines operate on it so they stay pure; it also
// serves as the snapshot pre-image persisted by the import service.
type StoreState struct {
	Parts               []Part               `json:"parts"`
	VehicleApplications []VehicleApplication `json:"vehicle_applications"`
	CrossReferences     []CrossReference     `json:"cross_references"`
	Aliases             []Alias              `json:"aliases"`
}

// PartIndex returns the parts indexed by business key.
func (s *StoreState) PartIndex() map[string]*Part {
	idx := make(map[string]*Part, len(s.Parts))
	for i := range s.Parts {
		idx[s.Parts[i].ACRSku] = &s.Parts[i]
	}
	return idx
}

// ApplicationIndex returns the vehicle applications indexed by composite key.
func (s *StoreState) ApplicationIndex() map[string]*VehicleApplication {
	idx := make(map[string]*VehicleApplication, len(s.VehicleApplications))
	for i := range s.VehicleApplications {
		idx[s.VehicleApplications[i].Key()] = &s.VehicleApplications[i]
	}
	return idx
}

// CrossReferenceIndex returns the cross-references indexed by
// (part_id, brand, sku).
func (s *StoreState) CrossReferenceIndex() map[string]*CrossReference {
	idx := make(map[string]*CrossReference, len(s.CrossReferences))
	for i := range s.CrossReferences {
		x := &s.CrossReferences[i]
		idx[CrossReferenceKey(x.PartID, x.Brand, x.CompetitorSku)] = x
	}
	return idx
}

// AliasIndex returns the aliases indexed by composite key.
func (s *StoreState) AliasIndex() map[string]*Alias {
	idx := make(map[string]*Alias, len(s.Aliases))
	for i := range s.Aliases {
		idx[s.Aliases[i].Key()] = &s.Aliases[i]
	}
	return idx
}

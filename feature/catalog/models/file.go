package models

import (
	"catalog-manager/core/utils"
)

// Sheet names as delivered by the spreadsheet reader.
const (
	SheetParts        = "Parts"
	SheetApplications = "Applications"
	SheetAliases      = "Aliases"
)

// ParsedExcelFile is the normalized upload bundle produced by the external
// spreadsheet reader. Field names are the snake_case property names of the
// data model, not the human-readable spreadsheet headers. The Aliases sheet
// is optional; its absence means "no alias changes".
type ParsedExcelFile struct {
	FileName            string           `json:"file_name"`
	FileSize            int64            `json:"file_size"`
	Parts               PartSheet        `json:"parts"`
	VehicleApplications ApplicationSheet `json:"vehicle_applications"`
	Aliases             *AliasSheet      `json:"aliases,omitempty"`
}

// RowCount returns the total number of data rows across all sheets.
func (f *ParsedExcelFile) RowCount() int {
	n := len(f.Parts.Rows) + len(f.VehicleApplications.Rows)
	if f.Aliases != nil {
		n += len(f.Aliases.Rows)
	}
	return n
}

// PartSheet is the parsed Parts sheet.
type PartSheet struct {
	Name     string    `json:"name"`
	RowCount int       `json:"row_count"`
	Rows     []PartRow `json:"rows"`
}

// ApplicationSheet is the parsed vehicle application sheet.
type ApplicationSheet struct {
	Name     string           `json:"name"`
	RowCount int              `json:"row_count"`
	Rows     []ApplicationRow `json:"rows"`
}

// AliasSheet is the parsed alias sheet.
type AliasSheet struct {
	Name     string     `json:"name"`
	RowCount int        `json:"row_count"`
	Rows     []AliasRow `json:"rows"`
}

// PartRow is one uploaded part. Optional attributes arrive as plain strings;
// the empty string and an absent cell are equivalent. Brands maps a
// competitor brand name to the raw delimited cell value for that brand
// column.
type PartRow struct {
	ACRSku         string            `json:"acr_sku"`
	PartType       string            `json:"part_type"`
	PositionType   string            `json:"position_type"`
	ABSType        string            `json:"abs_type"`
	BoltPattern    string            `json:"bolt_pattern"`
	DriveType      string            `json:"drive_type"`
	Specifications string            `json:"specifications"`
	ImageURL       string            `json:"image_url"`
	WorkflowStatus string            `json:"workflow_status"`
	Brands         map[string]string `json:"brands"`
	Errors         string            `json:"errors"`
	Row            int               `json:"row"`
}

// Key returns the trimmed business key of the row.
func (r PartRow) Key() string { return Normalize(r.ACRSku) }

// ApplicationRow is one uploaded vehicle application. Year cells keep their
// loose reader typing (string or number) so validation can flag non-integer
// values instead of losing them at decode time.
type ApplicationRow struct {
	ACRSku    string `json:"acr_sku"`
	Make      string `json:"make"`
	Model     string `json:"model"`
	StartYear any    `json:"start_year"`
	EndYear   any    `json:"end_year"`
	Delete    bool   `json:"delete"`
	Errors    string `json:"errors"`
	Row       int    `json:"row"`
}

// StartYearText returns the trimmed string form of the start year cell.
func (r ApplicationRow) StartYearText() string { return Normalize(utils.ToString(r.StartYear)) }

// EndYearText returns the trimmed string form of the end year cell.
func (r ApplicationRow) EndYearText() string { return Normalize(utils.ToString(r.EndYear)) }

// Key returns the composite business key of the row. It is only meaningful
// once validation has confirmed the start year parses.
func (r ApplicationRow) Key() string {
	return ApplicationKey(r.ACRSku, r.Make, r.Model, utils.ToInt(r.StartYear))
}

// AliasRow is one uploaded alias.
type AliasRow struct {
	Alias         string `json:"alias"`
	CanonicalName string `json:"canonical_name"`
	AliasType     string `json:"alias_type"`
	Delete        bool   `json:"delete"`
	Errors        string `json:"errors"`
	Row           int    `json:"row"`
}

// Key returns the composite business key of the row.
func (r AliasRow) Key() string { return AliasKey(r.Alias, r.CanonicalName) }

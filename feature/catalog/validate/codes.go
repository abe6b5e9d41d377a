package validate

// Code is the stable machine-readable identifier of a validation issue.
// Codes are part of the API contract with the review UI; never renumber.
type Code string

// Blocking error codes. Any of these sets Valid=false and must prevent the
// caller from invoking the import service.
const (
	// CodeEmptyFile: no sheet in the upload contains any data row.
	CodeEmptyFile Code = "E001"
	// CodeRowError: the spreadsheet-native formula column flagged the row.
	CodeRowError Code = "E002"
	// CodeRequiredField: a business-key or category field is empty.
	CodeRequiredField Code = "E003"
	// CodeDuplicateKey: the same business key appears twice in one file.
	CodeDuplicateKey Code = "E004"
	// CodeSkuPrefix: the business key does not carry the organization prefix.
	CodeSkuPrefix Code = "E005"
	// CodeOrphanReference: a dependent row's key resolves to no part in the
	// file or the store.
	CodeOrphanReference Code = "E006"
	// CodeYearFormat: a year cell is not an integer.
	CodeYearFormat Code = "E007"
	// CodeYearInverted: end year precedes start year.
	CodeYearInverted Code = "E008"
	// CodeYearBounds: a year falls outside the sane bound.
	CodeYearBounds Code = "E009"
	// CodeFieldLength: a string field exceeds its column-width contract.
	CodeFieldLength Code = "E010"
	// CodeImageURL: an image reference is not an absolute http(s) URL.
	CodeImageURL Code = "E011"
	// CodeStatusValue: a lifecycle status value is outside the allowed set.
	CodeStatusValue Code = "E012"
)

// Non-blocking warning codes. Warnings require human acknowledgement before
// commit but never gate it. They are only emitted for rows that matched an
// existing record by business key; brand-new rows have nothing to compare
// against.
const (
	// CodePartTypeChanged: the category differs from the stored value.
	CodePartTypeChanged Code = "W001"
	// CodeAttributeChanged: an optional attribute differs from the stored value.
	CodeAttributeChanged Code = "W002"
	// CodeStatusChanged: the lifecycle status differs from the stored value.
	CodeStatusChanged Code = "W003"
	// CodeBrandListChanged: a brand column lists a different SKU set than the
	// stored cross-references for that brand.
	CodeBrandListChanged Code = "W004"
	// CodeSpecsShortened: free-text specifications shrank by more than half,
	// a heuristic guard against accidental data loss.
	CodeSpecsShortened Code = "W005"
	// CodeDuplicateBrandSku: the same SKU appears twice within one brand cell.
	CodeDuplicateBrandSku Code = "W006"
	// CodeLegacyBrandFormat: the brand cell used the legacy space-delimited
	// format (auto-normalized).
	CodeLegacyBrandFormat Code = "W007"
	// CodeEndYearChanged: the end year differs from the stored value.
	CodeEndYearChanged Code = "W008"
)

// Issue is one validation finding with its precise sheet location so the UI
// can highlight the offending cell.
type Issue struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
	Sheet   string `json:"sheet"`
	Row     int    `json:"row,omitempty"`
	Column  string `json:"column,omitempty"`
}

// Result is the structured outcome of validating one upload bundle.
// Validation never fails with an error for bad input; business-rule
// violations always land here.
type Result struct {
	Valid    bool    `json:"valid"`
	Errors   []Issue `json:"errors"`
	Warnings []Issue `json:"warnings"`
}

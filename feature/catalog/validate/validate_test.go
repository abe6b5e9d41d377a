package validate_test

import (
	"testing"

	"catalog-manager/feature/catalog/models"
	"catalog-manager/feature/catalog/validate"

	"github.com/stretchr/testify/assert"
)

var testCfg = validate.Config{SKUPrefix: "ACR", Year: 2025}

func ptr(s string) *string { return &s }

// seededState returns a store with one part, one application, one
// cross-reference and one alias so matched-row checks have something to
// compare against.
func seededState() *models.StoreState {
	return &models.StoreState{
		Parts: []models.Part{{
			ID:             7,
			ACRSku:         "ACR-100",
			PartType:       "Brake Pad",
			PositionType:   ptr("Front"),
			Specifications: ptr("Ceramic compound, 40mm pad depth, includes shims"),
			WorkflowStatus: models.StatusActive,
		}},
		VehicleApplications: []models.VehicleApplication{{
			ID: 3, PartID: 7, ACRSku: "ACR-100", Make: "Ford", Model: "Focus", StartYear: 2010, EndYear: 2015,
		}},
		CrossReferences: []models.CrossReference{
			{ID: 1, PartID: 7, Brand: "national", CompetitorSku: "NAT-100"},
			{ID: 2, PartID: 7, Brand: "national", CompetitorSku: "NAT-200"},
		},
		Aliases: []models.Alias{{
			ID: 1, Alias: "FOC-BRK", CanonicalName: "ACR-100", AliasType: ptr("legacy"),
		}},
	}
}

func codes(issues []validate.Issue) []validate.Code {
	out := make([]validate.Code, 0, len(issues))
	for _, i := range issues {
		out = append(out, i.Code)
	}
	return out
}

func TestEmptyFileIsRejected(t *testing.T) {
	res := validate.Run(&models.ParsedExcelFile{FileName: "empty.xlsx"}, &models.StoreState{}, testCfg)

	assert.False(t, res.Valid)
	assert.Equal(t, []validate.Code{validate.CodeEmptyFile}, codes(res.Errors))
	assert.Empty(t, res.Warnings)
}

func TestValidNewPartProducesNoIssues(t *testing.T) {
	file := &models.ParsedExcelFile{
		Parts: models.PartSheet{Rows: []models.PartRow{{
			ACRSku:   "ACR-200",
			PartType: "Rotor",
			ImageURL: "https://img.example.com/acr-200.jpg",
			Row:      2,
		}}},
	}

	res := validate.Run(file, &models.StoreState{}, testCfg)
	assert.True(t, res.Valid)
	assert.Empty(t, res.Errors)
	assert.Empty(t, res.Warnings)
}

func TestPartSheetErrors(t *testing.T) {
	file := &models.ParsedExcelFile{
		Parts: models.PartSheet{Rows: []models.PartRow{
			{ACRSku: "", PartType: "Rotor", Row: 2},
			{ACRSku: "ACR-300", PartType: "", Row: 3},
			{ACRSku: "ACR-300", PartType: "Rotor", Row: 4},
			{ACRSku: "XXX-400", PartType: "Rotor", Row: 5},
			{ACRSku: "ACR-500", PartType: "Rotor", ImageURL: "imgs/photo.jpg", Row: 6},
			{ACRSku: "ACR-600", PartType: "Rotor", WorkflowStatus: "Borrar", Row: 7},
			{ACRSku: "ACR-700", PartType: "Rotor", Errors: "#REF!", Row: 8},
		}},
	}

	res := validate.Run(file, &models.StoreState{}, testCfg)
	assert.False(t, res.Valid)
	assert.ElementsMatch(t, []validate.Code{
		validate.CodeRequiredField,  // row 2: no acr_sku
		validate.CodeRequiredField,  // row 3: no part_type
		validate.CodeDuplicateKey,   // row 4: ACR-300 twice
		validate.CodeSkuPrefix,      // row 5: wrong prefix
		validate.CodeImageURL,       // row 6: relative URL
		validate.CodeStatusValue,    // row 7: unknown status
		validate.CodeRowError,       // row 8: formula error
	}, codes(res.Errors))
}

func TestFieldLengthLimit(t *testing.T) {
	long := make([]byte, models.MaxKeyLen+1)
	for i := range long {
		long[i] = 'A'
	}
	sku := "ACR" + string(long)

	file := &models.ParsedExcelFile{
		Parts: models.PartSheet{Rows: []models.PartRow{{ACRSku: sku, PartType: "Rotor", Row: 2}}},
	}

	res := validate.Run(file, &models.StoreState{}, testCfg)
	assert.Contains(t, codes(res.Errors), validate.CodeFieldLength)
}

func TestApplicationYearErrors(t *testing.T) {
	file := &models.ParsedExcelFile{
		VehicleApplications: models.ApplicationSheet{Rows: []models.ApplicationRow{
			{ACRSku: "ACR-100", Make: "Ford", Model: "Focus", StartYear: "20T5", EndYear: 2016, Row: 2},
			{ACRSku: "ACR-100", Make: "Ford", Model: "Focus", StartYear: 1850, EndYear: 1950, Row: 3},
			{ACRSku: "ACR-100", Make: "Ford", Model: "Focus", StartYear: 2020, EndYear: 2090, Row: 4},
			{ACRSku: "ACR-100", Make: "Ford", Model: "Focus", StartYear: 2016, EndYear: 2012, Row: 5},
			{ACRSku: "ACR-100", Make: "Ford", Model: "Fiesta", StartYear: 2010, EndYear: "", Row: 6},
		}},
	}

	res := validate.Run(file, seededState(), testCfg)
	assert.False(t, res.Valid)
	assert.ElementsMatch(t, []validate.Code{
		validate.CodeYearFormat,    // row 2
		validate.CodeYearBounds,    // row 3: start_year 1850
		validate.CodeYearBounds,    // row 4: end_year past 2027
		validate.CodeYearInverted,  // row 5
		validate.CodeRequiredField, // row 6: end_year empty
	}, codes(res.Errors))
}

func TestApplicationOrphanResolution(t *testing.T) {
	file := &models.ParsedExcelFile{
		Parts: models.PartSheet{Rows: []models.PartRow{{ACRSku: "ACR-900", PartType: "Rotor", Row: 2}}},
		VehicleApplications: models.ApplicationSheet{Rows: []models.ApplicationRow{
			// Resolves to a part in the same file.
			{ACRSku: "ACR-900", Make: "Ford", Model: "Focus", StartYear: 2010, EndYear: 2012, Row: 2},
			// Resolves to a part already in the store.
			{ACRSku: "ACR-100", Make: "Ford", Model: "Ka", StartYear: 2010, EndYear: 2012, Row: 3},
			// Resolves to nothing.
			{ACRSku: "ACR-404", Make: "Ford", Model: "Focus", StartYear: 2010, EndYear: 2012, Row: 4},
		}},
	}

	res := validate.Run(file, seededState(), testCfg)
	assert.Equal(t, []validate.Code{validate.CodeOrphanReference}, codes(res.Errors))
	assert.Equal(t, 4, res.Errors[0].Row)
}

func TestDuplicateApplicationKey(t *testing.T) {
	file := &models.ParsedExcelFile{
		VehicleApplications: models.ApplicationSheet{Rows: []models.ApplicationRow{
			{ACRSku: "ACR-100", Make: "Ford", Model: "Focus", StartYear: 2010, EndYear: 2015, Row: 2},
			{ACRSku: "ACR-100", Make: "Ford", Model: "Focus", StartYear: 2010, EndYear: 2016, Row: 3},
		}},
	}

	res := validate.Run(file, seededState(), testCfg)
	assert.Contains(t, codes(res.Errors), validate.CodeDuplicateKey)
}

func TestIdenticalReuploadProducesNoWarnings(t *testing.T) {
	// The stored optional fields that are nil arrive as empty strings; the
	// null/empty equivalence rule means nothing changed.
	file := &models.ParsedExcelFile{
		Parts: models.PartSheet{Rows: []models.PartRow{{
			ACRSku:         "ACR-100",
			PartType:       "Brake Pad",
			PositionType:   "Front",
			ABSType:        "",
			Specifications: "Ceramic compound, 40mm pad depth, includes shims",
			WorkflowStatus: "Activo",
			Brands:         map[string]string{"national": "NAT-100;NAT-200"},
			Row:            2,
		}}},
		VehicleApplications: models.ApplicationSheet{Rows: []models.ApplicationRow{
			{ACRSku: "ACR-100", Make: "Ford", Model: "Focus", StartYear: 2010, EndYear: 2015, Row: 2},
		}},
		Aliases: &models.AliasSheet{Rows: []models.AliasRow{
			{Alias: "FOC-BRK", CanonicalName: "ACR-100", AliasType: "legacy", Row: 2},
		}},
	}

	res := validate.Run(file, seededState(), testCfg)
	assert.True(t, res.Valid)
	assert.Empty(t, res.Errors)
	assert.Empty(t, res.Warnings)
}

func TestMatchedRowChangeWarnings(t *testing.T) {
	file := &models.ParsedExcelFile{
		Parts: models.PartSheet{Rows: []models.PartRow{{
			ACRSku:         "ACR-100",
			PartType:       "Brake Rotor",                   // W: part_type changed
			PositionType:   "Rear",                          // W: attribute changed
			Specifications: "Ceramic",                       // W: attribute changed + shortened
			WorkflowStatus: "Inactivo",                      // W: status changed
			Brands: map[string]string{
				"national": "NAT-100 NAT-300 NAT-300", // W: legacy format, dup sku, list changed
			},
			Row: 2,
		}}},
	}

	res := validate.Run(file, seededState(), testCfg)
	assert.True(t, res.Valid)
	assert.Empty(t, res.Errors)
	assert.ElementsMatch(t, []validate.Code{
		validate.CodePartTypeChanged,
		validate.CodeAttributeChanged, // position_type
		validate.CodeAttributeChanged, // specifications
		validate.CodeStatusChanged,
		validate.CodeSpecsShortened,
		validate.CodeLegacyBrandFormat,
		validate.CodeDuplicateBrandSku,
		validate.CodeBrandListChanged,
	}, codes(res.Warnings))
}

func TestNewRowsProduceNoChangeWarnings(t *testing.T) {
	// A brand-new part has nothing stored to differ from.
	file := &models.ParsedExcelFile{
		Parts: models.PartSheet{Rows: []models.PartRow{{
			ACRSku:         "ACR-999",
			PartType:       "Hub Assembly",
			PositionType:   "Rear",
			WorkflowStatus: "Inactivo",
			Brands:         map[string]string{"national": "NAT-1;NAT-2"},
			Row:            2,
		}}},
	}

	res := validate.Run(file, seededState(), testCfg)
	assert.True(t, res.Valid)
	assert.Empty(t, res.Warnings)
}

func TestEmptyBrandCellIsNotADifference(t *testing.T) {
	// ACR-100 has stored cross-references for "national", but an empty cell
	// must not warn: absence never implies deletion.
	file := &models.ParsedExcelFile{
		Parts: models.PartSheet{Rows: []models.PartRow{{
			ACRSku:         "ACR-100",
			PartType:       "Brake Pad",
			PositionType:   "Front",
			Specifications: "Ceramic compound, 40mm pad depth, includes shims",
			Brands:         map[string]string{"national": ""},
			Row:            2,
		}}},
	}

	res := validate.Run(file, seededState(), testCfg)
	assert.Empty(t, res.Warnings)
}

func TestEndYearChangeWarning(t *testing.T) {
	file := &models.ParsedExcelFile{
		VehicleApplications: models.ApplicationSheet{Rows: []models.ApplicationRow{
			{ACRSku: "ACR-100", Make: "Ford", Model: "Focus", StartYear: 2010, EndYear: 2018, Row: 2},
		}},
	}

	res := validate.Run(file, seededState(), testCfg)
	assert.True(t, res.Valid)
	assert.Equal(t, []validate.Code{validate.CodeEndYearChanged}, codes(res.Warnings))
}

func TestAliasSheetErrors(t *testing.T) {
	file := &models.ParsedExcelFile{
		Aliases: &models.AliasSheet{Rows: []models.AliasRow{
			{Alias: "", CanonicalName: "ACR-100", Row: 2},
			{Alias: "GHOST", CanonicalName: "ACR-404", Row: 3},
			{Alias: "FOC-BRK", CanonicalName: "ACR-100", AliasType: "legacy", Row: 4},
			{Alias: "FOC-BRK", CanonicalName: "ACR-100", AliasType: "legacy", Row: 5},
		}},
	}

	res := validate.Run(file, seededState(), testCfg)
	assert.ElementsMatch(t, []validate.Code{
		validate.CodeRequiredField,   // row 2
		validate.CodeOrphanReference, // row 3
		validate.CodeDuplicateKey,    // row 5
	}, codes(res.Errors))
}

func TestAliasTypeChangeWarning(t *testing.T) {
	file := &models.ParsedExcelFile{
		Aliases: &models.AliasSheet{Rows: []models.AliasRow{
			{Alias: "FOC-BRK", CanonicalName: "ACR-100", AliasType: "oem", Row: 2},
		}},
	}

	res := validate.Run(file, seededState(), testCfg)
	assert.True(t, res.Valid)
	assert.Equal(t, []validate.Code{validate.CodeAttributeChanged}, codes(res.Warnings))
}

package validate

import (
	"fmt"
	"net/url"
	"strconv"
	"time"

	"catalog-manager/feature/catalog/models"
)

// Config carries the environment-dependent validation parameters so the
// engine itself stays deterministic.
type Config struct {
	// SKUPrefix is the organization's part-number prefix every business key
	// must start with.
	SKUPrefix string
	// Year is the reference year for the year-bounds check. Zero means "use
	// the current year".
	Year int
}

// Earliest model year accepted for a vehicle application.
const minYear = 1900

// Run validates an upload bundle against the current store state. It is a
// pure function: no I/O, no mutation, safe to call repeatedly for live
// previews. Blocking errors set Valid=false; warnings never do.
func Run(file *models.ParsedExcelFile, state *models.StoreState, cfg Config) *Result {
	res := &Result{}

	year := cfg.Year
	if year == 0 {
		year = time.Now().Year()
	}
	maxYear := year + 2

	if file.RowCount() == 0 {
		res.addError(Issue{
			Code:    CodeEmptyFile,
			Message: "no sheet contains any data row",
			Sheet:   models.SheetParts,
		})
		res.Valid = len(res.Errors) == 0
		return res
	}

	partKeys := validateParts(file, state, cfg, res)
	validateApplications(file, state, partKeys, minYear, maxYear, res)
	validateAliases(file, state, partKeys, res)

	res.Valid = len(res.Errors) == 0
	return res
}

func (r *Result) addError(i Issue)   { r.Errors = append(r.Errors, i) }
func (r *Result) addWarning(i Issue) { r.Warnings = append(r.Warnings, i) }

// validateParts checks the Parts sheet and returns the set of business keys
// present in the file for orphan resolution by the dependent sheets.
func validateParts(file *models.ParsedExcelFile, state *models.StoreState, cfg Config, res *Result) map[string]struct{} {
	existing := state.PartIndex()
	crossRefs := brandIndex(state)
	keys := make(map[string]struct{}, len(file.Parts.Rows))

	for _, row := range file.Parts.Rows {
		sheet := models.SheetParts

		if models.Normalize(row.Errors) != "" {
			res.addError(Issue{
				Code:    CodeRowError,
				Message: fmt.Sprintf("spreadsheet formula flagged this row: %s", models.Normalize(row.Errors)),
				Sheet:   sheet,
				Row:     row.Row,
				Column:  "errors",
			})
		}

		key := row.Key()
		if key == "" {
			res.addError(Issue{
				Code:    CodeRequiredField,
				Message: "acr_sku is required",
				Sheet:   sheet,
				Row:     row.Row,
				Column:  "acr_sku",
			})
			continue
		}

		if models.Normalize(row.PartType) == "" {
			res.addError(Issue{
				Code:    CodeRequiredField,
				Message: "part_type is required",
				Sheet:   sheet,
				Row:     row.Row,
				Column:  "part_type",
			})
		}

		if _, dup := keys[key]; dup {
			res.addError(Issue{
				Code:    CodeDuplicateKey,
				Message: fmt.Sprintf("duplicate business key %q in file", key),
				Sheet:   sheet,
				Row:     row.Row,
				Column:  "acr_sku",
			})
		}
		keys[key] = struct{}{}

		if cfg.SKUPrefix != "" && !hasPrefix(key, cfg.SKUPrefix) {
			res.addError(Issue{
				Code:    CodeSkuPrefix,
				Message: fmt.Sprintf("business key %q must start with %q", key, cfg.SKUPrefix),
				Sheet:   sheet,
				Row:     row.Row,
				Column:  "acr_sku",
			})
		}

		checkLength(res, sheet, row.Row, "acr_sku", key, models.MaxKeyLen)
		checkLength(res, sheet, row.Row, "part_type", row.PartType, models.MaxTypeLen)
		checkLength(res, sheet, row.Row, "position_type", row.PositionType, models.MaxKeyLen)
		checkLength(res, sheet, row.Row, "abs_type", row.ABSType, models.MaxKeyLen)
		checkLength(res, sheet, row.Row, "bolt_pattern", row.BoltPattern, models.MaxKeyLen)
		checkLength(res, sheet, row.Row, "drive_type", row.DriveType, models.MaxKeyLen)
		checkLength(res, sheet, row.Row, "specifications", row.Specifications, models.MaxSpecsLen)
		checkLength(res, sheet, row.Row, "image_url", row.ImageURL, models.MaxURLLen)
		for brand, cell := range row.Brands {
			checkLength(res, sheet, row.Row, brand, cell, models.MaxBrandLen)
		}

		if img := models.Normalize(row.ImageURL); img != "" && !isAbsoluteHTTP(img) {
			res.addError(Issue{
				Code:    CodeImageURL,
				Message: fmt.Sprintf("image URL %q is not an absolute http(s) URL", img),
				Sheet:   sheet,
				Row:     row.Row,
				Column:  "image_url",
			})
		}

		status, ok := models.ParseWorkflowStatus(row.WorkflowStatus)
		if !ok {
			res.addError(Issue{
				Code:    CodeStatusValue,
				Message: fmt.Sprintf("unknown workflow status %q", models.Normalize(row.WorkflowStatus)),
				Sheet:   sheet,
				Row:     row.Row,
				Column:  "workflow_status",
			})
		}

		// Change warnings only apply to rows matching an existing record;
		// there is nothing to compare a brand-new row against.
		prev, matched := existing[key]
		if !matched {
			continue
		}
		warnPartChanges(res, row, prev, status, ok, crossRefs[prev.ID])
	}

	return keys
}

// warnPartChanges emits the non-blocking change warnings for one matched
// part row.
func warnPartChanges(res *Result, row models.PartRow, prev *models.Part, status models.WorkflowStatus, statusOK bool, prevBrands map[string]map[string]struct{}) {
	sheet := models.SheetParts

	if models.Normalize(row.PartType) != "" && models.Normalize(row.PartType) != models.Normalize(prev.PartType) {
		res.addWarning(Issue{
			Code:    CodePartTypeChanged,
			Message: fmt.Sprintf("part_type changes from %q to %q", prev.PartType, models.Normalize(row.PartType)),
			Sheet:   sheet,
			Row:     row.Row,
			Column:  "part_type",
		})
	}

	attrs := []struct {
		column string
		up     string
		stored *string
	}{
		{"position_type", row.PositionType, prev.PositionType},
		{"abs_type", row.ABSType, prev.ABSType},
		{"bolt_pattern", row.BoltPattern, prev.BoltPattern},
		{"drive_type", row.DriveType, prev.DriveType},
		{"specifications", row.Specifications, prev.Specifications},
	}
	for _, a := range attrs {
		if models.Normalize(a.up) != models.NormalizeOptional(a.stored) {
			res.addWarning(Issue{
				Code:    CodeAttributeChanged,
				Message: fmt.Sprintf("%s changes from %q to %q", a.column, models.NormalizeOptional(a.stored), models.Normalize(a.up)),
				Sheet:   sheet,
				Row:     row.Row,
				Column:  a.column,
			})
		}
	}

	if statusOK && status != prev.WorkflowStatus {
		res.addWarning(Issue{
			Code:    CodeStatusChanged,
			Message: fmt.Sprintf("workflow_status changes from %s to %s", prev.WorkflowStatus, status),
			Sheet:   sheet,
			Row:     row.Row,
			Column:  "workflow_status",
		})
	}

	stored := models.NormalizeOptional(prev.Specifications)
	up := models.Normalize(row.Specifications)
	if stored != "" && up != "" && len(up)*2 < len(stored) {
		res.addWarning(Issue{
			Code:    CodeSpecsShortened,
			Message: fmt.Sprintf("specifications shrank from %d to %d characters", len(stored), len(up)),
			Sheet:   sheet,
			Row:     row.Row,
			Column:  "specifications",
		})
	}

	for brand, raw := range row.Brands {
		cell := models.ParseBrandCell(raw)

		if cell.Legacy {
			res.addWarning(Issue{
				Code:    CodeLegacyBrandFormat,
				Message: fmt.Sprintf("brand column %q uses the legacy space-delimited format", brand),
				Sheet:   sheet,
				Row:     row.Row,
				Column:  brand,
			})
		}

		seen := make(map[string]struct{}, len(cell.Adds))
		for _, sku := range cell.Adds {
			if _, dup := seen[sku]; dup {
				res.addWarning(Issue{
					Code:    CodeDuplicateBrandSku,
					Message: fmt.Sprintf("SKU %q listed twice for brand %q", sku, brand),
					Sheet:   sheet,
					Row:     row.Row,
					Column:  brand,
				})
			}
			seen[sku] = struct{}{}
		}

		// A non-empty cell whose SKU set differs from the stored
		// cross-references is surfaced for review. An empty cell is not a
		// difference: absence never implies deletion.
		if len(cell.Adds) > 0 && !sameSet(seen, prevBrands[brand]) {
			res.addWarning(Issue{
				Code:    CodeBrandListChanged,
				Message: fmt.Sprintf("brand column %q lists a different SKU set than currently stored", brand),
				Sheet:   sheet,
				Row:     row.Row,
				Column:  brand,
			})
		}
	}
}

func validateApplications(file *models.ParsedExcelFile, state *models.StoreState, partKeys map[string]struct{}, minY, maxY int, res *Result) {
	sheet := models.SheetApplications
	existingParts := state.PartIndex()
	existingApps := state.ApplicationIndex()
	keys := make(map[string]struct{}, len(file.VehicleApplications.Rows))

	for _, row := range file.VehicleApplications.Rows {
		if models.Normalize(row.Errors) != "" {
			res.addError(Issue{
				Code:    CodeRowError,
				Message: fmt.Sprintf("spreadsheet formula flagged this row: %s", models.Normalize(row.Errors)),
				Sheet:   sheet,
				Row:     row.Row,
				Column:  "errors",
			})
		}

		sku := models.Normalize(row.ACRSku)
		required := []struct {
			column string
			value  string
		}{
			{"acr_sku", sku},
			{"make", models.Normalize(row.Make)},
			{"model", models.Normalize(row.Model)},
			{"start_year", row.StartYearText()},
			{"end_year", row.EndYearText()},
		}
		missing := false
		for _, f := range required {
			if f.value == "" {
				res.addError(Issue{
					Code:    CodeRequiredField,
					Message: fmt.Sprintf("%s is required", f.column),
					Sheet:   sheet,
					Row:     row.Row,
					Column:  f.column,
				})
				missing = true
			}
		}
		if missing {
			continue
		}

		checkLength(res, sheet, row.Row, "acr_sku", sku, models.MaxKeyLen)
		checkLength(res, sheet, row.Row, "make", row.Make, models.MaxKeyLen)
		checkLength(res, sheet, row.Row, "model", row.Model, models.MaxKeyLen)

		if _, inFile := partKeys[sku]; !inFile {
			if _, inStore := existingParts[sku]; !inStore {
				res.addError(Issue{
					Code:    CodeOrphanReference,
					Message: fmt.Sprintf("acr_sku %q resolves to no part in the file or the store", sku),
					Sheet:   sheet,
					Row:     row.Row,
					Column:  "acr_sku",
				})
			}
		}

		start, okStart := checkYear(res, sheet, row.Row, "start_year", row.StartYearText(), minY, maxY)
		end, okEnd := checkYear(res, sheet, row.Row, "end_year", row.EndYearText(), minY, maxY)
		if !okStart || !okEnd {
			continue
		}

		if end < start {
			res.addError(Issue{
				Code:    CodeYearInverted,
				Message: fmt.Sprintf("end_year %d precedes start_year %d", end, start),
				Sheet:   sheet,
				Row:     row.Row,
				Column:  "end_year",
			})
		}

		key := models.ApplicationKey(sku, row.Make, row.Model, start)
		if _, dup := keys[key]; dup {
			res.addError(Issue{
				Code:    CodeDuplicateKey,
				Message: fmt.Sprintf("duplicate vehicle application for %q %s %s %d", sku, models.Normalize(row.Make), models.Normalize(row.Model), start),
				Sheet:   sheet,
				Row:     row.Row,
				Column:  "acr_sku",
			})
		}
		keys[key] = struct{}{}

		if prev, matched := existingApps[key]; matched && prev.EndYear != end {
			res.addWarning(Issue{
				Code:    CodeEndYearChanged,
				Message: fmt.Sprintf("end_year changes from %d to %d", prev.EndYear, end),
				Sheet:   sheet,
				Row:     row.Row,
				Column:  "end_year",
			})
		}
	}
}

func validateAliases(file *models.ParsedExcelFile, state *models.StoreState, partKeys map[string]struct{}, res *Result) {
	if file.Aliases == nil {
		return
	}

	sheet := models.SheetAliases
	existingParts := state.PartIndex()
	existingAliases := state.AliasIndex()
	keys := make(map[string]struct{}, len(file.Aliases.Rows))

	for _, row := range file.Aliases.Rows {
		if models.Normalize(row.Errors) != "" {
			res.addError(Issue{
				Code:    CodeRowError,
				Message: fmt.Sprintf("spreadsheet formula flagged this row: %s", models.Normalize(row.Errors)),
				Sheet:   sheet,
				Row:     row.Row,
				Column:  "errors",
			})
		}

		alias := models.Normalize(row.Alias)
		canonical := models.Normalize(row.CanonicalName)
		if alias == "" || canonical == "" {
			column := "alias"
			if alias != "" {
				column = "canonical_name"
			}
			res.addError(Issue{
				Code:    CodeRequiredField,
				Message: fmt.Sprintf("%s is required", column),
				Sheet:   sheet,
				Row:     row.Row,
				Column:  column,
			})
			continue
		}

		checkLength(res, sheet, row.Row, "alias", alias, models.MaxAliasLen)
		checkLength(res, sheet, row.Row, "canonical_name", canonical, models.MaxAliasLen)
		checkLength(res, sheet, row.Row, "alias_type", row.AliasType, models.MaxAliasLen)

		if _, inFile := partKeys[canonical]; !inFile {
			if _, inStore := existingParts[canonical]; !inStore {
				res.addError(Issue{
					Code:    CodeOrphanReference,
					Message: fmt.Sprintf("canonical_name %q resolves to no part in the file or the store", canonical),
					Sheet:   sheet,
					Row:     row.Row,
					Column:  "canonical_name",
				})
			}
		}

		key := models.AliasKey(alias, canonical)
		if _, dup := keys[key]; dup {
			res.addError(Issue{
				Code:    CodeDuplicateKey,
				Message: fmt.Sprintf("duplicate alias (%q, %q) in file", alias, canonical),
				Sheet:   sheet,
				Row:     row.Row,
				Column:  "alias",
			})
		}
		keys[key] = struct{}{}

		if prev, matched := existingAliases[key]; matched {
			if models.Normalize(row.AliasType) != models.NormalizeOptional(prev.AliasType) {
				res.addWarning(Issue{
					Code:    CodeAttributeChanged,
					Message: fmt.Sprintf("alias_type changes from %q to %q", models.NormalizeOptional(prev.AliasType), models.Normalize(row.AliasType)),
					Sheet:   sheet,
					Row:     row.Row,
					Column:  "alias_type",
				})
			}
		}
	}
}

// checkYear validates one year cell and returns its parsed value.
func checkYear(res *Result, sheet string, rowNum int, column, text string, minY, maxY int) (int, bool) {
	y, err := strconv.Atoi(text)
	if err != nil {
		res.addError(Issue{
			Code:    CodeYearFormat,
			Message: fmt.Sprintf("%s %q is not an integer", column, text),
			Sheet:   sheet,
			Row:     rowNum,
			Column:  column,
		})
		return 0, false
	}

	if y < minY || y > maxY {
		res.addError(Issue{
			Code:    CodeYearBounds,
			Message: fmt.Sprintf("%s %d is outside %d..%d", column, y, minY, maxY),
			Sheet:   sheet,
			Row:     rowNum,
			Column:  column,
		})
		return 0, false
	}

	return y, true
}

func checkLength(res *Result, sheet string, rowNum int, column, value string, max int) {
	if len(models.Normalize(value)) > max {
		res.addError(Issue{
			Code:    CodeFieldLength,
			Message: fmt.Sprintf("%s exceeds %d characters", column, max),
			Sheet:   sheet,
			Row:     rowNum,
			Column:  column,
		})
	}
}

func isAbsoluteHTTP(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

func hasPrefix(key, prefix string) bool {
	return len(key) >= len(prefix) && key[:len(prefix)] == prefix
}

// brandIndex builds, per part id, the stored cross-reference SKU set keyed
// by brand.
func brandIndex(state *models.StoreState) map[uint]map[string]map[string]struct{} {
	idx := make(map[uint]map[string]map[string]struct{})
	for _, x := range state.CrossReferences {
		byBrand, ok := idx[x.PartID]
		if !ok {
			byBrand = make(map[string]map[string]struct{})
			idx[x.PartID] = byBrand
		}
		skus, ok := byBrand[x.Brand]
		if !ok {
			skus = make(map[string]struct{})
			byBrand[x.Brand] = skus
		}
		skus[x.CompetitorSku] = struct{}{}
	}
	return idx
}

func sameSet(a, b map[string]struct{}) bool {
	if len(a) != len(b) {
		return false
	}
	for k := range a {
		if _, ok := b[k]; !ok {
			return false
		}
	}
	return true
}

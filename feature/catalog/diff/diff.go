package diff

import (
	"sort"
	"strconv"

	"catalog-manager/core/utils"
	"catalog-manager/feature/catalog/models"
)

// Generate computes the minimal change-set that turns the current store
// state into the uploaded snapshot. It is a pure function: validation is
// expected to have gated the bundle already, so rows that would make diffing
// itself fail are skipped defensively rather than reported.
//
// The central safety invariant: an existing record whose business key never
// appears in the file is classified UNCHANGED, never DELETE. Deletion is
// opt-in per row via an explicit marker.
func Generate(file *models.ParsedExcelFile, state *models.StoreState) *Result {
	res := &Result{}

	// Phase 1 resolves part identities and builds the business-key to
	// surrogate-id map the dependent entities consume.
	ids, deleted := diffParts(file, state, res)

	diffCrossReferences(file, state, deleted, res)
	diffApplications(file, state, ids, deleted, res)
	diffAliases(file, state, res)

	res.Summary = summarize(res)
	return res
}

// diffParts classifies every part row and returns the sku-to-surrogate-id
// map plus the set of skus deleted in this pass.
func diffParts(file *models.ParsedExcelFile, state *models.StoreState, res *Result) (map[string]uint, map[string]struct{}) {
	existing := state.PartIndex()
	deleted := make(map[string]struct{})
	seen := make(map[string]struct{}, len(file.Parts.Rows))

	// Surrogate ids for adds are allocated deterministically past the
	// current maximum so dependent rows can resolve their foreign key before
	// the part exists in the store.
	ids := make(map[string]uint, len(existing))
	var nextID uint
	for _, p := range state.Parts {
		ids[p.ACRSku] = p.ID
		if p.ID > nextID {
			nextID = p.ID
		}
	}
	nextID++

	for _, row := range file.Parts.Rows {
		key := row.Key()
		if key == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		status, ok := models.ParseWorkflowStatus(row.WorkflowStatus)
		if !ok {
			continue
		}

		prev, matched := existing[key]

		if status == models.StatusDelete {
			// Explicit delete. A marker for a key that exists nowhere is a
			// no-op: the row is neither created nor deleted.
			if matched {
				res.Parts.Deletes = append(res.Parts.Deletes, *prev)
				deleted[key] = struct{}{}
			}
			continue
		}

		if !matched {
			add := partFromRow(row, status)
			add.ID = nextID
			nextID++
			ids[key] = add.ID
			res.Parts.Adds = append(res.Parts.Adds, add)
			continue
		}

		after := partFromRow(row, status)
		after.ID = prev.ID
		after.CreatedAt = prev.CreatedAt

		fields := comparePart(prev, &after)
		if len(fields) == 0 {
			res.Parts.Unchanged = append(res.Parts.Unchanged, *prev)
			continue
		}
		res.Parts.Updates = append(res.Parts.Updates, PartUpdate{
			Before: *prev,
			After:  after,
			Fields: fields,
		})
	}

	// Everything the file never mentioned stays untouched.
	for i := range state.Parts {
		if _, inFile := seen[state.Parts[i].ACRSku]; !inFile {
			res.Parts.Unchanged = append(res.Parts.Unchanged, state.Parts[i])
		}
	}

	return ids, deleted
}

// partFromRow builds the desired post-image of a part from its uploaded row.
func partFromRow(row models.PartRow, status models.WorkflowStatus) models.Part {
	return models.Part{
		ACRSku:         row.Key(),
		PartType:       models.Normalize(row.PartType),
		PositionType:   models.Optional(row.PositionType),
		ABSType:        models.Optional(row.ABSType),
		BoltPattern:    models.Optional(row.BoltPattern),
		DriveType:      models.Optional(row.DriveType),
		Specifications: models.Optional(row.Specifications),
		ImageURL:       models.Optional(row.ImageURL),
		WorkflowStatus: status,
	}
}

// comparePart returns the normalized field-by-field change list between a
// stored part and its desired post-image.
func comparePart(before, after *models.Part) []FieldChange {
	var fields []FieldChange

	add := func(name, from, to string) {
		if from != to {
			fields = append(fields, FieldChange{Field: name, From: from, To: to})
		}
	}

	add("part_type", models.Normalize(before.PartType), after.PartType)
	add("position_type", models.NormalizeOptional(before.PositionType), models.NormalizeOptional(after.PositionType))
	add("abs_type", models.NormalizeOptional(before.ABSType), models.NormalizeOptional(after.ABSType))
	add("bolt_pattern", models.NormalizeOptional(before.BoltPattern), models.NormalizeOptional(after.BoltPattern))
	add("drive_type", models.NormalizeOptional(before.DriveType), models.NormalizeOptional(after.DriveType))
	add("specifications", models.NormalizeOptional(before.Specifications), models.NormalizeOptional(after.Specifications))
	add("image_url", models.NormalizeOptional(before.ImageURL), models.NormalizeOptional(after.ImageURL))
	add("workflow_status", string(before.WorkflowStatus), string(after.WorkflowStatus))

	return fields
}

// diffCrossReferences extracts the embedded brand-column relationship for
// every part row that already has a committed surrogate id. Rows for parts
// added in this same upload are skipped: the relationship needs a real
// foreign key, so their cross-references materialize on the next cycle.
func diffCrossReferences(file *models.ParsedExcelFile, state *models.StoreState, deleted map[string]struct{}, res *Result) {
	existingParts := state.PartIndex()
	existingRefs := state.CrossReferenceIndex()

	for _, row := range file.Parts.Rows {
		key := row.Key()
		if key == "" {
			continue
		}
		if _, gone := deleted[key]; gone {
			continue
		}
		prev, matched := existingParts[key]
		if !matched {
			continue
		}

		for _, brand := range sortedBrands(row.Brands) {
			cell := models.ParseBrandCell(row.Brands[brand])
			if cell.Empty() {
				continue
			}

			// Delete markers win over a plain listing of the same SKU.
			marked := make(map[string]struct{}, len(cell.Deletes))
			for _, sku := range cell.Deletes {
				marked[sku] = struct{}{}
				if ref, present := existingRefs[models.CrossReferenceKey(prev.ID, brand, sku)]; present {
					res.CrossReferences.Deletes = append(res.CrossReferences.Deletes, *ref)
				}
			}

			added := make(map[string]struct{}, len(cell.Adds))
			for _, sku := range cell.Adds {
				if _, isMarked := marked[sku]; isMarked {
					continue
				}
				if _, dup := added[sku]; dup {
					continue
				}
				added[sku] = struct{}{}

				if _, present := existingRefs[models.CrossReferenceKey(prev.ID, brand, sku)]; present {
					continue
				}
				res.CrossReferences.Adds = append(res.CrossReferences.Adds, models.CrossReference{
					PartID:        prev.ID,
					Brand:         brand,
					CompetitorSku: sku,
				})
			}
		}
	}
}

func diffApplications(file *models.ParsedExcelFile, state *models.StoreState, ids map[string]uint, deletedParts map[string]struct{}, res *Result) {
	existing := state.ApplicationIndex()
	seen := make(map[string]struct{}, len(file.VehicleApplications.Rows))

	for _, row := range file.VehicleApplications.Rows {
		sku := models.Normalize(row.ACRSku)
		if sku == "" || row.StartYearText() == "" {
			continue
		}

		key := row.Key()
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		prev, matched := existing[key]

		if row.Delete {
			// Cannot delete what does not exist.
			if matched {
				res.Applications.Deletes = append(res.Applications.Deletes, *prev)
			}
			continue
		}

		endYear := utils.ToInt(row.EndYear)

		if !matched {
			partID, resolvable := ids[sku]
			if _, gone := deletedParts[sku]; gone || !resolvable {
				continue
			}
			res.Applications.Adds = append(res.Applications.Adds, models.VehicleApplication{
				PartID:    partID,
				ACRSku:    sku,
				Make:      models.Normalize(row.Make),
				Model:     models.Normalize(row.Model),
				StartYear: utils.ToInt(row.StartYear),
				EndYear:   endYear,
			})
			continue
		}

		if prev.EndYear == endYear {
			res.Applications.Unchanged = append(res.Applications.Unchanged, *prev)
			continue
		}

		after := *prev
		after.EndYear = endYear
		res.Applications.Updates = append(res.Applications.Updates, ApplicationUpdate{
			Before: *prev,
			After:  after,
			Fields: []FieldChange{{
				Field: "end_year",
				From:  strconv.Itoa(prev.EndYear),
				To:    strconv.Itoa(endYear),
			}},
		})
	}

	for i := range state.VehicleApplications {
		if _, inFile := seen[state.VehicleApplications[i].Key()]; !inFile {
			res.Applications.Unchanged = append(res.Applications.Unchanged, state.VehicleApplications[i])
		}
	}
}

func diffAliases(file *models.ParsedExcelFile, state *models.StoreState, res *Result) {
	// An absent alias sheet means no alias changes: everything stays.
	if file.Aliases == nil {
		res.Aliases.Unchanged = append(res.Aliases.Unchanged, state.Aliases...)
		return
	}

	existing := state.AliasIndex()
	seen := make(map[string]struct{}, len(file.Aliases.Rows))

	for _, row := range file.Aliases.Rows {
		alias := models.Normalize(row.Alias)
		canonical := models.Normalize(row.CanonicalName)
		if alias == "" || canonical == "" {
			continue
		}

		key := row.Key()
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		prev, matched := existing[key]

		if row.Delete {
			if matched {
				res.Aliases.Deletes = append(res.Aliases.Deletes, *prev)
			}
			continue
		}

		if !matched {
			res.Aliases.Adds = append(res.Aliases.Adds, models.Alias{
				Alias:         alias,
				CanonicalName: canonical,
				AliasType:     models.Optional(row.AliasType),
			})
			continue
		}

		from := models.NormalizeOptional(prev.AliasType)
		to := models.Normalize(row.AliasType)
		if from == to {
			res.Aliases.Unchanged = append(res.Aliases.Unchanged, *prev)
			continue
		}

		after := *prev
		after.AliasType = models.Optional(row.AliasType)
		res.Aliases.Updates = append(res.Aliases.Updates, AliasUpdate{
			Before: *prev,
			After:  after,
			Fields: []FieldChange{{Field: "alias_type", From: from, To: to}},
		})
	}

	for i := range state.Aliases {
		if _, inFile := seen[state.Aliases[i].Key()]; !inFile {
			res.Aliases.Unchanged = append(res.Aliases.Unchanged, state.Aliases[i])
		}
	}
}

func summarize(res *Result) Summary {
	s := Summary{
		Parts: Counts{
			Adds:      len(res.Parts.Adds),
			Updates:   len(res.Parts.Updates),
			Deletes:   len(res.Parts.Deletes),
			Unchanged: len(res.Parts.Unchanged),
		},
		Applications: Counts{
			Adds:      len(res.Applications.Adds),
			Updates:   len(res.Applications.Updates),
			Deletes:   len(res.Applications.Deletes),
			Unchanged: len(res.Applications.Unchanged),
		},
		Aliases: Counts{
			Adds:      len(res.Aliases.Adds),
			Updates:   len(res.Aliases.Updates),
			Deletes:   len(res.Aliases.Deletes),
			Unchanged: len(res.Aliases.Unchanged),
		},
		CrossReferences: Counts{
			Adds:    len(res.CrossReferences.Adds),
			Deletes: len(res.CrossReferences.Deletes),
		},
	}
	s.Total = s.Parts.changes() + s.Applications.changes() + s.Aliases.changes() + s.CrossReferences.changes()
	return s
}

// sortedBrands returns the brand column names in stable order so diff
// output is deterministic.
func sortedBrands(brands map[string]string) []string {
	names := make([]string, 0, len(brands))
	for name := range brands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

package models

import "strings"

// Brand cell format contract. These literals are part of the public file
// format and must never change silently.
const (
	// BrandDelimiter separates competitor SKUs within one brand cell.
	BrandDelimiter = ";"
	// DeleteMarker prefixes a SKU entry that must be explicitly removed.
	DeleteMarker = "[DELETE]"
)

// BrandCell is the typed result of tokenizing one brand column cell.
type BrandCell struct {
	// Adds are the SKUs listed for the brand that should be present.
	Adds []string
	// Deletes are the SKUs explicitly marked for removal.
	Deletes []string
	// Legacy reports that the cell used the whitespace-delimited legacy
	// format instead of semicolons. It is auto-normalized but surfaced as a
	// warning so the operator knows the file is stale.
	Legacy bool
}

// Empty reports whether the cell carries no SKUs at all.
func (c BrandCell) Empty() bool {
	return len(c.Adds) == 0 && len(c.Deletes) == 0
}

// ParseBrandCell tokenizes a raw brand column value. Cells split on
// semicolons when any are present, falling back to whitespace splitting for
// legacy files. Tokens prefixed with the delete marker name SKUs to remove;
// an empty SKU after stripping the marker is ignored.
func ParseBrandCell(raw string) BrandCell {
	var cell BrandCell

	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return cell
	}

	var tokens []string
	if strings.Contains(trimmed, BrandDelimiter) {
		tokens = strings.Split(trimmed, BrandDelimiter)
	} else {
		tokens = strings.Fields(trimmed)
		cell.Legacy = len(tokens) > 1
	}

	for _, tok := range tokens {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}

		if strings.HasPrefix(tok, DeleteMarker) {
			sku := strings.TrimSpace(strings.TrimPrefix(tok, DeleteMarker))
			if sku == "" {
				continue
			}
			cell.Deletes = append(cell.Deletes, sku)
			continue
		}

		cell.Adds = append(cell.Adds, tok)
	}

	return cell
}

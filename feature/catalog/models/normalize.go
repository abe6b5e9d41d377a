package models

import (
	"fmt"
	"strings"
)

// Normalize applies the null/empty equivalence rule used throughout the
// reconciliation core: nil, absent and empty-string are the same value for
// optional fields, and keys are compared case-sensitive but trimmed.
func Normalize(s string) string {
	return strings.TrimSpace(s)
}

// NormalizeOptional flattens an optional stored value to its normalized
// string form. nil becomes the empty string.
func NormalizeOptional(p *string) string {
	if p == nil {
		return ""
	}
	return Normalize(*p)
}

// Optional lifts a normalized string into an optional stored value. Empty
// becomes nil so representation differences between the spreadsheet and the
// store cannot produce phantom changes.
func Optional(s string) *string {
	s = Normalize(s)
	if s == "" {
		return nil
	}
	return &s
}

// Composite key separator. Business key components are trimmed before
// joining, so the separator choice only has to avoid ambiguity, not appear
// in real data.
const keySep = "\x1f"

// ApplicationKey builds the composite business key of a vehicle application.
func ApplicationKey(sku, make_, model string, startYear int) string {
	return strings.Join([]string{Normalize(sku), Normalize(make_), Normalize(model), fmt.Sprintf("%d", startYear)}, keySep)
}

// AliasKey builds the composite business key of an alias.
func AliasKey(alias, canonical string) string {
	return Normalize(alias) + keySep + Normalize(canonical)
}

// CrossReferenceKey builds the identity key of a derived cross-reference.
func CrossReferenceKey(partID uint, brand, sku string) string {
	return fmt.Sprintf("%d%s%s%s%s", partID, keySep, Normalize(brand), keySep, Normalize(sku))
}

// Package models contains the data contracts of the catalog feature.
//
// It defines the persisted entities (Part, VehicleApplication,
// CrossReference, Alias, ImportSnapshot), the ParsedExcelFile bundle produced
// by the external spreadsheet reader, the workflow status enum, and the
// brand-cell tokenizer. The package holds no business logic beyond parsing
// and normalization; the validation and diff engines consume these types.
package models

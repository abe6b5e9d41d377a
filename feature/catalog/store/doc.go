// Package store provides the bulk-CRUD persistence layer of the catalog.
//
// The Store interface is the explicit dependency of the import and rollback
// services: Gorm backs it with MySQL in production, Memory backs it in
// tests. Both enforce the business-key uniqueness constraints, so the
// constraint-propagation behavior of an import can be tested without a
// database.
package store

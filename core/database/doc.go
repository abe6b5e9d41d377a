// Package database provides the MySQL connection used by the catalog store.
//
// The connection is established via GORM with conservative pool settings and
// explicit connect/read/write timeouts baked into the DSN. Schema migration
// for the catalog tables lives with the store package, not here.
package database

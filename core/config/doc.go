// Package config loads application configuration from the environment.
//
// Configuration is assembled from component Config structs (server, database,
// storage, log, catalog) whose defaults are declared as struct tags and bound
// into Viper via reflection. Environment variables override defaults using
// underscore-joined keys, e.g. DATABASE_HOST or CATALOG_SKU_PREFIX. A .env
// file in the working directory is loaded first if present.
package config

package catalog

// Config holds configuration for the catalog reconciliation feature.
type Config struct {
	// SKUPrefix is the organization's part-number prefix; every uploaded
	// business key must start with it.
	SKUPrefix string `mapstructure:"sku_prefix" default:"ACR"`
	// ArchiveEnabled turns on archiving of upload bundles to object storage.
	ArchiveEnabled bool `mapstructure:"archive_enabled" default:"true"`
	// ArchivePrefix is the object key prefix for archived bundles.
	ArchivePrefix string `mapstructure:"archive_prefix" default:"imports"`
}

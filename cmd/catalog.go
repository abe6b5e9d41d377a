package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"catalog-manager/core/config"
	"catalog-manager/core/database"
	"catalog-manager/core/logger"
	"catalog-manager/core/storage"
	"catalog-manager/feature/catalog"
	"catalog-manager/feature/catalog/diff"
	"catalog-manager/feature/catalog/importer"
	"catalog-manager/feature/catalog/models"
	"catalog-manager/feature/catalog/store"
	"catalog-manager/feature/catalog/validate"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var bundlePath string

// catalogCmd is the parent command for all catalog operations.
var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Reconcile spreadsheet upload bundles against the live catalog",
	Long: `Reconcile parsed spreadsheet bundles against the catalog database.
Supports validation, change-set preview, atomic import, and rollback.`,
}

func init() {
	catalogCmd.PersistentFlags().StringVarP(&bundlePath, "file", "f", "", "Path to a parsed upload bundle (JSON)")
	RootCmd.AddCommand(catalogCmd)
}

// bootstrap loads configuration and wires the catalog service the same way
// the server does, minus the HTTP surface.
func bootstrap() (*catalog.Service, *zap.Logger, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := store.Migrate(db); err != nil {
		return nil, nil, fmt.Errorf("failed to migrate database schema: %w", err)
	}

	var archive storage.Client
	if cfg.Catalog.ArchiveEnabled {
		client, err := storage.NewClient(cfg.Storage)
		if err != nil {
			l.Warn("Archive storage unavailable, bundles will not be retained", zap.Error(err))
		} else {
			archive = client
		}
	}

	imp := importer.NewService(store.NewGorm(db), archive, importer.Config{
		ArchiveEnabled: cfg.Catalog.ArchiveEnabled && archive != nil,
		Bucket:         cfg.Storage.Bucket,
		Prefix:         cfg.Catalog.ArchivePrefix,
	}, l)

	return catalog.NewService(store.NewGorm(db), imp, cfg.Catalog, l), l, nil
}

// readBundle loads a parsed upload bundle from disk.
func readBundle(path string) (*models.ParsedExcelFile, error) {
	if path == "" {
		return nil, fmt.Errorf("missing required flag: --file")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read bundle: %w", err)
	}

	var file models.ParsedExcelFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("malformed upload bundle: %w", err)
	}
	if file.FileName == "" {
		file.FileName = path
	}
	if file.FileSize == 0 {
		file.FileSize = int64(len(data))
	}
	return &file, nil
}

// printValidation logs the validation result with a sample of the issues.
func printValidation(l *zap.Logger, res *validate.Result) {
	l.Info("Validation report",
		zap.Bool("valid", res.Valid),
		zap.Int("errors", len(res.Errors)),
		zap.Int("warnings", len(res.Warnings)),
	)

	printIssues(l, "Validation error", res.Errors)
	printIssues(l, "Validation warning", res.Warnings)
}

// printIssues logs up to maxShow issues of one severity.
func printIssues(l *zap.Logger, label string, issues []validate.Issue) {
	maxShow := 10
	if len(issues) < maxShow {
		maxShow = len(issues)
	}
	for i := 0; i < maxShow; i++ {
		issue := issues[i]
		l.Info(label,
			zap.String("code", string(issue.Code)),
			zap.String("sheet", issue.Sheet),
			zap.Int("row", issue.Row),
			zap.String("column", issue.Column),
			zap.String("message", issue.Message),
		)
	}
	if len(issues) > maxShow {
		l.Info("Additional issues not shown", zap.Int("count", len(issues)-maxShow))
	}
}

// printSummary logs the per-entity change counts of a diff.
func printSummary(l *zap.Logger, s *diff.Summary) {
	l.Info("Change-set summary",
		zap.Int("part_adds", s.Parts.Adds),
		zap.Int("part_updates", s.Parts.Updates),
		zap.Int("part_deletes", s.Parts.Deletes),
		zap.Int("application_adds", s.Applications.Adds),
		zap.Int("application_updates", s.Applications.Updates),
		zap.Int("application_deletes", s.Applications.Deletes),
		zap.Int("cross_reference_adds", s.CrossReferences.Adds),
		zap.Int("cross_reference_deletes", s.CrossReferences.Deletes),
		zap.Int("alias_adds", s.Aliases.Adds),
		zap.Int("alias_updates", s.Aliases.Updates),
		zap.Int("alias_deletes", s.Aliases.Deletes),
		zap.Int("total_changes", s.Total),
	)
}

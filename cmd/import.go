package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	importUploader string
	importYes      bool
)

// importCmd commits an upload bundle to the catalog.
var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Commit an upload bundle to the catalog",
	Long: `Validate, diff and atomically commit a parsed upload bundle.

A pre-import snapshot is persisted before any mutation, so a committed
import can be undone once with 'catalog rollback <import-id>'.

Examples:
  # Commit with interactive confirmation
  catalog-manager catalog import -f bundle.json --uploader ops@acr

  # Commit non-interactively
  catalog-manager catalog import -f bundle.json --uploader ops@acr --yes`,
	RunE: runImport,
}

func init() {
	importCmd.Flags().StringVar(&importUploader, "uploader", "", "Identity recorded on the import snapshot")
	importCmd.Flags().BoolVar(&importYes, "yes", false, "Auto-confirm the commit (non-interactive)")
	catalogCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	svc, l, err := bootstrap()
	if err != nil {
		return err
	}

	file, err := readBundle(bundlePath)
	if err != nil {
		return err
	}

	// Preview first so the operator confirms a concrete change-set, not a
	// guess. Both engines are pure, so running them twice is safe.
	preview, err := svc.Preview(context.Background(), file)
	if err != nil {
		return fmt.Errorf("preview failed: %w", err)
	}

	printValidation(l, preview.Validation)
	if preview.Diff == nil {
		return fmt.Errorf("bundle has %d blocking error(s), nothing committed", len(preview.Validation.Errors))
	}

	printSummary(l, &preview.Diff.Summary)
	if preview.Diff.Summary.Empty() {
		l.Info("No changes, nothing to commit")
		return nil
	}

	if !confirmImport() {
		l.Warn("Import cancelled by operator. No changes were made.")
		return nil
	}

	outcome, err := svc.Import(context.Background(), file, importUploader)
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}
	if !outcome.Committed {
		// The catalog changed between preview and commit.
		l.Warn("Import did not commit", zap.Int("errors", len(outcome.Validation.Errors)))
		return nil
	}

	l.Info("Import committed",
		zap.String("import_id", outcome.ImportID),
		zap.Int("total_changes", outcome.Summary.Total),
	)
	return nil
}

// confirmImport prompts the operator for confirmation or uses --yes.
func confirmImport() bool {
	if importYes {
		fmt.Println("\n✓ Auto-confirmed via --yes flag")
		return true
	}

	fmt.Print("\n⚠️  Type 'yes' to commit these changes: ")
	reader := bufio.NewReader(os.Stdin)
	response, err := reader.ReadString('\n')
	if err != nil {
		return false
	}

	return strings.TrimSpace(response) == "yes"
}

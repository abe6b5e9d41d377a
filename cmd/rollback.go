package cmd

import (
	"context"
	"errors"
	"fmt"

	"catalog-manager/feature/catalog/store"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// rollbackCmd restores the catalog to its state before a committed import.
var rollbackCmd = &cobra.Command{
	Use:   "rollback <import-id>",
	Short: "Undo a committed import",
	Long: `Restore the catalog to exactly its state before the named import.

The snapshot is consumed on success, so each import can be rolled back
at most once. Imports committed after the target are overwritten by the
restore; roll back newest-first if several must be undone.

Examples:
  catalog-manager catalog rollback 6b3f1c1e-8f1a-4a5e-9f0d-2c7e8b3a41d9`,
	Args: cobra.ExactArgs(1),
	RunE: runRollback,
}

func init() {
	catalogCmd.AddCommand(rollbackCmd)
}

func runRollback(cmd *cobra.Command, args []string) error {
	svc, l, err := bootstrap()
	if err != nil {
		return err
	}

	res, err := svc.Rollback(context.Background(), args[0])
	if err != nil {
		if errors.Is(err, store.ErrSnapshotNotFound) {
			return fmt.Errorf("no snapshot for import %s (unknown id, or already rolled back)", args[0])
		}
		return fmt.Errorf("rollback failed: %w", err)
	}

	l.Info("Rollback complete",
		zap.String("import_id", res.ImportID),
		zap.Int("parts", res.Restored["parts"]),
		zap.Int("vehicle_applications", res.Restored["vehicle_applications"]),
		zap.Int("cross_references", res.Restored["cross_references"]),
		zap.Int("aliases", res.Restored["aliases"]),
	)
	return nil
}

package cmd

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// importsCmd lists the snapshots still available for rollback.
var importsCmd = &cobra.Command{
	Use:   "imports",
	Short: "List imports that can still be rolled back",
	RunE:  runImports,
}

func init() {
	catalogCmd.AddCommand(importsCmd)
}

func runImports(cmd *cobra.Command, args []string) error {
	svc, l, err := bootstrap()
	if err != nil {
		return err
	}

	snaps, err := svc.ListImports(context.Background())
	if err != nil {
		return err
	}

	if len(snaps) == 0 {
		l.Info("No imports available for rollback")
		return nil
	}

	for _, snap := range snaps {
		l.Info("Import",
			zap.String("import_id", snap.ID),
			zap.String("file", snap.FileName),
			zap.String("uploaded_by", snap.UploadedBy),
			zap.Int("rows", snap.RowCount),
			zap.Time("created_at", snap.CreatedAt),
		)
	}
	return nil
}

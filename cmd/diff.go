package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// diffCmd previews the change-set an upload bundle would produce.
var diffCmd = &cobra.Command{
	Use:   "diff",
	Short: "Preview the change-set for an upload bundle",
	Long: `Validate and diff a parsed upload bundle against the current
catalog state. Shows the adds, updates and deletes an import would commit.
The catalog is never mutated.

Examples:
  catalog-manager catalog diff -f bundle.json`,
	RunE: runDiff,
}

func init() {
	catalogCmd.AddCommand(diffCmd)
}

func runDiff(cmd *cobra.Command, args []string) error {
	svc, l, err := bootstrap()
	if err != nil {
		return err
	}

	file, err := readBundle(bundlePath)
	if err != nil {
		return err
	}

	preview, err := svc.Preview(context.Background(), file)
	if err != nil {
		return fmt.Errorf("preview failed: %w", err)
	}

	printValidation(l, preview.Validation)
	if preview.Diff == nil {
		return fmt.Errorf("bundle has %d blocking error(s), no diff computed", len(preview.Validation.Errors))
	}

	printSummary(l, &preview.Diff.Summary)
	if preview.Diff.Summary.Empty() {
		l.Info("No changes, catalog already matches the bundle")
	}

	// Sample of part-level changes for a quick eyeball check.
	maxShow := 5
	for i, p := range preview.Diff.Parts.Adds {
		if i >= maxShow {
			break
		}
		l.Info("Sample add", zap.String("acr_sku", p.ACRSku), zap.String("part_type", p.PartType))
	}
	for i, u := range preview.Diff.Parts.Updates {
		if i >= maxShow {
			break
		}
		fields := make([]string, 0, len(u.Fields))
		for _, f := range u.Fields {
			fields = append(fields, f.Field)
		}
		l.Info("Sample update", zap.String("acr_sku", u.After.ACRSku), zap.Strings("fields", fields))
	}
	for i, p := range preview.Diff.Parts.Deletes {
		if i >= maxShow {
			break
		}
		l.Info("Sample delete", zap.String("acr_sku", p.ACRSku))
	}
	return nil
}

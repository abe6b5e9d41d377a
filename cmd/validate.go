package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// validateCmd checks an upload bundle without touching the catalog.
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate an upload bundle against the live catalog",
	Long: `Validate a parsed upload bundle against the current catalog state.

Reports blocking errors and advisory warnings with sheet/row/column
locations. The catalog is never mutated.

Examples:
  catalog-manager catalog validate -f bundle.json`,
	RunE: runValidate,
}

func init() {
	catalogCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	svc, l, err := bootstrap()
	if err != nil {
		return err
	}

	file, err := readBundle(bundlePath)
	if err != nil {
		return err
	}

	res, err := svc.Validate(context.Background(), file)
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	printValidation(l, res)
	if !res.Valid {
		return fmt.Errorf("bundle has %d blocking error(s)", len(res.Errors))
	}
	return nil
}

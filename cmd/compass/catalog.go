package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"complyhq/compass/pkg/catalog"
)

var catalogValidateFlags struct {
	file string
}

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Catalog maintenance commands",
}

var catalogValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate an obligation catalog file",
	Long: `Validate an obligation catalog file and report every issue found.

Errors (duplicate ids, missing required fields, malformed jurisdictions)
exit non-zero; warnings (unknown operators, inverted effective windows)
are printed but do not fail validation.

Example:
  compass catalog validate --file catalog.json`,
	RunE: runCatalogValidate,
}

func init() {
	rootCmd.AddCommand(catalogCmd)
	catalogCmd.AddCommand(catalogValidateCmd)

	catalogValidateCmd.Flags().StringVarP(&catalogValidateFlags.file, "file", "f", "", "catalog JSON file (required)")
	_ = catalogValidateCmd.MarkFlagRequired("file")
}

func runCatalogValidate(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(catalogValidateFlags.file)
	if err != nil {
		return fmt.Errorf("failed to read catalog: %w", err)
	}

	var obligations []catalog.Obligation
	if err := json.Unmarshal(data, &obligations); err != nil {
		return fmt.Errorf("failed to parse catalog: %w", err)
	}

	issues := catalog.Validate(obligations)
	errorCount := 0
	for _, issue := range issues {
		if !issue.Warning {
			errorCount++
		}
		fmt.Println(issue)
	}

	if errorCount > 0 {
		return fmt.Errorf("catalog has %d error(s)", errorCount)
	}

	fmt.Printf("Catalog valid: %d obligations, %d warning(s)\n", len(obligations), len(issues)-errorCount)
	return nil
}

package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"complyhq/compass/pkg/catalog/source"
	"complyhq/compass/pkg/profile"
	"complyhq/compass/pkg/rules/engine"
	"complyhq/compass/pkg/telemetry/logging"
)

var evaluateFlags struct {
	profilePath string
	catalogPath string
	output      string
	pretty      bool
}

var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Evaluate a business profile against a catalog",
	Long: `Evaluate a business profile against an obligation catalog and print the
full evaluation result as JSON. No server or data directory is involved;
nothing is persisted.

Examples:
  # Evaluate and print to stdout
  compass evaluate --profile profile.json --catalog catalog.json

  # Pretty-print and write to a file
  compass evaluate --profile profile.json --catalog catalog.json --pretty -o result.json`,
	RunE: runEvaluate,
}

func init() {
	rootCmd.AddCommand(evaluateCmd)

	evaluateCmd.Flags().StringVar(&evaluateFlags.profilePath, "profile", "", "business profile JSON file (required)")
	evaluateCmd.Flags().StringVar(&evaluateFlags.catalogPath, "catalog", "", "obligation catalog JSON file (required)")
	evaluateCmd.Flags().StringVarP(&evaluateFlags.output, "output", "o", "", "write result to file instead of stdout")
	evaluateCmd.Flags().BoolVar(&evaluateFlags.pretty, "pretty", false, "indent the JSON output")
	_ = evaluateCmd.MarkFlagRequired("profile")
	_ = evaluateCmd.MarkFlagRequired("catalog")
}

func runEvaluate(cmd *cobra.Command, args []string) error {
	level := "warn"
	if verbose {
		level = "debug"
	}
	if _, err := logging.Setup(logging.Config{Level: level, Format: "text", Writer: os.Stderr}); err != nil {
		return err
	}

	data, err := os.ReadFile(evaluateFlags.profilePath)
	if err != nil {
		return fmt.Errorf("failed to read profile: %w", err)
	}

	var req struct {
		Name          string             `json:"name"`
		Location      profile.Location   `json:"location"`
		Industry      profile.Industry   `json:"industry"`
		EmployeeCount int                `json:"employeeCount"`
		EntityType    profile.EntityType `json:"entityType"`
		Activities    profile.Activities `json:"activities"`
	}
	if err := json.Unmarshal(data, &req); err != nil {
		return fmt.Errorf("failed to parse profile: %w", err)
	}

	business := profile.New(req.Name, req.Location, req.Industry, req.EmployeeCount, req.EntityType, req.Activities)
	if err := business.Validate(); err != nil {
		return fmt.Errorf("invalid profile: %w", err)
	}

	cat, err := source.NewFileSource(evaluateFlags.catalogPath, nil).Load(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}

	result := engine.New(nil).Evaluate(business, cat)

	var out []byte
	if evaluateFlags.pretty {
		out, err = json.MarshalIndent(result, "", "  ")
	} else {
		out, err = json.Marshal(result)
	}
	if err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}

	if evaluateFlags.output != "" {
		return os.WriteFile(evaluateFlags.output, append(out, '\n'), 0o644)
	}

	fmt.Println(string(out))
	return nil
}

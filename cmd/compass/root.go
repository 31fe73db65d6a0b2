package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "compass",
	Short: "Compass - small business compliance checklist engine",
	Long: `Compass evaluates a business profile against a catalog of regulatory
obligations and produces an explainable compliance checklist.

It provides:
  - A predicate rules engine over intake facts (no free-form logic)
  - Full explanations: every trigger's expected vs actual value
  - An HTTP API for intake, catalog administration, and export
  - PDF, JSON, and CSV checklist export`,
	Version: Version,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "config.yaml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

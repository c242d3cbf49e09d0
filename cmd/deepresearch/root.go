// Package main provides the entry point for the deepresearch CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for deepresearch.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deepresearch",
		Short: "Iterative web research driven by an LLM",
		Long: `deepresearch runs multi-round research: each round searches the web,
feeds the results to an LLM for analysis, and extracts a follow-up
search query from the model's output to drive the next round.
The per-round analyses are joined into a single final report.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringP("config", "c", "", "Configuration file path (YAML, overlays environment)")

	cmd.AddCommand(NewResearchCmd())
	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

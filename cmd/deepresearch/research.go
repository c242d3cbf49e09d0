package main

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kitbuilder587/deepresearch-bot/internal/config"
	"github.com/kitbuilder587/deepresearch-bot/internal/domain"
	"github.com/kitbuilder587/deepresearch-bot/internal/report"
	"github.com/kitbuilder587/deepresearch-bot/internal/research"
)

// NewResearchCmd creates the research command.
func NewResearchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "research [question]",
		Short: "Run a multi-round research session from the terminal",
		Long: `Research runs the full search/analyze loop for a question and
prints the final report. Progress is printed per round, and the
report is also written to a timestamped markdown file.

Examples:
  # Research with the default depth
  deepresearch research "quantum computing advances"

  # Explicit depth (clamped to 2..10)
  deepresearch research --depth 5 "quantum computing advances"`,
		Args: cobra.MinimumNArgs(1),
		RunE: runResearchCmd,
	}

	cmd.Flags().IntP("depth", "d", 0, "Number of research rounds (2-10, 0 = config default)")
	cmd.Flags().StringP("output", "o", "", "Directory for the report file (default from config)")

	return cmd
}

func runResearchCmd(cmd *cobra.Command, args []string) error {
	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return err
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	depth, err := cmd.Flags().GetInt("depth")
	if err != nil {
		return err
	}
	if depth == 0 {
		depth = cfg.Research.DefaultDepth
	}

	outputDir, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}
	if outputDir == "" {
		outputDir = cfg.Report.Dir
	}

	logger, err := config.NewLogger(cfg.Log)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer logger.Sync()

	question := strings.TrimSpace(strings.Join(args, " "))
	req := domain.ResearchRequest{Query: question, Depth: depth}
	if err := req.Validate(); err != nil {
		return err
	}
	req.Sanitize()

	pipeline, err := buildPipeline(cfg, logger, nil)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	onProgress := func(ev research.ProgressEvent) {
		fmt.Fprintf(cmd.OutOrStdout(), "[%s] %s\n", ev.Stage, ev.Message)
	}

	rep := pipeline.Run(ctx, req.Query, req.Query, req.Depth, onProgress)
	if rep.Failed() {
		return errors.New("research failed: " + rep.Error)
	}

	fmt.Fprintln(cmd.OutOrStdout())
	fmt.Fprintln(cmd.OutOrStdout(), rep.Analysis)

	path, err := report.Write(outputDir, req.Query, rep)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "\nReport written to %s\n", path)

	return nil
}

package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/harrison/modeldiff/internal/config"
	"github.com/harrison/modeldiff/internal/display"
	"github.com/harrison/modeldiff/internal/engine"
	"github.com/harrison/modeldiff/internal/history"
	"github.com/harrison/modeldiff/internal/logger"
	"github.com/harrison/modeldiff/internal/report"
	"github.com/harrison/modeldiff/internal/section"
)

// NewCompareCommand creates and returns the compare subcommand
func NewCompareCommand() *cobra.Command {
	var (
		versionA   string
		versionB   string
		policyName string
		formatName string
		outputPath string
		noHistory  bool
		failOnDiff bool
	)

	cmd := &cobra.Command{
		Use:   "compare <model-a.xml> <model-b.xml>",
		Short: "Compare two model revisions",
		Long: `Compare two structural model documents and report the differences,
separating real engineering changes from schema-version artifacts.

Schema versions are read from the documents; use --version-a/--version-b
to override what a document declares.

Examples:
  # Console report
  modeldiff compare rev1.xml rev2.xml

  # Export a Markdown report weighted by the S4 policy
  modeldiff compare rev1.xml rev2.xml --policy S4 --format markdown --output report.md

Exit code: 0 on success; 1 with --fail-on-diff if real differences exist`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompare(cmd, args[0], args[1], compareOptions{
				versionA:   versionA,
				versionB:   versionB,
				policyName: policyName,
				formatName: formatName,
				outputPath: outputPath,
				noHistory:  noHistory,
				failOnDiff: failOnDiff,
			})
		},
		SilenceUsage: true,
	}

	cmd.Flags().StringVar(&versionA, "version-a", "", "Override schema version of model A")
	cmd.Flags().StringVar(&versionB, "version-b", "", "Override schema version of model B")
	cmd.Flags().StringVar(&policyName, "policy", "", "Importance policy for summary weighting")
	cmd.Flags().StringVar(&formatName, "format", "text", "Report format (text, json, markdown, html)")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Write the report to a file instead of stdout")
	cmd.Flags().BoolVar(&noHistory, "no-history", false, "Do not record this run in the history database")
	cmd.Flags().BoolVar(&failOnDiff, "fail-on-diff", false, "Exit non-zero when real differences are found")

	return cmd
}

type compareOptions struct {
	versionA   string
	versionB   string
	policyName string
	formatName string
	outputPath string
	noHistory  bool
	failOnDiff bool
}

// runCompare executes the compare command
func runCompare(cmd *cobra.Command, pathA, pathB string, opts compareOptions) error {
	cfg, log, err := loadEnvironment(cmd)
	if err != nil {
		return err
	}

	format, err := report.ParseFormat(opts.formatName)
	if err != nil {
		return err
	}
	policy, err := cfg.PolicyByName(opts.policyName)
	if err != nil {
		return err
	}

	reg, err := loadRegistry()
	if err != nil {
		return err
	}
	docA, docB, err := loadModelPair(pathA, pathB)
	if err != nil {
		return err
	}

	result, err := engine.New(reg, log).Compare(docA, docB, engine.Options{
		VersionA:  opts.versionA,
		VersionB:  opts.versionB,
		Tolerance: section.Tolerance{Abs: cfg.Tolerance.Abs, Rel: cfg.Tolerance.Rel},
		Policy:    policy,
	})
	if err != nil {
		return err
	}

	if cfg.History.Enabled && !opts.noHistory {
		if err := recordRun(cfg, log, pathA, pathB, result); err != nil {
			// History is an archive, not part of the verdict. Warn and
			// keep going.
			log.LogWarn(fmt.Sprintf("history not recorded: %v", err))
		}
	}

	if err := emitReport(cmd, result, format, opts.outputPath); err != nil {
		return err
	}

	if opts.failOnDiff && result.Summary.TotalRealDifferences > 0 {
		return fmt.Errorf("%d real differences found", result.Summary.TotalRealDifferences)
	}
	return nil
}

// recordRun archives the run and applies the configured retention.
func recordRun(cfg *config.Config, log logger.Logger, pathA, pathB string, result *engine.RunResult) error {
	store, err := history.NewStore(cfg.History.DBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := context.Background()
	id, err := store.RecordRun(ctx, pathA, pathB, result)
	if err != nil {
		return err
	}
	log.LogDebug(fmt.Sprintf("run recorded as %s", id))

	if _, err := store.Prune(ctx, cfg.History.KeepRuns); err != nil {
		return err
	}
	return nil
}

// emitReport writes the report to the requested destination. Console text
// output gets colors when stdout is a terminal, plus warning blocks on
// stderr.
func emitReport(cmd *cobra.Command, result *engine.RunResult, format report.Format, outputPath string) error {
	if outputPath != "" {
		if err := report.Export(outputPath, result, format); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Report written to %s\n", outputPath)
		return nil
	}

	out := cmd.OutOrStdout()
	if format == report.FormatText {
		useColor := report.ColorEnabled(os.Stdout)
		if useColor && len(result.Warnings) > 0 {
			for _, w := range display.FromRun(result.Warnings) {
				w.Display(os.Stderr)
			}
		}
		return report.RenderText(out, result, useColor)
	}
	return report.Render(out, result, format)
}

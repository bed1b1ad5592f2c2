package cmd

import (
	"fmt"
	"sort"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harrison/modeldiff/internal/engine"
	"github.com/harrison/modeldiff/internal/report"
	"github.com/harrison/modeldiff/internal/section"
)

// NewSectionsCommand creates and returns the sections subcommand
func NewSectionsCommand() *cobra.Command {
	var (
		toleranceAbs float64
		toleranceRel float64
		elementID    string
	)

	cmd := &cobra.Command{
		Use:   "sections <model-a.xml> <model-b.xml>",
		Short: "Check cross-section equivalence between two revisions",
		Long: `Match elements between two model documents and evaluate only their
cross-sections: profile type, dimensions within tolerance, and material.

Use --id to restrict the check to a single element identity.

Tolerance flags override the configured windows for this run:
  --tolerance-abs  absolute window in model units
  --tolerance-rel  relative window as a fraction (0.001 = 0.1%)`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSections(cmd, args[0], args[1], toleranceAbs, toleranceRel, elementID)
		},
		SilenceUsage: true,
	}

	cmd.Flags().Float64Var(&toleranceAbs, "tolerance-abs", -1, "Absolute dimension tolerance override")
	cmd.Flags().Float64Var(&toleranceRel, "tolerance-rel", -1, "Relative dimension tolerance override")
	cmd.Flags().StringVar(&elementID, "id", "", "Only evaluate the element with this identity")

	return cmd
}

// runSections executes the sections command
func runSections(cmd *cobra.Command, pathA, pathB string, tolAbs, tolRel float64, elementID string) error {
	cfg, log, err := loadEnvironment(cmd)
	if err != nil {
		return err
	}

	tol := section.Tolerance{Abs: cfg.Tolerance.Abs, Rel: cfg.Tolerance.Rel}
	if tolAbs >= 0 {
		tol.Abs = tolAbs
	}
	if tolRel >= 0 {
		tol.Rel = tolRel
	}

	reg, err := loadRegistry()
	if err != nil {
		return err
	}
	docA, docB, err := loadModelPair(pathA, pathB)
	if err != nil {
		return err
	}

	result, err := engine.New(reg, log).Compare(docA, docB, engine.Options{Tolerance: tol})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	pass := color.New(color.FgGreen)
	fail := color.New(color.FgRed)
	if !report.ColorEnabled(out) {
		pass.DisableColor()
		fail.DisableColor()
	}

	types := make([]string, 0, len(result.Types))
	for name := range result.Types {
		types = append(types, name)
	}
	sort.Strings(types)

	evaluated, failed := 0, 0
	for _, name := range types {
		for _, pair := range result.Types[name].Pairs {
			if pair.Section == nil {
				continue
			}
			id, _ := pair.Pair.A.Identity()
			if elementID != "" && id != elementID {
				continue
			}
			evaluated++
			if pair.Section.IsEquivalent {
				pass.Fprintf(out, "PASS  %s %s (%.0f%%)\n", name, id, pair.Section.PassRate)
				continue
			}
			failed++
			fail.Fprintf(out, "FAIL  %s %s: %s\n", name, id, pair.Section.Summary)
			for _, c := range pair.Section.FailedChecks() {
				fmt.Fprintf(out, "      %s/%s: %s\n", c.Category, c.Name, c.Details)
			}
		}
	}

	if elementID != "" && evaluated == 0 {
		return fmt.Errorf("no section-bearing matched element with ID %q", elementID)
	}

	fmt.Fprintf(out, "\n%d sections evaluated, %d not equivalent\n", evaluated, failed)
	if failed > 0 {
		return fmt.Errorf("%d sections are not equivalent", failed)
	}
	return nil
}

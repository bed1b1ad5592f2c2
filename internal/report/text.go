package report

import (
	"fmt"
	"io"
	"sort"

	"github.com/fatih/color"

	"github.com/harrison/modeldiff/internal/engine"
	"github.com/harrison/modeldiff/internal/model"
)

// textPalette holds the console styles. Every style is disabled together
// when color is off, so the renderer has a single code path.
type textPalette struct {
	header *color.Color
	good   *color.Color
	bad    *color.Color
	note   *color.Color
}

func newPalette(useColor bool) textPalette {
	p := textPalette{
		header: color.New(color.FgCyan, color.Bold),
		good:   color.New(color.FgGreen),
		bad:    color.New(color.FgRed),
		note:   color.New(color.FgYellow),
	}
	if !useColor {
		p.header.DisableColor()
		p.good.DisableColor()
		p.bad.DisableColor()
		p.note.DisableColor()
	} else {
		p.header.EnableColor()
		p.good.EnableColor()
		p.bad.EnableColor()
		p.note.EnableColor()
	}
	return p
}

// RenderText writes the human-readable report.
func RenderText(w io.Writer, result *engine.RunResult, useColor bool) error {
	p := newPalette(useColor)

	p.header.Fprintf(w, "Model comparison: %s -> %s\n", result.VersionA, result.VersionB)
	fmt.Fprintln(w)

	for _, name := range sortedTypes(result) {
		tc := result.Types[name]
		p.header.Fprintf(w, "%s\n", name)
		fmt.Fprintf(w, "  matched %d, only in A %d, only in B %d\n",
			len(tc.Partition.Matched), len(tc.Partition.OnlyA), len(tc.Partition.OnlyB))

		for _, pair := range tc.Pairs {
			renderPair(w, p, pair)
		}
		renderOneSided(w, p, "only in A", tc.Partition.OnlyA)
		renderOneSided(w, p, "only in B", tc.Partition.OnlyB)
		fmt.Fprintln(w)
	}

	renderTextSummary(w, p, result)
	return nil
}

func renderPair(w io.Writer, p textPalette, pair model.PairComparison) {
	id, _ := pair.Pair.A.Identity()
	cmp := pair.Comparison

	switch {
	case cmp.IsEqual && sectionOK(pair):
		return
	case cmp.IsVersionSpecificOnly && sectionOK(pair):
		p.note.Fprintf(w, "  ~ %s: version-format differences only (%d)\n",
			id, len(cmp.VersionOnlyDifferences))
		return
	}

	p.bad.Fprintf(w, "  ! %s\n", id)
	if pair.Pair.TypeMismatch {
		p.note.Fprintf(w, "    matched across types (%s vs %s)\n",
			pair.Pair.A.Type, pair.Pair.B.Type)
	}
	for _, d := range cmp.Differences {
		fmt.Fprintf(w, "    %s: %s -> %s\n", d.Attribute, valueOrAbsent(d.ValueA, d.PresentA),
			valueOrAbsent(d.ValueB, d.PresentB))
	}
	if len(cmp.VersionOnlyDifferences) > 0 {
		fmt.Fprintf(w, "    (%d version-format differences suppressed)\n",
			len(cmp.VersionOnlyDifferences))
	}
	if pair.Section != nil && !pair.Section.IsEquivalent {
		p.bad.Fprintf(w, "    section: %s\n", pair.Section.Summary)
		for _, c := range pair.Section.FailedChecks() {
			fmt.Fprintf(w, "      %s/%s: %s\n", c.Category, c.Name, c.Details)
		}
	}
}

func renderOneSided(w io.Writer, p textPalette, label string, elems []*model.ElementNode) {
	for _, e := range elems {
		id, _ := e.Identity()
		p.note.Fprintf(w, "  - %s (%s)\n", id, label)
	}
}

func renderTextSummary(w io.Writer, p textPalette, result *engine.RunResult) {
	s := result.Summary
	p.header.Fprintf(w, "Summary\n")
	if s.TotalRealDifferences == 0 && s.TotalOnlyA == 0 && s.TotalOnlyB == 0 {
		p.good.Fprintf(w, "  no real differences\n")
	} else {
		p.bad.Fprintf(w, "  %d real differences\n", s.TotalRealDifferences)
		fmt.Fprintf(w, "  %d elements only in A, %d only in B\n", s.TotalOnlyA, s.TotalOnlyB)
	}
	fmt.Fprintf(w, "  %d version-format differences\n", s.TotalVersionDifferences)
	fmt.Fprintf(w, "  weighted score %.2f (policy %s)\n", s.WeightedScore, s.Policy)

	if len(result.Warnings) > 0 {
		p.note.Fprintf(w, "  %d warnings\n", len(result.Warnings))
	}
}

func sectionOK(pair model.PairComparison) bool {
	return pair.Section == nil || pair.Section.IsEquivalent
}

func valueOrAbsent(v string, present bool) string {
	if !present {
		return "(absent)"
	}
	if v == "" {
		return `""`
	}
	return v
}

func sortedTypes(result *engine.RunResult) []string {
	names := make([]string, 0, len(result.Types))
	for name := range result.Types {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

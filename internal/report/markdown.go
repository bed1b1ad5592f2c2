package report

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/harrison/modeldiff/internal/engine"
)

// RenderMarkdown writes the report as GitHub-flavored Markdown.
func RenderMarkdown(w io.Writer, result *engine.RunResult) error {
	var b strings.Builder

	fmt.Fprintf(&b, "# Model comparison: %s -> %s\n\n", result.VersionA, result.VersionB)

	s := result.Summary
	b.WriteString("## Summary\n\n")
	fmt.Fprintf(&b, "- Real differences: **%d**\n", s.TotalRealDifferences)
	fmt.Fprintf(&b, "- Version-format differences: %d\n", s.TotalVersionDifferences)
	fmt.Fprintf(&b, "- Only in A: %d, only in B: %d\n", s.TotalOnlyA, s.TotalOnlyB)
	fmt.Fprintf(&b, "- Weighted score: %.2f (policy %s)\n\n", s.WeightedScore, s.Policy)

	if len(s.ByElementType) > 0 {
		b.WriteString("| Type | Matched | Only A | Only B | Real | Version | Section failures |\n")
		b.WriteString("|------|--------:|-------:|-------:|-----:|--------:|-----------------:|\n")
		for _, t := range s.ByElementType {
			fmt.Fprintf(&b, "| %s | %d | %d | %d | %d | %d | %d |\n",
				t.ElementType, t.Matched, t.OnlyA, t.OnlyB,
				t.RealDifferences, t.VersionDifferences, t.SectionFailures)
		}
		b.WriteString("\n")
	}

	for _, name := range sortedTypes(result) {
		tc := result.Types[name]
		wroteHeader := false
		for _, pair := range tc.Pairs {
			if !pair.Comparison.HasRealDifferences && sectionOK(pair) {
				continue
			}
			if !wroteHeader {
				fmt.Fprintf(&b, "## %s\n\n", name)
				wroteHeader = true
			}
			id, _ := pair.Pair.A.Identity()
			fmt.Fprintf(&b, "### %s\n\n", id)
			for _, d := range pair.Comparison.Differences {
				fmt.Fprintf(&b, "- `%s`: `%s` -> `%s`\n", d.Attribute,
					valueOrAbsent(d.ValueA, d.PresentA), valueOrAbsent(d.ValueB, d.PresentB))
			}
			if pair.Section != nil && !pair.Section.IsEquivalent {
				fmt.Fprintf(&b, "- Section not equivalent: %s\n", pair.Section.Summary)
				for _, c := range pair.Section.FailedChecks() {
					fmt.Fprintf(&b, "  - %s/%s: %s\n", c.Category, c.Name, c.Details)
				}
			}
			b.WriteString("\n")
		}
	}

	if len(result.Warnings) > 0 {
		b.WriteString("## Warnings\n\n")
		for _, warn := range result.Warnings {
			fmt.Fprintf(&b, "- **%s** %s %s: %s\n", warn.Code, warn.ElementType, warn.Identity, warn.Detail)
		}
		b.WriteString("\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// RenderHTML converts the Markdown report to a standalone HTML page.
func RenderHTML(w io.Writer, result *engine.RunResult) error {
	var md bytes.Buffer
	if err := RenderMarkdown(&md, result); err != nil {
		return err
	}

	var body bytes.Buffer
	converter := goldmark.New(goldmark.WithExtensions(extension.GFM))
	if err := converter.Convert(md.Bytes(), &body); err != nil {
		return fmt.Errorf("convert report to HTML: %w", err)
	}

	fmt.Fprintf(w, "<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n<title>Model comparison: %s vs %s</title>\n</head>\n<body>\n",
		result.VersionA, result.VersionB)
	if _, err := w.Write(body.Bytes()); err != nil {
		return err
	}
	_, err := io.WriteString(w, "</body>\n</html>\n")
	return err
}

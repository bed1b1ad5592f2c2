package display

import (
	"fmt"
	"io"
	"strings"

	"github.com/harrison/modeldiff/internal/model"
)

// Warning represents a user-facing warning message
type Warning struct {
	Title      string   // Main warning title
	Message    string   // Detailed explanation (optional)
	Elements   []string // Related element identities (optional)
	Suggestion string   // Action to take (optional)
}

// Display shows a formatted warning in yellow
func (w Warning) Display(out io.Writer) {
	var b strings.Builder

	b.WriteString("\x1b[33m")
	b.WriteString("⚠️  Warning: ")
	b.WriteString(w.Title)
	b.WriteString("\n")

	if w.Message != "" {
		b.WriteString("    ")
		b.WriteString(w.Message)
		b.WriteString("\n")
	}

	if len(w.Elements) > 0 {
		b.WriteString("    ")
		if len(w.Elements) == 1 {
			b.WriteString("Affected element:\n")
		} else {
			b.WriteString("Affected elements:\n")
		}
		for i, id := range w.Elements {
			b.WriteString("      ")
			b.WriteString(fmt.Sprintf("%d. %s", i+1, id))
			b.WriteString("\n")
		}
	}

	if w.Suggestion != "" {
		b.WriteString("    Suggestion:\n")
		b.WriteString("    ")
		b.WriteString(w.Suggestion)
		b.WriteString("\n")
	}

	b.WriteString("\x1b[0m")

	fmt.Fprint(out, b.String())
}

// FromRun groups a run's warnings by code into displayable warnings, one
// per code, with the affected element identities listed underneath.
func FromRun(warnings []model.Warning) []Warning {
	if len(warnings) == 0 {
		return nil
	}

	byCode := map[model.WarningCode][]model.Warning{}
	var order []model.WarningCode
	for _, w := range warnings {
		if _, seen := byCode[w.Code]; !seen {
			order = append(order, w.Code)
		}
		byCode[w.Code] = append(byCode[w.Code], w)
	}

	out := make([]Warning, 0, len(order))
	for _, code := range order {
		group := byCode[code]
		dw := Warning{Title: titleFor(code)}
		for _, w := range group {
			label := w.Identity
			if label == "" {
				label = "(no identity)"
			}
			if w.ElementType != "" {
				label = w.ElementType + " " + label
			}
			if w.Detail != "" {
				label += " — " + w.Detail
			}
			dw.Elements = append(dw.Elements, label)
		}
		dw.Suggestion = suggestionFor(code)
		out = append(out, dw)
	}
	return out
}

func titleFor(code model.WarningCode) string {
	switch code {
	case model.WarnMissingIdentity:
		return "Elements without an ID were skipped"
	case model.WarnFallbackMatch:
		return "Elements matched across related types"
	case model.WarnAmbiguousFallback:
		return "Ambiguous cross-type matches"
	default:
		return string(code)
	}
}

func suggestionFor(code model.WarningCode) string {
	switch code {
	case model.WarnMissingIdentity:
		return "Assign stable IDs in the source model so these elements can be tracked between revisions."
	case model.WarnAmbiguousFallback:
		return "Review these pairs manually; the first declared candidate was used."
	default:
		return ""
	}
}

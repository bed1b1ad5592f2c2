// Package report renders comparison run results for people and machines:
// colored console text, JSON for tooling, and Markdown/HTML exports.
package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/harrison/modeldiff/internal/engine"
	"github.com/harrison/modeldiff/internal/filelock"
)

// Format selects a report output format.
type Format string

const (
	// FormatText is the human-readable console format.
	FormatText Format = "text"

	// FormatJSON is the machine-readable format, stable field names.
	FormatJSON Format = "json"

	// FormatMarkdown is the export format for docs and review threads.
	FormatMarkdown Format = "markdown"

	// FormatHTML is the Markdown report converted to a standalone HTML page.
	FormatHTML Format = "html"
)

// ParseFormat resolves a user-supplied format name.
func ParseFormat(name string) (Format, error) {
	switch name {
	case "", "text":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "html":
		return FormatHTML, nil
	default:
		return "", fmt.Errorf("unknown report format %q (want text, json, markdown or html)", name)
	}
}

// Render writes the result to w in the given format. Text output is plain
// here; use RenderText directly for colored console output.
func Render(w io.Writer, result *engine.RunResult, format Format) error {
	switch format {
	case FormatText:
		return RenderText(w, result, false)
	case FormatJSON:
		return RenderJSON(w, result)
	case FormatMarkdown:
		return RenderMarkdown(w, result)
	case FormatHTML:
		return RenderHTML(w, result)
	default:
		return fmt.Errorf("unknown report format %q", format)
	}
}

// RenderJSON writes the result as indented JSON.
func RenderJSON(w io.Writer, result *engine.RunResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	return nil
}

// Export renders the result and writes it to path under a file lock, so
// concurrent invocations aimed at the same report file never interleave.
func Export(path string, result *engine.RunResult, format Format) error {
	var buf bytes.Buffer
	if err := Render(&buf, result, format); err != nil {
		return err
	}
	if err := filelock.LockAndWrite(path, buf.Bytes()); err != nil {
		return fmt.Errorf("write report %s: %w", path, err)
	}
	return nil
}

// ColorEnabled reports whether w is a terminal worth coloring.
func ColorEnabled(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

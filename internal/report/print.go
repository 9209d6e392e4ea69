package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/gauge-sh/boundary/internal/types"
)

// PrintOptions controls the human-readable diagnostic printer.
type PrintOptions struct {
	// ProjectRoot resolves FilePath to an absolute path for hyperlinks.
	ProjectRoot string
	// Hyperlinks enables OSC 8 escapes around each file:line. Callers
	// should only set this when writing to an interactive terminal.
	Hyperlinks bool
}

// IsTerminal reports whether w looks like an interactive terminal,
// using the same character-device check the standard library's own
// terminal-detection helpers rely on.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}

// PrintDiagnostics writes one line per diagnostic as
// "<severity> <file>:<line>: <message>" followed by a trailing summary
// count, matching the textual contract every downstream tool depends
// on for scraping.
func PrintDiagnostics(w io.Writer, diags []types.Diagnostic, opts PrintOptions) {
	var errors, warnings int
	for _, d := range diags {
		location := fmt.Sprintf("%s:%d", d.FilePath, d.LineNumber)
		if opts.Hyperlinks && d.FilePath != "" {
			abs := d.FilePath
			if !filepath.IsAbs(abs) && opts.ProjectRoot != "" {
				abs = filepath.Join(opts.ProjectRoot, d.FilePath)
			}
			location = Hyperlink(d.FilePath, abs, d.LineNumber, location)
		}
		fmt.Fprintf(w, "%s %s: %s\n", d.Severity, location, d.Message)
		if d.Severity == types.SeverityWarning {
			warnings++
		} else {
			errors++
		}
	}
	fmt.Fprintf(w, "\n%d error(s), %d warning(s)\n", errors, warnings)
}

package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/gauge-sh/boundary/internal/types"
)

func TestPrintDiagnosticsFormat(t *testing.T) {
	var buf bytes.Buffer
	PrintDiagnostics(&buf, []types.Diagnostic{
		{FilePath: "a/x.py", LineNumber: 3, Severity: types.SeverityError, Kind: types.KindDependency, Message: "boom"},
		{FilePath: "a/y.py", LineNumber: 1, Severity: types.SeverityWarning, Kind: types.KindDeprecated, Message: "old"},
	}, PrintOptions{})

	out := buf.String()
	if !strings.Contains(out, "error a/x.py:3: boom") {
		t.Fatalf("unexpected output: %s", out)
	}
	if !strings.Contains(out, "warning a/y.py:1: old") {
		t.Fatalf("unexpected output: %s", out)
	}
	if !strings.Contains(out, "1 error(s), 1 warning(s)") {
		t.Fatalf("expected summary line, got: %s", out)
	}
}

func TestPrintDiagnosticsEmpty(t *testing.T) {
	var buf bytes.Buffer
	PrintDiagnostics(&buf, nil, PrintOptions{})
	if !strings.Contains(buf.String(), "0 error(s), 0 warning(s)") {
		t.Fatalf("expected zero summary, got: %s", buf.String())
	}
}

package report

import (
	"encoding/json"
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"

	"github.com/gauge-sh/boundary/internal/types"
)

// DiagnosticJSON is the stable wire shape for one Diagnostic. Field
// names are the tool's own vocabulary, not Go's, since this is a public
// contract other tooling parses.
type DiagnosticJSON struct {
	FilePath string `json:"file_path"`
	Line     int    `json:"line"`
	Import   string `json:"import,omitempty"`
	Severity string `json:"severity"`
	Kind     string `json:"kind"`
	Message  string `json:"message"`
}

// Report is the top-level JSON document `check` and `check-external`
// emit under --json.
type Report struct {
	Diagnostics []DiagnosticJSON `json:"diagnostics"`
	ErrorCount  int              `json:"error_count"`
	WarnCount   int              `json:"warning_count"`
}

// ToReport converts internal diagnostics to their stable wire form.
func ToReport(diags []types.Diagnostic) Report {
	out := Report{Diagnostics: make([]DiagnosticJSON, 0, len(diags))}
	for _, d := range diags {
		out.Diagnostics = append(out.Diagnostics, DiagnosticJSON{
			FilePath: d.FilePath,
			Line:     d.LineNumber,
			Import:   d.ImportModPath,
			Severity: d.Severity.String(),
			Kind:     d.Kind.String(),
			Message:  d.Message,
		})
		if d.Severity == types.SeverityWarning {
			out.WarnCount++
		} else {
			out.ErrorCount++
		}
	}
	return out
}

// schema describes the JSON document ToReport produces, checked into
// the binary so downstream tooling can validate against exactly what
// this version of boundary emits.
var schema = &jsonschema.Schema{
	Type: "object",
	Properties: map[string]*jsonschema.Schema{
		"diagnostics": {
			Type: "array",
			Items: &jsonschema.Schema{
				Type: "object",
				Properties: map[string]*jsonschema.Schema{
					"file_path": {Type: "string"},
					"line":      {Type: "integer"},
					"import":    {Type: "string"},
					"severity":  {Type: "string", Enum: []any{"error", "warning"}},
					"kind":      {Type: "string"},
					"message":   {Type: "string"},
				},
				Required: []string{"file_path", "line", "severity", "kind", "message"},
			},
		},
		"error_count":   {Type: "integer"},
		"warning_count": {Type: "integer"},
	},
	Required: []string{"diagnostics", "error_count", "warning_count"},
}

var resolvedSchema *jsonschema.Resolved

func init() {
	resolved, err := schema.Resolve(nil)
	if err != nil {
		panic(fmt.Sprintf("report: invalid built-in schema: %v", err))
	}
	resolvedSchema = resolved
}

// MarshalValidated serializes r to JSON and validates the result
// against the built-in schema before returning it, so a shape
// regression fails loudly instead of shipping a silently-broken
// contract to downstream tooling.
func MarshalValidated(r Report) ([]byte, error) {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("report: marshal: %w", err)
	}
	var instance any
	if err := json.Unmarshal(data, &instance); err != nil {
		return nil, fmt.Errorf("report: re-decode for validation: %w", err)
	}
	if err := resolvedSchema.Validate(instance); err != nil {
		return nil, fmt.Errorf("report: emitted JSON failed its own schema: %w", err)
	}
	return data, nil
}

package types

// ImportKind classifies how an import reference reached the scanner's
// output.
type ImportKind uint8

const (
	// KindRuntime is a normal, unconditional import.
	KindRuntime ImportKind = iota
	// KindTypeChecking marks an import found only inside a block guarded
	// by the target language's TYPE_CHECKING sentinel.
	KindTypeChecking
	// KindString marks an import inferred from a string literal passed to
	// an import_module-shaped call, only ever emitted when the project
	// opts in via include_string_imports.
	KindString
)

// Import is one qualified import reference extracted from a source file.
type Import struct {
	ModulePath DottedPath
	LineNumber int
	Kind       ImportKind
	// Alias holds the bound local name, when the source used "as", or
	// the natural leading segment for a plain "import a.b.c".
	Alias DottedPath
	// IsGlobalScope is false when the import statement is nested inside a
	// function or method body rather than sitting at module top level.
	IsGlobalScope bool
	// Opaque is set for star-imports ("from a.b import *"): the checker
	// treats the target module's whole exposed surface as one edge.
	Opaque bool
	// OriginalLineOffset is set for from-imports that expand a single
	// source statement into multiple Import records, pointing back at the
	// statement's own starting line for diagnostics that want to cite it.
	OriginalLineOffset *int
	// ImportedName is the name as written in the source, before any "as"
	// alias is applied. Interface exposure matching uses this rather than
	// Alias, so renaming an import on the way in doesn't dodge a strict
	// interface's expose list.
	ImportedName string
	// Ignore is the directive, if any, whose comment covered this import.
	Ignore *IgnoreDirective
}

// LeafSymbol returns the trailing name a "boundary-ignore" directive
// matches against: the last segment of the bound alias if one was given,
// otherwise ImportedName, otherwise the last segment of ModulePath.
func (i Import) LeafSymbol() string {
	if !i.Alias.Empty() {
		return i.Alias.Leaf()
	}
	if i.ImportedName != "" {
		return i.ImportedName
	}
	return i.ModulePath.Leaf()
}

// Severity is the level at which a Diagnostic is reported.
type Severity uint8

const (
	SeverityError Severity = iota
	SeverityWarning
)

func (s Severity) String() string {
	if s == SeverityWarning {
		return "warning"
	}
	return "error"
}

// DiagnosticKind classifies the rule family that produced a Diagnostic.
type DiagnosticKind uint8

const (
	KindDependency DiagnosticKind = iota
	KindInterfaceViolation
	KindDeprecated
	KindConfiguration
	KindUnused
)

func (k DiagnosticKind) String() string {
	switch k {
	case KindDependency:
		return "dependency"
	case KindInterfaceViolation:
		return "interface"
	case KindDeprecated:
		return "deprecated"
	case KindConfiguration:
		return "configuration"
	case KindUnused:
		return "unused"
	default:
		return "unknown"
	}
}

// Diagnostic is a single reported violation or warning.
type Diagnostic struct {
	FilePath      string
	LineNumber    int
	ImportModPath string
	Severity      Severity
	Kind          DiagnosticKind
	Message       string
	// ImporterModulePath and TargetModulePath are set only for
	// KindDependency/KindDeprecated diagnostics raised by the
	// dependency-list rule (not visibility, layer, or forbidden-edge
	// diagnostics), so that `sync` can turn a violation directly back
	// into the depends_on edge that would resolve it.
	ImporterModulePath string
	TargetModulePath   string
}

// Package report renders diagnostics and dependency reports for human
// and machine consumers.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

type terminalEnvironment int

const (
	terminalUnknown terminalEnvironment = iota
	terminalJetBrains
	terminalVSCode
)

func detectTerminal() terminalEnvironment {
	emulator := strings.ToLower(os.Getenv("TERMINAL_EMULATOR"))
	program := strings.ToLower(os.Getenv("TERM_PROGRAM"))
	switch {
	case strings.Contains(emulator, "jetbrains"):
		return terminalJetBrains
	case strings.Contains(program, "vscode"):
		return terminalVSCode
	default:
		return terminalUnknown
	}
}

// Hyperlink wraps display in an OSC 8 terminal hyperlink escape pointing
// at absPath. When the environment suggests JetBrains or VS Code the
// target also carries :line, in a scheme that editor recognizes; other
// terminals get a plain file:// link to absPath without the line.
// relPath is not used in the link.
func Hyperlink(relPath, absPath string, line int, display string) string {
	absPath = filepath.ToSlash(absPath)
	var target string
	switch detectTerminal() {
	case terminalJetBrains:
		target = fmt.Sprintf("file://%s:%d", absPath, line)
	case terminalVSCode:
		target = fmt.Sprintf("vscode://file/%s:%d", absPath, line)
	default:
		target = fmt.Sprintf("file://%s", absPath)
	}
	return fmt.Sprintf("\x1b]8;;%s\x1b\\%s\x1b]8;;\x1b\\", target, display)
}

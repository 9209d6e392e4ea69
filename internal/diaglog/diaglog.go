// Package diaglog provides gated debug tracing for the scan/check/cache
// pipeline. It is deliberately separate from diagnostic reporting
// (internal/report): this package is for developers debugging the tool
// itself, never for the Dependency/Interface/Deprecated/Configuration
// output a user's run produces.
package diaglog

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// EnableDebug can be overridden at build time:
// go build -ldflags "-X github.com/gauge-sh/boundary/internal/diaglog.EnableDebug=true"
var EnableDebug = "false"

var (
	mu     sync.Mutex
	output io.Writer = os.Stderr
)

// SetOutput redirects trace output. Passing nil disables it entirely.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
}

// Enabled reports whether tracing is active, via build flag or the
// BOUNDARY_DEBUG environment variable.
func Enabled() bool {
	if EnableDebug == "true" {
		return true
	}
	v := os.Getenv("BOUNDARY_DEBUG")
	return v == "1" || v == "true"
}

func writer() io.Writer {
	mu.Lock()
	defer mu.Unlock()
	return output
}

// Log emits a component-tagged trace line when tracing is enabled.
func Log(component, format string, args ...interface{}) {
	if !Enabled() {
		return
	}
	w := writer()
	if w == nil {
		return
	}
	fmt.Fprintf(w, "[boundary:%s] "+format+"\n", append([]interface{}{component}, args...)...)
}

// Scan traces the import scanner (C3).
func Scan(format string, args ...interface{}) { Log("scan", format, args...) }

// Check traces the boundary checker (C5).
func Check(format string, args ...interface{}) { Log("check", format, args...) }

// Cache traces the computation cache (C6): hit/miss/write events.
func Cache(format string, args ...interface{}) { Log("cache", format, args...) }

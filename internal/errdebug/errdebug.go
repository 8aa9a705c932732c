// Package errdebug is the shell's opt-in diagnostic surface: everything
// spec.md calls "debug output (if compiled) to stderr" or "internal
// error logged to debug" lives here. Ordinary shell UI text (prompts,
// built-in output, blank lines) never goes through this package — per
// spec.md §6/§7 that's stdout, because it's part of the prompt UI, not
// diagnostics.
//
// The shape (a handful of "DebugX" dump functions gated on a flag)
// follows the teacher's internal/debug package; the serialization
// format is YAML (gopkg.in/yaml.v3, the teacher's own structured-data
// library) rather than the teacher's encoding/json, because a one-off
// human-read stderr dump reads better as YAML than compact JSON.
package errdebug

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// Logger writes diagnostic output to an io.Writer (normally os.Stderr)
// only when Enabled is true. The zero value is a disabled no-op logger.
type Logger struct {
	Enabled bool
	Out     io.Writer
}

// New returns a Logger writing to out, gated by enabled.
func New(out io.Writer, enabled bool) *Logger {
	return &Logger{Enabled: enabled, Out: out}
}

// Printf writes a single diagnostic line, prefixed "debug: ", if enabled.
func (l *Logger) Printf(format string, args ...any) {
	if l == nil || !l.Enabled {
		return
	}
	fmt.Fprintf(l.Out, "debug: "+format+"\n", args...)
}

// Dump renders v as YAML under a "=== label ===" header, if enabled.
// Marshal failures are themselves reported as a debug line rather than
// propagated — a failed diagnostic dump must never interrupt the shell.
func (l *Logger) Dump(label string, v any) {
	if l == nil || !l.Enabled {
		return
	}
	out, err := yaml.Marshal(v)
	if err != nil {
		l.Printf("failed to render %s: %v", label, err)
		return
	}
	fmt.Fprintf(l.Out, "=== %s ===\n%s\n", label, out)
}

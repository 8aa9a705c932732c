package repl

import (
	"bufio"

	"github.com/nathara/nsh/internal/lexer"
)

// readBoundedLine reads one line up to lexer.MaxLineBytes plus its
// terminating newline, per spec.md §4.7 step 4.
//
// eof is true on end-of-input, with line and overflow meaningless —
// the caller ends the session. overflow is true when the cap was hit
// before a newline appeared; the rest of that input line is drained
// and discarded so the next read starts cleanly at the following line,
// and the caller re-prompts silently without parsing anything.
func readBoundedLine(r *bufio.Reader) (line string, overflow, eof bool) {
	var buf []byte
	for {
		b, err := r.ReadByte()
		if err != nil {
			return "", false, true
		}
		if b == '\n' {
			return string(buf), false, false
		}
		buf = append(buf, b)
		if len(buf) > lexer.MaxLineBytes {
			drainLine(r)
			return "", true, false
		}
	}
}

// drainLine discards bytes up to and including the next newline, or
// until end-of-input.
func drainLine(r *bufio.Reader) {
	for {
		b, err := r.ReadByte()
		if err != nil || b == '\n' {
			return
		}
	}
}

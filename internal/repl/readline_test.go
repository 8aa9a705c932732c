package repl

import (
	"bufio"
	"strings"
	"testing"

	"github.com/nathara/nsh/internal/lexer"
)

func TestReadBoundedLineNormal(t *testing.T) {
	r := bufio.NewReader(strings.NewReader("ls -l\nnext line\n"))
	line, overflow, eof := readBoundedLine(r)
	if overflow || eof {
		t.Fatalf("unexpected overflow=%v eof=%v", overflow, eof)
	}
	if line != "ls -l" {
		t.Fatalf("line = %q, want %q", line, "ls -l")
	}
}

func TestReadBoundedLineEOF(t *testing.T) {
	r := bufio.NewReader(strings.NewReader(""))
	_, overflow, eof := readBoundedLine(r)
	if !eof {
		t.Fatalf("expected eof=true on empty reader")
	}
	if overflow {
		t.Fatalf("overflow should be false on eof")
	}
}

func TestReadBoundedLineOverflowDrainsRestOfLine(t *testing.T) {
	tooLong := strings.Repeat("a", lexer.MaxLineBytes+10)
	input := tooLong + "\nnext\n"
	r := bufio.NewReader(strings.NewReader(input))

	_, overflow, eof := readBoundedLine(r)
	if !overflow || eof {
		t.Fatalf("expected overflow=true eof=false, got overflow=%v eof=%v", overflow, eof)
	}

	line, overflow2, eof2 := readBoundedLine(r)
	if overflow2 || eof2 {
		t.Fatalf("unexpected overflow=%v eof=%v after drain", overflow2, eof2)
	}
	if line != "next" {
		t.Fatalf("line after overflow drain = %q, want %q", line, "next")
	}
}

func TestReadBoundedLineExactlyAtCap(t *testing.T) {
	exact := strings.Repeat("a", lexer.MaxLineBytes)
	r := bufio.NewReader(strings.NewReader(exact + "\n"))
	line, overflow, eof := readBoundedLine(r)
	if overflow || eof {
		t.Fatalf("a line of exactly MaxLineBytes should not overflow")
	}
	if line != exact {
		t.Fatalf("line length = %d, want %d", len(line), len(exact))
	}
}

package executor

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/nathara/nsh/internal/parser"
)

func TestResolveStreamsDefaultsToInherited(t *testing.T) {
	in, out, errf := os.Stdin, os.Stdout, os.Stderr
	cmd := &parser.Command{Argv: []string{"ls"}}

	s, err := resolveStreams(cmd, nil, nil, in, out, errf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.stdin != in || s.stdout != out || s.stderr != errf {
		t.Fatalf("expected inherited streams unchanged")
	}
	if len(s.toClose) != 0 {
		t.Fatalf("expected nothing opened, got %d", len(s.toClose))
	}
}

func TestResolveStreamsFilenameOverridesPipe(t *testing.T) {
	dir := t.TempDir()
	outPath := filepath.Join(dir, "out.txt")
	cmd := &parser.Command{Argv: []string{"cmd"}, OutFile: outPath}

	pr, pw, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}
	defer pr.Close()

	s, err := resolveStreams(cmd, nil, pw, os.Stdin, os.Stdout, os.Stderr)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer s.closeOpened()
	pw.Close()

	if s.stdout == pw {
		t.Fatalf("filename redirection should override the pipe endpoint")
	}
	if s.stdout.Name() != outPath {
		t.Fatalf("stdout = %q, want %q", s.stdout.Name(), outPath)
	}
}

func TestResolveStreamsMissingInputFile(t *testing.T) {
	dir := t.TempDir()
	cmd := &parser.Command{Argv: []string{"cat"}, InFile: filepath.Join(dir, "does-not-exist")}

	_, err := resolveStreams(cmd, nil, nil, os.Stdin, os.Stdout, os.Stderr)
	if err == nil {
		t.Fatalf("expected error for missing input file")
	}
	if !IsInputMissing(err) {
		t.Fatalf("expected IsInputMissing(err) to be true, got %v", err)
	}
}

func TestResolveStreamsMissingOutputDirIsNotInputMissing(t *testing.T) {
	cmd := &parser.Command{Argv: []string{"ls"}, OutFile: "/no/such/dir/out.txt"}

	_, err := resolveStreams(cmd, nil, nil, os.Stdin, os.Stdout, os.Stderr)
	if err == nil {
		t.Fatalf("expected error for unwritable output path")
	}
	if IsInputMissing(err) {
		t.Fatalf("output-redirection failure must not be classified as input-missing")
	}
}

func TestResolveStreamsOpensOutputTruncated(t *testing.T) {
	dir := t.TempDir()
	outPath := filepath.Join(dir, "out.txt")
	if err := os.WriteFile(outPath, []byte("stale content"), 0664); err != nil {
		t.Fatalf("seed file: %v", err)
	}

	cmd := &parser.Command{Argv: []string{"cmd"}, OutFile: outPath}
	s, err := resolveStreams(cmd, nil, nil, os.Stdin, os.Stdout, os.Stderr)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer s.closeOpened()

	info, err := os.Stat(outPath)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Size() != 0 {
		t.Fatalf("expected output file truncated, size = %d", info.Size())
	}
}

package executor

import (
	"fmt"
	"os"

	"github.com/nathara/nsh/internal/parser"
)

// openInput opens filename read-only for the input-redirection probe.
// spec.md §4.5 requires this probe to happen before forking; a failure
// here is the one redirection error the user can observe (a blank line,
// then silent abort).
func openInput(filename string) (*os.File, error) {
	return os.Open(filename)
}

// openOutput opens filename for output/error redirection:
// create-or-truncate, mode 0664, exactly per spec.md §6.
func openOutput(filename string) (*os.File, error) {
	return os.OpenFile(filename, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0664)
}

// redirectError records which redirection slot failed to open, so the
// caller can tell the one user-visible failure (missing input file, per
// spec.md §4.5/§9) apart from every other open failure, which spec.md
// §7 treats as an internal system-call failure (debug log only).
type redirectError struct {
	field string // "in", "out", or "err"
	err   error
}

func (e *redirectError) Error() string {
	return fmt.Sprintf("open %s redirection: %v", e.field, e.err)
}

// IsInputMissing reports whether err is a redirectError for the input
// slot specifically — the one case spec.md wants a blank line for.
func IsInputMissing(err error) bool {
	re, ok := err.(*redirectError)
	return ok && re.field == "in"
}

// streams bundles the three standard file descriptors resolved for one
// Command, plus every *os.File this resolution opened and that the
// parent must close once the child has started.
type streams struct {
	stdin, stdout, stderr *os.File
	toClose               []*os.File
}

// closeOpened closes every file this resolution opened. Safe to call
// once Start() has returned — the child already holds its own reference
// to the descriptor via fork, so closing the parent's copy doesn't
// disturb it.
func (s *streams) closeOpened() {
	for _, f := range s.toClose {
		f.Close()
	}
}

// resolveStreams computes a Command's final stdin/stdout/stderr.
//
// Order matters and mirrors spec.md §4.5's redirection primitive
// exactly: a pipe endpoint (pipeRead for stdin, pipeWrite for stdout) is
// applied first, then a filename redirection on the same Command
// overrides it — the primitive dup2's the pipe fd onto the std fd in
// steps 2–3 and then dup2's the filename's fd onto the same std fd in
// step 4, so the filename always wins if both are present.
//
// inheritedIn/Out/Err are the defaults to fall back to when neither a
// pipe nor a filename redirection applies — normally the shell's own
// stdin/stdout/stderr, since spec.md §9 says children "read from the
// same controlling terminal as the shell" absent real tcsetpgrp
// ownership.
func resolveStreams(cmd *parser.Command, pipeRead, pipeWrite, inheritedIn, inheritedOut, inheritedErr *os.File) (*streams, error) {
	s := &streams{
		stdin:  inheritedIn,
		stdout: inheritedOut,
		stderr: inheritedErr,
	}

	if pipeRead != nil {
		s.stdin = pipeRead
	}
	if pipeWrite != nil {
		s.stdout = pipeWrite
	}

	if cmd.InFile != "" {
		f, err := openInput(cmd.InFile)
		if err != nil {
			return nil, &redirectError{"in", err}
		}
		s.stdin = f
		s.toClose = append(s.toClose, f)
	}

	if cmd.OutFile != "" {
		f, err := openOutput(cmd.OutFile)
		if err != nil {
			return nil, &redirectError{"out", err}
		}
		s.stdout = f
		s.toClose = append(s.toClose, f)
	}

	if cmd.ErrFile != "" {
		f, err := openOutput(cmd.ErrFile)
		if err != nil {
			return nil, &redirectError{"err", err}
		}
		s.stderr = f
		s.toClose = append(s.toClose, f)
	}

	return s, nil
}

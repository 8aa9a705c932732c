// Package repl drives the main loop: prompt, read line, drain pending
// SIGCHLD state changes, parse, dispatch to a built-in or the executor,
// drain again, repeat. Grounded on the teacher's internal/runner.Runner
// for the shape of a driver struct wrapping the pieces it sequences,
// generalized here from a one-shot task runner to an unbounded
// read-eval-print loop.
package repl

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"golang.org/x/sys/unix"

	"github.com/nathara/nsh/internal/builtins"
	"github.com/nathara/nsh/internal/errdebug"
	"github.com/nathara/nsh/internal/executor"
	"github.com/nathara/nsh/internal/jobtable"
	"github.com/nathara/nsh/internal/lexer"
	"github.com/nathara/nsh/internal/parser"
	"github.com/nathara/nsh/internal/signalcore"
)

// Prompt is the literal two-byte prompt spec.md §6 requires.
const Prompt = "# "

// REPL owns every collaborator the main loop sequences.
type REPL struct {
	in       *bufio.Reader
	out      io.Writer
	jobs     *jobtable.Table
	signals  *signalcore.Core
	exec     *executor.Executor
	builtins *builtins.Builtins
	debug    *errdebug.Logger
}

// New wires a REPL against stdin/stdout and a fresh job table, signal
// core, executor, and built-in dispatcher.
func New(stdin io.Reader, stdout io.Writer, dbg *errdebug.Logger) *REPL {
	jobs := jobtable.New()
	sig := signalcore.New()
	exec := executor.New(jobs, sig, stdout, dbg)
	bi := builtins.New(jobs, sig, exec, stdout)

	if f, ok := stdin.(*os.File); ok && !isatty.IsTerminal(f.Fd()) {
		dbg.Printf("stdin is not a terminal; job-control signals will not originate from a controlling tty")
	}

	return &REPL{
		in:       bufio.NewReader(stdin),
		out:      stdout,
		jobs:     jobs,
		signals:  sig,
		exec:     exec,
		builtins: bi,
		debug:    dbg,
	}
}

// Run executes the loop in spec.md §4.7 until end-of-input or the exit
// built-in. Run starts the signal core itself and stops it on return;
// it blocks until the shell session ends.
func (r *REPL) Run() {
	r.signals.Start()
	defer r.signals.Stop()

	for {
		r.drainPendingReap()
		r.jobs.ReapDoneAndPrint(r.out)
		r.debug.Dump("jobs", r.jobs.Snapshot())

		fmt.Fprint(r.out, Prompt)

		line, overflow, eof := readBoundedLine(r.in)
		if eof {
			return
		}
		if overflow {
			r.debug.Printf("input line exceeded %d bytes; discarded", lexer.MaxLineBytes)
			continue
		}
		if line == "" {
			continue
		}

		parsed, err := parser.Parse(line)
		if err != nil {
			r.debug.Printf("parse error: %v", err)
			r.debug.Dump("parse error", err)
			continue
		}
		r.debug.Dump("parsed line", parsed)

		if parsed.IsBuiltinCandidate() && builtins.Names[parsed.Left.Argv[0]] {
			if dispatchErr := r.builtins.Dispatch(parsed.Left.Argv[0], parsed.Left.Argv[1:]); dispatchErr == builtins.ErrExit {
				return
			}
		} else {
			r.exec.Run(parsed)
		}

		r.drainPendingReap()
		r.jobs.ReapDoneAndPrint(r.out)
	}
}

// drainPendingReap implements spec.md §4.7 step 1: Stopped ⇒ Stopped,
// Continued ⇒ Running, Exited or Signalled ⇒ Done.
func (r *REPL) drainPendingReap() {
	if !r.signals.TakePendingReap() {
		return
	}
	executor.DrainPendingReap(func(pgid int, status unix.WaitStatus) {
		switch {
		case status.Stopped():
			r.jobs.Mark(pgid, jobtable.Stopped)
		case status.Continued():
			r.jobs.Mark(pgid, jobtable.Running)
		case status.Exited(), status.Signaled():
			r.jobs.Mark(pgid, jobtable.Done)
		}
	})
}

// Package builtins implements the four commands spec.md §4.6 requires
// to run directly in the shell's own process, without forking: exit,
// jobs, fg, and bg.
//
// Grounded on the teacher's internal/runner package for the shape of a
// dispatch table keyed by name, generalized here to the fixed four-verb
// set this shell supports (no plugin/extension mechanism is needed).
package builtins

import (
	"fmt"
	"io"
	"strings"

	"github.com/nathara/nsh/internal/jobtable"
	"github.com/nathara/nsh/internal/signalcore"
)

// Names lists every recognized built-in verb, for the parser/REPL to
// test argv[0] against before falling through to the executor.
var Names = map[string]bool{
	"exit": true,
	"jobs": true,
	"fg":   true,
	"bg":   true,
}

// Waiter is the subset of executor behavior the fg built-in needs:
// waiting on a resumed process group with stop-reporting. Implemented
// by internal/executor; declared here so this package does not import
// internal/executor.
type Waiter interface {
	WaitForeground(pgid int) (stopped bool)
}

// Builtins bundles the collaborators exit/jobs/fg/bg operate on.
type Builtins struct {
	Jobs    *jobtable.Table
	Signals *signalcore.Core
	Wait    Waiter
	Out     io.Writer
}

// New returns a Builtins wired to the given collaborators.
func New(jobs *jobtable.Table, sig *signalcore.Core, wait Waiter, out io.Writer) *Builtins {
	return &Builtins{Jobs: jobs, Signals: sig, Wait: wait, Out: out}
}

// ErrExit is returned by Dispatch for the exit built-in; the REPL loop
// checks for it to end the session cleanly.
var ErrExit = fmt.Errorf("exit")

// Dispatch runs the named built-in with the given arguments (argv[1:]),
// returning ErrExit if the shell should terminate. Callers must check
// Names[argv[0]] before calling Dispatch.
func (b *Builtins) Dispatch(name string, args []string) error {
	switch name {
	case "exit":
		return ErrExit
	case "jobs":
		b.jobs()
		return nil
	case "fg":
		b.fg()
		return nil
	case "bg":
		b.bg()
		return nil
	default:
		return nil
	}
}

// jobs emits one line per non-Done entry, per spec.md §4.6.
func (b *Builtins) jobs() {
	entries := b.Jobs.Snapshot()
	if len(entries) == 0 {
		return
	}
	highest := entries[0].ID
	for _, j := range entries {
		if j.ID > highest {
			highest = j.ID
		}
	}
	for _, j := range entries {
		sign := "-"
		if j.ID == highest {
			sign = "+"
		}
		fmt.Fprintf(b.Out, "[%d] %s %s %s\n", j.ID, sign, j.Status, j.Cmdline)
	}
}

// fg implements spec.md §4.6's fg built-in.
func (b *Builtins) fg() {
	id, ok := b.Jobs.PickMostRecentForFg()
	if !ok {
		fmt.Fprint(b.Out, "fg: no current job\n")
		return
	}
	pgid, _ := b.Jobs.GetPgid(id)
	cmdline, _ := b.Jobs.GetCmdline(id)
	fmt.Fprintln(b.Out, stripTrailingAmp(cmdline))

	sendContinue(pgid)
	b.Signals.SetForeground(pgid)
	stopped := b.Wait.WaitForeground(pgid)
	b.Signals.SetForeground(0)

	if stopped {
		b.Jobs.Mark(pgid, jobtable.Stopped)
	} else {
		b.Jobs.Mark(pgid, jobtable.Done)
	}
}

// bg implements spec.md §4.6's bg built-in.
func (b *Builtins) bg() {
	id, ok := b.Jobs.PickMostRecentStoppedForBg()
	if !ok {
		fmt.Fprint(b.Out, "bg: no current job\n")
		return
	}
	pgid, _ := b.Jobs.GetPgid(id)
	sendContinue(pgid)
	b.Jobs.Mark(pgid, jobtable.Running)
	b.Jobs.SetBackground(pgid, true)

	cmdline, _ := b.Jobs.GetCmdline(id)
	sign := "-"
	if highest, ok := b.highestID(); ok && id == highest {
		sign = "+"
	}
	fmt.Fprintf(b.Out, "[%d] %s Running %s &\n", id, sign, cmdline)
}

func (b *Builtins) highestID() (int, bool) {
	entries := b.Jobs.Snapshot()
	if len(entries) == 0 {
		return 0, false
	}
	best := entries[0].ID
	for _, j := range entries {
		if j.ID > best {
			best = j.ID
		}
	}
	return best, true
}

// stripTrailingAmp removes exactly one trailing "&" and any trailing
// whitespace from cmdline, per spec.md §9's preserved fg-echo quirk.
func stripTrailingAmp(cmdline string) string {
	s := strings.TrimRight(cmdline, " \t")
	s = strings.TrimSuffix(s, "&")
	return strings.TrimRight(s, " \t")
}

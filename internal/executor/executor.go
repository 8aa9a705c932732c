// Package executor launches child processes for a simple command or a
// two-stage pipeline, wires up pipes and file redirections, assigns
// process groups, and waits with stop-awareness.
//
// Grounded on 143ab85f_edirooss-zmux-server's process.go for the
// SysProcAttr{Setpgid}/syscall.Kill(-pid, sig) pattern, and on
// 3d62fdb2_mmichie-gosh's pipeline_executor.go for the shape of the
// foreground/background branch and the two-stage pipe wiring — both
// reworked here around real process groups and stop-aware waiting,
// which neither reference implementation needed.
package executor

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"syscall"

	"golang.org/x/sys/unix"

	"github.com/nathara/nsh/internal/errdebug"
	"github.com/nathara/nsh/internal/jobtable"
	"github.com/nathara/nsh/internal/parser"
	"github.com/nathara/nsh/internal/signalcore"
)

// Executor owns the collaborators needed to launch and track children:
// the job table it records background/stopped jobs into, the signal
// core it reports the foreground process group to, and where it prints
// the one user-visible redirection failure (a blank line).
type Executor struct {
	Jobs    *jobtable.Table
	Signals *signalcore.Core
	Stdout  io.Writer
	Debug   *errdebug.Logger
}

// New returns an Executor wired to the given collaborators.
func New(jobs *jobtable.Table, sig *signalcore.Core, stdout io.Writer, dbg *errdebug.Logger) *Executor {
	return &Executor{Jobs: jobs, Signals: sig, Stdout: stdout, Debug: dbg}
}

func (e *Executor) printBlankLine() {
	fmt.Fprintln(e.Stdout)
}

// Run dispatches a parsed Line to the simple-command or pipeline path.
func (e *Executor) Run(line *parser.Line) error {
	if line.Pipeline {
		return e.runPipeline(line.Left, line.Right, line.Original)
	}
	return e.runSimple(line.Left, line.Original)
}

// lookPath resolves argv[0] the way execvp would, searching PATH unless
// the name already contains a path separator.
func lookPath(name string) (string, error) {
	return exec.LookPath(name)
}

// buildCmd constructs an *exec.Cmd for spec with its program already
// resolved. The returned bool is false when the program could not be
// resolved at all — the Go-native stand-in for "fork succeeds, execvp
// fails inside the child" (see DESIGN.md Open Question 1): there is no
// process to track, and the caller treats this exactly like the spec's
// silent 127/126 outcome.
func buildCmd(spec *parser.Command) (*exec.Cmd, bool) {
	path, err := lookPath(spec.Argv[0])
	if err != nil {
		return nil, false
	}
	cmd := &exec.Cmd{
		Path: path,
		Args: spec.Argv,
	}
	return cmd, true
}

// runSimple implements spec.md §4.5's simple-command path.
func (e *Executor) runSimple(spec *parser.Command, raw string) error {
	streams, err := resolveStreams(spec, nil, nil, os.Stdin, os.Stdout, os.Stderr)
	if err != nil {
		if IsInputMissing(err) {
			e.printBlankLine()
			return nil
		}
		e.Debug.Printf("redirection setup failed: %v", err)
		return nil
	}

	cmd, ok := buildCmd(spec)
	if !ok {
		streams.closeOpened()
		return nil
	}
	cmd.Stdin, cmd.Stdout, cmd.Stderr = streams.stdin, streams.stdout, streams.stderr
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	if err := cmd.Start(); err != nil {
		streams.closeOpened()
		e.Debug.Printf("exec failed for %q: %v", spec.Argv[0], err)
		return nil
	}
	streams.closeOpened()

	pid := cmd.Process.Pid
	// Redundant parent-side setpgid: race-free alongside the child's own
	// SysProcAttr.Setpgid call (spec.md §4.5/§9). ESRCH/EACCES mean the
	// child already exec'd and set its own group; both are benign.
	_ = unix.Setpgid(pid, pid)

	if spec.Background {
		if _, err := e.Jobs.Add(pid, raw, true); err != nil {
			e.Debug.Printf("job table full, running %q untracked", raw)
		}
		return nil
	}

	e.Signals.SetForeground(pid)
	stopped := waitGroup(pid, []int{pid})
	e.Signals.SetForeground(0)

	if stopped {
		if _, err := e.Jobs.Add(pid, raw, false); err != nil {
			e.Debug.Printf("job table full, stopped job %q untracked", raw)
		}
	}
	return nil
}

// runPipeline implements spec.md §4.5's two-stage pipeline path.
func (e *Executor) runPipeline(left, right *parser.Command, raw string) error {
	// Probe both sides' input files before anything starts, so a missing
	// input on either side prints the blank line and runs nothing.
	for _, c := range []*parser.Command{left, right} {
		if c.InFile == "" {
			continue
		}
		f, err := openInput(c.InFile)
		if err != nil {
			e.printBlankLine()
			return nil
		}
		f.Close()
	}

	leftCmd, leftOK := buildCmd(left)
	rightCmd, rightOK := buildCmd(right)
	if !leftOK && !rightOK {
		return nil
	}

	pr, pw, err := os.Pipe()
	if err != nil {
		e.Debug.Printf("pipe() failed: %v", err)
		return nil
	}

	var started []int

	if !leftOK {
		// The left side's LookPath failure stands in for "forked,
		// execvp failed, exited 127" (DESIGN.md Open Question 1): a
		// real, if instantaneous, process that never writes to the
		// pipe. Nothing ever ran to hold the write end open, so close
		// it before starting the right side — it reads EOF immediately,
		// exactly as it would downstream of a real child that exited
		// without producing output. The right side still runs: spec.md
		// §4.5 forks/execs both sides of a pipeline unconditionally.
		pw.Close()
		e.runPipelineRightOnly(rightCmd, right, pr, raw)
		return nil
	}

	cleanup := func() {
		pr.Close()
		pw.Close()
	}

	leftStreams, err := resolveStreams(left, nil, pw, os.Stdin, os.Stdout, os.Stderr)
	if err != nil {
		cleanup()
		if IsInputMissing(err) {
			e.printBlankLine()
			return nil
		}
		e.Debug.Printf("redirection setup failed: %v", err)
		return nil
	}
	leftCmd.Stdin, leftCmd.Stdout, leftCmd.Stderr = leftStreams.stdin, leftStreams.stdout, leftStreams.stderr
	leftCmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	if err := leftCmd.Start(); err != nil {
		leftStreams.closeOpened()
		cleanup()
		e.Debug.Printf("exec failed for %q: %v", left.Argv[0], err)
		return nil
	}
	leftStreams.closeOpened()
	leftPid := leftCmd.Process.Pid
	started = append(started, leftPid)
	_ = unix.Setpgid(leftPid, leftPid)

	if !rightOK {
		pr.Close()
		pw.Close()
		e.waitOutPartial(leftPid, started, raw)
		return nil
	}

	rightStreams, err := resolveStreams(right, pr, nil, os.Stdin, os.Stdout, os.Stderr)
	if err != nil {
		pr.Close()
		pw.Close()
		if IsInputMissing(err) {
			e.printBlankLine()
		} else {
			e.Debug.Printf("redirection setup failed: %v", err)
		}
		e.waitOutPartial(leftPid, started, raw)
		return nil
	}
	rightCmd.Stdin, rightCmd.Stdout, rightCmd.Stderr = rightStreams.stdin, rightStreams.stdout, rightStreams.stderr
	rightCmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true, Pgid: leftPid}

	if err := rightCmd.Start(); err != nil {
		rightStreams.closeOpened()
		pr.Close()
		pw.Close()
		e.Debug.Printf("exec failed for %q: %v", right.Argv[0], err)
		e.waitOutPartial(leftPid, started, raw)
		return nil
	}
	rightStreams.closeOpened()
	rightPid := rightCmd.Process.Pid
	started = append(started, rightPid)
	_ = unix.Setpgid(rightPid, leftPid)

	// Parent closes both pipe ends immediately once both children have
	// inherited the fds they need.
	pr.Close()
	pw.Close()

	background := left.Background || right.Background // always false: the grammar forbids & on either pipeline side
	if background {
		if _, err := e.Jobs.Add(leftPid, raw, true); err != nil {
			e.Debug.Printf("job table full, running %q untracked", raw)
		}
		return nil
	}

	e.Signals.SetForeground(leftPid)
	stopped := waitGroup(leftPid, started)
	e.Signals.SetForeground(0)

	if stopped {
		if _, err := e.Jobs.Add(leftPid, raw, false); err != nil {
			e.Debug.Printf("job table full, stopped job %q untracked", raw)
		}
	}
	return nil
}

// runPipelineRightOnly runs the right-hand side of a pipeline whose left
// side never resolved to a real program. pipeRead is already at EOF (the
// write end was closed with nothing written to it), so the right side
// behaves exactly as it would reading from a left neighbor that exited
// immediately without output — e.g. "badcmd | wc -l" still runs wc and
// prints 0. The right side gets its own process group: there is no left
// pid for it to join, since no left process ever actually existed.
func (e *Executor) runPipelineRightOnly(rightCmd *exec.Cmd, right *parser.Command, pipeRead *os.File, raw string) {
	streams, err := resolveStreams(right, pipeRead, nil, os.Stdin, os.Stdout, os.Stderr)
	if err != nil {
		pipeRead.Close()
		if IsInputMissing(err) {
			e.printBlankLine()
		} else {
			e.Debug.Printf("redirection setup failed: %v", err)
		}
		return
	}
	rightCmd.Stdin, rightCmd.Stdout, rightCmd.Stderr = streams.stdin, streams.stdout, streams.stderr
	rightCmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	if err := rightCmd.Start(); err != nil {
		streams.closeOpened()
		pipeRead.Close()
		e.Debug.Printf("exec failed for %q: %v", right.Argv[0], err)
		return
	}
	streams.closeOpened()
	pipeRead.Close()

	pid := rightCmd.Process.Pid
	_ = unix.Setpgid(pid, pid)

	if right.Background {
		if _, err := e.Jobs.Add(pid, raw, true); err != nil {
			e.Debug.Printf("job table full, running %q untracked", raw)
		}
		return
	}

	e.Signals.SetForeground(pid)
	stopped := waitGroup(pid, []int{pid})
	e.Signals.SetForeground(0)

	if stopped {
		if _, err := e.Jobs.Add(pid, raw, false); err != nil {
			e.Debug.Printf("job table full, stopped job %q untracked", raw)
		}
	}
}

// waitOutPartial handles spec.md §4.5's accepted corner case: "Partial
// pipeline (left forked but right fork failed) is an accepted corner
// case; whatever was forked is waited upon."
func (e *Executor) waitOutPartial(pgid int, started []int, raw string) {
	e.Signals.SetForeground(pgid)
	stopped := waitGroup(pgid, started)
	e.Signals.SetForeground(0)
	if stopped {
		if _, err := e.Jobs.Add(pgid, raw, false); err != nil {
			e.Debug.Printf("job table full, stopped job %q untracked", raw)
		}
	}
}

// WaitForeground waits on pgid until the kernel reports no children
// remain in that group, with stop-reporting. The fg built-in uses this
// to wait on a job it just resumed with SIGCONT, where only the process
// group (not the original member pids) is known, satisfying
// builtins.Waiter.
func (e *Executor) WaitForeground(pgid int) (stopped bool) {
	return waitGroupUntilEmpty(pgid)
}

// PgidOf returns pid's process group, falling back to pid itself if the
// lookup fails — spec.md §4.7 step 1 calls for exactly this fallback,
// "because a child that has just exited may no longer belong to a
// queryable group."
func PgidOf(pid int) int {
	pgid, err := unix.Getpgid(pid)
	if err != nil {
		return pid
	}
	return pgid
}

// DrainPendingReap performs one non-blocking pass over every child's
// pending state changes and invokes onStatus for each, implementing
// spec.md §4.7 step 1's drain loop.
func DrainPendingReap(onStatus func(pgid int, status unix.WaitStatus)) {
	drainNonBlocking(func(pid int, status unix.WaitStatus) {
		onStatus(PgidOf(pid), status)
	})
}

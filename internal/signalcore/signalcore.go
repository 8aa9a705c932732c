// Package signalcore owns the two process-global cells the shell's
// terminal-signal forwarding and SIGCHLD reaping share with the main
// REPL loop: the foreground process-group id and the pending-reap flag.
//
// A real C shell registers sigaction handlers that run inside the kernel
// signal trampoline and must be async-signal-safe: no allocation, no
// formatted I/O, no job-table access. Go doesn't expose that trampoline
// to user code at all — the runtime itself is the async-signal-safe
// handler, and it redelivers every signal it's told to watch through a
// channel to an ordinary goroutine (see os/signal). That goroutine is
// "the handler" here: it still touches nothing but the two atomic cells
// below, which is what actually matters for the spec's invariants (the
// job table is only ever mutated by the REPL's own goroutine).
package signalcore

import (
	"os"
	"os/signal"
	"sync/atomic"

	"golang.org/x/sys/unix"
)

// Core holds the shared state between the signal-forwarding goroutine and
// the REPL.
type Core struct {
	foregroundPgid atomic.Int32
	pendingReap    atomic.Bool

	sigc chan os.Signal
	stop chan struct{}
}

// New creates a Core with no foreground group and no pending reap.
func New() *Core {
	return &Core{
		sigc: make(chan os.Signal, 8),
		stop: make(chan struct{}),
	}
}

// Start registers SIGINT, SIGTSTP, and SIGCHLD and launches the
// forwarding goroutine. Call once at shell startup.
func (c *Core) Start() {
	signal.Notify(c.sigc, unix.SIGINT, unix.SIGTSTP, unix.SIGCHLD)
	go c.loop()
}

// Stop unregisters the signals and halts the forwarding goroutine.
func (c *Core) Stop() {
	signal.Stop(c.sigc)
	close(c.stop)
}

func (c *Core) loop() {
	for {
		select {
		case sig := <-c.sigc:
			switch sig {
			case unix.SIGINT:
				c.forward(unix.SIGINT)
			case unix.SIGTSTP:
				c.forward(unix.SIGTSTP)
			case unix.SIGCHLD:
				c.pendingReap.Store(true)
			}
		case <-c.stop:
			return
		}
	}
}

// forward sends sig to the foreground process group, if one is set.
// ESRCH (group already gone) is expected and ignored — the group can
// exit between the read of foregroundPgid and the kill.
func (c *Core) forward(sig unix.Signal) {
	pgid := c.foregroundPgid.Load()
	if pgid <= 0 {
		return
	}
	_ = unix.Kill(-int(pgid), sig)
}

// SetForeground records pgid as the process group that should receive
// forwarded terminal signals. Pass 0 to clear it. Called by the executor
// (and by the fg built-in) only; read by the forwarding goroutine only.
func (c *Core) SetForeground(pgid int) {
	c.foregroundPgid.Store(int32(pgid))
}

// Foreground returns the current foreground process-group id, or 0.
func (c *Core) Foreground() int {
	return int(c.foregroundPgid.Load())
}

// TakePendingReap atomically clears and returns the pending-reap flag.
func (c *Core) TakePendingReap() bool {
	return c.pendingReap.Swap(false)
}

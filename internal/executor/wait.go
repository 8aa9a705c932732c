package executor

import (
	"golang.org/x/sys/unix"
)

// waitGroup waits on every pid in a process group with stop-reporting,
// exactly as spec.md §4.5 wants for both the simple-command and
// pipeline foreground paths: "wait for it/them with stop-reporting
// enabled." os/exec's Cmd.Wait doesn't support WUNTRACED, so this calls
// unix.Wait4 directly — see DESIGN.md for why.
//
// Wait4 is called with -pgid, which waits for any child whose process
// group equals pgid (used for pipelines, where two children share a
// group); for a lone foreground
// command pgid is simply that command's own pid, which is also its own
// group.
//
// Returns stopped=true the moment any member of the group reports a
// stop — the spec's aggregator rule is "any stopped member ⇒ group
// Stopped," and a SIGTSTP delivered to a process group stops every
// member at essentially the same instant, so there's no need to keep
// waiting once one has been observed. Returns stopped=false once every
// tracked pid has exited or been signalled (remaining becomes empty).
func waitGroup(pgid int, pids []int) (stopped bool) {
	remaining := make(map[int]bool, len(pids))
	for _, p := range pids {
		remaining[p] = true
	}

	var status unix.WaitStatus
	for len(remaining) > 0 {
		wpid, err := unix.Wait4(-pgid, &status, unix.WUNTRACED, nil)
		if err == unix.EINTR {
			continue
		}
		if err == unix.ECHILD {
			return false
		}
		if err != nil {
			return false
		}

		if status.Stopped() {
			return true
		}
		if status.Exited() || status.Signaled() {
			delete(remaining, wpid)
		}
	}
	return false
}

// waitGroupUntilEmpty waits on every member of process group pgid with
// stop-reporting until the kernel reports no children remain in that
// group (ECHILD). Used when the caller knows a job's process group but
// not its individual member pids — the fg built-in resuming a
// previously stopped job, whose pids were never retained past launch.
func waitGroupUntilEmpty(pgid int) (stopped bool) {
	var status unix.WaitStatus
	for {
		_, err := unix.Wait4(-pgid, &status, unix.WUNTRACED, nil)
		if err == unix.EINTR {
			continue
		}
		if err == unix.ECHILD {
			return false
		}
		if err != nil {
			return false
		}
		if status.Stopped() {
			return true
		}
	}
}

// drainNonBlocking performs one non-blocking pass collecting every
// pending state-change event for any child, with stop and continue
// reporting, as spec.md §4.7 step 1 wants for the REPL's pending-reap
// drain. It calls fn once per reported event and keeps looping until
// Wait4 reports no more events (WNOHANG with no pid ready returns pid
// 0), matching the spec's "loop until waitpid returns no more children."
func drainNonBlocking(fn func(pid int, status unix.WaitStatus)) {
	var status unix.WaitStatus
	for {
		pid, err := unix.Wait4(-1, &status, unix.WNOHANG|unix.WUNTRACED|unix.WCONTINUED, nil)
		if err == unix.EINTR {
			continue
		}
		if err != nil || pid <= 0 {
			return
		}
		fn(pid, status)
	}
}

package builtins

import "golang.org/x/sys/unix"

// sendContinue sends SIGCONT to pgid's process group, per spec.md
// §4.6's fg/bg built-ins. ESRCH (group already gone, e.g. the user
// killed it from another terminal) is expected and ignored.
func sendContinue(pgid int) {
	if pgid <= 0 {
		return
	}
	_ = unix.Kill(-pgid, unix.SIGCONT)
}

// Package jobtable implements the shell's fixed-capacity job table: the
// mapping from a child process group to the user-visible job entry the
// jobs/fg/bg built-ins and the Done-line reporter operate on.
//
// The table is accessed only from the REPL's goroutine. internal/signalcore
// never mutates it directly — it only flags that a drain is needed.
package jobtable

import (
	"fmt"
	"io"
)

// Capacity is the maximum number of live (non-Done) jobs the table holds.
const Capacity = 20

// MaxCmdlineBytes bounds the stored copy of a job's command line.
const MaxCmdlineBytes = 2000

// Status is a job's lifecycle state.
type Status int

const (
	Running Status = iota
	Stopped
	// Done marks a job whose process group has fully exited or been
	// signalled. A Done entry is invisible to every lookup except the
	// ReapDoneAndPrint pass that prints it and then vacates its slot —
	// "Done ≡ vacant" from the entry's perspective.
	Done
)

func (s Status) String() string {
	switch s {
	case Running:
		return "Running"
	case Stopped:
		return "Stopped"
	default:
		return "Done"
	}
}

// Job is one entry in the table.
type Job struct {
	ID           int
	Pgid         int
	Cmdline      string
	Status       Status
	IsBackground bool
}

// slot wraps a Job with the bookkeeping bit that actually marks
// vacancy, kept separate from Status so a job can sit in Done state
// (occupied, awaiting ReapDoneAndPrint) distinctly from a slot that was
// never used.
type slot struct {
	occupied bool
	job      Job
}

// ErrFull is returned by Add when Capacity non-Done entries already exist.
var ErrFull = fmt.Errorf("job table full")

// Table is the fixed-capacity job table. The zero value is not usable;
// call New.
type Table struct {
	slots [Capacity]slot
}

// New returns an initialized table with every slot vacant.
func New() *Table {
	return &Table{}
}

// liveCount returns the number of occupied, non-Done slots — the count
// that Add's capacity check is against.
func (t *Table) liveCount() int {
	n := 0
	for i := range t.slots {
		if t.slots[i].occupied && t.slots[i].job.Status != Done {
			n++
		}
	}
	return n
}

// maxID returns the highest ID among occupied, non-Done entries, or 0.
func (t *Table) maxID() int {
	max := 0
	for i := range t.slots {
		if t.slots[i].occupied && t.slots[i].job.Status != Done && t.slots[i].job.ID > max {
			max = t.slots[i].job.ID
		}
	}
	return max
}

// Add inserts a new job for pgid with the given command-line label.
// Status is Running if background, Stopped otherwise (a job is only ever
// added directly as Stopped when it stopped while in the foreground,
// per spec.md §4.5). The new ID is 1 + the current maximum non-Done ID,
// so IDs never get recycled while a higher-numbered job is still alive.
func (t *Table) Add(pgid int, cmdline string, background bool) (int, error) {
	if t.liveCount() >= Capacity {
		return 0, ErrFull
	}

	free := -1
	for i := range t.slots {
		if !t.slots[i].occupied {
			free = i
			break
		}
	}
	if free == -1 {
		return 0, ErrFull
	}

	if len(cmdline) > MaxCmdlineBytes {
		cmdline = cmdline[:MaxCmdlineBytes]
	}

	id := t.maxID() + 1
	status := Stopped
	if background {
		status = Running
	}

	t.slots[free] = slot{
		occupied: true,
		job: Job{
			ID:           id,
			Pgid:         pgid,
			Cmdline:      cmdline,
			Status:       status,
			IsBackground: background,
		},
	}
	return id, nil
}

func (t *Table) findByPgid(pgid int) *Job {
	for i := range t.slots {
		if t.slots[i].occupied && t.slots[i].job.Status != Done && t.slots[i].job.Pgid == pgid {
			return &t.slots[i].job
		}
	}
	return nil
}

func (t *Table) findByID(id int) *Job {
	for i := range t.slots {
		if t.slots[i].occupied && t.slots[i].job.Status != Done && t.slots[i].job.ID == id {
			return &t.slots[i].job
		}
	}
	return nil
}

// Mark sets the status of the first non-Done entry whose pgid matches. A
// no-op if no such entry exists (the child may have already been reaped
// and compacted out).
func (t *Table) Mark(pgid int, status Status) {
	if j := t.findByPgid(pgid); j != nil {
		j.Status = status
	}
}

// SetBackground sets the background flag of the first non-Done entry
// whose pgid matches.
func (t *Table) SetBackground(pgid int, background bool) {
	if j := t.findByPgid(pgid); j != nil {
		j.IsBackground = background
	}
}

// GetPgid returns the process-group id for id and whether it was found.
func (t *Table) GetPgid(id int) (int, bool) {
	if j := t.findByID(id); j != nil {
		return j.Pgid, true
	}
	return 0, false
}

// GetCmdline returns the stored command-line label for id and whether it
// was found.
func (t *Table) GetCmdline(id int) (string, bool) {
	if j := t.findByID(id); j != nil {
		return j.Cmdline, true
	}
	return "", false
}

// Get returns a copy of the job with the given id, and whether it exists.
func (t *Table) Get(id int) (Job, bool) {
	if j := t.findByID(id); j != nil {
		return *j, true
	}
	return Job{}, false
}

// PickMostRecentForFg returns the ID of the highest-numbered entry whose
// status is Running or Stopped, or (0, false) if none qualify.
func (t *Table) PickMostRecentForFg() (int, bool) {
	best := -1
	for i := range t.slots {
		if !t.slots[i].occupied {
			continue
		}
		s := t.slots[i].job.Status
		if (s == Running || s == Stopped) && t.slots[i].job.ID > best {
			best = t.slots[i].job.ID
		}
	}
	if best == -1 {
		return 0, false
	}
	return best, true
}

// PickMostRecentStoppedForBg returns the ID of the highest-numbered
// Stopped entry, or (0, false) if none qualify.
func (t *Table) PickMostRecentStoppedForBg() (int, bool) {
	best := -1
	for i := range t.slots {
		if t.slots[i].occupied && t.slots[i].job.Status == Stopped && t.slots[i].job.ID > best {
			best = t.slots[i].job.ID
		}
	}
	if best == -1 {
		return 0, false
	}
	return best, true
}

// Snapshot returns a copy of every non-Done entry, ordered by ID
// ascending, for the jobs built-in and for --debug dumps.
func (t *Table) Snapshot() []Job {
	var out []Job
	for i := range t.slots {
		if t.slots[i].occupied && t.slots[i].job.Status != Done {
			out = append(out, t.slots[i].job)
		}
	}
	insertionSortByID(out)
	return out
}

// ReapDoneAndPrint writes a "[id] - Done cmdline\n" line to w for every
// entry currently Done with IsBackground true, then compacts the table
// by vacating every Done entry's slot (per spec.md §4.3, "a Done entry
// becomes invisible to all queries and is cleared at the next
// compaction").
func (t *Table) ReapDoneAndPrint(w io.Writer) {
	var toPrint []Job
	for i := range t.slots {
		if t.slots[i].occupied && t.slots[i].job.Status == Done && t.slots[i].job.IsBackground {
			toPrint = append(toPrint, t.slots[i].job)
		}
	}
	insertionSortByID(toPrint)
	for _, j := range toPrint {
		fmt.Fprintf(w, "[%d] - Done %s\n", j.ID, j.Cmdline)
	}

	for i := range t.slots {
		if t.slots[i].occupied && t.slots[i].job.Status == Done {
			t.slots[i] = slot{}
		}
	}
}

func insertionSortByID(jobs []Job) {
	for i := 1; i < len(jobs); i++ {
		for j := i; j > 0 && jobs[j].ID < jobs[j-1].ID; j-- {
			jobs[j], jobs[j-1] = jobs[j-1], jobs[j]
		}
	}
}

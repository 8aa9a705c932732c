package jobtable

import (
	"bytes"
	"strings"
	"testing"
)

func TestAddAssignsIncreasingIDs(t *testing.T) {
	tbl := New()
	id1, err := tbl.Add(100, "sleep 1 &", true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	id2, err := tbl.Add(200, "sleep 2 &", true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id1 != 1 || id2 != 2 {
		t.Fatalf("ids = %d, %d; want 1, 2", id1, id2)
	}
}

func TestAddStoppedVsBackgroundStatus(t *testing.T) {
	tbl := New()
	fgID, _ := tbl.Add(10, "vi", false)
	bgID, _ := tbl.Add(20, "sleep 1 &", true)

	fgJob, _ := tbl.Get(fgID)
	bgJob, _ := tbl.Get(bgID)

	if fgJob.Status != Stopped {
		t.Fatalf("foreground Add should start Stopped, got %v", fgJob.Status)
	}
	if bgJob.Status != Running {
		t.Fatalf("background Add should start Running, got %v", bgJob.Status)
	}
}

func TestTableFullAtCapacity(t *testing.T) {
	tbl := New()
	for i := 0; i < Capacity; i++ {
		if _, err := tbl.Add(i+1, "job", true); err != nil {
			t.Fatalf("Add %d failed unexpectedly: %v", i, err)
		}
	}
	if _, err := tbl.Add(999, "one too many", true); err != ErrFull {
		t.Fatalf("expected ErrFull at capacity, got %v", err)
	}
}

func TestIDsNotRecycledWhileHigherJobAlive(t *testing.T) {
	tbl := New()
	id1, _ := tbl.Add(1, "a", true)
	id2, _ := tbl.Add(2, "b", true)

	tbl.Mark(1, Done)
	tbl.ReapDoneAndPrint(&bytes.Buffer{})

	id3, err := tbl.Add(3, "c", true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id3 <= id2 {
		t.Fatalf("new id %d should exceed surviving id %d", id3, id2)
	}
	_ = id1
}

func TestReapDoneAndPrintOnlyReportsBackground(t *testing.T) {
	tbl := New()
	_, _ = tbl.Add(1, "sleep 1 &", true)
	_, _ = tbl.Add(2, "vi", false)

	tbl.Mark(1, Done)
	tbl.Mark(2, Done)

	var buf bytes.Buffer
	tbl.ReapDoneAndPrint(&buf)

	out := buf.String()
	if !strings.Contains(out, "[1] - Done sleep 1 &\n") {
		t.Fatalf("expected Done line for background job, got %q", out)
	}
	if strings.Contains(out, "[2]") {
		t.Fatalf("foreground Done job should not be printed, got %q", out)
	}

	if _, ok := tbl.Get(1); ok {
		t.Fatalf("slot 1 should be vacated after reap")
	}
	if _, ok := tbl.Get(2); ok {
		t.Fatalf("slot 2 should be vacated after reap")
	}
}

func TestPickMostRecentForFgIgnoresDoneAndEmpty(t *testing.T) {
	tbl := New()
	if _, ok := tbl.PickMostRecentForFg(); ok {
		t.Fatalf("expected no job on empty table")
	}

	id1, _ := tbl.Add(1, "a", true)
	id2, _ := tbl.Add(2, "b", false)
	tbl.Mark(id1, Done)

	best, ok := tbl.PickMostRecentForFg()
	if !ok || best != id2 {
		t.Fatalf("PickMostRecentForFg = %d, %v; want %d, true", best, ok, id2)
	}
}

func TestPickMostRecentStoppedForBg(t *testing.T) {
	tbl := New()
	if _, ok := tbl.PickMostRecentStoppedForBg(); ok {
		t.Fatalf("expected no job on empty table")
	}

	id1, _ := tbl.Add(1, "a", false) // Stopped
	_, _ = tbl.Add(2, "b", true)     // Running

	best, ok := tbl.PickMostRecentStoppedForBg()
	if !ok || best != id1 {
		t.Fatalf("PickMostRecentStoppedForBg = %d, %v; want %d, true", best, ok, id1)
	}
}

func TestSnapshotOrderedByID(t *testing.T) {
	tbl := New()
	_, _ = tbl.Add(3, "c", true)
	_, _ = tbl.Add(1, "a", true)
	_, _ = tbl.Add(2, "b", true)

	snap := tbl.Snapshot()
	if len(snap) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(snap))
	}
	for i := 1; i < len(snap); i++ {
		if snap[i].ID < snap[i-1].ID {
			t.Fatalf("Snapshot not sorted by ID: %+v", snap)
		}
	}
}

func TestCmdlineTruncatedAtCap(t *testing.T) {
	tbl := New()
	long := strings.Repeat("a", MaxCmdlineBytes+50)
	id, _ := tbl.Add(1, long, true)
	cmdline, _ := tbl.GetCmdline(id)
	if len(cmdline) != MaxCmdlineBytes {
		t.Fatalf("cmdline length = %d, want %d", len(cmdline), MaxCmdlineBytes)
	}
}

package model

import "testing"

func TestNextStatusCycles(t *testing.T) {
	if got := NextStatus(StatusTodo); got != StatusInProgress {
		t.Fatalf("expected IN_PROGRESS, got %q", got)
	}
	if got := NextStatus(StatusInProgress); got != StatusDone {
		t.Fatalf("expected DONE, got %q", got)
	}
	if got := NextStatus(StatusDone); got != StatusTodo {
		t.Fatalf("expected TODO, got %q", got)
	}
}

func TestCountTasks(t *testing.T) {
	counts := CountTasks(nil)
	if counts.Total != 0 || counts.Completed != 0 {
		t.Fatalf("expected zero counts, got %+v", counts)
	}

	tasks := []Task{
		{ID: 1, Status: StatusTodo},
		{ID: 2, Status: StatusDone},
		{ID: 3, Status: StatusDone},
	}
	counts = CountTasks(tasks)
	if counts.Total != 3 {
		t.Fatalf("expected total 3, got %d", counts.Total)
	}
	if counts.Completed != 2 {
		t.Fatalf("expected 2 completed, got %d", counts.Completed)
	}
}

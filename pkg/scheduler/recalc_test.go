package scheduler

import (
	"testing"
	"time"

	"timegrid/pkg/model"
)

func at(h, m int) time.Time {
	return time.Date(2026, 3, 2, h, m, 0, 0, time.UTC)
}

func tptr(t time.Time) *time.Time { return &t }

func ready(id string, minutes int) model.Task {
	return model.Task{
		ID:              id,
		Title:           id,
		State:           model.StateReady,
		Kind:            model.KindDurationOnly,
		RequiredMinutes: minutes,
	}
}

func anchored(id string, start, end time.Time) model.Task {
	return model.Task{
		ID:           id,
		Title:        id,
		State:        model.StateReady,
		Kind:         model.KindDurationOnly,
		FixedStartAt: tptr(start),
		FixedEndAt:   tptr(end),
	}
}

func TestRecalculate_PacksBackToBackFromNextQuarter(t *testing.T) {
	tasks := []model.Task{ready("a", 30), ready("b", 45)}
	out := RecalculateEstimatedStarts(tasks, at(9, 3))

	if out[0].EstimatedStartAt == nil || !out[0].EstimatedStartAt.Equal(at(9, 15)) {
		t.Fatalf("a: got %v, want 09:15", out[0].EstimatedStartAt)
	}
	if out[1].EstimatedStartAt == nil || !out[1].EstimatedStartAt.Equal(at(9, 45)) {
		t.Fatalf("b: got %v, want 09:45", out[1].EstimatedStartAt)
	}
}

func TestRecalculate_RoundsMinutesTo60IntoNextHour(t *testing.T) {
	out := RecalculateEstimatedStarts([]model.Task{ready("a", 15)}, at(9, 50))
	if !out[0].EstimatedStartAt.Equal(at(10, 0)) {
		t.Fatalf("got %v, want 10:00", out[0].EstimatedStartAt)
	}
}

func TestRecalculate_DisplacesPastAnchoredTasks(t *testing.T) {
	tasks := []model.Task{
		anchored("meeting", at(9, 30), at(10, 0)),
		ready("a", 30),
	}
	out := RecalculateEstimatedStarts(tasks, at(9, 0))

	// [09:00, 09:30) would intersect the meeting's tail? No: the cursor
	// placement [09:00, 09:30) touches but does not overlap [09:30,
	// 10:00). A 31-minute placement would. Use the packed second task to
	// force the jump.
	if out[1].EstimatedStartAt == nil || !out[1].EstimatedStartAt.Equal(at(9, 0)) {
		t.Fatalf("a fits before the meeting: got %v, want 09:00", out[1].EstimatedStartAt)
	}

	tasks = []model.Task{
		anchored("meeting", at(9, 15), at(10, 0)),
		ready("a", 30),
	}
	out = RecalculateEstimatedStarts(tasks, at(9, 0))
	if !out[1].EstimatedStartAt.Equal(at(10, 0)) {
		t.Fatalf("a displaced past the meeting: got %v, want 10:00", out[1].EstimatedStartAt)
	}
}

func TestRecalculate_ChainedObstacles(t *testing.T) {
	// Jumping past the first anchor lands inside the second.
	tasks := []model.Task{
		anchored("m1", at(9, 0), at(9, 45)),
		anchored("m2", at(9, 45), at(10, 30)),
		ready("a", 20),
	}
	out := RecalculateEstimatedStarts(tasks, at(9, 0))
	if !out[2].EstimatedStartAt.Equal(at(10, 30)) {
		t.Fatalf("got %v, want 10:30", out[2].EstimatedStartAt)
	}
}

func TestRecalculate_AnchoredEstimatedForcedNil(t *testing.T) {
	task := anchored("m", at(9, 0), at(10, 0))
	task.EstimatedStartAt = tptr(at(8, 0)) // stale derived value
	out := RecalculateEstimatedStarts([]model.Task{task}, at(9, 0))
	if out[0].EstimatedStartAt != nil {
		t.Fatalf("anchored estimated: got %v, want nil", out[0].EstimatedStartAt)
	}

	fe := model.Task{ID: "f", State: model.StateReady, Kind: model.KindFixedEvent,
		EstimatedStartAt: tptr(at(8, 0))}
	out = RecalculateEstimatedStarts([]model.Task{fe}, at(9, 0))
	if out[0].EstimatedStartAt != nil {
		t.Fatal("fixed_event estimated must always be nil")
	}
}

func TestRecalculate_TerminalUntouched(t *testing.T) {
	est := at(8, 0)
	running := ready("r", 30)
	running.State = model.StateRunning
	running.EstimatedStartAt = tptr(est)
	done := ready("d", 30)
	done.State = model.StateDone
	done.EstimatedStartAt = tptr(est)

	out := RecalculateEstimatedStarts([]model.Task{running, done}, at(9, 0))
	for i, got := range out {
		if got.EstimatedStartAt == nil || !got.EstimatedStartAt.Equal(est) {
			t.Fatalf("task %d: estimated %v, want untouched %v", i, got.EstimatedStartAt, est)
		}
	}
}

func TestRecalculate_InputNotMutated(t *testing.T) {
	tasks := []model.Task{ready("a", 30)}
	RecalculateEstimatedStarts(tasks, at(9, 0))
	if tasks[0].EstimatedStartAt != nil {
		t.Fatal("input snapshot was mutated")
	}
}

func TestRecalculate_NegativeDurationClamped(t *testing.T) {
	tasks := []model.Task{ready("bad", -10), ready("b", 30)}
	out := RecalculateEstimatedStarts(tasks, at(9, 0))
	// The bad task occupies one minute, not zero and not negative.
	if !out[1].EstimatedStartAt.Equal(at(9, 1)) {
		t.Fatalf("b: got %v, want 09:01", out[1].EstimatedStartAt)
	}
}

package model

import (
	"testing"
	"time"
)

func tp(h, m int) *time.Time {
	t := time.Date(2026, 3, 2, h, m, 0, 0, time.UTC)
	return &t
}

func TestDisplayStartAt_Precedence(t *testing.T) {
	fixed, window, estimated := tp(9, 0), tp(10, 0), tp(11, 0)

	all := Task{FixedStartAt: fixed, WindowStartAt: window, EstimatedStartAt: estimated}
	if got := all.DisplayStartAt(); got == nil || !got.Equal(*fixed) {
		t.Fatalf("all anchors: got %v, want fixed %v", got, fixed)
	}

	windowed := Task{WindowStartAt: window, EstimatedStartAt: estimated}
	if got := windowed.DisplayStartAt(); got == nil || !got.Equal(*window) {
		t.Fatalf("window+estimated: got %v, want window %v", got, window)
	}

	est := Task{EstimatedStartAt: estimated}
	if got := est.DisplayStartAt(); got == nil || !got.Equal(*estimated) {
		t.Fatalf("estimated only: got %v, want %v", got, estimated)
	}

	none := Task{}
	if got := none.DisplayStartAt(); got != nil {
		t.Fatalf("no anchors: got %v, want nil", got)
	}
}

func TestEffectiveMinutes_ClampsInvalid(t *testing.T) {
	cases := []struct {
		in, want int
	}{
		{-30, 1},
		{0, 1},
		{1, 1},
		{90, 90},
	}
	for _, c := range cases {
		if got := (Task{RequiredMinutes: c.in}).EffectiveMinutes(); got != c.want {
			t.Fatalf("EffectiveMinutes(%d) = %d, want %d", c.in, got, c.want)
		}
	}
}

func TestEffectivePriority_Default(t *testing.T) {
	if got := (Task{}).EffectivePriority(); got != DefaultPriority {
		t.Fatalf("nil priority: got %d, want %d", got, DefaultPriority)
	}
	p := 80
	if got := (Task{Priority: &p}).EffectivePriority(); got != 80 {
		t.Fatalf("explicit priority: got %d, want 80", got)
	}
}

func TestClassify(t *testing.T) {
	cases := []struct {
		name string
		task Task
		want SchedClass
	}{
		{"running is terminal", Task{State: StateRunning}, ClassTerminal},
		{"done is terminal", Task{State: StateDone}, ClassTerminal},
		{"fixed event is anchored", Task{State: StateReady, Kind: KindFixedEvent}, ClassAnchored},
		{"fixed start is anchored", Task{State: StateReady, FixedStartAt: tp(9, 0)}, ClassAnchored},
		{"ready is flexible", Task{State: StateReady, Kind: KindDurationOnly}, ClassFlexible},
		{"paused is flexible", Task{State: StatePaused, Kind: KindDurationOnly}, ClassFlexible},
		{"window does not anchor", Task{State: StateReady, WindowStartAt: tp(9, 0)}, ClassFlexible},
	}
	for _, c := range cases {
		if got := Classify(c.task); got != c.want {
			t.Fatalf("%s: got %v, want %v", c.name, got, c.want)
		}
	}
}

func TestAnchorEnd(t *testing.T) {
	start, end := tp(9, 0), tp(10, 30)

	explicit := Task{FixedStartAt: start, FixedEndAt: end}
	if got := explicit.AnchorEnd(); got == nil || !got.Equal(*end) {
		t.Fatalf("explicit end: got %v, want %v", got, end)
	}

	derived := Task{FixedStartAt: start, RequiredMinutes: 45}
	if got := derived.AnchorEnd(); got == nil || !got.Equal(start.Add(45*time.Minute)) {
		t.Fatalf("derived end: got %v, want %v", got, start.Add(45*time.Minute))
	}

	// An end before the start falls back to the duration.
	inverted := Task{FixedStartAt: end, FixedEndAt: start, RequiredMinutes: 15}
	if got := inverted.AnchorEnd(); got == nil || !got.Equal(end.Add(15*time.Minute)) {
		t.Fatalf("inverted end: got %v, want %v", got, end.Add(15*time.Minute))
	}

	if got := (Task{}).AnchorEnd(); got != nil {
		t.Fatalf("no fixed start: got %v, want nil", got)
	}
}

func TestClone_Independent(t *testing.T) {
	p := 70
	orig := Task{
		ID:           "t1",
		FixedStartAt: tp(9, 0),
		Priority:     &p,
		Tags:         []string{"deep"},
	}
	c := orig.Clone()

	*c.FixedStartAt = c.FixedStartAt.Add(time.Hour)
	*c.Priority = 10
	c.Tags[0] = "changed"

	if !orig.FixedStartAt.Equal(*tp(9, 0)) {
		t.Fatal("clone shares FixedStartAt pointer")
	}
	if *orig.Priority != 70 {
		t.Fatal("clone shares Priority pointer")
	}
	if orig.Tags[0] != "deep" {
		t.Fatal("clone shares Tags backing array")
	}
}

func TestFixedEventOccursOn(t *testing.T) {
	fe := FixedEvent{Days: []time.Weekday{time.Monday, time.Wednesday}}
	if !fe.OccursOn(time.Monday) {
		t.Fatal("expected Monday to match")
	}
	if fe.OccursOn(time.Sunday) {
		t.Fatal("expected Sunday not to match")
	}
}

func TestBlockOverlaps(t *testing.T) {
	b := ScheduleBlock{StartTime: *tp(9, 0), EndTime: *tp(10, 0)}
	if !b.Overlaps(*tp(9, 30), *tp(9, 45)) {
		t.Fatal("contained interval should overlap")
	}
	if b.Overlaps(*tp(10, 0), *tp(11, 0)) {
		t.Fatal("touching intervals should not overlap")
	}
}

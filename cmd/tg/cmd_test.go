package main

import (
	"path/filepath"
	"testing"
	"time"

	"timegrid/pkg/model"
	"timegrid/pkg/store"
)

// --- envOr tests ---

func TestEnvOr_EnvSet(t *testing.T) {
	t.Setenv("TEST_TG_ENV", "hello")
	if got := envOr("TEST_TG_ENV", "default"); got != "hello" {
		t.Fatalf("envOr with set env: got %q, want %q", got, "hello")
	}
}

func TestEnvOr_EnvUnset(t *testing.T) {
	if got := envOr("TEST_TG_UNSET_KEY_XYZ", "fallback"); got != "fallback" {
		t.Fatalf("envOr with unset env: got %q, want %q", got, "fallback")
	}
}

func TestEnvOr_EmptyEnv(t *testing.T) {
	t.Setenv("TEST_TG_EMPTY", "")
	if got := envOr("TEST_TG_EMPTY", "default"); got != "default" {
		t.Fatalf("envOr with empty env: got %q, want %q", got, "default")
	}
}

// --- parseClock tests ---

func TestParseClock(t *testing.T) {
	tests := []struct {
		in           string
		hour, minute int
		wantErr      bool
	}{
		{"09:15", 9, 15, false},
		{"00:00", 0, 0, false},
		{"23:59", 23, 59, false},
		{"24:00", 0, 0, true},
		{"9", 0, 0, true},
		{"lunch", 0, 0, true},
		{"", 0, 0, true},
	}
	for _, tt := range tests {
		h, m, err := parseClock(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("parseClock(%q): expected error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("parseClock(%q): %v", tt.in, err)
			continue
		}
		if h != tt.hour || m != tt.minute {
			t.Errorf("parseClock(%q) = %d:%d, want %d:%d", tt.in, h, m, tt.hour, tt.minute)
		}
	}
}

// --- weekday parsing tests ---

func TestParseWeekdays(t *testing.T) {
	got, err := parseWeekdays("Mon, wed,FRIDAY")
	if err != nil {
		t.Fatalf("parseWeekdays: %v", err)
	}
	want := []time.Weekday{time.Monday, time.Wednesday, time.Friday}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestParseWeekdays_EmptyMeansDaily(t *testing.T) {
	got, err := parseWeekdays("")
	if err != nil {
		t.Fatalf("parseWeekdays: %v", err)
	}
	if len(got) != 7 {
		t.Fatalf("got %d days, want 7", len(got))
	}
}

func TestParseWeekdays_Bad(t *testing.T) {
	if _, err := parseWeekdays("Mon,Funday"); err == nil {
		t.Fatal("expected error for bad weekday")
	}
}

func TestWeekdayLabels(t *testing.T) {
	full, _ := parseWeekdays("")
	if got := weekdayLabels(full); got != "daily" {
		t.Fatalf("full week label %q, want daily", got)
	}
	if got := weekdayLabels([]time.Weekday{time.Monday, time.Friday}); got != "Mon,Fri" {
		t.Fatalf("label %q, want Mon,Fri", got)
	}
}

// --- resolveDay tests ---

func TestResolveDay_Explicit(t *testing.T) {
	day, err := resolveDay("2026-03-02")
	if err != nil {
		t.Fatalf("resolveDay: %v", err)
	}
	if day.Year() != 2026 || day.Month() != time.March || day.Day() != 2 {
		t.Fatalf("day %v", day)
	}
	if day.Hour() != 0 || day.Minute() != 0 {
		t.Fatalf("day %v not at midnight", day)
	}
}

func TestResolveDay_DefaultIsToday(t *testing.T) {
	day, err := resolveDay("")
	if err != nil {
		t.Fatalf("resolveDay: %v", err)
	}
	now := time.Now()
	if !sameDay(day, now) {
		t.Fatalf("default day %v is not today", day)
	}
}

func TestResolveDay_Bad(t *testing.T) {
	if _, err := resolveDay("03/02/2026"); err == nil {
		t.Fatal("expected error for bad date format")
	}
}

// --- estimated start persistence ---

func TestSaveEstimatedStarts(t *testing.T) {
	s, err := store.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("store.New: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	a := &app{store: s}

	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	mk := func(id string, state model.TaskState) model.Task {
		return model.Task{ID: id, Title: id, State: state,
			Kind: model.KindDurationOnly, RequiredMinutes: 25, CreatedAt: day}
	}
	tasks := []model.Task{mk("flex", model.StateReady), mk("long", model.StateReady), mk("running", model.StateRunning)}
	for i := range tasks {
		if err := s.PutTask(&tasks[i]); err != nil {
			t.Fatal(err)
		}
	}

	blocks := []model.ScheduleBlock{
		{ID: "blk-flex", TaskID: "flex", BlockType: model.BlockFocus,
			StartTime: day.Add(9 * time.Hour), EndTime: day.Add(9*time.Hour + 25*time.Minute)},
		// Split parent: segment blocks only, earliest wins.
		{ID: "blk-long-seg-2", TaskID: "long-seg-2", BlockType: model.BlockFocus,
			StartTime: day.Add(11 * time.Hour), EndTime: day.Add(11*time.Hour + 30*time.Minute)},
		{ID: "blk-long-seg-1", TaskID: "long-seg-1", BlockType: model.BlockFocus,
			StartTime: day.Add(10 * time.Hour), EndTime: day.Add(10*time.Hour + 30*time.Minute)},
	}

	if err := a.saveEstimatedStarts(tasks, blocks); err != nil {
		t.Fatalf("saveEstimatedStarts: %v", err)
	}

	got, _ := s.GetTask("flex")
	if got.EstimatedStartAt == nil || !got.EstimatedStartAt.Equal(day.Add(9*time.Hour)) {
		t.Fatalf("flex estimated %v, want 09:00", got.EstimatedStartAt)
	}
	got, _ = s.GetTask("long")
	if got.EstimatedStartAt == nil || !got.EstimatedStartAt.Equal(day.Add(10*time.Hour)) {
		t.Fatalf("long estimated %v, want earliest segment 10:00", got.EstimatedStartAt)
	}
	// Terminal tasks are never written back.
	got, _ = s.GetTask("running")
	if got.EstimatedStartAt != nil {
		t.Fatalf("running task estimated %v, want untouched", got.EstimatedStartAt)
	}
}

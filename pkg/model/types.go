// Package model defines the core domain types for timegrid.
//
// Timegrid projects a task list and a day's calendar commitments onto a
// single timeline of time-boxed blocks. Two type families matter:
//
//   - Task is the input unit: user-authored work, a calendar-anchored
//     commitment, or a break. Which time field is authoritative depends on
//     the task's kind and state; DisplayStartAt encodes the precedence
//     every consumer must follow (fixed > window > estimated).
//
//   - ScheduleBlock is the output unit: a concrete interval on the day's
//     timeline with a display lane. Blocks are transient; the engine
//     recomputes them on every call and never persists them.
//
// The Origin enum marks blocks and tasks the engine synthesized (split
// segments, inserted breaks) so consumers never have to sniff tag strings,
// though the auto-split-* tags are still written for tag-reading code.
package model

import "time"

// TaskState is the execution lifecycle of a task, not its scheduling state.
type TaskState string

const (
	StateReady   TaskState = "READY"
	StateRunning TaskState = "RUNNING"
	StatePaused  TaskState = "PAUSED"
	StateDone    TaskState = "DONE"
)

// TaskKind determines which anchor fields are authoritative.
type TaskKind string

const (
	// KindDurationOnly tasks are placed by the engine (flexible).
	KindDurationOnly TaskKind = "duration_only"
	// KindFixedEvent tasks are anchored solely by FixedStartAt.
	KindFixedEvent TaskKind = "fixed_event"
	// KindBreak tasks are rest intervals, never split or streak-counted.
	KindBreak TaskKind = "break"
)

// Origin records who created a task or block. UserAuthored is the zero
// value so records loaded from older data default sensibly.
type Origin string

const (
	OriginUser          Origin = ""
	OriginSplitSegment  Origin = "split_segment"
	OriginSplitBreak    Origin = "split_break"
	OriginAdaptiveBreak Origin = "adaptive_break"
	OriginRoutine       Origin = "routine"
	OriginCalendar      Origin = "calendar"
)

// Sentinel tags written alongside Origin for consumers that read tags.
const (
	TagAutoSplitFocus = "auto-split-focus"
	TagAutoSplitBreak = "auto-split-break"
)

// DefaultPriority is assumed when a task carries no explicit priority.
const DefaultPriority = 50

// Task is a unit of work or event candidate for projection onto the day.
type Task struct {
	ID              string     `json:"id"`
	Title           string     `json:"title"`
	State           TaskState  `json:"state"`
	Kind            TaskKind   `json:"kind"`
	RequiredMinutes int        `json:"required_minutes"`
	FixedStartAt    *time.Time `json:"fixed_start_at,omitempty"`
	FixedEndAt      *time.Time `json:"fixed_end_at,omitempty"`
	WindowStartAt   *time.Time `json:"window_start_at,omitempty"`
	WindowEndAt     *time.Time `json:"window_end_at,omitempty"`

	// EstimatedStartAt is owned by the estimated-start recalculator.
	// Callers never hand-set it for READY/PAUSED tasks; for RUNNING and
	// DONE tasks it is immutable once set.
	EstimatedStartAt *time.Time `json:"estimated_start_at,omitempty"`

	Priority  *int      `json:"priority,omitempty"`
	Tags      []string  `json:"tags,omitempty"`
	Origin    Origin    `json:"origin,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Clone returns a deep copy. The engine clones every task it touches so
// caller-supplied snapshots are never mutated.
func (t Task) Clone() Task {
	c := t
	c.FixedStartAt = cloneTime(t.FixedStartAt)
	c.FixedEndAt = cloneTime(t.FixedEndAt)
	c.WindowStartAt = cloneTime(t.WindowStartAt)
	c.WindowEndAt = cloneTime(t.WindowEndAt)
	c.EstimatedStartAt = cloneTime(t.EstimatedStartAt)
	if t.Priority != nil {
		p := *t.Priority
		c.Priority = &p
	}
	if t.Tags != nil {
		c.Tags = append([]string(nil), t.Tags...)
	}
	return c
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

// EffectiveMinutes returns the task's duration clamped to at least one
// minute. Structurally invalid durations degrade instead of rejecting the
// whole projection.
func (t Task) EffectiveMinutes() int {
	if t.RequiredMinutes < 1 {
		return 1
	}
	return t.RequiredMinutes
}

// EffectivePriority returns the explicit priority or DefaultPriority.
func (t Task) EffectivePriority() int {
	if t.Priority == nil {
		return DefaultPriority
	}
	return *t.Priority
}

// DisplayStartAt returns the start time every consumer must display,
// following the strict precedence fixed > window > estimated. Nil when the
// task has no anchor at all.
func (t Task) DisplayStartAt() *time.Time {
	switch {
	case t.FixedStartAt != nil:
		return t.FixedStartAt
	case t.WindowStartAt != nil:
		return t.WindowStartAt
	default:
		return t.EstimatedStartAt
	}
}

// AnchorEnd returns the end of a fixed-anchored task's interval:
// FixedEndAt when set, otherwise FixedStartAt plus the duration.
// Nil for tasks without a fixed start.
func (t Task) AnchorEnd() *time.Time {
	if t.FixedStartAt == nil {
		return nil
	}
	if t.FixedEndAt != nil && t.FixedEndAt.After(*t.FixedStartAt) {
		return t.FixedEndAt
	}
	end := t.FixedStartAt.Add(time.Duration(t.EffectiveMinutes()) * time.Minute)
	return &end
}

// HasTag reports whether the task carries the given tag.
func (t Task) HasTag(tag string) bool {
	for _, v := range t.Tags {
		if v == tag {
			return true
		}
	}
	return false
}

// SchedClass is the closed set of scheduling-eligibility variants. Each
// task is classified exactly once at the head of the pipeline; components
// dispatch on the class instead of re-checking state/kind combinations.
type SchedClass int

const (
	// ClassAnchored tasks carry an authoritative fixed anchor and pass
	// through packing as immovable obstacles.
	ClassAnchored SchedClass = iota
	// ClassFlexible tasks (READY/PAUSED, no fixed anchor) receive an
	// EstimatedStartAt from the recalculator.
	ClassFlexible
	// ClassTerminal tasks (RUNNING/DONE) are read-only for the engine:
	// their EstimatedStartAt is never overwritten.
	ClassTerminal
)

// Classify dispatches a task into its scheduling class.
func Classify(t Task) SchedClass {
	if t.State == StateRunning || t.State == StateDone {
		return ClassTerminal
	}
	if t.Kind == KindFixedEvent || t.FixedStartAt != nil {
		return ClassAnchored
	}
	return ClassFlexible
}

// BlockType categorizes a schedule block for rendering.
type BlockType string

const (
	BlockFocus    BlockType = "focus"
	BlockBreak    BlockType = "break"
	BlockRoutine  BlockType = "routine"
	BlockCalendar BlockType = "calendar"
)

// ScheduleBlock is the engine's emitted output unit.
type ScheduleBlock struct {
	ID        string    `json:"id"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	BlockType BlockType `json:"block_type"`
	Origin    Origin    `json:"origin,omitempty"`

	// Locked is true for calendar/routine blocks (immovable), false for
	// algorithm-placed focus/break blocks.
	Locked bool `json:"locked"`

	// TaskID links back to the originating task. Breaks and routine
	// blocks may have none.
	TaskID string `json:"task_id,omitempty"`

	// Lane is the zero-based display lane assigned by the lane assigner.
	Lane int `json:"lane"`

	// Label is the display text fallback when no linked task exists.
	Label string `json:"label,omitempty"`
}

// Overlaps reports whether the block's interval intersects [start, end).
func (b ScheduleBlock) Overlaps(start, end time.Time) bool {
	return b.StartTime.Before(end) && b.EndTime.After(start)
}

// FixedEvent is a recurring template event definition.
type FixedEvent struct {
	ID              string         `json:"id"`
	Name            string         `json:"name"`
	StartTime       string         `json:"start_time"` // "HH:mm" wall clock
	DurationMinutes int            `json:"duration_minutes"`
	Days            []time.Weekday `json:"days"`
	Enabled         bool           `json:"enabled"`
}

// OccursOn reports whether the event recurs on the given weekday.
func (f FixedEvent) OccursOn(d time.Weekday) bool {
	for _, day := range f.Days {
		if day == d {
			return true
		}
	}
	return false
}

// DailyTemplate is the per-day scheduling configuration.
type DailyTemplate struct {
	WakeUp           string       `json:"wake_up"` // "HH:mm" wall clock
	Sleep            string       `json:"sleep"`   // "HH:mm" wall clock
	FixedEvents      []FixedEvent `json:"fixed_events,omitempty"`
	MaxParallelLanes int          `json:"max_parallel_lanes"`
}

// DefaultTemplate returns the template used when the user has configured
// nothing: 07:00 wake, 23:00 sleep, two display lanes.
func DefaultTemplate() *DailyTemplate {
	return &DailyTemplate{
		WakeUp:           "07:00",
		Sleep:            "23:00",
		MaxParallelLanes: 2,
	}
}

// CalendarEvent is an already-resolved external calendar occurrence.
// The importer treats it as an opaque locked interval.
type CalendarEvent struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
}

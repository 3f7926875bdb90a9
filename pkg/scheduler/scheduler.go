// Package scheduler projects tasks and calendar commitments onto a single
// day's timeline.
//
// The pipeline is a pure function of its inputs plus a supplied "now":
//
//	template + calendar events + tasks
//	  -> project recurring fixed events (locked routine blocks)
//	  -> import calendar events (locked calendar blocks)
//	  -> recalculate estimated starts for flexible tasks
//	  -> split over-long focus tasks into bounded segments
//	  -> insert adaptive breaks between consecutive focus tasks
//	  -> merge with locked blocks, sort by start
//	  -> assign display lanes
//
// No component reads a live clock or performs I/O, so identical inputs
// with an identical now always yield identical output. The engine never
// returns an error: malformed template strings degrade via wallclock.Parse
// and invalid durations are clamped, so the worst case is a default-time
// but well-formed schedule.
package scheduler

import (
	"sort"
	"time"

	"timegrid/pkg/model"
)

// Config holds the engine's tuning constants. The zero value is unusable;
// start from DefaultConfig.
type Config struct {
	// SegmentCeilingMinutes is the longest a single focus segment may
	// run before the splitter decomposes the task.
	SegmentCeilingMinutes int

	// SplitBreakMinutes is the rest inserted between split segments,
	// distinct from the streak-based adaptive breaks.
	SplitBreakMinutes int

	// BreakMinMinutes / BreakMaxMinutes clamp the adaptive break length.
	BreakMinMinutes int
	BreakMaxMinutes int

	// BreakRampStepMinutes is the per-streak increment of the adaptive
	// break length.
	BreakRampStepMinutes int

	// IdleResetGap is the idle interval between two focus tasks that
	// resets the focus streak back to zero.
	IdleResetGap time.Duration
}

// DefaultConfig returns the production tuning: 50-minute segments with
// 10-minute split breaks, adaptive breaks ramping 5..20 minutes in
// 3-minute steps, streak reset after an hour idle.
func DefaultConfig() Config {
	return Config{
		SegmentCeilingMinutes: 50,
		SplitBreakMinutes:     10,
		BreakMinMinutes:       5,
		BreakMaxMinutes:       20,
		BreakRampStepMinutes:  3,
		IdleResetGap:          time.Hour,
	}
}

// Engine runs the scheduling pipeline. Engines are stateless and safe for
// concurrent use.
type Engine struct {
	cfg Config
}

// New returns an engine with DefaultConfig.
func New() *Engine {
	return &Engine{cfg: DefaultConfig()}
}

// WithConfig returns an engine with custom tuning.
func WithConfig(cfg Config) *Engine {
	return &Engine{cfg: cfg}
}

// Input is one invocation's snapshot. All fields but Now are optional;
// a zero Now falls back to the real clock, but production callers should
// pass it explicitly for determinism.
type Input struct {
	Template       *model.DailyTemplate
	Tasks          []model.Task
	CalendarEvents []model.CalendarEvent
	Now            time.Time
}

// Generate runs the full pipeline and returns the day's blocks sorted
// ascending by start time. It returns a valid (possibly empty) slice for
// any combination of missing inputs and never panics on malformed
// template strings.
func (e *Engine) Generate(in Input) []model.ScheduleBlock {
	now := in.Now
	if now.IsZero() {
		now = time.Now()
	}

	locked := ProjectFixedEvents(in.Template, now)
	locked = append(locked, ImportCalendarBlocks(in.CalendarEvents)...)

	tasks := RecalculateEstimatedStarts(in.Tasks, now)
	tasks = e.SplitLongTasks(tasks)
	ordered := orderForTimeline(tasks)

	blocks := append(locked, e.insertBreaks(ordered, locked)...)
	sortBlocks(blocks)

	lanes := 0
	if in.Template != nil {
		lanes = in.Template.MaxParallelLanes
	}
	if lanes == 0 {
		lanes = model.DefaultTemplate().MaxParallelLanes
	}
	return AssignLanes(blocks, lanes)
}

// orderForTimeline sorts placeable tasks by display start. Priority is a
// tiebreaker only: it never reorders tasks with distinct starts. Tasks
// with no anchor at all sort last in their input order.
func orderForTimeline(tasks []model.Task) []model.Task {
	out := append([]model.Task(nil), tasks...)
	sort.SliceStable(out, func(i, j int) bool {
		si, sj := out[i].DisplayStartAt(), out[j].DisplayStartAt()
		switch {
		case si == nil:
			return false
		case sj == nil:
			return true
		case si.Equal(*sj):
			return out[i].EffectivePriority() > out[j].EffectivePriority()
		default:
			return si.Before(*sj)
		}
	})
	return out
}

func sortBlocks(blocks []model.ScheduleBlock) {
	sort.SliceStable(blocks, func(i, j int) bool {
		return blocks[i].StartTime.Before(blocks[j].StartTime)
	})
}

package scheduler

import (
	"sort"
	"time"

	"timegrid/pkg/model"
)

// insertBreaks walks the time-ordered task sequence and emits one block
// per placeable task plus adaptive break blocks between consecutive focus
// tasks.
//
// A running focus streak grows by one per consecutive focus task and
// resets to zero when the idle gap between one task's end and the next
// task's start reaches IdleResetGap. Break length is a non-decreasing
// function of the streak clamped to [BreakMinMinutes, BreakMaxMinutes],
// so the first break after a reset lands near the minimum again.
//
// Flexible tasks (estimated-start owned) are pushed later to make room
// for inserted breaks, re-displacing past locked and anchored intervals.
// Anchored and windowed tasks never move; breaks adjacent to them only
// fill whatever free gap exists and never overlap locked blocks. DONE
// tasks are emitted unmodified and do not participate in streak or
// placement logic.
func (e *Engine) insertBreaks(ordered []model.Task, locked []model.ScheduleBlock) []model.ScheduleBlock {
	lockedSpans := make([]span, 0, len(locked))
	for _, b := range locked {
		lockedSpans = append(lockedSpans, span{b.StartTime, b.EndTime})
	}
	obstacles := append([]span(nil), lockedSpans...)
	for _, t := range ordered {
		if model.Classify(t) == model.ClassAnchored && t.FixedStartAt != nil {
			obstacles = append(obstacles, span{*t.FixedStartAt, *t.AnchorEnd()})
		}
	}
	sort.Slice(lockedSpans, func(i, j int) bool { return lockedSpans[i].start.Before(lockedSpans[j].start) })

	var blocks []model.ScheduleBlock
	streak := 0
	var prevEnd time.Time
	var prevID string
	prevFocus := false
	havePrev := false
	var chainEnd time.Time

	for _, t := range ordered {
		at := t.DisplayStartAt()
		if at == nil {
			// Nothing to place this task by; it stays a task-list-only record.
			continue
		}
		dur := time.Duration(t.EffectiveMinutes()) * time.Minute

		if t.State == model.StateDone {
			blocks = append(blocks, taskBlock(t, *at, at.Add(dur)))
			continue
		}

		start := *at
		movable := t.FixedStartAt == nil && t.WindowStartAt == nil &&
			t.Kind != model.KindFixedEvent && t.State != model.StateRunning
		if movable {
			if !chainEnd.IsZero() && start.Before(chainEnd) {
				start = chainEnd
			}
			start = displace(start, dur, obstacles)
		}

		isFocus := t.Kind == model.KindDurationOnly
		if isFocus && prevFocus && havePrev {
			gap := start.Sub(prevEnd)
			if gap >= e.cfg.IdleResetGap {
				streak = 0
			}
			blen := time.Duration(e.breakMinutes(streak)) * time.Minute
			bEnd := trimToFree(prevEnd, prevEnd.Add(blen), lockedSpans)
			if !movable && start.Before(bEnd) {
				bEnd = start
			}
			if bEnd.Sub(prevEnd) >= time.Minute {
				blocks = append(blocks, model.ScheduleBlock{
					ID:        "break-after-" + prevID,
					StartTime: prevEnd,
					EndTime:   bEnd,
					BlockType: model.BlockBreak,
					Origin:    model.OriginAdaptiveBreak,
					Label:     "Break",
				})
				if movable && start.Before(bEnd) {
					start = displace(bEnd, dur, obstacles)
				}
			}
		}

		end := start.Add(dur)
		if t.FixedStartAt != nil {
			start, end = *t.FixedStartAt, *t.AnchorEnd()
		}
		blocks = append(blocks, taskBlock(t, start, end))

		if isFocus {
			streak++
		}
		prevEnd, prevID, prevFocus, havePrev = end, t.ID, isFocus, true
		if end.After(chainEnd) {
			chainEnd = end
		}
	}
	return blocks
}

// breakMinutes maps the current focus streak to an adaptive break length.
// Monotonically non-decreasing, clamped to the configured bounds. The
// streak is at least one when a break is being placed, which bumps the
// first break slightly above the bare minimum.
func (e *Engine) breakMinutes(streak int) int {
	if streak < 1 {
		streak = 1
	}
	m := e.cfg.BreakMinMinutes + e.cfg.BreakRampStepMinutes*streak
	if m < e.cfg.BreakMinMinutes {
		m = e.cfg.BreakMinMinutes
	}
	if m > e.cfg.BreakMaxMinutes {
		m = e.cfg.BreakMaxMinutes
	}
	return m
}

// trimToFree shortens the candidate interval [start, end) so it does not
// overlap any locked span. Returns start itself (an empty interval) when
// start already falls inside a locked span.
func trimToFree(start, end time.Time, lockedSpans []span) time.Time {
	for _, s := range lockedSpans {
		if !s.start.After(start) && s.end.After(start) {
			return start
		}
		if s.start.After(start) && s.start.Before(end) {
			end = s.start
		}
	}
	return end
}

func taskBlock(t model.Task, start, end time.Time) model.ScheduleBlock {
	bt := model.BlockFocus
	if t.Kind == model.KindBreak {
		bt = model.BlockBreak
	}
	return model.ScheduleBlock{
		ID:        "blk-" + t.ID,
		StartTime: start,
		EndTime:   end,
		BlockType: bt,
		Origin:    t.Origin,
		TaskID:    t.ID,
		Label:     t.Title,
	}
}

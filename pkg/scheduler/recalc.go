package scheduler

import (
	"sort"
	"time"

	"timegrid/pkg/model"
	"timegrid/pkg/wallclock"
)

// span is a half-open [start, end) interval on the day's timeline.
type span struct {
	start, end time.Time
}

func (s span) blocks(start time.Time, dur time.Duration) bool {
	return start.Before(s.end) && start.Add(dur).After(s.start)
}

// RecalculateEstimatedStarts derives EstimatedStartAt for every flexible
// task by packing them back-to-back in input order from now rounded up to
// the next quarter hour. Anchored tasks pass through as immovable
// obstacles with EstimatedStartAt forced to nil; RUNNING and DONE tasks
// pass through with EstimatedStartAt untouched.
//
// The input slice is never mutated; the returned tasks are deep copies.
func RecalculateEstimatedStarts(tasks []model.Task, now time.Time) []model.Task {
	out := make([]model.Task, len(tasks))
	var obstacles []span
	for i, t := range tasks {
		out[i] = t.Clone()
		if model.Classify(t) == model.ClassAnchored && t.FixedStartAt != nil {
			obstacles = append(obstacles, span{*t.FixedStartAt, *t.AnchorEnd()})
		}
	}
	sort.Slice(obstacles, func(i, j int) bool {
		return obstacles[i].start.Before(obstacles[j].start)
	})

	cursor := wallclock.NextQuarter(now)
	for i := range out {
		t := &out[i]
		switch model.Classify(*t) {
		case model.ClassAnchored:
			// fixedStartAt is the sole anchor; estimated is always nil.
			t.EstimatedStartAt = nil
		case model.ClassTerminal:
			// Read-only for this engine.
		case model.ClassFlexible:
			dur := time.Duration(t.EffectiveMinutes()) * time.Minute
			cursor = displace(cursor, dur, obstacles)
			start := cursor
			t.EstimatedStartAt = &start
			cursor = cursor.Add(dur)
		}
	}
	return out
}

// displace advances start past every obstacle the placement [start,
// start+dur) would intersect. Jumping past one obstacle can land inside
// the next, so it loops until the placement is clear.
func displace(start time.Time, dur time.Duration, obstacles []span) time.Time {
	for moved := true; moved; {
		moved = false
		for _, ob := range obstacles {
			if ob.blocks(start, dur) && ob.end.After(start) {
				start = ob.end
				moved = true
			}
		}
	}
	return start
}

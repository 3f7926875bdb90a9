package scheduler

import (
	"time"

	"timegrid/pkg/model"
)

// laneClamp bounds the configured lane count; rendering cannot cope with
// pathological template values.
const (
	minLanes = 1
	maxLanes = 5
)

// AssignLanes resolves temporal overlap among blocks into parallel
// display lanes by greedy interval coloring. Blocks must be sorted by
// start time. Each block takes the lowest-numbered lane that is free at
// its start; when every lane is occupied and the clamp forbids opening
// another, the lane with the earliest-ending occupant is reused, so a
// block is never dropped for lane capacity (visual overlap is accepted
// instead).
func AssignLanes(blocks []model.ScheduleBlock, maxParallelLanes int) []model.ScheduleBlock {
	if maxParallelLanes < minLanes {
		maxParallelLanes = minLanes
	}
	if maxParallelLanes > maxLanes {
		maxParallelLanes = maxLanes
	}

	var laneEnds []time.Time
	for i := range blocks {
		b := &blocks[i]

		lane := -1
		for l, end := range laneEnds {
			if !end.After(b.StartTime) {
				lane = l
				break
			}
		}
		if lane == -1 {
			if len(laneEnds) < maxParallelLanes {
				laneEnds = append(laneEnds, time.Time{})
				lane = len(laneEnds) - 1
			} else {
				// At capacity: reuse the earliest-ending lane.
				lane = 0
				for l := 1; l < len(laneEnds); l++ {
					if laneEnds[l].Before(laneEnds[lane]) {
						lane = l
					}
				}
			}
		}
		b.Lane = lane
		if b.EndTime.After(laneEnds[lane]) {
			laneEnds[lane] = b.EndTime
		}
	}
	return blocks
}

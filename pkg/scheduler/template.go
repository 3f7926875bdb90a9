package scheduler

import (
	"fmt"
	"time"

	"timegrid/pkg/model"
	"timegrid/pkg/wallclock"
)

// ProjectFixedEvents expands the template's recurring fixed events into
// concrete locked routine blocks for the given day. Disabled events and
// events not recurring on the day's weekday are skipped. Overlapping
// events are emitted independently; the lane assigner resolves them.
func ProjectFixedEvents(tpl *model.DailyTemplate, day time.Time) []model.ScheduleBlock {
	if tpl == nil {
		return nil
	}
	var blocks []model.ScheduleBlock
	for _, fe := range tpl.FixedEvents {
		if !fe.Enabled || !fe.OccursOn(day.Weekday()) {
			continue
		}
		h, m := wallclock.Parse(fe.StartTime)
		start := wallclock.At(day, h, m)
		minutes := fe.DurationMinutes
		if minutes < 1 {
			minutes = 1
		}
		blocks = append(blocks, model.ScheduleBlock{
			ID:        fmt.Sprintf("routine-%s-%s", fe.ID, day.Format("2006-01-02")),
			StartTime: start,
			EndTime:   start.Add(time.Duration(minutes) * time.Minute),
			BlockType: model.BlockRoutine,
			Origin:    model.OriginRoutine,
			Locked:    true,
			Label:     fe.Name,
		})
	}
	return blocks
}

// DayBounds resolves the template's wake and sleep wall-clock strings
// against the given day. Malformed strings parse to 00:00. A sleep time
// at or before wake rolls into the next day (23:00 to 07:00 spans
// midnight).
func DayBounds(tpl *model.DailyTemplate, day time.Time) (start, end time.Time) {
	if tpl == nil {
		tpl = model.DefaultTemplate()
	}
	wh, wm := wallclock.Parse(tpl.WakeUp)
	sh, sm := wallclock.Parse(tpl.Sleep)
	start = wallclock.At(day, wh, wm)
	end = wallclock.At(day, sh, sm)
	if !end.After(start) {
		end = end.AddDate(0, 0, 1)
	}
	return start, end
}

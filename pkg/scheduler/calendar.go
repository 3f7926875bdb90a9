package scheduler

import (
	"timegrid/pkg/model"
)

// ImportCalendarBlocks converts externally supplied calendar events into
// locked calendar blocks. Events arrive already resolved to concrete
// occurrences; no time-zone conversion or recurrence expansion happens
// here. Events whose end does not follow their start are dropped rather
// than emitted as zero-width obstacles.
func ImportCalendarBlocks(events []model.CalendarEvent) []model.ScheduleBlock {
	var blocks []model.ScheduleBlock
	for _, ev := range events {
		if !ev.EndTime.After(ev.StartTime) {
			continue
		}
		blocks = append(blocks, model.ScheduleBlock{
			ID:        "cal-" + ev.ID,
			StartTime: ev.StartTime,
			EndTime:   ev.EndTime,
			BlockType: model.BlockCalendar,
			Origin:    model.OriginCalendar,
			Locked:    true,
			Label:     ev.Title,
		})
	}
	return blocks
}

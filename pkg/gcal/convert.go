package gcal

import (
	"fmt"
	"time"

	"google.golang.org/api/calendar/v3"

	"timegrid/pkg/model"
)

// eventToModel converts an API event to a model event. It returns nil
// for events that should not occupy timeline space: cancelled events,
// all-day events (no dateTime), and events the user declined.
func eventToModel(ev *calendar.Event) (*model.CalendarEvent, error) {
	if ev.Status == "cancelled" {
		return nil, nil
	}
	if ev.Start == nil || ev.End == nil || ev.Start.DateTime == "" || ev.End.DateTime == "" {
		return nil, nil
	}
	if selfDeclined(ev) {
		return nil, nil
	}

	start, err := time.Parse(time.RFC3339, ev.Start.DateTime)
	if err != nil {
		return nil, fmt.Errorf("parse start of event %s: %w", ev.Id, err)
	}
	end, err := time.Parse(time.RFC3339, ev.End.DateTime)
	if err != nil {
		return nil, fmt.Errorf("parse end of event %s: %w", ev.Id, err)
	}

	title := ev.Summary
	if title == "" {
		title = "(untitled)"
	}
	return &model.CalendarEvent{
		ID:        ev.Id,
		Title:     title,
		StartTime: start,
		EndTime:   end,
	}, nil
}

func selfDeclined(ev *calendar.Event) bool {
	for _, att := range ev.Attendees {
		if att.Self && att.ResponseStatus == "declined" {
			return true
		}
	}
	return false
}

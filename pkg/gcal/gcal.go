// Package gcal pulls events from Google Calendar so the day engine can
// treat them as immovable blocks.
//
// The package is read-only by design: timegrid never writes events back
// to the calendar. Authorization uses the standard installed-app OAuth
// flow with a localhost redirect; the token is cached on disk next to
// the credentials file.
package gcal

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"timegrid/pkg/model"
)

// Client is a read-only Google Calendar client bound to one calendar.
type Client struct {
	srv        *calendar.Service
	calendarID string
}

// NewClient builds an authenticated client and resolves calendarName to
// a calendar ID. An empty name selects the primary calendar. It fails
// if no cached token exists; run the auth flow first.
func NewClient(ctx context.Context, credentialsPath, tokenPath, calendarName string) (*Client, error) {
	httpClient, err := newHTTPClient(ctx, credentialsPath, tokenPath)
	if err != nil {
		return nil, err
	}
	srv, err := calendar.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("create calendar service: %w", err)
	}

	id, err := resolveCalendarID(srv, calendarName)
	if err != nil {
		return nil, err
	}
	return &Client{srv: srv, calendarID: id}, nil
}

func resolveCalendarID(srv *calendar.Service, name string) (string, error) {
	if name == "" {
		return "primary", nil
	}
	list, err := srv.CalendarList.List().Do()
	if err != nil {
		return "", fmt.Errorf("list calendars: %w", err)
	}
	for _, item := range list.Items {
		if item.Summary == name {
			return item.Id, nil
		}
	}
	return "", fmt.Errorf("calendar %q not found", name)
}

// EventsForDay fetches the timed events overlapping the given day.
// Recurring events are expanded into single instances. All-day,
// cancelled, and self-declined events are dropped.
func (c *Client) EventsForDay(ctx context.Context, day time.Time) ([]model.CalendarEvent, error) {
	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)

	call := c.srv.Events.List(c.calendarID).
		TimeMin(dayStart.Format(time.RFC3339)).
		TimeMax(dayEnd.Format(time.RFC3339)).
		SingleEvents(true).
		OrderBy("startTime")

	var events []model.CalendarEvent
	if err := call.Pages(ctx, func(page *calendar.Events) error {
		for _, item := range page.Items {
			ev, err := eventToModel(item)
			if err != nil {
				return err
			}
			if ev != nil {
				events = append(events, *ev)
			}
		}
		return nil
	}); err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return events, nil
}

package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"timegrid/pkg/gcal"
)

func (a *app) cmdSync(args []string) int {
	flags := flag.NewFlagSet("sync", flag.ContinueOnError)
	date := flags.String("date", "", "day to sync, YYYY-MM-DD (default: today)")
	calName := flags.String("calendar", envOr("TIMEGRID_CALENDAR", ""), "calendar name (default: primary)")
	jsonOut := flags.Bool("json", false, "JSON output")
	if err := flags.Parse(args); err != nil {
		return 1
	}

	day, err := resolveDay(*date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "tg: %v\n", err)
		return 1
	}

	ctx := context.Background()
	credentials, token := credentialPaths()
	client, err := gcal.NewClient(ctx, credentials, token, *calName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "tg: sync: %v\n", err)
		return 1
	}

	events, err := client.EventsForDay(ctx, day)
	if err != nil {
		fmt.Fprintf(os.Stderr, "tg: sync: %v\n", err)
		return 1
	}
	if err := a.store.ReplaceCalendarDay(day, events); err != nil {
		fmt.Fprintf(os.Stderr, "tg: sync: %v\n", err)
		return 1
	}

	if *jsonOut {
		printJSON(map[string]interface{}{
			"day": day.Format("2006-01-02"), "events": events,
		})
	} else {
		fmt.Printf("synced %d event(s) for %s\n", len(events), day.Format("2006-01-02"))
		for _, ev := range events {
			fmt.Printf("  %s-%s %s\n", clockLabel(ev.StartTime), clockLabel(ev.EndTime), ev.Title)
		}
	}
	return 0
}

package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"timegrid/pkg/model"
	"timegrid/pkg/schedcache"
	"timegrid/pkg/scheduler"
)

func (a *app) cmdSchedule(args []string) int {
	flags := flag.NewFlagSet("schedule", flag.ContinueOnError)
	date := flags.String("date", "", "day to schedule, YYYY-MM-DD (default: today)")
	save := flags.Bool("save", true, "persist recomputed estimated starts")
	jsonOut := flags.Bool("json", false, "JSON output")
	if err := flags.Parse(args); err != nil {
		return 1
	}

	day, err := resolveDay(*date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "tg: %v\n", err)
		return 1
	}

	tpl, err := a.store.GetTemplate()
	if err != nil {
		fmt.Fprintf(os.Stderr, "tg: schedule: %v\n", err)
		return 1
	}
	tasks, err := a.store.ListTasks()
	if err != nil {
		fmt.Fprintf(os.Stderr, "tg: schedule: %v\n", err)
		return 1
	}
	events, err := a.store.ListCalendarEvents(day)
	if err != nil {
		fmt.Fprintf(os.Stderr, "tg: schedule: %v\n", err)
		return 1
	}

	// Scheduling a future day packs from its wake time; today packs from
	// the real clock.
	now := time.Now()
	if !sameDay(day, now) {
		now, _ = scheduler.DayBounds(tpl, day)
	}

	engine := scheduler.New()
	cache := schedcache.New(schedcache.DefaultTTL)
	blocks := cache.Generate(engine, scheduler.Input{
		Template:       tpl,
		Tasks:          tasks,
		CalendarEvents: events,
		Now:            now,
	})

	if *save {
		if err := a.saveEstimatedStarts(tasks, blocks); err != nil {
			fmt.Fprintf(os.Stderr, "tg: schedule: %v\n", err)
			return 1
		}
	}

	if *jsonOut {
		printJSON(blocks)
		return 0
	}
	if len(blocks) == 0 {
		fmt.Println("nothing scheduled")
		return 0
	}
	for _, b := range blocks {
		lock := " "
		if b.Locked {
			lock = "*"
		}
		fmt.Printf("%s-%s %s lane %d  %-8s %s\n",
			clockLabel(b.StartTime), clockLabel(b.EndTime), lock, b.Lane, b.BlockType, b.Label)
	}
	return 0
}

// saveEstimatedStarts writes the engine's recomputed starts back to the
// store. Split segments carry IDs derived from their parent, so a split
// parent inherits the start of its earliest segment.
func (a *app) saveEstimatedStarts(tasks []model.Task, blocks []model.ScheduleBlock) error {
	for _, t := range tasks {
		if model.Classify(t) != model.ClassFlexible {
			continue
		}
		var earliest *time.Time
		for _, b := range blocks {
			if b.Locked || b.BlockType != model.BlockFocus {
				continue
			}
			if b.TaskID != t.ID && !strings.HasPrefix(b.TaskID, t.ID+"-seg-") {
				continue
			}
			if earliest == nil || b.StartTime.Before(*earliest) {
				start := b.StartTime
				earliest = &start
			}
		}
		if err := a.store.SetEstimatedStart(t.ID, earliest); err != nil {
			return fmt.Errorf("save estimated start for %s: %w", t.ID, err)
		}
	}
	return nil
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"timegrid/pkg/model"
)

func (a *app) cmdTemplate(args []string) int {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "usage: tg template <show|set|add-event|rm-event> ...")
		return 1
	}
	switch args[0] {
	case "show":
		return a.cmdTemplateShow(args[1:])
	case "set":
		return a.cmdTemplateSet(args[1:])
	case "add-event":
		return a.cmdTemplateAddEvent(args[1:])
	case "rm-event":
		return a.cmdTemplateRmEvent(args[1:])
	default:
		fmt.Fprintf(os.Stderr, "tg: unknown template subcommand %q\n", args[0])
		return 1
	}
}

func (a *app) cmdTemplateShow(args []string) int {
	flags := flag.NewFlagSet("template show", flag.ContinueOnError)
	jsonOut := flags.Bool("json", false, "JSON output")
	if err := flags.Parse(args); err != nil {
		return 1
	}

	tpl, err := a.store.GetTemplate()
	if err != nil {
		fmt.Fprintf(os.Stderr, "tg: template show: %v\n", err)
		return 1
	}

	if *jsonOut {
		printJSON(tpl)
		return 0
	}
	fmt.Printf("wake %s  sleep %s  lanes %d\n", tpl.WakeUp, tpl.Sleep, tpl.MaxParallelLanes)
	if len(tpl.FixedEvents) == 0 {
		fmt.Println("no recurring events")
		return 0
	}
	for _, fe := range tpl.FixedEvents {
		state := "on"
		if !fe.Enabled {
			state = "off"
		}
		fmt.Printf("%s  %3dm  %-3s %s  %s  (%s)\n",
			fe.StartTime, fe.DurationMinutes, state, weekdayLabels(fe.Days), fe.Name, fe.ID)
	}
	return 0
}

func (a *app) cmdTemplateSet(args []string) int {
	flags := flag.NewFlagSet("template set", flag.ContinueOnError)
	wake := flags.String("wake", "", "wake time HH:mm")
	sleep := flags.String("sleep", "", "sleep time HH:mm")
	lanes := flags.Int("lanes", 0, "max parallel display lanes (1-5)")
	jsonOut := flags.Bool("json", false, "JSON output")
	if err := flags.Parse(args); err != nil {
		return 1
	}

	tpl, err := a.store.GetTemplate()
	if err != nil {
		fmt.Fprintf(os.Stderr, "tg: template set: %v\n", err)
		return 1
	}

	if *wake != "" {
		if _, _, err := parseClock(*wake); err != nil {
			fmt.Fprintf(os.Stderr, "tg: --wake: %v\n", err)
			return 1
		}
		tpl.WakeUp = *wake
	}
	if *sleep != "" {
		if _, _, err := parseClock(*sleep); err != nil {
			fmt.Fprintf(os.Stderr, "tg: --sleep: %v\n", err)
			return 1
		}
		tpl.Sleep = *sleep
	}
	if *lanes != 0 {
		if *lanes < 1 || *lanes > 5 {
			fmt.Fprintln(os.Stderr, "tg: --lanes must be in 1..5")
			return 1
		}
		tpl.MaxParallelLanes = *lanes
	}

	if err := a.store.SaveTemplate(tpl); err != nil {
		fmt.Fprintf(os.Stderr, "tg: template set: %v\n", err)
		return 1
	}
	if *jsonOut {
		printJSON(tpl)
	} else {
		fmt.Printf("template: wake %s, sleep %s, %d lanes\n", tpl.WakeUp, tpl.Sleep, tpl.MaxParallelLanes)
	}
	return 0
}

func (a *app) cmdTemplateAddEvent(args []string) int {
	flags := flag.NewFlagSet("template add-event", flag.ContinueOnError)
	name := flags.String("name", "", "event name")
	start := flags.String("start", "", "start time HH:mm")
	minutes := flags.Int("minutes", 30, "duration in minutes")
	days := flags.String("days", "", "comma-separated weekdays (Mon,Tue,...); empty = every day")
	jsonOut := flags.Bool("json", false, "JSON output")
	if err := flags.Parse(args); err != nil {
		return 1
	}
	if *name == "" || *start == "" {
		fmt.Fprintln(os.Stderr, "usage: tg template add-event --name <name> --start HH:mm [--minutes N] [--days Mon,Tue]")
		return 1
	}
	if _, _, err := parseClock(*start); err != nil {
		fmt.Fprintf(os.Stderr, "tg: --start: %v\n", err)
		return 1
	}
	if *minutes < 1 {
		fmt.Fprintln(os.Stderr, "tg: --minutes must be at least 1")
		return 1
	}
	weekdays, err := parseWeekdays(*days)
	if err != nil {
		fmt.Fprintf(os.Stderr, "tg: %v\n", err)
		return 1
	}

	tpl, err := a.store.GetTemplate()
	if err != nil {
		fmt.Fprintf(os.Stderr, "tg: template add-event: %v\n", err)
		return 1
	}
	fe := model.FixedEvent{
		ID:              uuid.NewString(),
		Name:            *name,
		StartTime:       *start,
		DurationMinutes: *minutes,
		Days:            weekdays,
		Enabled:         true,
	}
	tpl.FixedEvents = append(tpl.FixedEvents, fe)
	if err := a.store.SaveTemplate(tpl); err != nil {
		fmt.Fprintf(os.Stderr, "tg: template add-event: %v\n", err)
		return 1
	}

	if *jsonOut {
		printJSON(fe)
	} else {
		fmt.Printf("added %s at %s (%s)\n", fe.Name, fe.StartTime, fe.ID)
	}
	return 0
}

func (a *app) cmdTemplateRmEvent(args []string) int {
	if len(args) != 1 {
		fmt.Fprintln(os.Stderr, "usage: tg template rm-event <id>")
		return 1
	}
	id := args[0]

	tpl, err := a.store.GetTemplate()
	if err != nil {
		fmt.Fprintf(os.Stderr, "tg: template rm-event: %v\n", err)
		return 1
	}
	kept := tpl.FixedEvents[:0]
	found := false
	for _, fe := range tpl.FixedEvents {
		if fe.ID == id {
			found = true
			continue
		}
		kept = append(kept, fe)
	}
	if !found {
		fmt.Fprintf(os.Stderr, "tg: no recurring event %s\n", id)
		return 1
	}
	tpl.FixedEvents = kept
	if err := a.store.SaveTemplate(tpl); err != nil {
		fmt.Fprintf(os.Stderr, "tg: template rm-event: %v\n", err)
		return 1
	}
	fmt.Printf("removed %s\n", id)
	return 0
}

var weekdayNames = map[string]time.Weekday{
	"sun": time.Sunday, "mon": time.Monday, "tue": time.Tuesday,
	"wed": time.Wednesday, "thu": time.Thursday, "fri": time.Friday,
	"sat": time.Saturday,
}

// parseWeekdays decodes "Mon,Tue" into weekdays. Empty input means every
// day of the week.
func parseWeekdays(s string) ([]time.Weekday, error) {
	if s == "" {
		return []time.Weekday{
			time.Sunday, time.Monday, time.Tuesday, time.Wednesday,
			time.Thursday, time.Friday, time.Saturday,
		}, nil
	}
	var out []time.Weekday
	for _, part := range strings.Split(s, ",") {
		key := strings.ToLower(strings.TrimSpace(part))
		if len(key) > 3 {
			key = key[:3]
		}
		d, ok := weekdayNames[key]
		if !ok {
			return nil, fmt.Errorf("bad weekday %q", part)
		}
		out = append(out, d)
	}
	return out, nil
}

func weekdayLabels(days []time.Weekday) string {
	if len(days) == 7 {
		return "daily"
	}
	parts := make([]string, len(days))
	for i, d := range days {
		parts[i] = d.String()[:3]
	}
	return strings.Join(parts, ",")
}

// Command tg is the timegrid CLI — a day scheduler that projects tasks,
// routines, and calendar events onto a single packed timeline.
package main

import (
	"fmt"
	"os"
)

const version = "1.0.0"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "--help", "-h", "help":
		printUsage()
		return
	case "--version", "-v", "version":
		fmt.Println("tg", version)
		return
	case "auth":
		// Auth needs no database.
		os.Exit(cmdAuth(os.Args[2:]))
	}

	a, err := newApp()
	if err != nil {
		fatal("%v", err)
	}
	defer a.Close()

	switch os.Args[1] {
	case "task":
		os.Exit(a.cmdTask(os.Args[2:]))
	case "template", "tpl":
		os.Exit(a.cmdTemplate(os.Args[2:]))
	case "schedule", "sched":
		os.Exit(a.cmdSchedule(os.Args[2:]))
	case "sync":
		os.Exit(a.cmdSync(os.Args[2:]))

	default:
		fmt.Fprintf(os.Stderr, "tg: unknown command %q\n", os.Args[1])
		fmt.Fprintln(os.Stderr, "Run 'tg --help' for usage.")
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Print(`tg — pack your day onto a timeline

Tasks get estimated starts on quarter-hour boundaries. Long tasks split
into focus segments with breaks. Calendar events and daily routines are
immovable; everything else flows around them.

Usage:
  tg <command> [flags]

Tasks:
  task add <title>          Create a task (--minutes, --priority, --fixed HH:mm)
  task list                 List tasks with estimated starts
  task start <id>           Mark a task RUNNING
  task pause <id>           Mark a task PAUSED
  task done <id>            Mark a task DONE
  task rm <id>              Delete a task

Template:
  template show             Show the daily template
  template set              Update wake/sleep/lanes (--wake, --sleep, --lanes)
  template add-event        Add a recurring event (--name, --start, --minutes, --days)
  template rm-event <id>    Remove a recurring event

Schedule:
  schedule [--date D]       Generate and print the day's timeline
  sync [--date D]           Pull Google Calendar events for the day
  auth                      Run the Google Calendar OAuth flow

Environment:
  TIMEGRID_DB            SQLite database path (default: .timegrid/timegrid.db)
  TIMEGRID_CREDENTIALS   Google OAuth credentials.json path
  TIMEGRID_CALENDAR      Calendar name (default: primary calendar)

All commands support --json for machine-readable output.

Exit codes:
  0  success
  1  error
`)
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func fatal(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "tg: "+format+"\n", args...)
	os.Exit(1)
}

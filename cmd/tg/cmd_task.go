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

func (a *app) cmdTask(args []string) int {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "usage: tg task <add|list|start|pause|done|rm> ...")
		return 1
	}
	switch args[0] {
	case "add":
		return a.cmdTaskAdd(args[1:])
	case "list", "ls":
		return a.cmdTaskList(args[1:])
	case "start":
		return a.cmdTaskState(args[1:], model.StateRunning)
	case "pause":
		return a.cmdTaskState(args[1:], model.StatePaused)
	case "done":
		return a.cmdTaskState(args[1:], model.StateDone)
	case "rm":
		return a.cmdTaskRm(args[1:])
	default:
		fmt.Fprintf(os.Stderr, "tg: unknown task subcommand %q\n", args[0])
		return 1
	}
}

func (a *app) cmdTaskAdd(args []string) int {
	flags := flag.NewFlagSet("task add", flag.ContinueOnError)
	minutes := flags.Int("minutes", 25, "required minutes")
	priority := flags.Int("priority", -1, "priority 0-100 (-1 = default)")
	fixed := flags.String("fixed", "", "fixed start today, HH:mm (makes the task an immovable event)")
	window := flags.String("window", "", "earliest start today, HH:mm")
	jsonOut := flags.Bool("json", false, "JSON output")
	if err := flags.Parse(args); err != nil {
		return 1
	}
	if flags.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "usage: tg task add <title> [--minutes N] [--priority P] [--fixed HH:mm] [--window HH:mm]")
		return 1
	}
	if *minutes < 1 {
		fmt.Fprintln(os.Stderr, "tg: --minutes must be at least 1")
		return 1
	}

	task := &model.Task{
		ID:              uuid.NewString(),
		Title:           strings.Join(flags.Args(), " "),
		State:           model.StateReady,
		Kind:            model.KindDurationOnly,
		RequiredMinutes: *minutes,
		CreatedAt:       time.Now().UTC(),
	}

	if *priority != -1 {
		if *priority < 0 || *priority > 100 {
			fmt.Fprintln(os.Stderr, "tg: --priority must be in 0..100")
			return 1
		}
		p := *priority
		task.Priority = &p
	}
	if *fixed != "" {
		h, m, err := parseClock(*fixed)
		if err != nil {
			fmt.Fprintf(os.Stderr, "tg: %v\n", err)
			return 1
		}
		at := todayAt(h, m)
		end := at.Add(time.Duration(*minutes) * time.Minute)
		task.Kind = model.KindFixedEvent
		task.FixedStartAt = &at
		task.FixedEndAt = &end
	}
	if *window != "" {
		h, m, err := parseClock(*window)
		if err != nil {
			fmt.Fprintf(os.Stderr, "tg: %v\n", err)
			return 1
		}
		at := todayAt(h, m)
		task.WindowStartAt = &at
	}

	if err := a.store.PutTask(task); err != nil {
		fmt.Fprintf(os.Stderr, "tg: task add: %v\n", err)
		return 1
	}

	if *jsonOut {
		printJSON(task)
	} else {
		fmt.Printf("added %s (%s, %dm)\n", task.Title, task.ID, task.RequiredMinutes)
	}
	return 0
}

func (a *app) cmdTaskList(args []string) int {
	flags := flag.NewFlagSet("task list", flag.ContinueOnError)
	all := flags.Bool("all", false, "include DONE tasks")
	jsonOut := flags.Bool("json", false, "JSON output")
	if err := flags.Parse(args); err != nil {
		return 1
	}

	tasks, err := a.store.ListTasks()
	if err != nil {
		fmt.Fprintf(os.Stderr, "tg: task list: %v\n", err)
		return 1
	}
	if !*all {
		kept := tasks[:0]
		for _, t := range tasks {
			if t.State != model.StateDone {
				kept = append(kept, t)
			}
		}
		tasks = kept
	}

	if *jsonOut {
		printJSON(tasks)
		return 0
	}
	if len(tasks) == 0 {
		fmt.Println("no tasks")
		return 0
	}
	for _, t := range tasks {
		start := "--:--"
		if at := t.DisplayStartAt(); at != nil {
			start = clockLabel(*at)
		}
		fmt.Printf("%s  %-7s %3dm  p%-3d %s  %s\n",
			start, t.State, t.EffectiveMinutes(), t.EffectivePriority(), t.ID, t.Title)
	}
	return 0
}

func (a *app) cmdTaskState(args []string, state model.TaskState) int {
	flags := flag.NewFlagSet("task state", flag.ContinueOnError)
	jsonOut := flags.Bool("json", false, "JSON output")
	if err := flags.Parse(args); err != nil {
		return 1
	}
	if flags.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: tg task <start|pause|done> <id>")
		return 1
	}
	id := flags.Arg(0)
	if err := a.store.SetTaskState(id, state); err != nil {
		fmt.Fprintf(os.Stderr, "tg: %v\n", err)
		return 1
	}
	if *jsonOut {
		printJSON(map[string]interface{}{"id": id, "state": state})
	} else {
		fmt.Printf("%s -> %s\n", id, state)
	}
	return 0
}

func (a *app) cmdTaskRm(args []string) int {
	if len(args) != 1 {
		fmt.Fprintln(os.Stderr, "usage: tg task rm <id>")
		return 1
	}
	if err := a.store.DeleteTask(args[0]); err != nil {
		fmt.Fprintf(os.Stderr, "tg: task rm: %v\n", err)
		return 1
	}
	fmt.Printf("removed %s\n", args[0])
	return 0
}

// todayAt returns the local timestamp for HH:mm today.
func todayAt(hour, minute int) time.Time {
	now := time.Now()
	return time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())
}

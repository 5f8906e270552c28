package cli

import (
	"flag"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/jbonatakis/trackflow/internal/workspace"
)

var clockTime = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)

// wrongType reports a content operation aimed at a block of another type.
func wrongType(want workspace.BlockType, got workspace.Content) error {
	return fmt.Errorf("%w: expected a %s block, got %s", workspace.ErrInvalidContent, want, got.Type())
}

func runTodo(args []string) error {
	sub, rest, err := subcommand("todo", args, "add", "toggle")
	if err != nil {
		return err
	}
	if len(rest) != 2 {
		if sub == "add" {
			return UsageError{Message: "todo add requires exactly 2 arguments: <block-id> <text>"}
		}
		return UsageError{Message: "todo toggle requires exactly 2 arguments: <block-id> <item-id>"}
	}
	blockID := rest[0]

	return withStore(func(a *app) error {
		var itemID string
		b, err := a.editBlock(blockID, func(c workspace.Content) (workspace.Content, error) {
			todos, ok := c.(workspace.TodoContent)
			if !ok {
				return nil, wrongType(workspace.BlockTodo, c)
			}
			if sub == "add" {
				itemID = uuid.NewString()
				return todos.Add(itemID, rest[1]), nil
			}
			itemID = rest[1]
			next, found := todos.Toggle(itemID)
			if !found {
				return nil, fmt.Errorf("todo item %q not found", itemID)
			}
			return next, nil
		})
		if err != nil {
			return err
		}
		if sub == "add" {
			fmt.Fprintf(os.Stdout, "added todo %s\n", itemID)
		}
		fmt.Fprintln(os.Stdout, workspace.Summary(b, now()))
		return nil
	})
}

func runHabit(args []string) error {
	sub, rest, err := subcommand("habit", args, "add", "toggle")
	if err != nil {
		return err
	}

	fs := flag.NewFlagSet("habit "+sub, flag.ContinueOnError)
	date := fs.String("date", "", "day to toggle (default: today)")
	pos, err := parseFlags(fs, rest)
	if err != nil {
		return err
	}
	if len(pos) != 2 {
		if sub == "add" {
			return UsageError{Message: "habit add requires exactly 2 arguments: <block-id> <name>"}
		}
		return UsageError{Message: "habit toggle requires exactly 2 arguments: <block-id> <habit-id>"}
	}
	day := now()
	if *date != "" {
		if sub == "add" {
			return UsageError{Message: "--date only applies to habit toggle"}
		}
		d, err := workspace.ParseDate(*date)
		if err != nil {
			return UsageError{Message: err.Error()}
		}
		day = d
	}

	return withStore(func(a *app) error {
		var habitID string
		var done bool
		b, err := a.editBlock(pos[0], func(c workspace.Content) (workspace.Content, error) {
			habits, ok := c.(workspace.HabitContent)
			if !ok {
				return nil, wrongType(workspace.BlockHabit, c)
			}
			if sub == "add" {
				habitID = uuid.NewString()
				return habits.AddHabit(habitID, pos[1]), nil
			}
			habitID = pos[1]
			next, found := habits.Toggle(habitID, day)
			if !found {
				return nil, fmt.Errorf("habit %q not found", habitID)
			}
			done = next.Completed(habitID, day)
			return next, nil
		})
		if err != nil {
			return err
		}
		if sub == "add" {
			fmt.Fprintf(os.Stdout, "added habit %s\n", habitID)
		} else {
			state := "not done"
			if done {
				state = "done"
			}
			fmt.Fprintf(os.Stdout, "habit %s %s on %s\n", habitID, state, day.UTC().Format("2006-01-02"))
		}
		fmt.Fprintln(os.Stdout, workspace.Summary(b, now()))
		return nil
	})
}

func runGoal(args []string) error {
	sub, rest, err := subcommand("goal", args, "set", "inc", "dec")
	if err != nil {
		return err
	}

	fs := flag.NewFlagSet("goal "+sub, flag.ContinueOnError)
	title := fs.String("title", "", "goal title")
	current := fs.String("current", "", "current value")
	target := fs.String("target", "", "target value")
	unit := fs.String("unit", "", "unit label")
	pos, err := parseFlags(fs, rest)
	if err != nil {
		return err
	}
	if len(pos) != 1 {
		return UsageError{Message: fmt.Sprintf("goal %s requires exactly 1 argument: <block-id>", sub)}
	}
	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	if sub != "set" && len(set) != 0 {
		return UsageError{Message: fmt.Sprintf("goal %s takes no flags", sub)}
	}
	if sub == "set" && len(set) == 0 {
		return UsageError{Message: "goal set requires at least one of --title, --current, --target, --unit"}
	}

	var cur, tgt float64
	if set["current"] {
		if cur, err = parseNumber("current", *current); err != nil {
			return err
		}
	}
	if set["target"] {
		if tgt, err = parseNumber("target", *target); err != nil {
			return err
		}
	}

	return withStore(func(a *app) error {
		b, err := a.editBlock(pos[0], func(c workspace.Content) (workspace.Content, error) {
			goal, ok := c.(workspace.GoalContent)
			if !ok {
				return nil, wrongType(workspace.BlockGoal, c)
			}
			switch sub {
			case "inc":
				return goal.Increment(), nil
			case "dec":
				return goal.Decrement(), nil
			}
			if set["title"] {
				goal.Title = *title
			}
			if set["current"] {
				goal.Current = cur
			}
			if set["target"] {
				goal.Target = tgt
			}
			if set["unit"] {
				goal.Unit = *unit
			}
			return goal, nil
		})
		if err != nil {
			return err
		}
		fmt.Fprintln(os.Stdout, workspace.Summary(b, now()))
		return nil
	})
}

func parseNumber(name, s string) (float64, error) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, UsageError{Message: fmt.Sprintf("invalid --%s %q", name, s)}
	}
	return f, nil
}

func runJournal(args []string) error {
	if _, _, err := subcommand("journal", args, "set"); err != nil {
		return err
	}

	fs := flag.NewFlagSet("journal set", flag.ContinueOnError)
	date := fs.String("date", "", "entry day")
	mood := fs.String("mood", "", "mood glyph or label")
	text := fs.String("text", "", "entry text")
	pos, err := parseFlags(fs, args[1:])
	if err != nil {
		return err
	}
	if len(pos) != 1 {
		return UsageError{Message: "journal set requires exactly 1 argument: <block-id>"}
	}
	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	if len(set) == 0 {
		return UsageError{Message: "journal set requires at least one of --date, --mood, --text"}
	}

	var day time.Time
	if set["date"] {
		d, err := workspace.ParseDate(*date)
		if err != nil {
			return UsageError{Message: err.Error()}
		}
		day = d
	}

	return withStore(func(a *app) error {
		b, err := a.editBlock(pos[0], func(c workspace.Content) (workspace.Content, error) {
			entry, ok := c.(workspace.JournalContent)
			if !ok {
				return nil, wrongType(workspace.BlockJournal, c)
			}
			if set["date"] {
				entry = entry.SetDate(day)
			}
			if set["mood"] {
				next, err := entry.SetMood(*mood)
				if err != nil {
					return nil, err
				}
				entry = next
			}
			if set["text"] {
				entry = entry.SetText(*text)
			}
			return entry, nil
		})
		if err != nil {
			return err
		}
		fmt.Fprintln(os.Stdout, workspace.Summary(b, now()))
		return nil
	})
}

func runCalendar(args []string) error {
	sub, rest, err := subcommand("calendar", args, "add", "remove")
	if err != nil {
		return err
	}

	if sub == "remove" {
		if len(rest) != 2 {
			return UsageError{Message: "calendar remove requires exactly 2 arguments: <block-id> <event-id>"}
		}
		return withStore(func(a *app) error {
			b, err := a.editBlock(rest[0], func(c workspace.Content) (workspace.Content, error) {
				cal, ok := c.(workspace.CalendarContent)
				if !ok {
					return nil, wrongType(workspace.BlockCalendar, c)
				}
				next, found := cal.RemoveEvent(rest[1])
				if !found {
					return nil, fmt.Errorf("event %q not found", rest[1])
				}
				return next, nil
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(os.Stdout, "removed event %s\n", rest[1])
			fmt.Fprintln(os.Stdout, workspace.Summary(b, now()))
			return nil
		})
	}

	fs := flag.NewFlagSet("calendar add", flag.ContinueOnError)
	date := fs.String("date", "", "event day (required)")
	at := fs.String("time", "", "start time HH:MM (default: all day)")
	desc := fs.String("description", "", "event description")
	pos, err := parseFlags(fs, rest)
	if err != nil {
		return err
	}
	if len(pos) != 2 {
		return UsageError{Message: "calendar add requires exactly 2 arguments: <block-id> <title>"}
	}
	if *date == "" {
		return UsageError{Message: "calendar add requires --date"}
	}
	day, err := workspace.ParseDate(*date)
	if err != nil {
		return UsageError{Message: err.Error()}
	}
	if *at != "" && !clockTime.MatchString(*at) {
		return UsageError{Message: fmt.Sprintf("invalid --time %q (want HH:MM)", *at)}
	}

	ev := workspace.CalendarEvent{
		ID:          uuid.NewString(),
		Title:       pos[1],
		Description: *desc,
		Time:        *at,
		Date:        workspace.FormatDate(day),
	}
	return withStore(func(a *app) error {
		b, err := a.editBlock(pos[0], func(c workspace.Content) (workspace.Content, error) {
			cal, ok := c.(workspace.CalendarContent)
			if !ok {
				return nil, wrongType(workspace.BlockCalendar, c)
			}
			return cal.AddEvent(ev), nil
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "added event %s\n", ev.ID)
		fmt.Fprintln(os.Stdout, workspace.Summary(b, now()))
		return nil
	})
}

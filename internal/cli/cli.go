package cli

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
)

type UsageError struct {
	Message string
}

func (e UsageError) Error() string { return e.Message }

func Usage() string {
	return `trackflow: workspaces, pages and blocks in your terminal

Usage:
  trackflow                                  (same as trackflow tui)
  trackflow init
  trackflow validate
  trackflow list [--tree]
  trackflow show [page-id]
  trackflow select <workspace-id> [page-id]
  trackflow tui

  trackflow workspace create <name> [--color <hex>]
  trackflow workspace rename <workspace-id> <name>
  trackflow workspace recolor <workspace-id> <hex>
  trackflow workspace delete <workspace-id>

  trackflow page create <name> [--icon <emoji>] [--workspace <id>]
  trackflow page rename <page-id> <name> [--icon <emoji>]
  trackflow page delete <page-id>
  trackflow page from-template <template-page-id> <name> [--workspace <id>]
  trackflow page reorder <page-id> <block-id>...

  trackflow block add <type> [--page <id>] [--text <markdown>]
  trackflow block delete <block-id>
  trackflow block move <block-id> <index>

  trackflow todo add <block-id> <text>
  trackflow todo toggle <block-id> <item-id>
  trackflow habit add <block-id> <name>
  trackflow habit toggle <block-id> <habit-id> [--date YYYY-MM-DD]
  trackflow goal set <block-id> [--title t] [--current n] [--target n] [--unit u]
  trackflow goal inc|dec <block-id>
  trackflow journal set <block-id> [--date YYYY-MM-DD] [--mood m] [--text t]
  trackflow calendar add <block-id> <title> --date YYYY-MM-DD [--time HH:MM] [--description d]
  trackflow calendar remove <block-id> <event-id>

  trackflow export [file]
  trackflow import <file>
  trackflow reset --yes
  trackflow keys
  trackflow config list
  trackflow config set [--global] <key> <value>
  trackflow config unset [--global] <key>

Block types:
  text | todo | calendar | habit | goal | journal

Page and block commands without an explicit id act on the current selection.
`
}

func Run(args []string) error {
	if len(args) == 0 {
		return runTUI()
	}

	switch args[0] {
	case "help", "-h", "--help":
		fmt.Fprintln(os.Stdout, Usage())
		return nil
	case "init":
		if len(args) != 1 {
			return UsageError{Message: "init takes no arguments"}
		}
		return runInit()
	case "validate":
		if len(args) != 1 {
			return UsageError{Message: "validate takes no arguments"}
		}
		return runValidate()
	case "list":
		return runList(args[1:])
	case "show":
		if len(args) > 2 {
			return UsageError{Message: "show takes at most 1 argument: [page-id]"}
		}
		pageID := ""
		if len(args) == 2 {
			pageID = args[1]
		}
		return runShow(pageID)
	case "select":
		if len(args) < 2 || len(args) > 3 {
			return UsageError{Message: "select requires 1 or 2 arguments: <workspace-id> [page-id]"}
		}
		pageID := ""
		if len(args) == 3 {
			pageID = args[2]
		}
		return runSelect(args[1], pageID)
	case "tui":
		if len(args) != 1 {
			return UsageError{Message: "tui takes no arguments"}
		}
		return runTUI()
	case "workspace":
		return runWorkspace(args[1:])
	case "page":
		return runPage(args[1:])
	case "block":
		return runBlock(args[1:])
	case "todo":
		return runTodo(args[1:])
	case "habit":
		return runHabit(args[1:])
	case "goal":
		return runGoal(args[1:])
	case "journal":
		return runJournal(args[1:])
	case "calendar":
		return runCalendar(args[1:])
	case "export":
		if len(args) > 2 {
			return UsageError{Message: "export takes at most 1 argument: [file]"}
		}
		path := ""
		if len(args) == 2 {
			path = args[1]
		}
		return runExport(path)
	case "import":
		if len(args) != 2 {
			return UsageError{Message: "import requires exactly 1 argument: <file>"}
		}
		return runImport(args[1])
	case "reset":
		return runReset(args[1:])
	case "keys":
		if len(args) != 1 {
			return UsageError{Message: "keys takes no arguments"}
		}
		return runKeys()
	case "config":
		return runConfig(args[1:])
	default:
		return UsageError{Message: fmt.Sprintf("unknown command: %q", args[0])}
	}
}

// parseFlags parses fs over args, allowing flags after positional arguments.
func parseFlags(fs *flag.FlagSet, args []string) ([]string, error) {
	fs.SetOutput(io.Discard)
	var positional []string
	for {
		if err := fs.Parse(args); err != nil {
			return nil, UsageError{Message: err.Error()}
		}
		args = fs.Args()
		if len(args) == 0 {
			return positional, nil
		}
		positional = append(positional, args[0])
		args = args[1:]
	}
}

// subcommand splits "<group> <sub> ..." and validates sub against allowed.
func subcommand(group string, args []string, allowed ...string) (string, []string, error) {
	if len(args) == 0 {
		return "", nil, UsageError{Message: fmt.Sprintf("%s requires a subcommand: %s", group, strings.Join(allowed, "|"))}
	}
	for _, a := range allowed {
		if args[0] == a {
			return a, args[1:], nil
		}
	}
	return "", nil, UsageError{Message: fmt.Sprintf("unknown %s subcommand: %q", group, args[0])}
}

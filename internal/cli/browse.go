package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/jbonatakis/trackflow/internal/tui"
	"github.com/jbonatakis/trackflow/internal/workspace"
)

func runInit() error {
	a, err := loadApp()
	if err != nil {
		return err
	}
	defer a.Close()

	_, present, err := a.kv.Lookup(workspace.KeyWorkspaces)
	if err != nil {
		return fmt.Errorf("read stored workspaces: %w", err)
	}
	st, err := workspace.Open(a.kv, workspace.WithLogger(a.log.Logger))
	if err != nil {
		return err
	}
	a.store = st

	if present {
		fmt.Fprintf(os.Stdout, "store already exists: %s\n", a.location)
		return nil
	}
	fmt.Fprintf(os.Stdout, "created store: %s\n", a.location)
	if ws, ok := st.CurrentWorkspace(); ok {
		fmt.Fprintf(os.Stdout, "workspace: %s (%s)\n", ws.Name, ws.ID)
	}
	return nil
}

func runValidate() error {
	a, err := loadApp()
	if err != nil {
		return err
	}
	defer a.Close()

	raw, present, err := a.kv.Lookup(workspace.KeyWorkspaces)
	if err != nil {
		fmt.Fprintf(os.Stdout, "invalid store: %s\n", a.location)
		fmt.Fprintf(os.Stdout, "- %s: %v\n", workspace.KeyWorkspaces, err)
		return errors.New("validation failed")
	}
	if !present {
		return fmt.Errorf("nothing stored yet: %s (run `trackflow init`)", a.location)
	}

	workspaces, err := workspace.DecodeWorkspaces(raw)
	if err != nil {
		fmt.Fprintf(os.Stdout, "invalid store: %s\n", a.location)
		fmt.Fprintf(os.Stdout, "- %s: %v\n", workspace.KeyWorkspaces, err)
		return errors.New("validation failed")
	}
	errs := workspace.Validate(workspaces)
	if len(errs) == 0 {
		fmt.Fprintln(os.Stdout, "OK")
		return nil
	}

	fmt.Fprintf(os.Stdout, "invalid store: %s\n", a.location)
	for _, e := range errs {
		fmt.Fprintf(os.Stdout, "- %s: %s\n", e.Path, e.Message)
	}
	return errors.New("validation failed")
}

func runList(args []string) error {
	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	tree := fs.Bool("tree", false, "show workspaces, pages and blocks as a tree")
	rest, err := parseFlags(fs, args)
	if err != nil {
		return err
	}
	if len(rest) != 0 {
		return UsageError{Message: "list takes only flags (no positional args)"}
	}

	return withStore(func(a *app) error {
		workspaces := a.store.Workspaces()
		sel := a.store.Selection()
		if *tree {
			printTree(os.Stdout, workspaces, sel, now())
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
		fmt.Fprintln(w, "\tPAGE ID\tWORKSPACE\tPAGE\tBLOCKS")
		for _, ws := range workspaces {
			if len(ws.Pages) == 0 {
				fmt.Fprintf(w, "%s\t-\t%s\t(no pages)\t\n", marker(sel.WorkspaceID == ws.ID && sel.PageID == ""), ws.Name)
				continue
			}
			for _, p := range ws.Pages {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s %s\t%d\n", marker(sel.PageID == p.ID), p.ID, ws.Name, p.Icon, p.Name, len(p.Blocks))
			}
		}
		_ = w.Flush()
		return nil
	})
}

func marker(selected bool) string {
	if selected {
		return "*"
	}
	return ""
}

func printTree(w io.Writer, workspaces []workspace.Workspace, sel workspace.Selection, today time.Time) {
	for _, ws := range workspaces {
		fmt.Fprintf(w, "%s (%s) %s\n", ws.Name, ws.ID, ws.Color)
		for _, p := range ws.Pages {
			fmt.Fprintf(w, "  %s%s %s (%s)\n", selectedPrefix(sel.PageID == p.ID), p.Icon, p.Name, p.ID)
			for _, b := range p.Blocks {
				fmt.Fprintf(w, "      %-8s %s  %s\n", b.Type, b.ID, workspace.Summary(b, today))
			}
		}
	}
}

func selectedPrefix(selected bool) string {
	if selected {
		return "* "
	}
	return "  "
}

func runShow(pageID string) error {
	return withStore(func(a *app) error {
		p, wsID, err := a.currentPage(pageID)
		if err != nil {
			return err
		}
		ws, _ := a.store.Workspace(wsID)

		fmt.Fprintf(os.Stdout, "ID: %s\n", p.ID)
		fmt.Fprintf(os.Stdout, "Page: %s %s\n", p.Icon, p.Name)
		fmt.Fprintf(os.Stdout, "Workspace: %s (%s)\n", ws.Name, ws.ID)
		fmt.Fprintf(os.Stdout, "CreatedAt: %s\n", p.CreatedAt.UTC().Format(time.RFC3339))
		fmt.Fprintf(os.Stdout, "UpdatedAt: %s\n", p.UpdatedAt.UTC().Format(time.RFC3339))
		fmt.Fprintln(os.Stdout)

		if len(p.Blocks) == 0 {
			fmt.Fprintln(os.Stdout, "(no blocks)")
			return nil
		}
		today := now()
		for i, b := range p.Blocks {
			fmt.Fprintf(os.Stdout, "[%d] %s %s\n", i, b.Type, b.ID)
			printBlock(os.Stdout, b, today)
			fmt.Fprintln(os.Stdout)
		}
		return nil
	})
}

// printBlock writes a block's content in detail, indented under its header.
func printBlock(w io.Writer, b workspace.Block, today time.Time) {
	const indent = "    "
	switch c := b.Content.(type) {
	case workspace.TextContent:
		if c == "" {
			fmt.Fprintln(w, indent+"(empty)")
			return
		}
		for _, line := range strings.Split(string(c), "\n") {
			fmt.Fprintln(w, indent+line)
		}
	case workspace.TodoContent:
		fmt.Fprintf(w, "%s%s\n", indent, workspace.Summary(b, today))
		for _, it := range c {
			box := "[ ]"
			if it.Completed {
				box = "[x]"
			}
			fmt.Fprintf(w, "%s%s %s  (%s)\n", indent, box, it.Text, it.ID)
		}
	case workspace.HabitContent:
		fmt.Fprintf(w, "%sweek of %s\n", indent, dayOf(c.StartDate))
		for _, h := range c.Habits {
			box := "[ ]"
			if c.Completed(h.ID, today) {
				box = "[x]"
			}
			fmt.Fprintf(w, "%s%s %s  streak %d  (%s)\n", indent, box, h.Name, c.Streak(h.ID, today), h.ID)
		}
	case workspace.GoalContent:
		fmt.Fprintf(w, "%s%s\n", indent, workspace.Summary(b, today))
	case workspace.CalendarContent:
		fmt.Fprintf(w, "%sselected %s\n", indent, dayOf(c.SelectedDate))
		for _, ev := range c.Events {
			fmt.Fprintf(w, "%s%s %s  %s  (%s)\n", indent, dayOf(ev.Date), workspace.FormatTime(ev.Time), ev.Title, ev.ID)
			if ev.Description != "" {
				fmt.Fprintf(w, "%s    %s\n", indent, ev.Description)
			}
		}
	case workspace.JournalContent:
		fmt.Fprintf(w, "%s%s %s\n", indent, dayOf(c.Date), c.Mood)
		for _, line := range strings.Split(c.Text, "\n") {
			fmt.Fprintln(w, indent+line)
		}
	}
}

// dayOf renders a stored date as YYYY-MM-DD, or as-is if it does not parse.
func dayOf(s string) string {
	t, err := workspace.ParseDate(s)
	if err != nil {
		return s
	}
	return t.UTC().Format("2006-01-02")
}

func runSelect(workspaceID, pageID string) error {
	return withStore(func(a *app) error {
		if err := a.store.Select(workspaceID, pageID); err != nil {
			return err
		}
		ws, _ := a.store.CurrentWorkspace()
		if p, ok := a.store.CurrentPage(); ok {
			fmt.Fprintf(os.Stdout, "selected %s / %s %s\n", ws.Name, p.Icon, p.Name)
			return nil
		}
		fmt.Fprintf(os.Stdout, "selected %s (no pages)\n", ws.Name)
		return nil
	})
}

func runTUI() error {
	return withStore(func(a *app) error {
		return tui.Start(workspace.NewSession(a.store), tui.Options{
			Theme: a.cfg.UI.Theme,
			Now:   now,
		})
	})
}

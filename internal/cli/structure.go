package cli

import (
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/jbonatakis/trackflow/internal/workspace"
)

func runWorkspace(args []string) error {
	sub, rest, err := subcommand("workspace", args, "create", "rename", "recolor", "delete")
	if err != nil {
		return err
	}

	switch sub {
	case "create":
		fs := flag.NewFlagSet("workspace create", flag.ContinueOnError)
		color := fs.String("color", workspace.DefaultWorkspaceColor, "workspace color")
		pos, err := parseFlags(fs, rest)
		if err != nil {
			return err
		}
		if len(pos) != 1 {
			return UsageError{Message: "workspace create requires exactly 1 argument: <name>"}
		}
		return withStore(func(a *app) error {
			ws := a.store.CreateWorkspace(pos[0], *color)
			fmt.Fprintf(os.Stdout, "created workspace %s (%s)\n", ws.Name, ws.ID)
			return nil
		})
	case "rename", "recolor":
		if len(rest) != 2 {
			return UsageError{Message: fmt.Sprintf("workspace %s requires exactly 2 arguments: <workspace-id> <value>", sub)}
		}
		patch := workspace.WorkspacePatch{Name: &rest[1]}
		if sub == "recolor" {
			patch = workspace.WorkspacePatch{Color: &rest[1]}
		}
		return withStore(func(a *app) error {
			ws, err := a.store.UpdateWorkspace(rest[0], patch)
			if err != nil {
				return err
			}
			fmt.Fprintf(os.Stdout, "updated workspace %s (%s) %s\n", ws.Name, ws.ID, ws.Color)
			return nil
		})
	default:
		if len(rest) != 1 {
			return UsageError{Message: "workspace delete requires exactly 1 argument: <workspace-id>"}
		}
		return withStore(func(a *app) error {
			if err := a.store.DeleteWorkspace(rest[0]); err != nil {
				return err
			}
			fmt.Fprintf(os.Stdout, "deleted workspace %s\n", rest[0])
			return nil
		})
	}
}

func runPage(args []string) error {
	sub, rest, err := subcommand("page", args, "create", "rename", "delete", "from-template", "reorder")
	if err != nil {
		return err
	}

	switch sub {
	case "create":
		fs := flag.NewFlagSet("page create", flag.ContinueOnError)
		icon := fs.String("icon", workspace.DefaultPageIcon, "page icon")
		wsID := fs.String("workspace", "", "target workspace (default: current)")
		pos, err := parseFlags(fs, rest)
		if err != nil {
			return err
		}
		if len(pos) != 1 {
			return UsageError{Message: "page create requires exactly 1 argument: <name>"}
		}
		return withStore(func(a *app) error {
			ws, err := a.currentWorkspace(*wsID)
			if err != nil {
				return err
			}
			p, err := a.store.CreatePage(ws.ID, pos[0], *icon)
			if err != nil {
				return err
			}
			fmt.Fprintf(os.Stdout, "created page %s %s (%s) in %s\n", p.Icon, p.Name, p.ID, ws.Name)
			return nil
		})
	case "rename":
		fs := flag.NewFlagSet("page rename", flag.ContinueOnError)
		icon := fs.String("icon", "", "new page icon")
		pos, err := parseFlags(fs, rest)
		if err != nil {
			return err
		}
		if len(pos) != 2 {
			return UsageError{Message: "page rename requires exactly 2 arguments: <page-id> <name>"}
		}
		patch := workspace.PagePatch{Name: &pos[1]}
		if *icon != "" {
			patch.Icon = icon
		}
		return withStore(func(a *app) error {
			_, wsID, err := a.currentPage(pos[0])
			if err != nil {
				return err
			}
			p, err := a.store.UpdatePage(wsID, pos[0], patch)
			if err != nil {
				return err
			}
			fmt.Fprintf(os.Stdout, "updated page %s %s (%s)\n", p.Icon, p.Name, p.ID)
			return nil
		})
	case "delete":
		if len(rest) != 1 {
			return UsageError{Message: "page delete requires exactly 1 argument: <page-id>"}
		}
		return withStore(func(a *app) error {
			_, wsID, err := a.currentPage(rest[0])
			if err != nil {
				return err
			}
			if err := a.store.DeletePage(wsID, rest[0]); err != nil {
				return err
			}
			fmt.Fprintf(os.Stdout, "deleted page %s\n", rest[0])
			return nil
		})
	case "from-template":
		fs := flag.NewFlagSet("page from-template", flag.ContinueOnError)
		wsID := fs.String("workspace", "", "target workspace (default: current)")
		pos, err := parseFlags(fs, rest)
		if err != nil {
			return err
		}
		if len(pos) != 2 {
			return UsageError{Message: "page from-template requires exactly 2 arguments: <template-page-id> <name>"}
		}
		return withStore(func(a *app) error {
			ws, err := a.currentWorkspace(*wsID)
			if err != nil {
				return err
			}
			p, err := a.store.CreatePageFromTemplate(ws.ID, pos[0], pos[1])
			if err != nil {
				return err
			}
			fmt.Fprintf(os.Stdout, "created page %s %s (%s) with %d block(s)\n", p.Icon, p.Name, p.ID, len(p.Blocks))
			return nil
		})
	default:
		if len(rest) < 1 {
			return UsageError{Message: "page reorder requires arguments: <page-id> <block-id>..."}
		}
		return withStore(func(a *app) error {
			return reorderPage(a, rest[0], rest[1:])
		})
	}
}

// reorderPage replaces the page's blocks with the same blocks in the given
// order. Every block must be named exactly once.
func reorderPage(a *app, pageID string, order []string) error {
	p, wsID, err := a.currentPage(pageID)
	if err != nil {
		return err
	}
	if len(order) != len(p.Blocks) {
		return UsageError{Message: fmt.Sprintf("page has %d block(s), got %d id(s)", len(p.Blocks), len(order))}
	}
	byID := make(map[string]workspace.Block, len(p.Blocks))
	for _, b := range p.Blocks {
		byID[b.ID] = b
	}
	blocks := make([]workspace.Block, 0, len(order))
	for _, id := range order {
		b, ok := byID[id]
		if !ok {
			return UsageError{Message: fmt.Sprintf("block %q is not on page %s (or is listed twice)", id, p.ID)}
		}
		delete(byID, id)
		blocks = append(blocks, b)
	}

	updated, err := a.store.UpdatePage(wsID, p.ID, workspace.PagePatch{Blocks: blocks})
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "reordered %d block(s) on %s\n", len(updated.Blocks), updated.Name)
	return nil
}

func runBlock(args []string) error {
	sub, rest, err := subcommand("block", args, "add", "delete", "move")
	if err != nil {
		return err
	}

	switch sub {
	case "add":
		fs := flag.NewFlagSet("block add", flag.ContinueOnError)
		pageID := fs.String("page", "", "target page (default: current)")
		text := fs.String("text", "", "initial markdown for text blocks")
		pos, err := parseFlags(fs, rest)
		if err != nil {
			return err
		}
		if len(pos) != 1 {
			return UsageError{Message: "block add requires exactly 1 argument: <type>"}
		}
		t, ok := workspace.ParseBlockType(pos[0])
		if !ok {
			return UsageError{Message: fmt.Sprintf("invalid block type %q", pos[0])}
		}
		if *text != "" && t != workspace.BlockText {
			return UsageError{Message: "--text only applies to text blocks"}
		}
		content, err := workspace.DefaultContent(t, now())
		if err != nil {
			return err
		}
		if *text != "" {
			content = workspace.TextContent(*text)
		}
		return withStore(func(a *app) error {
			p, wsID, err := a.currentPage(*pageID)
			if err != nil {
				return err
			}
			b, err := a.store.AddBlock(wsID, p.ID, content)
			if err != nil {
				return err
			}
			fmt.Fprintf(os.Stdout, "added %s block %s to %s\n", b.Type, b.ID, p.Name)
			return nil
		})
	case "delete":
		if len(rest) != 1 {
			return UsageError{Message: "block delete requires exactly 1 argument: <block-id>"}
		}
		return withStore(func(a *app) error {
			_, loc, ok := a.store.FindBlock(rest[0])
			if !ok {
				return fmt.Errorf("%w: %q", workspace.ErrBlockNotFound, rest[0])
			}
			if err := a.store.DeleteBlock(loc.WorkspaceID, loc.PageID, rest[0]); err != nil {
				return err
			}
			fmt.Fprintf(os.Stdout, "deleted block %s\n", rest[0])
			return nil
		})
	default:
		if len(rest) != 2 {
			return UsageError{Message: "block move requires exactly 2 arguments: <block-id> <index>"}
		}
		index, err := strconv.Atoi(rest[1])
		if err != nil {
			return UsageError{Message: fmt.Sprintf("invalid index %q", rest[1])}
		}
		return withStore(func(a *app) error {
			_, loc, ok := a.store.FindBlock(rest[0])
			if !ok {
				return fmt.Errorf("%w: %q", workspace.ErrBlockNotFound, rest[0])
			}
			if _, err := a.store.MoveBlock(loc.WorkspaceID, loc.PageID, rest[0], index); err != nil {
				return err
			}
			fmt.Fprintf(os.Stdout, "moved block %s to %d\n", rest[0], index)
			return nil
		})
	}
}

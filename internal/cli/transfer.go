package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/jbonatakis/trackflow/internal/storage"
	"github.com/jbonatakis/trackflow/internal/workspace"
)

// backupName is the default export file name for the given day.
func backupName() string {
	return fmt.Sprintf("trackflow_backup_%s.json", now().Format("2006-01-02"))
}

func runExport(path string) error {
	return withStore(func(a *app) error {
		snap, err := a.store.Export()
		if err != nil {
			return err
		}
		b, err := snap.Encode()
		if err != nil {
			return err
		}
		if path == "-" {
			_, err := os.Stdout.Write(b)
			return err
		}
		if path == "" {
			path = backupName()
		}
		if err := storage.WriteFileAtomic(path, b, 0o644); err != nil {
			return fmt.Errorf("write export %s: %w", path, err)
		}
		fmt.Fprintf(os.Stdout, "exported %d key(s) to %s\n", len(snap.Data), path)
		return nil
	})
}

func runImport(path string) error {
	var b []byte
	var err error
	if path == "-" {
		b, err = io.ReadAll(os.Stdin)
	} else {
		b, err = os.ReadFile(path)
	}
	if err != nil {
		return fmt.Errorf("read import %s: %w", path, err)
	}
	snap, err := storage.ParseSnapshot(b)
	if err != nil {
		return err
	}

	return withStore(func(a *app) error {
		diff, err := a.store.Import(snap)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "imported %d key(s) from %s (exported %s, version %s)\n", len(snap.Data), path, snap.Timestamp, snap.AppVersion)
		printDiff(os.Stdout, diff)
		return nil
	})
}

func printDiff(w io.Writer, d workspace.DiffSummary) {
	if d.Empty() {
		fmt.Fprintln(w, "no changes")
		return
	}
	groups := []struct {
		label string
		ids   []string
	}{
		{"added", d.Added},
		{"removed", d.Removed},
		{"updated", d.Updated},
		{"moved", d.Moved},
	}
	for _, g := range groups {
		if len(g.ids) == 0 {
			continue
		}
		fmt.Fprintf(w, "%s (%d): %s\n", g.label, len(g.ids), strings.Join(g.ids, ", "))
	}
}

func runReset(args []string) error {
	fs := flag.NewFlagSet("reset", flag.ContinueOnError)
	yes := fs.Bool("yes", false, "confirm removing every stored key")
	pos, err := parseFlags(fs, args)
	if err != nil {
		return err
	}
	if len(pos) != 0 {
		return UsageError{Message: "reset takes only flags (no positional args)"}
	}
	if !*yes {
		return UsageError{Message: "reset deletes all workspaces; pass --yes to confirm"}
	}

	a, err := loadApp()
	if err != nil {
		return err
	}
	defer a.Close()

	st, err := workspace.Open(a.kv, workspace.WithLogger(a.log.Logger))
	if err == nil {
		a.store = st
		if err := st.Reset(); err != nil {
			return err
		}
	} else {
		// A corrupt store cannot be hydrated, so clear the namespace directly.
		var le *workspace.LoadError
		if !errors.As(err, &le) {
			return err
		}
		if !a.kv.ResetAll() {
			return workspace.ErrResetFailed
		}
		if st, err = workspace.Open(a.kv, workspace.WithLogger(a.log.Logger)); err != nil {
			return err
		}
		a.store = st
	}
	ws, _ := st.CurrentWorkspace()
	fmt.Fprintf(os.Stdout, "reset %s; starting over with %s (%s)\n", a.location, ws.Name, ws.ID)
	return nil
}

func runKeys() error {
	a, err := loadApp()
	if err != nil {
		return err
	}
	defer a.Close()

	w := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
	for _, k := range a.kv.ListKeys() {
		raw, ok := a.kv.LoadRaw(k)
		size := "-"
		if ok {
			size = fmt.Sprintf("%d", len(raw))
		}
		fmt.Fprintf(w, "%s%s\t%s\n", a.kv.Prefix(), k, size)
	}
	_ = w.Flush()
	return nil
}

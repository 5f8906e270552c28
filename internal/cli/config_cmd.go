package cli

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/jbonatakis/trackflow/internal/config"
)

func runConfig(args []string) error {
	sub, rest, err := subcommand("config", args, "list", "set", "unset")
	if err != nil {
		return err
	}

	switch sub {
	case "list":
		if len(rest) != 0 {
			return UsageError{Message: "config list takes no arguments"}
		}
		return runConfigList()
	default:
		fs := flag.NewFlagSet("config "+sub, flag.ContinueOnError)
		global := fs.Bool("global", false, "write ~/.trackflow/config.yaml instead of the project file")
		pos, err := parseFlags(fs, rest)
		if err != nil {
			return err
		}
		if sub == "set" && len(pos) != 2 {
			return UsageError{Message: "config set requires exactly 2 arguments: <key> <value>"}
		}
		if sub == "unset" && len(pos) != 1 {
			return UsageError{Message: "config unset requires exactly 1 argument: <key>"}
		}
		if _, ok := config.LookupOption(pos[0]); !ok {
			return UsageError{Message: fmt.Sprintf("unknown config key %q", pos[0])}
		}

		path, err := configPath(*global)
		if err != nil {
			return err
		}
		if sub == "unset" {
			if err := config.SetOption(path, pos[0], nil); err != nil {
				return err
			}
			fmt.Fprintf(os.Stdout, "unset %s in %s\n", pos[0], path)
			return nil
		}
		value, err := config.ParseOptionValue(pos[0], pos[1])
		if err != nil {
			return UsageError{Message: err.Error()}
		}
		if err := config.SetOption(path, pos[0], &value); err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "set %s = %s in %s\n", pos[0], value.Display(), path)
		return nil
	}
}

func configPath(global bool) (string, error) {
	if global {
		path, ok := config.GlobalConfigPath()
		if !ok {
			return "", errors.New("cannot resolve home directory for the global config")
		}
		return path, nil
	}
	root := projectRoot()
	if root == "" {
		return "", errors.New("cannot resolve working directory for the project config")
	}
	return config.ProjectConfigPath(root), nil
}

func runConfigList() error {
	if err := config.LoadDotEnv(projectRoot()); err != nil {
		return err
	}
	res, err := config.ResolveSettings(projectRoot())
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
	fmt.Fprintln(w, "KEY\tVALUE\tSOURCE\tDESCRIPTION")
	for _, option := range config.OptionRegistry() {
		applied := res.Applied[option.KeyPath]
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", option.KeyPath, applied.Value.Display(), applied.Source, option.Description)
	}
	_ = w.Flush()

	if res.Project.Available {
		fmt.Fprintf(os.Stdout, "\nlocal:  %s%s\n", res.Project.Path, presence(res.Project.Present))
	}
	if res.Global.Available {
		fmt.Fprintf(os.Stdout, "global: %s%s\n", res.Global.Path, presence(res.Global.Present))
	}
	for _, lw := range res.LayerWarnings {
		fmt.Fprintf(os.Stdout, "warning: %s config ignored (%s)\n", lw.Source, lw.Kind)
	}
	for _, ow := range res.OptionWarnings {
		if ow.ClampedInt != nil {
			fmt.Fprintf(os.Stdout, "warning: %s %s out of range, using %d\n", ow.Source, ow.KeyPath, *ow.ClampedInt)
			continue
		}
		fmt.Fprintf(os.Stdout, "warning: %s %s has an invalid value (ignored)\n", ow.Source, ow.KeyPath)
	}
	return nil
}

func presence(present bool) string {
	if present {
		return ""
	}
	return " (not present)"
}

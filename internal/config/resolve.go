package config

import (
	"path/filepath"
	"strings"
)

// ResolveConfig merges the config layers with built-in defaults.
// Precedence per key: project > global > env > defaults. Invalid values fall
// through to the next layer; ints are clamped to bounds.
func ResolveConfig(project RawConfig, global RawConfig, env RawConfig) ResolvedConfig {
	defaults := DefaultResolvedConfig()
	layers := []RawConfig{project, global, env}

	backend := resolveEnum(
		pickStrings(layers, func(s RawStorage) *string { return s.Backend }),
		backends,
		defaults.Storage.Backend,
	)
	dir := resolveString(
		pickStrings(layers, func(s RawStorage) *string { return s.Dir }),
		defaults.Storage.Dir,
	)
	prefix := resolveString(
		pickStrings(layers, func(s RawStorage) *string { return s.Prefix }),
		defaults.Storage.Prefix,
	)
	quota := resolveIntWithBounds(
		pickInts(layers, func(s RawStorage) *int { return s.QuotaBytes }),
		defaults.Storage.QuotaBytes,
		MinQuotaBytes,
		MaxQuotaBytes,
	)
	level := resolveEnum(
		pickLog(layers, func(l RawLog) *string { return l.Level }),
		logLevels,
		defaults.Log.Level,
	)
	logFile := resolveString(
		pickLog(layers, func(l RawLog) *string { return l.File }),
		defaults.Log.File,
	)
	theme := resolveEnum(
		pickUI(layers, func(u RawUI) *string { return u.Theme }),
		themes,
		defaults.UI.Theme,
	)

	return ResolvedConfig{
		SchemaVersion: SchemaVersion,
		Storage: ResolvedStorage{
			Backend:    backend,
			Dir:        dir,
			Prefix:     prefix,
			QuotaBytes: quota,
		},
		Log: ResolvedLog{
			Level: level,
			File:  logFile,
		},
		UI: ResolvedUI{
			Theme: theme,
		},
	}
}

func pickStrings(layers []RawConfig, pick func(RawStorage) *string) []*string {
	out := make([]*string, 0, len(layers))
	for _, cfg := range layers {
		if cfg.Storage == nil {
			out = append(out, nil)
			continue
		}
		out = append(out, pick(*cfg.Storage))
	}
	return out
}

func pickInts(layers []RawConfig, pick func(RawStorage) *int) []*int {
	out := make([]*int, 0, len(layers))
	for _, cfg := range layers {
		if cfg.Storage == nil {
			out = append(out, nil)
			continue
		}
		out = append(out, pick(*cfg.Storage))
	}
	return out
}

func pickLog(layers []RawConfig, pick func(RawLog) *string) []*string {
	out := make([]*string, 0, len(layers))
	for _, cfg := range layers {
		if cfg.Log == nil {
			out = append(out, nil)
			continue
		}
		out = append(out, pick(*cfg.Log))
	}
	return out
}

func pickUI(layers []RawConfig, pick func(RawUI) *string) []*string {
	out := make([]*string, 0, len(layers))
	for _, cfg := range layers {
		if cfg.UI == nil {
			out = append(out, nil)
			continue
		}
		out = append(out, pick(*cfg.UI))
	}
	return out
}

func resolveEnum(values []*string, allowed []string, defaultVal string) string {
	for _, v := range values {
		if value, ok := normalizeEnum(v, allowed); ok {
			return value
		}
	}
	return defaultVal
}

func normalizeEnum(value *string, allowed []string) (string, bool) {
	if value == nil {
		return "", false
	}
	v := strings.ToLower(strings.TrimSpace(*value))
	for _, a := range allowed {
		if v == a {
			return v, true
		}
	}
	return "", false
}

func resolveString(values []*string, defaultVal string) string {
	for _, v := range values {
		if value := normalizeString(v); value != "" {
			return value
		}
	}
	return defaultVal
}

func resolveIntWithBounds(values []*int, defaultVal int, min int, max int) int {
	for _, v := range values {
		if v != nil {
			return clampInt(*v, min, max)
		}
	}
	return clampInt(defaultVal, min, max)
}

func clampInt(value int, min int, max int) int {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

func normalizeString(value *string) string {
	if value == nil {
		return ""
	}
	return strings.TrimSpace(*value)
}

// ExpandHome resolves a leading "~" against the user's home directory.
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := userHomeDir()
	if err != nil || home == "" {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

// DataDir returns the storage directory with "~" expanded.
func (c ResolvedConfig) DataDir() string {
	return ExpandHome(c.Storage.Dir)
}

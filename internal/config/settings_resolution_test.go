package config

import (
	"path/filepath"
	"testing"
)

func TestResolveSettingsPrecedenceAndSource(t *testing.T) {
	homeDir := t.TempDir()
	projectDir := t.TempDir()
	restore := overrideUserHomeDir(func() (string, error) {
		return homeDir, nil
	})
	t.Cleanup(restore)

	writeConfig(t, filepath.Join(homeDir, ".trackflow", "config.yaml"), "schemaVersion: 1\nstorage:\n  backend: sqlite\nui:\n  theme: dark\n")
	writeConfig(t, filepath.Join(projectDir, ".trackflow", "config.yaml"), "ui:\n  theme: light\n")

	env := map[string]string{
		EnvStorageBackend: "memory",
		EnvLogLevel:       "debug",
	}
	resolution, err := resolveSettings(projectDir, func(k string) string { return env[k] })
	if err != nil {
		t.Fatalf("resolve settings: %v", err)
	}

	assertApplied(t, resolution, keyStorageBackend, "sqlite", ConfigSourceGlobal)
	assertApplied(t, resolution, keyUITheme, "light", ConfigSourceLocal)
	assertApplied(t, resolution, keyLogLevel, "debug", ConfigSourceEnv)
	assertApplied(t, resolution, keyStorageQuotaBytes, "5242880", ConfigSourceDefault)
	assertApplied(t, resolution, keyLogFile, `""`, ConfigSourceDefault)

	if !resolution.Project.Present || !resolution.Global.Present {
		t.Fatalf("expected both layers present")
	}
	if resolution.Resolved.Storage.Backend != BackendSQLite {
		t.Fatalf("resolved backend = %q", resolution.Resolved.Storage.Backend)
	}
}

func TestResolveSettingsWarnings(t *testing.T) {
	homeDir := t.TempDir()
	projectDir := t.TempDir()
	restore := overrideUserHomeDir(func() (string, error) {
		return homeDir, nil
	})
	t.Cleanup(restore)

	writeConfig(t, filepath.Join(homeDir, ".trackflow", "config.yaml"), "schemaVersion: 7\n")
	writeConfig(t, filepath.Join(projectDir, ".trackflow", "config.yaml"), "storage:\n  quotaBytes: -1\nui:\n  theme: neon\n")

	resolution, err := resolveSettings(projectDir, func(string) string { return "" })
	if err != nil {
		t.Fatalf("resolve settings: %v", err)
	}

	if len(resolution.LayerWarnings) != 1 {
		t.Fatalf("layer warnings = %#v, want 1", resolution.LayerWarnings)
	}
	lw := resolution.LayerWarnings[0]
	if lw.Source != ConfigSourceGlobal || lw.Kind != LayerWarningUnsupportedSchema {
		t.Fatalf("layer warning = %#v", lw)
	}

	quota, ok := findOptionWarning(resolution.OptionWarnings, ConfigSourceLocal, keyStorageQuotaBytes)
	if !ok || quota.Kind != OptionWarningOutOfRange || quota.ClampedInt == nil || *quota.ClampedInt != MinQuotaBytes {
		t.Fatalf("quota warning = %#v (found %v)", quota, ok)
	}
	theme, ok := findOptionWarning(resolution.OptionWarnings, ConfigSourceLocal, keyUITheme)
	if !ok || theme.Kind != OptionWarningInvalidValue {
		t.Fatalf("theme warning = %#v (found %v)", theme, ok)
	}

	assertApplied(t, resolution, keyStorageQuotaBytes, "0", ConfigSourceLocal)
	assertApplied(t, resolution, keyUITheme, ThemeLight, ConfigSourceDefault)
}

func TestResolveSettingsWithoutProject(t *testing.T) {
	homeDir := t.TempDir()
	restore := overrideUserHomeDir(func() (string, error) {
		return homeDir, nil
	})
	t.Cleanup(restore)

	resolution, err := resolveSettings("", func(string) string { return "" })
	if err != nil {
		t.Fatalf("resolve settings: %v", err)
	}
	if resolution.Project.Available {
		t.Fatalf("project layer should be unavailable")
	}
	if !resolution.Global.Available || resolution.Global.Present {
		t.Fatalf("global layer = %#v", resolution.Global)
	}
	for key, applied := range resolution.Applied {
		if applied.Source != ConfigSourceDefault {
			t.Fatalf("%s source = %s, want default", key, applied.Source)
		}
	}
}

func assertApplied(t *testing.T, resolution SettingsResolution, key string, want string, source ConfigSource) {
	t.Helper()
	applied, ok := resolution.Applied[key]
	if !ok {
		t.Fatalf("missing applied value for %s", key)
	}
	if got := applied.Value.Display(); got != want {
		t.Fatalf("%s = %s, want %s", key, got, want)
	}
	if applied.Source != source {
		t.Fatalf("%s source = %s, want %s", key, applied.Source, source)
	}
}

func findOptionWarning(warnings []OptionWarning, source ConfigSource, key string) (OptionWarning, bool) {
	for _, w := range warnings {
		if w.Source == source && w.KeyPath == key {
			return w, true
		}
	}
	return OptionWarning{}, false
}

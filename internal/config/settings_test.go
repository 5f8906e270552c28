package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRawOptionValues(t *testing.T) {
	version := SchemaVersion
	cfg := RawConfig{
		SchemaVersion: &version,
		Storage: &RawStorage{
			Backend:    strPtr("file"),
			QuotaBytes: intPtr(10),
		},
		UI: &RawUI{
			Theme: strPtr("dark"),
		},
	}

	values := RawOptionValues(cfg)
	if len(values) != 3 {
		t.Fatalf("values len = %d, want 3", len(values))
	}
	if v := values[keyStorageQuotaBytes]; v.Int == nil || *v.Int != 10 || v.String != nil {
		t.Fatalf("quota value = %#v, want 10", v)
	}
	if v := values[keyUITheme]; v.String == nil || *v.String != "dark" {
		t.Fatalf("theme value = %#v, want dark", v)
	}
	if _, ok := values[keyLogLevel]; ok {
		t.Fatalf("expected log level to be unset")
	}
}

func TestSaveConfigValuesRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".trackflow", "config.yaml")
	values := map[string]RawOptionValue{
		keyStorageBackend:    {String: strPtr("sqlite")},
		keyStorageQuotaBytes: {Int: intPtr(2048)},
		keyLogFile:           {String: strPtr("/tmp/tf.log")},
	}
	if err := SaveConfigValues(path, values); err != nil {
		t.Fatalf("save: %v", err)
	}

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.Contains(string(b), "schemaVersion: 1") {
		t.Fatalf("expected schemaVersion in:\n%s", b)
	}
	if strings.Contains(string(b), "ui:") {
		t.Fatalf("unset sections should be omitted:\n%s", b)
	}

	cfg, present, err := loadConfigFile(path)
	if err != nil || !present {
		t.Fatalf("reload: present=%v err=%v", present, err)
	}
	got := RawOptionValues(cfg)
	if len(got) != len(values) {
		t.Fatalf("reloaded %d values, want %d", len(got), len(values))
	}
	if *got[keyStorageBackend].String != "sqlite" || *got[keyStorageQuotaBytes].Int != 2048 {
		t.Fatalf("reloaded = %#v", got)
	}
}

func TestSaveConfigValuesEmptyRemovesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("schemaVersion: 1\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := SaveConfigValues(path, map[string]RawOptionValue{}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("expected file removed, stat err = %v", err)
	}
	// Removing an absent file is fine.
	if err := SaveConfigValues(path, nil); err != nil {
		t.Fatalf("save again: %v", err)
	}
}

func TestSaveConfigValuesRejectsBadValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	cases := map[string]map[string]RawOptionValue{
		"unknown key": {"storage.nope": {Int: intPtr(1)}},
		"both":        {keyStorageQuotaBytes: {Int: intPtr(1), String: strPtr("1")}},
		"int as text": {keyStorageQuotaBytes: {String: strPtr("1")}},
		"text as int": {keyUITheme: {Int: intPtr(1)}},
	}
	for name, values := range cases {
		if err := SaveConfigValues(path, values); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
	if err := SaveConfigValues("", nil); err == nil {
		t.Fatalf("expected error for empty path")
	}
}

func TestParseOptionValue(t *testing.T) {
	v, err := ParseOptionValue(keyStorageQuotaBytes, " 4096 ")
	if err != nil || v.Int == nil || *v.Int != 4096 {
		t.Fatalf("quota = %#v, %v", v, err)
	}
	v, err = ParseOptionValue(keyStorageBackend, "SQLITE")
	if err != nil || v.String == nil || *v.String != BackendSQLite {
		t.Fatalf("backend = %#v, %v", v, err)
	}
	v, err = ParseOptionValue(keyStoragePrefix, "tf_")
	if err != nil || *v.String != "tf_" {
		t.Fatalf("prefix = %#v, %v", v, err)
	}

	if _, err := ParseOptionValue(keyStorageQuotaBytes, "big"); err == nil {
		t.Fatalf("expected int parse error")
	}
	if _, err := ParseOptionValue(keyUITheme, "neon"); err == nil || !strings.Contains(err.Error(), "light, dark") {
		t.Fatalf("theme err = %v", err)
	}
	if _, err := ParseOptionValue("nope", "x"); err == nil {
		t.Fatalf("expected unknown key error")
	}
}

func TestSetOption(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".trackflow", "config.yaml")
	theme := RawOptionValue{String: strPtr("dark")}
	if err := SetOption(path, keyUITheme, &theme); err != nil {
		t.Fatalf("set theme: %v", err)
	}
	quota := RawOptionValue{Int: intPtr(100)}
	if err := SetOption(path, keyStorageQuotaBytes, &quota); err != nil {
		t.Fatalf("set quota: %v", err)
	}

	cfg, _, err := loadConfigFile(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	values := RawOptionValues(cfg)
	if len(values) != 2 {
		t.Fatalf("values = %#v, want theme and quota", values)
	}

	if err := SetOption(path, keyUITheme, nil); err != nil {
		t.Fatalf("unset theme: %v", err)
	}
	if err := SetOption(path, keyStorageQuotaBytes, nil); err != nil {
		t.Fatalf("unset quota: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("expected empty layer removed, stat err = %v", err)
	}

	if err := SetOption(path, "nope", nil); err == nil {
		t.Fatalf("expected unknown key error")
	}
}

func TestSetOptionRefusesUnreadableFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("storage: ["), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	theme := RawOptionValue{String: strPtr("dark")}
	if err := SetOption(path, keyUITheme, &theme); err == nil {
		t.Fatalf("expected error")
	}
	b, _ := os.ReadFile(path)
	if string(b) != "storage: [" {
		t.Fatalf("file was modified: %q", b)
	}
}

func TestOptionRegistryMatchesResolvedValues(t *testing.T) {
	resolved := ResolvedOptionValues(DefaultResolvedConfig())
	registry := OptionRegistry()
	if len(registry) != len(resolved) {
		t.Fatalf("registry has %d options, resolved has %d", len(registry), len(resolved))
	}
	for _, option := range registry {
		v, ok := resolved[option.KeyPath]
		if !ok {
			t.Fatalf("no resolved value for %s", option.KeyPath)
		}
		if v.Display() != defaultOptionValue(option).Display() {
			t.Fatalf("%s default = %s, registry says %s", option.KeyPath, v.Display(), defaultOptionValue(option).Display())
		}
	}
}

package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/jbonatakis/trackflow/internal/storage"
)

const (
	keyStorageBackend    = "storage.backend"
	keyStorageDir        = "storage.dir"
	keyStoragePrefix     = "storage.prefix"
	keyStorageQuotaBytes = "storage.quotaBytes"
	keyLogLevel          = "log.level"
	keyLogFile           = "log.file"
	keyUITheme           = "ui.theme"
)

type RawOptionValue struct {
	Int    *int
	String *string
}

// Display renders the value the way `config list` prints it.
func (v RawOptionValue) Display() string {
	switch {
	case v.Int != nil:
		return strconv.Itoa(*v.Int)
	case v.String != nil:
		if *v.String == "" {
			return `""`
		}
		return *v.String
	default:
		return "-"
	}
}

type LayerOptionValues struct {
	Present bool
	Values  map[string]RawOptionValue
}

// LoadLayerOptionValues reads project and global configs and returns per-option raw values
// (project first, then global).
func LoadLayerOptionValues(projectRoot string) (LayerOptionValues, LayerOptionValues, error) {
	globalCfg, globalPresent, err := LoadGlobalConfig()
	if err != nil {
		return LayerOptionValues{}, LayerOptionValues{}, err
	}
	projectCfg, projectPresent, err := LoadProjectConfig(projectRoot)
	if err != nil {
		return LayerOptionValues{}, LayerOptionValues{}, err
	}

	project := LayerOptionValues{
		Present: projectPresent,
		Values:  RawOptionValues(projectCfg),
	}
	global := LayerOptionValues{
		Present: globalPresent,
		Values:  RawOptionValues(globalCfg),
	}

	return project, global, nil
}

// RawOptionValues extracts known raw option values from a config layer.
func RawOptionValues(cfg RawConfig) map[string]RawOptionValue {
	values := map[string]RawOptionValue{}

	if cfg.Storage != nil {
		putString(values, keyStorageBackend, cfg.Storage.Backend)
		putString(values, keyStorageDir, cfg.Storage.Dir)
		putString(values, keyStoragePrefix, cfg.Storage.Prefix)
		if cfg.Storage.QuotaBytes != nil {
			values[keyStorageQuotaBytes] = RawOptionValue{Int: copyInt(*cfg.Storage.QuotaBytes)}
		}
	}
	if cfg.Log != nil {
		putString(values, keyLogLevel, cfg.Log.Level)
		putString(values, keyLogFile, cfg.Log.File)
	}
	if cfg.UI != nil {
		putString(values, keyUITheme, cfg.UI.Theme)
	}

	return values
}

func putString(values map[string]RawOptionValue, key string, v *string) {
	if v != nil {
		values[key] = RawOptionValue{String: copyString(*v)}
	}
}

// ParseOptionValue converts command-line text into a value for keyPath.
// Ints must parse; enum options must name an allowed value.
func ParseOptionValue(keyPath string, text string) (RawOptionValue, error) {
	option, ok := LookupOption(keyPath)
	if !ok {
		return RawOptionValue{}, fmt.Errorf("unknown config key %q", keyPath)
	}
	switch option.Type {
	case OptionTypeInt:
		n, err := strconv.Atoi(strings.TrimSpace(text))
		if err != nil {
			return RawOptionValue{}, fmt.Errorf("config key %q expects an integer, got %q", keyPath, text)
		}
		return RawOptionValue{Int: &n}, nil
	default:
		if len(option.Allowed) > 0 {
			v, ok := normalizeEnum(&text, option.Allowed)
			if !ok {
				return RawOptionValue{}, fmt.Errorf("config key %q must be one of %s", keyPath, strings.Join(option.Allowed, ", "))
			}
			return RawOptionValue{String: &v}, nil
		}
		v := strings.TrimSpace(text)
		return RawOptionValue{String: &v}, nil
	}
}

// SetOption updates one key in the config file at path, keeping the others.
// A nil value unsets the key.
func SetOption(path string, keyPath string, value *RawOptionValue) error {
	if _, ok := LookupOption(keyPath); !ok {
		return fmt.Errorf("unknown config key %q", keyPath)
	}
	cfg, _, warning, err := loadConfigFileDetailed(path)
	if err != nil {
		return err
	}
	if warning != nil {
		return fmt.Errorf("config %s is unreadable (%s); fix or remove it first", path, *warning)
	}
	values := RawOptionValues(cfg)
	if value == nil {
		delete(values, keyPath)
	} else {
		values[keyPath] = *value
	}
	return SaveConfigValues(path, values)
}

// SaveConfigValues writes the provided raw option values to disk.
// The file includes schemaVersion and only set keys; empty layers remove the file.
func SaveConfigValues(path string, values map[string]RawOptionValue) error {
	if path == "" {
		return errors.New("config path is empty")
	}

	cfg, hasValues, err := buildRawConfig(values)
	if err != nil {
		return err
	}
	if !hasValues {
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("remove config %s: %w", path, err)
		}
		return nil
	}

	b, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}

	if err := storage.WriteFileAtomic(path, b, 0o644); err != nil {
		return fmt.Errorf("write config %s: %w", path, err)
	}
	return nil
}

func buildRawConfig(values map[string]RawOptionValue) (RawConfig, bool, error) {
	var cfg RawConfig
	var st RawStorage
	var lg RawLog
	var ui RawUI
	var hasStorage, hasLog, hasUI bool

	for key, value := range values {
		if value.Int != nil && value.String != nil {
			return RawConfig{}, false, fmt.Errorf("config key %q has both int and string values", key)
		}
		if value.Int == nil && value.String == nil {
			continue
		}

		option, ok := LookupOption(key)
		if !ok {
			return RawConfig{}, false, fmt.Errorf("unknown config key %q", key)
		}
		if option.Type == OptionTypeInt && value.Int == nil {
			return RawConfig{}, false, fmt.Errorf("config key %q expects int value", key)
		}
		if option.Type == OptionTypeString && value.String == nil {
			return RawConfig{}, false, fmt.Errorf("config key %q expects string value", key)
		}

		switch key {
		case keyStorageBackend:
			st.Backend = copyString(*value.String)
			hasStorage = true
		case keyStorageDir:
			st.Dir = copyString(*value.String)
			hasStorage = true
		case keyStoragePrefix:
			st.Prefix = copyString(*value.String)
			hasStorage = true
		case keyStorageQuotaBytes:
			st.QuotaBytes = copyInt(*value.Int)
			hasStorage = true
		case keyLogLevel:
			lg.Level = copyString(*value.String)
			hasLog = true
		case keyLogFile:
			lg.File = copyString(*value.String)
			hasLog = true
		case keyUITheme:
			ui.Theme = copyString(*value.String)
			hasUI = true
		}
	}

	if !hasStorage && !hasLog && !hasUI {
		return RawConfig{}, false, nil
	}

	if hasStorage {
		cfg.Storage = &st
	}
	if hasLog {
		cfg.Log = &lg
	}
	if hasUI {
		cfg.UI = &ui
	}
	version := SchemaVersion
	cfg.SchemaVersion = &version

	return cfg, true, nil
}

func copyInt(v int) *int {
	return &v
}

func copyString(v string) *string {
	return &v
}

package config

import "os"

type ConfigSource string

const (
	ConfigSourceLocal   ConfigSource = "local"
	ConfigSourceGlobal  ConfigSource = "global"
	ConfigSourceEnv     ConfigSource = "env"
	ConfigSourceDefault ConfigSource = "default"
)

type LayerWarningKind string

const (
	LayerWarningInvalidYAML       LayerWarningKind = "invalid_yaml"
	LayerWarningUnsupportedSchema LayerWarningKind = "unsupported_schema"
)

type OptionWarningKind string

const (
	OptionWarningOutOfRange   OptionWarningKind = "out_of_range"
	OptionWarningInvalidValue OptionWarningKind = "invalid_value"
)

type LayerWarning struct {
	Source ConfigSource
	Kind   LayerWarningKind
}

type OptionWarning struct {
	Source     ConfigSource
	KeyPath    string
	Kind       OptionWarningKind
	ClampedInt *int
}

type AppliedOption struct {
	Value  RawOptionValue
	Source ConfigSource
}

type SettingsLayer struct {
	Available bool
	Path      string
	Present   bool
	Values    map[string]RawOptionValue
}

type SettingsResolution struct {
	Project        SettingsLayer
	Global         SettingsLayer
	Env            map[string]RawOptionValue
	Resolved       ResolvedConfig
	Applied        map[string]AppliedOption
	OptionWarnings []OptionWarning
	LayerWarnings  []LayerWarning
}

// ResolveSettings loads local/global/env config values and computes applied values with warnings.
func ResolveSettings(projectRoot string) (SettingsResolution, error) {
	return resolveSettings(projectRoot, os.Getenv)
}

func resolveSettings(projectRoot string, getenv func(string) string) (SettingsResolution, error) {
	projectLayer := SettingsLayer{
		Available: projectRoot != "",
		Path:      ProjectConfigPath(projectRoot),
		Values:    map[string]RawOptionValue{},
	}
	globalLayer := SettingsLayer{
		Values: map[string]RawOptionValue{},
	}

	var layerWarnings []LayerWarning
	var projectRaw RawConfig
	var globalRaw RawConfig

	if projectLayer.Available {
		cfg, present, warningKind, err := loadConfigFileDetailed(projectLayer.Path)
		if err != nil {
			return SettingsResolution{}, err
		}
		if warningKind != nil {
			layerWarnings = append(layerWarnings, LayerWarning{
				Source: ConfigSourceLocal,
				Kind:   *warningKind,
			})
		} else if present {
			projectLayer.Present = true
			projectLayer.Values = RawOptionValues(cfg)
			projectRaw = cfg
		}
	}

	globalPath, globalAvailable := globalConfigPath()
	globalLayer.Available = globalAvailable
	globalLayer.Path = globalPath
	if globalAvailable {
		cfg, present, warningKind, err := loadConfigFileDetailed(globalPath)
		if err != nil {
			return SettingsResolution{}, err
		}
		if warningKind != nil {
			layerWarnings = append(layerWarnings, LayerWarning{
				Source: ConfigSourceGlobal,
				Kind:   *warningKind,
			})
		} else if present {
			globalLayer.Present = true
			globalLayer.Values = RawOptionValues(cfg)
			globalRaw = cfg
		}
	}

	envRaw := EnvConfig(getenv)
	envValues := RawOptionValues(envRaw)

	resolved := ResolveConfig(projectRaw, globalRaw, envRaw)
	resolvedValues := ResolvedOptionValues(resolved)

	applied := map[string]AppliedOption{}
	for _, option := range OptionRegistry() {
		key := option.KeyPath
		value, ok := resolvedValues[key]
		if !ok {
			value = defaultOptionValue(option)
		}
		source := ConfigSourceDefault
		switch {
		case acceptsValue(option, projectLayer.Values[key]):
			source = ConfigSourceLocal
		case acceptsValue(option, globalLayer.Values[key]):
			source = ConfigSourceGlobal
		case acceptsValue(option, envValues[key]):
			source = ConfigSourceEnv
		}
		applied[key] = AppliedOption{
			Value:  value,
			Source: source,
		}
	}

	var optionWarnings []OptionWarning
	optionWarnings = append(optionWarnings, collectOptionWarnings(ConfigSourceLocal, projectLayer.Values)...)
	optionWarnings = append(optionWarnings, collectOptionWarnings(ConfigSourceGlobal, globalLayer.Values)...)
	optionWarnings = append(optionWarnings, collectOptionWarnings(ConfigSourceEnv, envValues)...)

	return SettingsResolution{
		Project:        projectLayer,
		Global:         globalLayer,
		Env:            envValues,
		Resolved:       resolved,
		Applied:        applied,
		OptionWarnings: optionWarnings,
		LayerWarnings:  layerWarnings,
	}, nil
}

func ResolvedOptionValues(cfg ResolvedConfig) map[string]RawOptionValue {
	return map[string]RawOptionValue{
		keyStorageBackend:    {String: copyString(cfg.Storage.Backend)},
		keyStorageDir:        {String: copyString(cfg.Storage.Dir)},
		keyStoragePrefix:     {String: copyString(cfg.Storage.Prefix)},
		keyStorageQuotaBytes: {Int: copyInt(cfg.Storage.QuotaBytes)},
		keyLogLevel:          {String: copyString(cfg.Log.Level)},
		keyLogFile:           {String: copyString(cfg.Log.File)},
		keyUITheme:           {String: copyString(cfg.UI.Theme)},
	}
}

// acceptsValue reports whether the resolver would take v for option rather
// than fall through to the next layer.
func acceptsValue(option OptionMetadata, v RawOptionValue) bool {
	switch option.Type {
	case OptionTypeInt:
		return v.Int != nil
	default:
		if len(option.Allowed) > 0 {
			_, ok := normalizeEnum(v.String, option.Allowed)
			return ok
		}
		return normalizeString(v.String) != ""
	}
}

func defaultOptionValue(option OptionMetadata) RawOptionValue {
	if option.Type == OptionTypeInt {
		value := option.DefaultInt
		return RawOptionValue{Int: &value}
	}
	value := option.DefaultString
	return RawOptionValue{String: &value}
}

func collectOptionWarnings(source ConfigSource, values map[string]RawOptionValue) []OptionWarning {
	warnings := []OptionWarning{}
	for _, option := range OptionRegistry() {
		value, ok := values[option.KeyPath]
		if !ok {
			continue
		}
		if value.Int != nil && option.Bounds != nil {
			clamped := clampInt(*value.Int, option.Bounds.Min, option.Bounds.Max)
			if clamped != *value.Int {
				warnings = append(warnings, OptionWarning{
					Source:     source,
					KeyPath:    option.KeyPath,
					Kind:       OptionWarningOutOfRange,
					ClampedInt: copyInt(clamped),
				})
			}
			continue
		}
		if value.String != nil && len(option.Allowed) > 0 && !acceptsValue(option, value) {
			warnings = append(warnings, OptionWarning{
				Source:  source,
				KeyPath: option.KeyPath,
				Kind:    OptionWarningInvalidValue,
			})
		}
	}
	return warnings
}

package config

type OptionType string

const (
	OptionTypeInt    OptionType = "int"
	OptionTypeString OptionType = "string"
)

type IntBounds struct {
	Min int
	Max int
}

type OptionMetadata struct {
	KeyPath       string
	DisplayName   string
	Type          OptionType
	DefaultInt    int
	DefaultString string
	Bounds        *IntBounds
	// Allowed lists the accepted values for enum-like string options.
	Allowed     []string
	Description string
}

// OptionRegistry returns the known config options in display order.
func OptionRegistry() []OptionMetadata {
	defaults := DefaultResolvedConfig()

	return []OptionMetadata{
		newEnumOption(
			keyStorageBackend,
			"Storage Backend",
			defaults.Storage.Backend,
			backends,
			"Where workspaces are persisted",
		),
		newStringOption(
			keyStorageDir,
			"Data Directory",
			defaults.Storage.Dir,
			"Directory holding the data file or database",
		),
		newStringOption(
			keyStoragePrefix,
			"Key Prefix",
			defaults.Storage.Prefix,
			"Namespace prefix for stored keys",
		),
		newIntOption(
			keyStorageQuotaBytes,
			"Storage Quota (bytes)",
			defaults.Storage.QuotaBytes,
			MinQuotaBytes,
			MaxQuotaBytes,
			"Capacity of the in-memory backend; 0 is unlimited",
		),
		newEnumOption(
			keyLogLevel,
			"Log Level",
			defaults.Log.Level,
			logLevels,
			"Minimum level written to the log",
		),
		newStringOption(
			keyLogFile,
			"Log File",
			defaults.Log.File,
			"Log destination; empty writes to stderr",
		),
		newEnumOption(
			keyUITheme,
			"UI Theme",
			defaults.UI.Theme,
			themes,
			"Color theme for the terminal UI",
		),
	}
}

// LookupOption returns the registry entry for keyPath.
func LookupOption(keyPath string) (OptionMetadata, bool) {
	for _, option := range OptionRegistry() {
		if option.KeyPath == keyPath {
			return option, true
		}
	}
	return OptionMetadata{}, false
}

func newIntOption(keyPath string, displayName string, defaultValue int, min int, max int, description string) OptionMetadata {
	return OptionMetadata{
		KeyPath:     keyPath,
		DisplayName: displayName,
		Type:        OptionTypeInt,
		DefaultInt:  defaultValue,
		Bounds: &IntBounds{
			Min: min,
			Max: max,
		},
		Description: description,
	}
}

func newStringOption(keyPath string, displayName string, defaultValue string, description string) OptionMetadata {
	return OptionMetadata{
		KeyPath:       keyPath,
		DisplayName:   displayName,
		Type:          OptionTypeString,
		DefaultString: defaultValue,
		Description:   description,
	}
}

func newEnumOption(keyPath string, displayName string, defaultValue string, allowed []string, description string) OptionMetadata {
	option := newStringOption(keyPath, displayName, defaultValue, description)
	option.Allowed = append([]string(nil), allowed...)
	return option
}

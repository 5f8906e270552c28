package config

const (
	SchemaVersion = 1

	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"

	ThemeLight = "light"
	ThemeDark  = "dark"

	DefaultBackend    = BackendFile
	DefaultDataDir    = "~/.trackflow/data"
	DefaultPrefix     = "trackflow_"
	DefaultQuotaBytes = 5 * 1024 * 1024
	DefaultLogLevel   = "warn"
	DefaultLogFile    = ""
	DefaultTheme      = ThemeLight

	MinQuotaBytes = 0
	MaxQuotaBytes = 100 * 1024 * 1024
)

var (
	backends  = []string{BackendFile, BackendSQLite, BackendMemory}
	logLevels = []string{"debug", "info", "warn", "error", "off"}
	themes    = []string{ThemeLight, ThemeDark}
)

type RawConfig struct {
	SchemaVersion *int        `yaml:"schemaVersion,omitempty"`
	Storage       *RawStorage `yaml:"storage,omitempty"`
	Log           *RawLog     `yaml:"log,omitempty"`
	UI            *RawUI      `yaml:"ui,omitempty"`
}

type RawStorage struct {
	Backend    *string `yaml:"backend,omitempty"`
	Dir        *string `yaml:"dir,omitempty"`
	Prefix     *string `yaml:"prefix,omitempty"`
	QuotaBytes *int    `yaml:"quotaBytes,omitempty"`
}

type RawLog struct {
	Level *string `yaml:"level,omitempty"`
	File  *string `yaml:"file,omitempty"`
}

type RawUI struct {
	Theme *string `yaml:"theme,omitempty"`
}

type ResolvedConfig struct {
	SchemaVersion int             `yaml:"schemaVersion"`
	Storage       ResolvedStorage `yaml:"storage"`
	Log           ResolvedLog     `yaml:"log"`
	UI            ResolvedUI      `yaml:"ui"`
}

type ResolvedStorage struct {
	Backend    string `yaml:"backend"`
	Dir        string `yaml:"dir"`
	Prefix     string `yaml:"prefix"`
	QuotaBytes int    `yaml:"quotaBytes"`
}

type ResolvedLog struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

type ResolvedUI struct {
	Theme string `yaml:"theme"`
}

func DefaultResolvedConfig() ResolvedConfig {
	return ResolvedConfig{
		SchemaVersion: SchemaVersion,
		Storage: ResolvedStorage{
			Backend:    DefaultBackend,
			Dir:        DefaultDataDir,
			Prefix:     DefaultPrefix,
			QuotaBytes: DefaultQuotaBytes,
		},
		Log: ResolvedLog{
			Level: DefaultLogLevel,
			File:  DefaultLogFile,
		},
		UI: ResolvedUI{
			Theme: DefaultTheme,
		},
	}
}

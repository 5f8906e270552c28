package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	configDirName  = ".trackflow"
	configFileName = "config.yaml"
)

var userHomeDir = os.UserHomeDir

func LoadGlobalConfig() (RawConfig, bool, error) {
	path, ok := globalConfigPath()
	if !ok {
		return RawConfig{}, false, nil
	}
	return loadConfigFile(path)
}

func LoadProjectConfig(projectRoot string) (RawConfig, bool, error) {
	if projectRoot == "" {
		return RawConfig{}, false, nil
	}
	return loadConfigFile(ProjectConfigPath(projectRoot))
}

// LoadConfig reads the .env file, global and project configs and returns the
// resolved config. Precedence per key: project > global > environment >
// defaults.
func LoadConfig(projectRoot string) (ResolvedConfig, error) {
	if err := LoadDotEnv(projectRoot); err != nil {
		return ResolvedConfig{}, err
	}
	globalCfg, _, err := LoadGlobalConfig()
	if err != nil {
		return ResolvedConfig{}, err
	}
	projectCfg, _, err := LoadProjectConfig(projectRoot)
	if err != nil {
		return ResolvedConfig{}, err
	}
	return ResolveConfig(projectCfg, globalCfg, EnvConfig(os.Getenv)), nil
}

func loadConfigFile(path string) (RawConfig, bool, error) {
	cfg, present, warning, err := loadConfigFileDetailed(path)
	if err != nil || warning != nil {
		return RawConfig{}, false, err
	}
	return cfg, present, nil
}

// loadConfigFileDetailed treats unreadable YAML and unknown schema versions
// as an absent layer, reporting why through the warning kind.
func loadConfigFileDetailed(path string) (RawConfig, bool, *LayerWarningKind, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return RawConfig{}, false, nil, nil
		}
		return RawConfig{}, false, nil, fmt.Errorf("read config %s: %w", path, err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)

	var cfg RawConfig
	if err := dec.Decode(&cfg); err != nil {
		if errors.Is(err, io.EOF) {
			return RawConfig{}, true, nil, nil
		}
		return RawConfig{}, false, warningPtr(LayerWarningInvalidYAML), nil
	}
	var extra any
	if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
		return RawConfig{}, false, warningPtr(LayerWarningInvalidYAML), nil
	}
	if !isSupportedSchemaVersion(cfg.SchemaVersion) {
		return RawConfig{}, false, warningPtr(LayerWarningUnsupportedSchema), nil
	}

	return cfg, true, nil, nil
}

func isSupportedSchemaVersion(version *int) bool {
	if version == nil {
		return true
	}
	return *version == SchemaVersion
}

func ProjectConfigPath(projectRoot string) string {
	if projectRoot == "" {
		return ""
	}
	return filepath.Join(projectRoot, configDirName, configFileName)
}

func GlobalConfigPath() (string, bool) {
	return globalConfigPath()
}

func globalConfigPath() (string, bool) {
	home, err := userHomeDir()
	if err != nil || home == "" {
		return "", false
	}
	return filepath.Join(home, configDirName, configFileName), true
}

func warningPtr(kind LayerWarningKind) *LayerWarningKind {
	return &kind
}

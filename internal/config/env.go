package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

const (
	EnvStorageBackend = "TRACKFLOW_STORAGE_BACKEND"
	EnvDataDir        = "TRACKFLOW_DATA_DIR"
	EnvLogLevel       = "TRACKFLOW_LOG_LEVEL"
)

// LoadDotEnv loads dir/.env into the process environment. Variables that are
// already set win; a missing file is fine.
func LoadDotEnv(dir string) error {
	path := ".env"
	if dir != "" {
		path = filepath.Join(dir, ".env")
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// EnvConfig builds a config layer from TRACKFLOW_* variables.
func EnvConfig(getenv func(string) string) RawConfig {
	var cfg RawConfig
	if v := getenv(EnvStorageBackend); v != "" {
		cfg.Storage = ensureStorage(cfg.Storage)
		cfg.Storage.Backend = copyString(v)
	}
	if v := getenv(EnvDataDir); v != "" {
		cfg.Storage = ensureStorage(cfg.Storage)
		cfg.Storage.Dir = copyString(v)
	}
	if v := getenv(EnvLogLevel); v != "" {
		cfg.Log = &RawLog{Level: copyString(v)}
	}
	return cfg
}

func ensureStorage(s *RawStorage) *RawStorage {
	if s == nil {
		return &RawStorage{}
	}
	return s
}

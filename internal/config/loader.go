package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

const (
	pathEnv     = "CONFIG_PATH"
	defaultPath = "./config.yaml"
	dotEnvPath  = ".env"
)

// Load reads the configuration from the file named by CONFIG_PATH (or
// ./config.yaml when unset) merged with the environment.
func Load() (*Config, error) {
	path, explicit := os.LookupEnv(pathEnv)
	if !explicit || path == "" {
		return load(defaultPath, false)
	}
	return load(path, true)
}

// LoadFrom reads the configuration from path merged with the environment.
// The file must exist.
func LoadFrom(path string) (*Config, error) {
	return load(path, true)
}

// load applies ENV over YAML over env-default tags. A missing file is only an
// error when it was asked for explicitly. Variables from a local .env file
// fill in whatever the process environment leaves unset.
func load(path string, required bool) (*Config, error) {
	var cfg Config

	if err := godotenv.Load(dotEnvPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("config: read %s: %w", dotEnvPath, err)
	}

	_, statErr := os.Stat(path)
	switch {
	case statErr == nil:
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	case required || !errors.Is(statErr, fs.ErrNotExist):
		return nil, fmt.Errorf("config: file %s: %w", path, statErr)
	default:
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("config: read env: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validate: %w", err)
	}
	return &cfg, nil
}

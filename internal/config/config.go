package config

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Defaults applied when neither flags, environment, nor config files set a
// value.
const (
	DefaultImage          = "scanyard-scanner:latest"
	DefaultTimeoutSeconds = 60
	DefaultWorkers        = 2
	DefaultListen         = ":8080"
)

// FileConfig is the on-disk YAML configuration shape for Scanyard. Fields are
// pointers so an absent key can be told apart from a zero value.
type FileConfig struct {
	Image          *string `yaml:"image"`
	TimeoutSeconds *int    `yaml:"timeout_seconds"`
	Workers        *int    `yaml:"workers"`
	DatabaseURL    *string `yaml:"database_url"`
	Listen         *string `yaml:"listen"`
	WorkspaceDir   *string `yaml:"workspace_dir"`
}

// LoadFile reads a YAML config file from the provided path.
func LoadFile(path string) (FileConfig, error) {
	var cfg FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// LoadLocal searches for a config file in the given directory.
// It supports .scanyard.yml/.yaml and scanyard.yml/.yaml.
func LoadLocal(dir string) (FileConfig, error) {
	var cfg FileConfig
	for _, name := range []string{".scanyard.yml", ".scanyard.yaml", "scanyard.yml", "scanyard.yaml"} {
		p := filepath.Join(dir, name)
		if _, err := os.Stat(p); err == nil {
			return LoadFile(p)
		}
	}
	return cfg, errors.New("no local config")
}

// LoadGlobal loads the global config file from XDG base directory or ~/.config.
func LoadGlobal() (FileConfig, error) {
	var cfg FileConfig
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, _ := os.UserHomeDir()
		if home != "" {
			base = filepath.Join(home, ".config")
		}
	}
	if base == "" {
		return cfg, errors.New("no config dir")
	}
	p := filepath.Join(base, "scanyard", "config.yml")
	if _, err := os.Stat(p); err == nil {
		return LoadFile(p)
	}
	return cfg, errors.New("no global config")
}

// FromEnv reads the environment override layer. Environment values sit
// between CLI flags and config files in precedence: a set variable beats any
// file but loses to an explicit flag.
func FromEnv() FileConfig {
	var cfg FileConfig
	if v := os.Getenv("SCANYARD_IMAGE"); v != "" {
		cfg.Image = &v
	}
	if v := os.Getenv("SCANYARD_TIMEOUT_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.TimeoutSeconds = &n
		}
	}
	if v := os.Getenv("SCANYARD_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Workers = &n
		}
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.DatabaseURL = &v
	}
	if v := os.Getenv("SCANYARD_LISTEN"); v != "" {
		cfg.Listen = &v
	}
	if v := os.Getenv("SCANYARD_WORKSPACE_DIR"); v != "" {
		cfg.WorkspaceDir = &v
	}
	return cfg
}

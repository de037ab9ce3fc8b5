package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DirName      = ".trefila"
	FileName     = "config.yaml"
	EnvFileName  = ".env"
	DefaultMode  = "progressive"
	DefaultLevel = "info"
)

type Config struct {
	WorkspacePath string
	DBPath        string
	DraftPath     string
	LogPath       string
	LogLevel      string
	DefaultMode   string
	DefaultPasses int
}

// fileConfig is the on-disk shape of .trefila/config.yaml.
type fileConfig struct {
	LogLevel      string `yaml:"log_level"`
	DBPath        string `yaml:"db_path"`
	DefaultMode   string `yaml:"default_mode"`
	DefaultPasses int    `yaml:"default_passes"`
}

func New(workspacePath string) (Config, error) {
	if workspacePath == "" {
		return Config{}, fmt.Errorf("workspace path is required")
	}
	return Config{
		WorkspacePath: workspacePath,
		DBPath:        filepath.Join(workspacePath, DirName, "trefila.db"),
		DraftPath:     filepath.Join(workspacePath, DirName, "draft.json"),
		LogPath:       filepath.Join(workspacePath, DirName, "trefila.log"),
		LogLevel:      DefaultLevel,
		DefaultMode:   DefaultMode,
		DefaultPasses: 4,
	}, nil
}

// Load applies, in order, the defaults from New, the optional
// .trefila/config.yaml, the optional .env file and the process environment.
func Load(workspacePath string) (Config, error) {
	cfg, err := New(workspacePath)
	if err != nil {
		return Config{}, err
	}
	if err := cfg.applyFile(filepath.Join(workspacePath, DirName, FileName)); err != nil {
		return Config{}, err
	}
	envPath := filepath.Join(workspacePath, EnvFileName)
	if _, statErr := os.Stat(envPath); statErr == nil {
		// godotenv.Load never overrides variables already set in the process.
		if err := godotenv.Load(envPath); err != nil {
			return Config{}, fmt.Errorf("load env file: %w", err)
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	var fc fileConfig
	if err := yaml.Unmarshal(raw, &fc); err != nil {
		return fmt.Errorf("decode config: %w", err)
	}
	if fc.LogLevel != "" {
		c.LogLevel = fc.LogLevel
	}
	if fc.DBPath != "" {
		c.DBPath = c.resolve(fc.DBPath)
	}
	if fc.DefaultMode != "" {
		c.DefaultMode = fc.DefaultMode
	}
	if fc.DefaultPasses > 0 {
		c.DefaultPasses = fc.DefaultPasses
	}
	return nil
}

func (c *Config) applyEnv() error {
	if v := strings.TrimSpace(os.Getenv("TREFILA_LOG_LEVEL")); v != "" {
		c.LogLevel = v
	}
	if v := strings.TrimSpace(os.Getenv("TREFILA_DB_PATH")); v != "" {
		c.DBPath = c.resolve(v)
	}
	if v := strings.TrimSpace(os.Getenv("TREFILA_DEFAULT_MODE")); v != "" {
		c.DefaultMode = v
	}
	if v := strings.TrimSpace(os.Getenv("TREFILA_DEFAULT_PASSES")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return fmt.Errorf("TREFILA_DEFAULT_PASSES must be a positive integer, got %q", v)
		}
		c.DefaultPasses = n
	}
	return nil
}

func (c Config) resolve(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(c.WorkspacePath, path)
}

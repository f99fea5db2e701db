package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const appName = "vidtrim"

// Theme names accepted by the terminal UI.
const (
	ThemeDark  = "dark"
	ThemeLight = "light"
)

// Config holds persistent application settings
type Config struct {
	Theme           string    `yaml:"theme"`
	Mode            string    `yaml:"mode"`
	OutputPrefix    string    `yaml:"output_prefix"`
	VideoExtensions []string  `yaml:"video_extensions"`
	LastDir         string    `yaml:"last_dir,omitempty"`
	StepSizes       []float64 `yaml:"step_sizes"`
	DatabasePath    string    `yaml:"database_path,omitempty"`
	LogFile         string    `yaml:"log_file,omitempty"`

	// path is where Save writes; set by Load.
	path string
}

// DefaultConfig returns a new config with default values
func DefaultConfig() *Config {
	return &Config{
		Theme:           ThemeDark,
		Mode:            "copy",
		OutputPrefix:    "trimmed_",
		VideoExtensions: []string{".mp4", ".avi", ".mov", ".mkv", ".webm", ".m4v"},
		StepSizes:       []float64{0.1, 0.5, 1, 5, 10, 30, 60, 300},
	}
}

// DefaultPath returns <UserConfigDir>/vidtrim/config.yaml.
func DefaultPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, appName, "config.yaml"), nil
}

// DataDir returns the directory for the database and log file:
// ~/.local/share/vidtrim.
func DataDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".local", "share", appName), nil
}

// Load reads the config at path (DefaultPath when empty). A missing file
// yields the defaults; a malformed file is an error.
func Load(path string) (*Config, error) {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return DefaultConfig(), nil
		}
		path = p
	}

	cfg := DefaultConfig()
	cfg.path = path

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.path = path

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Path returns the file this config was loaded from and will be saved to.
func (c *Config) Path() string {
	return c.path
}

// Validate rejects values the rest of the program cannot act on.
func (c *Config) Validate() error {
	switch c.Theme {
	case ThemeDark, ThemeLight:
	default:
		return fmt.Errorf("unknown theme %q (want dark or light)", c.Theme)
	}
	switch c.Mode {
	case "copy", "reencode":
	default:
		return fmt.Errorf("unknown mode %q (want copy or reencode)", c.Mode)
	}
	if len(c.VideoExtensions) == 0 {
		return errors.New("video_extensions must not be empty")
	}
	for _, s := range c.StepSizes {
		if s <= 0 {
			return fmt.Errorf("step size %v must be positive", s)
		}
	}
	return nil
}

// Save writes the config back to its path, creating parent directories.
func (c *Config) Save() error {
	if c.path == "" {
		p, err := DefaultPath()
		if err != nil {
			return err
		}
		c.path = p
	}
	if err := os.MkdirAll(filepath.Dir(c.path), 0755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return os.WriteFile(c.path, data, 0644)
}

// ResolveDatabasePath returns DatabasePath or <DataDir>/data.db.
func (c *Config) ResolveDatabasePath() (string, error) {
	if c.DatabasePath != "" {
		return c.DatabasePath, nil
	}
	dir, err := DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "data.db"), nil
}

// ResolveLogFile returns LogFile or <DataDir>/vidtrim.log.
func (c *Config) ResolveLogFile() (string, error) {
	if c.LogFile != "" {
		return c.LogFile, nil
	}
	dir, err := DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, appName+".log"), nil
}

// ToggleTheme flips between the dark and light theme and returns the new one.
func (c *Config) ToggleTheme() string {
	if c.Theme == ThemeLight {
		c.Theme = ThemeDark
	} else {
		c.Theme = ThemeLight
	}
	return c.Theme
}

// IsVideoFile reports whether name has one of the configured video extensions.
func (c *Config) IsVideoFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range c.VideoExtensions {
		if strings.ToLower(e) == ext {
			return true
		}
	}
	return false
}

// Set assigns a single key by its YAML name, as used by "config set".
func (c *Config) Set(key, value string) error {
	switch key {
	case "theme":
		c.Theme = value
	case "mode":
		c.Mode = value
	case "output_prefix":
		c.OutputPrefix = value
	case "last_dir":
		c.LastDir = value
	case "database_path":
		c.DatabasePath = value
	case "log_file":
		c.LogFile = value
	case "video_extensions":
		var exts []string
		for _, e := range strings.Split(value, ",") {
			e = strings.TrimSpace(e)
			if e == "" {
				continue
			}
			if !strings.HasPrefix(e, ".") {
				e = "." + e
			}
			exts = append(exts, e)
		}
		c.VideoExtensions = exts
	default:
		return fmt.Errorf("unknown config key %q", key)
	}
	return c.Validate()
}

package controller

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// AppConfig holds all application configuration
type AppConfig struct {
	// Submission settings
	SubmitDelay time.Duration `yaml:"submit_delay" validate:"gte=0,lte=1m"`
	FailureRate float64       `yaml:"failure_rate" validate:"gte=0,lte=1"`

	// UI settings
	Theme           string `yaml:"theme" validate:"oneof=dark light system"`
	MaskChar        string `yaml:"mask_char" validate:"len=1"`
	ShowCardPreview bool   `yaml:"show_card_preview"`

	// Window settings
	WindowWidth  int `yaml:"window_width" validate:"gte=0"`
	WindowHeight int `yaml:"window_height" validate:"gte=0"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *AppConfig {
	return &AppConfig{
		SubmitDelay: 2 * time.Second,
		FailureRate: 0.3,

		Theme:           "system",
		MaskChar:        "*",
		ShowCardPreview: true,

		WindowWidth:  480,
		WindowHeight: 720,
	}
}

// getConfigDir returns the configuration directory path
func getConfigDir() string {
	var configDir string

	switch runtime.GOOS {
	case "windows":
		configDir = os.Getenv("APPDATA")
		if configDir == "" {
			configDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
	case "darwin":
		homeDir, _ := os.UserHomeDir()
		configDir = filepath.Join(homeDir, "Library", "Application Support")
	default: // linux and others
		configDir = os.Getenv("XDG_CONFIG_HOME")
		if configDir == "" {
			homeDir, _ := os.UserHomeDir()
			configDir = filepath.Join(homeDir, ".config")
		}
	}

	return filepath.Join(configDir, "PaymentForm")
}

// ConfigPath returns the full path to the config file
func ConfigPath() string {
	return filepath.Join(getConfigDir(), "config.yaml")
}

// LoadConfig loads configuration from the default path or returns defaults
func LoadConfig() *AppConfig {
	config, err := LoadConfigFrom(ConfigPath())
	if err != nil {
		return DefaultConfig()
	}
	return config
}

// LoadConfigFrom reads a YAML config file. A missing file yields defaults.
func LoadConfigFrom(path string) (*AppConfig, error) {
	config := DefaultConfig()

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return config, nil
	}
	if err != nil {
		return nil, &OpError{Op: "config.load", Kind: KindIO, Path: path, Err: err}
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, &OpError{Op: "config.load", Kind: KindInvalidConfig, Path: path, Err: err}
	}

	config.Normalize()
	if err := config.Validate(); err != nil {
		return nil, &OpError{Op: "config.load", Kind: KindInvalidConfig, Path: path, Err: err}
	}

	return config, nil
}

// SaveConfig saves configuration to the default path
func SaveConfig(config *AppConfig) error {
	return SaveConfigTo(ConfigPath(), config)
}

// SaveConfigTo writes config as YAML, creating the parent directory
func SaveConfigTo(path string, config *AppConfig) error {
	if err := config.Validate(); err != nil {
		return &OpError{Op: "config.save", Kind: KindInvalidConfig, Path: path, Err: err}
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return &OpError{Op: "config.save", Kind: KindInvalidConfig, Path: path, Err: err}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return &OpError{Op: "config.save", Kind: KindIO, Path: path, Err: err}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return &OpError{Op: "config.save", Kind: KindIO, Path: path, Err: err}
	}
	return nil
}

var validate = validator.New()

// Validate checks field ranges
func (c *AppConfig) Validate() error {
	return validate.Struct(c)
}

// Normalize clamps values that have a safe fallback
func (c *AppConfig) Normalize() {
	if c.WindowWidth < 360 {
		c.WindowWidth = 360
	}
	if c.WindowHeight < 560 {
		c.WindowHeight = 560
	}
	if c.MaskChar == "" {
		c.MaskChar = "*"
	}
	if c.Theme == "" {
		c.Theme = "system"
	}
}

// MaskRune returns the first rune of MaskChar
func (c *AppConfig) MaskRune() rune {
	for _, r := range c.MaskChar {
		return r
	}
	return '*'
}

// Clone creates a copy of the config
func (c *AppConfig) Clone() *AppConfig {
	clone := *c
	return &clone
}

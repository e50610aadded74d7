package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Defaults applied when the config file omits a value
const (
	DefaultMonthlyLimit          = 2
	DefaultPriorityHighMax       = 2
	DefaultPriorityMediumMax     = 4
	DefaultGenerationHorizonDays = 60
)

// Config represents the application configuration
type Config struct {
	DatabaseURL           string `yaml:"databaseURL" validate:"required"`
	MonthlyLimit          int    `yaml:"monthlyLimit,omitempty" validate:"omitempty,min=1"`
	PriorityHighMax       int    `yaml:"priorityHighMax,omitempty" validate:"omitempty,min=0"`
	PriorityMediumMax     int    `yaml:"priorityMediumMax,omitempty" validate:"omitempty,min=0"`
	GenerationHorizonDays int    `yaml:"generationHorizonDays,omitempty" validate:"omitempty,min=1"`
	EmailEnabled          bool   `yaml:"emailEnabled,omitempty"`
	GmailSender           string `yaml:"gmailSender,omitempty" validate:"omitempty,email"`
}

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Load loads and validates the configuration from presentoir_config.yaml
// It looks for the config file in the current directory first, then in the user's home directory
func Load() (*Config, error) {
	configPath, err := findConfigFile()
	if err != nil {
		return nil, fmt.Errorf("failed to find config file: %w", err)
	}

	return LoadFromPath(configPath)
}

// fileConfig mirrors Config for decoding. The priority limits use
// pointers so an explicit zero in the file is distinguishable from an
// omitted key; zero is not a valid value for the other numeric fields
type fileConfig struct {
	DatabaseURL           string `yaml:"databaseURL"`
	MonthlyLimit          int    `yaml:"monthlyLimit"`
	PriorityHighMax       *int   `yaml:"priorityHighMax"`
	PriorityMediumMax     *int   `yaml:"priorityMediumMax"`
	GenerationHorizonDays int    `yaml:"generationHorizonDays"`
	EmailEnabled          bool   `yaml:"emailEnabled"`
	GmailSender           string `yaml:"gmailSender"`
}

// LoadFromPath loads and validates the configuration from a specific path
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var raw fileConfig
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg := Config{
		DatabaseURL:           raw.DatabaseURL,
		MonthlyLimit:          raw.MonthlyLimit,
		PriorityHighMax:       DefaultPriorityHighMax,
		PriorityMediumMax:     DefaultPriorityMediumMax,
		GenerationHorizonDays: raw.GenerationHorizonDays,
		EmailEnabled:          raw.EmailEnabled,
		GmailSender:           raw.GmailSender,
	}
	if raw.PriorityHighMax != nil {
		cfg.PriorityHighMax = *raw.PriorityHighMax
	}
	if raw.PriorityMediumMax != nil {
		cfg.PriorityMediumMax = *raw.PriorityMediumMax
	}
	applyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate validates the configuration struct and cross-field constraints
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	if cfg.PriorityHighMax > cfg.PriorityMediumMax {
		return fmt.Errorf("config validation failed: priorityHighMax (%d) must not exceed priorityMediumMax (%d)",
			cfg.PriorityHighMax, cfg.PriorityMediumMax)
	}
	if cfg.EmailEnabled && cfg.GmailSender == "" {
		return fmt.Errorf("config validation failed: gmailSender is required when emailEnabled is set")
	}

	return nil
}

func applyDefaults(cfg *Config) {
	if cfg.MonthlyLimit == 0 {
		cfg.MonthlyLimit = DefaultMonthlyLimit
	}
	if cfg.GenerationHorizonDays == 0 {
		cfg.GenerationHorizonDays = DefaultGenerationHorizonDays
	}
}

// findConfigFile searches for presentoir_config.yaml in current directory and home directory
func findConfigFile() (string, error) {
	configFileName := "presentoir_config.yaml"

	// Check current directory
	if _, err := os.Stat(configFileName); err == nil {
		return configFileName, nil
	}

	// Check home directory
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	homeConfigPath := filepath.Join(homeDir, configFileName)
	if _, err := os.Stat(homeConfigPath); err == nil {
		return homeConfigPath, nil
	}

	return "", fmt.Errorf("config file not found in current directory or home directory")
}

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

const defaultAPIURL = "http://localhost:3000"

// Config holds user preferences
type Config struct {
	APIURL            string  `yaml:"api_url" json:"api_url"`                         // REST API base URL
	ConfirmDelete     bool    `yaml:"confirm_delete" json:"confirm_delete"`           // Require confirmation for delete
	RequestsPerSecond float64 `yaml:"requests_per_second" json:"requests_per_second"` // 0 disables pacing

	// Logging configuration
	LogLevel   string `yaml:"log_level" json:"log_level"`     // DEBUG, INFO, WARN, ERROR
	LogFile    string `yaml:"log_file" json:"log_file"`       // Path to log file
	LogConsole bool   `yaml:"log_console" json:"log_console"` // Enable console logging
	LogFormat  string `yaml:"log_format" json:"log_format"`   // text or json

	// MetricsAddr serves prometheus metrics while the dashboard runs.
	MetricsAddr string `yaml:"metrics_addr" json:"metrics_addr"`
}

// Dir returns the jera home directory (~/.jera, or $JERA_HOME).
func Dir() (string, error) {
	if dir := os.Getenv("JERA_HOME"); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".jera"), nil
}

// Path returns the config file location.
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// DefaultConfig returns default settings
func DefaultConfig() *Config {
	logPath := ""
	if dir, err := Dir(); err == nil {
		logPath = filepath.Join(dir, "logs", "jera.log")
	}

	return &Config{
		APIURL:        defaultAPIURL,
		ConfirmDelete: true,
		LogLevel:      "INFO",
		LogFile:       logPath,
		LogFormat:     "text",
	}
}

// applyEnv lets environment variables win over the file.
func (c *Config) applyEnv() {
	if v := os.Getenv("JERA_API_URL"); v != "" {
		c.APIURL = v
	}
	if v := os.Getenv("JERA_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("JERA_LOG_FILE"); v != "" {
		c.LogFile = v
	}
	if v := os.Getenv("JERA_LOG_CONSOLE"); v != "" {
		c.LogConsole = v == "true"
	}
	if v := os.Getenv("JERA_RPS"); v != "" {
		if rps, err := strconv.ParseFloat(v, 64); err == nil {
			c.RequestsPerSecond = rps
		}
	}
}

// Validate reports settings that would make every request fail.
func (c *Config) Validate() error {
	if c.APIURL == "" {
		return fmt.Errorf("api_url must not be empty")
	}
	if c.RequestsPerSecond < 0 {
		return fmt.Errorf("requests_per_second must be >= 0, got %v", c.RequestsPerSecond)
	}
	return nil
}

// Load loads config from ~/.jera/config.yaml, falling back to defaults.
func Load() (*Config, error) {
	path, err := Path()
	if err != nil {
		return nil, err
	}
	return LoadFile(path)
}

// LoadFile loads config from an explicit path.
func LoadFile(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		cfg.applyEnv()
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.applyEnv()

	return cfg, nil
}

// Save saves config to ~/.jera/config.yaml
func (c *Config) Save() error {
	path, err := Path()
	if err != nil {
		return err
	}
	return c.SaveFile(path)
}

// SaveFile writes the config to an explicit path.
func (c *Config) SaveFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the clipd configuration
type Config struct {
	MaxHistorySize      int    `yaml:"max_history_size"`
	MonitorTerminalApps bool   `yaml:"monitor_terminal_apps"`
	PollIntervalMS      int    `yaml:"poll_interval_ms"`
	DataDir             string `yaml:"data_dir,omitempty"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		MaxHistorySize:      50,
		MonitorTerminalApps: false,
		PollIntervalMS:      500,
	}
}

// PollInterval returns the capture poll interval as a duration
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalMS) * time.Millisecond
}

// Provider exposes the settings the core re-reads on every decision point,
// so edits to the config file take effect without a restart.
// Implementations must be safe for concurrent use.
type Provider interface {
	MaxHistorySize() int
	MonitorTerminalApps() bool
}

// Static is a fixed Provider for tests and one-shot commands.
type Static struct {
	HistoryLimit int
	TerminalApps bool
}

// MaxHistorySize implements Provider
func (s Static) MaxHistorySize() int { return s.HistoryLimit }

// MonitorTerminalApps implements Provider
func (s Static) MonitorTerminalApps() bool { return s.TerminalApps }

// Manager manages configuration persistence
type Manager struct {
	configPath string
}

// NewManager creates a new configuration manager
func NewManager() (*Manager, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get user home directory: %w", err)
	}

	configDir := filepath.Join(homeDir, ".config", "clipd")
	configPath := filepath.Join(configDir, "config.yaml")

	return &Manager{
		configPath: configPath,
	}, nil
}

// NewManagerWithPath creates a config manager with custom config path
func NewManagerWithPath(configPath string) *Manager {
	return &Manager{
		configPath: configPath,
	}
}

// Load reads the configuration from file, or returns default if file doesn't exist
func (m *Manager) Load() (*Config, error) {
	// If config file doesn't exist, return default config
	if _, err := os.Stat(m.configPath); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(m.configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Validate and set defaults for missing fields
	if err := m.validateAndSetDefaults(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// Save writes the configuration to file
func (m *Manager) Save(config *Config) error {
	// Validate configuration before saving
	if err := m.validateAndSetDefaults(config); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	// Ensure config directory exists
	configDir := filepath.Dir(m.configPath)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(m.configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// validateAndSetDefaults fills zero values from the defaults and rejects
// settings that would misbehave at runtime
func (m *Manager) validateAndSetDefaults(config *Config) error {
	defaults := DefaultConfig()

	if config.MaxHistorySize == 0 {
		config.MaxHistorySize = defaults.MaxHistorySize
	}
	if config.MaxHistorySize < 0 {
		return fmt.Errorf("max_history_size must be greater than 0")
	}
	if config.MaxHistorySize > 10000 {
		return fmt.Errorf("max_history_size cannot exceed 10000 items")
	}

	if config.PollIntervalMS == 0 {
		config.PollIntervalMS = defaults.PollIntervalMS
	}
	if config.PollIntervalMS < 100 {
		return fmt.Errorf("poll_interval_ms must be at least 100")
	}
	if config.PollIntervalMS > 60000 {
		return fmt.Errorf("poll_interval_ms cannot exceed 60000")
	}

	return nil
}

// GetConfigPath returns the path to the config file
func (m *Manager) GetConfigPath() string {
	return m.configPath
}

// Update modifies a specific configuration value
func (m *Manager) Update(key, value string) error {
	config, err := m.Load()
	if err != nil {
		return err
	}

	switch key {
	case "max-history-size":
		var size int
		if _, err := fmt.Sscanf(value, "%d", &size); err != nil {
			return fmt.Errorf("invalid integer value for max-history-size: %s", value)
		}
		config.MaxHistorySize = size
	case "monitor-terminal-apps":
		switch value {
		case "true":
			config.MonitorTerminalApps = true
		case "false":
			config.MonitorTerminalApps = false
		default:
			return fmt.Errorf("invalid boolean value for monitor-terminal-apps: %s (must be 'true' or 'false')", value)
		}
	case "poll-interval-ms":
		var interval int
		if _, err := fmt.Sscanf(value, "%d", &interval); err != nil {
			return fmt.Errorf("invalid integer value for poll-interval-ms: %s", value)
		}
		config.PollIntervalMS = interval
	case "data-dir":
		config.DataDir = value
	default:
		return fmt.Errorf("unknown configuration key: %s", key)
	}

	return m.Save(config)
}

// Get returns the value for a specific configuration key
func (m *Manager) Get(key string) (string, error) {
	config, err := m.Load()
	if err != nil {
		return "", err
	}

	switch key {
	case "max-history-size":
		return fmt.Sprintf("%d", config.MaxHistorySize), nil
	case "monitor-terminal-apps":
		return fmt.Sprintf("%t", config.MonitorTerminalApps), nil
	case "poll-interval-ms":
		return fmt.Sprintf("%d", config.PollIntervalMS), nil
	case "data-dir":
		if config.DataDir == "" {
			return "[default]", nil
		}
		return config.DataDir, nil
	default:
		return "", fmt.Errorf("unknown configuration key: %s", key)
	}
}

// List returns all configuration keys and values
func (m *Manager) List() (map[string]string, error) {
	config, err := m.Load()
	if err != nil {
		return nil, err
	}

	result := map[string]string{
		"max-history-size":      fmt.Sprintf("%d", config.MaxHistorySize),
		"monitor-terminal-apps": fmt.Sprintf("%t", config.MonitorTerminalApps),
		"poll-interval-ms":      fmt.Sprintf("%d", config.PollIntervalMS),
		"data-dir":              config.DataDir,
	}

	if result["data-dir"] == "" {
		result["data-dir"] = "[default]"
	}

	return result, nil
}

package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/riordanpawley/sluse/internal/domain"
	"github.com/riordanpawley/sluse/internal/services/rotation"
	"gopkg.in/yaml.v3"
)

const (
	// JSONFile is the versioned config file looked up in the working directory
	JSONFile = ".sluse.json"
	// YAMLFile is used when no JSON config exists
	YAMLFile = ".sluse.yaml"
)

// Config represents the full kiosk configuration
type Config struct {
	API     APIConfig     `json:"api" yaml:"api"`
	Display DisplayConfig `json:"display" yaml:"display"`
	Network NetworkConfig `json:"network" yaml:"network"`
	Log     LogConfig     `json:"log" yaml:"log"`
	Store   StoreConfig   `json:"store" yaml:"store"`
}

// APIConfig points at the project query API
type APIConfig struct {
	BaseURL        string `json:"baseURL" yaml:"baseURL"`
	TimeoutSeconds int    `json:"timeoutSeconds" yaml:"timeoutSeconds"`
	HealthPath     string `json:"healthPath" yaml:"healthPath"`
}

// DisplayConfig contains the rotation parameters of the board
type DisplayConfig struct {
	Title           string   `json:"title" yaml:"title"`
	Periods         []string `json:"periods" yaml:"periods"`
	PageSize        int      `json:"pageSize" yaml:"pageSize"`
	RotationSeconds int      `json:"rotationSeconds" yaml:"rotationSeconds"`
	StaleSeconds    int      `json:"staleSeconds" yaml:"staleSeconds"`
	WatchdogMinutes int      `json:"watchdogMinutes" yaml:"watchdogMinutes"`
}

// NetworkConfig contains API reachability settings
type NetworkConfig struct {
	CheckInterval int `json:"checkInterval" yaml:"checkInterval"` // seconds
}

// LogConfig contains logging settings
type LogConfig struct {
	Level string `json:"level" yaml:"level"`
	File  string `json:"file" yaml:"file"`
}

// StoreConfig locates the refresh activity database
type StoreConfig struct {
	Path          string `json:"path" yaml:"path"`
	RetentionDays int    `json:"retentionDays" yaml:"retentionDays"`
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	homeDir, _ := os.UserHomeDir()
	dataDir := filepath.Join(homeDir, ".sluse")

	periods := domain.KioskPeriods()
	names := make([]string, len(periods))
	for i, p := range periods {
		names[i] = string(p)
	}

	return &Config{
		API: APIConfig{
			BaseURL:        "http://localhost:8080/api/projects",
			TimeoutSeconds: 10,
			HealthPath:     "/health",
		},
		Display: DisplayConfig{
			Title:           "Sluse",
			Periods:         names,
			PageSize:        9,
			RotationSeconds: 30,
			StaleSeconds:    120,
			WatchdogMinutes: 360, // 6 hours
		},
		Network: NetworkConfig{
			CheckInterval: 60,
		},
		Log: LogConfig{
			Level: "info",
			File:  filepath.Join(dataDir, "sluse.log"),
		},
		Store: StoreConfig{
			Path:          filepath.Join(dataDir, "activity.db"),
			RetentionDays: 30,
		},
	}
}

// LoadConfig loads configuration from project path with priority:
// 1. Environment variables (SLUSE_*)
// 2. .sluse.json in project root (with version migration support)
// 3. .sluse.yaml in project root
// 4. Defaults
func LoadConfig(projectPath string) (*Config, error) {
	cfg, err := loadFile(projectPath)
	if err != nil {
		return nil, err
	}

	cfg = MergeWithDefaults(cfg)
	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadFile(projectPath string) (*Config, error) {
	jsonPath := filepath.Join(projectPath, JSONFile)
	if data, err := os.ReadFile(jsonPath); err == nil {
		cfg, err := ParseVersionedConfig(data)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", JSONFile, err)
		}
		return cfg, nil
	}

	yamlPath := filepath.Join(projectPath, YAMLFile)
	if data, err := os.ReadFile(yamlPath); err == nil {
		var cfg Config
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", YAMLFile, err)
		}
		return &cfg, nil
	}

	return &Config{}, nil
}

// applyEnv overrides file settings from the environment
func applyEnv(cfg *Config) {
	if v := os.Getenv("SLUSE_API_URL"); v != "" {
		cfg.API.BaseURL = v
	}
	if v := os.Getenv("SLUSE_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("SLUSE_LOG_FILE"); v != "" {
		cfg.Log.File = v
	}
	if v := os.Getenv("SLUSE_DB_PATH"); v != "" {
		cfg.Store.Path = v
	}
}

// SaveConfig saves configuration to the specified path with version information
func SaveConfig(cfg *Config, path string) error {
	data, err := MarshalVersionedConfig(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// MergeWithDefaults fills in missing values with defaults
func MergeWithDefaults(cfg *Config) *Config {
	defaults := DefaultConfig()

	// API
	if cfg.API.BaseURL == "" {
		cfg.API.BaseURL = defaults.API.BaseURL
	}
	if cfg.API.TimeoutSeconds == 0 {
		cfg.API.TimeoutSeconds = defaults.API.TimeoutSeconds
	}
	if cfg.API.HealthPath == "" {
		cfg.API.HealthPath = defaults.API.HealthPath
	}

	// Display
	if cfg.Display.Title == "" {
		cfg.Display.Title = defaults.Display.Title
	}
	if len(cfg.Display.Periods) == 0 {
		cfg.Display.Periods = defaults.Display.Periods
	}
	if cfg.Display.PageSize == 0 {
		cfg.Display.PageSize = defaults.Display.PageSize
	}
	if cfg.Display.RotationSeconds == 0 {
		cfg.Display.RotationSeconds = defaults.Display.RotationSeconds
	}
	if cfg.Display.StaleSeconds == 0 {
		cfg.Display.StaleSeconds = defaults.Display.StaleSeconds
	}
	if cfg.Display.WatchdogMinutes == 0 {
		cfg.Display.WatchdogMinutes = defaults.Display.WatchdogMinutes
	}

	// Network
	if cfg.Network.CheckInterval == 0 {
		cfg.Network.CheckInterval = defaults.Network.CheckInterval
	}

	// Log
	if cfg.Log.Level == "" {
		cfg.Log.Level = defaults.Log.Level
	}
	if cfg.Log.File == "" {
		cfg.Log.File = defaults.Log.File
	}

	// Store
	if cfg.Store.Path == "" {
		cfg.Store.Path = defaults.Store.Path
	}
	if cfg.Store.RetentionDays == 0 {
		cfg.Store.RetentionDays = defaults.Store.RetentionDays
	}

	return cfg
}

// Validate checks values that cannot be defaulted
func (c *Config) Validate() error {
	u, err := url.Parse(c.API.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid api.baseURL %q", c.API.BaseURL)
	}
	if c.API.TimeoutSeconds < 0 {
		return fmt.Errorf("api.timeoutSeconds must not be negative")
	}
	if _, err := c.Display.PeriodList(); err != nil {
		return err
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("invalid log.level %q", c.Log.Level)
	}
	return nil
}

// Timeout returns the per-request fetch timeout
func (a APIConfig) Timeout() time.Duration {
	return time.Duration(a.TimeoutSeconds) * time.Second
}

// HealthURL resolves HealthPath against the base URL's host
func (a APIConfig) HealthURL() (string, error) {
	base, err := url.Parse(a.BaseURL)
	if err != nil {
		return "", fmt.Errorf("invalid api.baseURL: %w", err)
	}
	ref, err := url.Parse(a.HealthPath)
	if err != nil {
		return "", fmt.Errorf("invalid api.healthPath: %w", err)
	}
	return base.ResolveReference(ref).String(), nil
}

// PeriodList parses the configured periods in display order.
// Each period may appear once; the engine keeps one panel per period.
func (d DisplayConfig) PeriodList() ([]domain.Period, error) {
	periods := make([]domain.Period, 0, len(d.Periods))
	seen := make(map[domain.Period]bool, len(d.Periods))
	for _, name := range d.Periods {
		p, err := domain.ParsePeriod(name)
		if err != nil {
			return nil, fmt.Errorf("display.periods: %w", err)
		}
		if seen[p] {
			return nil, fmt.Errorf("display.periods: %w: %q", domain.ErrDupPeriod, name)
		}
		seen[p] = true
		periods = append(periods, p)
	}
	return periods, nil
}

// Settings converts the display section into rotation engine settings
func (d DisplayConfig) Settings() rotation.Settings {
	return rotation.Settings{
		PageSize:      d.PageSize,
		RotationTicks: d.RotationSeconds,
		StaleAfter:    time.Duration(d.StaleSeconds) * time.Second,
		Watchdog:      time.Duration(d.WatchdogMinutes) * time.Minute,
	}
}

// Retention returns how long refresh activity is kept, 0 to keep everything
func (s StoreConfig) Retention() time.Duration {
	if s.RetentionDays <= 0 {
		return 0
	}
	return time.Duration(s.RetentionDays) * 24 * time.Hour
}

// Interval returns the reachability poll interval
func (n NetworkConfig) Interval() time.Duration {
	return time.Duration(n.CheckInterval) * time.Second
}

// Load is a convenience function that loads config from current directory
func Load() (*Config, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get current directory: %w", err)
	}
	return LoadConfig(cwd)
}

package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config is the persistent application configuration
type Config struct {
	// Backend serving /upload, /fetch-api-data and /sample
	Backend BackendConfig `json:"backend"`

	// UI Preferences
	UI UIConfig `json:"ui"`

	// DataDir holds the preference database, logs and event journal
	DataDir string `json:"data_dir"`
}

// BackendConfig holds the analytics backend settings
type BackendConfig struct {
	BaseURL string `json:"base_url"`
	// TimeoutSeconds bounds each HTTP call; 0 leaves it to the transport
	TimeoutSeconds int `json:"timeout_seconds"`
	// MinIntervalMs throttles back-to-back acquisitions
	MinIntervalMs int `json:"min_interval_ms"`
}

// UIConfig holds UI preferences
type UIConfig struct {
	DefaultPeriod string `json:"default_period"`
	ExportDir     string `json:"export_dir"`
	ChartWidth    int    `json:"chart_width"`
	ChartHeight   int    `json:"chart_height"`
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Backend: BackendConfig{
			BaseURL:        "http://localhost:5000",
			TimeoutSeconds: 60,
			MinIntervalMs:  250,
		},
		UI: UIConfig{
			DefaultPeriod: "month",
			ExportDir:     "medview-charts",
			ChartWidth:    800,
			ChartHeight:   400,
		},
		DataDir: defaultDataDir(),
	}
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".medview"
	}
	return filepath.Join(home, ".medview")
}

// ConfigPath returns the path to the config file. It lives in the data
// directory, so MEDVIEW_DATA_DIR moves it along with everything else.
func ConfigPath() string {
	dir := defaultDataDir()
	if v := os.Getenv("MEDVIEW_DATA_DIR"); v != "" {
		dir = v
	}
	return filepath.Join(dir, "config.json")
}

// Load applies .env, reads config from disk (defaults when absent), then
// applies MEDVIEW_* environment overrides.
func Load() (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	cfg, err := LoadFile(ConfigPath())
	if err != nil {
		return nil, err
	}
	cfg.ApplyEnv()
	return cfg, nil
}

// LoadFile reads a config file. A missing file yields defaults; a corrupt
// one also yields defaults so a bad edit never locks the user out.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, err
	}

	cfg := DefaultConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return DefaultConfig(), nil
	}
	return cfg, nil
}

// Save writes config to disk
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// ApplyEnv overrides fields from MEDVIEW_* environment variables
func (c *Config) ApplyEnv() {
	if v := strings.TrimSpace(os.Getenv("MEDVIEW_BASE_URL")); v != "" {
		c.Backend.BaseURL = strings.TrimRight(v, "/")
	}
	if v := os.Getenv("MEDVIEW_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d >= 0 {
			// Round up so a sub-second timeout never becomes "no timeout".
			c.Backend.TimeoutSeconds = int((d + time.Second - 1) / time.Second)
		}
	}
	if v := os.Getenv("MEDVIEW_EXPORT_DIR"); v != "" {
		c.UI.ExportDir = v
	}
	if v := os.Getenv("MEDVIEW_DATA_DIR"); v != "" {
		c.DataDir = v
	}
}

// Timeout returns the HTTP timeout as a duration
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.Backend.TimeoutSeconds) * time.Second
}

// MinInterval returns the acquisition throttle interval
func (c *Config) MinInterval() time.Duration {
	return time.Duration(c.Backend.MinIntervalMs) * time.Millisecond
}

// DBPath returns the preference database path
func (c *Config) DBPath() string {
	return filepath.Join(c.DataDir, "medview.db")
}

// EventsPath returns the JSONL event journal path
func (c *Config) EventsPath() string {
	return filepath.Join(c.DataDir, "events.jsonl")
}

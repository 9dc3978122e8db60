package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config represents the application configuration
type Config struct {
	Remote  RemoteConfig  `json:"remote" mapstructure:"remote"`
	Profile ProfileConfig `json:"profile" mapstructure:"profile"`
	Display DisplayConfig `json:"display" mapstructure:"display"`
	Storage StorageConfig `json:"storage" mapstructure:"storage"`
	Log     LogConfig     `json:"log" mapstructure:"log"`
}

// RemoteConfig holds the health data API endpoint and OAuth credentials
type RemoteConfig struct {
	BaseURL      string `json:"base_url" mapstructure:"base_url"`
	ClientID     string `json:"client_id" mapstructure:"client_id"`
	ClientSecret string `json:"client_secret" mapstructure:"client_secret"`
	AuthURL      string `json:"auth_url" mapstructure:"auth_url"`
	TokenURL     string `json:"token_url" mapstructure:"token_url"`
	AccessToken  string `json:"access_token,omitempty" mapstructure:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty" mapstructure:"refresh_token"`
}

// ProfileConfig holds the profile used until one is saved
type ProfileConfig struct {
	BaselineHRV      float64 `json:"baseline_hrv" mapstructure:"baseline_hrv"`
	SleepTargetHours float64 `json:"sleep_target_hours" mapstructure:"sleep_target_hours"`
}

// DisplayConfig holds display preferences
type DisplayConfig struct {
	Timezone  string `json:"timezone" mapstructure:"timezone"` // IANA name, "" or "Local" for the system zone
	TrendDays int    `json:"trend_days" mapstructure:"trend_days"`
}

// StorageConfig holds persistence settings
type StorageConfig struct {
	Driver         string `json:"driver" mapstructure:"driver"`
	Path           string `json:"path" mapstructure:"path"` // empty means ~/.peak/data.db
	JournalBackend string `json:"journal_backend" mapstructure:"journal_backend"`
	JournalFile    string `json:"journal_file" mapstructure:"journal_file"` // empty means ~/.peak/journal.json
}

// LogConfig holds logger settings
type LogConfig struct {
	Level       string `json:"level" mapstructure:"level"`
	Development bool   `json:"development" mapstructure:"development"`
}

const (
	DriverSQLite = "sqlite"

	JournalSQLite = "sqlite"
	JournalFile   = "file"

	MaxTrendDays = 90

	EnvPrefix = "PEAK"
)

// ErrNoConfig is returned when the config file doesn't exist
var ErrNoConfig = errors.New("config file not found")

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	return Config{
		Profile: ProfileConfig{
			BaselineHRV:      55,
			SleepTargetHours: 8,
		},
		Display: DisplayConfig{
			Timezone:  "Local",
			TrendDays: 7,
		},
		Storage: StorageConfig{
			Driver:         DriverSQLite,
			JournalBackend: JournalSQLite,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// newViper returns a viper instance with defaults and PEAK_* environment
// overrides such as PEAK_DISPLAY_TREND_DAYS
func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("json")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	d := DefaultConfig()
	v.SetDefault("remote.base_url", d.Remote.BaseURL)
	v.SetDefault("remote.client_id", d.Remote.ClientID)
	v.SetDefault("remote.client_secret", d.Remote.ClientSecret)
	v.SetDefault("remote.auth_url", d.Remote.AuthURL)
	v.SetDefault("remote.token_url", d.Remote.TokenURL)
	v.SetDefault("remote.access_token", d.Remote.AccessToken)
	v.SetDefault("remote.refresh_token", d.Remote.RefreshToken)
	v.SetDefault("profile.baseline_hrv", d.Profile.BaselineHRV)
	v.SetDefault("profile.sleep_target_hours", d.Profile.SleepTargetHours)
	v.SetDefault("display.timezone", d.Display.Timezone)
	v.SetDefault("display.trend_days", d.Display.TrendDays)
	v.SetDefault("storage.driver", d.Storage.Driver)
	v.SetDefault("storage.path", d.Storage.Path)
	v.SetDefault("storage.journal_backend", d.Storage.JournalBackend)
	v.SetDefault("storage.journal_file", d.Storage.JournalFile)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.development", d.Log.Development)
	return v
}

// Load reads the configuration file at path (empty means ~/.peak/config.json),
// applying defaults and environment overrides. It returns ErrNoConfig when
// the file does not exist.
func Load(path string) (*Config, error) {
	if path == "" {
		p, err := getConfigPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, ErrNoConfig
	}

	v := newViper()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	return unmarshal(v)
}

// LoadDefaults returns the defaults with environment overrides applied,
// for running without a config file
func LoadDefaults() (*Config, error) {
	return unmarshal(newViper())
}

func unmarshal(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

// Save writes the configuration to path (empty means ~/.peak/config.json)
func Save(cfg *Config, path string) error {
	if path == "" {
		p, err := getConfigPath()
		if err != nil {
			return err
		}
		path = p
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// CreateExample writes an example config file to path if none exists.
// It reports whether a file was written.
func CreateExample(path string) (bool, error) {
	if path == "" {
		p, err := getConfigPath()
		if err != nil {
			return false, err
		}
		path = p
	}

	if _, err := os.Stat(path); err == nil {
		return false, nil
	}

	example := DefaultConfig()
	example.Remote = RemoteConfig{
		BaseURL:      "https://api.example.com",
		ClientID:     "YOUR_CLIENT_ID",
		ClientSecret: "YOUR_CLIENT_SECRET",
		AuthURL:      "https://api.example.com/oauth/authorize",
		TokenURL:     "https://api.example.com/oauth/token",
	}

	if err := Save(&example, path); err != nil {
		return false, err
	}
	return true, nil
}

// Validate checks the config for values that cannot be used
func (c *Config) Validate() error {
	if _, err := c.Location(); err != nil {
		return fmt.Errorf("display.timezone %q: %w", c.Display.Timezone, err)
	}

	if c.Display.TrendDays < 1 || c.Display.TrendDays > MaxTrendDays {
		return fmt.Errorf("display.trend_days must be between 1 and %d, got %d", MaxTrendDays, c.Display.TrendDays)
	}

	if c.Storage.Driver != DriverSQLite {
		return fmt.Errorf("storage.driver must be %q, got %q", DriverSQLite, c.Storage.Driver)
	}
	if c.Storage.JournalBackend != JournalSQLite && c.Storage.JournalBackend != JournalFile {
		return fmt.Errorf("storage.journal_backend must be %q or %q, got %q", JournalSQLite, JournalFile, c.Storage.JournalBackend)
	}

	if c.Remote.BaseURL != "" {
		u, err := url.Parse(c.Remote.BaseURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("remote.base_url must be an http(s) URL, got %q", c.Remote.BaseURL)
		}
	}

	return nil
}

// RemoteEnabled reports whether a remote provider is configured for sync
func (c *Config) RemoteEnabled() bool {
	return c.Remote.BaseURL != ""
}

// Location returns the reference time zone for day boundaries
func (c *Config) Location() (*time.Location, error) {
	switch c.Display.Timezone {
	case "", "Local":
		return time.Local, nil
	default:
		return time.LoadLocation(c.Display.Timezone)
	}
}

// JournalPath returns the journal file path for the file backend
func (c *Config) JournalPath() (string, error) {
	if c.Storage.JournalFile != "" {
		return c.Storage.JournalFile, nil
	}
	dir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "journal.json"), nil
}

// getConfigPath returns the path to the config file
func getConfigPath() (string, error) {
	dir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// GetConfigDir returns the path to the config directory
func GetConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".peak"), nil
}

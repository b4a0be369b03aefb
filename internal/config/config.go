// Package config handles configuration loading and defaults for focusd.
// Configuration is loaded from XDG-compliant paths (typically
// ~/.config/focusd/config.yaml).
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	// Database overrides the default database path (~/.config/focusd/focusd.db)
	Database string `yaml:"database,omitempty"`

	Scheduler     SchedulerConfig    `yaml:"scheduler,omitempty"`
	Server        ServerConfig       `yaml:"server,omitempty"`
	Notifications NotificationConfig `yaml:"notifications,omitempty"`
	Alarm         AlarmConfig        `yaml:"alarm,omitempty"`
}

// SchedulerConfig controls the background re-evaluation loop. The interval is
// a target, not a guarantee; the session core tolerates any actual cadence.
type SchedulerConfig struct {
	// Interval between background ticks.
	Interval time.Duration `yaml:"interval,omitempty"`

	// MaxBackoff caps the retry delay after failed ticks.
	MaxBackoff time.Duration `yaml:"max_backoff,omitempty"`
}

// ServerConfig controls the local status API.
type ServerConfig struct {
	// Enabled starts the HTTP/websocket status server with `focusd run`.
	Enabled bool `yaml:"enabled,omitempty"`

	// Listen address, localhost only by default.
	Listen string `yaml:"listen,omitempty"`
}

type NotificationConfig struct {
	// Enabled enables/disables desktop notifications.
	Enabled bool `yaml:"enabled"`
}

// AlarmConfig controls completion feedback.
type AlarmConfig struct {
	// Sound is the path of the completion sound file. Empty uses a
	// platform default where one exists.
	Sound string `yaml:"sound,omitempty"`

	// Volume in [0, 1].
	Volume float64 `yaml:"volume,omitempty"`

	// HapticCommand is invoked once per vibration pulse, with the pulse
	// length in milliseconds appended as the final argument.
	HapticCommand []string `yaml:"haptic_command,omitempty"`

	// AutoStop bounds how long alarm playback may run.
	AutoStop time.Duration `yaml:"auto_stop,omitempty"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Scheduler: SchedulerConfig{
			Interval:   20 * time.Second,
			MaxBackoff: 2 * time.Minute,
		},
		Server: ServerConfig{
			Enabled: false,
			Listen:  "127.0.0.1:7313",
		},
		Notifications: NotificationConfig{
			Enabled: true,
		},
		Alarm: AlarmConfig{
			Volume:   0.8,
			AutoStop: 10 * time.Second,
		},
	}
}

// DefaultPath returns the config file path (XDG compliant).
func DefaultPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "focusd", "config.yaml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "focusd", "config.yaml")
}

// Load reads configuration from path, merging over defaults. A missing file
// is not an error; defaults apply.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		path = DefaultPath()
	}
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Scheduler.Interval <= 0 {
		return fmt.Errorf("scheduler interval must be positive, got %v", c.Scheduler.Interval)
	}
	if c.Scheduler.MaxBackoff < c.Scheduler.Interval {
		return fmt.Errorf("max backoff %v must not be shorter than the interval %v", c.Scheduler.MaxBackoff, c.Scheduler.Interval)
	}
	if c.Alarm.Volume < 0 || c.Alarm.Volume > 1 {
		return fmt.Errorf("alarm volume must be in [0, 1], got %v", c.Alarm.Volume)
	}
	if c.Server.Enabled && c.Server.Listen == "" {
		return fmt.Errorf("server enabled but no listen address set")
	}
	return nil
}

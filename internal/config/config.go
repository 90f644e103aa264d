package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/caarlos0/env/v11"
	log "github.com/sirupsen/logrus"

	"github.com/Mavwarf/deskshell/internal/paths"
)

// Defaults applied before the config file is decoded.
const (
	DefaultCheckIntervalHours = 24
	DefaultTimeoutSeconds     = 30
	DefaultLeaveDelayMillis   = 100
	DefaultLogLevel           = "info"
	DefaultStorage            = StorageSQLite
	DefaultWindowWidth        = 1200
	DefaultWindowHeight       = 800
	DefaultMQTTTopic          = "deskshell/presence"
)

// Storage backends for the update/leave history.
const (
	StorageSQLite = "sqlite"
	StorageFile   = "file"
)

// UpdateOptions configures the update coordinator.
type UpdateOptions struct {
	Server             string `json:"server,omitempty" env:"DESKSHELL_UPDATE_SERVER"`
	PublicKey          string `json:"pubkey,omitempty" env:"DESKSHELL_UPDATE_PUBKEY"`
	CheckOnStartup     bool   `json:"check_on_startup,omitempty"`
	CheckIntervalHours int    `json:"check_interval_hours,omitempty"`
	TimeoutSeconds     int    `json:"timeout_seconds,omitempty"`
}

// MQTTOptions configures the optional presence fan-out of the leave beacon.
// An empty Broker disables it.
type MQTTOptions struct {
	Broker   string `json:"broker,omitempty" env:"DESKSHELL_MQTT_BROKER"`
	Topic    string `json:"topic,omitempty"`
	Username string `json:"username,omitempty"`
	Password string `json:"password,omitempty"`
	QoS      byte   `json:"qos,omitempty"`
}

// LeaveOptions configures the shutdown notifier.
type LeaveOptions struct {
	DelayMillis int         `json:"delay_ms,omitempty"`
	MQTT        MQTTOptions `json:"mqtt,omitempty"`
}

// LogOptions configures logrus output. File "console" keeps stderr.
type LogOptions struct {
	Level string `json:"level,omitempty" env:"DESKSHELL_LOG_LEVEL"`
	File  string `json:"file,omitempty"`
}

// WindowOptions holds the initial window geometry.
type WindowOptions struct {
	Width         int  `json:"width,omitempty"`
	Height        int  `json:"height,omitempty"`
	RememberState bool `json:"remember_state"`
}

// Config holds the top-level configuration.
type Config struct {
	Update  UpdateOptions `json:"update"`
	Leave   LeaveOptions  `json:"leave"`
	Log     LogOptions    `json:"log"`
	Storage string        `json:"storage,omitempty"`
	Window  WindowOptions `json:"window"`
}

// Default returns a Config with every default applied.
func Default() Config {
	var c Config
	c.setDefaults()
	return c
}

func (c *Config) setDefaults() {
	c.Update.CheckIntervalHours = DefaultCheckIntervalHours
	c.Update.TimeoutSeconds = DefaultTimeoutSeconds
	c.Leave.DelayMillis = DefaultLeaveDelayMillis
	c.Leave.MQTT.Topic = DefaultMQTTTopic
	c.Log.Level = DefaultLogLevel
	c.Storage = DefaultStorage
	c.Window.Width = DefaultWindowWidth
	c.Window.Height = DefaultWindowHeight
	c.Window.RememberState = true
}

// UnmarshalJSON sets defaults then decodes the JSON structure.
// Go's json.Unmarshal merges into existing struct fields, so only
// values present in JSON override the defaults.
func (c *Config) UnmarshalJSON(data []byte) error {
	c.setDefaults()
	type Alias Config
	return json.Unmarshal(data, (*Alias)(c))
}

// Load reads and parses a config file, then applies DESKSHELL_* environment
// overrides. It tries, in order:
//  1. explicitPath (if non-empty; must exist)
//  2. deskshell-config.json next to the running binary
//  3. the user config directory
//
// When no file is found the defaults are returned with an empty path.
func Load(explicitPath string) (Config, string, error) {
	path, err := FindPath(explicitPath)
	if err != nil {
		return Config{}, "", err
	}

	cfg := Default()
	if path != "" {
		cfg, err = readConfig(path)
		if err != nil {
			return Config{}, "", err
		}
	} else {
		log.Debugf("config: no %s found, using defaults", paths.ConfigFileName)
	}

	if err := env.Parse(&cfg); err != nil {
		return Config{}, "", fmt.Errorf("config: environment: %w", err)
	}
	return cfg, path, nil
}

// FindPath returns the config file Load would read. An explicit path that
// does not exist is an error; otherwise a missing file yields "".
func FindPath(explicitPath string) (string, error) {
	if explicitPath != "" {
		if _, err := os.Stat(explicitPath); err != nil {
			return "", fmt.Errorf("config: %w", err)
		}
		return explicitPath, nil
	}

	// Next to binary
	exe, err := os.Executable()
	if err == nil {
		p := filepath.Join(filepath.Dir(exe), paths.ConfigFileName)
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}

	// User config directory
	home, err := os.UserHomeDir()
	if err == nil {
		var p string
		if runtime.GOOS == "windows" {
			p = filepath.Join(home, "AppData", "Roaming", paths.AppDirName, paths.ConfigFileName)
		} else {
			p = filepath.Join(home, ".config", paths.AppDirName, paths.ConfigFileName)
		}
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}
	return "", nil
}

// Validate checks values that would otherwise fail later at runtime.
func Validate(cfg Config) error {
	switch cfg.Storage {
	case StorageSQLite, StorageFile:
	default:
		return fmt.Errorf("config: storage must be %q or %q, got %q", StorageSQLite, StorageFile, cfg.Storage)
	}
	if _, err := log.ParseLevel(cfg.Log.Level); err != nil {
		return fmt.Errorf("config: log level: %w", err)
	}
	if cfg.Update.Server != "" {
		u, err := url.Parse(cfg.Update.Server)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("config: update server %q is not an http(s) URL", cfg.Update.Server)
		}
	}
	if cfg.Update.CheckIntervalHours < 0 {
		return fmt.Errorf("config: check_interval_hours must not be negative")
	}
	if cfg.Update.TimeoutSeconds < 0 {
		return fmt.Errorf("config: timeout_seconds must not be negative")
	}
	if cfg.Leave.DelayMillis < 0 {
		return fmt.Errorf("config: leave delay_ms must not be negative")
	}
	if cfg.Leave.MQTT.QoS > 2 {
		return fmt.Errorf("config: mqtt qos must be 0, 1 or 2")
	}
	return nil
}

// CheckInterval is the minimum spacing of automatic update checks.
func (c Config) CheckInterval() time.Duration {
	return time.Duration(c.Update.CheckIntervalHours) * time.Hour
}

// LogFile returns the log destination, defaulting to the data directory.
func (c Config) LogFile() string {
	if c.Log.File == "" {
		return paths.InDataDir(paths.LogFileName)
	}
	return c.Log.File
}

func readConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, nil
}

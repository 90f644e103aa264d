package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestUnmarshalDefaults(t *testing.T) {
	var cfg Config
	if err := json.Unmarshal([]byte(`{}`), &cfg); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if cfg.Update.CheckIntervalHours != DefaultCheckIntervalHours {
		t.Errorf("CheckIntervalHours = %d, want %d", cfg.Update.CheckIntervalHours, DefaultCheckIntervalHours)
	}
	if cfg.Leave.DelayMillis != DefaultLeaveDelayMillis {
		t.Errorf("DelayMillis = %d, want %d", cfg.Leave.DelayMillis, DefaultLeaveDelayMillis)
	}
	if cfg.Storage != StorageSQLite {
		t.Errorf("Storage = %q, want %q", cfg.Storage, StorageSQLite)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("Log.Level = %q, want info", cfg.Log.Level)
	}
	if !cfg.Window.RememberState {
		t.Error("RememberState should default to true")
	}
}

func TestUnmarshalOverrides(t *testing.T) {
	data := []byte(`{
		"update": { "server": "https://updates.example.com", "check_on_startup": true, "check_interval_hours": 6 },
		"leave": { "delay_ms": 250, "mqtt": { "broker": "tcp://127.0.0.1:1883" } },
		"storage": "file",
		"window": { "remember_state": false }
	}`)

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if cfg.Update.Server != "https://updates.example.com" {
		t.Errorf("Server = %q", cfg.Update.Server)
	}
	if !cfg.Update.CheckOnStartup {
		t.Error("CheckOnStartup should be true")
	}
	if cfg.Update.CheckIntervalHours != 6 {
		t.Errorf("CheckIntervalHours = %d, want 6", cfg.Update.CheckIntervalHours)
	}
	if cfg.Update.TimeoutSeconds != DefaultTimeoutSeconds {
		t.Errorf("TimeoutSeconds = %d, want default", cfg.Update.TimeoutSeconds)
	}
	if cfg.Leave.DelayMillis != 250 {
		t.Errorf("DelayMillis = %d, want 250", cfg.Leave.DelayMillis)
	}
	if cfg.Leave.MQTT.Topic != DefaultMQTTTopic {
		t.Errorf("MQTT.Topic = %q, want default", cfg.Leave.MQTT.Topic)
	}
	if cfg.Storage != StorageFile {
		t.Errorf("Storage = %q", cfg.Storage)
	}
	if cfg.Window.RememberState {
		t.Error("RememberState should be false")
	}
	if cfg.Window.Width != DefaultWindowWidth {
		t.Errorf("Width = %d, want default", cfg.Window.Width)
	}
}

func TestLoadExplicitPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deskshell-config.json")
	os.WriteFile(path, []byte(`{"update":{"server":"https://a.example"}}`), 0644)

	cfg, got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got != path {
		t.Errorf("path = %q, want %q", got, path)
	}
	if cfg.Update.Server != "https://a.example" {
		t.Errorf("Server = %q", cfg.Update.Server)
	}
}

func TestLoadExplicitPathMissing(t *testing.T) {
	_, _, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	if err == nil {
		t.Fatal("expected error for missing explicit config")
	}
}

func TestLoadInvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	os.WriteFile(path, []byte(`{not json`), 0644)

	_, _, err := Load(path)
	if err == nil || !strings.Contains(err.Error(), "parsing config") {
		t.Fatalf("expected parse error, got %v", err)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deskshell-config.json")
	os.WriteFile(path, []byte(`{"update":{"server":"https://file.example"}}`), 0644)
	t.Setenv("DESKSHELL_UPDATE_SERVER", "https://env.example")
	t.Setenv("DESKSHELL_LOG_LEVEL", "debug")

	cfg, _, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Update.Server != "https://env.example" {
		t.Errorf("Server = %q, want env override", cfg.Update.Server)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %q, want debug", cfg.Log.Level)
	}
}

func TestValidateDefaults(t *testing.T) {
	if err := Validate(Default()); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestValidateStorage(t *testing.T) {
	cfg := Default()
	cfg.Storage = "redis"
	if err := Validate(cfg); err == nil {
		t.Error("expected error for unknown storage")
	}
}

func TestValidateServerURL(t *testing.T) {
	cfg := Default()
	cfg.Update.Server = "not a url"
	if err := Validate(cfg); err == nil {
		t.Error("expected error for malformed server")
	}
	cfg.Update.Server = "ftp://example.com"
	if err := Validate(cfg); err == nil {
		t.Error("expected error for non-http scheme")
	}
	cfg.Update.Server = "https://example.com/"
	if err := Validate(cfg); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestValidateLogLevel(t *testing.T) {
	cfg := Default()
	cfg.Log.Level = "loud"
	if err := Validate(cfg); err == nil {
		t.Error("expected error for unknown log level")
	}
}

func TestValidateNegativeDelay(t *testing.T) {
	cfg := Default()
	cfg.Leave.DelayMillis = -1
	if err := Validate(cfg); err == nil {
		t.Error("expected error for negative delay")
	}
}

func TestLogFileDefault(t *testing.T) {
	cfg := Default()
	if filepath.Base(cfg.LogFile()) != "deskshell.log" {
		t.Errorf("LogFile() = %q", cfg.LogFile())
	}
	cfg.Log.File = "console"
	if cfg.LogFile() != "console" {
		t.Errorf("LogFile() = %q, want console", cfg.LogFile())
	}
}

func TestCheckInterval(t *testing.T) {
	cfg := Default()
	if got := cfg.CheckInterval(); got != 24*time.Hour {
		t.Errorf("CheckInterval() = %v, want 24h", got)
	}
	cfg.Update.CheckIntervalHours = 0
	if got := cfg.CheckInterval(); got != 0 {
		t.Errorf("CheckInterval() = %v, want 0", got)
	}
}

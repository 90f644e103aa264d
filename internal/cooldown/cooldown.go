// Package cooldown throttles background work such as automatic update
// checks. State is a small JSON map of key -> last run timestamp.
package cooldown

import (
	"encoding/json"
	"os"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/Mavwarf/deskshell/internal/paths"
)

// pruneAfter drops entries that no caller could still be waiting on.
const pruneAfter = 30 * 24 * time.Hour

// UpdateCheckKey returns the state key for automatic checks against server.
func UpdateCheckKey(server string) string {
	return "update-check/" + server
}

// Due reports whether key has not been recorded within interval.
// A missing or unreadable state file is treated as due (fail-open).
func Due(key string, interval time.Duration) bool {
	return due(statePath(), key, interval)
}

// Record writes the current timestamp for key.
// Errors are logged but never fatal (best-effort).
func Record(key string) {
	record(statePath(), key, time.Now())
}

func due(path, key string, interval time.Duration) bool {
	if interval <= 0 {
		return true
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return true // missing or unreadable → allow
	}

	var state map[string]string
	if err := json.Unmarshal(data, &state); err != nil {
		return true // corrupt → allow
	}

	ts, ok := state[key]
	if !ok {
		return true
	}

	last, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		return true
	}

	return time.Since(last) >= interval
}

func record(path, key string, now time.Time) {
	// Load existing state.
	state := make(map[string]string)
	if data, err := os.ReadFile(path); err == nil {
		_ = json.Unmarshal(data, &state) // ignore corrupt; overwrite
	}

	// Prune expired entries.
	for k, v := range state {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil || now.Sub(t) > pruneAfter {
			delete(state, k)
		}
	}

	state[key] = now.Format(time.RFC3339)

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		log.Warnf("cooldown: marshal: %v", err)
		return
	}
	if err := paths.AtomicWrite(path, data); err != nil {
		log.Warnf("cooldown: write %s: %v", path, err)
	}
}

func statePath() string {
	return paths.InDataDir(paths.CooldownFileName)
}

// Package winstate remembers the main window's geometry between runs.
package winstate

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/Mavwarf/deskshell/internal/paths"
)

// Minimum restored size. Smaller saved values are ignored.
const (
	MinWidth  = 400
	MinHeight = 300
)

// State is the saved window geometry.
type State struct {
	X         int  `json:"x"`
	Y         int  `json:"y"`
	Width     int  `json:"width"`
	Height    int  `json:"height"`
	Maximised bool `json:"maximised,omitempty"`
}

// Usable reports whether s describes a window worth restoring.
func (s State) Usable() bool {
	return s.Width >= MinWidth && s.Height >= MinHeight
}

// Path returns the default state file location.
func Path() string {
	return paths.InDataDir(paths.WindowFileName)
}

// Load reads the state file. ok is false when the file is missing,
// corrupt, or describes an unusable size.
func Load(path string) (State, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return State{}, false
	}
	var s State
	if err := json.Unmarshal(data, &s); err != nil {
		return State{}, false
	}
	return s, s.Usable()
}

// Save writes s to path. Unusable sizes (e.g. a minimised window) are
// not saved so the previous good state survives.
func Save(path string, s State) error {
	if !s.Usable() {
		return nil
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("winstate: marshal: %w", err)
	}
	if err := paths.AtomicWrite(path, data); err != nil {
		return fmt.Errorf("winstate: write: %w", err)
	}
	return nil
}

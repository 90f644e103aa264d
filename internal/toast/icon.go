//go:build windows

package toast

import (
	"os"
	"path/filepath"

	"github.com/Mavwarf/deskshell/internal/icon"
	"github.com/Mavwarf/deskshell/internal/paths"
)

const iconFileName = "icon.png"

// EnsureIcon writes a 64×64 PNG app icon to DataDir()/icon.png if it doesn't
// already exist and returns the absolute file path.
func EnsureIcon() (string, error) {
	p := filepath.Join(paths.DataDir(), iconFileName)
	if _, err := os.Stat(p); err == nil {
		return p, nil
	}
	if err := paths.AtomicWrite(p, icon.PNG(64)); err != nil {
		return "", err
	}
	return p, nil
}

// mkicon writes the packaging icons wails build expects.
// Usage: go run ./cmd/mkicon [build-dir]
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/Mavwarf/deskshell/internal/icon"
	"github.com/Mavwarf/deskshell/internal/paths"
)

func main() {
	dir := "build"
	if len(os.Args) > 1 {
		dir = os.Args[1]
	}
	if err := writeIcons(dir); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// writeIcons renders build/appicon.png at 1024 px and a 256 px
// build/windows/icon.ico.
func writeIcons(dir string) error {
	if err := paths.AtomicWrite(filepath.Join(dir, "appicon.png"), icon.PNG(1024)); err != nil {
		return err
	}
	return paths.AtomicWrite(filepath.Join(dir, "windows", "icon.ico"), icon.ICO(icon.PNG(256), 256))
}

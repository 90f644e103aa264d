package update

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Install replaces the enclosing .app bundle.
func (b *BundleInstaller) Install(_ context.Context, a Artifact) error {
	bundle, err := b.target()
	if err != nil {
		return err
	}
	return installBundle(a, bundle)
}

func (b *BundleInstaller) target() (string, error) {
	if b.Target != "" {
		return b.Target, nil
	}
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("get executable path: %w", err)
	}
	exe, err = filepath.EvalSymlinks(exe)
	if err != nil {
		return "", fmt.Errorf("resolve symlinks: %w", err)
	}
	for dir := filepath.Dir(exe); dir != filepath.Dir(dir); dir = filepath.Dir(dir) {
		if strings.HasSuffix(dir, ".app") {
			return dir, nil
		}
	}
	return "", fmt.Errorf("%s is not inside an .app bundle", exe)
}

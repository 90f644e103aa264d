package update

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// Install replaces the running AppImage (or plain binary).
func (b *BundleInstaller) Install(_ context.Context, a Artifact) error {
	target, err := b.target()
	if err != nil {
		return err
	}
	return installFile(a, target)
}

func (b *BundleInstaller) target() (string, error) {
	if b.Target != "" {
		return b.Target, nil
	}
	if appImage := os.Getenv("APPIMAGE"); appImage != "" {
		return appImage, nil
	}
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("get executable path: %w", err)
	}
	return filepath.EvalSymlinks(exe)
}

//go:build !linux && !darwin && !windows

package update

import (
	"context"
	"fmt"
	"runtime"
)

// Install is not supported on this platform.
func (b *BundleInstaller) Install(context.Context, Artifact) error {
	return fmt.Errorf("self-update is not supported on %s", runtime.GOOS)
}

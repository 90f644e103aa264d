package update

import (
	"context"
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
)

// Install stages the installer in a temp dir and launches it detached. The
// installer relaunches the application once it has replaced the files.
func (b *BundleInstaller) Install(_ context.Context, a Artifact) error {
	dir, err := os.MkdirTemp("", "deskshell-update-*")
	if err != nil {
		return fmt.Errorf("create staging dir: %w", err)
	}
	p, err := stageInstaller(a, dir)
	if err != nil {
		return joinCleanup(err, dir)
	}

	name, args := installerCommand(p)
	log.Infof("launching installer: %s %v", name, args)
	launch := b.launch
	if launch == nil {
		launch = startDetached
	}
	if err := launch(name, args...); err != nil {
		return joinCleanup(fmt.Errorf("launch installer: %w", err), dir)
	}
	return nil
}

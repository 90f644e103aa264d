package update

import (
	"archive/tar"
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/klauspost/compress/gzip"
	log "github.com/sirupsen/logrus"
)

// BundleInstaller installs the platform's release bundle: an AppImage on
// linux, an .app bundle on macOS, an msi or NSIS installer on Windows.
type BundleInstaller struct {
	// Target overrides the file or bundle being replaced. Empty means
	// the running application.
	Target string

	// launch starts a Windows installer; replaced in tests.
	launch func(name string, args ...string) error
}

// NewBundleInstaller returns an installer for the running application.
func NewBundleInstaller() *BundleInstaller {
	return &BundleInstaller{launch: startDetached}
}

// installFile replaces target with a single executable taken from a (raw
// or .tar.gz) artifact. Used for AppImages.
func installFile(a Artifact, target string) (err error) {
	work, err := os.MkdirTemp(filepath.Dir(target), ".deskshell-update-*")
	if err != nil {
		return fmt.Errorf("create staging dir: %w", err)
	}
	defer func() { err = joinCleanup(err, work) }()

	staged := filepath.Join(work, filepath.Base(target))
	if strings.HasSuffix(a.Name, ".tar.gz") || strings.HasSuffix(a.Name, ".tgz") {
		if err := extractTarGz(a.Data, work); err != nil {
			return err
		}
		found, err := findEntry(work, func(name string, info os.FileInfo) bool {
			return info.Mode().IsRegular()
		})
		if err != nil {
			return err
		}
		staged = found
	} else if err := os.WriteFile(staged, a.Data, 0o755); err != nil {
		return fmt.Errorf("write artifact: %w", err)
	}

	if err := os.Chmod(staged, 0o755); err != nil {
		return fmt.Errorf("set executable permission: %w", err)
	}
	return replacePath(target, staged)
}

// installBundle replaces the bundle directory with the one found in a
// .tar.gz artifact. Used for macOS .app bundles.
func installBundle(a Artifact, bundle string) (err error) {
	if !strings.HasSuffix(a.Name, ".tar.gz") {
		return fmt.Errorf("unsupported bundle artifact %q", a.Name)
	}
	work, err := os.MkdirTemp(filepath.Dir(bundle), ".deskshell-update-*")
	if err != nil {
		return fmt.Errorf("create staging dir: %w", err)
	}
	defer func() { err = joinCleanup(err, work) }()

	if err := extractTarGz(a.Data, work); err != nil {
		return err
	}
	staged, err := findEntry(work, func(name string, info os.FileInfo) bool {
		return info.IsDir() && strings.HasSuffix(name, ".app")
	})
	if err != nil {
		return err
	}
	return replacePath(bundle, staged)
}

// stageInstaller writes a Windows installer (raw or zipped) into dir and
// returns its path.
func stageInstaller(a Artifact, dir string) (string, error) {
	name := strings.ToLower(a.Name)
	switch {
	case strings.HasSuffix(name, ".zip"):
		if err := extractZip(a.Data, dir); err != nil {
			return "", err
		}
		return findEntry(dir, func(name string, info os.FileInfo) bool {
			n := strings.ToLower(name)
			return info.Mode().IsRegular() && (strings.HasSuffix(n, ".msi") || strings.HasSuffix(n, ".exe"))
		})
	case strings.HasSuffix(name, ".msi"), strings.HasSuffix(name, ".exe"):
		p := filepath.Join(dir, filepath.Base(a.Name))
		if err := os.WriteFile(p, a.Data, 0o755); err != nil {
			return "", fmt.Errorf("write installer: %w", err)
		}
		return p, nil
	default:
		return "", fmt.Errorf("unsupported installer artifact %q", a.Name)
	}
}

// installerCommand returns the command line that runs a staged installer
// in passive mode and relaunches the application when it finishes.
func installerCommand(p string) (string, []string) {
	if strings.EqualFold(filepath.Ext(p), ".msi") {
		return "msiexec", []string{"/i", p, "/passive", "/norestart", "AUTOLAUNCHAPP=True"}
	}
	return p, []string{"/P", "/R"}
}

// replacePath swaps target for replacement, keeping a backup until the
// new file is in place and restoring it on failure.
func replacePath(target, replacement string) error {
	backup := target + ".backup"
	_ = os.RemoveAll(backup)

	if err := os.Rename(target, backup); err != nil {
		return fmt.Errorf("backup %s: %w", target, err)
	}
	if err := os.Rename(replacement, target); err != nil {
		if rerr := os.Rename(backup, target); rerr != nil {
			log.Errorf("restore %s from backup failed: %v", target, rerr)
		}
		return fmt.Errorf("install %s: %w", target, err)
	}
	if err := os.RemoveAll(backup); err != nil {
		log.Warnf("remove backup %s: %v", backup, err)
	}
	return nil
}

// findEntry walks dir and returns the first path accepted by match.
func findEntry(dir string, match func(name string, info os.FileInfo) bool) (string, error) {
	var found string
	err := filepath.Walk(dir, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if p != dir && match(info.Name(), info) {
			found = p
			return filepath.SkipAll
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("scan archive: %w", err)
	}
	if found == "" {
		return "", errors.New("archive does not contain an installable file")
	}
	return found, nil
}

// extractTarGz unpacks a gzip-compressed tarball into destDir.
func extractTarGz(data []byte, destDir string) error {
	gzr, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("create gzip reader: %w", err)
	}
	defer gzr.Close()

	tr := tar.NewReader(gzr)
	for {
		header, err := tr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read tar: %w", err)
		}

		dest, err := safeJoin(destDir, header.Name)
		if err != nil {
			return err
		}
		switch header.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(dest, 0o755); err != nil {
				return err
			}
		case tar.TypeReg:
			if err := writeFile(dest, tr, os.FileMode(header.Mode).Perm()); err != nil {
				return err
			}
		case tar.TypeSymlink:
			if filepath.IsAbs(header.Linkname) {
				return fmt.Errorf("archive symlink %s points outside bundle", header.Name)
			}
			if _, err := safeJoin(destDir, filepath.Join(filepath.Dir(header.Name), header.Linkname)); err != nil {
				return err
			}
			if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
				return err
			}
			if err := os.Symlink(header.Linkname, dest); err != nil {
				return err
			}
		}
	}
}

// extractZip unpacks a zip archive into destDir.
func extractZip(data []byte, destDir string) error {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return fmt.Errorf("open zip: %w", err)
	}
	for _, f := range zr.File {
		dest, err := safeJoin(destDir, f.Name)
		if err != nil {
			return err
		}
		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(dest, 0o755); err != nil {
				return err
			}
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return fmt.Errorf("open %s: %w", f.Name, err)
		}
		err = writeFile(dest, rc, f.Mode().Perm())
		rc.Close()
		if err != nil {
			return err
		}
	}
	return nil
}

func writeFile(dest string, r io.Reader, perm os.FileMode) error {
	if perm == 0 {
		perm = 0o644
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return err
	}
	out, err := os.OpenFile(dest, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, perm)
	if err != nil {
		return fmt.Errorf("create %s: %w", dest, err)
	}
	if _, err := io.Copy(out, io.LimitReader(r, maxArtifactSize)); err != nil {
		out.Close()
		return fmt.Errorf("extract %s: %w", dest, err)
	}
	return out.Close()
}

// safeJoin joins name onto dir, rejecting entries that escape it.
func safeJoin(dir, name string) (string, error) {
	dest := filepath.Join(dir, filepath.FromSlash(name))
	rel, err := filepath.Rel(dir, dest)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("archive entry %q escapes destination", name)
	}
	return dest, nil
}

// joinCleanup removes the given paths and folds any failures into err.
func joinCleanup(err error, paths ...string) error {
	var cleanup *multierror.Error
	for _, p := range paths {
		if rerr := os.RemoveAll(p); rerr != nil {
			cleanup = multierror.Append(cleanup, fmt.Errorf("cleanup %s: %w", p, rerr))
		}
	}
	if cleanup.ErrorOrNil() == nil {
		return err
	}
	if err == nil {
		return cleanup
	}
	return multierror.Append(err, cleanup.Errors...)
}

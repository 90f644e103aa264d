package paths

import (
	"os"
	"path/filepath"
)

const (
	AppDirName        = "deskshell"
	ConfigFileName    = "deskshell-config.json"
	CooldownFileName  = "cooldown.json"
	SessionFileName   = "session.json"
	WindowFileName    = "window.json"
	LogFileName       = "deskshell.log"
	HistoryFileName   = "history.log"
	HistoryDBFileName = "history.db"
	DirPerm           = 0755
	FilePerm          = 0644
	PrivateFilePerm   = 0600
)

// AtomicWrite writes data to path via a temporary file + rename to avoid
// partial writes. The parent directory is created if needed.
func AtomicWrite(path string, data []byte) error {
	return atomicWrite(path, data, FilePerm)
}

// AtomicWritePrivate is AtomicWrite with owner-only permissions, for files
// that hold secrets such as the session token.
func AtomicWritePrivate(path string, data []byte) error {
	return atomicWrite(path, data, PrivateFilePerm)
}

func atomicWrite(path string, data []byte, perm os.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(path), DirPerm); err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, perm); err != nil {
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return err
	}
	return nil
}

// DataDir returns the platform-specific data directory for deskshell:
//   - Windows: %APPDATA%\deskshell
//   - Unix:    ~/.config/deskshell
//
// Falls back to os.TempDir()/deskshell if neither is available.
func DataDir() string {
	if appdata := os.Getenv("APPDATA"); appdata != "" {
		return filepath.Join(appdata, AppDirName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), AppDirName)
	}
	return filepath.Join(home, ".config", AppDirName)
}

// InDataDir joins name onto DataDir().
func InDataDir(name string) string {
	return filepath.Join(DataDir(), name)
}

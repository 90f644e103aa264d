package eventlog

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Mavwarf/deskshell/internal/paths"
)

// FileStore implements Store using a flat log file.
type FileStore struct {
	path string
}

// NewFileStore returns a FileStore that reads and writes the given log file.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// openLog opens (or creates) the log file for appending, creating the
// parent directory if needed.
func (f *FileStore) openLog() (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(f.path), paths.DirPerm); err != nil {
		return nil, err
	}
	return os.OpenFile(f.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, paths.FilePerm)
}

// writeEntry stamps e with the current time and appends it as one block.
func (f *FileStore) writeEntry(e Entry) error {
	file, err := f.openLog()
	if err != nil {
		return err
	}
	defer file.Close()

	e.Time = time.Now()
	_, err = fmt.Fprintf(file, "%s\n\n", formatLine(e))
	return err
}

func (f *FileStore) LogCheck(server, version string) error {
	if version == "" {
		return f.writeEntry(Entry{Kind: KindUpToDate, Server: server})
	}
	return f.writeEntry(Entry{Kind: KindCheck, Server: server, Version: version})
}

func (f *FileStore) LogCheckFailed(server string, cause error) error {
	return f.writeEntry(Entry{Kind: KindCheckFailed, Server: server, Detail: errText(cause)})
}

func (f *FileStore) LogInstall(version string) error {
	return f.writeEntry(Entry{Kind: KindInstall, Version: version})
}

func (f *FileStore) LogInstallFailed(version string, cause error) error {
	return f.writeEntry(Entry{Kind: KindInstallFailed, Version: version, Detail: errText(cause)})
}

func (f *FileStore) LogLeave(server string) error {
	return f.writeEntry(Entry{Kind: KindLeave, Server: server})
}

func (f *FileStore) Entries(days int) ([]Entry, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	entries := ParseEntries(string(data))
	if days <= 0 {
		return entries, nil
	}

	cutoff := DayCutoff(days)
	var filtered []Entry
	for _, e := range entries {
		if !e.Time.In(cutoff.Location()).Before(cutoff) {
			filtered = append(filtered, e)
		}
	}
	return filtered, nil
}

func (f *FileStore) Clean(days int) (int, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, err
	}

	content := strings.TrimRight(string(data), "\n\r ")
	if content == "" {
		return 0, nil
	}

	origBlocks := len(SplitBlocks(content))
	filtered := FilterBlocksByDays(content, days)
	keptBlocks := 0
	if filtered != "" {
		keptBlocks = len(SplitBlocks(filtered))
	}
	removed := origBlocks - keptBlocks

	if filtered == "" {
		_ = os.Remove(f.path)
		return removed, nil
	}

	if err := paths.AtomicWrite(f.path, []byte(filtered+"\n\n")); err != nil {
		return 0, err
	}
	return removed, nil
}

func (f *FileStore) Clear() error {
	err := os.Remove(f.path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func (f *FileStore) Path() string {
	return f.path
}

// Close is a no-op; the file is opened per write.
func (f *FileStore) Close() error {
	return nil
}

func errText(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

package eventlog

import (
	"fmt"
	"path/filepath"

	"github.com/Mavwarf/deskshell/internal/config"
	"github.com/Mavwarf/deskshell/internal/paths"
)

// Store abstracts history storage. FileStore writes a flat log file;
// SQLiteStore keeps the same events in a database.
type Store interface {
	// Write
	LogCheck(server, version string) error // version "" means up to date
	LogCheckFailed(server string, cause error) error
	LogInstall(version string) error
	LogInstallFailed(version string, cause error) error
	LogLeave(server string) error

	// Read
	Entries(days int) ([]Entry, error) // parsed entries, 0 = all

	// Maintenance
	Clean(days int) (int, error) // remove old entries, return removed count
	Clear() error                // delete all data

	// Metadata
	Path() string
	Close() error
}

// Open returns the store selected by storage ("sqlite" or "file") inside dir.
func Open(storage, dir string) (Store, error) {
	switch storage {
	case config.StorageFile:
		return NewFileStore(filepath.Join(dir, paths.HistoryFileName)), nil
	case config.StorageSQLite, "":
		return NewSQLiteStore(filepath.Join(dir, paths.HistoryDBFileName))
	default:
		return nil, fmt.Errorf("eventlog: unknown storage %q", storage)
	}
}

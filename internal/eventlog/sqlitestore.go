package eventlog

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/Mavwarf/deskshell/internal/paths"

	_ "modernc.org/sqlite"
)

// SQLiteStore implements Store using a SQLite database.
type SQLiteStore struct {
	db   *sql.DB
	path string
}

// NewSQLiteStore opens (or creates) a SQLite database at path, creates
// tables and indexes, and performs one-time migration from history.log
// if it exists in the same directory.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), paths.DirPerm); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// Set PRAGMAs before any DDL.
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("sqlite pragma: %w", err)
		}
	}

	ddl := `
CREATE TABLE IF NOT EXISTS events (
    id         INTEGER PRIMARY KEY AUTOINCREMENT,
    timestamp  TEXT    NOT NULL,
    kind       INTEGER NOT NULL,
    server     TEXT    NOT NULL DEFAULT '',
    version    TEXT    NOT NULL DEFAULT '',
    detail     TEXT    NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_events_timestamp ON events(timestamp DESC);
`
	if _, err := db.Exec(ddl); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite schema: %w", err)
	}

	s := &SQLiteStore{db: db, path: path}

	// One-time migration from flat file.
	logPath := filepath.Join(filepath.Dir(path), paths.HistoryFileName)
	if _, err := os.Stat(logPath); err == nil {
		if err := s.migrateFromFile(logPath); err != nil {
			log.Warnf("eventlog: migration: %v", err)
		}
	}

	return s, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) insert(e Entry) error {
	_, err := s.db.Exec(
		`INSERT INTO events (timestamp, kind, server, version, detail) VALUES (?, ?, ?, ?, ?)`,
		time.Now().Format(time.RFC3339), int(e.Kind), e.Server, e.Version, e.Detail,
	)
	return err
}

func (s *SQLiteStore) LogCheck(server, version string) error {
	if version == "" {
		return s.insert(Entry{Kind: KindUpToDate, Server: server})
	}
	return s.insert(Entry{Kind: KindCheck, Server: server, Version: version})
}

func (s *SQLiteStore) LogCheckFailed(server string, cause error) error {
	return s.insert(Entry{Kind: KindCheckFailed, Server: server, Detail: errText(cause)})
}

func (s *SQLiteStore) LogInstall(version string) error {
	return s.insert(Entry{Kind: KindInstall, Version: version})
}

func (s *SQLiteStore) LogInstallFailed(version string, cause error) error {
	return s.insert(Entry{Kind: KindInstallFailed, Version: version, Detail: errText(cause)})
}

func (s *SQLiteStore) LogLeave(server string) error {
	return s.insert(Entry{Kind: KindLeave, Server: server})
}

func (s *SQLiteStore) Entries(days int) ([]Entry, error) {
	query := `SELECT timestamp, kind, server, version, detail FROM events`
	var args []any
	if days > 0 {
		query += ` WHERE timestamp >= ?`
		args = append(args, DayCutoff(days).Format(time.RFC3339))
	}
	query += ` ORDER BY id`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var tsStr string
		var kind int
		var e Entry
		if err := rows.Scan(&tsStr, &kind, &e.Server, &e.Version, &e.Detail); err != nil {
			return nil, err
		}
		ts, err := time.Parse(time.RFC3339, tsStr)
		if err != nil {
			continue
		}
		e.Time = ts
		e.Kind = EntryKind(kind)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (s *SQLiteStore) Clean(days int) (int, error) {
	cutoff := DayCutoff(days).Format(time.RFC3339)
	res, err := s.db.Exec(`DELETE FROM events WHERE timestamp < ?`, cutoff)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	return int(n), err
}

func (s *SQLiteStore) Clear() error {
	_, err := s.db.Exec(`DELETE FROM events`)
	return err
}

func (s *SQLiteStore) Path() string {
	return s.path
}

// migrateFromFile imports an existing history.log into the database. On
// success the log is renamed to history.log.migrated.
func (s *SQLiteStore) migrateFromFile(logPath string) error {
	data, err := os.ReadFile(logPath)
	if err != nil {
		return err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, e := range ParseEntries(string(data)) {
		if _, err := tx.Exec(
			`INSERT INTO events (timestamp, kind, server, version, detail) VALUES (?, ?, ?, ?, ?)`,
			e.Time.Format(time.RFC3339), int(e.Kind), e.Server, e.Version, e.Detail,
		); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	return os.Rename(logPath, logPath+".migrated")
}

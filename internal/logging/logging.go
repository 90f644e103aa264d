// Package logging configures the process-wide logrus logger.
package logging

import (
	"io"
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/Mavwarf/deskshell/internal/paths"
)

// Console disables the log file and keeps output on stderr.
const Console = "console"

// Init parses level and points logrus at a rotating file, or at stderr
// when file is empty or "console".
func Init(level, file string) error {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		log.Errorf("failed parsing log-level %s: %s", level, err)
		return err
	}

	log.SetOutput(Writer(file))
	log.SetFormatter(&log.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	log.SetLevel(lvl)
	return nil
}

// Writer returns the destination Init would use for file.
func Writer(file string) io.Writer {
	if file == "" || file == Console {
		return os.Stderr
	}
	if err := os.MkdirAll(filepath.Dir(file), paths.DirPerm); err != nil {
		return os.Stderr
	}
	return &lumberjack.Logger{
		Filename:   filepath.ToSlash(file),
		MaxSize:    5, // MB
		MaxBackups: 10,
		MaxAge:     30, // days
		Compress:   true,
	}
}

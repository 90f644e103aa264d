package logging

import (
	"os"
	"path/filepath"
	"testing"

	log "github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

func TestInitInvalidLevel(t *testing.T) {
	if err := Init("shouty", Console); err == nil {
		t.Fatal("expected error for invalid level")
	}
}

func TestInitSetsLevel(t *testing.T) {
	t.Cleanup(func() {
		log.SetLevel(log.InfoLevel)
		log.SetOutput(os.Stderr)
	})
	if err := Init("debug", Console); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if log.GetLevel() != log.DebugLevel {
		t.Errorf("level = %v, want debug", log.GetLevel())
	}
}

func TestWriterConsole(t *testing.T) {
	if Writer(Console) != os.Stderr {
		t.Error("console should write to stderr")
	}
	if Writer("") != os.Stderr {
		t.Error("empty file should write to stderr")
	}
}

func TestWriterFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "deskshell.log")
	w := Writer(path)
	lj, ok := w.(*lumberjack.Logger)
	if !ok {
		t.Fatalf("Writer(%q) = %T, want *lumberjack.Logger", path, w)
	}
	defer lj.Close()
	if _, err := os.Stat(filepath.Dir(path)); err != nil {
		t.Errorf("log dir should be created: %v", err)
	}
}

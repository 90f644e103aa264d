package winstate

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "window.json")
	want := State{X: 10, Y: 20, Width: 1280, Height: 720, Maximised: true}

	if err := Save(path, want); err != nil {
		t.Fatal(err)
	}
	got, ok := Load(path)
	if !ok || got != want {
		t.Errorf("Load = %+v, %v; want %+v", got, ok, want)
	}
}

func TestSaveSkipsUnusableSize(t *testing.T) {
	path := filepath.Join(t.TempDir(), "window.json")
	Save(path, State{Width: 1000, Height: 700})
	Save(path, State{Width: 0, Height: 0})

	got, ok := Load(path)
	if !ok || got.Width != 1000 {
		t.Errorf("Load = %+v, %v; previous state should survive", got, ok)
	}
}

func TestLoadMissingOrCorrupt(t *testing.T) {
	dir := t.TempDir()
	if _, ok := Load(filepath.Join(dir, "missing.json")); ok {
		t.Error("missing file should not be ok")
	}

	corrupt := filepath.Join(dir, "corrupt.json")
	os.WriteFile(corrupt, []byte("{"), 0644)
	if _, ok := Load(corrupt); ok {
		t.Error("corrupt file should not be ok")
	}

	tiny := filepath.Join(dir, "tiny.json")
	os.WriteFile(tiny, []byte(`{"width":100,"height":50}`), 0644)
	if _, ok := Load(tiny); ok {
		t.Error("tiny window should not be ok")
	}
}

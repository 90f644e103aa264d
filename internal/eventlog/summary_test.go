package eventlog

import (
	"errors"
	"testing"
	"time"
)

func TestSummarizeByDay(t *testing.T) {
	now := time.Now()
	yesterday := now.AddDate(0, 0, -1)
	old := now.AddDate(0, 0, -20)

	entries := []Entry{
		{Time: old, Kind: KindCheck},
		{Time: yesterday, Kind: KindCheck, Version: "1.1.0"},
		{Time: yesterday, Kind: KindInstallFailed},
		{Time: now, Kind: KindInstall, Version: "1.1.0"},
		{Time: now, Kind: KindLeave},
		{Time: now, Kind: KindOther},
	}

	groups := SummarizeByDay(entries, 7)
	if len(groups) != 2 {
		t.Fatalf("expected 2 days, got %d", len(groups))
	}
	if !groups[0].Date.After(groups[1].Date) {
		t.Error("groups should be sorted newest first")
	}
	if groups[0].Total() != 2 {
		t.Errorf("today total = %d, want 2", groups[0].Total())
	}
	if groups[1].Failures() != 1 {
		t.Errorf("yesterday failures = %d, want 1", groups[1].Failures())
	}

	if all := SummarizeByDay(entries, 0); len(all) != 3 {
		t.Errorf("days=0 should include all days, got %d", len(all))
	}
}

func TestFilterBlocksByDays(t *testing.T) {
	old := time.Now().AddDate(0, 0, -5).Format(time.RFC3339)
	recent := time.Now().Format(time.RFC3339)
	content := old + "  event=leave\n\n" + recent + "  event=install\n\nno timestamp\n"

	got := FilterBlocksByDays(content, 2)
	if got != recent+"  event=install" {
		t.Errorf("FilterBlocksByDays = %q", got)
	}
}

func TestLatestVersion(t *testing.T) {
	entries := []Entry{
		{Kind: KindCheck, Version: "1.0.0"},
		{Kind: KindInstall, Version: "1.1.0"},
		{Kind: KindInstallFailed, Version: "1.2.0"},
	}
	if got := LatestVersion(entries); got != "1.1.0" {
		t.Errorf("LatestVersion = %q, want 1.1.0", got)
	}
	if got := LatestVersion(nil); got != "" {
		t.Errorf("LatestVersion(nil) = %q", got)
	}
}

type memStore struct {
	FileStore
	failWrites bool
}

func (m *memStore) LogLeave(server string) error {
	if m.failWrites {
		return errors.New("disk full")
	}
	return m.FileStore.LogLeave(server)
}

func TestRecorder(t *testing.T) {
	s := tempStore(t)
	r := NewRecorder(s)

	r.CheckFinished("https://s.example", "2.0.0", nil)
	r.CheckFinished("https://s.example", "", nil)
	r.CheckFinished("https://s.example", "", errors.New("boom"))
	r.InstallFinished("2.0.0", nil)
	r.InstallFinished("2.0.0", errors.New("bad sig"))
	r.LeaveSent("https://s.example")

	entries, _ := s.Entries(0)
	want := []EntryKind{KindCheck, KindUpToDate, KindCheckFailed, KindInstall, KindInstallFailed, KindLeave}
	if len(entries) != len(want) {
		t.Fatalf("expected %d entries, got %d", len(want), len(entries))
	}
	for i, k := range want {
		if entries[i].Kind != k {
			t.Errorf("entry %d kind = %s, want %s", i, KindString(entries[i].Kind), KindString(k))
		}
	}
}

func TestRecorderNilSafe(t *testing.T) {
	var r *Recorder
	r.CheckFinished("s", "1", nil)
	r.InstallFinished("1", nil)
	r.LeaveSent("s")

	NewRecorder(nil).LeaveSent("s")
}

func TestRecorderSwallowsWriteErrors(t *testing.T) {
	m := &memStore{FileStore: *tempStore(t), failWrites: true}
	NewRecorder(m).LeaveSent("https://s.example")
	entries, _ := m.Entries(0)
	if len(entries) != 0 {
		t.Errorf("expected no entries, got %d", len(entries))
	}
}

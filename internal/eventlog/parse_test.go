package eventlog

import (
	"testing"
	"time"
)

func TestParseEntries(t *testing.T) {
	content := `2026-03-01T10:00:00Z  event=check  server=https://s.example  version=1.2.0

2026-03-01T10:05:00Z  event=install_failed  version=1.2.0  error="download: status 404"

not a log line
2026-03-01T10:06:00Z  no event here

2026-03-02T09:00:00Z  event=mystery
`
	entries := ParseEntries(content)
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d: %+v", len(entries), entries)
	}
	if entries[0].Kind != KindCheck || entries[0].Server != "https://s.example" || entries[0].Version != "1.2.0" {
		t.Errorf("entry 0 = %+v", entries[0])
	}
	if entries[1].Detail != "download: status 404" {
		t.Errorf("entry 1 detail = %q", entries[1].Detail)
	}
	if entries[2].Kind != KindOther {
		t.Errorf("entry 2 kind = %v, want KindOther", entries[2].Kind)
	}
}

func TestParseEntriesEmpty(t *testing.T) {
	if got := ParseEntries("\n\n  \n"); got != nil {
		t.Errorf("expected nil, got %v", got)
	}
}

func TestFormatLineRoundTrip(t *testing.T) {
	ts := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	in := Entry{Time: ts, Kind: KindCheckFailed, Server: "https://s.example", Detail: "dial tcp: \"refused\""}

	out := ParseEntries(formatLine(in))
	if len(out) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(out))
	}
	if !out[0].Time.Equal(ts) || out[0].Kind != in.Kind || out[0].Server != in.Server || out[0].Detail != in.Detail {
		t.Errorf("got %+v, want %+v", out[0], in)
	}
}

func TestKindString(t *testing.T) {
	for k := KindCheck; k < KindOther; k++ {
		if got := ParseKind(KindString(k)); got != k {
			t.Errorf("ParseKind(KindString(%d)) = %d", k, got)
		}
	}
	if KindString(KindOther) != "other" {
		t.Errorf("KindString(KindOther) = %q", KindString(KindOther))
	}
}

func TestExtractTimestamp(t *testing.T) {
	if _, ok := ExtractTimestamp("garbage"); ok {
		t.Error("expected failure without separator")
	}
	if _, ok := ExtractTimestamp("yesterday  event=leave"); ok {
		t.Error("expected failure for non-RFC3339 prefix")
	}
	ts, ok := ExtractTimestamp("2026-03-01T10:00:00Z  event=leave")
	if !ok || ts.Year() != 2026 {
		t.Errorf("ExtractTimestamp = %v, %v", ts, ok)
	}
}

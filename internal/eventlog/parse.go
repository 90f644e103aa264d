package eventlog

import (
	"strconv"
	"strings"
	"time"
)

// EntryKind classifies a history entry.
type EntryKind int

const (
	KindCheck EntryKind = iota // check found a newer version
	KindUpToDate
	KindCheckFailed
	KindInstall
	KindInstallFailed
	KindLeave
	KindOther
)

var kindNames = map[EntryKind]string{
	KindCheck:         "check",
	KindUpToDate:      "up_to_date",
	KindCheckFailed:   "check_failed",
	KindInstall:       "install",
	KindInstallFailed: "install_failed",
	KindLeave:         "leave",
}

// Entry is a single parsed history entry.
type Entry struct {
	Time    time.Time
	Kind    EntryKind
	Server  string
	Version string
	Detail  string // error text for failed entries
}

// KindString returns the event name written to the log for k.
func KindString(k EntryKind) string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "other"
}

// ParseKind is the inverse of KindString. Unknown names map to KindOther.
func ParseKind(s string) EntryKind {
	for k, name := range kindNames {
		if name == s {
			return k
		}
	}
	return KindOther
}

// IsFailure reports whether k records a failed operation.
func (k EntryKind) IsFailure() bool {
	return k == KindCheckFailed || k == KindInstallFailed
}

// ParseEntries splits log content on blank lines and parses each line that
// starts with a timestamp and carries an event= field. Malformed lines are
// silently skipped.
func ParseEntries(content string) []Entry {
	var entries []Entry
	for _, block := range SplitBlocks(content) {
		for _, line := range strings.Split(block, "\n") {
			if e, ok := parseLine(line); ok {
				entries = append(entries, e)
			}
		}
	}
	return entries
}

func parseLine(line string) (Entry, bool) {
	ts, ok := ExtractTimestamp(line)
	if !ok {
		return Entry{}, false
	}
	event := extractField(line, "event")
	if event == "" {
		return Entry{}, false
	}
	return Entry{
		Time:    ts,
		Kind:    ParseKind(event),
		Server:  extractField(line, "server"),
		Version: extractField(line, "version"),
		Detail:  extractQuotedField(line, "error"),
	}, true
}

// formatLine renders e in the flat log format. ParseEntries reads it back.
func formatLine(e Entry) string {
	var b strings.Builder
	b.WriteString(e.Time.Format(time.RFC3339))
	b.WriteString("  event=")
	b.WriteString(KindString(e.Kind))
	if e.Server != "" {
		b.WriteString("  server=")
		b.WriteString(e.Server)
	}
	if e.Version != "" {
		b.WriteString("  version=")
		b.WriteString(e.Version)
	}
	if e.Detail != "" {
		b.WriteString("  error=")
		b.WriteString(strconv.Quote(e.Detail))
	}
	return b.String()
}

// ExtractTimestamp parses the RFC3339 timestamp at the start of a log line
// (everything before the first "  " double-space separator).
func ExtractTimestamp(line string) (time.Time, bool) {
	tsEnd := strings.Index(line, "  ")
	if tsEnd < 0 {
		return time.Time{}, false
	}
	ts, err := time.Parse(time.RFC3339, line[:tsEnd])
	if err != nil {
		return time.Time{}, false
	}
	return ts, true
}

// extractField returns the value after "key=" in a space-separated line.
// Returns "" if not found.
func extractField(line, key string) string {
	prefix := key + "="
	for _, field := range strings.Fields(line) {
		if strings.HasPrefix(field, prefix) {
			return field[len(prefix):]
		}
	}
	return ""
}

// extractQuotedField returns the %q-decoded value after "  key=".
func extractQuotedField(line, key string) string {
	marker := "  " + key + "="
	idx := strings.Index(line, marker)
	if idx < 0 {
		return ""
	}
	return extractQuoted(line[idx+len(marker):])
}

// extractQuoted extracts a Go %q-encoded string from the start of s.
// Returns "" on failure.
func extractQuoted(s string) string {
	if len(s) == 0 || s[0] != '"' {
		return ""
	}
	for i := 1; i < len(s); i++ {
		if s[i] == '\\' {
			i++ // skip escaped character
			continue
		}
		if s[i] == '"' {
			text, err := strconv.Unquote(s[:i+1])
			if err != nil {
				return ""
			}
			return text
		}
	}
	return ""
}

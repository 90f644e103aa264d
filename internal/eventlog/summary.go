package eventlog

import (
	"sort"
	"strings"
	"time"
)

// DayGroup holds per-kind counts for a single calendar day.
type DayGroup struct {
	Date   time.Time
	Counts map[EntryKind]int
}

// Total returns the number of entries in the day.
func (g DayGroup) Total() int {
	n := 0
	for _, c := range g.Counts {
		n += c
	}
	return n
}

// Failures returns the number of failed checks and installs.
func (g DayGroup) Failures() int {
	return g.Counts[KindCheckFailed] + g.Counts[KindInstallFailed]
}

// SplitBlocks splits log content on blank lines, trims whitespace from
// each block, and returns only non-empty blocks.
func SplitBlocks(content string) []string {
	raw := strings.Split(content, "\n\n")
	blocks := make([]string, 0, len(raw))
	for _, b := range raw {
		b = strings.TrimSpace(b)
		if b != "" {
			blocks = append(blocks, b)
		}
	}
	return blocks
}

// DayCutoff returns midnight N days ago (inclusive) in the local timezone.
// For days=1 it returns today at midnight, for days=7 it returns 6 days ago, etc.
func DayCutoff(days int) time.Time {
	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return today.AddDate(0, 0, -(days - 1))
}

// FilterBlocksByDays keeps blocks whose first line is on or after
// DayCutoff(days). Blocks without a parseable timestamp are dropped.
func FilterBlocksByDays(content string, days int) string {
	cutoff := DayCutoff(days)

	var kept []string
	for _, block := range SplitBlocks(content) {
		firstLine := block
		if idx := strings.Index(block, "\n"); idx > 0 {
			firstLine = block[:idx]
		}
		ts, ok := ExtractTimestamp(firstLine)
		if !ok {
			continue
		}
		if !ts.In(cutoff.Location()).Before(cutoff) {
			kept = append(kept, block)
		}
	}
	return strings.Join(kept, "\n\n")
}

// SummarizeByDay groups entries by local calendar day and returns the
// groups sorted newest first. Pass days=0 to include all entries.
func SummarizeByDay(entries []Entry, days int) []DayGroup {
	loc := time.Now().Location()
	var cutoff time.Time
	if days > 0 {
		cutoff = DayCutoff(days)
	}

	byDate := map[string]*DayGroup{}
	for _, e := range entries {
		if e.Kind == KindOther {
			continue
		}
		local := e.Time.In(loc)
		day := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
		if days > 0 && day.Before(cutoff) {
			continue
		}
		ds := day.Format("2006-01-02")
		g, ok := byDate[ds]
		if !ok {
			g = &DayGroup{Date: day, Counts: map[EntryKind]int{}}
			byDate[ds] = g
		}
		g.Counts[e.Kind]++
	}

	groups := make([]DayGroup, 0, len(byDate))
	for _, g := range byDate {
		groups = append(groups, *g)
	}
	sort.Slice(groups, func(i, j int) bool {
		return groups[i].Date.After(groups[j].Date)
	})
	return groups
}

// LatestVersion returns the most recent version seen by a successful check
// or install, or "" if none.
func LatestVersion(entries []Entry) string {
	for i := len(entries) - 1; i >= 0; i-- {
		e := entries[i]
		if (e.Kind == KindCheck || e.Kind == KindInstall) && e.Version != "" {
			return e.Version
		}
	}
	return ""
}

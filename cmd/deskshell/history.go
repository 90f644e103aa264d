package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/Mavwarf/deskshell/internal/eventlog"
)

func newHistoryCmd() *cobra.Command {
	var days int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Summarize update checks, installs and leave beacons per day",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if days < 0 {
				return fmt.Errorf("days must be a non-negative integer")
			}
			svc, err := openServices()
			if err != nil {
				return err
			}
			defer svc.Close()

			entries, err := svc.History.Entries(days)
			if err != nil {
				return err
			}
			groups := eventlog.SummarizeByDay(entries, days)
			if len(groups) == 0 {
				if days == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No activity recorded.")
				} else {
					fmt.Fprintf(cmd.OutOrStdout(), "No activity in the last %d days.\n", days)
				}
				return nil
			}

			var b strings.Builder
			renderSummaryTable(&b, groups, days)
			if v := eventlog.LatestVersion(entries); v != "" {
				fmt.Fprintf(&b, "\n%s %s\n", dim("latest version seen:"), bold(v))
			}
			fmt.Fprint(cmd.OutOrStdout(), b.String())
			return nil
		},
	}
	cmd.Flags().IntVarP(&days, "days", "d", 7, "Days to include (0 = all)")

	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Delete all history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := openServices()
			if err != nil {
				return err
			}
			defer svc.Close()
			if err := svc.History.Clear(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "History cleared.")
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "clean <days>",
		Short: "Remove entries older than the given number of days",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := parseDays(args[0])
			if err != nil {
				return err
			}
			svc, err := openServices()
			if err != nil {
				return err
			}
			defer svc.Close()
			removed, err := svc.History.Clean(n)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %s entries older than %d days.\n", fmtNum(removed), n)
			return nil
		},
	})

	return cmd
}

func parseDays(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("days must be a positive integer")
	}
	return n, nil
}

// --- Formatting helpers ---

var noColor = os.Getenv("NO_COLOR") != "" || !term.IsTerminal(int(os.Stdout.Fd()))

func ansi(code, s string) string {
	if noColor {
		return s
	}
	return code + s + "\033[0m"
}

func bold(s string) string   { return ansi("\033[1m", s) }
func dim(s string) string    { return ansi("\033[2m", s) }
func cyan(s string) string   { return ansi("\033[36m", s) }
func green(s string) string  { return ansi("\033[32m", s) }
func red(s string) string    { return ansi("\033[31m", s) }
func yellow(s string) string { return ansi("\033[33m", s) }

// fmtNum formats an integer with dot as thousands separator (e.g. 1234 → "1.234").
func fmtNum(n int) string {
	neg := ""
	if n < 0 {
		neg = "-"
		n = -n
	}
	s := strconv.Itoa(n)
	if len(s) <= 3 {
		return neg + s
	}
	var buf strings.Builder
	r := len(s) % 3
	if r > 0 {
		buf.WriteString(s[:r])
	}
	for i := r; i < len(s); i += 3 {
		if buf.Len() > 0 {
			buf.WriteByte('.')
		}
		buf.WriteString(s[i : i+3])
	}
	return neg + buf.String()
}

// padL pads s to width with spaces on the left.
func padL(s string, width int) string {
	if pad := width - len(s); pad > 0 {
		return strings.Repeat(" ", pad) + s
	}
	return s
}

// padR pads s to width with spaces on the right.
func padR(s string, width int) string {
	if pad := width - len(s); pad > 0 {
		return s + strings.Repeat(" ", pad)
	}
	return s
}

// colorPadL applies a color function to s, then left-pads to width
// (accounting for invisible ANSI escape bytes).
func colorPadL(colorFn func(string) string, s string, width int) string {
	colored := colorFn(s)
	return padL(colored, width+(len(colored)-len(s)))
}

// --- Summary table ---

type summaryColumn struct {
	title string
	count func(eventlog.DayGroup) int
	color func(string) string
}

var summaryColumns = []summaryColumn{
	{"checks", checkCount, cyan},
	{"found", func(g eventlog.DayGroup) int { return g.Counts[eventlog.KindCheck] }, yellow},
	{"installs", func(g eventlog.DayGroup) int { return g.Counts[eventlog.KindInstall] }, green},
	{"failures", eventlog.DayGroup.Failures, red},
	{"leaves", func(g eventlog.DayGroup) int { return g.Counts[eventlog.KindLeave] }, dim},
}

// checkCount counts every check outcome for the day.
func checkCount(g eventlog.DayGroup) int {
	return g.Counts[eventlog.KindCheck] + g.Counts[eventlog.KindUpToDate] + g.Counts[eventlog.KindCheckFailed]
}

// renderSummaryTable writes one row per day plus a total row. Zero counts
// are shown as "-".
func renderSummaryTable(b *strings.Builder, groups []eventlog.DayGroup, days int) {
	const dateW = 10
	widths := make([]int, len(summaryColumns))
	totals := make([]int, len(summaryColumns))
	for i, col := range summaryColumns {
		widths[i] = len(col.title)
		for _, g := range groups {
			n := col.count(g)
			totals[i] += n
			if w := len(fmtNum(n)); w > widths[i] {
				widths[i] = w
			}
		}
		if w := len(fmtNum(totals[i])); w > widths[i] {
			widths[i] = w
		}
	}

	if days > 0 {
		fmt.Fprintf(b, "%s\n\n", bold(fmt.Sprintf("Last %d days", days)))
	} else {
		fmt.Fprintf(b, "%s\n\n", bold("All time"))
	}

	b.WriteString(padR("date", dateW))
	for i, col := range summaryColumns {
		b.WriteString("  ")
		b.WriteString(padL(col.title, widths[i]))
	}
	b.WriteByte('\n')

	for _, g := range groups {
		b.WriteString(padR(g.Date.Format("2006-01-02"), dateW))
		for i, col := range summaryColumns {
			b.WriteString("  ")
			n := col.count(g)
			if n == 0 {
				b.WriteString(colorPadL(dim, "-", widths[i]))
				continue
			}
			b.WriteString(colorPadL(col.color, fmtNum(n), widths[i]))
		}
		b.WriteByte('\n')
	}

	b.WriteString(padR("total", dateW))
	for i := range summaryColumns {
		b.WriteString("  ")
		b.WriteString(colorPadL(bold, fmtNum(totals[i]), widths[i]))
	}
	b.WriteByte('\n')
}

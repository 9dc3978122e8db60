package cli

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/guptarohit/asciigraph"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"peak/internal/analysis"
	"peak/internal/store"
)

const missing = "-"

func fmtFloat(v *float64, format string) string {
	if v == nil {
		return missing
	}
	return fmt.Sprintf(format, *v)
}

func fmtSteps(v *int) string {
	if v == nil {
		return missing
	}
	return humanize.Comma(int64(*v))
}

func fmtSleep(v *float64) string {
	if v == nil {
		return missing
	}
	minutes := int(*v*60 + 0.5)
	return fmt.Sprintf("%dh %02dm", minutes/60, minutes%60)
}

func fmtSigned(v int) string {
	if v > 0 {
		return "+" + strconv.Itoa(v)
	}
	return strconv.Itoa(v)
}

// renderToday writes the readiness card for today
func renderToday(w io.Writer, m store.DailyMetrics, p store.Profile, refreshedAt time.Time) error {
	detail := analysis.ReadinessDetail(m, p)
	score := readinessColor(detail.Score).Sprintf("%d", detail.Score)

	title := cardTitleStyle.Render("Readiness · " + m.Date.Format("Mon Jan 2"))
	lines := []string{
		renderMetric("Score", score),
		mutedStyle.Render(analysis.ReadinessDescription(detail.Score)),
		"",
		renderMetric("HRV", fmtFloat(m.HRV, "%.0f ms")+mutedStyle.Render(" ("+fmtSigned(detail.HRV)+")")),
		renderMetric("Resting HR", fmtFloat(m.RestingHR, "%.0f bpm")+mutedStyle.Render(" ("+fmtSigned(detail.RestingHR)+")")),
		renderMetric("Sleep", fmtSleep(m.SleepHours)+mutedStyle.Render(" ("+fmtSigned(detail.Sleep)+")")),
		renderMetric("Avg HR", fmtFloat(m.AvgHR, "%.0f bpm")),
		renderMetric("Steps", fmtSteps(m.Steps)),
		renderMetric("Active energy", fmtFloat(m.ActiveCalories, "%.0f kcal")),
		"",
		mutedStyle.Render(fmt.Sprintf("Baseline HRV %.0f ms · sleep target %.1fh", p.BaselineHRV, p.SleepTargetHours)),
	}
	if !refreshedAt.IsZero() {
		lines = append(lines, mutedStyle.Render("Updated "+refreshedAt.Format("15:04")))
	}

	content := lipgloss.JoinVertical(lipgloss.Left, lines...)
	_, err := fmt.Fprintln(w, cardStyle.Width(44).Render(lipgloss.JoinVertical(lipgloss.Left, title, content)))
	return err
}

// renderTrendTable writes one row per day, oldest first
func renderTrendTable(w io.Writer, days []store.DailyMetrics) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Date", "Readiness", "HRV", "RHR", "Sleep", "Steps", "kcal"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for _, d := range days {
		readiness := missing
		if d.Readiness != nil {
			readiness = readinessColor(*d.Readiness).Sprintf("%d", *d.Readiness)
		}
		data = append(data, []string{
			d.Date.Format("Mon Jan 02"),
			readiness,
			fmtFloat(d.HRV, "%.0f"),
			fmtFloat(d.RestingHR, "%.0f"),
			fmtSleep(d.SleepHours),
			fmtSteps(d.Steps),
			fmtFloat(d.ActiveCalories, "%.0f"),
		})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

// renderChart plots the present values of field; it returns "" when fewer
// than two days carry data
func renderChart(title string, days []store.DailyMetrics, field analysis.Field) string {
	_, values := analysis.Series(days, field)
	if len(values) < 2 {
		return ""
	}

	graph := asciigraph.Plot(values,
		asciigraph.Height(8),
		asciigraph.Width(60),
		asciigraph.Precision(0),
	)
	return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, cardTitleStyle.Render(title), graph))
}

// renderJournal writes journal entries, newest first
func renderJournal(w io.Writer, entries []store.JournalEntry, now time.Time) error {
	if len(entries) == 0 {
		_, err := fmt.Fprintln(w, "No journal entries yet. Add one with 'peak journal add --mood 4'.")
		return err
	}

	table := tablewriter.NewWriter(w)
	table.Header([]string{"When", "Mood", "Notes"})

	var data [][]string
	for _, e := range entries {
		data = append(data, []string{
			humanize.RelTime(e.Date, now, "ago", "from now"),
			moodBar(e.Mood),
			e.Notes,
		})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

func moodBar(mood int) string {
	bar := ""
	for i := 1; i <= 5; i++ {
		if i <= mood {
			bar += "●"
		} else {
			bar += "○"
		}
	}
	return bar
}

// renderProfile writes the personalization profile
func renderProfile(w io.Writer, p store.Profile) error {
	lines := []string{
		cardTitleStyle.Render("Profile"),
		renderMetric("Baseline HRV", fmt.Sprintf("%.1f ms", p.BaselineHRV)),
		renderMetric("Sleep target", fmt.Sprintf("%.1f h", p.SleepTargetHours)),
	}
	_, err := fmt.Fprintln(w, cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...)))
	return err
}

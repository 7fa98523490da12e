// Package progress owns the console feedback of a crawl: a spinner
// with the page currently being visited and a styled summary block
// printed when the run ends.
package progress

import (
	"fmt"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/charmbracelet/lipgloss"

	"github.com/nick-rajwade/svg-crawler/internal/writer"
)

// Tracker drives the console spinner. A nil Tracker is valid and does
// nothing, which keeps tests quiet.
type Tracker struct {
	sp        *spinner.Spinner
	processed int
}

func New() *Tracker {
	return &Tracker{sp: spinner.New(spinner.CharSets[9], 100*time.Millisecond)}
}

// Begin starts the spinner with an initial label.
func (t *Tracker) Begin(label string) {
	if t == nil {
		return
	}
	t.sp.Suffix = " " + label
	t.sp.Start()
}

// Page updates the spinner for the page being visited.
func (t *Tracker) Page(name string) {
	if t == nil {
		return
	}
	t.processed++
	t.sp.Suffix = fmt.Sprintf(" [%d] %s", t.processed, truncate(name, 60))
}

// End stops the spinner.
func (t *Tracker) End() {
	if t == nil {
		return
	}
	t.sp.Stop()
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return "..." + s[len(s)-max+3:]
}

var (
	summaryBorder = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("99")).
			Padding(0, 2)
	summaryTitle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("99")).
			Bold(true)
	summaryLabel = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Bold(true)
	summaryValue = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86"))
)

// RenderSummary formats the end-of-run report block.
func RenderSummary(s writer.Summary, outputDir string, elapsed time.Duration) string {
	rows := []struct {
		label string
		value string
	}{
		{"Extracted", fmt.Sprintf("%d", s.ExtractedCount)},
		{"Failed", fmt.Sprintf("%d", s.FailedCount)},
		{"Total", fmt.Sprintf("%d", s.TotalProcessed)},
		{"Output", outputDir},
		{"Elapsed", elapsed.Round(time.Second).String()},
	}

	var b strings.Builder
	b.WriteString(summaryTitle.Render("Crawl Summary"))
	for _, row := range rows {
		b.WriteString("\n")
		b.WriteString(summaryLabel.Render(fmt.Sprintf("%-11s", row.label+":")))
		b.WriteString(summaryValue.Render(row.value))
	}
	return summaryBorder.Render(b.String())
}

// Package report renders task analytics as markdown for the terminal.
package report

import (
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"

	"github.com/nhle/tasknest/internal/view"
)

// Markdown formats stats and per-project progress as a markdown document.
func Markdown(st view.Stats, projects []view.ProjectSummary) string {
	var b strings.Builder

	b.WriteString("# Analytics\n\n")
	b.WriteString("| Metric | Value |\n|---|---|\n")
	fmt.Fprintf(&b, "| Total tasks | %d |\n", st.Total)
	fmt.Fprintf(&b, "| Completed | %d |\n", st.Completed)
	fmt.Fprintf(&b, "| Overdue | %d |\n", st.Overdue)
	fmt.Fprintf(&b, "| Urgent (open) | %d |\n", st.Urgent)
	fmt.Fprintf(&b, "| Completion rate | %.0f%% |\n", st.CompletionRate)
	fmt.Fprintf(&b, "| Productivity score | %.0f |\n", st.ProductivityScore)
	fmt.Fprintf(&b, "| Avg. completion time | %d day(s) |\n", st.AverageCompletionDays)

	writeBreakdown(&b, "By priority", st.ByPriority)
	writeBreakdown(&b, "By category", st.ByCategory)

	b.WriteString("\n## Completed in the last 7 days\n\n")
	b.WriteString("| Day | Completed |\n|---|---|\n")
	for _, p := range st.Trend {
		fmt.Fprintf(&b, "| %s | %d |\n", p.Label, p.Completed)
	}

	if len(projects) > 0 {
		b.WriteString("\n## Projects\n\n")
		b.WriteString("| Project | Done | Total | Overdue | Progress |\n|---|---|---|---|---|\n")
		for _, p := range projects {
			fmt.Fprintf(&b, "| %s | %d | %d | %d | %.0f%% |\n",
				escape(p.Project.Name), p.Completed, p.Total, p.Overdue, p.Progress())
		}
	}

	if peak, n := busiestHour(st.Hourly); n > 0 {
		fmt.Fprintf(&b, "\nMost tasks are created around **%02d:00** (%d task(s)).\n", peak, n)
	}
	return b.String()
}

func writeBreakdown(b *strings.Builder, title string, rows []view.Breakdown) {
	if len(rows) == 0 {
		return
	}
	fmt.Fprintf(b, "\n## %s\n\n| | Tasks | Completed |\n|---|---|---|\n", title)
	for _, r := range rows {
		fmt.Fprintf(b, "| %s | %d | %d |\n", escape(r.Key), r.Count, r.Completed)
	}
}

func busiestHour(hourly [24]int) (int, int) {
	peak := 0
	for h, n := range hourly {
		if n > hourly[peak] {
			peak = h
		}
	}
	return peak, hourly[peak]
}

func escape(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

var (
	renderersMu sync.Mutex
	renderers   = map[string]*glamour.TermRenderer{}
)

// Render renders md for a terminal of the given width. The fixed light or
// dark style avoids glamour's terminal background query. On failure the
// markdown is returned as is.
func Render(md string, width int, dark bool) string {
	if width < 20 {
		width = 20
	}
	style := "light"
	if dark {
		style = "dark"
	}
	key := fmt.Sprintf("%s:%d", style, width)

	renderersMu.Lock()
	r := renderers[key]
	if r == nil {
		var err error
		r, err = glamour.NewTermRenderer(
			glamour.WithStandardStyle(style),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			renderersMu.Unlock()
			return md
		}
		renderers[key] = r
	}
	renderersMu.Unlock()

	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return strings.TrimRight(out, "\n")
}

// Package console renders pipeline results for the terminal.
package console

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/okian/stride/internal/adapters/export"
	"github.com/okian/stride/internal/domain/model"
	"github.com/okian/stride/internal/domain/types"
)

func row(label, value string) string {
	return lipgloss.JoinHorizontal(lipgloss.Top, LabelStyle.Render(label), ValueStyle.Render(value))
}

// RenderSummary draws the training summary as a bordered block.
func RenderSummary(s model.TrainingSummary) string {
	if s.Empty() {
		return BoxStyle.Render(TitleStyle.Render("Training history") + "\n" +
			WarnStyle.Render("No valid runs found; plans will use the beginner template."))
	}

	trend := "steady"
	switch {
	case s.PaceTrend > 0:
		trend = GoodStyle.Render(s.PaceTrend.String() + "/km faster")
	case s.PaceTrend < 0:
		trend = WarnStyle.Render((-s.PaceTrend).String() + "/km slower")
	}

	lines := []string{
		TitleStyle.Render("Training history"),
		row("Period", fmt.Sprintf("%s to %s", s.FirstDate.Format(time.DateOnly), s.LastDate.Format(time.DateOnly))),
		row("Runs", fmt.Sprintf("%d (%.1f km)", s.TotalActivities, s.TotalDistance)),
		row("Weekly distance", fmt.Sprintf("%.1f km", s.AverageWeeklyDistance)),
		row("Fitness level", string(s.FitnessLevel)),
		row("Consistency", fmt.Sprintf("%.0f%%", s.ConsistencyScore*100)),
		row("Best pace", s.BestPace.String()+"/km"),
		row("Average pace", s.AveragePace.String()+"/km"),
		row("Longest run", fmt.Sprintf("%.1f km", s.LongestRun)),
		row("Pace trend", trend),
	}
	if s.InjuryRisk != "" {
		lines = append(lines, row("Injury risk", riskText(s)))
	}
	if s.AverageHR > 0 {
		lines = append(lines, row("Average HR", fmt.Sprintf("%.0f bpm", s.AverageHR)))
	}
	return BoxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func riskText(s model.TrainingSummary) string {
	text := fmt.Sprintf("%s (%d runs in 7 days)", s.InjuryRisk, s.RecentRuns)
	switch s.InjuryRisk {
	case types.RiskHigh:
		return ErrorStyle.Render(text)
	case types.RiskMedium:
		return WarnStyle.Render(text)
	}
	return GoodStyle.Render(text)
}

// RenderPlan draws one line per week with its focus, long run and volume.
func RenderPlan(p model.Plan) string {
	var b strings.Builder
	b.WriteString(TitleStyle.Render(fmt.Sprintf("%d-week plan to %s (%s)", p.Weeks, p.RaceDate.Format(time.DateOnly), p.Template)))
	b.WriteString("\n")
	for week := 1; week <= p.Weeks; week++ {
		long := "race week"
		for _, e := range p.Week(week) {
			if e.Workout == types.WorkoutLong {
				long = fmt.Sprintf("long %.1f km @ %s", e.TargetDistanceKM, e.TargetPace)
			}
		}
		line := fmt.Sprintf("%5.1f km  %s", p.WeekDistance(week), long)
		if f := p.FocusOf(week); f != "" {
			line = fmt.Sprintf("%-18s %s", f.Title(), line)
		}
		b.WriteString(row(fmt.Sprintf("Week %d", week), line))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// RenderExports lists written files and failures.
func RenderExports(results []export.Result) string {
	lines := make([]string, 0, len(results))
	for _, r := range results {
		if r.Err != nil {
			lines = append(lines, ErrorStyle.Render("✗ "+r.Format)+" "+r.Err.Error())
			continue
		}
		lines = append(lines, GoodStyle.Render("✓ "+r.Format)+" "+r.Path)
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// RenderVerify reports a re-imported plan file. err is the sequence check
// result.
func RenderVerify(path string, entries, longRuns int, start, end time.Time, err error) string {
	status := GoodStyle.Render("✓ continuous schedule")
	if err != nil {
		status = ErrorStyle.Render("✗ "+err.Error())
	}
	lines := []string{
		TitleStyle.Render("Plan file"),
		row("File", path),
		row("Entries", fmt.Sprintf("%d", entries)),
		row("Long runs", fmt.Sprintf("%d", longRuns)),
	}
	if entries > 0 {
		lines = append(lines, row("Period", fmt.Sprintf("%s to %s", start.Format(time.DateOnly), end.Format(time.DateOnly))))
	}
	lines = append(lines, status)
	return BoxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

// Print writes rendered blocks separated by blank lines.
func Print(w io.Writer, blocks ...string) error {
	_, err := fmt.Fprintln(w, strings.Join(blocks, "\n\n"))
	return err
}

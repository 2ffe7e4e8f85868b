package export

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/okian/stride/internal/domain/model"
	"github.com/okian/stride/internal/domain/types"
)

// WriteReport writes the human-readable plan: header, summary, one table per
// week and closing notes.
func WriteReport(ctx context.Context, w io.Writer, summary model.TrainingSummary, plan model.Plan) error {
	var b strings.Builder

	fmt.Fprintf(&b, "HALF MARATHON TRAINING PLAN\n")
	fmt.Fprintf(&b, "Race day: %s (%s)\n", plan.RaceDate.Format(time.DateOnly), plan.RaceDate.Weekday())
	fmt.Fprintf(&b, "Plan: %d weeks from %s, %s template\n\n", plan.Weeks, plan.Start().Format(time.DateOnly), plan.Template)

	writeSummaryBlock(&b, summary)

	tw := tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)
	for week := 1; week <= plan.Weeks; week++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		entries := plan.Week(week)
		if len(entries) == 0 {
			continue
		}
		fmt.Fprintf(tw, "\nWEEK %d\t%s to %s\t%.1f km\t%s\n", week,
			entries[0].Date.Format(time.DateOnly), entries[len(entries)-1].Date.Format(time.DateOnly),
			plan.WeekDistance(week), focusText(plan.FocusOf(week)))
		for _, e := range entries {
			fmt.Fprintf(tw, "  %s %s\t%s\t%s\t%s\n",
				e.Date.Weekday().String()[:3], e.Date.Format("02/01"), e.Workout.Title(), distanceText(e), paceText(e))
		}
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("format plan table: %w", err)
	}

	writeNotes(&b, summary, plan)

	_, err := io.WriteString(w, b.String())
	return err
}

func writeSummaryBlock(b *strings.Builder, s model.TrainingSummary) {
	fmt.Fprintf(b, "TRAINING HISTORY\n")
	if s.Empty() {
		fmt.Fprintf(b, "  No valid runs found.\n")
		return
	}
	fmt.Fprintf(b, "  Period: %s to %s (%d runs, %.1f km)\n",
		s.FirstDate.Format(time.DateOnly), s.LastDate.Format(time.DateOnly), s.TotalActivities, s.TotalDistance)
	fmt.Fprintf(b, "  Weekly volume: %.1f km (%s)\n", s.AverageWeeklyDistance, s.FitnessLevel)
	fmt.Fprintf(b, "  Consistency: %.0f%% of weeks with a run\n", s.ConsistencyScore*100)
	fmt.Fprintf(b, "  Pace: best %s/km, average %s/km\n", s.BestPace, s.AveragePace)
	fmt.Fprintf(b, "  Longest run: %.1f km (safe maximum %.1f km)\n", s.LongestRun, s.SafeMaxDistance)
	if s.InjuryRisk != "" {
		fmt.Fprintf(b, "  Injury risk: %s (%d runs in the last 7 days)\n", s.InjuryRisk, s.RecentRuns)
	}
	if s.AverageHR > 0 {
		fmt.Fprintf(b, "  Average heart rate: %.0f bpm\n", s.AverageHR)
	}
	switch {
	case s.PaceTrend > 0:
		fmt.Fprintf(b, "  Trend: %s/km faster than your first runs\n", s.PaceTrend)
	case s.PaceTrend < 0:
		fmt.Fprintf(b, "  Trend: %s/km slower than your first runs\n", -s.PaceTrend)
	}
}

func writeNotes(b *strings.Builder, s model.TrainingSummary, plan model.Plan) {
	fmt.Fprintf(b, "\nNOTES\n")
	if plan.Template == model.TemplateBeginner {
		fmt.Fprintf(b, "- Not enough running history; the beginner template was used.\n")
	}
	warm, cool := WarmupCooldown(types.WorkoutEasy)
	longWarm, longCool := WarmupCooldown(types.WorkoutLong)
	fmt.Fprintf(b, "- Warm up %.0f min and cool down %.0f min around every run (%.0f and %.0f for long runs).\n",
		warm.Minutes(), cool.Minutes(), longWarm.Minutes(), longCool.Minutes())
	fmt.Fprintf(b, "- Long runs grow by at most 10%% a week and drop during the taper.\n")
	if s.InjuryRisk == types.RiskHigh {
		fmt.Fprintf(b, "- You ran %d times in your last 7 days; start the plan with an easy week.\n", s.RecentRuns)
	}
	if s.LongestRun > 0 {
		fmt.Fprintf(b, "- Your longest run so far is %.1f km; treat %.1f km as the safe step up.\n", s.LongestRun, s.SafeMaxDistance)
	}
	fmt.Fprintf(b, "- Rest days are for recovery; swap days within a week rather than skipping.\n")
}

func focusText(f types.TrainingFocus) string {
	if f == "" {
		return ""
	}
	return f.Title()
}

func distanceText(e model.PlanEntry) string {
	if e.IsRest() {
		return "-"
	}
	return fmt.Sprintf("%.1f km", e.TargetDistanceKM)
}

func paceText(e model.PlanEntry) string {
	if e.IsRest() {
		return ""
	}
	return e.TargetPace.String() + "/km"
}

// Package stats derives descriptive training statistics from an activity history.
package stats

import (
	"math"
	"sort"
	"time"

	"github.com/okian/stride/internal/domain/model"
	"github.com/okian/stride/internal/domain/types"
)

// Default summarizer configuration constants.
const (
	defaultMaxPace  = types.Pace(15 * 60)
	safeDistanceMul = 1.1
	daysPerWeek     = 7
)

// Reasons a record does not count towards the summary.
const (
	ReasonNotARun     = "not_a_run"
	ReasonNoDistance  = "no_distance"
	ReasonInvalidPace = "invalid_pace"
)

// Summarizer computes a TrainingSummary from activity records.
type Summarizer struct {
	minPace types.Pace
	maxPace types.Pace
}

// NewSummarizer creates a summarizer with configuration options.
func NewSummarizer(opts ...Option) *Summarizer {
	s := &Summarizer{
		minPace: 0,
		maxPace: defaultMaxPace,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Reject returns why a record is excluded from the summary, or "" when it counts.
func (s *Summarizer) Reject(rec model.ActivityRecord) string {
	switch {
	case !rec.IsRun():
		return ReasonNotARun
	case rec.DistanceKM <= 0:
		return ReasonNoDistance
	case rec.AveragePace <= s.minPace || rec.AveragePace >= s.maxPace:
		return ReasonInvalidPace
	}
	return ""
}

// Runs returns the records that count, ordered by date.
func (s *Summarizer) Runs(records []model.ActivityRecord) []model.ActivityRecord {
	runs := make([]model.ActivityRecord, 0, len(records))
	for _, rec := range records {
		if s.Reject(rec) == "" {
			runs = append(runs, rec)
		}
	}
	sort.SliceStable(runs, func(i, j int) bool { return runs[i].Date.Before(runs[j].Date) })
	return runs
}

// Summarize computes the training summary. An empty or fully rejected input
// yields the zero summary with the beginner fitness level.
func (s *Summarizer) Summarize(records []model.ActivityRecord) model.TrainingSummary {
	runs := s.Runs(records)
	if len(runs) == 0 {
		return model.TrainingSummary{FitnessLevel: types.LevelBeginner, InjuryRisk: types.RiskLow}
	}

	var (
		sum       model.TrainingSummary
		paceTotal float64
		durTotal  time.Duration
		hrTotal   float64
		hrCount   int
	)
	sum.BestPace = runs[0].AveragePace
	active := make(map[time.Time]struct{})

	for _, r := range runs {
		sum.TotalDistance += r.DistanceKM
		paceTotal += r.AveragePace.Seconds()
		durTotal += r.Duration
		if r.AverageHR > 0 {
			hrTotal += r.AverageHR
			hrCount++
		}
		if r.AveragePace < sum.BestPace {
			sum.BestPace = r.AveragePace
		}
		if r.DistanceKM > sum.LongestRun {
			sum.LongestRun = r.DistanceKM
		}
		active[weekStart(r.Date)] = struct{}{}
	}

	n := len(runs)
	first, last := runs[0], runs[n-1]
	weeks := WeeksSpanned(first.Date, last.Date)

	sum.TotalActivities = n
	sum.FirstDate = first.Date
	sum.LastDate = last.Date
	sum.AverageWeeklyDistance = sum.TotalDistance / float64(weeks)
	sum.ConsistencyScore = math.Min(1, float64(len(active))/float64(weeks))
	sum.AveragePace = types.Pace(paceTotal / float64(n))
	sum.AverageDistance = sum.TotalDistance / float64(n)
	sum.AverageDuration = durTotal / time.Duration(n)
	if hrCount > 0 {
		sum.AverageHR = hrTotal / float64(hrCount)
	}
	sum.PaceTrend = first.AveragePace - last.AveragePace
	sum.SafeMaxDistance = sum.LongestRun * safeDistanceMul
	sum.FitnessLevel = types.LevelForWeeklyDistance(sum.AverageWeeklyDistance)

	from, to := RecentWindow(last.Date)
	for _, r := range runs {
		if !r.Date.Before(from) && r.Date.Before(to) {
			sum.RecentRuns++
		}
	}
	sum.InjuryRisk = types.RiskForRecentRuns(sum.RecentRuns)

	return sum
}

// RecentWindow returns the seven calendar days ending on the day of last, as
// the half-open interval [from, to).
func RecentWindow(last time.Time) (from, to time.Time) {
	y, m, d := last.Date()
	to = time.Date(y, m, d+1, 0, 0, 0, 0, last.Location())
	return to.AddDate(0, 0, -daysPerWeek), to
}

// AssessRisk grades sum by the runs among recent, which should hold the
// records of RecentWindow(sum.LastDate). An empty summary stays low risk.
func (s *Summarizer) AssessRisk(sum model.TrainingSummary, recent []model.ActivityRecord) model.TrainingSummary {
	sum.RecentRuns = 0
	if !sum.Empty() {
		sum.RecentRuns = len(s.Runs(recent))
	}
	sum.InjuryRisk = types.RiskForRecentRuns(sum.RecentRuns)
	return sum
}

// WeeksSpanned counts the ISO weeks from the week of from to the week of to,
// inclusive. It is at least 1.
func WeeksSpanned(from, to time.Time) int {
	if to.Before(from) {
		from, to = to, from
	}
	days := int(weekStart(to).Sub(weekStart(from)).Hours() / 24)
	return days/daysPerWeek + 1
}

// weekStart returns the Monday of t's ISO week as a UTC date.
func weekStart(t time.Time) time.Time {
	y, m, d := t.Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	offset := (int(day.Weekday()) + 6) % daysPerWeek // Monday = 0
	return day.AddDate(0, 0, -offset)
}

package model

import (
	"time"

	"github.com/okian/stride/internal/domain/types"
)

// TrainingSummary is derived from an activity set and has no identity.
// The zero value is the summary of an empty history.
type TrainingSummary struct {
	AverageWeeklyDistance float64    // km per spanned week
	BestPace              types.Pace // fastest average pace
	LongestRun            float64    // km
	ConsistencyScore      float64    // active weeks / spanned weeks, in [0, 1]

	AveragePace     types.Pace
	AverageDistance float64 // km per run
	AverageDuration time.Duration
	AverageHR       float64 // over runs with a recorded HR
	PaceTrend       types.Pace // first minus last pace; positive means faster
	SafeMaxDistance float64    // longest run plus 10 %
	TotalActivities int
	TotalDistance   float64
	FirstDate       time.Time
	LastDate        time.Time
	FitnessLevel    types.FitnessLevel

	RecentRuns int              // runs in the seven days ending on LastDate
	InjuryRisk types.InjuryRisk // graded from RecentRuns
}

// Empty reports whether no run contributed to the summary.
func (s TrainingSummary) Empty() bool { return s.TotalActivities == 0 }

// Improving reports whether recent runs are faster than the first ones.
func (s TrainingSummary) Improving() bool { return s.PaceTrend > 0 }

package model

import (
	"time"

	"github.com/okian/stride/internal/domain/types"
)

// Template names the rule set a plan was generated from.
type Template string

// Plan templates.
const (
	TemplateComputed Template = "computed"
	TemplateBeginner Template = "beginner"
)

// PlanEntry is one scheduled day. Rest days carry zero distance and pace.
type PlanEntry struct {
	Date             time.Time
	Week             int // 1-based
	Workout          types.WorkoutType
	TargetDistanceKM float64
	TargetPace       types.Pace
}

// IsRest reports whether the entry is a rest day.
func (e PlanEntry) IsRest() bool { return e.Workout == types.WorkoutRest }

// EstimatedDuration is distance times pace.
func (e PlanEntry) EstimatedDuration() time.Duration {
	if e.IsRest() {
		return 0
	}
	return time.Duration(e.TargetDistanceKM * e.TargetPace.Seconds() * float64(time.Second))
}

// Plan is an ordered training block ending on race day.
type Plan struct {
	RaceDate time.Time
	Weeks    int
	Template Template
	Focus    []types.TrainingFocus // per week, index 0 is week 1
	Entries  []PlanEntry
}

// FocusOf returns the focus of a 1-based week, or "" when the plan has none.
func (p Plan) FocusOf(week int) types.TrainingFocus {
	if week < 1 || week > len(p.Focus) {
		return ""
	}
	return p.Focus[week-1]
}

// Start returns the first scheduled day, or the zero time for an empty plan.
func (p Plan) Start() time.Time {
	if len(p.Entries) == 0 {
		return time.Time{}
	}
	return p.Entries[0].Date
}

// Week returns the entries of a 1-based week.
func (p Plan) Week(n int) []PlanEntry {
	var out []PlanEntry
	for _, e := range p.Entries {
		if e.Week == n {
			out = append(out, e)
		}
	}
	return out
}

// LongRuns returns the long-run entries in date order.
func (p Plan) LongRuns() []PlanEntry {
	var out []PlanEntry
	for _, e := range p.Entries {
		if e.Workout == types.WorkoutLong {
			out = append(out, e)
		}
	}
	return out
}

// TotalDistance sums the target distance of all entries.
func (p Plan) TotalDistance() float64 {
	var total float64
	for _, e := range p.Entries {
		total += e.TargetDistanceKM
	}
	return total
}

// WeekDistance sums the target distance of a 1-based week.
func (p Plan) WeekDistance(n int) float64 {
	var total float64
	for _, e := range p.Week(n) {
		total += e.TargetDistanceKM
	}
	return total
}

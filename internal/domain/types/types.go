// Package types contains common types used across the application
package types

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ActivityType classifies a recorded session.
type ActivityType string

// Known activity types. Platform spellings are normalized by ParseActivityType.
const (
	ActivityRunning          ActivityType = "running"
	ActivityTrailRunning     ActivityType = "trail_running"
	ActivityTreadmillRunning ActivityType = "treadmill_running"
	ActivityTrackRunning     ActivityType = "track_running"
	ActivityCycling          ActivityType = "cycling"
	ActivityWalking          ActivityType = "walking"
	ActivityOther            ActivityType = "other"
)

// IsRun reports whether the type belongs to the running family.
func (t ActivityType) IsRun() bool {
	switch t {
	case ActivityRunning, ActivityTrailRunning, ActivityTreadmillRunning, ActivityTrackRunning:
		return true
	}
	return false
}

// ParseActivityType maps export spellings ("Running", "Trail Running",
// "treadmill_running", "Biking", ...) to an ActivityType. Blank means running,
// since run-only exports omit the column.
func ParseActivityType(s string) ActivityType {
	norm := strings.ToLower(strings.TrimSpace(s))
	norm = strings.NewReplacer(" ", "_", "-", "_").Replace(norm)
	switch norm {
	case "", "running", "run", "street_running", "corrida":
		return ActivityRunning
	case "trail_running", "trail_run", "trail":
		return ActivityTrailRunning
	case "treadmill_running", "treadmill", "indoor_running", "virtual_run":
		return ActivityTreadmillRunning
	case "track_running", "track":
		return ActivityTrackRunning
	case "cycling", "biking", "ride", "road_biking", "indoor_cycling", "mountain_biking":
		return ActivityCycling
	case "walking", "walk", "hiking":
		return ActivityWalking
	}
	return ActivityOther
}

// WorkoutType is the kind of session scheduled on a plan day.
type WorkoutType string

// Workout types of a plan.
const (
	WorkoutEasy  WorkoutType = "easy"
	WorkoutLong  WorkoutType = "long"
	WorkoutTempo WorkoutType = "tempo"
	WorkoutRest  WorkoutType = "rest"
	WorkoutRace  WorkoutType = "race"
)

// WorkoutTypes lists every workout type in display order.
var WorkoutTypes = []WorkoutType{WorkoutEasy, WorkoutLong, WorkoutTempo, WorkoutRest, WorkoutRace}

// Valid reports whether w is a known workout type.
func (w WorkoutType) Valid() bool {
	switch w {
	case WorkoutEasy, WorkoutLong, WorkoutTempo, WorkoutRest, WorkoutRace:
		return true
	}
	return false
}

// Title is the capitalized name used in reports.
func (w WorkoutType) Title() string {
	switch w {
	case WorkoutEasy:
		return "Easy"
	case WorkoutLong:
		return "Long run"
	case WorkoutTempo:
		return "Tempo"
	case WorkoutRest:
		return "Rest"
	case WorkoutRace:
		return "Race"
	}
	return string(w)
}

// FitnessLevel buckets a runner by weekly volume.
type FitnessLevel string

// Fitness levels.
const (
	LevelBeginner     FitnessLevel = "beginner"
	LevelIntermediate FitnessLevel = "intermediate"
	LevelAdvanced     FitnessLevel = "advanced"
)

// Weekly distance thresholds (km) between fitness levels.
const (
	IntermediateWeeklyKM = 16.0
	AdvancedWeeklyKM     = 40.0
)

// LevelForWeeklyDistance classifies an average weekly distance in km.
func LevelForWeeklyDistance(km float64) FitnessLevel {
	switch {
	case km < IntermediateWeeklyKM:
		return LevelBeginner
	case km < AdvancedWeeklyKM:
		return LevelIntermediate
	default:
		return LevelAdvanced
	}
}

// InjuryRisk grades how crowded the most recent week of running is.
type InjuryRisk string

// Injury risk grades.
const (
	RiskLow    InjuryRisk = "low"
	RiskMedium InjuryRisk = "medium"
	RiskHigh   InjuryRisk = "high"
)

// Run counts over the last seven days that bound the risk grades.
const (
	MinModerateRecentRuns = 2
	MaxModerateRecentRuns = 5
)

// RiskForRecentRuns grades the number of runs in the last seven days: more
// than five is high, fewer than two is low.
func RiskForRecentRuns(n int) InjuryRisk {
	switch {
	case n > MaxModerateRecentRuns:
		return RiskHigh
	case n < MinModerateRecentRuns:
		return RiskLow
	default:
		return RiskMedium
	}
}

// TrainingFocus is the emphasis of one plan week.
type TrainingFocus string

// Weekly focus, in the order a plan moves through them.
const (
	FocusBase     TrainingFocus = "base"
	FocusStrength TrainingFocus = "strength"
	FocusPeak     TrainingFocus = "peak"
	FocusTaper    TrainingFocus = "taper"
)

// Title is the name used in reports.
func (f TrainingFocus) Title() string {
	switch f {
	case FocusBase:
		return "Base building"
	case FocusStrength:
		return "Strength building"
	case FocusPeak:
		return "Peak training"
	case FocusTaper:
		return "Taper"
	}
	return string(f)
}

// Pace is a running pace in seconds per kilometre. Zero means "no pace".
type Pace float64

// PaceFromMinutes converts decimal minutes per km (6.5 = 6:30/km).
func PaceFromMinutes(min float64) Pace { return Pace(min * 60) }

// Seconds returns the pace in seconds per km.
func (p Pace) Seconds() float64 { return float64(p) }

// Minutes returns the pace in decimal minutes per km.
func (p Pace) Minutes() float64 { return float64(p) / 60 }

// MetersPerSecond converts the pace to a speed. Zero pace gives zero speed.
func (p Pace) MetersPerSecond() float64 {
	if p <= 0 {
		return 0
	}
	return 1000 / float64(p)
}

// Clamp bounds the pace to [lo, hi].
func (p Pace) Clamp(lo, hi Pace) Pace {
	return Pace(math.Max(float64(lo), math.Min(float64(hi), float64(p))))
}

// String formats the pace as m:ss, e.g. "5:45". Zero pace prints "-".
func (p Pace) String() string {
	if p <= 0 {
		return "-"
	}
	total := int(math.Round(float64(p)))
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}

// ParsePace reads "m:ss" (optionally followed by "/km" or " min/km") or
// decimal minutes ("5.75").
func ParsePace(s string) (Pace, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "min/km")
	s = strings.TrimSuffix(strings.TrimSpace(s), "/km")
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty pace")
	}
	if mm, ss, ok := strings.Cut(s, ":"); ok {
		m, err := strconv.Atoi(mm)
		if err == nil && m < 0 {
			err = errors.New("negative minutes")
		}
		if err != nil {
			return 0, fmt.Errorf("invalid pace minutes %q: %w", s, err)
		}
		sec, err := strconv.ParseFloat(ss, 64)
		if err != nil || math.IsNaN(sec) || sec < 0 || sec >= 60 {
			return 0, fmt.Errorf("invalid pace seconds %q", s)
		}
		return Pace(float64(m*60) + sec), nil
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid pace %q: %w", s, err)
	}
	if math.IsInf(v, 0) || math.IsNaN(v) || v < 0 {
		return 0, fmt.Errorf("invalid pace %q", s)
	}
	return PaceFromMinutes(v), nil
}

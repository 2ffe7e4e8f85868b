// Package planner generates a templated half-marathon training block.
package planner

import (
	"fmt"
	"math"
	"time"

	"github.com/okian/stride/internal/domain/model"
	"github.com/okian/stride/internal/domain/types"
)

// Plan length bounds in weeks.
const (
	MinWeeks = 4
	MaxWeeks = 24
)

// HalfMarathonKM is the race distance.
const HalfMarathonKM = 21.0975

const (
	daysPerWeek       = 7
	defaultMinHistory = 5
	defaultPeakLong   = 19.0
	minStartLongRun   = 8.0
	maxWeeklyGrowth   = 1.10
	minRunKM          = 3.0

	easyMinKM, easyMaxKM   = 4.0, 10.0
	tempoMinKM, tempoMaxKM = 5.0, 10.0
	preRaceScale           = 0.8
	raceWeekScale          = 0.6

	fastestPace = types.Pace(3 * 60)
	slowestPace = types.Pace(12 * 60)
)

// Skeletons are aligned so that the last slot falls on the race weekday.
var (
	computedWeek = [daysPerWeek]types.WorkoutType{
		types.WorkoutRest, types.WorkoutEasy, types.WorkoutTempo, types.WorkoutEasy,
		types.WorkoutRest, types.WorkoutEasy, types.WorkoutLong,
	}
	beginnerWeek = [daysPerWeek]types.WorkoutType{
		types.WorkoutRest, types.WorkoutEasy, types.WorkoutRest, types.WorkoutTempo,
		types.WorkoutRest, types.WorkoutEasy, types.WorkoutLong,
	}
	raceWeek = [daysPerWeek]types.WorkoutType{
		types.WorkoutRest, types.WorkoutEasy, types.WorkoutTempo, types.WorkoutEasy,
		types.WorkoutRest, types.WorkoutRest, types.WorkoutRace,
	}
)

// Fixed parameters of the beginner template.
var beginner = params{
	paces: map[types.WorkoutType]types.Pace{
		types.WorkoutEasy:  7 * 60,
		types.WorkoutLong:  7*60 + 30,
		types.WorkoutTempo: 6*60 + 15,
		types.WorkoutRace:  6*60 + 40,
	},
	easyKM:    5,
	tempoKM:   5,
	startLong: 6,
	peakLong:  16,
}

// params are the per-plan numbers the skeleton is filled with.
type params struct {
	paces     map[types.WorkoutType]types.Pace
	easyKM    float64
	tempoKM   float64
	startLong float64
	peakLong  float64
}

// Planner turns a training summary into a dated plan.
type Planner struct {
	minHistory   int
	peakLongRun  float64
	raceDistance float64
}

// New creates a planner with configuration options.
func New(opts ...Option) *Planner {
	p := &Planner{
		minHistory:   defaultMinHistory,
		peakLongRun:  defaultPeakLong,
		raceDistance: HalfMarathonKM,
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Generate builds a plan of the given length ending on raceDate. Empty
// summaries and summaries with fewer than the minimum history fall back to
// the beginner template.
func (p *Planner) Generate(summary model.TrainingSummary, raceDate time.Time, weeks int) (model.Plan, error) {
	if raceDate.IsZero() {
		return model.Plan{}, ErrMissingRaceDate
	}
	if weeks < MinWeeks || weeks > MaxWeeks {
		return model.Plan{}, fmt.Errorf("%w: %d weeks, want %d to %d", ErrInvalidWeeks, weeks, MinWeeks, MaxWeeks)
	}

	template := model.TemplateComputed
	skeleton := computedWeek
	prm := p.computed(summary)
	if summary.Empty() || summary.TotalActivities < p.minHistory {
		template = model.TemplateBeginner
		skeleton = beginnerWeek
		prm = beginner
	}

	race := dateOnly(raceDate)
	start := race.AddDate(0, 0, -weeks*daysPerWeek+1)
	longRuns := LongRunProgression(prm.startLong, prm.peakLong, weeks)

	focus := make([]types.TrainingFocus, weeks)
	for w := range focus {
		focus[w] = WeeklyFocus(w+1, weeks)
	}

	entries := make([]model.PlanEntry, 0, weeks*daysPerWeek)
	for i := 0; i < weeks*daysPerWeek; i++ {
		week := i/daysPerWeek + 1
		slot := i % daysPerWeek

		workout := skeleton[slot]
		scale := 1.0
		switch week {
		case weeks:
			workout = raceWeek[slot]
			scale = raceWeekScale
		case weeks - 1:
			scale = preRaceScale
		}

		e := model.PlanEntry{Date: start.AddDate(0, 0, i), Week: week, Workout: workout}
		switch workout {
		case types.WorkoutEasy:
			e.TargetDistanceKM = scaled(prm.easyKM, scale)
		case types.WorkoutTempo:
			e.TargetDistanceKM = scaled(prm.tempoKM, scale)
		case types.WorkoutLong:
			e.TargetDistanceKM = longRuns[week-1]
		case types.WorkoutRace:
			e.TargetDistanceKM = p.raceDistance
		}
		e.TargetPace = prm.paces[workout]
		entries = append(entries, e)
	}

	return model.Plan{RaceDate: race, Weeks: weeks, Template: template, Focus: focus, Entries: entries}, nil
}

// computed derives plan parameters from the runner's history.
func (p *Planner) computed(s model.TrainingSummary) params {
	best, avg := s.BestPace.Seconds(), s.AveragePace.Seconds()
	spread := math.Max(0, avg-best)

	easy := roundHalf(clamp(s.AverageDistance, easyMinKM, easyMaxKM))
	return params{
		paces: map[types.WorkoutType]types.Pace{
			types.WorkoutEasy:  pace(avg + 0.25*spread + 20),
			types.WorkoutLong:  pace(avg + 0.5*spread + 30),
			types.WorkoutTempo: pace(best + 0.25*spread),
			types.WorkoutRace:  pace(best + 0.5*spread),
		},
		easyKM:    easy,
		tempoKM:   roundHalf(clamp(easy+1, tempoMinKM, tempoMaxKM)),
		startLong: roundHalf(clamp(s.LongestRun, minStartLongRun, p.peakLongRun)),
		peakLong:  p.peakLongRun,
	}
}

// TaperWeeks is the number of long runs reduced before race week.
func TaperWeeks(weeks int) int {
	if weeks >= 8 {
		return 2
	}
	return 1
}

// WeeklyFocus names the emphasis of a 1-based week. Taper weeks and race week
// are FocusTaper. The build weeks before them move from base through strength
// at 30 % and 70 % of the build, and the last build week is always peak.
func WeeklyFocus(week, weeks int) types.TrainingFocus {
	build := buildWeeks(weeks)
	if week > build {
		return types.FocusTaper
	}
	if week == build && build > 1 {
		return types.FocusPeak
	}

	switch frac := float64(week-1) / float64(build); {
	case frac < 0.3:
		return types.FocusBase
	case frac < 0.7:
		return types.FocusStrength
	default:
		return types.FocusPeak
	}
}

func buildWeeks(weeks int) int {
	return max(1, weeks-1-TaperWeeks(weeks))
}

// LongRunProgression returns the long-run distance of every week but the
// race week. Build weeks grow geometrically from start towards peak by at most
// 10 % per week; taper weeks then drop to a share of the longest build run.
func LongRunProgression(start, peak float64, weeks int) []float64 {
	taper := TaperWeeks(weeks)
	build := buildWeeks(weeks)
	if peak < start {
		peak = start
	}

	ratio := 1.0
	if build > 1 {
		ratio = math.Min(maxWeeklyGrowth, math.Pow(peak/start, 1/float64(build-1)))
	}

	out := make([]float64, 0, weeks-1)
	for k := 0; k < build; k++ {
		out = append(out, roundHalf(math.Min(peak, start*math.Pow(ratio, float64(k)))))
	}

	top := out[len(out)-1]
	shares := []float64{0.70}
	if taper == 2 {
		shares = []float64{0.75, 0.60}
	}
	for _, share := range shares {
		out = append(out, roundHalf(top*share))
	}
	return out
}

func pace(sec float64) types.Pace {
	return types.Pace(math.Round(sec)).Clamp(fastestPace, slowestPace)
}

func scaled(km, scale float64) float64 {
	return math.Max(minRunKM, roundHalf(km*scale))
}

func roundHalf(v float64) float64 {
	return math.Round(v*2) / 2
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

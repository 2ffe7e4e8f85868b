package export

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"math"
	"time"

	"github.com/okian/stride/internal/domain/model"
	"github.com/okian/stride/internal/domain/types"
)

const (
	tcxNamespace = "http://www.garmin.com/xmlschemas/TrainingCenterDatabase/v2"
	xsiNamespace = "http://www.w3.org/2001/XMLSchema-instance"

	// Garmin rejects workout names longer than this.
	maxWorkoutName = 15
	// Half-width of the speed zone around the target pace.
	paceToleranceSec = 10
)

type tcxWorkoutDB struct {
	XMLName  xml.Name     `xml:"TrainingCenterDatabase"`
	Xmlns    string       `xml:"xmlns,attr"`
	XmlnsXSI string       `xml:"xmlns:xsi,attr"`
	Workouts []tcxWorkout `xml:"Workouts>Workout"`
}

type tcxWorkout struct {
	Sport       string    `xml:"Sport,attr"`
	Name        string    `xml:"Name"`
	Steps       []tcxStep `xml:"Step"`
	ScheduledOn string    `xml:"ScheduledOn"`
	Notes       string    `xml:"Notes,omitempty"`
}

type tcxStep struct {
	Type      string      `xml:"xsi:type,attr"`
	StepID    int         `xml:"StepId"`
	Name      string      `xml:"Name"`
	Duration  tcxDuration `xml:"Duration"`
	Intensity string      `xml:"Intensity"`
	Target    tcxTarget   `xml:"Target"`
}

type tcxDuration struct {
	Type    string `xml:"xsi:type,attr"`
	Seconds int    `xml:"Seconds,omitempty"`
	Meters  int    `xml:"Meters,omitempty"`
}

type tcxTarget struct {
	Type      string        `xml:"xsi:type,attr"`
	SpeedZone *tcxSpeedZone `xml:"SpeedZone,omitempty"`
}

type tcxSpeedZone struct {
	Type string  `xml:"xsi:type,attr"`
	Low  float64 `xml:"LowInMetersPerSecond"`
	High float64 `xml:"HighInMetersPerSecond"`
}

// WarmupCooldown returns the warm-up and cool-down lengths of a workout.
func WarmupCooldown(w types.WorkoutType) (time.Duration, time.Duration) {
	if w == types.WorkoutLong || w == types.WorkoutRace {
		return 15 * time.Minute, 10 * time.Minute
	}
	return 10 * time.Minute, 5 * time.Minute
}

// WriteTCX writes one scheduled Garmin workout per training day. Rest days
// are skipped. planID tags every workout so a re-export can be told apart.
func WriteTCX(ctx context.Context, w io.Writer, plan model.Plan, planID string) error {
	db := tcxWorkoutDB{Xmlns: tcxNamespace, XmlnsXSI: xsiNamespace}
	for _, e := range plan.Entries {
		if err := ctx.Err(); err != nil {
			return err
		}
		if e.IsRest() {
			continue
		}
		db.Workouts = append(db.Workouts, tcxWorkoutFor(e, planID))
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return fmt.Errorf("write tcx header: %w", err)
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(db); err != nil {
		return fmt.Errorf("encode tcx: %w", err)
	}
	return enc.Close()
}

func tcxWorkoutFor(e model.PlanEntry, planID string) tcxWorkout {
	warm, cool := WarmupCooldown(e.Workout)
	name := fmt.Sprintf("W%02d %s", e.Week, e.Workout.Title())
	if len(name) > maxWorkoutName {
		name = name[:maxWorkoutName]
	}

	return tcxWorkout{
		Sport: "Running",
		Name:  name,
		Steps: []tcxStep{
			timeStep(1, "Warmup", warm),
			{
				Type:      "Step_t",
				StepID:    2,
				Name:      e.Workout.Title(),
				Duration:  tcxDuration{Type: "Distance_t", Meters: int(math.Round(e.TargetDistanceKM * 1000))},
				Intensity: "Active",
				Target: tcxTarget{Type: "Speed_t", SpeedZone: &tcxSpeedZone{
					Type: "CustomSpeedZone_t",
					Low:  speed(e.TargetPace + paceToleranceSec),
					High: speed(e.TargetPace - paceToleranceSec),
				}},
			},
			timeStep(3, "Cooldown", cool),
		},
		ScheduledOn: e.Date.Format(time.DateOnly),
		Notes: fmt.Sprintf("%s %.1f km @ %s/km (plan %s)",
			e.Workout.Title(), e.TargetDistanceKM, e.TargetPace, planID),
	}
}

func timeStep(id int, name string, d time.Duration) tcxStep {
	return tcxStep{
		Type:      "Step_t",
		StepID:    id,
		Name:      name,
		Duration:  tcxDuration{Type: "Time_t", Seconds: int(d.Seconds())},
		Intensity: "Active",
		Target:    tcxTarget{Type: "None_t"},
	}
}

// speed converts a pace to m/s rounded to mm/s.
func speed(p types.Pace) float64 {
	return math.Round(p.MetersPerSecond()*1000) / 1000
}

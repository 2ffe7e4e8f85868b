package planner_test

import (
	"errors"
	"testing"
	"time"

	"github.com/okian/stride/internal/domain/model"
	"github.com/okian/stride/internal/domain/planner"
	"github.com/okian/stride/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

var raceDay = time.Date(2025, 10, 19, 0, 0, 0, 0, time.UTC) // a Sunday

func experienced() model.TrainingSummary {
	return model.TrainingSummary{
		AverageWeeklyDistance: 28,
		BestPace:              300,
		AveragePace:           340,
		LongestRun:            12,
		AverageDistance:       7.2,
		ConsistencyScore:      0.9,
		TotalActivities:       40,
		FitnessLevel:          types.LevelIntermediate,
	}
}

// assertCalendar checks the ordering properties every plan must hold.
func assertCalendar(plan model.Plan, weeks int) {
	So(plan.Entries, ShouldHaveLength, weeks*7)
	for i := 1; i < len(plan.Entries); i++ {
		So(plan.Entries[i].Date.Sub(plan.Entries[i-1].Date), ShouldEqual, 24*time.Hour)
	}
	last := plan.Entries[len(plan.Entries)-1]
	So(last.Workout, ShouldEqual, types.WorkoutRace)
	So(last.Date, ShouldEqual, raceDay)
	So(plan.Start(), ShouldEqual, raceDay.AddDate(0, 0, -weeks*7+1))
}

func assertLongRuns(plan model.Plan) {
	longs := plan.LongRuns()
	So(longs, ShouldHaveLength, plan.Weeks-1)
	taper := planner.TaperWeeks(plan.Weeks)
	build := len(longs) - taper
	for i := 1; i < build; i++ {
		So(longs[i].TargetDistanceKM, ShouldBeGreaterThanOrEqualTo, longs[i-1].TargetDistanceKM)
		So(longs[i].TargetDistanceKM, ShouldBeLessThanOrEqualTo, longs[i-1].TargetDistanceKM*1.1+0.55)
	}
	for i := build; i < len(longs); i++ {
		So(longs[i].TargetDistanceKM, ShouldBeLessThan, longs[i-1].TargetDistanceKM)
	}
}

func TestGenerateComputed(t *testing.T) {
	Convey("Given a runner with enough history", t, func() {
		p := planner.New()
		plan, err := p.Generate(experienced(), raceDay, 12)
		So(err, ShouldBeNil)

		Convey("Then the computed template is used", func() {
			So(plan.Template, ShouldEqual, model.TemplateComputed)
			So(plan.Weeks, ShouldEqual, 12)
		})

		Convey("Then every day up to race day is scheduled", func() {
			assertCalendar(plan, 12)
		})

		Convey("Then long runs build and then taper", func() {
			assertLongRuns(plan)
			longs := plan.LongRuns()
			So(longs[0].TargetDistanceKM, ShouldEqual, 12.0)
			So(longs[8].TargetDistanceKM, ShouldEqual, 19.0)
			So(longs[9].TargetDistanceKM, ShouldEqual, 14.5)
			So(longs[10].TargetDistanceKM, ShouldEqual, 11.5)
		})

		Convey("Then paces follow best and average pace", func() {
			week := plan.Week(1)
			So(week[0].Workout, ShouldEqual, types.WorkoutRest)
			So(week[0].TargetPace, ShouldEqual, types.Pace(0))
			So(week[0].TargetDistanceKM, ShouldEqual, 0.0)
			So(week[1].Workout, ShouldEqual, types.WorkoutEasy)
			So(week[1].TargetPace, ShouldEqual, types.Pace(370))
			So(week[1].TargetDistanceKM, ShouldEqual, 7.0)
			So(week[2].Workout, ShouldEqual, types.WorkoutTempo)
			So(week[2].TargetPace, ShouldEqual, types.Pace(310))
			So(week[2].TargetDistanceKM, ShouldEqual, 8.0)
			So(week[6].Workout, ShouldEqual, types.WorkoutLong)
			So(week[6].TargetPace, ShouldEqual, types.Pace(390))

			race := plan.Entries[len(plan.Entries)-1]
			So(race.TargetPace, ShouldEqual, types.Pace(320))
			So(race.TargetDistanceKM, ShouldEqual, planner.HalfMarathonKM)
		})

		Convey("Then the last two weeks are shortened", func() {
			pre := plan.Week(11)
			So(pre[1].TargetDistanceKM, ShouldEqual, 5.5)
			raceWeek := plan.Week(12)
			So(raceWeek[1].TargetDistanceKM, ShouldEqual, 4.0)
			So(raceWeek[5].Workout, ShouldEqual, types.WorkoutRest)
		})
	})

	Convey("Given a short block", t, func() {
		plan, err := planner.New().Generate(experienced(), raceDay, 4)
		So(err, ShouldBeNil)

		Convey("Then a single taper week is used", func() {
			assertCalendar(plan, 4)
			assertLongRuns(plan)
			longs := plan.LongRuns()
			So(longs, ShouldHaveLength, 3)
			So(longs[2].TargetDistanceKM, ShouldEqual, 9.0)
		})
	})

	Convey("Given a race date with a time of day", t, func() {
		plan, err := planner.New().Generate(experienced(), raceDay.Add(9*time.Hour), 8)
		So(err, ShouldBeNil)

		Convey("Then entries are whole days", func() {
			assertCalendar(plan, 8)
			assertLongRuns(plan)
		})
	})

	Convey("Given extreme paces", t, func() {
		s := experienced()
		s.BestPace = 150
		s.AveragePace = 880
		plan, err := planner.New().Generate(s, raceDay, 6)
		So(err, ShouldBeNil)

		Convey("Then target paces are clamped", func() {
			for _, e := range plan.Entries {
				if e.IsRest() {
					continue
				}
				So(e.TargetPace, ShouldBeBetweenOrEqual, types.Pace(180), types.Pace(720))
			}
		})
	})
}

func TestGenerateBeginner(t *testing.T) {
	Convey("Given an empty history", t, func() {
		p := planner.New()
		plan, err := p.Generate(model.TrainingSummary{}, raceDay, 10)
		So(err, ShouldBeNil)

		Convey("Then the beginner template is used", func() {
			So(plan.Template, ShouldEqual, model.TemplateBeginner)
			assertCalendar(plan, 10)
			assertLongRuns(plan)

			week := plan.Week(1)
			So(week[2].Workout, ShouldEqual, types.WorkoutRest)
			So(week[3].Workout, ShouldEqual, types.WorkoutTempo)
			So(week[3].TargetPace, ShouldEqual, types.Pace(375))
			So(week[1].TargetPace, ShouldEqual, types.Pace(420))
			So(week[1].TargetDistanceKM, ShouldEqual, 5.0)
			So(week[6].TargetDistanceKM, ShouldEqual, 6.0)
			So(week[6].TargetPace, ShouldEqual, types.Pace(450))
			So(plan.Entries[len(plan.Entries)-1].TargetPace, ShouldEqual, types.Pace(400))
		})

		Convey("Then repeated runs produce identical plans", func() {
			again, err := p.Generate(model.TrainingSummary{}, raceDay, 10)
			So(err, ShouldBeNil)
			So(again, ShouldResemble, plan)
		})
	})

	Convey("Given a history shorter than the minimum", t, func() {
		s := experienced()
		s.TotalActivities = 3
		plan, err := planner.New(planner.WithMinHistory(4)).Generate(s, raceDay, 6)
		So(err, ShouldBeNil)

		Convey("Then the beginner template is used", func() {
			So(plan.Template, ShouldEqual, model.TemplateBeginner)
		})
	})

	Convey("Given no minimum history and an empty summary", t, func() {
		plan, err := planner.New(planner.WithMinHistory(0)).Generate(model.TrainingSummary{}, raceDay, 10)
		So(err, ShouldBeNil)

		Convey("Then the beginner template is still used", func() {
			So(plan.Template, ShouldEqual, model.TemplateBeginner)
			week := plan.Week(1)
			So(week[1].TargetPace, ShouldEqual, types.Pace(420))
			So(week[3].TargetPace, ShouldEqual, types.Pace(375))
			So(plan.Entries[len(plan.Entries)-1].TargetPace, ShouldEqual, types.Pace(400))
		})
	})
}

func TestWeeklyFocus(t *testing.T) {
	Convey("Given a twelve week plan", t, func() {
		want := []types.TrainingFocus{
			types.FocusBase, types.FocusBase, types.FocusBase,
			types.FocusStrength, types.FocusStrength, types.FocusStrength, types.FocusStrength,
			types.FocusPeak, types.FocusPeak,
			types.FocusTaper, types.FocusTaper, types.FocusTaper,
		}
		for w, f := range want {
			So(planner.WeeklyFocus(w+1, 12), ShouldEqual, f)
		}

		Convey("Then generated plans carry the same focus per week", func() {
			plan, err := planner.New().Generate(experienced(), raceDay, 12)
			So(err, ShouldBeNil)
			So(plan.Focus, ShouldResemble, want)
			So(plan.FocusOf(1), ShouldEqual, types.FocusBase)
			So(plan.FocusOf(12), ShouldEqual, types.FocusTaper)
			So(plan.FocusOf(13), ShouldBeEmpty)
		})
	})

	Convey("Given the shortest plan", t, func() {
		Convey("Then it still reaches a peak week before the taper", func() {
			So(planner.WeeklyFocus(1, 4), ShouldEqual, types.FocusBase)
			So(planner.WeeklyFocus(2, 4), ShouldEqual, types.FocusPeak)
			So(planner.WeeklyFocus(3, 4), ShouldEqual, types.FocusTaper)
			So(planner.WeeklyFocus(4, 4), ShouldEqual, types.FocusTaper)
		})
	})
}

func TestGenerateOptions(t *testing.T) {
	Convey("Given custom peak and race distance", t, func() {
		p := planner.New(planner.WithPeakLongRun(16), planner.WithRaceDistance(21.1))
		plan, err := p.Generate(experienced(), raceDay, 16)
		So(err, ShouldBeNil)

		Convey("Then no long run exceeds the peak", func() {
			for _, e := range plan.LongRuns() {
				So(e.TargetDistanceKM, ShouldBeLessThanOrEqualTo, 16.0)
			}
			So(plan.Entries[len(plan.Entries)-1].TargetDistanceKM, ShouldEqual, 21.1)
		})
	})
}

func TestGenerateValidation(t *testing.T) {
	Convey("Given invalid inputs", t, func() {
		p := planner.New()

		Convey("When the plan is too short or too long", func() {
			_, errShort := p.Generate(experienced(), raceDay, 3)
			_, errLong := p.Generate(experienced(), raceDay, 25)

			Convey("Then ErrInvalidWeeks is returned", func() {
				So(errors.Is(errShort, planner.ErrInvalidWeeks), ShouldBeTrue)
				So(errors.Is(errLong, planner.ErrInvalidWeeks), ShouldBeTrue)
			})
		})

		Convey("When the race date is missing", func() {
			_, err := p.Generate(experienced(), time.Time{}, 12)

			Convey("Then ErrMissingRaceDate is returned", func() {
				So(err, ShouldEqual, planner.ErrMissingRaceDate)
			})
		})
	})
}

func TestLongRunProgression(t *testing.T) {
	Convey("Given a start far below the peak", t, func() {
		longs := planner.LongRunProgression(8, 19, 6)

		Convey("Then growth is capped at ten percent a week", func() {
			So(longs, ShouldResemble, []float64{8, 9, 9.5, 10.5, 7.5})
		})
	})

	Convey("Given a start at the peak", t, func() {
		longs := planner.LongRunProgression(19, 19, 8)

		Convey("Then build weeks hold the peak", func() {
			So(longs, ShouldResemble, []float64{19, 19, 19, 19, 19, 14.5, 11.5})
		})
	})
}

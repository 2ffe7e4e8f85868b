package model_test

import (
	"testing"
	"time"

	"github.com/okian/stride/internal/domain/model"
	"github.com/okian/stride/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func TestActivityRecord(t *testing.T) {
	Convey("Given an activity without a pace", t, func() {
		a := model.ActivityRecord{
			Type:       types.ActivityRunning,
			DistanceKM: 10,
			Duration:   50 * time.Minute,
		}

		Convey("When the pace is derived", func() {
			got := a.DerivePace()

			Convey("Then it is duration over distance", func() {
				So(got.AveragePace.Seconds(), ShouldAlmostEqual, 300, 0.001)
				So(a.AveragePace, ShouldEqual, types.Pace(0))
				So(got.IsRun(), ShouldBeTrue)
			})
		})
	})

	Convey("Given an activity without a duration", t, func() {
		a := model.ActivityRecord{DistanceKM: 5, AveragePace: 360}

		Convey("When the duration is derived", func() {
			got := a.DeriveDuration()

			Convey("Then it is distance times pace", func() {
				So(got.Duration, ShouldEqual, 30*time.Minute)
			})
		})
	})
}

func TestPlan(t *testing.T) {
	Convey("Given a two-week plan", t, func() {
		start := time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)
		var entries []model.PlanEntry
		for i := 0; i < 14; i++ {
			e := model.PlanEntry{Date: start.AddDate(0, 0, i), Week: i/7 + 1, Workout: types.WorkoutRest}
			if i%7 == 6 {
				e.Workout = types.WorkoutLong
				e.TargetDistanceKM = float64(10 + i/7)
				e.TargetPace = 400
			}
			entries = append(entries, e)
		}
		p := model.Plan{RaceDate: entries[13].Date, Weeks: 2, Entries: entries}

		Convey("Then the accessors slice it by week and workout", func() {
			So(p.Start(), ShouldEqual, start)
			So(p.Week(2), ShouldHaveLength, 7)
			So(p.LongRuns(), ShouldHaveLength, 2)
			So(p.TotalDistance(), ShouldEqual, 21.0)
			So(p.WeekDistance(1), ShouldEqual, 10.0)
			So(p.LongRuns()[0].EstimatedDuration(), ShouldEqual, 4000*time.Second)
			So(p.Entries[0].EstimatedDuration(), ShouldEqual, time.Duration(0))
		})
	})
}

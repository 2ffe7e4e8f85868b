package console_test

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/okian/stride/internal/adapters/console"
	"github.com/okian/stride/internal/adapters/export"
	"github.com/okian/stride/internal/domain/model"
	"github.com/okian/stride/internal/domain/planner"
	"github.com/okian/stride/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func TestRenderSummary(t *testing.T) {
	Convey("Given a summary with history", t, func() {
		s := model.TrainingSummary{
			AverageWeeklyDistance: 24.5,
			BestPace:              295,
			AveragePace:           335,
			LongestRun:            15,
			ConsistencyScore:      0.8,
			TotalActivities:       30,
			TotalDistance:         210,
			PaceTrend:             12,
			AverageHR:             146,
			FirstDate:             time.Date(2025, 1, 6, 7, 0, 0, 0, time.UTC),
			LastDate:              time.Date(2025, 3, 30, 7, 0, 0, 0, time.UTC),
			FitnessLevel:          types.LevelIntermediate,
			RecentRuns:            3,
			InjuryRisk:            types.RiskMedium,
		}
		out := console.RenderSummary(s)

		Convey("Then the key numbers are shown", func() {
			So(out, ShouldContainSubstring, "Training history")
			So(out, ShouldContainSubstring, "24.5 km")
			So(out, ShouldContainSubstring, "4:55/km")
			So(out, ShouldContainSubstring, "0:12/km faster")
			So(out, ShouldContainSubstring, "80%")
			So(out, ShouldContainSubstring, "146 bpm")
			So(out, ShouldContainSubstring, "Injury risk")
			So(out, ShouldContainSubstring, "medium (3 runs in 7 days)")
		})
	})

	Convey("Given an empty summary", t, func() {
		out := console.RenderSummary(model.TrainingSummary{})

		Convey("Then the beginner fallback is announced", func() {
			So(out, ShouldContainSubstring, "beginner template")
		})
	})
}

func TestRenderPlan(t *testing.T) {
	Convey("Given a generated plan", t, func() {
		plan, err := planner.New().Generate(model.TrainingSummary{}, time.Date(2025, 10, 19, 0, 0, 0, 0, time.UTC), 5)
		So(err, ShouldBeNil)
		out := console.RenderPlan(plan)

		Convey("Then every week is listed", func() {
			So(out, ShouldContainSubstring, "5-week plan to 2025-10-19 (beginner)")
			So(out, ShouldContainSubstring, "Week 1")
			So(out, ShouldContainSubstring, "Week 5")
			So(out, ShouldContainSubstring, "long 6.0 km @ 7:30")
			So(out, ShouldContainSubstring, "race week")
		})

		Convey("Then each week names its focus", func() {
			So(out, ShouldContainSubstring, "Base building")
			So(out, ShouldContainSubstring, "Peak training")
			So(out, ShouldContainSubstring, "Taper")
		})
	})
}

func TestRenderExports(t *testing.T) {
	Convey("Given export results", t, func() {
		var buf bytes.Buffer
		err := console.Print(&buf, console.RenderExports([]export.Result{
			{Format: "report", Path: "out/plan_report.txt"},
			{Format: "sisrun", Err: errors.New("schema mismatch")},
		}))

		Convey("Then successes and failures are listed", func() {
			So(err, ShouldBeNil)
			So(buf.String(), ShouldContainSubstring, "report out/plan_report.txt")
			So(buf.String(), ShouldContainSubstring, "sisrun schema mismatch")
		})
	})
}

func TestRenderVerify(t *testing.T) {
	Convey("Given a verified plan file", t, func() {
		start := time.Date(2025, 8, 25, 0, 0, 0, 0, time.UTC)
		out := console.RenderVerify("out/sisrun_plan.csv", 56, 7, start, start.AddDate(0, 0, 55), nil)

		Convey("Then the period and status are shown", func() {
			So(out, ShouldContainSubstring, "out/sisrun_plan.csv")
			So(out, ShouldContainSubstring, "56")
			So(out, ShouldContainSubstring, "2025-08-25 to 2025-10-19")
			So(out, ShouldContainSubstring, "continuous schedule")
		})
	})

	Convey("Given a plan file with gaps", t, func() {
		out := console.RenderVerify("plan.csv", 0, 0, time.Time{}, time.Time{}, errors.New("entry 3: gap"))

		Convey("Then the failure is shown without a period", func() {
			So(out, ShouldContainSubstring, "entry 3: gap")
			So(out, ShouldNotContainSubstring, "Period")
		})
	})
}

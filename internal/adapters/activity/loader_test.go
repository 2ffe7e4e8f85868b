package activity_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/okian/stride/internal/adapters/activity"
	"github.com/okian/stride/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

const processedCSV = `activityName,startTimeLocal,distancia_km,duracao_minutos,pace_min_km,averageHR
Morning Run,2025-03-03 07:00:00,10.0,55.0,5.5,148
Tempo,2025-03-05 18:30:00,8.0,40.0,5.0,
Long Run,2025-03-09 08:00:00,16.0,96.0,6.0,142
`

const connectCSV = `Activity Type,Date,Favorite,Title,Distance,Calories,Time,Avg HR,Max HR,Avg Pace
Running,2025-03-10 06:45:10,false,Easy,"6.21",410,00:37:15,139,151,6:00
Strength Training,2025-03-11 18:00:00,false,Gym,--,200,00:45:00,--,--,--
Trail Running,2025-03-12 07:10:00,false,Hills,12.50,800,01:20:00,--,160,--
`

const tcxFile = `<?xml version="1.0" encoding="UTF-8"?>
<TrainingCenterDatabase xmlns="http://www.garmin.com/xmlschemas/TrainingCenterDatabase/v2">
  <Activities>
    <Activity Sport="Running">
      <Id>2025-03-15T07:00:00Z</Id>
      <Lap StartTime="2025-03-15T07:00:00Z">
        <TotalTimeSeconds>1800</TotalTimeSeconds>
        <DistanceMeters>5000</DistanceMeters>
        <AverageHeartRateBpm><Value>140</Value></AverageHeartRateBpm>
      </Lap>
      <Lap StartTime="2025-03-15T07:30:00Z">
        <TotalTimeSeconds>600</TotalTimeSeconds>
        <DistanceMeters>2000</DistanceMeters>
        <AverageHeartRateBpm><Value>160</Value></AverageHeartRateBpm>
      </Lap>
    </Activity>
    <Activity Sport="Biking">
      <Id>2025-03-16T09:00:00Z</Id>
      <Lap StartTime="2025-03-16T09:00:00Z">
        <TotalTimeSeconds>3600</TotalTimeSeconds>
        <DistanceMeters>30000</DistanceMeters>
      </Lap>
    </Activity>
  </Activities>
</TrainingCenterDatabase>
`

func TestLoadCSV(t *testing.T) {
	ctx := context.Background()
	l := activity.NewLoader()

	Convey("Given a processed history CSV", t, func() {
		path := writeFile(t, "history.csv", processedCSV)

		Convey("When it is loaded", func() {
			recs, err := l.Load(ctx, path)

			Convey("Then every row becomes a record", func() {
				So(err, ShouldBeNil)
				So(recs, ShouldHaveLength, 3)
				So(recs[0].Name, ShouldEqual, "Morning Run")
				So(recs[0].Date, ShouldEqual, time.Date(2025, 3, 3, 7, 0, 0, 0, time.UTC))
				So(recs[0].DistanceKM, ShouldEqual, 10.0)
				So(recs[0].Duration, ShouldEqual, 55*time.Minute)
				So(recs[0].AveragePace, ShouldEqual, types.Pace(330))
				So(recs[0].AverageHR, ShouldEqual, 148.0)
				So(recs[0].Type, ShouldEqual, types.ActivityRunning)
			})

			Convey("Then a blank heart rate reads as zero", func() {
				So(recs[1].AverageHR, ShouldEqual, 0.0)
			})
		})
	})

	Convey("Given a Connect export CSV", t, func() {
		path := writeFile(t, "connect.csv", connectCSV)
		recs, err := l.Load(ctx, path)
		So(err, ShouldBeNil)
		So(recs, ShouldHaveLength, 3)

		Convey("Then clock durations and paces are parsed", func() {
			So(recs[0].Duration, ShouldEqual, 37*time.Minute+15*time.Second)
			So(recs[0].AveragePace, ShouldEqual, types.Pace(360))
			So(recs[0].AverageHR, ShouldEqual, 139.0)
		})

		Convey("Then non-run rows keep placeholders as zero", func() {
			So(recs[1].Type, ShouldEqual, types.ActivityOther)
			So(recs[1].DistanceKM, ShouldEqual, 0.0)
		})

		Convey("Then a missing pace is derived from duration", func() {
			So(recs[2].Type, ShouldEqual, types.ActivityTrailRunning)
			So(recs[2].AveragePace.Seconds(), ShouldAlmostEqual, 384, 0.001)
		})
	})

	Convey("Given an API export with meters and seconds", t, func() {
		path := writeFile(t, "api.csv", "activityId,startTimeLocal,distance,duration,activityType\n"+
			"1001,2025-03-01T07:00:00,5000,1500,running\n")
		recs, err := l.Load(ctx, path)

		Convey("Then units are converted", func() {
			So(err, ShouldBeNil)
			So(recs[0].ID, ShouldEqual, "1001")
			So(recs[0].DistanceKM, ShouldEqual, 5.0)
			So(recs[0].AveragePace, ShouldEqual, types.Pace(300))
		})
	})

	Convey("Given a CSV without a distance column", t, func() {
		path := writeFile(t, "bad.csv", "startTimeLocal,duracao_minutos\n2025-03-01,30\n")
		_, err := l.Load(ctx, path)

		Convey("Then ErrMissingColumn is returned", func() {
			So(errors.Is(err, activity.ErrMissingColumn), ShouldBeTrue)
		})
	})

	Convey("Given a CSV without duration or pace", t, func() {
		path := writeFile(t, "bad.csv", "startTimeLocal,distancia_km\n2025-03-01,5\n")
		_, err := l.Load(ctx, path)

		Convey("Then ErrMissingColumn is returned", func() {
			So(errors.Is(err, activity.ErrMissingColumn), ShouldBeTrue)
		})
	})

	Convey("Given a run row with a broken distance", t, func() {
		path := writeFile(t, "bad.csv", "startTimeLocal,distancia_km,pace_min_km\n"+
			"2025-03-01,5,6\n"+
			"2025-03-02,abc,6\n")
		_, err := l.Load(ctx, path)

		Convey("Then the whole file fails with the line number", func() {
			So(errors.Is(err, activity.ErrMalformedRow), ShouldBeTrue)
			So(err.Error(), ShouldContainSubstring, "line 3")
		})
	})

	Convey("Given rows with non-finite numbers", t, func() {
		header := "Activity Type,Date,Distance,Time,Avg Pace\n"
		rows := map[string]string{
			"distance": "Running,2025-03-10 06:45:10,Inf,00:37:15,6:00\n",
			"negative": "Running,2025-03-10 06:45:10,-Infinity,00:37:15,6:00\n",
			"seconds":  "Running,2025-03-10 06:45:10,6.2,+Inf,6:00\n",
			"clock":    "Running,2025-03-10 06:45:10,6.2,NaN:15,6:00\n",
		}

		Convey("Then each is rejected as a malformed row", func() {
			for name, row := range rows {
				_, err := l.Load(ctx, writeFile(t, name+".csv", header+row))
				So(errors.Is(err, activity.ErrMalformedRow), ShouldBeTrue)
			}
		})
	})

	Convey("Given a row with an unknown date format", t, func() {
		path := writeFile(t, "bad.csv", "Date,Distance,Time\nyesterday,5,30:00\n")
		_, err := l.Load(ctx, path)

		Convey("Then ErrMalformedRow is returned", func() {
			So(errors.Is(err, activity.ErrMalformedRow), ShouldBeTrue)
		})
	})

	Convey("Given a cancelled context", t, func() {
		path := writeFile(t, "history.csv", processedCSV)
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		_, err := l.Load(cctx, path)

		Convey("Then loading stops", func() {
			So(errors.Is(err, context.Canceled), ShouldBeTrue)
		})
	})
}

func TestLoadTCX(t *testing.T) {
	ctx := context.Background()
	l := activity.NewLoader()

	Convey("Given a TCX file with two activities", t, func() {
		path := writeFile(t, "week.tcx", tcxFile)
		recs, err := l.Load(ctx, path)
		So(err, ShouldBeNil)
		So(recs, ShouldHaveLength, 2)

		Convey("Then laps are summed into one record", func() {
			So(recs[0].DistanceKM, ShouldEqual, 7.0)
			So(recs[0].Duration, ShouldEqual, 40*time.Minute)
			So(recs[0].AveragePace.Seconds(), ShouldAlmostEqual, 342.857, 0.001)
			So(recs[0].Date, ShouldEqual, time.Date(2025, 3, 15, 7, 0, 0, 0, time.UTC))
		})

		Convey("Then heart rate is weighted by lap time", func() {
			So(recs[0].AverageHR, ShouldEqual, 145.0)
		})

		Convey("Then the sport is mapped", func() {
			So(recs[0].Type, ShouldEqual, types.ActivityRunning)
			So(recs[1].Type, ShouldEqual, types.ActivityCycling)
			So(recs[1].AverageHR, ShouldEqual, 0.0)
		})
	})

	Convey("Given a TCX file without activities", t, func() {
		path := writeFile(t, "empty.tcx", `<TrainingCenterDatabase><Activities></Activities></TrainingCenterDatabase>`)
		_, err := l.Load(ctx, path)

		Convey("Then ErrNoActivities is returned", func() {
			So(errors.Is(err, activity.ErrNoActivities), ShouldBeTrue)
		})
	})

	Convey("Given a truncated TCX file", t, func() {
		path := writeFile(t, "broken.tcx", `<TrainingCenterDatabase><Activities><Activity`)
		_, err := l.Load(ctx, path)

		Convey("Then ErrMalformedRow is returned", func() {
			So(errors.Is(err, activity.ErrMalformedRow), ShouldBeTrue)
		})
	})
}

func TestLoadDispatch(t *testing.T) {
	Convey("Given unsupported or missing files", t, func() {
		l := activity.NewLoader()

		Convey("When the extension is unknown", func() {
			_, err := l.Load(context.Background(), writeFile(t, "run.fit", "x"))

			Convey("Then ErrUnsupportedFormat is returned", func() {
				So(errors.Is(err, activity.ErrUnsupportedFormat), ShouldBeTrue)
			})
		})

		Convey("When the file does not exist", func() {
			_, err := l.Load(context.Background(), filepath.Join(t.TempDir(), "missing.csv"))

			Convey("Then the os error is wrapped", func() {
				So(errors.Is(err, os.ErrNotExist), ShouldBeTrue)
			})
		})

		Convey("When the extension is upper case", func() {
			format, err := activity.FormatOf("RUN.TCX")

			Convey("Then it is still recognized", func() {
				So(err, ShouldBeNil)
				So(format, ShouldEqual, activity.FormatTCX)
			})
		})
	})
}

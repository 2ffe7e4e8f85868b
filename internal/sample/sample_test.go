package sample_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/okian/stride/internal/adapters/activity"
	"github.com/okian/stride/internal/domain/types"
	"github.com/okian/stride/internal/sample"
	"github.com/okian/stride/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(logger.WithOutput(io.Discard)); err != nil {
		panic(err)
	}
}

func config() sample.Config {
	return sample.Config{
		End:         time.Date(2025, 3, 30, 0, 0, 0, 0, time.UTC), // a Sunday
		Weeks:       8,
		RunsPerWeek: 4,
		EasyPace:    types.PaceFromMinutes(6),
		Rides:       true,
		Seed:        42,
	}
}

func TestGenerate(t *testing.T) {
	ctx := context.Background()

	Convey("Given a generator config", t, func() {
		cfg := config()

		Convey("When a history is generated", func() {
			recs, err := sample.Generate(ctx, cfg)
			So(err, ShouldBeNil)

			Convey("Then every week has its runs and a ride", func() {
				So(recs, ShouldHaveLength, 8*5)
			})

			Convey("Then records are ordered and end on or before the end date", func() {
				for i := 1; i < len(recs); i++ {
					So(recs[i].Date.Before(recs[i-1].Date), ShouldBeFalse)
				}
				So(recs[len(recs)-1].Date.Before(cfg.End.AddDate(0, 0, 1)), ShouldBeTrue)
			})

			Convey("Then ids are unique", func() {
				seen := make(map[string]bool)
				for _, r := range recs {
					So(seen[r.ID], ShouldBeFalse)
					seen[r.ID] = true
				}
			})

			Convey("Then long runs grow week by week", func() {
				var longs []float64
				for _, r := range recs {
					if r.Name == "Long Run" {
						longs = append(longs, r.DistanceKM)
					}
				}
				So(longs, ShouldHaveLength, 8)
				for i := 1; i < len(longs); i++ {
					So(longs[i], ShouldBeGreaterThan, longs[i-1])
				}
			})
		})

		Convey("When generated twice with the same seed", func() {
			a, _ := sample.Generate(ctx, cfg)
			b, _ := sample.Generate(ctx, cfg)

			Convey("Then the histories match", func() {
				So(b, ShouldResemble, a)
			})
		})

		Convey("When the end date falls mid-week", func() {
			cfg.End = time.Date(2025, 3, 26, 0, 0, 0, 0, time.UTC) // a Wednesday
			cfg.Weeks = 1
			recs, err := sample.Generate(ctx, cfg)

			Convey("Then later days of that week are skipped", func() {
				So(err, ShouldBeNil)
				for _, r := range recs {
					So(r.Date.Before(cfg.End.AddDate(0, 0, 1)), ShouldBeTrue)
				}
				So(len(recs), ShouldBeLessThan, 5)
			})
		})

		Convey("When the config is invalid", func() {
			cfg.RunsPerWeek = 7
			_, err := sample.Generate(ctx, cfg)

			Convey("Then ErrInvalidConfig is returned", func() {
				So(errors.Is(err, sample.ErrInvalidConfig), ShouldBeTrue)
			})
		})
	})
}

func TestWriteCSV(t *testing.T) {
	Convey("Given a generated history written as CSV", t, func() {
		ctx := context.Background()
		recs, err := sample.Generate(ctx, config())
		So(err, ShouldBeNil)

		var buf bytes.Buffer
		So(sample.WriteCSV(&buf, recs), ShouldBeNil)
		path := filepath.Join(t.TempDir(), "history.csv")
		So(os.WriteFile(path, buf.Bytes(), 0o600), ShouldBeNil)

		Convey("When the activity loader reads it back", func() {
			loaded, err := activity.NewLoader().Load(ctx, path)

			Convey("Then every record survives with its type and date", func() {
				So(err, ShouldBeNil)
				So(loaded, ShouldHaveLength, len(recs))
				for i := range recs {
					So(loaded[i].ID, ShouldEqual, recs[i].ID)
					So(loaded[i].Type, ShouldEqual, recs[i].Type)
					So(loaded[i].Date, ShouldEqual, recs[i].Date)
					So(loaded[i].DistanceKM, ShouldAlmostEqual, recs[i].DistanceKM, 0.01)
				}
			})
		})
	})
}

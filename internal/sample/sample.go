// Package sample generates synthetic activity histories in the CSV layout the
// activity loader reads. It exists for demos and end-to-end tests.
package sample

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"math/rand/v2"
	"slices"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/okian/stride/internal/domain/model"
	"github.com/okian/stride/internal/domain/types"
	"github.com/okian/stride/pkg/logger"
)

// Generation ranges.
const (
	maxRunsPerWeek   = 6
	easyMinKM        = 5.0
	easyRangeKM      = 3.0
	longStartKM      = 8.0
	longStepKM       = 0.5
	longMaxKM        = 18.0
	tempoFasterSec   = 35.0
	longSlowerSec    = 20.0
	paceJitterSec    = 15.0
	hrBase           = 135.0
	hrRange          = 25.0
	rideKM           = 30.0
	rideMinutes      = 75.0
	morningStartHour = 7
)

// Header is the CSV header written by WriteCSV.
var Header = []string{
	"activityId", "activityName", "activityType", "startTimeLocal",
	"distancia_km", "duracao_minutos", "pace_min_km", "averageHR",
}

// Week slots as offsets from Monday, filled in this order. Saturday carries
// the long run, Wednesday the tempo run.
var slotOrder = []int{5, 1, 3, 0, 2, 4}

// Config holds generator settings.
type Config struct {
	End         time.Time  // last day of the history
	Weeks       int        // number of weeks ending on End
	RunsPerWeek int        // 1..6
	EasyPace    types.Pace // typical easy pace
	Rides       bool       // add a Sunday ride each week
	Seed        uint64     // same seed, same history
}

// DefaultConfig returns a 12-week, four runs per week history ending today.
func DefaultConfig() Config {
	return Config{
		End:         time.Now().UTC().Truncate(24 * time.Hour),
		Weeks:       12,
		RunsPerWeek: 4,
		EasyPace:    types.PaceFromMinutes(6),
		Seed:        1,
	}
}

func (c Config) validate() error {
	switch {
	case c.End.IsZero():
		return fmt.Errorf("%w: end date is required", ErrInvalidConfig)
	case c.Weeks < 1:
		return fmt.Errorf("%w: weeks must be positive", ErrInvalidConfig)
	case c.RunsPerWeek < 1 || c.RunsPerWeek > maxRunsPerWeek:
		return fmt.Errorf("%w: runs per week %d not in [1, %d]", ErrInvalidConfig, c.RunsPerWeek, maxRunsPerWeek)
	case c.EasyPace <= 0:
		return fmt.Errorf("%w: easy pace must be positive", ErrInvalidConfig)
	}
	return nil
}

// Generate builds a history ordered by date. Records never fall after End.
func Generate(ctx context.Context, cfg Config) ([]model.ActivityRecord, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	src := rand.NewChaCha8(seedBytes(cfg.Seed))
	rng := rand.New(src)

	end := time.Date(cfg.End.Year(), cfg.End.Month(), cfg.End.Day(), 0, 0, 0, 0, time.UTC)
	offset := (int(end.Weekday()) + 6) % 7
	monday := end.AddDate(0, 0, -offset-7*(cfg.Weeks-1))

	slots := append([]int(nil), slotOrder[:cfg.RunsPerWeek]...)
	slices.Sort(slots)

	records := make([]model.ActivityRecord, 0, cfg.Weeks*(cfg.RunsPerWeek+1))
	for w := 0; w < cfg.Weeks; w++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		weekStart := monday.AddDate(0, 0, 7*w)

		for _, slot := range slots {
			day := weekStart.AddDate(0, 0, slot)
			if day.After(end) {
				continue
			}
			rec, err := run(rng, src, cfg, day, slot, w)
			if err != nil {
				return nil, err
			}
			records = append(records, rec)
		}

		if sunday := weekStart.AddDate(0, 0, 6); cfg.Rides && !sunday.After(end) {
			id, err := uuid.NewRandomFromReader(src)
			if err != nil {
				return nil, fmt.Errorf("activity id: %w", err)
			}
			records = append(records, model.ActivityRecord{
				ID:          id.String(),
				Name:        "Sunday Ride",
				Date:        sunday.Add(9 * time.Hour),
				Type:        types.ActivityCycling,
				DistanceKM:  rideKM,
				Duration:    time.Duration(rideMinutes * float64(time.Minute)),
				AveragePace: types.PaceFromMinutes(rideMinutes / rideKM),
				AverageHR:   math.Round(hrBase - 10 + rng.Float64()*hrRange),
			})
		}
	}

	logger.Get().Info(ctx, "generated sample history",
		logger.Int("weeks", cfg.Weeks),
		logger.Int("records", len(records)),
	)
	return records, nil
}

func run(rng *rand.Rand, src io.Reader, cfg Config, day time.Time, slot, week int) (model.ActivityRecord, error) {
	id, err := uuid.NewRandomFromReader(src)
	if err != nil {
		return model.ActivityRecord{}, fmt.Errorf("activity id: %w", err)
	}

	jitter := (rng.Float64()*2 - 1) * paceJitterSec
	name, km, pace := "Easy Run", easyMinKM+rng.Float64()*easyRangeKM, cfg.EasyPace.Seconds()
	switch slot {
	case 5:
		name = "Long Run"
		km = math.Min(longMaxKM, longStartKM+float64(week)*longStepKM)
		pace += longSlowerSec
	case 3:
		name = "Tempo Run"
		pace -= tempoFasterSec
	}
	km = math.Round(km*100) / 100
	pace = math.Round(pace + jitter)

	return model.ActivityRecord{
		ID:          id.String(),
		Name:        name,
		Date:        day.Add(time.Duration(morningStartHour)*time.Hour + time.Duration(rng.IntN(60))*time.Minute),
		Type:        types.ActivityRunning,
		DistanceKM:  km,
		Duration:    time.Duration(km * pace * float64(time.Second)).Round(time.Second),
		AveragePace: types.Pace(pace),
		AverageHR:   math.Round(hrBase + rng.Float64()*hrRange),
	}, nil
}

// WriteCSV writes records with Header as the first row.
func WriteCSV(w io.Writer, records []model.ActivityRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return err
	}
	for _, r := range records {
		row := []string{
			r.ID,
			r.Name,
			string(r.Type),
			r.Date.Format(time.DateTime),
			strconv.FormatFloat(r.DistanceKM, 'f', 2, 64),
			strconv.FormatFloat(r.Duration.Minutes(), 'f', 2, 64),
			strconv.FormatFloat(r.AveragePace.Minutes(), 'f', 3, 64),
			strconv.FormatFloat(r.AverageHR, 'f', 0, 64),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func seedBytes(seed uint64) [32]byte {
	var b [32]byte
	for i := 0; i < 8; i++ {
		b[i] = byte(seed >> (8 * i))
	}
	return b
}

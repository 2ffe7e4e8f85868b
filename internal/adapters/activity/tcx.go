package activity

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/okian/stride/internal/domain/model"
	"github.com/okian/stride/internal/domain/types"
)

type tcxDatabase struct {
	XMLName    xml.Name      `xml:"TrainingCenterDatabase"`
	Activities []tcxActivity `xml:"Activities>Activity"`
}

type tcxActivity struct {
	Sport string   `xml:"Sport,attr"`
	ID    string   `xml:"Id"`
	Notes string   `xml:"Notes"`
	Laps  []tcxLap `xml:"Lap"`
}

type tcxLap struct {
	StartTime        string  `xml:"StartTime,attr"`
	TotalTimeSeconds float64 `xml:"TotalTimeSeconds"`
	DistanceMeters   float64 `xml:"DistanceMeters"`
	AverageHeartRate struct {
		Value float64 `xml:"Value"`
	} `xml:"AverageHeartRateBpm"`
}

func (l *Loader) readTCX(ctx context.Context, r io.Reader) ([]model.ActivityRecord, error) {
	var db tcxDatabase
	if err := xml.NewDecoder(r).Decode(&db); err != nil {
		return nil, fmt.Errorf("%w: decode tcx: %w", ErrMalformedRow, err)
	}
	if len(db.Activities) == 0 {
		return nil, ErrNoActivities
	}

	out := make([]model.ActivityRecord, 0, len(db.Activities))
	for i, act := range db.Activities {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rec, err := l.fromTCX(act)
		if err != nil {
			return nil, fmt.Errorf("%w: activity %d: %w", ErrMalformedRow, i+1, err)
		}
		out = append(out, rec)
	}
	return out, nil
}

func (l *Loader) fromTCX(act tcxActivity) (model.ActivityRecord, error) {
	stamp := strings.TrimSpace(act.ID)
	if stamp == "" && len(act.Laps) > 0 {
		stamp = act.Laps[0].StartTime
	}
	start, err := time.Parse(time.RFC3339, stamp)
	if err != nil {
		return model.ActivityRecord{}, fmt.Errorf("start time %q: %w", stamp, err)
	}

	var meters, seconds, hrWeighted, hrSeconds float64
	for _, lap := range act.Laps {
		meters += lap.DistanceMeters
		seconds += lap.TotalTimeSeconds
		if lap.AverageHeartRate.Value > 0 {
			hrWeighted += lap.AverageHeartRate.Value * lap.TotalTimeSeconds
			hrSeconds += lap.TotalTimeSeconds
		}
	}

	rec := model.ActivityRecord{
		ID:         strings.TrimSpace(act.ID),
		Name:       strings.TrimSpace(act.Notes),
		Date:       start.In(l.loc),
		Type:       types.ParseActivityType(act.Sport),
		DistanceKM: meters / 1000,
		Duration:   time.Duration(seconds * float64(time.Second)),
	}
	if hrSeconds > 0 {
		rec.AverageHR = hrWeighted / hrSeconds
	}
	return rec.DerivePace(), nil
}

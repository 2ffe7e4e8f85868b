// Package model contains domain models passed between layers.
package model

import (
	"time"

	"github.com/okian/stride/internal/domain/types"
)

// ActivityRecord is one completed session read from an export file.
// Records are values and are not modified after loading.
type ActivityRecord struct {
	ID          string             // platform activity id, empty when the export has none
	Name        string             // activity title
	Date        time.Time          // local start time
	Type        types.ActivityType // normalized activity type
	DistanceKM  float64            // total distance in kilometres
	Duration    time.Duration      // moving or elapsed time
	AveragePace types.Pace         // seconds per km
	AverageHR   float64            // beats per minute, 0 when unknown
}

// IsRun reports whether the record belongs to the running family.
func (a ActivityRecord) IsRun() bool { return a.Type.IsRun() }

// DerivePace fills AveragePace from distance and duration when the export
// omitted it.
func (a ActivityRecord) DerivePace() ActivityRecord {
	if a.AveragePace > 0 || a.DistanceKM <= 0 || a.Duration <= 0 {
		return a
	}
	a.AveragePace = types.Pace(a.Duration.Seconds() / a.DistanceKM)
	return a
}

// DeriveDuration fills Duration from distance and pace when missing.
func (a ActivityRecord) DeriveDuration() ActivityRecord {
	if a.Duration > 0 || a.DistanceKM <= 0 || a.AveragePace <= 0 {
		return a
	}
	a.Duration = time.Duration(a.AveragePace.Seconds() * a.DistanceKM * float64(time.Second))
	return a
}

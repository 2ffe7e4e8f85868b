package activity

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/okian/stride/internal/domain/model"
	"github.com/okian/stride/internal/domain/types"
)

// Header aliases, in priority order. The first alias present wins.
var (
	dateColumns     = []string{"startTimeLocal", "Date", "date", "Start Time"}
	distanceKMCols  = []string{"distancia_km", "Distance", "distance_km"}
	distanceMCols   = []string{"distance", "distance_m"}
	minutesColumns  = []string{"duracao_minutos", "duration_min"}
	durationColumns = []string{"duration", "Time", "Moving Time", "Elapsed Time"}
	paceMinColumns  = []string{"pace_min_km"}
	paceClockCols   = []string{"Avg Pace", "avgPace"}
	hrColumns       = []string{"averageHR", "Avg HR", "avg_hr"}
	typeColumns     = []string{"activityType", "Activity Type", "type"}
	nameColumns     = []string{"activityName", "Title", "name"}
	idColumns       = []string{"activityId", "Activity ID", "id"}
)

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	time.DateOnly,
	"02/01/2006 15:04",
	"02/01/2006",
}

// columns holds resolved header positions; -1 means absent.
type columns struct {
	date, distKM, distM, minutes, duration, paceMin, paceClock, hr, kind, name, id int
}

func resolve(header []string) (columns, error) {
	index := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if _, dup := index[h]; !dup {
			index[h] = i
		}
	}
	find := func(aliases []string) int {
		for _, a := range aliases {
			if i, ok := index[a]; ok {
				return i
			}
		}
		return -1
	}

	c := columns{
		date:      find(dateColumns),
		distKM:    find(distanceKMCols),
		distM:     find(distanceMCols),
		minutes:   find(minutesColumns),
		duration:  find(durationColumns),
		paceMin:   find(paceMinColumns),
		paceClock: find(paceClockCols),
		hr:        find(hrColumns),
		kind:      find(typeColumns),
		name:      find(nameColumns),
		id:        find(idColumns),
	}

	switch {
	case c.date < 0:
		return c, fmt.Errorf("%w: date (%s)", ErrMissingColumn, strings.Join(dateColumns, ", "))
	case c.distKM < 0 && c.distM < 0:
		return c, fmt.Errorf("%w: distance", ErrMissingColumn)
	case c.minutes < 0 && c.duration < 0 && c.paceMin < 0 && c.paceClock < 0:
		return c, fmt.Errorf("%w: duration or pace", ErrMissingColumn)
	}
	return c, nil
}

func (l *Loader) readCSV(ctx context.Context, r io.Reader) ([]model.ActivityRecord, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: empty file", ErrMissingColumn)
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	cols, err := resolve(header)
	if err != nil {
		return nil, err
	}

	var out []model.ActivityRecord
	for line := 2; ; line++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %w", ErrMalformedRow, line, err)
		}
		if blankRow(row) {
			continue
		}
		rec, err := l.parseRow(cols, row)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %w", ErrMalformedRow, line, err)
		}
		out = append(out, rec)
	}
	return out, nil
}

func (l *Loader) parseRow(c columns, row []string) (model.ActivityRecord, error) {
	cell := func(i int) string {
		if i < 0 || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	rec := model.ActivityRecord{
		ID:   cell(c.id),
		Name: cell(c.name),
		Type: types.ParseActivityType(cell(c.kind)),
	}
	// Non-run rows (strength, yoga) often carry "--" distances; they are
	// kept with zeros and excluded later by the summarizer.
	strict := rec.Type.IsRun()

	date, err := l.parseDate(cell(c.date))
	if err != nil {
		return rec, err
	}
	rec.Date = date

	if c.distKM >= 0 {
		rec.DistanceKM, err = number(cell(c.distKM), strict)
	} else {
		var meters float64
		meters, err = number(cell(c.distM), strict)
		rec.DistanceKM = meters / 1000
	}
	if err != nil {
		return rec, fmt.Errorf("distance: %w", err)
	}

	switch {
	case c.minutes >= 0 && !missing(cell(c.minutes)):
		var m float64
		if m, err = number(cell(c.minutes), true); err != nil {
			return rec, fmt.Errorf("duration: %w", err)
		}
		rec.Duration = time.Duration(m * float64(time.Minute))
	case c.duration >= 0 && !missing(cell(c.duration)):
		if rec.Duration, err = parseDuration(cell(c.duration)); err != nil {
			return rec, fmt.Errorf("duration: %w", err)
		}
	}

	switch {
	case c.paceMin >= 0 && !missing(cell(c.paceMin)):
		var m float64
		if m, err = number(cell(c.paceMin), true); err != nil {
			return rec, fmt.Errorf("pace: %w", err)
		}
		rec.AveragePace = types.PaceFromMinutes(m)
	case c.paceClock >= 0 && !missing(cell(c.paceClock)):
		if rec.AveragePace, err = types.ParsePace(cell(c.paceClock)); err != nil {
			return rec, fmt.Errorf("pace: %w", err)
		}
	}

	if strict && rec.Duration <= 0 && rec.AveragePace <= 0 {
		return rec, errors.New("neither duration nor pace")
	}

	if rec.AverageHR, err = number(cell(c.hr), false); err != nil {
		return rec, fmt.Errorf("heart rate: %w", err)
	}

	return rec.DerivePace().DeriveDuration(), nil
}

func (l *Loader) parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, errors.New("empty date")
	}
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, l.loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

// missing reports whether a cell is one of the export placeholders for "no value".
func missing(s string) bool {
	return s == "" || s == "--" || strings.EqualFold(s, "nan") || strings.EqualFold(s, "n/a")
}

// number parses a decimal cell. Placeholders read as zero unless required.
func number(s string, required bool) (float64, error) {
	if missing(s) {
		if required {
			return 0, fmt.Errorf("missing value %q", s)
		}
		return 0, nil
	}
	if strings.Contains(s, ".") {
		s = strings.ReplaceAll(s, ",", "")
	} else {
		s = strings.ReplaceAll(s, ",", ".")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q", s)
	}
	if !finite(v) {
		return 0, fmt.Errorf("non-finite value %q", s)
	}
	if v < 0 {
		return 0, fmt.Errorf("negative value %q", s)
	}
	return v, nil
}

// parseDuration reads seconds ("2712.5") or a clock ("45:12", "1:05:30.2").
func parseDuration(s string) (time.Duration, error) {
	if !strings.Contains(s, ":") {
		sec, err := number(s, true)
		if err != nil {
			return 0, err
		}
		return time.Duration(sec * float64(time.Second)), nil
	}

	parts := strings.Split(s, ":")
	if len(parts) > 3 {
		return 0, fmt.Errorf("invalid clock %q", s)
	}
	var total float64
	for _, p := range parts {
		v, err := strconv.ParseFloat(p, 64)
		if err != nil || !finite(v) || v < 0 {
			return 0, fmt.Errorf("invalid clock %q", s)
		}
		total = total*60 + v
	}
	return time.Duration(total * float64(time.Second)), nil
}

func finite(v float64) bool {
	return !math.IsInf(v, 0) && !math.IsNaN(v)
}

func blankRow(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

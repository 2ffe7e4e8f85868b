package export

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

	"go.uber.org/multierr"

	"github.com/okian/stride/internal/domain/model"
	"github.com/okian/stride/internal/domain/types"
)

// Sisrun import schema.
var sisrunHeader = []string{
	"Data", "Tipo de Treino", "Distância (km)", "Duração (min)",
	"Ritmo Médio (min/km)", "Zona FC", "Percurso", "Observações",
}

const sisrunDate = "02/01/2006"

// Bounds the platform accepts for a training row.
const (
	sisrunMinKM   = 3.0
	sisrunMaxKM   = 42.0
	sisrunMinPace = types.Pace(3 * 60)
	sisrunMaxPace = types.Pace(9 * 60)
)

type sisrunKind struct {
	label string
	zone  string
	note  string
}

var sisrunKinds = map[types.WorkoutType]sisrunKind{
	types.WorkoutEasy:  {"Base", "Zona 2-3", "Corrida contínua em ritmo moderado"},
	types.WorkoutLong:  {"Longo", "Zona 2-3", "Treino longo para resistência, hidrate-se a cada 20-30 minutos"},
	types.WorkoutTempo: {"Ritmo", "Zona 3-4", "Treino no ritmo-alvo da prova"},
	types.WorkoutRace:  {"Meia Maratona", "Zona 3-4", "Prova de meia maratona"},
	types.WorkoutRest:  {"Descanso", "N/A", "Dia de recuperação"},
}

// ValidateSisrun checks every entry against the platform bounds and returns
// a *SchemaError listing all violations.
func ValidateSisrun(entries []model.PlanEntry) error {
	var errs error
	for _, e := range entries {
		if e.IsRest() {
			continue
		}
		day := e.Date.Format(time.DateOnly)
		if e.TargetDistanceKM < sisrunMinKM || e.TargetDistanceKM > sisrunMaxKM {
			errs = multierr.Append(errs, fmt.Errorf("%s %s: distance %.2f km outside [%.0f, %.0f]",
				day, e.Workout, e.TargetDistanceKM, sisrunMinKM, sisrunMaxKM))
		}
		if e.TargetPace < sisrunMinPace || e.TargetPace > sisrunMaxPace {
			errs = multierr.Append(errs, fmt.Errorf("%s %s: pace %s/km outside [%s, %s]",
				day, e.Workout, e.TargetPace, sisrunMinPace, sisrunMaxPace))
		}
	}
	return newSchemaError(FormatSisrun, errs)
}

// WriteSisrun writes the plan in the Sisrun CSV import schema. Nothing is
// written when validation fails.
func WriteSisrun(ctx context.Context, w io.Writer, plan model.Plan) error {
	if err := ValidateSisrun(plan.Entries); err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(sisrunHeader); err != nil {
		return fmt.Errorf("write sisrun header: %w", err)
	}
	for _, e := range plan.Entries {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := cw.Write(sisrunRow(e)); err != nil {
			return fmt.Errorf("write sisrun row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func sisrunRow(e model.PlanEntry) []string {
	date := e.Date.Format(sisrunDate)
	kind := sisrunKinds[e.Workout]
	if e.IsRest() {
		return []string{date, kind.label, "0", "0", "0", kind.zone, "N/A", kind.note}
	}
	return []string{
		date,
		kind.label,
		strconv.FormatFloat(e.TargetDistanceKM, 'f', 1, 64),
		strconv.FormatFloat(math.Round(e.EstimatedDuration().Minutes()), 'f', 0, 64),
		fmt.Sprintf("%.2f", e.TargetPace.Minutes()),
		kind.zone,
		"Livre",
		kind.note,
	}
}

// ReadSisrun parses a Sisrun CSV back into plan entries. Weeks are counted
// from the first row.
func ReadSisrun(ctx context.Context, r io.Reader) ([]model.PlanEntry, error) {
	cr := csv.NewReader(r)
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: read header: %w", ErrMalformedPlan, err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}
	if strings.Join(header, ",") != strings.Join(sisrunHeader, ",") {
		return nil, fmt.Errorf("%w: unexpected header %q", ErrMalformedPlan, strings.Join(header, ","))
	}

	byLabel := make(map[string]types.WorkoutType, len(sisrunKinds))
	for w, k := range sisrunKinds {
		byLabel[k.label] = w
	}

	var out []model.PlanEntry
	for line := 2; ; line++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %w", ErrMalformedPlan, line, err)
		}
		e, err := parseSisrunRow(row, byLabel)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %w", ErrMalformedPlan, line, err)
		}
		out = append(out, e)
	}
	numberWeeks(out)
	return out, nil
}

func parseSisrunRow(row []string, byLabel map[string]types.WorkoutType) (model.PlanEntry, error) {
	date, err := time.Parse(sisrunDate, row[0])
	if err != nil {
		return model.PlanEntry{}, fmt.Errorf("date %q: %w", row[0], err)
	}
	workout, ok := byLabel[row[1]]
	if !ok {
		return model.PlanEntry{}, fmt.Errorf("unknown workout %q", row[1])
	}
	e := model.PlanEntry{Date: date, Workout: workout}
	if workout == types.WorkoutRest {
		return e, nil
	}
	if e.TargetDistanceKM, err = strconv.ParseFloat(row[2], 64); err != nil {
		return e, fmt.Errorf("distance %q: %w", row[2], err)
	}
	minutes, err := strconv.ParseFloat(row[4], 64)
	if err != nil {
		return e, fmt.Errorf("pace %q: %w", row[4], err)
	}
	e.TargetPace = types.Pace(math.Round(types.PaceFromMinutes(minutes).Seconds()))
	return e, nil
}

// numberWeeks assigns 1-based weeks counted from the first entry's date.
func numberWeeks(entries []model.PlanEntry) {
	if len(entries) == 0 {
		return
	}
	first := entries[0].Date
	for i := range entries {
		days := int(math.Round(entries[i].Date.Sub(first).Hours() / 24))
		entries[i].Week = days/7 + 1
	}
}

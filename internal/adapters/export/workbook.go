package export

import (
	"context"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/okian/stride/internal/domain/model"
	"github.com/okian/stride/internal/domain/types"
)

// Workbook sheet names.
const (
	SheetPlan    = "Plan"
	SheetSummary = "Summary"
)

var planColumns = []string{"Date", "Week", "Day", "Workout", "Distance (km)", "Pace (min/km)", "Duration (min)"}

// WriteWorkbook writes the plan and summary as an XLSX workbook.
func WriteWorkbook(ctx context.Context, w io.Writer, summary model.TrainingSummary, plan model.Plan) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetPlan); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	header, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#2E75B6"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}

	if err := writePlanSheet(ctx, f, plan, header); err != nil {
		return err
	}
	if err := writeSummarySheet(f, summary, plan, header); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writePlanSheet(ctx context.Context, f *excelize.File, plan model.Plan, header int) error {
	if err := f.SetSheetRow(SheetPlan, "A1", &planColumns); err != nil {
		return fmt.Errorf("write plan header: %w", err)
	}
	if err := f.SetCellStyle(SheetPlan, "A1", "G1", header); err != nil {
		return fmt.Errorf("style plan header: %w", err)
	}
	if err := f.SetColWidth(SheetPlan, "A", "G", 15); err != nil {
		return fmt.Errorf("set column width: %w", err)
	}

	for i, e := range plan.Entries {
		if err := ctx.Err(); err != nil {
			return err
		}
		pace := ""
		if e.TargetPace > 0 {
			pace = e.TargetPace.String()
		}
		row := []interface{}{
			e.Date.Format(time.DateOnly),
			e.Week,
			e.Date.Weekday().String()[:3],
			string(e.Workout),
			e.TargetDistanceKM,
			pace,
			math.Round(e.EstimatedDuration().Minutes()),
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(SheetPlan, cell, &row); err != nil {
			return fmt.Errorf("write plan row %d: %w", i+1, err)
		}
	}
	return nil
}

func writeSummarySheet(f *excelize.File, s model.TrainingSummary, plan model.Plan, header int) error {
	if _, err := f.NewSheet(SheetSummary); err != nil {
		return fmt.Errorf("create summary sheet: %w", err)
	}
	rows := [][]interface{}{
		{"Metric", "Value"},
		{"Race date", plan.RaceDate.Format(time.DateOnly)},
		{"Weeks", plan.Weeks},
		{"Template", string(plan.Template)},
		{"Runs analysed", s.TotalActivities},
		{"Total distance (km)", round2(s.TotalDistance)},
		{"Average weekly distance (km)", round2(s.AverageWeeklyDistance)},
		{"Longest run (km)", round2(s.LongestRun)},
		{"Best pace (min/km)", s.BestPace.String()},
		{"Average pace (min/km)", s.AveragePace.String()},
		{"Consistency", round2(s.ConsistencyScore)},
		{"Fitness level", string(s.FitnessLevel)},
		{"Planned distance (km)", round2(plan.TotalDistance())},
	}
	for i := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(SheetSummary, cell, &rows[i]); err != nil {
			return fmt.Errorf("write summary row: %w", err)
		}
	}
	if err := f.SetCellStyle(SheetSummary, "A1", "B1", header); err != nil {
		return fmt.Errorf("style summary header: %w", err)
	}
	return f.SetColWidth(SheetSummary, "A", "A", 30)
}

// ReadWorkbook parses the Plan sheet of a workbook written by WriteWorkbook.
func ReadWorkbook(ctx context.Context, r io.Reader) ([]model.PlanEntry, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: open workbook: %w", ErrMalformedPlan, err)
	}
	defer f.Close()

	rows, err := f.GetRows(SheetPlan)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s sheet: %w", ErrMalformedPlan, SheetPlan, err)
	}
	if len(rows) == 0 || strings.Join(rows[0], ",") != strings.Join(planColumns, ",") {
		return nil, fmt.Errorf("%w: %s sheet has no plan header", ErrMalformedPlan, SheetPlan)
	}

	out := make([]model.PlanEntry, 0, len(rows)-1)
	for i, row := range rows[1:] {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		e, err := parseWorkbookRow(row)
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: %w", ErrMalformedPlan, i+2, err)
		}
		out = append(out, e)
	}
	return out, nil
}

func parseWorkbookRow(row []string) (model.PlanEntry, error) {
	cell := func(i int) string {
		if i < len(row) {
			return strings.TrimSpace(row[i])
		}
		return ""
	}

	date, err := time.Parse(time.DateOnly, cell(0))
	if err != nil {
		return model.PlanEntry{}, fmt.Errorf("date %q: %w", cell(0), err)
	}
	week, err := strconv.Atoi(cell(1))
	if err != nil {
		return model.PlanEntry{}, fmt.Errorf("week %q: %w", cell(1), err)
	}
	workout := types.WorkoutType(cell(3))
	if !workout.Valid() {
		return model.PlanEntry{}, fmt.Errorf("unknown workout %q", cell(3))
	}
	e := model.PlanEntry{Date: date, Week: week, Workout: workout}

	if v := cell(4); v != "" {
		if e.TargetDistanceKM, err = strconv.ParseFloat(v, 64); err != nil {
			return e, fmt.Errorf("distance %q: %w", v, err)
		}
	}
	if v := cell(5); v != "" {
		if e.TargetPace, err = types.ParsePace(v); err != nil {
			return e, err
		}
	}
	return e, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

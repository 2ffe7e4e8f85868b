// Package export renders a training plan for people and third-party platforms.
package export

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"

	"github.com/okian/stride/internal/domain/model"
)

// Result is the outcome of one format.
type Result struct {
	Format string
	Path   string
	Err    error
}

// Exporter writes plans to a directory.
type Exporter struct {
	newID func() string
}

// New creates an exporter with configuration options.
func New(opts ...Option) *Exporter {
	e := &Exporter{newID: uuid.NewString}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Render produces the bytes of one format. Validation happens before any
// output, so a failed render yields no partial content.
func (e *Exporter) Render(ctx context.Context, format string, summary model.TrainingSummary, plan model.Plan) ([]byte, error) {
	var buf bytes.Buffer
	var err error
	switch format {
	case FormatReport:
		err = WriteReport(ctx, &buf, summary, plan)
	case FormatSisrun:
		err = WriteSisrun(ctx, &buf, plan)
	case FormatTCX:
		err = WriteTCX(ctx, &buf, plan, e.newID())
	case FormatXLSX:
		err = WriteWorkbook(ctx, &buf, summary, plan)
	default:
		err = fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Export writes each format into dir. A failing format does not stop the
// others; the returned error combines every failure.
func (e *Exporter) Export(ctx context.Context, dir string, formats []string, summary model.TrainingSummary, plan model.Plan) ([]Result, error) {
	formats, err := ParseFormats(formats)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	var errs error
	results := make([]Result, 0, len(formats))
	for _, format := range formats {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		res := Result{Format: format}
		res.Path, res.Err = e.writeOne(ctx, dir, format, summary, plan)
		if res.Err != nil {
			errs = multierr.Append(errs, fmt.Errorf("%s: %w", format, res.Err))
		}
		results = append(results, res)
	}
	return results, errs
}

func (e *Exporter) writeOne(ctx context.Context, dir, format string, summary model.TrainingSummary, plan model.Plan) (string, error) {
	name, err := FileName(format)
	if err != nil {
		return "", err
	}
	data, err := e.Render(ctx, format, summary, plan)
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil { //nolint:gosec // plan files are meant to be shared
		return "", fmt.Errorf("write %s: %w", name, err)
	}
	return path, nil
}

// ReadPlan re-imports a Sisrun CSV or XLSX plan file.
func ReadPlan(ctx context.Context, path string) ([]model.PlanEntry, error) {
	format, err := FormatOfPlanFile(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open plan file: %w", err)
	}
	defer f.Close()

	if format == FormatXLSX {
		return ReadWorkbook(ctx, f)
	}
	return ReadSisrun(ctx, f)
}

func calendarDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// CheckSequence reports gaps or disorder in re-imported entries. Entries are
// compared by calendar date, so each must fall on the day after the previous.
func CheckSequence(entries []model.PlanEntry) error {
	var errs error
	for i := 1; i < len(entries); i++ {
		prev, cur := calendarDay(entries[i-1].Date), calendarDay(entries[i].Date)
		switch next := prev.AddDate(0, 0, 1); {
		case !cur.After(prev):
			errs = multierr.Append(errs, fmt.Errorf("entry %d: %s not after %s", i+1, cur.Format(time.DateOnly), prev.Format(time.DateOnly)))
		case !cur.Equal(next):
			errs = multierr.Append(errs, fmt.Errorf("entry %d: gap after %s", i+1, prev.Format(time.DateOnly)))
		}
	}
	if errs != nil {
		return fmt.Errorf("%w: %w", ErrMalformedPlan, errs)
	}
	return nil
}

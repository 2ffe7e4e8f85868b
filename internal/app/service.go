// Package service wires the loader, summarizer, planner and exporter into
// the pipeline used by the command line tool.
package service

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/okian/stride/internal/adapters/activity"
	"github.com/okian/stride/internal/adapters/export"
	"github.com/okian/stride/internal/adapters/repository"
	"github.com/okian/stride/internal/domain/dedupe"
	"github.com/okian/stride/internal/domain/model"
	"github.com/okian/stride/internal/domain/planner"
	"github.com/okian/stride/internal/domain/stats"
	"github.com/okian/stride/internal/domain/types"
	"github.com/okian/stride/pkg/logger"
	"github.com/okian/stride/pkg/metrics"
)

// Export failure reasons reported to metrics.
const (
	reasonSchemaMismatch = "schema_mismatch"
	reasonWriteFailed    = "write_failed"
)

// LoadReport describes one LoadHistory call.
type LoadReport struct {
	Files      int
	Loaded     int
	Duplicates int
	Stored     int // records in the store afterwards
}

// VerifyReport describes a re-imported plan file.
type VerifyReport struct {
	Path     string
	Entries  int
	Start    time.Time
	End      time.Time
	LongRuns int
}

// Service runs the pipeline: load -> summarize -> plan -> export.
type Service struct {
	mu sync.Mutex

	// Core components
	loader     *activity.Loader
	deduper    dedupe.Deduper
	store      repository.Store
	summarizer *stats.Summarizer
	planner    *planner.Planner
	exporter   *export.Exporter

	// Last results
	summary    model.TrainingSummary
	summarized bool
	plan       model.Plan
	planned    bool

	logger  logger.Logger
	metrics *metrics.Manager
}

// New constructs a Service. Components not given through options get their
// package defaults.
func New(opts ...Option) *Service {
	s := &Service{}
	for _, opt := range opts {
		opt(s)
	}

	if s.logger == nil {
		s.logger = logger.Named("service")
	}
	if s.metrics == nil {
		s.metrics = metrics.Default()
	}
	if s.loader == nil {
		s.loader = activity.NewLoader()
	}
	if s.deduper == nil {
		s.deduper = dedupe.NewInMemoryDeduper()
	}
	if s.store == nil {
		s.store = repository.NewMemoryStore()
	}
	if s.summarizer == nil {
		s.summarizer = stats.NewSummarizer()
	}
	if s.planner == nil {
		s.planner = planner.New()
	}
	if s.exporter == nil {
		s.exporter = export.New()
	}
	return s
}

// LoadHistory reads every file into the store. The same session found in
// two files is stored once. Files are committed together: the first
// unreadable file aborts the call and leaves the store untouched.
func (s *Service) LoadHistory(ctx context.Context, paths ...string) (LoadReport, error) {
	if len(paths) == 0 {
		return LoadReport{}, ErrNoInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	batches := make([]fileBatch, 0, len(paths))
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return LoadReport{}, err
		}

		format, err := activity.FormatOf(path)
		if err != nil {
			return LoadReport{}, err
		}

		start := time.Now()
		records, err := s.loader.Load(ctx, path)
		if err != nil {
			s.logger.Error(ctx, "failed to load activity file", logger.String("file", path), logger.Error(err))
			return LoadReport{}, err
		}
		s.metrics.RecordLoadLatency(format, float64(time.Since(start).Microseconds())/1000)
		batches = append(batches, fileBatch{path: path, format: format, records: records})
	}

	var (
		report   LoadReport
		accepted []model.ActivityRecord
	)
	for i := range batches {
		b := &batches[i]
		for _, rec := range b.records {
			if s.deduper.SeenAndRecord(ctx, rec) {
				report.Duplicates++
				s.logger.Debug(ctx, "duplicate session skipped",
					logger.String("file", filepath.Base(b.path)),
					logger.String("id", rec.ID),
					logger.Time("date", rec.Date),
				)
				continue
			}
			accepted = append(accepted, rec)
			b.added++
		}
	}

	if err := s.store.AddAll(ctx, accepted); err != nil {
		for _, rec := range accepted {
			s.deduper.Unrecord(ctx, rec)
		}
		s.logger.Error(ctx, "failed to store activity history", logger.Int("records", len(accepted)), logger.Error(err))
		return LoadReport{}, err
	}

	for _, b := range batches {
		report.Files++
		report.Loaded += b.added
		s.metrics.RecordActivitiesLoaded(b.format, b.added)
		s.logger.Info(ctx, "activity file loaded",
			logger.String("file", filepath.Base(b.path)),
			logger.String("format", b.format),
			logger.Int("records", len(b.records)),
			logger.Int("added", b.added),
		)
	}
	for range report.Duplicates {
		s.metrics.RecordDuplicate()
	}
	report.Stored = s.store.Count(ctx)

	// New history invalidates earlier results.
	s.summarized, s.planned = false, false
	return report, nil
}

type fileBatch struct {
	path    string
	format  string
	records []model.ActivityRecord
	added   int
}

// Records returns the stored history, oldest first.
func (s *Service) Records(ctx context.Context) []model.ActivityRecord {
	return s.store.All(ctx)
}

// Summarize computes the training summary of the stored history.
func (s *Service) Summarize(ctx context.Context) model.TrainingSummary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.summarizeLocked(ctx)
}

func (s *Service) summarizeLocked(ctx context.Context) model.TrainingSummary {
	if s.summarized {
		return s.summary
	}

	records := s.store.All(ctx)
	for _, rec := range records {
		if reason := s.summarizer.Reject(rec); reason != "" {
			s.metrics.RecordRejected(reason)
			s.logger.Debug(ctx, "record excluded from summary",
				logger.String("id", rec.ID),
				logger.String("reason", reason),
			)
		}
	}

	sum := s.summarizer.Summarize(records)
	if !sum.Empty() {
		from, to := stats.RecentWindow(sum.LastDate)
		recent, err := s.store.Range(ctx, from, to)
		if err != nil {
			s.logger.Warn(ctx, "recent activities unavailable", logger.Error(err))
		}
		sum = s.summarizer.AssessRisk(sum, recent)
	}
	s.metrics.UpdateSummary(sum.TotalActivities, sum.AverageWeeklyDistance, sum.ConsistencyScore, sum.LongestRun)
	s.logger.Info(ctx, "training summary computed",
		logger.Int("records", len(records)),
		logger.Int("runs", sum.TotalActivities),
		logger.Float64("weeklyKM", sum.AverageWeeklyDistance),
		logger.String("bestPace", sum.BestPace.String()),
		logger.String("level", string(sum.FitnessLevel)),
		logger.String("injuryRisk", string(sum.InjuryRisk)),
	)

	s.summary, s.summarized = sum, true
	return sum
}

// Plan generates a plan of the given length ending on raceDate from the
// current summary.
func (s *Service) Plan(ctx context.Context, raceDate time.Time, weeks int) (model.Plan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sum := s.summarizeLocked(ctx)
	plan, err := s.planner.Generate(sum, raceDate, weeks)
	if err != nil {
		return model.Plan{}, err
	}

	s.metrics.RecordPlan(string(plan.Template))
	for _, e := range plan.Entries {
		s.metrics.RecordPlanEntry(string(e.Workout))
	}
	s.logger.Info(ctx, "training plan generated",
		logger.String("template", string(plan.Template)),
		logger.Time("start", plan.Start()),
		logger.Time("race", plan.RaceDate),
		logger.Int("weeks", plan.Weeks),
		logger.Float64("totalKM", plan.TotalDistance()),
	)

	s.plan, s.planned = plan, true
	return plan, nil
}

// Export writes the last plan into dir in each format. Every format is
// attempted; the error combines the failures.
func (s *Service) Export(ctx context.Context, dir string, formats []string) ([]export.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.planned {
		return nil, ErrNoPlan
	}

	results, err := s.exporter.Export(ctx, dir, formats, s.summary, s.plan)
	for _, res := range results {
		if res.Err == nil {
			s.metrics.RecordExport(res.Format)
			s.logger.Info(ctx, "plan exported", logger.String("format", res.Format), logger.String("path", res.Path))
			continue
		}

		reason := reasonWriteFailed
		var schemaErr *export.SchemaError
		if errors.As(res.Err, &schemaErr) {
			reason = reasonSchemaMismatch
			s.metrics.RecordSchemaViolations(len(schemaErr.Violations))
		}
		s.metrics.RecordExportFailure(res.Format, reason)
		s.logger.Warn(ctx, "plan export failed",
			logger.String("format", res.Format),
			logger.String("reason", reason),
			logger.Error(res.Err),
		)
	}
	return results, err
}

// Verify re-imports a Sisrun CSV or XLSX plan file and checks that its days
// are consecutive and that it ends on race day.
func (s *Service) Verify(ctx context.Context, path string) (VerifyReport, error) {
	entries, err := export.ReadPlan(ctx, path)
	if err != nil {
		return VerifyReport{}, err
	}

	if len(entries) == 0 {
		return VerifyReport{Path: path}, fmt.Errorf("%w: no entries", export.ErrMalformedPlan)
	}

	report := VerifyReport{
		Path:    path,
		Entries: len(entries),
		Start:   entries[0].Date,
		End:     entries[len(entries)-1].Date,
	}
	for _, e := range entries {
		if e.Workout == types.WorkoutLong {
			report.LongRuns++
		}
	}

	if err := export.CheckSequence(entries); err != nil {
		s.logger.Warn(ctx, "plan file is not a continuous schedule", logger.String("path", path), logger.Error(err))
		return report, err
	}
	if last := entries[len(entries)-1]; last.Workout != types.WorkoutRace {
		err := fmt.Errorf("%w: last entry on %s is %s, not race day",
			export.ErrMalformedPlan, last.Date.Format(time.DateOnly), last.Workout)
		s.logger.Warn(ctx, "plan file does not end on race day", logger.String("path", path), logger.Error(err))
		return report, err
	}
	s.logger.Info(ctx, "plan file verified",
		logger.String("path", path),
		logger.Int("entries", report.Entries),
	)
	return report, nil
}

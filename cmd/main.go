package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/okian/stride/internal/adapters/activity"
	"github.com/okian/stride/internal/adapters/console"
	app "github.com/okian/stride/internal/app"
	"github.com/okian/stride/internal/config"
	"github.com/okian/stride/internal/domain/dedupe"
	"github.com/okian/stride/internal/domain/planner"
	"github.com/okian/stride/internal/domain/stats"
	"github.com/okian/stride/internal/domain/types"
	"github.com/okian/stride/pkg/logger"
	"github.com/okian/stride/pkg/metrics"
)

// Exit codes.
const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

const usage = `stride: training history analysis and half marathon plans

Usage:
  stride summary -in FILE [-in FILE...]
  stride plan    -in FILE [-in FILE...] -race YYYY-MM-DD [-weeks N] [-out DIR] [-formats LIST]
  stride verify  -plan FILE

Input files are CSV or TCX exports. Formats: report, sisrun, tcx, xlsx.
Configuration: STRIDE_CONFIG (YAML file) and STRIDE_* environment variables.
`

// fileList collects repeated -in flags; each value may also be a comma list.
type fileList []string

func (f *fileList) String() string { return strings.Join(*f, ",") }

func (f *fileList) Set(v string) error {
	*f = append(*f, config.SplitList(v)...)
	return nil
}

func main() {
	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run executes one subcommand and returns the process exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 || args[0] == "-h" || args[0] == "-help" || args[0] == "help" {
		_, _ = io.WriteString(stderr, usage)
		if len(args) == 0 {
			return exitUsage
		}
		return exitOK
	}

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		_, _ = io.WriteString(stderr, "failed to load config: "+err.Error()+"\n")
		return exitFailure
	}

	if err := initLogging(cfg, stderr); err != nil {
		_, _ = io.WriteString(stderr, "failed to initialize logging: "+err.Error()+"\n")
		return exitFailure
	}
	defer func() { _ = logger.Sync() }()
	log := logger.Named("cli")

	svc, mm, err := newService(cfg)
	if err != nil {
		log.Error(ctx, "invalid configuration", logger.Error(err))
		return exitFailure
	}

	cmd, rest := args[0], args[1:]
	var code int
	switch cmd {
	case "summary":
		code = runSummary(ctx, svc, rest, stdout, stderr)
	case "plan":
		code = runPlan(ctx, svc, cfg, rest, stdout, stderr)
	case "verify":
		code = runVerify(ctx, svc, rest, stdout, stderr)
	default:
		_, _ = fmt.Fprintf(stderr, "unknown command %q\n\n%s", cmd, usage)
		return exitUsage
	}

	if cfg.MetricsFile != "" {
		if err := mm.WriteTextfile(cfg.MetricsFile); err != nil {
			log.Warn(ctx, "failed to write metrics textfile", logger.String("path", cfg.MetricsFile), logger.Error(err))
		}
	}
	return code
}

func initLogging(cfg *config.Config, stderr io.Writer) error {
	opts := []logger.Option{logger.WithOutput(stderr)}
	if cfg.LogFile != "" {
		opts = append(opts, logger.WithFile(cfg.LogFile, true))
	}
	if cfg.LogJSON {
		opts = append(opts, logger.WithJSON())
	}
	if err := logger.Init(opts...); err != nil {
		return err
	}
	return logger.SetLevelString(cfg.LogLevel)
}

// newService builds the pipeline and the metrics manager it records to.
func newService(cfg *config.Config) (*app.Service, *metrics.Manager, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, nil, err
	}
	labels, err := cfg.RunLabels()
	if err != nil {
		return nil, nil, err
	}

	mm := metrics.NewManager(
		metrics.WithNamespace(cfg.MetricsNamespace),
		metrics.WithSubsystem(cfg.MetricsSubsystem),
		metrics.WithEnabled(cfg.MetricsEnabled),
		metrics.WithRunLabels(labels),
	)
	svc := app.New(
		app.WithLogger(logger.Named("service")),
		app.WithMetrics(mm),
		app.WithDeduper(dedupe.NewInMemoryDeduper(
			dedupe.WithMaxSize(cfg.DedupeMaxSessions),
			dedupe.WithDistanceTolerance(cfg.DedupeToleranceKM),
		)),
		app.WithLoader(activity.NewLoader(activity.WithLocation(loc))),
		app.WithSummarizer(stats.NewSummarizer(
			stats.WithPaceBounds(types.Pace(cfg.MinPaceSec), types.Pace(cfg.MaxPaceSec)),
		)),
		app.WithPlanner(planner.New(
			planner.WithMinHistory(cfg.MinHistory),
			planner.WithPeakLongRun(cfg.PeakLongRunKM),
		)),
	)
	return svc, mm, nil
}

func runSummary(ctx context.Context, svc *app.Service, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("summary", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var in fileList
	fs.Var(&in, "in", "Activity file (CSV or TCX); repeatable")
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}

	if code := load(ctx, svc, in, stderr); code != exitOK {
		return code
	}
	if err := console.Print(stdout, console.RenderSummary(svc.Summarize(ctx))); err != nil {
		return exitFailure
	}
	return exitOK
}

func runPlan(ctx context.Context, svc *app.Service, cfg *config.Config, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("plan", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var in fileList
	fs.Var(&in, "in", "Activity file (CSV or TCX); repeatable")
	race := fs.String("race", "", "Race date (YYYY-MM-DD)")
	weeks := fs.Int("weeks", cfg.PlanWeeks, "Plan length in weeks")
	out := fs.String("out", cfg.OutputDir, "Output directory")
	formats := fs.String("formats", cfg.ExportFormats, "Comma separated export formats")
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}

	raceDate, err := time.Parse(time.DateOnly, *race)
	if err != nil {
		_, _ = io.WriteString(stderr, "-race must be a date like 2025-10-19\n")
		return exitUsage
	}

	if code := load(ctx, svc, in, stderr); code != exitOK {
		return code
	}
	summary := svc.Summarize(ctx)
	plan, err := svc.Plan(ctx, raceDate, *weeks)
	if err != nil {
		_, _ = io.WriteString(stderr, console.ErrorStyle.Render("plan: "+err.Error())+"\n")
		return exitFailure
	}

	results, exportErr := svc.Export(ctx, *out, config.SplitList(*formats))
	_ = console.Print(stdout,
		console.RenderSummary(summary),
		console.RenderPlan(plan),
		console.RenderExports(results),
	)
	if exportErr != nil {
		if len(results) == 0 {
			_, _ = io.WriteString(stderr, console.ErrorStyle.Render("export: "+exportErr.Error())+"\n")
		}
		return exitFailure
	}
	return exitOK
}

func runVerify(ctx context.Context, svc *app.Service, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("verify", flag.ContinueOnError)
	fs.SetOutput(stderr)
	path := fs.String("plan", "", "Sisrun CSV or XLSX plan file")
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}
	if *path == "" {
		_, _ = io.WriteString(stderr, "-plan is required\n")
		return exitUsage
	}

	report, err := svc.Verify(ctx, *path)
	if report.Entries == 0 && err != nil {
		_, _ = io.WriteString(stderr, console.ErrorStyle.Render("verify: "+err.Error())+"\n")
		return exitFailure
	}
	_ = console.Print(stdout, console.RenderVerify(report.Path, report.Entries, report.LongRuns, report.Start, report.End, err))
	if err != nil {
		return exitFailure
	}
	return exitOK
}

// load reads the history, reporting failures on stderr.
func load(ctx context.Context, svc *app.Service, files []string, stderr io.Writer) int {
	if _, err := svc.LoadHistory(ctx, files...); err != nil {
		if errors.Is(err, app.ErrNoInput) {
			_, _ = io.WriteString(stderr, "at least one -in file is required\n")
			return exitUsage
		}
		_, _ = io.WriteString(stderr, console.ErrorStyle.Render("load: "+err.Error())+"\n")
		return exitFailure
	}
	return exitOK
}

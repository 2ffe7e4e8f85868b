package main

import (
	"bytes"
	"context"
	"flag"
	"os"
	"time"

	"github.com/okian/stride/internal/domain/types"
	"github.com/okian/stride/internal/sample"
	"github.com/okian/stride/pkg/logger"
)

// Default configuration constants.
const (
	defaultWeeks       = 12
	defaultRunsPerWeek = 4
	defaultEasyPace    = "6:00"
	defaultOutput      = "activities.csv"
	defaultTimeout     = time.Minute
)

func main() {
	def := sample.DefaultConfig()
	var (
		output = flag.String("out", defaultOutput, "Output CSV file")
		weeks  = flag.Int("weeks", defaultWeeks, "Number of weeks of history")
		runs   = flag.Int("runs", defaultRunsPerWeek, "Runs per week (1-6)")
		pace   = flag.String("pace", defaultEasyPace, "Typical easy pace (m:ss per km)")
		end    = flag.String("end", def.End.Format(time.DateOnly), "Last day of the history (YYYY-MM-DD)")
		rides  = flag.Bool("rides", false, "Add a Sunday ride each week")
		seed   = flag.Uint64("seed", def.Seed, "Random seed")
	)
	flag.Parse()

	if err := logger.Init(logger.WithOutput(os.Stderr)); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()
	log := logger.Named("gen-activities")

	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	easy, err := types.ParsePace(*pace)
	if err != nil {
		log.Fatal(ctx, "invalid -pace", logger.String("pace", *pace), logger.Error(err))
	}
	endDate, err := time.Parse(time.DateOnly, *end)
	if err != nil {
		log.Fatal(ctx, "invalid -end", logger.String("end", *end), logger.Error(err))
	}

	records, err := sample.Generate(ctx, sample.Config{
		End:         endDate,
		Weeks:       *weeks,
		RunsPerWeek: *runs,
		EasyPace:    easy,
		Rides:       *rides,
		Seed:        *seed,
	})
	if err != nil {
		log.Fatal(ctx, "failed to generate history", logger.Error(err))
	}

	var buf bytes.Buffer
	if err := sample.WriteCSV(&buf, records); err != nil {
		log.Fatal(ctx, "failed to encode history", logger.Error(err))
	}
	if err := os.WriteFile(*output, buf.Bytes(), 0o644); err != nil { //nolint:gosec // sample data
		log.Fatal(ctx, "failed to write history", logger.String("file", *output), logger.Error(err))
	}
	log.Info(ctx, "history written", logger.String("file", *output), logger.Int("records", len(records)))
}

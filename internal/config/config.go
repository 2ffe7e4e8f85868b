// Package config defines process configuration and its loading hooks.
//
// Conventions:
// - Provide New(ctx) to build a Config with defaults.
// - Load layers defaults, an optional YAML file and STRIDE_* env vars.
// - External errors are wrapped with this package's sentinel errors.
package config

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"
	_ "time/tzdata" // named timezones without a system zoneinfo
)

// Plan length bounds accepted by the generator.
const (
	minPlanWeeks = 4
	maxPlanWeeks = 24
)

// metricName matches Prometheus name segments and label names.
var metricName = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFile, when set, receives logs through a rotating file writer.
	LogFile string `koanf:"log_file"`

	// LogJSON switches log lines to JSON.
	LogJSON bool `koanf:"log_json"`

	// PlanWeeks is the default training block length.
	PlanWeeks int `koanf:"plan_weeks"`

	// MinHistory is the number of valid runs below which the beginner
	// template is used.
	MinHistory int `koanf:"min_history"`

	// PeakLongRunKM caps the long run of the build phase.
	PeakLongRunKM float64 `koanf:"peak_long_run_km"`

	// OutputDir receives export files.
	OutputDir string `koanf:"output_dir"`

	// ExportFormats is a comma separated list: report, sisrun, tcx, xlsx.
	ExportFormats string `koanf:"export_formats"`

	// MetricsFile, when set, receives a Prometheus textfile after each run.
	MetricsFile string `koanf:"metrics_file"`

	// MetricsEnabled turns metric recording on or off.
	MetricsEnabled bool `koanf:"metrics_enabled"`

	// MetricsNamespace and MetricsSubsystem prefix every metric name.
	MetricsNamespace string `koanf:"metrics_namespace"`
	MetricsSubsystem string `koanf:"metrics_subsystem"`

	// MetricsLabels is a comma separated list of name=value pairs added to
	// every metric, e.g. "athlete=ana,host=laptop".
	MetricsLabels string `koanf:"metrics_labels"`

	// DedupeMaxSessions bounds the sessions remembered for duplicate
	// detection; the oldest are forgotten first. Zero means unbounded.
	DedupeMaxSessions int `koanf:"dedupe_max_sessions"`

	// DedupeToleranceKM is how far apart two distances at the same start
	// time may be and still count as one session.
	DedupeToleranceKM float64 `koanf:"dedupe_tolerance_km"`

	// MinPaceSec and MaxPaceSec bound the paces (s/km) treated as valid runs.
	MinPaceSec float64 `koanf:"min_pace_sec"`
	MaxPaceSec float64 `koanf:"max_pace_sec"`

	// Timezone is applied to naive CSV timestamps, e.g. "America/Sao_Paulo".
	Timezone string `koanf:"timezone"`
}

// New creates a Config with defaults. Context is accepted first to follow the
// project-wide convention.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:      "info",
		PlanWeeks:     12,
		MinHistory:    5,
		PeakLongRunKM: 19,
		OutputDir:     "output",
		ExportFormats: "report,sisrun,tcx,xlsx",
		MinPaceSec:    0,
		MaxPaceSec:    15 * 60,
		Timezone:      "UTC",

		MetricsEnabled:    true,
		MetricsNamespace:  "stride",
		MetricsSubsystem:  "pipeline",
		DedupeToleranceKM: 0.05,
	}
}

// RunLabels parses MetricsLabels.
func (c *Config) RunLabels() (map[string]string, error) {
	labels := make(map[string]string)
	for _, pair := range SplitList(c.MetricsLabels) {
		name, value, ok := strings.Cut(pair, "=")
		name = strings.TrimSpace(name)
		if !ok || !metricName.MatchString(name) {
			return nil, fmt.Errorf("%w: metrics_labels entry %q", ErrInvalidConfig, pair)
		}
		labels[name] = strings.TrimSpace(value)
	}
	return labels, nil
}

// Formats splits ExportFormats into trimmed, non-empty names.
func (c *Config) Formats() []string {
	return SplitList(c.ExportFormats)
}

// SplitList splits a comma separated value into trimmed, non-empty items.
func SplitList(s string) []string {
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// Location resolves Timezone. An empty value means UTC.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("%w: timezone %q: %w", ErrInvalidConfig, c.Timezone, err)
	}
	return loc, nil
}

// Validate checks value ranges. Every error wraps ErrInvalidConfig.
func (c *Config) Validate() error {
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("%w: log_level %q", ErrInvalidConfig, c.LogLevel)
	}
	if c.PlanWeeks < minPlanWeeks || c.PlanWeeks > maxPlanWeeks {
		return fmt.Errorf("%w: plan_weeks %d not in [%d, %d]", ErrInvalidConfig, c.PlanWeeks, minPlanWeeks, maxPlanWeeks)
	}
	if c.MinHistory < 0 {
		return fmt.Errorf("%w: min_history must not be negative", ErrInvalidConfig)
	}
	if c.PeakLongRunKM < 8 || c.PeakLongRunKM > 42.195 {
		return fmt.Errorf("%w: peak_long_run_km %.1f not in [8, 42.195]", ErrInvalidConfig, c.PeakLongRunKM)
	}
	if c.MinPaceSec < 0 || c.MaxPaceSec <= c.MinPaceSec {
		return fmt.Errorf("%w: pace bounds [%.0f, %.0f]", ErrInvalidConfig, c.MinPaceSec, c.MaxPaceSec)
	}
	if strings.TrimSpace(c.OutputDir) == "" {
		return fmt.Errorf("%w: output_dir must not be empty", ErrInvalidConfig)
	}
	if len(c.Formats()) == 0 {
		return fmt.Errorf("%w: export_formats must not be empty", ErrInvalidConfig)
	}
	if !metricName.MatchString(c.MetricsNamespace) || !metricName.MatchString(c.MetricsSubsystem) {
		return fmt.Errorf("%w: metrics name prefix %q_%q", ErrInvalidConfig, c.MetricsNamespace, c.MetricsSubsystem)
	}
	if _, err := c.RunLabels(); err != nil {
		return err
	}
	if c.DedupeMaxSessions < 0 {
		return fmt.Errorf("%w: dedupe_max_sessions must not be negative", ErrInvalidConfig)
	}
	if c.DedupeToleranceKM < 0 || c.DedupeToleranceKM > 1 {
		return fmt.Errorf("%w: dedupe_tolerance_km %.3f not in [0, 1]", ErrInvalidConfig, c.DedupeToleranceKM)
	}
	_, err := c.Location()
	return err
}

package service

import (
	"github.com/okian/stride/internal/adapters/activity"
	"github.com/okian/stride/internal/adapters/export"
	"github.com/okian/stride/internal/adapters/repository"
	"github.com/okian/stride/internal/domain/dedupe"
	"github.com/okian/stride/internal/domain/planner"
	"github.com/okian/stride/internal/domain/stats"
	"github.com/okian/stride/pkg/logger"
	"github.com/okian/stride/pkg/metrics"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithMetrics sets the metrics manager (metrics.Default() otherwise).
func WithMetrics(m *metrics.Manager) Option {
	return func(s *Service) {
		if m != nil {
			s.metrics = m
		}
	}
}

// WithLoader sets the activity file loader.
func WithLoader(l *activity.Loader) Option {
	return func(s *Service) {
		if l != nil {
			s.loader = l
		}
	}
}

// WithDeduper sets the duplicate session detector.
func WithDeduper(d dedupe.Deduper) Option {
	return func(s *Service) {
		if d != nil {
			s.deduper = d
		}
	}
}

// WithStore sets the activity store.
func WithStore(st repository.Store) Option {
	return func(s *Service) {
		if st != nil {
			s.store = st
		}
	}
}

// WithSummarizer sets the statistics summarizer.
func WithSummarizer(sum *stats.Summarizer) Option {
	return func(s *Service) {
		if sum != nil {
			s.summarizer = sum
		}
	}
}

// WithPlanner sets the plan generator.
func WithPlanner(p *planner.Planner) Option {
	return func(s *Service) {
		if p != nil {
			s.planner = p
		}
	}
}

// WithExporter sets the plan exporter.
func WithExporter(e *export.Exporter) Option {
	return func(s *Service) {
		if e != nil {
			s.exporter = e
		}
	}
}

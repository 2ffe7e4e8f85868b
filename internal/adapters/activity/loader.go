// Package activity reads exported training sessions from CSV and TCX files.
package activity

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/okian/stride/internal/domain/model"
)

// Supported file formats.
const (
	FormatCSV = "csv"
	FormatTCX = "tcx"
)

// Loader parses activity export files. It holds no state between calls.
type Loader struct {
	loc *time.Location
}

// NewLoader creates a loader with configuration options.
func NewLoader(opts ...Option) *Loader {
	l := &Loader{loc: time.UTC}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// FormatOf returns the format implied by the file extension.
func FormatOf(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return FormatCSV, nil
	case ".tcx":
		return FormatTCX, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Base(path))
}

// Load reads every record of one file. Any malformed content fails the whole
// file; there is no partial result.
func (l *Loader) Load(ctx context.Context, path string) ([]model.ActivityRecord, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open activity file: %w", err)
	}
	defer f.Close()

	var records []model.ActivityRecord
	switch format {
	case FormatCSV:
		records, err = l.readCSV(ctx, f)
	case FormatTCX:
		records, err = l.readTCX(ctx, f)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return records, nil
}

package export

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Export formats.
const (
	FormatReport = "report"
	FormatSisrun = "sisrun"
	FormatTCX    = "tcx"
	FormatXLSX   = "xlsx"
)

// AllFormats lists every export format in write order.
var AllFormats = []string{FormatReport, FormatSisrun, FormatTCX, FormatXLSX}

var fileNames = map[string]string{
	FormatReport: "plan_report.txt",
	FormatSisrun: "sisrun_plan.csv",
	FormatTCX:    "garmin_workouts.tcx",
	FormatXLSX:   "training_plan.xlsx",
}

// FileName returns the output file name of a format.
func FileName(format string) (string, error) {
	name, ok := fileNames[format]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	return name, nil
}

// ParseFormats normalizes a format list. Duplicates are dropped; an empty
// list means every format.
func ParseFormats(in []string) ([]string, error) {
	if len(in) == 0 {
		return append([]string(nil), AllFormats...), nil
	}
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, f := range in {
		f = strings.ToLower(strings.TrimSpace(f))
		if f == "" || seen[f] {
			continue
		}
		if _, ok := fileNames[f]; !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, f)
		}
		seen[f] = true
		out = append(out, f)
	}
	return out, nil
}

// FormatOfPlanFile maps a plan file back to the format that wrote it.
// Only re-importable formats are recognized.
func FormatOfPlanFile(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return FormatSisrun, nil
	case ".xlsx":
		return FormatXLSX, nil
	}
	return "", fmt.Errorf("%w: cannot read plans from %q", ErrUnknownFormat, filepath.Base(path))
}

package logger

import (
	"errors"
	"io"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Rotation defaults for file output.
const (
	defaultMaxSizeMB  = 20
	defaultMaxBackups = 5
)

// ErrEmptyLogFile is returned when WithFile is given a blank path.
var ErrEmptyLogFile = errors.New("log file path is empty")

type options struct {
	output    io.Writer
	file      string
	fileSet   bool
	alsoOut   bool
	json      bool
	maxSizeMB int
}

// Option configures Init.
type Option func(*options)

// WithOutput sets the writer used for log lines (stdout by default).
func WithOutput(w io.Writer) Option {
	return func(o *options) {
		if w != nil {
			o.output = w
		}
	}
}

// WithFile writes logs to a size-rotated file. When alsoOutput is true the
// configured output (stdout by default) receives the same lines.
func WithFile(path string, alsoOutput bool) Option {
	return func(o *options) {
		o.file = strings.TrimSpace(path)
		o.fileSet = true
		o.alsoOut = alsoOutput
	}
}

// WithMaxSizeMB overrides the rotation size of the log file.
func WithMaxSizeMB(size int) Option {
	return func(o *options) {
		if size > 0 {
			o.maxSizeMB = size
		}
	}
}

// WithJSON switches the handler to JSON lines.
func WithJSON() Option {
	return func(o *options) {
		o.json = true
	}
}

// writer resolves the destination and the closer to release on Sync.
func (o *options) writer() (io.Writer, io.Closer, error) {
	if !o.fileSet {
		return o.output, nil, nil
	}
	if o.file == "" {
		return nil, nil, ErrEmptyLogFile
	}
	if !strings.HasSuffix(o.file, ".log") {
		o.file += ".log"
	}

	maxSize := o.maxSizeMB
	if maxSize == 0 {
		maxSize = defaultMaxSizeMB
	}
	lj := &lumberjack.Logger{
		Filename:   o.file,
		MaxSize:    maxSize, // megabytes
		MaxBackups: defaultMaxBackups,
		LocalTime:  false,
		Compress:   true,
	}
	if o.alsoOut {
		return io.MultiWriter(o.output, lj), lj, nil
	}
	return lj, lj, nil
}

package util

import (
	"io"
	"os"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/pkg/errors"
)

const (
	LogFormatLogfmt = "logfmt"
	LogFormatJSON   = "json"
)

// NewLogger builds a leveled logger writing to w. Debug lines are dropped
// unless verbose is set.
func NewLogger(w io.Writer, format string, verbose bool) (log.Logger, error) {
	if w == nil {
		w = os.Stderr
	}
	var l log.Logger
	switch format {
	case "", LogFormatLogfmt:
		l = log.NewLogfmtLogger(log.NewSyncWriter(w))
	case LogFormatJSON:
		l = log.NewJSONLogger(log.NewSyncWriter(w))
	default:
		return nil, errors.Errorf("unknown log format %q, expected %s or %s", format, LogFormatLogfmt, LogFormatJSON)
	}
	l = log.With(l, "ts", log.DefaultTimestampUTC)
	if verbose {
		return level.NewFilter(l, level.AllowDebug()), nil
	}
	return level.NewFilter(l, level.AllowInfo()), nil
}

// LoggerWithProfile returns a Logger that has information about the
// profile being processed in its details.
func LoggerWithProfile(path string, l log.Logger) log.Logger {
	return log.With(l, "profile", path)
}

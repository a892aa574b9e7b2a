package logging

import (
	"log/slog"
	"path/filepath"
	"strconv"
	"time"
)

// plainValue renders v without quoting. Durations are kept to millisecond
// precision and floats never use exponent notation.
func plainValue(v slog.Value) string {
	v = v.Resolve()
	switch v.Kind() {
	case slog.KindFloat64:
		return strconv.FormatFloat(v.Float64(), 'f', -1, 64)
	case slog.KindDuration:
		return v.Duration().Round(time.Millisecond).String()
	case slog.KindAny:
		if err, ok := v.Any().(error); ok {
			return err.Error()
		}
	}
	return v.String()
}

// formatValue renders v for key=value console output.
func formatValue(v slog.Value) string {
	s := plainValue(v)
	if needsQuotes(s) {
		return strconv.Quote(s)
	}
	return s
}

func needsQuotes(s string) bool {
	if s == "" {
		return true
	}
	for _, r := range s {
		if r <= ' ' || r == '=' || r == '"' {
			return true
		}
	}
	return false
}

// sourceLocation renders a call site as file:line.
func sourceLocation(src *slog.Source) string {
	if src == nil {
		return ""
	}
	return filepath.Base(src.File) + ":" + strconv.Itoa(src.Line)
}

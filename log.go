package aula

import (
	"log/slog"
	"net/url"
	"strings"
)

const (
	LogKindKey = "kind"
	LogMaskVal = "xxxxxx"
)

var (
	AppLogKind  = slog.StringValue("app")
	HTTPLogKind = slog.StringValue("http")
	CLILogKind  = slog.StringValue("cli")

	// MaskedLogValue is a convenience [log/slog.Value]
	// to be used in implementations of [log/slog.LogValuer]
	// to hide sensitive data from log messages.
	MaskedLogValue = slog.StringValue(LogMaskVal)
)

// NewLogLevel translates val into a [log/slog.Level], ignoring case.
// Unknown values translate to [log/slog.LevelInfo].
func NewLogLevel(val string) slog.Level {
	switch strings.ToUpper(strings.TrimSpace(val)) {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR", "FATAL":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Mask replaces every value paired to key in vals with LogMaskVal,
// returning vals for convenience.
func Mask(vals url.Values, key string) url.Values {
	if _, ok := vals[key]; !ok {
		return vals
	}

	for i := range vals[key] {
		vals[key][i] = LogMaskVal
	}

	return vals
}

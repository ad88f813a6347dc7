package logger

import (
	"context"
	"log/slog"
	"runtime"
	"time"

	"github.com/castellanoconmh/aula"
)

// knownFrames is the number of frames between the caller and log.
const knownFrames = 3

// The Logger interface defines the levels a logging can occur at.
type Logger interface {
	Debug(msg string, ctx *LogContext)
	Error(msg string, ctx *LogContext)
	Info(msg string, ctx *LogContext)
	Warn(msg string, ctx *LogContext)

	LogLevel() slog.Level
}

// The SkipLogger interface defines a Logger that scrolls back
// the number of frames provided in order to ascertain the call site.
type SkipLogger interface {
	AddSkip(i int) SkipLogger
	Skip() int
	Logger
}

// AulaLogger implements Logger using a [*log/slog.Logger].
type AulaLogger struct {
	l    *slog.Logger
	lvl  slog.Level
	skip int
}

// New constructs an AulaLogger writing through l.
// Messages below lvl are dropped before reaching l's handler.
//
// The constructed AulaLogger tags every message with kind,
// one of the aula log kinds (e.g., aula.AppLogKind).
func New(l *slog.Logger, lvl slog.Level, kind slog.Value) *AulaLogger {
	if l == nil {
		l = slog.Default()
	}

	return &AulaLogger{l: l.With(slog.Any(aula.LogKindKey, kind)), lvl: lvl}
}

// AddSkip replaces the current number of frames to scroll back
// when logging a message.
//
// Use Skip to get the current skip amount
// when needing to add to it with AddSkip.
func (l *AulaLogger) AddSkip(i int) SkipLogger {
	newl := *l
	newl.skip = i
	return &newl
}

// Debug writes a debug log.
func (l *AulaLogger) Debug(msg string, ctx *LogContext) { l.log(slog.LevelDebug, msg, ctx) }

// Error writes an error log.
func (l *AulaLogger) Error(msg string, ctx *LogContext) { l.log(slog.LevelError, msg, ctx) }

// Info writes an info log.
func (l *AulaLogger) Info(msg string, ctx *LogContext) { l.log(slog.LevelInfo, msg, ctx) }

// Warn writes a warning log.
func (l *AulaLogger) Warn(msg string, ctx *LogContext) { l.log(slog.LevelWarn, msg, ctx) }

// LogLevel returns the level set for the AulaLogger.
func (l *AulaLogger) LogLevel() slog.Level { return l.lvl }

// Skip returns the current amount of frames to scroll back
// when logging a message.
func (l *AulaLogger) Skip() int { return l.skip }

// log builds a record pointing at the call site and hands it to the handler.
func (l *AulaLogger) log(level slog.Level, msg string, ctx *LogContext) {
	if level < l.lvl || !l.l.Enabled(context.Background(), level) {
		return
	}

	var pcs [1]uintptr
	runtime.Callers(knownFrames+l.skip, pcs[:])

	r := slog.NewRecord(time.Now(), level, msg, pcs[0])
	if ctx != nil {
		if ctx.Caller != "" {
			r.AddAttrs(slog.String("caller", ctx.Caller))
		}
		r.AddAttrs(slog.Any("log_context", ctx))
	}

	_ = l.l.Handler().Handle(context.Background(), r)
}

package logger

import (
	"log/slog"
	"path/filepath"

	"github.com/fatih/color"
)

// ColorizeLevel paints the level of a log line for terminal output.
// Use it as, or within, a ReplaceAttr function.
func ColorizeLevel(groups []string, a slog.Attr) slog.Attr {
	if len(groups) > 0 || a.Key != slog.LevelKey {
		return a
	}

	lvl, ok := a.Value.Any().(slog.Level)
	if !ok {
		return a
	}

	paint := color.WhiteString
	switch {
	case lvl >= slog.LevelError:
		paint = color.RedString
	case lvl >= slog.LevelWarn:
		paint = color.YellowString
	case lvl >= slog.LevelInfo:
		paint = color.BlueString
	}

	return slog.String(slog.LevelKey, paint("%s", lvl.String()))
}

// DeleteLevelAttr drops the level from a log line.
func DeleteLevelAttr(groups []string, a slog.Attr) slog.Attr {
	if len(groups) == 0 && a.Key == slog.LevelKey {
		return slog.Attr{}
	}

	return a
}

// DeleteMessageAttr drops the message from a log line.
func DeleteMessageAttr(groups []string, a slog.Attr) slog.Attr {
	if len(groups) == 0 && a.Key == slog.MessageKey {
		return slog.Attr{}
	}

	return a
}

// TruncSourceAttr shortens the source of a log line to its directory and file.
func TruncSourceAttr(groups []string, a slog.Attr) slog.Attr {
	if len(groups) > 0 || a.Key != slog.SourceKey {
		return a
	}

	src, ok := a.Value.Any().(*slog.Source)
	if !ok {
		return a
	}

	src.File = filepath.Join(filepath.Base(filepath.Dir(src.File)), filepath.Base(src.File))
	return slog.Any(slog.SourceKey, src)
}

package logger_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/castellanoconmh/aula"
	"github.com/castellanoconmh/aula/logger"
	"github.com/stretchr/testify/require"
)

type testUser struct{}

func (u testUser) GetID() uint      { return 1 }
func (u testUser) GetEmail() string { return "test@example.com" }

func newTestLogger(buf *bytes.Buffer, lvl slog.Level) *logger.AulaLogger {
	h := slog.NewJSONHandler(buf, &slog.HandlerOptions{AddSource: true, Level: slog.LevelDebug})
	return logger.New(slog.New(h), lvl, aula.AppLogKind)
}

func decode(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()

	m := make(map[string]any)
	require.Nil(t, json.Unmarshal(buf.Bytes(), &m))
	return m
}

func TestAulaLoggerLevels(t *testing.T) {
	// Arrange
	buf := new(bytes.Buffer)
	l := newTestLogger(buf, slog.LevelWarn)

	// Act
	l.Debug("quiet", nil)
	l.Info("quiet", nil)

	// Assert
	require.Zero(t, buf.Len())

	// Act
	l.Warn("loud", nil)

	// Assert
	m := decode(t, buf)
	require.Equal(t, "loud", m["msg"])
	require.Equal(t, "WARN", m["level"])
	require.Equal(t, "app", m[aula.LogKindKey])

	src, ok := m["source"].(map[string]any)
	require.True(t, ok)
	require.True(t, strings.HasSuffix(src["file"].(string), "context_test.go"))
}

func TestLogContextLogValue(t *testing.T) {
	// Arrange
	buf := new(bytes.Buffer)
	l := newTestLogger(buf, slog.LevelDebug)

	// Act
	l.Error("boom", &logger.LogContext{
		Data:  map[string]any{"collection": "videos"},
		Error: errors.New("test"),
		User:  testUser{},
	})

	// Assert
	lc, ok := decode(t, buf)["log_context"].(map[string]any)
	require.True(t, ok)
	require.Equal(t, "test", lc["error"])
	require.Equal(t, map[string]any{"collection": "videos"}, lc["data"])
	require.Equal(t, map[string]any{"id": float64(1), "email": "test@example.com"}, lc["user"])
}

func TestLogContextMasksForm(t *testing.T) {
	// Arrange
	buf := new(bytes.Buffer)
	l := newTestLogger(buf, slog.LevelDebug)

	form := url.Values{}
	form.Set("email", "husserl@example.com")
	form.Set("password", "hunter2")
	form.Set("code", "AB12CD-3X9Y")

	r := httptest.NewRequest(http.MethodPost, "https://example.com/login", strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	require.Nil(t, r.ParseForm())

	// Act
	l.Info("login", &logger.LogContext{Request: r})

	// Assert
	lc := decode(t, buf)["log_context"].(map[string]any)
	req := lc["request"].(map[string]any)
	require.Equal(t, http.MethodPost, req["method"])

	logged, err := url.ParseQuery(req["form"].(string))
	require.Nil(t, err)
	require.Equal(t, "husserl@example.com", logged.Get("email"))
	require.Equal(t, aula.LogMaskVal, logged.Get("password"))
	require.Equal(t, aula.LogMaskVal, logged.Get("code"))

	// the request itself is untouched
	require.Equal(t, "hunter2", r.Form.Get("password"))
}

func TestCurrentCaller(t *testing.T) {
	var caller string
	func() { caller = logger.CurrentCaller() }()
	require.True(t, strings.HasPrefix(caller, "logger/context_test.go:"))
}

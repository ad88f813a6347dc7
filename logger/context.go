package logger

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"path/filepath"
	"runtime"

	"github.com/castellanoconmh/aula"
)

const callerTmpl = "%s:%d"

var _ slog.LogValuer = LogContext{}

// maskedFields never leave the process in clear text.
var maskedFields = []string{"code", "password", "password_confirmation"}

// LogUser is the interface exposing attributes of a user to a LogContext.
type LogUser interface {
	// GetID retrieves the application's identifier for a user.
	GetID() uint

	// GetEmail retrieves the email address of the user.
	GetEmail() string
}

// A LogContext provides additional information for a [Logger] method
// that cannot be tersely captured in the message itself.
type LogContext struct {
	// Caller notes the file and line of the process that spawned the logging goroutine.
	Caller string

	// Data is any information pertinent at the time of the logging event.
	Data map[string]any

	// Error is the error that may or may not have instigated a logging event.
	Error error

	// Request is the *http.Request that may or may not have been open during the logging event.
	Request *http.Request

	// User is the user whose session was active during the logging event.
	User LogUser
}

// LogValue renders the non-zero fields of lc as a group.
// Form values named code or password are masked.
//
// LogValue implements [log/slog.LogValuer].
func (lc LogContext) LogValue() slog.Value {
	var attrs []slog.Attr
	if len(lc.Data) > 0 {
		data := make([]slog.Attr, 0, len(lc.Data))
		for k, v := range lc.Data {
			data = append(data, slog.Any(k, v))
		}
		attrs = append(attrs, slog.Attr{Key: "data", Value: slog.GroupValue(data...)})
	}

	if lc.Error != nil {
		attrs = append(attrs, slog.String("error", lc.Error.Error()))
	}

	if lc.Request != nil {
		req := []slog.Attr{
			slog.String("method", lc.Request.Method),
			slog.String("url", lc.Request.URL.String()),
		}
		if lc.Request.Form != nil {
			req = append(req, slog.String("form", maskForm(lc.Request.Form).Encode()))
		}
		attrs = append(attrs, slog.Attr{Key: "request", Value: slog.GroupValue(req...)})
	}

	if lc.User != nil {
		var u []slog.Attr
		if id := lc.User.GetID(); id != 0 {
			u = append(u, slog.Uint64("id", uint64(id)))
		}
		if email := lc.User.GetEmail(); email != "" {
			u = append(u, slog.String("email", email))
		}
		if len(u) > 0 {
			attrs = append(attrs, slog.Attr{Key: "user", Value: slog.GroupValue(u...)})
		}
	}

	return slog.GroupValue(attrs...)
}

// maskForm copies form, replacing sensitive values.
func maskForm(form url.Values) url.Values {
	cp := make(url.Values, len(form))
	for k, v := range form {
		cp[k] = append([]string(nil), v...)
	}

	for _, k := range maskedFields {
		aula.Mask(cp, k)
	}

	return cp
}

// CurrentCaller retrieves the caller for the caller of CurrentCaller,
// formatted for using as a value in LogContext.Caller.
//
//	myFunc() { 		<- returns this caller
//		go func() {
//			CurrentCaller()
//		}()
//	}
func CurrentCaller() string {
	_, file, line, _ := runtime.Caller(2)
	return fmt.Sprintf(callerTmpl, immediateFilepath(file), line)
}

// immediateFilepath trims file down to its parent directory and base name.
func immediateFilepath(file string) string {
	dir, base := filepath.Split(file)
	return filepath.Join(filepath.Base(dir), base)
}

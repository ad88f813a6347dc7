package middleware

import (
	"net/http"
	"time"

	"github.com/castellanoconmh/aula"
	"github.com/castellanoconmh/aula/logger"
)

// A statusWriter remembers the status code written through it.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (sw *statusWriter) WriteHeader(code int) {
	if sw.status == 0 {
		sw.status = code
	}
	sw.ResponseWriter.WriteHeader(code)
}

func (sw *statusWriter) Write(b []byte) (int, error) {
	if sw.status == 0 {
		sw.status = http.StatusOK
	}
	return sw.ResponseWriter.Write(b)
}

// Flush lets streaming handlers flush through the statusWriter.
func (sw *statusWriter) Flush() {
	if f, ok := sw.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (sw *statusWriter) Unwrap() http.ResponseWriter { return sw.ResponseWriter }

// LogRequest logs the request's method, requested URL, originating IP address,
// response status and duration using the enclosed implementation of logger.Logger.
//
// LogRequest scrubs the values for the following query keys:
// - code
// - password
//
// if logger.Logger is nil, NoopAdapter returns and this middleware does nothing.
func LogRequest(ls logger.Logger) Adapter {
	if ls == nil {
		return NoopAdapter
	}

	return func(h http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := &statusWriter{ResponseWriter: w}
			h.ServeHTTP(sw, r)

			q := r.URL.Query()
			aula.Mask(q, "code")
			aula.Mask(q, "password")

			uri := r.URL.Path
			if query := q.Encode(); query != "" {
				uri += "?" + query
			}

			data := map[string]any{
				"duration_ms": time.Since(start).Milliseconds(),
				"ip":          IPAddress(r.Context()),
				"status":      sw.status,
			}
			if id, ok := r.Context().Value(aula.RequestIDKey).(string); ok {
				data["request_id"] = id
			}

			ls.Info(r.Method+" "+uri, &logger.LogContext{Data: data})
		})
	}
}

package middleware

import (
	"context"
	"net/http"

	"github.com/castellanoconmh/aula"
	"github.com/google/uuid"
)

// RequestIDHeader echoes the request id back to the client.
const RequestIDHeader = "X-Request-Id"

// RequestID adds a uuid to the request context under aula.RequestIDKey
// and the response headers.
func RequestID() Adapter {
	return func(h http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := uuid.NewString()
			w.Header().Set(RequestIDHeader, id)
			h.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), aula.RequestIDKey, id)))
		})
	}
}

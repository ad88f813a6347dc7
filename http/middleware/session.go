package middleware

import (
	"context"
	"net/http"

	"github.com/castellanoconmh/aula"
	"github.com/castellanoconmh/aula/http/session"
)

// InjectSession stores the session associated with the *http.Request in *http.Request.Context
// under aula.SessionKey.
//
// A cookie that fails decoding yields a fresh session.
// If store is nil, NoopAdapter returns and this middleware does nothing.
func InjectSession(store session.SessionStorer) Adapter {
	if store == nil {
		return NoopAdapter
	}

	return func(h http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s, _ := store.GetSession(r)
			h.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), aula.SessionKey, s)))
		})
	}
}

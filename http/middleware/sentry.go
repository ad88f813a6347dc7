package middleware

import (
	"net/http"

	"github.com/castellanoconmh/aula"
	sentryhttp "github.com/getsentry/sentry-go/http"
)

// ReportPanic recovers panics in handlers further down the chain,
// reporting them to Sentry and responding 500.
//
// In development panics are left alone so they surface in the terminal.
func ReportPanic(env aula.Environment) Adapter {
	if env.IsDevelopment() {
		return NoopAdapter
	}

	sh := sentryhttp.New(sentryhttp.Options{Repanic: false})

	return func(handler http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var finished bool
			sh.Handle(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				handler.ServeHTTP(w, r)
				finished = true
			})).ServeHTTP(w, r)

			if !finished {
				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			}
		})
	}
}

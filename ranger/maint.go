package ranger

import (
	"net/http"

	"github.com/castellanoconmh/aula/http/template"
	"github.com/castellanoconmh/aula/logger"
)

// MaintModeHandler responds 503 with a Retry-After of ten minutes to every request.
// GET requests asking for HTML get the maintenance page as well.
func MaintModeHandler(p template.Parser, l logger.Logger, contact string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "600")
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}

		tmpl, err := p.Parse(MaintTmpl)
		if err != nil {
			l.Error("parsing maintenance template", &logger.LogContext{Error: err, Request: r})
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusServiceUnavailable)
		if err := tmpl.Execute(w, map[string]string{"Contact": contact}); err != nil {
			l.Error("rendering maintenance template", &logger.LogContext{Error: err, Request: r})
		}
	}
}

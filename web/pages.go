package web

import (
	"net/http"

	"github.com/castellanoconmh/aula/access"
	"github.com/castellanoconmh/aula/course"
	"github.com/castellanoconmh/aula/http/middleware"
	"github.com/castellanoconmh/aula/http/resp"
	"github.com/castellanoconmh/aula/http/session"
)

type landingPage struct {
	Home string
}

// getLanding welcomes visitors and points signed in ones to their home.
func (h *Handler) getLanding(w http.ResponseWriter, r *http.Request) {
	var p landingPage
	if u, ok := middleware.CurrentUserFrom(r.Context()); ok {
		p.Home = u.HomePath()
	}

	h.render(w, r, landingTmpl, p)
}

type dashboardPage struct {
	course.Catalog
	Admin bool
}

// getDashboard lists the course for visitors RequireEntitlement let through.
func (h *Handler) getDashboard(w http.ResponseWriter, r *http.Request) {
	catalog, err := h.course.Catalog(r.Context())
	if err != nil {
		h.render(w, r, dashboardTmpl, dashboardPage{},
			resp.Err(err),
			resp.Code(http.StatusServiceUnavailable),
			resp.Flash(session.Flash{Type: session.FlashError, Msg: session.RetryMsg}),
		)
		return
	}

	h.render(w, r, dashboardTmpl, dashboardPage{
		Catalog: catalog,
		Admin:   middleware.GateState(r.Context()) == access.AdminAuthorized,
	})
}

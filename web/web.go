// Package web serves the site's pages: the landing page, sign in, code redemption,
// the student dashboard and the admin panel.
package web

import (
	"embed"
	"io/fs"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/castellanoconmh/aula"
	"github.com/castellanoconmh/aula/access"
	"github.com/castellanoconmh/aula/auth"
	"github.com/castellanoconmh/aula/course"
	"github.com/castellanoconmh/aula/http/middleware"
	"github.com/castellanoconmh/aula/http/req"
	"github.com/castellanoconmh/aula/http/resp"
	"github.com/castellanoconmh/aula/http/router"
	"github.com/castellanoconmh/aula/logger"
	"github.com/castellanoconmh/aula/ranger"
	"github.com/castellanoconmh/aula/watch"
	"golang.org/x/time/rate"
)

const (
	adminTmpl     = "tmpl/admin.tmpl"
	confirmTmpl   = "tmpl/confirm.tmpl"
	dashboardTmpl = "tmpl/dashboard.tmpl"
	landingTmpl   = "tmpl/landing.tmpl"
	loginTmpl     = "tmpl/login.tmpl"
	redeemTmpl    = "tmpl/redeem.tmpl"
	registerTmpl  = "tmpl/register.tmpl"

	logoffPath = "/logoff"
)

var (
	//go:embed tmpl
	tmplFS embed.FS

	//go:embed static
	staticFS embed.FS
)

// Templates returns the page templates, at paths like "tmpl/login.tmpl".
func Templates() fs.FS { return tmplFS }

// Static returns the stylesheet and scripts served under /static/.
func Static() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}

	return sub
}

// A Handler serves every page of the site.
type Handler struct {
	*resp.Responder

	auth     *auth.Service
	codes    *access.Codes
	course   *course.Service
	env      aula.Environment
	gate     *access.Gate
	hub      watch.Hub
	logger   logger.Logger
	parser   *req.Parser
	redeemer *access.Redeemer

	keepAlive   time.Duration
	unsubscribe func()
}

// New constructs a Handler from the services rng assembled.
func New(rng *ranger.Ranger) *Handler {
	h := &Handler{
		Responder: rng.Responder,
		auth:      rng.Auth,
		codes:     rng.Codes,
		course:    rng.Course,
		env:       rng.EmitEnv(),
		gate:      rng.Gate,
		hub:       rng.EmitHub(),
		logger:    rng.EmitLogger(),
		parser:    req.NewParser(),
		redeemer:  rng.Redeemer,
		keepAlive: 25 * time.Second,
	}
	h.unsubscribe = rng.Auth.OnIdentityChange(h.logIdentity)

	return h
}

// Close stops listening for sign ins and sign outs.
func (h *Handler) Close() { h.unsubscribe() }

// Routes registers every route on rng's Router.
// In maintenance mode, every request gets the maintenance page instead.
func (h *Handler) Routes(rng *ranger.Ranger) {
	r := rng.Router

	r.OnEveryRequest(
		middleware.RequestID(),
		middleware.InjectIPAddress(),
		middleware.ForceHTTPS(h.env),
		middleware.LogRequest(rng.EmitHTTPLogger()),
	)

	if rng.MaintenanceMode() {
		r.CatchAll(rng.MaintModeHandler())
		return
	}

	r.OnEveryRequest(
		middleware.InjectSession(rng.EmitSessionStore()),
		middleware.CurrentUser(h.Responder, h.auth.CurrentUser),
	)

	r.Static("/static/", Static())
	r.HandleNotFound(h.notFound)

	signIns := middleware.RateLimit(middleware.NewVisitors(rate.Every(6*time.Second), 5))
	redemptions := middleware.RateLimit(middleware.NewVisitors(rate.Every(6*time.Second), 5))
	idempotent := middleware.Idempotent(rng.EmitIdempotencyCache())
	adminOnly := middleware.NewAuthorizeApplicator[aula.User](h.Responder).Apply(access.AdminOnly)

	r.HandleRoutes([]router.Route{
		{Path: "/", Method: http.MethodGet, Handler: h.getLanding},
		{Path: logoffPath, Method: http.MethodGet, Handler: h.getLogoff},
	})

	r.UnauthedRoutes([]router.Route{
		{Path: access.LoginPath, Method: http.MethodGet, Handler: h.getLogin},
		{Path: access.LoginPath, Method: http.MethodPost, Handler: h.postLogin, Middlewares: []middleware.Adapter{signIns}},
		{Path: "/login/code", Method: http.MethodPost, Handler: h.postLoginCode, Middlewares: []middleware.Adapter{redemptions}},
		{Path: "/register", Method: http.MethodGet, Handler: h.getRegister},
		{Path: "/register", Method: http.MethodPost, Handler: h.postRegister, Middlewares: []middleware.Adapter{signIns}},
		{Path: "/auth/google", Method: http.MethodGet, Handler: h.getGoogle},
		{Path: "/auth/google/callback", Method: http.MethodGet, Handler: h.getGoogleCallback},
	})

	r.AuthedRoutes(access.LoginPath, logoffPath, []router.Route{
		{Path: access.RedeemPath, Method: http.MethodGet, Handler: h.getRedeem},
		{Path: access.RedeemPath, Method: http.MethodPost, Handler: h.postRedeem, Middlewares: []middleware.Adapter{redemptions}},
	})

	r.HandleRoutes(
		[]router.Route{{Path: access.DashboardPath, Method: http.MethodGet, Handler: h.getDashboard}},
		middleware.RequireEntitlement(h.Responder, h.gate, access.ViewDashboard),
	)

	admin := []router.Route{
		{Path: access.AdminPath, Method: http.MethodGet, Handler: h.getAdmin},
		{Path: "/admin/videos", Method: http.MethodPost, Handler: h.postVideo},
		{Path: "/admin/exams", Method: http.MethodPost, Handler: h.postExam},
		{Path: "/admin/codes", Method: http.MethodPost, Handler: h.postCode, Middlewares: []middleware.Adapter{idempotent}},
		{Path: "/admin/live/{collection}", Method: http.MethodGet, Handler: h.getLive},
		{Path: "/admin/{collection}/{id:[0-9]+}/delete", Method: http.MethodGet, Handler: h.getConfirmDelete},
		{Path: "/admin/{collection}/{id:[0-9]+}/delete", Method: http.MethodPost, Handler: h.postDelete},
	}
	if h.env.ToolboxEnabled() {
		admin = append(admin, router.Route{
			Path: "/admin/toolbox/{collection}", Method: http.MethodPost, Handler: h.postTool,
			Middlewares: []middleware.Adapter{idempotent},
		})
	}
	r.AuthedRoutes(access.LoginPath, logoffPath, admin, adminOnly)

	api := r.Subrouter("/api")
	cors := middleware.CORS(origin(rng.EmitURL()))
	api.HandleRoutes([]router.Route{
		{Path: "/redeem", Method: http.MethodPost, Handler: h.postAPIRedeem, Middlewares: []middleware.Adapter{redemptions}},
		{Path: "/redeem", Method: http.MethodOptions, Handler: func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		}},
		{Path: "/state", Method: http.MethodGet, Handler: h.getAPIState},
	}, cors)
}

// notFound sends lost visitors home and everyone else a 404.
func (h *Handler) notFound(w http.ResponseWriter, r *http.Request) {
	if wantsHTML(r) && r.URL.Path != "/" {
		h.redirect(w, r, "/")
		return
	}

	w.WriteHeader(http.StatusNotFound)
}

// logIdentity records every sign in and sign out.
func (h *Handler) logIdentity(c auth.Change) {
	h.logger.Info(c.Event.String(), &logger.LogContext{User: c.User})
}

// render writes tmpl inside the authed layout when someone is signed in,
// and the unauthed one otherwise.
func (h *Handler) render(w http.ResponseWriter, r *http.Request, tmpl string, data any, opts ...resp.Fn) {
	layout := resp.Unauthed()
	if _, ok := middleware.CurrentUserFrom(r.Context()); ok {
		layout = resp.Authed()
	}

	h.Html(w, r, append([]resp.Fn{layout, resp.Tmpls(tmpl), resp.Data(data)}, opts...)...)
}

// redirect sends the visitor to u, applying opts.
func (h *Handler) redirect(w http.ResponseWriter, r *http.Request, u string, opts ...resp.Fn) {
	if err := h.Redirect(w, r, append([]resp.Fn{resp.Url(u)}, opts...)...); err != nil {
		h.Err(w, r, err)
	}
}

func origin(u *url.URL) string { return u.Scheme + "://" + u.Host }

func wantsHTML(r *http.Request) bool {
	for _, v := range r.Header.Values("Accept") {
		if strings.Contains(v, "text/html") {
			return true
		}
	}

	return false
}

package web

import (
	"errors"
	"net/http"

	"github.com/castellanoconmh/aula"
	"github.com/castellanoconmh/aula/access"
	"github.com/castellanoconmh/aula/auth"
	"github.com/castellanoconmh/aula/http/middleware"
	"github.com/castellanoconmh/aula/http/resp"
	"github.com/castellanoconmh/aula/http/session"
)

type loginPage struct {
	BearerMode    bool
	GoogleEnabled bool
	Next          string
	Tab           string
}

func (h *Handler) getLogin(w http.ResponseWriter, r *http.Request) {
	var q nextQuery
	h.parser.ParseQueryParams(r.URL.Query(), &q)

	tab := r.URL.Query().Get("tab")
	switch tab {
	case "code", "account", "admin":
	default:
		tab = "code"
	}

	h.render(w, r, loginTmpl, loginPage{
		BearerMode:    h.redeemer.Policy() == access.PolicyBearer,
		GoogleEnabled: h.auth.GoogleEnabled(),
		Next:          auth.SafeNext(q.Next),
		Tab:           tab,
	})
}

func (h *Handler) postLogin(w http.ResponseWriter, r *http.Request) {
	var f loginForm
	if err := h.parser.ParseForm(r, &f); err != nil {
		h.redirect(w, r, access.LoginPath+"?tab=account", resp.Warn(session.BadCredsMsg))
		return
	}

	u, err := h.auth.SignIn(r.Context(), auth.Credentials{Email: f.Email, Password: f.Password})
	switch {
	case errors.Is(err, auth.ErrAuth):
		h.redirect(w, r, access.LoginPath+"?tab=account", resp.Warn(session.BadCredsMsg))
		return
	case err != nil:
		h.redirect(w, r, access.LoginPath+"?tab=account", resp.GenericErr(err))
		return
	}

	h.signIn(w, r, u, f.Next)
}

// postLoginCode signs visitors in with nothing but a code.
// Only bearer mode has such visitors.
func (h *Handler) postLoginCode(w http.ResponseWriter, r *http.Request) {
	if h.redeemer.Policy() != access.PolicyBearer {
		http.NotFound(w, r)
		return
	}

	var f codeForm
	if err := h.parser.ParseForm(r, &f); err != nil {
		h.redirect(w, r, access.LoginPath, resp.Warn(session.InvalidCodeMsg))
		return
	}

	res, err := h.redeemer.Redeem(r.Context(), f.Code, access.Actor{})
	if err != nil {
		h.redirect(w, r, access.LoginPath, redeemFlash(err))
		return
	}

	if err := h.keepToken(w, r, res.Token); err != nil {
		h.redirect(w, r, access.LoginPath, resp.GenericErr(err))
		return
	}

	h.redirect(w, r, access.DashboardPath, resp.Success(session.WelcomeMsg))
}

func (h *Handler) getRegister(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, registerTmpl, nil)
}

func (h *Handler) postRegister(w http.ResponseWriter, r *http.Request) {
	var f registerForm
	if err := h.parser.ParseForm(r, &f); err != nil {
		h.redirect(w, r, "/register", resp.Warn(session.BadInputMsg))
		return
	}

	if len(f.Password) < auth.MinPasswordLen {
		h.redirect(w, r, "/register", resp.Warn(session.WeakPasswordMsg))
		return
	}

	u, err := h.auth.Register(r.Context(), f.Email, f.Password)
	switch {
	case errors.Is(err, aula.ErrExists):
		h.redirect(w, r, "/register", resp.Warn(session.EmailTakenMsg))
		return
	case errors.Is(err, aula.ErrNotValid):
		h.redirect(w, r, "/register", resp.Warn(session.BadInputMsg))
		return
	case err != nil:
		h.redirect(w, r, "/register", resp.GenericErr(err))
		return
	}

	h.signIn(w, r, u, access.RedeemPath)
}

func (h *Handler) getGoogle(w http.ResponseWriter, r *http.Request) {
	if !h.auth.GoogleEnabled() {
		http.NotFound(w, r)
		return
	}

	u, nonce, err := h.auth.AuthCodeURL(r.URL.Query().Get("next"))
	if err != nil {
		h.redirect(w, r, access.LoginPath, resp.GenericErr(err))
		return
	}

	s, err := h.Session(r.Context())
	if err != nil {
		h.redirect(w, r, access.LoginPath, resp.GenericErr(err))
		return
	}

	if err := s.SetNonce(w, r, nonce); err != nil {
		h.redirect(w, r, access.LoginPath, resp.GenericErr(err))
		return
	}

	http.Redirect(w, r, u, http.StatusSeeOther)
}

func (h *Handler) getGoogleCallback(w http.ResponseWriter, r *http.Request) {
	if !h.auth.GoogleEnabled() {
		http.NotFound(w, r)
		return
	}

	s, err := h.Session(r.Context())
	if err != nil {
		h.redirect(w, r, access.LoginPath, resp.GenericErr(err))
		return
	}

	nonce, err := s.TakeNonce(w, r)
	if err != nil {
		h.redirect(w, r, access.LoginPath, resp.GenericErr(err))
		return
	}

	var q googleCallbackQuery
	if err := h.parser.ParseQueryParams(r.URL.Query(), &q); err != nil || q.Error != "" || q.Code == "" {
		h.redirect(w, r, access.LoginPath, resp.Warn(session.BadCredsMsg))
		return
	}

	u, next, err := h.auth.SignInFederated(r.Context(), q.Code, q.State, nonce)
	switch {
	case errors.Is(err, auth.ErrAuth):
		h.redirect(w, r, access.LoginPath, resp.Warn(session.BadCredsMsg))
		return
	case err != nil:
		h.redirect(w, r, access.LoginPath, resp.GenericErr(err))
		return
	}

	h.signIn(w, r, u, next)
}

// getLogoff signs the visitor out and forgets any code kept for them.
func (h *Handler) getLogoff(w http.ResponseWriter, r *http.Request) {
	if u, ok := middleware.CurrentUserFrom(r.Context()); ok {
		h.auth.SignOut(r.Context(), u)
	}

	s, err := h.Session(r.Context())
	if err != nil {
		h.Err(w, r, err)
		return
	}

	if err := s.ClearToken(w, r); err != nil {
		h.Err(w, r, err)
		return
	}

	if err := s.DeregisterUser(w, r); err != nil {
		h.Err(w, r, err)
		return
	}

	h.redirect(w, r, access.LoginPath, resp.Flash(session.Flash{Type: session.FlashInfo, Msg: session.SignedOutMsg}))
}

// signIn registers u in the session and sends them to next, or home.
func (h *Handler) signIn(w http.ResponseWriter, r *http.Request, u aula.User, next string) {
	s, err := h.Session(r.Context())
	if err != nil {
		h.Err(w, r, err)
		return
	}

	if err := s.RegisterUser(w, r, u.ID); err != nil {
		h.redirect(w, r, access.LoginPath, resp.GenericErr(err))
		return
	}

	dest := auth.SafeNext(next)
	if dest == "" || (dest == access.AdminPath && !u.IsAdmin()) {
		dest = u.HomePath()
	}

	h.redirect(w, r, dest, resp.Success(session.WelcomeMsg))
}

// keepToken stores a bearer token in the visitor's session.
func (h *Handler) keepToken(w http.ResponseWriter, r *http.Request, token string) error {
	s, err := h.Session(r.Context())
	if err != nil {
		return err
	}

	return s.SetToken(w, r, token)
}

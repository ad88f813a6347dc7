package web

import (
	"errors"
	"net/http"

	"github.com/castellanoconmh/aula"
	"github.com/castellanoconmh/aula/access"
	"github.com/castellanoconmh/aula/http/middleware"
	"github.com/castellanoconmh/aula/http/resp"
	"github.com/castellanoconmh/aula/http/session"
)

type redeemPage struct {
	BearerMode bool
}

func (h *Handler) getRedeem(w http.ResponseWriter, r *http.Request) {
	u, _ := middleware.CurrentUserFrom(r.Context())
	if state, err := h.gate.Resolve(r.Context(), h.visitor(r, &u)); err == nil && state.Allows(access.ViewDashboard) {
		h.redirect(w, r, u.HomePath())
		return
	}

	h.render(w, r, redeemTmpl, redeemPage{BearerMode: h.redeemer.Policy() == access.PolicyBearer})
}

func (h *Handler) postRedeem(w http.ResponseWriter, r *http.Request) {
	var f codeForm
	if err := h.parser.ParseForm(r, &f); err != nil {
		h.redirect(w, r, access.RedeemPath, resp.Warn(session.InvalidCodeMsg))
		return
	}

	u, _ := middleware.CurrentUserFrom(r.Context())
	res, err := h.redeemer.Redeem(r.Context(), f.Code, access.Actor{User: &u})
	if errors.Is(err, access.ErrAuth) {
		h.redirect(w, r, access.LoginPath, resp.Warn(session.SignInFirstMsg))
		return
	}

	if err != nil {
		h.redirect(w, r, access.RedeemPath, redeemFlash(err))
		return
	}

	if res.Token != "" {
		if err := h.keepToken(w, r, res.Token); err != nil {
			h.redirect(w, r, access.RedeemPath, resp.GenericErr(err))
			return
		}
	}

	h.redirect(w, r, access.DashboardPath, resp.Success(session.RedeemedMsg))
}

// postAPIRedeem redeems a code for scripts and single page clients.
//
//	200 the code was accepted
//	400 the code is malformed or unknown
//	401 sign in first
//	409 the code was already used
//	503 the code could not be checked, try again
func (h *Handler) postAPIRedeem(w http.ResponseWriter, r *http.Request) {
	var f codeForm
	if err := h.parser.ParseBody(r.Body, &f); err != nil {
		h.Json(w, r, resp.Code(http.StatusBadRequest), resp.Data(apiError(session.InvalidCodeMsg)))
		return
	}

	var actor access.Actor
	if u, ok := middleware.CurrentUserFrom(r.Context()); ok {
		actor.User = &u
	}

	res, err := h.redeemer.Redeem(r.Context(), f.Code, actor)
	switch {
	case errors.Is(err, access.ErrAuth):
		h.Json(w, r, resp.Code(http.StatusUnauthorized), resp.Data(apiError(session.SignInFirstMsg)))
		return
	case errors.Is(err, access.ErrAlreadyUsed):
		h.Json(w, r, resp.Code(http.StatusConflict), resp.Data(apiError(session.AlreadyUsedMsg)))
		return
	case errors.Is(err, access.ErrInvalidCode):
		h.Json(w, r, resp.Code(http.StatusBadRequest), resp.Data(apiError(session.InvalidCodeMsg)))
		return
	case err != nil:
		w.Header().Set("Retry-After", "5")
		h.Json(w, r, resp.Code(http.StatusServiceUnavailable), resp.Data(apiError(session.RetryMsg)))
		return
	}

	if res.Token != "" {
		if err := h.keepToken(w, r, res.Token); err != nil {
			h.Err(w, r, err)
			return
		}
	}

	h.Json(w, r, resp.Data(map[string]any{
		"state": access.Entitled.String(),
		"token": res.Token,
	}))
}

// getAPIState reports what the Gate knows about the caller.
func (h *Handler) getAPIState(w http.ResponseWriter, r *http.Request) {
	var u *aula.User
	if cu, ok := middleware.CurrentUserFrom(r.Context()); ok {
		u = &cu
	}

	state, err := h.gate.Resolve(r.Context(), h.visitor(r, u))
	if err != nil {
		w.Header().Set("Retry-After", "5")
		h.Json(w, r, resp.Code(http.StatusServiceUnavailable), resp.Data(map[string]string{"state": state.String()}))
		return
	}

	h.Json(w, r, resp.Data(map[string]any{
		"policy": h.gate.Policy().String(),
		"state":  state.String(),
	}))
}

// visitor pairs u with the token kept in the session.
// A zero User counts as nobody.
func (h *Handler) visitor(r *http.Request, u *aula.User) access.Visitor {
	var v access.Visitor
	if u != nil && u.ID != 0 {
		v.User = u
	}

	if s, err := h.Session(r.Context()); err == nil {
		v.Token = s.Token()
	}

	return v
}

// redeemFlash maps a redemption failure to what the visitor reads.
func redeemFlash(err error) resp.Fn {
	switch {
	case errors.Is(err, access.ErrAlreadyUsed):
		return resp.Warn(session.AlreadyUsedMsg)
	case errors.Is(err, access.ErrInvalidCode):
		return resp.Warn(session.InvalidCodeMsg)
	default:
		return resp.Flash(session.Flash{Type: session.FlashError, Msg: session.RetryMsg})
	}
}

func apiError(msg string) map[string]string { return map[string]string{"error": msg} }

package middleware

import (
	"context"
	"net/http"

	"github.com/castellanoconmh/aula"
	"github.com/castellanoconmh/aula/access"
	"github.com/castellanoconmh/aula/http/resp"
	"github.com/castellanoconmh/aula/http/session"
)

// RequireEntitlement resolves the access.State of every visitor to view
// and stores it under aula.GateStateKey.
// Visitors the State allows pass on; everyone else is redirected
// where State.RedirectFor sends them, with a flash saying why.
// Requests accepting JSON get 401 or 403 and the State instead.
//
// The visitor is the user CurrentUser stored, if any,
// plus the bearer token kept in the session.
func RequireEntitlement(d *resp.Responder, gate *access.Gate, view access.View) Adapter {
	if d == nil || gate == nil {
		return NoopAdapter
	}

	return func(handler http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var v access.Visitor
			if u, ok := CurrentUserFrom(r.Context()); ok {
				v.User = &u
			}

			if s, err := d.Session(r.Context()); err == nil {
				v.Token = s.Token()
			}

			state, err := gate.Resolve(r.Context(), v)
			r = r.WithContext(context.WithValue(r.Context(), aula.GateStateKey, state))
			if err == nil && state.Allows(view) {
				handler.ServeHTTP(w, r)
				return
			}

			code := http.StatusForbidden
			flash := session.Flash{Type: session.FlashWarning, Msg: session.NoAccessMsg}
			switch {
			case err != nil:
				code = http.StatusServiceUnavailable
				flash = session.Flash{Type: session.FlashError, Msg: session.RetryMsg}
			case state == access.Unauthenticated:
				code = http.StatusUnauthorized
				flash.Msg = session.SignInFirstMsg
			case state == access.AuthenticatedNoEntitlement:
				flash = session.Flash{Type: session.FlashInfo, Msg: session.NeedCodeMsg}
			}

			if wantsJSON(r) {
				d.Json(w, r, resp.Code(code), resp.Data(map[string]string{"state": state.String()}))
				return
			}

			opts := []resp.Fn{resp.Url(state.RedirectFor(view)), resp.Flash(flash)}
			if state == access.Unauthenticated && r.Method == http.MethodGet {
				opts = append(opts, resp.Param("next", r.URL.RequestURI()))
			}

			if err := d.Redirect(w, r, opts...); err != nil {
				d.Err(w, r, err)
			}
		})
	}
}

// GateState returns the access.State RequireEntitlement resolved for the request.
func GateState(ctx context.Context) access.State {
	s, _ := ctx.Value(aula.GateStateKey).(access.State)
	return s
}

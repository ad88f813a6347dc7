package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"github.com/castellanoconmh/aula"
	"github.com/castellanoconmh/aula/http/resp"
	"github.com/castellanoconmh/aula/http/session"
)

// UserStorer defines how to retrieve a User by an ID in the context of middleware.
type UserStorer func(ctx context.Context, id uint) (aula.User, error)

// CurrentUser pulls the User out of the session stored in the *http.Request.Context
// and stores it under aula.CurrentUserKey.
//
// A request without a user in its session passes through untouched;
// access control middlewares decide what it may see.
//
// A user that cannot be found or no longer has access is signed out.
// CurrentUser writes 401 if the "Accept" MIME type is "application/json",
// and otherwise redirects to the login page.
func CurrentUser(d *resp.Responder, storer UserStorer) Adapter {
	if d == nil || storer == nil {
		return NoopAdapter
	}

	return func(handler http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s, err := d.Session(r.Context())
			if err != nil {
				handleErr(w, r, http.StatusUnauthorized, d, err)
				return
			}

			uid, err := s.UserID()
			if err != nil {
				handler.ServeHTTP(w, r)
				return
			}

			user, err := storer(r.Context(), uid)
			if err != nil {
				if errors.Is(err, aula.ErrNotFound) {
					err = nil
				}

				if nested := s.Delete(w, r); nested != nil {
					handleErr(w, r, http.StatusInternalServerError, d, nested)
					return
				}

				handleErr(w, r, http.StatusUnauthorized, d, err)
				return
			}

			if !user.HasAccess() {
				if err := s.DeregisterUser(w, r); err != nil {
					handleErr(w, r, http.StatusInternalServerError, d, err)
					return
				}

				handleErr(w, r, http.StatusUnauthorized, d, nil)
				return
			}

			if err := s.ResetExpiry(w, r); err != nil {
				handleErr(w, r, http.StatusInternalServerError, d, err)
				return
			}

			w.Header().Add("Cache-Control", "no-store")
			w.Header().Add("Pragma", "no-cache")

			ctx := context.WithValue(r.Context(), aula.CurrentUserKey, user)
			handler.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// CurrentUserFrom returns the user CurrentUser stored in ctx.
func CurrentUserFrom(ctx context.Context) (aula.User, bool) {
	u, ok := ctx.Value(aula.CurrentUserKey).(aula.User)
	return u, ok
}

// RequireUnauthed returns a middleware.Adapter that requires a user not be authenticated.
// When they are not authenticated, RequireUnauthed hands off to the next part of the middleware chain.
//
// Authenticated means a User is set in the request context under aula.CurrentUserKey.
//
// When the User is authenticated, and the request accepts JSON,
// RequireUnauthed writes 400 to the client.
// Otherwise, RequireUnauthed redirects to User's HomePath.
func RequireUnauthed() Adapter {
	return func(handler http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if cu, ok := CurrentUserFrom(r.Context()); ok {
				if wantsJSON(r) {
					w.WriteHeader(http.StatusBadRequest)
					return
				}

				http.Redirect(w, r, cu.HomePath(), http.StatusSeeOther)
				return
			}

			handler.ServeHTTP(w, r)
		})
	}
}

// RequireAuthed returns a middleware.Adapter that requires a User be authenticated.
// When the User is authenticated, then RequireAuthed hands off to the next part of the middleware chain.
//
// When the User is not authenticated, and the request accepts JSON,
// RequireAuthed writes 401 to the client.
// Otherwise, RequireAuthed redirects to the provided login URL.
//
// The URL originally requested is appended to as a "next" query param
// when the request method is GET and the endpoint is not the logoff URL.
func RequireAuthed(loginUrl, logoffUrl string) Adapter {
	return func(handler http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := CurrentUserFrom(r.Context()); !ok {
				if wantsJSON(r) {
					w.WriteHeader(http.StatusUnauthorized)
					return
				}

				u := loginUrl
				if r.Method == http.MethodGet && r.URL.Path != logoffUrl {
					u += "?next=" + url.QueryEscape(r.URL.RequestURI())
				}

				http.Redirect(w, r, u, http.StatusSeeOther)
				return
			}

			handler.ServeHTTP(w, r)
		})
	}
}

// handleErr helps CurrentUser error paths by writing responses reflecting the
// "Accept" type of the *http.Request.
func handleErr(w http.ResponseWriter, r *http.Request, code int, d *resp.Responder, err error) {
	var opts []resp.Fn
	if err != nil {
		opts = append(opts, resp.Err(err))
	}
	opts = append(opts, resp.Code(code))

	if wantsJSON(r) {
		d.Json(w, r, opts...)
		return
	}

	opts = append(opts, resp.Url("/login"))
	if code == http.StatusUnauthorized {
		opts = append(opts, resp.Flash(session.Flash{Type: session.FlashWarning, Msg: session.SignInFirstMsg}))
	}

	if err := d.Redirect(w, r, opts...); err != nil {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
	}
}

package middleware

import (
	"net/http"

	"github.com/castellanoconmh/aula"
	"github.com/castellanoconmh/aula/http/resp"
	"github.com/castellanoconmh/aula/http/session"
)

// An AuthorizeApplicator constructs Adapters that apply custom authorization rules
// for users, as specified by type T.
type AuthorizeApplicator[T any] struct {
	d *resp.Responder
}

// NewAuthorizeApplicator constructs an AuthorizeApplicator for type T.
// Apply methods for the constructed AuthorizeApplicator will use the Responder for redirects.
// Apply methods will use aula.CurrentUserKey to pull a user out of the request Context.
func NewAuthorizeApplicator[T any](d *resp.Responder) AuthorizeApplicator[T] {
	return AuthorizeApplicator[T]{d}
}

// Apply wraps a custom function validating the authorization of a user,
// whose type is specified by T.
//
// The provided custom function returns either true and an empty string,
// meaning the user is authorized, or false and a valid URL as a string.
//
// If the custom function returns false,
// Apply does not pass the request to the next handler in the middleware stack.
// Instead, requests accepting JSON get 401 with no user and 403 otherwise,
// and all others get a "no access" flash and a redirect to the URL the custom function returns.
//
// If fn is nil, Apply returns a NoopAdapter.
func (aa AuthorizeApplicator[T]) Apply(fn func(user T) (string, bool)) Adapter {
	if fn == nil {
		return NoopAdapter
	}

	return func(handler http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			val, ok := r.Context().Value(aula.CurrentUserKey).(T)
			if !ok {
				aa.deny(w, r, http.StatusUnauthorized, "/login")
				return
			}

			if url, ok := fn(val); !ok {
				aa.deny(w, r, http.StatusForbidden, url)
				return
			}

			handler.ServeHTTP(w, r)
		})
	}
}

func (aa AuthorizeApplicator[T]) deny(w http.ResponseWriter, r *http.Request, code int, url string) {
	if wantsJSON(r) {
		w.WriteHeader(code)
		return
	}

	f := session.Flash{Type: session.FlashWarning, Msg: session.NoAccessMsg}
	if err := aa.d.Redirect(w, r, resp.Url(url), resp.Flash(f)); err != nil {
		aa.d.Err(w, r, err)
	}
}

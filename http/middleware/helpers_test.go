package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/castellanoconmh/aula"
	"github.com/castellanoconmh/aula/http/middleware"
	"github.com/castellanoconmh/aula/http/resp"
	"github.com/castellanoconmh/aula/http/session"
	"github.com/castellanoconmh/aula/memstore"
	"github.com/stretchr/testify/require"
)

func newResponder() *resp.Responder {
	return resp.NewResponder(resp.WithRootUrl("https://example.com/"))
}

// withUser serves r through InjectSession + CurrentUser backed by store,
// the session already holding uid.
func withUser(store *memstore.Store, uid uint, next http.Handler) (http.Handler, *session.Stub) {
	stub := session.NewStub(uid)
	storer := func(ctx context.Context, id uint) (aula.User, error) { return store.FindUser(ctx, id) }
	return middleware.Chain(
		next,
		middleware.InjectSession(stub),
		middleware.CurrentUser(newResponder(), storer),
	), stub
}

func createUser(t *testing.T, store *memstore.Store, email string, role aula.Role, state aula.AccessState) aula.User {
	t.Helper()
	u := aula.User{Email: email, Role: role, AccessState: state}
	require.Nil(t, store.CreateUser(context.Background(), &u))
	return u
}

func flashesOf(t *testing.T, stub *session.Stub) []session.Flash {
	t.Helper()
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	s, err := stub.GetSession(r)
	require.Nil(t, err)
	return s.Flashes(httptest.NewRecorder(), r)
}

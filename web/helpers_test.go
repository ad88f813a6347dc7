package web_test

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/castellanoconmh/aula"
	"github.com/castellanoconmh/aula/http/session"
	"github.com/castellanoconmh/aula/logger"
	"github.com/castellanoconmh/aula/memstore"
	"github.com/castellanoconmh/aula/ranger"
	"github.com/castellanoconmh/aula/web"
	"github.com/stretchr/testify/require"
)

const (
	testKey      = "0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef"
	testPassword = "contraseña-segura"
)

// A site is the whole web app over a memstore,
// visited by a single browser whose session is stub.
type site struct {
	rng   *ranger.Ranger
	store *memstore.Store
	stub  *session.Stub
}

func newSite(t *testing.T) *site {
	t.Helper()
	t.Setenv("SESSION_AUTH_KEY", testKey)
	t.Setenv("SESSION_ENCRYPTION_KEY", testKey)
	t.Setenv("REDIS_URL", "")

	s := &site{store: memstore.New(), stub: session.NewStub(0)}
	rng, err := ranger.New(
		ranger.WithEnv(aula.Testing.String()),
		ranger.WithLogger(logger.New(ranger.NewSlogger(aula.AppLogKind, aula.Testing, new(bytes.Buffer)), 0, aula.AppLogKind)),
		ranger.WithSessionStore(s.stub),
		ranger.WithStore(s.store),
		ranger.WithTemplates(web.Templates()),
	)
	require.Nil(t, err)
	s.rng = rng

	h := web.New(rng)
	h.Routes(rng)
	t.Cleanup(h.Close)

	return s
}

// user creates a user with role and signs them in.
func (s *site) user(t *testing.T, email string, role aula.Role) aula.User {
	t.Helper()
	u, err := s.rng.Auth.Create(context.Background(), email, testPassword, role)
	require.Nil(t, err)
	s.signIn(t, u.ID)
	return u
}

func (s *site) signIn(t *testing.T, id uint) {
	t.Helper()
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	sess, err := s.stub.GetSession(r)
	require.Nil(t, err)
	require.Nil(t, sess.RegisterUser(httptest.NewRecorder(), r, id))
}

func (s *site) signOut(t *testing.T) {
	t.Helper()
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	sess, err := s.stub.GetSession(r)
	require.Nil(t, err)
	require.Nil(t, sess.DeregisterUser(httptest.NewRecorder(), r))
	require.Nil(t, sess.ClearToken(httptest.NewRecorder(), r))
}

func (s *site) flashes(t *testing.T) []session.Flash {
	t.Helper()
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	sess, err := s.stub.GetSession(r)
	require.Nil(t, err)
	return sess.Flashes(httptest.NewRecorder(), r)
}

func (s *site) get(path string) *httptest.ResponseRecorder {
	r := httptest.NewRequest(http.MethodGet, path, nil)
	r.Header.Set("Accept", "text/html")
	w := httptest.NewRecorder()
	s.rng.Router.ServeHTTP(w, r)
	return w
}

func (s *site) post(path string, form url.Values) *httptest.ResponseRecorder {
	r := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	r.Header.Set("Accept", "text/html")
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	s.rng.Router.ServeHTTP(w, r)
	return w
}

func (s *site) postJSON(path, body string) *httptest.ResponseRecorder {
	r := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	r.Header.Set("Accept", "application/json")
	r.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.rng.Router.ServeHTTP(w, r)
	return w
}

func (s *site) code(t *testing.T) aula.AccessCode {
	t.Helper()
	ac, err := s.rng.Codes.Generate(context.Background())
	require.Nil(t, err)
	return ac
}

func requireRedirect(t *testing.T, w *httptest.ResponseRecorder, location string) {
	t.Helper()
	require.Equal(t, http.StatusSeeOther, w.Code)
	require.Equal(t, location, w.Header().Get("Location"))
}

func requireFlash(t *testing.T, s *site, msg string) {
	t.Helper()
	var msgs []string
	for _, f := range s.flashes(t) {
		msgs = append(msgs, f.Msg)
	}
	require.Contains(t, msgs, msg)
}

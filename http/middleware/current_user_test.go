package middleware_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/castellanoconmh/aula"
	"github.com/castellanoconmh/aula/http/middleware"
	"github.com/castellanoconmh/aula/http/session"
	"github.com/castellanoconmh/aula/memstore"
	"github.com/stretchr/testify/require"
)

func TestCurrentUser(t *testing.T) {
	// Arrange + Act
	actual := middleware.CurrentUser(nil, nil)

	// Assert
	require.Equal(t, fmt.Sprintf("%p", middleware.Adapter(middleware.NoopAdapter)), fmt.Sprintf("%p", actual))

	store := memstore.New()
	ana := createUser(t, store, "ana@example.com", aula.RoleStudent, aula.AccessGranted)
	gone := createUser(t, store, "gone@example.com", aula.RoleStudent, aula.AccessRevoked)

	t.Run("No-User-In-Session", func(t *testing.T) {
		// Arrange
		var found bool
		h, _ := withUser(store, 0, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, found = middleware.CurrentUserFrom(r.Context())
			w.WriteHeader(http.StatusTeapot)
		}))
		w := httptest.NewRecorder()

		// Act
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

		// Assert
		require.Equal(t, http.StatusTeapot, w.Code)
		require.False(t, found)
	})

	t.Run("User-Found", func(t *testing.T) {
		// Arrange
		var got aula.User
		h, _ := withUser(store, ana.ID, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got, _ = middleware.CurrentUserFrom(r.Context())
			w.WriteHeader(http.StatusTeapot)
		}))
		w := httptest.NewRecorder()

		// Act
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/dashboard", nil))

		// Assert
		require.Equal(t, http.StatusTeapot, w.Code)
		require.Equal(t, ana.Email, got.Email)
		require.Equal(t, "no-store", w.Header().Get("Cache-Control"))
	})

	t.Run("User-Missing", func(t *testing.T) {
		// Arrange
		h, _ := withUser(store, 999, teapotHandler())
		w := httptest.NewRecorder()

		// Act
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/dashboard", nil))

		// Assert
		require.Equal(t, http.StatusSeeOther, w.Code)
		require.Equal(t, "/login", w.Header().Get("Location"))
	})

	t.Run("User-Without-Access", func(t *testing.T) {
		// Arrange
		h, stub := withUser(store, gone.ID, teapotHandler())
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/api/redeem", nil)
		r.Header.Set("Accept", "application/json")

		// Act
		h.ServeHTTP(w, r)

		// Assert
		require.Equal(t, http.StatusUnauthorized, w.Code)
		s, _ := stub.GetSession(r)
		_, err := s.UserID()
		require.ErrorIs(t, err, session.ErrNoUser)
	})
}

func TestRequireAuthed(t *testing.T) {
	store := memstore.New()
	ana := createUser(t, store, "ana@example.com", aula.RoleStudent, aula.AccessGranted)

	tcs := []struct {
		name     string
		uid      uint
		method   string
		target   string
		json     bool
		code     int
		location string
	}{
		{"Authed", ana.ID, http.MethodGet, "/redeem", false, http.StatusTeapot, ""},
		{"Get-Next", 0, http.MethodGet, "/redeem?x=1", false, http.StatusSeeOther, "/login?next=%2Fredeem%3Fx%3D1"},
		{"Post-No-Next", 0, http.MethodPost, "/redeem", false, http.StatusSeeOther, "/login"},
		{"Logoff-No-Next", 0, http.MethodGet, "/logoff", false, http.StatusSeeOther, "/login"},
		{"Json", 0, http.MethodPost, "/api/redeem", true, http.StatusUnauthorized, ""},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			// Arrange
			h, _ := withUser(store, tc.uid, middleware.RequireAuthed("/login", "/logoff")(teapotHandler()))
			w := httptest.NewRecorder()
			r := httptest.NewRequest(tc.method, tc.target, nil)
			if tc.json {
				r.Header.Set("Accept", "application/json")
			}

			// Act
			h.ServeHTTP(w, r)

			// Assert
			require.Equal(t, tc.code, w.Code)
			require.Equal(t, tc.location, w.Header().Get("Location"))
		})
	}
}

func TestRequireUnauthed(t *testing.T) {
	store := memstore.New()
	admin := createUser(t, store, "admin@example.com", aula.RoleAdmin, aula.AccessGranted)

	t.Run("Anonymous", func(t *testing.T) {
		// Arrange
		h, _ := withUser(store, 0, middleware.RequireUnauthed()(teapotHandler()))
		w := httptest.NewRecorder()

		// Act
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/login", nil))

		// Assert
		require.Equal(t, http.StatusTeapot, w.Code)
	})

	t.Run("Admin-Sent-Home", func(t *testing.T) {
		// Arrange
		h, _ := withUser(store, admin.ID, middleware.RequireUnauthed()(teapotHandler()))
		w := httptest.NewRecorder()

		// Act
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/login", nil))

		// Assert
		require.Equal(t, http.StatusSeeOther, w.Code)
		require.Equal(t, "/admin", w.Header().Get("Location"))
	})
}

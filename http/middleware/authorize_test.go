package middleware_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/castellanoconmh/aula"
	"github.com/castellanoconmh/aula/access"
	"github.com/castellanoconmh/aula/http/middleware"
	"github.com/castellanoconmh/aula/http/session"
	"github.com/castellanoconmh/aula/memstore"
	"github.com/stretchr/testify/require"
)

func TestAuthorizeApplicator(t *testing.T) {
	// Arrange
	store := memstore.New()
	admin := createUser(t, store, "admin@example.com", aula.RoleAdmin, aula.AccessGranted)
	student := createUser(t, store, "ana@example.com", aula.RoleStudent, aula.AccessGranted)
	aa := middleware.NewAuthorizeApplicator[aula.User](newResponder())

	// Act
	noop := aa.Apply(nil)

	// Assert
	require.Equal(t, fmt.Sprintf("%p", middleware.Adapter(middleware.NoopAdapter)), fmt.Sprintf("%p", noop))

	tcs := []struct {
		name     string
		uid      uint
		json     bool
		code     int
		location string
		flash    bool
	}{
		{"Admin", admin.ID, false, http.StatusTeapot, "", false},
		{"Student-Html", student.ID, false, http.StatusSeeOther, "/dashboard", true},
		{"Student-Json", student.ID, true, http.StatusForbidden, "", false},
		{"Anonymous-Html", 0, false, http.StatusSeeOther, "/login", true},
		{"Anonymous-Json", 0, true, http.StatusUnauthorized, "", false},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			// Arrange
			h, stub := withUser(store, tc.uid, aa.Apply(access.AdminOnly)(teapotHandler()))
			w := httptest.NewRecorder()
			r := httptest.NewRequest(http.MethodGet, "/admin", nil)
			if tc.json {
				r.Header.Set("Accept", "application/json")
			}

			// Act
			h.ServeHTTP(w, r)

			// Assert
			require.Equal(t, tc.code, w.Code)
			require.Equal(t, tc.location, w.Header().Get("Location"))
			if tc.flash {
				require.Equal(t, []session.Flash{{Type: session.FlashWarning, Msg: session.NoAccessMsg}}, flashesOf(t, stub))
			}
		})
	}
}

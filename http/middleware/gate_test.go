package middleware_test

import (
	"context"
	"encoding/json"
	"errors"
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

type brokenEntitlements struct{}

func (brokenEntitlements) EntitlementFor(context.Context, uint) (aula.Entitlement, error) {
	return aula.Entitlement{}, errors.New("connection refused")
}

func TestRequireEntitlement(t *testing.T) {
	// Arrange
	store := memstore.New()
	ctx := context.Background()
	admin := createUser(t, store, "admin@example.com", aula.RoleAdmin, aula.AccessGranted)
	ana := createUser(t, store, "ana@example.com", aula.RoleStudent, aula.AccessGranted)
	luis := createUser(t, store, "luis@example.com", aula.RoleStudent, aula.AccessGranted)
	require.Nil(t, store.CreateCode(ctx, &aula.AccessCode{Code: "ABC123-WXYZ", Status: aula.CodeActive}))
	_, err := store.Claim(ctx, "ABC123-WXYZ", ana)
	require.Nil(t, err)

	identity := access.NewGate(store)

	tcs := []struct {
		name     string
		gate     *access.Gate
		view     access.View
		uid      uint
		token    string
		code     int
		location string
		flash    *session.Flash
		state    access.State
	}{
		{
			name: "Entitled", gate: identity, view: access.ViewDashboard, uid: ana.ID,
			code: http.StatusTeapot, state: access.Entitled,
		},
		{
			name: "Admin-Dashboard", gate: identity, view: access.ViewDashboard, uid: admin.ID,
			code: http.StatusTeapot, state: access.AdminAuthorized,
		},
		{
			name: "No-Entitlement", gate: identity, view: access.ViewDashboard, uid: luis.ID,
			code: http.StatusSeeOther, location: access.RedeemPath,
			flash: &session.Flash{Type: session.FlashInfo, Msg: session.NeedCodeMsg},
		},
		{
			name: "Anonymous", gate: identity, view: access.ViewDashboard,
			code: http.StatusSeeOther, location: "/login?next=%2Fdashboard",
			flash: &session.Flash{Type: session.FlashWarning, Msg: session.SignInFirstMsg},
		},
		{
			name: "Identity-Ignores-Token", gate: identity, view: access.ViewDashboard, token: "ABC123-WXYZ",
			code: http.StatusSeeOther, location: "/login?next=%2Fdashboard",
		},
		{
			name: "Bearer-Token", gate: access.NewGate(store, access.WithPolicy(access.PolicyBearer)),
			view: access.ViewDashboard, token: "abc123-wxyz", code: http.StatusTeapot, state: access.Entitled,
		},
		{
			name: "Student-Admin", gate: identity, view: access.ViewAdmin, uid: ana.ID,
			code: http.StatusSeeOther, location: access.DashboardPath,
			flash: &session.Flash{Type: session.FlashWarning, Msg: session.NoAccessMsg},
		},
		{
			name: "Lookup-Fails", gate: access.NewGate(brokenEntitlements{}), view: access.ViewDashboard, uid: luis.ID,
			code: http.StatusSeeOther, location: access.RedeemPath,
			flash: &session.Flash{Type: session.FlashError, Msg: session.RetryMsg},
		},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			// Arrange
			var state access.State
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				state = middleware.GateState(r.Context())
				w.WriteHeader(http.StatusTeapot)
			})
			h, stub := withUser(store, tc.uid, middleware.RequireEntitlement(newResponder(), tc.gate, tc.view)(next))
			r := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
			if tc.token != "" {
				s, _ := stub.GetSession(r)
				require.Nil(t, s.SetToken(httptest.NewRecorder(), r, tc.token))
			}
			w := httptest.NewRecorder()

			// Act
			h.ServeHTTP(w, r)

			// Assert
			require.Equal(t, tc.code, w.Code)
			require.Equal(t, tc.location, w.Header().Get("Location"))
			if tc.code == http.StatusTeapot {
				require.Equal(t, tc.state, state)
			}
			if tc.flash != nil {
				require.Equal(t, []session.Flash{*tc.flash}, flashesOf(t, stub))
			}
		})
	}
}

func TestRequireEntitlementJSON(t *testing.T) {
	// Arrange
	store := memstore.New()
	luis := createUser(t, store, "luis@example.com", aula.RoleStudent, aula.AccessGranted)
	h, _ := withUser(store, luis.ID, middleware.RequireEntitlement(newResponder(), access.NewGate(store), access.ViewDashboard)(teapotHandler()))
	r := httptest.NewRequest(http.MethodGet, "/api/dashboard", nil)
	r.Header.Set("Accept", "application/json")
	w := httptest.NewRecorder()

	// Act
	h.ServeHTTP(w, r)

	// Assert
	require.Equal(t, http.StatusForbidden, w.Code)
	var body struct {
		Data map[string]string `json:"data"`
	}
	require.Nil(t, json.NewDecoder(w.Body).Decode(&body))
	require.Equal(t, "authenticated_no_entitlement", body.Data["state"])
}

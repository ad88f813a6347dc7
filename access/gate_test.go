package access_test

import (
	"context"
	"errors"
	"testing"

	"github.com/castellanoconmh/aula"
	"github.com/castellanoconmh/aula/access"
	"github.com/stretchr/testify/require"
)

func TestGateResolve(t *testing.T) {
	store := newFaultyStore()
	entitled := newStudent(t, store.Store, "entitled@example.com")
	fresh := newStudent(t, store.Store, "fresh@example.com")
	admin := aula.User{Model: aula.Model{ID: 99}, AccessState: aula.AccessGranted, Role: aula.RoleAdmin}
	revoked := aula.User{Model: aula.Model{ID: 98}, AccessState: aula.AccessRevoked, Role: aula.RoleAdmin}

	ac := aula.AccessCode{Code: "AB12CD-3X9Y", Status: aula.CodeActive}
	require.Nil(t, store.CreateCode(context.Background(), &ac))
	_, err := store.Claim(context.Background(), ac.Code, entitled)
	require.Nil(t, err)

	for _, tc := range []struct {
		name     string
		policy   access.Policy
		visitor  access.Visitor
		expected access.State
	}{
		{"Anonymous", access.PolicyIdentity, access.Visitor{}, access.Unauthenticated},
		{"Anonymous-Token-Ignored", access.PolicyIdentity, access.Visitor{Token: ac.Code}, access.Unauthenticated},
		{"Revoked", access.PolicyIdentity, access.Visitor{User: &revoked}, access.Unauthenticated},
		{"Fresh", access.PolicyIdentity, access.Visitor{User: &fresh}, access.AuthenticatedNoEntitlement},
		{"Fresh-Token-Ignored", access.PolicyIdentity, access.Visitor{User: &fresh, Token: ac.Code}, access.AuthenticatedNoEntitlement},
		{"Entitled", access.PolicyIdentity, access.Visitor{User: &entitled}, access.Entitled},
		{"Admin", access.PolicyIdentity, access.Visitor{User: &admin}, access.AdminAuthorized},
		{"Bearer-Anonymous", access.PolicyBearer, access.Visitor{}, access.Unauthenticated},
		{"Bearer-Token", access.PolicyBearer, access.Visitor{Token: ac.Code}, access.Entitled},
		{"Bearer-Malformed-Token", access.PolicyBearer, access.Visitor{Token: "letmein"}, access.Unauthenticated},
		{"Bearer-Fresh-Token", access.PolicyBearer, access.Visitor{User: &fresh, Token: ac.Code}, access.Entitled},
		{"Bearer-Admin", access.PolicyBearer, access.Visitor{User: &admin}, access.AdminAuthorized},
	} {
		t.Run(tc.name, func(t *testing.T) {
			// Arrange
			g := access.NewGate(store, access.WithPolicy(tc.policy))

			// Act
			state, err := g.Resolve(context.Background(), tc.visitor)

			// Assert
			require.Nil(t, err)
			require.Equal(t, tc.expected, state)
		})
	}
}

func TestGateResolveFailure(t *testing.T) {
	// Arrange
	store := newFaultyStore()
	student := newStudent(t, store.Store, "alumna@example.com")
	store.entErr = errors.New("connection refused")
	g := access.NewGate(store)

	// Act
	state, err := g.Resolve(context.Background(), access.Visitor{User: &student})

	// Assert
	require.ErrorIs(t, err, access.ErrVerification)
	require.False(t, state.Allows(access.ViewDashboard))
	require.False(t, state.Allows(access.ViewAdmin))
}

func TestGateNeverWrites(t *testing.T) {
	// Arrange
	store := newFaultyStore()
	student := newStudent(t, store.Store, "alumna@example.com")
	ac := aula.AccessCode{Code: "AB12CD-3X9Y", Status: aula.CodeActive}
	require.Nil(t, store.CreateCode(context.Background(), &ac))

	for _, p := range []access.Policy{access.PolicyIdentity, access.PolicyBearer} {
		// Act
		_, err := access.NewGate(store, access.WithPolicy(p)).
			Resolve(context.Background(), access.Visitor{User: &student, Token: ac.Code})

		// Assert
		require.Nil(t, err)
		require.Zero(t, store.Entitlements())

		found, err := store.FindCode(context.Background(), ac.Code)
		require.Nil(t, err)
		require.True(t, found.IsActive())
	}
}

func TestStateAllows(t *testing.T) {
	for _, tc := range []struct {
		state     access.State
		dashboard string
		admin     string
	}{
		{access.Unauthenticated, access.LoginPath, access.LoginPath},
		{access.AuthenticatedNoEntitlement, access.RedeemPath, access.RedeemPath},
		{access.Entitled, "", access.DashboardPath},
		{access.AdminAuthorized, "", ""},
	} {
		t.Run(tc.state.String(), func(t *testing.T) {
			require.Equal(t, tc.dashboard == "", tc.state.Allows(access.ViewDashboard))
			require.Equal(t, tc.admin == "", tc.state.Allows(access.ViewAdmin))
			require.Equal(t, tc.dashboard, tc.state.RedirectFor(access.ViewDashboard))
			require.Equal(t, tc.admin, tc.state.RedirectFor(access.ViewAdmin))
		})
	}
}

func TestAdminOnly(t *testing.T) {
	for _, tc := range []struct {
		name string
		user aula.User
		url  string
		ok   bool
	}{
		{"Zero", aula.User{}, "/login", false},
		{"Student", aula.User{AccessState: aula.AccessGranted, Role: aula.RoleStudent}, "/dashboard", false},
		{"Revoked-Admin", aula.User{AccessState: aula.AccessRevoked, Role: aula.RoleAdmin}, "/login", false},
		{"Admin", aula.User{AccessState: aula.AccessGranted, Role: aula.RoleAdmin}, "", true},
	} {
		t.Run(tc.name, func(t *testing.T) {
			url, ok := access.AdminOnly(tc.user)
			require.Equal(t, tc.url, url)
			require.Equal(t, tc.ok, ok)
		})
	}
}

package access

import (
	"context"
	"errors"

	"github.com/castellanoconmh/aula"
	"github.com/castellanoconmh/aula/logger"
)

// A State is what the Gate knows about a visitor.
type State int

const (
	Unauthenticated State = iota
	AuthenticatedNoEntitlement
	Entitled
	AdminAuthorized
)

func (s State) String() string {
	switch s {
	case AuthenticatedNoEntitlement:
		return "authenticated_no_entitlement"
	case Entitled:
		return "entitled"
	case AdminAuthorized:
		return "admin_authorized"
	default:
		return "unauthenticated"
	}
}

// A View is a protected page.
type View int

const (
	ViewDashboard View = iota
	ViewAdmin
)

// Paths visitors are sent to when a View is off limits.
const (
	AdminPath     = "/admin"
	DashboardPath = "/dashboard"
	LoginPath     = "/login"
	RedeemPath    = "/redeem"
)

// Allows asserts whether a visitor in s may see v.
func (s State) Allows(v View) bool {
	switch v {
	case ViewDashboard:
		return s == Entitled || s == AdminAuthorized
	case ViewAdmin:
		return s == AdminAuthorized
	default:
		return false
	}
}

// RedirectFor returns where a visitor in s goes instead of v,
// or "" if s allows v.
func (s State) RedirectFor(v View) string {
	if s.Allows(v) {
		return ""
	}

	switch s {
	case AuthenticatedNoEntitlement:
		return RedeemPath
	case Entitled:
		return DashboardPath
	default:
		return LoginPath
	}
}

// A Visitor is whoever loads a protected page.
// User is nil if no one is signed in.
// Token is the bearer token kept in the visitor's session, if any.
type Visitor struct {
	Token string
	User  *aula.User
}

// A Gate resolves the State of visitors on every protected page load.
// A Gate never writes.
type Gate struct {
	options
	ents EntitlementStore
}

// NewGate constructs a Gate.
func NewGate(ents EntitlementStore, opts ...Opt) *Gate {
	return &Gate{options: newOptions(opts), ents: ents}
}

// Resolve determines the State of v.
//
// Bearer tokens count only under PolicyBearer and are trusted if well formed.
// If the entitlement lookup fails, Resolve returns AuthenticatedNoEntitlement and ErrVerification,
// so callers never render gated content on error.
func (g *Gate) Resolve(ctx context.Context, v Visitor) (State, error) {
	if v.User != nil && v.User.HasAccess() {
		if v.User.IsAdmin() {
			return AdminAuthorized, nil
		}

		if g.policy == PolicyBearer && ValidFormat(Normalize(v.Token)) {
			return Entitled, nil
		}

		ctx, cancel := context.WithTimeout(ctx, g.timeout)
		defer cancel()

		_, err := g.ents.EntitlementFor(ctx, v.User.ID)
		switch {
		case err == nil:
			return Entitled, nil
		case errors.Is(err, aula.ErrNotFound):
			return AuthenticatedNoEntitlement, nil
		default:
			if g.logger != nil {
				g.logger.Error("failed resolving entitlement", &logger.LogContext{Error: err, User: v.User})
			}
			return AuthenticatedNoEntitlement, wrapFailure(ctx, ErrVerification, err)
		}
	}

	if g.policy == PolicyBearer && ValidFormat(Normalize(v.Token)) {
		return Entitled, nil
	}

	return Unauthenticated, nil
}

// Policy reports the Policy the Gate honors.
func (g *Gate) Policy() Policy { return g.policy }

package aula

import (
	"log/slog"

	"github.com/google/uuid"
)

// A Role identifies the privileges a User holds.
// The role replaces any allow-list of administrator email addresses:
// every admin-only entry point asks the User for its Role.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleStudent Role = "student"
)

func (r Role) String() string { return string(r) }

func (r Role) Valid() error {
	switch r {
	case RoleAdmin, RoleStudent:
		return nil
	default:
		return ErrNotValid
	}
}

// A User is the core entity that interacts with an aula application.
//
// An agent's HTTP requests are authenticated first either by email & password data
// matching credentials stored on a DB record for a User,
// or by a federated sign in matching GoogleSubject.
// Upon a match, a session is created and stored.
// Further requests are authenticated by referencing that session.
type User struct {
	Model
	AccessState   AccessState `json:"accessState"`
	Email         string      `json:"email"`
	ExternalID    uuid.UUID   `json:"externalId"`
	GoogleSubject string      `json:"-"`
	Password      []byte      `json:"-"`
	Role          Role        `json:"role"`
}

// HasAccess asserts whether the User's properties give it general
// access to the aula application.
func (u User) HasAccess() bool { return u.AccessState == AccessGranted }

// IsAdmin asserts whether the User may manage course content and access codes.
func (u User) IsAdmin() bool { return u.HasAccess() && u.Role == RoleAdmin }

// HomePath returns the relative URL path designated
// as the default resource in the aula application
// they can access.
func (u User) HomePath() string {
	switch {
	case !u.HasAccess():
		return "/login"
	case u.IsAdmin():
		return "/admin"
	default:
		return "/dashboard"
	}
}

// GetID implements logger.LogUser.
func (u User) GetID() uint { return u.ID }

// GetEmail implements logger.LogUser.
func (u User) GetEmail() string { return u.Email }

// LogValue implements [log/slog.LogValuer], never logging credentials.
func (u User) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Uint64("id", uint64(u.ID)),
		slog.String("email", u.Email),
		slog.String("role", u.Role.String()),
		slog.Attr{Key: "password", Value: MaskedLogValue},
	)
}

package access

import (
	"context"

	"github.com/castellanoconmh/aula"
)

// A CodeStore persists access codes.
type CodeStore interface {
	// Claim flips the active code to used, binding it to user,
	// and records an entitlement for user in one atomic step.
	// Claim returns aula.ErrNotFound if no code matches
	// and ErrAlreadyUsed if the code is no longer active.
	Claim(ctx context.Context, code string, user aula.User) (aula.Entitlement, error)

	// CodeExists asserts whether code is already stored, whatever its status.
	CodeExists(ctx context.Context, code string) (bool, error)

	// CreateCode inserts ac, setting its ID.
	CreateCode(ctx context.Context, ac *aula.AccessCode) error

	// DeleteCode removes the code with id, returning aula.ErrNotFound if there is none.
	DeleteCode(ctx context.Context, id uint) error

	// FindCode looks code up by value, returning aula.ErrNotFound if there is none.
	FindCode(ctx context.Context, code string) (aula.AccessCode, error)

	// ListCodes returns every code, newest first.
	ListCodes(ctx context.Context) ([]aula.AccessCode, error)
}

// An EntitlementStore reads entitlements.
type EntitlementStore interface {
	// EntitlementFor returns the entitlement held by the user with userID,
	// or aula.ErrNotFound.
	EntitlementFor(ctx context.Context, userID uint) (aula.Entitlement, error)
}

// A Publisher announces that a collection changed.
type Publisher interface {
	Publish(ctx context.Context, c aula.Collection) error
}

type noopPublisher struct{}

func (noopPublisher) Publish(context.Context, aula.Collection) error { return nil }

package access

import (
	"context"
	"errors"
	"fmt"

	"github.com/castellanoconmh/aula"
	"github.com/castellanoconmh/aula/logger"
)

// An Actor is whoever presents a code.
// User is nil for anonymous visitors.
type Actor struct {
	User *aula.User
}

// A Result reports a successful redemption.
type Result struct {
	// Code is the redeemed code as it now stands in the store.
	Code aula.AccessCode

	// Entitlement is the marker written for the actor under PolicyIdentity.
	Entitlement aula.Entitlement

	// Token is the normalized code the caller keeps for the visitor under PolicyBearer.
	Token string
}

// A Redeemer exchanges codes for entitlements.
type Redeemer struct {
	options
	codes CodeStore
	ents  EntitlementStore
}

// NewRedeemer constructs a Redeemer. ents is consulted only under PolicyIdentity.
func NewRedeemer(codes CodeStore, ents EntitlementStore, opts ...Opt) *Redeemer {
	return &Redeemer{options: newOptions(opts), codes: codes, ents: ents}
}

// Policy reports the Policy the Redeemer enforces.
func (rd *Redeemer) Policy() Policy { return rd.policy }

// Redeem validates presented on behalf of actor.
//
// Under PolicyIdentity, actor must be signed in and presented must be an active code.
// An already entitled actor keeps the entitlement it holds and presented stays active.
// Under PolicyBearer, nothing is written.
//
// Errors are one of ErrAuth, ErrInvalidCode, ErrAlreadyUsed or ErrVerification,
// the last possibly accompanied by ErrTimeout.
// Nothing is written unless Redeem returns a nil error.
func (rd *Redeemer) Redeem(ctx context.Context, presented string, actor Actor) (Result, error) {
	code := Normalize(presented)
	if code == "" {
		return Result{}, ErrInvalidCode
	}

	ctx, cancel := context.WithTimeout(ctx, rd.timeout)
	defer cancel()

	if rd.policy == PolicyBearer {
		return rd.redeemBearer(ctx, code)
	}

	return rd.redeemIdentity(ctx, code, actor)
}

func (rd *Redeemer) redeemBearer(ctx context.Context, code string) (Result, error) {
	ac, err := rd.find(ctx, code)
	if err != nil {
		return Result{}, err
	}

	return Result{Code: ac, Token: ac.Code}, nil
}

func (rd *Redeemer) redeemIdentity(ctx context.Context, code string, actor Actor) (Result, error) {
	if actor.User == nil || !actor.User.HasAccess() {
		return Result{}, fmt.Errorf("%w: sign in to redeem a code", ErrAuth)
	}

	ac, err := rd.find(ctx, code)
	if err != nil {
		return Result{}, err
	}

	if !ac.IsActive() {
		return Result{}, ErrAlreadyUsed
	}

	if res, ok, err := rd.entitled(ctx, ac, actor.User); ok || err != nil {
		return res, err
	}

	ent, err := rd.codes.Claim(ctx, code, *actor.User)
	switch {
	case errors.Is(err, ErrAlreadyUsed):
		return Result{}, ErrAlreadyUsed
	case errors.Is(err, aula.ErrNotFound):
		return Result{}, ErrInvalidCode
	case errors.Is(err, aula.ErrExists):
		// Another redemption by the same user won.
		if res, ok, lookupErr := rd.entitled(ctx, ac, actor.User); ok || lookupErr != nil {
			return res, lookupErr
		}
		return Result{}, rd.verifyErr(ctx, err, actor.User)
	case err != nil:
		return Result{}, rd.verifyErr(ctx, err, actor.User)
	}

	ac.Status = aula.CodeUsed
	ac.Email = actor.User.Email
	ac.RedeemedByID = &actor.User.ID
	ac.RedeemedAt = &ent.GrantedAt

	if err := rd.pub.Publish(ctx, aula.CollectionAccessCodes); err != nil && rd.logger != nil {
		rd.logger.Warn("failed publishing change", &logger.LogContext{Error: err, User: actor.User})
	}

	return Result{Code: ac, Entitlement: ent}, nil
}

// entitled looks up the entitlement u already holds.
// ac is returned untouched alongside it.
func (rd *Redeemer) entitled(ctx context.Context, ac aula.AccessCode, u *aula.User) (Result, bool, error) {
	ent, err := rd.ents.EntitlementFor(ctx, u.ID)
	switch {
	case err == nil:
		return Result{Code: ac, Entitlement: ent}, true, nil
	case errors.Is(err, aula.ErrNotFound):
		return Result{}, false, nil
	default:
		return Result{}, false, rd.verifyErr(ctx, err, u)
	}
}

func (rd *Redeemer) find(ctx context.Context, code string) (aula.AccessCode, error) {
	ac, err := rd.codes.FindCode(ctx, code)
	if errors.Is(err, aula.ErrNotFound) {
		return aula.AccessCode{}, ErrInvalidCode
	}

	if err != nil {
		return aula.AccessCode{}, rd.verifyErr(ctx, err, nil)
	}

	return ac, nil
}

func (rd *Redeemer) verifyErr(ctx context.Context, err error, u *aula.User) error {
	if rd.logger != nil {
		lc := &logger.LogContext{Error: err}
		if u != nil {
			lc.User = u
		}
		rd.logger.Error("failed verifying access code", lc)
	}

	return wrapFailure(ctx, ErrVerification, err)
}

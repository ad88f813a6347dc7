package access

import (
	"errors"
	"fmt"

	"github.com/castellanoconmh/aula/auth"
)

var (
	// ErrInvalidCode means the presented code matches no record. Users should check the code.
	ErrInvalidCode = errors.New("invalid code")

	// ErrAlreadyUsed means the presented code was redeemed before.
	ErrAlreadyUsed = fmt.Errorf("%w: already used", ErrInvalidCode)

	// ErrVerification means the code could not be checked. Users should try again.
	ErrVerification = errors.New("could not verify code")

	// ErrWrite means an admin change could not be stored.
	ErrWrite = errors.New("could not save changes")

	// ErrTimeout accompanies ErrVerification or ErrWrite when an operation ran out of time.
	ErrTimeout = errors.New("timed out")

	// ErrAuth means the actor lacks the identity an operation requires.
	ErrAuth = auth.ErrAuth
)

// Retryable asserts whether err is worth trying again by the user.
func Retryable(err error) bool {
	return errors.Is(err, ErrVerification) || errors.Is(err, ErrWrite)
}

package access

import (
	"strings"

	"github.com/castellanoconmh/aula"
)

var _ aula.Enumerable = Policy("")

// A Policy decides what a redeemed code grants.
type Policy string

const (
	PolicyBearer   Policy = "bearer"
	PolicyIdentity Policy = "identity"
)

// ParsePolicy reads s, ignoring case, falling back to PolicyIdentity.
func ParsePolicy(s string) Policy {
	p := Policy(strings.ToLower(strings.TrimSpace(s)))
	if p.Valid() != nil {
		return PolicyIdentity
	}

	return p
}

func (p Policy) String() string { return string(p) }

func (p Policy) Valid() error {
	switch p {
	case PolicyBearer, PolicyIdentity:
		return nil
	default:
		return aula.ErrNotValid
	}
}

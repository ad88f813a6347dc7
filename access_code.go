package aula

import "time"

// CodeStatus is the lifecycle state of an AccessCode.
type CodeStatus string

const (
	CodeActive CodeStatus = "active"
	CodeUsed   CodeStatus = "used"
)

func (cs CodeStatus) String() string { return string(cs) }

func (cs CodeStatus) Valid() error {
	switch cs {
	case CodeActive, CodeUsed:
		return nil
	default:
		return ErrNotValid
	}
}

// An AccessCode is a generated string an admin shares with a student after payment.
// A student exchanges it once for an Entitlement.
//
// An AccessCode is created active and becomes used upon redemption,
// at which point Email and RedeemedByID bind it to the redeeming User.
type AccessCode struct {
	Model
	Code         string     `json:"code"`
	Email        string     `json:"email,omitempty"`
	RedeemedAt   *time.Time `json:"redeemedAt,omitempty"`
	RedeemedByID *uint      `json:"redeemedById,omitempty"`
	Status       CodeStatus `json:"status"`
}

// IsActive asserts whether the AccessCode can still be redeemed.
func (ac AccessCode) IsActive() bool { return ac.Status == CodeActive }

// CreatedAtISO formats CreatedAt as an ISO 8601 timestamp in UTC.
func (ac AccessCode) CreatedAtISO() string {
	if ac.CreatedAt.IsZero() {
		return ""
	}

	return ac.CreatedAt.UTC().Format(time.RFC3339)
}

// An Entitlement is the marker granting a User permission to view gated course content.
//
// A User has at most one Entitlement.
// Entitlements do not expire.
type Entitlement struct {
	Model
	AccessCodeID uint      `json:"accessCodeId"`
	GrantedAt    time.Time `json:"grantedAt"`
	UserID       uint      `json:"userId"`
}

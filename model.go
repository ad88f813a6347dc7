package aula

import "time"

// A Model is the essential data points for primary ID-based models in an aula application,
// indicating when a record was created and last updated.
// Deletions are hard deletes.
type Model struct {
	ID        uint      `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Exists asserts whether the Model has been persisted.
func (m Model) Exists() bool { return !m.CreatedAt.IsZero() }

// AccessState is a string representation of the broadest, general access
// a User has to an aula application.
type AccessState string

const (
	AccessGranted AccessState = "granted"
	AccessRevoked AccessState = "revoked"
)

// String stringifies the AccessState.
//
// String implements fmt.Stringer.
func (as AccessState) String() string { return string(as) }

// Valid asserts the AccessState is a known value.
func (as AccessState) Valid() error {
	switch as {
	case AccessGranted, AccessRevoked:
		return nil
	default:
		return ErrNotValid
	}
}

// A Collection names a set of records an admin manages and can watch for changes.
type Collection string

const (
	CollectionAccessCodes Collection = "access_codes"
	CollectionExams       Collection = "exams"
	CollectionVideos      Collection = "videos"
)

func (c Collection) String() string { return string(c) }

func (c Collection) Valid() error {
	switch c {
	case CollectionAccessCodes, CollectionExams, CollectionVideos:
		return nil
	default:
		return ErrNotValid
	}
}

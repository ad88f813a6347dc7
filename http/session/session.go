package session

import (
	"net/http"

	gorilla "github.com/gorilla/sessions"
)

// keys used internal to Session.
const (
	sessionKey      = "aula-session-gorilla"
	nonceSessionKey = sessionKey + "-nonce"
	tokenSessionKey = sessionKey + "-token"
	userSessionKey  = sessionKey + "-user"
)

// The Sessionable wraps methods for basic adding values to, deleting, and getting values from a session
// associated with an *http.Request and saving those to the session store.
type Sessionable interface {
	Delete(w http.ResponseWriter, r *http.Request) error
	Get(key string) any
	ResetExpiry(w http.ResponseWriter, r *http.Request) error
	Save(w http.ResponseWriter, r *http.Request) error
	Set(w http.ResponseWriter, r *http.Request, key string, val any) error
}

// The UserSessionable wraps methods for adding, removing, and retrieving
// user IDs from a session.
type UserSessionable interface {
	DeregisterUser(w http.ResponseWriter, r *http.Request) error
	RegisterUser(w http.ResponseWriter, r *http.Request, ID uint) error
	UserID() (uint, error)
}

// The TokenSessionable wraps methods keeping a bearer token,
// the string a visitor proved they hold, across page loads.
type TokenSessionable interface {
	ClearToken(w http.ResponseWriter, r *http.Request) error
	SetToken(w http.ResponseWriter, r *http.Request, token string) error
	Token() string
}

// The NonceSessionable wraps methods keeping a single use value,
// such as the one tying a sign in with Google to the browser that started it.
type NonceSessionable interface {
	SetNonce(w http.ResponseWriter, r *http.Request, nonce string) error
	TakeNonce(w http.ResponseWriter, r *http.Request) (string, error)
}

// The AulaSessionable composes session's major interfaces.
type AulaSessionable interface {
	FlashSessionable
	NonceSessionable
	Sessionable
	TokenSessionable
	UserSessionable
}

// A Session lightly wraps a gorilla.Session.
type Session struct {
	s *gorilla.Session
}

// NewSession constructs a new Session as an implementation of AulaSessionable.
func NewSession(g *gorilla.Session) AulaSessionable { return Session{s: g} }

// ClearToken removes the bearer token from the session.
func (s Session) ClearToken(w http.ResponseWriter, r *http.Request) error {
	delete(s.s.Values, tokenSessionKey)
	return s.Save(w, r)
}

// Delete removes a session by making the MaxAge negative.
func (s Session) Delete(w http.ResponseWriter, r *http.Request) error {
	s.s.Options.MaxAge = -1
	return s.Save(w, r)
}

// DeregisterUser removes the User from the session.
func (s Session) DeregisterUser(w http.ResponseWriter, r *http.Request) error {
	delete(s.s.Values, userSessionKey)
	return s.Save(w, r)
}

// Flashes retrieves []Flash stored in the session.
func (s Session) Flashes(w http.ResponseWriter, r *http.Request) []Flash {
	raw := s.s.Flashes()
	fs := make([]Flash, 0)
	for _, r := range raw {
		f, ok := r.(Flash)
		if !ok {
			continue
		}

		fs = append(fs, f)
	}

	if len(raw) > 0 {
		// Flashes are removed after they are accessed,
		// but the session needs to be saved for them to be finally removed
		if err := s.Save(w, r); err != nil {
			return nil
		}
	}

	return fs
}

// Get retrieves a value from the session according to the key passed in.
func (s Session) Get(key string) any {
	return s.s.Values[key]
}

// RegisterUser stores the user's ID in the session.
func (s Session) RegisterUser(w http.ResponseWriter, r *http.Request, ID uint) error {
	s.s.Values[userSessionKey] = ID
	return s.Save(w, r)
}

// ResetExpiry resets the expiration of the session by saving it.
func (s Session) ResetExpiry(w http.ResponseWriter, r *http.Request) error {
	return s.Save(w, r)
}

// Save wraps gorilla.Session.Save, saving the session in the request.
func (s Session) Save(w http.ResponseWriter, r *http.Request) error { return s.s.Save(r, w) }

// Set stores a value according to the key passed in on the session.
func (s Session) Set(w http.ResponseWriter, r *http.Request, key string, val any) error {
	s.s.Values[key] = val
	return s.Save(w, r)
}

// SetFlash stores the passed in Flash in the session.
func (s Session) SetFlash(w http.ResponseWriter, r *http.Request, flash Flash) error {
	s.s.AddFlash(flash)
	return s.Save(w, r)
}

// SetNonce stores nonce in the session, replacing any earlier one.
func (s Session) SetNonce(w http.ResponseWriter, r *http.Request, nonce string) error {
	s.s.Values[nonceSessionKey] = nonce
	return s.Save(w, r)
}

// TakeNonce removes the nonce from the session and returns it, or "".
func (s Session) TakeNonce(w http.ResponseWriter, r *http.Request) (string, error) {
	nonce, _ := s.s.Values[nonceSessionKey].(string)
	if nonce == "" {
		return "", nil
	}

	delete(s.s.Values, nonceSessionKey)
	return nonce, s.Save(w, r)
}

// SetToken stores token in the session.
func (s Session) SetToken(w http.ResponseWriter, r *http.Request, token string) error {
	s.s.Values[tokenSessionKey] = token
	return s.Save(w, r)
}

// Token retrieves the bearer token from the session, or "".
func (s Session) Token() string {
	token, _ := s.s.Values[tokenSessionKey].(string)
	return token
}

// UserID gets the user ID out of the session.
// If no user ID can be found, ErrNoUser is returned.
//
// If the value returned from the session is not a uint, ErrNotValid is returned and represents a programming error.
func (s Session) UserID() (uint, error) {
	intfVal, ok := s.s.Values[userSessionKey]
	if !ok {
		return 0, ErrNoUser
	}

	val, ok := intfVal.(uint)
	if !ok {
		return 0, ErrNotValid
	}

	return val, nil
}

package auth

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"sync"
	"time"

	"github.com/castellanoconmh/aula"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	goauth2 "google.golang.org/api/oauth2/v2"
)

// MinPasswordLen is the shortest password Register accepts.
const MinPasswordLen = 8

// A UserStore persists users.
// Find methods return aula.ErrNotFound if no user matches.
type UserStore interface {
	// CreateUser inserts u, returning aula.ErrExists if the email is taken.
	CreateUser(ctx context.Context, u *aula.User) error
	FindUser(ctx context.Context, id uint) (aula.User, error)
	FindUserByEmail(ctx context.Context, email string) (aula.User, error)
	FindUserByGoogleSubject(ctx context.Context, sub string) (aula.User, error)
	UpdateUser(ctx context.Context, u *aula.User) error
}

// Config holds what a Service needs for Google sign in.
// Leaving GoogleClientID empty disables it.
type Config struct {
	GoogleClientID     string
	GoogleClientSecret string

	// RedirectURL is the absolute URL of the OAuth callback.
	RedirectURL string

	// StateKey signs OAuth state tokens.
	StateKey string
}

// Credentials are what a visitor types into the login form.
type Credentials struct {
	Email    string
	Password string
}

// A Service signs users in and out.
type Service struct {
	users UserStore

	config   *oauth2.Config
	exchange func(ctx context.Context, code string) (*oauth2.Token, error)
	fetch    func(ctx context.Context, token *oauth2.Token) (*goauth2.Userinfo, error)
	key      []byte
	parser   *jwt.Parser

	mu        sync.RWMutex
	nextObs   int
	observers map[int]func(Change)

	now func() time.Time
}

// NewService constructs a Service.
// NewService returns aula.ErrBadConfig if Google sign in is half configured.
func NewService(users UserStore, cfg Config) (*Service, error) {
	s := &Service{
		users:     users,
		observers: make(map[int]func(Change)),
		now:       time.Now,
	}

	if cfg.GoogleClientID == "" {
		return s, nil
	}

	if cfg.GoogleClientSecret == "" || cfg.StateKey == "" || cfg.RedirectURL == "" {
		return nil, fmt.Errorf(`%w: Google sign in needs a secret, state key and redirect URL`, aula.ErrBadConfig)
	}

	s.config = &oauth2.Config{
		ClientID:     cfg.GoogleClientID,
		ClientSecret: cfg.GoogleClientSecret,
		Endpoint:     google.Endpoint,
		RedirectURL:  cfg.RedirectURL,
		Scopes:       []string{goauth2.UserinfoEmailScope, "openid"},
	}
	s.exchange = func(ctx context.Context, code string) (*oauth2.Token, error) {
		return s.config.Exchange(ctx, code)
	}
	s.fetch = s.FetchUser
	s.key = []byte(cfg.StateKey)
	s.parser = &jwt.Parser{ValidMethods: []string{jwt.SigningMethodHS256.Alg()}}

	return s, nil
}

// GoogleEnabled asserts whether Google sign in is configured.
func (s *Service) GoogleEnabled() bool { return s.config != nil }

// HashPassword hashes password with bcrypt.
func HashPassword(password string) ([]byte, error) {
	if len(password) < MinPasswordLen {
		return nil, fmt.Errorf("%w: password must be at least %d characters", aula.ErrNotValid, MinPasswordLen)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", aula.ErrUnexpected, err)
	}

	return hash, nil
}

// NormalizeEmail trims and lowercases email.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// SignIn checks creds against the stored password hash.
// Unknown emails, wrong passwords and users without access all yield ErrAuth.
func (s *Service) SignIn(ctx context.Context, creds Credentials) (aula.User, error) {
	u, err := s.users.FindUserByEmail(ctx, NormalizeEmail(creds.Email))
	if err != nil {
		return aula.User{}, s.lookupErr(err)
	}

	if !u.HasAccess() || len(u.Password) == 0 {
		return aula.User{}, ErrAuth
	}

	if err := bcrypt.CompareHashAndPassword(u.Password, []byte(creds.Password)); err != nil {
		return aula.User{}, ErrAuth
	}

	s.notify(Change{Event: SignedIn, User: u})
	return u, nil
}

// Register creates a student account and signs it in.
func (s *Service) Register(ctx context.Context, email, password string) (aula.User, error) {
	u, err := s.Create(ctx, email, password, aula.RoleStudent)
	if err != nil {
		return aula.User{}, err
	}

	s.notify(Change{Event: SignedIn, User: u})
	return u, nil
}

// Create stores a user with role and a hashed password, without signing it in.
func (s *Service) Create(ctx context.Context, email, password string, role aula.Role) (aula.User, error) {
	email = NormalizeEmail(email)
	if _, err := mail.ParseAddress(email); err != nil {
		return aula.User{}, fmt.Errorf("%w: %q is not an email address", aula.ErrNotValid, email)
	}

	if err := role.Valid(); err != nil {
		return aula.User{}, err
	}

	hash, err := HashPassword(password)
	if err != nil {
		return aula.User{}, err
	}

	u := aula.User{
		AccessState: aula.AccessGranted,
		Email:       email,
		ExternalID:  uuid.New(),
		Password:    hash,
		Role:        role,
	}
	if err := s.users.CreateUser(ctx, &u); err != nil {
		return aula.User{}, err
	}

	return u, nil
}

// Promote grants the admin role to the user with email.
func (s *Service) Promote(ctx context.Context, email string) (aula.User, error) {
	u, err := s.users.FindUserByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		return aula.User{}, err
	}

	if u.Role == aula.RoleAdmin {
		return u, nil
	}

	u.Role = aula.RoleAdmin
	if err := s.users.UpdateUser(ctx, &u); err != nil {
		return aula.User{}, err
	}

	return u, nil
}

// SignOut notifies observers u signed out.
// Clearing the session is up to the caller.
func (s *Service) SignOut(_ context.Context, u aula.User) {
	s.notify(Change{Event: SignedOut, User: u})
}

// CurrentUser looks up a signed in user by id.
func (s *Service) CurrentUser(ctx context.Context, id uint) (aula.User, error) {
	return s.users.FindUser(ctx, id)
}

// lookupErr hides whether an email is registered.
func (s *Service) lookupErr(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, aula.ErrNotFound) {
		return ErrAuth
	}

	return fmt.Errorf("%w: %s", aula.ErrUnexpected, err)
}

package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/castellanoconmh/aula"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"golang.org/x/oauth2"
	goauth2 "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"
)

// stateTTL is how long a visitor has to finish signing in with Google.
const stateTTL = 10 * time.Minute

// stateClaims are signed into the OAuth state parameter.
type stateClaims struct {
	Next string `json:"next,omitempty"`
	jwt.RegisteredClaims
}

// AuthCodeURL returns the Google consent page URL
// and the nonce the visitor's session must hold until the callback.
// next is where to send the visitor after signing in; unsafe values are dropped.
func (s *Service) AuthCodeURL(next string) (authURL, nonce string, err error) {
	if !s.GoogleEnabled() {
		return "", "", fmt.Errorf("%w: Google sign in", aula.ErrNotImplemented)
	}

	now := s.now()
	claims := stateClaims{
		Next: SafeNext(next),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(stateTTL)),
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	state, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.key)
	if err != nil {
		return "", "", fmt.Errorf("%w: signing state: %s", aula.ErrUnexpected, err)
	}

	return s.config.AuthCodeURL(state, oauth2.AccessTypeOnline), claims.ID, nil
}

// SignInFederated finishes the Google flow AuthCodeURL started,
// returning the signed in user and where to send them next.
// nonce is what AuthCodeURL returned to the same browser;
// a state issued to any other browser fails with ErrAuth.
//
// Accounts are matched by Google subject, then by verified email.
// Unknown accounts become students.
func (s *Service) SignInFederated(ctx context.Context, code, state, nonce string) (aula.User, string, error) {
	if !s.GoogleEnabled() {
		return aula.User{}, "", fmt.Errorf("%w: Google sign in", aula.ErrNotImplemented)
	}

	claims, err := s.parseState(state)
	if err != nil {
		return aula.User{}, "", err
	}

	if nonce == "" || subtle.ConstantTimeCompare([]byte(claims.ID), []byte(nonce)) != 1 {
		return aula.User{}, "", fmt.Errorf("%w: state was issued to another session", ErrAuth)
	}

	if code == "" {
		return aula.User{}, "", fmt.Errorf("%w: no authorization code", ErrAuth)
	}

	token, err := s.exchange(ctx, code)
	if err != nil {
		return aula.User{}, "", fmt.Errorf("%w: exchanging code: %s", ErrAuth, err)
	}

	info, err := s.fetch(ctx, token)
	if err != nil {
		return aula.User{}, "", fmt.Errorf("%w: fetching user: %s", aula.ErrUnexpected, err)
	}

	if info.Id == "" || info.VerifiedEmail == nil || !*info.VerifiedEmail {
		return aula.User{}, "", fmt.Errorf("%w: Google account email is not verified", ErrAuth)
	}

	u, err := s.findOrCreateGoogleUser(ctx, info)
	if err != nil {
		return aula.User{}, "", err
	}

	if !u.HasAccess() {
		return aula.User{}, "", ErrAuth
	}

	s.notify(Change{Event: SignedIn, User: u})
	return u, claims.Next, nil
}

// FetchUser retrieves the Google profile token grants access to.
func (s *Service) FetchUser(ctx context.Context, token *oauth2.Token) (*goauth2.Userinfo, error) {
	service, err := goauth2.NewService(ctx, option.WithTokenSource(s.config.TokenSource(ctx, token)))
	if err != nil {
		return nil, err
	}

	return service.Userinfo.Get().Context(ctx).Do()
}

func (s *Service) findOrCreateGoogleUser(ctx context.Context, info *goauth2.Userinfo) (aula.User, error) {
	u, err := s.users.FindUserByGoogleSubject(ctx, info.Id)
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, aula.ErrNotFound) {
		return aula.User{}, fmt.Errorf("%w: %s", aula.ErrUnexpected, err)
	}

	email := NormalizeEmail(info.Email)
	u, err = s.users.FindUserByEmail(ctx, email)
	switch {
	case err == nil:
		u.GoogleSubject = info.Id
		if err := s.users.UpdateUser(ctx, &u); err != nil {
			return aula.User{}, fmt.Errorf("%w: %s", aula.ErrUnexpected, err)
		}
		return u, nil

	case errors.Is(err, aula.ErrNotFound):
		u = aula.User{
			AccessState:   aula.AccessGranted,
			Email:         email,
			ExternalID:    uuid.New(),
			GoogleSubject: info.Id,
			Role:          aula.RoleStudent,
		}
		if err := s.users.CreateUser(ctx, &u); err != nil {
			return aula.User{}, fmt.Errorf("%w: %s", aula.ErrUnexpected, err)
		}
		return u, nil

	default:
		return aula.User{}, fmt.Errorf("%w: %s", aula.ErrUnexpected, err)
	}
}

// parseState validates a state token AuthCodeURL signed.
func (s *Service) parseState(state string) (stateClaims, error) {
	if state == "" {
		return stateClaims{}, fmt.Errorf("%w: no state", ErrAuth)
	}

	claims := new(stateClaims)
	_, err := s.parser.ParseWithClaims(state, claims, func(*jwt.Token) (interface{}, error) {
		return s.key, nil
	})
	if err != nil {
		return stateClaims{}, fmt.Errorf("%w: %s", ErrAuth, err)
	}

	return *claims, nil
}

// SafeNext returns next if it is a path on this site, or "".
func SafeNext(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return ""
	}

	return next
}

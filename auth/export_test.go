package auth

import (
	"context"
	"time"

	"golang.org/x/oauth2"
	goauth2 "google.golang.org/api/oauth2/v2"
)

// StubGoogle replaces the calls to Google's servers.
func (s *Service) StubGoogle(
	exchange func(context.Context, string) (*oauth2.Token, error),
	fetch func(context.Context, *oauth2.Token) (*goauth2.Userinfo, error),
) {
	s.exchange = exchange
	s.fetch = fetch
}

// SetNow replaces the Service's clock.
func (s *Service) SetNow(now func() time.Time) { s.now = now }

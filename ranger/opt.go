package ranger

import (
	"context"
	"io/fs"
	"net/http"
	"net/url"

	"github.com/castellanoconmh/aula"
	"github.com/castellanoconmh/aula/http/session"
	"github.com/castellanoconmh/aula/logger"
	"github.com/go-redis/redis/v8"
)

// A RangerOption configures a *Ranger before New fills in the rest from env vars.
type RangerOption func(rng *Ranger) error

// WithContext exposes the provided context.Context to the aula app.
// Canceling ctx stops the web server.
func WithContext(ctx context.Context) RangerOption {
	return func(rng *Ranger) error {
		rng.ctx = ctx
		return nil
	}
}

// WithEnv casts the provided string into a valid Environment,
// or, reads from the ENVIRONMENT environment variable a valid Environment.
//
// If both fail, the Environment is Development.
func WithEnv(val string) RangerOption {
	return func(rng *Ranger) error {
		e := aula.Environment(val)
		if e.Valid() != nil {
			e = aula.EnvVarOrEnv(EnvironmentEnvVar, aula.Development)
		}

		rng.env = e
		return nil
	}
}

// WithLogger exposes the provided logger.Logger to the aula app.
func WithLogger(l logger.Logger) RangerOption {
	return func(rng *Ranger) error {
		rng.l = l
		return nil
	}
}

// WithRedis shares client between sessions, live updates and the idempotency cache.
func WithRedis(client *redis.Client) RangerOption {
	return func(rng *Ranger) error {
		rng.redis = client
		return nil
	}
}

// WithServer exposes the *http.Server to the aula app.
// Guide sets its Handler.
func WithServer(s *http.Server) RangerOption {
	return func(rng *Ranger) error {
		rng.srv = s
		return nil
	}
}

// WithSessionStore exposes the session.SessionStorer to the aula app.
func WithSessionStore(store session.SessionStorer) RangerOption {
	return func(rng *Ranger) error {
		rng.sessions = store
		return nil
	}
}

// WithStore sets the Store instead of connecting to a database.
func WithStore(store Store) RangerOption {
	return func(rng *Ranger) error {
		rng.store = store
		return nil
	}
}

// WithTemplates sets the filesystem pages are parsed from.
// Templates missing from it fall back to those embedded in package template.
func WithTemplates(files fs.FS) RangerOption {
	return func(rng *Ranger) error {
		rng.files = files
		return nil
	}
}

// WithURL sets the base URL instead of reading BASE_URL.
func WithURL(u *url.URL) RangerOption {
	return func(rng *Ranger) error {
		rng.url = u
		return nil
	}
}

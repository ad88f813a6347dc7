package aula

import (
	"log/slog"
	"net/url"
	"os"
	"strings"
	"time"
)

// An Environment names where the site runs.
type Environment string

const (
	Demo        Environment = "DEMO"
	Development Environment = "DEVELOPMENT"
	Production  Environment = "PRODUCTION"
	Review      Environment = "REVIEW"
	Staging     Environment = "STAGING"
	Testing     Environment = "TESTING"
)

func (e Environment) String() string { return string(e) }

func (e Environment) Valid() error {
	switch e {
	case Demo, Development, Production, Review, Staging, Testing:
		return nil
	default:
		return ErrNotValid
	}
}

// CanUseServiceStub asserts whether the site may run on in-memory stores
// when no database is configured.
func (e Environment) CanUseServiceStub() bool {
	return e == Demo || e == Development || e == Testing
}

func (e Environment) IsDevelopment() bool { return e == Development }
func (e Environment) IsProduction() bool  { return e == Production }
func (e Environment) IsTesting() bool     { return e == Testing }

// ToolboxEnabled asserts whether admins get quick actions for seeding course data.
func (e Environment) ToolboxEnabled() bool {
	return e != Production && e != Review
}

// EnvVarOrBool reads key as "true" or "false", in any case.
// Anything else yields def.
func EnvVarOrBool(key string, def bool) bool {
	switch strings.ToLower(os.Getenv(key)) {
	case "true":
		return true
	case "false":
		return false
	default:
		return def
	}
}

// EnvVarOrDuration parses key with [time.ParseDuration], falling back to def.
func EnvVarOrDuration(key string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return def
	}

	return d
}

// EnvVarOrEnv reads key as an [Environment], ignoring case.
// Unset or unknown values yield def.
func EnvVarOrEnv(key string, def Environment) Environment {
	env := Environment(strings.ToUpper(os.Getenv(key)))
	if env.Valid() != nil {
		return def
	}

	return env
}

// EnvVarOrLogLevel reads key with [NewLogLevel], or returns def when unset.
func EnvVarOrLogLevel(key string, def slog.Level) slog.Level {
	val := os.Getenv(key)
	if val == "" {
		return def
	}

	return NewLogLevel(val)
}

// EnvVarOrStrings splits key on commas, dropping blanks.
// When key is unset, def is returned.
func EnvVarOrStrings(key string, def []string) []string {
	val := os.Getenv(key)
	if val == "" {
		return def
	}

	var out []string
	for _, v := range strings.Split(val, ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}

	return out
}

// EnvVarOrString returns key's value, or def when unset.
func EnvVarOrString(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}

	return def
}

// EnvVarOrURL parses key as an absolute URL.
// When key is unset or malformed, def is parsed instead with its path reset to "/".
// A malformed def yields nil.
func EnvVarOrURL(key, def string) *url.URL {
	defURL, err := url.ParseRequestURI(def)
	if err != nil {
		return nil
	}
	defURL.Path = "/"

	u, err := url.ParseRequestURI(os.Getenv(key))
	if err != nil {
		return defURL
	}

	return u
}

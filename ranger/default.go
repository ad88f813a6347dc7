package ranger

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"
	"unicode"

	"github.com/castellanoconmh/aula"
	"github.com/castellanoconmh/aula/auth"
	"github.com/castellanoconmh/aula/http/resp"
	"github.com/castellanoconmh/aula/http/session"
	"github.com/castellanoconmh/aula/http/template"
	"github.com/castellanoconmh/aula/logger"
	"github.com/castellanoconmh/aula/memstore"
	"github.com/castellanoconmh/aula/postgres"
	"github.com/go-redis/redis/v8"
	"github.com/lmittmann/tint"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Templates the Responder renders pages into.
const (
	AuthedTmpl   = "tmpl/layout/authed.tmpl"
	ErrTmpl      = "tmpl/error.tmpl"
	MaintTmpl    = "tmpl/maintenance.tmpl"
	UnauthedTmpl = "tmpl/layout/unauthed.tmpl"
)

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

// NewSlogger constructs the [*log/slog.Logger] every aula logger writes through.
//
// Development writes colorized text with tint unless LOG_JSON is set;
// everything else writes JSON.
func NewSlogger(kind slog.Value, env aula.Environment, out io.Writer) *slog.Logger {
	lvl := aula.EnvVarOrLogLevel(logLevelEnvVar, slog.LevelInfo)
	useJSON := !env.IsDevelopment() || aula.EnvVarOrBool(logJSONEnvVar, defaultLogJSON)
	isHTTP := kind.String() == aula.HTTPLogKind.String()

	var handler slog.Handler
	switch {
	case useJSON && isHTTP:
		handler = slog.NewJSONHandler(out, &slog.HandlerOptions{Level: lvl, ReplaceAttr: logger.DeleteLevelAttr})

	case useJSON:
		handler = slog.NewJSONHandler(out, &slog.HandlerOptions{
			AddSource:   true,
			Level:       lvl,
			ReplaceAttr: logger.TruncSourceAttr,
		})

	default:
		handler = tint.NewHandler(out, &tint.Options{
			AddSource:  !isHTTP,
			Level:      lvl,
			TimeFormat: "2006-01-02 15:04:05.000",
			ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
				a = logger.ColorizeLevel(groups, a)
				return logger.TruncSourceAttr(groups, a)
			},
		})
	}

	return slog.New(handler)
}

// defaultLogger constructs a logger.Logger of kind,
// forwarding to Sentry when SENTRY_DSN is set.
func defaultLogger(kind slog.Value, env aula.Environment, out io.Writer) logger.Logger {
	sl := NewSlogger(kind, env, out)
	l := logger.New(sl, aula.EnvVarOrLogLevel(logLevelEnvVar, slog.LevelInfo), kind)
	l.Debug(fmt.Sprintf("setting up %s logger", kind), nil)

	if dsn := aula.EnvVarOrString(sentryDsnEnvVar, ""); dsn != "" {
		l.Debug(fmt.Sprintf("using SentryLogger for %s logger", kind), nil)
		return logger.NewSentryLogger(l, env.String(), dsn)
	}

	return l
}

// OpenRedis connects to REDIS_URL, if set, returning a nil client otherwise.
func OpenRedis(ctx context.Context) (*redis.Client, error) {
	raw := aula.EnvVarOrString(redisURLEnvVar, "")
	if raw == "" {
		return nil, nil
	}

	opts, err := redis.ParseURL(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %s", aula.ErrBadConfig, redisURLEnvVar, err)
	}

	if pass := aula.EnvVarOrString(redisPassEnvVar, ""); pass != "" {
		opts.Password = pass
	}

	client := redis.NewClient(opts)
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("%w: pinging Redis: %s", aula.ErrBadConfig, err)
	}

	return client, nil
}

// defaultStore connects to Postgres, running migrations,
// or falls back to a memstore where env allows it.
func defaultStore(env aula.Environment, l *slog.Logger) (Store, *postgres.DB, error) {
	if !DatabaseConfigured(env) {
		if !env.CanUseServiceStub() {
			return nil, nil, fmt.Errorf("%w: no database configured for %s", aula.ErrBadConfig, env)
		}

		return memstore.New(), nil, nil
	}

	db, err := postgres.Connect(NewPostgresConfig(env), postgres.Migrations, env, l)
	if err != nil {
		return nil, nil, err
	}

	return postgres.NewStore(db), db, nil
}

// seedAdmins creates an admin for every address in ADMIN_EMAILS
// sharing ADMIN_PASSWORD. It only runs over a memstore,
// which starts empty on every boot.
func seedAdmins(ctx context.Context, svc *auth.Service, l logger.Logger) error {
	pass := aula.EnvVarOrString(AdminPasswordEnvVar, "")
	emails := aula.EnvVarOrStrings(AdminEmailsEnvVar, nil)
	if pass == "" || len(emails) == 0 {
		return nil
	}

	for _, email := range emails {
		_, err := svc.Create(ctx, email, pass, aula.RoleAdmin)
		if err != nil && !errors.Is(err, aula.ErrExists) {
			return fmt.Errorf("seeding admin %s: %w", email, err)
		}

		l.Info("seeded admin", &logger.LogContext{Data: map[string]any{"email": email}})
	}

	return nil
}

// SessionName slugs title into a cookie name, e.g., "Castellano con MH" becomes "aula-castellano-con-mh".
func SessionName(title string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	plain, _, err := transform.String(t, title)
	if err != nil {
		plain = title
	}

	slug := nonSlug.ReplaceAllString(cases.Lower(language.Spanish).String(plain), "-")
	slug = strings.Trim(slug, "-")
	if slug == "" {
		return "aula"
	}

	return "aula-" + slug
}

// defaultSessionStore constructs a SessionStorer to be used for storing session data.
//
// defaultSessionStore relies on SESSION_AUTH_KEY and SESSION_ENCRYPTION_KEY,
// both valid hex encoded values; cf. [encoding/hex].
// Sessions live in Redis when a client is configured, and in cookies otherwise.
func defaultSessionStore(env aula.Environment, title string, rc *redis.Client) (session.SessionStorer, error) {
	cfg := session.Config{
		AuthKey:     aula.EnvVarOrString(SessionAuthKeyEnvVar, ""),
		EncryptKey:  aula.EnvVarOrString(SessionEncryptKeyEnvVar, ""),
		Env:         env,
		SessionName: SessionName(title),
	}

	args := []session.ServiceOpt{session.WithMaxAge(sessionMaxAge)}
	if rc != nil {
		args = append(args, session.WithRedis(rc.Options().Addr, rc.Options().Password))
	} else {
		args = append(args, session.WithCookie())
	}

	return session.NewStoreService(cfg, args...)
}

// defaultParser constructs a template.Parser over files
// to be used when responding to HTTP requests with [*resp.Responder.Html].
//
// defaultParser makes available these functions in an HTML template:
//
//   - "currentUser"
//   - "env"
//   - "isoDate"
//   - "nonce"
//   - "rootUrl"
//   - "title" returns the value set by the APP_TITLE env var
//   - "contact" returns the value set by the CONTACT_US_EMAIL env var
//   - "isProduction"
func defaultParser(env aula.Environment, u *url.URL, files fs.FS, title, contact string) template.Parser {
	opts := []template.ParserOptFn{
		template.WithFn(template.Env(env)),
		template.WithFn(template.RootUrl(u)),
		template.WithFn(template.Title(title)),
		template.WithFn("contact", func() string { return contact }),
		template.WithFn("isProduction", env.IsProduction),
	}
	if files != nil {
		opts = append(opts, template.WithFS(files))
	}

	return template.NewParser(opts...)
}

// defaultResponder configures the [*resp.Responder] to be used by http.Handlers.
func defaultResponder(l logger.Logger, u *url.URL, p template.Parser, contact string) *resp.Responder {
	return resp.NewResponder(
		resp.WithAuthTemplate(AuthedTmpl),
		resp.WithContactErrMsg(fmt.Sprintf(session.ContactUsErr, contact)),
		resp.WithErrTemplate(ErrTmpl),
		resp.WithLogger(l),
		resp.WithParser(p),
		resp.WithRootUrl(u.String()),
		resp.WithUnauthTemplate(UnauthedTmpl),
	)
}

// defaultServer constructs a default [*http.Server].
func defaultServer(ctx context.Context) *http.Server {
	port := aula.EnvVarOrString(portEnvVar, DefaultPort)
	if port[0] != ':' {
		port = ":" + port
	}

	srv := &http.Server{
		Addr:         port,
		IdleTimeout:  aula.EnvVarOrDuration(serverIdleTimeoutEnvVar, DefaultServerIdleTimeout),
		ReadTimeout:  aula.EnvVarOrDuration(serverReadTimeoutEnvVar, DefaultServerReadTimeout),
		WriteTimeout: aula.EnvVarOrDuration(serverWriteTimeoutEnvVar, DefaultServerWriteTimeout),
	}
	if ctx != nil {
		srv.BaseContext = func(_ net.Listener) context.Context { return ctx }
	}

	return srv
}

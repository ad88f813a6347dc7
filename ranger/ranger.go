package ranger

import (
	"context"
	"fmt"
	"io/fs"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"

	"github.com/castellanoconmh/aula"
	"github.com/castellanoconmh/aula/access"
	"github.com/castellanoconmh/aula/auth"
	"github.com/castellanoconmh/aula/course"
	"github.com/castellanoconmh/aula/http/middleware"
	"github.com/castellanoconmh/aula/http/resp"
	"github.com/castellanoconmh/aula/http/router"
	"github.com/castellanoconmh/aula/http/session"
	"github.com/castellanoconmh/aula/http/template"
	"github.com/castellanoconmh/aula/logger"
	"github.com/castellanoconmh/aula/memstore"
	"github.com/castellanoconmh/aula/postgres"
	"github.com/castellanoconmh/aula/watch"
	"github.com/go-redis/redis/v8"
)

// A Store is everything an aula app persists.
// Both *memstore.Store and *postgres.Store are Stores.
type Store interface {
	access.CodeStore
	access.EntitlementStore
	auth.UserStore
	course.Store
}

var (
	_ Store = (*memstore.Store)(nil)
	_ Store = (*postgres.Store)(nil)
)

// A Ranger manages and exposes all components of an aula app to one another.
type Ranger struct {
	*resp.Responder
	*router.Router

	Auth     *auth.Service
	Codes    *access.Codes
	Course   *course.Service
	Gate     *access.Gate
	Redeemer *access.Redeemer

	ctx      context.Context
	cancel   context.CancelFunc
	db       *postgres.DB
	env      aula.Environment
	files    fs.FS
	hub      watch.Hub
	httpLog  logger.Logger
	idem     middleware.IdempotencyCacher
	l        logger.Logger
	p        template.Parser
	redis    *redis.Client
	sessions session.SessionStorer
	srv      *http.Server
	store    Store
	title    string
	contact  string
	url      *url.URL
}

// New constructs a Ranger from the provided options.
// Options are applied first; anything they leave unset is configured from env vars.
func New(opts ...RangerOption) (*Ranger, error) {
	r := new(Ranger)
	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, fmt.Errorf("%w: %s", aula.ErrBadConfig, err)
		}
	}

	if err := r.setup(); err != nil {
		r.close()
		return nil, err
	}

	return r, nil
}

// setup fills in every component the options did not.
func (r *Ranger) setup() (err error) {
	if r.env == "" {
		r.env = aula.EnvVarOrEnv(EnvironmentEnvVar, aula.Development)
	}

	if r.ctx == nil {
		r.ctx = context.Background()
	}
	r.ctx, r.cancel = context.WithCancel(r.ctx)

	if r.l == nil {
		r.l = defaultLogger(aula.AppLogKind, r.env, os.Stdout)
	}
	r.httpLog = defaultLogger(aula.HTTPLogKind, r.env, os.Stdout)

	if r.url == nil {
		r.url = aula.EnvVarOrURL(BaseURLEnvVar, defaultBaseURL)
	}
	r.title = aula.EnvVarOrString(AppTitleEnvVar, defaultAppTitle)
	r.contact = aula.EnvVarOrString(ContactUsEnvVar, defaultContactUs)

	if r.redis == nil {
		if r.redis, err = OpenRedis(r.ctx); err != nil {
			return err
		}
	}

	seed := false
	if r.store == nil {
		if r.store, r.db, err = defaultStore(r.env, NewSlogger(aula.AppLogKind, r.env, os.Stdout)); err != nil {
			return err
		}
		_, seed = r.store.(*memstore.Store)
	}

	if r.redis != nil {
		r.hub = watch.NewRedis(r.redis)
		r.idem = middleware.NewRedisCache(r.redis)
	} else {
		r.hub = watch.NewLocal()
		r.idem = middleware.NewIdemResMap()
	}

	if r.sessions == nil {
		if r.sessions, err = defaultSessionStore(r.env, r.title, r.redis); err != nil {
			return fmt.Errorf("%w: %s", aula.ErrBadConfig, err)
		}
	}

	policy := access.ParsePolicy(aula.EnvVarOrString(PolicyEnvVar, ""))
	accessOpts := []access.Opt{
		access.WithLogger(r.l),
		access.WithPolicy(policy),
		access.WithPublisher(r.hub),
		access.WithTimeout(aula.EnvVarOrDuration(AccessTimeoutEnvVar, access.DefaultTimeout)),
	}
	r.Codes = access.NewCodes(r.store, accessOpts...)
	r.Redeemer = access.NewRedeemer(r.store, r.store, accessOpts...)
	r.Gate = access.NewGate(r.store, accessOpts...)
	r.Course = course.NewService(r.store, r.hub, r.l)
	r.l.Info("entitlement policy", &logger.LogContext{Data: map[string]any{"policy": policy.String()}})

	r.Auth, err = auth.NewService(r.store, auth.Config{
		GoogleClientID:     aula.EnvVarOrString(googleClientIDEnvVar, ""),
		GoogleClientSecret: aula.EnvVarOrString(googleClientSecretEnvVar, ""),
		RedirectURL:        r.url.JoinPath("auth", "google", "callback").String(),
		StateKey:           aula.EnvVarOrString(oauthStateKeyEnvVar, ""),
	})
	if err != nil {
		return err
	}

	if seed {
		if err := seedAdmins(r.ctx, r.Auth, r.l); err != nil {
			return err
		}
	}

	if r.p == nil {
		r.p = defaultParser(r.env, r.url, r.files, r.title, r.contact)
	}

	if r.Responder == nil {
		r.Responder = defaultResponder(r.l, r.url, r.p, r.contact)
	}

	if r.Router == nil {
		r.Router = router.New(r.env, middleware.LogRequest(r.httpLog))
	}

	if r.srv == nil {
		r.srv = defaultServer(r.ctx)
	}

	return nil
}

// Context returns the context.Context canceled when the Ranger shuts down.
func (r *Ranger) Context() context.Context { return r.ctx }

func (r *Ranger) EmitDB() *postgres.DB                               { return r.db }
func (r *Ranger) EmitEnv() aula.Environment                          { return r.env }
func (r *Ranger) EmitHTTPLogger() logger.Logger                      { return r.httpLog }
func (r *Ranger) EmitHub() watch.Hub                                 { return r.hub }
func (r *Ranger) EmitIdempotencyCache() middleware.IdempotencyCacher { return r.idem }
func (r *Ranger) EmitLogger() logger.Logger                          { return r.l }
func (r *Ranger) EmitSessionStore() session.SessionStorer            { return r.sessions }
func (r *Ranger) EmitStore() Store                                   { return r.store }

// EmitURL returns a copy of the base URL.
func (r *Ranger) EmitURL() *url.URL {
	u := *r.url
	return &u
}

// MaintenanceMode asserts whether MAINTENANCE_MODE is set.
func (r *Ranger) MaintenanceMode() bool { return aula.EnvVarOrBool(maintModeEnvVar, false) }

// MaintModeHandler responds 503 to every request, rendering the maintenance template.
func (r *Ranger) MaintModeHandler() http.HandlerFunc {
	return MaintModeHandler(r.p, r.l, r.contact)
}

// Guide begins the web server.
//
// These, and (*Ranger).Shutdown, stop Guide:
//
// - os.Interrupt
// - syscall.SIGHUP
// - syscall.SIGINT
// - syscall.SIGQUIT
// - syscall.SIGTERM
func (r *Ranger) Guide() error {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, os.Interrupt, syscall.SIGHUP, syscall.SIGINT, syscall.SIGQUIT, syscall.SIGTERM)
	defer signal.Stop(ch)

	go func() {
		select {
		case s := <-ch:
			r.l.Info(fmt.Sprint("received shutdown signal: ", s), nil)
			r.cancel()
		case <-r.ctx.Done():
		}
	}()

	errs := make(chan error, 1)
	go func() {
		r.l.Info(fmt.Sprintf("running web server at %s", r.srv.Addr), nil)
		r.srv.Handler = r.Router
		if err := r.srv.ListenAndServe(); err != http.ErrServerClosed {
			errs <- fmt.Errorf("could not listen: %w", err)
			r.cancel()
		}
	}()

	<-r.ctx.Done()
	if err := r.Shutdown(); err != nil {
		return err
	}

	select {
	case err := <-errs:
		return err
	default:
		return nil
	}
}

// Shutdown shuts down the web server, then releases Redis and the database.
func (r *Ranger) Shutdown() error {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	r.l.Info("shutting down web server", nil)
	r.cancel()
	err := r.srv.Shutdown(shutdownCtx)
	r.close()
	if err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("could not shutdown: %w", err)
	}

	r.l.Info("web server shutdown successfully", nil)
	return nil
}

func (r *Ranger) close() {
	if r.redis != nil {
		r.redis.Close()
	}

	if r.db != nil {
		if sqlDB, err := r.db.DB().DB(); err == nil {
			sqlDB.Close()
		}
	}
}

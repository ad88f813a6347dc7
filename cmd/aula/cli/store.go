package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/go-redis/redis/v8"

	"github.com/castellanoconmh/aula"
	"github.com/castellanoconmh/aula/access"
	"github.com/castellanoconmh/aula/auth"
	"github.com/castellanoconmh/aula/logger"
	"github.com/castellanoconmh/aula/postgres"
	"github.com/castellanoconmh/aula/ranger"
	"github.com/castellanoconmh/aula/watch"
)

// A backend is what commands touching data work through.
type backend struct {
	auth  *auth.Service
	codes *access.Codes
	db    *postgres.DB
	redis *redis.Client
}

// openDB connects to Postgres and brings the schema up to date.
// Commands refuse to run over the in-memory store, which forgets everything on exit.
func openDB(env aula.Environment) (*postgres.DB, error) {
	if !ranger.DatabaseConfigured(env) {
		return nil, fmt.Errorf("%w: set DATABASE_URL or DATABASE_NAME", aula.ErrBadConfig)
	}

	return postgres.Connect(
		ranger.NewPostgresConfig(env),
		postgres.Migrations,
		env,
		ranger.NewSlogger(aula.AppLogKind, env, os.Stderr),
	)
}

// openBackend opens the database and, when REDIS_URL is set, Redis,
// so running admin panels see changes made from the command line.
func openBackend(ctx context.Context) (*backend, error) {
	env, err := environment()
	if err != nil {
		return nil, err
	}

	db, err := openDB(env)
	if err != nil {
		return nil, err
	}

	b := &backend{db: db}
	if b.redis, err = ranger.OpenRedis(ctx); err != nil {
		b.close()
		return nil, err
	}

	l := logger.New(ranger.NewSlogger(aula.AppLogKind, env, os.Stderr), 0, aula.AppLogKind)
	store := postgres.NewStore(db)

	opts := []access.Opt{access.WithLogger(l)}
	if b.redis != nil {
		opts = append(opts, access.WithPublisher(watch.NewRedis(b.redis)))
	}
	b.codes = access.NewCodes(store, opts...)

	if b.auth, err = auth.NewService(store, auth.Config{}); err != nil {
		b.close()
		return nil, err
	}

	return b, nil
}

func (b *backend) close() {
	if b.redis != nil {
		b.redis.Close()
	}

	if sqlDB, err := b.db.DB().DB(); err == nil {
		sqlDB.Close()
	}
}

package postgres

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/castellanoconmh/aula"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// PG Docs: https://www.postgresql.org/docs/current/libpq-connect.html#LIBPQ-PARAMKEYWORDS
const cxnStr = "host=%s port=%s dbname=%s user=%s password=%s sslmode=%s"

// CxnConfig holds connection information used to connect to a PostgreSQL database.
type CxnConfig struct {
	IsTestDB bool
	URL      string
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	SSLMode  string
}

// Connect opens a database connection through GORM according to config and runs migrations.
// GORM's own warnings, like slow queries, are written through l.
func Connect(config *CxnConfig, migrations []Migration, env aula.Environment, l *slog.Logger) (*DB, error) {
	if l == nil {
		l = slog.Default()
	}

	// https://gorm.io/docs/logger.html
	c := gormlogger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  gormlogger.Warn,
		IgnoreRecordNotFoundError: true,
		Colorful:                  env.IsDevelopment(),
	}

	gdb, err := gorm.Open(postgres.Open(buildCxnStr(config)), &gorm.Config{
		Logger: gormlogger.New(slog.NewLogLogger(l.Handler(), slog.LevelWarn), c),
		NowFunc: func() time.Time {
			return time.Now().UTC().Truncate(time.Microsecond)
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: opening database: %s", aula.ErrBadConfig, err)
	}

	if config.IsTestDB {
		if err := gdb.Exec("DROP SCHEMA IF EXISTS public CASCADE;").Error; err != nil {
			return nil, fmt.Errorf("%w: dropping test schema: %s", aula.ErrUnexpected, err)
		}
	}

	if err := MigrateUp(gdb, "public", migrations); err != nil {
		return nil, err
	}

	return NewDB(gdb), nil
}

func buildCxnStr(config *CxnConfig) string {
	if config.URL != "" {
		return config.URL
	}

	sslMode := config.SSLMode
	if sslMode == "" {
		// PG Docs: https://www.postgresql.org/docs/current/libpq-ssl.html#LIBPQ-SSL-SSLMODE-STATEMENTS
		sslMode = "prefer"
	}

	return fmt.Sprintf(
		cxnStr,
		config.Host,
		config.Port,
		config.Name,
		config.User,
		config.Password,
		sslMode,
	)
}

// WipeDB truncates every table in schema but the migrations table.
func WipeDB(db *DB, schema string) error {
	var tables []string
	err := db.DB().
		Table("information_schema.tables").
		Select("table_name").
		Where("table_schema = ?", schema).
		Not("table_type = ?", "VIEW").
		Not("table_name = ?", "migrations").
		Pluck("table_name", &tables).
		Error
	if err != nil {
		return fmt.Errorf("%w: listing tables: %s", aula.ErrUnexpected, err)
	}

	if len(tables) == 0 {
		return nil
	}

	for i, t := range tables {
		tables[i] = schema + "." + t
	}

	err = db.DB().Exec(fmt.Sprintf("TRUNCATE %s RESTART IDENTITY CASCADE;", strings.Join(tables, ", "))).Error
	if err != nil {
		return fmt.Errorf("%w: truncating tables: %s", aula.ErrUnexpected, err)
	}

	return nil
}

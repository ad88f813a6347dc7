package ranger

import (
	"os"
	"time"

	"github.com/castellanoconmh/aula"
	"github.com/castellanoconmh/aula/postgres"
)

const (
	// App metadata
	AppTitleEnvVar   = "APP_TITLE"
	defaultAppTitle  = "Castellano con MH"
	BaseURLEnvVar    = "BASE_URL"
	ContactUsEnvVar  = "CONTACT_US_EMAIL"
	defaultContactUs = "hola@castellanoconmh.com"

	// Access defaults
	AccessTimeoutEnvVar = "ACCESS_TIMEOUT"
	AdminEmailsEnvVar   = "ADMIN_EMAILS"
	AdminPasswordEnvVar = "ADMIN_PASSWORD"
	PolicyEnvVar        = "ENTITLEMENT_POLICY"

	// Environment defaults
	EnvironmentEnvVar = "ENVIRONMENT"
	maintModeEnvVar   = "MAINTENANCE_MODE"

	// Google sign in
	googleClientIDEnvVar     = "GOOGLE_CLIENT_ID"
	googleClientSecretEnvVar = "GOOGLE_CLIENT_SECRET"
	oauthStateKeyEnvVar      = "OAUTH_STATE_KEY"

	// Log defaults
	logLevelEnvVar  = "LOG_LEVEL"
	logJSONEnvVar   = "LOG_JSON"
	defaultLogJSON  = false
	sentryDsnEnvVar = "SENTRY_DSN"

	// Database defaults
	dbHostEnvVar     = "DATABASE_HOST"
	defaultDBHost    = "localhost"
	dbNameEnvVar     = "DATABASE_NAME"
	dbPassEnvVar     = "DATABASE_PASSWORD"
	dbPortEnvVar     = "DATABASE_PORT"
	defaultDBPort    = "5432"
	dbSSLModeEnvVar  = "DATABASE_SSLMODE"
	defaultDBSSLMode = "prefer"
	dbURLEnvVar      = "DATABASE_URL"
	dbUserEnvVar     = "DATABASE_USER"

	// Redis defaults
	redisURLEnvVar  = "REDIS_URL"
	redisPassEnvVar = "REDIS_PASSWORD"

	// Web server defaults
	DefaultHost               = "localhost"
	DefaultPort               = ":3000"
	portEnvVar                = "PORT"
	serverReadTimeoutEnvVar   = "SERVER_READ_TIMEOUT"
	DefaultServerReadTimeout  = 5 * time.Second
	serverIdleTimeoutEnvVar   = "SERVER_IDLE_TIMEOUT"
	DefaultServerIdleTimeout  = 120 * time.Second
	serverWriteTimeoutEnvVar  = "SERVER_WRITE_TIMEOUT"
	DefaultServerWriteTimeout = 5 * time.Second

	// Session defaults
	SessionAuthKeyEnvVar    = "SESSION_AUTH_KEY"
	SessionEncryptKeyEnvVar = "SESSION_ENCRYPTION_KEY"
	sessionMaxAge           = 3600 * 24 * 7

	// Test defaults
	dbTestHostEnvVar     = "DATABASE_TEST_HOST"
	defaultDBTestHost    = "localhost"
	dbTestNameEnvVar     = "DATABASE_TEST_NAME"
	dbTestPassEnvVar     = "DATABASE_TEST_PASSWORD"
	dbTestPortEnvVar     = "DATABASE_TEST_PORT"
	defaultDBTestPort    = "5432"
	dbTestUserEnvVar     = "DATABASE_TEST_USER"
	dbTestSSLModeEnvVar  = "DATABASE_TEST_SSLMODE"
	defaultDBTestSSLMode = "prefer"
)

var defaultBaseURL = "http://" + DefaultHost + DefaultPort

// NewPostgresConfig constructs a *postgres.CxnConfig appropriate to the given environment.
// Confer the DATABASE env vars for usage.
func NewPostgresConfig(env aula.Environment) *postgres.CxnConfig {
	url := os.Getenv(dbURLEnvVar)
	switch {
	case env.IsTesting():
		return &postgres.CxnConfig{
			Host:     aula.EnvVarOrString(dbTestHostEnvVar, defaultDBTestHost),
			IsTestDB: true,
			Name:     os.Getenv(dbTestNameEnvVar),
			Password: os.Getenv(dbTestPassEnvVar),
			Port:     aula.EnvVarOrString(dbTestPortEnvVar, defaultDBTestPort),
			SSLMode:  aula.EnvVarOrString(dbTestSSLModeEnvVar, defaultDBTestSSLMode),
			User:     os.Getenv(dbTestUserEnvVar),
		}

	case url == "":
		return &postgres.CxnConfig{
			Host:     aula.EnvVarOrString(dbHostEnvVar, defaultDBHost),
			Name:     os.Getenv(dbNameEnvVar),
			Password: os.Getenv(dbPassEnvVar),
			Port:     aula.EnvVarOrString(dbPortEnvVar, defaultDBPort),
			SSLMode:  aula.EnvVarOrString(dbSSLModeEnvVar, defaultDBSSLMode),
			User:     os.Getenv(dbUserEnvVar),
		}

	default:
		return &postgres.CxnConfig{URL: url}
	}
}

// DatabaseConfigured asserts whether env vars point at a database for env.
func DatabaseConfigured(env aula.Environment) bool {
	cfg := NewPostgresConfig(env)
	return cfg.URL != "" || cfg.Name != ""
}

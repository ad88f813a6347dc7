/*
Package ranger assembles an aula app from environment variables.

# Ranger

The main entrypoint to package ranger is the [Ranger] type, constructed with [New].
Options passed to [New] take precedence; every component they leave unset is configured from env vars.
A [Ranger] exposes the access, course and auth services, the [*resp.Responder] and the [*router.Router]
so package web can register its routes.

[*Ranger.Guide] begins the web server, by default on [DefaultHost]:[DefaultPort].
Stop it with [*Ranger.Shutdown], by canceling the context passed to [WithContext],
or by sending a signal [*Ranger.Guide] listens for.

# Configuration

Environment variables are read from the process and from a ".env" file
found in the directory the application is executed from.

  - ACCESS_TIMEOUT: how long code generation, redemption and gate checks may take; default: 5s
  - ADMIN_EMAILS: comma separated addresses; promoted by "aula admin promote --from-env", and seeded as admins when running without a database
  - ADMIN_PASSWORD: the password admins seeded without a database share
  - APP_TITLE: the title of the site; default: Castellano con MH
  - BASE_URL: the base URL the application runs on; default: http://localhost:3000
  - CONTACT_US_EMAIL: the address shown in error copy; default: hola@castellanoconmh.com
  - DATABASE_HOST, DATABASE_NAME, DATABASE_PASSWORD, DATABASE_PORT, DATABASE_SSLMODE, DATABASE_USER: Postgres connection
  - DATABASE_URL: the fully-qualified connection string; replaces all other DATABASE_* env vars
  - DATABASE_TEST_*: the database Postgres tests run against
  - ENTITLEMENT_POLICY: identity or bearer; default: identity
  - ENVIRONMENT: cf. [aula.Environment]; default: DEVELOPMENT
  - GOOGLE_CLIENT_ID, GOOGLE_CLIENT_SECRET, OAUTH_STATE_KEY: enable signing in with Google
  - LOG_JSON: write JSON logs in development
  - LOG_LEVEL: the level at which to begin logging; default: INFO
  - MAINTENANCE_MODE: answer every request with the maintenance page
  - PORT: the port the application should listen on; default: :3000
  - REDIS_URL, REDIS_PASSWORD: Redis for sessions, live admin updates and the idempotency cache
  - SENTRY_DSN: forward errors to Sentry
  - SERVER_IDLE_TIMEOUT, SERVER_READ_TIMEOUT, SERVER_WRITE_TIMEOUT: cf. [net/http.Server]; defaults: 120s, 5s, 5s
  - SESSION_AUTH_KEY: a hex-encoded key for authenticating cookies; cf. [encoding/hex]
  - SESSION_ENCRYPTION_KEY: a hex-encoded key for encrypting cookies

Without a database, DEMO, DEVELOPMENT and TESTING run on an in-memory store that empties on every boot.
*/
package ranger

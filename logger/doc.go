/*
Package logger provides leveled logging to an aula app by defining the required behavior in [Logger]
and implementing it on top of [log/slog] with [AulaLogger].

# AulaLogger

Every message carries the call site, a kind (app, http or cli)
and, optionally, a [*LogContext] rendered as the log_context group:

	time=2026-01-04T15:55:21Z level=WARN source=web/redeem.go:43 msg="redemption failed" kind=app log_context.error="invalid code"

Form values named code or password are replaced with aula.LogMaskVal before they are logged.

# SentryLogger

[SentryLogger] wraps any [SkipLogger] and additionally ships the LogContext.Error
of Warn and Error messages to Sentry.
*/
package logger

/*
The middleware package defines what a middleware is in aula and the middlewares the site runs.

The available middlewares are:
- CORS
- CurrentUser
- ForceHTTPS
- Idempotent
- InjectIPAddress
- InjectSession
- LogRequest
- RateLimit
- ReportPanic
- RequestID
- RequireAuthed
- RequireEntitlement
- RequireUnauthed

plus AuthorizeApplicator for custom authorization rules.

The router assembles them; a chain guarding the dashboard looks like:

	vs := middleware.NewVisitors(rate.Every(time.Second), 20)
	adpts := []middleware.Adapter{
		middleware.RateLimit(vs),
		middleware.ForceHTTPS(env),
		middleware.RequestID(),
		middleware.LogRequest(log),
		middleware.InjectSession(sessionStore),
		middleware.CurrentUser(responder, users),
		middleware.RequireEntitlement(responder, gate, access.ViewDashboard),
	}
*/
package middleware

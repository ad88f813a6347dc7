/*
Package router registers the site's routes on a [gorilla/mux] router.

A [Route] pairs a path and HTTP method with the [http.HandlerFunc] serving it.
Before a request gets to a handler, any middlewares added to the Route are called in the order they appear,
after those applied to every request and those applied to the Route's group.

Routes sharing a middleware stack are registered together:
UnauthedRoutes for pages only anonymous visitors see, such as the login form,
AuthedRoutes for pages needing a signed in user,
and HandleRoutes for everything else.
Every handler is wrapped with middleware.ReportPanic.

[gorilla/mux]: https://github.com/gorilla/mux
*/
package router

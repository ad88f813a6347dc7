/*
Package resp provides a high-level API for responding to HTTP requests
with an easy way to configure the responses application-wide.

resp provides three main ways of responding to an HTTP request:
  - rendering HTML templates
  - rendering JSON data
  - redirecting

Each is configured per request with Fn options:

	d.Html(w, r, resp.Authed(), resp.Tmpls("tmpl/dashboard.tmpl"), resp.Data(catalog))
	d.Redirect(w, r, resp.Url("/admin"), resp.Success("Video añadido"))
*/
package resp

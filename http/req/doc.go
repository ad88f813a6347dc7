/*
Package req parses the payload of an HTTP request into a struct and validates it.

JSON bodies, url-encoded forms and query parameters are supported.
Keys are matched with "json" or "schema" struct tags
and rules are declared with "validate" tags.
Besides the go-playground/validator rules, "enum" checks an aula.Enumerable
and "httpurl" checks for an absolute http(s) URL.

Failures are reported as aula sentinel errors;
ValidationErrors unwraps to aula.ErrNotValid.
*/
package req

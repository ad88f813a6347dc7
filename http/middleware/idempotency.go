package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

const (
	IdempotencyHeader = "Idempotency-Key"

	// IdempotencyField carries the key in HTML forms, which cannot set headers.
	IdempotencyField = "idempotency_key"

	maxIdempotentBody = 1 << 20
)

var _ http.ResponseWriter = idemReqWriter{}

// Idempotent returns a middleware.Adapter that enables features
// of idempotency on a POST endpoint.
//
// Idempotent pulls a key from the Idempotency-Key header,
// or the idempotency_key form field,
// to base the uniqueness of a POST request around.
// Keys are scoped to the signed in user, if any.
//
// If a previous request has not used that key,
// Idempotent pairs all of the following values to the key:
// - a hash of the body of the request
// - the body of the resulting response
// - the status code and Location of the resulting response
//
// If that key has been used before (and has not expired),
// Idempotent falls into one of these scenarios:
//
//   - if a status code has not been set for that key,
//     Idempotent responds with 409 since the idempotent request is still processing
//
//   - if the newly requested resource (the URI) does not match the original,
//     Idempotent responds with 422
//
//   - if the new request's body does not match the body of the original request's,
//     Idempotent responds with 422
//
//   - otherwise, Idempotent replays the status code, Location and body set for the key
//
// If cache is nil, Idempotent uses an IdemResMap.
//
// Idempotent implements the draft Idempotent HTTP Header Field specification:
// https://tools.ietf.org/id/draft-idempotency-header-01.html
func Idempotent(cache IdempotencyCacher) Adapter {
	if cache == nil {
		cache = NewIdemResMap()
	}

	return func(handler http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				w.WriteHeader(http.StatusMethodNotAllowed)
				return
			}

			body, err := io.ReadAll(io.LimitReader(r.Body, maxIdempotentBody))
			r.Body.Close()
			if err != nil {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			r.Body = io.NopCloser(bytes.NewReader(body))

			key := idempotencyKey(r, body)
			if key == "" {
				w.WriteHeader(http.StatusBadRequest)
				return
			}

			sum := sha256.Sum256(body)
			ir, ok := cache.Get(r.Context(), key)
			if ok {
				if ir.Status == 0 {
					w.WriteHeader(http.StatusConflict)
					return
				}

				if ir.URI != r.URL.RequestURI() || !bytes.Equal(ir.Req, sum[:]) {
					w.WriteHeader(http.StatusUnprocessableEntity)
					return
				}

				if ir.Location != "" {
					w.Header().Set("Location", ir.Location)
				}
				w.WriteHeader(ir.Status)
				w.Write(ir.Body.Bytes())
				return
			}

			ir = NewIdemRes(r.URL.RequestURI(), sum[:])
			cache.Set(r.Context(), key, ir)

			irw := idemReqWriter{
				ctx: r.Context(),
				c:   cache,
				i:   &ir,
				k:   key,
				w:   w,
			}
			handler.ServeHTTP(irw, r)
		})
	}
}

// idempotencyKey scopes the client's key to the signed in user.
func idempotencyKey(r *http.Request, body []byte) string {
	key := strings.TrimSpace(r.Header.Get(IdempotencyHeader))
	if key == "" && strings.HasPrefix(r.Header.Get("Content-Type"), "application/x-www-form-urlencoded") {
		if vals, err := url.ParseQuery(string(body)); err == nil {
			key = strings.TrimSpace(vals.Get(IdempotencyField))
		}
	}

	if key == "" {
		return ""
	}

	var uid uint
	if u, ok := CurrentUserFrom(r.Context()); ok {
		uid = u.ID
	}

	return fmt.Sprintf("%d:%s", uid, key)
}

// An idemReqWriter pairs an IdemRes with an http.ResponseWriter
// so both can be written to by an HTTP handler.
// Changes to the IdemRes in such a way are saved in the cache.
//
// An idemReqWriter implements http.ResponseWriter.
type idemReqWriter struct {
	ctx context.Context
	c   IdempotencyCacher
	i   *IdemRes
	k   string
	w   http.ResponseWriter
}

// Header returns the http.Header of the underlying http.ResponseWriter.
func (irw idemReqWriter) Header() http.Header { return irw.w.Header() }

// Write writes the bytes to all consumers the idemReqWriter is concerned with.
func (irw idemReqWriter) Write(b []byte) (int, error) {
	if irw.i.Status == 0 {
		irw.WriteHeader(http.StatusOK)
	}

	n, err := irw.w.Write(b)
	if err != nil {
		return n, err
	}

	irw.i.Body.Write(b)
	irw.c.Set(irw.ctx, irw.k, *irw.i)
	return n, nil
}

// WriteHeader copies the status code about to be written to the IdemRes for later reuse
// before actually writing the status code.
func (irw idemReqWriter) WriteHeader(s int) {
	irw.i.Status = s
	irw.i.Location = irw.w.Header().Get("Location")
	irw.c.Set(irw.ctx, irw.k, *irw.i)
	irw.w.WriteHeader(s)
}

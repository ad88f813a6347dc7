package middleware

import (
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const visitorTTL = time.Hour

// A Visitor tracks a rate limiter and last seen time.
type Visitor struct {
	LastSeen time.Time
	Limiter  *rate.Limiter
}

// A Visitors maps a Visitor to an IP address.
type Visitors struct {
	burst int
	every rate.Limit
	swept time.Time
	val   map[string]Visitor
	sync.Mutex
}

// NewVisitors constructs Visitors whose new members may make
// every requests per second with bursts of up to burst.
func NewVisitors(every rate.Limit, burst int) *Visitors {
	return &Visitors{burst: burst, every: every, swept: time.Now(), val: make(map[string]Visitor)}
}

// Fetch retrieves the Visitor for the given ip creating a new Visitor if not seen.
// Visitors not seen in over an hour are forgotten.
func (vs *Visitors) Fetch(ip string) Visitor {
	vs.Lock()
	defer vs.Unlock()

	now := time.Now()
	if now.Sub(vs.swept) > visitorTTL {
		for k, v := range vs.val {
			if now.Sub(v.LastSeen) > visitorTTL {
				delete(vs.val, k)
			}
		}
		vs.swept = now
	}

	v, ok := vs.val[ip]
	if !ok {
		v = Visitor{Limiter: rate.NewLimiter(vs.every, vs.burst)}
	}

	v.LastSeen = now
	vs.val[ip] = v
	return v
}

// Len reports how many visitors are tracked.
func (vs *Visitors) Len() int {
	vs.Lock()
	defer vs.Unlock()
	return len(vs.val)
}

// RateLimit encloses the Visitors map and serves the http.Handler,
// responding 429 to visitors over their limit.
// Visitors are told apart by the address InjectIPAddress stored,
// or GetIPAddress when it has not run.
//
// NOTE: implementation found here:
// https://www.alexedwards.net/blog/how-to-rate-limit-http-requests
func RateLimit(visitors *Visitors) Adapter {
	if visitors == nil {
		return NoopAdapter
	}

	return func(h http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := IPAddress(r.Context())
			if ip == UnknownIP {
				ip = GetIPAddress(r)
			}

			if !visitors.Fetch(ip).Limiter.Allow() {
				w.Header().Set("Retry-After", "60")
				http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
				return
			}

			h.ServeHTTP(w, r)
		})
	}
}

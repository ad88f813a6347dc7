package access

import (
	"io"
	"time"

	"github.com/castellanoconmh/aula/logger"
)

// DefaultTimeout bounds how long generation, redemption and gate checks may take.
const DefaultTimeout = 5 * time.Second

type options struct {
	logger  logger.Logger
	policy  Policy
	pub     Publisher
	rand    io.Reader
	timeout time.Duration
}

// An Opt configures Codes, Redeemer or Gate.
// Options a type has no use for are ignored.
type Opt func(*options)

func newOptions(opts []Opt) options {
	o := options{policy: PolicyIdentity, pub: noopPublisher{}, timeout: DefaultTimeout}
	for _, opt := range opts {
		opt(&o)
	}

	return o
}

// WithLogger sets the logger used to record store failures.
func WithLogger(l logger.Logger) Opt {
	return func(o *options) { o.logger = l }
}

// WithPolicy sets the entitlement Policy. Invalid policies are ignored.
func WithPolicy(p Policy) Opt {
	return func(o *options) {
		if p.Valid() == nil {
			o.policy = p
		}
	}
}

// WithPublisher sets where changes to access codes are announced.
func WithPublisher(p Publisher) Opt {
	return func(o *options) {
		if p != nil {
			o.pub = p
		}
	}
}

// WithRand sets the source of randomness for new codes.
func WithRand(r io.Reader) Opt {
	return func(o *options) { o.rand = r }
}

// WithTimeout bounds each operation. Non-positive durations are ignored.
func WithTimeout(d time.Duration) Opt {
	return func(o *options) {
		if d > 0 {
			o.timeout = d
		}
	}
}

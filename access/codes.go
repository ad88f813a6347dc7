package access

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"time"

	"github.com/castellanoconmh/aula"
	"github.com/castellanoconmh/aula/logger"
)

// MaxAttempts caps how many codes Generate draws before giving up on finding an unused one.
const MaxAttempts = 5

// Codes is the admin's code book.
type Codes struct {
	options
	store CodeStore
	now   func() time.Time
}

// NewCodes constructs a Codes backed by store.
func NewCodes(store CodeStore, opts ...Opt) *Codes {
	o := newOptions(opts)
	if o.rand == nil {
		o.rand = rand.Reader
	}

	return &Codes{options: o, store: store, now: time.Now}
}

// Generate mints a new active code and persists it.
//
// Generate checks each candidate against the store before persisting,
// drawing at most MaxAttempts candidates.
// Any failure, including exhausting attempts, yields ErrWrite;
// running out of time additionally yields ErrTimeout.
func (c *Codes) Generate(ctx context.Context) (aula.AccessCode, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var code string
	for i := 0; i < MaxAttempts && code == ""; i++ {
		candidate, err := NewCode(c.rand)
		if err != nil {
			return aula.AccessCode{}, c.writeErr(ctx, err)
		}

		exists, err := c.store.CodeExists(ctx, candidate)
		if err != nil {
			return aula.AccessCode{}, c.writeErr(ctx, err)
		}

		if !exists {
			code = candidate
		}
	}

	if code == "" {
		err := fmt.Errorf("%w: no unused code after %d attempts", aula.ErrExists, MaxAttempts)
		return aula.AccessCode{}, c.writeErr(ctx, err)
	}

	ac := aula.AccessCode{
		Model:  aula.Model{CreatedAt: c.now().UTC()},
		Code:   code,
		Status: aula.CodeActive,
	}
	if err := c.store.CreateCode(ctx, &ac); err != nil {
		return aula.AccessCode{}, c.writeErr(ctx, err)
	}

	c.publish(ctx)
	return ac, nil
}

// List returns every code, newest first.
func (c *Codes) List(ctx context.Context) ([]aula.AccessCode, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	codes, err := c.store.ListCodes(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", aula.ErrUnexpected, err)
	}

	return codes, nil
}

// Delete removes the code with id once the admin has confirmed.
// Delete returns aula.ErrUnconfirmed without touching the store if confirmed is false.
func (c *Codes) Delete(ctx context.Context, id uint, confirmed bool) error {
	if !confirmed {
		return aula.ErrUnconfirmed
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if err := c.store.DeleteCode(ctx, id); err != nil {
		if errors.Is(err, aula.ErrNotFound) {
			return err
		}

		return c.writeErr(ctx, err)
	}

	c.publish(ctx)
	return nil
}

func (c *Codes) publish(ctx context.Context) {
	if err := c.pub.Publish(ctx, aula.CollectionAccessCodes); err != nil && c.logger != nil {
		c.logger.Warn("failed publishing change", &logger.LogContext{
			Data:  map[string]any{"collection": aula.CollectionAccessCodes},
			Error: err,
		})
	}
}

func (c *Codes) writeErr(ctx context.Context, err error) error {
	if c.logger != nil {
		c.logger.Error("failed writing access code", &logger.LogContext{Error: err})
	}

	return wrapFailure(ctx, ErrWrite, err)
}

// wrapFailure wraps err in kind, marking it ErrTimeout if ctx expired.
func wrapFailure(ctx context.Context, kind, err error) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w: %s", kind, ErrTimeout, err)
	}

	return fmt.Errorf("%w: %s", kind, err)
}

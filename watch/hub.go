package watch

import (
	"context"
	"fmt"
	"sync"

	"github.com/castellanoconmh/aula"
)

// A Hub publishes and subscribes to change notices per collection.
type Hub interface {
	// Publish announces c changed.
	Publish(ctx context.Context, c aula.Collection) error

	// Subscribe calls fn after changes to c until cancel is called.
	// Notices arriving while fn runs coalesce into one call.
	Subscribe(c aula.Collection, fn func()) (cancel func(), err error)
}

var (
	_ Hub = (*Local)(nil)
	_ Hub = (*Redis)(nil)
)

type subscriber struct {
	notify chan struct{}
	done   chan struct{}
}

// Local is an in-process Hub.
type Local struct {
	mu   sync.RWMutex
	next int
	subs map[aula.Collection]map[int]subscriber
}

// NewLocal constructs a Local.
func NewLocal() *Local {
	return &Local{subs: make(map[aula.Collection]map[int]subscriber)}
}

// Publish notifies every subscriber of c without waiting on them.
func (l *Local) Publish(_ context.Context, c aula.Collection) error {
	if err := c.Valid(); err != nil {
		return fmt.Errorf("%w: collection %q", err, c)
	}

	l.mu.RLock()
	defer l.mu.RUnlock()

	for _, sub := range l.subs[c] {
		select {
		case sub.notify <- struct{}{}:
		default:
		}
	}

	return nil
}

// Subscribe calls fn from its own goroutine after every Publish of c.
func (l *Local) Subscribe(c aula.Collection, fn func()) (func(), error) {
	if err := c.Valid(); err != nil {
		return nil, fmt.Errorf("%w: collection %q", err, c)
	}

	sub := subscriber{notify: make(chan struct{}, 1), done: make(chan struct{})}

	l.mu.Lock()
	id := l.next
	l.next++
	if l.subs[c] == nil {
		l.subs[c] = make(map[int]subscriber)
	}
	l.subs[c][id] = sub
	l.mu.Unlock()

	go func() {
		for {
			select {
			case <-sub.done:
				return
			case <-sub.notify:
				fn()
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			l.mu.Lock()
			delete(l.subs[c], id)
			l.mu.Unlock()
			close(sub.done)
		})
	}, nil
}

// Subscribers counts the live subscriptions to c.
func (l *Local) Subscribers(c aula.Collection) int {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return len(l.subs[c])
}

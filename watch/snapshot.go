package watch

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/castellanoconmh/aula"
)

// Snapshot delivers the result of list right away and again after every change to c.
//
// Deliveries never overlap. cancel stops them and releases the subscription;
// it is safe to call more than once, including from deliver.
// Cancelling ctx has the same effect.
func Snapshot[T any](
	ctx context.Context,
	hub Hub,
	c aula.Collection,
	list func(context.Context) ([]T, error),
	deliver func([]T, error),
) (cancel func(), err error) {
	var (
		mu      sync.Mutex
		once    sync.Once
		stopped atomic.Bool
		done    = make(chan struct{})
	)

	refresh := func() {
		mu.Lock()
		defer mu.Unlock()

		if stopped.Load() {
			return
		}

		items, err := list(ctx)
		if stopped.Load() {
			return
		}
		deliver(items, err)
	}

	unsubscribe, err := hub.Subscribe(c, refresh)
	if err != nil {
		return nil, err
	}

	cancel = func() {
		once.Do(func() {
			stopped.Store(true)
			unsubscribe()
			close(done)
		})
	}

	go func() {
		select {
		case <-ctx.Done():
			cancel()
		case <-done:
		}
	}()

	refresh()
	return cancel, nil
}

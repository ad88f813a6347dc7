package watch

import (
	"context"
	"fmt"
	"sync"

	"github.com/castellanoconmh/aula"
	"github.com/go-redis/redis/v8"
)

const defaultChannelPrefix = "aula:watch:"

// Redis is a Hub backed by Redis pub/sub.
type Redis struct {
	client *redis.Client
	prefix string
}

// NewRedis constructs a Redis publishing on channels named aula:watch:<collection>.
func NewRedis(client *redis.Client) *Redis {
	return &Redis{client: client, prefix: defaultChannelPrefix}
}

// Channel names the Redis channel carrying notices for c.
func (r *Redis) Channel(c aula.Collection) string { return r.prefix + c.String() }

// Publish sends a notice for c to every process subscribed to it.
func (r *Redis) Publish(ctx context.Context, c aula.Collection) error {
	if err := c.Valid(); err != nil {
		return fmt.Errorf("%w: collection %q", err, c)
	}

	if err := r.client.Publish(ctx, r.Channel(c), c.String()).Err(); err != nil {
		return fmt.Errorf("%w: publishing to redis: %s", aula.ErrUnexpected, err)
	}

	return nil
}

// Subscribe opens a Redis subscription to c.
// Subscribe waits for Redis to confirm before returning.
func (r *Redis) Subscribe(c aula.Collection, fn func()) (func(), error) {
	if err := c.Valid(); err != nil {
		return nil, fmt.Errorf("%w: collection %q", err, c)
	}

	ctx := context.Background()
	ps := r.client.Subscribe(ctx, r.Channel(c))
	if _, err := ps.Receive(ctx); err != nil {
		ps.Close()
		return nil, fmt.Errorf("%w: subscribing to redis: %s", aula.ErrUnexpected, err)
	}

	notify := make(chan struct{}, 1)
	go func() {
		defer close(notify)
		for range ps.Channel() {
			select {
			case notify <- struct{}{}:
			default:
			}
		}
	}()

	go func() {
		for range notify {
			fn()
		}
	}()

	var once sync.Once
	return func() { once.Do(func() { ps.Close() }) }, nil
}

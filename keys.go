package aula

import (
	"context"
	"sort"
)

type Key string

const (
	// appPropsKey stashes additional props to be included in HTML responses.
	appPropsKey Key = "AppPropsKey"

	// CurrentUserKey stashes the currentUser for a session.
	CurrentUserKey Key = "CurrentUserKey"

	// GateStateKey stashes the access.State resolved for a request.
	GateStateKey Key = "GateStateKey"

	// IpAddrKey stashes the IP address of an HTTP request.
	IpAddrKey Key = "IpAddrKey"

	// RequestIDKey stashes a unique UUID for each HTTP request.
	RequestIDKey Key = "RequestIDKey"

	// SessionKey stashes the session associated with an HTTP request.
	SessionKey Key = "SessionKey"
)

// String formats the stringified key with additional contextual information
func (k Key) String() string {
	return "aula context key: " + string(k)
}

// A ByKey sorts and dedupes Keys.
type ByKey []Key

func (k ByKey) Len() int           { return len(k) }
func (k ByKey) Less(i, j int) bool { return k[i] < k[j] }
func (k ByKey) Swap(i, j int)      { k[i], k[j] = k[j], k[i] }

// UniqueSort sorts k, then removes duplicates and zero-value Keys.
func (k ByKey) UniqueSort() ByKey {
	out := make(ByKey, 0, len(k))
	sort.Sort(k)
	for i, key := range k {
		if key == "" {
			continue
		}
		if i > 0 && key == k[i-1] {
			continue
		}
		out = append(out, key)
	}

	return out
}

// An AppProps passes data from the server to rendered pages as a set of props
// needed for general application state.
type AppProps map[string]any

// NewAppPropsContext adds props to ctx, returning the resulting context.
// If props have already been added to ctx, its key-value pairs are added to existing ones.
// If any keys collide, those in props overwrite previous values.
func NewAppPropsContext(ctx context.Context, props AppProps) context.Context {
	existing := AppPropsFromContext(ctx)
	for k, v := range props {
		existing[k] = v
	}

	return context.WithValue(ctx, appPropsKey, existing)
}

// AppPropsFromContext retrieves an AppProps in ctx.
// If not already set, it initializes a new AppProps.
func AppPropsFromContext(ctx context.Context) AppProps {
	props, ok := ctx.Value(appPropsKey).(AppProps)
	if !ok {
		props = make(AppProps)
	}

	return props
}

package auth

import "github.com/castellanoconmh/aula"

// An Event is a change to who is signed in.
type Event int

const (
	SignedIn Event = iota + 1
	SignedOut
)

func (e Event) String() string {
	switch e {
	case SignedIn:
		return "signed_in"
	case SignedOut:
		return "signed_out"
	default:
		return "unknown"
	}
}

// A Change pairs an Event with the user it happened to.
type Change struct {
	Event Event
	User  aula.User
}

// OnIdentityChange registers fn to be called after every sign in and sign out.
// Calling the returned function unregisters fn; calling it again does nothing.
func (s *Service) OnIdentityChange(fn func(Change)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextObs
	s.nextObs++
	s.observers[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.observers, id)
		s.mu.Unlock()
	}
}

func (s *Service) notify(c Change) {
	s.mu.RLock()
	fns := make([]func(Change), 0, len(s.observers))
	for _, fn := range s.observers {
		fns = append(fns, fn)
	}
	s.mu.RUnlock()

	for _, fn := range fns {
		fn(c)
	}
}

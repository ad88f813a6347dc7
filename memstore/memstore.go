// Package memstore keeps aula records in memory.
// It backs tests and environments that may run without a database.
package memstore

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/castellanoconmh/aula"
	"github.com/castellanoconmh/aula/access"
	"github.com/castellanoconmh/aula/auth"
	"github.com/castellanoconmh/aula/course"
)

var (
	_ access.CodeStore        = (*Store)(nil)
	_ access.EntitlementStore = (*Store)(nil)
	_ auth.UserStore          = (*Store)(nil)
	_ course.Store            = (*Store)(nil)
)

// A Store holds every collection behind one lock.
// The zero value is not usable; call New.
type Store struct {
	mu     sync.RWMutex
	lastID uint
	now    func() time.Time

	codes        map[uint]aula.AccessCode
	entitlements map[uint]aula.Entitlement
	exams        map[uint]aula.Exam
	users        map[uint]aula.User
	videos       map[uint]aula.Video
}

// New constructs an empty Store.
func New() *Store {
	return &Store{
		now:          time.Now,
		codes:        make(map[uint]aula.AccessCode),
		entitlements: make(map[uint]aula.Entitlement),
		exams:        make(map[uint]aula.Exam),
		users:        make(map[uint]aula.User),
		videos:       make(map[uint]aula.Video),
	}
}

// stamp assigns m an ID and timestamps. Callers hold mu.
func (s *Store) stamp(m *aula.Model) {
	s.lastID++
	now := s.now().UTC()
	m.ID = s.lastID
	if m.CreatedAt.IsZero() {
		m.CreatedAt = now
	}
	m.UpdatedAt = now
}

// sorted returns the values of m ordered by ID.
func sorted[T any](m map[uint]T, id func(T) uint) []T {
	out := make([]T, 0, len(m))
	for _, v := range m {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return id(out[i]) < id(out[j]) })

	return out
}

func notFound(what string, key any) error {
	return fmt.Errorf("%w: %s %v", aula.ErrNotFound, what, key)
}

func done(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %s", aula.ErrUnexpected, err)
	}

	return nil
}

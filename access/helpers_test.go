package access_test

import (
	"context"
	"sync"
	"testing"

	"github.com/castellanoconmh/aula"
	"github.com/castellanoconmh/aula/memstore"
	"github.com/stretchr/testify/require"
)

// faultyStore fails the calls whose error is set.
type faultyStore struct {
	*memstore.Store
	alwaysExists bool
	beforeClaim  func()
	block        bool
	claimErr     error
	createErr    error
	deleteErr    error
	entErr       error
	existsErr    error
	findErr      error
}

func newFaultyStore() *faultyStore { return &faultyStore{Store: memstore.New()} }

func (s *faultyStore) wait(ctx context.Context) error {
	if !s.block {
		return nil
	}

	<-ctx.Done()
	return ctx.Err()
}

func (s *faultyStore) Claim(ctx context.Context, code string, u aula.User) (aula.Entitlement, error) {
	if s.claimErr != nil {
		return aula.Entitlement{}, s.claimErr
	}

	if s.beforeClaim != nil {
		s.beforeClaim()
	}

	return s.Store.Claim(ctx, code, u)
}

func (s *faultyStore) CodeExists(ctx context.Context, code string) (bool, error) {
	if err := s.wait(ctx); err != nil {
		return false, err
	}

	if s.existsErr != nil {
		return false, s.existsErr
	}

	if s.alwaysExists {
		return true, nil
	}

	return s.Store.CodeExists(ctx, code)
}

func (s *faultyStore) CreateCode(ctx context.Context, ac *aula.AccessCode) error {
	if s.createErr != nil {
		return s.createErr
	}

	return s.Store.CreateCode(ctx, ac)
}

func (s *faultyStore) DeleteCode(ctx context.Context, id uint) error {
	if s.deleteErr != nil {
		return s.deleteErr
	}

	return s.Store.DeleteCode(ctx, id)
}

func (s *faultyStore) EntitlementFor(ctx context.Context, userID uint) (aula.Entitlement, error) {
	if s.entErr != nil {
		return aula.Entitlement{}, s.entErr
	}

	return s.Store.EntitlementFor(ctx, userID)
}

func (s *faultyStore) FindCode(ctx context.Context, code string) (aula.AccessCode, error) {
	if err := s.wait(ctx); err != nil {
		return aula.AccessCode{}, err
	}

	if s.findErr != nil {
		return aula.AccessCode{}, s.findErr
	}

	return s.Store.FindCode(ctx, code)
}

// recorder collects published collections.
type recorder struct {
	mu  sync.Mutex
	got []aula.Collection
}

func (r *recorder) Publish(_ context.Context, c aula.Collection) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.got = append(r.got, c)
	return nil
}

func (r *recorder) published() []aula.Collection {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]aula.Collection(nil), r.got...)
}

func newStudent(t *testing.T, s *memstore.Store, email string) aula.User {
	t.Helper()

	u := aula.User{AccessState: aula.AccessGranted, Email: email, Role: aula.RoleStudent}
	require.Nil(t, s.CreateUser(context.Background(), &u))

	return u
}

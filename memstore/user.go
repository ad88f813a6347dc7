package memstore

import (
	"context"
	"fmt"

	"github.com/castellanoconmh/aula"
)

func (s *Store) CreateUser(ctx context.Context, u *aula.User) error {
	if err := done(ctx); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if existing.Email == u.Email {
			return fmt.Errorf("%w: user %s", aula.ErrExists, u.Email)
		}
	}

	s.stamp(&u.Model)
	s.users[u.ID] = *u
	return nil
}

func (s *Store) FindUser(ctx context.Context, id uint) (aula.User, error) {
	if err := done(ctx); err != nil {
		return aula.User{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return aula.User{}, notFound("user", id)
	}

	return u, nil
}

func (s *Store) FindUserByEmail(ctx context.Context, email string) (aula.User, error) {
	return s.findUser(ctx, "user with email", email, func(u aula.User) bool { return u.Email == email })
}

func (s *Store) FindUserByGoogleSubject(ctx context.Context, sub string) (aula.User, error) {
	return s.findUser(ctx, "user with Google subject", sub, func(u aula.User) bool {
		return sub != "" && u.GoogleSubject == sub
	})
}

func (s *Store) UpdateUser(ctx context.Context, u *aula.User) error {
	if err := done(ctx); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[u.ID]; !ok {
		return notFound("user", u.ID)
	}

	u.UpdatedAt = s.now().UTC()
	s.users[u.ID] = *u
	return nil
}

func (s *Store) findUser(ctx context.Context, what, key string, match func(aula.User) bool) (aula.User, error) {
	if err := done(ctx); err != nil {
		return aula.User{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if match(u) {
			return u, nil
		}
	}

	return aula.User{}, notFound(what, key)
}

package memstore

import (
	"context"
	"fmt"

	"github.com/castellanoconmh/aula"
	"github.com/castellanoconmh/aula/access"
)

func (s *Store) Claim(ctx context.Context, code string, user aula.User) (aula.Entitlement, error) {
	if err := done(ctx); err != nil {
		return aula.Entitlement{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for id, ac := range s.codes {
		if ac.Code != code {
			continue
		}

		if !ac.IsActive() {
			return aula.Entitlement{}, access.ErrAlreadyUsed
		}

		if _, ok := s.entitlements[user.ID]; ok {
			return aula.Entitlement{}, fmt.Errorf("%w: entitlement for user %d", aula.ErrExists, user.ID)
		}

		now := s.now().UTC()
		ac.Status = aula.CodeUsed
		ac.Email = user.Email
		ac.RedeemedAt = &now
		userID := user.ID
		ac.RedeemedByID = &userID
		ac.UpdatedAt = now
		s.codes[id] = ac

		ent := aula.Entitlement{AccessCodeID: ac.ID, GrantedAt: now, UserID: user.ID}
		s.stamp(&ent.Model)
		s.entitlements[user.ID] = ent

		return ent, nil
	}

	return aula.Entitlement{}, notFound("access code", code)
}

func (s *Store) CodeExists(ctx context.Context, code string) (bool, error) {
	if err := done(ctx); err != nil {
		return false, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, ac := range s.codes {
		if ac.Code == code {
			return true, nil
		}
	}

	return false, nil
}

func (s *Store) CreateCode(ctx context.Context, ac *aula.AccessCode) error {
	if err := done(ctx); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.codes {
		if existing.Code == ac.Code {
			return fmt.Errorf("%w: access code %s", aula.ErrExists, ac.Code)
		}
	}

	s.stamp(&ac.Model)
	s.codes[ac.ID] = *ac
	return nil
}

func (s *Store) DeleteCode(ctx context.Context, id uint) error {
	if err := done(ctx); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.codes[id]; !ok {
		return notFound("access code", id)
	}

	delete(s.codes, id)
	return nil
}

func (s *Store) FindCode(ctx context.Context, code string) (aula.AccessCode, error) {
	if err := done(ctx); err != nil {
		return aula.AccessCode{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, ac := range s.codes {
		if ac.Code == code {
			return ac, nil
		}
	}

	return aula.AccessCode{}, notFound("access code", code)
}

// ListCodes returns codes newest first.
func (s *Store) ListCodes(ctx context.Context) ([]aula.AccessCode, error) {
	if err := done(ctx); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	codes := sorted(s.codes, func(ac aula.AccessCode) uint { return ac.ID })
	for i, j := 0, len(codes)-1; i < j; i, j = i+1, j-1 {
		codes[i], codes[j] = codes[j], codes[i]
	}

	return codes, nil
}

func (s *Store) EntitlementFor(ctx context.Context, userID uint) (aula.Entitlement, error) {
	if err := done(ctx); err != nil {
		return aula.Entitlement{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	ent, ok := s.entitlements[userID]
	if !ok {
		return aula.Entitlement{}, notFound("entitlement for user", userID)
	}

	return ent, nil
}

// Entitlements counts stored entitlements.
func (s *Store) Entitlements() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.entitlements)
}

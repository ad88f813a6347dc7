package postgres

import (
	"context"
	"errors"
	"fmt"
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

// A Store keeps aula records in PostgreSQL.
type Store struct {
	db *DB
}

// NewStore constructs a Store querying db.
func NewStore(db *DB) *Store { return &Store{db: db} }

func (s *Store) q(ctx context.Context) *DB { return s.db.WithContext(ctx) }

// **************************************************************************
// ACCESS CODES
// **************************************************************************

// Claim flips the code to used and records the entitlement in one transaction.
// The update only matches active codes, so concurrent claims of one code
// leave exactly one winner.
func (s *Store) Claim(ctx context.Context, code string, user aula.User) (ent aula.Entitlement, err error) {
	tx := s.q(ctx).Begin()
	if err := tx.DB().Error; err != nil {
		return aula.Entitlement{}, fmt.Errorf("%w: beginning tx: %s", aula.ErrUnexpected, err)
	}

	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var ac aula.AccessCode
	if err = tx.Where("code = ?", code).First(&ac); err != nil {
		return aula.Entitlement{}, err
	}

	if !ac.IsActive() {
		return aula.Entitlement{}, access.ErrAlreadyUsed
	}

	now := time.Now().UTC().Truncate(time.Microsecond)
	err = tx.
		Model(new(aula.AccessCode)).
		Where("id = ?", ac.ID).
		Where("status = ?", aula.CodeActive.String()).
		Update(Updates{
			"email":          user.Email,
			"redeemed_at":    now,
			"redeemed_by_id": user.ID,
			"status":         aula.CodeUsed.String(),
			"updated_at":     now,
		})
	if errors.Is(err, aula.ErrNotFound) {
		return aula.Entitlement{}, access.ErrAlreadyUsed
	}
	if err != nil {
		return aula.Entitlement{}, err
	}

	ent = aula.Entitlement{AccessCodeID: ac.ID, GrantedAt: now, UserID: user.ID}
	if err = tx.Create(&ent); err != nil {
		return aula.Entitlement{}, err
	}

	if err = tx.Commit(); err != nil {
		return aula.Entitlement{}, err
	}

	return ent, nil
}

func (s *Store) CodeExists(ctx context.Context, code string) (bool, error) {
	return s.q(ctx).Model(new(aula.AccessCode)).Where("code = ?", code).Exists()
}

func (s *Store) CreateCode(ctx context.Context, ac *aula.AccessCode) error {
	return s.q(ctx).Create(ac)
}

func (s *Store) DeleteCode(ctx context.Context, id uint) error {
	return s.q(ctx).Where("id = ?", id).Delete(new(aula.AccessCode))
}

func (s *Store) FindCode(ctx context.Context, code string) (aula.AccessCode, error) {
	var ac aula.AccessCode
	if err := s.q(ctx).Where("code = ?", code).First(&ac); err != nil {
		return aula.AccessCode{}, err
	}

	return ac, nil
}

// ListCodes returns codes newest first.
func (s *Store) ListCodes(ctx context.Context) ([]aula.AccessCode, error) {
	codes := make([]aula.AccessCode, 0)
	if err := s.q(ctx).Order("created_at DESC, id DESC").Find(&codes); err != nil {
		return nil, err
	}

	return codes, nil
}

func (s *Store) EntitlementFor(ctx context.Context, userID uint) (aula.Entitlement, error) {
	var ent aula.Entitlement
	if err := s.q(ctx).Where("user_id = ?", userID).First(&ent); err != nil {
		return aula.Entitlement{}, err
	}

	return ent, nil
}

// **************************************************************************
// COURSE MATERIAL
// **************************************************************************

func (s *Store) CreateExam(ctx context.Context, e *aula.Exam) error { return s.q(ctx).Create(e) }

func (s *Store) CreateVideo(ctx context.Context, v *aula.Video) error { return s.q(ctx).Create(v) }

func (s *Store) DeleteExam(ctx context.Context, id uint) error {
	return s.q(ctx).Where("id = ?", id).Delete(new(aula.Exam))
}

func (s *Store) DeleteVideo(ctx context.Context, id uint) error {
	return s.q(ctx).Where("id = ?", id).Delete(new(aula.Video))
}

func (s *Store) ListExams(ctx context.Context) ([]aula.Exam, error) {
	exams := make([]aula.Exam, 0)
	if err := s.q(ctx).Order("id ASC").Find(&exams); err != nil {
		return nil, err
	}

	return exams, nil
}

func (s *Store) ListVideos(ctx context.Context) ([]aula.Video, error) {
	videos := make([]aula.Video, 0)
	if err := s.q(ctx).Order("id ASC").Find(&videos); err != nil {
		return nil, err
	}

	return videos, nil
}

// **************************************************************************
// USERS
// **************************************************************************

func (s *Store) CreateUser(ctx context.Context, u *aula.User) error { return s.q(ctx).Create(u) }

func (s *Store) FindUser(ctx context.Context, id uint) (aula.User, error) {
	return s.findUser(ctx, "id = ?", id)
}

func (s *Store) FindUserByEmail(ctx context.Context, email string) (aula.User, error) {
	return s.findUser(ctx, "email = ?", email)
}

func (s *Store) FindUserByGoogleSubject(ctx context.Context, sub string) (aula.User, error) {
	if sub == "" {
		return aula.User{}, fmt.Errorf("%w: empty Google subject", aula.ErrNotFound)
	}

	return s.findUser(ctx, "google_subject = ?", sub)
}

func (s *Store) UpdateUser(ctx context.Context, u *aula.User) error {
	u.UpdatedAt = time.Now().UTC().Truncate(time.Microsecond)
	return s.q(ctx).
		Model(new(aula.User)).
		Where("id = ?", u.ID).
		Update(Updates{
			"access_state":   u.AccessState.String(),
			"email":          u.Email,
			"google_subject": u.GoogleSubject,
			"password":       u.Password,
			"role":           u.Role.String(),
			"updated_at":     u.UpdatedAt,
		})
}

func (s *Store) findUser(ctx context.Context, query string, arg any) (aula.User, error) {
	var u aula.User
	if err := s.q(ctx).Where(query, arg).First(&u); err != nil {
		return aula.User{}, err
	}

	return u, nil
}

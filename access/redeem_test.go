package access_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/castellanoconmh/aula"
	"github.com/castellanoconmh/aula/access"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type RedeemTestSuite struct {
	suite.Suite
	store   *faultyStore
	pub     *recorder
	code    aula.AccessCode
	student aula.User
}

func TestRedeemTestSuite(t *testing.T) {
	suite.Run(t, new(RedeemTestSuite))
}

func (s *RedeemTestSuite) SetupTest() {
	s.store = newFaultyStore()
	s.pub = new(recorder)
	s.student = newStudent(s.T(), s.store.Store, "alumna@example.com")

	s.code = aula.AccessCode{Code: "AB12CD-3X9Y", Status: aula.CodeActive}
	s.Require().Nil(s.store.CreateCode(context.Background(), &s.code))
}

func (s *RedeemTestSuite) redeemer(opts ...access.Opt) *access.Redeemer {
	return access.NewRedeemer(s.store, s.store, append([]access.Opt{access.WithPublisher(s.pub)}, opts...)...)
}

func (s *RedeemTestSuite) TestDefaultsToIdentity() {
	s.Require().Equal(access.PolicyIdentity, s.redeemer().Policy())
	s.Require().Equal(access.PolicyIdentity, s.redeemer(access.WithPolicy("nonsense")).Policy())
}

func (s *RedeemTestSuite) TestNonexistentCode() {
	// Act
	res, err := s.redeemer().Redeem(context.Background(), "ZZZZZZ-ZZZZ", access.Actor{User: &s.student})

	// Assert
	s.Require().ErrorIs(err, access.ErrInvalidCode)
	s.Require().NotErrorIs(err, access.ErrAlreadyUsed)
	s.Require().NotErrorIs(err, access.ErrVerification)
	s.Require().Zero(res)
	s.Require().Zero(s.store.Entitlements())
	s.Require().Empty(s.pub.published())

	ac, err := s.store.FindCode(context.Background(), s.code.Code)
	s.Require().Nil(err)
	s.Require().Equal(s.code, ac)
}

func (s *RedeemTestSuite) TestBlankCode() {
	_, err := s.redeemer().Redeem(context.Background(), "   ", access.Actor{User: &s.student})
	s.Require().ErrorIs(err, access.ErrInvalidCode)
}

func (s *RedeemTestSuite) TestActiveCode() {
	// Act
	res, err := s.redeemer().Redeem(context.Background(), s.code.Code, access.Actor{User: &s.student})

	// Assert
	s.Require().Nil(err)
	s.Require().Empty(res.Token)
	s.Require().Equal(s.student.ID, res.Entitlement.UserID)
	s.Require().Equal(s.code.ID, res.Entitlement.AccessCodeID)
	s.Require().Equal(aula.CodeUsed, res.Code.Status)
	s.Require().Equal(1, s.store.Entitlements())
	s.Require().Equal([]aula.Collection{aula.CollectionAccessCodes}, s.pub.published())

	ac, err := s.store.FindCode(context.Background(), s.code.Code)
	s.Require().Nil(err)
	s.Require().Equal(aula.CodeUsed, ac.Status)
	s.Require().Equal(s.student.Email, ac.Email)
	s.Require().NotNil(ac.RedeemedByID)
	s.Require().Equal(s.student.ID, *ac.RedeemedByID)
	s.Require().NotNil(ac.RedeemedAt)
}

func (s *RedeemTestSuite) TestNormalizesPresentedCode() {
	// Act
	_, err := s.redeemer().Redeem(context.Background(), "ab12cd-3x9y ", access.Actor{User: &s.student})

	// Assert
	s.Require().Nil(err)
	s.Require().Equal(1, s.store.Entitlements())
}

func (s *RedeemTestSuite) TestTwice() {
	// Arrange
	other := newStudent(s.T(), s.store.Store, "otra@example.com")
	_, err := s.redeemer().Redeem(context.Background(), s.code.Code, access.Actor{User: &s.student})
	s.Require().Nil(err)

	// Act
	_, err = s.redeemer().Redeem(context.Background(), s.code.Code, access.Actor{User: &other})

	// Assert
	s.Require().ErrorIs(err, access.ErrAlreadyUsed)
	s.Require().ErrorIs(err, access.ErrInvalidCode)
	s.Require().Equal(1, s.store.Entitlements())

	ac, err := s.store.FindCode(context.Background(), s.code.Code)
	s.Require().Nil(err)
	s.Require().Equal(s.student.Email, ac.Email)
}

func (s *RedeemTestSuite) TestAlreadyEntitledKeepsCode() {
	// Arrange
	first, err := s.redeemer().Redeem(context.Background(), s.code.Code, access.Actor{User: &s.student})
	s.Require().Nil(err)

	spare := aula.AccessCode{Code: "QQQQQQ-1111", Status: aula.CodeActive}
	s.Require().Nil(s.store.CreateCode(context.Background(), &spare))

	// Act
	res, err := s.redeemer().Redeem(context.Background(), spare.Code, access.Actor{User: &s.student})

	// Assert
	s.Require().Nil(err)
	s.Require().Equal(first.Entitlement, res.Entitlement)
	s.Require().Equal(spare.Code, res.Code.Code)

	ac, err := s.store.FindCode(context.Background(), spare.Code)
	s.Require().Nil(err)
	s.Require().True(ac.IsActive())
}

func (s *RedeemTestSuite) TestAlreadyEntitledStillValidates() {
	// Arrange
	_, err := s.redeemer().Redeem(context.Background(), s.code.Code, access.Actor{User: &s.student})
	s.Require().Nil(err)

	tcs := []struct {
		name     string
		code     string
		expected error
	}{
		{"Nonexistent", "ZZZZZZ-ZZZZ", access.ErrInvalidCode},
		{"Garbage", "not a code", access.ErrInvalidCode},
		{"Own-Code-Again", s.code.Code, access.ErrAlreadyUsed},
	}

	for _, tc := range tcs {
		s.Run(tc.name, func() {
			// Act
			res, err := s.redeemer().Redeem(context.Background(), tc.code, access.Actor{User: &s.student})

			// Assert
			s.Require().ErrorIs(err, tc.expected)
			s.Require().Zero(res)
			s.Require().Equal(1, s.store.Entitlements())
		})
	}
}

func (s *RedeemTestSuite) TestConcurrentRedemptionBySameUser() {
	// Arrange
	other := aula.AccessCode{Code: "WWWWWW-2222", Status: aula.CodeActive}
	s.Require().Nil(s.store.CreateCode(context.Background(), &other))

	var won aula.Entitlement
	s.store.beforeClaim = func() {
		var err error
		won, err = s.store.Store.Claim(context.Background(), other.Code, s.student)
		s.Require().Nil(err)
	}

	// Act
	res, err := s.redeemer().Redeem(context.Background(), s.code.Code, access.Actor{User: &s.student})

	// Assert
	s.Require().Nil(err)
	s.Require().Equal(won, res.Entitlement)

	ac, err := s.store.FindCode(context.Background(), s.code.Code)
	s.Require().Nil(err)
	s.Require().True(ac.IsActive())
}

func (s *RedeemTestSuite) TestLostRace() {
	// Arrange
	s.store.claimErr = access.ErrAlreadyUsed

	// Act
	_, err := s.redeemer().Redeem(context.Background(), s.code.Code, access.Actor{User: &s.student})

	// Assert
	s.Require().ErrorIs(err, access.ErrAlreadyUsed)
	s.Require().Zero(s.store.Entitlements())
}

func (s *RedeemTestSuite) TestRequiresIdentity() {
	for _, actor := range []access.Actor{
		{},
		{User: &aula.User{Email: "revoked@example.com", AccessState: aula.AccessRevoked}},
	} {
		// Act
		_, err := s.redeemer().Redeem(context.Background(), s.code.Code, actor)

		// Assert
		s.Require().ErrorIs(err, access.ErrAuth)
		s.Require().Zero(s.store.Entitlements())
	}
}

func (s *RedeemTestSuite) TestStoreFailure() {
	// Arrange
	s.store.findErr = errors.New("connection refused")

	// Act
	_, err := s.redeemer().Redeem(context.Background(), s.code.Code, access.Actor{User: &s.student})

	// Assert
	s.Require().ErrorIs(err, access.ErrVerification)
	s.Require().NotErrorIs(err, access.ErrInvalidCode)
	s.Require().NotErrorIs(err, access.ErrTimeout)
	s.Require().Zero(s.store.Entitlements())
}

func (s *RedeemTestSuite) TestClaimFailure() {
	// Arrange
	s.store.claimErr = errors.New("connection reset")

	// Act
	_, err := s.redeemer().Redeem(context.Background(), s.code.Code, access.Actor{User: &s.student})

	// Assert
	s.Require().ErrorIs(err, access.ErrVerification)
	s.Require().Empty(s.pub.published())
}

func (s *RedeemTestSuite) TestTimeout() {
	// Arrange
	s.store.block = true

	// Act
	_, err := s.redeemer(access.WithTimeout(10*time.Millisecond)).
		Redeem(context.Background(), s.code.Code, access.Actor{User: &s.student})

	// Assert
	s.Require().ErrorIs(err, access.ErrVerification)
	s.Require().ErrorIs(err, access.ErrTimeout)
	s.Require().True(access.Retryable(err))
}

func (s *RedeemTestSuite) TestBearer() {
	// Arrange
	rd := s.redeemer(access.WithPolicy(access.PolicyBearer))

	// Act
	res, err := rd.Redeem(context.Background(), " ab12cd-3x9y", access.Actor{})

	// Assert
	s.Require().Nil(err)
	s.Require().Equal("AB12CD-3X9Y", res.Token)
	s.Require().Zero(res.Entitlement)
	s.Require().Zero(s.store.Entitlements())
	s.Require().Empty(s.pub.published())

	ac, err := s.store.FindCode(context.Background(), s.code.Code)
	s.Require().Nil(err)
	s.Require().True(ac.IsActive())

	// Act
	_, err = rd.Redeem(context.Background(), "ZZZZZZ-ZZZZ", access.Actor{})

	// Assert
	s.Require().ErrorIs(err, access.ErrInvalidCode)
}

func TestParsePolicy(t *testing.T) {
	require.Equal(t, access.PolicyBearer, access.ParsePolicy(" Bearer "))
	require.Equal(t, access.PolicyIdentity, access.ParsePolicy("identity"))
	require.Equal(t, access.PolicyIdentity, access.ParsePolicy(""))
	require.Equal(t, access.PolicyIdentity, access.ParsePolicy("legacy"))
}

package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"clienthub/internal/domain"
	"clienthub/internal/logger"
)

const (
	testSecret   = "test-secret"
	testPassword = "securepassword"
)

type fakeUserRepo struct {
	user *domain.User
	err  error
}

func (r *fakeUserRepo) EmailExists(context.Context, string) (bool, error) { return false, nil }
func (r *fakeUserRepo) Create(context.Context, *domain.User) error        { return nil }
func (r *fakeUserRepo) GetByID(context.Context, int64) (*domain.User, error) {
	return nil, domain.ErrUserNotFound
}
func (r *fakeUserRepo) DeleteByID(context.Context, int64) error { return nil }

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	if r.err != nil {
		return nil, r.err
	}
	if r.user == nil || r.user.Email != email {
		return nil, domain.ErrUserNotFound
	}
	return r.user, nil
}

func knownUser(t *testing.T) *domain.User {
	t.Helper()

	hashed, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	require.NoError(t, err)

	return &domain.User{
		ID:             42,
		Gender:         domain.GenderMale,
		FirstName:      "Known",
		LastName:       "User",
		Email:          "known@example.com",
		HashedPassword: string(hashed),
		IsActive:       true,
	}
}

func TestAuthenticate(t *testing.T) {
	user := knownUser(t)
	svc := NewService(&fakeUserRepo{user: user}, testSecret, time.Hour, logger.Discard())

	t.Run("valid credentials", func(t *testing.T) {
		got, err := svc.Authenticate(context.Background(), user.Email, testPassword)
		require.NoError(t, err)
		assert.Equal(t, user.ID, got.ID)
	})

	t.Run("unknown email and wrong password collapse to the same error", func(t *testing.T) {
		_, unknownErr := svc.Authenticate(context.Background(), "nobody@example.com", testPassword)
		_, wrongPwdErr := svc.Authenticate(context.Background(), user.Email, "wrong-password")

		require.ErrorIs(t, unknownErr, domain.ErrUserNotFound)
		require.ErrorIs(t, wrongPwdErr, domain.ErrUserNotFound)
		assert.Equal(t, unknownErr.Error(), wrongPwdErr.Error(),
			"login failures must not reveal whether the email exists")
	})

	t.Run("empty email or password", func(t *testing.T) {
		_, err := svc.Authenticate(context.Background(), "", testPassword)
		require.ErrorIs(t, err, domain.ErrUserNotFound)

		_, err = svc.Authenticate(context.Background(), user.Email, "")
		require.ErrorIs(t, err, domain.ErrUserNotFound)
	})

	t.Run("database fault is not collapsed", func(t *testing.T) {
		broken := NewService(&fakeUserRepo{err: domain.ErrDatabase}, testSecret, time.Hour, logger.Discard())
		_, err := broken.Authenticate(context.Background(), user.Email, testPassword)
		require.ErrorIs(t, err, domain.ErrDatabase)
	})
}

func TestTokenRoundTrip(t *testing.T) {
	user := knownUser(t)
	svc := NewService(&fakeUserRepo{user: user}, testSecret, time.Hour, logger.Discard())

	tokenData, err := svc.IssueToken(user)
	require.NoError(t, err)
	assert.NotEmpty(t, tokenData.AccessToken)
	assert.Equal(t, int64(3600), tokenData.ExpiresIn)

	verification, err := svc.VerifyToken(tokenData.AccessToken)
	require.NoError(t, err)

	assert.True(t, verification.Success)
	assert.Equal(t, user.ID, verification.ID)
	assert.Equal(t, user.FirstName, verification.Username)
	assert.Equal(t, user.FirstName, verification.FirstName)
	assert.Equal(t, user.LastName, verification.LastName)
	assert.Equal(t, user.Email, verification.Email)

	exp, err := time.Parse(time.RFC3339, verification.Exp)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, time.Minute)
}

func TestVerifyToken_Expired(t *testing.T) {
	user := knownUser(t)
	svc := NewService(&fakeUserRepo{user: user}, testSecret, -time.Second, logger.Discard())

	tokenData, err := svc.IssueToken(user)
	require.NoError(t, err)

	_, err = svc.VerifyToken(tokenData.AccessToken)
	require.ErrorIs(t, err, domain.ErrTokenExpired)
}

func TestVerifyToken_WrongSecret(t *testing.T) {
	user := knownUser(t)
	issuer := NewService(&fakeUserRepo{user: user}, "other-secret", time.Hour, logger.Discard())
	verifier := NewService(&fakeUserRepo{user: user}, testSecret, time.Hour, logger.Discard())

	tokenData, err := issuer.IssueToken(user)
	require.NoError(t, err)

	_, err = verifier.VerifyToken(tokenData.AccessToken)
	require.ErrorIs(t, err, domain.ErrTokenInvalid)
}

func TestVerifyToken_Malformed(t *testing.T) {
	svc := NewService(&fakeUserRepo{}, testSecret, time.Hour, logger.Discard())

	for _, token := range []string{"", "not-a-token", "a.b.c"} {
		_, err := svc.VerifyToken(token)
		require.ErrorIs(t, err, domain.ErrTokenInvalid)
	}
}

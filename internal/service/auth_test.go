package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/sb141/personal-finance-project/internal/db/dbtest"
	"github.com/sb141/personal-finance-project/internal/domain"
	"github.com/sb141/personal-finance-project/internal/notify"
	"github.com/sb141/personal-finance-project/internal/store"
)

type recordingNotifier struct {
	sent []notify.ResetMessage
	err  error
}

func (r *recordingNotifier) SendResetToken(_ context.Context, msg notify.ResetMessage) error {
	r.sent = append(r.sent, msg)
	return r.err
}

func newAuthTestService(t *testing.T) (*AuthService, *recordingNotifier, *store.Users) {
	t.Helper()
	users := store.NewUsers(dbtest.New(t))
	notifier := &recordingNotifier{}
	svc := NewAuthService(users, notifier, AuthConfig{BcryptCost: bcrypt.MinCost, ResetTokenTTL: time.Hour})
	return svc, notifier, users
}

// -- Register / Login / Authenticate --

func TestRegister_Success(t *testing.T) {
	svc, _, users := newAuthTestService(t)

	res, err := svc.Register(context.Background(), "alice", "s3cret")

	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)
	assert.NotZero(t, res.UserID)
	assert.Equal(t, "alice", res.Username)

	stored, err := users.UserByUsername(context.Background(), "alice")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret", stored.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("s3cret")))
}

func TestRegister_DuplicateKeepsOriginalToken(t *testing.T) {
	svc, _, _ := newAuthTestService(t)
	ctx := context.Background()

	first, err := svc.Register(ctx, "alice", "s3cret")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "alice", "other")
	assert.ErrorIs(t, err, ErrConflict)

	user, err := svc.Authenticate(ctx, first.Token)
	require.NoError(t, err)
	assert.Equal(t, first.UserID, user.ID)
}

func TestRegister_PasswordTooLong(t *testing.T) {
	svc, _, _ := newAuthTestService(t)

	long := make([]byte, 80)
	for i := range long {
		long[i] = 'a'
	}
	_, err := svc.Register(context.Background(), "alice", string(long))

	assert.ErrorIs(t, err, ErrBadRequest)
}

func TestLogin_RotatesToken(t *testing.T) {
	svc, _, _ := newAuthTestService(t)
	ctx := context.Background()

	reg, err := svc.Register(ctx, "alice", "s3cret")
	require.NoError(t, err)

	login, err := svc.Login(ctx, "alice", "s3cret")
	require.NoError(t, err)
	assert.NotEqual(t, reg.Token, login.Token)
	assert.Equal(t, reg.UserID, login.UserID)

	_, err = svc.Authenticate(ctx, reg.Token)
	assert.ErrorIs(t, err, ErrUnauthorized, "superseded token no longer works")

	user, err := svc.Authenticate(ctx, login.Token)
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
}

func TestLogin_BadCredentials(t *testing.T) {
	svc, _, _ := newAuthTestService(t)
	ctx := context.Background()
	_, err := svc.Register(ctx, "alice", "s3cret")
	require.NoError(t, err)

	_, err = svc.Login(ctx, "alice", "wrong")
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = svc.Login(ctx, "nobody", "s3cret")
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.Equal(t, ErrInvalidCredentials.Error(), err.Error())
}

func TestAuthenticate_UnknownToken(t *testing.T) {
	svc, _, _ := newAuthTestService(t)

	_, err := svc.Authenticate(context.Background(), "never-issued")
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = svc.Authenticate(context.Background(), "")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

// -- Forgot / Reset password --

func TestForgotPassword_UnknownUserLooksTheSame(t *testing.T) {
	svc, notifier, _ := newAuthTestService(t)
	ctx := context.Background()
	_, err := svc.Register(ctx, "alice", "s3cret")
	require.NoError(t, err)

	errKnown := svc.ForgotPassword(ctx, "alice")
	errUnknown := svc.ForgotPassword(ctx, "nobody")

	assert.NoError(t, errKnown)
	assert.NoError(t, errUnknown)
	require.Len(t, notifier.sent, 1, "only the existing user gets a token")
	assert.Equal(t, "alice", notifier.sent[0].Username)
}

func TestForgotPassword_DeliveryFailureIsHidden(t *testing.T) {
	svc, notifier, _ := newAuthTestService(t)
	ctx := context.Background()
	_, err := svc.Register(ctx, "alice", "s3cret")
	require.NoError(t, err)
	notifier.err = errors.New("queue down")

	assert.NoError(t, svc.ForgotPassword(ctx, "alice"))
}

func TestForgotPassword_SetsExpiry(t *testing.T) {
	svc, notifier, users := newAuthTestService(t)
	ctx := context.Background()
	now := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }
	_, err := svc.Register(ctx, "alice", "s3cret")
	require.NoError(t, err)

	require.NoError(t, svc.ForgotPassword(ctx, "alice"))

	require.Len(t, notifier.sent, 1)
	assert.True(t, notifier.sent[0].ExpiresAt.Equal(now.Add(time.Hour)))
	stored, err := users.UserByResetToken(ctx, notifier.sent[0].Token)
	require.NoError(t, err)
	assert.True(t, stored.ResetTokenExpiry.Equal(now.Add(time.Hour)))
}

func TestForgotPassword_NewRequestSupersedesOld(t *testing.T) {
	svc, notifier, _ := newAuthTestService(t)
	ctx := context.Background()
	_, err := svc.Register(ctx, "alice", "s3cret")
	require.NoError(t, err)

	require.NoError(t, svc.ForgotPassword(ctx, "alice"))
	require.NoError(t, svc.ForgotPassword(ctx, "alice"))
	require.Len(t, notifier.sent, 2)

	assert.ErrorIs(t, svc.ResetPassword(ctx, notifier.sent[0].Token, "new"), ErrBadRequest)
	assert.NoError(t, svc.ResetPassword(ctx, notifier.sent[1].Token, "new"))
}

func TestResetPassword_Success(t *testing.T) {
	svc, notifier, _ := newAuthTestService(t)
	ctx := context.Background()
	reg, err := svc.Register(ctx, "alice", "s3cret")
	require.NoError(t, err)
	require.NoError(t, svc.ForgotPassword(ctx, "alice"))
	token := notifier.sent[0].Token

	require.NoError(t, svc.ResetPassword(ctx, token, "n3w-pass"))

	_, err = svc.Login(ctx, "alice", "s3cret")
	assert.ErrorIs(t, err, ErrUnauthorized, "old password rejected")
	_, err = svc.Login(ctx, "alice", "n3w-pass")
	assert.NoError(t, err)

	_, err = svc.Authenticate(ctx, reg.Token)
	assert.ErrorIs(t, err, ErrUnauthorized, "session revoked on reset")

	err = svc.ResetPassword(ctx, token, "again")
	assert.ErrorIs(t, err, ErrBadRequest, "token is single use")
	assert.Equal(t, ErrInvalidResetToken, err)
}

func TestResetPassword_Expired(t *testing.T) {
	svc, notifier, _ := newAuthTestService(t)
	ctx := context.Background()
	now := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }
	_, err := svc.Register(ctx, "alice", "s3cret")
	require.NoError(t, err)
	require.NoError(t, svc.ForgotPassword(ctx, "alice"))

	// exactly at expiry counts as expired
	svc.now = func() time.Time { return now.Add(time.Hour) }
	err = svc.ResetPassword(ctx, notifier.sent[0].Token, "n3w-pass")

	assert.ErrorIs(t, err, ErrBadRequest)
	assert.Equal(t, ErrResetTokenExpired, err)
}

func TestResetPassword_UnknownToken(t *testing.T) {
	svc, _, _ := newAuthTestService(t)

	err := svc.ResetPassword(context.Background(), "bogus", "n3w-pass")

	assert.Equal(t, ErrInvalidResetToken, err)
}

// interleavingUsers runs between once right after the reset token lookup, the
// way a concurrent request would land between the read and the write
type interleavingUsers struct {
	*store.Users
	between func()
}

func (u *interleavingUsers) UserByResetToken(ctx context.Context, token string) (*domain.User, error) {
	user, err := u.Users.UserByResetToken(ctx, token)
	if hook := u.between; hook != nil {
		u.between = nil
		hook()
	}
	return user, err
}

func newInterleavingAuthService(t *testing.T) (*AuthService, *recordingNotifier, *interleavingUsers) {
	t.Helper()
	users := &interleavingUsers{Users: store.NewUsers(dbtest.New(t))}
	notifier := &recordingNotifier{}
	svc := NewAuthService(users, notifier, AuthConfig{BcryptCost: bcrypt.MinCost, ResetTokenTTL: time.Hour})
	return svc, notifier, users
}

func TestResetPassword_ConcurrentRedemptionSucceedsOnce(t *testing.T) {
	svc, notifier, users := newInterleavingAuthService(t)
	ctx := context.Background()
	_, err := svc.Register(ctx, "alice", "s3cret")
	require.NoError(t, err)
	require.NoError(t, svc.ForgotPassword(ctx, "alice"))
	token := notifier.sent[0].Token

	var innerErr error
	users.between = func() { innerErr = svc.ResetPassword(ctx, token, "first-pass") }
	err = svc.ResetPassword(ctx, token, "second-pass")

	require.NoError(t, innerErr)
	assert.Equal(t, ErrInvalidResetToken, err)
	_, err = svc.Login(ctx, "alice", "first-pass")
	assert.NoError(t, err)
	_, err = svc.Login(ctx, "alice", "second-pass")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestResetPassword_SupersededMidReset(t *testing.T) {
	svc, notifier, users := newInterleavingAuthService(t)
	ctx := context.Background()
	_, err := svc.Register(ctx, "alice", "s3cret")
	require.NoError(t, err)
	require.NoError(t, svc.ForgotPassword(ctx, "alice"))
	stale := notifier.sent[0].Token

	users.between = func() { require.NoError(t, svc.ForgotPassword(ctx, "alice")) }
	err = svc.ResetPassword(ctx, stale, "n3w-pass")

	assert.Equal(t, ErrInvalidResetToken, err)
	require.Len(t, notifier.sent, 2)
	assert.NoError(t, svc.ResetPassword(ctx, notifier.sent[1].Token, "n3w-pass"), "fresh token still pending")
}

func TestLogin_UnknownUserStillComparesHash(t *testing.T) {
	svc, _, _ := newAuthTestService(t)

	_, err := svc.Login(context.Background(), "ghost", "whatever")

	assert.Equal(t, ErrInvalidCredentials, err)
	cost, err := bcrypt.Cost(svc.dummyHash)
	require.NoError(t, err)
	assert.Equal(t, bcrypt.MinCost, cost)
}

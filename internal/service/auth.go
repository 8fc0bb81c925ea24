package service

import (
	"context" // Request context
	"errors"  // Error kind matching
	"fmt"     // Error wrapping
	"sync"    // Lazy dummy hash
	"time"    // Reset token expiry

	"github.com/sb141/personal-finance-project/internal/domain" // Importing domain models
	"github.com/sb141/personal-finance-project/internal/notify" // Reset token delivery
	"github.com/sb141/personal-finance-project/internal/store"  // Credential persistence
	"github.com/sb141/personal-finance-project/internal/utils"  // Token generation

	"github.com/sirupsen/logrus" // Logging library
	"golang.org/x/crypto/bcrypt" // Password hashing
)

// AuthConfig tunes password hashing and reset token lifetime
type AuthConfig struct {
	BcryptCost    int           // bcrypt cost factor
	ResetTokenTTL time.Duration // Lifetime of a reset token
}

// AuthResult is returned by Register and Login
type AuthResult struct {
	Token    string // Bearer token
	UserID   uint   // Authenticated user ID
	Username string // Authenticated username
}

// AuthService registers users, issues bearer tokens and runs the password reset flow
type AuthService struct {
	users    store.CredentialStore  // Credential persistence
	notifier notify.ResetNotifier   // Out-of-band reset delivery
	cfg      AuthConfig             // Hashing and expiry settings
	now      func() time.Time       // Clock, replaced in tests
	newToken func() (string, error) // Token source

	dummyOnce sync.Once // Guards dummyHash
	dummyHash []byte    // Compared against when the username is unknown
}

// NewAuthService creates an AuthService.
// Zero config values fall back to bcrypt.DefaultCost and a one hour reset lifetime.
func NewAuthService(users store.CredentialStore, notifier notify.ResetNotifier, cfg AuthConfig) *AuthService {
	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = bcrypt.DefaultCost
	}
	if cfg.ResetTokenTTL <= 0 {
		cfg.ResetTokenTTL = time.Hour
	}
	return &AuthService{
		users:    users,
		notifier: notifier,
		cfg:      cfg,
		now:      time.Now,
		newToken: utils.GenerateToken,
	}
}

// Register creates a user and issues its first bearer token
func (s *AuthService) Register(ctx context.Context, username, password string) (*AuthResult, error) {
	hash, err := s.hash(password) // Hash the password
	if err != nil {
		return nil, err
	}
	token, err := s.newToken() // First bearer token
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}

	user := &domain.User{Username: username, PasswordHash: hash, APIToken: &token}
	if err := s.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, ErrUsernameTaken // Name already taken
		}
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"user_id":  user.ID,
		"username": user.Username,
	}).Info("User registered")
	return &AuthResult{Token: token, UserID: user.ID, Username: user.Username}, nil
}

// Login verifies the password and rotates the user's bearer token.
// The token issued before is no longer accepted.
func (s *AuthService) Login(ctx context.Context, username, password string) (*AuthResult, error) {
	user, err := s.users.UserByUsername(ctx, username) // Fetch user from database
	if errors.Is(err, store.ErrNotFound) {
		s.compareDummy(password) // Spend the same bcrypt time as a real mismatch
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	// Compare provided password with stored hash
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := s.newToken() // Rotated bearer token
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}
	if err := s.users.SetAPIToken(ctx, user.ID, token); err != nil {
		return nil, err
	}

	logrus.WithField("user_id", user.ID).Info("User logged in")
	return &AuthResult{Token: token, UserID: user.ID, Username: user.Username}, nil
}

// Authenticate resolves a bearer token to its user
func (s *AuthService) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	if token == "" {
		return nil, ErrInvalidAuthToken
	}
	user, err := s.users.UserByAPIToken(ctx, token) // Exact token match
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrInvalidAuthToken
	}
	if err != nil {
		return nil, err // Store failure, not a credentials problem
	}
	return user, nil
}

// ForgotPassword issues a reset token for username and hands it to the notifier.
// Callers see the same result whether or not the user exists.
func (s *AuthService) ForgotPassword(ctx context.Context, username string) error {
	user, err := s.users.UserByUsername(ctx, username) // Fetch user from database
	if errors.Is(err, store.ErrNotFound) {
		return nil // Unknown users get the same answer
	}
	if err != nil {
		return err
	}

	token, err := s.newToken() // Reset token
	if err != nil {
		return fmt.Errorf("generate token: %w", err)
	}
	expiry := s.now().UTC().Add(s.cfg.ResetTokenTTL) // Token lifetime
	if err := s.users.SetResetToken(ctx, user.ID, token, expiry); err != nil {
		return err
	}

	msg := notify.ResetMessage{UserID: user.ID, Username: user.Username, Token: token, ExpiresAt: expiry}
	if err := s.notifier.SendResetToken(ctx, msg); err != nil {
		// A failed delivery must not change the response or it would reveal the account exists
		logrus.WithFields(logrus.Fields{
			"user_id": user.ID,
			"error":   err.Error(),
		}).Error("Password reset delivery failed")
		return nil
	}

	logrus.WithField("user_id", user.ID).Info("Password reset token issued")
	return nil
}

// ResetPassword sets a new password using a pending reset token.
// The token is single use and the user's bearer token is revoked.
func (s *AuthService) ResetPassword(ctx context.Context, resetToken, newPassword string) error {
	if resetToken == "" {
		return ErrInvalidResetToken
	}
	user, err := s.users.UserByResetToken(ctx, resetToken) // Find the token owner
	if errors.Is(err, store.ErrNotFound) {
		return ErrInvalidResetToken
	}
	if err != nil {
		return err
	}
	if !user.HasPendingReset() {
		return ErrInvalidResetToken
	}
	// Expired at the expiry instant itself
	if !s.now().Before(*user.ResetTokenExpiry) {
		return ErrResetTokenExpired
	}

	hash, err := s.hash(newPassword) // Hash the new password
	if err != nil {
		return err
	}
	// The write only lands while resetToken is still pending
	err = s.users.ResetPassword(ctx, user.ID, resetToken, hash)
	if errors.Is(err, store.ErrNotFound) {
		return ErrInvalidResetToken // Redeemed or replaced since the lookup
	}
	if err != nil {
		return err
	}

	logrus.WithField("user_id", user.ID).Info("Password reset completed")
	return nil
}

func (s *AuthService) hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cfg.BcryptCost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", ErrPasswordTooLong // bcrypt only reads 72 bytes
	}
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// compareDummy runs a bcrypt comparison that always fails, at the configured cost
func (s *AuthService) compareDummy(password string) {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = bcrypt.GenerateFromPassword([]byte("not-a-real-password"), s.cfg.BcryptCost)
	})
	_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(password))
}

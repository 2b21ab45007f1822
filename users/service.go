package users

import (
	"context"

	"github.com/google/uuid"

	"github.com/kbukum/sessionauth/auth/password"
	apperrors "github.com/kbukum/sessionauth/errors"
	"github.com/kbukum/sessionauth/logger"
)

// Service implements account flows on top of a Store.
type Service struct {
	store  Store
	hasher password.Hasher
	log    *logger.Logger

	newSessionID  func() string
	newResetToken func() (string, error)
}

// NewService creates a Service. hasher defaults to bcrypt.
func NewService(store Store, hasher password.Hasher, log *logger.Logger) *Service {
	if hasher == nil {
		hasher = password.NewBcryptHasher()
	}
	return &Service{
		store:         store,
		hasher:        hasher,
		log:           log.WithComponent("users"),
		newSessionID:  uuid.NewString,
		newResetToken: password.GenerateResetToken,
	}
}

// Store returns the underlying user store.
func (s *Service) Store() Store { return s.store }

// Hasher returns the password hasher.
func (s *Service) Hasher() password.Hasher { return s.hasher }

// RegisterUser creates an account. An email that is already registered
// yields DUPLICATE_EMAIL, including when a concurrent registration wins
// the insert.
func (s *Service) RegisterUser(ctx context.Context, email, pw string) (*User, error) {
	_, err := s.store.FindUserBy(ctx, Criteria{FieldEmail: email})
	switch {
	case err == nil:
		return nil, apperrors.DuplicateEmail(email)
	case !apperrors.HasCode(err, apperrors.ErrCodeNotFound):
		return nil, err
	}

	hash, err := s.hasher.Hash(pw)
	if err != nil {
		return nil, apperrors.InvalidInput("password", err.Error()).WithCause(err)
	}
	u, err := s.store.AddUser(ctx, email, hash)
	if err != nil {
		return nil, err
	}
	s.log.Info("user registered", map[string]interface{}{
		logger.FieldUserID: u.ID,
		logger.FieldEmail:  email,
	})
	return u, nil
}

// ValidLogin reports whether email and pw identify an account. Lookup
// failures count as invalid.
func (s *Service) ValidLogin(ctx context.Context, email, pw string) bool {
	u, err := s.store.FindUserBy(ctx, Criteria{FieldEmail: email})
	if err != nil {
		if !apperrors.HasCode(err, apperrors.ErrCodeNotFound) {
			s.log.Warn("login lookup failed", logger.ErrorFields("find_user", err))
		}
		return false
	}
	return password.Matches(s.hasher, pw, u.HashedPassword)
}

// CreateSession stores a fresh session id on the user with email.
func (s *Service) CreateSession(ctx context.Context, email string) (string, error) {
	u, err := s.store.FindUserBy(ctx, Criteria{FieldEmail: email})
	if err != nil {
		return "", err
	}
	sid := s.newSessionID()
	if err := s.store.UpdateUser(ctx, u.ID, Fields{FieldSessionID: sid}); err != nil {
		return "", err
	}
	return sid, nil
}

// GetUserFromSessionID returns the owner of sessionID.
func (s *Service) GetUserFromSessionID(ctx context.Context, sessionID string) (*User, error) {
	if sessionID == "" {
		return nil, apperrors.NotFound("session", "")
	}
	return s.store.FindUserBy(ctx, Criteria{FieldSessionID: sessionID})
}

// DestroySession clears the session id of the user.
func (s *Service) DestroySession(ctx context.Context, userID string) error {
	if userID == "" {
		return nil
	}
	return s.store.UpdateUser(ctx, userID, Fields{FieldSessionID: nil})
}

// GetResetPasswordToken issues and stores a reset token for email.
func (s *Service) GetResetPasswordToken(ctx context.Context, email string) (string, error) {
	u, err := s.store.FindUserBy(ctx, Criteria{FieldEmail: email})
	if err != nil {
		return "", err
	}
	token, err := s.newResetToken()
	if err != nil {
		return "", apperrors.Internal(err)
	}
	if err := s.store.UpdateUser(ctx, u.ID, Fields{FieldResetToken: token}); err != nil {
		return "", err
	}
	return token, nil
}

// UpdatePassword sets a new password for the holder of resetToken and
// invalidates the token.
func (s *Service) UpdatePassword(ctx context.Context, resetToken, pw string) error {
	if resetToken == "" {
		return apperrors.InvalidCredentials("invalid reset token")
	}
	u, err := s.store.FindUserBy(ctx, Criteria{FieldResetToken: resetToken})
	if err != nil {
		if apperrors.HasCode(err, apperrors.ErrCodeNotFound) {
			return apperrors.InvalidCredentials("invalid reset token")
		}
		return err
	}
	hash, err := s.hasher.Hash(pw)
	if err != nil {
		return apperrors.InvalidInput("password", err.Error()).WithCause(err)
	}
	if err := s.store.UpdateUser(ctx, u.ID, Fields{
		FieldHashedPassword: hash,
		FieldResetToken:     nil,
	}); err != nil {
		return err
	}
	s.log.Info("password updated", map[string]interface{}{logger.FieldUserID: u.ID})
	return nil
}

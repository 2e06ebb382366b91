package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bookora/be-booking-access/internal/access"
	"github.com/bookora/be-booking-access/internal/repository"
	jwtpkg "github.com/bookora/be-booking-access/pkg/jwt"
	"github.com/bookora/be-booking-access/pkg/logger"
	"github.com/bookora/be-booking-access/pkg/password"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountLocked      = errors.New("account is locked")
	ErrAccountInactive    = errors.New("account is inactive")
	ErrInvalidToken       = errors.New("invalid token")
)

const (
	MaxFailedLoginAttempts = 5
	AccountLockDuration    = 30 * time.Minute
)

type UserStore interface {
	GetByID(ctx context.Context, id int64) (*repository.User, error)
	GetByEmail(ctx context.Context, email string) (*repository.User, error)
	UpdateLastLogin(ctx context.Context, id int64) error
	IncrementFailedLoginAttempts(ctx context.Context, id int64) error
	LockAccount(ctx context.Context, id int64, duration time.Duration) error
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
}

// AuthService authenticates portal users and mints the tokens that carry the
// actor snapshot consumed by the access layer.
type AuthService struct {
	users      UserStore
	jwtManager *jwtpkg.Manager
	log        *logger.Logger
}

func NewAuthService(users UserStore, jwtManager *jwtpkg.Manager, log *logger.Logger) *AuthService {
	return &AuthService{
		users:      users,
		jwtManager: jwtManager,
		log:        log,
	}
}

type LoginRequest struct {
	Email    string
	Password string
}

type LoginResponse struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    int64
	User         *repository.User
}

// Login authenticates a user and returns a token pair.
func (s *AuthService) Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error) {
	s.log.Info().Str("email", req.Email).Msg("Login attempt")

	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		s.log.Warn().Err(err).Msg("User not found")
		return nil, ErrInvalidCredentials
	}

	if user.LockedUntil != nil && user.LockedUntil.After(time.Now()) {
		s.log.Warn().Int64("user_id", user.ID).Msg("Account is locked")
		return nil, ErrAccountLocked
	}

	if user.Status != "active" {
		s.log.Warn().Int64("user_id", user.ID).Str("status", user.Status).Msg("Account is inactive")
		return nil, ErrAccountInactive
	}

	if user.PasswordHash == nil {
		s.log.Warn().Int64("user_id", user.ID).Msg("User has no password (SSO-only)")
		return nil, ErrInvalidCredentials
	}

	valid, err := password.Verify(req.Password, *user.PasswordHash)
	if err != nil {
		s.log.Error().Err(err).Msg("Password verification failed")
		return nil, fmt.Errorf("password verification error: %w", err)
	}

	if !valid {
		_ = s.users.IncrementFailedLoginAttempts(ctx, user.ID)

		if user.FailedLoginAttempts+1 >= MaxFailedLoginAttempts {
			_ = s.users.LockAccount(ctx, user.ID, AccountLockDuration)
			s.log.Warn().Int64("user_id", user.ID).Msg("Account locked due to too many failed login attempts")
			return nil, ErrAccountLocked
		}

		s.log.Warn().Int64("user_id", user.ID).Msg("Invalid password")
		return nil, ErrInvalidCredentials
	}

	tokenPair, err := s.jwtManager.GenerateTokenPair(identityFor(user))
	if err != nil {
		s.log.Error().Err(err).Msg("Failed to generate tokens")
		return nil, fmt.Errorf("token generation failed: %w", err)
	}

	_ = s.users.UpdateLastLogin(ctx, user.ID)

	s.log.Info().Int64("user_id", user.ID).Str("role", user.Role).Msg("Login successful")

	return &LoginResponse{
		AccessToken:  tokenPair.AccessToken,
		RefreshToken: tokenPair.RefreshToken,
		ExpiresIn:    tokenPair.ExpiresIn,
		User:         user,
	}, nil
}

// RefreshToken exchanges a valid refresh token for a new token pair. The
// user record is re-read so a deactivated or re-scoped account cannot renew
// stale claims.
func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*jwtpkg.TokenPair, error) {
	claims, err := s.jwtManager.ValidateToken(refreshToken)
	if err != nil {
		return nil, err
	}

	if claims.TokenType != "refresh" {
		return nil, ErrInvalidToken
	}

	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, ErrInvalidToken
	}

	if user.Status != "active" {
		return nil, ErrAccountInactive
	}

	tokenPair, err := s.jwtManager.GenerateTokenPair(identityFor(user))
	if err != nil {
		return nil, fmt.Errorf("token generation failed: %w", err)
	}

	return tokenPair, nil
}

// ChangePassword verifies the current password and stores a hash of the new
// one. SSO-only accounts without a stored password cannot change one here.
func (s *AuthService) ChangePassword(ctx context.Context, userID int64, currentPassword, newPassword string) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	if user.PasswordHash == nil {
		return ErrInvalidCredentials
	}

	valid, err := password.Verify(currentPassword, *user.PasswordHash)
	if err != nil {
		s.log.Error().Err(err).Msg("Password verification failed")
		return fmt.Errorf("password verification error: %w", err)
	}
	if !valid {
		s.log.Warn().Int64("user_id", user.ID).Msg("Password change with wrong current password")
		return ErrInvalidCredentials
	}

	hash, err := password.Hash(newPassword, password.DefaultParams())
	if err != nil {
		return fmt.Errorf("password hashing failed: %w", err)
	}

	if err := s.users.UpdatePassword(ctx, user.ID, hash); err != nil {
		return err
	}

	s.log.Info().Int64("user_id", user.ID).Msg("Password changed")
	return nil
}

// ValidateToken validates an access token and returns its claims.
func (s *AuthService) ValidateToken(tokenString string) (*jwtpkg.Claims, error) {
	claims, err := s.jwtManager.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}
	if claims.TokenType != "access" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func identityFor(user *repository.User) jwtpkg.Identity {
	return jwtpkg.Identity{
		UserID:     user.ID,
		Role:       string(access.ParseRole(user.Role)),
		Email:      user.Email,
		PartnerID:  user.PartnerID,
		OperatorID: user.OperatorID,
		ClientID:   user.ClientID,
	}
}

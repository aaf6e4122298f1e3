// Copyright (c) 2026 Parley. All rights reserved.
// Author: dev@parleyhq.io

/*
Package auth implements account registration and the session lifecycle.

A successful login does two things at once: it mints a signed session token
(user id, session id, timestamp) and mirrors the user's identity into Redis
— profile hash, role set, moderated board set, and the session timestamp
key. Every authenticated request afterwards is validated purely against
that mirror, so request-path authentication never touches Postgres.

Architecture:

  - Service: Orchestrates business logic (Register, Login, Logout).
  - UserRepository: Postgres system of record for accounts and grants.
  - IdentityMirror: Redis projection consumed by the session validator.
*/
package auth

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/parleyhq/parley/internal/platform/apperr"
	"github.com/parleyhq/parley/internal/platform/sec"
	"github.com/parleyhq/parley/pkg/uuid"
)

// # Contracts & Types

// TokenProvider defines the contract for minting signed session tokens.
type TokenProvider interface {
	// GenerateSessionToken creates a signed JWT binding the user id, the
	// session id, and the session timestamp. Validation later requires the
	// embedded timestamp to equal the mirrored one exactly.
	GenerateSessionToken(userID, sessionID string, timestamp int64, timeToLive time.Duration) (string, error)
}

// Service implements the authentication use cases.
//
// # Review Process
//
// This service is security-critical. Changes to hashing, session minting,
// or the mirror write order need a second reviewer.
type Service struct {
	userRepository UserRepository
	identityMirror IdentityMirror
	tokenProvider  TokenProvider
	logger         *slog.Logger

	// now is swappable for tests.
	now func() time.Time
}

// NewService constructs a new auth [Service] with its dependencies.
func NewService(users UserRepository, mirror IdentityMirror, tokens TokenProvider, logger *slog.Logger) *Service {
	return &Service{
		userRepository: users,
		identityMirror: mirror,
		tokenProvider:  tokens,
		logger:         logger,
		now:            time.Now,
	}
}

// # Registration Flow

// RegisterInput holds the data required to enroll a new member.
type RegisterInput struct {
	Username    string
	Email       string
	Password    string
	DisplayName string
}

/*
Register validates, hashes, and persists a brand new user account.

Parameters:
  - ctx: context.Context
  - input: RegisterInput

Returns:
  - *User: Created entity
  - error: Conflict (if identity exists) or storage errors
*/
func (service *Service) Register(ctx context.Context, input RegisterInput) (*User, error) {

	// Verify email uniqueness. Return a client-safe Conflict error.
	if _, err := service.userRepository.FindByEmail(ctx, input.Email); err == nil {
		return nil, apperr.Conflict("Email is already registered")
	}

	// Verify username uniqueness. Return a client-safe Conflict error.
	if _, err := service.userRepository.FindByUsername(ctx, input.Username); err == nil {
		return nil, apperr.Conflict("Username is already taken")
	}

	// Never store plain-text passwords.
	hashedPassword, err := sec.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("auth_service_hash_failed: %w", err)
	}

	// Time-sortable ID to prevent PG index fragmentation.
	user := &User{
		ID:           uuid.New(),
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: hashedPassword,
		DisplayName:  input.DisplayName,
	}

	if err := service.userRepository.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("auth_service_register_failed: %w", err)
	}

	service.logger.Info("user_registered", slog.String("user_id", user.ID))
	return user, nil
}

// # Session Flow

// LoginInput holds the credentials submitted for authentication.
type LoginInput struct {
	Login    string // Username or email.
	Password string
}

/*
Login authenticates a member and establishes a session.

Description: On verified credentials, a fresh session id is minted and the
current epoch-millisecond timestamp becomes the session's identity. The
identity mirror is written BEFORE the token is signed and returned: a token
the client can present must always find its mirror entries, so the write
order closes the window where a valid token meets an unwritten mirror.

Parameters:
  - ctx: context.Context
  - input: LoginInput

Returns:
  - *Session: Signed token plus profile
  - error: apperr.Unauthorized for bad credentials, or storage errors
*/
func (service *Service) Login(ctx context.Context, input LoginInput) (*Session, error) {

	// Resolve the account by username or email. Credential failures are
	// deliberately indistinguishable from unknown accounts.
	user, err := service.userRepository.FindByUsername(ctx, input.Login)
	if err != nil {
		user, err = service.userRepository.FindByEmail(ctx, input.Login)
	}
	if err != nil {
		return nil, apperr.Unauthorized("Invalid credentials")
	}

	if !sec.CheckPasswordHash(input.Password, user.PasswordHash) {
		return nil, apperr.Unauthorized("Invalid credentials")
	}

	// Session identity: a fresh id plus the minting instant. The timestamp
	// is the equality anchor the validator checks on every request.
	sessionID := uuid.New()
	timestamp := service.now().UnixMilli()

	// Load grants from the system of record.
	roles, err := service.userRepository.Roles(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("auth_service_roles_failed: %w", err)
	}
	moderating, err := service.userRepository.Moderating(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("auth_service_moderating_failed: %w", err)
	}

	// Mirror identity first, session key second, token last.
	profile := map[string]string{
		"username": user.Username,
		"avatar":   user.AvatarURL,
	}
	if err := service.identityMirror.WriteIdentity(ctx, user.ID, profile, roles, moderating); err != nil {
		return nil, fmt.Errorf("auth_service_mirror_failed: %w", err)
	}
	if err := service.identityMirror.WriteSession(ctx, user.ID, sessionID, timestamp); err != nil {
		return nil, fmt.Errorf("auth_service_session_failed: %w", err)
	}

	token, err := service.tokenProvider.GenerateSessionToken(user.ID, sessionID, timestamp, SessionTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("auth_service_token_failed: %w", err)
	}

	service.logger.Info("user_logged_in",
		slog.String("user_id", user.ID),
		slog.String("session_id", sessionID),
	)
	return &Session{AccessToken: token, User: user}, nil
}

/*
Logout terminates one session.

Description: Removes the session key from the mirror. Tokens bound to that
session id keep failing validation with the uniform session-invalid answer
for the rest of their JWT lifetime.

Parameters:
  - ctx: context.Context
  - userID: string (from the validated credential)
  - sessionID: string (from the validated credential)

Returns:
  - error: Connectivity errors
*/
func (service *Service) Logout(ctx context.Context, userID, sessionID string) error {
	if err := service.identityMirror.DeleteSession(ctx, userID, sessionID); err != nil {
		return fmt.Errorf("auth_service_logout_failed: %w", err)
	}

	service.logger.Info("user_logged_out",
		slog.String("user_id", userID),
		slog.String("session_id", sessionID),
	)
	return nil
}

// # Profile Flow

/*
Profile returns the account behind a validated credential.

Parameters:
  - ctx: context.Context
  - userID: string

Returns:
  - *User: The account
  - error: apperr.NotFound or storage errors
*/
func (service *Service) Profile(ctx context.Context, userID string) (*User, error) {
	return service.userRepository.FindByID(ctx, userID)
}

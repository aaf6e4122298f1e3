// Copyright (c) 2026 Parley. All rights reserved.
// Author: dev@parleyhq.io

package account

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/parleyhq/parley/internal/platform/apperr"
	"github.com/parleyhq/parley/internal/platform/sec"
	"github.com/parleyhq/parley/internal/users/auth"
	"github.com/parleyhq/parley/pkg/pointer"
)

// # Service Layer

// Service orchestrates business logic for profile and account lifecycle.
//
// It keeps the Redis identity mirror in step with profile edits: the mirror
// holds the username and avatar the rest of the platform displays, so a
// profile update that skipped it would show stale data for the remainder of
// the session.
type Service struct {
	accountRepository AccountRepository
	identityMirror    auth.IdentityMirror
	logger            *slog.Logger
}

// NewService constructs a new account [Service] with its dependencies.
func NewService(accounts AccountRepository, mirror auth.IdentityMirror, logger *slog.Logger) *Service {
	return &Service{
		accountRepository: accounts,
		identityMirror:    mirror,
		logger:            logger,
	}
}

// # Profile Management

/*
Profile retrieves the full private identity of a user.

Parameters:
  - ctx: context.Context
  - userID: string

Returns:
  - *auth.User: The hydrated user profile
  - error: apperr.NotFound or execution failures
*/
func (service *Service) Profile(ctx context.Context, userID string) (*auth.User, error) {
	return service.accountRepository.FindByID(ctx, userID)
}

// PublicProfile is the caller-facing subset of another member's account.
type PublicProfile struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	AvatarURL   string `json:"avatar_url"`
}

/*
PublicProfileByID retrieves the public subset of any member's profile.

Parameters:
  - ctx: context.Context
  - userID: string

Returns:
  - *PublicProfile: Discoverable fields only; email and hashes are omitted
  - error: apperr.NotFound or execution failures
*/
func (service *Service) PublicProfileByID(ctx context.Context, userID string) (*PublicProfile, error) {
	user, err := service.accountRepository.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &PublicProfile{
		ID:          user.ID,
		Username:    user.Username,
		DisplayName: user.DisplayName,
		AvatarURL:   user.AvatarURL,
	}, nil
}

// UpdateProfileInput defines the mutable subset of user profile fields.
// Nil fields are left untouched.
type UpdateProfileInput struct {
	DisplayName *string
	AvatarURL   *string
}

/*
UpdateProfile applies a partial set of changes to a user's profile.

Description: Fetches the existing user state, overlays the provided fields,
persists the result, and patches the Redis identity mirror. The mirror
patch is best effort; a miss merely shows a stale avatar until the next
login rewrites the mirror wholesale.

Parameters:
  - ctx: context.Context
  - userID: string
  - input: UpdateProfileInput

Returns:
  - *auth.User: The updated user profile
  - error: Update or storage failures
*/
func (service *Service) UpdateProfile(ctx context.Context, userID string, input UpdateProfileInput) (*auth.User, error) {

	user, err := service.accountRepository.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("account_service_update_lookup_failed: %w", err)
	}

	// Overlay only the provided fields.
	user.DisplayName = pointer.Fallback(input.DisplayName, user.DisplayName)
	user.AvatarURL = pointer.Fallback(input.AvatarURL, user.AvatarURL)

	if err := service.accountRepository.UpdateProfile(ctx, user); err != nil {
		return nil, fmt.Errorf("account_service_update_failed: %w", err)
	}

	if err := service.identityMirror.UpdateProfile(ctx, userID, map[string]string{
		"username": user.Username,
		"avatar":   user.AvatarURL,
	}); err != nil {
		service.logger.Warn("profile_mirror_patch_failed",
			slog.String("user_id", userID),
			slog.String("error", err.Error()),
		)
	}

	service.logger.Info("user_profile_updated", slog.String("user_id", userID))
	return user, nil
}

// # Security Management

/*
ChangePassword rotates a user's password after verifying the current one.

Description: Existing sessions stay valid; rotating the password changes
what future logins must present, not the session timestamps already
mirrored.

Parameters:
  - ctx: context.Context
  - userID: string
  - currentPassword: string
  - newPassword: string

Returns:
  - error: apperr.Unauthorized for a wrong current password, or storage errors
*/
func (service *Service) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {

	user, err := service.accountRepository.FindByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("account_service_password_lookup_failed: %w", err)
	}

	if !sec.CheckPasswordHash(currentPassword, user.PasswordHash) {
		return apperr.Unauthorized("Current password is incorrect")
	}

	hashedPassword, err := sec.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("account_service_password_hash_failed: %w", err)
	}

	if err := service.accountRepository.UpdatePassword(ctx, userID, hashedPassword); err != nil {
		return fmt.Errorf("account_service_password_update_failed: %w", err)
	}

	service.logger.Info("user_password_changed", slog.String("user_id", userID))
	return nil
}

/*
DeleteAccount closes a user's account.

Description: The Postgres row is soft-deleted first, then the identity
mirror is swept. The sweep removes every session key, so all of the user's
tokens fail validation immediately. A mirror failure here is returned as an
error rather than logged: leaving live sessions behind a deleted account is
not acceptable.

Parameters:
  - ctx: context.Context
  - userID: string

Returns:
  - error: Deletion or mirror failures
*/
func (service *Service) DeleteAccount(ctx context.Context, userID string) error {

	if err := service.accountRepository.SoftDelete(ctx, userID); err != nil {
		return fmt.Errorf("account_service_delete_failed: %w", err)
	}

	if err := service.identityMirror.DeleteIdentity(ctx, userID); err != nil {
		return fmt.Errorf("account_service_mirror_sweep_failed: %w", err)
	}

	service.logger.Info("user_account_deleted", slog.String("user_id", userID))
	return nil
}

// Copyright (c) 2026 Parley. All rights reserved.
// Author: dev@parleyhq.io

package account

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/parleyhq/parley/internal/platform/middleware"
	requestutil "github.com/parleyhq/parley/internal/platform/request"
	"github.com/parleyhq/parley/internal/platform/respond"
	"github.com/parleyhq/parley/internal/platform/validate"
	"github.com/parleyhq/parley/internal/users/auth"
)

// # Definitions & Constructors

// Handler implements the HTTP layer for profile and account management.
type Handler struct {
	accountService *Service
}

// NewHandler constructs a new account [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{accountService: service}
}

// Routes returns a [chi.Router] configured with the account endpoints.
//
// # Endpoints
//   - GET    /{userID}      : Public profile discovery.
//   - GET    /me            : The caller's full private profile.
//   - PATCH  /me            : Partial profile update.
//   - PUT    /me/password   : Password rotation.
//   - DELETE /me            : Account closure.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// Public profile discovery
	router.Get("/{userID}", handler.getPublicProfile)

	// Self management
	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Get("/me", handler.getMe)
		r.Patch("/me", handler.updateMe)
		r.Put("/me/password", handler.changePassword)
		r.Delete("/me", handler.deleteMe)
	})

	return router
}

// # Request Payloads

type updateProfileRequest struct {
	DisplayName *string `json:"display_name"`
	AvatarURL   *string `json:"avatar_url"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// # Profile Endpoints

/*
GetPublicProfile returns the discoverable subset of any member's profile.

GET /api/v1/users/{userID}

Response:
  - 200: PublicProfile
  - 404: ErrNotFound: Unknown or closed account
*/
func (handler *Handler) getPublicProfile(writer http.ResponseWriter, request *http.Request) {
	profile, err := handler.accountService.PublicProfileByID(
		request.Context(),
		requestutil.ID(request, "userID"),
	)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, profile)
}

/*
GetMe returns the caller's full private profile.

GET /api/v1/users/me

Response:
  - 200: User: Fully hydrated profile
  - 401: ErrUnauthorized: Authentication required
*/
func (handler *Handler) getMe(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.accountService.Profile(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, user)
}

/*
UpdateMe applies a partial profile update for the caller.

PATCH /api/v1/users/me

Request:
  - Body: updateProfileRequest (DisplayName, AvatarURL; omitted fields untouched)

Response:
  - 200: User: Updated profile
  - 401: ErrUnauthorized: Authentication required
*/
func (handler *Handler) updateMe(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input updateProfileRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	if input.DisplayName != nil {
		validator.MaxLen(auth.FieldDisplayName, *input.DisplayName, 100)
	}
	if input.AvatarURL != nil {
		validator.MaxLen(FieldAvatarURL, *input.AvatarURL, 500)
	}
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.accountService.UpdateProfile(request.Context(), userID, UpdateProfileInput{
		DisplayName: input.DisplayName,
		AvatarURL:   input.AvatarURL,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, user)
}

// # Security Endpoints

/*
ChangePassword rotates the caller's password.

PUT /api/v1/users/me/password

Request:
  - Body: changePasswordRequest (CurrentPassword, NewPassword)

Response:
  - 204: No Content
  - 401: ErrUnauthorized: Wrong current password
*/
func (handler *Handler) changePassword(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input changePasswordRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldCurrentPassword, input.CurrentPassword).
		Required(FieldNewPassword, input.NewPassword).
		MinLen(FieldNewPassword, input.NewPassword, auth.MinPasswordLength)
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	err = handler.accountService.ChangePassword(
		request.Context(),
		userID,
		input.CurrentPassword,
		input.NewPassword,
	)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}

/*
DeleteMe closes the caller's account and terminates every session.

DELETE /api/v1/users/me

Response:
  - 204: No Content
  - 401: ErrUnauthorized: Authentication required
*/
func (handler *Handler) deleteMe(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.accountService.DeleteAccount(request.Context(), userID); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}

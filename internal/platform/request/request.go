// Copyright (c) 2026 Parley. All rights reserved.
// Author: dev@parleyhq.io

/*
Package request provides utilities for extracting data from HTTP requests.

It abstracts away the underlying router's parameter extraction and common
body decoding patterns, ensuring consistent error handling and type safety.
*/
package requestutil

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/parleyhq/parley/internal/platform/apperr"
	"github.com/parleyhq/parley/internal/platform/ctxutil"
	"github.com/parleyhq/parley/internal/platform/validate"
	"github.com/parleyhq/parley/internal/session"
)

/*
DecodeJSON reads the request body and decodes it into the target structure.

Parameters:
  - request: *http.Request
  - target: interface{} (Pointer to the destination struct)

Returns:
  - error: validate.ErrInvalidJSON if decoding fails, otherwise nil
*/
func DecodeJSON(request *http.Request, target interface{}) error {
	if err := json.NewDecoder(request.Body).Decode(target); err != nil {
		return validate.ErrInvalidJSON
	}
	return nil
}

/*
ID retrieves a named URL parameter (UUID/Slug) from the request.
*/
func ID(request *http.Request, name string) string {
	return chi.URLParam(request, name)
}

/*
Credential extracts the validated session credential from the request context.

Returns nil for anonymous requests. A nil credential is still a usable
value: all its permission accessors answer false.
*/
func Credential(request *http.Request) *session.Credential {
	return ctxutil.GetCredential(request.Context())
}

/*
RequiredCredential ensures the request is authenticated and returns the
session credential.

Returns:
  - *session.Credential: The validated credential
  - error: apperr.Unauthorized if the request is anonymous
*/
func RequiredCredential(request *http.Request) (*session.Credential, error) {
	credential := ctxutil.GetCredential(request.Context())
	if credential == nil {
		return nil, apperr.Unauthorized("Authentication required")
	}
	return credential, nil
}

/*
RequiredUserID returns the User ID of the currently signed-in user.

Returns:
  - string: User UUID
  - error: apperr.Unauthorized if not authenticated
*/
func RequiredUserID(request *http.Request) (string, error) {
	credential, err := RequiredCredential(request)
	if err != nil {
		return "", err
	}
	return credential.UserID, nil
}

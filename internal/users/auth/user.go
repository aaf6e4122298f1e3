// Copyright (c) 2026 Parley. All rights reserved.
// Author: dev@parleyhq.io

package auth

import "time"

// User represents a registered forum member.
type User struct {
	ID           string     `json:"id"`
	Username     string     `json:"username"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"` // Never serialized.
	DisplayName  string     `json:"display_name"`
	AvatarURL    string     `json:"avatar_url"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	DeletedAt    *time.Time `json:"-"`
}

// Session is the result of a successful login: a signed token plus the
// profile it authenticates.
type Session struct {
	AccessToken string
	User        *User
}

// # Field Identifiers

// Global field names for validation and identity mapping in the
// authentication domain.
const (
	FieldUsername    = "username"
	FieldEmail       = "email"
	FieldPassword    = "password"
	FieldLogin       = "login"
	FieldDisplayName = "display_name"
	FieldAccessToken = "access_token"
	FieldTokenType   = "token_type"
	FieldUser        = "user"
	FieldMessage     = "message"
)

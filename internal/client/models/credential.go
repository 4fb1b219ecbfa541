// Package models defines client-side data types shared by the transport
// executors and the session coordinator.
package models

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrNoExpiry = errors.New("access token carries no expiry")

// Credential is the access/refresh token pair issued by the backend.
// Both tokens are opaque to the client; a pair is either complete or empty.
type Credential struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// IsZero reports whether neither token is set.
func (c Credential) IsZero() bool {
	return c.AccessToken == "" && c.RefreshToken == ""
}

// Complete reports whether both tokens are set.
func (c Credential) Complete() bool {
	return c.AccessToken != "" && c.RefreshToken != ""
}

func (c Credential) Equal(o Credential) bool {
	return c.AccessToken == o.AccessToken && c.RefreshToken == o.RefreshToken
}

// AccessExpiry reads the exp claim of a JWT access token without verifying
// its signature. It is meant for display only; the server stays the
// authority on whether a token is still accepted.
func (c Credential) AccessExpiry() (time.Time, error) {
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(c.AccessToken, &claims); err != nil {
		return time.Time{}, err
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, ErrNoExpiry
	}
	return claims.ExpiresAt.Time, nil
}

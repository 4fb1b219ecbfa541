package session

import "errors"

var (
	ErrPartialCredential   = errors.New("credential pair is incomplete")
	ErrRefreshFailed       = errors.New("credential refresh failed")
	ErrSessionExpired      = errors.New("session expired")
	ErrSignedOut           = errors.New("signed out")
	ErrMalformedCredential = errors.New("malformed credential payload")
)

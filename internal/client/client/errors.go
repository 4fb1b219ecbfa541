package client

import "errors"

var (
	ErrInvalidBaseURL  = errors.New("invalid base url")
	ErrNoTarget        = errors.New("request has no target")
	ErrPayloadTooLarge = errors.New("response payload too large")
)

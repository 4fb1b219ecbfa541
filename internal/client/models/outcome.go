package models

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrUnauthorized  = errors.New("unauthorized")
	ErrUnavailable   = errors.New("server unavailable")
	ErrServerError   = errors.New("server error")
	ErrRequestFailed = errors.New("request failed")
)

// OutcomeKind tags a completed attempt. Exactly one kind applies.
type OutcomeKind int

const (
	OutcomeSuccess OutcomeKind = iota
	OutcomeUnauthorized
	OutcomeUnreachable
	OutcomeServerError
	OutcomeOtherError
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeSuccess:
		return "success"
	case OutcomeUnauthorized:
		return "unauthorized"
	case OutcomeUnreachable:
		return "unreachable"
	case OutcomeServerError:
		return "server_error"
	case OutcomeOtherError:
		return "other_error"
	default:
		return fmt.Sprintf("outcome(%d)", int(k))
	}
}

// Outcome is the normalized result of one attempt.
//
// Status holds the HTTP status of the response (the gRPC executor maps status
// codes onto their HTTP equivalents); it is zero for Unreachable. Payload is
// set on Success.
// Detail carries a human-readable reason for non-success kinds.
type Outcome struct {
	Kind    OutcomeKind
	Status  int
	Payload []byte
	Detail  string
}

func Success(status int, payload []byte) Outcome {
	return Outcome{Kind: OutcomeSuccess, Status: status, Payload: payload}
}

func Unauthorized(detail string) Outcome {
	return Outcome{Kind: OutcomeUnauthorized, Status: http.StatusUnauthorized, Detail: detail}
}

func Unreachable(detail string) Outcome {
	return Outcome{Kind: OutcomeUnreachable, Detail: detail}
}

func ServerError(status int, detail string) Outcome {
	return Outcome{Kind: OutcomeServerError, Status: status, Detail: detail}
}

func OtherError(status int, detail string) Outcome {
	return Outcome{Kind: OutcomeOtherError, Status: status, Detail: detail}
}

func (o Outcome) OK() bool {
	return o.Kind == OutcomeSuccess
}

// ServerDown reports whether the outcome counts as a strike against server
// reachability: no response at all, or a 503 from the server.
func (o Outcome) ServerDown() bool {
	switch o.Kind {
	case OutcomeUnreachable:
		return true
	case OutcomeServerError:
		return o.Status == http.StatusServiceUnavailable
	}
	return false
}

// Err converts a non-success outcome into an error wrapping one of the
// package sentinels. It returns nil on Success.
func (o Outcome) Err() error {
	var base error
	switch o.Kind {
	case OutcomeSuccess:
		return nil
	case OutcomeUnauthorized:
		base = ErrUnauthorized
	case OutcomeUnreachable:
		base = ErrUnavailable
	case OutcomeServerError:
		base = ErrServerError
	default:
		base = ErrRequestFailed
	}
	if o.Detail == "" {
		return base
	}
	return fmt.Errorf("%w: %s", base, o.Detail)
}

// Package services contains application services for the dashboard client.
// This file defines the authentication service: sign-in, sign-out, session
// status and the liveness probe.
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/umerwe/school-frontend-sub001/internal/client/client"
	"github.com/umerwe/school-frontend-sub001/internal/client/models"
	"github.com/umerwe/school-frontend-sub001/internal/client/session"
)

// AuthService defines authentication operations for the CLI.
//
// Contract:
//   - Login: exchange email/password for a credential pair and start a session.
//   - Logout: end the session on user request (best-effort server logout).
//   - Ping: check server liveness without affecting session state.
//   - Status: report what the client currently knows about the session.
//
// All blocking methods honor context cancellation/timeouts.
type AuthService interface {
	Login(ctx context.Context, email string, password []byte) error
	Logout(ctx context.Context)
	Ping(ctx context.Context) error
	Status() Status
}

// Status is a point-in-time view of the session.
type Status struct {
	SignedIn      bool
	ManualSignOut bool
	Refreshes     int64
	// AccessExpiry is zero when the access token carries no readable expiry.
	AccessExpiry time.Time
}

type Paths struct {
	Login      string
	Health     string
	TokenField string
}

// authService talks to the backend directly for unauthenticated calls and
// hands every session transition to the Coordinator.
type authService struct {
	exec  client.Executor
	coord *session.Coordinator
	paths Paths
}

// NewAuthService constructs an AuthService bound to the given executor and coordinator.
func NewAuthService(exec client.Executor, coord *session.Coordinator, paths Paths) AuthService {
	return &authService{exec: exec, coord: coord, paths: paths}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login posts the credentials, decodes the issued pair and installs it.
func (a *authService) Login(ctx context.Context, email string, password []byte) error {
	body, err := json.Marshal(loginRequest{Email: email, Password: string(password)})
	if err != nil {
		return err
	}

	out := a.exec.Execute(ctx, models.Post(a.paths.Login, body), models.Credential{})
	if !out.OK() {
		return fmt.Errorf("login error: %w", out.Err())
	}

	cred, err := session.DecodeCredential(out.Payload, a.paths.TokenField)
	if err != nil {
		return fmt.Errorf("login response: %w", err)
	}

	return a.coord.SignIn(ctx, cred)
}

func (a *authService) Logout(ctx context.Context) {
	a.coord.SignOut(ctx)
}

// Ping bypasses the coordinator so idle probes never count as strikes.
func (a *authService) Ping(ctx context.Context) error {
	return a.exec.Execute(ctx, models.Get(a.paths.Health), models.Credential{}).Err()
}

func (a *authService) Status() Status {
	cred, ok := a.coord.Credential()
	st := Status{
		SignedIn:      ok,
		ManualSignOut: a.coord.ManualSignOut(),
		Refreshes:     a.coord.Refreshes(),
	}
	if ok {
		if exp, err := cred.AccessExpiry(); err == nil {
			st.AccessExpiry = exp
		}
	}
	return st
}

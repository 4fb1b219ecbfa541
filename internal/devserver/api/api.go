// Package api implements the dev server's endpoints once, independent of the
// transport that carries them. The HTTP and gRPC fronts both delegate here.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"sync/atomic"

	"github.com/umerwe/school-frontend-sub001/internal/devserver/users"
	"github.com/umerwe/school-frontend-sub001/internal/logging"
)

var (
	ErrBadRequest  = errors.New("bad request")
	ErrForbidden   = errors.New("forbidden")
	ErrNotFound    = errors.New("not found")
	ErrUnavailable = errors.New("service unavailable")
)

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Envelope wraps every successful response body.
type Envelope struct {
	Data any `json:"data"`
}

type Summary struct {
	Role    string         `json:"role"`
	Name    string         `json:"name"`
	Metrics map[string]int `json:"metrics"`
}

type API struct {
	users *users.Service
	log   logging.Logger

	down      atomic.Bool
	refreshes atomic.Int64
}

func New(us *users.Service, log logging.Logger) *API {
	if log == nil {
		log = logging.Nop()
	}
	return &API{users: us, log: log.With("module", "api")}
}

// SetDown makes every endpoint answer ErrUnavailable until cleared.
func (a *API) SetDown(down bool) {
	a.down.Store(down)
}

// Refreshes counts successful refresh calls.
func (a *API) Refreshes() int64 {
	return a.refreshes.Load()
}

func (a *API) RefreshTokenValidity() int {
	return int(a.users.RefreshTokenValidity().Seconds())
}

func (a *API) available() error {
	if a.down.Load() {
		return ErrUnavailable
	}
	return nil
}

func (a *API) Health(ctx context.Context) error {
	return a.available()
}

func (a *API) Login(ctx context.Context, body []byte) (*users.TokenPair, error) {
	if err := a.available(); err != nil {
		return nil, err
	}

	var req LoginRequest
	if err := json.Unmarshal(body, &req); err != nil || req.Email == "" || req.Password == "" {
		return nil, ErrBadRequest
	}

	pair, err := a.users.Login(ctx, req.Email, []byte(req.Password))
	if err != nil {
		a.log.Info(ctx, "login rejected", "email", req.Email)
		return nil, err
	}

	a.log.Info(ctx, "login", "email", req.Email)
	return pair, nil
}

func (a *API) Refresh(ctx context.Context, refreshToken string) (*users.TokenPair, error) {
	if err := a.available(); err != nil {
		return nil, err
	}

	pair, err := a.users.Refresh(ctx, refreshToken)
	if err != nil {
		a.log.Info(ctx, "refresh rejected")
		return nil, err
	}

	a.refreshes.Add(1)
	return pair, nil
}

func (a *API) Logout(ctx context.Context, refreshToken string) error {
	if err := a.available(); err != nil {
		return err
	}
	return a.users.Logout(ctx, refreshToken)
}

// Dashboard returns the summary for role. Admins may read any dashboard;
// everyone else only their own.
func (a *API) Dashboard(ctx context.Context, accessToken, role string) (*Summary, error) {
	if err := a.available(); err != nil {
		return nil, err
	}

	user, err := a.users.Authenticate(ctx, accessToken)
	if err != nil {
		return nil, err
	}

	metrics, ok := dashboards[role]
	if !ok {
		return nil, ErrNotFound
	}
	if user.Role != role && user.Role != users.RoleAdmin {
		return nil, ErrForbidden
	}

	return &Summary{Role: role, Name: user.Name, Metrics: metrics}, nil
}

var dashboards = map[string]map[string]int{
	users.RoleAdmin:   {"students": 412, "teachers": 27, "classes": 18},
	users.RoleTeacher: {"classes": 4, "pendingGrading": 31},
	users.RoleStudent: {"attendancePercent": 96, "upcomingExams": 2},
	users.RoleParent:  {"children": 2, "outstandingVouchers": 1},
}

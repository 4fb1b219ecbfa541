package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/umerwe/school-frontend-sub001/internal/devserver/users"
	"github.com/umerwe/school-frontend-sub001/internal/logging"
)

const (
	RefreshCookieName = "refreshToken"
	requestIDHeader   = "X-Request-ID"
	maxBodyBytes      = 1 << 20
)

// HTTPServer is the HTTP front of the dev server.
type HTTPServer struct {
	api           *API
	secureCookies bool
	server        *http.Server
}

func NewHTTPServer(addr string, a *API, secureCookies bool) *HTTPServer {
	s := &HTTPServer{api: a, secureCookies: secureCookies}
	s.server = &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// Router returns the route table with middleware applied.
func (s *HTTPServer) Router() *mux.Router {
	router := mux.NewRouter()

	router.HandleFunc("/health", s.health).Methods(http.MethodGet)
	router.HandleFunc("/auth/login", s.login).Methods(http.MethodPost)
	router.HandleFunc("/auth/refresh-tokens", s.refresh).Methods(http.MethodPost)
	router.HandleFunc("/auth/logout", s.logout).Methods(http.MethodPost)
	router.HandleFunc("/dashboard/{role}", s.dashboard).Methods(http.MethodGet)

	router.Use(s.requestIDMiddleware)
	router.Use(s.loggingMiddleware)
	router.Use(s.recoveryMiddleware)

	return router
}

func (s *HTTPServer) Start() error {
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *HTTPServer) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *HTTPServer) health(w http.ResponseWriter, r *http.Request) {
	if err := s.api.Health(r.Context()); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *HTTPServer) login(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		s.writeError(w, ErrBadRequest)
		return
	}

	pair, err := s.api.Login(r.Context(), body)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.setRefreshCookie(w, pair.RefreshToken)
	s.writeJSON(w, http.StatusOK, Envelope{Data: pair})
}

func (s *HTTPServer) refresh(w http.ResponseWriter, r *http.Request) {
	pair, err := s.api.Refresh(r.Context(), refreshCookie(r))
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.setRefreshCookie(w, pair.RefreshToken)
	s.writeJSON(w, http.StatusOK, Envelope{Data: pair})
}

func (s *HTTPServer) logout(w http.ResponseWriter, r *http.Request) {
	if err := s.api.Logout(r.Context(), refreshCookie(r)); err != nil {
		s.writeError(w, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     RefreshCookieName,
		Value:    "",
		Path:     "/auth",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.secureCookies,
	})
	w.WriteHeader(http.StatusNoContent)
}

func (s *HTTPServer) dashboard(w http.ResponseWriter, r *http.Request) {
	token, ok := bearerToken(r)
	if !ok {
		s.writeError(w, users.ErrUnauthorized)
		return
	}

	summary, err := s.api.Dashboard(r.Context(), token, mux.Vars(r)["role"])
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, Envelope{Data: summary})
}

func (s *HTTPServer) setRefreshCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     RefreshCookieName,
		Value:    token,
		Path:     "/auth",
		MaxAge:   s.api.RefreshTokenValidity(),
		HttpOnly: true,
		Secure:   s.secureCookies,
		SameSite: http.SameSiteStrictMode,
	})
}

func refreshCookie(r *http.Request) string {
	c, err := r.Cookie(RefreshCookieName)
	if err != nil {
		return ""
	}
	return c.Value
}

func bearerToken(r *http.Request) (string, bool) {
	scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" {
		return "", false
	}
	return token, true
}

// StatusFor maps an endpoint error to its HTTP status.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, users.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (s *HTTPServer) writeError(w http.ResponseWriter, err error) {
	status := StatusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		msg = http.StatusText(status)
	}
	s.writeJSON(w, status, map[string]string{"message": msg})
}

func (s *HTTPServer) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Middleware

func (s *HTTPServer) requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(logging.ContextWithRequestID(r.Context(), id)))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *HTTPServer) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		ctx := logging.ContextWithRequestID(r.Context(), w.Header().Get(requestIDHeader))
		s.api.log.Info(ctx, "http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start).String(),
		)
	})
}

func (s *HTTPServer) recoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				s.api.log.Error(r.Context(), "panic recovered", "error", fmt.Sprint(err))
				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

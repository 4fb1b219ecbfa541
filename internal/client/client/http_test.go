package client

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/umerwe/school-frontend-sub001/internal/client/models"
)

func newTestExecutor(t *testing.T, h http.HandlerFunc) *HTTPExecutor {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	e, err := NewHTTPExecutor(srv.URL, 2*time.Second)
	require.NoError(t, err)
	return e
}

func TestNewHTTPExecutor_InvalidURL(t *testing.T) {
	_, err := NewHTTPExecutor("not a url", time.Second)
	require.ErrorIs(t, err, ErrInvalidBaseURL)

	_, err = NewHTTPExecutor("://bad", time.Second)
	require.ErrorIs(t, err, ErrInvalidBaseURL)
}

func TestHTTPExecutor_AttachesCredentialAndHeaders(t *testing.T) {
	var got *http.Request
	var body []byte
	e := newTestExecutor(t, func(w http.ResponseWriter, r *http.Request) {
		got = r
		body, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"ok":true}`))
	})

	req := models.Post("/attendance", []byte(`{"student":"s1"}`)).WithCookie("refreshToken", "R1")
	out := e.Execute(context.Background(), req, models.Credential{AccessToken: "A1", RefreshToken: "R1"})

	require.Equal(t, models.OutcomeSuccess, out.Kind)
	assert.Equal(t, http.StatusCreated, out.Status)
	assert.JSONEq(t, `{"ok":true}`, string(out.Payload))

	require.NotNil(t, got)
	assert.Equal(t, http.MethodPost, got.Method)
	assert.Equal(t, "/attendance", got.URL.Path)
	assert.Equal(t, "Bearer A1", got.Header.Get("Authorization"))
	assert.Equal(t, req.ID, got.Header.Get(RequestIDHeaderName))
	assert.Equal(t, "application/json", got.Header.Get("Content-Type"))
	assert.Equal(t, `{"student":"s1"}`, string(body))

	c, err := got.Cookie("refreshToken")
	require.NoError(t, err)
	assert.Equal(t, "R1", c.Value)
}

func TestHTTPExecutor_NoCredentialNoAuthorization(t *testing.T) {
	var auth string
	e := newTestExecutor(t, func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
	})

	out := e.Execute(context.Background(), models.Get("/health"), models.Credential{})
	require.True(t, out.OK())
	assert.Empty(t, auth)
}

func TestHTTPExecutor_Classification(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   models.OutcomeKind
	}{
		{"ok", http.StatusOK, models.OutcomeSuccess},
		{"no content", http.StatusNoContent, models.OutcomeSuccess},
		{"unauthorized", http.StatusUnauthorized, models.OutcomeUnauthorized},
		{"unavailable", http.StatusServiceUnavailable, models.OutcomeServerError},
		{"forbidden", http.StatusForbidden, models.OutcomeOtherError},
		{"not found", http.StatusNotFound, models.OutcomeOtherError},
		{"internal", http.StatusInternalServerError, models.OutcomeOtherError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestExecutor(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			})
			out := e.Execute(context.Background(), models.Get("/dashboard/admin"), models.Credential{})
			assert.Equal(t, tt.want, out.Kind)
			assert.Equal(t, tt.status, out.Status)
		})
	}
}

func TestHTTPExecutor_OtherErrorCarriesBody(t *testing.T) {
	e := newTestExecutor(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "voucher not found", http.StatusNotFound)
	})

	out := e.Execute(context.Background(), models.Get("/vouchers/9"), models.Credential{})
	require.Equal(t, models.OutcomeOtherError, out.Kind)
	assert.Equal(t, "voucher not found", out.Detail)
}

func TestHTTPExecutor_UnreachableOnConnectionFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	e, err := NewHTTPExecutor(url, time.Second)
	require.NoError(t, err)

	out := e.Execute(context.Background(), models.Get("/health"), models.Credential{})
	assert.Equal(t, models.OutcomeUnreachable, out.Kind)
	assert.True(t, out.ServerDown())
}

func TestHTTPExecutor_UnreachableOnTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	t.Cleanup(srv.Close)
	t.Cleanup(func() { close(release) })

	e, err := NewHTTPExecutor(srv.URL, 50*time.Millisecond)
	require.NoError(t, err)

	out := e.Execute(context.Background(), models.Get("/slow"), models.Credential{})
	assert.Equal(t, models.OutcomeUnreachable, out.Kind)
}

func TestHTTPExecutor_CallerCancelIsNotUnreachable(t *testing.T) {
	e := newTestExecutor(t, func(w http.ResponseWriter, r *http.Request) {})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	out := e.Execute(ctx, models.Get("/health"), models.Credential{})
	assert.Equal(t, models.OutcomeOtherError, out.Kind)
}

func TestHTTPExecutor_EmptyPath(t *testing.T) {
	e := newTestExecutor(t, func(w http.ResponseWriter, r *http.Request) {})

	out := e.Execute(context.Background(), &models.Request{}, models.Credential{})
	assert.Equal(t, models.OutcomeOtherError, out.Kind)
	assert.Equal(t, ErrNoTarget.Error(), out.Detail)
}

func TestHTTPExecutor_CookieJarReplaysSessionCookie(t *testing.T) {
	var seen string
	e := newTestExecutor(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/auth/login" {
			http.SetCookie(w, &http.Cookie{Name: "session", Value: "S1", Path: "/"})
			return
		}
		if c, err := r.Cookie("session"); err == nil {
			seen = c.Value
		}
	})

	require.True(t, e.Execute(context.Background(), models.Post("/auth/login", nil), models.Credential{}).OK())
	require.True(t, e.Execute(context.Background(), models.Post("/auth/refresh-tokens", nil), models.Credential{}).OK())
	assert.Equal(t, "S1", seen)
}

func TestHTTPExecutor_OversizedPayloadIsNotSuccess(t *testing.T) {
	big := strings.Repeat("x", maxPayloadSize+1)
	e := newTestExecutor(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/exact" {
			_, _ = io.WriteString(w, big[:maxPayloadSize])
			return
		}
		_, _ = io.WriteString(w, big)
	})

	out := e.Execute(context.Background(), models.Get("/dashboard/admin"), models.Credential{})
	assert.Equal(t, models.OutcomeOtherError, out.Kind)
	assert.Equal(t, http.StatusOK, out.Status)
	assert.Contains(t, out.Detail, ErrPayloadTooLarge.Error())
	assert.Empty(t, out.Payload)

	out = e.Execute(context.Background(), models.Get("/exact"), models.Credential{})
	require.True(t, out.OK())
	assert.Len(t, out.Payload, maxPayloadSize)
}

func TestDetail_TruncatesOnRuneBoundary(t *testing.T) {
	// 255 ASCII bytes then a two-byte rune straddling the limit.
	payload := strings.Repeat("a", maxDetailSize-1) + "é" + "tail"

	d := detail(http.StatusBadRequest, []byte(payload))
	assert.True(t, utf8.ValidString(d))
	assert.Equal(t, strings.Repeat("a", maxDetailSize-1), d)

	assert.Equal(t, "Not Found", detail(http.StatusNotFound, nil))
	assert.Equal(t, "short", detail(http.StatusBadRequest, []byte(" short \n")))
}

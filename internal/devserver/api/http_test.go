package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/umerwe/school-frontend-sub001/internal/devserver/config"
	"github.com/umerwe/school-frontend-sub001/internal/devserver/users"
)

func newTestServer(t *testing.T) (*httptest.Server, *API) {
	t.Helper()
	cfg := &config.Config{
		SecretKey:                    "test-secret",
		AccessTokenValidityDuration:  time.Minute,
		RefreshTokenValidityDuration: time.Hour,
	}
	a := New(users.NewService(users.NewMemoryRepository(users.DefaultUsers()...), cfg), nil)
	srv := httptest.NewServer(NewHTTPServer("", a, false).Router())
	t.Cleanup(srv.Close)
	return srv, a
}

type pairEnvelope struct {
	Data users.TokenPair `json:"data"`
}

func login(t *testing.T, srv *httptest.Server, email, password string) (*http.Response, pairEnvelope) {
	t.Helper()
	body, _ := json.Marshal(LoginRequest{Email: email, Password: password})
	resp, err := http.Post(srv.URL+"/auth/login", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	var env pairEnvelope
	if resp.StatusCode == http.StatusOK {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	}
	return resp, env
}

func postWithCookie(t *testing.T, url, token string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodPost, url, nil)
	require.NoError(t, err)
	if token != "" {
		req.AddCookie(&http.Cookie{Name: RefreshCookieName, Value: token})
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func getWithBearer(t *testing.T, url, token string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, url, nil)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func refreshCookieFrom(resp *http.Response) *http.Cookie {
	for _, c := range resp.Cookies() {
		if c.Name == RefreshCookieName {
			return c
		}
	}
	return nil
}

func TestLogin(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, env := login(t, srv, "admin@school.example", "admin123")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, env.Data.AccessToken)
	assert.NotEmpty(t, env.Data.RefreshToken)
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))

	c := refreshCookieFrom(resp)
	require.NotNil(t, c)
	assert.Equal(t, env.Data.RefreshToken, c.Value)
	assert.True(t, c.HttpOnly)

	resp, _ = login(t, srv, "admin@school.example", "wrong")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = login(t, srv, "", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRefresh_RotatesCookie(t *testing.T) {
	srv, a := newTestServer(t)
	_, env := login(t, srv, "teacher@school.example", "teacher123")

	resp := postWithCookie(t, srv.URL+"/auth/refresh-tokens", env.Data.RefreshToken)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var rotated pairEnvelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&rotated))
	assert.NotEqual(t, env.Data.RefreshToken, rotated.Data.RefreshToken)
	assert.Equal(t, rotated.Data.RefreshToken, refreshCookieFrom(resp).Value)
	assert.EqualValues(t, 1, a.Refreshes())

	reuse := postWithCookie(t, srv.URL+"/auth/refresh-tokens", env.Data.RefreshToken)
	reuse.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, reuse.StatusCode)

	missing := postWithCookie(t, srv.URL+"/auth/refresh-tokens", "")
	missing.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, missing.StatusCode)
}

func TestDashboard(t *testing.T) {
	srv, _ := newTestServer(t)
	_, teacher := login(t, srv, "teacher@school.example", "teacher123")
	_, admin := login(t, srv, "admin@school.example", "admin123")

	tests := []struct {
		name   string
		path   string
		token  string
		status int
	}{
		{"own dashboard", "/dashboard/teacher", teacher.Data.AccessToken, http.StatusOK},
		{"other role", "/dashboard/admin", teacher.Data.AccessToken, http.StatusForbidden},
		{"admin reads any", "/dashboard/parent", admin.Data.AccessToken, http.StatusOK},
		{"unknown role", "/dashboard/janitor", admin.Data.AccessToken, http.StatusNotFound},
		{"no token", "/dashboard/teacher", "", http.StatusUnauthorized},
		{"garbage token", "/dashboard/teacher", "not.a.jwt", http.StatusUnauthorized},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			resp := getWithBearer(t, srv.URL+tc.path, tc.token)
			defer resp.Body.Close()
			assert.Equal(t, tc.status, resp.StatusCode)
		})
	}

	resp := getWithBearer(t, srv.URL+"/dashboard/teacher", teacher.Data.AccessToken)
	defer resp.Body.Close()
	var env struct {
		Data Summary `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	assert.Equal(t, "teacher", env.Data.Role)
	assert.Equal(t, 4, env.Data.Metrics["classes"])
}

func TestLogout_RevokesAndClearsCookie(t *testing.T) {
	srv, _ := newTestServer(t)
	_, env := login(t, srv, "parent@school.example", "parent123")

	resp := postWithCookie(t, srv.URL+"/auth/logout", env.Data.RefreshToken)
	resp.Body.Close()
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	c := refreshCookieFrom(resp)
	require.NotNil(t, c)
	assert.Empty(t, c.Value)

	after := postWithCookie(t, srv.URL+"/auth/refresh-tokens", env.Data.RefreshToken)
	after.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, after.StatusCode)
}

func TestSetDown_AnswersServiceUnavailable(t *testing.T) {
	srv, a := newTestServer(t)

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	a.SetDown(true)

	resp, err = http.Get(srv.URL + "/health")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

	loginResp, _ := login(t, srv, "admin@school.example", "admin123")
	assert.Equal(t, http.StatusServiceUnavailable, loginResp.StatusCode)

	a.SetDown(false)
	loginResp, _ = login(t, srv, "admin@school.example", "admin123")
	assert.Equal(t, http.StatusOK, loginResp.StatusCode)
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusUnauthorized, StatusFor(users.ErrUnauthorized))
	assert.Equal(t, http.StatusServiceUnavailable, StatusFor(ErrUnavailable))
	assert.Equal(t, http.StatusInternalServerError, StatusFor(users.ErrInternal))
}

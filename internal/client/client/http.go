package client

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/umerwe/school-frontend-sub001/internal/client/models"
)

const (
	RequestIDHeaderName = "X-Request-ID"

	// maxPayloadSize bounds how much of a response body is buffered.
	maxPayloadSize = 4 << 20
	maxDetailSize  = 256
)

// HTTPExecutor executes requests against a REST backend.
//
// The underlying http.Client keeps a cookie jar, so session cookies set by
// the backend (for example on login or refresh) are replayed on later calls
// to the same host.
type HTTPExecutor struct {
	baseURL *url.URL
	client  *http.Client
}

// NewHTTPExecutor returns an executor for baseURL with a fixed per-call timeout.
func NewHTTPExecutor(baseURL string, timeout time.Duration) (*HTTPExecutor, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBaseURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidBaseURL, baseURL)
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}

	return &HTTPExecutor{
		baseURL: u,
		client:  &http.Client{Timeout: timeout, Jar: jar},
	}, nil
}

func (e *HTTPExecutor) Execute(ctx context.Context, req *models.Request, cred models.Credential) models.Outcome {
	httpReq, err := e.newHTTPRequest(ctx, req, cred)
	if err != nil {
		return models.OtherError(0, err.Error())
	}

	resp, err := e.client.Do(httpReq)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return models.OtherError(0, err.Error())
		}
		return models.Unreachable(err.Error())
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, maxPayloadSize+1))
	if err != nil {
		return models.Unreachable(fmt.Sprintf("read body: %s", err))
	}
	if len(payload) > maxPayloadSize {
		return models.OtherError(resp.StatusCode, fmt.Sprintf("%s: over %d bytes", ErrPayloadTooLarge, maxPayloadSize))
	}

	return classifyHTTP(resp.StatusCode, payload)
}

func (e *HTTPExecutor) newHTTPRequest(ctx context.Context, req *models.Request, cred models.Credential) (*http.Request, error) {
	if req.Path == "" {
		return nil, ErrNoTarget
	}
	target, err := e.baseURL.Parse(req.Path)
	if err != nil {
		return nil, err
	}

	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	var body io.Reader
	if len(req.Body) > 0 {
		body = bytes.NewReader(req.Body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, target.String(), body)
	if err != nil {
		return nil, err
	}

	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	httpReq.Header.Set("Accept", "application/json")
	for k, v := range req.Header {
		httpReq.Header.Set(k, v)
	}
	if req.ID != "" {
		httpReq.Header.Set(RequestIDHeaderName, req.ID)
	}
	for name, value := range req.Cookies {
		httpReq.AddCookie(&http.Cookie{Name: name, Value: value})
	}
	if cred.AccessToken != "" {
		httpReq.Header.Set("Authorization", "Bearer "+cred.AccessToken)
	}

	return httpReq, nil
}

func classifyHTTP(status int, payload []byte) models.Outcome {
	switch {
	case status >= 200 && status < 300:
		return models.Success(status, payload)
	case status == http.StatusUnauthorized:
		return models.Unauthorized(detail(status, payload))
	case status == http.StatusServiceUnavailable:
		return models.ServerError(status, detail(status, payload))
	default:
		return models.OtherError(status, detail(status, payload))
	}
}

func detail(status int, payload []byte) string {
	d := strings.TrimSpace(string(payload))
	if d == "" {
		return http.StatusText(status)
	}
	if len(d) > maxDetailSize {
		n := maxDetailSize
		for n > 0 && !utf8.RuneStart(d[n]) {
			n--
		}
		d = d[:n]
	}
	return d
}

package models

import (
	"net/http"

	"github.com/google/uuid"
)

// Request describes one outbound call independently of the transport.
//
// For HTTP, Method is the verb and Path is resolved against the base URL.
// For gRPC, Path is the full method name ("/pkg.Service/Method") and Method
// is ignored. Header values become HTTP headers or outgoing gRPC metadata.
//
// Retried is set by the coordinator once the request has been replayed with
// refreshed credentials; such a request is never replayed again.
type Request struct {
	ID      string
	Method  string
	Path    string
	Body    []byte
	Header  map[string]string
	Cookies map[string]string
	Retried bool
}

// NewRequest returns a request with a fresh correlation ID.
func NewRequest(method, path string, body []byte) *Request {
	return &Request{
		ID:     uuid.NewString(),
		Method: method,
		Path:   path,
		Body:   body,
	}
}

// Get is a shorthand for NewRequest(http.MethodGet, path, nil).
func Get(path string) *Request {
	return NewRequest(http.MethodGet, path, nil)
}

// Post is a shorthand for NewRequest(http.MethodPost, path, body).
func Post(path string, body []byte) *Request {
	return NewRequest(http.MethodPost, path, body)
}

// WithCookie sets a cookie carried by the request and returns it.
func (r *Request) WithCookie(name, value string) *Request {
	if r.Cookies == nil {
		r.Cookies = make(map[string]string)
	}
	r.Cookies[name] = value
	return r
}

// WithHeader sets a header carried by the request and returns it.
func (r *Request) WithHeader(name, value string) *Request {
	if r.Header == nil {
		r.Header = make(map[string]string)
	}
	r.Header[name] = value
	return r
}

// Package httpclient provides the HTTP client used for all outbound
// requests. Every request carries the fixed identifying User-Agent; the
// releases API is public and no authentication token is supported.
package httpclient

import (
	"net/http"

	"github.com/TomBedinoVT/dockerops-manager/pkg/config"
)

// New creates an HTTP client that identifies itself as the manager on
// every request.
func New() *http.Client {
	return &http.Client{
		Transport: &userAgentTransport{
			Base: http.DefaultTransport,
		},
	}
}

// userAgentTransport sets the identifying header without mutating the
// caller's request.
type userAgentTransport struct {
	Base http.RoundTripper
}

// RoundTrip implements the http.RoundTripper interface
func (t *userAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req2 := req.Clone(req.Context())
	req2.Header.Set("User-Agent", config.UserAgent)
	return t.Base.RoundTrip(req2)
}

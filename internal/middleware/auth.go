// Package middleware provides reusable HTTP middleware components.
package middleware

import (
	"encoding/base64"
	"maps"
	"net/http"
)

// BasicAuth returns a middleware that authenticates every request with the
// platform's tenant-scoped basic credentials (tenant/username:password).
func BasicAuth(tenant, username, password string) func(http.RoundTripper) http.RoundTripper {
	user := username
	if tenant != "" {
		user = tenant + "/" + username
	}
	token := base64.StdEncoding.EncodeToString([]byte(user + ":" + password))
	return headerSetter("Authorization", "Basic "+token)
}

// BearerAuth returns a middleware that authenticates every request with an
// OAuth bearer token.
func BearerAuth(token string) func(http.RoundTripper) http.RoundTripper {
	return headerSetter("Authorization", "Bearer "+token)
}

func headerSetter(name, value string) func(http.RoundTripper) http.RoundTripper {
	return func(next http.RoundTripper) http.RoundTripper {
		return &authTransport{
			next:        next,
			headerName:  name,
			headerValue: value,
		}
	}
}

type authTransport struct {
	next        http.RoundTripper
	headerName  string
	headerValue string
}

func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	// Clone request to avoid modifying original
	req = cloneRequest(req)

	req.Header.Set(t.headerName, t.headerValue)

	//nolint:wrapcheck // Middleware passes through errors from next handler in chain
	return t.next.RoundTrip(req)
}

// cloneRequest creates a shallow copy of the request with a cloned header map.
func cloneRequest(req *http.Request) *http.Request {
	r := new(http.Request)
	*r = *req
	r.Header = make(http.Header, len(req.Header))
	maps.Copy(r.Header, req.Header)
	return r
}

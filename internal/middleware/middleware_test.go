package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBasicAuth(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		tenant   string
		username string
		password string
		want     string
	}{
		{
			name:     "tenant scoped",
			tenant:   "t100",
			username: "admin",
			password: "secret",
			// base64("t100/admin:secret")
			want: "Basic dDEwMC9hZG1pbjpzZWNyZXQ=",
		},
		{
			name:     "no tenant",
			username: "admin",
			password: "secret",
			// base64("admin:secret")
			want: "Basic YWRtaW46c2VjcmV0",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var got string
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got = r.Header.Get("Authorization")
				w.WriteHeader(http.StatusOK)
			}))
			defer server.Close()

			client := &http.Client{
				Transport: BasicAuth(tt.tenant, tt.username, tt.password)(http.DefaultTransport),
			}

			resp, err := client.Get(server.URL)
			require.NoError(t, err)
			resp.Body.Close()

			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBearerAuth(t *testing.T) {
	t.Parallel()

	var got string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := &http.Client{
		Transport: BearerAuth("tok-123")(http.DefaultTransport),
	}

	resp, err := client.Get(server.URL)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, "Bearer tok-123", got)
}

func TestAuthDoesNotMutateOriginalRequest(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := &http.Client{
		Transport: BearerAuth("tok-123")(http.DefaultTransport),
	}

	req, err := http.NewRequest(http.MethodGet, server.URL, nil)
	require.NoError(t, err)

	resp, err := client.Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Empty(t, req.Header.Get("Authorization"))
}

package application_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devicecloud-io/go-devicecloud/api/application"
	"github.com/devicecloud-io/go-devicecloud/internal/testutil"
)

const listBody = `{
	"applications": [
		{"id": "11", "name": "cockpit", "key": "cockpit-key", "type": "HOSTED", "contextPath": "cockpit"},
		{"id": "12", "name": "fleet-dashboard", "key": "fleet-key", "type": "HOSTED", "contextPath": "fleet"}
	]
}`

func TestNew(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		config  *application.Config
		wantErr bool
	}{
		{
			name:   "valid config",
			config: &application.Config{BaseURL: "https://acme.iot.example.com"},
		},
		{
			name:    "nil config",
			config:  nil,
			wantErr: true,
		},
		{
			name:    "missing base URL",
			config:  &application.Config{},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			client, err := application.New(tt.config)

			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			require.NotNil(t, client)
		})
	}
}

func newClient(t *testing.T, baseURL string) *application.Client {
	t.Helper()

	client, err := application.New(&application.Config{BaseURL: baseURL})
	require.NoError(t, err)
	return client
}

func TestListApplicationsCaches(t *testing.T) {
	t.Parallel()

	server, calls := testutil.NewMockServerSequence(t, []testutil.Response{
		{Body: listBody, StatusCode: http.StatusOK},
	})
	defer server.Close()

	client := newClient(t, server.URL)
	ctx := context.Background()

	first, err := client.ListApplications(ctx)
	require.NoError(t, err)
	require.Len(t, first, 2)
	assert.Equal(t, "cockpit", first[0].Name)

	// Second call must be served from the cache.
	second, err := client.ListApplications(ctx)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, calls())

	// Mutating the returned slice must not poison the cache.
	second[0].Name = "mutated"
	third, err := client.ListApplications(ctx)
	require.NoError(t, err)
	assert.Equal(t, "cockpit", third[0].Name)
}

func TestInvalidateCacheForcesRefetch(t *testing.T) {
	t.Parallel()

	server, calls := testutil.NewMockServerSequence(t, []testutil.Response{
		{Body: listBody, StatusCode: http.StatusOK},
		{Body: `{"applications": []}`, StatusCode: http.StatusOK},
	})
	defer server.Close()

	client := newClient(t, server.URL)
	ctx := context.Background()

	first, err := client.ListApplications(ctx)
	require.NoError(t, err)
	require.Len(t, first, 2)

	client.InvalidateCache()

	second, err := client.ListApplications(ctx)
	require.NoError(t, err)
	assert.Empty(t, second)
	assert.Equal(t, 2, calls())
}

func TestListApplicationsError(t *testing.T) {
	t.Parallel()

	server := testutil.NewMockServer(t, "/application/applications", "",
		`{"error": "security/Forbidden", "message": "Access is denied"}`, http.StatusForbidden)
	defer server.Close()

	_, err := newClient(t, server.URL).ListApplications(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status=403")
}

func TestFindByName(t *testing.T) {
	t.Parallel()

	server := testutil.NewMockServer(t, "/application/applications", "", listBody, http.StatusOK)
	defer server.Close()

	client := newClient(t, server.URL)
	ctx := context.Background()

	found, err := client.FindByName(ctx, "fleet-dashboard")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "12", found.ID)

	missing, err := client.FindByName(ctx, "no-such-app")
	require.NoError(t, err)
	assert.Nil(t, missing)

	_, err = client.FindByName(ctx, "")
	assert.Error(t, err)
}

func TestGetApplication(t *testing.T) {
	t.Parallel()

	server := testutil.NewMockServer(t, "/application/applications/11", "",
		`{"id": "11", "name": "cockpit", "type": "HOSTED"}`, http.StatusOK)
	defer server.Close()

	app, err := newClient(t, server.URL).GetApplication(context.Background(), "11")
	require.NoError(t, err)
	assert.Equal(t, "cockpit", app.Name)
}

func TestCreateApplicationInvalidatesCache(t *testing.T) {
	t.Parallel()

	listCalls := 0
	mux := http.NewServeMux()
	mux.HandleFunc("/application/applications", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		if r.Method == http.MethodPost {
			w.WriteHeader(http.StatusCreated)
			w.Write([]byte(`{"id": "13", "name": "new-app", "type": "MICROSERVICE"}`))
			return
		}

		listCalls++
		w.Write([]byte(listBody))
	})

	server := httptest.NewServer(mux)
	defer server.Close()

	client := newClient(t, server.URL)
	ctx := context.Background()

	_, err := client.ListApplications(ctx)
	require.NoError(t, err)

	created, err := client.CreateApplication(ctx, &application.Application{Name: "new-app", Type: "MICROSERVICE"})
	require.NoError(t, err)
	assert.Equal(t, "13", created.ID)

	_, err = client.ListApplications(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, listCalls, "create must drop the list cache")
}

func TestUpdateApplication(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/application/applications/11", r.URL.Path)
		assert.Equal(t, http.MethodPut, r.Method)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id": "11", "name": "cockpit-v2"}`))
	}))
	defer server.Close()

	updated, err := newClient(t, server.URL).UpdateApplication(context.Background(), "11",
		&application.Application{Name: "cockpit-v2"})
	require.NoError(t, err)
	assert.Equal(t, "cockpit-v2", updated.Name)
}

func TestDeleteApplication(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/application/applications/11", r.URL.Path)
		assert.Equal(t, http.MethodDelete, r.Method)

		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	err := newClient(t, server.URL).DeleteApplication(context.Background(), "11")
	require.NoError(t, err)
}

func TestListBinaries(t *testing.T) {
	t.Parallel()

	server := testutil.NewMockServer(t, "/application/applications/11/binaries", "",
		`{"attachments": [{"id": "501", "name": "cockpit.zip", "contentType": "application/zip", "length": 2048}]}`,
		http.StatusOK)
	defer server.Close()

	binaries, err := newClient(t, server.URL).ListBinaries(context.Background(), "11")
	require.NoError(t, err)

	require.Len(t, binaries, 1)
	assert.Equal(t, "cockpit.zip", binaries[0].Name)
	assert.Equal(t, int64(2048), binaries[0].Length)
}

func TestUploadBinary(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/application/applications/11/binaries", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)

		require.NoError(t, r.ParseMultipartForm(1<<20))
		files := r.MultipartForm.File["file"]
		require.Len(t, files, 1)
		assert.Equal(t, "cockpit.zip", files[0].Filename)

		f, err := files[0].Open()
		require.NoError(t, err)
		defer f.Close()
		content, err := io.ReadAll(f)
		require.NoError(t, err)
		assert.Equal(t, "zip-bytes", string(content))

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id": "501", "name": "cockpit.zip"}`))
	}))
	defer server.Close()

	uploaded, err := newClient(t, server.URL).
		UploadBinary(context.Background(), "11", "cockpit.zip", strings.NewReader("zip-bytes"))
	require.NoError(t, err)
	assert.Equal(t, "501", uploaded.ID)
}

func TestDeleteBinary(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/application/applications/11/binaries/501", r.URL.Path)
		assert.Equal(t, http.MethodDelete, r.Method)

		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	err := newClient(t, server.URL).DeleteBinary(context.Background(), "11", "501")
	require.NoError(t, err)
}

package inventory_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devicecloud-io/go-devicecloud/api/inventory"
	"github.com/devicecloud-io/go-devicecloud/api/inventory/testdata"
	"github.com/devicecloud-io/go-devicecloud/internal/testutil"
)

func TestNew(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		config  *inventory.Config
		wantErr bool
	}{
		{
			name:   "valid config",
			config: &inventory.Config{BaseURL: "https://acme.iot.example.com"},
		},
		{
			name:    "nil config",
			config:  nil,
			wantErr: true,
		},
		{
			name:    "missing base URL",
			config:  &inventory.Config{},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			client, err := inventory.New(tt.config)

			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			require.NotNil(t, client)
		})
	}
}

func newClient(t *testing.T, baseURL string) *inventory.Client {
	t.Helper()

	client, err := inventory.New(&inventory.Config{BaseURL: baseURL})
	require.NoError(t, err)
	return client
}

func TestGetManagedObject(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		mockResponse   string
		mockStatusCode int
		wantErr        bool
		checkResponse  func(t *testing.T, mo *inventory.ManagedObject)
	}{
		{
			name:           "success with fragments",
			mockResponse:   testdata.LoadFixture(t, "objects/single.json"),
			mockStatusCode: http.StatusOK,
			checkResponse: func(t *testing.T, mo *inventory.ManagedObject) {
				t.Helper()
				assert.Equal(t, "84112", mo.ID)
				assert.Equal(t, "pump-7", mo.Name)
				assert.Equal(t, "c8y_Device", mo.Type)
				require.NotNil(t, mo.CreationTime)

				assert.True(t, mo.HasFragment("c8y_IsDevice"))

				var hw struct {
					Model        string `json:"model"`
					SerialNumber string `json:"serialNumber"`
				}
				require.NoError(t, mo.GetFragment("c8y_Hardware", &hw))
				assert.Equal(t, "PX-200", hw.Model)
				assert.Equal(t, "PX2-0047-B", hw.SerialNumber)
			},
		},
		{
			name:           "not found",
			mockResponse:   testdata.LoadFixture(t, "errors/not_found.json"),
			mockStatusCode: http.StatusNotFound,
			wantErr:        true,
		},
		{
			name:           "unauthorized",
			mockResponse:   testdata.LoadFixture(t, "errors/unauthorized.json"),
			mockStatusCode: http.StatusUnauthorized,
			wantErr:        true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			server := testutil.NewMockServer(t, "/inventory/managedObjects/84112", "", tt.mockResponse, tt.mockStatusCode)
			defer server.Close()

			mo, err := newClient(t, server.URL).GetManagedObject(context.Background(), "84112")

			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)

			if tt.checkResponse != nil {
				tt.checkResponse(t, mo)
			}
		})
	}
}

func TestGetManagedObjectEmptyID(t *testing.T) {
	t.Parallel()

	_, err := newClient(t, "https://acme.iot.example.com").GetManagedObject(context.Background(), "")
	assert.Error(t, err)
}

func TestListManagedObjects(t *testing.T) {
	t.Parallel()

	var gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/inventory/managedObjects", r.URL.Path)
		gotQuery = r.URL.RawQuery

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(testdata.LoadFixture(t, "objects/list_page1.json")))
	}))
	defer server.Close()

	page, err := newClient(t, server.URL).ListManagedObjects(context.Background(), &inventory.ListOptions{
		PageSize:     2,
		FragmentType: "c8y_IsDevice",
	})
	require.NoError(t, err)

	assert.Contains(t, gotQuery, "pageSize=2")
	assert.Contains(t, gotQuery, "fragmentType=c8y_IsDevice")

	require.Len(t, page.ManagedObjects, 2)
	assert.Equal(t, "pump-7", page.ManagedObjects[0].Name)
	assert.Equal(t, "valve-2", page.ManagedObjects[1].Name)
	assert.Equal(t, "NEXT_PLACEHOLDER", page.Next)
	require.NotNil(t, page.Statistics)
	assert.Equal(t, 2, page.Statistics.TotalPages)
}

func TestListAllManagedObjectsFollowsNext(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	server := httptest.NewServer(mux)
	defer server.Close()

	page1 := strings.ReplaceAll(
		testdata.LoadFixture(t, "objects/list_page1.json"),
		"NEXT_PLACEHOLDER",
		server.URL+"/inventory/managedObjects?currentPage=2&pageSize=2",
	)

	mux.HandleFunc("/inventory/managedObjects", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Query().Get("currentPage") == "2" {
			w.Write([]byte(testdata.LoadFixture(t, "objects/list_page2.json")))
			return
		}
		w.Write([]byte(page1))
	})

	all, err := newClient(t, server.URL).ListAllManagedObjects(context.Background(), &inventory.ListOptions{PageSize: 2})
	require.NoError(t, err)

	require.Len(t, all, 3)
	assert.Equal(t, "gateway-1", all[2].Name)
}

func TestListAllManagedObjectsEmpty(t *testing.T) {
	t.Parallel()

	server := testutil.NewMockServer(t, "/inventory/managedObjects", "",
		testdata.LoadFixture(t, "objects/empty_list.json"), http.StatusOK)
	defer server.Close()

	all, err := newClient(t, server.URL).ListAllManagedObjects(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestCreateManagedObject(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/inventory/managedObjects", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)

		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)

		// Fragments must be sent at the top level, alongside the core fields.
		var sent map[string]json.RawMessage
		require.NoError(t, json.Unmarshal(body, &sent))
		assert.Contains(t, sent, "name")
		assert.Contains(t, sent, "c8y_IsDevice")
		assert.NotContains(t, sent, "id", "id must not be sent on create")

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(testdata.LoadFixture(t, "objects/single.json")))
	}))
	defer server.Close()

	mo := &inventory.ManagedObject{Name: "pump-7", Type: "c8y_Device"}
	require.NoError(t, mo.SetFragment("c8y_IsDevice", struct{}{}))

	created, err := newClient(t, server.URL).CreateManagedObject(context.Background(), mo)
	require.NoError(t, err)
	assert.Equal(t, "84112", created.ID)
}

func TestUpdateManagedObject(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/inventory/managedObjects/84112", r.URL.Path)
		assert.Equal(t, http.MethodPut, r.Method)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(testdata.LoadFixture(t, "objects/single.json")))
	}))
	defer server.Close()

	updated, err := newClient(t, server.URL).UpdateManagedObject(context.Background(), "84112",
		&inventory.ManagedObject{Name: "pump-7-renamed"})
	require.NoError(t, err)
	assert.Equal(t, "84112", updated.ID)
}

func TestDeleteManagedObject(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		mockResponse   string
		mockStatusCode int
		wantErr        bool
	}{
		{
			name:           "success",
			mockResponse:   "",
			mockStatusCode: http.StatusNoContent,
		},
		{
			name:           "not found",
			mockResponse:   testdata.LoadFixture(t, "errors/not_found.json"),
			mockStatusCode: http.StatusNotFound,
			wantErr:        true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/inventory/managedObjects/84112", r.URL.Path)
				assert.Equal(t, http.MethodDelete, r.Method)

				w.WriteHeader(tt.mockStatusCode)
				w.Write([]byte(tt.mockResponse))
			}))
			defer server.Close()

			err := newClient(t, server.URL).DeleteManagedObject(context.Background(), "84112")

			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
		})
	}
}

func TestUploadBinary(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/inventory/binaries", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)

		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.JSONEq(t,
			`{"name":"firmware-1.4.2.bin","type":"c8y_Firmware","contentType":"application/octet-stream"}`,
			r.MultipartForm.Value["object"][0])
		assert.Equal(t, "5", r.MultipartForm.Value["filesize"][0])

		files := r.MultipartForm.File["file"]
		require.Len(t, files, 1)
		assert.Equal(t, "firmware-1.4.2.bin", files[0].Filename)

		f, err := files[0].Open()
		require.NoError(t, err)
		defer f.Close()
		content, err := io.ReadAll(f)
		require.NoError(t, err)
		assert.Equal(t, "01234", string(content))

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(testdata.LoadFixture(t, "binaries/uploaded.json")))
	}))
	defer server.Close()

	meta := &inventory.Binary{
		Name:        "firmware-1.4.2.bin",
		Type:        "c8y_Firmware",
		ContentType: "application/octet-stream",
	}

	uploaded, err := newClient(t, server.URL).UploadBinary(context.Background(), meta, strings.NewReader("01234"))
	require.NoError(t, err)

	assert.Equal(t, "90021", uploaded.ID)
	assert.Equal(t, int64(5), uploaded.Length)
}

func TestUploadBinaryRequiresName(t *testing.T) {
	t.Parallel()

	_, err := newClient(t, "https://acme.iot.example.com").
		UploadBinary(context.Background(), &inventory.Binary{}, strings.NewReader("x"))
	assert.Error(t, err)
}

func TestDownloadBinary(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/inventory/binaries/90021", r.URL.Path)

		w.Header().Set("Content-Type", "application/octet-stream")
		w.Write([]byte("raw-bytes"))
	}))
	defer server.Close()

	rc, contentType, err := newClient(t, server.URL).DownloadBinary(context.Background(), "90021")
	require.NoError(t, err)
	defer rc.Close()

	assert.Equal(t, "application/octet-stream", contentType)

	content, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "raw-bytes", string(content))
}

func TestReplaceBinary(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/inventory/binaries/90021", r.URL.Path)
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "application/octet-stream", r.Header.Get("Content-Type"))

		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		assert.Equal(t, "new-bytes", string(body))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(testdata.LoadFixture(t, "binaries/uploaded.json")))
	}))
	defer server.Close()

	replaced, err := newClient(t, server.URL).ReplaceBinary(context.Background(), "90021",
		"application/octet-stream", strings.NewReader("new-bytes"))
	require.NoError(t, err)
	assert.Equal(t, "90021", replaced.ID)
}

func TestDownloadBinaryNotFound(t *testing.T) {
	t.Parallel()

	server := testutil.NewMockServer(t, "/inventory/binaries/99999", "",
		testdata.LoadFixture(t, "errors/not_found.json"), http.StatusNotFound)
	defer server.Close()

	_, _, err := newClient(t, server.URL).DownloadBinary(context.Background(), "99999")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status=404")
}

func TestManagedObjectRoundTrip(t *testing.T) {
	t.Parallel()

	original := testdata.LoadFixture(t, "objects/single.json")

	var mo inventory.ManagedObject
	require.NoError(t, json.Unmarshal([]byte(original), &mo))

	encoded, err := json.Marshal(mo)
	require.NoError(t, err)

	assert.JSONEq(t, original, string(encoded), "fragments must survive a decode/encode round trip")
}

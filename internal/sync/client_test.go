package sync

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cincodev/cinco-billing/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPRemote_FetchSnapshot(t *testing.T) {
	want := models.SharedSnapshot{
		Sites:       []models.Site{{ID: "s1", Name: "Laguna"}},
		LastUpdated: time.Now().UTC().Truncate(time.Second),
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/shared-data", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(want)
	}))
	defer server.Close()

	remote := NewHTTPRemote(server.URL, 5*time.Second)
	got, err := remote.FetchSnapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, want.Sites, got.Sites)
	assert.True(t, want.LastUpdated.Equal(got.LastUpdated))
}

func TestHTTPRemote_PushSnapshot(t *testing.T) {
	var received models.SharedSnapshot
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"success":true}`))
	}))
	defer server.Close()

	remote := NewHTTPRemote(server.URL, 5*time.Second)
	err := remote.PushSnapshot(context.Background(), models.SharedSnapshot{
		Tenants: []models.Tenant{{ID: "t1", Name: "Juan"}},
	})
	require.NoError(t, err)
	require.Len(t, received.Tenants, 1)
	assert.Equal(t, "Juan", received.Tenants[0].Name)
}

func TestHTTPRemote_ErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	remote := NewHTTPRemote(server.URL, 5*time.Second)
	_, err := remote.FetchSnapshot(context.Background())
	assert.Error(t, err)
	assert.Error(t, remote.PushSnapshot(context.Background(), models.SharedSnapshot{}))
}

func TestHTTPRemote_Unreachable(t *testing.T) {
	remote := NewHTTPRemote("http://127.0.0.1:1", time.Second)
	_, err := remote.FetchSnapshot(context.Background())
	assert.Error(t, err)
}

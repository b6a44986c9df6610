package remote

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trakio/trakio/internal/models"
)

func newStorageServer(t *testing.T, handler func(models.StorageRequest) (int, models.StorageResponse)) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/storage", r.URL.Path)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))

		var req models.StorageRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		status, resp := handler(req)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(resp)
	}))
}

func TestClient_Get(t *testing.T) {
	srv := newStorageServer(t, func(req models.StorageRequest) (int, models.StorageResponse) {
		assert.Equal(t, models.ActionGet, req.Action)
		assert.Equal(t, "user@example.com", req.Email)
		return http.StatusOK, models.StorageResponse{
			Subscriptions: []models.Subscription{{ID: "sub-1", Name: "Netflix"}},
		}
	})
	defer srv.Close()

	client := New(srv.URL, "test-token")
	subs, err := client.Get(context.Background(), "user@example.com")
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, "Netflix", subs[0].Name)
}

func TestClient_Get_EmptyList(t *testing.T) {
	srv := newStorageServer(t, func(models.StorageRequest) (int, models.StorageResponse) {
		return http.StatusOK, models.StorageResponse{}
	})
	defer srv.Close()

	client := New(srv.URL, "test-token")
	subs, err := client.Get(context.Background(), "user@example.com")
	require.NoError(t, err)
	assert.NotNil(t, subs)
	assert.Empty(t, subs)
}

func TestClient_Save(t *testing.T) {
	srv := newStorageServer(t, func(req models.StorageRequest) (int, models.StorageResponse) {
		assert.Equal(t, models.ActionSave, req.Action)
		assert.Len(t, req.Subscriptions, 1)
		return http.StatusOK, models.StorageResponse{OK: true}
	})
	defer srv.Close()

	client := New(srv.URL, "test-token")
	err := client.Save(context.Background(), "user@example.com",
		[]models.Subscription{{ID: "sub-1", Name: "Netflix"}})
	require.NoError(t, err)
}

func TestClient_Save_NotConfirmed(t *testing.T) {
	srv := newStorageServer(t, func(models.StorageRequest) (int, models.StorageResponse) {
		return http.StatusInternalServerError, models.StorageResponse{Error: "failed to save subscriptions"}
	})
	defer srv.Close()

	client := New(srv.URL, "test-token")
	err := client.Save(context.Background(), "user@example.com", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotConfirmed)
}

func TestClient_Save_ServerUnreachable(t *testing.T) {
	srv := newStorageServer(t, func(models.StorageRequest) (int, models.StorageResponse) {
		return http.StatusOK, models.StorageResponse{OK: true}
	})
	srv.Close() // сервер уже остановлен

	client := New(srv.URL, "test-token")
	err := client.Save(context.Background(), "user@example.com", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotConfirmed)
}

func TestClient_Sync(t *testing.T) {
	srv := newStorageServer(t, func(req models.StorageRequest) (int, models.StorageResponse) {
		assert.Equal(t, models.ActionSync, req.Action)
		return http.StatusOK, models.StorageResponse{OK: true, MergedCount: 5}
	})
	defer srv.Close()

	client := New(srv.URL, "test-token")
	merged, err := client.Sync(context.Background(), "user@example.com",
		[]models.Subscription{{ID: "sub-2"}})
	require.NoError(t, err)
	assert.Equal(t, 5, merged)
}

func TestClient_Sync_ErrorBody(t *testing.T) {
	srv := newStorageServer(t, func(models.StorageRequest) (int, models.StorageResponse) {
		return http.StatusOK, models.StorageResponse{Error: "failed to sync subscriptions"}
	})
	defer srv.Close()

	client := New(srv.URL, "test-token")
	_, err := client.Sync(context.Background(), "user@example.com", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotConfirmed)
}

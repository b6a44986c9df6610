package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/trakio/trakio/internal/http/middlewarectx"
	"github.com/trakio/trakio/internal/models"
)

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) Get(ctx context.Context, email string) ([]models.Subscription, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Subscription), args.Error(1)
}

func (m *ServiceMock) Save(ctx context.Context, email string, subs []models.Subscription) error {
	args := m.Called(ctx, email, subs)
	return args.Error(0)
}

func (m *ServiceMock) Sync(ctx context.Context, email string, pending []models.Subscription) (int, error) {
	args := m.Called(ctx, email, pending)
	return args.Int(0), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func newRequest(t *testing.T, body any, tokenEmail string) *http.Request {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/storage", bytes.NewReader(raw))
	if tokenEmail != "" {
		ctx := context.WithValue(req.Context(), middlewarectx.Email, tokenEmail)
		req = req.WithContext(ctx)
	}
	return req
}

func TestStorageHandler_Get(t *testing.T) {
	svcMock := new(ServiceMock)
	handler := New(newNoopLogger(), svcMock)

	subs := []models.Subscription{{
		ID:       "sub-1",
		Name:     "Netflix",
		Price:    decimal.NewFromFloat(15.99),
		Currency: "EUR",
	}}
	svcMock.On("Get", mock.Anything, "user@example.com").Return(subs, nil)

	req := newRequest(t, models.StorageRequest{
		Action: models.ActionGet,
		Email:  "user@example.com",
	}, "user@example.com")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp models.StorageResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Subscriptions, 1)
	assert.Equal(t, "Netflix", resp.Subscriptions[0].Name)
	assert.Empty(t, resp.Error)
}

func TestStorageHandler_Get_EmptyListIsExplicit(t *testing.T) {
	svcMock := new(ServiceMock)
	handler := New(newNoopLogger(), svcMock)

	svcMock.On("Get", mock.Anything, "user@example.com").
		Return([]models.Subscription{}, nil)

	req := newRequest(t, models.StorageRequest{
		Action: models.ActionGet,
		Email:  "user@example.com",
	}, "user@example.com")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	// пустой список присутствует в ответе как [], а не опускается
	assert.Contains(t, rec.Body.String(), `"subscriptions":[]`)
}

func TestStorageHandler_Save(t *testing.T) {
	svcMock := new(ServiceMock)
	handler := New(newNoopLogger(), svcMock)

	svcMock.On("Save", mock.Anything, "user@example.com", mock.Anything).Return(nil)

	req := newRequest(t, models.StorageRequest{
		Action: models.ActionSave,
		Email:  "user@example.com",
		Subscriptions: []models.Subscription{
			{ID: "sub-1", Name: "Spotify"},
		},
	}, "user@example.com")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp models.StorageResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.OK)
}

func TestStorageHandler_Sync(t *testing.T) {
	svcMock := new(ServiceMock)
	handler := New(newNoopLogger(), svcMock)

	svcMock.On("Sync", mock.Anything, "user@example.com", mock.Anything).Return(3, nil)

	req := newRequest(t, models.StorageRequest{
		Action: models.ActionSync,
		Email:  "user@example.com",
		Subscriptions: []models.Subscription{
			{ID: "sub-2", Name: "iCloud"},
		},
	}, "user@example.com")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp models.StorageResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.OK)
	assert.Equal(t, 3, resp.MergedCount)
}

func TestStorageHandler_EmailMismatch(t *testing.T) {
	svcMock := new(ServiceMock)
	handler := New(newNoopLogger(), svcMock)

	req := newRequest(t, models.StorageRequest{
		Action: models.ActionGet,
		Email:  "other@example.com",
	}, "user@example.com")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "email does not match token")
	svcMock.AssertNotCalled(t, "Get")
}

func TestStorageHandler_MissingIdentity(t *testing.T) {
	svcMock := new(ServiceMock)
	handler := New(newNoopLogger(), svcMock)

	req := newRequest(t, models.StorageRequest{
		Action: models.ActionGet,
		Email:  "user@example.com",
	}, "")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestStorageHandler_UnknownAction(t *testing.T) {
	svcMock := new(ServiceMock)
	handler := New(newNoopLogger(), svcMock)

	req := newRequest(t, map[string]string{
		"action": "drop",
		"email":  "user@example.com",
	}, "user@example.com")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid action or email")
}

func TestStorageHandler_ServiceFails(t *testing.T) {
	svcMock := new(ServiceMock)
	handler := New(newNoopLogger(), svcMock)

	svcMock.On("Get", mock.Anything, "user@example.com").
		Return(nil, errors.New("redis unavailable"))

	req := newRequest(t, models.StorageRequest{
		Action: models.ActionGet,
		Email:  "user@example.com",
	}, "user@example.com")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "failed to load subscriptions")
}

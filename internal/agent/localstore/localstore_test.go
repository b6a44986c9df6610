package localstore

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trakio/trakio/internal/models"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "trakio.db")
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	store, err := Open(path, log)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func sampleSubs() []models.Subscription {
	return []models.Subscription{
		{
			ID:        "sub-1",
			Name:      "Netflix",
			Price:     decimal.NewFromFloat(15.99),
			Currency:  "EUR",
			Frequency: models.FrequencyMonthly,
		},
		{
			ID:        "sub-2",
			Name:      "Spotify",
			Price:     decimal.NewFromFloat(9.99),
			Currency:  "EUR",
			Frequency: models.FrequencyMonthly,
		},
	}
}

func TestSaveLocal_LoadLocal_Roundtrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	subs := sampleSubs()
	require.NoError(t, store.SaveLocal(ctx, "user@example.com", subs))

	got := store.LoadLocal(ctx, "user@example.com")
	require.Len(t, got, 2)
	assert.Equal(t, "Netflix", got[0].Name)
	assert.True(t, got[0].Price.Equal(decimal.NewFromFloat(15.99)))
	assert.Equal(t, "Spotify", got[1].Name)
}

func TestSaveLocal_Idempotent(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	subs := sampleSubs()
	require.NoError(t, store.SaveLocal(ctx, "user@example.com", subs))
	require.NoError(t, store.SaveLocal(ctx, "user@example.com", subs))

	got := store.LoadLocal(ctx, "user@example.com")
	assert.Len(t, got, 2)
}

func TestSaveLocal_FullReplace(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveLocal(ctx, "user@example.com", sampleSubs()))
	require.NoError(t, store.SaveLocal(ctx, "user@example.com", []models.Subscription{
		{ID: "sub-3", Name: "iCloud"},
	}))

	got := store.LoadLocal(ctx, "user@example.com")
	require.Len(t, got, 1)
	assert.Equal(t, "iCloud", got[0].Name)
}

func TestLoadLocal_PreservesSaveOrder(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	// идентификаторы намеренно не в лексикографическом порядке
	subs := []models.Subscription{
		{ID: "z-sub", Name: "First"},
		{ID: "m-sub", Name: "Second"},
		{ID: "a-sub", Name: "Third"},
	}
	require.NoError(t, store.SaveLocal(ctx, "user@example.com", subs))

	got := store.LoadLocal(ctx, "user@example.com")
	require.Len(t, got, 3)
	assert.Equal(t, "First", got[0].Name)
	assert.Equal(t, "Second", got[1].Name)
	assert.Equal(t, "Third", got[2].Name)

	// после повторного сохранения в новом порядке читается новый порядок
	require.NoError(t, store.SaveLocal(ctx, "user@example.com", []models.Subscription{
		subs[2], subs[0], subs[1],
	}))
	got = store.LoadLocal(ctx, "user@example.com")
	require.Len(t, got, 3)
	assert.Equal(t, "Third", got[0].Name)
	assert.Equal(t, "First", got[1].Name)
	assert.Equal(t, "Second", got[2].Name)
}

func TestLoadLocal_EmptyForUnknownEmail(t *testing.T) {
	store := newTestStore(t)

	got := store.LoadLocal(context.Background(), "nobody@example.com")
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestSaveLocal_IsolatedByEmail(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveLocal(ctx, "a@example.com", sampleSubs()))
	require.NoError(t, store.SaveLocal(ctx, "b@example.com", []models.Subscription{
		{ID: "sub-9", Name: "HBO"},
	}))

	assert.Len(t, store.LoadLocal(ctx, "a@example.com"), 2)
	assert.Len(t, store.LoadLocal(ctx, "b@example.com"), 1)
}

func TestEnqueue_NoDuplicates(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Enqueue(ctx, models.NewFlushJob("user@example.com")))
	require.NoError(t, store.Enqueue(ctx, models.NewFlushJob("user@example.com")))

	jobs, err := store.Queue(ctx)
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, "user@example.com", jobs[0].Email)
}

func TestClearQueue(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Enqueue(ctx, models.NewFlushJob("a@example.com")))
	require.NoError(t, store.Enqueue(ctx, models.NewFlushJob("b@example.com")))

	jobs, err := store.Queue(ctx)
	require.NoError(t, err)
	require.Len(t, jobs, 2)

	require.NoError(t, store.ClearQueue(ctx))

	jobs, err = store.Queue(ctx)
	require.NoError(t, err)
	assert.Empty(t, jobs)
}

func TestQueue_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trakio.db")
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	ctx := context.Background()

	store, err := Open(path, log)
	require.NoError(t, err)
	require.NoError(t, store.Enqueue(ctx, models.NewFlushJob("user@example.com")))
	require.NoError(t, store.SaveLocal(ctx, "user@example.com", sampleSubs()))
	require.NoError(t, store.Close())

	reopened, err := Open(path, log)
	require.NoError(t, err)
	defer func() { _ = reopened.Close() }()

	jobs, err := reopened.Queue(ctx)
	require.NoError(t, err)
	assert.Len(t, jobs, 1)
	assert.Len(t, reopened.LoadLocal(ctx, "user@example.com"), 2)
}

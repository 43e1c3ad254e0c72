package boltdb

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/schoolsync/internal/client/storage"
	"github.com/iudanet/schoolsync/internal/models"
)

func TestShared_OtherHandleWritesWhileOpen(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "shared.db")

	// долгоживущий процесс, например watch
	shared, err := NewShared(ctx, dbPath, WithOpenTimeout(200*time.Millisecond))
	require.NoError(t, err)
	defer func() {
		require.NoError(t, shared.Close())
	}()

	first, err := shared.Enqueue(ctx, newInsert(t, 1))
	require.NoError(t, err)

	// другой процесс открывает тот же файл, пока shared жив
	other, err := New(ctx, dbPath, WithOpenTimeout(200*time.Millisecond))
	require.NoError(t, err)
	second, err := other.Enqueue(ctx, newInsert(t, 2))
	require.NoError(t, err)
	require.NoError(t, other.Close())

	items, err := shared.DequeueAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, []uint64{first.ID, second.ID}, ids(items))
}

func TestShared_WaitsForLockHolder(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "shared.db")

	shared, err := NewShared(ctx, dbPath, WithOpenTimeout(100*time.Millisecond))
	require.NoError(t, err)

	holder, err := New(ctx, dbPath)
	require.NoError(t, err)

	_, err = shared.Enqueue(ctx, newInsert(t, 1))
	assert.ErrorIs(t, err, storage.ErrStorageLocked)

	require.NoError(t, holder.Close())

	_, err = shared.Enqueue(ctx, newInsert(t, 1))
	require.NoError(t, err)
}

func TestShared_Operations(t *testing.T) {
	ctx := context.Background()
	shared, err := NewShared(ctx, filepath.Join(t.TempDir(), "shared.db"), WithNamespace("school42"))
	require.NoError(t, err)
	assert.Equal(t, "school42", shared.Namespace())

	a, err := shared.Enqueue(ctx, newInsert(t, 1))
	require.NoError(t, err)
	b, err := shared.Enqueue(ctx, newInsert(t, 2))
	require.NoError(t, err)

	require.NoError(t, shared.MarkSyncing(ctx, a.ID))
	require.NoError(t, shared.MarkFailed(ctx, a.ID, "HTTP 503"))

	got, err := shared.Get(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusFailed, got.Status)
	assert.Equal(t, 1, got.Attempts)

	failed, err := shared.ListFailed(ctx)
	require.NoError(t, err)
	assert.Equal(t, []uint64{a.ID}, ids(failed))

	pending, err := shared.ListPending(ctx)
	require.NoError(t, err)
	assert.Equal(t, []uint64{b.ID}, ids(pending))

	counts, err := shared.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.QueueCounts{Pending: 1, Failed: 1}, counts)

	removed, err := shared.RemoveFailed(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	require.NoError(t, shared.MarkSyncing(ctx, b.ID))
	require.NoError(t, shared.MarkPending(ctx, b.ID))
	require.NoError(t, shared.Remove(ctx, b.ID))

	_, err = shared.Get(ctx, b.ID)
	assert.ErrorIs(t, err, storage.ErrMutationNotFound)

	all, err := shared.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)

	corrupt, err := shared.CorruptCount(ctx)
	require.NoError(t, err)
	assert.Zero(t, corrupt)

	syncedAt := time.Date(2026, 9, 1, 8, 30, 0, 0, time.UTC)
	require.NoError(t, shared.SaveLastSync(ctx, syncedAt))
	last, err := shared.GetLastSync(ctx)
	require.NoError(t, err)
	assert.True(t, syncedAt.Equal(last))

	require.NoError(t, shared.SaveAuth(ctx, &storage.AuthData{AccessToken: "tok", Subject: "teacher-7b"}))
	auth, err := shared.GetAuth(ctx)
	require.NoError(t, err)
	assert.Equal(t, "tok", auth.AccessToken)
	require.NoError(t, shared.DeleteAuth(ctx))
	_, err = shared.GetAuth(ctx)
	assert.ErrorIs(t, err, storage.ErrAuthNotFound)
}

func TestNew_RecoverAfterKeepsFreshAttempts(t *testing.T) {
	ctx := context.Background()
	store, dbPath := createTestStorage(t)

	stale, err := store.Enqueue(ctx, newInsert(t, 1))
	require.NoError(t, err)
	fresh, err := store.Enqueue(ctx, newInsert(t, 2))
	require.NoError(t, err)

	require.NoError(t, store.MarkSyncing(ctx, stale.ID))
	require.NoError(t, store.MarkSyncing(ctx, fresh.ID))
	longAgo := time.Now().UTC().Add(-time.Hour)
	require.NoError(t, store.modify(stale.ID, func(m *models.QueuedMutation) {
		m.LastAttemptAt = &longAgo
	}))
	require.NoError(t, store.Close())

	reopened, err := New(ctx, dbPath, WithRecoverAfter(time.Minute))
	require.NoError(t, err)
	defer func() {
		require.NoError(t, reopened.Close())
	}()

	got, err := reopened.Get(ctx, stale.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, got.Status, "crashed attempt is recovered")

	got, err = reopened.Get(ctx, fresh.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusSyncing, got.Status, "attempt of a live pass is left alone")
}

package boltdb

import (
	"context"
	"fmt"
	"time"

	"github.com/iudanet/schoolsync/internal/client/storage"
	"github.com/iudanet/schoolsync/internal/models"
)

// Shared opens the database file for every call and closes it right after.
// bbolt locks the file for as long as it is open, so a long-running process
// such as `schoolsync watch` uses Shared to let other processes take turns
// on the same queue. Each call waits for the lock up to the open timeout.
type Shared struct {
	path      string
	namespace string
	opts      []Option
}

// NewShared prepares the file once (buckets and crash recovery) and returns
// a handle that reopens it per call.
func NewShared(ctx context.Context, dbPath string, opts ...Option) (*Shared, error) {
	st, err := New(ctx, dbPath, opts...)
	if err != nil {
		return nil, err
	}
	namespace := st.Namespace()
	if err := st.Close(); err != nil {
		return nil, fmt.Errorf("failed to close boltdb: %w", err)
	}

	reopen := append(append([]Option(nil), opts...), func(s *Storage) { s.reopen = true })
	return &Shared{path: dbPath, namespace: namespace, opts: reopen}, nil
}

// Namespace returns the bucket name prefix in use.
func (s *Shared) Namespace() string {
	return s.namespace
}

// Close is a no-op: no file handle outlives a call.
func (s *Shared) Close() error {
	return nil
}

func withStorage[T any](ctx context.Context, s *Shared, fn func(st *Storage) (T, error)) (T, error) {
	var zero T
	st, err := New(ctx, s.path, s.opts...)
	if err != nil {
		return zero, err
	}
	res, err := fn(st)
	if cerr := st.Close(); cerr != nil && err == nil {
		return zero, fmt.Errorf("failed to close boltdb: %w", cerr)
	}
	return res, err
}

func (s *Shared) do(ctx context.Context, fn func(st *Storage) error) error {
	_, err := withStorage(ctx, s, func(st *Storage) (struct{}, error) {
		return struct{}{}, fn(st)
	})
	return err
}

// Enqueue durably appends a mutation.
func (s *Shared) Enqueue(ctx context.Context, m *models.QueuedMutation) (*models.QueuedMutation, error) {
	return withStorage(ctx, s, func(st *Storage) (*models.QueuedMutation, error) {
		return st.Enqueue(ctx, m)
	})
}

// DequeueAll returns pending and failed mutations in generation order.
func (s *Shared) DequeueAll(ctx context.Context) ([]*models.QueuedMutation, error) {
	return withStorage(ctx, s, func(st *Storage) ([]*models.QueuedMutation, error) {
		return st.DequeueAll(ctx)
	})
}

func (s *Shared) List(ctx context.Context) ([]*models.QueuedMutation, error) {
	return withStorage(ctx, s, func(st *Storage) ([]*models.QueuedMutation, error) {
		return st.List(ctx)
	})
}

func (s *Shared) ListPending(ctx context.Context) ([]*models.QueuedMutation, error) {
	return withStorage(ctx, s, func(st *Storage) ([]*models.QueuedMutation, error) {
		return st.ListPending(ctx)
	})
}

func (s *Shared) ListFailed(ctx context.Context) ([]*models.QueuedMutation, error) {
	return withStorage(ctx, s, func(st *Storage) ([]*models.QueuedMutation, error) {
		return st.ListFailed(ctx)
	})
}

func (s *Shared) Get(ctx context.Context, id uint64) (*models.QueuedMutation, error) {
	return withStorage(ctx, s, func(st *Storage) (*models.QueuedMutation, error) {
		return st.Get(ctx, id)
	})
}

func (s *Shared) MarkSyncing(ctx context.Context, id uint64) error {
	return s.do(ctx, func(st *Storage) error { return st.MarkSyncing(ctx, id) })
}

func (s *Shared) MarkFailed(ctx context.Context, id uint64, errMsg string) error {
	return s.do(ctx, func(st *Storage) error { return st.MarkFailed(ctx, id, errMsg) })
}

func (s *Shared) MarkPending(ctx context.Context, id uint64) error {
	return s.do(ctx, func(st *Storage) error { return st.MarkPending(ctx, id) })
}

func (s *Shared) Remove(ctx context.Context, id uint64) error {
	return s.do(ctx, func(st *Storage) error { return st.Remove(ctx, id) })
}

func (s *Shared) RemoveFailed(ctx context.Context) (int, error) {
	return withStorage(ctx, s, func(st *Storage) (int, error) {
		return st.RemoveFailed(ctx)
	})
}

func (s *Shared) Count(ctx context.Context) (models.QueueCounts, error) {
	return withStorage(ctx, s, func(st *Storage) (models.QueueCounts, error) {
		return st.Count(ctx)
	})
}

// CorruptCount returns how many unreadable entries were quarantined.
func (s *Shared) CorruptCount(ctx context.Context) (int, error) {
	return withStorage(ctx, s, func(st *Storage) (int, error) {
		return st.CorruptCount(ctx)
	})
}

func (s *Shared) SaveLastSync(ctx context.Context, t time.Time) error {
	return s.do(ctx, func(st *Storage) error { return st.SaveLastSync(ctx, t) })
}

func (s *Shared) GetLastSync(ctx context.Context) (time.Time, error) {
	return withStorage(ctx, s, func(st *Storage) (time.Time, error) {
		return st.GetLastSync(ctx)
	})
}

func (s *Shared) SaveAuth(ctx context.Context, auth *storage.AuthData) error {
	return s.do(ctx, func(st *Storage) error { return st.SaveAuth(ctx, auth) })
}

func (s *Shared) GetAuth(ctx context.Context) (*storage.AuthData, error) {
	return withStorage(ctx, s, func(st *Storage) (*storage.AuthData, error) {
		return st.GetAuth(ctx)
	})
}

func (s *Shared) DeleteAuth(ctx context.Context) error {
	return s.do(ctx, func(st *Storage) error { return st.DeleteAuth(ctx) })
}

var (
	_ storage.QueueStorage    = (*Shared)(nil)
	_ storage.MetadataStorage = (*Shared)(nil)
	_ storage.AuthStorage     = (*Shared)(nil)
)

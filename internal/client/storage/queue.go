package storage

import (
	"context"

	"github.com/iudanet/schoolsync/internal/models"
)

//go:generate moq -out queuestorage_mock.go . QueueStorage

// QueueStorage defines the durable local queue of mutations waiting for the server.
// Each method touches a single entry (or a single filter) and is applied independently:
// there is no transaction spanning several mutations.
type QueueStorage interface {
	// Enqueue durably appends a mutation, assigns its ID from a monotonically
	// increasing sequence and forces status pending. Returns the stored copy.
	Enqueue(ctx context.Context, m *models.QueuedMutation) (*models.QueuedMutation, error)

	// DequeueAll returns every mutation that still has to reach the server
	// (pending and failed) in FIFO generation order. Entries are not removed.
	DequeueAll(ctx context.Context) ([]*models.QueuedMutation, error)

	// List returns all mutations in generation order regardless of status
	List(ctx context.Context) ([]*models.QueuedMutation, error)

	// ListPending returns pending mutations in generation order
	ListPending(ctx context.Context) ([]*models.QueuedMutation, error)

	// ListFailed returns failed mutations in generation order
	ListFailed(ctx context.Context) ([]*models.QueuedMutation, error)

	// Get retrieves a mutation by ID
	// Returns ErrMutationNotFound if it doesn't exist
	Get(ctx context.Context, id uint64) (*models.QueuedMutation, error)

	// MarkSyncing flags a mutation as in flight and records the attempt
	MarkSyncing(ctx context.Context, id uint64) error

	// MarkFailed flags a mutation as failed with the given error message
	MarkFailed(ctx context.Context, id uint64, errMsg string) error

	// MarkPending puts a mutation back to pending (e.g. interrupted attempt)
	MarkPending(ctx context.Context, id uint64) error

	// Remove deletes a single mutation (after success or explicit discard)
	// Returns ErrMutationNotFound if it doesn't exist
	Remove(ctx context.Context, id uint64) error

	// RemoveFailed deletes every failed mutation and leaves pending ones untouched.
	// Returns number of removed mutations
	RemoveFailed(ctx context.Context) (int, error)

	// Count returns pending/failed totals
	Count(ctx context.Context) (models.QueueCounts, error)
}

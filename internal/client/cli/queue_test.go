package cli

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/schoolsync/internal/client/storage"
	"github.com/iudanet/schoolsync/internal/models"
)

func queuedFixture() []*models.QueuedMutation {
	attempt := fixedNow.Add(-time.Minute)
	return []*models.QueuedMutation{
		{
			ID:             1,
			Table:          models.TableAttendance,
			Operation:      models.OperationUpsert,
			Status:         models.StatusPending,
			CreatedAt:      fixedNow.Add(-2 * time.Hour),
			IdempotencyKey: "k-1",
			Payload:        json.RawMessage(`{"id":"a1"}`),
		},
		{
			ID:             2,
			Table:          models.TableGrades,
			Operation:      models.OperationInsert,
			Status:         models.StatusFailed,
			Attempts:       3,
			Error:          "server returned 503: maintenance window in progress, retry later please",
			CreatedAt:      fixedNow.Add(-time.Hour),
			LastAttemptAt:  &attempt,
			IdempotencyKey: "k-2",
			Payload:        json.RawMessage(`{"id":"g1","score":4}`),
		},
	}
}

func TestCli_runQueueList(t *testing.T) {
	out := newCapturedIO()
	queue := &storage.QueueStorageMock{
		ListFunc: func(ctx context.Context) ([]*models.QueuedMutation, error) {
			return queuedFixture(), nil
		},
	}
	c := newTestCli(t, out)
	c.queue = queue

	require.NoError(t, c.runQueueList(context.Background(), false))

	output := out.Output()
	assert.Contains(t, output, "attendance")
	assert.Contains(t, output, "grades")
	assert.Contains(t, output, "failed")
	assert.Contains(t, output, "2 hours ago")
	assert.Contains(t, output, "…")
	assert.Contains(t, output, "2 mutations")
	assert.Len(t, queue.ListCalls(), 1)
}

func TestCli_runQueueList_FailedOnly(t *testing.T) {
	out := newCapturedIO()
	queue := &storage.QueueStorageMock{
		ListFailedFunc: func(ctx context.Context) ([]*models.QueuedMutation, error) {
			return queuedFixture()[1:], nil
		},
	}
	c := newTestCli(t, out)
	c.queue = queue

	require.NoError(t, c.runQueueList(context.Background(), true))

	assert.Len(t, queue.ListFailedCalls(), 1)
	assert.NotContains(t, out.Output(), "attendance")
	assert.Contains(t, out.Output(), "1 mutation")
}

func TestCli_runQueueList_Empty(t *testing.T) {
	out := newCapturedIO()
	c := newTestCli(t, out)
	c.queue = &storage.QueueStorageMock{
		ListFunc: func(ctx context.Context) ([]*models.QueuedMutation, error) {
			return nil, nil
		},
		ListFailedFunc: func(ctx context.Context) ([]*models.QueuedMutation, error) {
			return nil, nil
		},
	}

	require.NoError(t, c.runQueueList(context.Background(), false))
	require.NoError(t, c.runQueueList(context.Background(), true))

	assert.Contains(t, out.Output(), "Queue is empty.")
	assert.Contains(t, out.Output(), "No failed mutations.")
}

func TestCli_runQueueList_StorageError(t *testing.T) {
	c := newTestCli(t, newCapturedIO())
	c.queue = &storage.QueueStorageMock{
		ListFunc: func(ctx context.Context) ([]*models.QueuedMutation, error) {
			return nil, storage.ErrStorageClosed
		},
	}

	err := c.runQueueList(context.Background(), false)
	assert.ErrorIs(t, err, storage.ErrStorageClosed)
}

func TestCli_runQueueShow(t *testing.T) {
	out := newCapturedIO()
	queue := &storage.QueueStorageMock{
		GetFunc: func(ctx context.Context, id uint64) (*models.QueuedMutation, error) {
			return queuedFixture()[1], nil
		},
	}
	c := newTestCli(t, out)
	c.queue = queue

	require.NoError(t, c.runQueueShow(context.Background(), "#2"))

	require.Len(t, queue.GetCalls(), 1)
	assert.Equal(t, uint64(2), queue.GetCalls()[0].Id)

	output := out.Output()
	assert.Contains(t, output, "Idempotency key: k-2")
	assert.Contains(t, output, "Attempts:        3")
	assert.Contains(t, output, "1 minute ago")
	assert.Contains(t, output, `"score": 4`)
}

func TestCli_runQueueShow_Errors(t *testing.T) {
	c := newTestCli(t, newCapturedIO())
	c.queue = &storage.QueueStorageMock{
		GetFunc: func(ctx context.Context, id uint64) (*models.QueuedMutation, error) {
			if id == 9 {
				return nil, storage.ErrMutationNotFound
			}
			return nil, errors.New("boom")
		},
	}

	err := c.runQueueShow(context.Background(), "abc")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid mutation id")

	err = c.runQueueShow(context.Background(), "9")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not in the queue")

	err = c.runQueueShow(context.Background(), "10")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcd…", truncate("abcdefgh", 5))
}

func TestPluralize(t *testing.T) {
	assert.Equal(t, "1 mutation", pluralize(1, "mutation"))
	assert.Equal(t, "0 mutations", pluralize(0, "mutation"))
	assert.Equal(t, "1,200 mutations", pluralize(1200, "mutation"))
}

func TestRenderQueue_GenerationOrder(t *testing.T) {
	rendered := renderQueue(queuedFixture(), fixedNow)

	assert.Contains(t, rendered, "ATTEMPTS")
	assert.Less(t, strings.Index(rendered, "attendance"), strings.Index(rendered, "grades"))
}

package data

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/schoolsync/internal/client/api"
	"github.com/iudanet/schoolsync/internal/client/storage"
	"github.com/iudanet/schoolsync/internal/client/storage/boltdb"
	syncengine "github.com/iudanet/schoolsync/internal/client/sync"
	"github.com/iudanet/schoolsync/internal/models"
)

type staticConnectivity bool

func (c staticConnectivity) Online() bool { return bool(c) }

// switchConnectivity переключаемое состояние сети
type switchConnectivity struct {
	mu     sync.Mutex
	online bool
}

func (c *switchConnectivity) Online() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.online
}

func (c *switchConnectivity) set(online bool) {
	c.mu.Lock()
	c.online = online
	c.mu.Unlock()
}

// newQueueMock возвращает mock очереди, который запоминает поставленные мутации
func newQueueMock() *storage.QueueStorageMock {
	var nextID uint64
	return &storage.QueueStorageMock{
		EnqueueFunc: func(ctx context.Context, m *models.QueuedMutation) (*models.QueuedMutation, error) {
			nextID++
			stored := m.Clone()
			stored.ID = nextID
			stored.Status = models.StatusPending
			return stored, nil
		},
		CountFunc: func(ctx context.Context) (models.QueueCounts, error) {
			return models.QueueCounts{}, nil
		},
	}
}

func clientReturning(err error) *api.ClientAPIMock {
	return &api.ClientAPIMock{
		ExecuteFunc: func(ctx context.Context, accessToken string, m *models.QueuedMutation) error {
			return err
		},
	}
}

func rawInsert(t *testing.T) *models.QueuedMutation {
	t.Helper()
	m, err := models.NewRawMutation("attendance", models.OperationInsert, json.RawMessage(`{"id":"a-1"}`), "")
	require.NoError(t, err)
	return m
}

func TestWrite_OfflineQueuesWithoutNetwork(t *testing.T) {
	queue := newQueueMock()
	client := clientReturning(nil)
	svc := NewService(queue, client, Options{Connectivity: staticConnectivity(false)})

	res, err := svc.Write(context.Background(), rawInsert(t))
	require.NoError(t, err)
	assert.True(t, res.Queued)
	assert.NoError(t, res.Err)
	require.NotNil(t, res.Mutation)
	assert.Equal(t, uint64(1), res.Mutation.ID)

	assert.Empty(t, client.ExecuteCalls())
	assert.Len(t, queue.EnqueueCalls(), 1)
}

func TestWrite_OnlineSuccessIsNotQueued(t *testing.T) {
	queue := newQueueMock()
	client := clientReturning(nil)
	auth := &storage.AuthStorageMock{
		GetAuthFunc: func(ctx context.Context) (*storage.AuthData, error) {
			return &storage.AuthData{AccessToken: "tok"}, nil
		},
	}
	svc := NewService(queue, client, Options{Connectivity: staticConnectivity(true), Auth: auth})

	res, err := svc.Write(context.Background(), rawInsert(t))
	require.NoError(t, err)
	assert.False(t, res.Queued)
	assert.Empty(t, queue.EnqueueCalls())
	require.Len(t, client.ExecuteCalls(), 1)
	assert.Equal(t, "tok", client.ExecuteCalls()[0].AccessToken)
}

func TestWrite_TransientErrorQueues(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"unreachable", fmt.Errorf("post: %w", api.ErrUnreachable)},
		{"timeout", context.DeadlineExceeded},
		{"server error", &api.StatusError{StatusCode: http.StatusBadGateway}},
		{"rate limited", &api.StatusError{StatusCode: http.StatusTooManyRequests}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			queue := newQueueMock()
			svc := NewService(queue, clientReturning(tt.err), Options{})

			res, err := svc.Write(context.Background(), rawInsert(t))
			require.NoError(t, err)
			assert.True(t, res.Queued)
			assert.ErrorIs(t, res.Err, tt.err)
			assert.Len(t, queue.EnqueueCalls(), 1)
		})
	}
}

func TestWrite_PermanentErrorReturned(t *testing.T) {
	queue := newQueueMock()
	rejection := &api.StatusError{StatusCode: http.StatusConflict, Message: "row exists"}
	svc := NewService(queue, clientReturning(rejection), Options{})

	res, err := svc.Write(context.Background(), rawInsert(t))
	require.Error(t, err)
	assert.Nil(t, res)
	assert.Equal(t, http.StatusConflict, api.StatusCode(err))
	assert.Empty(t, queue.EnqueueCalls())
}

func TestWrite_CanceledIsNotQueued(t *testing.T) {
	queue := newQueueMock()
	ctx, cancel := context.WithCancel(context.Background())
	client := &api.ClientAPIMock{
		ExecuteFunc: func(callCtx context.Context, accessToken string, m *models.QueuedMutation) error {
			cancel()
			return context.Canceled
		},
	}
	svc := NewService(queue, client, Options{})

	_, err := svc.Write(ctx, rawInsert(t))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, queue.EnqueueCalls())
}

func TestWrite_InvalidMutation(t *testing.T) {
	queue := newQueueMock()
	client := clientReturning(nil)
	svc := NewService(queue, client, Options{Connectivity: staticConnectivity(false)})

	_, err := svc.Write(context.Background(), &models.QueuedMutation{Table: "1bad", Operation: models.OperationInsert})
	require.Error(t, err)

	_, err = svc.Write(context.Background(), nil)
	require.Error(t, err)

	assert.Empty(t, queue.EnqueueCalls())
	assert.Empty(t, client.ExecuteCalls())
}

func TestWrite_OnlineWriteQueuesBehindBacklog(t *testing.T) {
	ctx := context.Background()
	store, err := boltdb.New(ctx, filepath.Join(t.TempDir(), "data_test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, store.Close()) })

	// сервер запоминает имена в порядке применения
	var applied []string
	client := &api.ClientAPIMock{
		ExecuteFunc: func(ctx context.Context, accessToken string, m *models.QueuedMutation) error {
			rec, err := models.DecodeRecord(m.Table, m.Payload)
			if err != nil {
				return err
			}
			applied = append(applied, rec.(*models.StudentRecord).FirstName)
			return nil
		},
	}
	network := &switchConnectivity{}
	svc := NewService(store, client, Options{Connectivity: network})

	res, err := svc.SaveStudent(ctx, &models.StudentRecord{ID: "s1", FirstName: "Old", LastName: "Petrova"})
	require.NoError(t, err)
	assert.True(t, res.Queued)

	network.set(true)
	res, err = svc.SaveStudent(ctx, &models.StudentRecord{ID: "s1", FirstName: "New", LastName: "Petrova"})
	require.NoError(t, err)
	assert.True(t, res.Queued, "newer write waits behind the queued one")
	assert.Empty(t, client.ExecuteCalls())

	_, err = syncengine.NewEngine(store, client, syncengine.Options{}).Sync(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Old", "New"}, applied)

	// очередь пуста: запись снова уходит напрямую
	res, err = svc.SaveStudent(ctx, &models.StudentRecord{ID: "s1", FirstName: "Newest", LastName: "Petrova"})
	require.NoError(t, err)
	assert.False(t, res.Queued)
	assert.Equal(t, []string{"Old", "New", "Newest"}, applied)
}

func TestWrite_CountError(t *testing.T) {
	queue := newQueueMock()
	queue.CountFunc = func(ctx context.Context) (models.QueueCounts, error) {
		return models.QueueCounts{}, storage.ErrStorageClosed
	}
	client := clientReturning(nil)
	svc := NewService(queue, client, Options{Connectivity: staticConnectivity(true)})

	_, err := svc.Write(context.Background(), rawInsert(t))
	assert.ErrorIs(t, err, storage.ErrStorageClosed)
	assert.Empty(t, client.ExecuteCalls())
	assert.Empty(t, queue.EnqueueCalls())
}

func TestWrite_EnqueueError(t *testing.T) {
	queue := &storage.QueueStorageMock{
		EnqueueFunc: func(ctx context.Context, m *models.QueuedMutation) (*models.QueuedMutation, error) {
			return nil, storage.ErrStorageClosed
		},
	}
	svc := NewService(queue, clientReturning(nil), Options{Connectivity: staticConnectivity(false)})

	_, err := svc.Write(context.Background(), rawInsert(t))
	assert.ErrorIs(t, err, storage.ErrStorageClosed)
}

func TestTypedHelpers(t *testing.T) {
	ctx := context.Background()
	queue := newQueueMock()
	svc := NewService(queue, clientReturning(nil), Options{Connectivity: staticConnectivity(false)})

	res, err := svc.MarkAttendance(ctx, &models.AttendanceRecord{
		StudentID: "s-1", ClassID: "7b", Date: "2026-09-01", Status: "late",
	})
	require.NoError(t, err)
	assert.Equal(t, models.TableAttendance, res.Mutation.Table)
	assert.Equal(t, models.OperationUpsert, res.Mutation.Operation)

	res, err = svc.RecordGrade(ctx, &models.Grade{
		StudentID: "s-1", Subject: "math", Term: "T1", Score: 87, MaxScore: 100,
	})
	require.NoError(t, err)
	assert.Equal(t, models.TableGrades, res.Mutation.Table)
	assert.Equal(t, models.OperationInsert, res.Mutation.Operation)

	res, err = svc.SaveStudent(ctx, &models.StudentRecord{ID: "s-1", FirstName: "Ada", LastName: "Lovelace"})
	require.NoError(t, err)
	assert.Equal(t, models.TableStudents, res.Mutation.Table)

	res, err = svc.SendParentMessage(ctx, &models.ParentMessage{
		StudentID: "s-1", GuardianEmail: "parent@example.com", Subject: "Trip", Body: "Bring a jacket",
	})
	require.NoError(t, err)
	assert.Equal(t, models.TableParentMessages, res.Mutation.Table)

	require.Len(t, queue.EnqueueCalls(), 4)
	rec, err := models.DecodeRecord(models.TableGrades, queue.EnqueueCalls()[1].M.Payload)
	require.NoError(t, err)
	grade, ok := rec.(*models.Grade)
	require.True(t, ok)
	assert.NotEmpty(t, grade.ID)
	assert.Equal(t, 87.0, grade.Score)
}

func TestTypedHelpers_ValidationFails(t *testing.T) {
	ctx := context.Background()
	queue := newQueueMock()
	svc := NewService(queue, clientReturning(nil), Options{Connectivity: staticConnectivity(false)})

	_, err := svc.MarkAttendance(ctx, &models.AttendanceRecord{StudentID: "s-1", ClassID: "7b", Date: "01.09.2026", Status: "sick"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status")

	_, err = svc.RecordGrade(ctx, &models.Grade{StudentID: "s-1", Subject: "math", Term: "T1", Score: 120, MaxScore: 100})
	require.Error(t, err)

	_, err = svc.SendParentMessage(ctx, &models.ParentMessage{StudentID: "s-1", GuardianEmail: "nope", Subject: "x", Body: "y"})
	require.Error(t, err)

	_, err = svc.SaveStudent(ctx, nil)
	require.Error(t, err)

	assert.Empty(t, queue.EnqueueCalls())
}

package network

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/schoolsync/internal/client/api"
	"github.com/iudanet/schoolsync/internal/client/storage/boltdb"
	syncengine "github.com/iudanet/schoolsync/internal/client/sync"
	"github.com/iudanet/schoolsync/internal/models"
)

func idleEngine() *syncengine.EngineMock {
	return &syncengine.EngineMock{
		StatusFunc: func() models.SyncStatus { return models.SyncIdle },
		SyncFunc: func(ctx context.Context) (models.SyncProgress, error) {
			return models.SyncProgress{Status: models.SyncCompleted}, nil
		},
	}
}

func TestObserver_InitialStateUnknown(t *testing.T) {
	o := NewObserver(idleEngine(), Options{})
	assert.Equal(t, StatusUnknown, o.Status())
	assert.False(t, o.Online())
}

func TestObserver_FirstOnlineCountsAsTransition(t *testing.T) {
	engine := idleEngine()
	o := NewObserver(engine, Options{})

	o.SetOnline(true)
	o.Wait()

	assert.True(t, o.Online())
	assert.Len(t, engine.SyncCalls(), 1)
}

func TestObserver_SyncOnlyOnOfflineToOnline(t *testing.T) {
	engine := idleEngine()
	o := NewObserver(engine, Options{})

	o.SetOnline(false)
	o.Wait()
	assert.Empty(t, engine.SyncCalls())

	o.SetOnline(true)
	o.SetOnline(true)
	o.Wait()
	assert.Len(t, engine.SyncCalls(), 1)

	o.SetOnline(false)
	o.SetOnline(true)
	o.Wait()
	assert.Len(t, engine.SyncCalls(), 2)
}

func TestObserver_SkipsWhileSyncing(t *testing.T) {
	engine := &syncengine.EngineMock{
		StatusFunc: func() models.SyncStatus { return models.SyncSyncing },
		SyncFunc: func(ctx context.Context) (models.SyncProgress, error) {
			return models.SyncProgress{}, nil
		},
	}
	o := NewObserver(engine, Options{})

	o.SetOnline(true)
	o.Wait()
	assert.Empty(t, engine.SyncCalls())
	assert.True(t, o.Online())
}

func TestObserver_BusyEngineIsNotAnError(t *testing.T) {
	engine := &syncengine.EngineMock{
		StatusFunc: func() models.SyncStatus { return models.SyncIdle },
		SyncFunc: func(ctx context.Context) (models.SyncProgress, error) {
			return models.SyncProgress{}, syncengine.ErrSyncInProgress
		},
	}
	o := NewObserver(engine, Options{})

	o.SetOnline(true)
	o.Wait()
	assert.Len(t, engine.SyncCalls(), 1)
}

// Одна запись в очереди, переход offline -> online дает ровно один проход
func TestObserver_ReconnectReplaysQueueOnce(t *testing.T) {
	ctx := context.Background()
	store, err := boltdb.New(ctx, filepath.Join(t.TempDir(), "observer.db"))
	require.NoError(t, err)
	defer func() { require.NoError(t, store.Close()) }()

	m, err := models.NewRawMutation(models.TableGrades, models.OperationInsert, json.RawMessage(`{"id":"g-1","score":5}`), "")
	require.NoError(t, err)
	_, err = store.Enqueue(ctx, m)
	require.NoError(t, err)

	client := &api.ClientAPIMock{
		ExecuteFunc: func(ctx context.Context, accessToken string, m *models.QueuedMutation) error {
			return nil
		},
	}
	engine := syncengine.NewEngine(store, client, syncengine.Options{})
	o := NewObserver(engine, Options{})

	o.SetOnline(false)
	o.SetOnline(true)
	o.Wait()
	o.SetOnline(true)
	o.Wait()

	assert.Len(t, client.ExecuteCalls(), 1)
	counts, err := engine.Counts(ctx)
	require.NoError(t, err)
	assert.Zero(t, counts.Total())
}

func TestObserver_Subscribe(t *testing.T) {
	o := NewObserver(idleEngine(), Options{})

	var mu sync.Mutex
	var seen []Status
	unsubscribe := o.Subscribe(func(s Status) {
		mu.Lock()
		seen = append(seen, s)
		mu.Unlock()
	})

	o.SetOnline(false)
	o.SetOnline(false)
	o.SetOnline(true)
	unsubscribe()
	o.SetOnline(false)
	o.Wait()

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []Status{StatusOffline, StatusOnline}, seen)
}

func TestObserver_ProbeLoop(t *testing.T) {
	var reachable atomic.Bool
	prober := ProberFunc(func(ctx context.Context) error {
		if reachable.Load() {
			return nil
		}
		return errors.New("connection refused")
	})

	engine := idleEngine()
	o := NewObserver(engine, Options{Prober: prober, ProbeInterval: 10 * time.Millisecond})

	require.NoError(t, o.Start(context.Background()))
	defer o.Stop()
	require.Error(t, o.Start(context.Background()))

	require.Eventually(t, func() bool { return o.Status() == StatusOffline }, time.Second, 5*time.Millisecond)
	assert.Empty(t, engine.SyncCalls())

	reachable.Store(true)
	require.Eventually(t, func() bool { return len(engine.SyncCalls()) == 1 }, time.Second, 5*time.Millisecond)
	assert.True(t, o.Online())

	// повторные успешные пробы не запускают новых проходов
	time.Sleep(50 * time.Millisecond)
	o.Stop()
	assert.Len(t, engine.SyncCalls(), 1)
}

func TestObserver_ProbeNowWithoutProber(t *testing.T) {
	o := NewObserver(idleEngine(), Options{})
	assert.Equal(t, StatusUnknown, o.ProbeNow(context.Background()))
}

func TestObserver_StopWithoutStart(t *testing.T) {
	o := NewObserver(idleEngine(), Options{})
	o.Stop()
}

package sync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	gosync "sync"
	"time"

	"github.com/iudanet/schoolsync/internal/client/api"
	"github.com/iudanet/schoolsync/internal/client/progress"
	"github.com/iudanet/schoolsync/internal/client/storage"
	"github.com/iudanet/schoolsync/internal/models"
)

// DefaultItemTimeout ограничивает один удаленный вызов при воспроизведении
const DefaultItemTimeout = 15 * time.Second

// ErrSyncInProgress возвращается, если проход синхронизации уже идет
var ErrSyncInProgress = errors.New("sync already in progress")

//go:generate moq -out engine_mock.go . Engine

// Engine воспроизводит очередь мутаций на удаленном сервисе
type Engine interface {
	// Sync выполняет один проход по pending и failed мутациям в порядке очереди.
	// Успешные удаляются, неудачные помечаются failed; ошибка одной записи
	// не прерывает проход. Возвращает итоговый прогресс.
	Sync(ctx context.Context) (models.SyncProgress, error)

	// Retry повторяет проход; failed записи воспроизводятся так же, как pending
	Retry(ctx context.Context) (models.SyncProgress, error)

	// DiscardFailed удаляет все failed записи, pending не трогает
	DiscardFailed(ctx context.Context) (int, error)

	// Status возвращает состояние машины: idle, syncing или completed
	Status() models.SyncStatus

	// Counts возвращает количество pending и failed записей
	Counts(ctx context.Context) (models.QueueCounts, error)
}

// Options параметры Engine
type Options struct {
	Logger      *slog.Logger
	Tracker     *progress.Tracker
	Auth        storage.AuthStorage // может быть nil: запросы уходят без токена
	Metadata    storage.MetadataStorage
	ItemTimeout time.Duration
}

type engine struct {
	queue    storage.QueueStorage
	metadata storage.MetadataStorage
	auth     storage.AuthStorage
	client   api.ClientAPI
	tracker  *progress.Tracker
	logger   *slog.Logger

	itemTimeout time.Duration

	mu    gosync.Mutex
	state models.SyncStatus
}

// NewEngine creates a new sync engine
func NewEngine(queue storage.QueueStorage, client api.ClientAPI, opts Options) Engine {
	e := &engine{
		queue:       queue,
		metadata:    opts.Metadata,
		auth:        opts.Auth,
		client:      client,
		tracker:     opts.Tracker,
		logger:      opts.Logger,
		itemTimeout: opts.ItemTimeout,
		state:       models.SyncIdle,
	}
	if e.tracker == nil {
		e.tracker = progress.NewTracker()
	}
	if e.logger == nil {
		e.logger = slog.New(slog.DiscardHandler)
	}
	if e.itemTimeout <= 0 {
		e.itemTimeout = DefaultItemTimeout
	}
	return e
}

// Sync performs one replay pass over the queue
func (e *engine) Sync(ctx context.Context) (models.SyncProgress, error) {
	if err := e.begin(); err != nil {
		return e.tracker.Snapshot(), err
	}

	// Машина не должна застрять в syncing, даже если хранилище или клиент паникуют
	final := models.SyncIdle
	defer func() {
		e.end(final)
	}()

	items, err := e.queue.DequeueAll(ctx)
	if err != nil {
		return e.tracker.Snapshot(), fmt.Errorf("failed to read queue: %w", err)
	}

	token := e.accessToken(ctx)

	e.tracker.Reset(len(items))
	e.logger.Info("Starting synchronization", "items", len(items))

	var passErr error
	for _, m := range items {
		if err := ctx.Err(); err != nil {
			passErr = err
			break
		}

		ok, err := e.replay(ctx, token, m)
		if err != nil {
			passErr = err
			break
		}
		e.tracker.Record(ok)
	}

	e.tracker.Complete()
	final = models.SyncCompleted
	result := e.tracker.Snapshot()

	if passErr != nil {
		e.logger.Warn("Synchronization interrupted",
			"processed", result.Processed,
			"total", result.Total,
			"error", passErr)
		return result, fmt.Errorf("sync interrupted: %w", passErr)
	}

	e.logger.Info("Synchronization completed",
		"total", result.Total,
		"succeeded", result.Succeeded,
		"failed", result.Failed)

	if e.metadata != nil {
		if err := e.metadata.SaveLastSync(ctx, time.Now()); err != nil {
			// Не прерываем синхронизацию из-за ошибки сохранения времени
			e.logger.Warn("Failed to save last sync time", "error", err)
		}
	}

	return result, nil
}

// Retry re-runs the replay pass
func (e *engine) Retry(ctx context.Context) (models.SyncProgress, error) {
	return e.Sync(ctx)
}

// DiscardFailed drops every failed mutation
func (e *engine) DiscardFailed(ctx context.Context) (int, error) {
	// Держим блокировку все удаление, чтобы проход не начался посередине
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state == models.SyncSyncing {
		return 0, ErrSyncInProgress
	}

	removed, err := e.queue.RemoveFailed(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to discard failed mutations: %w", err)
	}

	e.logger.Info("Discarded failed mutations", "count", removed)
	return removed, nil
}

// Status returns the state machine position
func (e *engine) Status() models.SyncStatus {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Counts returns pending and failed totals
func (e *engine) Counts(ctx context.Context) (models.QueueCounts, error) {
	counts, err := e.queue.Count(ctx)
	if err != nil {
		return models.QueueCounts{}, fmt.Errorf("failed to count queue: %w", err)
	}
	return counts, nil
}

// begin переводит машину idle|completed -> syncing
func (e *engine) begin() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state == models.SyncSyncing {
		return ErrSyncInProgress
	}
	e.state = models.SyncSyncing
	return nil
}

func (e *engine) end(state models.SyncStatus) {
	e.mu.Lock()
	e.state = state
	e.mu.Unlock()
}

// replay отправляет одну мутацию. Возвращает ошибку только когда проход
// нужно остановить: отмена контекста или сбой локального хранилища.
func (e *engine) replay(ctx context.Context, token string, m *models.QueuedMutation) (bool, error) {
	// Учет статусов не должен срываться отменой родительского контекста
	bookkeeping := context.WithoutCancel(ctx)

	if err := e.queue.MarkSyncing(bookkeeping, m.ID); err != nil {
		return false, fmt.Errorf("failed to mark mutation %d syncing: %w", m.ID, err)
	}

	itemCtx, cancel := context.WithTimeout(ctx, e.itemTimeout)
	err := e.client.Execute(itemCtx, token, m)
	cancel()

	if err == nil {
		// Запись могла уже удалить параллельная синхронизация другого процесса
		if err := e.queue.Remove(bookkeeping, m.ID); err != nil && !errors.Is(err, storage.ErrMutationNotFound) {
			return false, fmt.Errorf("failed to remove synced mutation %d: %w", m.ID, err)
		}
		e.logger.Debug("Mutation synced", "id", m.ID, "table", m.Table, "operation", m.Operation)
		return true, nil
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		// Прерванная попытка возвращается в pending и повторится в следующий раз
		if err := e.queue.MarkPending(bookkeeping, m.ID); err != nil {
			e.logger.Warn("Failed to return mutation to pending", "id", m.ID, "error", err)
		}
		return false, ctxErr
	}

	e.logger.Warn("Mutation failed to sync",
		"id", m.ID,
		"table", m.Table,
		"operation", m.Operation,
		"transient", api.IsTransient(err),
		"error", err)

	if err := e.queue.MarkFailed(bookkeeping, m.ID, err.Error()); err != nil {
		return false, fmt.Errorf("failed to mark mutation %d failed: %w", m.ID, err)
	}
	return false, nil
}

func (e *engine) accessToken(ctx context.Context) string {
	if e.auth == nil {
		return ""
	}
	auth, err := e.auth.GetAuth(ctx)
	if err != nil {
		if !errors.Is(err, storage.ErrAuthNotFound) {
			e.logger.Warn("Failed to read access token", "error", err)
		}
		return ""
	}
	return auth.AccessToken
}

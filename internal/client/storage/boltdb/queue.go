package boltdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.etcd.io/bbolt"

	"github.com/iudanet/schoolsync/internal/client/storage"
	"github.com/iudanet/schoolsync/internal/models"
)

// Enqueue durably appends a mutation to the queue
func (s *Storage) Enqueue(ctx context.Context, m *models.QueuedMutation) (*models.QueuedMutation, error) {
	if s.db == nil {
		return nil, storage.ErrStorageClosed
	}
	if m == nil {
		return nil, errors.New("mutation is nil")
	}

	stored := m.Clone()
	stored.Status = models.StatusPending
	stored.Error = ""
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now().UTC()
	}

	err := s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(s.bucketQueue)
		if bucket == nil {
			return fmt.Errorf("queue bucket not found")
		}

		// NextSequence монотонно растет и переживает перезапуск
		seq, err := bucket.NextSequence()
		if err != nil {
			return fmt.Errorf("failed to allocate mutation id: %w", err)
		}
		stored.ID = seq

		data, err := json.Marshal(stored)
		if err != nil {
			return fmt.Errorf("failed to marshal mutation: %w", err)
		}

		if err := bucket.Put(itob(seq), data); err != nil {
			return fmt.Errorf("failed to save mutation: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("enqueue transaction failed: %w", err)
	}

	return stored, nil
}

// DequeueAll returns pending and failed mutations in FIFO generation order
func (s *Storage) DequeueAll(ctx context.Context) ([]*models.QueuedMutation, error) {
	return s.scan(ctx, func(m *models.QueuedMutation) bool {
		return m.IsAtRest()
	})
}

// List returns all mutations in generation order
func (s *Storage) List(ctx context.Context) ([]*models.QueuedMutation, error) {
	return s.scan(ctx, nil)
}

// ListPending returns pending mutations in generation order
func (s *Storage) ListPending(ctx context.Context) ([]*models.QueuedMutation, error) {
	return s.scan(ctx, func(m *models.QueuedMutation) bool {
		return m.Status == models.StatusPending
	})
}

// ListFailed returns failed mutations in generation order
func (s *Storage) ListFailed(ctx context.Context) ([]*models.QueuedMutation, error) {
	return s.scan(ctx, func(m *models.QueuedMutation) bool {
		return m.Status == models.StatusFailed
	})
}

// Get retrieves a mutation by ID
func (s *Storage) Get(ctx context.Context, id uint64) (*models.QueuedMutation, error) {
	if s.db == nil {
		return nil, storage.ErrStorageClosed
	}

	var m *models.QueuedMutation
	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(s.bucketQueue)
		if bucket == nil {
			return storage.ErrMutationNotFound
		}

		data := bucket.Get(itob(id))
		if data == nil {
			return storage.ErrMutationNotFound
		}

		m = &models.QueuedMutation{}
		if err := json.Unmarshal(data, m); err != nil {
			return fmt.Errorf("failed to unmarshal mutation %d: %w", id, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return m, nil
}

// MarkSyncing flags a mutation as in flight and counts the attempt
func (s *Storage) MarkSyncing(ctx context.Context, id uint64) error {
	now := time.Now().UTC()
	return s.modify(id, func(m *models.QueuedMutation) {
		m.Status = models.StatusSyncing
		m.Attempts++
		m.LastAttemptAt = &now
	})
}

// MarkFailed flags a mutation as failed with the error message
func (s *Storage) MarkFailed(ctx context.Context, id uint64, errMsg string) error {
	return s.modify(id, func(m *models.QueuedMutation) {
		m.Status = models.StatusFailed
		m.Error = errMsg
	})
}

// MarkPending puts a mutation back to pending
func (s *Storage) MarkPending(ctx context.Context, id uint64) error {
	return s.modify(id, func(m *models.QueuedMutation) {
		m.Status = models.StatusPending
	})
}

// Remove deletes a single mutation
func (s *Storage) Remove(ctx context.Context, id uint64) error {
	if s.db == nil {
		return storage.ErrStorageClosed
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(s.bucketQueue)
		if bucket == nil {
			return storage.ErrMutationNotFound
		}

		key := itob(id)
		if bucket.Get(key) == nil {
			return storage.ErrMutationNotFound
		}

		if err := bucket.Delete(key); err != nil {
			return fmt.Errorf("failed to delete mutation %d: %w", id, err)
		}
		return nil
	})
}

// RemoveFailed deletes every failed mutation, pending ones stay
func (s *Storage) RemoveFailed(ctx context.Context) (int, error) {
	if s.db == nil {
		return 0, storage.ErrStorageClosed
	}

	removed := 0
	err := s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(s.bucketQueue)
		if bucket == nil {
			return nil
		}

		// Сначала собираем ключи: удалять во время ForEach нельзя
		var keys [][]byte
		err := bucket.ForEach(func(k, v []byte) error {
			var m models.QueuedMutation
			if err := json.Unmarshal(v, &m); err != nil {
				// битые записи разбирает scan, здесь их не трогаем
				return nil
			}
			if m.Status == models.StatusFailed {
				keys = append(keys, append([]byte(nil), k...))
			}
			return nil
		})
		if err != nil {
			return err
		}

		for _, k := range keys {
			if err := bucket.Delete(k); err != nil {
				return fmt.Errorf("failed to delete mutation %d: %w", btoi(k), err)
			}
		}
		removed = len(keys)
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("remove failed transaction failed: %w", err)
	}

	return removed, nil
}

// Count returns pending/failed totals
func (s *Storage) Count(ctx context.Context) (models.QueueCounts, error) {
	var counts models.QueueCounts

	items, err := s.scan(ctx, nil)
	if err != nil {
		return counts, err
	}

	for _, m := range items {
		switch m.Status {
		case models.StatusPending, models.StatusSyncing:
			counts.Pending++
		case models.StatusFailed:
			counts.Failed++
		}
	}
	return counts, nil
}

// CorruptCount returns how many unreadable entries were quarantined
func (s *Storage) CorruptCount(ctx context.Context) (int, error) {
	if s.db == nil {
		return 0, storage.ErrStorageClosed
	}

	var n int
	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(s.bucketCorrupt)
		if bucket == nil {
			return nil
		}
		n = bucket.Stats().KeyN
		return nil
	})
	return n, err
}

// scan читает очередь в порядке генерации. Записи, которые не удалось
// разобрать, не возвращаются и переносятся в corrupt bucket.
func (s *Storage) scan(ctx context.Context, keep func(*models.QueuedMutation) bool) ([]*models.QueuedMutation, error) {
	if s.db == nil {
		return nil, storage.ErrStorageClosed
	}

	var (
		items   []*models.QueuedMutation
		corrupt []uint64
	)

	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(s.bucketQueue)
		if bucket == nil {
			return nil
		}

		c := bucket.Cursor()
		for k, v := c.First(); k != nil; k, v = c.Next() {
			m := &models.QueuedMutation{}
			if len(k) != 8 || json.Unmarshal(v, m) != nil {
				if len(k) == 8 {
					corrupt = append(corrupt, btoi(k))
				}
				continue
			}
			if keep == nil || keep(m) {
				items = append(items, m)
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan queue: %w", err)
	}

	if len(corrupt) > 0 {
		if err := s.quarantine(corrupt); err != nil {
			return nil, err
		}
	}

	return items, nil
}

// quarantine переносит нечитаемые записи из очереди в corrupt bucket
func (s *Storage) quarantine(ids []uint64) error {
	err := s.db.Update(func(tx *bbolt.Tx) error {
		queue := tx.Bucket(s.bucketQueue)
		corrupt := tx.Bucket(s.bucketCorrupt)
		if queue == nil || corrupt == nil {
			return fmt.Errorf("queue buckets not found")
		}

		for _, id := range ids {
			key := itob(id)
			raw := queue.Get(key)
			if raw == nil {
				continue
			}
			if err := corrupt.Put(key, append([]byte(nil), raw...)); err != nil {
				return fmt.Errorf("failed to quarantine mutation %d: %w", id, err)
			}
			if err := queue.Delete(key); err != nil {
				return fmt.Errorf("failed to drop corrupt mutation %d: %w", id, err)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("quarantine transaction failed: %w", err)
	}

	s.logger.Warn("Quarantined unreadable queue entries", "ids", ids)
	return nil
}

// modify читает запись, применяет fn и сохраняет обратно в одной транзакции
func (s *Storage) modify(id uint64, fn func(m *models.QueuedMutation)) error {
	if s.db == nil {
		return storage.ErrStorageClosed
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(s.bucketQueue)
		if bucket == nil {
			return storage.ErrMutationNotFound
		}

		key := itob(id)
		data := bucket.Get(key)
		if data == nil {
			return storage.ErrMutationNotFound
		}

		var m models.QueuedMutation
		if err := json.Unmarshal(data, &m); err != nil {
			return fmt.Errorf("failed to unmarshal mutation %d: %w", id, err)
		}

		fn(&m)

		updated, err := json.Marshal(&m)
		if err != nil {
			return fmt.Errorf("failed to marshal mutation %d: %w", id, err)
		}

		if err := bucket.Put(key, updated); err != nil {
			return fmt.Errorf("failed to save mutation %d: %w", id, err)
		}
		return nil
	})
}

// recoverInterrupted returns syncing mutations to pending
func (s *Storage) recoverInterrupted(ctx context.Context) (int, error) {
	recovered := 0
	now := time.Now().UTC()
	err := s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(s.bucketQueue)
		if bucket == nil {
			return nil
		}

		updates := make(map[string][]byte)
		err := bucket.ForEach(func(k, v []byte) error {
			var m models.QueuedMutation
			if err := json.Unmarshal(v, &m); err != nil {
				return nil
			}
			if m.Status != models.StatusSyncing {
				return nil
			}
			if s.recoverAfter > 0 && m.LastAttemptAt != nil && now.Sub(*m.LastAttemptAt) < s.recoverAfter {
				return nil
			}
			m.Status = models.StatusPending
			data, err := json.Marshal(&m)
			if err != nil {
				return fmt.Errorf("failed to marshal mutation %d: %w", m.ID, err)
			}
			updates[string(k)] = data
			return nil
		})
		if err != nil {
			return err
		}

		for k, v := range updates {
			if err := bucket.Put([]byte(k), v); err != nil {
				return fmt.Errorf("failed to reset mutation: %w", err)
			}
		}
		recovered = len(updates)
		return nil
	})
	return recovered, err
}

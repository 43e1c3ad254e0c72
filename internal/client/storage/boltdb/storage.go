package boltdb

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"go.etcd.io/bbolt"
	bberrors "go.etcd.io/bbolt/errors"

	clientstorage "github.com/iudanet/schoolsync/internal/client/storage"
)

const (
	// DefaultNamespace префикс имен buckets по умолчанию
	DefaultNamespace = "schoolsync"

	defaultOpenTimeout = time.Second
)

// Storage represents BoltDB storage implementation for client
type Storage struct {
	db     *bbolt.DB
	logger *slog.Logger

	namespace     string
	bucketQueue   []byte
	bucketMeta    []byte
	bucketAuth    []byte
	bucketCorrupt []byte

	openTimeout  time.Duration
	recoverAfter time.Duration
	reopen       bool
}

// Option настраивает Storage при открытии
type Option func(*Storage)

// WithNamespace sets the fixed prefix of every bucket name.
func WithNamespace(ns string) Option {
	return func(s *Storage) {
		if ns != "" {
			s.namespace = ns
		}
	}
}

// WithLogger sets the logger used for recovery and quarantine reports.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Storage) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithOpenTimeout bounds how long Open waits for the file lock held by another process.
func WithOpenTimeout(d time.Duration) Option {
	return func(s *Storage) {
		if d > 0 {
			s.openTimeout = d
		}
	}
}

// WithRecoverAfter limits recovery on open to syncing entries whose last
// attempt is at least d old. Fresher entries belong to a pass that another
// process is running right now. Zero recovers every syncing entry.
func WithRecoverAfter(d time.Duration) Option {
	return func(s *Storage) {
		if d > 0 {
			s.recoverAfter = d
		}
	}
}

// New creates a new BoltDB storage instance
// dbPath is the path to the BoltDB database file
func New(ctx context.Context, dbPath string, opts ...Option) (*Storage, error) {
	storage := &Storage{
		namespace:   DefaultNamespace,
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		openTimeout: defaultOpenTimeout,
	}
	for _, opt := range opts {
		opt(storage)
	}

	storage.bucketQueue = bucketName(storage.namespace, "queue")
	storage.bucketMeta = bucketName(storage.namespace, "meta")
	storage.bucketAuth = bucketName(storage.namespace, "auth")
	storage.bucketCorrupt = bucketName(storage.namespace, "corrupt")

	// Открываем BoltDB; если файл держит другой процесс, bbolt ждет не дольше openTimeout
	db, err := bbolt.Open(dbPath, 0600, &bbolt.Options{Timeout: storage.openTimeout})
	if errors.Is(err, bberrors.ErrTimeout) {
		return nil, fmt.Errorf("failed to open boltdb %s: %w", dbPath, clientstorage.ErrStorageLocked)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open boltdb: %w", err)
	}
	storage.db = db

	// Повторное открытие уже подготовленного файла
	if storage.reopen {
		return storage, nil
	}

	// Инициализируем buckets
	if err := storage.initBuckets(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize buckets: %w", err)
	}

	// Записи, застрявшие в syncing после падения процесса, возвращаем в pending
	recovered, err := storage.recoverInterrupted(ctx)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to recover interrupted mutations: %w", err)
	}
	if recovered > 0 {
		storage.logger.Warn("Recovered mutations interrupted mid-sync", "count", recovered)
	}

	return storage, nil
}

// Close closes the database connection
func (s *Storage) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// Namespace returns the bucket name prefix in use.
func (s *Storage) Namespace() string {
	return s.namespace
}

// initBuckets создает необходимые buckets если они не существуют
func (s *Storage) initBuckets() error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		for _, name := range [][]byte{s.bucketQueue, s.bucketMeta, s.bucketAuth, s.bucketCorrupt} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return fmt.Errorf("failed to create %s bucket: %w", name, err)
			}
		}
		return nil
	})
}

func bucketName(namespace, name string) []byte {
	return []byte(namespace + "." + name)
}

// itob кодирует ID в big-endian, чтобы порядок курсора совпадал с порядком генерации
func itob(v uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, v)
	return b
}

func btoi(b []byte) uint64 {
	return binary.BigEndian.Uint64(b)
}

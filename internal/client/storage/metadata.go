package storage

import (
	"context"
	"time"
)

//go:generate moq -out metadata_mock.go . MetadataStorage

// MetadataStorage defines interface for storing client metadata
type MetadataStorage interface {
	// SaveLastSync saves the time the last sync pass finished
	SaveLastSync(ctx context.Context, t time.Time) error

	// GetLastSync retrieves the time the last sync pass finished
	// Returns zero time if no sync has been performed yet
	GetLastSync(ctx context.Context) (time.Time, error)
}

package storage

import (
	"context"
	"encoding/json"

	"github.com/iudanet/schoolsync/internal/models"
)

// RowKeyColumn колонка, значение которой становится ключом строки
const RowKeyColumn = models.DefaultMatchColumn

// Write описывает одну запись в табличный ресурс
type Write struct {
	Payload        json.RawMessage
	Table          string
	Operation      models.Operation
	Column         string // колонка конфликта (upsert) или фильтра (update, delete)
	Value          string // значение фильтра для update и delete
	IdempotencyKey string
}

// WriteResult итог применения записи
type WriteResult struct {
	Key      string
	Affected int
	Replayed bool
}

// Filter ограничивает выборку строк равенством одной колонки
type Filter struct {
	Column string
	Value  string
	Limit  int
}

//go:generate moq -out rows_mock.go . RowStorage

// RowStorage defines interface for table rows persistence of the data service
type RowStorage interface {
	// Apply применяет запись в одной транзакции.
	// Повторный IdempotencyKey возвращает сохраненный итог с Replayed=true.
	// Insert существующего ключа возвращает ErrConflict,
	// update и delete без совпавших строк возвращают ErrRowNotFound.
	Apply(ctx context.Context, w *Write) (*WriteResult, error)

	// List возвращает строки таблицы в порядке вставки
	List(ctx context.Context, table string, filter Filter) ([]json.RawMessage, error)

	// Ping проверяет, что база доступна
	Ping(ctx context.Context) error
}

package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/iudanet/schoolsync/internal/validation"
)

// Operation тип операции над таблицей удаленного сервиса
type Operation string

const (
	OperationInsert Operation = "insert"
	OperationUpdate Operation = "update"
	OperationUpsert Operation = "upsert"
	OperationDelete Operation = "delete"
)

// Valid reports whether op is one of the supported table operations.
func (op Operation) Valid() bool {
	switch op {
	case OperationInsert, OperationUpdate, OperationUpsert, OperationDelete:
		return true
	}
	return false
}

// ParseOperation converts user input into an Operation.
func ParseOperation(s string) (Operation, error) {
	op := Operation(s)
	if !op.Valid() {
		return "", fmt.Errorf("unknown operation %q: use insert, update, upsert or delete", s)
	}
	return op, nil
}

// MutationStatus represents the lifecycle of a queued mutation.
type MutationStatus string

const (
	StatusPending   MutationStatus = "pending"
	StatusSyncing   MutationStatus = "syncing"
	StatusSucceeded MutationStatus = "succeeded"
	StatusFailed    MutationStatus = "failed"
)

// DefaultMatchColumn колонка, по которой ищется строка для update/delete,
// если conflict key не задан
const DefaultMatchColumn = "id"

// QueuedMutation одна буферизованная операция записи, которую нужно доставить
// на удаленный сервис. ID задается хранилищем и отражает порядок генерации.
type QueuedMutation struct {
	CreatedAt      time.Time       `json:"created_at"`
	LastAttemptAt  *time.Time      `json:"last_attempt_at,omitempty"`
	IdempotencyKey string          `json:"idempotency_key"`
	Table          string          `json:"table"`
	Operation      Operation       `json:"operation"`
	ConflictKey    string          `json:"conflict_key,omitempty"`
	Status         MutationStatus  `json:"status"`
	Error          string          `json:"error,omitempty"`
	Payload        json.RawMessage `json:"payload"`
	ID             uint64          `json:"id"`
	Attempts       int             `json:"attempts"`
}

// NewRawMutation builds a pending mutation around an opaque JSON object.
func NewRawMutation(table string, op Operation, payload json.RawMessage, conflictKey string) (*QueuedMutation, error) {
	m := &QueuedMutation{
		IdempotencyKey: uuid.New().String(),
		Table:          table,
		Operation:      op,
		ConflictKey:    conflictKey,
		Status:         StatusPending,
		Payload:        payload,
		CreatedAt:      time.Now().UTC(),
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

// Validate проверяет, что мутацию можно отправить на сервер
func (m *QueuedMutation) Validate() error {
	if !m.Operation.Valid() {
		return fmt.Errorf("unknown operation %q", m.Operation)
	}
	if err := validation.ValidateTableName(m.Table); err != nil {
		return err
	}
	if m.ConflictKey != "" {
		if err := validation.ValidateColumnName(m.ConflictKey); err != nil {
			return fmt.Errorf("invalid conflict key: %w", err)
		}
	}

	fields, err := m.fields()
	if err != nil {
		return err
	}

	// update и delete без значения ключа затронут неизвестно что
	if m.Operation == OperationUpdate || m.Operation == OperationDelete {
		if _, ok := fields[m.MatchColumn()]; !ok {
			return fmt.Errorf("%s on %s requires %q in payload", m.Operation, m.Table, m.MatchColumn())
		}
	}

	return nil
}

// MatchColumn returns the column used to filter rows for update and delete.
func (m *QueuedMutation) MatchColumn() string {
	if m.ConflictKey != "" {
		return m.ConflictKey
	}
	return DefaultMatchColumn
}

// MatchValue returns the payload value of MatchColumn rendered as text.
func (m *QueuedMutation) MatchValue() (string, error) {
	fields, err := m.fields()
	if err != nil {
		return "", err
	}
	raw, ok := fields[m.MatchColumn()]
	if !ok {
		return "", fmt.Errorf("payload has no %q", m.MatchColumn())
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, nil
	}
	// числа и bool передаются как есть
	return string(bytes.TrimSpace(raw)), nil
}

// IsAtRest reports whether the mutation is in a resting state (pending or failed).
func (m *QueuedMutation) IsAtRest() bool {
	return m.Status == StatusPending || m.Status == StatusFailed
}

// Clone создает глубокую копию мутации
func (m *QueuedMutation) Clone() *QueuedMutation {
	c := *m
	c.Payload = append(json.RawMessage(nil), m.Payload...)
	if m.LastAttemptAt != nil {
		t := *m.LastAttemptAt
		c.LastAttemptAt = &t
	}
	return &c
}

var errPayloadNotObject = errors.New("payload must be a JSON object")

func (m *QueuedMutation) fields() (map[string]json.RawMessage, error) {
	if len(bytes.TrimSpace(m.Payload)) == 0 {
		return nil, errPayloadNotObject
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(m.Payload, &fields); err != nil || fields == nil {
		return nil, errPayloadNotObject
	}
	return fields, nil
}

// QueueCounts итоговое количество записей в очереди по статусам
type QueueCounts struct {
	Pending int `json:"pending"`
	Failed  int `json:"failed"`
}

// Total returns the number of mutations still waiting to reach the server.
func (c QueueCounts) Total() int {
	return c.Pending + c.Failed
}

package sqlite

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/schoolsync/internal/models"
	"github.com/iudanet/schoolsync/internal/server/storage"
)

func newTestStorage(t *testing.T) *Storage {
	t.Helper()

	s, err := New(context.Background(), ":memory:")
	require.NoError(t, err)
	s.now = func() time.Time { return time.Date(2026, 9, 1, 8, 30, 0, 0, time.UTC) }

	t.Cleanup(func() {
		_ = s.Close()
	})
	return s
}

func listRows(t *testing.T, s *Storage, table string, filter storage.Filter) []map[string]any {
	t.Helper()

	raw, err := s.List(context.Background(), table, filter)
	require.NoError(t, err)

	result := make([]map[string]any, 0, len(raw))
	for _, r := range raw {
		var m map[string]any
		require.NoError(t, json.Unmarshal(r, &m))
		result = append(result, m)
	}
	return result
}

func TestNew_FileDatabase(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "server.db")

	s, err := New(ctx, path)
	require.NoError(t, err)
	require.NoError(t, s.Ping(ctx))

	_, err = s.Apply(ctx, &storage.Write{
		Table:     "students",
		Operation: models.OperationInsert,
		Payload:   json.RawMessage(`{"id":"s1","first_name":"Ada"}`),
	})
	require.NoError(t, err)
	require.NoError(t, s.Close())

	// Повторное открытие не применяет миграции заново и видит данные
	s, err = New(ctx, path)
	require.NoError(t, err)
	defer func() {
		_ = s.Close()
	}()

	rows, err := s.List(ctx, "students", storage.Filter{})
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestStorage_Apply_Insert(t *testing.T) {
	ctx := context.Background()
	s := newTestStorage(t)

	res, err := s.Apply(ctx, &storage.Write{
		Table:     "attendance",
		Operation: models.OperationInsert,
		Payload:   json.RawMessage(`{"id":"a1","student_id":"s1","status":"present"}`),
	})
	require.NoError(t, err)
	assert.Equal(t, "a1", res.Key)
	assert.Equal(t, 1, res.Affected)
	assert.False(t, res.Replayed)

	_, err = s.Apply(ctx, &storage.Write{
		Table:     "attendance",
		Operation: models.OperationInsert,
		Payload:   json.RawMessage(`{"id":"a1","student_id":"s2"}`),
	})
	assert.ErrorIs(t, err, storage.ErrConflict)

	// Тот же ключ в другой таблице не конфликтует
	_, err = s.Apply(ctx, &storage.Write{
		Table:     "grades",
		Operation: models.OperationInsert,
		Payload:   json.RawMessage(`{"id":"a1"}`),
	})
	require.NoError(t, err)

	rows := listRows(t, s, "attendance", storage.Filter{})
	require.Len(t, rows, 1)
	assert.Equal(t, "s1", rows[0]["student_id"])
}

func TestStorage_Apply_InsertGeneratesKey(t *testing.T) {
	ctx := context.Background()
	s := newTestStorage(t)

	res, err := s.Apply(ctx, &storage.Write{
		Table:     "parent_messages",
		Operation: models.OperationInsert,
		Payload:   json.RawMessage(`{"student_id":"s1","body":"Trip on Friday"}`),
	})
	require.NoError(t, err)
	assert.NotEmpty(t, res.Key)

	rows := listRows(t, s, "parent_messages", storage.Filter{})
	require.Len(t, rows, 1)
	assert.Equal(t, res.Key, rows[0]["id"])
}

func TestStorage_Apply_Upsert(t *testing.T) {
	ctx := context.Background()
	s := newTestStorage(t)

	_, err := s.Apply(ctx, &storage.Write{
		Table:     "grades",
		Operation: models.OperationUpsert,
		Payload:   json.RawMessage(`{"id":"g1","student_id":"s1","score":3,"comment":"ok"}`),
	})
	require.NoError(t, err)

	res, err := s.Apply(ctx, &storage.Write{
		Table:     "grades",
		Operation: models.OperationUpsert,
		Payload:   json.RawMessage(`{"id":"g1","score":5}`),
	})
	require.NoError(t, err)
	assert.Equal(t, "g1", res.Key)
	assert.Equal(t, 1, res.Affected)

	rows := listRows(t, s, "grades", storage.Filter{})
	require.Len(t, rows, 1)
	assert.EqualValues(t, 5, rows[0]["score"])
	assert.Equal(t, "ok", rows[0]["comment"], "fields absent from the upsert are kept")
}

func TestStorage_Apply_UpsertByConflictColumn(t *testing.T) {
	ctx := context.Background()
	s := newTestStorage(t)

	_, err := s.Apply(ctx, &storage.Write{
		Table:     "students",
		Operation: models.OperationInsert,
		Payload:   json.RawMessage(`{"id":"s1","guardian_email":"mum@example.com","last_name":"Lovelace"}`),
	})
	require.NoError(t, err)

	res, err := s.Apply(ctx, &storage.Write{
		Table:     "students",
		Operation: models.OperationUpsert,
		Column:    "guardian_email",
		Payload:   json.RawMessage(`{"id":"other","guardian_email":"mum@example.com","last_name":"Byron"}`),
	})
	require.NoError(t, err)
	assert.Equal(t, "s1", res.Key)

	rows := listRows(t, s, "students", storage.Filter{})
	require.Len(t, rows, 1)
	assert.Equal(t, "s1", rows[0]["id"], "row key is never rewritten")
	assert.Equal(t, "Byron", rows[0]["last_name"])

	_, err = s.Apply(ctx, &storage.Write{
		Table:     "students",
		Operation: models.OperationUpsert,
		Column:    "guardian_email",
		Payload:   json.RawMessage(`{"id":"s2"}`),
	})
	assert.ErrorIs(t, err, storage.ErrInvalidPayload)
}

func TestStorage_Apply_Update(t *testing.T) {
	ctx := context.Background()
	s := newTestStorage(t)

	for _, payload := range []string{
		`{"id":"a1","class_id":"7b","status":"present"}`,
		`{"id":"a2","class_id":"7b","status":"present"}`,
		`{"id":"a3","class_id":"8a","status":"present"}`,
	} {
		_, err := s.Apply(ctx, &storage.Write{
			Table:     "attendance",
			Operation: models.OperationInsert,
			Payload:   json.RawMessage(payload),
		})
		require.NoError(t, err)
	}

	res, err := s.Apply(ctx, &storage.Write{
		Table:     "attendance",
		Operation: models.OperationUpdate,
		Column:    "class_id",
		Value:     "7b",
		Payload:   json.RawMessage(`{"status":"late"}`),
	})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Affected)

	late := listRows(t, s, "attendance", storage.Filter{Column: "status", Value: "late"})
	assert.Len(t, late, 2)

	_, err = s.Apply(ctx, &storage.Write{
		Table:     "attendance",
		Operation: models.OperationUpdate,
		Column:    "id",
		Value:     "missing",
		Payload:   json.RawMessage(`{"status":"late"}`),
	})
	assert.ErrorIs(t, err, storage.ErrRowNotFound)
}

func TestStorage_Apply_Delete(t *testing.T) {
	ctx := context.Background()
	s := newTestStorage(t)

	_, err := s.Apply(ctx, &storage.Write{
		Table:     "grades",
		Operation: models.OperationInsert,
		Payload:   json.RawMessage(`{"id":"g1","score":4}`),
	})
	require.NoError(t, err)

	// Числа сравниваются по текстовому представлению
	res, err := s.Apply(ctx, &storage.Write{
		Table:     "grades",
		Operation: models.OperationDelete,
		Column:    "score",
		Value:     "4",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Affected)

	_, err = s.Apply(ctx, &storage.Write{
		Table:     "grades",
		Operation: models.OperationDelete,
		Column:    "id",
		Value:     "g1",
	})
	assert.ErrorIs(t, err, storage.ErrRowNotFound)
}

func TestStorage_Apply_Idempotency(t *testing.T) {
	ctx := context.Background()
	s := newTestStorage(t)

	w := &storage.Write{
		Table:          "parent_messages",
		Operation:      models.OperationInsert,
		IdempotencyKey: "0b5c3c4e-6d0a-4f3e-9d3f-2b8c1b7a9e11",
		Payload:        json.RawMessage(`{"id":"m1","body":"hello"}`),
	}

	first, err := s.Apply(ctx, w)
	require.NoError(t, err)
	assert.False(t, first.Replayed)

	// Повтор после обрыва связи не превращается в конфликт
	second, err := s.Apply(ctx, w)
	require.NoError(t, err)
	assert.True(t, second.Replayed)
	assert.Equal(t, first.Key, second.Key)
	assert.Equal(t, first.Affected, second.Affected)

	assert.Len(t, listRows(t, s, "parent_messages", storage.Filter{}), 1)
}

func TestStorage_Apply_FailedWriteIsNotRecorded(t *testing.T) {
	ctx := context.Background()
	s := newTestStorage(t)

	w := &storage.Write{
		Table:          "attendance",
		Operation:      models.OperationDelete,
		Column:         "id",
		Value:          "a1",
		IdempotencyKey: "key-1",
	}
	_, err := s.Apply(ctx, w)
	require.ErrorIs(t, err, storage.ErrRowNotFound)

	_, err = s.Apply(ctx, &storage.Write{
		Table:     "attendance",
		Operation: models.OperationInsert,
		Payload:   json.RawMessage(`{"id":"a1"}`),
	})
	require.NoError(t, err)

	res, err := s.Apply(ctx, w)
	require.NoError(t, err)
	assert.False(t, res.Replayed)
	assert.Equal(t, 1, res.Affected)
}

func TestStorage_Apply_InvalidPayload(t *testing.T) {
	ctx := context.Background()
	s := newTestStorage(t)

	tests := []struct {
		name string
		w    *storage.Write
	}{
		{name: "nil write"},
		{name: "array body", w: &storage.Write{Table: "t", Operation: models.OperationInsert, Payload: json.RawMessage(`[1,2]`)}},
		{name: "not json", w: &storage.Write{Table: "t", Operation: models.OperationInsert, Payload: json.RawMessage(`{`)}},
		{name: "update without filter", w: &storage.Write{Table: "t", Operation: models.OperationUpdate, Payload: json.RawMessage(`{}`)}},
		{name: "delete without filter", w: &storage.Write{Table: "t", Operation: models.OperationDelete}},
		{name: "unknown operation", w: &storage.Write{Table: "t", Operation: "merge", Payload: json.RawMessage(`{}`)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Apply(ctx, tt.w)
			assert.ErrorIs(t, err, storage.ErrInvalidPayload)
		})
	}
}

func TestStorage_List(t *testing.T) {
	ctx := context.Background()
	s := newTestStorage(t)

	for _, payload := range []string{
		`{"id":"s1","class_id":"7b","active":true}`,
		`{"id":"s2","class_id":"8a","active":false}`,
		`{"id":"s3","class_id":"7b","active":true}`,
	} {
		_, err := s.Apply(ctx, &storage.Write{
			Table:     "students",
			Operation: models.OperationInsert,
			Payload:   json.RawMessage(payload),
		})
		require.NoError(t, err)
	}

	all := listRows(t, s, "students", storage.Filter{})
	require.Len(t, all, 3)
	assert.Equal(t, "s1", all[0]["id"])
	assert.Equal(t, "s3", all[2]["id"])

	assert.Len(t, listRows(t, s, "students", storage.Filter{Column: "class_id", Value: "7b"}), 2)
	assert.Len(t, listRows(t, s, "students", storage.Filter{Column: "active", Value: "false"}), 1)
	assert.Len(t, listRows(t, s, "students", storage.Filter{Limit: 2}), 2)
	assert.Empty(t, listRows(t, s, "grades", storage.Filter{}))
}

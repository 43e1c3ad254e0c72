package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOperation(t *testing.T) {
	for _, s := range []string{"insert", "update", "upsert", "delete"} {
		op, err := ParseOperation(s)
		require.NoError(t, err)
		assert.Equal(t, Operation(s), op)
	}

	_, err := ParseOperation("truncate")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown operation")
}

func TestNewRawMutation(t *testing.T) {
	m, err := NewRawMutation("attendance", OperationInsert, json.RawMessage(`{"id":"a1","status":"present"}`), "")
	require.NoError(t, err)

	assert.Equal(t, StatusPending, m.Status)
	assert.NotEmpty(t, m.IdempotencyKey)
	assert.False(t, m.CreatedAt.IsZero())
	assert.Zero(t, m.ID, "ID is assigned by the store")

	other, err := NewRawMutation("attendance", OperationInsert, json.RawMessage(`{"id":"a2"}`), "")
	require.NoError(t, err)
	assert.NotEqual(t, m.IdempotencyKey, other.IdempotencyKey)
}

func TestQueuedMutation_Validate(t *testing.T) {
	tests := []struct {
		name    string
		m       QueuedMutation
		errMsg  string
		wantErr bool
	}{
		{
			name: "insert without id is fine",
			m:    QueuedMutation{Table: "grades", Operation: OperationInsert, Payload: json.RawMessage(`{"score":5}`)},
		},
		{
			name: "upsert with conflict key",
			m:    QueuedMutation{Table: "grades", Operation: OperationUpsert, ConflictKey: "student_id", Payload: json.RawMessage(`{"student_id":"s1"}`)},
		},
		{
			name: "update with id",
			m:    QueuedMutation{Table: "students", Operation: OperationUpdate, Payload: json.RawMessage(`{"id":"s1","first_name":"Ada"}`)},
		},
		{
			name:    "unknown operation",
			m:       QueuedMutation{Table: "students", Operation: "merge", Payload: json.RawMessage(`{}`)},
			wantErr: true,
			errMsg:  "unknown operation",
		},
		{
			name:    "bad table",
			m:       QueuedMutation{Table: "students;--", Operation: OperationInsert, Payload: json.RawMessage(`{}`)},
			wantErr: true,
			errMsg:  "table name can only contain",
		},
		{
			name:    "bad conflict key",
			m:       QueuedMutation{Table: "students", Operation: OperationUpsert, ConflictKey: "a b", Payload: json.RawMessage(`{}`)},
			wantErr: true,
			errMsg:  "invalid conflict key",
		},
		{
			name:    "payload is array",
			m:       QueuedMutation{Table: "students", Operation: OperationInsert, Payload: json.RawMessage(`[1,2]`)},
			wantErr: true,
			errMsg:  "payload must be a JSON object",
		},
		{
			name:    "payload is null",
			m:       QueuedMutation{Table: "students", Operation: OperationInsert, Payload: json.RawMessage(`null`)},
			wantErr: true,
			errMsg:  "payload must be a JSON object",
		},
		{
			name:    "empty payload",
			m:       QueuedMutation{Table: "students", Operation: OperationInsert},
			wantErr: true,
			errMsg:  "payload must be a JSON object",
		},
		{
			name:    "delete without match column",
			m:       QueuedMutation{Table: "students", Operation: OperationDelete, Payload: json.RawMessage(`{"first_name":"Ada"}`)},
			wantErr: true,
			errMsg:  `requires "id"`,
		},
		{
			name:    "update without conflict column value",
			m:       QueuedMutation{Table: "grades", Operation: OperationUpdate, ConflictKey: "student_id", Payload: json.RawMessage(`{"id":"g1"}`)},
			wantErr: true,
			errMsg:  `requires "student_id"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.m.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestQueuedMutation_MatchValue(t *testing.T) {
	m := &QueuedMutation{Table: "students", Operation: OperationDelete, Payload: json.RawMessage(`{"id":"s-42"}`)}
	v, err := m.MatchValue()
	require.NoError(t, err)
	assert.Equal(t, "id", m.MatchColumn())
	assert.Equal(t, "s-42", v)

	m = &QueuedMutation{Table: "grades", Operation: OperationUpdate, ConflictKey: "seq", Payload: json.RawMessage(`{"seq": 17}`)}
	v, err = m.MatchValue()
	require.NoError(t, err)
	assert.Equal(t, "seq", m.MatchColumn())
	assert.Equal(t, "17", v)

	m = &QueuedMutation{Table: "grades", Operation: OperationUpdate, Payload: json.RawMessage(`{"seq": 17}`)}
	_, err = m.MatchValue()
	assert.Error(t, err)
}

func TestQueuedMutation_IsAtRest(t *testing.T) {
	assert.True(t, (&QueuedMutation{Status: StatusPending}).IsAtRest())
	assert.True(t, (&QueuedMutation{Status: StatusFailed}).IsAtRest())
	assert.False(t, (&QueuedMutation{Status: StatusSyncing}).IsAtRest())
	assert.False(t, (&QueuedMutation{Status: StatusSucceeded}).IsAtRest())
}

func TestQueuedMutation_Clone(t *testing.T) {
	now := time.Now()
	m := &QueuedMutation{
		ID:            7,
		Table:         "grades",
		Operation:     OperationInsert,
		Payload:       json.RawMessage(`{"id":"g1"}`),
		LastAttemptAt: &now,
	}

	c := m.Clone()
	require.Equal(t, m, c)

	c.Payload[2] = 'X'
	later := now.Add(time.Hour)
	*c.LastAttemptAt = later

	assert.Equal(t, `{"id":"g1"}`, string(m.Payload))
	assert.Equal(t, now, *m.LastAttemptAt)
}

func TestQueueCounts_Total(t *testing.T) {
	assert.Equal(t, 5, QueueCounts{Pending: 3, Failed: 2}.Total())
}

func TestSyncProgress_Remaining(t *testing.T) {
	assert.Equal(t, 2, SyncProgress{Total: 5, Processed: 3}.Remaining())
	assert.Equal(t, 0, SyncProgress{Total: 3, Processed: 3}.Remaining())
	assert.Equal(t, 0, SyncProgress{}.Remaining())
}

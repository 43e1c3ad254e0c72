package sqlite

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/iudanet/schoolsync/internal/models"
	"github.com/iudanet/schoolsync/internal/server/storage"
)

// matchExpr сравнивает значение колонки JSON-строки с текстом фильтра.
// ?1 имя таблицы, ?2 JSON path колонки, ?3 значение.
// json_extract отдает true/false как 1/0, поэтому bool сравниваются по json_type.
const matchExpr = `table_name = ?1 AND (CASE json_type(data, ?2)
	WHEN 'true' THEN 'true'
	WHEN 'false' THEN 'false'
	ELSE CAST(json_extract(data, ?2) AS TEXT) END) = ?3`

// querier общий интерфейс *sql.DB и *sql.Tx
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type row struct {
	fields map[string]json.RawMessage
	key    string
}

// Apply применяет запись и журналирует ее Idempotency-Key в одной транзакции
func (s *Storage) Apply(ctx context.Context, w *storage.Write) (*storage.WriteResult, error) {
	if w == nil {
		return nil, fmt.Errorf("%w: write is nil", storage.ErrInvalidPayload)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if w.IdempotencyKey != "" {
		res, err := appliedResult(ctx, tx, w.IdempotencyKey)
		if err == nil {
			return res, nil
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("failed to check idempotency key: %w", err)
		}
	}

	var res *storage.WriteResult
	switch w.Operation {
	case models.OperationInsert:
		res, err = s.insert(ctx, tx, w)
	case models.OperationUpsert:
		res, err = s.upsert(ctx, tx, w)
	case models.OperationUpdate:
		res, err = s.update(ctx, tx, w)
	case models.OperationDelete:
		res, err = s.delete(ctx, tx, w)
	default:
		err = fmt.Errorf("%w: unsupported operation %q", storage.ErrInvalidPayload, w.Operation)
	}
	if err != nil {
		return nil, err
	}

	if w.IdempotencyKey != "" {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO applied_mutations (
				idempotency_key, table_name, operation, row_key, affected, status, applied_at
			) VALUES (?, ?, ?, ?, ?, 'applied', ?)
		`, w.IdempotencyKey, w.Table, string(w.Operation), res.Key, res.Affected, s.now().Unix())
		if err != nil {
			return nil, fmt.Errorf("failed to record idempotency key: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return res, nil
}

// List возвращает строки таблицы в порядке вставки
func (s *Storage) List(ctx context.Context, table string, filter storage.Filter) ([]json.RawMessage, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = -1
	}

	var (
		rows *sql.Rows
		err  error
	)
	if filter.Column != "" {
		rows, err = s.db.QueryContext(ctx,
			`SELECT data FROM table_rows WHERE `+matchExpr+` ORDER BY rowid LIMIT ?4`,
			table, jsonPath(filter.Column), filter.Value, limit)
	} else {
		rows, err = s.db.QueryContext(ctx,
			`SELECT data FROM table_rows WHERE table_name = ? ORDER BY rowid LIMIT ?`,
			table, limit)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query rows: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	result := make([]json.RawMessage, 0)
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		result = append(result, json.RawMessage(data))
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return result, nil
}

func (s *Storage) insert(ctx context.Context, q querier, w *storage.Write) (*storage.WriteResult, error) {
	fields, err := decodeObject(w.Payload)
	if err != nil {
		return nil, err
	}

	key, ok := textValue(fields[storage.RowKeyColumn])
	if !ok {
		key = uuid.New().String()
		fields[storage.RowKeyColumn], _ = json.Marshal(key)
	}

	var exists int
	err = q.QueryRowContext(ctx,
		`SELECT 1 FROM table_rows WHERE table_name = ? AND row_key = ?`, w.Table, key,
	).Scan(&exists)
	switch {
	case err == nil:
		return nil, fmt.Errorf("%w: %s %s=%s", storage.ErrConflict, w.Table, storage.RowKeyColumn, key)
	case !errors.Is(err, sql.ErrNoRows):
		return nil, fmt.Errorf("failed to check existing row: %w", err)
	}

	data, err := json.Marshal(fields)
	if err != nil {
		return nil, fmt.Errorf("failed to encode row: %w", err)
	}

	now := s.now().Unix()
	_, err = q.ExecContext(ctx, `
		INSERT INTO table_rows (table_name, row_key, data, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
	`, w.Table, key, string(data), now, now)
	if err != nil {
		return nil, fmt.Errorf("failed to insert row: %w", err)
	}

	return &storage.WriteResult{Key: key, Affected: 1}, nil
}

// upsert сливает поля в строки с тем же значением колонки конфликта
// или вставляет новую строку
func (s *Storage) upsert(ctx context.Context, q querier, w *storage.Write) (*storage.WriteResult, error) {
	fields, err := decodeObject(w.Payload)
	if err != nil {
		return nil, err
	}

	column := w.Column
	if column == "" {
		column = storage.RowKeyColumn
	}
	value, ok := textValue(fields[column])
	if !ok {
		return nil, fmt.Errorf("%w: upsert on %s requires %q in payload", storage.ErrInvalidPayload, w.Table, column)
	}

	matched, err := matchingRows(ctx, q, w.Table, column, value)
	if err != nil {
		return nil, err
	}
	if len(matched) == 0 {
		return s.insert(ctx, q, w)
	}

	if err := s.mergeRows(ctx, q, w.Table, matched, fields); err != nil {
		return nil, err
	}
	return &storage.WriteResult{Key: matched[0].key, Affected: len(matched)}, nil
}

func (s *Storage) update(ctx context.Context, q querier, w *storage.Write) (*storage.WriteResult, error) {
	if w.Column == "" {
		return nil, fmt.Errorf("%w: update requires a filter", storage.ErrInvalidPayload)
	}
	fields, err := decodeObject(w.Payload)
	if err != nil {
		return nil, err
	}

	matched, err := matchingRows(ctx, q, w.Table, w.Column, w.Value)
	if err != nil {
		return nil, err
	}
	if len(matched) == 0 {
		return nil, fmt.Errorf("%w: %s where %s=%s", storage.ErrRowNotFound, w.Table, w.Column, w.Value)
	}

	if err := s.mergeRows(ctx, q, w.Table, matched, fields); err != nil {
		return nil, err
	}
	return &storage.WriteResult{Key: w.Value, Affected: len(matched)}, nil
}

func (s *Storage) delete(ctx context.Context, q querier, w *storage.Write) (*storage.WriteResult, error) {
	if w.Column == "" {
		return nil, fmt.Errorf("%w: delete requires a filter", storage.ErrInvalidPayload)
	}

	res, err := q.ExecContext(ctx,
		`DELETE FROM table_rows WHERE `+matchExpr,
		w.Table, jsonPath(w.Column), w.Value)
	if err != nil {
		return nil, fmt.Errorf("failed to delete rows: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return nil, fmt.Errorf("%w: %s where %s=%s", storage.ErrRowNotFound, w.Table, w.Column, w.Value)
	}

	return &storage.WriteResult{Key: w.Value, Affected: int(affected)}, nil
}

// mergeRows перезаписывает переданные поля поверх строк. Ключ строки не меняется.
func (s *Storage) mergeRows(ctx context.Context, q querier, table string, matched []row, fields map[string]json.RawMessage) error {
	now := s.now().Unix()
	for _, r := range matched {
		for k, v := range fields {
			if k == storage.RowKeyColumn {
				continue
			}
			r.fields[k] = v
		}

		data, err := json.Marshal(r.fields)
		if err != nil {
			return fmt.Errorf("failed to encode row: %w", err)
		}

		_, err = q.ExecContext(ctx,
			`UPDATE table_rows SET data = ?, updated_at = ? WHERE table_name = ? AND row_key = ?`,
			string(data), now, table, r.key)
		if err != nil {
			return fmt.Errorf("failed to update row: %w", err)
		}
	}
	return nil
}

func matchingRows(ctx context.Context, q querier, table, column, value string) ([]row, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT row_key, data FROM table_rows WHERE `+matchExpr+` ORDER BY rowid`,
		table, jsonPath(column), value)
	if err != nil {
		return nil, fmt.Errorf("failed to query rows: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var matched []row
	for rows.Next() {
		var (
			key  string
			data string
		)
		if err := rows.Scan(&key, &data); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		fields, err := decodeObject(json.RawMessage(data))
		if err != nil {
			return nil, fmt.Errorf("stored row %s/%s is corrupt: %w", table, key, err)
		}
		matched = append(matched, row{key: key, fields: fields})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return matched, nil
}

func appliedResult(ctx context.Context, q querier, idempotencyKey string) (*storage.WriteResult, error) {
	res := &storage.WriteResult{Replayed: true}
	err := q.QueryRowContext(ctx,
		`SELECT row_key, affected FROM applied_mutations WHERE idempotency_key = ?`, idempotencyKey,
	).Scan(&res.Key, &res.Affected)
	if err != nil {
		return nil, err
	}
	return res, nil
}

func decodeObject(payload json.RawMessage) (map[string]json.RawMessage, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(payload, &fields); err != nil || fields == nil {
		return nil, fmt.Errorf("%w: body must be a JSON object", storage.ErrInvalidPayload)
	}
	return fields, nil
}

// textValue приводит JSON значение к тексту фильтра: строки без кавычек,
// числа и bool как есть. null и отсутствующее значение не годятся.
func textValue(raw json.RawMessage) (string, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, s != ""
	}
	if raw[0] == '{' || raw[0] == '[' {
		return "", false
	}
	return string(raw), true
}

func jsonPath(column string) string {
	return "$." + strings.TrimSpace(column)
}

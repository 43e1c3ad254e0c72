package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/iudanet/schoolsync/internal/models"
	"github.com/iudanet/schoolsync/internal/server/auth"
	"github.com/iudanet/schoolsync/internal/server/storage"
	"github.com/iudanet/schoolsync/internal/validation"
	"github.com/iudanet/schoolsync/pkg/api"
)

const (
	maxBodyBytes           = 1 << 20
	maxIdempotencyKeyBytes = 128
	queryLimit             = "limit"
)

// RestHandler обслуживает табличные ресурсы /rest/v1/{table}
// в PostgREST-совместимом подмножестве:
//
//	POST   вставка, с Prefer: resolution=merge-duplicates upsert по ?on_conflict=
//	PATCH  обновление строк по фильтру ?{col}=eq.{value}
//	DELETE удаление строк по фильтру
//	GET    чтение строк, фильтр и ?limit= необязательны
type RestHandler struct {
	logger  *slog.Logger
	storage storage.RowStorage
}

// NewRestHandler creates a new table resource handler
func NewRestHandler(logger *slog.Logger, rows storage.RowStorage) *RestHandler {
	return &RestHandler{
		logger:  logger,
		storage: rows,
	}
}

// ServeHTTP разбирает имя таблицы и маршрутизирует по методу
func (h *RestHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	table := strings.TrimPrefix(r.URL.Path, api.RestPrefix)
	if table == "" || strings.Contains(table, "/") {
		WriteError(w, http.StatusNotFound, api.ErrCodeNotFound, "unknown resource")
		return
	}
	if err := validation.ValidateTableName(table); err != nil {
		WriteError(w, http.StatusBadRequest, api.ErrCodeInvalidRequest, err.Error())
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.handleList(w, r, table)
	case http.MethodPost:
		h.handlePost(w, r, table)
	case http.MethodPatch:
		h.handleFiltered(w, r, table, models.OperationUpdate)
	case http.MethodDelete:
		h.handleFiltered(w, r, table, models.OperationDelete)
	default:
		w.Header().Set("Allow", "GET, POST, PATCH, DELETE")
		WriteError(w, http.StatusMethodNotAllowed, api.ErrCodeMethodNotAllowed, fmt.Sprintf("method %s is not supported", r.Method))
	}
}

// handlePost обрабатывает insert и upsert
func (h *RestHandler) handlePost(w http.ResponseWriter, r *http.Request, table string) {
	key, ok := h.idempotencyKey(w, r)
	if !ok {
		return
	}
	payload, ok := h.readBody(w, r)
	if !ok {
		return
	}

	write := &storage.Write{
		Table:          table,
		Operation:      models.OperationInsert,
		Payload:        payload,
		IdempotencyKey: key,
	}

	if preferMergeDuplicates(r.Header) {
		write.Operation = models.OperationUpsert
		write.Column = r.URL.Query().Get(api.QueryOnConflict)
		if write.Column != "" {
			if err := validation.ValidateColumnName(write.Column); err != nil {
				WriteError(w, http.StatusBadRequest, api.ErrCodeInvalidRequest, fmt.Sprintf("on_conflict: %v", err))
				return
			}
		}
	}

	h.apply(w, r, write, http.StatusCreated)
}

// handleFiltered обрабатывает update и delete по фильтру равенства
func (h *RestHandler) handleFiltered(w http.ResponseWriter, r *http.Request, table string, op models.Operation) {
	column, value, err := parseFilter(r.URL.Query())
	if err != nil {
		WriteError(w, http.StatusBadRequest, api.ErrCodeInvalidRequest, err.Error())
		return
	}
	if column == "" {
		WriteError(w, http.StatusBadRequest, api.ErrCodeInvalidRequest, fmt.Sprintf("%s requires a filter like ?id=eq.<value>", op))
		return
	}

	key, ok := h.idempotencyKey(w, r)
	if !ok {
		return
	}

	write := &storage.Write{
		Table:          table,
		Operation:      op,
		Column:         column,
		Value:          value,
		IdempotencyKey: key,
	}

	if op == models.OperationUpdate {
		payload, ok := h.readBody(w, r)
		if !ok {
			return
		}
		write.Payload = payload
	}

	h.apply(w, r, write, http.StatusOK)
}

func (h *RestHandler) handleList(w http.ResponseWriter, r *http.Request, table string) {
	query := r.URL.Query()

	column, value, err := parseFilter(query)
	if err != nil {
		WriteError(w, http.StatusBadRequest, api.ErrCodeInvalidRequest, err.Error())
		return
	}

	filter := storage.Filter{Column: column, Value: value}
	if raw := query.Get(queryLimit); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			WriteError(w, http.StatusBadRequest, api.ErrCodeInvalidRequest, "limit must be a non-negative integer")
			return
		}
		filter.Limit = limit
	}

	rows, err := h.storage.List(r.Context(), table, filter)
	if err != nil {
		h.logger.Error("Failed to list rows", "table", table, "error", err)
		WriteError(w, http.StatusInternalServerError, api.ErrCodeInternal, "failed to read rows")
		return
	}

	if err := WriteJSON(w, http.StatusOK, rows); err != nil {
		h.logger.Error("Failed to encode response", "error", err)
	}
}

func (h *RestHandler) apply(w http.ResponseWriter, r *http.Request, write *storage.Write, successStatus int) {
	res, err := h.storage.Apply(r.Context(), write)
	if err != nil {
		status, code := statusFromError(err)
		if status >= http.StatusInternalServerError {
			h.logger.Error("Failed to apply mutation",
				"table", write.Table,
				"operation", write.Operation,
				"error", err,
			)
			WriteError(w, status, code, "failed to apply mutation")
			return
		}
		h.logger.Info("Mutation rejected",
			"table", write.Table,
			"operation", write.Operation,
			"status", status,
			"error", err,
		)
		WriteError(w, status, code, err.Error())
		return
	}

	attrs := []any{
		"table", write.Table,
		"operation", write.Operation,
		"key", res.Key,
		"affected", res.Affected,
		"replayed", res.Replayed,
	}
	if claims, ok := auth.ClaimsFromContext(r.Context()); ok {
		attrs = append(attrs, "subject", claims.Subject)
	}
	h.logger.Info("Mutation applied", attrs...)

	status := successStatus
	if res.Replayed {
		status = http.StatusOK
	}

	resp := api.MutationResponse{
		Table:    write.Table,
		Key:      res.Key,
		Affected: res.Affected,
		Replayed: res.Replayed,
	}
	if err := WriteJSON(w, status, resp); err != nil {
		h.logger.Error("Failed to encode response", "error", err)
	}
}

func (h *RestHandler) readBody(w http.ResponseWriter, r *http.Request) (json.RawMessage, bool) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			WriteError(w, http.StatusRequestEntityTooLarge, api.ErrCodeInvalidPayload, fmt.Sprintf("body exceeds %d bytes", maxBodyBytes))
			return nil, false
		}
		h.logger.Warn("Failed to read request body", "error", err)
		WriteError(w, http.StatusBadRequest, api.ErrCodeInvalidRequest, "failed to read body")
		return nil, false
	}

	if !json.Valid(body) {
		WriteError(w, http.StatusBadRequest, api.ErrCodeInvalidPayload, "body must be a JSON object")
		return nil, false
	}

	return json.RawMessage(body), true
}

func (h *RestHandler) idempotencyKey(w http.ResponseWriter, r *http.Request) (string, bool) {
	key := strings.TrimSpace(r.Header.Get(api.HeaderIdempotencyKey))
	if len(key) > maxIdempotencyKeyBytes {
		WriteError(w, http.StatusBadRequest, api.ErrCodeInvalidRequest, fmt.Sprintf("%s exceeds %d bytes", api.HeaderIdempotencyKey, maxIdempotencyKeyBytes))
		return "", false
	}
	return key, true
}

// parseFilter ищет единственный фильтр вида ?{col}=eq.{value}.
// Служебные параметры limit и on_conflict фильтрами не считаются.
func parseFilter(query url.Values) (string, string, error) {
	var column, value string
	for name, values := range query {
		if name == queryLimit || name == api.QueryOnConflict {
			continue
		}
		if column != "" || len(values) != 1 {
			return "", "", errors.New("only a single eq filter is supported")
		}
		if err := validation.ValidateColumnName(name); err != nil {
			return "", "", fmt.Errorf("filter: %w", err)
		}
		v, ok := strings.CutPrefix(values[0], api.FilterEqPrefix)
		if !ok {
			return "", "", fmt.Errorf("filter %s: only the eq. operator is supported", name)
		}
		column, value = name, v
	}
	return column, value, nil
}

func preferMergeDuplicates(h http.Header) bool {
	for _, v := range h.Values(api.HeaderPrefer) {
		for _, part := range strings.Split(v, ",") {
			if strings.TrimSpace(part) == api.PreferMergeDuplicates {
				return true
			}
		}
	}
	return false
}

func statusFromError(err error) (int, string) {
	switch {
	case errors.Is(err, storage.ErrInvalidPayload):
		return http.StatusBadRequest, api.ErrCodeInvalidPayload
	case errors.Is(err, storage.ErrConflict):
		return http.StatusConflict, api.ErrCodeConflict
	case errors.Is(err, storage.ErrRowNotFound):
		return http.StatusNotFound, api.ErrCodeNotFound
	default:
		return http.StatusInternalServerError, api.ErrCodeInternal
	}
}

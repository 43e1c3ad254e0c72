package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/iudanet/schoolsync/pkg/api"
)

// WriteJSON отправляет v как JSON с кодом status
func WriteJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set(api.HeaderContentType, api.ContentTypeJSON)
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}

// WriteError отправляет api.ErrorResponse. Ошибку записи игнорируем:
// клиент уже отключился, ответить ему нечем.
func WriteError(w http.ResponseWriter, status int, code, message string) {
	_ = WriteJSON(w, status, api.ErrorResponse{Error: code, Message: message})
}

package api

// Пути и заголовки REST API сервиса данных
const (
	// RestPrefix префикс табличных ресурсов: /rest/v1/{table}
	RestPrefix = "/rest/v1/"
	// HealthPath путь проверки доступности сервиса
	HealthPath = "/health"

	HeaderAuthorization  = "Authorization"
	HeaderContentType    = "Content-Type"
	HeaderIdempotencyKey = "Idempotency-Key"
	HeaderPrefer         = "Prefer"

	// PreferMergeDuplicates включает upsert по колонке on_conflict
	PreferMergeDuplicates = "resolution=merge-duplicates"
	// PreferReturnRepresentation просит вернуть записанную строку
	PreferReturnRepresentation = "return=representation"

	// QueryOnConflict параметр колонки конфликта для upsert
	QueryOnConflict = "on_conflict"
	// FilterEqPrefix префикс фильтра равенства: ?{col}=eq.{value}
	FilterEqPrefix = "eq."

	ContentTypeJSON = "application/json"
)

// Машинные коды ErrorResponse.Error
const (
	ErrCodeInvalidRequest   = "invalid_request"
	ErrCodeInvalidPayload   = "invalid_payload"
	ErrCodeConflict         = "conflict"
	ErrCodeNotFound         = "not_found"
	ErrCodeUnauthorized     = "unauthorized"
	ErrCodeRateLimited      = "rate_limited"
	ErrCodeMethodNotAllowed = "method_not_allowed"
	ErrCodeInternal         = "internal_error"
	ErrCodeUnavailable      = "unavailable"
)

// ErrorResponse представляет ответ с ошибкой
type ErrorResponse struct {
	Error   string `json:"error"`             // код ошибки
	Message string `json:"message,omitempty"` // дополнительное сообщение
}

// HealthResponse представляет ответ на проверку доступности
type HealthResponse struct {
	Status  string `json:"status"`            // "ok" или "degraded"
	Time    string `json:"time"`              // время сервера в RFC3339
	Version string `json:"version,omitempty"` // версия сервера
}

// MutationResponse подтверждает применение мутации сервером
type MutationResponse struct {
	Table    string `json:"table"`
	Key      string `json:"key,omitempty"`      // значение колонки совпадения
	Affected int    `json:"affected"`           // число затронутых строк
	Replayed bool   `json:"replayed,omitempty"` // Idempotency-Key уже применялся
}

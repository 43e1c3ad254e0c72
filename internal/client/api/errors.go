package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// ErrUnreachable оборачивает ошибки транспорта: DNS, отказ соединения, обрыв
var ErrUnreachable = errors.New("remote data service unreachable")

// StatusError ответ сервера с кодом вне 2xx
type StatusError struct {
	Code       string // машинный код из тела ответа, если есть
	Message    string
	StatusCode int
}

func (e *StatusError) Error() string {
	switch {
	case e.Code != "" && e.Message != "":
		return fmt.Sprintf("server error (%d): %s: %s", e.StatusCode, e.Code, e.Message)
	case e.Message != "":
		return fmt.Sprintf("server error (%d): %s", e.StatusCode, e.Message)
	case e.Code != "":
		return fmt.Sprintf("server error (%d): %s", e.StatusCode, e.Code)
	default:
		return fmt.Sprintf("server error (%d): %s", e.StatusCode, http.StatusText(e.StatusCode))
	}
}

// Transient сообщает, может ли повтор того же запроса пройти успешно
func (e *StatusError) Transient() bool {
	switch {
	case e.StatusCode == http.StatusRequestTimeout,
		e.StatusCode == http.StatusTooManyRequests,
		e.StatusCode >= 500:
		return true
	default:
		return false
	}
}

// IsTransient классифицирует ошибку удаленного вызова.
// Сетевые ошибки, таймауты, 408, 429 и 5xx временные; остальные 4xx
// постоянные: повтор с тем же телом их не исправит.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}

	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Transient()
	}

	if errors.Is(err, context.Canceled) {
		return false
	}

	return errors.Is(err, ErrUnreachable) || errors.Is(err, context.DeadlineExceeded)
}

// StatusCode возвращает HTTP код из ошибки или 0
func StatusCode(err error) int {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode
	}
	return 0
}

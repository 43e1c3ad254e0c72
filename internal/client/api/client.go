package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/iudanet/schoolsync/internal/models"
	"github.com/iudanet/schoolsync/pkg/api"
)

const defaultTimeout = 30 * time.Second

//go:generate moq -out client_mock.go . ClientAPI

// ClientAPI определяет операции удаленного сервиса данных, нужные очереди
type ClientAPI interface {
	// Execute применяет одну мутацию на сервере
	Execute(ctx context.Context, accessToken string, m *models.QueuedMutation) error

	// Health проверяет доступность сервиса
	Health(ctx context.Context) error
}

// Client представляет HTTP клиент для взаимодействия с сервером
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// ClientOption настраивает Client
type ClientOption func(*Client)

// WithTimeout задает общий таймаут HTTP запроса
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithHTTPClient подменяет HTTP клиент (тесты, кастомный transport)
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// NewClient создает новый API клиент
func NewClient(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: defaultTimeout,
			// Настройка обработки редиректов
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				// Ограничиваем количество редиректов
				if len(via) >= 10 {
					return fmt.Errorf("stopped after 10 redirects")
				}
				// Копируем заголовки Authorization при редиректе
				if len(via) > 0 && via[0].Header.Get(api.HeaderAuthorization) != "" {
					req.Header.Set(api.HeaderAuthorization, via[0].Header.Get(api.HeaderAuthorization))
				}
				return nil
			},
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Execute отправляет мутацию в табличный ресурс сервиса.
// Каждый запрос несет Idempotency-Key, поэтому повтор после обрыва
// связи сервер подтверждает без повторного применения.
func (c *Client) Execute(ctx context.Context, accessToken string, m *models.QueuedMutation) error {
	if m == nil {
		return fmt.Errorf("mutation is nil")
	}
	if err := m.Validate(); err != nil {
		return fmt.Errorf("invalid mutation: %w", err)
	}

	path := api.RestPrefix + url.PathEscape(m.Table)
	query := url.Values{}
	headers := http.Header{}
	if m.IdempotencyKey != "" {
		headers.Set(api.HeaderIdempotencyKey, m.IdempotencyKey)
	}

	var (
		method string
		body   []byte
	)

	switch m.Operation {
	case models.OperationInsert:
		method = http.MethodPost
		body = m.Payload
	case models.OperationUpsert:
		method = http.MethodPost
		body = m.Payload
		query.Set(api.QueryOnConflict, m.MatchColumn())
		headers.Set(api.HeaderPrefer, api.PreferMergeDuplicates)
	case models.OperationUpdate, models.OperationDelete:
		value, err := m.MatchValue()
		if err != nil {
			return fmt.Errorf("invalid mutation: %w", err)
		}
		query.Set(m.MatchColumn(), api.FilterEqPrefix+value)
		if m.Operation == models.OperationUpdate {
			method = http.MethodPatch
			body = m.Payload
		} else {
			method = http.MethodDelete
		}
	default:
		return fmt.Errorf("unsupported operation %q", m.Operation)
	}

	if encoded := query.Encode(); encoded != "" {
		path += "?" + encoded
	}

	if err := c.doRequest(ctx, method, path, accessToken, headers, body, nil); err != nil {
		return fmt.Errorf("%s %s request failed: %w", m.Operation, m.Table, err)
	}
	return nil
}

// Health проверяет доступность сервиса через GET /health
func (c *Client) Health(ctx context.Context) error {
	var resp api.HealthResponse
	if err := c.doRequest(ctx, http.MethodGet, api.HealthPath, "", nil, nil, &resp); err != nil {
		return fmt.Errorf("health request failed: %w", err)
	}
	return nil
}

// doRequest выполняет HTTP запрос
func (c *Client) doRequest(ctx context.Context, method, path, accessToken string, headers http.Header, body []byte, result any) error {
	var bodyReader io.Reader
	if body != nil {
		bodyReader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	for k, vals := range headers {
		for _, v := range vals {
			req.Header.Add(k, v)
		}
	}
	if body != nil {
		req.Header.Set(api.HeaderContentType, api.ContentTypeJSON)
	}
	if accessToken != "" {
		req.Header.Set(api.HeaderAuthorization, "Bearer "+accessToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// Отмену вызывающей стороной не выдаем за недоступность сервера
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%w: %w", ErrUnreachable, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	// Читаем тело ответа
	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: failed to read response body: %w", ErrUnreachable, err)
	}

	// Проверяем статус код
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		statusErr := &StatusError{StatusCode: resp.StatusCode}
		var errResp api.ErrorResponse
		if err := json.Unmarshal(respBody, &errResp); err == nil && (errResp.Error != "" || errResp.Message != "") {
			statusErr.Code = errResp.Error
			statusErr.Message = errResp.Message
		} else {
			statusErr.Message = strings.TrimSpace(string(respBody))
		}
		return statusErr
	}

	// Декодируем успешный ответ
	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

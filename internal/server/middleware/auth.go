package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/iudanet/schoolsync/internal/server/auth"
	"github.com/iudanet/schoolsync/internal/server/handlers"
	"github.com/iudanet/schoolsync/pkg/api"
)

// TokenValidator проверяет bearer токен запроса
type TokenValidator interface {
	Validate(token string) (*auth.Claims, error)
}

// AuthMiddleware создает middleware для проверки JWT токена.
// Claims проверенного токена доступны обработчикам через auth.ClaimsFromContext.
func AuthMiddleware(logger *slog.Logger, validator TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get(api.HeaderAuthorization)
			if authHeader == "" {
				logger.Warn("Missing Authorization header", "path", r.URL.Path)
				unauthorized(w, "missing bearer token")
				return
			}

			// Ожидаем формат: "Bearer <token>"
			scheme, token, ok := strings.Cut(authHeader, " ")
			token = strings.TrimSpace(token)
			if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" {
				logger.Warn("Invalid Authorization header format", "path", r.URL.Path)
				unauthorized(w, "authorization header must be: Bearer <token>")
				return
			}

			claims, err := validator.Validate(token)
			if err != nil {
				logger.Warn("Invalid access token", "path", r.URL.Path, "error", err)
				unauthorized(w, "invalid or expired token")
				return
			}

			logger.Debug("Request authenticated", "subject", claims.Subject, "role", claims.Role)

			next.ServeHTTP(w, r.WithContext(auth.WithClaims(r.Context(), claims)))
		})
	}
}

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("WWW-Authenticate", `Bearer realm="schoolsync"`)
	handlers.WriteError(w, http.StatusUnauthorized, api.ErrCodeUnauthorized, message)
}

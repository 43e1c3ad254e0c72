package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/iudanet/schoolsync/internal/config"
	"github.com/iudanet/schoolsync/internal/server/handlers"
	"github.com/iudanet/schoolsync/internal/server/middleware"
	"github.com/iudanet/schoolsync/internal/server/storage"
	"github.com/iudanet/schoolsync/pkg/api"
)

// Deps зависимости HTTP роутера
type Deps struct {
	Logger  *slog.Logger
	Rows    storage.RowStorage
	Tokens  middleware.TokenValidator
	Limiter *middleware.RateLimiter
	Version string
}

// NewRouter собирает маршруты сервиса данных.
// /health открыт и не лимитируется: его опрашивает наблюдатель сети клиента.
// Табличные ресурсы требуют bearer токен и проходят rate limit.
func NewRouter(deps Deps) http.Handler {
	health := handlers.NewHealthHandler(deps.Logger, deps.Rows, deps.Version)
	rest := handlers.NewRestHandler(deps.Logger, deps.Rows)

	var restChain http.Handler = rest
	restChain = middleware.AuthMiddleware(deps.Logger, deps.Tokens)(restChain)
	if deps.Limiter != nil {
		restChain = middleware.RateLimitMiddleware(deps.Limiter, deps.Logger)(restChain)
	}

	mux := http.NewServeMux()
	mux.HandleFunc(api.HealthPath, health.Health)
	mux.Handle(api.RestPrefix, restChain)
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		handlers.WriteError(w, http.StatusNotFound, api.ErrCodeNotFound, "unknown resource")
	})

	var handler http.Handler = mux
	handler = middleware.RecoveryMiddleware(deps.Logger)(handler)
	handler = middleware.LoggingMiddleware(deps.Logger, api.HealthPath)(handler)
	return handler
}

// Server HTTP сервер сервиса данных с graceful shutdown
type Server struct {
	httpServer      *http.Server
	logger          *slog.Logger
	limiter         *middleware.RateLimiter
	shutdownTimeout time.Duration
}

// New создает сервер по настройкам [server]
func New(cfg *config.Config, logger *slog.Logger, rows storage.RowStorage, tokens middleware.TokenValidator, version string) *Server {
	limiter := middleware.NewRateLimiter(cfg.Server.RateLimit, cfg.Server.RateBurst, logger)

	handler := NewRouter(Deps{
		Logger:  logger,
		Rows:    rows,
		Tokens:  tokens,
		Limiter: limiter,
		Version: version,
	})

	return &Server{
		httpServer: &http.Server{
			Addr:              cfg.Server.Bind,
			Handler:           handler,
			ReadTimeout:       cfg.ReadTimeout(),
			ReadHeaderTimeout: cfg.ReadTimeout(),
			WriteTimeout:      cfg.WriteTimeout(),
			ErrorLog:          slog.NewLogLogger(logger.Handler(), slog.LevelWarn),
		},
		logger:          logger,
		limiter:         limiter,
		shutdownTimeout: cfg.ShutdownTimeout(),
	}
}

// Run слушает адрес из конфигурации до отмены ctx
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.httpServer.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve обслуживает ln до отмены ctx, затем дожидается активных запросов
// не дольше shutdownTimeout
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	defer s.limiter.Stop()

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Data service listening", "addr", ln.Addr().String())
		errCh <- s.httpServer.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("Shutting down data service", "timeout", s.shutdownTimeout)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve: %w", err)
	}
	return nil
}

package data

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/iudanet/schoolsync/internal/client/api"
	"github.com/iudanet/schoolsync/internal/client/storage"
	"github.com/iudanet/schoolsync/internal/models"
)

const defaultWriteTimeout = 15 * time.Second

//go:generate moq -out service_mock.go . Service

// Service записывает данные на удаленный сервис, а при недоступности
// сервиса кладет мутацию в локальную очередь
type Service interface {
	// Write отправляет мутацию или ставит ее в очередь
	Write(ctx context.Context, m *models.QueuedMutation) (*WriteResult, error)

	MarkAttendance(ctx context.Context, rec *models.AttendanceRecord) (*WriteResult, error)
	RecordGrade(ctx context.Context, grade *models.Grade) (*WriteResult, error)
	SaveStudent(ctx context.Context, student *models.StudentRecord) (*WriteResult, error)
	SendParentMessage(ctx context.Context, msg *models.ParentMessage) (*WriteResult, error)
}

// WriteResult итог записи
type WriteResult struct {
	Mutation *models.QueuedMutation // сохраненная в очереди копия, если Queued
	Err      error                  // временная ошибка, из-за которой запись ушла в очередь
	Queued   bool
}

// Connectivity сообщает текущее состояние сети
type Connectivity interface {
	Online() bool
}

// Options параметры Service
type Options struct {
	Logger       *slog.Logger
	Auth         storage.AuthStorage
	Connectivity Connectivity // nil: всегда пробуем сервер
	Timeout      time.Duration
}

// service handles client-side writes with offline fallback
type service struct {
	queue        storage.QueueStorage
	client       api.ClientAPI
	auth         storage.AuthStorage
	connectivity Connectivity
	logger       *slog.Logger
	timeout      time.Duration
}

// NewService creates a new data service
func NewService(queue storage.QueueStorage, client api.ClientAPI, opts Options) Service {
	s := &service{
		queue:        queue,
		client:       client,
		auth:         opts.Auth,
		connectivity: opts.Connectivity,
		logger:       opts.Logger,
		timeout:      opts.Timeout,
	}
	if s.logger == nil {
		s.logger = slog.New(slog.DiscardHandler)
	}
	if s.timeout <= 0 {
		s.timeout = defaultWriteTimeout
	}
	return s
}

// Write sends a mutation to the remote service or queues it. A mutation is
// queued without a network call when the client is offline or when earlier
// mutations are still waiting in the queue.
func (s *service) Write(ctx context.Context, m *models.QueuedMutation) (*WriteResult, error) {
	if m == nil {
		return nil, errors.New("mutation is nil")
	}
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("invalid mutation: %w", err)
	}
	if m.IdempotencyKey == "" {
		m.IdempotencyKey = uuid.NewString()
	}

	// Офлайн: сразу в очередь, сеть не трогаем
	if s.connectivity != nil && !s.connectivity.Online() {
		return s.enqueue(ctx, m, nil)
	}

	// Пока в очереди есть более ранние мутации, новая встает за ними:
	// сервер получает записи в порядке генерации
	counts, err := s.queue.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read queue: %w", err)
	}
	if backlog := counts.Total(); backlog > 0 {
		s.logger.Info("Earlier mutations are still queued, write queued behind them",
			"table", m.Table,
			"operation", m.Operation,
			"backlog", backlog)
		return s.enqueue(ctx, m, nil)
	}

	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	err = s.client.Execute(callCtx, s.accessToken(ctx), m)
	cancel()

	if err == nil {
		s.logger.Debug("Mutation applied", "table", m.Table, "operation", m.Operation)
		return &WriteResult{}, nil
	}

	// Отмена вызывающей стороной: запись не состоялась, в очередь не кладем
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	if !api.IsTransient(err) {
		// Повтор с тем же телом не поможет
		return nil, fmt.Errorf("write rejected: %w", err)
	}

	s.logger.Info("Remote write failed, queued for sync",
		"table", m.Table,
		"operation", m.Operation,
		"error", err)
	return s.enqueue(ctx, m, err)
}

// MarkAttendance upserts an attendance mark
func (s *service) MarkAttendance(ctx context.Context, rec *models.AttendanceRecord) (*WriteResult, error) {
	if rec == nil {
		return nil, errors.New("attendance record is nil")
	}
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	return s.writeRecord(ctx, models.OperationUpsert, rec)
}

// RecordGrade inserts a grade
func (s *service) RecordGrade(ctx context.Context, grade *models.Grade) (*WriteResult, error) {
	if grade == nil {
		return nil, errors.New("grade is nil")
	}
	if grade.ID == "" {
		grade.ID = uuid.NewString()
	}
	return s.writeRecord(ctx, models.OperationInsert, grade)
}

// SaveStudent upserts a student record by id
func (s *service) SaveStudent(ctx context.Context, student *models.StudentRecord) (*WriteResult, error) {
	if student == nil {
		return nil, errors.New("student record is nil")
	}
	if student.ID == "" {
		student.ID = uuid.NewString()
	}
	return s.writeRecord(ctx, models.OperationUpsert, student)
}

// SendParentMessage inserts a parent message
func (s *service) SendParentMessage(ctx context.Context, msg *models.ParentMessage) (*WriteResult, error) {
	if msg == nil {
		return nil, errors.New("parent message is nil")
	}
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	return s.writeRecord(ctx, models.OperationInsert, msg)
}

func (s *service) writeRecord(ctx context.Context, op models.Operation, rec models.Record) (*WriteResult, error) {
	m, err := models.NewMutation(op, rec, "")
	if err != nil {
		return nil, err
	}
	return s.Write(ctx, m)
}

func (s *service) enqueue(ctx context.Context, m *models.QueuedMutation, cause error) (*WriteResult, error) {
	stored, err := s.queue.Enqueue(ctx, m)
	if err != nil {
		return nil, fmt.Errorf("failed to queue mutation: %w", err)
	}
	return &WriteResult{Queued: true, Mutation: stored, Err: cause}, nil
}

func (s *service) accessToken(ctx context.Context) string {
	if s.auth == nil {
		return ""
	}
	auth, err := s.auth.GetAuth(ctx)
	if err != nil {
		return ""
	}
	return auth.AccessToken
}

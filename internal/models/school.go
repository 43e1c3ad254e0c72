package models

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/iudanet/schoolsync/internal/validation"
)

// Table names of the remote data service that have a typed payload.
const (
	TableAttendance     = "attendance"
	TableGrades         = "grades"
	TableStudents       = "students"
	TableParentMessages = "parent_messages"
)

// ErrUnknownTable is returned by DecodeRecord for tables without a typed payload.
var ErrUnknownTable = errors.New("no typed record for table")

// Record типизированная строка одной из школьных таблиц.
// Тип записи однозначно задает таблицу назначения.
type Record interface {
	TableName() string
}

// AttendanceRecord отметка посещаемости ученика за день
type AttendanceRecord struct {
	ID        string `json:"id" validate:"required"`
	StudentID string `json:"student_id" validate:"required"`
	ClassID   string `json:"class_id" validate:"required"`
	Date      string `json:"date" validate:"required,isodate"`
	Status    string `json:"status" validate:"required,attendance_status"`
	Note      string `json:"note,omitempty" validate:"max=500"`
}

func (AttendanceRecord) TableName() string { return TableAttendance }

// Grade оценка ученика по предмету за период
type Grade struct {
	ID        string  `json:"id" validate:"required"`
	StudentID string  `json:"student_id" validate:"required"`
	Subject   string  `json:"subject" validate:"required"`
	Term      string  `json:"term" validate:"required"`
	Comment   string  `json:"comment,omitempty" validate:"max=500"`
	Score     float64 `json:"score" validate:"gte=0,ltefield=MaxScore"`
	MaxScore  float64 `json:"max_score" validate:"gt=0,lte=100"`
}

func (Grade) TableName() string { return TableGrades }

// StudentRecord карточка ученика
type StudentRecord struct {
	ID            string `json:"id" validate:"required"`
	FirstName     string `json:"first_name" validate:"required"`
	LastName      string `json:"last_name" validate:"required"`
	ClassID       string `json:"class_id,omitempty"`
	GuardianEmail string `json:"guardian_email,omitempty" validate:"omitempty,email"`
}

func (StudentRecord) TableName() string { return TableStudents }

// ParentMessage сообщение родителю/опекуну
type ParentMessage struct {
	ID            string `json:"id" validate:"required"`
	StudentID     string `json:"student_id" validate:"required"`
	GuardianEmail string `json:"guardian_email" validate:"required,email"`
	Subject       string `json:"subject" validate:"required,max=200"`
	Body          string `json:"body" validate:"required"`
}

func (ParentMessage) TableName() string { return TableParentMessages }

// NewMutation validates rec and wraps it into a pending mutation for its table.
func NewMutation(op Operation, rec Record, conflictKey string) (*QueuedMutation, error) {
	if rec == nil {
		return nil, errors.New("record is nil")
	}
	// delete нужен только ключ, остальные поля могут быть пустыми
	if op != OperationDelete {
		if err := validation.Struct(rec); err != nil {
			return nil, fmt.Errorf("invalid %s record: %w", rec.TableName(), err)
		}
	}

	payload, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s record: %w", rec.TableName(), err)
	}

	return NewRawMutation(rec.TableName(), op, payload, conflictKey)
}

// DecodeRecord parses payload into the typed record registered for table.
func DecodeRecord(table string, payload json.RawMessage) (Record, error) {
	var rec Record
	switch table {
	case TableAttendance:
		rec = &AttendanceRecord{}
	case TableGrades:
		rec = &Grade{}
	case TableStudents:
		rec = &StudentRecord{}
	case TableParentMessages:
		rec = &ParentMessage{}
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownTable, table)
	}

	if err := json.Unmarshal(payload, rec); err != nil {
		return nil, fmt.Errorf("failed to unmarshal %s record: %w", table, err)
	}
	return rec, nil
}

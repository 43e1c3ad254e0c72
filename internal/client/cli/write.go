package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/iudanet/schoolsync/internal/client/data"
	"github.com/iudanet/schoolsync/internal/models"
)

// WriteArgs описывает произвольную мутацию из командной строки
type WriteArgs struct {
	Table       string
	Operation   string
	Payload     string
	ConflictKey string
}

func (c *Cli) runWrite(ctx context.Context, args WriteArgs) error {
	op, err := models.ParseOperation(strings.ToLower(strings.TrimSpace(args.Operation)))
	if err != nil {
		return err
	}

	payload := json.RawMessage(strings.TrimSpace(args.Payload))
	if !json.Valid(payload) {
		return fmt.Errorf("payload is not valid JSON")
	}

	// Для известных таблиц проверяем поля так же, как типизированные команды
	if op != models.OperationDelete {
		rec, err := models.DecodeRecord(args.Table, payload)
		if err == nil {
			if _, err := models.NewMutation(op, rec, args.ConflictKey); err != nil {
				return err
			}
		}
	}

	m, err := models.NewRawMutation(strings.TrimSpace(args.Table), op, payload, strings.TrimSpace(args.ConflictKey))
	if err != nil {
		return fmt.Errorf("invalid mutation: %w", err)
	}

	result, err := c.dataService.Write(ctx, m)
	if err != nil {
		return err
	}
	c.printWriteResult(m.Table, m.Operation, result)
	return nil
}

func (c *Cli) runAttendance(ctx context.Context, rec *models.AttendanceRecord) error {
	result, err := c.dataService.MarkAttendance(ctx, rec)
	if err != nil {
		return err
	}
	c.printWriteResult(rec.TableName(), models.OperationUpsert, result)
	return nil
}

func (c *Cli) runGrade(ctx context.Context, grade *models.Grade) error {
	result, err := c.dataService.RecordGrade(ctx, grade)
	if err != nil {
		return err
	}
	c.printWriteResult(grade.TableName(), models.OperationInsert, result)
	return nil
}

func (c *Cli) runStudent(ctx context.Context, student *models.StudentRecord) error {
	result, err := c.dataService.SaveStudent(ctx, student)
	if err != nil {
		return err
	}
	c.printWriteResult(student.TableName(), models.OperationUpsert, result)
	return nil
}

func (c *Cli) runMessage(ctx context.Context, msg *models.ParentMessage) error {
	result, err := c.dataService.SendParentMessage(ctx, msg)
	if err != nil {
		return err
	}
	c.printWriteResult(msg.TableName(), models.OperationInsert, result)
	return nil
}

func (c *Cli) printWriteResult(table string, op models.Operation, result *data.WriteResult) {
	if result == nil || !result.Queued {
		c.io.Printf("✓ %s on %s applied\n", op, table)
		return
	}

	id := uint64(0)
	if result.Mutation != nil {
		id = result.Mutation.ID
	}
	if result.Err != nil {
		c.io.Printf("⚠️  Server unavailable (%v)\n", result.Err)
	} else {
		c.io.Println("⚠️  Offline")
	}
	c.io.Printf("Queued %s on %s as #%d; it will be sent on the next sync.\n", op, table, id)
}

package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/iudanet/schoolsync/internal/client/storage"
	"github.com/iudanet/schoolsync/internal/models"
)

const maxErrorWidth = 48

// queueColumns числовые колонки выравниваются вправо, заголовки влево
var queueColumns = []table.ColumnConfig{
	{Name: "ID", Align: text.AlignRight, AlignHeader: text.AlignLeft},
	{Name: "Attempts", Align: text.AlignRight, AlignHeader: text.AlignLeft},
}

// renderQueue рисует очередь таблицей в порядке генерации
func renderQueue(items []*models.QueuedMutation, now time.Time) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"ID", "Table", "Operation", "Status", "Attempts", "Queued", "Error"})
	for _, m := range items {
		tw.AppendRow(table.Row{
			m.ID,
			m.Table,
			string(m.Operation),
			string(m.Status),
			m.Attempts,
			humanize.RelTime(m.CreatedAt, now, "ago", "from now"),
			truncate(m.Error, maxErrorWidth),
		})
	}
	tw.SetColumnConfigs(queueColumns)
	return tw.Render()
}

func (c *Cli) runQueueList(ctx context.Context, failedOnly bool) error {
	var (
		items []*models.QueuedMutation
		err   error
	)
	if failedOnly {
		items, err = c.queue.ListFailed(ctx)
	} else {
		items, err = c.queue.List(ctx)
	}
	if err != nil {
		return fmt.Errorf("failed to read queue: %w", err)
	}

	if len(items) == 0 {
		if failedOnly {
			c.io.Println("No failed mutations.")
		} else {
			c.io.Println("Queue is empty.")
		}
		return nil
	}

	c.io.Println(renderQueue(items, c.clock()))
	c.io.Printf("%s\n", pluralize(len(items), "mutation"))
	return nil
}

func (c *Cli) runQueueShow(ctx context.Context, rawID string) error {
	id, err := strconv.ParseUint(strings.TrimPrefix(strings.TrimSpace(rawID), "#"), 10, 64)
	if err != nil {
		return fmt.Errorf("invalid mutation id %q", rawID)
	}

	m, err := c.queue.Get(ctx, id)
	if errors.Is(err, storage.ErrMutationNotFound) {
		return fmt.Errorf("mutation #%d is not in the queue", id)
	}
	if err != nil {
		return fmt.Errorf("failed to read mutation: %w", err)
	}

	c.io.Printf("ID:              %d\n", m.ID)
	c.io.Printf("Table:           %s\n", m.Table)
	c.io.Printf("Operation:       %s\n", m.Operation)
	if m.ConflictKey != "" {
		c.io.Printf("Conflict key:    %s\n", m.ConflictKey)
	}
	c.io.Printf("Status:          %s\n", m.Status)
	c.io.Printf("Idempotency key: %s\n", m.IdempotencyKey)
	c.io.Printf("Queued:          %s\n", m.CreatedAt.Local().Format(time.RFC3339))
	c.io.Printf("Attempts:        %d\n", m.Attempts)
	if m.LastAttemptAt != nil {
		c.io.Printf("Last attempt:    %s\n", humanize.RelTime(*m.LastAttemptAt, c.clock(), "ago", "from now"))
	}
	if m.Error != "" {
		c.io.Printf("Error:           %s\n", m.Error)
	}

	var pretty bytes.Buffer
	if err := json.Indent(&pretty, m.Payload, "", "  "); err != nil {
		pretty.Reset()
		pretty.Write(m.Payload)
	}
	c.io.Println("Payload:")
	c.io.Println(pretty.String())
	return nil
}

func truncate(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	return string(r[:width-1]) + "…"
}

func pluralize(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return humanize.Comma(int64(n)) + " " + noun + "s"
}

package cli

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/iudanet/schoolsync/internal/client/api"
	"github.com/iudanet/schoolsync/internal/client/iocli"
	syncengine "github.com/iudanet/schoolsync/internal/client/sync"
	"github.com/iudanet/schoolsync/internal/models"
)

var fixedNow = time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

// capturedIO собирает весь вывод команды в одну строку
type capturedIO struct {
	*iocli.IOMock
	mu  sync.Mutex
	buf strings.Builder
}

func newCapturedIO(inputs ...string) *capturedIO {
	c := &capturedIO{}
	c.IOMock = &iocli.IOMock{
		PrintlnFunc: func(a ...any) {
			c.mu.Lock()
			defer c.mu.Unlock()
			c.buf.WriteString(fmt.Sprintln(a...))
		},
		PrintfFunc: func(format string, a ...any) {
			c.mu.Lock()
			defer c.mu.Unlock()
			c.buf.WriteString(fmt.Sprintf(format, a...))
		},
		WriteFunc: func(p []byte) (int, error) {
			c.mu.Lock()
			defer c.mu.Unlock()
			c.buf.Write(p)
			return len(p), nil
		},
		ReadInputFunc: func(prompt string) (string, error) {
			return nextInput(&inputs)
		},
		ReadPasswordFunc: func(prompt string) (string, error) {
			return nextInput(&inputs)
		},
	}
	return c
}

func nextInput(inputs *[]string) (string, error) {
	if len(*inputs) == 0 {
		return "", fmt.Errorf("no more input")
	}
	v := (*inputs)[0]
	*inputs = (*inputs)[1:]
	return v, nil
}

func (c *capturedIO) Output() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.buf.String()
}

func healthyClient() *api.ClientAPIMock {
	return &api.ClientAPIMock{
		HealthFunc: func(ctx context.Context) error { return nil },
	}
}

func unreachableClient() *api.ClientAPIMock {
	return &api.ClientAPIMock{
		HealthFunc: func(ctx context.Context) error { return api.ErrUnreachable },
	}
}

func engineWithCounts(counts models.QueueCounts) *syncengine.EngineMock {
	return &syncengine.EngineMock{
		CountsFunc: func(ctx context.Context) (models.QueueCounts, error) {
			return counts, nil
		},
		StatusFunc: func() models.SyncStatus { return models.SyncIdle },
	}
}

func newTestCli(t *testing.T, out iocli.IO) *Cli {
	t.Helper()
	return &Cli{
		io:        out,
		serverURL: "http://school.test",
		now:       func() time.Time { return fixedNow },
	}
}

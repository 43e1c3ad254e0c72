// Package indicator renders the offline queue state in a terminal: a badge with
// connectivity and queue counts, and a progress line while a pass runs.
package indicator

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/mattn/go-isatty"

	"github.com/iudanet/schoolsync/internal/client/network"
	"github.com/iudanet/schoolsync/internal/client/progress"
	syncengine "github.com/iudanet/schoolsync/internal/client/sync"
	"github.com/iudanet/schoolsync/internal/models"
)

const separator = " · "

// Indicator keeps the last known state and redraws on every change.
type Indicator struct {
	out    io.Writer
	engine syncengine.Engine
	logger *slog.Logger
	live   bool

	mu       sync.Mutex
	status   network.Status
	progress models.SyncProgress
	counts   models.QueueCounts
	lastLine string
	lastLen  int
}

// Options configures an Indicator.
type Options struct {
	Logger *slog.Logger
	// Live forces carriage-return redraw; nil detects a terminal on out.
	Live *bool
}

// New creates an indicator writing to out.
func New(out io.Writer, engine syncengine.Engine, opts Options) *Indicator {
	ind := &Indicator{
		out:      out,
		engine:   engine,
		logger:   opts.Logger,
		status:   network.StatusUnknown,
		progress: models.SyncProgress{Status: models.SyncIdle},
	}
	if ind.logger == nil {
		ind.logger = slog.New(slog.DiscardHandler)
	}
	if opts.Live != nil {
		ind.live = *opts.Live
	} else {
		ind.live = isTerminal(out)
	}
	return ind
}

// Attach subscribes to progress and connectivity changes and returns a func that detaches both.
func (i *Indicator) Attach(tracker *progress.Tracker, observer *network.Observer) (detach func()) {
	var unsubs []func()
	if tracker != nil {
		unsubs = append(unsubs, tracker.Subscribe(i.OnProgress))
	}
	if observer != nil {
		unsubs = append(unsubs, observer.Subscribe(i.OnNetwork))
	}
	return func() {
		for _, u := range unsubs {
			u()
		}
	}
}

// OnProgress records a progress update and redraws.
func (i *Indicator) OnProgress(p models.SyncProgress) {
	i.refreshCounts(context.Background())
	i.mu.Lock()
	i.progress = p
	i.mu.Unlock()
	i.Render()
}

// OnNetwork records a connectivity change and redraws.
func (i *Indicator) OnNetwork(s network.Status) {
	i.mu.Lock()
	i.status = s
	i.mu.Unlock()
	i.Render()
}

// Refresh reloads queue counts from the store and redraws.
func (i *Indicator) Refresh(ctx context.Context) {
	i.refreshCounts(ctx)
	i.Render()
}

// Retry runs a replay pass and redraws with the final counts.
func (i *Indicator) Retry(ctx context.Context) (models.SyncProgress, error) {
	result, err := i.engine.Retry(ctx)
	i.Refresh(ctx)
	return result, err
}

// DiscardFailed drops every failed mutation and redraws.
func (i *Indicator) DiscardFailed(ctx context.Context) (int, error) {
	removed, err := i.engine.DiscardFailed(ctx)
	i.Refresh(ctx)
	return removed, err
}

// Badge returns e.g. "online · 2 pending · 1 failed".
func (i *Indicator) Badge() string {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.badgeLocked()
}

// ProgressLine returns the pass summary, empty when no pass ran yet.
func (i *Indicator) ProgressLine() string {
	i.mu.Lock()
	defer i.mu.Unlock()
	return progressLine(i.progress)
}

// Render writes the current state. In live mode the line is redrawn in
// place; otherwise a new line is written only when the text changed.
func (i *Indicator) Render() {
	i.mu.Lock()
	line := i.badgeLocked()
	if p := progressLine(i.progress); p != "" {
		line += separator + p
	}

	if i.live {
		pad := ""
		if n := i.lastLen - len([]rune(line)); n > 0 {
			pad = strings.Repeat(" ", n)
		}
		i.lastLen = len([]rune(line))
		i.lastLine = line
		i.mu.Unlock()
		_, _ = fmt.Fprint(i.out, "\r"+line+pad)
		return
	}

	if line == i.lastLine {
		i.mu.Unlock()
		return
	}
	i.lastLine = line
	i.mu.Unlock()
	_, _ = fmt.Fprintln(i.out, line)
}

// Close ends the live line so later output starts on a fresh line.
func (i *Indicator) Close() {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.live && i.lastLen > 0 {
		_, _ = fmt.Fprintln(i.out)
		i.lastLen = 0
	}
}

func (i *Indicator) badgeLocked() string {
	return fmt.Sprintf("%s%s%d pending%s%d failed",
		i.status, separator, i.counts.Pending, separator, i.counts.Failed)
}

func (i *Indicator) refreshCounts(ctx context.Context) {
	if i.engine == nil {
		return
	}
	counts, err := i.engine.Counts(ctx)
	if err != nil {
		i.logger.Debug("Failed to refresh queue counts", "error", err)
		return
	}
	i.mu.Lock()
	i.counts = counts
	i.mu.Unlock()
}

func progressLine(p models.SyncProgress) string {
	switch p.Status {
	case models.SyncSyncing:
		return fmt.Sprintf("syncing %d/%d%s%d ok%s%d failed",
			p.Processed, p.Total, separator, p.Succeeded, separator, p.Failed)
	case models.SyncCompleted:
		return fmt.Sprintf("synced %d/%d%s%d ok%s%d failed",
			p.Processed, p.Total, separator, p.Succeeded, separator, p.Failed)
	default:
		return ""
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(interface{ Fd() uintptr })
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

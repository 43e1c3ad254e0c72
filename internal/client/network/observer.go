// Package network tracks whether the remote data service is reachable and
// starts a sync pass each time connectivity comes back.
package network

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"sync"
	"time"

	syncengine "github.com/iudanet/schoolsync/internal/client/sync"
	"github.com/iudanet/schoolsync/internal/models"
)

const (
	defaultProbeInterval = 15 * time.Second
	defaultProbeTimeout  = 5 * time.Second
)

// Status is the last known connectivity state.
type Status string

const (
	StatusUnknown Status = "unknown"
	StatusOnline  Status = "online"
	StatusOffline Status = "offline"
)

// Prober checks reachability of the remote service.
type Prober interface {
	Probe(ctx context.Context) error
}

// ProberFunc adapts a function such as api.Client.Health to Prober.
type ProberFunc func(ctx context.Context) error

// Probe calls f(ctx).
func (f ProberFunc) Probe(ctx context.Context) error {
	return f(ctx)
}

// Syncer is the part of the sync engine the observer drives.
type Syncer interface {
	Sync(ctx context.Context) (models.SyncProgress, error)
	Status() models.SyncStatus
}

// Listener receives every status change.
type Listener func(Status)

// Options configures an Observer.
type Options struct {
	Logger        *slog.Logger
	Prober        Prober // nil: status changes only through SetOnline
	ProbeInterval time.Duration
	ProbeTimeout  time.Duration
	// SkipInitialSync keeps the first online observation from starting a pass.
	// Listeners are still notified.
	SkipInitialSync bool
}

// Observer owns the online/offline signal.
type Observer struct {
	syncer Syncer
	prober Prober
	logger *slog.Logger

	interval     time.Duration
	probeTimeout time.Duration
	skipInitial  bool

	mu        sync.Mutex
	status    Status
	listeners map[uint64]Listener
	nextID    uint64
	running   bool
	baseCtx   context.Context
	cancel    context.CancelFunc

	loopWG sync.WaitGroup
	syncWG sync.WaitGroup
}

// NewObserver creates an observer in the unknown state.
func NewObserver(syncer Syncer, opts Options) *Observer {
	o := &Observer{
		syncer:       syncer,
		prober:       opts.Prober,
		logger:       opts.Logger,
		interval:     opts.ProbeInterval,
		probeTimeout: opts.ProbeTimeout,
		skipInitial:  opts.SkipInitialSync,
		status:       StatusUnknown,
		listeners:    make(map[uint64]Listener),
		baseCtx:      context.Background(),
	}
	if o.logger == nil {
		o.logger = slog.New(slog.DiscardHandler)
	}
	o.logger = o.logger.With("component", "network-observer")
	if o.interval <= 0 {
		o.interval = defaultProbeInterval
	}
	if o.probeTimeout <= 0 {
		o.probeTimeout = defaultProbeTimeout
	}
	return o
}

// Start probes immediately and then every probe interval until ctx ends or Stop is called.
func (o *Observer) Start(ctx context.Context) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.running {
		return errors.New("network observer already running")
	}

	runCtx, cancel := context.WithCancel(ctx)
	o.baseCtx = runCtx
	o.cancel = cancel
	o.running = true

	if o.prober != nil {
		o.loopWG.Add(1)
		go o.loop(runCtx)
	}
	return nil
}

// Stop ends probing and waits for a triggered sync pass to return.
func (o *Observer) Stop() {
	o.mu.Lock()
	if !o.running {
		o.mu.Unlock()
		return
	}
	cancel := o.cancel
	o.running = false
	o.cancel = nil
	o.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	o.loopWG.Wait()
	o.syncWG.Wait()
}

// Wait blocks until every sync pass started by the observer has returned.
func (o *Observer) Wait() {
	o.syncWG.Wait()
}

// SetOnline records a platform connectivity signal.
func (o *Observer) SetOnline(online bool) {
	if online {
		o.set(StatusOnline)
		return
	}
	o.set(StatusOffline)
}

// Online reports whether the last observation was online.
func (o *Observer) Online() bool {
	return o.Status() == StatusOnline
}

// Status returns the last observed state.
func (o *Observer) Status() Status {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.status
}

// Subscribe registers fn for status changes and returns a func that removes it.
func (o *Observer) Subscribe(fn Listener) (unsubscribe func()) {
	if fn == nil {
		return func() {}
	}

	o.mu.Lock()
	o.nextID++
	id := o.nextID
	o.listeners[id] = fn
	o.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			o.mu.Lock()
			delete(o.listeners, id)
			o.mu.Unlock()
		})
	}
}

// ProbeNow runs one probe outside the polling schedule.
func (o *Observer) ProbeNow(ctx context.Context) Status {
	if o.prober == nil {
		return o.Status()
	}

	probeCtx, cancel := context.WithTimeout(ctx, o.probeTimeout)
	err := o.prober.Probe(probeCtx)
	cancel()

	if err != nil {
		if ctx.Err() != nil {
			return o.Status()
		}
		o.logger.Debug("Probe failed", "error", err)
		o.set(StatusOffline)
	} else {
		o.set(StatusOnline)
	}
	return o.Status()
}

func (o *Observer) loop(ctx context.Context) {
	defer o.loopWG.Done()

	o.ProbeNow(ctx)

	ticker := time.NewTicker(o.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			o.ProbeNow(ctx)
		}
	}
}

func (o *Observer) set(next Status) {
	o.mu.Lock()
	prev := o.status
	if prev == next {
		o.mu.Unlock()
		return
	}
	o.status = next

	ids := make([]uint64, 0, len(o.listeners))
	for id := range o.listeners {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	listeners := make([]Listener, 0, len(ids))
	for _, id := range ids {
		listeners = append(listeners, o.listeners[id])
	}
	ctx := o.baseCtx
	o.mu.Unlock()

	o.logger.Info("Connectivity changed", "from", string(prev), "to", string(next))

	for _, l := range listeners {
		l(next)
	}

	if next != StatusOnline {
		return
	}
	if prev == StatusUnknown && o.skipInitial {
		o.logger.Debug("Initial online observation, sync not triggered")
		return
	}
	o.triggerSync(ctx)
}

// triggerSync запускает один проход в фоне, если движок свободен
func (o *Observer) triggerSync(ctx context.Context) {
	if o.syncer == nil {
		return
	}
	if o.syncer.Status() == models.SyncSyncing {
		o.logger.Debug("Sync already running, reconnect trigger skipped")
		return
	}

	o.syncWG.Add(1)
	go func() {
		defer o.syncWG.Done()

		result, err := o.syncer.Sync(ctx)
		switch {
		case err == nil:
			o.logger.Info("Reconnect sync finished",
				"succeeded", result.Succeeded,
				"failed", result.Failed)
		case errors.Is(err, syncengine.ErrSyncInProgress):
			o.logger.Debug("Sync already running, reconnect trigger skipped")
		default:
			o.logger.Warn("Reconnect sync failed", "error", err)
		}
	}()
}

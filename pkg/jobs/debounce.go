package jobs

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Task runs once the debounce window elapses without a newer schedule.
type Task func(context.Context)

// DebouncerConfig configures delay behaviour.
type DebouncerConfig struct {
	Delay  time.Duration
	Logger *zap.Logger
}

// Debouncer runs the most recently scheduled task after a quiet
// period. Each new schedule supersedes the pending one; tasks are
// never queued.
type Debouncer struct {
	name   string
	delay  time.Duration
	logger *zap.Logger

	mu      sync.Mutex
	ctx     context.Context
	cancel  context.CancelFunc
	timer   *time.Timer
	pending Task
	started bool
}

// NewDebouncer builds a debouncer with the provided settings.
func NewDebouncer(name string, cfg DebouncerConfig) *Debouncer {
	if cfg.Delay <= 0 {
		cfg.Delay = time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &Debouncer{
		name:   name,
		delay:  cfg.Delay,
		logger: cfg.Logger,
	}
}

// Start arms the debouncer. Safe to call once.
func (d *Debouncer) Start(ctx context.Context) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.started {
		return
	}
	d.ctx, d.cancel = context.WithCancel(ctx)
	d.started = true
	d.logger.Sugar().Infow("debouncer started", "debouncer", d.name, "delay", d.delay)
}

// Stop cancels the context and drops any pending task.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.started {
		return
	}
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.pending = nil
	d.cancel()
	d.started = false
	d.logger.Sugar().Infow("debouncer stopped", "debouncer", d.name)
}

// Schedule replaces the pending task and restarts the delay window.
// Reports whether a pending task was superseded.
func (d *Debouncer) Schedule(task Task) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.started {
		d.logger.Sugar().Warnw("debouncer not started, dropping task", "debouncer", d.name)
		return false
	}
	superseded := d.pending != nil
	if d.timer != nil {
		d.timer.Stop()
	}
	d.pending = task
	d.timer = time.AfterFunc(d.delay, d.fire)
	return superseded
}

// flushTimeout bounds the final task run during shutdown.
const flushTimeout = 5 * time.Second

// Flush runs the pending task immediately, if any. Used on shutdown so
// the last state change still reaches the remote store. The task runs
// under its own deadline: by the time Flush is called the run context
// is usually already cancelled.
func (d *Debouncer) Flush() {
	d.mu.Lock()
	task := d.pending
	started := d.started
	d.pending = nil
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.mu.Unlock()

	if task == nil || !started {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), flushTimeout)
	defer cancel()
	task(ctx)
}

func (d *Debouncer) fire() {
	d.mu.Lock()
	task := d.pending
	ctx := d.ctx
	d.pending = nil
	d.timer = nil
	d.mu.Unlock()

	if task == nil || ctx == nil || ctx.Err() != nil {
		return
	}
	task(ctx)
}

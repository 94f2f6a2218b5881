package bindz

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/zoobzio/clockz"
	"go.uber.org/zap"
)

// Resource limits enforced during hook registration.
const (
	maxHooksPerEvent = 100
	maxTotalHooks    = 10000
)

// Target is the shared event surface a Stack attaches handlers to.
//
// Hook attaches callback to event and returns the handle that detaches it.
// Several distinct handlers may be attached to the same event at once.
// *Hooks[T] is the reference implementation.
type Target[T any] interface {
	Hook(event Key, callback Handler[T]) (Hook, error)
}

// Hooks is a hook registry that serves as the shared dispatch surface.
//
// Handlers are attached with Hook and invoked either synchronously with
// Dispatch or asynchronously through a worker pool with Emit. The pool is
// started on the first Emit, so a target used only for Dispatch runs no
// goroutines.
//
// Thread Safety:
// All methods are safe for concurrent use.
type Hooks[T any] struct {
	clock      clockz.Clock
	logger     *zap.Logger
	cfg        config
	hooks      map[Key][]hookEntry[T]
	workers    *workerPool[T]
	workerOnce sync.Once
	mu         sync.RWMutex
	timeout    time.Duration
	totalHooks int
	closed     bool

	metrics Metrics
}

// New creates a new hook target with the specified options.
//
// Default configuration:
//   - 10 worker goroutines for Emit, started lazily
//   - No global timeout (0)
//   - Auto-calculated queue size (workers * 2)
//
// Example:
//
//	target := bindz.New[Event](
//	    bindz.WithWorkers(4),
//	    bindz.WithTimeout(time.Second),
//	)
//	defer target.Close()
func New[T any](opts ...Option) *Hooks[T] {
	cfg := buildConfig(opts)
	return &Hooks[T]{
		clock:   cfg.clock,
		logger:  cfg.logger.Named("target"),
		cfg:     cfg,
		hooks:   make(map[Key][]hookEntry[T]),
		timeout: cfg.timeout,
	}
}

// Hook attaches callback to event.
func (h *Hooks[T]) Hook(event Key, callback Handler[T]) (Hook, error) {
	if callback == nil {
		return Hook{}, ErrNilHandler
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return Hook{}, ErrServiceClosed
	}
	if len(h.hooks[event]) >= maxHooksPerEvent {
		return Hook{}, ErrTooManyHooks
	}
	if h.totalHooks >= maxTotalHooks {
		return Hook{}, ErrTooManyHooks
	}

	id := h.generateID()
	h.hooks[event] = append(h.hooks[event], hookEntry[T]{id: id, callback: callback})
	h.totalHooks++

	return Hook{
		unhook: func() error {
			return h.removeHook(event, id)
		},
	}, nil
}

// removeHook removes a hook by ID.
func (h *Hooks[T]) removeHook(event Key, id string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	hooks := h.hooks[event]
	for i, hook := range hooks {
		if hook.id != id {
			continue
		}
		// Copy so that snapshots taken by Emit/Dispatch stay intact
		remaining := make([]hookEntry[T], 0, len(hooks)-1)
		remaining = append(remaining, hooks[:i]...)
		remaining = append(remaining, hooks[i+1:]...)
		if len(remaining) == 0 {
			delete(h.hooks, event)
		} else {
			h.hooks[event] = remaining
		}
		h.totalHooks--
		return nil
	}
	return ErrHookNotFound
}

// Unhook removes a specific hook using its handle.
func (h *Hooks[T]) Unhook(hook Hook) error {
	return hook.Unhook()
}

// Clear removes all hooks for the specified event.
func (h *Hooks[T]) Clear(event Key) int {
	h.mu.Lock()
	defer h.mu.Unlock()

	count := len(h.hooks[event])
	h.totalHooks -= count
	delete(h.hooks, event)
	return count
}

// ClearAll removes all hooks for all events.
func (h *Hooks[T]) ClearAll() int {
	h.mu.Lock()
	defer h.mu.Unlock()

	count := h.totalHooks
	h.hooks = make(map[Key][]hookEntry[T])
	h.totalHooks = 0
	return count
}

// Listeners returns the number of handlers attached to event.
func (h *Hooks[T]) Listeners(event Key) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.hooks[event])
}

// snapshot returns the hooks of event under the read lock.
func (h *Hooks[T]) snapshot(event Key) ([]hookEntry[T], error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.closed {
		return nil, ErrServiceClosed
	}
	return h.hooks[event], nil
}

// Dispatch runs every handler attached to event in the caller's goroutine,
// in attach order. All handlers run even if some fail; their errors are
// joined. A panicking handler is reported as ErrHookPanicked.
func (h *Hooks[T]) Dispatch(ctx context.Context, event Key, data T) error {
	hooks, err := h.snapshot(event)
	if err != nil {
		return err
	}

	var errs []error
	for _, hook := range hooks {
		atomic.AddInt64(&h.metrics.Dispatched, 1)
		if err := runHook(ctx, h.clock, h.timeout, h.logger, event, hook.callback, data); err != nil {
			errs = append(errs, fmt.Errorf("dispatch %s: %w", event, err))
		}
	}
	return errors.Join(errs...)
}

// Emit queues every handler attached to event on the worker pool.
func (h *Hooks[T]) Emit(ctx context.Context, event Key, data T) error {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if h.closed {
		return ErrServiceClosed
	}

	hooks := h.hooks[event]
	if len(hooks) == 0 {
		return nil
	}

	pool := h.pool()
	for _, hook := range hooks {
		task := hookTask[T]{
			ctx:   ctx,
			data:  data,
			hook:  hook,
			event: event,
		}
		if err := pool.submit(task); err != nil {
			return err
		}
	}
	return nil
}

// pool starts the worker pool on first use.
func (h *Hooks[T]) pool() *workerPool[T] {
	h.workerOnce.Do(func() {
		h.workers = newWorkerPool[T](h.cfg, &h.metrics, h.logger)
	})
	return h.workers
}

// Metrics returns current target metrics.
func (h *Hooks[T]) Metrics() Metrics {
	h.mu.RLock()
	registered := int64(h.totalHooks)
	capacity := int64(0)
	if h.workers != nil {
		capacity = int64(cap(h.workers.tasks))
	}
	h.mu.RUnlock()

	return Metrics{
		QueueDepth:      atomic.LoadInt64(&h.metrics.QueueDepth),
		QueueCapacity:   capacity,
		TasksProcessed:  atomic.LoadInt64(&h.metrics.TasksProcessed),
		TasksRejected:   atomic.LoadInt64(&h.metrics.TasksRejected),
		TasksFailed:     atomic.LoadInt64(&h.metrics.TasksFailed),
		TasksExpired:    atomic.LoadInt64(&h.metrics.TasksExpired),
		Dispatched:      atomic.LoadInt64(&h.metrics.Dispatched),
		RegisteredHooks: registered,
	}
}

// Close shuts down the target, waiting for queued handlers to finish.
// Hooks attached before Close can still be unhooked afterwards.
func (h *Hooks[T]) Close() error {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return ErrAlreadyClosed
	}
	h.closed = true
	workers := h.workers
	h.mu.Unlock()

	if workers != nil {
		workers.close()
	}

	remaining := atomic.LoadInt64(&h.metrics.QueueDepth)
	if remaining > 0 {
		atomic.AddInt64(&h.metrics.TasksExpired, remaining)
		atomic.StoreInt64(&h.metrics.QueueDepth, 0)
	}
	h.logger.Debug("target closed", zap.Int64("hooks", h.Metrics().RegisteredHooks))
	return nil
}

// generateID creates a random identifier for a hook.
func (h *Hooks[T]) generateID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		return fmt.Sprintf("%d", h.clock.Now().UnixNano())
	}
	return hex.EncodeToString(bytes)
}

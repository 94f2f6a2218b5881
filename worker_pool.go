package bindz

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/zoobzio/clockz"
	"go.uber.org/zap"
)

// workerPool runs handlers queued by Emit.
//
// Handlers run with panic recovery and the global timeout. A full queue
// rejects the task instead of blocking the emitter.
type workerPool[T any] struct {
	clock   clockz.Clock
	logger  *zap.Logger
	tasks   chan hookTask[T]
	wg      sync.WaitGroup
	mu      sync.RWMutex
	timeout time.Duration
	closed  bool
	metrics *Metrics
}

// hookTask is a single queued handler execution.
type hookTask[T any] struct {
	ctx   context.Context
	data  T
	hook  hookEntry[T]
	event Key
}

// hookEntry is an attached handler.
type hookEntry[T any] struct {
	id       string
	callback Handler[T]
}

func newWorkerPool[T any](cfg config, metrics *Metrics, logger *zap.Logger) *workerPool[T] {
	pool := &workerPool[T]{
		clock:   cfg.clock,
		logger:  logger,
		tasks:   make(chan hookTask[T], cfg.queueSize),
		timeout: cfg.timeout,
		metrics: metrics,
	}

	for i := 0; i < cfg.workers; i++ {
		pool.wg.Add(1)
		go pool.worker()
	}
	logger.Debug("worker pool started",
		zap.Int("workers", cfg.workers),
		zap.Int("queue", cfg.queueSize))
	return pool
}

// submit queues a task, returning ErrQueueFull when there is no room.
func (p *workerPool[T]) submit(task hookTask[T]) error {
	// The read lock keeps close() from closing the channel mid-send.
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		return ErrServiceClosed
	}

	select {
	case p.tasks <- task:
		atomic.AddInt64(&p.metrics.QueueDepth, 1)
		return nil
	default:
		atomic.AddInt64(&p.metrics.TasksRejected, 1)
		return ErrQueueFull
	}
}

// close stops accepting tasks and waits for queued ones to finish.
func (p *workerPool[T]) close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	close(p.tasks)
	p.mu.Unlock()

	p.wg.Wait()
}

func (p *workerPool[T]) worker() {
	defer p.wg.Done()

	for task := range p.tasks {
		atomic.AddInt64(&p.metrics.QueueDepth, -1)

		err := runHook(task.ctx, p.clock, p.timeout, p.logger, task.event, task.hook.callback, task.data)
		switch {
		case err == nil:
			atomic.AddInt64(&p.metrics.TasksProcessed, 1)
		case task.ctx.Err() != nil:
			atomic.AddInt64(&p.metrics.TasksExpired, 1)
		default:
			atomic.AddInt64(&p.metrics.TasksFailed, 1)
		}
	}
}

// runHook executes a handler with the global timeout and panic recovery.
// Shared by the worker pool and synchronous dispatch.
func runHook[T any](ctx context.Context, clock clockz.Clock, timeout time.Duration, logger *zap.Logger, event Key, callback Handler[T], data T) (err error) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("handler panicked",
				zap.String("event", event),
				zap.String("panic", fmt.Sprint(r)))
			err = ErrHookPanicked
		}
	}()

	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = clock.WithTimeout(ctx, timeout)
		defer cancel()
	}
	return callback(ctx, data)
}

package bindz

import "errors"

// Binding Errors
//
// These errors are returned by Stack when a caller breaks the
// binding contract.

// ErrEmptyEvent is returned when binding a handler to an empty event name.
var ErrEmptyEvent = errors.New("event name is empty")

// ErrNilHandler is returned when binding a nil handler.
var ErrNilHandler = errors.New("handler is nil")

// Hook Management Errors

// ErrAlreadyUnhooked is returned when attempting to unhook a hook
// that has already been unhooked or was never valid.
var ErrAlreadyUnhooked = errors.New("hook already unhooked")

// ErrHookNotFound is returned when the hook behind a handle no longer
// exists, for example after Clear or ClearAll removed it.
var ErrHookNotFound = errors.New("hook not found")

// Service Lifecycle Errors

// ErrServiceClosed is returned by Hook, Emit and Dispatch once the
// target has been closed via Close().
var ErrServiceClosed = errors.New("service is closed")

// ErrAlreadyClosed is returned when calling Close() twice.
var ErrAlreadyClosed = errors.New("service already closed")

// Resource Limit Errors

// ErrQueueFull is returned when the worker pool cannot accept
// more tasks. The emission is rejected as a whole.
var ErrQueueFull = errors.New("worker queue is full")

// ErrTooManyHooks is returned when attempting to register a hook
// would exceed either:
//   - maxHooksPerEvent (100 hooks for a single event)
//   - maxTotalHooks (10,000 total hooks across all events)
var ErrTooManyHooks = errors.New("hook limit exceeded")

// Hook Execution Errors

// ErrHookPanicked is reported when a handler panics during execution.
var ErrHookPanicked = errors.New("hook panicked during execution")

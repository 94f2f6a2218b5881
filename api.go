// Package bindz provides exclusive event-group binding on top of a shared
// event target.
//
// A Stack keeps an ordered set of handler groups, each owned by a caller
// supplied identifier. Only the group on top of the stack has its handlers
// attached to the target. Binding under a new identifier pushes a new group
// and detaches the previous top without discarding it; unbinding a group
// reattaches whatever is on top afterwards.
//
// Basic Usage:
//
//	// The shared dispatch surface
//	target := bindz.New[KeyPress]()
//	defer target.Close()
//
//	stack := bindz.NewStack[KeyPress, string](target)
//
//	// The editor owns "keydown" while nothing else is open
//	stack.Bind("keydown", editor.OnKey, "editor")
//
//	// Opening a dialog takes over; the editor handler is detached
//	stack.Bind("keydown", dialog.OnKey, "dialog")
//	stack.Bind("click", dialog.OnClick, "dialog")
//
//	// Closing the dialog gives "keydown" back to the editor
//	stack.UnbindAll("dialog")
//
// Scopes:
//
//	scope := stack.Scope("carousel")
//	scope.Bind("swipe", onSwipe)
//	defer scope.Release()
//
// Dispatch:
//
//	// Synchronous, in the caller's goroutine
//	err := target.Dispatch(ctx, "keydown", press)
//
//	// Asynchronous through the worker pool
//	err := target.Emit(ctx, "keydown", press)
//
// Resource Management:
//
// The target enforces limits to prevent memory exhaustion:
//   - Maximum 100 hooks per event
//   - Maximum 10,000 total hooks
//   - Worker queue size limits async execution
package bindz

import "context"

// Key represents an event name used for binding and dispatch.
//
// Define event keys as package constants:
//
//	const (
//		KeyDown Key = "keydown"
//		Click   Key = "click"
//	)
type Key = string

// Handler is a callback invoked with the payload of a dispatched event.
type Handler[T any] func(ctx context.Context, event T) error

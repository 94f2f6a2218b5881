package bindz

// Metrics provides observability data for a Hooks target.
// Counter fields are updated with atomic operations.
type Metrics struct {
	// Queue
	QueueDepth    int64 // Current tasks waiting in the worker queue
	QueueCapacity int64 // Worker queue capacity (static)

	// Throughput Counters
	TasksProcessed int64 // Handler executions that returned nil
	TasksRejected  int64 // Emissions rejected because the queue was full
	TasksFailed    int64 // Handler executions that failed or panicked
	TasksExpired   int64 // Tasks discarded due to context cancellation

	// Synchronous dispatch
	Dispatched int64 // Handler executions run by Dispatch

	// Registration
	RegisteredHooks int64 // Hooks currently attached
}

// StackMetrics describes the state and history of a Stack.
type StackMetrics struct {
	Groups         int   // Groups currently on the stack
	Attached       int   // Bindings currently attached to the target
	Pushes         int64 // Groups pushed since creation
	Removals       int64 // Groups removed by UnbindAll or Reset
	Replacements   int64 // Handlers replaced within a group
	AttachFailures int64 // Target rejections seen while attaching
}

package promise

import "time"

type State string

const (
	StatePending   = State("pending")
	StateFulfilled = State("fulfilled")
	StateRejected  = State("rejected")
)

// Resolver fulfills a promise with a value. Passing a *Promise or a Thenable
// makes the promise adopt its eventual state instead (assimilation).
type Resolver func(value any)

// Rejector rejects a promise with a reason.
type Rejector func(reason error)

// FulfillHandler transforms a fulfillment value. Returning a non-nil err
// rejects the derived promise; returning a *Promise or a Thenable makes the
// derived promise adopt its eventual state.
type FulfillHandler func(value any) (result any, err error)

// RejectHandler handles a rejection reason. Returning a nil err recovers:
// the derived promise fulfills with result. Returning a non-nil err leaves
// the derived promise rejected with that error.
type RejectHandler func(reason error) (result any, err error)

// FinallyHandler runs on settlement regardless of outcome.
type FinallyHandler func()

// NodeCallback is the node-style completion callback, error first.
type NodeCallback func(err error, value any)

// CallbackFunc is a callback-accepting operation of shape
// (args..., callback), as bridged by Denodeify.
type CallbackFunc func(args []any, callback NodeCallback)

// Thenable is the duck-typed interop contract: any value exposing a Then
// member accepting fulfillment and rejection callbacks is treated as
// promise-compatible and assimilated, regardless of its concrete origin.
//
// Implementations must call at most one of the two callbacks, at most once.
// Extra calls are ignored by the assimilating promise.
type Thenable interface {
	Then(onFulfilled func(value any), onRejected func(reason error))
}

// Scheduler defers reaction callbacks to a later turn. Implementations must
// never run the task synchronously within Schedule and must run tasks in
// submission order. The host environment may supply its own (an event loop,
// a task runner); the package default is a serial FIFO queue.
type Scheduler interface {
	Schedule(task func())
}

// Metrics receives instrumentation events from the promise pipeline.
// Implementations must be safe for concurrent use. The
// observability/prometheus subpackage provides a ready-made exporter.
type Metrics interface {
	// RecordCreated is called once per promise, including derived ones.
	RecordCreated()

	// RecordSettled is called once per promise, on its single transition out
	// of StatePending. elapsed is the time spent pending.
	RecordSettled(state State, elapsed time.Duration)

	// RecordUncaughtError is called when an error surfaces at a Done call
	// with no terminal handling, or when a scheduled task panics.
	RecordUncaughtError(reason error)

	// RecordQueueDepth reports the default scheduler's backlog after a task
	// has been taken off the queue.
	RecordQueueDepth(depth int)
}

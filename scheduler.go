package promise

import (
	"log"
	"sync"
	"time"
)

// collaborators are the injectable package-level collaborators: the
// scheduler deferring reactions, the uncaught error handler, and the
// metrics sink. Promises capture none of them; every dispatch reads the
// current configuration, so tests and hosts can swap them at any point.
var collaborators = struct {
	mu        sync.RWMutex
	scheduler Scheduler
	uncaught  func(error)
	metrics   Metrics
}{
	scheduler: &serialQueue{},
	uncaught:  defaultUncaughtErrorHandler,
}

// SetScheduler replaces the scheduler used to defer reactions. Passing nil
// restores the built-in serial FIFO queue.
func SetScheduler(s Scheduler) {
	if nil == s {
		s = &serialQueue{}
	}

	collaborators.mu.Lock()
	collaborators.scheduler = s
	collaborators.mu.Unlock()
}

// SetUncaughtErrorHandler replaces the destination for errors surfacing at
// Done calls without terminal handling. Passing nil restores the default,
// which logs via the standard log package. Where the errors should go is
// host-environment dependent, hence the injection point.
func SetUncaughtErrorHandler(handler func(reason error)) {
	if nil == handler {
		handler = defaultUncaughtErrorHandler
	}

	collaborators.mu.Lock()
	collaborators.uncaught = handler
	collaborators.mu.Unlock()
}

// SetMetrics installs a metrics sink for the promise pipeline. Passing nil
// disables instrumentation.
func SetMetrics(m Metrics) {
	collaborators.mu.Lock()
	collaborators.metrics = m
	collaborators.mu.Unlock()
}

func defaultUncaughtErrorHandler(reason error) {
	log.Printf("promise: uncaught error: %v", reason)
}

func schedule(task func()) {
	collaborators.mu.RLock()
	s := collaborators.scheduler
	collaborators.mu.RUnlock()

	s.Schedule(task)
}

func reportUncaught(reason error) {
	collaborators.mu.RLock()
	handler := collaborators.uncaught
	m := collaborators.metrics
	collaborators.mu.RUnlock()

	if nil != m {
		m.RecordUncaughtError(reason)
	}

	handler(reason)
}

func observeCreated() {
	collaborators.mu.RLock()
	m := collaborators.metrics
	collaborators.mu.RUnlock()

	if nil != m {
		m.RecordCreated()
	}
}

func observeSettled(state State, elapsed time.Duration) {
	collaborators.mu.RLock()
	m := collaborators.metrics
	collaborators.mu.RUnlock()

	if nil != m {
		m.RecordSettled(state, elapsed)
	}
}

func observeQueueDepth(depth int) {
	collaborators.mu.RLock()
	m := collaborators.metrics
	collaborators.mu.RUnlock()

	if nil != m {
		m.RecordQueueDepth(depth)
	}
}

// serialQueue is the default Scheduler: an unbounded FIFO drained by a
// single goroutine, spawned lazily and released once the queue empties.
// Tasks therefore run one at a time, in submission order, and never within
// the Schedule call, even when scheduled from inside another task.
type serialQueue struct {
	mu       sync.Mutex
	tasks    []func()
	draining bool
}

func (q *serialQueue) Schedule(task func()) {
	q.mu.Lock()
	q.tasks = append(q.tasks, task)

	if q.draining {
		q.mu.Unlock()
		return
	}

	q.draining = true
	q.mu.Unlock()

	go q.drain()
}

func (q *serialQueue) drain() {
	for {
		q.mu.Lock()

		if 0 == len(q.tasks) {
			q.draining = false
			q.mu.Unlock()
			return
		}

		task := q.tasks[0]
		q.tasks = q.tasks[1:]
		depth := len(q.tasks)

		q.mu.Unlock()

		observeQueueDepth(depth)
		runTask(task)
	}
}

// runTask guards the queue against panicking tasks. Reaction callbacks
// recover on their own; anything reaching here is routed to the uncaught
// error handler so the queue keeps draining.
func runTask(task func()) {
	defer func() {
		if v := recover(); nil != v {
			reportUncaught(asError(v))
		}
	}()

	task()
}

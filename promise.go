package promise

import (
	"sync"
	"time"
)

// Promise represents the eventual result of an asynchronous operation.
//
// A promise starts out pending and transitions at most once to either
// StateFulfilled (carrying a value) or StateRejected (carrying a reason).
// Once settled, state and payload are permanently fixed; later fulfill or
// reject attempts are silently ignored.
//
// All methods are safe for concurrent use. Reactions registered through
// Then and Done never run synchronously within the registering call; they
// are deferred through the configured Scheduler and run in registration
// order.
type Promise struct {
	mu        sync.Mutex
	state     State
	value     any
	reason    error
	reactions []*reaction
	created   time.Time
}

// New creates a pending promise and invokes executor synchronously and
// immediately with its fulfill and reject actions. Only the first call to
// either action has effect. A panic inside the executor before settlement
// rejects the promise with the recovered error.
func New(executor func(fulfill Resolver, reject Rejector)) *Promise {
	p := newPending()

	func() {
		defer func() {
			if v := recover(); nil != v {
				p.reject(asError(v))
			}
		}()

		executor(p.resolve, p.reject)
	}()

	return p
}

// State reports the current state. Polling state synchronously is a
// convenience outside the chaining contract; prefer Then or Done.
func (p *Promise) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.state
}

// Value returns the fulfillment value, or nil unless fulfilled.
func (p *Promise) Value() any {
	p.mu.Lock()
	defer p.mu.Unlock()

	if StateFulfilled != p.state {
		return nil
	}

	return p.value
}

// Reason returns the rejection reason, or nil unless rejected.
func (p *Promise) Reason() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if StateRejected != p.state {
		return nil
	}

	return p.reason
}

func newPending() *Promise {
	p := &Promise{
		state:   StatePending,
		created: time.Now(),
	}

	observeCreated()

	return p
}

// resolve is the fulfill action handed to executors. It applies the
// resolution procedure: plain values settle the promise fulfilled, while a
// *Promise or Thenable makes this promise defer to its eventual state.
func (p *Promise) resolve(value any) {
	if value == any(p) {
		p.settle(StateRejected, nil, ErrSelfResolution)
		return
	}

	switch v := value.(type) {
	case *Promise:
		// Adopt the inner promise's terminal state once it settles.
		v.enqueue(&reaction{next: p})

	case Thenable:
		p.assimilate(v)

	default:
		p.settle(StateFulfilled, value, nil)
	}
}

// reject is the reject action handed to executors.
func (p *Promise) reject(reason error) {
	p.settle(StateRejected, nil, reason)
}

// settle performs the single Pending -> terminal transition. Calls on an
// already settled promise are no-ops. Queued reactions are handed to the
// scheduler in registration order and the queue is released.
func (p *Promise) settle(state State, value any, reason error) {
	p.mu.Lock()

	if StatePending != p.state {
		p.mu.Unlock()
		return
	}

	p.state = state
	p.value = value
	p.reason = reason

	pending := p.reactions
	p.reactions = nil

	p.mu.Unlock()

	observeSettled(state, time.Since(p.created))

	for _, r := range pending {
		r := r
		schedule(func() { r.run(state, value, reason) })
	}
}

// enqueue registers a reaction. On a pending promise it is queued for the
// settlement transition; on a settled promise it is scheduled right away.
// Either way the reaction runs in a later turn, never synchronously.
func (p *Promise) enqueue(r *reaction) {
	p.mu.Lock()

	if StatePending == p.state {
		p.reactions = append(p.reactions, r)
		p.mu.Unlock()
		return
	}

	state, value, reason := p.state, p.value, p.reason
	p.mu.Unlock()

	schedule(func() { r.run(state, value, reason) })
}

// assimilate defers this promise to a foreign thenable. The thenable's Then
// is invoked synchronously; a panic inside it rejects this promise. The
// at-most-once transition makes duplicate callback invocations harmless.
func (p *Promise) assimilate(t Thenable) {
	defer func() {
		if v := recover(); nil != v {
			p.reject(asError(v))
		}
	}()

	t.Then(
		func(value any) { p.resolve(value) },
		func(reason error) { p.reject(reason) },
	)
}

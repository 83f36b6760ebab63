package promise

// Then registers reactions for this promise's settlement and returns a new
// derived promise. It never blocks and the reactions never run within the
// registering call.
//
// The derived promise settles as follows:
//   - selected handler absent: the source state and payload pass through
//     unchanged;
//   - handler returns (result, nil): the derived promise fulfills with
//     result, or adopts it when it is a *Promise or Thenable;
//   - handler returns a non-nil err, or panics: the derived promise rejects
//     with that error.
//
// Either handler may be nil. Then(nil, nil) yields a promise mirroring the
// source, useful as an observation point.
func (p *Promise) Then(onFulfilled FulfillHandler, onRejected RejectHandler) *Promise {
	next := newPending()

	p.enqueue(&reaction{
		onFulfilled: onFulfilled,
		onRejected:  onRejected,
		next:        next,
	})

	return next
}

// Catch registers a rejection handler only, equivalent to
// Then(nil, onRejected).
func (p *Promise) Catch(onRejected RejectHandler) *Promise {
	return p.Then(nil, onRejected)
}

// Finally registers a handler invoked on settlement regardless of outcome.
// The returned promise carries the original settlement through unchanged; a
// panic inside onFinally rejects it instead.
func (p *Promise) Finally(onFinally FinallyHandler) *Promise {
	if nil == onFinally {
		return p.Then(nil, nil)
	}

	return p.Then(
		func(value any) (any, error) {
			onFinally()
			return value, nil
		},
		func(reason error) (any, error) {
			onFinally()
			return nil, reason
		},
	)
}

// Done consumes this promise at the end of a chain. Scheduling matches Then,
// but no derived promise is produced and errors are never swallowed: an
// unhandled rejection, a handler error, or a handler panic is reported to
// the uncaught error handler (see SetUncaughtErrorHandler).
func (p *Promise) Done(onFulfilled FulfillHandler, onRejected RejectHandler) {
	p.enqueue(&reaction{
		onFulfilled: onFulfilled,
		onRejected:  onRejected,
		terminal:    true,
	})
}

// reaction is a callback registration queued on a pending promise. next is
// the derived promise to settle, or nil for terminal (Done) reactions,
// which escalate errors instead of propagating them.
type reaction struct {
	onFulfilled FulfillHandler
	onRejected  RejectHandler
	next        *Promise
	terminal    bool
}

// run executes the reaction against a settled source. It is always invoked
// from a scheduler turn.
func (r *reaction) run(state State, value any, reason error) {
	switch state {
	case StateFulfilled:
		if nil == r.onFulfilled {
			if nil != r.next {
				r.next.resolve(value)
			}
			return
		}

		r.invoke(r.onFulfilled, value)

	case StateRejected:
		if nil == r.onRejected {
			if r.terminal {
				reportUncaught(reason)
			} else if nil != r.next {
				r.next.reject(reason)
			}
			return
		}

		r.invoke(func(any) (any, error) { return r.onRejected(reason) }, nil)
	}
}

// invoke runs a handler with panic recovery and maps its outcome onto the
// derived promise, or onto the uncaught error handler for terminal
// reactions.
func (r *reaction) invoke(handler FulfillHandler, value any) {
	defer func() {
		if v := recover(); nil != v {
			r.fail(asError(v))
		}
	}()

	result, err := handler(value)
	if nil != err {
		r.fail(err)
		return
	}

	if nil != r.next {
		r.next.resolve(result)
	}
}

func (r *reaction) fail(err error) {
	if r.terminal {
		reportUncaught(err)
		return
	}

	if nil != r.next {
		r.next.reject(err)
	}
}

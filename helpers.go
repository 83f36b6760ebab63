package promise

import "sync/atomic"

// Resolve coerces a value into a promise. A *Promise is returned unchanged;
// a Thenable is wrapped in a promise adopting its eventual state; any other
// value yields a promise immediately fulfilled with it.
func Resolve(value any) *Promise {
	switch v := value.(type) {
	case *Promise:
		return v

	case Thenable:
		p := newPending()
		p.assimilate(v)
		return p

	default:
		p := newPending()
		p.settle(StateFulfilled, value, nil)
		return p
	}
}

// Reject returns a promise immediately rejected with reason.
func Reject(reason error) *Promise {
	p := newPending()
	p.settle(StateRejected, nil, reason)
	return p
}

// All returns a promise that fulfills with the results of all inputs, in
// input order, once every input fulfills, or rejects with the reason of the
// first input to reject. Remaining inputs are then abandoned, not cancelled.
//
// Non-promise elements are treated as already fulfilled values, consistent
// with Resolve. An empty input fulfills immediately with an empty slice.
func All(values ...any) *Promise {
	results := make([]any, len(values))

	if 0 == len(values) {
		p := newPending()
		p.settle(StateFulfilled, results, nil)
		return p
	}

	next := newPending()
	remaining := int64(len(values))

	for i, value := range values {
		i := i

		Resolve(value).Then(
			func(value any) (any, error) {
				results[i] = value

				if 0 == atomic.AddInt64(&remaining, -1) {
					next.settle(StateFulfilled, results, nil)
				}

				return nil, nil
			},
			func(reason error) (any, error) {
				// First rejection wins; settle is a no-op afterwards.
				next.reject(reason)

				return nil, nil
			},
		)
	}

	return next
}

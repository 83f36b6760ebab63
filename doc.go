// Package promise implements an asynchronous-result container with a fixed
// state machine, deterministic resolution semantics, and chaining
// operators.
//
// A Promise starts pending and transitions exactly once to fulfilled or
// rejected. Reactions registered with Then and Done are never invoked
// synchronously within the registering call; they are deferred through a
// Scheduler collaborator (a serial FIFO queue by default, replaceable via
// SetScheduler) and run in registration order. A caller of Then can rely on
// its own code finishing before any reaction runs, whether or not the
// promise was already settled.
//
//	p := promise.New(func(fulfill promise.Resolver, reject promise.Rejector) {
//		go func() {
//			value, err := fetch()
//			if err != nil {
//				reject(err)
//				return
//			}
//			fulfill(value)
//		}()
//	})
//
//	p.Then(func(value any) (any, error) {
//		return transform(value), nil
//	}, nil).Done(func(value any) (any, error) {
//		consume(value)
//		return nil, nil
//	}, nil)
//
// Rejections with no matching handler pass through Then chains unchanged.
// Done marks the end of a chain: errors surfacing there are reported to the
// injectable uncaught error handler instead of being silently dropped.
//
// Any value exposing a compatible Then member (see Thenable) is assimilated
// when it appears as a fulfillment value or handler result, so foreign
// promise-like implementations compose without explicit conversion.
// Denodeify and Nodeify bridge node-style callback operations in both
// directions. Cancellation is unsupported; the only failure short-circuit
// is rejection.
package promise

package promise

// Denodeify wraps a callback-accepting operation into a function returning a
// promise. The wrapped operation receives the invocation arguments and a
// node-style callback; a truthy err rejects, otherwise the promise fulfills
// with value.
//
//	readFile := promise.Denodeify(func(args []any, callback promise.NodeCallback) {
//		data, err := os.ReadFile(args[0].(string))
//		callback(err, data)
//	})
//	readFile("config.json").Then(...)
func Denodeify(fn CallbackFunc) func(args ...any) *Promise {
	return func(args ...any) *Promise {
		return New(func(fulfill Resolver, reject Rejector) {
			fn(args, func(err error, value any) {
				if nil != err {
					reject(err)
					return
				}

				fulfill(value)
			})
		})
	}
}

// Nodeify bridges promise style back to callback style. With a callback it
// attaches it to be invoked with (err, value) upon settlement and returns
// nil; without one it returns the promise unchanged, so callers can support
// both styles during gradual adoption.
func Nodeify(p *Promise, callback NodeCallback) *Promise {
	if nil == callback {
		return p
	}

	p.Done(
		func(value any) (any, error) {
			callback(nil, value)
			return nil, nil
		},
		func(reason error) (any, error) {
			callback(reason, nil)
			return nil, nil
		},
	)

	return nil
}

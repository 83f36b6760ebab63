package promise_test

import (
	"errors"
	"fmt"

	promise "github.com/eventualgo/go-promise"
)

func ExampleNew() {
	done := make(chan struct{})

	p := promise.New(func(fulfill promise.Resolver, reject promise.Rejector) {
		go fulfill("hello")
	})

	p.Done(func(value any) (any, error) {
		fmt.Println(value)
		close(done)
		return nil, nil
	}, nil)

	<-done
	// Output: hello
}

func ExamplePromise_Then() {
	done := make(chan struct{})

	promise.Resolve(2).
		Then(func(value any) (any, error) {
			return value.(int) * 21, nil
		}, nil).
		Done(func(value any) (any, error) {
			fmt.Println(value)
			close(done)
			return nil, nil
		}, nil)

	<-done
	// Output: 42
}

func ExampleAll() {
	done := make(chan struct{})

	promise.All(promise.Resolve(1), 2, promise.Resolve(3)).
		Done(func(value any) (any, error) {
			fmt.Println(value)
			close(done)
			return nil, nil
		}, nil)

	<-done
	// Output: [1 2 3]
}

func ExampleDenodeify() {
	done := make(chan struct{})

	lookup := promise.Denodeify(func(args []any, callback promise.NodeCallback) {
		name, ok := args[0].(string)
		if !ok {
			callback(errors.New("name must be a string"), nil)
			return
		}
		callback(nil, "hello "+name)
	})

	lookup("world").Done(func(value any) (any, error) {
		fmt.Println(value)
		close(done)
		return nil, nil
	}, nil)

	<-done
	// Output: hello world
}

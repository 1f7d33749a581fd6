package viewapi

import "context"

// Result is the outcome of an asynchronous fetch: a value or an error.
type Result[T any] struct {
	Value T
	Err   error
}

// FetchAsync runs fn on its own goroutine. The returned channel delivers
// exactly one Result and is then closed. Concurrent calls are independent
// and may complete in any order.
func FetchAsync[T any](ctx context.Context, fn func(context.Context) (T, error)) <-chan Result[T] {
	ch := make(chan Result[T], 1)
	go func() {
		defer close(ch)
		v, err := fn(ctx)
		ch <- Result[T]{Value: v, Err: err}
	}()
	return ch
}

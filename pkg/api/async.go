package api

import "context"

// Response holds the outcome of an asynchronous call. Exactly one of
// Value and Err is meaningful: Value only when Err is nil.
type Response[T any] struct {
	Value T
	Err   error
}

func (r Response[T]) Success() bool {
	return r.Err == nil
}

// Async runs call on its own goroutine and hands the outcome to
// completion once. The caller is never blocked; a caller that loses
// interest can simply ignore the completion.
func Async[T any](ctx context.Context, call func(context.Context) (T, error), completion func(Response[T])) {
	go func() {
		v, err := call(ctx)
		if err != nil {
			var zero T
			completion(Response[T]{Value: zero, Err: err})
			return
		}
		completion(Response[T]{Value: v})
	}()
}

// Package context detaches work from the lifetime of the request that started it.
package context

import (
	"context"
	"time"
)

type detachedContext struct {
	parent context.Context
}

// Detach returns a context that keeps the values of ctx but is never cancelled with it.
func Detach(ctx context.Context) context.Context {
	return detachedContext{ctx}
}

// DetachWithTimeout detaches ctx and bounds the result with its own timeout.
func DetachWithTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(Detach(ctx), timeout)
}

func (d detachedContext) Deadline() (deadline time.Time, ok bool) {
	return time.Time{}, false
}

func (d detachedContext) Done() <-chan struct{} {
	return nil
}

func (d detachedContext) Err() error {
	return nil
}

func (d detachedContext) Value(key any) any {
	return d.parent.Value(key)
}

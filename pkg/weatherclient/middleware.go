package weatherclient

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"
)

// Invoker performs a single named tool invocation. *Client satisfies it.
type Invoker interface {
	Invoke(ctx context.Context, name string, args map[string]any) (string, error)
}

// InvokerFunc adapts a plain function to the Invoker interface.
type InvokerFunc func(ctx context.Context, name string, args map[string]any) (string, error)

// Invoke calls the underlying function.
func (f InvokerFunc) Invoke(ctx context.Context, name string, args map[string]any) (string, error) {
	return f(ctx, name, args)
}

// Middleware wraps an Invoker, returning a new Invoker with added behaviour.
// It is explicit higher-order composition: each middleware takes a callable
// and returns a new callable.
type Middleware func(next Invoker) Invoker

// Chain composes middlewares around an Invoker, outermost first: the first
// middleware in the list sees every invocation before the others.
func Chain(inv Invoker, middlewares ...Middleware) Invoker {
	for i := len(middlewares) - 1; i >= 0; i-- {
		inv = middlewares[i](inv)
	}

	return inv
}

// --- Call-counting middleware ---

// CountCalls returns a Middleware that increments counter before each
// invocation passes through.
func CountCalls(counter *atomic.Int64) Middleware {
	return func(next Invoker) Invoker {
		return InvokerFunc(func(ctx context.Context, name string, args map[string]any) (string, error) {
			counter.Add(1)

			return next.Invoke(ctx, name, args)
		})
	}
}

// --- Timeout middleware ---

// Timeout returns a Middleware that wraps each invocation's context with a
// deadline.
func Timeout(d time.Duration) Middleware {
	return func(next Invoker) Invoker {
		return InvokerFunc(func(ctx context.Context, name string, args map[string]any) (string, error) {
			ctx, cancel := context.WithTimeout(ctx, d)
			defer cancel()

			return next.Invoke(ctx, name, args)
		})
	}
}

// --- Recovery middleware ---

// Recovery returns a Middleware that catches panics and converts them to errors.
func Recovery() Middleware {
	return func(next Invoker) Invoker {
		return InvokerFunc(func(ctx context.Context, name string, args map[string]any) (result string, err error) {
			defer func() {
				if r := recover(); r != nil {
					err = fmt.Errorf("invocation panicked: %v", r)
				}
			}()

			return next.Invoke(ctx, name, args)
		})
	}
}

// --- Logger middleware ---

// Logger returns a Middleware that logs each invocation's tool name,
// duration, and error.
func Logger(log *slog.Logger) Middleware {
	return func(next Invoker) Invoker {
		return InvokerFunc(func(ctx context.Context, name string, args map[string]any) (string, error) {
			log.InfoContext(ctx, "tool call started", "tool", name)

			start := time.Now()

			result, err := next.Invoke(ctx, name, args)

			duration := time.Since(start)

			if err != nil {
				log.ErrorContext(ctx, "tool call finished with error",
					"tool", name,
					"duration", duration,
					"error", err,
				)
			} else {
				log.InfoContext(ctx, "tool call finished",
					"tool", name,
					"duration", duration,
				)
			}

			return result, err
		})
	}
}

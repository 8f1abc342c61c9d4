package router

import "context"

// Navigation describes one navigation as seen by middleware.
type Navigation struct {
	// Path is the requested target as passed to Navigate.
	Path string

	// From is the location before the navigation.
	From Location

	// To is the resolved location. It is filled in once the target has
	// been matched, so it is only meaningful after next returns.
	To Location
}

// Middleware wraps a navigation. Implementations call next to continue
// and may inspect or replace the error it returns.
type Middleware interface {
	Handle(ctx context.Context, nav *Navigation, next func() error) error
}

// MiddlewareFunc adapts a function to the Middleware interface.
type MiddlewareFunc func(ctx context.Context, nav *Navigation, next func() error) error

// Handle implements Middleware.
func (f MiddlewareFunc) Handle(ctx context.Context, nav *Navigation, next func() error) error {
	return f(ctx, nav, next)
}

// compose builds the chain so that mw[0] runs first and handler last.
func compose(ctx context.Context, nav *Navigation, mw []Middleware, handler func() error) error {
	if len(mw) == 0 {
		return handler()
	}

	chain := handler
	for i := len(mw) - 1; i >= 0; i-- {
		m := mw[i]
		next := chain
		chain = func() error {
			return m.Handle(ctx, nav, next)
		}
	}
	return chain()
}

// Chain combines several middleware into one, run in order.
func Chain(middleware ...Middleware) Middleware {
	return MiddlewareFunc(func(ctx context.Context, nav *Navigation, next func() error) error {
		return compose(ctx, nav, middleware, next)
	})
}

// Skip bypasses mw for navigations where condition returns true.
func Skip(condition func(nav *Navigation) bool, mw Middleware) Middleware {
	return MiddlewareFunc(func(ctx context.Context, nav *Navigation, next func() error) error {
		if condition(nav) {
			return next()
		}
		return mw.Handle(ctx, nav, next)
	})
}

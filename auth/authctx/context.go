// Package authctx carries the authenticated identity through a request context.
//
// The middleware stores whatever the installed strategy resolved; handlers
// read it back with the concrete type:
//
//	ctx = authctx.Set(ctx, user, "session_auth")
//	user, ok := authctx.Get[*users.User](ctx)
package authctx

import (
	"context"
	"errors"
)

type identityKey struct{}

type strategyKey struct{}

// ErrNoIdentity is returned when no identity is stored in the context.
var ErrNoIdentity = errors.New("authctx: no identity in context")

// Set stores the identity and the name of the strategy that resolved it.
func Set(ctx context.Context, identity any, strategy string) context.Context {
	ctx = context.WithValue(ctx, identityKey{}, identity)
	return context.WithValue(ctx, strategyKey{}, strategy)
}

// Get returns the identity if present and of type T.
func Get[T any](ctx context.Context) (T, bool) {
	v, ok := ctx.Value(identityKey{}).(T)
	return v, ok
}

// MustGet returns the identity and panics when it is missing.
// Use only behind the auth middleware.
func MustGet[T any](ctx context.Context) T {
	v, ok := Get[T](ctx)
	if !ok {
		panic("authctx: identity not found in context or wrong type")
	}
	return v
}

// GetOrError returns the identity or ErrNoIdentity.
func GetOrError[T any](ctx context.Context) (T, error) {
	v, ok := Get[T](ctx)
	if !ok {
		var zero T
		return zero, ErrNoIdentity
	}
	return v, nil
}

// Strategy returns the name of the strategy that authenticated the request.
func Strategy(ctx context.Context) string {
	s, _ := ctx.Value(strategyKey{}).(string)
	return s
}

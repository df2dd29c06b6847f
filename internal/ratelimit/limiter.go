// Package ratelimit provides a fixed-window request limiter shared by
// the notification, contact and tracking endpoints. The store is
// injectable: the in-memory store is the single-process default, and the
// Redis store gives shared counters when running multiple instances.
package ratelimit

import (
	"context"
	"time"
)

// Policy is one call site's limit and window. Every endpoint configures
// its own pair.
type Policy struct {
	Limit  int
	Window time.Duration
}

// Store decides whether a request under the given key is inside its
// window budget.
type Store interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

// Limiter binds a policy to a store.
type Limiter struct {
	store  Store
	policy Policy
}

// New creates a limiter with the given store and policy.
func New(store Store, policy Policy) *Limiter {
	return &Limiter{store: store, policy: policy}
}

// Allow reports whether a request from the given client key may proceed.
func (l *Limiter) Allow(ctx context.Context, key string) (bool, error) {
	return l.store.Allow(ctx, key, l.policy.Limit, l.policy.Window)
}

// Policy returns the limiter's configured policy.
func (l *Limiter) Policy() Policy {
	return l.policy
}

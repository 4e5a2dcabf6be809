// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package lifecycle provides helpers for defining actions to execute when a
// host starts serving and after it stops.
package lifecycle

import (
	"context"
	"errors"
	"slices"
	"sync"
)

// Hook represents functionality that needs to be performed
// at a specific "time" relative to serving.
type Hook interface {
	Run(context.Context) error
}

// HookFunc is a func variant of the [Hook] interface.
type HookFunc func(context.Context) error

// Run implements the [Hook] interface.
func (f HookFunc) Run(ctx context.Context) error {
	return f(ctx)
}

type multiHook []Hook

func (mh multiHook) Run(ctx context.Context) error {
	errs := make([]error, 0, len(mh))
	for _, h := range mh {
		err := h.Run(ctx)
		if err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) == 0 {
		return nil
	}
	if len(errs) == 1 {
		return errs[0]
	}
	return errors.Join(errs...)
}

// MultiHook returns a [Hook] that's the logical concatenation
// of the provided [Hook]s. They're applied sequentially and every
// hook runs even if a previous one failed.
func MultiHook(hooks ...Hook) Hook {
	return multiHook(hooks)
}

// Context collects start and stop hooks. It is safe for concurrent use.
type Context struct {
	mu     sync.Mutex
	starts multiHook
	stops  multiHook
}

// OnStart registers a [Hook] to run before serving begins. Start hooks
// run in registration order.
func (c *Context) OnStart(hook Hook) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.starts = append(c.starts, hook)
}

// OnStop registers a [Hook] to run after serving ends. Stop hooks run in
// reverse registration order so resources are released in the opposite
// order they were acquired.
func (c *Context) OnStop(hook Hook) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stops = append(c.stops, hook)
}

// Start returns the composition of every start [Hook].
func (c *Context) Start() Hook {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.starts)
}

// Stop returns the composition of every stop [Hook].
func (c *Context) Stop() Hook {
	c.mu.Lock()
	defer c.mu.Unlock()
	stops := slices.Clone(c.stops)
	slices.Reverse(stops)
	return stops
}

type key struct{}

var contextKey = &key{}

// NewContext returns a new [context.Context] containing the lifecycle [Context].
func NewContext(parent context.Context, c *Context) context.Context {
	return context.WithValue(parent, contextKey, c)
}

// FromContext tries to extract a lifecycle [Context] from the given [context.Context].
func FromContext(ctx context.Context) (*Context, bool) {
	lc, ok := ctx.Value(contextKey).(*Context)
	return lc, ok
}

// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package wrap provides interceptors which run around handler execution.
package wrap

import (
	"github.com/z5labs/webhost/exchange"
)

// Invocation continues the execution of a wrapped handler.
type Invocation func() (any, error)

// Wrapper intercepts the execution of a handler. A Wrapper may
// short-circuit by not calling next, or replace its result.
type Wrapper interface {
	Wrap(req *exchange.Request, next Invocation) (any, error)
}

// WrapperFunc is a func implementation of [Wrapper].
type WrapperFunc func(req *exchange.Request, next Invocation) (any, error)

// Wrap implements the [Wrapper] interface.
func (f WrapperFunc) Wrap(req *exchange.Request, next Invocation) (any, error) {
	return f(req, next)
}

// Chain is an ordered list of wrappers. The first wrapper is the outermost.
type Chain []Wrapper

// Invoke runs h inside every wrapper of the chain. Nil entries are skipped.
func (c Chain) Invoke(req *exchange.Request, h Invocation) (any, error) {
	return c.invoke(0, req, h)
}

func (c Chain) invoke(i int, req *exchange.Request, h Invocation) (any, error) {
	for i < len(c) && c[i] == nil {
		i++
	}
	if i >= len(c) {
		return h()
	}
	return c[i].Wrap(req, func() (any, error) {
		return c.invoke(i+1, req, h)
	})
}

// Join concatenates chains into a new chain.
func Join(chains ...Chain) Chain {
	var n int
	for _, c := range chains {
		n += len(c)
	}
	joined := make(Chain, 0, n)
	for _, c := range chains {
		joined = append(joined, c...)
	}
	return joined
}

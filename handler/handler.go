// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package handler defines the handler shapes accepted by a registry and
// adapts them to a single [Handler] form.
package handler

import (
	"github.com/z5labs/webhost/exchange"
	"github.com/z5labs/webhost/wrap"
)

// ReqHandler computes a result from a request.
type ReqHandler interface {
	Execute(req *exchange.Request) (any, error)
}

// ReqHandlerFunc is a func implementation of [ReqHandler].
type ReqHandlerFunc func(req *exchange.Request) (any, error)

// Execute implements the [ReqHandler] interface.
func (f ReqHandlerFunc) Execute(req *exchange.Request) (any, error) {
	return f(req)
}

// ReqRespHandler computes a result from a request and may manipulate the
// response directly.
type ReqRespHandler interface {
	Execute(req *exchange.Request, resp *exchange.Response) (any, error)
}

// ReqRespHandlerFunc is a func implementation of [ReqRespHandler].
type ReqRespHandlerFunc func(req *exchange.Request, resp *exchange.Response) (any, error)

// Execute implements the [ReqRespHandler] interface.
func (f ReqRespHandlerFunc) Execute(req *exchange.Request, resp *exchange.Response) (any, error) {
	return f(req, resp)
}

// Handler is the normalized form every registered handler is adapted to.
// Returning [exchange.NotFound] lets the registry try the next candidate.
type Handler interface {
	Handle(req *exchange.Request, resp *exchange.Response) (exchange.Status, error)
}

// HandlerFunc is a func implementation of [Handler].
type HandlerFunc func(req *exchange.Request, resp *exchange.Response) (exchange.Status, error)

// Handle implements the [Handler] interface.
func (f HandlerFunc) Handle(req *exchange.Request, resp *exchange.Response) (exchange.Status, error) {
	return f(req, resp)
}

// Constant returns a [ReqHandler] which always yields v.
func Constant(v any) ReqHandler {
	return ReqHandlerFunc(func(*exchange.Request) (any, error) {
		return v, nil
	})
}

// FromReq adapts h into a [Handler] which defaults the response content
// type to mt and runs h inside chain.
func FromReq(h ReqHandler, mt exchange.MediaType, chain wrap.Chain) Handler {
	return FromReqResp(
		ReqRespHandlerFunc(func(req *exchange.Request, _ *exchange.Response) (any, error) {
			return h.Execute(req)
		}),
		mt,
		chain,
	)
}

// FromReqResp adapts h into a [Handler] which defaults the response
// content type to mt and runs h inside chain.
func FromReqResp(h ReqRespHandler, mt exchange.MediaType, chain wrap.Chain) Handler {
	return HandlerFunc(func(req *exchange.Request, resp *exchange.Response) (exchange.Status, error) {
		if mt != "" {
			resp.DefaultContentType(mt)
		}
		v, err := chain.Invoke(req, func() (any, error) {
			return h.Execute(req, resp)
		})
		if err != nil {
			return exchange.Done, err
		}
		if status, ok := v.(exchange.Status); ok {
			return status, nil
		}
		if v != nil {
			resp.SetResult(v)
		}
		return exchange.Done, nil
	})
}

// Wrapped runs h inside chain. The chain result is ignored unless it is
// an [exchange.Status].
func Wrapped(h Handler, chain wrap.Chain) Handler {
	if len(chain) == 0 {
		return h
	}
	return HandlerFunc(func(req *exchange.Request, resp *exchange.Response) (exchange.Status, error) {
		v, err := chain.Invoke(req, func() (any, error) {
			return h.Handle(req, resp)
		})
		if err != nil {
			return exchange.Done, err
		}
		if status, ok := v.(exchange.Status); ok {
			return status, nil
		}
		if v != nil {
			resp.SetResult(v)
		}
		return exchange.Done, nil
	})
}

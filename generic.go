// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package webhost

import (
	"github.com/z5labs/webhost/bootstrap"
	"github.com/z5labs/webhost/exchange"
	"github.com/z5labs/webhost/handler"
	"github.com/z5labs/webhost/wrap"
)

// Req registers h as a catch-all handler.
func (s *Setup) Req(h handler.ReqHandler) error {
	return s.generic(func(chain wrap.Chain) handler.Handler {
		return handler.FromReq(h, exchange.HTMLUTF8, chain)
	})
}

// ReqResp registers h as a catch-all handler.
func (s *Setup) ReqResp(h handler.ReqRespHandler) error {
	return s.generic(func(chain wrap.Chain) handler.Handler {
		return handler.FromReqResp(h, exchange.HTMLUTF8, chain)
	})
}

// Generic registers h as a catch-all handler.
func (s *Setup) Generic(h handler.Handler) error {
	return s.generic(func(chain wrap.Chain) handler.Handler {
		return handler.Wrapped(h, chain)
	})
}

func (s *Setup) generic(adapt func(wrap.Chain) handler.Handler) error {
	reg, chain, err := s.activate()
	if err != nil {
		return err
	}
	return reg.AddGenericHandler(adapt(chain))
}

// Register registers every handler shaped object as a catch-all handler,
// in argument order, and every remaining object as a controller. The setup
// is activated even when objs is empty.
func (s *Setup) Register(objs ...any) error {
	_, _, err := s.activate()
	if err != nil {
		return err
	}

	var controllers []any
	for _, obj := range objs {
		switch h := obj.(type) {
		case handler.Handler:
			err = s.Generic(h)
		case handler.ReqHandler:
			err = s.Req(h)
		case handler.ReqRespHandler:
			err = s.ReqResp(h)
		case func(*exchange.Request, *exchange.Response) (exchange.Status, error):
			err = s.Generic(handler.HandlerFunc(h))
		case func(*exchange.Request) (any, error):
			err = s.Req(handler.ReqHandlerFunc(h))
		case func(*exchange.Request, *exchange.Response) (any, error):
			err = s.ReqResp(handler.ReqRespHandlerFunc(h))
		default:
			controllers = append(controllers, obj)
		}
		if err != nil {
			return err
		}
	}
	if len(controllers) == 0 {
		return nil
	}
	return bootstrap.Register(controllerTarget{s}, controllers...)
}

// DeregisterControllers removes every route declared by objs.
func (s *Setup) DeregisterControllers(objs ...any) error {
	return bootstrap.Deregister(controllerTarget{s}, objs...)
}

type controllerTarget struct {
	s *Setup
}

func (t controllerTarget) Route(verb, path string, mt exchange.MediaType, h any) error {
	return t.s.On(verb, path).ContentType(mt).any(h)
}

func (t controllerTarget) Deregister(verb, path string) {
	t.s.Deregister(verb, path)
}

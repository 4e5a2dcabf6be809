// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package webhost

import (
	"fmt"
	"net/http"
	"slices"

	"github.com/z5labs/webhost/exchange"
	"github.com/z5labs/webhost/handler"
	"github.com/z5labs/webhost/registry"
	"github.com/z5labs/webhost/wrap"
)

// Get starts the registration of a GET route.
func (s *Setup) Get(path string) *OnAction {
	return s.On(http.MethodGet, path)
}

// Post starts the registration of a POST route.
func (s *Setup) Post(path string) *OnAction {
	return s.On(http.MethodPost, path)
}

// Put starts the registration of a PUT route.
func (s *Setup) Put(path string) *OnAction {
	return s.On(http.MethodPut, path)
}

// Delete starts the registration of a DELETE route.
func (s *Setup) Delete(path string) *OnAction {
	return s.On(http.MethodDelete, path)
}

// Patch starts the registration of a PATCH route.
func (s *Setup) Patch(path string) *OnAction {
	return s.On(http.MethodPatch, path)
}

// Options starts the registration of an OPTIONS route.
func (s *Setup) Options(path string) *OnAction {
	return s.On(http.MethodOptions, path)
}

// Head starts the registration of a HEAD route.
func (s *Setup) Head(path string) *OnAction {
	return s.On(http.MethodHead, path)
}

// Trace starts the registration of a TRACE route.
func (s *Setup) Trace(path string) *OnAction {
	return s.On(http.MethodTrace, path)
}

// On activates the setup and starts the registration of a route for verb
// and path. The current default wrappers are applied to the route.
func (s *Setup) On(verb, path string) *OnAction {
	reg, chain, err := s.activate()
	return &OnAction{
		reg:      reg,
		verb:     verb,
		path:     path,
		wrappers: chain,
		err:      err,
	}
}

// OnAction completes the registration of a single route.
type OnAction struct {
	reg         *registry.Registry
	verb        string
	path        string
	contentType exchange.MediaType
	wrappers    wrap.Chain
	err         error
}

// Wrap replaces the wrappers of this route.
func (a *OnAction) Wrap(wrappers ...wrap.Wrapper) *OnAction {
	a.wrappers = slices.Clone(wrap.Chain(wrappers))
	return a
}

// ContentType sets the default content type used by [OnAction.Exec] and
// [OnAction.ExecResp].
func (a *OnAction) ContentType(mt exchange.MediaType) *OnAction {
	a.contentType = mt
	return a
}

// Html registers h with an HTML default content type.
func (a *OnAction) Html(h handler.ReqHandler) error {
	return a.add(handler.FromReq(h, exchange.HTMLUTF8, a.wrappers))
}

// Json registers h with a JSON default content type.
func (a *OnAction) Json(h handler.ReqHandler) error {
	return a.add(handler.FromReq(h, exchange.JSON, a.wrappers))
}

// Plain registers h with a plain text default content type.
func (a *OnAction) Plain(h handler.ReqHandler) error {
	return a.add(handler.FromReq(h, exchange.PlainTextUTF8, a.wrappers))
}

// Binary registers h with a binary default content type.
func (a *OnAction) Binary(h handler.ReqHandler) error {
	return a.add(handler.FromReq(h, exchange.Binary, a.wrappers))
}

// Exec registers h with the content type of the action, HTML by default.
func (a *OnAction) Exec(h handler.ReqHandler) error {
	return a.add(handler.FromReq(h, a.mediaType(), a.wrappers))
}

// ExecResp registers h with the content type of the action, HTML by default.
func (a *OnAction) ExecResp(h handler.ReqRespHandler) error {
	return a.add(handler.FromReqResp(h, a.mediaType(), a.wrappers))
}

// Handle registers a generic handler.
func (a *OnAction) Handle(h handler.Handler) error {
	return a.add(handler.Wrapped(h, a.wrappers))
}

func (a *OnAction) mediaType() exchange.MediaType {
	if a.contentType == "" {
		return exchange.HTMLUTF8
	}
	return a.contentType
}

func (a *OnAction) add(h handler.Handler) error {
	if a.err != nil {
		return a.err
	}
	return a.reg.Add(a.verb, a.path, h)
}

// any registers h according to its shape.
func (a *OnAction) any(h any) error {
	switch x := h.(type) {
	case handler.Handler:
		return a.Handle(x)
	case handler.ReqHandler:
		return a.Exec(x)
	case handler.ReqRespHandler:
		return a.ExecResp(x)
	case func(*exchange.Request, *exchange.Response) (exchange.Status, error):
		return a.Handle(handler.HandlerFunc(x))
	case func(*exchange.Request) (any, error):
		return a.Exec(handler.ReqHandlerFunc(x))
	case func(*exchange.Request, *exchange.Response) (any, error):
		return a.ExecResp(handler.ReqRespHandlerFunc(x))
	default:
		return UnsupportedHandlerError{
			Verb: a.verb,
			Path: a.path,
			Type: fmt.Sprintf("%T", h),
		}
	}
}

// Page activates the setup and starts the registration of a page served
// for both GET and POST.
func (s *Setup) Page(path string) *OnPage {
	reg, chain, err := s.activate()
	return &OnPage{
		reg:      reg,
		path:     path,
		wrappers: chain,
		err:      err,
	}
}

// OnPage completes the registration of a page.
type OnPage struct {
	reg      *registry.Registry
	path     string
	wrappers wrap.Chain
	err      error
}

// Wrap replaces the wrappers of this page.
func (p *OnPage) Wrap(wrappers ...wrap.Wrapper) *OnPage {
	p.wrappers = slices.Clone(wrap.Chain(wrappers))
	return p
}

// Html registers h as the page body.
func (p *OnPage) Html(h handler.ReqHandler) error {
	return p.add(handler.FromReq(h, exchange.HTMLUTF8, p.wrappers))
}

// View registers h as the model of the named view.
func (p *OnPage) View(name string, h handler.ReqHandler) error {
	view := handler.ReqRespHandlerFunc(func(req *exchange.Request, resp *exchange.Response) (any, error) {
		model, err := h.Execute(req)
		if err != nil {
			return nil, err
		}
		if status, ok := model.(exchange.Status); ok {
			return status, nil
		}
		resp.View(name, model)
		return nil, nil
	})
	return p.add(handler.FromReqResp(view, exchange.HTMLUTF8, p.wrappers))
}

func (p *OnPage) add(h handler.Handler) error {
	if p.err != nil {
		return p.err
	}
	for _, verb := range []string{http.MethodGet, http.MethodPost} {
		err := p.reg.Add(verb, p.path, h)
		if err != nil {
			return err
		}
	}
	return nil
}

// Deregister removes the route for verb and path. Removing a route which
// was never registered is a no-op.
func (s *Setup) Deregister(verb, path string) *Setup {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.http != nil {
		s.http.Remove(verb, path)
	}
	return s
}

// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package registry

import (
	"net/http"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/z5labs/webhost/exchange"
	"github.com/z5labs/webhost/handler"
	"github.com/z5labs/webhost/internal/try"

	"go.uber.org/zap"
)

// dispatcher is an immutable snapshot of the registry configuration taken
// whenever the router is rebuilt.
type dispatcher struct {
	log        *zap.Logger
	listener   Listener
	attrs      *exchange.Attributes
	generics   []handler.Handler
	errHandler handler.ErrorHandler
	staticDirs []string
	renderer   exchange.ViewRenderer
}

func (d *dispatcher) route(h handler.Handler) http.HandlerFunc {
	candidates := make([]handler.Handler, 0, len(d.generics)+1)
	if h != nil {
		candidates = append(candidates, h)
	}
	candidates = append(candidates, d.generics...)

	return func(w http.ResponseWriter, raw *http.Request) {
		start := time.Now()
		req, resp := exchange.New(w, raw, d.attrs)
		d.listener.OnRequest(req)
		defer func() {
			d.listener.OnResponse(req, resp, time.Since(start))
		}()

		if !d.handle(candidates, req, resp) && !d.serveStatic(req, resp) {
			resp.Reset()
			resp.SetCode(http.StatusNotFound).
				SetContentType(exchange.PlainTextUTF8).
				SetResult(http.StatusText(http.StatusNotFound))
		}

		d.flush(req, resp)
	}
}

func (d *dispatcher) handle(candidates []handler.Handler, req *exchange.Request, resp *exchange.Response) bool {
	for _, h := range candidates {
		status, err := invoke(h, req, resp)
		if err != nil {
			d.handleError(req, resp, err)
			return true
		}
		if status == exchange.Done {
			return true
		}
		if resp.Written() {
			return true
		}
		resp.Reset()
	}
	return false
}

func invoke(h handler.Handler, req *exchange.Request, resp *exchange.Response) (_ exchange.Status, err error) {
	defer try.Recover(&err)
	return h.Handle(req, resp)
}

func (d *dispatcher) handleError(req *exchange.Request, resp *exchange.Response, err error) {
	if resp.Written() {
		d.log.Error("handler failed after writing response", zap.Error(err))
		return
	}

	resp.Reset()
	resp.DefaultContentType(exchange.PlainTextUTF8)
	v, herr := handleErr(d.errHandler, req, resp, err)
	if herr != nil {
		d.log.Error(
			"error handler failed",
			zap.Error(herr),
			zap.NamedError("cause", err),
		)
		resp.Reset()
		v, _ = handler.DefaultErrorHandler.HandleError(req, resp, err)
	}
	if v != nil {
		resp.SetResult(v)
	}
}

func handleErr(eh handler.ErrorHandler, req *exchange.Request, resp *exchange.Response, cause error) (_ any, err error) {
	defer try.Recover(&err)
	return eh.HandleError(req, resp, cause)
}

func (d *dispatcher) serveStatic(req *exchange.Request, resp *exchange.Response) bool {
	if len(d.staticDirs) == 0 {
		return false
	}
	if req.Verb() != http.MethodGet && req.Verb() != http.MethodHead {
		return false
	}

	name := filepath.FromSlash(path.Clean("/" + req.Path()))
	for _, dir := range d.staticDirs {
		p := filepath.Join(dir, name)
		info, err := os.Stat(p)
		if err != nil || info.IsDir() {
			continue
		}
		http.ServeFile(resp.Writer(), req.Raw(), p)
		return true
	}
	return false
}

func (d *dispatcher) flush(req *exchange.Request, resp *exchange.Response) {
	err := resp.Flush(d.renderer)
	if err == nil {
		return
	}
	d.log.Error(
		"failed to write response",
		zap.String("verb", req.Verb()),
		zap.String("path", req.Path()),
		zap.Error(err),
	)
	if resp.Written() {
		return
	}
	resp.Reset()
	resp.SetCode(http.StatusInternalServerError).
		SetContentType(exchange.PlainTextUTF8).
		SetResult(http.StatusText(http.StatusInternalServerError))
	err = resp.Flush(nil)
	if err != nil {
		d.log.Error("failed to write error response", zap.Error(err))
	}
}

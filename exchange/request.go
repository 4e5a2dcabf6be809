// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package exchange

import (
	"context"
	"io"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
)

// Request is the inbound half of an exchange.
type Request struct {
	raw   *http.Request
	resp  *Response
	attrs *Attributes
	id    string

	bodyOnce sync.Once
	body     []byte
	bodyErr  error
}

// New pairs a [Request] and [Response] for a single exchange. attrs may be
// nil, in which case the request carries a private store.
func New(w http.ResponseWriter, r *http.Request, attrs *Attributes) (*Request, *Response) {
	if attrs == nil {
		attrs = NewAttributes()
	}
	resp := NewResponse(w)
	req := &Request{
		raw:   r,
		resp:  resp,
		attrs: attrs,
	}
	return req, resp
}

// Raw returns the underlying [http.Request].
func (r *Request) Raw() *http.Request {
	return r.raw
}

// Response returns the response paired with this request.
func (r *Request) Response() *Response {
	return r.resp
}

// Context returns the request context.
func (r *Request) Context() context.Context {
	return r.raw.Context()
}

// SetContext replaces the request context, e.g. to carry a tracing span.
func (r *Request) SetContext(ctx context.Context) {
	r.raw = r.raw.WithContext(ctx)
}

// Verb returns the HTTP method.
func (r *Request) Verb() string {
	return r.raw.Method
}

// Path returns the URL path.
func (r *Request) Path() string {
	return r.raw.URL.Path
}

// Param returns the named route parameter, falling back to the
// query string when the route has no such parameter.
func (r *Request) Param(name string) string {
	if v := chi.URLParam(r.raw, name); v != "" {
		return v
	}
	return r.raw.URL.Query().Get(name)
}

// Header returns the first value of the named request header.
func (r *Request) Header(name string) string {
	return r.raw.Header.Get(name)
}

// Body reads the request body once and returns the cached bytes on
// every subsequent call.
func (r *Request) Body() ([]byte, error) {
	r.bodyOnce.Do(func() {
		if r.raw.Body == nil {
			return
		}
		defer r.raw.Body.Close()
		r.body, r.bodyErr = io.ReadAll(r.raw.Body)
	})
	return r.body, r.bodyErr
}

// Attributes returns the store shared by all requests of the serving registry.
func (r *Request) Attributes() *Attributes {
	return r.attrs
}

// ID returns the request id, if one was assigned.
func (r *Request) ID() string {
	return r.id
}

// SetID assigns the request id.
func (r *Request) SetID(id string) {
	r.id = id
}

// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package exchange

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/goccy/go-json"
)

// ErrNoRenderer is returned by [Response.Flush] when a view was selected
// but no [ViewRenderer] is configured.
var ErrNoRenderer = errors.New("exchange: no view renderer configured")

// EncodeError occurs when a result value cannot be serialized.
type EncodeError struct {
	Cause error
}

// Error implements the [builtin.error] interface.
func (e EncodeError) Error() string {
	return fmt.Sprintf("failed to encode response body: %s", e.Cause)
}

// Unwrap implements the implicit interface used by [errors.Is] and [errors.As].
func (e EncodeError) Unwrap() error {
	return e.Cause
}

// Response is the buffered outbound half of an exchange.
type Response struct {
	w http.ResponseWriter

	code        int
	contentType MediaType
	explicit    bool
	result      any
	view        string
	written     bool
}

// NewResponse returns a [Response] with status code 200 writing to w.
func NewResponse(w http.ResponseWriter) *Response {
	return &Response{
		w:    w,
		code: http.StatusOK,
	}
}

// Code returns the status code which will be written.
func (r *Response) Code() int {
	return r.code
}

// SetCode sets the status code.
func (r *Response) SetCode(code int) *Response {
	r.code = code
	return r
}

// ContentType returns the content type which will be written.
func (r *Response) ContentType() MediaType {
	return r.contentType
}

// SetContentType explicitly sets the content type. An explicit content
// type is never overridden by a default.
func (r *Response) SetContentType(mt MediaType) *Response {
	r.contentType = mt
	r.explicit = true
	return r
}

// HasContentType reports whether the content type was set explicitly.
func (r *Response) HasContentType() bool {
	return r.explicit
}

// DefaultContentType sets mt unless a content type was set explicitly.
func (r *Response) DefaultContentType(mt MediaType) *Response {
	if !r.explicit {
		r.contentType = mt
	}
	return r
}

// Header returns the response header map.
func (r *Response) Header() http.Header {
	return r.w.Header()
}

// Result returns the value which will be written as the body.
func (r *Response) Result() any {
	return r.result
}

// SetResult sets the value which will be written as the body.
func (r *Response) SetResult(v any) *Response {
	r.result = v
	return r
}

// View selects a view to be rendered with model as the body.
func (r *Response) View(name string, model any) *Response {
	r.view = name
	r.result = model
	return r
}

// ViewName returns the selected view, if any.
func (r *Response) ViewName() string {
	return r.view
}

// Redirect responds with 302 Found and a Location header.
func (r *Response) Redirect(url string) *Response {
	r.w.Header().Set("Location", url)
	r.code = http.StatusFound
	r.result = nil
	r.view = ""
	return r
}

// Writer hands out the raw [http.ResponseWriter]. From then on the
// buffered state of the response is not written.
func (r *Response) Writer() http.ResponseWriter {
	r.written = true
	return r.w
}

// Written reports whether the response already reached the wire.
func (r *Response) Written() bool {
	return r.written
}

// Reset discards the buffered status, content type, result and view.
// It has no effect once the response was written.
func (r *Response) Reset() {
	if r.written {
		return
	}
	r.code = http.StatusOK
	r.contentType = ""
	r.explicit = false
	r.result = nil
	r.view = ""
}

// Flush writes the buffered response. Views are rendered with renderer.
// Flush is a no-op after the response was written.
func (r *Response) Flush(renderer ViewRenderer) error {
	if r.written {
		return nil
	}

	var body []byte
	if r.view != "" {
		if renderer == nil {
			return ErrNoRenderer
		}
		var buf bytes.Buffer
		err := renderer.Render(&buf, r.view, r.result)
		if err != nil {
			return err
		}
		body = buf.Bytes()
		r.DefaultContentType(HTMLUTF8)
	} else {
		b, mt, err := encode(r.result, r.contentType)
		if err != nil {
			return EncodeError{Cause: err}
		}
		body = b
		if mt != "" {
			r.DefaultContentType(mt)
		}
	}

	if r.contentType != "" {
		r.w.Header().Set("Content-Type", string(r.contentType))
	}
	r.written = true
	r.w.WriteHeader(r.code)
	if len(body) == 0 {
		return nil
	}
	_, err := r.w.Write(body)
	return err
}

// encode serializes v. Byte slices and readers are written as is, strings
// as is unless the content type is JSON, and every other value as JSON.
// The returned media type is non-empty when the encoding implies one.
func encode(v any, mt MediaType) ([]byte, MediaType, error) {
	switch x := v.(type) {
	case nil:
		return nil, "", nil
	case []byte:
		return x, "", nil
	case string:
		if mt == JSON {
			b, err := json.Marshal(x)
			return b, "", err
		}
		return []byte(x), "", nil
	case io.Reader:
		b, err := io.ReadAll(x)
		return b, "", err
	default:
		b, err := json.Marshal(x)
		return b, JSON, err
	}
}

// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package exchange

import "io"

// MediaType is the value of a Content-Type header.
type MediaType string

const (
	HTMLUTF8      MediaType = "text/html; charset=utf-8"
	PlainTextUTF8 MediaType = "text/plain; charset=utf-8"
	JSON          MediaType = "application/json"
	Binary        MediaType = "application/octet-stream"
)

// Status reports whether a handler dealt with a request.
type Status int

const (
	// Done means the response is complete and dispatch stops.
	Done Status = iota

	// NotFound means the handler declined the request and the next
	// candidate handler should be tried.
	NotFound
)

// String implements the [fmt.Stringer] interface.
func (s Status) String() string {
	switch s {
	case Done:
		return "done"
	case NotFound:
		return "not_found"
	default:
		return "unknown"
	}
}

// ViewRenderer renders a named view with the given model.
type ViewRenderer interface {
	Render(w io.Writer, view string, model any) error
}

// ViewRendererFunc is a func variant of the [ViewRenderer] interface.
type ViewRendererFunc func(w io.Writer, view string, model any) error

// Render implements the [ViewRenderer] interface.
func (f ViewRendererFunc) Render(w io.Writer, view string, model any) error {
	return f(w, view, model)
}

// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package exchange models a single HTTP request/response exchange as seen by
// webhost handlers and wrappers.
//
// A [Response] is buffered: handlers set a status code, a content type and a
// result value, and the owning registry writes it once dispatch has finished.
// Handlers needing direct control over the wire can take the raw
// [http.ResponseWriter] via [Response.Writer], after which the buffered state
// is ignored.
package exchange

// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package registry

import (
	"time"

	"github.com/z5labs/webhost/exchange"

	"go.uber.org/zap"
)

// Listener observes every request served by a [Registry].
type Listener interface {
	OnRequest(req *exchange.Request)
	OnResponse(req *exchange.Request, resp *exchange.Response, elapsed time.Duration)
}

// IgnorantListener ignores every event.
type IgnorantListener struct{}

// OnRequest implements the [Listener] interface.
func (IgnorantListener) OnRequest(*exchange.Request) {}

// OnResponse implements the [Listener] interface.
func (IgnorantListener) OnResponse(*exchange.Request, *exchange.Response, time.Duration) {}

type logListener struct {
	log *zap.Logger
}

// LogListener logs every served request at info level.
func LogListener(log *zap.Logger) Listener {
	return logListener{log: log}
}

func (l logListener) OnRequest(req *exchange.Request) {
	l.log.Debug(
		"received request",
		zap.String("verb", req.Verb()),
		zap.String("path", req.Path()),
	)
}

func (l logListener) OnResponse(req *exchange.Request, resp *exchange.Response, elapsed time.Duration) {
	l.log.Info(
		"served request",
		zap.String("verb", req.Verb()),
		zap.String("path", req.Path()),
		zap.Int("code", resp.Code()),
		zap.Duration("elapsed", elapsed),
	)
}

// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package wrap

import (
	"time"

	"github.com/z5labs/webhost/exchange"

	"go.uber.org/zap"
)

// Logging logs every invocation at debug level and failures at error level.
func Logging(log *zap.Logger) Wrapper {
	if log == nil {
		log = zap.L()
	}
	return WrapperFunc(func(req *exchange.Request, next Invocation) (any, error) {
		start := time.Now()
		v, err := next()
		fields := []zap.Field{
			zap.String("verb", req.Verb()),
			zap.String("path", req.Path()),
			zap.Duration("elapsed", time.Since(start)),
		}
		if id := req.ID(); id != "" {
			fields = append(fields, zap.String("request_id", id))
		}
		if err != nil {
			log.Error("handler failed", append(fields, zap.Error(err))...)
			return v, err
		}
		log.Debug("handler executed", fields...)
		return v, nil
	})
}

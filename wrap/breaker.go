// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package wrap

import (
	"errors"
	"fmt"
	"time"

	"github.com/z5labs/webhost/exchange"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// ErrCircuitOpen is returned when the circuit breaker rejects an invocation.
var ErrCircuitOpen = errors.New("circuit breaker is open")

// CircuitOption configures [CircuitBreaker].
type CircuitOption func(*circuitOptions)

type circuitOptions struct {
	settings  gobreaker.Settings
	tripCount uint32
	log       *zap.Logger
}

// CircuitMaxRequests sets the number of requests allowed through while half-open.
func CircuitMaxRequests(n uint32) CircuitOption {
	return func(co *circuitOptions) {
		co.settings.MaxRequests = n
	}
}

// CircuitInterval sets the cyclic period after which closed-state counts reset.
func CircuitInterval(d time.Duration) CircuitOption {
	return func(co *circuitOptions) {
		co.settings.Interval = d
	}
}

// CircuitTimeout sets how long the breaker stays open before going half-open.
func CircuitTimeout(d time.Duration) CircuitOption {
	return func(co *circuitOptions) {
		co.settings.Timeout = d
	}
}

// CircuitTripCount sets the number of consecutive failures which open the
// breaker. The default is 5.
func CircuitTripCount(n uint32) CircuitOption {
	return func(co *circuitOptions) {
		co.tripCount = n
	}
}

// CircuitLogger logs breaker state changes.
func CircuitLogger(log *zap.Logger) CircuitOption {
	return func(co *circuitOptions) {
		co.log = log
	}
}

// CircuitBreaker fails fast with [ErrCircuitOpen] once the wrapped handler
// keeps failing.
func CircuitBreaker(name string, opts ...CircuitOption) Wrapper {
	co := &circuitOptions{
		settings:  gobreaker.Settings{Name: name},
		tripCount: 5,
		log:       zap.L(),
	}
	for _, opt := range opts {
		opt(co)
	}

	tripCount := co.tripCount
	co.settings.ReadyToTrip = func(counts gobreaker.Counts) bool {
		return counts.ConsecutiveFailures >= tripCount
	}
	log := co.log
	co.settings.OnStateChange = func(name string, from, to gobreaker.State) {
		log.Warn(
			"circuit breaker changed state",
			zap.String("breaker", name),
			zap.Stringer("from", from),
			zap.Stringer("to", to),
		)
	}

	cb := gobreaker.NewCircuitBreaker(co.settings)
	return WrapperFunc(func(req *exchange.Request, next Invocation) (any, error) {
		v, err := cb.Execute(func() (interface{}, error) {
			return next()
		})
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("%w: %w", ErrCircuitOpen, err)
		}
		return v, err
	})
}

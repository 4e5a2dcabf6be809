// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package wrap

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/z5labs/webhost/exchange"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newRequest(t *testing.T) (*exchange.Request, *httptest.ResponseRecorder) {
	t.Helper()
	w := httptest.NewRecorder()
	req, _ := exchange.New(w, httptest.NewRequest(http.MethodGet, "/tasks", nil), nil)
	return req, w
}

func recordingWrapper(name string, trace *[]string) Wrapper {
	return WrapperFunc(func(req *exchange.Request, next Invocation) (any, error) {
		*trace = append(*trace, name+":before")
		v, err := next()
		*trace = append(*trace, name+":after")
		return v, err
	})
}

func TestChain_Invoke(t *testing.T) {
	t.Run("will run wrappers in registration order", func(t *testing.T) {
		var trace []string
		chain := Chain{
			recordingWrapper("a", &trace),
			nil,
			recordingWrapper("b", &trace),
		}
		req, _ := newRequest(t)

		v, err := chain.Invoke(req, func() (any, error) {
			trace = append(trace, "handler")
			return "ok", nil
		})

		require.NoError(t, err)
		require.Equal(t, "ok", v)
		require.Equal(t, []string{"a:before", "b:before", "handler", "b:after", "a:after"}, trace)
	})

	t.Run("will short-circuit when a wrapper does not call next", func(t *testing.T) {
		called := false
		chain := Chain{
			WrapperFunc(func(req *exchange.Request, next Invocation) (any, error) {
				return "cached", nil
			}),
		}
		req, _ := newRequest(t)

		v, err := chain.Invoke(req, func() (any, error) {
			called = true
			return nil, nil
		})

		require.NoError(t, err)
		require.Equal(t, "cached", v)
		require.False(t, called)
	})

	t.Run("will invoke the handler directly for an empty chain", func(t *testing.T) {
		req, _ := newRequest(t)
		v, err := Chain(nil).Invoke(req, func() (any, error) {
			return 1, nil
		})
		require.NoError(t, err)
		require.Equal(t, 1, v)
	})
}

func TestJoin(t *testing.T) {
	var trace []string
	a := recordingWrapper("a", &trace)
	b := recordingWrapper("b", &trace)
	c := recordingWrapper("c", &trace)

	joined := Join(Chain{a}, nil, Chain{b, c})
	require.Len(t, joined, 3)
}

func TestLogging(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := zap.New(core)
	req, _ := newRequest(t)
	errBoom := errors.New("boom")

	_, err := Chain{Logging(log)}.Invoke(req, func() (any, error) {
		return nil, errBoom
	})

	require.ErrorIs(t, err, errBoom)
	entries := logs.FilterMessage("handler failed").All()
	require.Len(t, entries, 1)
	require.Equal(t, "/tasks", entries[0].ContextMap()["path"])
}

func TestTracing(t *testing.T) {
	rec := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))
	defer tp.Shutdown(context.Background())

	req, _ := newRequest(t)
	errBoom := errors.New("boom")
	_, err := Chain{Tracing(tp.Tracer("test"))}.Invoke(req, func() (any, error) {
		return nil, errBoom
	})
	require.ErrorIs(t, err, errBoom)

	spans := rec.Ended()
	require.Len(t, spans, 1)
	require.Equal(t, "GET /tasks", spans[0].Name())
	require.Equal(t, codes.Error, spans[0].Status().Code)
}

func TestCircuitBreaker(t *testing.T) {
	errBoom := errors.New("boom")
	chain := Chain{CircuitBreaker("tasks", CircuitTripCount(2), CircuitLogger(zap.NewNop()))}
	req, _ := newRequest(t)

	calls := 0
	failing := func() (any, error) {
		calls++
		return nil, errBoom
	}

	for i := 0; i < 2; i++ {
		_, err := chain.Invoke(req, failing)
		require.ErrorIs(t, err, errBoom)
	}

	_, err := chain.Invoke(req, failing)
	require.ErrorIs(t, err, ErrCircuitOpen)
	require.Equal(t, 2, calls)
}

func TestRequestID(t *testing.T) {
	testCases := []struct {
		name    string
		inbound string
	}{
		{
			name:    "will reuse an inbound id",
			inbound: "abc-123",
		},
		{
			name: "will generate an id when none is sent",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.inbound != "" {
				r.Header.Set(RequestIDHeader, tc.inbound)
			}
			req, resp := exchange.New(httptest.NewRecorder(), r, nil)

			_, err := Chain{RequestID()}.Invoke(req, func() (any, error) {
				return nil, nil
			})
			require.NoError(t, err)

			require.NotEmpty(t, req.ID())
			require.Equal(t, req.ID(), resp.Header().Get(RequestIDHeader))
			if tc.inbound != "" {
				require.Equal(t, tc.inbound, req.ID())
			}
		})
	}
}

// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package handler

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/z5labs/webhost/exchange"
	"github.com/z5labs/webhost/wrap"

	"github.com/stretchr/testify/require"
)

func newExchange() (*exchange.Request, *exchange.Response) {
	return exchange.New(
		httptest.NewRecorder(),
		httptest.NewRequest(http.MethodGet, "/", nil),
		nil,
	)
}

func TestFromReq(t *testing.T) {
	errBoom := errors.New("boom")

	testCases := []struct {
		name         string
		handler      ReqHandler
		mediaType    exchange.MediaType
		expectStatus exchange.Status
		expectErr    error
		expectResult any
		expectType   exchange.MediaType
	}{
		{
			name:         "sets the result and default content type",
			handler:      Constant("hello"),
			mediaType:    exchange.PlainTextUTF8,
			expectStatus: exchange.Done,
			expectResult: "hello",
			expectType:   exchange.PlainTextUTF8,
		},
		{
			name:         "passes through a not found status",
			handler:      Constant(exchange.NotFound),
			mediaType:    exchange.HTMLUTF8,
			expectStatus: exchange.NotFound,
			expectType:   exchange.HTMLUTF8,
		},
		{
			name: "propagates handler errors",
			handler: ReqHandlerFunc(func(*exchange.Request) (any, error) {
				return nil, errBoom
			}),
			mediaType:    exchange.JSON,
			expectStatus: exchange.Done,
			expectErr:    errBoom,
			expectType:   exchange.JSON,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req, resp := newExchange()

			status, err := FromReq(tc.handler, tc.mediaType, nil).Handle(req, resp)
			if tc.expectErr != nil {
				require.ErrorIs(t, err, tc.expectErr)
			} else {
				require.NoError(t, err)
			}
			require.Equal(t, tc.expectStatus, status)
			require.Equal(t, tc.expectResult, resp.Result())
			require.Equal(t, tc.expectType, resp.ContentType())
		})
	}
}

func TestFromReqResp(t *testing.T) {
	t.Run("keeps an explicit content type set by the handler", func(t *testing.T) {
		req, resp := newExchange()
		h := ReqRespHandlerFunc(func(req *exchange.Request, resp *exchange.Response) (any, error) {
			resp.SetContentType(exchange.Binary)
			return []byte{1}, nil
		})

		_, err := FromReqResp(h, exchange.HTMLUTF8, nil).Handle(req, resp)
		require.NoError(t, err)
		require.Equal(t, exchange.Binary, resp.ContentType())
	})

	t.Run("runs inside the wrapper chain", func(t *testing.T) {
		req, resp := newExchange()
		chain := wrap.Chain{
			wrap.WrapperFunc(func(req *exchange.Request, next wrap.Invocation) (any, error) {
				v, err := next()
				return v.(string) + "!", err
			}),
		}
		h := ReqRespHandlerFunc(func(*exchange.Request, *exchange.Response) (any, error) {
			return "hi", nil
		})

		_, err := FromReqResp(h, exchange.PlainTextUTF8, chain).Handle(req, resp)
		require.NoError(t, err)
		require.Equal(t, "hi!", resp.Result())
	})
}

func TestWrapped(t *testing.T) {
	req, resp := newExchange()
	denied := errors.New("denied")
	chain := wrap.Chain{
		wrap.WrapperFunc(func(*exchange.Request, wrap.Invocation) (any, error) {
			return nil, denied
		}),
	}
	called := false
	h := HandlerFunc(func(*exchange.Request, *exchange.Response) (exchange.Status, error) {
		called = true
		return exchange.Done, nil
	})

	_, err := Wrapped(h, chain).Handle(req, resp)
	require.ErrorIs(t, err, denied)
	require.False(t, called)
}

func TestDefaultErrorHandler(t *testing.T) {
	testCases := []struct {
		name       string
		err        error
		expectCode int
		expectBody string
	}{
		{
			name:       "uses the status error code and cause for client errors",
			err:        Errorf(http.StatusBadRequest, "missing title"),
			expectCode: http.StatusBadRequest,
			expectBody: "missing title",
		},
		{
			name:       "hides details of server errors",
			err:        errors.New("db is down"),
			expectCode: http.StatusInternalServerError,
			expectBody: http.StatusText(http.StatusInternalServerError),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req, resp := newExchange()

			v, err := DefaultErrorHandler.HandleError(req, resp, tc.err)
			require.NoError(t, err)
			require.Equal(t, tc.expectBody, v)
			require.Equal(t, tc.expectCode, resp.Code())
			require.Equal(t, exchange.PlainTextUTF8, resp.ContentType())
		})
	}
}

// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package registry

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/klauspost/compress/gzhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// BindError is returned when the registry fails to bind its listener.
type BindError struct {
	Address string
	Port    int
	Cause   error
}

// Error implements the [builtin.error] interface.
func (e BindError) Error() string {
	return fmt.Sprintf("failed to bind %s: %s", net.JoinHostPort(e.Address, strconv.Itoa(e.Port)), e.Cause)
}

// Unwrap implements the implicit interface used by [errors.Is] and [errors.As].
func (e BindError) Unwrap() error {
	return e.Cause
}

// Listen binds address and port and starts serving the registry in the
// background.
func (r *Registry) Listen(address string, port int) (*Server, error) {
	ln, err := r.listen("tcp", net.JoinHostPort(address, strconv.Itoa(port)))
	if err != nil {
		return nil, BindError{
			Address: address,
			Port:    port,
			Cause:   err,
		}
	}

	var h http.Handler = r
	if r.compress {
		h = gzhttp.GzipHandler(h)
	}

	s := &Server{
		ln:      ln,
		address: address,
		port:    port,
		http: &http.Server{
			Handler: otelhttp.NewHandler(
				h,
				r.name,
				otelhttp.WithMessageEvents(otelhttp.ReadEvents, otelhttp.WriteEvents),
			),
			ReadTimeout:       r.readTimeout,
			ReadHeaderTimeout: 2 * time.Second,
			WriteTimeout:      r.writeTimeout,
			IdleTimeout:       r.idleTimeout,
			ErrorLog:          zap.NewStdLog(r.log),
		},
	}
	if tcp, ok := ln.Addr().(*net.TCPAddr); ok {
		s.port = tcp.Port
	}

	r.log.Info(
		"listening",
		zap.String("address", address),
		zap.Int("port", s.port),
	)

	s.eg.Go(func() error {
		err := s.http.Serve(ln)
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	})
	return s, nil
}

// Server is a running HTTP server bound to a network listener.
type Server struct {
	ln      net.Listener
	http    *http.Server
	address string
	port    int

	eg errgroup.Group

	stopOnce sync.Once
	stopErr  error
}

// Addr returns the bound network address.
func (s *Server) Addr() net.Addr {
	return s.ln.Addr()
}

// Address returns the host the server was asked to bind.
func (s *Server) Address() string {
	return s.address
}

// Port returns the bound port.
func (s *Server) Port() int {
	return s.port
}

// Wait blocks until the server stops serving.
func (s *Server) Wait() error {
	return s.eg.Wait()
}

// Shutdown gracefully stops the server, waiting for in-flight requests
// until ctx is done. Only the first call to Shutdown or [Server.Halt]
// has an effect.
func (s *Server) Shutdown(ctx context.Context) error {
	s.stopOnce.Do(func() {
		s.stopErr = s.http.Shutdown(ctx)
	})
	return s.stopErr
}

// Halt immediately closes the server and every open connection. Only the
// first call to Halt or [Server.Shutdown] has an effect.
func (s *Server) Halt() error {
	s.stopOnce.Do(func() {
		s.stopErr = s.http.Close()
	})
	return s.stopErr
}

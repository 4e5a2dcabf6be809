// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package registry maps (verb, path) pairs to handlers and serves them
// over HTTP.
package registry

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/z5labs/webhost/exchange"
	"github.com/z5labs/webhost/handler"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Route identifies a registered handler.
type Route struct {
	Verb string
	Path string
}

// String implements the [fmt.Stringer] interface.
func (r Route) String() string {
	return r.Verb + " " + r.Path
}

// InvalidRouteError is returned when a route can not be registered.
type InvalidRouteError struct {
	Verb   string
	Path   string
	Reason string
}

// Error implements the [builtin.error] interface.
func (e InvalidRouteError) Error() string {
	return fmt.Sprintf("invalid route %s %q: %s", e.Verb, e.Path, e.Reason)
}

// ErrNilHandler is returned when registering a nil handler.
var ErrNilHandler = errors.New("registry: handler must not be nil")

var verbs = []string{
	http.MethodGet,
	http.MethodHead,
	http.MethodPost,
	http.MethodPut,
	http.MethodPatch,
	http.MethodDelete,
	http.MethodConnect,
	http.MethodOptions,
	http.MethodTrace,
}

// Option configures a [Registry].
type Option func(*Registry)

// Name sets the name used for logging and server instrumentation.
func Name(name string) Option {
	return func(r *Registry) {
		r.name = name
	}
}

// Logger sets the logger. The default is [zap.L].
func Logger(log *zap.Logger) Option {
	return func(r *Registry) {
		r.log = log
	}
}

// ListenFunc overrides how the network listener is created.
func ListenFunc(f func(network, address string) (net.Listener, error)) Option {
	return func(r *Registry) {
		r.listen = f
	}
}

// Compression enables gzip compression of responses.
func Compression() Option {
	return func(r *Registry) {
		r.compress = true
	}
}

// Timeouts sets the read, write and idle timeouts of the server.
func Timeouts(read, write, idle time.Duration) Option {
	return func(r *Registry) {
		r.readTimeout = read
		r.writeTimeout = write
		r.idleTimeout = idle
	}
}

// Registry holds routes, catch-all handlers and request dispatch
// configuration. It is safe for concurrent use.
type Registry struct {
	name     string
	log      *zap.Logger
	listener Listener
	listen   func(network, address string) (net.Listener, error)
	compress bool

	readTimeout  time.Duration
	writeTimeout time.Duration
	idleTimeout  time.Duration

	attrs *exchange.Attributes

	mu         sync.RWMutex
	routes     map[Route]handler.Handler
	generics   []handler.Handler
	errHandler handler.ErrorHandler
	staticDirs []string
	renderer   exchange.ViewRenderer

	router atomic.Pointer[chi.Mux]
}

// New returns an empty [Registry]. A nil listener is replaced with
// [IgnorantListener].
func New(listener Listener, opts ...Option) *Registry {
	if listener == nil {
		listener = IgnorantListener{}
	}
	r := &Registry{
		name:         "registry",
		log:          zap.L(),
		listener:     listener,
		listen:       net.Listen,
		readTimeout:  5 * time.Second,
		writeTimeout: 10 * time.Second,
		idleTimeout:  120 * time.Second,
		attrs:        exchange.NewAttributes(),
		routes:       make(map[Route]handler.Handler),
		errHandler:   handler.DefaultErrorHandler,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.log = r.log.Named(r.name)
	return r
}

// Name returns the registry name.
func (r *Registry) Name() string {
	return r.name
}

// Listener returns the request listener.
func (r *Registry) Listener() Listener {
	return r.listener
}

// Attributes returns the store shared by every request of this registry.
func (r *Registry) Attributes() *exchange.Attributes {
	return r.attrs
}

// Add registers h for verb and path, replacing any previous handler.
func (r *Registry) Add(verb, path string, h handler.Handler) error {
	verb = strings.ToUpper(verb)
	if h == nil {
		return ErrNilHandler
	}
	if !strings.HasPrefix(path, "/") {
		return InvalidRouteError{Verb: verb, Path: path, Reason: "path must begin with '/'"}
	}
	if !slices.Contains(verbs, verb) {
		return InvalidRouteError{Verb: verb, Path: path, Reason: "unsupported verb"}
	}
	err := validatePattern(verb, path)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.routes[Route{Verb: verb, Path: path}] = h
	r.invalidateLocked()
	return nil
}

// validatePattern mounts the route on a scratch router since chi only
// reports malformed patterns by panicking.
func validatePattern(verb, path string) (err error) {
	defer func() {
		v := recover()
		if v == nil {
			return
		}
		err = InvalidRouteError{
			Verb:   verb,
			Path:   path,
			Reason: fmt.Sprint(v),
		}
	}()
	chi.NewRouter().MethodFunc(verb, path, func(http.ResponseWriter, *http.Request) {})
	return nil
}

// Remove deregisters the handler for verb and path. It is a no-op when
// no such route exists.
func (r *Registry) Remove(verb, path string) {
	route := Route{Verb: strings.ToUpper(verb), Path: path}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.routes[route]; !ok {
		return
	}
	delete(r.routes, route)
	r.invalidateLocked()
}

// Has reports whether a handler is registered for verb and path.
func (r *Registry) Has(verb, path string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.routes[Route{Verb: strings.ToUpper(verb), Path: path}]
	return ok
}

// Routes returns the registered routes ordered by path then verb.
func (r *Registry) Routes() []Route {
	r.mu.RLock()
	routes := make([]Route, 0, len(r.routes))
	for route := range r.routes {
		routes = append(routes, route)
	}
	r.mu.RUnlock()

	slices.SortFunc(routes, func(a, b Route) int {
		if c := strings.Compare(a.Path, b.Path); c != 0 {
			return c
		}
		return strings.Compare(a.Verb, b.Verb)
	})
	return routes
}

// AddGenericHandler appends a catch-all handler. Catch-all handlers are
// tried in registration order when no route matches.
func (r *Registry) AddGenericHandler(h handler.Handler) error {
	if h == nil {
		return ErrNilHandler
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.generics = append(r.generics, h)
	r.invalidateLocked()
	return nil
}

// SetErrorHandler replaces the error handler. A nil handler restores
// [handler.DefaultErrorHandler].
func (r *Registry) SetErrorHandler(eh handler.ErrorHandler) {
	if eh == nil {
		eh = handler.DefaultErrorHandler
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errHandler = eh
	r.invalidateLocked()
}

// SetStaticFilesLocations sets the directories searched for static files.
func (r *Registry) SetStaticFilesLocations(dirs ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.staticDirs = slices.Clone(dirs)
	r.invalidateLocked()
}

// StaticFilesLocations returns the directories searched for static files.
func (r *Registry) StaticFilesLocations() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.staticDirs)
}

// SetRenderer sets the renderer used for view responses.
func (r *Registry) SetRenderer(vr exchange.ViewRenderer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.renderer = vr
	r.invalidateLocked()
}

// ResetConfig discards every route, catch-all handler, static location,
// renderer and attribute, and restores the default error handler.
func (r *Registry) ResetConfig() {
	r.mu.Lock()
	defer r.mu.Unlock()
	clear(r.routes)
	r.generics = nil
	r.errHandler = handler.DefaultErrorHandler
	r.staticDirs = nil
	r.renderer = nil
	r.attrs.Clear()
	r.invalidateLocked()
}

func (r *Registry) invalidateLocked() {
	r.router.Store(nil)
}

// ServeHTTP implements the [http.Handler] interface.
func (r *Registry) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux().ServeHTTP(w, req)
}

func (r *Registry) mux() *chi.Mux {
	if m := r.router.Load(); m != nil {
		return m
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if m := r.router.Load(); m != nil {
		return m
	}
	m := r.buildLocked()
	r.router.Store(m)
	return m
}

func (r *Registry) buildLocked() *chi.Mux {
	d := &dispatcher{
		log:        r.log,
		listener:   r.listener,
		attrs:      r.attrs,
		generics:   slices.Clone(r.generics),
		errHandler: r.errHandler,
		staticDirs: slices.Clone(r.staticDirs),
		renderer:   r.renderer,
	}

	m := chi.NewRouter()
	for route, h := range r.routes {
		r.mount(m, route, d.route(h))
	}
	m.NotFound(d.route(nil))
	m.MethodNotAllowed(d.route(nil))
	return m
}

func (r *Registry) mount(m *chi.Mux, route Route, h http.HandlerFunc) {
	defer func() {
		v := recover()
		if v == nil {
			return
		}
		r.log.Error(
			"failed to mount route",
			zap.Stringer("route", route),
			zap.Any("reason", v),
		)
	}()
	m.MethodFunc(route.Verb, route.Path, h)
}

// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package webhost

import (
	"context"
	"slices"
	"sync"

	"github.com/z5labs/webhost/bootstrap"
	"github.com/z5labs/webhost/conf"
	"github.com/z5labs/webhost/exchange"
	"github.com/z5labs/webhost/handler"
	"github.com/z5labs/webhost/internal/caller"
	"github.com/z5labs/webhost/registry"
	"github.com/z5labs/webhost/wrap"

	"go.uber.org/zap"
)

// Option configures a [Setup].
type Option func(*Setup)

// Config sets the configuration consulted for the port override and the
// dev mode gate.
func Config(cfg *conf.Config) Option {
	return func(s *Setup) {
		s.cfg = cfg
	}
}

// Logger sets the logger. The default is [zap.L].
func Logger(log *zap.Logger) Option {
	return func(s *Setup) {
		s.log = log
	}
}

// HttpOptions are applied whenever the route registry is created.
func HttpOptions(opts ...registry.Option) Option {
	return func(s *Setup) {
		s.httpOpts = append(s.httpOpts, opts...)
	}
}

// Catalog sets the catalog scanned by [Setup.Annotated]. The default is
// [bootstrap.DefaultCatalog].
func Catalog(c *bootstrap.Catalog) Option {
	return func(s *Setup) {
		s.catalog = c
	}
}

// Setup is the configuration and binding state of one HTTP endpoint.
// It is safe for concurrent use.
type Setup struct {
	name           string
	defaultAddress string
	defaultPort    int
	kind           Kind
	cfg            *conf.Config
	log            *zap.Logger
	catalog        *bootstrap.Catalog
	httpOpts       []registry.Option

	mu         sync.Mutex
	listener   registry.Listener
	address    string
	port       int
	paths      []string
	wrappers   wrap.Chain
	staticDirs []string
	renderer   exchange.ViewRenderer
	errHandler handler.ErrorHandler
	http       *registry.Registry
	listening  bool
	devSkipped bool
	server     *registry.Server
}

// New returns an unbound [Setup]. address and port are the defaults
// restored by [Setup.Reset].
func New(name, address string, port int, kind Kind, opts ...Option) *Setup {
	s := &Setup{
		name:           name,
		defaultAddress: address,
		defaultPort:    port,
		kind:           kind,
		cfg:            conf.Empty(),
		log:            zap.L(),
		catalog:        bootstrap.DefaultCatalog,
		listener:       registry.IgnorantListener{},
		address:        address,
		port:           port,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With(zap.String("setup", name))
	return s
}

// Name returns the immutable setup name.
func (s *Setup) Name() string {
	return s.name
}

// Kind returns the setup kind.
func (s *Setup) Kind() Kind {
	return s.kind
}

// Http returns the route registry, creating it on first call.
func (s *Setup) Http() *registry.Registry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.httpLocked()
}

func (s *Setup) httpLocked() *registry.Registry {
	if s.http != nil {
		return s.http
	}

	opts := make([]registry.Option, 0, len(s.httpOpts)+2)
	opts = append(opts, registry.Name(s.name), registry.Logger(s.log))
	opts = append(opts, s.httpOpts...)

	reg := registry.New(s.listener, opts...)
	if s.errHandler != nil {
		reg.SetErrorHandler(s.errHandler)
	}
	if len(s.staticDirs) > 0 {
		reg.SetStaticFilesLocations(s.staticDirs...)
	}
	if s.renderer != nil {
		reg.SetRenderer(s.renderer)
	}
	s.http = reg
	return reg
}

// Listen binds the route registry unless it is already bound. A dev setup
// is not bound outside of dev mode, in which case Listen returns a nil
// server and no error.
func (s *Setup) Listen() (*registry.Server, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listenLocked()
}

func (s *Setup) listenLocked() (*registry.Server, error) {
	if s.listening {
		return s.server, nil
	}

	reg := s.httpLocked()
	if s.kind == Dev && !s.cfg.Dev() {
		if !s.devSkipped {
			s.log.Warn("not binding dev setup outside of dev mode")
			s.devSkipped = true
		}
		return nil, nil
	}

	address, port := s.endpointLocked()
	srv, err := reg.Listen(address, port)
	if err != nil {
		return nil, err
	}
	if s.server != nil {
		s.log.Warn(
			"replacing server retained across reset",
			zap.Stringer("previous", s.server.Addr()),
			zap.Stringer("current", srv.Addr()),
		)
	}
	s.server = srv
	s.listening = true
	return srv, nil
}

// activate applies the configured port override and binds the registry.
// The registry is returned even when binding failed.
func (s *Setup) activate() (*registry.Registry, wrap.Chain, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.port == s.defaultPort {
		port := s.cfg.Int(s.name+".port", Undefined)
		if port != Undefined {
			s.port = port
		}
	}

	_, err := s.listenLocked()
	return s.httpLocked(), slices.Clone(s.wrappers), err
}

// Endpoint returns the address and port the setup binds to.
func (s *Setup) Endpoint() (string, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.endpointLocked()
}

func (s *Setup) endpointLocked() (string, int) {
	address, port := s.address, s.port
	if address == "" {
		address = s.defaultAddress
	}
	if port == Undefined {
		port = s.defaultPort
	}
	return address, port
}

// Listening reports whether the setup is bound.
func (s *Setup) Listening() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listening
}

// Server returns the bound server, if any.
func (s *Setup) Server() *registry.Server {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.server
}

// Attributes returns the store shared by every request of the registry.
func (s *Setup) Attributes() *exchange.Attributes {
	return s.Http().Attributes()
}

// Port sets the port. [Undefined] selects the default port.
func (s *Setup) Port(port int) *Setup {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.port = port
	return s
}

// Address sets the bind address.
func (s *Setup) Address(address string) *Setup {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.address = address
	return s
}

// DefaultWrap replaces the wrappers applied to subsequent registrations.
func (s *Setup) DefaultWrap(wrappers ...wrap.Wrapper) *Setup {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.wrappers = slices.Clone(wrap.Chain(wrappers))
	return s
}

// Listener sets the request listener. It must be called before the
// registry is created.
func (s *Setup) Listener(l registry.Listener) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.http != nil {
		return InvariantViolationError{
			Setup:  s.name,
			Reason: "the listener must be set before the registry is created",
		}
	}
	if l == nil {
		l = registry.IgnorantListener{}
	}
	s.listener = l
	return nil
}

// StaticFilesPath sets the directories searched for static files.
func (s *Setup) StaticFilesPath(dirs ...string) *Setup {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.staticDirs = slices.Clone(dirs)
	if s.http != nil {
		s.http.SetStaticFilesLocations(dirs...)
	}
	return s
}

// Render sets the renderer used for view responses.
func (s *Setup) Render(vr exchange.ViewRenderer) *Setup {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.renderer = vr
	if s.http != nil {
		s.http.SetRenderer(vr)
	}
	return s
}

// OnError replaces the error handler. It does not bind the registry.
func (s *Setup) OnError(eh handler.ErrorHandler) *Setup {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errHandler = eh
	if s.http != nil {
		s.http.SetErrorHandler(eh)
	}
	return s
}

// Path sets the package paths scanned by [Setup.Bootstrap].
func (s *Setup) Path(paths ...string) *Setup {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.paths = slices.Clone(paths)
	return s
}

// Paths returns the scan paths. Without configured paths, the package of
// the calling code is inferred once per reset cycle.
func (s *Setup) Paths() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.paths) == 0 {
		pkg := caller.Outside(setupPackage)
		s.paths = []string{pkg}
		s.log.Info("inferred scan path", zap.String("path", pkg))
	}
	return slices.Clone(s.paths)
}

// Reset restores the construction defaults and discards the registry.
// A bound server is kept; use [Setup.Shutdown] or [Setup.Halt] to stop it.
// The next activation binds a new server which replaces the kept handle,
// after which the previous server can only be stopped through a handle
// obtained from [Setup.Server] before that activation.
func (s *Setup) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resetLocked()
}

func (s *Setup) resetLocked() {
	if s.http != nil {
		s.http.ResetConfig()
	}
	s.http = nil
	s.listening = false
	s.devSkipped = false
	s.wrappers = nil
	s.listener = registry.IgnorantListener{}
	s.address = s.defaultAddress
	s.port = s.defaultPort
	s.paths = nil
	s.staticDirs = nil
	s.renderer = nil
	s.errHandler = nil
}

// Shutdown resets the setup and then gracefully stops the bound server,
// waiting for in-flight requests until ctx is done.
func (s *Setup) Shutdown(ctx context.Context) error {
	srv := s.detach()
	if srv == nil {
		return nil
	}
	return srv.Shutdown(ctx)
}

// Halt resets the setup and then immediately stops the bound server.
func (s *Setup) Halt() error {
	srv := s.detach()
	if srv == nil {
		return nil
	}
	return srv.Halt()
}

func (s *Setup) detach() *registry.Server {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resetLocked()
	srv := s.server
	s.server = nil
	return srv
}

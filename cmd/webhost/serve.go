// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package main

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/z5labs/webhost"
	"github.com/z5labs/webhost/conf"
	"github.com/z5labs/webhost/exchange"
	"github.com/z5labs/webhost/handler"
	"github.com/z5labs/webhost/lifecycle"
	"github.com/z5labs/webhost/registry"
	"github.com/z5labs/webhost/wrap"

	_ "github.com/z5labs/webhost/example/taskplanner"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const taskplannerPackage = "github.com/z5labs/webhost/example/taskplanner"

var errNotBound = errors.New("app setup is not bound")

type serveOptions struct {
	configFile   string
	address      string
	port         int
	dev          bool
	static       []string
	compress     bool
	trace        string
	otlpEndpoint string
}

func serveCommand() *cobra.Command {
	var opts serveOptions

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the task planner",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("port") {
				opts.port = webhost.Undefined
			}
			return serve(cmd.Context(), opts, cmd.ErrOrStderr())
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.configFile, "config", "", "YAML or JSON config file")
	flags.StringVar(&opts.address, "address", "0.0.0.0", "address to bind")
	flags.IntVar(&opts.port, "port", 8888, "port to bind")
	flags.BoolVar(&opts.dev, "dev", false, "enable dev mode and the dev console")
	flags.StringSliceVar(&opts.static, "static", nil, "directories to serve static files from")
	flags.BoolVar(&opts.compress, "compress", false, "gzip responses")
	flags.StringVar(&opts.trace, "trace", "none", "trace exporter: none, stdout or otlp")
	flags.StringVar(&opts.otlpEndpoint, "otlp-endpoint", "localhost:4317", "OTLP gRPC endpoint")

	return cmd
}

func newLogger(dev bool) (*zap.Logger, error) {
	if dev {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func readConfig(opts serveOptions) (*conf.Config, error) {
	srcs := []conf.Source{conf.FromEnv("WEBHOST")}
	if opts.configFile != "" {
		f, err := os.Open(opts.configFile)
		if err != nil {
			return nil, err
		}
		switch strings.ToLower(filepath.Ext(opts.configFile)) {
		case ".json":
			srcs = append(srcs, conf.FromJson(f))
		default:
			srcs = append(srcs, conf.FromYaml(f))
		}
	}
	if opts.dev {
		srcs = append(srcs, conf.Map{"dev": true})
	}
	return conf.Read(srcs...)
}

type httpConfig struct {
	ReadTimeout  time.Duration `config:"read_timeout"`
	WriteTimeout time.Duration `config:"write_timeout"`
	IdleTimeout  time.Duration `config:"idle_timeout"`
}

type host struct {
	app *webhost.Setup
	dev *webhost.Setup
}

func newHost(cfg *conf.Config, log *zap.Logger, opts serveOptions) (*host, error) {
	hc := httpConfig{
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	err := cfg.Unmarshal("http", &hc)
	if err != nil {
		return nil, err
	}

	httpOpts := []registry.Option{
		registry.Timeouts(hc.ReadTimeout, hc.WriteTimeout, hc.IdleTimeout),
	}
	if opts.compress {
		httpOpts = append(httpOpts, registry.Compression())
	}

	app := webhost.New(
		"app",
		opts.address,
		8888,
		webhost.App,
		webhost.Config(cfg),
		webhost.Logger(log),
		webhost.HttpOptions(httpOpts...),
	)
	err = app.Listener(registry.LogListener(log.Named("access")))
	if err != nil {
		return nil, err
	}
	if opts.port != webhost.Undefined {
		app.Port(opts.port)
	}
	app.DefaultWrap(
		wrap.RequestID(),
		wrap.Logging(log),
		wrap.Tracing(otel.Tracer("github.com/z5labs/webhost")),
	).
		StaticFilesPath(opts.static...).
		Path(taskplannerPackage)

	err = app.Bootstrap()
	if err != nil {
		return nil, err
	}
	err = app.Get("/health").Json(handler.Constant(map[string]string{"status": "ok"}))
	if err != nil {
		return nil, err
	}

	dev := webhost.New(
		"dev",
		"127.0.0.1",
		8887,
		webhost.Dev,
		webhost.Config(cfg),
		webhost.Logger(log),
	)
	err = dev.Get("/routes").Json(handler.ReqHandlerFunc(func(*exchange.Request) (any, error) {
		return app.Http().Routes(), nil
	}))
	if err != nil {
		return nil, err
	}

	return &host{app: app, dev: dev}, nil
}

func serve(ctx context.Context, opts serveOptions, traceOut io.Writer) error {
	log, err := newLogger(opts.dev)
	if err != nil {
		return err
	}
	zap.ReplaceGlobals(log)

	lc := &lifecycle.Context{}
	lc.OnStop(lifecycle.HookFunc(func(context.Context) error {
		_ = log.Sync()
		return nil
	}))

	cfg, err := readConfig(opts)
	if err != nil {
		log.Error("failed to read config", zap.Error(err))
		return err
	}

	tp, err := newTracerProvider(ctx, "webhost", traceOptions{
		exporter:     opts.trace,
		otlpEndpoint: opts.otlpEndpoint,
		out:          traceOut,
	})
	if err != nil {
		log.Error("failed to initialize tracing", zap.Error(err))
		return err
	}
	otel.SetTracerProvider(tp)
	lc.OnStop(lifecycle.HookFunc(tp.Shutdown))

	h, err := newHost(cfg, log, opts)
	if err != nil {
		log.Error("failed to set up host", zap.Error(err))
		stopCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return errors.Join(err, lc.Stop().Run(stopCtx))
	}
	lc.OnStop(lifecycle.HookFunc(h.dev.Shutdown))
	lc.OnStop(lifecycle.HookFunc(h.app.Shutdown))
	lc.OnStart(lifecycle.HookFunc(func(context.Context) error {
		address, port := h.app.Endpoint()
		log.Info("serving", zap.String("address", address), zap.Int("port", port))
		return nil
	}))

	return run(ctx, h, lc)
}

func run(ctx context.Context, h *host, lc *lifecycle.Context) error {
	err := lc.Start().Run(ctx)
	if err != nil {
		return err
	}

	srv := h.app.Server()
	if srv == nil {
		return errNotBound
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(srv.Wait)
	if devSrv := h.dev.Server(); devSrv != nil {
		g.Go(devSrv.Wait)
	}
	g.Go(func() error {
		<-gctx.Done()

		stopCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return lc.Stop().Run(stopCtx)
	})
	return g.Wait()
}

// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package webhost provides an embeddable HTTP application host built around a
// mutable, concurrency-safe [Setup].
//
// A [Setup] owns the configuration of one logical HTTP endpoint:
//
//   - address and port, with a per setup port override read from configuration
//   - a default wrapper chain applied to every registration
//   - a request [registry.Listener]
//   - static file locations and a view renderer
//
// The route registry is created lazily on first use and the network listener
// is bound lazily on the first registration. Every route is registered after
// the listener was bound, or after binding was skipped by the development
// mode gate.
//
// # Basic Usage
//
// Register routes on one of the default setups:
//
//	err := webhost.OnApp().Get("/ping").Plain(handler.Constant("pong"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Configure before registering:
//
//	app := webhost.New("api", "0.0.0.0", 8080, webhost.App)
//	app.Port(9090).DefaultWrap(wrap.RequestID(), wrap.Logging(log))
//
//	err := app.Get("/tasks/{id}").Json(handler.ReqHandlerFunc(func(req *exchange.Request) (any, error) {
//	    return tasks.Get(req.Param("id"))
//	}))
//
// # Controllers
//
// Controllers declare their routes with [bootstrap.Controller] and register
// themselves in a catalog, usually from an init function:
//
//	func init() {
//	    bootstrap.Annotate(bootstrap.ControllerMarker, &TaskController{})
//	}
//
// [Setup.Bootstrap] then registers every controller found under the scan path
// of the setup.
//
// # Lifecycle
//
// [Setup.Reset] restores the construction defaults without touching a bound
// server. [Setup.Shutdown] and [Setup.Halt] reset the setup and then stop the
// server, either gracefully or immediately. Calling Reset concurrently with a
// lifecycle transition on another goroutine is not supported.
package webhost

// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package webhost

import (
	"errors"
	"io"
	"net/http"
	"testing"

	"github.com/z5labs/webhost/bootstrap"
	"github.com/z5labs/webhost/exchange"
	"github.com/z5labs/webhost/handler"
	"github.com/z5labs/webhost/registry"
	"github.com/z5labs/webhost/wrap"

	"github.com/stretchr/testify/require"
)

func tagging(tag string) wrap.Wrapper {
	return wrap.WrapperFunc(func(req *exchange.Request, next wrap.Invocation) (any, error) {
		v, err := next()
		if err != nil {
			return nil, err
		}
		return tag + "(" + v.(string) + ")", nil
	})
}

func TestOnAction_Wrap(t *testing.T) {
	t.Run("will apply the default wrappers outermost first", func(t *testing.T) {
		s, _ := newSetup(t, "api", 8080, App)
		s.DefaultWrap(tagging("a"), tagging("b"))

		require.NoError(t, s.Get("/x").Plain(handler.Constant("x")))

		require.Equal(t, "a(b(x))", serve(s, http.MethodGet, "/x").Body.String())
	})

	t.Run("will replace the default wrappers for a single route", func(t *testing.T) {
		s, _ := newSetup(t, "api", 8080, App)
		s.DefaultWrap(tagging("a"))

		require.NoError(t, s.Get("/x").Wrap(tagging("c")).Plain(handler.Constant("x")))
		require.NoError(t, s.Get("/y").Plain(handler.Constant("y")))

		require.Equal(t, "c(x)", serve(s, http.MethodGet, "/x").Body.String())
		require.Equal(t, "a(y)", serve(s, http.MethodGet, "/y").Body.String())
	})

	t.Run("will keep wrappers captured before a later default change", func(t *testing.T) {
		s, _ := newSetup(t, "api", 8080, App)
		s.DefaultWrap(tagging("a"))
		action := s.Get("/x")
		s.DefaultWrap(tagging("b"))

		require.NoError(t, action.Plain(handler.Constant("x")))
		require.Equal(t, "a(x)", serve(s, http.MethodGet, "/x").Body.String())
	})
}

func TestOnAction_ExecResp(t *testing.T) {
	s, _ := newSetup(t, "api", 8080, App)

	err := s.Post("/tasks").ExecResp(handler.ReqRespHandlerFunc(func(req *exchange.Request, resp *exchange.Response) (any, error) {
		resp.SetCode(http.StatusCreated)
		return "created", nil
	}))
	require.NoError(t, err)

	w := serve(s, http.MethodPost, "/tasks")
	require.Equal(t, http.StatusCreated, w.Code)
	require.Equal(t, "created", w.Body.String())
	require.Equal(t, string(exchange.HTMLUTF8), w.Header().Get("Content-Type"))
}

func TestOnAction_Handle(t *testing.T) {
	s, _ := newSetup(t, "api", 8080, App)

	err := s.Get("/raw").Handle(handler.HandlerFunc(func(req *exchange.Request, resp *exchange.Response) (exchange.Status, error) {
		w := resp.Writer()
		w.WriteHeader(http.StatusAccepted)
		_, err := io.WriteString(w, "raw")
		return exchange.Done, err
	}))
	require.NoError(t, err)

	w := serve(s, http.MethodGet, "/raw")
	require.Equal(t, http.StatusAccepted, w.Code)
	require.Equal(t, "raw", w.Body.String())
}

func TestOnPage(t *testing.T) {
	t.Run("will register both get and post", func(t *testing.T) {
		s, _ := newSetup(t, "api", 8080, App)

		require.NoError(t, s.Page("/home").Html(handler.Constant("<h1>home</h1>")))

		require.True(t, s.Http().Has(http.MethodGet, "/home"))
		require.True(t, s.Http().Has(http.MethodPost, "/home"))
		require.Equal(t, "<h1>home</h1>", serve(s, http.MethodPost, "/home").Body.String())
	})

	t.Run("will render the view with the handler result as model", func(t *testing.T) {
		s, _ := newSetup(t, "api", 8080, App)
		s.Render(exchange.ViewRendererFunc(func(w io.Writer, view string, model any) error {
			_, err := io.WriteString(w, view+":"+model.(string))
			return err
		}))

		require.NoError(t, s.Page("/greet").View("greeting", handler.Constant("bob")))

		w := serve(s, http.MethodGet, "/greet")
		require.Equal(t, "greeting:bob", w.Body.String())
		require.Equal(t, string(exchange.HTMLUTF8), w.Header().Get("Content-Type"))
	})
}

func TestSetup_Req(t *testing.T) {
	s, b := newSetup(t, "api", 8080, App)

	require.NoError(t, s.Req(handler.Constant(exchange.NotFound)))
	require.NoError(t, s.ReqResp(handler.ReqRespHandlerFunc(func(req *exchange.Request, resp *exchange.Response) (any, error) {
		return "fallback " + req.Path(), nil
	})))
	require.NoError(t, s.Generic(handler.HandlerFunc(func(*exchange.Request, *exchange.Response) (exchange.Status, error) {
		return exchange.Done, errors.New("never reached")
	})))

	require.Len(t, b.Addrs(), 1)
	require.Equal(t, "fallback /anything", serve(s, http.MethodGet, "/anything").Body.String())
}

type pingController struct{}

func (pingController) Routes() []bootstrap.Route {
	return []bootstrap.Route{
		{
			Verb:        http.MethodGet,
			Path:        "/ping",
			ContentType: exchange.PlainTextUTF8,
			Handler: func(*exchange.Request) (any, error) {
				return "pong", nil
			},
		},
		{
			Verb:    http.MethodPost,
			Path:    "/ping",
			Handler: handler.Constant("posted"),
		},
	}
}

type brokenController struct{}

func (brokenController) Routes() []bootstrap.Route {
	return []bootstrap.Route{
		{Verb: http.MethodGet, Path: "/broken", Handler: 42},
	}
}

type emptyController struct{}

func (emptyController) Routes() []bootstrap.Route {
	return nil
}

func TestSetup_Register(t *testing.T) {
	t.Run("will register handlers as catch-alls and controllers as routes", func(t *testing.T) {
		s, _ := newSetup(t, "api", 8080, App)

		err := s.Register(
			func(req *exchange.Request) (any, error) {
				return "catch-all", nil
			},
			pingController{},
		)
		require.NoError(t, err)

		require.Equal(t, []registry.Route{
			{Verb: http.MethodGet, Path: "/ping"},
			{Verb: http.MethodPost, Path: "/ping"},
		}, s.Http().Routes())

		w := serve(s, http.MethodGet, "/ping")
		require.Equal(t, "pong", w.Body.String())
		require.Equal(t, string(exchange.PlainTextUTF8), w.Header().Get("Content-Type"))

		require.Equal(t, "catch-all", serve(s, http.MethodGet, "/other").Body.String())
	})

	t.Run("will reject objects which are neither handlers nor controllers", func(t *testing.T) {
		s, _ := newSetup(t, "api", 8080, App)

		err := s.Register(pingController{}, 3.14)

		var nerr bootstrap.NotControllerError
		require.True(t, errors.As(err, &nerr))
		require.Empty(t, s.Http().Routes())
	})

	t.Run("will reject unsupported route handlers", func(t *testing.T) {
		s, _ := newSetup(t, "api", 8080, App)

		err := s.Register(brokenController{})

		var uerr UnsupportedHandlerError
		require.True(t, errors.As(err, &uerr))
		require.Equal(t, "int", uerr.Type)
	})

	t.Run("will activate the setup without any objects", func(t *testing.T) {
		s, b := newSetup(t, "api", 8080, App)

		err := s.Register()
		require.NoError(t, err)

		require.True(t, s.Listening())
		require.Equal(t, []string{"0.0.0.0:8080"}, b.Addrs())
	})

	t.Run("will activate the setup for controllers without routes", func(t *testing.T) {
		s, b := newSetup(t, "api", 8080, App)

		err := s.Register(emptyController{})
		require.NoError(t, err)

		require.True(t, s.Listening())
		require.Equal(t, []string{"0.0.0.0:8080"}, b.Addrs())
		require.Empty(t, s.Http().Routes())
	})

	t.Run("will return the bind error before registering anything", func(t *testing.T) {
		s, b := newSetup(t, "api", 8080, App)
		b.fail = errors.New("address in use")

		err := s.Register(pingController{})

		var berr registry.BindError
		require.True(t, errors.As(err, &berr))
		require.False(t, s.Listening())
		require.Empty(t, s.Http().Routes())
	})

	t.Run("will deregister controller routes", func(t *testing.T) {
		s, _ := newSetup(t, "api", 8080, App)
		require.NoError(t, s.Register(pingController{}))
		require.NoError(t, s.Get("/keep").Plain(handler.Constant("kept")))

		err := s.DeregisterControllers(pingController{})
		require.NoError(t, err)

		require.Equal(t, []registry.Route{{Verb: http.MethodGet, Path: "/keep"}}, s.Http().Routes())
	})
}

func TestSetup_Bootstrap(t *testing.T) {
	catalog := &bootstrap.Catalog{}
	catalog.AddIn("example.com/app/ping", bootstrap.ControllerMarker, pingController{})
	catalog.AddIn("example.com/other", bootstrap.ControllerMarker, brokenController{})

	s, _ := newSetup(t, "api", 8080, App, Catalog(catalog))
	s.Path("example.com/app")

	require.Equal(t, []any{pingController{}}, s.Annotated(bootstrap.ControllerMarker).All())
	require.Equal(t, []any{brokenController{}}, s.Annotated(bootstrap.ControllerMarker).In("example.com/other").All())

	err := s.Bootstrap()
	require.NoError(t, err)
	require.True(t, s.Http().Has(http.MethodGet, "/ping"))
	require.False(t, s.Http().Has(http.MethodGet, "/broken"))
}

func TestSetup_Bootstrap_EmptyCatalog(t *testing.T) {
	s, b := newSetup(t, "api", 8080, App, Catalog(&bootstrap.Catalog{}))
	s.Path("example.com/nothing")

	err := s.Bootstrap()
	require.NoError(t, err)

	require.True(t, s.Listening())
	require.NotNil(t, s.Server())
	require.Equal(t, []string{"0.0.0.0:8080"}, b.Addrs())
}

func TestSetup_Changes(t *testing.T) {
	s, b := newSetup(t, "api", 8080, App)
	s.OnError(handler.ErrorHandlerFunc(func(req *exchange.Request, resp *exchange.Response, err error) (any, error) {
		resp.SetCode(http.StatusTeapot)
		return "custom", nil
	}))
	require.NoError(t, s.Get("/old").Plain(handler.Constant("old")))
	srv := s.Server()

	err := s.Changes().Reload(func(s *Setup) error {
		return s.Get("/new").Plain(handler.ReqHandlerFunc(func(*exchange.Request) (any, error) {
			return nil, errors.New("boom")
		}))
	})
	require.NoError(t, err)

	require.Same(t, srv, s.Server())
	require.Len(t, b.Addrs(), 1)
	require.False(t, s.Http().Has(http.MethodGet, "/old"))
	require.Equal(t, http.StatusTeapot, serve(s, http.MethodGet, "/new").Code)
}

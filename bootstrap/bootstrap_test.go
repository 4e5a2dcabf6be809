// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package bootstrap

import (
	"errors"
	"net/http"
	"testing"

	"github.com/z5labs/webhost/exchange"

	"github.com/stretchr/testify/require"
)

type recordingTarget struct {
	routes       []string
	deregistered []string
	fail         error
}

func (t *recordingTarget) Route(verb, path string, mt exchange.MediaType, h any) error {
	if t.fail != nil {
		return t.fail
	}
	t.routes = append(t.routes, verb+" "+path)
	return nil
}

func (t *recordingTarget) Deregister(verb, path string) {
	t.deregistered = append(t.deregistered, verb+" "+path)
}

type controllerFunc func() []Route

func (f controllerFunc) Routes() []Route {
	return f()
}

func tasksController() Controller {
	return controllerFunc(func() []Route {
		return []Route{
			{Verb: http.MethodPost, Path: "/tasks"},
			{Verb: "get", Path: "/tasks"},
			{Verb: http.MethodDelete, Path: "/tasks/{id}"},
		}
	})
}

func usersController() Controller {
	return controllerFunc(func() []Route {
		return []Route{
			{Verb: http.MethodGet, Path: "/users"},
		}
	})
}

func TestRegister(t *testing.T) {
	t.Run("will register every route ordered by path then verb", func(t *testing.T) {
		target := &recordingTarget{}

		err := Register(target, usersController(), tasksController())
		require.NoError(t, err)

		require.Equal(t, []string{
			"GET /tasks",
			"POST /tasks",
			"DELETE /tasks/{id}",
			"GET /users",
		}, target.routes)
	})

	t.Run("will register nothing if an object is not a controller", func(t *testing.T) {
		target := &recordingTarget{}

		err := Register(target, tasksController(), "not a controller")

		var nerr NotControllerError
		require.True(t, errors.As(err, &nerr))
		require.Equal(t, 1, nerr.Index)
		require.Equal(t, "string", nerr.Type)
		require.Empty(t, target.routes)
	})

	t.Run("will wrap target failures", func(t *testing.T) {
		failure := errors.New("bind failed")
		target := &recordingTarget{fail: failure}

		err := Register(target, usersController())

		var rerr RouteError
		require.True(t, errors.As(err, &rerr))
		require.Equal(t, "/users", rerr.Path)
		require.ErrorIs(t, err, failure)
	})
}

func TestDeregister(t *testing.T) {
	target := &recordingTarget{}

	err := Deregister(target, usersController())
	require.NoError(t, err)

	require.Equal(t, []string{"GET /users"}, target.deregistered)
}

func TestCatalog_Scan(t *testing.T) {
	c := &Catalog{}
	c.AddIn("example.com/app", ControllerMarker, "root")
	c.AddIn("example.com/app/tasks", ControllerMarker, "nested")
	c.AddIn("example.com/application", ControllerMarker, "sibling")
	c.AddIn("example.com/app", Marker("service"), "service")
	c.Add(ControllerMarker, "local")

	testCases := []struct {
		name    string
		markers []Marker
		paths   []string
		expect  []any
	}{
		{
			name:    "matches a package and its sub packages",
			markers: []Marker{ControllerMarker},
			paths:   []string{"example.com/app"},
			expect:  []any{"root", "nested"},
		},
		{
			name:    "matches several markers in registration order",
			markers: []Marker{"service", ControllerMarker},
			paths:   []string{"example.com/app"},
			expect:  []any{"root", "nested", "service"},
		},
		{
			name:    "records the calling package",
			markers: []Marker{ControllerMarker},
			paths:   []string{"github.com/z5labs/webhost/bootstrap"},
			expect:  []any{"local"},
		},
		{
			name:    "returns nothing without paths",
			markers: []Marker{ControllerMarker},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := c.Scan(tc.markers, tc.paths)
			require.Equal(t, tc.expect, got)
		})
	}
}

// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package bootstrap registers the routes declared by controller objects.
package bootstrap

import (
	"fmt"
	"slices"
	"strings"

	"github.com/z5labs/webhost/exchange"
)

// Route declares a single controller route. Handler must be one of the
// handler shapes accepted by the [Target].
type Route struct {
	Verb        string
	Path        string
	ContentType exchange.MediaType
	Handler     any
}

// Controller declares a set of routes.
type Controller interface {
	Routes() []Route
}

// Target receives the routes of controllers.
type Target interface {
	Route(verb, path string, mt exchange.MediaType, h any) error
	Deregister(verb, path string)
}

// NotControllerError is returned when an object does not declare routes.
type NotControllerError struct {
	Index int
	Type  string
}

// Error implements the [builtin.error] interface.
func (e NotControllerError) Error() string {
	return fmt.Sprintf("object %d of type %s is not a controller", e.Index, e.Type)
}

// RouteError wraps a failure to register a controller route.
type RouteError struct {
	Verb  string
	Path  string
	Cause error
}

// Error implements the [builtin.error] interface.
func (e RouteError) Error() string {
	return fmt.Sprintf("failed to register route %s %s: %s", e.Verb, e.Path, e.Cause)
}

// Unwrap implements the implicit interface used by [errors.Is] and [errors.As].
func (e RouteError) Unwrap() error {
	return e.Cause
}

// Register collects the routes of every object and registers them with t
// ordered by path then verb. Nothing is registered if any object is not
// a [Controller].
func Register(t Target, objs ...any) error {
	routes, err := collect(objs)
	if err != nil {
		return err
	}
	for _, r := range routes {
		err := t.Route(r.Verb, r.Path, r.ContentType, r.Handler)
		if err != nil {
			return RouteError{Verb: r.Verb, Path: r.Path, Cause: err}
		}
	}
	return nil
}

// Deregister removes exactly the routes declared by objs from t.
func Deregister(t Target, objs ...any) error {
	routes, err := collect(objs)
	if err != nil {
		return err
	}
	for _, r := range routes {
		t.Deregister(r.Verb, r.Path)
	}
	return nil
}

func collect(objs []any) ([]Route, error) {
	var routes []Route
	for i, obj := range objs {
		c, ok := obj.(Controller)
		if !ok {
			return nil, NotControllerError{Index: i, Type: fmt.Sprintf("%T", obj)}
		}
		for _, r := range c.Routes() {
			r.Verb = strings.ToUpper(r.Verb)
			routes = append(routes, r)
		}
	}
	slices.SortStableFunc(routes, func(a, b Route) int {
		if c := strings.Compare(a.Path, b.Path); c != 0 {
			return c
		}
		return strings.Compare(a.Verb, b.Verb)
	})
	return routes, nil
}

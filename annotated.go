// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package webhost

import (
	"slices"

	"github.com/z5labs/webhost/bootstrap"
)

// Annotated selects the catalog entries marked with any of markers.
func (s *Setup) Annotated(markers ...bootstrap.Marker) *OnAnnotated {
	return &OnAnnotated{
		s:       s,
		markers: slices.Clone(markers),
	}
}

// OnAnnotated is a catalog query scoped to a [Setup].
type OnAnnotated struct {
	s       *Setup
	markers []bootstrap.Marker
	paths   []string
}

// In restricts the query to paths instead of the setup scan paths.
func (a *OnAnnotated) In(paths ...string) *OnAnnotated {
	a.paths = slices.Clone(paths)
	return a
}

// All returns the matching objects in registration order.
func (a *OnAnnotated) All() []any {
	paths := a.paths
	if len(paths) == 0 {
		paths = a.s.Paths()
	}
	return a.s.catalog.Scan(a.markers, paths)
}

// Bootstrap registers every controller found under the scan paths.
func (s *Setup) Bootstrap() error {
	return s.Register(s.Annotated(bootstrap.ControllerMarker).All()...)
}

// Changes returns a handle for reloading the registrations of the setup.
func (s *Setup) Changes() *OnChanges {
	return &OnChanges{s: s}
}

// OnChanges reloads registrations without unbinding.
type OnChanges struct {
	s *Setup
}

// Reload discards the registrations of the registry, keeping the bound
// server and the setup configuration, and then calls register.
func (c *OnChanges) Reload(register func(*Setup) error) error {
	c.s.mu.Lock()
	if reg := c.s.http; reg != nil {
		reg.ResetConfig()
		if c.s.errHandler != nil {
			reg.SetErrorHandler(c.s.errHandler)
		}
		if len(c.s.staticDirs) > 0 {
			reg.SetStaticFilesLocations(c.s.staticDirs...)
		}
		if c.s.renderer != nil {
			reg.SetRenderer(c.s.renderer)
		}
	}
	c.s.mu.Unlock()

	return register(c.s)
}

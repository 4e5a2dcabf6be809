// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package bootstrap

import (
	"slices"
	"strings"
	"sync"

	"github.com/z5labs/webhost/internal/caller"
)

// Marker tags catalog entries.
type Marker string

// ControllerMarker marks objects which declare routes.
const ControllerMarker Marker = "controller"

type entry struct {
	marker Marker
	pkg    string
	obj    any
}

// Catalog records marked objects together with the package which
// registered them.
type Catalog struct {
	mu      sync.Mutex
	entries []entry
}

// Add records obj under marker for the calling package.
func (c *Catalog) Add(marker Marker, obj any) {
	c.AddIn(caller.Package(1), marker, obj)
}

// AddIn records obj under marker for pkg.
func (c *Catalog) AddIn(pkg string, marker Marker, obj any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = append(c.entries, entry{marker: marker, pkg: pkg, obj: obj})
}

// Scan returns, in registration order, the objects marked with any of
// markers whose package is one of paths or nested below one of them.
func (c *Catalog) Scan(markers []Marker, paths []string) []any {
	c.mu.Lock()
	defer c.mu.Unlock()

	var objs []any
	for _, e := range c.entries {
		if !slices.Contains(markers, e.marker) {
			continue
		}
		if !within(e.pkg, paths) {
			continue
		}
		objs = append(objs, e.obj)
	}
	return objs
}

func within(pkg string, paths []string) bool {
	for _, p := range paths {
		if pkg == p || strings.HasPrefix(pkg, p+"/") {
			return true
		}
	}
	return false
}

// DefaultCatalog is the catalog used by [Annotate].
var DefaultCatalog = &Catalog{}

// Annotate records obj under marker in [DefaultCatalog] for the calling
// package. It is meant to be called from init functions.
func Annotate(marker Marker, obj any) {
	DefaultCatalog.AddIn(caller.Package(1), marker, obj)
}

// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package webhost

import (
	"fmt"

	"github.com/z5labs/webhost/internal/caller"
)

// Undefined is the port sentinel meaning "use the default".
const Undefined = -1

// Kind classifies a [Setup].
type Kind int

const (
	Default Kind = iota
	App
	Admin

	// Dev setups only bind while the configuration enables dev mode.
	Dev
)

// String implements the [fmt.Stringer] interface.
func (k Kind) String() string {
	switch k {
	case App:
		return "app"
	case Admin:
		return "admin"
	case Dev:
		return "dev"
	default:
		return "default"
	}
}

// InvariantViolationError is returned when a configuration change is no
// longer allowed.
type InvariantViolationError struct {
	Setup  string
	Reason string
}

// Error implements the [builtin.error] interface.
func (e InvariantViolationError) Error() string {
	return fmt.Sprintf("setup %s: %s", e.Setup, e.Reason)
}

// UnsupportedHandlerError is returned when a value does not have one of
// the supported handler shapes.
type UnsupportedHandlerError struct {
	Verb string
	Path string
	Type string
}

// Error implements the [builtin.error] interface.
func (e UnsupportedHandlerError) Error() string {
	return fmt.Sprintf("unsupported handler %s for %s %s", e.Type, e.Verb, e.Path)
}

var setupPackage = caller.Package(0)

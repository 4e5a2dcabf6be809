// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package caller resolves Go package import paths from the call stack.
package caller

import (
	"runtime"
	"slices"
	"strings"
)

// FuncPackage returns the import path portion of a fully qualified
// function name as reported by [runtime.Func.Name].
func FuncPackage(name string) string {
	slash := strings.LastIndex(name, "/")
	dot := strings.Index(name[slash+1:], ".")
	if dot >= 0 {
		name = name[:slash+1+dot]
	}
	// the linker escapes dots in the last path element
	return strings.ReplaceAll(name, "%2e", ".")
}

// Package returns the package of the function skip frames above
// the caller of Package. Package(0) is the caller's own package.
func Package(skip int) string {
	pc, _, _, ok := runtime.Caller(skip + 1)
	if !ok {
		return ""
	}
	fn := runtime.FuncForPC(pc)
	if fn == nil {
		return ""
	}
	return FuncPackage(fn.Name())
}

// Outside walks the call stack from the caller of Outside and returns
// the first package which is not one of excluded.
func Outside(excluded ...string) string {
	pcs := make([]uintptr, 64)
	n := runtime.Callers(2, pcs)
	frames := runtime.CallersFrames(pcs[:n])
	for {
		frame, more := frames.Next()
		pkg := FuncPackage(frame.Function)
		if pkg != "" && !slices.Contains(excluded, pkg) {
			return pkg
		}
		if !more {
			return ""
		}
	}
}

// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package webhost

import (
	"sync"

	"github.com/z5labs/webhost/conf"
)

var environment = sync.OnceValue(func() *conf.Config {
	cfg, err := conf.Environment()
	if err != nil {
		return conf.Empty()
	}
	return cfg
})

var (
	app = sync.OnceValue(func() *Setup {
		return New("app", "0.0.0.0", 8888, App, Config(environment()))
	})
	admin = sync.OnceValue(func() *Setup {
		return New("admin", "0.0.0.0", 8889, Admin, Config(environment()))
	})
	dev = sync.OnceValue(func() *Setup {
		return New("dev", "127.0.0.1", 8887, Dev, Config(environment()))
	})
)

// OnApp returns the shared application setup.
func OnApp() *Setup {
	return app()
}

// OnAdmin returns the shared administration setup.
func OnAdmin() *Setup {
	return admin()
}

// OnDev returns the shared development setup. It only binds in dev mode.
func OnDev() *Setup {
	return dev()
}

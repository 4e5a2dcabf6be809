// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package conf provides layered configuration for setups.
package conf

import (
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/cast"
	"github.com/spf13/viper"
)

// Store represents a general key value structure.
type Store interface {
	Set(key string, v any)
}

// Source defines valid config sources as those who can
// serialize themselves into a key value like structure.
type Source interface {
	Apply(Store) error
}

// SourceFunc is a func implementation of [Source].
type SourceFunc func(Store) error

// Apply implements the [Source] interface.
func (f SourceFunc) Apply(store Store) error {
	return f(store)
}

// Config is a read-mostly view over applied sources.
type Config struct {
	v *viper.Viper
}

// Read applies every source in order. Subsequent sources override
// previous sources.
func Read(srcs ...Source) (*Config, error) {
	v := viper.New()
	for _, src := range srcs {
		err := src.Apply(v)
		if err != nil {
			return nil, err
		}
	}
	return &Config{v: v}, nil
}

// Empty returns a [Config] without any values.
func Empty() *Config {
	return &Config{v: viper.New()}
}

// Set overrides the value stored under key.
func (c *Config) Set(key string, v any) {
	c.v.Set(key, v)
}

// IsSet reports whether key has a value.
func (c *Config) IsSet(key string) bool {
	return c.v.IsSet(key)
}

// Int returns the value under key coerced to an int, or def when the key
// is missing or not numeric.
func (c *Config) Int(key string, def int) int {
	if !c.v.IsSet(key) {
		return def
	}
	i, err := cast.ToIntE(c.v.Get(key))
	if err != nil {
		return def
	}
	return i
}

// Bool returns the value under key coerced to a bool, or def.
func (c *Config) Bool(key string, def bool) bool {
	if !c.v.IsSet(key) {
		return def
	}
	b, err := cast.ToBoolE(c.v.Get(key))
	if err != nil {
		return def
	}
	return b
}

// String returns the value under key as a string, or def.
func (c *Config) String(key string, def string) string {
	if !c.v.IsSet(key) {
		return def
	}
	s, err := cast.ToStringE(c.v.Get(key))
	if err != nil {
		return def
	}
	return s
}

// Dev reports whether development mode is enabled.
func (c *Config) Dev() bool {
	return c.Bool("dev", false)
}

// Unmarshal decodes the sub tree under key into v. An empty key decodes
// the whole configuration. Struct fields are matched by their config tag.
func (c *Config) Unmarshal(key string, v any) error {
	opt := viper.DecoderConfigOption(func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "config"
		dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			mapstructure.TextUnmarshallerHookFunc(),
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		)
	})
	if key == "" {
		return c.v.Unmarshal(v, opt)
	}
	return c.v.UnmarshalKey(key, v, opt)
}

// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package conf

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/z5labs/webhost/internal/try"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// Map is a Source of nested key values. Nested maps become dotted keys.
type Map map[string]any

// Apply implements the [Source] interface.
func (m Map) Apply(store Store) error {
	apply(store, "", m)
	return nil
}

func apply(store Store, prefix string, m map[string]any) {
	for k, v := range m {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		switch x := v.(type) {
		case map[string]any:
			apply(store, key, x)
		case Map:
			apply(store, key, x)
		default:
			store.Set(key, v)
		}
	}
}

// Yaml represents a Source where its underlying format is YAML.
type Yaml struct {
	r io.Reader
}

// FromYaml returns a source which will apply its config
// from YAML values parsed from the given io.Reader.
func FromYaml(r io.Reader) Yaml {
	return Yaml{r: r}
}

// InvalidYamlError occurs if the underlying io.Reader contains invalid YAML.
type InvalidYamlError struct {
	Cause error
}

// Error implements the [builtin.error] interface.
func (e InvalidYamlError) Error() string {
	return fmt.Sprintf("invalid yaml: %s", e.Cause)
}

// Unwrap implements the implicit interface used by [errors.Is] and [errors.As].
func (e InvalidYamlError) Unwrap() error {
	return e.Cause
}

// Apply implements the [Source] interface.
func (src Yaml) Apply(store Store) (err error) {
	defer try.Close(&err, src.r)

	b, err := io.ReadAll(src.r)
	if err != nil {
		return err
	}

	m := make(map[string]any)
	err = yaml.Unmarshal(b, &m)
	if err != nil {
		return InvalidYamlError{Cause: err}
	}
	return Map(m).Apply(store)
}

// Json represents a Source where its underlying format is JSON.
type Json struct {
	r io.Reader
}

// FromJson returns a source which will apply its config
// from JSON values parsed from the given io.Reader.
func FromJson(r io.Reader) Json {
	return Json{r: r}
}

// InvalidJsonError occurs if the underlying io.Reader contains invalid JSON.
type InvalidJsonError struct {
	Cause error
}

// Error implements the [builtin.error] interface.
func (e InvalidJsonError) Error() string {
	return fmt.Sprintf("invalid json: %s", e.Cause)
}

// Unwrap implements the implicit interface used by [errors.Is] and [errors.As].
func (e InvalidJsonError) Unwrap() error {
	return e.Cause
}

// Apply implements the [Source] interface.
func (src Json) Apply(store Store) (err error) {
	defer try.Close(&err, src.r)

	b, err := io.ReadAll(src.r)
	if err != nil {
		return err
	}

	m := make(map[string]any)
	err = json.Unmarshal(b, &m)
	if err != nil {
		return InvalidJsonError{Cause: err}
	}
	return Map(m).Apply(store)
}

// Env represents a Source where its underlying values
// are extracted from environment variables.
type Env struct {
	prefix  string
	environ func() []string
}

// FromEnv returns a Source which applies every environment variable
// starting with prefix and an underscore. PREFIX_API_PORT becomes api.port.
func FromEnv(prefix string) Env {
	return Env{
		prefix:  strings.ToUpper(prefix) + "_",
		environ: os.Environ,
	}
}

// Apply implements the [Source] interface.
func (src Env) Apply(store Store) error {
	for _, pair := range src.environ() {
		k, v, ok := strings.Cut(pair, "=")
		if !ok {
			continue
		}
		name, ok := strings.CutPrefix(k, src.prefix)
		if !ok || name == "" {
			continue
		}
		key := strings.ToLower(strings.ReplaceAll(name, "_", "."))
		store.Set(key, v)
	}
	return nil
}

// Environment reads the configuration from WEBHOST_ prefixed environment
// variables.
func Environment() (*Config, error) {
	return Read(FromEnv("WEBHOST"))
}

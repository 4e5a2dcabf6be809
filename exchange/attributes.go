// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package exchange

import (
	"slices"
	"sync"
)

// Attributes is a key value store shared by every request served by the
// same registry. It is safe for concurrent use.
type Attributes struct {
	mu sync.RWMutex
	m  map[string]any
}

// NewAttributes returns an empty [Attributes].
func NewAttributes() *Attributes {
	return &Attributes{m: make(map[string]any)}
}

// Get returns the value stored under key.
func (a *Attributes) Get(key string) (any, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	v, ok := a.m[key]
	return v, ok
}

// Set stores v under key, replacing any previous value.
func (a *Attributes) Set(key string, v any) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.m == nil {
		a.m = make(map[string]any)
	}
	a.m[key] = v
}

// SetIfAbsent stores v under key unless a value is already present and
// returns the value now stored.
func (a *Attributes) SetIfAbsent(key string, v any) any {
	a.mu.Lock()
	defer a.mu.Unlock()
	if old, ok := a.m[key]; ok {
		return old
	}
	if a.m == nil {
		a.m = make(map[string]any)
	}
	a.m[key] = v
	return v
}

// Delete removes key.
func (a *Attributes) Delete(key string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.m, key)
}

// Keys returns the stored keys in sorted order.
func (a *Attributes) Keys() []string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	keys := make([]string, 0, len(a.m))
	for k := range a.m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Len returns the number of stored keys.
func (a *Attributes) Len() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.m)
}

// Clear removes every key.
func (a *Attributes) Clear() {
	a.mu.Lock()
	defer a.mu.Unlock()
	clear(a.m)
}

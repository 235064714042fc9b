package mdc

import (
	"sync"

	"github.com/zeplinko/mdcext/mctx"
)

// Map is a thread-safe, in-memory Store. The zero value is ready to use.
//
// Map implements mctx.Annotator, so binding one to a Context with WithStore
// causes its current entries to be included on every log message which is
// logged with that Context.
type Map struct {
	l sync.RWMutex
	m map[string]string
}

// NewMap returns an empty Map.
func NewMap() *Map {
	return new(Map)
}

// Default is the process-wide Map which From returns when no Store has been
// bound to a Context.
var Default = NewMap()

// Set implements the method for the Store interface. It never returns an
// error.
func (m *Map) Set(key, value string) error {
	m.l.Lock()
	defer m.l.Unlock()
	if m.m == nil {
		m.m = map[string]string{}
	}
	m.m[key] = value
	return nil
}

// Unset implements the method for the Store interface. It never returns an
// error.
func (m *Map) Unset(key string) error {
	m.l.Lock()
	defer m.l.Unlock()
	delete(m.m, key)
	return nil
}

// Get returns the value currently set for the key, and whether it is set at
// all.
func (m *Map) Get(key string) (string, bool) {
	m.l.RLock()
	defer m.l.RUnlock()
	v, ok := m.m[key]
	return v, ok
}

// Len returns the number of keys currently set.
func (m *Map) Len() int {
	m.l.RLock()
	defer m.l.RUnlock()
	return len(m.m)
}

// Copy returns a copy of all key/values currently set.
func (m *Map) Copy() map[string]string {
	m.l.RLock()
	defer m.l.RUnlock()
	out := make(map[string]string, len(m.m))
	for k, v := range m.m {
		out[k] = v
	}
	return out
}

// Annotate implements the method for the mctx.Annotator interface.
func (m *Map) Annotate(aa mctx.Annotations) {
	m.l.RLock()
	defer m.l.RUnlock()
	for k, v := range m.m {
		aa[k] = v
	}
}

// Func adapts a pair of functions into a Store, e.g. to manage entries in the
// MDC of some other logging framework. Either field may be nil, in which case
// that operation does nothing.
type Func struct {
	SetFunc   func(key, value string) error
	UnsetFunc func(key string) error
}

// Set implements the method for the Store interface.
func (f Func) Set(key, value string) error {
	if f.SetFunc == nil {
		return nil
	}
	return f.SetFunc(key, value)
}

// Unset implements the method for the Store interface.
func (f Func) Unset(key string) error {
	if f.UnsetFunc == nil {
		return nil
	}
	return f.UnsetFunc(key)
}

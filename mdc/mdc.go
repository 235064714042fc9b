// Package mdc provides scoped insertion of entries into a Mapped Diagnostic
// Context (MDC): a key/value store consulted when writing log lines, holding
// contextual metadata like request or user IDs.
//
// Each of Put, PutPairs, and PutMap inserts entries into a Store and returns a
// Handle which manages the inserted keys. Closing the Handle removes exactly
// those keys from the Store, so the intended use is:
//
//	h, err := mdc.Put(store, "userId", userID)
//	if err != nil {
//		return err
//	}
//	defer h.Close()
//
// Removal is unconditional: if a nested scope overwrote one of the managed
// keys, the key is still removed, and the previous value is not restored.
package mdc

import (
	"errors"
	"sort"
	"sync"

	"github.com/zeplinko/mdcext/merr"
)

// Store describes the MDC being managed. Unset on a key which isn't present
// must be a no-op.
//
// Thread-safety and isolation between concurrent users of a Store are up to
// the implementation.
type Store interface {
	Set(key, value string) error
	Unset(key string) error
}

// ErrDuplicateKey is returned by PutPairs when two of its Pairs share a key.
// The returned error will have the key embedded in it under "key", see
// merr.GetValue.
var ErrDuplicateKey = errors.New("duplicate MDC key")

// Pair is a single key/value entry.
type Pair struct {
	Key, Value string
}

// P is a shortcut for constructing a Pair.
func P(key, value string) Pair {
	return Pair{Key: key, Value: value}
}

// Handle manages a fixed set of keys which were inserted into a Store. It is
// thread-safe.
type Handle struct {
	store Store
	keys  []string

	once sync.Once
	err  error
}

func newHandle(s Store, keys []string) *Handle {
	sort.Strings(keys)
	return &Handle{store: s, keys: keys}
}

// Keys returns a sorted copy of the keys managed by the Handle.
func (h *Handle) Keys() []string {
	return append([]string(nil), h.keys...)
}

// Close removes every managed key from the Store, regardless of what value
// each currently holds. Every key is attempted even if the Store fails to
// remove one of them, and the first such error is returned.
//
// Only the first call does anything, subsequent calls return the same result
// without touching the Store again. Calling Close on a nil Handle is a no-op.
func (h *Handle) Close() error {
	if h == nil {
		return nil
	}
	h.once.Do(func() {
		for _, k := range h.keys {
			if err := h.store.Unset(k); err != nil && h.err == nil {
				h.err = merr.WithValue(err, "key", k, true)
			}
		}
	})
	return h.err
}

// Put sets the key to the value in the Store, overwriting any previous value,
// and returns a Handle which manages the key.
func Put(s Store, key, value string) (*Handle, error) {
	if err := s.Set(key, value); err != nil {
		return nil, merr.WithValue(err, "key", key, true)
	}
	return newHandle(s, []string{key}), nil
}

// PutPairs is like PutMap, but takes in a sequence of Pairs. If any two Pairs
// share the same key then ErrDuplicateKey is returned and the Store is not
// modified.
func PutPairs(s Store, pairs ...Pair) (*Handle, error) {
	m := make(map[string]string, len(pairs))
	for _, p := range pairs {
		if _, ok := m[p.Key]; ok {
			return nil, merr.WithValue(ErrDuplicateKey, "key", p.Key, true)
		}
		m[p.Key] = p.Value
	}
	return PutMap(s, m)
}

// PutMap sets every key/value of the map in the Store, in no particular order,
// and returns a Handle which manages all of the map's keys.
//
// If the Store fails to set any of the keys then the keys which were already
// set by this call are removed again, and the Store's error is returned.
func PutMap(s Store, m map[string]string) (*Handle, error) {
	keys := make([]string, 0, len(m))
	for k, v := range m {
		if err := s.Set(k, v); err != nil {
			// the Set error takes precedence over any rollback error
			_ = newHandle(s, keys).Close()
			return nil, merr.WithValue(err, "key", k, true)
		}
		keys = append(keys, k)
	}
	return newHandle(s, keys), nil
}

package presence

import (
	"reflect"
	"sync"
)

// registryKey combines type, codec and options for cache lookup.
type registryKey struct {
	typ         reflect.Type
	contentType string
	opts        *Options
}

var (
	registry   = make(map[registryKey]any)
	registryMu sync.RWMutex
)

// Use returns a cached serializer or builds a new one.
// The serializer is cached by type, codec content type and options.
func Use[T any](codec Codec, opts *Options) (*Serializer[T], error) {
	typ := reflect.TypeFor[T]()
	key := registryKey{typ: typ, contentType: codec.ContentType(), opts: opts}

	// Fast path: read-lock cache check
	registryMu.RLock()
	if cached, ok := registry[key]; ok {
		registryMu.RUnlock()
		return cached.(*Serializer[T]), nil
	}
	registryMu.RUnlock()

	// Slow path: build and cache with write-lock
	registryMu.Lock()
	defer registryMu.Unlock()

	// Double-check pattern
	if cached, ok := registry[key]; ok {
		return cached.(*Serializer[T]), nil
	}

	s, err := NewSerializer[T](codec, opts)
	if err != nil {
		return nil, err
	}

	registry[key] = s
	return s, nil
}

// Reset clears the serializer registry.
// This is primarily useful for test isolation.
func Reset() {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry = make(map[registryKey]any)
}

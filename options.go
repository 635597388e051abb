package presence

import (
	"reflect"
	"sync"
)

// Options is the serializer configuration passed to NewSerializer.
//
// Configure Options during single-threaded startup. Once serializers are
// built from it, treat it as read-only; Lookup alone is safe for concurrent
// use.
type Options struct {
	factories []CodecFactory
	hashers   map[HashAlgo]Hasher

	// Built codecs keyed by reflect.Type.
	codecs sync.Map
}

// NewOptions returns empty options with no factories installed.
func NewOptions() *Options {
	return &Options{}
}

// AddPresenceSupport installs Factory into opts so that every Field in every
// aggregate is handled without per-field declarations.
//
// Calling it more than once is harmless: the factory is installed only if no
// Factory is already present. It returns opts for chaining and fails with
// ErrNilOptions when opts is nil.
func AddPresenceSupport(opts *Options) (*Options, error) {
	if opts == nil {
		return nil, &ConfigError{Err: ErrNilOptions}
	}

	for _, f := range opts.factories {
		switch f.(type) {
		case Factory, *Factory:
			emitSupportInstalled(len(opts.factories), true)
			return opts, nil
		}
	}

	opts.factories = append(opts.factories, Factory{})
	emitSupportInstalled(len(opts.factories), false)
	return opts, nil
}

// Add appends a codec factory. Factories are consulted in insertion order.
// Unlike AddPresenceSupport, Add does not check for duplicates.
func (o *Options) Add(f CodecFactory) *Options {
	o.factories = append(o.factories, f)
	return o
}

// Factories returns a copy of the installed factories.
func (o *Options) Factories() []CodecFactory {
	out := make([]CodecFactory, len(o.factories))
	copy(out, o.factories)
	return out
}

// SetHasher overrides the hasher used for the given algorithm.
// Returns the options for chaining.
func (o *Options) SetHasher(algo HashAlgo, h Hasher) *Options {
	if o.hashers == nil {
		o.hashers = make(map[HashAlgo]Hasher)
	}
	o.hashers[algo] = h
	return o
}

// Lookup returns the codec for t from the first factory that can handle it.
// Built codecs are cached per type. A nil codec and nil error mean no
// installed factory handles t.
func (o *Options) Lookup(t reflect.Type) (FieldCodec, error) {
	if cached, ok := o.codecs.Load(t); ok {
		return cached.(FieldCodec), nil
	}

	for _, f := range o.factories {
		if !f.CanHandle(t) {
			continue
		}
		codec, err := f.Build(t)
		if err != nil {
			return nil, err
		}
		actual, _ := o.codecs.LoadOrStore(t, codec)
		return actual.(FieldCodec), nil
	}

	return nil, nil
}

// hasher returns the configured hasher for algo, falling back to the builtins.
func (o *Options) hasher(algo HashAlgo) (Hasher, bool) {
	if h, ok := o.hashers[algo]; ok {
		return h, true
	}
	h, ok := builtinHashers()[algo]
	return h, ok
}

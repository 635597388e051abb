package presence

import (
	"reflect"
	"strings"
)

// CodecFactory produces FieldCodecs for the types it recognizes.
type CodecFactory interface {
	// CanHandle reports whether Build can produce a codec for t.
	CanHandle(t reflect.Type) bool

	// Build returns the codec for t.
	Build(t reflect.Type) (FieldCodec, error)
}

// Factory builds presence codecs for every Field[T] instantiation.
// Install it with AddPresenceSupport.
type Factory struct{}

var (
	trackedType = reflect.TypeFor[tracked]()
	fieldPkg    = reflect.TypeFor[Field[struct{}]]().PkgPath()
)

// CanHandle reports whether t is an instantiation of Field.
// Structs embedding a Field and named types defined over one are rejected.
func (Factory) CanHandle(t reflect.Type) bool {
	return isField(t)
}

// Build returns the codec for the Field instantiation t.
func (Factory) Build(t reflect.Type) (FieldCodec, error) {
	if !isField(t) {
		return nil, &ConfigError{Err: ErrNotField, Type: typeString(t)}
	}
	codec := reflect.Zero(t).Interface().(tracked).presenceCodec()
	emitCodecBuilt(t.String(), codec.Inner().String())
	return codec, nil
}

func isField(t reflect.Type) bool {
	if t == nil || t.Kind() != reflect.Struct {
		return false
	}
	if t.PkgPath() != fieldPkg || !strings.HasPrefix(t.Name(), "Field[") {
		return false
	}
	return t.Implements(trackedType)
}

func typeString(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}
	return t.String()
}

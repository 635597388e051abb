package presence

import "reflect"

// FieldCodec decodes and encodes one concrete Field[T] type.
type FieldCodec interface {
	// Type returns the wrapper type handled, Field[T].
	Type() reflect.Type

	// Inner returns the wrapped type T.
	Inner() reflect.Type

	// Decode replaces dst with a specified Field built from n.
	// It is only called when the field's key is present in the document.
	Decode(h Host, n Node, dst reflect.Value) error

	// Encode returns the encodable form of src. nil encodes as null.
	Encode(h Host, src reflect.Value) (any, error)
}

// Host exposes the serializer's standard decode and encode routines so a
// FieldCodec can delegate the wrapped value back to it.
type Host interface {
	DecodeValue(n Node, dst reflect.Value) error
	EncodeValue(src reflect.Value) (any, error)
}

// fieldCodec is the presence codec for Field[T].
type fieldCodec[T any] struct{}

func (fieldCodec[T]) Type() reflect.Type {
	return reflect.TypeFor[Field[T]]()
}

func (fieldCodec[T]) Inner() reflect.Type {
	return reflect.TypeFor[T]()
}

func (fieldCodec[T]) Decode(h Host, n Node, dst reflect.Value) error {
	// T is never parsed from a null token.
	if n.IsNull() {
		dst.Set(reflect.ValueOf(Null[T]()))
		return nil
	}

	var v T
	if err := h.DecodeValue(n, reflect.ValueOf(&v).Elem()); err != nil {
		return err
	}
	dst.Set(reflect.ValueOf(Of(v)))
	return nil
}

func (fieldCodec[T]) Encode(h Host, src reflect.Value) (any, error) {
	f, _ := src.Interface().(Field[T])

	// Unspecified and specified-null share the null token.
	if !f.specified {
		return nil, nil
	}
	return h.EncodeValue(reflect.ValueOf(&f.value).Elem())
}

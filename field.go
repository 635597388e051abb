package presence

// Field wraps a value together with whether it was explicitly supplied.
//
// The zero value is unspecified. A Field decoded from a document is specified
// whenever its key was present, including when the key held null:
//
//	key absent        -> IsSpecified() == false
//	"key": null       -> IsSpecified() == true, Value() == zero value of T
//	"key": <token>    -> IsSpecified() == true, Value() == decoded token
//
// Go has no universal null, so "specified as null" carries T's zero value.
// Use a pointer, slice, map or interface T when null must be told apart from
// an empty value:
//
//	type PatchUser struct {
//	    Name  presence.Field[string]  `json:"name"`
//	    Email presence.Field[*string] `json:"email"`
//	}
//
// Fields are immutable once constructed; decoding replaces them wholesale.
type Field[T any] struct {
	value     T
	specified bool
}

// Of returns a specified field holding v.
func Of[T any](v T) Field[T] {
	return Field[T]{value: v, specified: true}
}

// Null returns a specified field holding T's zero value.
func Null[T any]() Field[T] {
	return Field[T]{specified: true}
}

// FromPtr returns a specified field from a pointer.
// A nil pointer yields Null, anything else yields Of(*p).
func FromPtr[T any](p *T) Field[T] {
	if p == nil {
		return Null[T]()
	}
	return Of(*p)
}

// IsSpecified reports whether the field was explicitly supplied.
func (f Field[T]) IsSpecified() bool {
	return f.specified
}

// Value returns the wrapped value regardless of IsSpecified.
// Check IsSpecified before treating it as an update instruction.
func (f Field[T]) Value() T {
	return f.value
}

// Get returns the value and whether it was specified.
func (f Field[T]) Get() (T, bool) {
	if !f.specified {
		var zero T
		return zero, false
	}
	return f.value, true
}

// Or returns the value when specified and def otherwise.
func (f Field[T]) Or(def T) T {
	if !f.specified {
		return def
	}
	return f.value
}

// Ptr returns nil when unspecified, otherwise a pointer to a copy of the value.
func (f Field[T]) Ptr() *T {
	if !f.specified {
		return nil
	}
	v := f.value
	return &v
}

// Apply writes the value into dst when the field is specified and reports
// whether it did. Unspecified fields leave dst untouched.
//
//	req.Name.Apply(&user.Name)
//	req.Email.Apply(&user.Email) // clears when "email": null
func (f Field[T]) Apply(dst *T) bool {
	if !f.specified || dst == nil {
		return false
	}
	*dst = f.value
	return true
}

// presenceCodec returns the codec specialized for this instantiation.
// Factory relies on it to build codecs without runtime generic instantiation.
func (Field[T]) presenceCodec() FieldCodec {
	return fieldCodec[T]{}
}

// tracked is satisfied by every Field instantiation.
type tracked interface {
	presenceCodec() FieldCodec
	IsSpecified() bool
}

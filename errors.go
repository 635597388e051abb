package presence

import (
	"errors"
	"fmt"
)

// Sentinel errors for programmatic error handling.
// Use errors.Is() to check for these error types.
var (
	// ErrNilOptions indicates a nil *Options was passed to AddPresenceSupport.
	ErrNilOptions = errors.New("nil options")

	// ErrNotField indicates a codec was requested for a type that is not a Field.
	ErrNotField = errors.New("not a presence field")

	// ErrNoCodec indicates a Field was reached with no codec attached or installed.
	ErrNoCodec = errors.New("no codec for presence field")

	// ErrInvalidTag indicates a struct tag has an invalid format or value.
	ErrInvalidTag = errors.New("invalid tag")

	// ErrUnsupportedType indicates a type the serializer cannot walk.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrMissingHasher indicates a required hasher was not registered.
	ErrMissingHasher = errors.New("missing hasher")

	// ErrUnmarshal indicates the codec failed to parse input data.
	ErrUnmarshal = errors.New("unmarshal failed")

	// ErrMarshal indicates the codec failed to marshal output data.
	ErrMarshal = errors.New("marshal failed")

	// ErrHash indicates hashing of a field failed.
	ErrHash = errors.New("hash failed")
)

// ConfigError represents a configuration error raised while installing
// factories, building codecs or building a serializer.
// It wraps a sentinel error with the offending field and type.
type ConfigError struct {
	Err   error  // Underlying sentinel error (ErrNoCodec, etc.)
	Field string // Field path that triggered the error
	Type  string // Type or tag value that was missing/invalid
}

func (e *ConfigError) Error() string {
	if e.Field != "" && e.Type != "" {
		return fmt.Sprintf("%s for %q (field %s)", e.Err.Error(), e.Type, e.Field)
	}
	if e.Type != "" {
		return fmt.Sprintf("%s for %q", e.Err.Error(), e.Type)
	}
	if e.Field != "" {
		return fmt.Sprintf("%s (field %s)", e.Err.Error(), e.Field)
	}
	return e.Err.Error()
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// TransformError represents an error during field transformation.
type TransformError struct {
	Err       error  // Underlying sentinel error (ErrHash)
	Field     string // Field name that failed
	Operation string // Operation that failed (hash)
	Cause     error  // Original error from the underlying operation
}

func (e *TransformError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s field %s: %v", e.Operation, e.Field, e.Cause)
	}
	return fmt.Sprintf("%s field %s", e.Operation, e.Field)
}

func (e *TransformError) Unwrap() error {
	return e.Err
}

// CodecError represents a whole-document parse or marshal error.
// Errors decoding an individual value are returned unwrapped.
type CodecError struct {
	Err   error // Underlying sentinel error (ErrMarshal, ErrUnmarshal)
	Cause error // Original error from the codec
}

func (e *CodecError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Err.Error(), e.Cause)
	}
	return e.Err.Error()
}

func (e *CodecError) Unwrap() error {
	return e.Err
}

func newConfigError(sentinel error, typ, field string) error {
	return &ConfigError{
		Err:   sentinel,
		Type:  typ,
		Field: field,
	}
}

func newTransformError(sentinel error, operation, field string, cause error) error {
	return &TransformError{
		Err:       sentinel,
		Field:     field,
		Operation: operation,
		Cause:     cause,
	}
}

func newCodecError(sentinel error, cause error) error {
	return &CodecError{
		Err:   sentinel,
		Cause: cause,
	}
}

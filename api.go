// Package presence provides three-state field tracking for partial-update
// (PATCH) documents.
//
// A generic decoder collapses "key absent" and "key set to null" into the same
// Go value. Field[T] keeps them apart:
//
//	key absent        -> leave the stored value unchanged
//	"key": null       -> clear the stored value
//	"key": <token>    -> set the stored value
//
// # Basic Usage
//
//	type PatchUser struct {
//	    Name  presence.Field[string]  `json:"name"`
//	    Email presence.Field[*string] `json:"email"`
//	    Age   presence.Field[*int]    `json:"age"`
//	}
//
//	opts, _ := presence.AddPresenceSupport(presence.NewOptions())
//	ser, _ := presence.NewSerializer[PatchUser](json.New(), opts)
//
//	req, _ := ser.Receive(ctx, []byte(`{"name":"Jane","email":null}`))
//	req.Name.Apply(&user.Name)   // set
//	req.Email.Apply(&user.Email) // cleared
//	req.Age.Apply(&user.Age)     // untouched
//
// # Activation
//
// Wrapper fields are dispatched to their codec in one of two ways:
//
//   - Global registration: AddPresenceSupport installs Factory into Options,
//     after which every Field in every aggregate is handled.
//   - Per-field attachment: the struct tag codec:"presence" builds the field's
//     codec directly, with no registration.
//
// Embedding Contract in an aggregate documents that it uses presence tracking.
// It does not activate anything on its own.
//
// # Wire-null collapse
//
// Encoding an unspecified field writes null, the same as a field specified as
// null. Decoding that output yields a specified null field, not an
// unspecified one. Tag a field omitempty to drop unspecified fields instead.
//
// # Codec Providers
//
// The following format codecs are available as subpackages:
//
//   - json - JSON encoding (application/json)
//   - yaml - YAML encoding (application/yaml)
//   - msgpack - MessagePack encoding (application/msgpack)
//   - bson - BSON encoding (application/bson)
package presence

// Codec provides content-type aware parsing and rendering of documents.
type Codec interface {
	// ContentType returns the MIME type for this codec (e.g., "application/json").
	ContentType() string

	// Tag returns the struct tag consulted for member keys (e.g., "json").
	Tag() string

	// Parse decodes data into a document node.
	Parse(data []byte) (Node, error)

	// Marshal encodes v into bytes. v is an Object, an Array, nil, or any
	// value the underlying format library can encode on its own.
	Marshal(v any) ([]byte, error)
}

// Node is one value inside a parsed document.
//
// Node is the only view the serializer has of a document. It needs exactly
// two primitives beyond ordinary decoding: whether an object key is present,
// and whether a value is an explicit null.
type Node interface {
	// IsNull reports whether the value is an explicit null.
	IsNull() bool

	// Object returns the members of an object value keyed by name.
	// A key missing from the map was absent from the document.
	Object() (map[string]Node, error)

	// Array returns the elements of an array value.
	Array() ([]Node, error)

	// Decode decodes the value into v using the format library.
	Decode(v any) error
}

// Member is one key/value pair of an Object.
type Member struct {
	Key   string
	Value any
}

// Object is an ordered object ready for encoding.
type Object []Member

// Array is an array ready for encoding.
type Array []any

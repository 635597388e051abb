// Package bson provides a BSON codec implementation.
//
// BSON documents are always objects, so only aggregates and maps can be
// sent or received at the top level.
package bson

import (
	"errors"
	"fmt"

	"github.com/zoobzio/presence"
	"go.mongodb.org/mongo-driver/bson"
)

// ErrNotDocument is returned when the top-level value is not a document.
var ErrNotDocument = errors.New("bson: top-level value must be a document")

// bsonCodec implements presence.Codec for BSON.
type bsonCodec struct{}

// New returns a BSON codec.
func New() presence.Codec {
	return &bsonCodec{}
}

// ContentType returns the MIME type for BSON.
func (c *bsonCodec) ContentType() string {
	return "application/bson"
}

// Tag returns the struct tag used for member keys.
func (c *bsonCodec) Tag() string {
	return "bson"
}

// Parse validates data as a BSON document and returns its node.
func (c *bsonCodec) Parse(data []byte) (presence.Node, error) {
	doc := bson.Raw(data)
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return node(bson.RawValue{Type: bson.TypeEmbeddedDocument, Value: doc}), nil
}

// Marshal encodes v as a BSON document, preserving Object member order.
func (c *bsonCodec) Marshal(v any) ([]byte, error) {
	switch v.(type) {
	case nil, presence.Array:
		return nil, ErrNotDocument
	}
	return bson.Marshal(convert(v))
}

// convert maps the encoding tree onto bson.D and bson.A.
func convert(v any) any {
	switch v := v.(type) {
	case presence.Object:
		d := make(bson.D, len(v))
		for i, m := range v {
			d[i] = bson.E{Key: m.Key, Value: convert(m.Value)}
		}
		return d
	case presence.Array:
		a := make(bson.A, len(v))
		for i, elem := range v {
			a[i] = convert(elem)
		}
		return a
	default:
		return v
	}
}

// node is one BSON value.
type node bson.RawValue

func (n node) IsNull() bool {
	return n.Type == bson.TypeNull || n.Type == bson.TypeUndefined
}

func (n node) Object() (map[string]presence.Node, error) {
	doc, ok := bson.RawValue(n).DocumentOK()
	if !ok {
		return nil, fmt.Errorf("bson: cannot decode %s into an object", n.Type)
	}
	elems, err := doc.Elements()
	if err != nil {
		return nil, err
	}
	members := make(map[string]presence.Node, len(elems))
	for _, e := range elems {
		members[e.Key()] = node(e.Value())
	}
	return members, nil
}

func (n node) Array() ([]presence.Node, error) {
	arr, ok := bson.RawValue(n).ArrayOK()
	if !ok {
		return nil, fmt.Errorf("bson: cannot decode %s into an array", n.Type)
	}
	vals, err := arr.Values()
	if err != nil {
		return nil, err
	}
	elems := make([]presence.Node, len(vals))
	for i, v := range vals {
		elems[i] = node(v)
	}
	return elems, nil
}

func (n node) Decode(v any) error {
	return bson.RawValue(n).Unmarshal(v)
}

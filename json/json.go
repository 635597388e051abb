// Package json provides a JSON codec implementation.
package json

import (
	"bytes"
	"encoding/json"

	"github.com/zoobzio/presence"
)

// jsonCodec implements presence.Codec for JSON.
type jsonCodec struct{}

// New returns a JSON codec.
func New() presence.Codec {
	return &jsonCodec{}
}

// ContentType returns the MIME type for JSON.
func (c *jsonCodec) ContentType() string {
	return "application/json"
}

// Tag returns the struct tag used for member keys.
func (c *jsonCodec) Tag() string {
	return "json"
}

// Parse decodes JSON data into a document node.
func (c *jsonCodec) Parse(data []byte) (presence.Node, error) {
	var raw json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	return node(raw), nil
}

// Marshal encodes v as JSON, preserving Object member order.
func (c *jsonCodec) Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	if err := encode(&buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encode(buf *bytes.Buffer, v any) error {
	switch v := v.(type) {
	case nil:
		buf.WriteString("null")
	case presence.Object:
		buf.WriteByte('{')
		for i, m := range v {
			if i > 0 {
				buf.WriteByte(',')
			}
			key, err := json.Marshal(m.Key)
			if err != nil {
				return err
			}
			buf.Write(key)
			buf.WriteByte(':')
			if err := encode(buf, m.Value); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	case presence.Array:
		buf.WriteByte('[')
		for i, elem := range v {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := encode(buf, elem); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return err
		}
		buf.Write(data)
	}
	return nil
}

// node is one JSON value.
type node json.RawMessage

var null = []byte("null")

func (n node) IsNull() bool {
	return bytes.Equal(bytes.TrimSpace(n), null)
}

func (n node) Object() (map[string]presence.Node, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(n, &raw); err != nil {
		return nil, err
	}
	members := make(map[string]presence.Node, len(raw))
	for k, v := range raw {
		members[k] = node(v)
	}
	return members, nil
}

func (n node) Array() ([]presence.Node, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(n, &raw); err != nil {
		return nil, err
	}
	elems := make([]presence.Node, len(raw))
	for i, v := range raw {
		elems[i] = node(v)
	}
	return elems, nil
}

func (n node) Decode(v any) error {
	return json.Unmarshal(n, v)
}

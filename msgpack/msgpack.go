// Package msgpack provides a MessagePack codec implementation.
package msgpack

import (
	"bytes"

	"github.com/vmihailenco/msgpack/v5"
	"github.com/vmihailenco/msgpack/v5/msgpcode"
	"github.com/zoobzio/presence"
)

// msgpackCodec implements presence.Codec for MessagePack.
type msgpackCodec struct{}

// New returns a MessagePack codec.
func New() presence.Codec {
	return &msgpackCodec{}
}

// ContentType returns the MIME type for MessagePack.
func (c *msgpackCodec) ContentType() string {
	return "application/msgpack"
}

// Tag returns the struct tag used for member keys.
func (c *msgpackCodec) Tag() string {
	return "msgpack"
}

// Parse decodes MessagePack data into a document node.
func (c *msgpackCodec) Parse(data []byte) (presence.Node, error) {
	var raw msgpack.RawMessage
	if err := msgpack.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	return node(raw), nil
}

// Marshal encodes v as MessagePack, preserving Object member order.
func (c *msgpackCodec) Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	if err := encode(enc, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encode(enc *msgpack.Encoder, v any) error {
	switch v := v.(type) {
	case nil:
		return enc.EncodeNil()
	case presence.Object:
		if err := enc.EncodeMapLen(len(v)); err != nil {
			return err
		}
		for _, m := range v {
			if err := enc.EncodeString(m.Key); err != nil {
				return err
			}
			if err := encode(enc, m.Value); err != nil {
				return err
			}
		}
		return nil
	case presence.Array:
		if err := enc.EncodeArrayLen(len(v)); err != nil {
			return err
		}
		for _, elem := range v {
			if err := encode(enc, elem); err != nil {
				return err
			}
		}
		return nil
	default:
		return enc.Encode(v)
	}
}

// node is one MessagePack value.
type node msgpack.RawMessage

func (n node) IsNull() bool {
	return len(n) == 1 && n[0] == msgpcode.Nil
}

func (n node) Object() (map[string]presence.Node, error) {
	dec := msgpack.NewDecoder(bytes.NewReader(n))
	size, err := dec.DecodeMapLen()
	if err != nil {
		return nil, err
	}
	if size < 0 {
		return nil, nil
	}
	members := make(map[string]presence.Node, size)
	for i := 0; i < size; i++ {
		key, err := dec.DecodeString()
		if err != nil {
			return nil, err
		}
		raw, err := dec.DecodeRaw()
		if err != nil {
			return nil, err
		}
		members[key] = node(raw)
	}
	return members, nil
}

func (n node) Array() ([]presence.Node, error) {
	dec := msgpack.NewDecoder(bytes.NewReader(n))
	size, err := dec.DecodeArrayLen()
	if err != nil {
		return nil, err
	}
	if size < 0 {
		return nil, nil
	}
	elems := make([]presence.Node, size)
	for i := range elems {
		raw, err := dec.DecodeRaw()
		if err != nil {
			return nil, err
		}
		elems[i] = node(raw)
	}
	return elems, nil
}

func (n node) Decode(v any) error {
	return msgpack.Unmarshal(n, v)
}

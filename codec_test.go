package presence

import (
	"bytes"
	"encoding/json"
)

// testCodec is a minimal JSON codec for testing without importing presence/json.
type testCodec struct{}

func (testCodec) ContentType() string { return "application/json" }

func (testCodec) Tag() string { return "json" }

func (testCodec) Parse(data []byte) (Node, error) {
	var raw json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	return testNode(raw), nil
}

func (testCodec) Marshal(v any) ([]byte, error) {
	return json.Marshal(toPlain(v))
}

// toPlain converts an encoding tree to values encoding/json can order.
func toPlain(v any) any {
	switch v := v.(type) {
	case Object:
		var buf bytes.Buffer
		buf.WriteByte('{')
		for i, m := range v {
			if i > 0 {
				buf.WriteByte(',')
			}
			k, _ := json.Marshal(m.Key)
			val, _ := json.Marshal(toPlain(m.Value))
			buf.Write(k)
			buf.WriteByte(':')
			buf.Write(val)
		}
		buf.WriteByte('}')
		return json.RawMessage(buf.Bytes())
	case Array:
		out := make([]any, len(v))
		for i, elem := range v {
			out[i] = toPlain(elem)
		}
		return out
	default:
		return v
	}
}

type testNode json.RawMessage

func (n testNode) IsNull() bool {
	return bytes.Equal(bytes.TrimSpace(n), []byte("null"))
}

func (n testNode) Object() (map[string]Node, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(n, &raw); err != nil {
		return nil, err
	}
	out := make(map[string]Node, len(raw))
	for k, v := range raw {
		out[k] = testNode(v)
	}
	return out, nil
}

func (n testNode) Array() ([]Node, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(n, &raw); err != nil {
		return nil, err
	}
	out := make([]Node, len(raw))
	for i, v := range raw {
		out[i] = testNode(v)
	}
	return out, nil
}

func (n testNode) Decode(v any) error {
	return json.Unmarshal(n, v)
}

// failingCodec fails every Marshal call.
type failingCodec struct {
	testCodec
	err error
}

func (c failingCodec) Marshal(any) ([]byte, error) {
	return nil, c.err
}

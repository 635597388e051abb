// Package yaml provides a YAML codec implementation.
package yaml

import (
	"fmt"

	"github.com/zoobzio/presence"
	"gopkg.in/yaml.v3"
)

// yamlCodec implements presence.Codec for YAML.
type yamlCodec struct{}

// New returns a YAML codec.
func New() presence.Codec {
	return &yamlCodec{}
}

// ContentType returns the MIME type for YAML.
func (c *yamlCodec) ContentType() string {
	return "application/yaml"
}

// Tag returns the struct tag used for member keys.
func (c *yamlCodec) Tag() string {
	return "yaml"
}

// Parse decodes YAML data into a document node. An empty document is null.
func (c *yamlCodec) Parse(data []byte) (presence.Node, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if doc.Kind == yaml.DocumentNode && len(doc.Content) > 0 {
		return node{doc.Content[0]}, nil
	}
	return node{nullNode()}, nil
}

// Marshal encodes v as YAML, preserving Object member order.
func (c *yamlCodec) Marshal(v any) ([]byte, error) {
	n, err := toNode(v)
	if err != nil {
		return nil, err
	}
	return yaml.Marshal(n)
}

func toNode(v any) (*yaml.Node, error) {
	switch v := v.(type) {
	case nil:
		return nullNode(), nil
	case presence.Object:
		m := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for _, member := range v {
			val, err := toNode(member.Value)
			if err != nil {
				return nil, err
			}
			key := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: member.Key}
			m.Content = append(m.Content, key, val)
		}
		return m, nil
	case presence.Array:
		s := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, elem := range v {
			val, err := toNode(elem)
			if err != nil {
				return nil, err
			}
			s.Content = append(s.Content, val)
		}
		return s, nil
	default:
		var n yaml.Node
		if err := n.Encode(v); err != nil {
			return nil, err
		}
		return &n, nil
	}
}

func nullNode() *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
}

// node is one YAML value. Aliases are resolved on access.
type node struct {
	n *yaml.Node
}

func resolve(v *yaml.Node) *yaml.Node {
	for v.Kind == yaml.AliasNode && v.Alias != nil {
		v = v.Alias
	}
	return v
}

func (n node) resolved() *yaml.Node {
	return resolve(n.n)
}

func (n node) IsNull() bool {
	v := n.resolved()
	return v.Kind == yaml.ScalarNode && v.ShortTag() == "!!null"
}

// Object returns the members of a mapping. Merge keys (<<) are expanded;
// keys written in the mapping itself take precedence over merged ones.
func (n node) Object() (map[string]presence.Node, error) {
	v := n.resolved()
	if v.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("yaml: line %d: cannot decode %s into an object", v.Line, v.ShortTag())
	}
	members := make(map[string]presence.Node, len(v.Content)/2)
	var merges []*yaml.Node
	for i := 0; i+1 < len(v.Content); i += 2 {
		if isMerge(v.Content[i]) {
			merges = append(merges, v.Content[i+1])
			continue
		}
		members[v.Content[i].Value] = node{v.Content[i+1]}
	}
	for _, m := range merges {
		if err := mergeInto(members, m); err != nil {
			return nil, err
		}
	}
	return members, nil
}

func isMerge(k *yaml.Node) bool {
	return k.Kind == yaml.ScalarNode && k.Value == "<<" && k.ShortTag() == "!!merge"
}

// mergeInto adds the members of a merged mapping, or of each mapping in a
// merged sequence, that are not already set. Earlier mappings in a sequence
// win over later ones.
func mergeInto(members map[string]presence.Node, m *yaml.Node) error {
	v := resolve(m)
	switch v.Kind {
	case yaml.MappingNode:
		merged, err := node{v}.Object()
		if err != nil {
			return err
		}
		for k, val := range merged {
			if _, ok := members[k]; !ok {
				members[k] = val
			}
		}
		return nil
	case yaml.SequenceNode:
		for _, c := range v.Content {
			if resolve(c).Kind != yaml.MappingNode {
				return fmt.Errorf("yaml: line %d: map merge requires map or sequence of maps as the value", c.Line)
			}
			if err := mergeInto(members, c); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("yaml: line %d: map merge requires map or sequence of maps as the value", v.Line)
	}
}

func (n node) Array() ([]presence.Node, error) {
	v := n.resolved()
	if v.Kind != yaml.SequenceNode {
		return nil, fmt.Errorf("yaml: line %d: cannot decode %s into an array", v.Line, v.ShortTag())
	}
	elems := make([]presence.Node, len(v.Content))
	for i, c := range v.Content {
		elems[i] = node{c}
	}
	return elems, nil
}

func (n node) Decode(v any) error {
	return n.resolved().Decode(v)
}

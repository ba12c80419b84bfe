// Package scene loads node descriptions from YAML.
//
// A node is a mapping with optional kind (root, box, text; default box), key,
// props, style, text, bind and children. A bare scalar is a text leaf. bind
// names a stream supplied by the caller, which becomes a live child.
//
//	kind: root
//	children:
//	  - props: {border: rounded, padding: 1}
//	    style: {color: cyan}
//	    children:
//	      - "Clock:"
//	      - bind: clock
package scene

import (
	"fmt"
	"maps"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	errs "github.com/lixenwraith/termflow/errors"
	"github.com/lixenwraith/termflow/stream"
	"github.com/lixenwraith/termflow/vnode"
)

// Bindings supplies the streams named by bind fields
type Bindings map[string]stream.Dynamic

// Node is the YAML form of a description
type Node struct {
	Kind     string         `yaml:"kind"`
	Key      string         `yaml:"key"`
	Props    map[string]any `yaml:"props"`
	Style    map[string]any `yaml:"style"`
	Text     string         `yaml:"text"`
	Bind     string         `yaml:"bind"`
	Children []Node         `yaml:"children"`

	leaf bool
}

// UnmarshalYAML accepts a scalar as a text leaf
func (n *Node) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		*n = Node{Text: value.Value, leaf: true}
		return nil
	}
	type alias Node
	return value.Decode((*alias)(n))
}

var kinds = map[string]vnode.Kind{
	"root": vnode.KindRoot,
	"box":  vnode.KindBox,
	"text": vnode.KindText,
}

// Parse decodes a scene and builds its description
func Parse(data []byte, b Bindings) (vnode.Node, error) {
	var n Node
	if err := yaml.Unmarshal(data, &n); err != nil {
		return nil, errs.WrapInvalid(fmt.Errorf("%w: %w", errs.ErrInvalidConfig, err), "scene", "Parse", "decode yaml")
	}
	return n.Build(b)
}

// Load reads and parses the scene file at path
func Load(path string, b Bindings) (vnode.Node, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errs.WrapInvalid(fmt.Errorf("%w: %w", errs.ErrInvalidConfig, err), "scene", "Load", "read "+path)
	}
	return Parse(data, b)
}

// Build converts n into a description
func (n Node) Build(b Bindings) (vnode.Node, error) {
	if n.leaf {
		return vnode.Plain(n.Text), nil
	}

	kind := vnode.KindBox
	if n.Kind != "" {
		k, ok := kinds[n.Kind]
		if !ok {
			return nil, errs.WrapInvalid(errs.Invalidf(errs.ErrInvalidConfig, "kind "+n.Kind, prefixAll("kind ", slices.Sorted(maps.Keys(kinds)))),
				"scene", "Build", "resolve kind")
		}
		kind = k
	}

	props := vnode.Props{}
	maps.Copy(props, n.Props)
	if len(n.Style) > 0 {
		props["style"] = n.Style
	}
	if n.Key != "" {
		props["key"] = n.Key
	}

	var children []any
	if n.Text != "" {
		children = append(children, n.Text)
	}
	if n.Bind != "" {
		src, ok := b[n.Bind]
		if !ok {
			return nil, errs.WrapInvalid(errs.Invalidf(errs.ErrInvalidConfig, "binding "+n.Bind, prefixAll("binding ", slices.Sorted(maps.Keys(b)))),
				"scene", "Build", "resolve binding")
		}
		children = append(children, src)
	}
	for i, c := range n.Children {
		child, err := c.Build(b)
		if err != nil {
			return nil, errs.Wrap(err, "scene", "Build", fmt.Sprintf("build child %d", i))
		}
		children = append(children, child)
	}

	switch kind {
	case vnode.KindRoot:
		return vnode.Root(props, children...), nil
	case vnode.KindText:
		return vnode.Text(props, children...), nil
	default:
		return vnode.Box(props, children...), nil
	}
}

func prefixAll(prefix string, values []string) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = prefix + v
	}
	return out
}

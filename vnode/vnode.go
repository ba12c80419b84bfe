// Package vnode describes UI trees declaratively. Descriptions are plain values;
// any property or child may instead be a live stream producing values over time.
package vnode

import (
	"fmt"

	"github.com/lixenwraith/termflow/stream"
)

// Kind is the element type
type Kind uint8

const (
	KindRoot Kind = iota
	KindBox
	KindText
)

func (k Kind) String() string {
	switch k {
	case KindRoot:
		return "root"
	case KindBox:
		return "box"
	case KindText:
		return "text"
	default:
		return "unknown"
	}
}

// Node is a description: Plain text or *Element
type Node interface {
	node()
}

// Plain is a text leaf
type Plain string

func (Plain) node() {}

// Props maps property names to plain values or stream.Dynamic sources.
// "style" may hold a map[string]any of further per-key values or sources.
// "key" (or "id") names the node for lookup.
type Props map[string]any

// Child is one ordinal child position: a fixed description or a live slot
type Child struct {
	Static Node
	Live   stream.Source[Node]
}

// IsLive reports whether the position is driven by a stream
func (c Child) IsLive() bool { return c.Live != nil }

// Element is a box, text or root description
type Element struct {
	Kind     Kind
	Key      string
	Props    Props
	Children []Child
	// ChildList, when set, replaces all children on every emission
	ChildList stream.Source[[]Node]
}

func (*Element) node() {}

// Root describes the top of a tree
func Root(props Props, children ...any) *Element {
	return newElement(KindRoot, props, children)
}

// Box describes a flex container
func Box(props Props, children ...any) *Element {
	return newElement(KindBox, props, children)
}

// Text describes a run of text laid out as a row.
// Children are usually strings or streams of strings.
func Text(props Props, children ...any) *Element {
	return newElement(KindText, props, children)
}

func newElement(kind Kind, props Props, children []any) *Element {
	e := &Element{Kind: kind, Props: props}
	if props != nil {
		e.Key = keyOf(props)
	}
	for _, c := range children {
		e.add(c)
	}
	return e
}

func keyOf(props Props) string {
	for _, name := range [...]string{"key", "id"} {
		switch k := props[name].(type) {
		case string:
			return k
		case fmt.Stringer:
			return k.String()
		case int:
			return fmt.Sprint(k)
		}
	}
	return ""
}

// add normalizes one constructor argument into child positions
func (e *Element) add(c any) {
	switch v := c.(type) {
	case nil:
	case Child:
		e.Children = append(e.Children, v)
	case []Node:
		for _, n := range v {
			e.add(n)
		}
	case []any:
		for _, n := range v {
			e.add(n)
		}
	case stream.Source[[]Node]:
		e.ChildList = v
	case stream.Source[Node]:
		e.Children = append(e.Children, Child{Live: v})
	case stream.Source[string]:
		e.Children = append(e.Children, Child{Live: stream.Map(func(s string) Node { return From(s) })(v)})
	case stream.Source[*Element]:
		e.Children = append(e.Children, Child{Live: stream.Map(func(el *Element) Node {
			if el == nil {
				return nil
			}
			return el
		})(v)})
	case stream.Dynamic:
		e.Children = append(e.Children, Child{Live: stream.Map(From)(v.Any())})
	default:
		if n := From(c); n != nil {
			e.Children = append(e.Children, Child{Static: n})
		}
	}
}

// From converts a value emitted by a live child into a description.
// Strings and other scalars become Plain; nil and empty values yield nil.
func From(v any) Node {
	switch n := v.(type) {
	case nil:
		return nil
	case *Element:
		if n == nil {
			return nil
		}
		return n
	case Plain:
		if n == "" {
			return nil
		}
		return n
	case Node:
		return n
	case string:
		if n == "" {
			return nil
		}
		return Plain(n)
	case fmt.Stringer:
		return Plain(n.String())
	case bool:
		return nil
	default:
		return Plain(fmt.Sprint(n))
	}
}

// Live wraps a typed source as a child slot
func Live[T any](src stream.Source[T]) Child {
	return Child{Live: stream.Map(func(v T) Node { return From(v) })(src)}
}

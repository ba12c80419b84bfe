package vnode

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/termflow/stream"
)

func TestConstructorsNormalizeChildren(t *testing.T) {
	inner := Box(nil)
	e := Box(Props{"key": "main"},
		"hello",
		nil,
		inner,
		[]Node{Plain("a"), Plain("b")},
		stream.Of("x"),
		stream.Of(1).Any(),
		42,
	)

	assert.Equal(t, KindBox, e.Kind)
	assert.Equal(t, "main", e.Key)
	require.Len(t, e.Children, 7)

	assert.Equal(t, Plain("hello"), e.Children[0].Static)
	assert.Same(t, inner, e.Children[1].Static)
	assert.Equal(t, Plain("a"), e.Children[2].Static)
	assert.Equal(t, Plain("b"), e.Children[3].Static)
	assert.True(t, e.Children[4].IsLive())
	assert.True(t, e.Children[5].IsLive())
	assert.Equal(t, Plain("42"), e.Children[6].Static)

	var got []Node
	stream.ForEach(e.Children[4].Live, func(n Node) { got = append(got, n) })
	stream.ForEach(e.Children[5].Live, func(n Node) { got = append(got, n) })
	assert.Equal(t, []Node{Plain("x"), Plain("1")}, got)
}

func TestChildListAndKinds(t *testing.T) {
	list := stream.Of([]Node{Plain("a")})
	e := Root(Props{"id": "app"}, list)
	assert.Equal(t, KindRoot, e.Kind)
	assert.Equal(t, "app", e.Key)
	assert.NotNil(t, e.ChildList)
	assert.Empty(t, e.Children)

	assert.Equal(t, "text", Text(nil).Kind.String())
}

func TestFrom(t *testing.T) {
	var nilElement *Element
	assert.Nil(t, From(nil))
	assert.Nil(t, From(nilElement))
	assert.Nil(t, From(false))
	assert.Nil(t, From(""))
	assert.Nil(t, From(Plain("")))
	assert.Equal(t, Plain("s"), From("s"))
	assert.Equal(t, Plain("3.5"), From(3.5))

	el := Box(nil)
	assert.Same(t, el, From(el))
}

func TestLive(t *testing.T) {
	c := Live(stream.Of(Box(nil), nil))
	var got []Node
	stream.ForEach(c.Live, func(n Node) { got = append(got, n) })
	require.Len(t, got, 2)
	assert.IsType(t, &Element{}, got[0])
	assert.Nil(t, got[1])
}

package scene

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errs "github.com/lixenwraith/termflow/errors"
	"github.com/lixenwraith/termflow/layout"
	"github.com/lixenwraith/termflow/render"
	"github.com/lixenwraith/termflow/stream"
	"github.com/lixenwraith/termflow/terminal"
	"github.com/lixenwraith/termflow/tree"
	"github.com/lixenwraith/termflow/vnode"
)

const panel = `
kind: root
children:
  - key: panel
    props: {width: 12, height: 3, border: single, flexDirection: row}
    style: {color: green, bold: true}
    children:
      - "Hi"
      - kind: text
        bind: name
`

func TestParseStructure(t *testing.T) {
	name := stream.NewBroadcast[string]()
	desc, err := Parse([]byte(panel), Bindings{"name": name.Source()})
	require.NoError(t, err)

	root, ok := desc.(*vnode.Element)
	require.True(t, ok)
	assert.Equal(t, vnode.KindRoot, root.Kind)
	require.Len(t, root.Children, 1)

	box := root.Children[0].Static.(*vnode.Element)
	assert.Equal(t, vnode.KindBox, box.Kind)
	assert.Equal(t, "panel", box.Key)
	assert.Equal(t, map[string]any{"color": "green", "bold": true}, box.Props["style"])
	require.Len(t, box.Children, 2)
	assert.Equal(t, vnode.Plain("Hi"), box.Children[0].Static)

	text := box.Children[1].Static.(*vnode.Element)
	assert.Equal(t, vnode.KindText, text.Kind)
	require.Len(t, text.Children, 1)
	assert.True(t, text.Children[0].IsLive())
}

func TestSceneRenders(t *testing.T) {
	name := stream.NewBroadcast[string]()
	desc, err := Parse([]byte(panel), Bindings{"name": stream.Pipe(name.Source(), stream.StartWith("Bob"))})
	require.NoError(t, err)

	backend := terminal.NewMemoryBackend(12, 3)
	term := terminal.NewWithBackend(backend)
	require.NoError(t, term.Init())
	defer term.Fini()

	ctx := tree.NewContext(layout.NewFlexEngine())
	_, err = ctx.Mount(desc)
	require.NoError(t, err)
	r := render.New(ctx, term, nil)
	require.NoError(t, r.Render())

	assert.Equal(t, []string{
		"┌──────────┐",
		"│HiBob     │",
		"└──────────┘",
	}, r.Buffer().Lines())
	assert.True(t, r.Buffer().Cell(1, 1).Style.Attrs != 0)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"bad yaml", "kind: [", "decode yaml"},
		{"unknown kind", "kind: bx", `did you mean "kind box"`},
		{"unknown binding", "bind: clok", `did you mean "binding clock"`},
		{"nested error", "children:\n  - kind: txt", "build child 0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml), Bindings{"clock": stream.Never[string]()})
			require.Error(t, err)
			assert.True(t, errs.IsInvalid(err))
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.yaml")
	require.NoError(t, os.WriteFile(path, []byte("text: hello\nprops: {bold: true}\n"), 0o644))

	desc, err := Load(path, nil)
	require.NoError(t, err)
	box := desc.(*vnode.Element)
	assert.Equal(t, vnode.Plain("hello"), box.Children[0].Static)
	assert.Equal(t, true, box.Props["bold"])

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"), nil)
	assert.ErrorIs(t, err, errs.ErrInvalidConfig)
}

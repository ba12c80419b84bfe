package service

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errs "github.com/lixenwraith/termflow/errors"
)

// recorder is a service logging lifecycle calls into a shared journal
type recorder struct {
	name     string
	deps     []string
	journal  *[]string
	failInit error
	failStop error
}

func (r *recorder) Name() string           { return r.name }
func (r *recorder) Dependencies() []string { return r.deps }
func (r *recorder) Init(args ...any) error {
	*r.journal = append(*r.journal, "init "+r.name)
	return r.failInit
}
func (r *recorder) Start() error {
	*r.journal = append(*r.journal, "start "+r.name)
	return nil
}
func (r *recorder) Stop() error {
	*r.journal = append(*r.journal, "stop "+r.name)
	return r.failStop
}

func TestHubOrdersByDependency(t *testing.T) {
	var journal []string
	h := NewHub(nil)
	require.NoError(t, h.Register(&recorder{name: "render", deps: []string{"terminal"}, journal: &journal}))
	require.NoError(t, h.Register(&recorder{name: "terminal", journal: &journal}))
	require.NoError(t, h.Register(&recorder{name: "state", journal: &journal}))

	require.NoError(t, h.InitAll())
	require.NoError(t, h.StartAll())
	require.NoError(t, h.StopAll())

	assert.Equal(t, []string{
		"init state", "init terminal", "init render",
		"start state", "start terminal", "start render",
		"stop render", "stop terminal", "stop state",
	}, journal)
	assert.Equal(t, []string{"render", "state", "terminal"}, h.Names())
}

func TestHubRejectsDuplicates(t *testing.T) {
	var journal []string
	h := NewHub(nil)
	require.NoError(t, h.Register(&recorder{name: "a", journal: &journal}))
	err := h.Register(&recorder{name: "a", journal: &journal})
	assert.ErrorIs(t, err, errs.ErrAlreadyExists)
}

func TestHubInitRollback(t *testing.T) {
	var journal []string
	boom := errors.New("boom")
	h := NewHub(nil)
	require.NoError(t, h.Register(&recorder{name: "a", journal: &journal}))
	require.NoError(t, h.Register(&recorder{name: "b", deps: []string{"a"}, journal: &journal, failInit: boom}))

	err := h.InitAll()
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, []string{"init a", "init b", "stop a"}, journal)
}

func TestHubDependencyErrors(t *testing.T) {
	var journal []string
	h := NewHub(nil)
	require.NoError(t, h.Register(&recorder{name: "a", deps: []string{"missing"}, journal: &journal}))
	err := h.InitAll()
	assert.ErrorIs(t, err, errs.ErrInvalidConfig)

	h = NewHub(nil)
	require.NoError(t, h.Register(&recorder{name: "a", deps: []string{"b"}, journal: &journal}))
	require.NoError(t, h.Register(&recorder{name: "b", deps: []string{"a"}, journal: &journal}))
	err = h.InitAll()
	assert.ErrorIs(t, err, errs.ErrInvalidConfig)
	assert.True(t, errs.IsInvalid(err))
}

func TestHubStopCollectsErrors(t *testing.T) {
	var journal []string
	boom := errors.New("boom")
	h := NewHub(nil)
	require.NoError(t, h.Register(&recorder{name: "a", journal: &journal, failStop: boom}))
	require.NoError(t, h.Register(&recorder{name: "b", journal: &journal}))
	require.NoError(t, h.InitAll())

	err := h.StopAll()
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, []string{"init a", "init b", "stop b", "stop a"}, journal)
}

func TestFuncService(t *testing.T) {
	stopped := 0
	f := &Func{ID: "timer", OnStop: func() error { stopped++; return nil }}
	h := NewHub(nil)
	require.NoError(t, h.Register(f))
	require.NoError(t, h.InitAll())
	require.NoError(t, h.StartAll())
	require.NoError(t, h.StopAll())
	assert.Equal(t, 1, stopped)
	assert.Same(t, f, MustGet[*Func](h, "timer"))
}

package main

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/termflow/config"
	"github.com/lixenwraith/termflow/driver"
	"github.com/lixenwraith/termflow/driver/tty"
	errs "github.com/lixenwraith/termflow/errors"
	"github.com/lixenwraith/termflow/terminal"
)

type app struct {
	t       *testing.T
	rt      *driver.Runtime
	backend *terminal.MemoryBackend
	term    *tty.Source
	quits   int
}

func startApp(t *testing.T, cfg config.Config, sceneData []byte) *app {
	t.Helper()
	a := &app{t: t, backend: terminal.NewMemoryBackend(40, 12)}
	a.rt = driver.NewRuntime()
	inner := newApp(sceneData)
	err := a.rt.Start(func(src driver.Sources) driver.Sinks {
		a.term = driver.MustQuery[*tty.Source](src, "tty")
		return inner(src)
	}, newDrivers(cfg, a.backend, func() { a.quits++ }))
	require.NoError(t, err)
	t.Cleanup(func() { a.rt.Shutdown() })
	a.rt.Loop.Drain()
	return a
}

func (a *app) waitFor(want string) {
	a.t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for {
		a.rt.Loop.Drain()
		if strings.Contains(a.term.Screen().Snapshot(), want) {
			return
		}
		if time.Now().After(deadline) {
			a.t.Fatalf("%q not on screen:\n%s", want, a.term.Screen().Snapshot())
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestCounterCountsReturn(t *testing.T) {
	a := startApp(t, config.Config{}, nil)
	a.waitFor("Pressed 0 times")
	a.waitFor("0 in total")
	a.waitFor("return: count")

	a.backend.Type([]byte("\r"))
	a.waitFor("Pressed 1 time")
	a.waitFor("1 in total")

	a.backend.Type([]byte("x\r"))
	a.waitFor("Pressed 2 times")
	a.waitFor("2 in total")
	assert.Zero(t, a.quits)
}

func TestQuitKeys(t *testing.T) {
	a := startApp(t, config.Config{}, nil)
	a.waitFor("Pressed 0 times")

	a.backend.Type([]byte("q"))
	deadline := time.Now().Add(2 * time.Second)
	for a.quits == 0 && time.Now().Before(deadline) {
		a.rt.Loop.Drain()
		time.Sleep(5 * time.Millisecond)
	}
	assert.Equal(t, 1, a.quits)
}

func TestTotalPersists(t *testing.T) {
	cfg := config.Config{State: config.StateConfig{Path: filepath.Join(t.TempDir(), "state.db")}}

	first := startApp(t, cfg, nil)
	first.waitFor("0 in total")
	first.backend.Type([]byte("\r\r\r"))
	first.waitFor("3 in total")
	require.NoError(t, first.rt.Shutdown())

	second := startApp(t, cfg, nil)
	second.waitFor("Pressed 0 times")
	second.waitFor("3 in total")
}

func TestSceneReplacesView(t *testing.T) {
	scene := []byte(`
kind: root
children:
  - props: {border: single, height: 3}
    children:
      - kind: text
        bind: count
`)
	a := startApp(t, config.Config{}, scene)
	a.waitFor("│Pressed 0 times")
	assert.NotContains(t, a.term.Screen().Snapshot(), "return: count")
}

func TestBadSceneIsFatal(t *testing.T) {
	backend := terminal.NewMemoryBackend(20, 5)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	err := driver.Run(ctx, newApp([]byte("kind: box\nbind: missing\n")), newDrivers(config.Config{}, backend, cancel))
	require.Error(t, err)
	assert.Equal(t, errs.ErrorFatal, errs.Classify(err))
	assert.ErrorIs(t, err, errs.ErrInvalidConfig)
}

func TestPressedLabel(t *testing.T) {
	assert.Equal(t, "Pressed 0 times", pressed(0))
	assert.Equal(t, "Pressed 1 time", pressed(1))
	assert.Equal(t, "Pressed 12 times", pressed(12))
}

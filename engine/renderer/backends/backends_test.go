package backends

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/colorpass/engine/core"
	"github.com/spaghettifunk/colorpass/engine/renderer"
	"github.com/spaghettifunk/colorpass/engine/renderer/headless"
)

func TestNewHeadless(t *testing.T) {
	backend, err := New(Config{Type: renderer.Headless, FramesInFlight: 2, Width: 320, Height: 240})
	require.NoError(t, err)
	require.IsType(t, &headless.Device{}, backend)

	assert.Equal(t, uint32(2), backend.FramesInFlight())
	w, h := backend.OutputSize()
	assert.Equal(t, uint32(320), w)
	assert.Equal(t, uint32(240), h)

	r := renderer.New(backend)
	require.NoError(t, r.Initialize())
	packet, err := r.DrawFrame(0)
	require.NoError(t, err)
	assert.Equal(t, uint32(0), packet.Slot)
	require.NoError(t, r.Shutdown())
}

func TestNewHeadlessDefaults(t *testing.T) {
	backend, err := New(Config{})
	require.NoError(t, err)
	assert.Equal(t, uint32(headless.DefaultFramesInFlight), backend.FramesInFlight())
}

func TestNewUnknown(t *testing.T) {
	_, err := New(Config{Type: renderer.RendererType(42)})
	assert.ErrorIs(t, err, core.ErrUnknownBackend)
}

package renderer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/colorpass/engine/core"
	"github.com/spaghettifunk/colorpass/engine/renderer/headless"
)

func TestRendererDrawFrameFollowsCurrentFrame(t *testing.T) {
	device := headless.New(headless.Config{FramesInFlight: 3})
	r := New(device)
	require.NoError(t, r.Initialize())

	for i := 0; i < 7; i++ {
		packet, err := r.DrawFrame(float64(i) * 16)
		require.NoError(t, err)
		assert.Equal(t, uint32(i%3), packet.Slot)

		fr, err := r.Pool().Resource(packet.Slot)
		require.NoError(t, err)
		assert.Same(t, fr.Image(), packet.Image)
	}
	assert.Equal(t, uint64(7), device.FrameCount())
	require.NoError(t, r.Shutdown())
	assert.Zero(t, device.LiveObjects())
}

func TestRendererShutdownWithoutInitialize(t *testing.T) {
	device := headless.New(headless.Config{})
	r := New(device)
	require.NoError(t, r.Shutdown())
}

func TestRendererResize(t *testing.T) {
	device := headless.New(headless.Config{FramesInFlight: 2, Width: 100, Height: 100})
	r := New(device)
	require.NoError(t, r.Initialize())

	require.NoError(t, r.OnResize(200, 50))

	packet, err := r.DrawFrame(0)
	require.NoError(t, err)
	assert.Equal(t, uint32(200), packet.Image.Width)
	assert.Equal(t, uint32(50), packet.Image.Height)
	require.NoError(t, r.Shutdown())
}

func TestRendererInitializeFailure(t *testing.T) {
	device := headless.New(headless.Config{})
	device.FailAfter(headless.OpImageCreate, 0)
	r := New(device)

	assert.ErrorIs(t, r.Initialize(), core.ErrOutOfDeviceMemory)
	_, err := r.DrawFrame(0)
	assert.ErrorIs(t, err, core.ErrPoolNotReady)
	require.NoError(t, r.Shutdown())
}

func TestParseRendererType(t *testing.T) {
	for name, want := range map[string]RendererType{
		"":         Headless,
		"headless": Headless,
		"Vulkan":   Vulkan,
		" vulkan ": Vulkan,
	} {
		got, err := ParseRendererType(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, got, name)
	}

	_, err := ParseRendererType("metal")
	assert.ErrorIs(t, err, core.ErrUnknownBackend)
}

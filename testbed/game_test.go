package testbed

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/colorpass/engine"
	"github.com/spaghettifunk/colorpass/engine/core"
	"github.com/spaghettifunk/colorpass/engine/renderer"
	"github.com/spaghettifunk/colorpass/engine/renderer/headless"
)

func TestTestGameTracksSlots(t *testing.T) {
	config := engine.DefaultApplicationConfig()
	config.MaxFrames = 7
	tg := NewTestGame(config)

	e, err := engine.New(tg.Game, headless.New(headless.Config{FramesInFlight: 3}), nil, nil)
	require.NoError(t, err)
	require.NoError(t, e.Initialize())
	require.NoError(t, e.Run())

	state := tg.state()
	assert.Equal(t, uint64(7), state.frames)
	assert.Len(t, state.slotImages, 3)
	assert.Zero(t, state.rebuilds)
	assert.Equal(t, uint32(headless.DefaultWidth), state.width)
}

func TestTestGameCountsRebuilds(t *testing.T) {
	config := engine.DefaultApplicationConfig()
	config.MaxFrames = 4
	config.RebuildOnResize = true
	tg := NewTestGame(config)

	var e *engine.Engine
	render := tg.FnRender
	tg.FnRender = func(packet *renderer.FramePacket, deltaTime float64) error {
		if err := render(packet, deltaTime); err != nil {
			return err
		}
		if tg.state().frames == 1 {
			ctx := core.EventContext{}
			ctx.Data.U32[0], ctx.Data.U32[1] = 320, 200
			e.Events().Fire(core.EVENT_CODE_RESIZED, nil, ctx)
		}
		return nil
	}

	var err error
	e, err = engine.New(tg.Game, headless.New(headless.Config{FramesInFlight: 2}), nil, nil)
	require.NoError(t, err)
	require.NoError(t, e.Initialize())
	require.NoError(t, e.Run())

	state := tg.state()
	// Slot 0 got a new image on frame 3; slot 1 was first seen after the rebuild.
	assert.Equal(t, 1, state.rebuilds)
	assert.Equal(t, uint32(320), state.width)
}

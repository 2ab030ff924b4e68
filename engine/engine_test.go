package engine

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/colorpass/engine/core"
	"github.com/spaghettifunk/colorpass/engine/renderer"
	"github.com/spaghettifunk/colorpass/engine/renderer/headless"
)

type recordingGame struct {
	slots   []uint32
	widths  []uint32
	resizes [][2]uint32
	closed  bool
	onFrame func(e *Engine, frame int)
	engine  *Engine
}

func (rg *recordingGame) game(config *ApplicationConfig) *Game {
	return &Game{
		ApplicationConfig: config,
		FnRender: func(packet *renderer.FramePacket, deltaTime float64) error {
			rg.slots = append(rg.slots, packet.Slot)
			rg.widths = append(rg.widths, packet.Image.Width)
			if rg.onFrame != nil {
				rg.onFrame(rg.engine, len(rg.slots))
			}
			return nil
		},
		FnOnResize: func(width, height uint32) error {
			rg.resizes = append(rg.resizes, [2]uint32{width, height})
			return nil
		},
		FnShutdown: func() error {
			rg.closed = true
			return nil
		},
	}
}

type fakePlatform struct {
	pumps    int
	closeAt  int
	shutdown bool
}

func (fp *fakePlatform) PumpMessages() bool {
	fp.pumps++
	return fp.closeAt == 0 || fp.pumps < fp.closeAt
}

func (fp *fakePlatform) Shutdown() error {
	fp.shutdown = true
	return nil
}

func newTestEngine(t *testing.T, config *ApplicationConfig, rg *recordingGame, p Platform) (*Engine, *headless.Device) {
	t.Helper()
	device := headless.New(headless.Config{FramesInFlight: config.FramesInFlight, Width: 64, Height: 32})
	e, err := New(rg.game(config), device, p, nil)
	require.NoError(t, err)
	rg.engine = e
	return e, device
}

func TestEngineRunsMaxFrames(t *testing.T) {
	config := DefaultApplicationConfig()
	config.MaxFrames = 5
	rg := &recordingGame{}
	e, device := newTestEngine(t, config, rg, nil)

	require.NoError(t, e.Initialize())
	assert.Equal(t, EngineStageInitialized, e.Stage())
	assert.Equal(t, [][2]uint32{{64, 32}}, rg.resizes)

	require.NoError(t, e.Run())
	assert.Equal(t, []uint32{0, 1, 2, 0, 1}, rg.slots)
	assert.Equal(t, uint64(5), e.FrameCount())
	assert.Equal(t, EngineStageStopped, e.Stage())
	assert.True(t, rg.closed)
	assert.Zero(t, device.LiveObjects())
}

func TestEngineRunBeforeInitialize(t *testing.T) {
	rg := &recordingGame{}
	e, _ := newTestEngine(t, DefaultApplicationConfig(), rg, nil)
	assert.ErrorIs(t, e.Run(), core.ErrEngineNotInitialized)
}

func TestEngineInitializeTwice(t *testing.T) {
	config := DefaultApplicationConfig()
	config.MaxFrames = 1
	rg := &recordingGame{}
	e, _ := newTestEngine(t, config, rg, nil)
	require.NoError(t, e.Initialize())
	assert.ErrorIs(t, e.Initialize(), core.ErrEngineAlreadyRunning)
	require.NoError(t, e.Run())
}

func TestEngineInitializeFailure(t *testing.T) {
	rg := &recordingGame{}
	e, device := newTestEngine(t, DefaultApplicationConfig(), rg, nil)
	device.FailAfter(headless.OpFramebufferCreate, 1)

	assert.ErrorIs(t, e.Initialize(), core.ErrOutOfDeviceMemory)
	assert.Equal(t, EngineStageUninitialized, e.Stage())
	assert.Zero(t, device.LiveObjects())
	assert.ErrorIs(t, e.Run(), core.ErrEngineNotInitialized)
}

func TestEngineStopsOnQuitEvent(t *testing.T) {
	rg := &recordingGame{}
	rg.onFrame = func(e *Engine, frame int) {
		if frame == 2 {
			e.Events().Fire(core.EVENT_CODE_APPLICATION_QUIT, nil, core.EventContext{})
		}
	}
	e, device := newTestEngine(t, DefaultApplicationConfig(), rg, nil)
	require.NoError(t, e.Initialize())
	require.NoError(t, e.Run())
	assert.Len(t, rg.slots, 2)
	assert.Zero(t, device.LiveObjects())
}

func TestEngineShutdownStopsLoop(t *testing.T) {
	rg := &recordingGame{}
	rg.onFrame = func(e *Engine, frame int) {
		if frame == 4 {
			e.Shutdown()
		}
	}
	e, _ := newTestEngine(t, DefaultApplicationConfig(), rg, nil)
	require.NoError(t, e.Initialize())
	require.NoError(t, e.Run())
	assert.Len(t, rg.slots, 4)
}

func TestEngineStopsWhenPlatformCloses(t *testing.T) {
	p := &fakePlatform{closeAt: 4}
	rg := &recordingGame{}
	e, _ := newTestEngine(t, DefaultApplicationConfig(), rg, p)
	require.NoError(t, e.Initialize())
	require.NoError(t, e.Run())
	assert.Len(t, rg.slots, 3)
	assert.True(t, p.shutdown)
}

func TestEngineGameRenderError(t *testing.T) {
	boom := errors.New("boom")
	device := headless.New(headless.Config{})
	e, err := New(&Game{
		FnRender: func(packet *renderer.FramePacket, deltaTime float64) error {
			return boom
		},
	}, device, nil, nil)
	require.NoError(t, err)
	require.NoError(t, e.Initialize())
	assert.ErrorIs(t, e.Run(), boom)
	assert.Equal(t, uint64(1), e.FrameCount())
	assert.Zero(t, device.LiveObjects())
}

func resize(e *Engine, width, height uint32) {
	ctx := core.EventContext{}
	ctx.Data.U32[0] = width
	ctx.Data.U32[1] = height
	e.Events().Fire(core.EVENT_CODE_RESIZED, nil, ctx)
}

func TestEngineResizeKeepsResourcesByDefault(t *testing.T) {
	config := DefaultApplicationConfig()
	config.MaxFrames = 3
	rg := &recordingGame{}
	rg.onFrame = func(e *Engine, frame int) {
		if frame == 1 {
			resize(e, 100, 50)
		}
	}
	e, _ := newTestEngine(t, config, rg, nil)
	require.NoError(t, e.Initialize())
	require.NoError(t, e.Run())

	assert.Equal(t, []uint32{64, 64, 64}, rg.widths)
	assert.Equal(t, [][2]uint32{{64, 32}, {100, 50}}, rg.resizes)
}

func TestEngineRebuildOnResize(t *testing.T) {
	config := DefaultApplicationConfig()
	config.MaxFrames = 3
	config.RebuildOnResize = true
	rg := &recordingGame{}
	rg.onFrame = func(e *Engine, frame int) {
		if frame == 1 {
			resize(e, 100, 50)
		}
	}
	e, device := newTestEngine(t, config, rg, nil)
	require.NoError(t, e.Initialize())
	require.NoError(t, e.Run())

	assert.Equal(t, []uint32{64, 100, 100}, rg.widths)
	assert.Zero(t, device.LiveObjects())
}

func TestEngineMinimizeSuspends(t *testing.T) {
	config := DefaultApplicationConfig()
	config.MaxFrames = 1
	rg := &recordingGame{}
	e, _ := newTestEngine(t, config, rg, nil)
	require.NoError(t, e.Initialize())

	resize(e, 0, 0)
	assert.True(t, e.Suspended())
	resize(e, 80, 40)
	assert.False(t, e.Suspended())
	w, h := e.GetFramebufferSize()
	assert.Equal(t, uint32(80), w)
	assert.Equal(t, uint32(40), h)

	require.NoError(t, e.Run())
}

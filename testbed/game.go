package testbed

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/spaghettifunk/colorpass/engine"
	"github.com/spaghettifunk/colorpass/engine/core"
	"github.com/spaghettifunk/colorpass/engine/renderer"
)

// How often, in milliseconds, the testbed reports the frame it received.
const reportIntervalMS = 1000.0

// TestGame consumes the color images produced by the render loop the way a
// compositor would: it only reads them and never keeps one past its frame.
type TestGame struct {
	*engine.Game
}

type gameState struct {
	width  uint32
	height uint32

	frames     uint64
	lastReport float64
	// Image handed out for each frame slot. A slot keeps its image until the
	// frame resources are rebuilt.
	slotImages map[uint32]uuid.UUID
	rebuilds   int
}

func NewTestGame(config *engine.ApplicationConfig) *TestGame {
	tg := &TestGame{
		Game: &engine.Game{
			ApplicationConfig: config,
			State: &gameState{
				slotImages: make(map[uint32]uuid.UUID),
			},
		},
	}

	tg.FnInitialize = tg.Initialize
	tg.FnRender = tg.Render
	tg.FnOnResize = tg.OnResize
	tg.FnShutdown = tg.Shutdown

	return tg
}

func (g *TestGame) state() *gameState {
	return g.State.(*gameState)
}

func (g *TestGame) Initialize() error {
	core.LogDebug("TestGame Initialize fn....")
	return nil
}

func (g *TestGame) Render(packet *renderer.FramePacket, deltaTime float64) error {
	state := g.state()
	if packet == nil || packet.Image == nil {
		return fmt.Errorf("frame %d produced no image", state.frames)
	}
	state.frames++

	if previous, ok := state.slotImages[packet.Slot]; ok && previous != packet.Image.ID {
		state.rebuilds++
		core.LogDebug("slot %d now renders into image %s", packet.Slot, packet.Image.ID)
	}
	state.slotImages[packet.Slot] = packet.Image.ID

	if packet.ElapsedMS-state.lastReport >= reportIntervalMS {
		state.lastReport = packet.ElapsedMS
		c := renderer.ClearColorAt(packet.ElapsedMS)
		core.LogInfo("frame %d slot %d %dx%d clear color (%.2f, %.2f, %.2f)",
			state.frames, packet.Slot, packet.Image.Width, packet.Image.Height, c.X, c.Y, c.Z)
	}
	return nil
}

func (g *TestGame) OnResize(width uint32, height uint32) error {
	state := g.state()
	state.width, state.height = width, height
	return nil
}

func (g *TestGame) Shutdown() error {
	state := g.state()
	core.LogInfo("testbed received %d frame(s) over %d slot(s), %d image change(s)", state.frames, len(state.slotImages), state.rebuilds)
	return nil
}

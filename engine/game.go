package engine

import "github.com/spaghettifunk/colorpass/engine/renderer"

// Game is the consumer of the render loop. Every callback is optional.
type Game struct {
	ApplicationConfig *ApplicationConfig
	State             interface{}
	FnInitialize      Initialize
	FnUpdate          Update
	FnRender          Render
	FnOnResize        OnResize
	FnShutdown        Shutdown
}

type Initialize func() error
type Update func(deltaTime float64) error

// Render receives the color image produced for the frame. The image belongs
// to the frame resource pool and is reused FramesInFlight frames later.
type Render func(packet *renderer.FramePacket, deltaTime float64) error
type OnResize func(width uint32, height uint32) error
type Shutdown func() error

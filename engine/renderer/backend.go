package renderer

import "github.com/spaghettifunk/colorpass/engine/renderer/metadata"

// Device is the set of GPU primitives the render pipeline relies on. The host
// engine owns the implementation; every call is synchronous.
type Device interface {
	ImageCreate(image *metadata.Image) error
	ImageDestroy(image *metadata.Image) error
	RenderPassCreate(config *metadata.RenderPassConfig) (interface{}, error)
	RenderPassDestroy(internal interface{}) error
	FramebufferCreate(pass interface{}, framebuffer *metadata.Framebuffer) error
	FramebufferDestroy(framebuffer *metadata.Framebuffer) error
	CmdBeginRenderPass(pass interface{}, framebuffer *metadata.Framebuffer, clearValues []metadata.ClearValue) error
	CmdEndRenderPass(pass interface{}) error
}

// Host answers the questions the pipeline asks about the frame loop.
type Host interface {
	// FramesInFlight returns how many frames the renderer pipelines concurrently.
	FramesInFlight() uint32
	// OutputSize returns the current output surface size.
	OutputSize() (width, height uint32)
	// CurrentFrame returns the slot of the frame being recorded.
	CurrentFrame() uint32
}

// FrameSynchronizer brackets the recording of one frame. Waiting until the GPU
// is done with a slot before it is reused happens here, outside of the pool.
type FrameSynchronizer interface {
	BeginFrame() error
	EndFrame() error
}

// Backend is what a host engine hands to the render loop.
type Backend interface {
	Device
	Host
	FrameSynchronizer
	Shutdown() error
}

// Resizable is implemented by backends whose output size follows the window.
type Resizable interface {
	SetOutputSize(width, height uint32)
}

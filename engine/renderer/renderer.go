package renderer

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spaghettifunk/colorpass/engine/core"
	"github.com/spaghettifunk/colorpass/engine/renderer/metadata"
)

type RendererType uint8

const (
	Headless RendererType = iota
	Vulkan
)

func (rt RendererType) String() string {
	switch rt {
	case Headless:
		return "headless"
	case Vulkan:
		return "vulkan"
	default:
		return "unknown"
	}
}

// ParseRendererType maps a backend name from the configuration to its type.
func ParseRendererType(name string) (RendererType, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "headless":
		return Headless, nil
	case "vulkan":
		return Vulkan, nil
	}
	return Headless, fmt.Errorf("%q: %w", name, core.ErrUnknownBackend)
}

// FramePacket is what one iteration of the render loop produced.
type FramePacket struct {
	Slot      uint32
	ElapsedMS float64
	Image     *metadata.Image
}

// Renderer drives the frame resource pool through the backend's frame
// synchronization.
type Renderer struct {
	backend Backend
	pool    *FrameResourcePool
}

func New(backend Backend) *Renderer {
	return &Renderer{
		backend: backend,
		pool:    NewFrameResourcePool(backend, backend),
	}
}

func (r *Renderer) Initialize() error {
	if err := r.pool.Startup(); err != nil {
		core.LogError("failed to start the frame resource pool: %s", err)
		return err
	}
	return nil
}

func (r *Renderer) Pool() *FrameResourcePool {
	return r.pool
}

func (r *Renderer) Backend() Backend {
	return r.backend
}

// DrawFrame renders the color pass into the slot of the frame being recorded.
func (r *Renderer) DrawFrame(elapsedMS float64) (*FramePacket, error) {
	if err := r.backend.BeginFrame(); err != nil {
		core.LogError("BeginFrame failed: %s", err)
		return nil, err
	}
	slot := r.backend.CurrentFrame()
	image, err := r.pool.Render(slot, elapsedMS)
	if err != nil {
		core.LogError("failed to render frame slot %d: %s", slot, err)
		if eerr := r.backend.EndFrame(); eerr != nil {
			core.LogError("EndFrame failed: %s", eerr)
		}
		return nil, err
	}
	if err := r.backend.EndFrame(); err != nil {
		core.LogError("EndFrame failed: %s", err)
		return nil, err
	}
	return &FramePacket{Slot: slot, ElapsedMS: elapsedMS, Image: image}, nil
}

// OnResize rebuilds the frame resources at the given output size. Backends
// that cannot change their output size keep reporting the old one.
func (r *Renderer) OnResize(width, height uint32) error {
	if rs, ok := r.backend.(Resizable); ok {
		rs.SetOutputSize(width, height)
	}
	return r.pool.Rebuild()
}

// Shutdown tears the pool down and then the backend. The backend is shut down
// even if the pool never started.
func (r *Renderer) Shutdown() error {
	var errs []error
	if r.pool.State() == POOL_STATE_READY {
		if err := r.pool.Shutdown(); err != nil {
			errs = append(errs, err)
		}
	}
	if err := r.backend.Shutdown(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

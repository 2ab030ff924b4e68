package renderer

import (
	"errors"
	"fmt"

	"github.com/spaghettifunk/colorpass/engine/core"
	"github.com/spaghettifunk/colorpass/engine/renderer/metadata"
)

type PoolState int

const (
	POOL_STATE_UNINITIALIZED PoolState = iota
	POOL_STATE_READY
	POOL_STATE_TORN_DOWN
)

func (s PoolState) String() string {
	switch s {
	case POOL_STATE_UNINITIALIZED:
		return "UNINITIALIZED"
	case POOL_STATE_READY:
		return "READY"
	case POOL_STATE_TORN_DOWN:
		return "TORN_DOWN"
	default:
		return fmt.Sprintf("PoolState(%d)", int(s))
	}
}

const colorPassName = "colorpass"

// ColorPassConfig describes the single color pass the pool renders: one RGBA16F
// attachment cleared on load and left in the color attachment state.
func ColorPassConfig() *metadata.RenderPassConfig {
	return &metadata.RenderPassConfig{
		Name: colorPassName,
		Attachments: []metadata.AttachmentDescriptor{
			{
				Format:       metadata.ImageFormatRGBA16F,
				StateBefore:  metadata.ImageStateUndefined,
				StateDuring:  metadata.ImageStateColorAttachment,
				StateAfter:   metadata.ImageStateColorAttachment,
				Usage:        metadata.AttachmentUsageClearAndWrite,
				StencilUsage: metadata.AttachmentUsageDiscard,
				Samples:      1,
			},
		},
		Subpasses: []metadata.SubpassDescriptor{
			{
				Colors:       []metadata.AttachmentRef{metadata.AttachmentAt(0)},
				DepthStencil: metadata.NoAttachment,
			},
		},
	}
}

// FrameResourcePool owns the color pass and one FrameResource per frame in
// flight. Slot i is only ever rendered while frame i is being recorded.
type FrameResourcePool struct {
	device    Device
	host      Host
	state     PoolState
	pass      *RenderPass
	resources []*FrameResource
}

func NewFrameResourcePool(device Device, host Host) *FrameResourcePool {
	return &FrameResourcePool{
		device: device,
		host:   host,
		state:  POOL_STATE_UNINITIALIZED,
	}
}

func (p *FrameResourcePool) State() PoolState {
	return p.state
}

// Len returns the number of frame resources, zero unless the pool is ready.
func (p *FrameResourcePool) Len() int {
	return len(p.resources)
}

func (p *FrameResourcePool) Resource(slot uint32) (*FrameResource, error) {
	if err := p.checkReady(); err != nil {
		return nil, err
	}
	if int(slot) >= len(p.resources) {
		return nil, fmt.Errorf("slot %d of %d: %w", slot, len(p.resources), core.ErrFrameSlotOutOfRange)
	}
	return p.resources[slot], nil
}

func (p *FrameResourcePool) RenderPass() *RenderPass {
	return p.pass
}

// Startup builds the color pass and one frame resource per frame in flight.
// When any allocation fails everything built so far is released, the pool
// stays uninitialized and the original error is returned.
func (p *FrameResourcePool) Startup() error {
	switch p.state {
	case POOL_STATE_READY:
		return core.ErrPoolAlreadyStarted
	case POOL_STATE_TORN_DOWN:
		return core.ErrPoolTornDown
	}

	frames := p.host.FramesInFlight()
	if frames == 0 {
		return core.ErrInvalidFramesInFlight
	}
	width, height := p.host.OutputSize()
	if width == 0 || height == 0 {
		return fmt.Errorf("output size %dx%d: %w", width, height, core.ErrInvalidOutputSize)
	}

	pass, err := NewRenderPass(p.device, ColorPassConfig())
	if err != nil {
		return err
	}

	resources, err := createFrameResources(p.device, pass, frames, width, height)
	if err != nil {
		if cerr := pass.Close(); cerr != nil {
			core.LogError("failed to release color pass after startup error: %s", cerr)
		}
		return err
	}

	p.pass = pass
	p.resources = resources
	p.state = POOL_STATE_READY
	core.LogInfo("frame resource pool ready: %d frame(s) at %dx%d", frames, width, height)
	return nil
}

// Render records the color pass into the resource of slot and returns its
// color image. elapsedMS drives the clear color.
func (p *FrameResourcePool) Render(slot uint32, elapsedMS float64) (*metadata.Image, error) {
	resource, err := p.Resource(slot)
	if err != nil {
		return nil, err
	}

	clearValues := []metadata.ClearValue{metadata.ClearColor(ClearColorAt(elapsedMS))}
	if err := p.pass.Begin(resource.Framebuffer(), clearValues); err != nil {
		return nil, err
	}
	if err := p.pass.End(); err != nil {
		return nil, err
	}
	return resource.Image(), nil
}

// Rebuild recreates every frame resource at the current output size. It is
// never called implicitly; the host decides when the output has changed.
func (p *FrameResourcePool) Rebuild() error {
	if err := p.checkReady(); err != nil {
		return err
	}
	width, height := p.host.OutputSize()
	if width == 0 || height == 0 {
		return fmt.Errorf("output size %dx%d: %w", width, height, core.ErrInvalidOutputSize)
	}
	if err := closeFrameResources(p.resources); err != nil {
		return err
	}
	p.resources = nil

	resources, err := createFrameResources(p.device, p.pass, p.host.FramesInFlight(), width, height)
	if err != nil {
		return err
	}
	p.resources = resources
	core.LogInfo("frame resource pool rebuilt at %dx%d", width, height)
	return nil
}

// Shutdown closes every frame resource in slot order, then the pass. Errors
// are collected so that one failed release does not leak the rest.
func (p *FrameResourcePool) Shutdown() error {
	if err := p.checkReady(); err != nil {
		return err
	}
	var errs []error
	if err := closeFrameResources(p.resources); err != nil {
		errs = append(errs, err)
	}
	if err := p.pass.Close(); err != nil {
		errs = append(errs, err)
	}
	p.resources = nil
	p.state = POOL_STATE_TORN_DOWN
	core.LogInfo("frame resource pool torn down")
	return errors.Join(errs...)
}

func (p *FrameResourcePool) checkReady() error {
	switch p.state {
	case POOL_STATE_UNINITIALIZED:
		return core.ErrPoolNotReady
	case POOL_STATE_TORN_DOWN:
		return core.ErrPoolTornDown
	}
	return nil
}

func createFrameResources(device Device, pass *RenderPass, frames, width, height uint32) ([]*FrameResource, error) {
	resources := make([]*FrameResource, 0, frames)
	for i := uint32(0); i < frames; i++ {
		fr, err := NewFrameResource(device, pass, width, height)
		if err != nil {
			core.LogError("failed to create frame resource %d of %d: %s", i, frames, err)
			if cerr := closeFrameResources(resources); cerr != nil {
				core.LogError("failed to release frame resources: %s", cerr)
			}
			return nil, err
		}
		resources = append(resources, fr)
	}
	return resources, nil
}

func closeFrameResources(resources []*FrameResource) error {
	var errs []error
	for _, fr := range resources {
		if err := fr.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

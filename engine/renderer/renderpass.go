package renderer

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/spaghettifunk/colorpass/engine/core"
	"github.com/spaghettifunk/colorpass/engine/renderer/metadata"
)

type RenderPassState int

const (
	RENDER_PASS_STATE_READY RenderPassState = iota
	RENDER_PASS_STATE_RECORDING
	RENDER_PASS_STATE_CLOSED
)

// RenderPass is an immutable pass built from a validated config. Framebuffers
// built from it hold a reference that must be released before Close.
type RenderPass struct {
	config       metadata.RenderPassConfig
	device       Device
	internal     interface{}
	state        RenderPassState
	framebuffers map[uuid.UUID]*metadata.Framebuffer
}

// NewRenderPass validates config and creates the pass on the device. Nothing
// is created when validation fails.
func NewRenderPass(device Device, config *metadata.RenderPassConfig) (*RenderPass, error) {
	if err := config.Validate(); err != nil {
		core.LogError(err.Error())
		return nil, err
	}

	rp := &RenderPass{
		config:       cloneRenderPassConfig(config),
		device:       device,
		state:        RENDER_PASS_STATE_READY,
		framebuffers: make(map[uuid.UUID]*metadata.Framebuffer),
	}

	internal, err := device.RenderPassCreate(&rp.config)
	if err != nil {
		core.LogError("failed to create render pass `%s`: %s", config.Name, err)
		return nil, err
	}
	rp.internal = internal
	core.LogDebug("render pass `%s` created with %d attachment(s)", config.Name, len(config.Attachments))
	return rp, nil
}

func (rp *RenderPass) Name() string {
	return rp.config.Name
}

func (rp *RenderPass) State() RenderPassState {
	return rp.state
}

// Attachments returns a copy of the attachment descriptions of the pass.
func (rp *RenderPass) Attachments() []metadata.AttachmentDescriptor {
	out := make([]metadata.AttachmentDescriptor, len(rp.config.Attachments))
	copy(out, rp.config.Attachments)
	return out
}

// RefCount returns the number of live framebuffers built from the pass.
func (rp *RenderPass) RefCount() int {
	return len(rp.framebuffers)
}

// CreateFramebuffer binds images to the attachment slots of the pass. The
// images must match the attachments in number and format.
func (rp *RenderPass) CreateFramebuffer(width, height uint32, images []*metadata.Image) (*metadata.Framebuffer, error) {
	if rp.state == RENDER_PASS_STATE_CLOSED {
		return nil, core.ErrRenderPassClosed
	}
	if len(images) != len(rp.config.Attachments) {
		return nil, fmt.Errorf("render pass `%s` has %d attachment(s), got %d image(s): %w",
			rp.config.Name, len(rp.config.Attachments), len(images), core.ErrFramebufferMismatch)
	}
	for i, img := range images {
		if img.Format != rp.config.Attachments[i].Format {
			return nil, fmt.Errorf("render pass `%s` attachment %d expects %s, got %s: %w",
				rp.config.Name, i, rp.config.Attachments[i].Format, img.Format, core.ErrFramebufferMismatch)
		}
	}

	fb := metadata.NewFramebuffer(width, height, images)
	if err := rp.device.FramebufferCreate(rp.internal, fb); err != nil {
		core.LogError("failed to create framebuffer for `%s`: %s", rp.config.Name, err)
		return nil, err
	}
	rp.framebuffers[fb.ID] = fb
	return fb, nil
}

// DestroyFramebuffer releases a framebuffer built from this pass and drops its reference.
func (rp *RenderPass) DestroyFramebuffer(fb *metadata.Framebuffer) error {
	if _, ok := rp.framebuffers[fb.ID]; !ok {
		return fmt.Errorf("framebuffer %s: %w", fb.ID, core.ErrFramebufferMismatch)
	}
	if err := rp.device.FramebufferDestroy(fb); err != nil {
		return err
	}
	delete(rp.framebuffers, fb.ID)
	return nil
}

// Begin starts recording the pass against fb. clearValues holds one value per
// attachment with a clearing load policy, in attachment order.
func (rp *RenderPass) Begin(fb *metadata.Framebuffer, clearValues []metadata.ClearValue) error {
	switch rp.state {
	case RENDER_PASS_STATE_CLOSED:
		return core.ErrRenderPassClosed
	case RENDER_PASS_STATE_RECORDING:
		return fmt.Errorf("render pass `%s`: %w", rp.config.Name, core.ErrRenderPassAlreadyBegun)
	}
	if _, ok := rp.framebuffers[fb.ID]; !ok {
		return fmt.Errorf("render pass `%s` begun on a foreign framebuffer: %w", rp.config.Name, core.ErrFramebufferMismatch)
	}
	if want := rp.config.ClearCount(); want != len(clearValues) {
		return fmt.Errorf("render pass `%s` wants %d clear value(s), got %d: %w",
			rp.config.Name, want, len(clearValues), core.ErrClearValueCount)
	}
	if err := rp.device.CmdBeginRenderPass(rp.internal, fb, clearValues); err != nil {
		return err
	}
	rp.state = RENDER_PASS_STATE_RECORDING
	return nil
}

// End closes the recording opened by Begin.
func (rp *RenderPass) End() error {
	switch rp.state {
	case RENDER_PASS_STATE_CLOSED:
		return core.ErrRenderPassClosed
	case RENDER_PASS_STATE_READY:
		return fmt.Errorf("render pass `%s`: %w", rp.config.Name, core.ErrRenderPassNotBegun)
	}
	if err := rp.device.CmdEndRenderPass(rp.internal); err != nil {
		return err
	}
	rp.state = RENDER_PASS_STATE_READY
	return nil
}

// Close releases the pass on the device. Every framebuffer built from it must
// be destroyed first.
func (rp *RenderPass) Close() error {
	switch {
	case rp.state == RENDER_PASS_STATE_CLOSED:
		return core.ErrRenderPassClosed
	case rp.state == RENDER_PASS_STATE_RECORDING:
		return fmt.Errorf("render pass `%s` is recording: %w", rp.config.Name, core.ErrRenderPassInUse)
	case len(rp.framebuffers) > 0:
		return fmt.Errorf("render pass `%s` has %d live framebuffer(s): %w", rp.config.Name, len(rp.framebuffers), core.ErrRenderPassInUse)
	}
	if err := rp.device.RenderPassDestroy(rp.internal); err != nil {
		return err
	}
	rp.internal = nil
	rp.state = RENDER_PASS_STATE_CLOSED
	core.LogDebug("render pass `%s` destroyed", rp.config.Name)
	return nil
}

func cloneRenderPassConfig(c *metadata.RenderPassConfig) metadata.RenderPassConfig {
	out := metadata.RenderPassConfig{
		Name:         c.Name,
		Attachments:  append([]metadata.AttachmentDescriptor(nil), c.Attachments...),
		Subpasses:    make([]metadata.SubpassDescriptor, len(c.Subpasses)),
		Dependencies: append([]metadata.DependencyDescriptor(nil), c.Dependencies...),
	}
	for i, s := range c.Subpasses {
		out.Subpasses[i] = metadata.SubpassDescriptor{
			Inputs:       append([]metadata.AttachmentRef(nil), s.Inputs...),
			Colors:       append([]metadata.AttachmentRef(nil), s.Colors...),
			DepthStencil: s.DepthStencil,
			Preserve:     append([]uint32(nil), s.Preserve...),
		}
	}
	return out
}

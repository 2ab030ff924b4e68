package renderer

import (
	"fmt"

	"github.com/spaghettifunk/colorpass/engine/core"
	"github.com/spaghettifunk/colorpass/engine/renderer/metadata"
)

const frameResourceImageUsage = metadata.ImageUsageColorAttachment | metadata.ImageUsageTransferSource

// FrameResource is the per-slot target of the color pass: one color image and
// the framebuffer binding it to the pass.
type FrameResource struct {
	device      Device
	pass        *RenderPass
	image       *metadata.Image
	framebuffer *metadata.Framebuffer
	closed      bool
}

// NewFrameResource allocates a color image in the format of the first
// attachment of pass and builds a framebuffer around it. On failure nothing
// is left allocated.
func NewFrameResource(device Device, pass *RenderPass, width, height uint32) (*FrameResource, error) {
	attachments := pass.Attachments()
	if len(attachments) == 0 {
		return nil, fmt.Errorf("render pass `%s` has no color attachment: %w", pass.Name(), core.ErrFramebufferMismatch)
	}

	image := metadata.NewImage(attachments[0].Format, frameResourceImageUsage, metadata.ImageAspectColor, width, height, 1)
	if err := device.ImageCreate(image); err != nil {
		core.LogError("failed to create %dx%d frame image: %s", width, height, err)
		return nil, err
	}

	framebuffer, err := pass.CreateFramebuffer(width, height, []*metadata.Image{image})
	if err != nil {
		if derr := device.ImageDestroy(image); derr != nil {
			core.LogError("failed to release frame image after framebuffer error: %s", derr)
		}
		return nil, err
	}

	return &FrameResource{
		device:      device,
		pass:        pass,
		image:       image,
		framebuffer: framebuffer,
	}, nil
}

func (fr *FrameResource) Image() *metadata.Image {
	return fr.image
}

func (fr *FrameResource) Framebuffer() *metadata.Framebuffer {
	return fr.framebuffer
}

// Close destroys the framebuffer, which drops its reference on the pass, and
// then the color image.
func (fr *FrameResource) Close() error {
	if fr.closed {
		return core.ErrResourceClosed
	}
	if err := fr.pass.DestroyFramebuffer(fr.framebuffer); err != nil {
		return err
	}
	if err := fr.device.ImageDestroy(fr.image); err != nil {
		return err
	}
	fr.closed = true
	return nil
}

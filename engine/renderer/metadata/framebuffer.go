package metadata

import "github.com/google/uuid"

/**
 * @brief Binds concrete images to the attachment slots of a render pass.
 */
type Framebuffer struct {
	ID          uuid.UUID
	Width       uint32
	Height      uint32
	Attachments []*Image
	/** @brief Backend specific data. Filled by the device on creation. */
	InternalData interface{}
}

func NewFramebuffer(width, height uint32, attachments []*Image) *Framebuffer {
	return &Framebuffer{
		ID:          uuid.New(),
		Width:       width,
		Height:      height,
		Attachments: attachments,
	}
}

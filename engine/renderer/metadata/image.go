package metadata

import (
	"fmt"

	"github.com/google/uuid"
)

/**
 * @brief Pixel formats. Values match the host GPU API format enumeration.
 */
type ImageFormat uint32

const (
	ImageFormatUndefined ImageFormat = 0
	/** @brief 8-bit BGRA, unsigned normalized. */
	ImageFormatRGBA ImageFormat = 44
	/** @brief 16-bit float RGBA. */
	ImageFormatRGBA16F ImageFormat = 97
	/** @brief 32-bit float RGBA. */
	ImageFormatRGBA32F ImageFormat = 109
	/** @brief 32-bit float depth. */
	ImageFormatDepth32F ImageFormat = 126
	/** @brief 24-bit depth with 8-bit stencil. */
	ImageFormatDepth24Stencil8 ImageFormat = 129
)

func (f ImageFormat) IsDepth() bool {
	return f == ImageFormatDepth32F || f == ImageFormatDepth24Stencil8
}

func (f ImageFormat) HasStencil() bool {
	return f == ImageFormatDepth24Stencil8
}

func (f ImageFormat) IsColor() bool {
	return f != ImageFormatUndefined && !f.IsDepth()
}

func (f ImageFormat) String() string {
	switch f {
	case ImageFormatUndefined:
		return "UNDEFINED"
	case ImageFormatRGBA:
		return "RGBA"
	case ImageFormatRGBA16F:
		return "RGBA16F"
	case ImageFormatRGBA32F:
		return "RGBA32F"
	case ImageFormatDepth32F:
		return "D32F"
	case ImageFormatDepth24Stencil8:
		return "D24S8"
	default:
		return fmt.Sprintf("ImageFormat(%d)", uint32(f))
	}
}

/**
 * @brief The layout state of an image. Values match the host GPU API image layouts.
 */
type ImageState uint32

const (
	ImageStateUndefined              ImageState = 0
	ImageStateGeneral                ImageState = 1
	ImageStateColorAttachment        ImageState = 2
	ImageStateDepthStencilAttachment ImageState = 3
	ImageStateShaderRead             ImageState = 5
	ImageStateTransferSource         ImageState = 6
	ImageStateTransferDest           ImageState = 7
	ImageStatePresent                ImageState = 1000001002
)

func (s ImageState) String() string {
	switch s {
	case ImageStateUndefined:
		return "UNDEFINED"
	case ImageStateGeneral:
		return "GENERAL"
	case ImageStateColorAttachment:
		return "COLOR_ATTACHMENT"
	case ImageStateDepthStencilAttachment:
		return "DEPTH_STENCIL_ATTACHMENT"
	case ImageStateShaderRead:
		return "SHADER_READ"
	case ImageStateTransferSource:
		return "TRANSFER_SOURCE"
	case ImageStateTransferDest:
		return "TRANSFER_DEST"
	case ImageStatePresent:
		return "PRESENT"
	default:
		return fmt.Sprintf("ImageState(%d)", uint32(s))
	}
}

/** @brief Image usage bit flags. */
type ImageUsage uint32

const (
	ImageUsageTransferSource         ImageUsage = 0x01
	ImageUsageTransferDest           ImageUsage = 0x02
	ImageUsageSampledTexture         ImageUsage = 0x04
	ImageUsageStorage                ImageUsage = 0x08
	ImageUsageColorAttachment        ImageUsage = 0x10
	ImageUsageDepthStencilAttachment ImageUsage = 0x20
	ImageUsageTransientAttachment    ImageUsage = 0x40
)

func (u ImageUsage) Has(flag ImageUsage) bool {
	return u&flag == flag
}

/** @brief Image aspect bit flags. */
type ImageAspect uint32

const (
	ImageAspectColor        ImageAspect = 0x1
	ImageAspectDepth        ImageAspect = 0x2
	ImageAspectStencil      ImageAspect = 0x4
	ImageAspectDepthStencil ImageAspect = ImageAspectDepth | ImageAspectStencil
)

/**
 * @brief A GPU image owned by whoever created it through a backend device.
 */
type Image struct {
	/** @brief Unique id assigned at creation. */
	ID        uuid.UUID
	Format    ImageFormat
	Usage     ImageUsage
	Aspect    ImageAspect
	Width     uint32
	Height    uint32
	MipLevels uint32
	/** @brief Backend specific data. Filled by the device on creation. */
	InternalData interface{}
}

// NewImage describes an image to be created by a device.
func NewImage(format ImageFormat, usage ImageUsage, aspect ImageAspect, width, height, mipLevels uint32) *Image {
	return &Image{
		ID:        uuid.New(),
		Format:    format,
		Usage:     usage,
		Aspect:    aspect,
		Width:     width,
		Height:    height,
		MipLevels: mipLevels,
	}
}

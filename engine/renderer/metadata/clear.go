package metadata

import "github.com/spaghettifunk/colorpass/engine/math"

/**
 * @brief The value an attachment is cleared to. Color attachments use Color,
 * depth-stencil attachments use Depth and Stencil.
 */
type ClearValue struct {
	Color   math.Vec4
	Depth   float32
	Stencil uint32
}

func ClearColor(c math.Vec4) ClearValue {
	return ClearValue{Color: c}
}

func ClearDepthStencil(depth float32, stencil uint32) ClearValue {
	return ClearValue{Depth: depth, Stencil: stencil}
}

package renderer

import (
	gomath "math"

	"github.com/spaghettifunk/colorpass/engine/math"
)

const (
	clearHueRate    = 0.0001
	clearSaturation = 0.6
	clearValue      = 1.0
)

// ClearColorAt returns the clear color of the color pass at elapsedMS
// milliseconds. The hue oscillates slowly over the full circle.
func ClearColorAt(elapsedMS float64) math.Vec4 {
	hue := gomath.Cos(clearHueRate*elapsedMS)*0.5 + 0.5
	rgb := math.HSVToRGB(hue, clearSaturation, clearValue)
	return math.NewVec4FromVec3(rgb, 1.0)
}

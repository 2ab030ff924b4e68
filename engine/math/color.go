package math

import (
	gomath "math"

	"github.com/lucasb-eyer/go-colorful"
)

/**
 * @brief Converts a hue-saturation-value triple to red-green-blue.
 * Hue, saturation and value are all in [0, 1]. A hue of 1 is the same
 * angle as a hue of 0.
 */
func HSVToRGB(h, s, v float64) Vec3 {
	degrees := gomath.Mod(Saturate(h)*360.0, 360.0)
	c := colorful.Hsv(degrees, Saturate(s), Saturate(v))
	return Vec3{X: float32(c.R), Y: float32(c.G), Z: float32(c.B)}
}

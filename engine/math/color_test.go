package math

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHSVToRGB(t *testing.T) {
	cases := []struct {
		name    string
		h, s, v float64
		want    Vec3
	}{
		{"red", 0.0, 0.6, 1.0, Vec3{1.0, 0.4, 0.4}},
		{"full turn wraps to red", 1.0, 0.6, 1.0, Vec3{1.0, 0.4, 0.4}},
		{"green", 1.0 / 3.0, 1.0, 1.0, Vec3{0.0, 1.0, 0.0}},
		{"blue", 2.0 / 3.0, 1.0, 1.0, Vec3{0.0, 0.0, 1.0}},
		{"grey", 0.5, 0.0, 0.5, Vec3{0.5, 0.5, 0.5}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := HSVToRGB(c.h, c.s, c.v)
			assert.InDelta(t, c.want.X, got.X, 1e-5)
			assert.InDelta(t, c.want.Y, got.Y, 1e-5)
			assert.InDelta(t, c.want.Z, got.Z, 1e-5)
		})
	}
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 0, Clamp(-3, 0, 10))
	assert.Equal(t, 10, Clamp(42, 0, 10))
	assert.Equal(t, 0.5, Clamp(0.5, 0.0, 1.0))
	assert.Equal(t, float32(1), Saturate(float32(1.5)))
	assert.Equal(t, 0.0, Saturate(-0.1))
}

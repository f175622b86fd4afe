package value

import (
	"fmt"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Color wraps go-colorful's RGB representation, giving quill's color
// value access to perceptually-aware mixing and alternate color-space
// construction (HSV, Lab) without hand-rolling conversions.
type Color struct {
	c     colorful.Color
	alpha float64
}

func (Color) Kind() Kind { return KindColor }

// RGB builds an opaque color from 0-255 channel values.
func RGB(r, g, b uint8) Color {
	return Color{c: colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}, alpha: 1}
}

// RGBA builds a color with an explicit alpha in [0,1].
func RGBA(r, g, b uint8, a float64) Color {
	col := RGB(r, g, b)
	col.alpha = a
	return col
}

// HSV builds a color from hue (degrees), saturation and value in [0,1].
func HSV(h, s, v float64) Color {
	return Color{c: colorful.Hsv(h, s, v), alpha: 1}
}

// Mix blends two colors by weight t in [0,1], 0 yielding c and 1 yielding o,
// in Lab space for perceptual evenness.
func (c Color) Mix(o Color, t float64) Color {
	return Color{c: c.c.BlendLab(o.c, t), alpha: c.alpha + (o.alpha-c.alpha)*t}
}

// RGBA255 returns the 0-255 channel values and alpha in [0,1].
func (c Color) RGBA255() (r, g, b uint8, a float64) {
	r8, g8, b8 := c.c.Clamped().RGB255()
	return r8, g8, b8, c.alpha
}

func (c Color) Repr() string {
	r, g, b, a := c.RGBA255()
	if a >= 1 {
		return fmt.Sprintf("rgb(%d, %d, %d)", r, g, b)
	}
	return fmt.Sprintf("rgb(%d, %d, %d, %.0f%%)", r, g, b, a*100)
}

func (c Color) Equal(o Value) bool {
	oc, ok := o.(Color)
	if !ok {
		return false
	}
	r1, g1, b1, a1 := c.RGBA255()
	r2, g2, b2, a2 := oc.RGBA255()
	return r1 == r2 && g1 == g2 && b1 == b2 && a1 == a2
}

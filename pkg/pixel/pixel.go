// Package pixel provides the color and blend primitives used by every
// other part of the paintbox engine.
//
// Colors are stored with straight (non-premultiplied) alpha. Blending
// premultiplies transiently during the operation and rounds each channel
// to the nearest integer, so repeated stroke application is stable in
// practice. Paint order matters: Blend is intentionally not commutative.
package pixel

import (
	"fmt"
	"math"
	"strings"
)

// Color is an 8-bit-per-channel RGBA color with straight alpha.
// It is an immutable value type; operations return new values.
type Color struct {
	R, G, B, A uint8
}

// Common colors.
var (
	Transparent = Color{}
	Black       = Color{0, 0, 0, 255}
	White       = Color{255, 255, 255, 255}
)

// RGB creates an opaque color from RGB components.
func RGB(r, g, b uint8) Color {
	return Color{R: r, G: g, B: b, A: 255}
}

// IsTransparent reports whether the color has zero alpha.
func (c Color) IsTransparent() bool {
	return c.A == 0
}

// Blend composites src over dst using standard alpha-over, with the
// source alpha scaled by opacity (in [0,1]):
//
//	out  = src*sa + dst*(1-sa)   per channel, sa = srcA/255 * opacity
//	outA = sa + dstA*(1-sa)
//
// Channels are rounded to nearest. Blending a fully transparent source
// at any opacity returns dst unchanged.
func Blend(dst, src Color, opacity float64) Color {
	sa := float64(src.A) / 255 * opacity
	if sa <= 0 {
		return dst
	}
	da := float64(dst.A) / 255
	outA := sa + da*(1-sa)
	if outA <= 0 {
		return Transparent
	}
	// Weighted by effective alpha so that painting over transparency
	// takes the source color instead of mixing with stale RGB values.
	blend := func(d, s uint8) uint8 {
		v := (float64(s)*sa + float64(d)*da*(1-sa)) / outA
		return uint8(math.Round(v))
	}
	return Color{
		R: blend(dst.R, src.R),
		G: blend(dst.G, src.G),
		B: blend(dst.B, src.B),
		A: uint8(math.Round(outA * 255)),
	}
}

// Shade moves the RGB channels toward black (darken) or white (lighten)
// by factor in [0,1], leaving alpha unchanged.
func Shade(c Color, factor float64, darken bool) Color {
	target := 255.0
	if darken {
		target = 0.0
	}
	mix := func(v uint8) uint8 {
		out := float64(v)*(1-factor) + target*factor
		return uint8(math.Round(clamp(out, 0, 255)))
	}
	return Color{R: mix(c.R), G: mix(c.G), B: mix(c.B), A: c.A}
}

// FadeAlpha scales the alpha channel down by opacity (the erase rule:
// newA = oldA*(1-opacity)). Color channels are unchanged.
func FadeAlpha(c Color, opacity float64) Color {
	a := float64(c.A) * (1 - clamp(opacity, 0, 1))
	c.A = uint8(math.Round(a))
	return c
}

// Distance returns the squared Euclidean distance between two colors in
// RGB space. Alpha is ignored.
func Distance(a, b Color) int {
	dr := int(a.R) - int(b.R)
	dg := int(a.G) - int(b.G)
	db := int(a.B) - int(b.B)
	return dr*dr + dg*dg + db*db
}

// Hex formats the color as "#RRGGBB" when opaque, "#RRGGBBAA" otherwise.
func (c Color) Hex() string {
	if c.A == 255 {
		return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
	}
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}

// ParseHex parses "#RRGGBB" or "#RRGGBBAA" (leading '#' optional).
func ParseHex(s string) (Color, error) {
	s = strings.TrimPrefix(s, "#")
	var c Color
	switch len(s) {
	case 6:
		if _, err := fmt.Sscanf(s, "%02x%02x%02x", &c.R, &c.G, &c.B); err != nil {
			return Color{}, fmt.Errorf("invalid hex color %q", s)
		}
		c.A = 255
	case 8:
		if _, err := fmt.Sscanf(s, "%02x%02x%02x%02x", &c.R, &c.G, &c.B, &c.A); err != nil {
			return Color{}, fmt.Errorf("invalid hex color %q", s)
		}
	default:
		return Color{}, fmt.Errorf("invalid hex color %q: want 6 or 8 digits", s)
	}
	return c, nil
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

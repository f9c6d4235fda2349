// Package canvas holds the layered pixel state of one paintbox project:
// individual layers, the ordered layer stack with its active cursor, and
// the compositor that flattens the stack into a single buffer.
//
// Layers are addressed by index within the stack for ordering operations
// and by stable uuid for edit-history records, since indices shift when
// layers are moved or deleted.
package canvas

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/paintbox/paintbox/pkg/pixel"
)

// Layer is a single pixel buffer with its own opacity and visibility.
// All layers of one stack share the same dimensions.
type Layer struct {
	ID      uuid.UUID
	Name    string
	Opacity float64 // [0,1], applied on top of per-pixel alpha when compositing
	Visible bool

	width  int
	height int
	pix    []pixel.Color // row-major, len = width*height
}

// NewLayer creates a fully transparent layer.
func NewLayer(name string, width, height int) *Layer {
	return &Layer{
		ID:      uuid.New(),
		Name:    name,
		Opacity: 1.0,
		Visible: true,
		width:   width,
		height:  height,
		pix:     make([]pixel.Color, width*height),
	}
}

// Width returns the layer width in pixels.
func (l *Layer) Width() int { return l.width }

// Height returns the layer height in pixels.
func (l *Layer) Height() int { return l.height }

// In reports whether (x, y) is inside the layer bounds.
func (l *Layer) In(x, y int) bool {
	return x >= 0 && x < l.width && y >= 0 && y < l.height
}

// At returns the color at (x, y). Out-of-bounds reads return transparent.
func (l *Layer) At(x, y int) pixel.Color {
	if !l.In(x, y) {
		return pixel.Transparent
	}
	return l.pix[y*l.width+x]
}

// Set writes the color at (x, y). Out-of-bounds writes are dropped.
func (l *Layer) Set(x, y int, c pixel.Color) {
	if !l.In(x, y) {
		return
	}
	l.pix[y*l.width+x] = c
}

// Clear resets every pixel to transparent.
func (l *Layer) Clear() {
	for i := range l.pix {
		l.pix[i] = pixel.Transparent
	}
}

// Clone returns a deep copy of the layer, keeping the same ID.
func (l *Layer) Clone() *Layer {
	c := *l
	c.pix = make([]pixel.Color, len(l.pix))
	copy(c.pix, l.pix)
	return &c
}

// Pixels returns the backing pixel slice in row-major order. The slice
// is shared with the layer; callers that need isolation should Clone.
func (l *Layer) Pixels() []pixel.Color { return l.pix }

// SetPixels replaces the backing buffer. The slice length must match
// width*height.
func (l *Layer) SetPixels(pix []pixel.Color) error {
	if len(pix) != l.width*l.height {
		return fmt.Errorf("pixel count %d does not match %dx%d", len(pix), l.width, l.height)
	}
	l.pix = pix
	return nil
}

// resize reallocates the buffer to the new dimensions, anchored at the
// origin: pixels outside the new bounds are dropped, new area is
// transparent.
func (l *Layer) resize(width, height int) {
	pix := make([]pixel.Color, width*height)
	minW, minH := min(width, l.width), min(height, l.height)
	for y := 0; y < minH; y++ {
		copy(pix[y*width:y*width+minW], l.pix[y*l.width:y*l.width+minW])
	}
	l.width, l.height, l.pix = width, height, pix
}

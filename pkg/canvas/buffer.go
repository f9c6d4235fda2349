package canvas

import "github.com/paintbox/paintbox/pkg/pixel"

// Buffer is a flat width x height pixel image: the output of the
// compositor and the input to the export and terminal renderers.
type Buffer struct {
	Width  int
	Height int
	Pix    []pixel.Color // row-major, len = Width*Height
}

// NewBuffer creates a transparent buffer.
func NewBuffer(width, height int) *Buffer {
	return &Buffer{
		Width:  width,
		Height: height,
		Pix:    make([]pixel.Color, width*height),
	}
}

// At returns the color at (x, y). Out-of-bounds reads return transparent.
func (b *Buffer) At(x, y int) pixel.Color {
	if x < 0 || x >= b.Width || y < 0 || y >= b.Height {
		return pixel.Transparent
	}
	return b.Pix[y*b.Width+x]
}

// Set writes the color at (x, y). Out-of-bounds writes are dropped.
func (b *Buffer) Set(x, y int, c pixel.Color) {
	if x < 0 || x >= b.Width || y < 0 || y >= b.Height {
		return
	}
	b.Pix[y*b.Width+x] = c
}

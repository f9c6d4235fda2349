// Package export flattens a layer stack into final image buffers at an
// integer upscale factor. It never mutates the stack; callers exporting
// concurrently with edits must hand it a snapshot.
package export

import (
	"image"
	"image/png"
	"io"

	"github.com/paintbox/paintbox/pkg/canvas"
	"github.com/paintbox/paintbox/pkg/errors"
	"github.com/paintbox/paintbox/pkg/pixel"
)

// Mode selects what gets flattened.
type Mode int

const (
	// ModeUnited flattens the full composite into one buffer.
	ModeUnited Mode = iota
	// ModeSeparate produces one buffer per visible layer, each
	// independently composited.
	ModeSeparate
)

// Options configure an export. Scale must be at least 1. A nil
// Background leaves uncovered pixels transparent.
type Options struct {
	Scale      int
	Mode       Mode
	Background *pixel.Color
}

// Result is one exported buffer. Name is the source layer's name in
// ModeSeparate and empty in ModeUnited.
type Result struct {
	Name   string
	Buffer *canvas.Buffer
}

// Render flattens the stack according to opts. Onion-skin preview is
// never included. The united composite feeds all layers through the
// stack compositor; separate mode blends each visible layer over the
// background on its own.
func Render(s *canvas.Stack, opts Options) ([]Result, error) {
	if err := errors.ValidateScale(opts.Scale); err != nil {
		return nil, err
	}
	switch opts.Mode {
	case ModeUnited:
		flat := s.Composite(false)
		flat = overBackground(flat, opts.Background)
		return []Result{{Buffer: upscale(flat, opts.Scale)}}, nil
	case ModeSeparate:
		var out []Result
		for _, l := range s.Layers() {
			if !l.Visible {
				continue
			}
			flat := flattenLayer(l)
			flat = overBackground(flat, opts.Background)
			out = append(out, Result{Name: l.Name, Buffer: upscale(flat, opts.Scale)})
		}
		return out, nil
	}
	return nil, errors.New(errors.ErrCodeInvalidInput, "unknown export mode %d", opts.Mode)
}

// flattenLayer renders a single layer with its own opacity applied,
// over transparency.
func flattenLayer(l *canvas.Layer) *canvas.Buffer {
	b := canvas.NewBuffer(l.Width(), l.Height())
	for y := 0; y < l.Height(); y++ {
		for x := 0; x < l.Width(); x++ {
			b.Set(x, y, pixel.Blend(pixel.Transparent, l.At(x, y), l.Opacity))
		}
	}
	return b
}

// overBackground composites the buffer over a solid background color.
// A nil background returns the buffer unchanged.
func overBackground(b *canvas.Buffer, bg *pixel.Color) *canvas.Buffer {
	if bg == nil {
		return b
	}
	out := canvas.NewBuffer(b.Width, b.Height)
	for i, c := range b.Pix {
		out.Pix[i] = pixel.Blend(*bg, c, 1)
	}
	return out
}

// upscale replicates each source pixel scale*scale times. Nearest
// neighbor only: pixel art needs hard edges, never interpolation.
func upscale(b *canvas.Buffer, scale int) *canvas.Buffer {
	if scale == 1 {
		return b
	}
	out := canvas.NewBuffer(b.Width*scale, b.Height*scale)
	for y := 0; y < b.Height; y++ {
		for x := 0; x < b.Width; x++ {
			c := b.At(x, y)
			for dy := 0; dy < scale; dy++ {
				for dx := 0; dx < scale; dx++ {
					out.Set(x*scale+dx, y*scale+dy, c)
				}
			}
		}
	}
	return out
}

// Image converts a buffer to an *image.NRGBA. Both use straight alpha,
// so the conversion is a plain channel copy.
func Image(b *canvas.Buffer) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, b.Width, b.Height))
	for i, c := range b.Pix {
		img.Pix[i*4+0] = c.R
		img.Pix[i*4+1] = c.G
		img.Pix[i*4+2] = c.B
		img.Pix[i*4+3] = c.A
	}
	return img
}

// EncodePNG writes the buffer to w as a PNG.
func EncodePNG(w io.Writer, b *canvas.Buffer) error {
	if err := png.Encode(w, Image(b)); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encoding png")
	}
	return nil
}

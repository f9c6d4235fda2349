// Package stroke computes the affected-pixel set for one tool
// application and applies it to the active layer of a stack.
//
// The engine consumes structured Requests so that keyboard input, mouse
// drags and scripted replay all funnel through the same path. Each
// continuous stroke (from activation to release) accumulates pixel
// deltas; End returns them as a single history record, which makes undo
// exact even for stochastic tools like spray.
package stroke

import (
	"github.com/paintbox/paintbox/pkg/errors"
	"github.com/paintbox/paintbox/pkg/pixel"
)

// Tool selects the per-pixel effect of a request.
type Tool int

const (
	ToolDraw Tool = iota
	ToolErase
	ToolFill
	ToolSpray
	ToolShadeLighten
	ToolShadeDarken
	ToolColorPick
)

// String returns the tool name shown in the editor status bar.
func (t Tool) String() string {
	switch t {
	case ToolDraw:
		return "draw"
	case ToolErase:
		return "erase"
	case ToolFill:
		return "fill"
	case ToolSpray:
		return "spray"
	case ToolShadeLighten:
		return "lighten"
	case ToolShadeDarken:
		return "darken"
	case ToolColorPick:
		return "pick"
	}
	return "unknown"
}

// Shape selects the pen footprint.
type Shape int

const (
	// ShapeCircular includes every offset with dx*dx+dy*dy <= r*r,
	// r = size/2. Size 1 is a single pixel.
	ShapeCircular Shape = iota
	// ShapeSquare includes every offset with |dx|,|dy| <= size/2.
	ShapeSquare
)

// String returns the shape name shown in the editor status bar.
func (s Shape) String() string {
	if s == ShapeSquare {
		return "square"
	}
	return "circular"
}

// Symmetry selects the mirroring applied to every computed pixel.
type Symmetry int

const (
	SymmetryOff Symmetry = iota
	// SymmetryVertical mirrors across the vertical axis: x' = 2*ax - x.
	SymmetryVertical
	// SymmetryHorizontal mirrors across the horizontal axis: y' = 2*ay - y.
	SymmetryHorizontal
	// SymmetryBoth applies both axes independently, up to 4 pixels per
	// source pixel, deduplicated.
	SymmetryBoth
)

// Request describes one tool application. Zero tool-specific fields are
// ignored by tools that do not use them.
type Request struct {
	Tool     Tool
	X, Y     int
	Shape    Shape
	Size     int
	Color    pixel.Color
	Opacity  float64
	Symmetry Symmetry

	// Spray: expected sample count per footprint pixel, in [0,1].
	SprayIntensity float64

	// Spray: radius of the spray circle in pixels, independent of the
	// pen size. Zero falls back to the pen footprint radius.
	SprayRadius int

	// Shade: how far to move channels toward black or white, in [0,1].
	ShadeFactor float64
}

// Validate rejects malformed requests at the boundary. The engine
// assumes validated input past this point.
func (r Request) Validate() error {
	if err := errors.ValidateOpacity(r.Opacity); err != nil {
		return err
	}
	switch r.Tool {
	case ToolDraw, ToolErase, ToolSpray:
		if err := errors.ValidatePenSize(r.Size); err != nil {
			return err
		}
	case ToolShadeLighten, ToolShadeDarken:
		if err := errors.ValidatePenSize(r.Size); err != nil {
			return err
		}
		if r.ShadeFactor < 0 || r.ShadeFactor > 1 {
			return errors.New(errors.ErrCodeInvalidInput, "shade factor must be in [0,1], got %g", r.ShadeFactor)
		}
	case ToolFill, ToolColorPick:
		// Anchor-only tools; pen size does not apply.
	default:
		return errors.New(errors.ErrCodeInvalidInput, "unknown tool %d", r.Tool)
	}
	if r.Tool == ToolSpray {
		if r.SprayIntensity < 0 || r.SprayIntensity > 1 {
			return errors.New(errors.ErrCodeInvalidInput, "spray intensity must be in [0,1], got %g", r.SprayIntensity)
		}
		if r.SprayRadius < 0 {
			return errors.New(errors.ErrCodeInvalidInput, "spray radius must be >= 0, got %d", r.SprayRadius)
		}
	}
	return nil
}

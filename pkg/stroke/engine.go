package stroke

import (
	"math"
	"math/rand"
	"time"

	"github.com/paintbox/paintbox/pkg/canvas"
	"github.com/paintbox/paintbox/pkg/errors"
	"github.com/paintbox/paintbox/pkg/history"
	"github.com/paintbox/paintbox/pkg/pixel"
)

type point struct {
	x, y int
}

// Engine applies stroke requests to the active layer of a stack and
// accumulates the resulting pixel deltas into one history record per
// stroke. It is owned by a single editing session and is not safe for
// concurrent use.
type Engine struct {
	rng     *rand.Rand
	protect bool

	// Symmetry axis coordinates, doubled so that half-pixel positions
	// stay integral: a pixel x mirrors to axis2X - x. Initialized to
	// the canvas center on first use.
	axis2X, axis2Y int
	axisSet        bool

	visited map[point]struct{}
	deltas  []history.Delta
	active  bool
}

// NewEngine creates an engine with duplicate-pixel protection enabled
// and a time-seeded RNG for the spray tool.
func NewEngine() *Engine {
	return &Engine{
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
		protect: true,
	}
}

// Seed reseeds the spray RNG. Tests use this to make spray strokes
// reproducible.
func (e *Engine) Seed(seed int64) {
	e.rng = rand.New(rand.NewSource(seed))
}

// SetProtect toggles duplicate-pixel protection. When enabled, each
// pixel is blended at most once per stroke even if the brush revisits
// it; when disabled, revisits compound opacity.
func (e *Engine) SetProtect(on bool) { e.protect = on }

// Protect reports whether duplicate-pixel protection is enabled.
func (e *Engine) Protect() bool { return e.protect }

// SetSymmetryAxis places the mirror axes. Coordinates are doubled, so
// an axis between pixel columns 4 and 5 is ax2 = 9.
func (e *Engine) SetSymmetryAxis(ax2, ay2 int) {
	e.axis2X, e.axis2Y = ax2, ay2
	e.axisSet = true
}

// AdjustSymmetry nudges the mirror axes by half-pixel steps. The axes
// default to the canvas center, so adjusting before the first
// application is applied relative to the center. Once adjusted, the
// axes stay where the user put them across canvas resizes.
func (e *Engine) AdjustSymmetry(s *canvas.Stack, dx2, dy2 int) {
	e.ensureAxis(s)
	e.axis2X += dx2
	e.axis2Y += dy2
	e.axisSet = true
}

// ensureAxis recomputes the canvas-center default unless the user has
// explicitly placed the axes, so the default tracks canvas resizes.
func (e *Engine) ensureAxis(s *canvas.Stack) {
	if e.axisSet {
		return
	}
	e.axis2X = s.Width() - 1
	e.axis2Y = s.Height() - 1
}

// Begin starts a new stroke, clearing the per-stroke visited set and
// the accumulated deltas.
func (e *Engine) Begin() {
	e.visited = make(map[point]struct{})
	e.deltas = nil
	e.active = true
}

// End finishes the current stroke and returns its record, or nil if no
// pixel changed. The caller pushes the record onto the history.
func (e *Engine) End() *history.Record {
	r := history.Stroke(e.deltas)
	e.visited = nil
	e.deltas = nil
	e.active = false
	return r
}

// Apply performs one tool application at the request's anchor against
// the active layer. Out-of-bounds pixels are silently dropped; the
// in-bounds subset is still applied. Begin is called implicitly if no
// stroke is in progress.
func (e *Engine) Apply(s *canvas.Stack, req Request) error {
	if err := req.Validate(); err != nil {
		return err
	}
	if req.Tool == ToolColorPick {
		return errors.New(errors.ErrCodeInvalidInput, "color pick does not mutate; use Pick")
	}
	if !e.active {
		e.Begin()
	}
	e.ensureAxis(s)
	l := s.Active()
	switch req.Tool {
	case ToolFill:
		e.fill(l, req)
	case ToolSpray:
		e.spray(l, req)
	default:
		e.stamp(l, req)
	}
	return nil
}

// Pick reads the raw pixel on the active layer, before layer opacity or
// onion skin apply, so a picked color re-draws exactly. Returns false
// when the position is out of bounds. Picking never produces a record.
func (e *Engine) Pick(s *canvas.Stack, x, y int) (pixel.Color, bool) {
	l := s.Active()
	if !l.In(x, y) {
		return pixel.Color{}, false
	}
	return l.At(x, y), true
}

// stamp applies a brush-footprint tool (draw, erase, shade) at the
// anchor, expanded through symmetry.
func (e *Engine) stamp(l *canvas.Layer, req Request) {
	seen := make(map[point]struct{})
	for _, off := range footprint(req.Shape, req.Size) {
		p := point{req.X + off.x, req.Y + off.y}
		for _, m := range e.mirrors(p, req.Symmetry) {
			if _, dup := seen[m]; dup {
				continue
			}
			seen[m] = struct{}{}
			e.paint(l, m, req)
		}
	}
}

// paint writes one pixel, honoring bounds, per-stroke protection and
// the tool's blend rule. No delta is recorded when the color does not
// change.
func (e *Engine) paint(l *canvas.Layer, p point, req Request) {
	if !l.In(p.x, p.y) {
		return
	}
	if e.protect {
		if _, ok := e.visited[p]; ok {
			return
		}
	}
	e.visited[p] = struct{}{}

	before := l.At(p.x, p.y)
	var after pixel.Color
	switch req.Tool {
	case ToolErase:
		after = pixel.FadeAlpha(before, req.Opacity)
	case ToolShadeLighten, ToolShadeDarken:
		if before.IsTransparent() {
			return
		}
		after = pixel.Shade(before, req.ShadeFactor, req.Tool == ToolShadeDarken)
	default:
		after = pixel.Blend(before, req.Color, req.Opacity)
	}
	if after == before {
		return
	}
	l.Set(p.x, p.y, after)
	e.deltas = append(e.deltas, history.Delta{Layer: l.ID, X: p.x, Y: p.y, Before: before, After: after})
}

// fill flood-fills the 4-connected region of the anchor's exact color.
// Filling a region that already matches the resulting color is a no-op
// and contributes nothing to the stroke. Symmetry does not apply: the
// filled region is defined by connectivity, not by the brush. Pixels
// blended earlier in the stroke are skipped while protection is on.
func (e *Engine) fill(l *canvas.Layer, req Request) {
	if !l.In(req.X, req.Y) {
		return
	}
	target := l.At(req.X, req.Y)
	after := pixel.Blend(target, req.Color, req.Opacity)
	if after == target {
		return
	}
	queue := []point{{req.X, req.Y}}
	seen := map[point]struct{}{{req.X, req.Y}: {}}
	for len(queue) > 0 {
		p := queue[0]
		queue = queue[1:]
		_, dup := e.visited[p]
		if !dup || !e.protect {
			before := l.At(p.x, p.y)
			l.Set(p.x, p.y, after)
			e.visited[p] = struct{}{}
			e.deltas = append(e.deltas, history.Delta{Layer: l.ID, X: p.x, Y: p.y, Before: before, After: after})
		}
		for _, n := range []point{{p.x + 1, p.y}, {p.x - 1, p.y}, {p.x, p.y + 1}, {p.x, p.y - 1}} {
			if !l.In(n.x, n.y) {
				continue
			}
			if _, ok := seen[n]; ok {
				continue
			}
			if l.At(n.x, n.y) != target {
				continue
			}
			seen[n] = struct{}{}
			queue = append(queue, n)
		}
	}
}

// spray samples intensity*area positions uniformly within the spray
// circle and blends each with the draw color. The samples are random,
// but the recorded deltas describe exactly what happened, so undo is
// exact regardless.
func (e *Engine) spray(l *canvas.Layer, req Request) {
	r := req.SprayRadius
	if r <= 0 {
		r = req.Size / 2
	}
	area := math.Pi * float64(r) * float64(r)
	n := int(math.Round(req.SprayIntensity * area))
	if n < 1 && req.SprayIntensity > 0 {
		n = 1
	}
	seen := make(map[point]struct{})
	for i := 0; i < n; i++ {
		var dx, dy int
		for {
			dx = e.rng.Intn(2*r+1) - r
			dy = e.rng.Intn(2*r+1) - r
			if dx*dx+dy*dy <= r*r {
				break
			}
		}
		p := point{req.X + dx, req.Y + dy}
		for _, m := range e.mirrors(p, req.Symmetry) {
			if _, dup := seen[m]; dup {
				continue
			}
			seen[m] = struct{}{}
			e.paint(l, m, req)
		}
	}
}

// mirrors expands a pixel through the symmetry axes. Coinciding mirrors
// are deduplicated by the caller.
func (e *Engine) mirrors(p point, sym Symmetry) []point {
	switch sym {
	case SymmetryVertical:
		return []point{p, {e.axis2X - p.x, p.y}}
	case SymmetryHorizontal:
		return []point{p, {p.x, e.axis2Y - p.y}}
	case SymmetryBoth:
		return []point{
			p,
			{e.axis2X - p.x, p.y},
			{p.x, e.axis2Y - p.y},
			{e.axis2X - p.x, e.axis2Y - p.y},
		}
	}
	return []point{p}
}

// footprint returns the brush offsets for a shape and size.
func footprint(shape Shape, size int) []point {
	r := size / 2
	out := make([]point, 0, (2*r+1)*(2*r+1))
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			if shape == ShapeCircular && dx*dx+dy*dy > r*r {
				continue
			}
			out = append(out, point{dx, dy})
		}
	}
	return out
}

package canvas

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/paintbox/paintbox/pkg/errors"
	"github.com/paintbox/paintbox/pkg/pixel"
)

// OnionSkin holds the stack-level onion-skin preview settings. The
// preview shows the layer directly below the active one; it is applied
// at composite time only and never touches layer data or exports.
type OnionSkin struct {
	Enabled bool
	Opacity float64
}

// Stack is the ordered collection of layers for one project, bottom to
// top, with an active-layer cursor. Invariants: at least one layer
// always exists and the active index is always valid.
type Stack struct {
	width  int
	height int
	layers []*Layer
	active int

	Onion OnionSkin
}

// NewStack creates a stack with a single transparent layer named
// "Layer 1".
func NewStack(width, height int) *Stack {
	return &Stack{
		width:  width,
		height: height,
		layers: []*Layer{NewLayer("Layer 1", width, height)},
		Onion:  OnionSkin{Opacity: 0.3},
	}
}

// Width returns the canvas width shared by all layers.
func (s *Stack) Width() int { return s.width }

// Height returns the canvas height shared by all layers.
func (s *Stack) Height() int { return s.height }

// Len returns the number of layers.
func (s *Stack) Len() int { return len(s.layers) }

// ActiveIndex returns the index of the active layer (0 = bottom).
func (s *Stack) ActiveIndex() int { return s.active }

// SetActiveIndex moves the active cursor, clamping to valid indices.
func (s *Stack) SetActiveIndex(i int) {
	if i < 0 {
		i = 0
	}
	if i >= len(s.layers) {
		i = len(s.layers) - 1
	}
	s.active = i
}

// Active returns the active layer.
func (s *Stack) Active() *Layer { return s.layers[s.active] }

// Layer returns the layer at index i, or nil if out of range.
func (s *Stack) Layer(i int) *Layer {
	if i < 0 || i >= len(s.layers) {
		return nil
	}
	return s.layers[i]
}

// Layers returns the layers bottom to top. The slice is a copy; the
// layers themselves are shared.
func (s *Stack) Layers() []*Layer {
	out := make([]*Layer, len(s.layers))
	copy(out, s.layers)
	return out
}

// ByID finds a layer by its stable identifier.
func (s *Stack) ByID(id uuid.UUID) (*Layer, int, bool) {
	for i, l := range s.layers {
		if l.ID == id {
			return l, i, true
		}
	}
	return nil, 0, false
}

// Composite flattens the stack bottom to top into a single buffer.
// Invisible layers are skipped; each pixel's effective source alpha is
// its own alpha scaled by the layer opacity. When includeOnion is true
// and onion skin is enabled, the layer directly below the active layer
// is blended over the result at the onion opacity. The onion overlay is
// a read-only preview: it never mutates layer data and export callers
// pass includeOnion=false.
func (s *Stack) Composite(includeOnion bool) *Buffer {
	out := NewBuffer(s.width, s.height)
	for _, l := range s.layers {
		if !l.Visible {
			continue
		}
		blendLayer(out, l, l.Opacity)
	}
	if includeOnion && s.Onion.Enabled && s.active > 0 {
		below := s.layers[s.active-1]
		blendLayer(out, below, below.Opacity*s.Onion.Opacity)
	}
	return out
}

// blendLayer blends every non-transparent pixel of l over dst with the
// given extra opacity factor.
func blendLayer(dst *Buffer, l *Layer, opacity float64) {
	if opacity <= 0 {
		return
	}
	pix := l.Pixels()
	for i, c := range pix {
		if c.IsTransparent() {
			continue
		}
		dst.Pix[i] = pixel.Blend(dst.Pix[i], c, opacity)
	}
}

// NewStackWithLayers builds a stack from restored layers, bottom to
// top. Every layer must match the given dimensions and at least one
// layer is required.
func NewStackWithLayers(width, height int, layers []*Layer, active int) (*Stack, error) {
	if len(layers) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "a stack needs at least one layer")
	}
	for _, l := range layers {
		if l.width != width || l.height != height {
			return nil, errors.New(errors.ErrCodeInvalidFormat,
				"layer %q is %dx%d, want %dx%d", l.Name, l.width, l.height, width, height)
		}
	}
	s := &Stack{
		width:  width,
		height: height,
		layers: layers,
		Onion:  OnionSkin{Opacity: 0.3},
	}
	s.SetActiveIndex(active)
	return s, nil
}

// AddLayer inserts a new fully transparent layer directly above the
// active layer and makes it active. It returns the new layer.
func (s *Stack) AddLayer() *Layer {
	l := NewLayer(fmt.Sprintf("Layer %d", len(s.layers)+1), s.width, s.height)
	s.InsertLayer(l, s.active+1)
	return l
}

// InsertLayer inserts l at index i (clamped) and makes it active.
// Used both by AddLayer and by history reversal.
func (s *Stack) InsertLayer(l *Layer, i int) {
	if i < 0 {
		i = 0
	}
	if i > len(s.layers) {
		i = len(s.layers)
	}
	s.layers = append(s.layers, nil)
	copy(s.layers[i+1:], s.layers[i:])
	s.layers[i] = l
	s.active = i
}

// DeleteLayer removes the active layer. The layer that was below it
// becomes active (or the one above when deleting the bottom layer).
// Deleting the last remaining layer is a structural error and leaves
// the stack unchanged.
func (s *Stack) DeleteLayer() (*Layer, int, error) {
	if len(s.layers) <= 1 {
		return nil, 0, errors.New(errors.ErrCodeLastLayer, "cannot delete the only layer")
	}
	i := s.active
	l := s.layers[i]
	s.RemoveLayerAt(i)
	return l, i, nil
}

// RemoveLayerAt removes the layer at index i without the last-layer
// guard. Used by history reversal, which restores a previously captured
// consistent state.
func (s *Stack) RemoveLayerAt(i int) {
	s.layers = append(s.layers[:i], s.layers[i+1:]...)
	if s.active > 0 && s.active >= i {
		s.active--
	}
	if s.active >= len(s.layers) {
		s.active = len(s.layers) - 1
	}
}

// MoveLayer swaps the active layer with its neighbor above (up=true) or
// below. Moving past the top or bottom is a structural error and leaves
// the stack unchanged.
func (s *Stack) MoveLayer(up bool) error {
	j := s.active - 1
	if up {
		j = s.active + 1
	}
	if j < 0 || j >= len(s.layers) {
		return errors.New(errors.ErrCodeLayerBoundary, "cannot move layer past the stack boundary")
	}
	s.layers[s.active], s.layers[j] = s.layers[j], s.layers[s.active]
	s.active = j
	return nil
}

// SwapLayers swaps the layers at indices i and j. Used by history
// reversal.
func (s *Stack) SwapLayers(i, j int) {
	s.layers[i], s.layers[j] = s.layers[j], s.layers[i]
}

// MergeDown composites the active layer over the layer below it using
// the same blend rule as the compositor, replaces the lower layer's
// buffer with the result, and removes the active layer. The merged
// layer becomes active. Merging the bottom layer is a structural error.
//
// The returned layers are deep copies of the pre-merge state (upper
// layer and lower layer) so the operation can be reversed.
func (s *Stack) MergeDown() (upper, lowerBefore *Layer, err error) {
	if s.active == 0 {
		return nil, nil, errors.New(errors.ErrCodeMergeBottom, "cannot merge the bottom layer down")
	}
	up := s.layers[s.active]
	low := s.layers[s.active-1]
	upper = up.Clone()
	lowerBefore = low.Clone()

	for y := 0; y < s.height; y++ {
		for x := 0; x < s.width; x++ {
			src := up.At(x, y)
			if src.IsTransparent() {
				continue
			}
			low.Set(x, y, pixel.Blend(low.At(x, y), src, up.Opacity))
		}
	}
	s.RemoveLayerAt(s.active)
	return upper, lowerBefore, nil
}

// Resize reallocates every layer's buffer to the new dimensions,
// anchored at the origin: pixels outside the new bounds are dropped and
// new area is fully transparent.
func (s *Stack) Resize(width, height int) error {
	if err := errors.ValidateCanvasSize(width, height); err != nil {
		return err
	}
	for _, l := range s.layers {
		l.resize(width, height)
	}
	s.width, s.height = width, height
	return nil
}

// Clone returns a deep copy of the stack, including layer buffers and
// onion settings. Used to take immutable snapshots for export while
// edits continue.
func (s *Stack) Clone() *Stack {
	c := &Stack{
		width:  s.width,
		height: s.height,
		layers: make([]*Layer, len(s.layers)),
		active: s.active,
		Onion:  s.Onion,
	}
	for i, l := range s.layers {
		c.layers[i] = l.Clone()
	}
	return c
}

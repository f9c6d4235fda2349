// Package history implements the linear undo/redo timeline of a
// paintbox editing session.
//
// Every mutation of the layer stack is described by a Record: either a
// batch of per-pixel deltas produced by one stroke, or a structural
// snapshot carrying enough prior state to reverse a layer operation.
// Records are plain data; all reversal logic lives centrally in
// History.Undo and History.Redo, so records stay trivially serializable.
package history

import (
	"github.com/google/uuid"

	"github.com/paintbox/paintbox/pkg/canvas"
	"github.com/paintbox/paintbox/pkg/pixel"
)

// Delta is one reversible pixel write: the position, the color that was
// there before, and the color written. Layers are referenced by stable
// ID because stack indices shift as layers move.
type Delta struct {
	Layer  uuid.UUID
	X, Y   int
	Before pixel.Color
	After  pixel.Color
}

// Kind tags the record variant.
type Kind int

const (
	KindStroke Kind = iota
	KindAddLayer
	KindDeleteLayer
	KindMoveLayer
	KindMergeDown
	KindResize
	KindRename
	KindClear
)

// Record is the minimal reversible description of one user action.
// Which fields are meaningful depends on Kind; unused fields are zero.
// A record is immutable once created and owned by the History.
type Record struct {
	Kind Kind

	// KindStroke: the ordered pixel writes of one tool application.
	Deltas []Delta

	// Structural fields.
	Index     int           // stack index the operation happened at
	PrevIndex int           // active index before the operation
	Layer     *canvas.Layer // captured layer (deleted/added/upper-of-merge)
	Lower     *canvas.Layer // pre-merge clone of the lower layer

	// KindMoveLayer.
	Up bool

	// KindResize.
	OldWidth, OldHeight int
	NewWidth, NewHeight int
	OldBuffers          map[uuid.UUID][]pixel.Color

	// KindRename and KindClear target.
	LayerID uuid.UUID

	// KindRename.
	OldName, NewName string

	// KindClear: the layer's pixels before clearing.
	OldPixels []pixel.Color
}

// Stroke builds a pixel-batch record. Returns nil for an empty delta
// list: no-op applications (e.g. a fill whose target already matches)
// must not enter the history.
func Stroke(deltas []Delta) *Record {
	if len(deltas) == 0 {
		return nil
	}
	return &Record{Kind: KindStroke, Deltas: deltas}
}

// AddLayer records the insertion of layer l at index i.
func AddLayer(l *canvas.Layer, i, prevActive int) *Record {
	return &Record{Kind: KindAddLayer, Layer: l, Index: i, PrevIndex: prevActive}
}

// DeleteLayer records the removal of captured layer l from index i.
func DeleteLayer(l *canvas.Layer, i, prevActive int) *Record {
	return &Record{Kind: KindDeleteLayer, Layer: l, Index: i, PrevIndex: prevActive}
}

// MoveLayer records a swap of the active layer from index from, moving
// up or down.
func MoveLayer(from int, up bool) *Record {
	return &Record{Kind: KindMoveLayer, Index: from, Up: up}
}

// MergeDown records a merge of the layer at index i into the one below.
// upper and lowerBefore are deep copies of the pre-merge layers.
func MergeDown(upper, lowerBefore *canvas.Layer, i int) *Record {
	return &Record{Kind: KindMergeDown, Layer: upper, Lower: lowerBefore, Index: i}
}

// Resize records a canvas resize with every layer's prior buffer.
func Resize(oldW, oldH, newW, newH int, oldBuffers map[uuid.UUID][]pixel.Color) *Record {
	return &Record{
		Kind:       KindResize,
		OldWidth:   oldW,
		OldHeight:  oldH,
		NewWidth:   newW,
		NewHeight:  newH,
		OldBuffers: oldBuffers,
	}
}

// Rename records a layer rename.
func Rename(id uuid.UUID, oldName, newName string) *Record {
	return &Record{Kind: KindRename, LayerID: id, OldName: oldName, NewName: newName}
}

// Clear records the wipe of a layer, capturing its prior pixels.
func Clear(id uuid.UUID, oldPixels []pixel.Color) *Record {
	return &Record{Kind: KindClear, LayerID: id, OldPixels: oldPixels}
}

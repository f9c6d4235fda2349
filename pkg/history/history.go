package history

import (
	"github.com/paintbox/paintbox/pkg/canvas"
	"github.com/paintbox/paintbox/pkg/errors"
	"github.com/paintbox/paintbox/pkg/pixel"
)

// DefaultDepth is the default bound on the undo stack.
const DefaultDepth = 100

// History holds the linear edit timeline: an undo stack of applied
// records and a redo stack of undone ones. Recording a new edit after
// an undo discards the redo stack (no branching timelines). The undo
// stack is bounded: exceeding the configured depth evicts the oldest
// record atomically with the push, making it permanently un-undoable.
type History struct {
	past   []*Record
	future []*Record
	depth  int
}

// New creates a history bounded to depth records. A depth below 1 falls
// back to DefaultDepth.
func New(depth int) *History {
	if depth < 1 {
		depth = DefaultDepth
	}
	return &History{depth: depth}
}

// Len returns the number of undoable records.
func (h *History) Len() int { return len(h.past) }

// RedoLen returns the number of redoable records.
func (h *History) RedoLen() int { return len(h.future) }

// Record pushes r onto the undo stack and clears the redo stack.
// Nil records (no-op edits) are ignored.
func (h *History) Record(r *Record) {
	if r == nil {
		return
	}
	if len(h.past) >= h.depth {
		n := copy(h.past, h.past[len(h.past)-h.depth+1:])
		h.past = h.past[:n]
	}
	h.past = append(h.past, r)
	h.future = h.future[:0]
}

// Undo reverses the most recent record against s and moves it to the
// redo stack. An empty undo stack is reported as HISTORY_EMPTY; the
// caller shows a status message rather than failing.
func (h *History) Undo(s *canvas.Stack) error {
	if len(h.past) == 0 {
		return errors.New(errors.ErrCodeHistoryEmpty, "nothing to undo")
	}
	r := h.past[len(h.past)-1]
	if err := h.revert(s, r); err != nil {
		return err
	}
	h.past = h.past[:len(h.past)-1]
	h.future = append(h.future, r)
	return nil
}

// Redo re-applies the most recently undone record against s and moves
// it back to the undo stack. An empty redo stack is reported as
// HISTORY_EMPTY.
func (h *History) Redo(s *canvas.Stack) error {
	if len(h.future) == 0 {
		return errors.New(errors.ErrCodeHistoryEmpty, "nothing to redo")
	}
	r := h.future[len(h.future)-1]
	if err := h.apply(s, r); err != nil {
		return err
	}
	h.future = h.future[:len(h.future)-1]
	h.past = append(h.past, r)
	return nil
}

// revert applies a record backwards. Pixel deltas are written in
// reverse order so overlapping writes within one record (symmetry
// mirrors that coincide when protection is off) unwind correctly.
func (h *History) revert(s *canvas.Stack, r *Record) error {
	switch r.Kind {
	case KindStroke:
		for i := len(r.Deltas) - 1; i >= 0; i-- {
			d := r.Deltas[i]
			l, _, ok := s.ByID(d.Layer)
			if !ok {
				return errors.New(errors.ErrCodeLayerNotFound, "stroke target layer is gone")
			}
			l.Set(d.X, d.Y, d.Before)
		}
	case KindAddLayer:
		s.RemoveLayerAt(r.Index)
		s.SetActiveIndex(r.PrevIndex)
	case KindDeleteLayer:
		s.InsertLayer(r.Layer, r.Index)
		s.SetActiveIndex(r.PrevIndex)
	case KindMoveLayer:
		to := r.Index - 1
		if r.Up {
			to = r.Index + 1
		}
		s.SwapLayers(r.Index, to)
		s.SetActiveIndex(r.Index)
	case KindMergeDown:
		low, i, ok := s.ByID(r.Lower.ID)
		if !ok {
			return errors.New(errors.ErrCodeLayerNotFound, "merge target layer is gone")
		}
		restore := make([]pixel.Color, len(r.Lower.Pixels()))
		copy(restore, r.Lower.Pixels())
		if err := low.SetPixels(restore); err != nil {
			return errors.Wrap(errors.ErrCodeInternal, err, "restoring merged layer")
		}
		s.InsertLayer(r.Layer.Clone(), i+1)
	case KindResize:
		if err := s.Resize(r.OldWidth, r.OldHeight); err != nil {
			return err
		}
		for _, l := range s.Layers() {
			if old, ok := r.OldBuffers[l.ID]; ok {
				restore := make([]pixel.Color, len(old))
				copy(restore, old)
				if err := l.SetPixels(restore); err != nil {
					return errors.Wrap(errors.ErrCodeInternal, err, "restoring resized layer")
				}
			}
		}
	case KindRename:
		l, _, ok := s.ByID(r.LayerID)
		if !ok {
			return errors.New(errors.ErrCodeLayerNotFound, "renamed layer is gone")
		}
		l.Name = r.OldName
	case KindClear:
		l, _, ok := s.ByID(r.LayerID)
		if !ok {
			return errors.New(errors.ErrCodeLayerNotFound, "cleared layer is gone")
		}
		restore := make([]pixel.Color, len(r.OldPixels))
		copy(restore, r.OldPixels)
		if err := l.SetPixels(restore); err != nil {
			return errors.Wrap(errors.ErrCodeInternal, err, "restoring cleared layer")
		}
	}
	return nil
}

// apply re-applies a record forwards. Pixel deltas are written in their
// original order; structural operations replay deterministically
// against the state Undo restored.
func (h *History) apply(s *canvas.Stack, r *Record) error {
	switch r.Kind {
	case KindStroke:
		for _, d := range r.Deltas {
			l, _, ok := s.ByID(d.Layer)
			if !ok {
				return errors.New(errors.ErrCodeLayerNotFound, "stroke target layer is gone")
			}
			l.Set(d.X, d.Y, d.After)
		}
	case KindAddLayer:
		s.InsertLayer(r.Layer, r.Index)
	case KindDeleteLayer:
		s.RemoveLayerAt(r.Index)
	case KindMoveLayer:
		s.SetActiveIndex(r.Index)
		if err := s.MoveLayer(r.Up); err != nil {
			return err
		}
	case KindMergeDown:
		s.SetActiveIndex(r.Index)
		if _, _, err := s.MergeDown(); err != nil {
			return err
		}
	case KindResize:
		if err := s.Resize(r.NewWidth, r.NewHeight); err != nil {
			return err
		}
	case KindRename:
		l, _, ok := s.ByID(r.LayerID)
		if !ok {
			return errors.New(errors.ErrCodeLayerNotFound, "renamed layer is gone")
		}
		l.Name = r.NewName
	case KindClear:
		l, _, ok := s.ByID(r.LayerID)
		if !ok {
			return errors.New(errors.ErrCodeLayerNotFound, "cleared layer is gone")
		}
		l.Clear()
	}
	return nil
}

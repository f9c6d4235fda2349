package history

import (
	"testing"

	"github.com/google/uuid"

	"github.com/paintbox/paintbox/pkg/canvas"
	"github.com/paintbox/paintbox/pkg/errors"
	"github.com/paintbox/paintbox/pkg/pixel"
)

// write applies a single-pixel stroke record to the stack and returns it.
func write(t *testing.T, h *History, s *canvas.Stack, x, y int, c pixel.Color) *Record {
	t.Helper()
	l := s.Active()
	r := Stroke([]Delta{{Layer: l.ID, X: x, Y: y, Before: l.At(x, y), After: c}})
	l.Set(x, y, c)
	h.Record(r)
	return r
}

func TestUndoRedoRoundTrip(t *testing.T) {
	s := canvas.NewStack(4, 4)
	h := New(10)

	colors := []pixel.Color{
		pixel.RGB(255, 0, 0),
		pixel.RGB(0, 255, 0),
		pixel.RGB(0, 0, 255),
	}
	for i, c := range colors {
		write(t, h, s, i, 0, c)
	}

	// N undos restore the pre-edit buffer byte-for-byte.
	for range colors {
		if err := h.Undo(s); err != nil {
			t.Fatalf("Undo: %v", err)
		}
	}
	for i := range colors {
		if got := s.Active().At(i, 0); !got.IsTransparent() {
			t.Errorf("pixel (%d,0) = %v after full undo, want transparent", i, got)
		}
	}

	// N redos restore the post-edit state.
	for range colors {
		if err := h.Redo(s); err != nil {
			t.Fatalf("Redo: %v", err)
		}
	}
	for i, c := range colors {
		if got := s.Active().At(i, 0); got != c {
			t.Errorf("pixel (%d,0) = %v after full redo, want %v", i, got, c)
		}
	}
}

func TestUndoReversesOverlappingDeltasInOrder(t *testing.T) {
	s := canvas.NewStack(2, 2)
	h := New(10)
	l := s.Active()

	// One record writes the same pixel twice (protection off): undo must
	// unwind in reverse so the original color comes back.
	a := pixel.RGB(10, 10, 10)
	b := pixel.RGB(20, 20, 20)
	r := Stroke([]Delta{
		{Layer: l.ID, X: 0, Y: 0, Before: pixel.Transparent, After: a},
		{Layer: l.ID, X: 0, Y: 0, Before: a, After: b},
	})
	l.Set(0, 0, a)
	l.Set(0, 0, b)
	h.Record(r)

	if err := h.Undo(s); err != nil {
		t.Fatalf("Undo: %v", err)
	}
	if got := l.At(0, 0); !got.IsTransparent() {
		t.Errorf("pixel = %v after undo, want transparent", got)
	}
	if err := h.Redo(s); err != nil {
		t.Fatalf("Redo: %v", err)
	}
	if got := l.At(0, 0); got != b {
		t.Errorf("pixel = %v after redo, want %v", got, b)
	}
}

func TestEmptyStacksReportUnderflow(t *testing.T) {
	s := canvas.NewStack(2, 2)
	h := New(10)
	if err := h.Undo(s); !errors.Is(err, errors.ErrCodeHistoryEmpty) {
		t.Errorf("Undo on empty = %v, want HISTORY_EMPTY", err)
	}
	if err := h.Redo(s); !errors.Is(err, errors.ErrCodeHistoryEmpty) {
		t.Errorf("Redo on empty = %v, want HISTORY_EMPTY", err)
	}
}

func TestRecordClearsRedo(t *testing.T) {
	s := canvas.NewStack(2, 2)
	h := New(10)
	write(t, h, s, 0, 0, pixel.White)
	if err := h.Undo(s); err != nil {
		t.Fatalf("Undo: %v", err)
	}
	write(t, h, s, 1, 1, pixel.Black)
	if h.RedoLen() != 0 {
		t.Errorf("RedoLen = %d after new record, want 0 (linear timeline)", h.RedoLen())
	}
}

func TestDepthEviction(t *testing.T) {
	s := canvas.NewStack(8, 1)
	h := New(3)

	for i := 0; i < 4; i++ {
		write(t, h, s, i, 0, pixel.RGB(uint8(i+1), 0, 0))
	}
	if h.Len() != 3 {
		t.Fatalf("Len = %d, want 3 after eviction", h.Len())
	}

	// The three most recent edits unwind; the oldest is permanent.
	for i := 0; i < 3; i++ {
		if err := h.Undo(s); err != nil {
			t.Fatalf("Undo %d: %v", i, err)
		}
	}
	if err := h.Undo(s); !errors.Is(err, errors.ErrCodeHistoryEmpty) {
		t.Errorf("fourth undo = %v, want HISTORY_EMPTY", err)
	}
	if got := s.Active().At(0, 0); got != pixel.RGB(1, 0, 0) {
		t.Errorf("evicted edit should be permanent, pixel = %v", got)
	}
	if got := s.Active().At(1, 0); !got.IsTransparent() {
		t.Errorf("recent edits should be undone, pixel = %v", got)
	}
}

func TestEmptyStrokeNotRecorded(t *testing.T) {
	h := New(10)
	h.Record(Stroke(nil))
	if h.Len() != 0 {
		t.Errorf("empty stroke must not enter history, Len = %d", h.Len())
	}
}

func TestStructuralAddDelete(t *testing.T) {
	s := canvas.NewStack(2, 2)
	h := New(10)

	prev := s.ActiveIndex()
	added := s.AddLayer()
	h.Record(AddLayer(added, s.ActiveIndex(), prev))

	deleted, idx, err := s.DeleteLayer()
	if err != nil {
		t.Fatalf("DeleteLayer: %v", err)
	}
	h.Record(DeleteLayer(deleted, idx, idx))

	// Undo delete: layer resurrected at its captured index.
	if err := h.Undo(s); err != nil {
		t.Fatalf("Undo delete: %v", err)
	}
	if s.Len() != 2 || s.Layer(1).ID != added.ID {
		t.Fatalf("undo delete should reinsert the captured layer at index 1")
	}

	// Undo add: back to a single layer.
	if err := h.Undo(s); err != nil {
		t.Fatalf("Undo add: %v", err)
	}
	if s.Len() != 1 {
		t.Fatalf("Len = %d after undoing add, want 1", s.Len())
	}

	// Redo both.
	if err := h.Redo(s); err != nil {
		t.Fatalf("Redo add: %v", err)
	}
	if s.Len() != 2 {
		t.Fatalf("Len = %d after redoing add, want 2", s.Len())
	}
	if err := h.Redo(s); err != nil {
		t.Fatalf("Redo delete: %v", err)
	}
	if s.Len() != 1 {
		t.Fatalf("Len = %d after redoing delete, want 1", s.Len())
	}
}

func TestStructuralMergeDown(t *testing.T) {
	s := canvas.NewStack(1, 1)
	h := New(10)
	red := pixel.RGB(255, 0, 0)
	blue50 := pixel.Color{B: 255, A: 128}
	s.Active().Set(0, 0, red)
	top := s.AddLayer()
	top.Set(0, 0, blue50)
	topID := top.ID

	idx := s.ActiveIndex()
	upper, lowerBefore, err := s.MergeDown()
	if err != nil {
		t.Fatalf("MergeDown: %v", err)
	}
	h.Record(MergeDown(upper, lowerBefore, idx))
	merged := s.Active().At(0, 0)

	if err := h.Undo(s); err != nil {
		t.Fatalf("Undo merge: %v", err)
	}
	if s.Len() != 2 {
		t.Fatalf("Len = %d after undo, want 2", s.Len())
	}
	if got := s.Layer(0).At(0, 0); got != red {
		t.Errorf("lower layer = %v after undo, want %v", got, red)
	}
	if got := s.Layer(1).At(0, 0); got != blue50 {
		t.Errorf("upper layer = %v after undo, want %v", got, blue50)
	}
	if s.Layer(1).ID != topID {
		t.Errorf("resurrected upper layer should keep its ID")
	}

	if err := h.Redo(s); err != nil {
		t.Fatalf("Redo merge: %v", err)
	}
	if s.Len() != 1 || s.Active().At(0, 0) != merged {
		t.Errorf("redo should reproduce the merged state")
	}
}

func TestStructuralResize(t *testing.T) {
	s := canvas.NewStack(3, 3)
	h := New(10)
	s.Active().Set(2, 2, pixel.White)

	old := map[uuid.UUID][]pixel.Color{}
	for _, l := range s.Layers() {
		buf := make([]pixel.Color, len(l.Pixels()))
		copy(buf, l.Pixels())
		old[l.ID] = buf
	}
	if err := s.Resize(2, 2); err != nil {
		t.Fatalf("Resize: %v", err)
	}
	h.Record(Resize(3, 3, 2, 2, old))

	if err := h.Undo(s); err != nil {
		t.Fatalf("Undo resize: %v", err)
	}
	if s.Width() != 3 || s.Height() != 3 {
		t.Fatalf("dims = %dx%d after undo, want 3x3", s.Width(), s.Height())
	}
	if got := s.Active().At(2, 2); got != pixel.White {
		t.Errorf("cropped pixel = %v after undo, want white", got)
	}

	if err := h.Redo(s); err != nil {
		t.Fatalf("Redo resize: %v", err)
	}
	if s.Width() != 2 || s.Height() != 2 {
		t.Errorf("dims = %dx%d after redo, want 2x2", s.Width(), s.Height())
	}
}

func TestRenameAndClear(t *testing.T) {
	s := canvas.NewStack(2, 2)
	h := New(10)
	l := s.Active()
	l.Set(0, 0, pixel.White)

	h.Record(Rename(l.ID, l.Name, "Sketch"))
	l.Name = "Sketch"

	old := make([]pixel.Color, len(l.Pixels()))
	copy(old, l.Pixels())
	h.Record(Clear(l.ID, old))
	l.Clear()

	if err := h.Undo(s); err != nil {
		t.Fatalf("Undo clear: %v", err)
	}
	if got := l.At(0, 0); got != pixel.White {
		t.Errorf("pixel = %v after undoing clear, want white", got)
	}
	if err := h.Undo(s); err != nil {
		t.Fatalf("Undo rename: %v", err)
	}
	if l.Name != "Layer 1" {
		t.Errorf("name = %q after undoing rename, want Layer 1", l.Name)
	}
	if err := h.Redo(s); err != nil {
		t.Fatalf("Redo rename: %v", err)
	}
	if l.Name != "Sketch" {
		t.Errorf("name = %q after redo, want Sketch", l.Name)
	}
}

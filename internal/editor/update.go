package editor

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/paintbox/paintbox/pkg/errors"
	"github.com/paintbox/paintbox/pkg/history"
	"github.com/paintbox/paintbox/pkg/palette"
	"github.com/paintbox/paintbox/pkg/pixel"
	"github.com/paintbox/paintbox/pkg/stroke"
)

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.termWidth, m.termHeight = msg.Width, msg.Height
	case sprayTickMsg:
		if m.penDown && m.tool == stroke.ToolSpray {
			m.applyAt(m.cursorX, m.cursorY)
			return m, sprayTick()
		}
	case autosaveTickMsg:
		// Never save mid-stroke; the next tick catches up.
		if m.dirty && !m.penDown {
			m.save()
		}
		return m, m.autosaveTick()
	case tea.MouseMsg:
		return m.updateMouse(msg)
	case tea.KeyMsg:
		if m.mode == modeRename {
			m.updateRename(msg)
			return m, nil
		}
		return m.updateKey(msg)
	}
	return m, nil
}

func (m *Model) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.commitStroke()
		return m, tea.Quit

	// Cursor movement. While the pen is down, moving paints.
	case "left", "h":
		m.moveCursor(-1, 0)
	case "right", "l":
		m.moveCursor(1, 0)
	case "up", "k":
		m.moveCursor(0, -1)
	case "down", "j":
		m.moveCursor(0, 1)

	case " ":
		// Single stamp: one application, one history record.
		if m.tool == stroke.ToolColorPick {
			m.pickColor()
			return m, nil
		}
		m.applyAt(m.cursorX, m.cursorY)
		if !m.penDown {
			m.commitStroke()
		}
	case "b":
		m.penDown = !m.penDown
		if m.penDown {
			if m.tool == stroke.ToolColorPick {
				m.penDown = false
				m.pickColor()
				return m, nil
			}
			m.applyAt(m.cursorX, m.cursorY)
			if m.tool == stroke.ToolSpray {
				return m, sprayTick()
			}
		} else {
			m.commitStroke()
		}

	// Tools.
	case "1":
		m.setTool(stroke.ToolDraw)
	case "2":
		m.setTool(stroke.ToolErase)
	case "3":
		m.setTool(stroke.ToolFill)
	case "4":
		m.setTool(stroke.ToolSpray)
	case "5":
		m.setTool(stroke.ToolShadeLighten)
	case "6":
		m.setTool(stroke.ToolShadeDarken)
	case "p":
		m.pickColor()

	// Pen.
	case "]":
		if m.penSize < 256 {
			m.penSize++
		}
		m.status = fmt.Sprintf("pen size %d", m.penSize)
	case "[":
		if m.penSize > 1 {
			m.penSize--
		}
		m.status = fmt.Sprintf("pen size %d", m.penSize)
	case "}":
		m.opacity = clampf(m.opacity+0.1, 0, 1)
		m.status = fmt.Sprintf("opacity %.0f%%", m.opacity*100)
	case "{":
		m.opacity = clampf(m.opacity-0.1, 0, 1)
		m.status = fmt.Sprintf("opacity %.0f%%", m.opacity*100)
	case "s":
		if m.shape == stroke.ShapeCircular {
			m.shape = stroke.ShapeSquare
			m.status = "square pen"
		} else {
			m.shape = stroke.ShapeCircular
			m.status = "circular pen"
		}
	case "P":
		m.commitStroke()
		m.engine.SetProtect(!m.engine.Protect())
		if m.engine.Protect() {
			m.status = "stroke protection on"
		} else {
			m.status = "stroke protection off"
		}

	// Symmetry.
	case "y":
		m.symmetry = (m.symmetry + 1) % 4
		m.status = "symmetry " + symmetryName(m.symmetry)
	case ".":
		m.engine.AdjustSymmetry(m.stack, 1, 0)
		m.status = "symmetry axis moved right"
	case ",":
		m.engine.AdjustSymmetry(m.stack, -1, 0)
		m.status = "symmetry axis moved left"
	case ">":
		m.engine.AdjustSymmetry(m.stack, 0, 1)
		m.status = "symmetry axis moved down"
	case "<":
		m.engine.AdjustSymmetry(m.stack, 0, -1)
		m.status = "symmetry axis moved up"

	// Palette.
	case "c":
		m.colorIdx++
		m.status = "color " + m.color().Name
	case "C":
		m.colorIdx--
		m.status = "color " + m.color().Name

	// History.
	case "u":
		m.commitStroke()
		if err := m.hist.Undo(m.stack); err != nil {
			m.status = errors.UserMessage(err)
		} else {
			m.dirty = true
			m.status = "undo"
		}
		m.clampCursor()
	case "ctrl+r":
		m.commitStroke()
		if err := m.hist.Redo(m.stack); err != nil {
			m.status = errors.UserMessage(err)
		} else {
			m.dirty = true
			m.status = "redo"
		}
		m.clampCursor()

	// Layers.
	case "a":
		m.commitStroke()
		prev := m.stack.ActiveIndex()
		l := m.stack.AddLayer()
		m.hist.Record(history.AddLayer(l, m.stack.ActiveIndex(), prev))
		m.dirty = true
		m.status = "added " + l.Name
	case "x":
		m.commitStroke()
		prev := m.stack.ActiveIndex()
		l, i, err := m.stack.DeleteLayer()
		if err != nil {
			m.status = errors.UserMessage(err)
			break
		}
		m.hist.Record(history.DeleteLayer(l, i, prev))
		m.dirty = true
		m.status = "deleted " + l.Name
	case "K":
		m.moveLayer(true)
	case "J":
		m.moveLayer(false)
	case "m":
		m.commitStroke()
		i := m.stack.ActiveIndex()
		upper, lower, err := m.stack.MergeDown()
		if err != nil {
			m.status = errors.UserMessage(err)
			break
		}
		m.hist.Record(history.MergeDown(upper, lower, i))
		m.dirty = true
		m.status = "merged " + upper.Name + " down"
	case "tab":
		m.stack.SetActiveIndex(m.stack.ActiveIndex() + 1)
		m.status = "active: " + m.stack.Active().Name
	case "shift+tab":
		m.stack.SetActiveIndex(m.stack.ActiveIndex() - 1)
		m.status = "active: " + m.stack.Active().Name
	case "+", "=":
		l := m.stack.Active()
		l.Opacity = clampf(l.Opacity+0.1, 0, 1)
		m.dirty = true
		m.status = fmt.Sprintf("%s opacity %.0f%%", l.Name, l.Opacity*100)
	case "-", "_":
		l := m.stack.Active()
		l.Opacity = clampf(l.Opacity-0.1, 0, 1)
		m.dirty = true
		m.status = fmt.Sprintf("%s opacity %.0f%%", l.Name, l.Opacity*100)
	case "v":
		l := m.stack.Active()
		l.Visible = !l.Visible
		m.dirty = true
		if l.Visible {
			m.status = l.Name + " visible"
		} else {
			m.status = l.Name + " hidden"
		}
	case "o":
		m.stack.Onion.Enabled = !m.stack.Onion.Enabled
		if m.stack.Onion.Enabled {
			m.status = "onion skin on"
		} else {
			m.status = "onion skin off"
		}
	case "R":
		m.commitStroke()
		m.mode = modeRename
		m.renameBuf = m.stack.Active().Name
	case "ctrl+l":
		m.commitStroke()
		l := m.stack.Active()
		old := make([]pixel.Color, len(l.Pixels()))
		copy(old, l.Pixels())
		l.Clear()
		m.hist.Record(history.Clear(l.ID, old))
		m.dirty = true
		m.status = "cleared " + l.Name

	// Canvas resize, one pixel at a time.
	case "ctrl+right":
		m.resizeCanvas(m.stack.Width()+1, m.stack.Height())
	case "ctrl+left":
		m.resizeCanvas(m.stack.Width()-1, m.stack.Height())
	case "ctrl+down":
		m.resizeCanvas(m.stack.Width(), m.stack.Height()+1)
	case "ctrl+up":
		m.resizeCanvas(m.stack.Width(), m.stack.Height()-1)

	case "ctrl+s", "w":
		m.commitStroke()
		m.save()
	}
	return m, nil
}

func (m *Model) updateMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	x, y, ok := m.cellToPixel(msg.X, msg.Y)
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		if m.penSize < 256 {
			m.penSize++
		}
		return m, nil
	case tea.MouseButtonWheelDown:
		if m.penSize > 1 {
			m.penSize--
		}
		return m, nil
	}
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft || !ok {
			return m, nil
		}
		m.cursorX, m.cursorY = x, y
		if m.tool == stroke.ToolColorPick {
			m.pickColor()
			return m, nil
		}
		m.penDown = true
		m.applyAt(x, y)
		if m.tool == stroke.ToolSpray {
			return m, sprayTick()
		}
	case tea.MouseActionMotion:
		if m.penDown && ok {
			m.cursorX, m.cursorY = x, y
			m.applyAt(x, y)
		}
	case tea.MouseActionRelease:
		if m.penDown {
			m.penDown = false
			m.commitStroke()
		}
	}
	return m, nil
}

func (m *Model) updateRename(msg tea.KeyMsg) {
	switch msg.Type {
	case tea.KeyEnter:
		if err := errors.ValidateLayerName(m.renameBuf); err != nil {
			m.status = errors.UserMessage(err)
			return
		}
		l := m.stack.Active()
		if m.renameBuf != l.Name {
			m.hist.Record(history.Rename(l.ID, l.Name, m.renameBuf))
			l.Name = m.renameBuf
			m.dirty = true
		}
		m.mode = modePaint
		m.status = "renamed to " + l.Name
	case tea.KeyEsc:
		m.mode = modePaint
		m.status = "rename cancelled"
	case tea.KeyBackspace:
		if len(m.renameBuf) > 0 {
			runes := []rune(m.renameBuf)
			m.renameBuf = string(runes[:len(runes)-1])
		}
	case tea.KeyRunes, tea.KeySpace:
		m.renameBuf += string(msg.Runes)
		if msg.Type == tea.KeySpace {
			m.renameBuf += " "
		}
	}
}

// moveCursor shifts the cursor, painting when the pen is down.
func (m *Model) moveCursor(dx, dy int) {
	nx, ny := m.cursorX+dx, m.cursorY+dy
	if nx < 0 || nx >= m.stack.Width() || ny < 0 || ny >= m.stack.Height() {
		return
	}
	m.cursorX, m.cursorY = nx, ny
	if m.penDown && m.tool != stroke.ToolColorPick {
		m.applyAt(nx, ny)
	}
}

func (m *Model) clampCursor() {
	if m.cursorX >= m.stack.Width() {
		m.cursorX = m.stack.Width() - 1
	}
	if m.cursorY >= m.stack.Height() {
		m.cursorY = m.stack.Height() - 1
	}
}

func (m *Model) setTool(t stroke.Tool) {
	if m.penDown {
		m.penDown = false
		m.commitStroke()
	}
	m.tool = t
	m.status = "tool: " + t.String()
}

// applyAt runs the current tool at a canvas position as part of the
// ongoing stroke.
func (m *Model) applyAt(x, y int) {
	if err := m.engine.Apply(m.stack, m.request(x, y)); err != nil {
		m.status = errors.UserMessage(err)
	}
}

// commitStroke finishes the in-progress stroke, if any, and pushes its
// record onto the history.
func (m *Model) commitStroke() {
	if r := m.engine.End(); r != nil {
		m.hist.Record(r)
		m.dirty = true
	}
}

// pickColor selects the raw active-layer pixel under the cursor,
// harvesting off-palette colors into the session palette.
func (m *Model) pickColor() {
	c, ok := m.engine.Pick(m.stack, m.cursorX, m.cursorY)
	if !ok {
		return
	}
	if c.IsTransparent() {
		m.status = "picked transparency, color unchanged"
		return
	}
	for i, e := range m.pal.Entries {
		if e.Color == c {
			m.colorIdx = i
			m.status = "picked " + e.Name
			return
		}
	}
	m.pal.Entries = append(m.pal.Entries, palette.Entry{Name: c.Hex(), Color: c})
	m.colorIdx = m.pal.Len() - 1
	m.status = "picked " + c.Hex()
}

func (m *Model) moveLayer(up bool) {
	m.commitStroke()
	from := m.stack.ActiveIndex()
	if err := m.stack.MoveLayer(up); err != nil {
		m.status = errors.UserMessage(err)
		return
	}
	m.hist.Record(history.MoveLayer(from, up))
	m.dirty = true
	if up {
		m.status = "moved layer up"
	} else {
		m.status = "moved layer down"
	}
}

func (m *Model) resizeCanvas(w, h int) {
	m.commitStroke()
	oldW, oldH := m.stack.Width(), m.stack.Height()
	old := make(map[uuid.UUID][]pixel.Color, m.stack.Len())
	for _, l := range m.stack.Layers() {
		buf := make([]pixel.Color, len(l.Pixels()))
		copy(buf, l.Pixels())
		old[l.ID] = buf
	}
	if err := m.stack.Resize(w, h); err != nil {
		m.status = errors.UserMessage(err)
		return
	}
	m.hist.Record(history.Resize(oldW, oldH, w, h, old))
	m.dirty = true
	m.clampCursor()
	m.status = fmt.Sprintf("canvas %dx%d", w, h)
}

func symmetryName(s stroke.Symmetry) string {
	switch s {
	case stroke.SymmetryVertical:
		return "vertical"
	case stroke.SymmetryHorizontal:
		return "horizontal"
	case stroke.SymmetryBoth:
		return "both"
	}
	return "off"
}

func clampf(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

package editor

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/paintbox/paintbox/pkg/pixel"
)

// Canvas placement inside the frame: one border cell on each side.
const (
	canvasOriginX = 1
	canvasOriginY = 1
)

var (
	colorAccent = lipgloss.Color("36")
	colorText   = lipgloss.Color("255")
	colorMuted  = lipgloss.Color("245")
	colorFaint  = lipgloss.Color("240")
	colorAlert  = lipgloss.Color("220")

	styleTitle  = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	styleLabel  = lipgloss.NewStyle().Foreground(colorMuted)
	styleValue  = lipgloss.NewStyle().Foreground(colorText)
	styleFaint  = lipgloss.NewStyle().Foreground(colorFaint)
	styleActive = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	styleAlert  = lipgloss.NewStyle().Foreground(colorAlert)

	styleCanvasFrame = lipgloss.NewStyle().
				Border(lipgloss.NormalBorder()).
				BorderForeground(colorFaint)
)

// Transparency checkerboard, alternating by pixel parity.
var (
	checkerA = pixel.RGB(58, 58, 58)
	checkerB = pixel.RGB(46, 46, 46)
)

// View implements tea.Model. Two canvas pixels share one terminal cell
// via the upper-half-block glyph: the foreground paints the top pixel,
// the background the bottom one.
func (m *Model) View() string {
	frame := styleCanvasFrame.Render(m.renderCanvas())
	panel := m.renderPanel()
	body := lipgloss.JoinHorizontal(lipgloss.Top, frame, "  ", panel)
	return body + "\n" + m.renderStatus()
}

func (m *Model) renderCanvas() string {
	w, h := m.stack.Width(), m.stack.Height()
	comp := m.stack.Composite(true)

	var b strings.Builder
	for cy := 0; cy < (h+1)/2; cy++ {
		if cy > 0 {
			b.WriteByte('\n')
		}
		for x := 0; x < w; x++ {
			topY := cy * 2
			botY := topY + 1
			top := m.displayColor(comp.At(x, topY), x, topY)
			bot := checkerA
			if botY < h {
				bot = m.displayColor(comp.At(x, botY), x, botY)
			}
			st := lipgloss.NewStyle().
				Foreground(m.termColor(top)).
				Background(m.termColor(bot))
			if x == m.cursorX && (topY == m.cursorY || botY == m.cursorY) {
				st = st.Reverse(true)
			}
			b.WriteString(st.Render("▀"))
		}
	}
	return b.String()
}

// displayColor flattens a composited pixel over the transparency
// checkerboard so the terminal always gets an opaque color.
func (m *Model) displayColor(c pixel.Color, x, y int) pixel.Color {
	bg := checkerA
	if (x+y)%2 == 1 {
		bg = checkerB
	}
	return pixel.Blend(bg, c, 1)
}

func (m *Model) termColor(c pixel.Color) lipgloss.Color {
	if m.trueColor {
		return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B))
	}
	return lipgloss.Color(strconv.Itoa(int(pixel.QuantizeANSI256(c))))
}

func (m *Model) renderPanel() string {
	var b strings.Builder

	title := m.path
	if m.dirty {
		title += " *"
	}
	b.WriteString(styleTitle.Render("paintbox") + "  " + styleFaint.Render(title) + "\n\n")

	entry := m.color()
	swatch := lipgloss.NewStyle().Foreground(m.termColor(entry.Color)).Render("██")
	b.WriteString(styleLabel.Render("tool     ") + styleValue.Render(m.tool.String()) + "\n")
	b.WriteString(styleLabel.Render("color    ") + swatch + " " + styleValue.Render(entry.Name) + " " + styleFaint.Render(entry.Color.Hex()) + "\n")
	b.WriteString(styleLabel.Render("pen      ") + styleValue.Render(fmt.Sprintf("%d %s", m.penSize, m.shape)) + "\n")
	b.WriteString(styleLabel.Render("opacity  ") + styleValue.Render(fmt.Sprintf("%.0f%%", m.opacity*100)) + "\n")
	b.WriteString(styleLabel.Render("symmetry ") + styleValue.Render(symmetryName(m.symmetry)) + "\n")
	b.WriteString(styleLabel.Render("cursor   ") + styleValue.Render(fmt.Sprintf("%d,%d", m.cursorX, m.cursorY)) + "\n\n")

	// Palette row.
	var pal strings.Builder
	for i, e := range m.pal.Entries {
		sw := lipgloss.NewStyle().Foreground(m.termColor(e.Color))
		if i == ((m.colorIdx%m.pal.Len())+m.pal.Len())%m.pal.Len() {
			sw = sw.Underline(true)
		}
		pal.WriteString(sw.Render("██"))
	}
	b.WriteString(pal.String() + "\n\n")

	// Layers, top to bottom.
	b.WriteString(styleLabel.Render("layers") + "\n")
	for i := m.stack.Len() - 1; i >= 0; i-- {
		l := m.stack.Layer(i)
		marker := "  "
		style := styleValue
		if i == m.stack.ActiveIndex() {
			marker = "▸ "
			style = styleActive
		}
		vis := "●"
		if !l.Visible {
			vis = "○"
			style = styleFaint
		}
		name := l.Name
		if m.mode == modeRename && i == m.stack.ActiveIndex() {
			name = m.renameBuf + "▏"
		}
		line := fmt.Sprintf("%s%s %s", marker, vis, name)
		if l.Opacity < 1 {
			line += styleFaint.Render(fmt.Sprintf(" %d%%", int(l.Opacity*100)))
		}
		b.WriteString(style.Render(line) + "\n")
	}
	if m.stack.Onion.Enabled {
		b.WriteString(styleFaint.Render(fmt.Sprintf("onion skin %.0f%%", m.stack.Onion.Opacity*100)) + "\n")
	}
	b.WriteString("\n" + styleFaint.Render(fmt.Sprintf("history %d · redo %d", m.hist.Len(), m.hist.RedoLen())))

	return b.String()
}

func (m *Model) renderStatus() string {
	if m.mode == modeRename {
		return styleAlert.Render("rename: ") + styleValue.Render(m.renameBuf) + styleFaint.Render("  enter to confirm, esc to cancel")
	}
	help := "space stamp · b pen down · 1-6 tools · u undo · w save · q quit"
	status := m.status
	if m.penDown {
		status = "✎ " + status
	}
	return styleValue.Render(status) + "  " + styleFaint.Render(help)
}

// cellToPixel maps a terminal cell to the canvas pixel drawn in its
// upper half. Returns false outside the canvas area.
func (m *Model) cellToPixel(cx, cy int) (int, int, bool) {
	x := cx - canvasOriginX
	y := (cy - canvasOriginY) * 2
	if x < 0 || x >= m.stack.Width() || y < 0 || y >= m.stack.Height() {
		return 0, 0, false
	}
	return x, y, true
}

// Run starts the editor program and blocks until the user quits.
func Run(path string, cfg Config, logger *log.Logger) error {
	m, err := New(path, cfg, logger)
	if err != nil {
		return err
	}
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseAllMotion())
	_, err = p.Run()
	return err
}

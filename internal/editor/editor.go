// Package editor implements the interactive terminal pixel editor.
//
// The editor is a bubbletea program owning one editing session: a layer
// stack, its command history and a stroke engine. Input events are
// translated into stroke requests, so a mouse drag, a keyboard stamp
// and a scripted replay all drive the engine through the same path.
// The canvas is drawn with upper-half-block characters, packing two
// pixels into each terminal cell.
package editor

import (
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/paintbox/paintbox/pkg/canvas"
	"github.com/paintbox/paintbox/pkg/history"
	"github.com/paintbox/paintbox/pkg/palette"
	"github.com/paintbox/paintbox/pkg/project"
	"github.com/paintbox/paintbox/pkg/stroke"
)

// Config carries the editor settings resolved by the CLI. Zero values
// fall back to working defaults, except Protect which is taken as given.
type Config struct {
	Width        int
	Height       int
	TrueColor    bool
	HistoryDepth int
	OnionOpacity float64
	Autosave     time.Duration // zero disables autosave
	Palette      *palette.Palette

	PenShape       stroke.Shape
	PenSize        int
	PenOpacity     float64
	SprayIntensity float64
	SprayRadius    int
	ShadeFactor    float64
	Protect        bool // one blend per pixel per stroke
}

// mode is the editor's input mode.
type mode int

const (
	modePaint  mode = iota
	modeRename      // typing a new name for the active layer
)

const sprayInterval = 50 * time.Millisecond

// sprayTickMsg drives continuous spray while the pen is down.
type sprayTickMsg struct{}

// autosaveTickMsg triggers a periodic save of unsaved edits.
type autosaveTickMsg struct{}

// Model is the bubbletea model for one editing session.
type Model struct {
	stack  *canvas.Stack
	hist   *history.History
	engine *stroke.Engine
	pal    *palette.Palette
	logger *log.Logger

	path     string
	dirty    bool
	autosave time.Duration

	tool      stroke.Tool
	shape     stroke.Shape
	penSize   int
	opacity   float64
	symmetry  stroke.Symmetry
	colorIdx  int
	intensity float64 // spray
	sprayRad  int     // spray circle radius
	shade     float64 // shade factor

	cursorX, cursorY int
	penDown          bool // continuous drawing while moving

	mode       mode
	renameBuf  string
	trueColor  bool
	status     string
	termWidth  int
	termHeight int
}

// New creates an editor session. If the project file at path exists it
// is loaded; otherwise a fresh canvas with the configured dimensions is
// created and the file is written on first save.
func New(path string, cfg Config, logger *log.Logger) (*Model, error) {
	var stack *canvas.Stack
	if _, err := os.Stat(path); err == nil {
		stack, err = project.Load(path)
		if err != nil {
			return nil, err
		}
		logger.Info("loaded project", "path", path, "size", fmt.Sprintf("%dx%d", stack.Width(), stack.Height()), "layers", stack.Len())
	} else {
		stack = canvas.NewStack(cfg.Width, cfg.Height)
		logger.Info("new project", "path", path, "size", fmt.Sprintf("%dx%d", cfg.Width, cfg.Height))
	}
	if cfg.OnionOpacity > 0 {
		stack.Onion.Opacity = cfg.OnionOpacity
	}
	pal := cfg.Palette
	if pal == nil {
		pal = palette.Default()
	}
	if cfg.PenSize < 1 {
		cfg.PenSize = 1
	}
	if cfg.PenOpacity <= 0 {
		cfg.PenOpacity = 1.0
	}
	if cfg.SprayIntensity <= 0 {
		cfg.SprayIntensity = 0.3
	}
	if cfg.SprayRadius < 1 {
		cfg.SprayRadius = 5
	}
	if cfg.ShadeFactor <= 0 {
		cfg.ShadeFactor = 0.1
	}
	engine := stroke.NewEngine()
	engine.SetProtect(cfg.Protect)
	return &Model{
		stack:     stack,
		hist:      history.New(cfg.HistoryDepth),
		engine:    engine,
		pal:       pal,
		logger:    logger,
		path:      path,
		autosave:  cfg.Autosave,
		tool:      stroke.ToolDraw,
		shape:     cfg.PenShape,
		penSize:   cfg.PenSize,
		opacity:   cfg.PenOpacity,
		intensity: cfg.SprayIntensity,
		sprayRad:  cfg.SprayRadius,
		shade:     cfg.ShadeFactor,
		trueColor: cfg.TrueColor,
		status:    "ready",
	}, nil
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	if m.autosave > 0 {
		return m.autosaveTick()
	}
	return nil
}

// Stack exposes the session's layer stack. Used by tests to observe
// the effect of input events.
func (m *Model) Stack() *canvas.Stack { return m.stack }

// History exposes the session's command history.
func (m *Model) History() *history.History { return m.hist }

// Status returns the current status-bar message.
func (m *Model) Status() string { return m.status }

// color returns the selected palette entry. Picked colors are harvested
// into the palette, so the selection always points at a real entry.
func (m *Model) color() palette.Entry {
	return m.pal.At(m.colorIdx)
}

// request builds the stroke request for the current tool at (x, y).
func (m *Model) request(x, y int) stroke.Request {
	return stroke.Request{
		Tool:           m.tool,
		X:              x,
		Y:              y,
		Shape:          m.shape,
		Size:           m.penSize,
		Color:          m.color().Color,
		Opacity:        m.opacity,
		Symmetry:       m.symmetry,
		SprayIntensity: m.intensity,
		SprayRadius:    m.sprayRad,
		ShadeFactor:    m.shade,
	}
}

// save persists the project file.
func (m *Model) save() {
	if err := project.Save(m.path, m.stack); err != nil {
		m.logger.Error("save failed", "path", m.path, "err", err)
		m.status = "save failed: " + err.Error()
		return
	}
	m.dirty = false
	m.status = "saved " + m.path
	m.logger.Debug("saved project", "path", m.path)
}

func sprayTick() tea.Cmd {
	return tea.Tick(sprayInterval, func(time.Time) tea.Msg {
		return sprayTickMsg{}
	})
}

func (m *Model) autosaveTick() tea.Cmd {
	return tea.Tick(m.autosave, func(time.Time) tea.Msg {
		return autosaveTickMsg{}
	})
}

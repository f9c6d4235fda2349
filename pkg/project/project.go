// Package project serializes an editing session to disk and back.
//
// The on-disk format is gzip-compressed JSON: a small header plus each
// layer's raw pixel bytes. Pixel buffers round-trip byte-for-byte and
// layer order is preserved, so loading a project is indistinguishable
// from never having closed it (history excepted; the timeline is not
// persisted).
package project

import (
	"compress/gzip"
	"encoding/json"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/paintbox/paintbox/pkg/canvas"
	"github.com/paintbox/paintbox/pkg/errors"
	"github.com/paintbox/paintbox/pkg/pixel"
)

// Version is the current file format version.
const Version = 1

// Snapshot is the serializable form of a layer stack.
type Snapshot struct {
	Version int             `json:"version"`
	Width   int             `json:"width"`
	Height  int             `json:"height"`
	Active  int             `json:"active"`
	Onion   OnionSnapshot   `json:"onion"`
	Layers  []LayerSnapshot `json:"layers"`
}

// OnionSnapshot holds the persisted onion-skin settings.
type OnionSnapshot struct {
	Enabled bool    `json:"enabled"`
	Opacity float64 `json:"opacity"`
}

// LayerSnapshot is one layer's persisted state. Pixels holds raw RGBA
// bytes, row-major, which JSON encodes as base64.
type LayerSnapshot struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Opacity float64 `json:"opacity"`
	Visible bool    `json:"visible"`
	Pixels  []byte  `json:"pixels"`
}

// Capture takes a serializable snapshot of the stack. The snapshot owns
// its pixel copies; later edits do not leak into it, so it is safe to
// hand to an asynchronous writer.
func Capture(s *canvas.Stack) *Snapshot {
	sn := &Snapshot{
		Version: Version,
		Width:   s.Width(),
		Height:  s.Height(),
		Active:  s.ActiveIndex(),
		Onion:   OnionSnapshot{Enabled: s.Onion.Enabled, Opacity: s.Onion.Opacity},
	}
	for _, l := range s.Layers() {
		pix := l.Pixels()
		raw := make([]byte, len(pix)*4)
		for i, c := range pix {
			raw[i*4+0] = c.R
			raw[i*4+1] = c.G
			raw[i*4+2] = c.B
			raw[i*4+3] = c.A
		}
		sn.Layers = append(sn.Layers, LayerSnapshot{
			ID:      l.ID.String(),
			Name:    l.Name,
			Opacity: l.Opacity,
			Visible: l.Visible,
			Pixels:  raw,
		})
	}
	return sn
}

// Stack rebuilds a layer stack from the snapshot, validating dimensions
// and buffer lengths.
func (sn *Snapshot) Stack() (*canvas.Stack, error) {
	if err := errors.ValidateCanvasSize(sn.Width, sn.Height); err != nil {
		return nil, err
	}
	var layers []*canvas.Layer
	for _, ls := range sn.Layers {
		if len(ls.Pixels) != sn.Width*sn.Height*4 {
			return nil, errors.New(errors.ErrCodeInvalidFormat,
				"layer %q has %d pixel bytes, want %d", ls.Name, len(ls.Pixels), sn.Width*sn.Height*4)
		}
		l := canvas.NewLayer(ls.Name, sn.Width, sn.Height)
		if id, err := uuid.Parse(ls.ID); err == nil {
			l.ID = id
		}
		l.Opacity = ls.Opacity
		l.Visible = ls.Visible
		pix := make([]pixel.Color, sn.Width*sn.Height)
		for i := range pix {
			pix[i] = pixel.Color{
				R: ls.Pixels[i*4+0],
				G: ls.Pixels[i*4+1],
				B: ls.Pixels[i*4+2],
				A: ls.Pixels[i*4+3],
			}
		}
		if err := l.SetPixels(pix); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "restoring layer %q", ls.Name)
		}
		layers = append(layers, l)
	}
	s, err := canvas.NewStackWithLayers(sn.Width, sn.Height, layers, sn.Active)
	if err != nil {
		return nil, err
	}
	s.Onion.Enabled = sn.Onion.Enabled
	if sn.Onion.Opacity > 0 {
		s.Onion.Opacity = sn.Onion.Opacity
	}
	return s, nil
}

// Write serializes the snapshot as gzipped JSON.
func (sn *Snapshot) Write(w io.Writer) error {
	gz := gzip.NewWriter(w)
	if err := json.NewEncoder(gz).Encode(sn); err != nil {
		gz.Close()
		return errors.Wrap(errors.ErrCodeInternal, err, "encoding project")
	}
	if err := gz.Close(); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "compressing project")
	}
	return nil
}

// Read deserializes a snapshot from gzipped JSON.
func Read(r io.Reader) (*Snapshot, error) {
	gz, err := gzip.NewReader(r)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "not a project file")
	}
	defer gz.Close()
	var sn Snapshot
	if err := json.NewDecoder(gz).Decode(&sn); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decoding project")
	}
	if sn.Version > Version {
		return nil, errors.New(errors.ErrCodeUnsupported, "project version %d is newer than supported %d", sn.Version, Version)
	}
	return &sn, nil
}

// Save captures the stack and writes it atomically: the file is staged
// beside the destination and renamed into place, so a crash mid-write
// never corrupts an existing project.
func Save(path string, s *canvas.Stack) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".paintbox-*")
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "creating %s", path)
	}
	defer os.Remove(tmp.Name())
	if err := Capture(s).Write(tmp); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "writing %s", path)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "saving %s", path)
	}
	return nil
}

// Load reads a project file and rebuilds its stack.
func Load(path string) (*canvas.Stack, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "opening %s", path)
	}
	defer f.Close()
	sn, err := Read(f)
	if err != nil {
		return nil, err
	}
	return sn.Stack()
}

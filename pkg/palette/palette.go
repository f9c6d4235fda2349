// Package palette manages the color palettes offered by the editor:
// a built-in default plus user palettes loaded from JSON files.
package palette

import (
	"encoding/json"
	"io"
	"os"

	"github.com/paintbox/paintbox/pkg/errors"
	"github.com/paintbox/paintbox/pkg/pixel"
)

// Entry is one named palette color.
type Entry struct {
	Name  string
	Color pixel.Color
}

// Palette is an ordered list of colors the editor cycles through.
type Palette struct {
	Name    string
	Entries []Entry
}

// Default returns the built-in 16-color palette.
func Default() *Palette {
	return &Palette{
		Name: "default",
		Entries: []Entry{
			{"black", pixel.RGB(0, 0, 0)},
			{"storm", pixel.RGB(29, 43, 83)},
			{"wine", pixel.RGB(126, 37, 83)},
			{"moss", pixel.RGB(0, 135, 81)},
			{"tan", pixel.RGB(171, 82, 54)},
			{"slate", pixel.RGB(95, 87, 79)},
			{"silver", pixel.RGB(194, 195, 199)},
			{"white", pixel.RGB(255, 241, 232)},
			{"ember", pixel.RGB(255, 0, 77)},
			{"orange", pixel.RGB(255, 163, 0)},
			{"lemon", pixel.RGB(255, 236, 39)},
			{"lime", pixel.RGB(0, 228, 54)},
			{"sky", pixel.RGB(41, 173, 255)},
			{"dusk", pixel.RGB(131, 118, 156)},
			{"pink", pixel.RGB(255, 119, 168)},
			{"peach", pixel.RGB(255, 204, 170)},
		},
	}
}

// Len returns the number of entries.
func (p *Palette) Len() int { return len(p.Entries) }

// At returns the entry at index i, wrapping around in both directions
// so the editor can cycle freely.
func (p *Palette) At(i int) Entry {
	n := len(p.Entries)
	return p.Entries[((i%n)+n)%n]
}

// Nearest returns the index of the entry closest to c by Euclidean
// distance in RGB space. Ties keep the lowest index.
func (p *Palette) Nearest(c pixel.Color) int {
	best, bestDist := 0, pixel.Distance(c, p.Entries[0].Color)
	for i := 1; i < len(p.Entries); i++ {
		if d := pixel.Distance(c, p.Entries[i].Color); d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

// fileFormat is the JSON shape of a palette file.
type fileFormat struct {
	Name   string      `json:"name"`
	Colors []fileEntry `json:"colors"`
}

type fileEntry struct {
	Name string `json:"name,omitempty"`
	Hex  string `json:"hex"`
}

// Read parses a palette from JSON.
func Read(r io.Reader) (*Palette, error) {
	var f fileFormat
	if err := json.NewDecoder(r).Decode(&f); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decoding palette")
	}
	if len(f.Colors) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "palette has no colors")
	}
	p := &Palette{Name: f.Name}
	for _, e := range f.Colors {
		c, err := pixel.ParseHex(e.Hex)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidColor, err, "palette entry %q", e.Name)
		}
		p.Entries = append(p.Entries, Entry{Name: e.Name, Color: c})
	}
	return p, nil
}

// Load reads a palette file from disk.
func Load(path string) (*Palette, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "opening %s", path)
	}
	defer f.Close()
	return Read(f)
}

// Write serializes the palette as JSON.
func (p *Palette) Write(w io.Writer) error {
	f := fileFormat{Name: p.Name}
	for _, e := range p.Entries {
		f.Colors = append(f.Colors, fileEntry{Name: e.Name, Hex: e.Color.Hex()})
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(f); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encoding palette")
	}
	return nil
}

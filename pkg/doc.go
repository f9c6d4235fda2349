// Package pkg provides the core libraries for Paintbox pixel-art editing.
//
// # Overview
//
// Paintbox edits small raster images as a stack of layers rendered in the
// terminal. The pkg directory is organized into five main areas:
//
//  1. [pixel] - Color model (straight-alpha blending, shading, ANSI quantization)
//  2. [canvas] - Layers, the layer stack, and compositing
//  3. [stroke] - Tool applications (draw, erase, fill, spray, shade, symmetry)
//  4. [history] - Undo/redo records for pixel and structural edits
//  5. [export], [project] - PNG rendering and .pbx persistence
//
// Supporting packages: [palette] for color palettes, [cache] for the preview
// render cache, [errors] for coded errors, [buildinfo] for version metadata.
//
// # Architecture
//
// The typical data flow through Paintbox:
//
//	Input (keys, mouse)
//	         ↓
//	    [stroke] package (tool application → pixel deltas)
//	         ↓
//	    [canvas] package (layer stack mutation + compositing)
//	         ↓
//	    [history] package (records for undo/redo)
//	         ↓
//	    [export] / [project] output (PNG files, .pbx snapshots)
//
// # Quick Start
//
// Paint a pixel and export the result:
//
//	import (
//	    "os"
//	    "github.com/paintbox/paintbox/pkg/canvas"
//	    "github.com/paintbox/paintbox/pkg/export"
//	    "github.com/paintbox/paintbox/pkg/pixel"
//	)
//
//	s := canvas.NewStack(16, 16)
//	s.Active().Set(0, 0, pixel.RGB(255, 0, 77))
//
//	results, err := export.Render(s, export.Options{Scale: 8, Mode: export.ModeUnited})
//	if err != nil {
//	    // handle error
//	}
//	f, _ := os.Create("out.png")
//	defer f.Close()
//	export.EncodePNG(f, results[0].Buffer)
//
// All mutation is single-threaded: the editor owns the stack and applies
// strokes, history operations, and structural edits sequentially. The
// preview server never mutates; it re-reads the saved project file.
package pkg

// Package preview serves a live PNG rendering of a project file over
// HTTP, so pixel art being edited in the terminal can be watched in a
// browser at a comfortable zoom.
package preview

import (
	"bytes"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/paintbox/paintbox/pkg/cache"
	"github.com/paintbox/paintbox/pkg/errors"
	"github.com/paintbox/paintbox/pkg/export"
	"github.com/paintbox/paintbox/pkg/pixel"
	"github.com/paintbox/paintbox/pkg/project"
)

// Options configure the server's default rendering.
type Options struct {
	Scale      int
	Background string // hex color, empty for transparent
	CacheTTL   time.Duration
}

// Server renders a project file to PNG on demand. Renders are cached
// keyed by the file's modification time, so saving the project in the
// editor is what refreshes the preview.
type Server struct {
	path   string
	cache  cache.Cache
	logger *log.Logger
	opts   Options
}

// New creates a preview server for the project file at path.
func New(path string, c cache.Cache, logger *log.Logger, opts Options) *Server {
	if opts.Scale < 1 {
		opts.Scale = 8
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = time.Hour
	}
	return &Server{path: path, cache: c, logger: logger, opts: opts}
}

// Router builds the HTTP routes.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/", s.handleIndex)
	r.Get("/image.png", s.handleImage)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "ok")
	})
	return r
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprintf(w, indexPage, s.path)
}

func (s *Server) handleImage(w http.ResponseWriter, r *http.Request) {
	scale := s.opts.Scale
	if q := r.URL.Query().Get("scale"); q != "" {
		v, err := strconv.Atoi(q)
		if err != nil {
			http.Error(w, "scale must be an integer", http.StatusBadRequest)
			return
		}
		scale = v
	}
	if err := errors.ValidateScale(scale); err != nil {
		http.Error(w, errors.UserMessage(err), http.StatusBadRequest)
		return
	}

	info, err := os.Stat(s.path)
	if err != nil {
		http.Error(w, "project file not found", http.StatusNotFound)
		return
	}
	key := cache.RenderKey(s.path, info.ModTime(), cache.RenderOpts{
		Scale:      scale,
		Mode:       "united",
		Background: s.opts.Background,
	})

	// The key doubles as an ETag: it changes exactly when the render
	// would change.
	etag := `"` + cache.Hash([]byte(key)) + `"`
	if r.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	data, hit, err := s.cache.Get(r.Context(), key)
	if err != nil {
		s.logger.Warn("cache read failed", "err", err)
	}
	if !hit {
		data, err = s.render(scale)
		if err != nil {
			s.logger.Error("render failed", "path", s.path, "err", err)
			http.Error(w, errors.UserMessage(err), http.StatusInternalServerError)
			return
		}
		if err := s.cache.Set(r.Context(), key, data, s.opts.CacheTTL); err != nil {
			s.logger.Warn("cache write failed", "err", err)
		}
	}
	s.logger.Debug("serving preview", "scale", scale, "cached", hit, "bytes", len(data))

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("ETag", etag)
	w.Header().Set("Cache-Control", "no-cache")
	w.Write(data)
}

func (s *Server) render(scale int) ([]byte, error) {
	stack, err := project.Load(s.path)
	if err != nil {
		return nil, err
	}
	opts := export.Options{Scale: scale, Mode: export.ModeUnited}
	if s.opts.Background != "" {
		bg, err := pixel.ParseHex(s.opts.Background)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidColor, err, "background color")
		}
		opts.Background = &bg
	}
	out, err := export.Render(stack, opts)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := export.EncodePNG(&buf, out[0].Buffer); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

const indexPage = `<!doctype html>
<html>
<head>
<title>paintbox preview</title>
<style>
  body { background: #1e1e2e; color: #cdd6f4; font-family: monospace; text-align: center; }
  img { image-rendering: pixelated; margin-top: 2em; border: 1px solid #45475a; }
</style>
</head>
<body>
<p>%s</p>
<img id="c" src="/image.png">
<script>
  setInterval(function () {
    var img = document.getElementById("c");
    img.src = "/image.png?t=" + Date.now();
  }, 1000);
</script>
</body>
</html>
`

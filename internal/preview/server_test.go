package preview

import (
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/paintbox/paintbox/pkg/cache"
	"github.com/paintbox/paintbox/pkg/canvas"
	"github.com/paintbox/paintbox/pkg/pixel"
	"github.com/paintbox/paintbox/pkg/project"
)

func testServer(t *testing.T, opts Options) (*Server, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "art.paintbox")
	s := canvas.NewStack(2, 2)
	s.Active().Set(0, 0, pixel.RGB(255, 0, 0))
	if err := project.Save(path, s); err != nil {
		t.Fatalf("Save: %v", err)
	}
	logger := log.New(io.Discard)
	return New(path, cache.NewNullCache(), logger, opts), path
}

func TestServeImage(t *testing.T) {
	srv, _ := testServer(t, Options{Scale: 4})
	ts := httptest.NewServer(srv.Router())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/image.png")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "image/png" {
		t.Errorf("content type = %q", ct)
	}
	img, err := png.Decode(resp.Body)
	if err != nil {
		t.Fatalf("png.Decode: %v", err)
	}
	if img.Bounds().Dx() != 8 || img.Bounds().Dy() != 8 {
		t.Errorf("image is %v, want 8x8 (2x2 at scale 4)", img.Bounds())
	}
}

func TestScaleQueryOverride(t *testing.T) {
	srv, _ := testServer(t, Options{Scale: 4})
	ts := httptest.NewServer(srv.Router())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/image.png?scale=2")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer resp.Body.Close()
	img, err := png.Decode(resp.Body)
	if err != nil {
		t.Fatalf("png.Decode: %v", err)
	}
	if img.Bounds().Dx() != 4 {
		t.Errorf("width = %d, want 4 at scale 2", img.Bounds().Dx())
	}

	for _, bad := range []string{"?scale=0", "?scale=999", "?scale=abc"} {
		resp, err := http.Get(ts.URL + "/image.png" + bad)
		if err != nil {
			t.Fatalf("GET %s: %v", bad, err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("%s status = %d, want 400", bad, resp.StatusCode)
		}
	}
}

func TestETagNotModified(t *testing.T) {
	srv, _ := testServer(t, Options{Scale: 2})
	ts := httptest.NewServer(srv.Router())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/image.png")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	etag := resp.Header.Get("ETag")
	if etag == "" {
		t.Fatal("missing ETag")
	}

	req, _ := http.NewRequest(http.MethodGet, ts.URL+"/image.png", nil)
	req.Header.Set("If-None-Match", etag)
	resp2, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("conditional GET: %v", err)
	}
	resp2.Body.Close()
	if resp2.StatusCode != http.StatusNotModified {
		t.Errorf("status = %d, want 304", resp2.StatusCode)
	}
}

func TestMissingProject(t *testing.T) {
	srv, path := testServer(t, Options{})
	if err := os.Remove(path); err != nil {
		t.Fatal(err)
	}
	ts := httptest.NewServer(srv.Router())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/image.png")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}

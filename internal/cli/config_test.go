package cli

import (
	"os"
	"path/filepath"
	"testing"
)

func withConfigDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	return filepath.Join(dir, appName)
}

func TestLoadConfigDefaults(t *testing.T) {
	withConfigDir(t)

	cfg, err := loadConfig()
	if err != nil {
		t.Fatalf("loadConfig() error: %v", err)
	}

	if cfg.Canvas.Width != 30 || cfg.Canvas.Height != 30 {
		t.Errorf("default canvas = %dx%d, want 30x30", cfg.Canvas.Width, cfg.Canvas.Height)
	}
	if !cfg.Color.TrueColor {
		t.Error("truecolor should default to on")
	}
	if cfg.History.Depth != 200 {
		t.Errorf("default history depth = %d, want 200", cfg.History.Depth)
	}
	if cfg.Export.Scale != defaultExportScale {
		t.Errorf("default export scale = %d, want %d", cfg.Export.Scale, defaultExportScale)
	}
}

func TestLoadConfigFromFile(t *testing.T) {
	dir := withConfigDir(t)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}

	content := `
[canvas]
width = 16
height = 24

[color]
truecolor = false

[export]
scale = 4
`
	if err := os.WriteFile(filepath.Join(dir, "config.toml"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := loadConfig()
	if err != nil {
		t.Fatalf("loadConfig() error: %v", err)
	}

	if cfg.Canvas.Width != 16 || cfg.Canvas.Height != 24 {
		t.Errorf("canvas = %dx%d, want 16x24", cfg.Canvas.Width, cfg.Canvas.Height)
	}
	if cfg.Color.TrueColor {
		t.Error("truecolor should be off")
	}
	if cfg.Export.Scale != 4 {
		t.Errorf("export scale = %d, want 4", cfg.Export.Scale)
	}
	// Untouched sections keep their defaults.
	if cfg.History.Depth != 200 {
		t.Errorf("history depth = %d, want default 200", cfg.History.Depth)
	}
}

func TestLoadConfigMalformed(t *testing.T) {
	dir := withConfigDir(t)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config.toml"), []byte("[canvas\nwidth="), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := loadConfig(); err == nil {
		t.Error("loadConfig() should fail on a malformed file")
	}
}

func TestEditorConfig(t *testing.T) {
	cfg := defaultConfig()
	ec, err := cfg.editorConfig()
	if err != nil {
		t.Fatalf("editorConfig() error: %v", err)
	}
	if ec.Width != 30 || ec.Height != 30 {
		t.Errorf("editor canvas = %dx%d, want 30x30", ec.Width, ec.Height)
	}
	if ec.Palette == nil || ec.Palette.Len() == 0 {
		t.Error("editor config should carry the built-in palette")
	}
	if ec.SprayRadius != 5 {
		t.Errorf("spray radius = %d, want default 5", ec.SprayRadius)
	}
	if !ec.Protect {
		t.Error("stroke protection should default to on")
	}
}

func TestEditorConfigBadPenShape(t *testing.T) {
	cfg := defaultConfig()
	cfg.Pen.Shape = "triangle"
	if _, err := cfg.editorConfig(); err == nil {
		t.Error("editorConfig() should reject an unknown pen shape")
	}
}

func TestEditorConfigMissingPalette(t *testing.T) {
	cfg := defaultConfig()
	cfg.Color.Palette = filepath.Join(t.TempDir(), "nope.json")
	if _, err := cfg.editorConfig(); err == nil {
		t.Error("editorConfig() should fail when the palette file is missing")
	}
}

package pixel

import "testing"

func TestBlend(t *testing.T) {
	tests := []struct {
		name    string
		dst     Color
		src     Color
		opacity float64
		want    Color
	}{
		{
			name:    "OpaqueOverOpaque",
			dst:     RGB(255, 0, 0),
			src:     RGB(0, 0, 255),
			opacity: 1.0,
			want:    RGB(0, 0, 255),
		},
		{
			name:    "HalfOpacityOverOpaque",
			dst:     RGB(255, 0, 0),
			src:     RGB(0, 0, 255),
			opacity: 0.5,
			want:    RGB(128, 0, 128),
		},
		{
			name:    "OverTransparentTakesSourceColor",
			dst:     Transparent,
			src:     RGB(10, 20, 30),
			opacity: 0.5,
			want:    Color{10, 20, 30, 128},
		},
		{
			name:    "TransparentSourceIsNoop",
			dst:     RGB(1, 2, 3),
			src:     Color{200, 200, 200, 0},
			opacity: 1.0,
			want:    RGB(1, 2, 3),
		},
		{
			name:    "ZeroOpacityIsNoop",
			dst:     RGB(1, 2, 3),
			src:     RGB(200, 200, 200),
			opacity: 0,
			want:    RGB(1, 2, 3),
		},
		{
			name:    "SemiOverSemiAccumulatesAlpha",
			dst:     Color{100, 100, 100, 128},
			src:     Color{200, 200, 200, 128},
			opacity: 1.0,
			// sa = 128/255, outA = sa + da*(1-sa) ~= 0.752
			want: Color{167, 167, 167, 192},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Blend(tt.dst, tt.src, tt.opacity)
			if got != tt.want {
				t.Errorf("Blend(%v, %v, %v) = %v, want %v", tt.dst, tt.src, tt.opacity, got, tt.want)
			}
		})
	}
}

func TestBlendOrderSensitivity(t *testing.T) {
	red := RGB(255, 0, 0)
	blue := RGB(0, 0, 255)
	ab := Blend(red, blue, 0.5)
	ba := Blend(blue, red, 0.5)
	if ab == ba {
		t.Errorf("blend should not be commutative: both orders gave %v", ab)
	}
}

func TestShade(t *testing.T) {
	c := Color{100, 150, 200, 180}

	light := Shade(c, 0.5, false)
	want := Color{178, 203, 228, 180}
	if light != want {
		t.Errorf("Shade lighten = %v, want %v", light, want)
	}

	dark := Shade(c, 0.5, true)
	want = Color{50, 75, 100, 180}
	if dark != want {
		t.Errorf("Shade darken = %v, want %v", dark, want)
	}

	if got := Shade(c, 1.0, true); got != (Color{0, 0, 0, 180}) {
		t.Errorf("full darken = %v, want black with original alpha", got)
	}
	if got := Shade(c, 1.0, false); got != (Color{255, 255, 255, 180}) {
		t.Errorf("full lighten = %v, want white with original alpha", got)
	}
}

func TestFadeAlpha(t *testing.T) {
	c := Color{10, 20, 30, 200}
	got := FadeAlpha(c, 0.5)
	if got != (Color{10, 20, 30, 100}) {
		t.Errorf("FadeAlpha = %v, want alpha 100", got)
	}
	if got := FadeAlpha(c, 1.0); got.A != 0 {
		t.Errorf("full-opacity erase should zero alpha, got %d", got.A)
	}
	if got := FadeAlpha(c, 0); got != c {
		t.Errorf("zero-opacity erase should be a no-op, got %v", got)
	}
}

func TestHexRoundTrip(t *testing.T) {
	tests := []struct {
		in   string
		want Color
		out  string
	}{
		{"#ff0000", RGB(255, 0, 0), "#ff0000"},
		{"00ff00", RGB(0, 255, 0), "#00ff00"},
		{"#11223380", Color{0x11, 0x22, 0x33, 0x80}, "#11223380"},
	}
	for _, tt := range tests {
		c, err := ParseHex(tt.in)
		if err != nil {
			t.Fatalf("ParseHex(%q): %v", tt.in, err)
		}
		if c != tt.want {
			t.Errorf("ParseHex(%q) = %v, want %v", tt.in, c, tt.want)
		}
		if c.Hex() != tt.out {
			t.Errorf("Hex() = %q, want %q", c.Hex(), tt.out)
		}
	}

	for _, bad := range []string{"", "#12345", "zzzzzz", "#1234567"} {
		if _, err := ParseHex(bad); err == nil {
			t.Errorf("ParseHex(%q) should fail", bad)
		}
	}
}

func TestQuantizeANSI256(t *testing.T) {
	tests := []struct {
		name string
		c    Color
		want uint8
	}{
		{"Black", RGB(0, 0, 0), 0},         // exact base match wins by lowest index
		{"White", RGB(255, 255, 255), 15},  // base white before cube 231
		{"CubeRed", RGB(255, 0, 0), 9},     // bright base red before cube 196
		{"CubeExact", RGB(95, 135, 175), 16 + 36*1 + 6*2 + 3},
		{"NearGray", RGB(9, 9, 9), 232},    // grayscale ramp entry 8,8,8
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := QuantizeANSI256(tt.c); got != tt.want {
				t.Errorf("QuantizeANSI256(%v) = %d, want %d", tt.c, got, tt.want)
			}
		})
	}
}

func TestQuantizeANSI256TieLowestIndex(t *testing.T) {
	// 16 (cube 0,0,0) duplicates index 0; nearest-match must prefer 0.
	if got := QuantizeANSI256(RGB(0, 0, 0)); got != 0 {
		t.Errorf("tie should break to lowest index, got %d", got)
	}
}

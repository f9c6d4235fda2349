package pixel

// ansi256 is the fixed xterm 256-color palette: 16 base colors, the
// 6x6x6 color cube (16-231) and the 24-step grayscale ramp (232-255).
var ansi256 [256]Color

// cubeLevels are the channel values used by the 6x6x6 cube.
var cubeLevels = [6]uint8{0, 95, 135, 175, 215, 255}

func init() {
	base := [16]Color{
		RGB(0, 0, 0), RGB(128, 0, 0), RGB(0, 128, 0), RGB(128, 128, 0),
		RGB(0, 0, 128), RGB(128, 0, 128), RGB(0, 128, 128), RGB(192, 192, 192),
		RGB(128, 128, 128), RGB(255, 0, 0), RGB(0, 255, 0), RGB(255, 255, 0),
		RGB(0, 0, 255), RGB(255, 0, 255), RGB(0, 255, 255), RGB(255, 255, 255),
	}
	copy(ansi256[:16], base[:])
	for r := 0; r < 6; r++ {
		for g := 0; g < 6; g++ {
			for b := 0; b < 6; b++ {
				ansi256[16+36*r+6*g+b] = RGB(cubeLevels[r], cubeLevels[g], cubeLevels[b])
			}
		}
	}
	for i := 0; i < 24; i++ {
		v := uint8(8 + 10*i)
		ansi256[232+i] = RGB(v, v, v)
	}
}

// QuantizeANSI256 returns the palette index whose RGB entry is nearest
// to c by Euclidean distance, with ties broken by the lowest index.
// Alpha is ignored; TrueColor renderers bypass quantization entirely.
func QuantizeANSI256(c Color) uint8 {
	best, bestDist := 0, int(1)<<62
	for i, p := range ansi256 {
		if d := Distance(c, p); d < bestDist {
			best, bestDist = i, d
		}
	}
	return uint8(best)
}

// ANSI256Color returns the palette entry for an ANSI-256 index.
func ANSI256Color(index uint8) Color {
	return ansi256[index]
}

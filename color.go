package t2m

import (
	"image/color"
	"math"
	"strconv"
	"strings"
)

// Color represents RGBA color with normalized components.
type Color struct {
	R float64 `json:"r,omitempty" yaml:"r,omitempty"` // Red channel component
	G float64 `json:"g,omitempty" yaml:"g,omitempty"` // Green channel component
	B float64 `json:"b,omitempty" yaml:"b,omitempty"` // Blue channel component
	A float64 `json:"a,omitempty" yaml:"a,omitempty"` // Alpha channel component
}

// Clamp01 clamps v to [0,1].
func Clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// SetColorRGBA creates a Color from RGBA values.
func SetColorRGBA(r, g, b, a float64) Color {
	return Color{R: r, G: g, B: b, A: a}
}

// SetColorRGB creates a Color with alpha=1.
func SetColorRGB(r, g, b float64) Color {
	return Color{R: r, G: g, B: b, A: 1}
}

// ToArray converts color to float array.
func (c Color) ToArray() []float64 {
	return []float64{c.R, c.G, c.B, c.A}
}

// IsZero reports whether all components are zero.
func (c Color) IsZero() bool {
	return c == Color{}
}

// NRGBA converts the color to an 8-bit non-premultiplied color, clamping components.
func (c Color) NRGBA() color.NRGBA {
	return color.NRGBA{
		R: unitToByte(c.R),
		G: unitToByte(c.G),
		B: unitToByte(c.B),
		A: unitToByte(c.A),
	}
}

// ColorFromStd converts any color.Color to a normalized non-premultiplied Color.
func ColorFromStd(c color.Color) Color {
	n := color.NRGBA64Model.Convert(c).(color.NRGBA64)
	return Color{
		R: float64(n.R) / 0xffff,
		G: float64(n.G) / 0xffff,
		B: float64(n.B) / 0xffff,
		A: float64(n.A) / 0xffff,
	}
}

// namedColors mirrors the names accepted by Unity's ColorUtility.TryParseHtmlString.
var namedColors = map[string]Color{
	"red":       SetColorRGB(1, 0, 0),
	"cyan":      SetColorRGB(0, 1, 1),
	"blue":      SetColorRGB(0, 0, 1),
	"darkblue":  SetColorRGB(0, 0, hexByte(0xa0)),
	"lightblue": SetColorRGB(hexByte(0xad), hexByte(0xd8), hexByte(0xe6)),
	"purple":    SetColorRGB(hexByte(0x80), 0, hexByte(0x80)),
	"yellow":    SetColorRGB(1, 1, 0),
	"lime":      SetColorRGB(0, 1, 0),
	"fuchsia":   SetColorRGB(1, 0, 1),
	"white":     SetColorRGB(1, 1, 1),
	"silver":    SetColorRGB(hexByte(0xc0), hexByte(0xc0), hexByte(0xc0)),
	"grey":      SetColorRGB(hexByte(0x80), hexByte(0x80), hexByte(0x80)),
	"gray":      SetColorRGB(hexByte(0x80), hexByte(0x80), hexByte(0x80)),
	"black":     SetColorRGB(0, 0, 0),
	"orange":    SetColorRGB(1, hexByte(0xa5), 0),
	"brown":     SetColorRGB(hexByte(0xa5), hexByte(0x2a), hexByte(0x2a)),
	"maroon":    SetColorRGB(hexByte(0x80), 0, 0),
	"green":     SetColorRGB(0, hexByte(0x80), 0),
	"olive":     SetColorRGB(hexByte(0x80), hexByte(0x80), 0),
	"navy":      SetColorRGB(0, 0, hexByte(0x80)),
	"teal":      SetColorRGB(0, hexByte(0x80), hexByte(0x80)),
	"aqua":      SetColorRGB(0, 1, 1),
	"magenta":   SetColorRGB(1, 0, 1),
}

// ParseHTMLColor parses "#RGB", "#RGBA", "#RRGGBB", "#RRGGBBAA" or a named color.
// Alpha defaults to 1 when omitted.
func ParseHTMLColor(s string) (Color, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Color{}, false
	}

	if !strings.HasPrefix(s, "#") {
		c, ok := namedColors[strings.ToLower(s)]
		return c, ok
	}

	hex := s[1:]
	switch len(hex) {
	case 3, 4:
		// Short form, every digit is doubled.
		expanded := make([]byte, 0, len(hex)*2)
		for i := 0; i < len(hex); i++ {
			expanded = append(expanded, hex[i], hex[i])
		}
		hex = string(expanded)
	case 6, 8:
	default:
		return Color{}, false
	}

	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return Color{}, false
	}
	if len(hex) == 6 {
		v = v<<8 | 0xff
	}

	return Color{
		R: hexByte(uint8(v >> 24)),
		G: hexByte(uint8(v >> 16)),
		B: hexByte(uint8(v >> 8)),
		A: hexByte(uint8(v)),
	}, true
}

// hexByte converts an 8-bit channel to [0,1].
func hexByte(b uint8) float64 {
	return float64(b) / 255
}

// unitToByte converts a [0,1] channel to 8 bits with rounding.
func unitToByte(v float64) uint8 {
	return uint8(math.Round(Clamp01(v) * 255))
}

package t2m

import (
	"fmt"
	"runtime"
	"strings"
)

// ColorGrammar selects how Albedo and Emission values are read.
// It must match the wording of the material prompt sent to the chat model.
type ColorGrammar string

const (
	// ColorGrammarFloats reads four space-separated floats "R G B A".
	ColorGrammarFloats ColorGrammar = "floats"
	// ColorGrammarHTML reads "#RRGGBB"-style tokens or named colors.
	ColorGrammarHTML ColorGrammar = "html"
)

// ParseColorGrammar parses a grammar name; empty means ColorGrammarFloats.
func ParseColorGrammar(s string) (ColorGrammar, error) {
	switch ColorGrammar(strings.ToLower(strings.TrimSpace(s))) {
	case "", ColorGrammarFloats:
		return ColorGrammarFloats, nil
	case ColorGrammarHTML:
		return ColorGrammarHTML, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownGrammar, s)
	}
}

// DefaultNormalStrength is the height multiplier of generated normal maps.
const DefaultNormalStrength = 20

// ParseOptions controls reply parsing.
type ParseOptions struct {
	// ColorGrammar selects the Albedo/Emission value grammar (default is ColorGrammarFloats).
	ColorGrammar ColorGrammar
	// CaseInsensitiveKeys enables case-insensitive matching of known keys.
	CaseInsensitiveKeys bool
	// KeyTolerance is the maximum Levenshtein distance used to map an unknown key
	// to a known one. Zero keeps exact matching.
	KeyTolerance int
}

// NormalMapOptions controls normal map synthesis.
type NormalMapOptions struct {
	// Workers bounds the number of row bands computed concurrently (default is GOMAXPROCS).
	// Output does not depend on it.
	Workers int
	// FlipGreen samples rows top-down, producing Y-down (DirectX style) normals.
	FlipGreen bool
}

// FormatOptions controls Unity asset formatting.
type FormatOptions struct {
	// Indent is the indentation string for nested mappings (default is two spaces).
	Indent string
}

// ValidateOptions controls validation rules.
type ValidateOptions struct {
	// AllowHDREmission allows emission components above 1.
	AllowHDREmission bool
	// DisableTilingCheck disables the zero tiling warning.
	DisableTilingCheck bool
}

// normalize normalizes the ParseOptions.
func (o *ParseOptions) normalize() ParseOptions {
	if o == nil {
		return ParseOptions{ColorGrammar: ColorGrammarFloats}
	}

	out := *o
	if out.ColorGrammar == "" {
		out.ColorGrammar = ColorGrammarFloats
	}
	if out.KeyTolerance < 0 {
		out.KeyTolerance = 0
	}

	return out
}

// normalize normalizes the NormalMapOptions.
func (o *NormalMapOptions) normalize() NormalMapOptions {
	if o == nil {
		return NormalMapOptions{Workers: runtime.GOMAXPROCS(0)}
	}

	out := *o
	if out.Workers <= 0 {
		out.Workers = runtime.GOMAXPROCS(0)
	}

	return out
}

// normalize normalizes the FormatOptions.
func (o *FormatOptions) normalize() FormatOptions {
	if o == nil {
		return FormatOptions{Indent: "  "}
	}

	out := *o
	if out.Indent == "" {
		out.Indent = "  "
	}

	return out
}

// normalize normalizes the ValidateOptions.
func (o *ValidateOptions) normalize() ValidateOptions {
	if o == nil {
		return ValidateOptions{}
	}

	return *o
}

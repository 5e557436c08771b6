package t2m

import (
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/agnivade/levenshtein"
	"gonum.org/v1/gonum/spatial/r2"
)

// Parse extracts material properties from a "Key: value, Key: value" reply.
// It never fails: unknown keys and malformed values are skipped and the
// corresponding fields keep their zero value.
func Parse(text string, opt *ParseOptions) MaterialProperties {
	p := newParser(opt.normalize())
	return p.parse(text)
}

// Decode reads a reply from r and parses it. Only read errors are returned.
func Decode(r io.Reader, opt *ParseOptions) (MaterialProperties, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return MaterialProperties{}, err
	}

	return Parse(string(b), opt), nil
}

// DecodeFile reads a reply from a file and parses it.
func DecodeFile(path string, opt *ParseOptions) (MaterialProperties, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return MaterialProperties{}, err
	}

	return Parse(string(b), opt), nil
}

// parser holds normalized options for a single Parse call.
type parser struct {
	opt ParseOptions // Options for the parser
}

// newParser creates a parser with normalized options.
func newParser(opt ParseOptions) *parser {
	return &parser{opt: opt}
}

// parse applies every recognized segment to a fresh record.
func (p *parser) parse(text string) MaterialProperties {
	var m MaterialProperties
	for _, seg := range splitSegments(text) {
		prop, ok := p.lookup(seg.Key)
		if !ok {
			continue
		}

		p.apply(&m, prop, seg.Value)
	}

	return m
}

// lookup resolves a reply key to a known property.
func (p *parser) lookup(key string) (property, bool) {
	for _, prop := range knownProperties {
		if matchKey(key, prop.Name, p.opt.CaseInsensitiveKeys) {
			return prop, true
		}
	}

	if p.opt.KeyTolerance == 0 {
		return property{}, false
	}

	// Closest known key wins; ties keep reply order of knownProperties.
	best, bestDist := property{}, p.opt.KeyTolerance+1
	for _, prop := range knownProperties {
		a, b := key, prop.Name
		if p.opt.CaseInsensitiveKeys {
			a, b = strings.ToLower(a), strings.ToLower(b)
		}

		if d := levenshtein.ComputeDistance(a, b); d < bestDist {
			best, bestDist = prop, d
		}
	}

	return best, bestDist <= p.opt.KeyTolerance
}

// apply stores a value into the record when it parses.
func (p *parser) apply(m *MaterialProperties, prop property, raw string) {
	switch prop.Kind {
	case valueColor:
		c, ok := p.parseColor(raw)
		if !ok {
			return
		}
		if prop.Key == keyAlbedo {
			m.Albedo = c
		} else {
			m.Emission = c
		}

	case valueScalar:
		v, ok := parseScalar(raw)
		if !ok {
			return
		}
		if prop.Key == keyMetallic {
			m.Metallic = v
		} else {
			m.Smoothness = v
		}

	case valueVector2:
		v, ok := parseVector2(raw)
		if !ok {
			return
		}
		if prop.Key == keyTiling {
			m.Tiling = v
		} else {
			m.Offset = v
		}
	}
}

// parseColor parses a color value in the configured grammar.
func (p *parser) parseColor(raw string) (Color, bool) {
	if p.opt.ColorGrammar == ColorGrammarHTML {
		return ParseHTMLColor(raw)
	}

	vals, ok := parseFloats(raw, 4)
	if !ok {
		return Color{}, false
	}

	return SetColorRGBA(vals[0], vals[1], vals[2], vals[3]), true
}

// parseScalar parses a single float token.
func parseScalar(raw string) (float64, bool) {
	vals, ok := parseFloats(raw, 1)
	if !ok {
		return 0, false
	}

	return vals[0], true
}

// parseVector2 parses two float tokens.
func parseVector2(raw string) (r2.Vec, bool) {
	vals, ok := parseFloats(raw, 2)
	if !ok {
		return r2.Vec{}, false
	}

	return r2.Vec{X: vals[0], Y: vals[1]}, true
}

// parseFloats parses exactly n whitespace-separated float tokens.
func parseFloats(raw string, n int) ([]float64, bool) {
	fields := strings.Fields(raw)
	if len(fields) != n {
		return nil, false
	}

	out := make([]float64, n)
	for i, f := range fields {
		v, ok := parseFloatArg(f)
		if !ok {
			return nil, false
		}
		out[i] = v
	}

	return out, true
}

// parseFloatArg parses a string to a finite float64 value.
func parseFloatArg(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}

	return f, true
}

// matchKey compares a reply key with a known key.
func matchKey(got, want string, caseInsensitive bool) bool {
	if caseInsensitive {
		return strings.EqualFold(got, want)
	}

	return got == want
}

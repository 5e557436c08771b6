package t2m

import (
	"bufio"
	"bytes"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"gonum.org/v1/gonum/spatial/r2"
)

// EncodeMaterial writes a Unity material (.mat) document.
// Names that are not safe as plain YAML scalars are written double-quoted.
func EncodeMaterial(w io.Writer, a *MaterialAsset, opt *FormatOptions) error {
	if a == nil {
		return ErrNilMaterial
	}
	if a.BaseMap != nil && !ValidGUID(a.BaseMap.GUID) {
		return ErrInvalidGUID
	}
	if a.NormalMap != nil && !ValidGUID(a.NormalMap.GUID) {
		return ErrInvalidGUID
	}

	wr := newWriter(w, opt.normalize())
	wr.writeMaterial(a)

	return wr.flush()
}

// EncodeMaterialFile writes a Unity material document to a file.
func EncodeMaterialFile(path string, a *MaterialAsset, opt *FormatOptions) error {
	b, err := FormatMaterial(a, opt)
	if err != nil {
		return err
	}

	return os.WriteFile(path, b, 0o600)
}

// FormatMaterial renders a Unity material document to bytes.
func FormatMaterial(a *MaterialAsset, opt *FormatOptions) ([]byte, error) {
	var buf bytes.Buffer
	if err := EncodeMaterial(&buf, a, opt); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// writer writes indented Unity YAML documents.
// The first write error is kept and returned by flush.
type writer struct {
	w      *bufio.Writer // Buffered destination
	err    error         // First write error
	indent string        // Indentation string
	cache  []string      // Cache of indentation strings
	level  int           // Current nesting level
}

// newWriter creates a writer with normalized options.
func newWriter(w io.Writer, opt FormatOptions) *writer {
	// Buffered writer reduces syscall overhead and short writes.
	return &writer{w: bufio.NewWriter(w), indent: opt.Indent}
}

// writeMaterial writes the Material document.
func (w *writer) writeMaterial(a *MaterialAsset) {
	sp := a.Pipeline.properties()
	p := a.Properties

	w.writeString("%YAML 1.1\n%TAG !u! tag:unity3d.com,2011:\n")
	w.writeString("--- !u!21 &" + formatInt(materialFileID) + "\n")
	w.open("Material")
	w.line("serializedVersion", "6")
	w.line("m_ObjectHideFlags", "0")
	w.line("m_CorrespondingSourceObject", "{fileID: 0}")
	w.line("m_PrefabInstance", "{fileID: 0}")
	w.line("m_PrefabAsset", "{fileID: 0}")
	w.line("m_Name", formatScalar(a.Name))
	w.line("m_Shader", formatShaderRef(sp.Shader))
	w.line("m_ShaderKeywords", strings.Join(materialKeywords(a, sp), " "))
	w.line("m_LightmapFlags", "4")
	w.line("m_EnableInstancingVariants", "0")
	w.line("m_DoubleSidedGI", "0")
	w.line("m_CustomRenderQueue", "-1")
	w.line("stringTagMap", "{}")
	w.line("disabledShaderPasses", "[]")

	w.open("m_SavedProperties")
	w.line("serializedVersion", "3")

	// Texture slots
	w.line("m_TexEnvs", "")
	w.texEnv(sp.BaseMap, a.BaseMap, p.Tiling, p.Offset)
	if a.NormalMap != nil {
		w.texEnv(sp.NormalMap, a.NormalMap, r2.Vec{X: 1, Y: 1}, r2.Vec{})
	}

	// Scalar properties
	w.line("m_Floats", "")
	w.item(sp.Metallic, formatFloat(p.Metallic))
	w.item(sp.Smoothness, formatFloat(p.Smoothness))

	// Color properties
	w.line("m_Colors", "")
	w.item(sp.BaseColor, formatColor(p.Albedo))
	w.item(sp.Emission, formatColor(p.Emission))
	w.close()

	w.close()
}

// texEnv writes one m_TexEnvs entry.
func (w *writer) texEnv(name string, tex *TextureRef, scale, offset r2.Vec) {
	w.writeIndent()
	w.writeString("- " + name + ":\n")
	w.level += 2
	w.line("m_Texture", formatTextureRef(tex))
	w.line("m_Scale", formatVec2(scale))
	w.line("m_Offset", formatVec2(offset))
	w.level -= 2
}

// item writes a "- key: value" sequence entry.
func (w *writer) item(key, val string) {
	w.writeIndent()
	w.writeString("- " + key + ": " + val + "\n")
}

// line writes a "key: value" mapping entry.
func (w *writer) line(key, val string) {
	w.writeIndent()
	w.writeString(key)
	w.writeString(":")
	if val != "" {
		w.writeString(" " + val)
	}
	w.writeString("\n")
}

// open writes "key:" and enters a nested mapping.
func (w *writer) open(key string) {
	w.writeIndent()
	w.writeString(key + ":\n")
	w.level++
}

// close leaves a nested mapping.
func (w *writer) close() {
	w.level--
}

// flush flushes buffered output and returns the first error.
func (w *writer) flush() error {
	if w.err != nil {
		return w.err
	}

	return w.w.Flush()
}

// writeIndent writes the current indentation level to the writer.
func (w *writer) writeIndent() {
	if w.level <= 0 {
		return
	}

	// Cache repeated indentation strings per nesting level.
	w.writeString(w.indentFor(w.level))
}

// writeString writes a string to the writer.
func (w *writer) writeString(s string) {
	if w.err != nil {
		return
	}

	_, w.err = w.w.WriteString(s)
}

// indentFor returns the indentation string for a nesting level.
func (w *writer) indentFor(level int) string {
	if level <= 0 {
		return ""
	}

	if len(w.cache) <= level {
		w.cache = append(w.cache, make([]string, level-len(w.cache)+1)...)
	}
	if w.cache[level] == "" {
		// Cache computed indentation for this level.
		w.cache[level] = strings.Repeat(w.indent, level)
	}

	return w.cache[level]
}

// materialKeywords returns the sorted shader keywords of a material.
func materialKeywords(a *MaterialAsset, sp shaderProperties) []string {
	var out []string
	if !a.Properties.Emission.IsZero() {
		out = append(out, sp.EmissionKeyword)
	}
	if a.NormalMap != nil {
		out = append(out, sp.NormalKeywords...)
	}
	sort.Strings(out)

	return out
}

// formatShaderRef formats a shader reference.
func formatShaderRef(s ShaderRef) string {
	return "{fileID: " + strconv.FormatInt(s.FileID, 10) + ", guid: " + s.GUID + ", type: " + strconv.Itoa(s.Type) + "}"
}

// formatTextureRef formats a texture reference; nil is an empty slot.
func formatTextureRef(t *TextureRef) string {
	if t == nil {
		return "{fileID: 0}"
	}

	return "{fileID: " + formatInt(textureFileID) + ", guid: " + t.GUID + ", type: 3}"
}

// formatColor formats a color mapping.
func formatColor(c Color) string {
	return "{r: " + formatFloat(c.R) + ", g: " + formatFloat(c.G) + ", b: " + formatFloat(c.B) + ", a: " + formatFloat(c.A) + "}"
}

// formatVec2 formats a 2D vector mapping.
func formatVec2(v r2.Vec) string {
	return "{x: " + formatFloat(v.X) + ", y: " + formatFloat(v.Y) + "}"
}

// formatScalar returns s as a plain YAML scalar, or double-quoted when
// plain style would change or break its value.
func formatScalar(s string) string {
	if s == "" || strings.TrimSpace(s) != s || strings.ContainsAny(s, ":#{}[],&*!|>'\"%@`") ||
		strings.ContainsFunc(s, unicode.IsControl) || strings.ContainsAny(s[:1], "-?") {
		return strconv.Quote(s)
	}

	return s
}

// formatFloat formats a float64 value to a string.
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// formatInt formats an int value to a string.
func formatInt(v int) string {
	return strconv.Itoa(v)
}

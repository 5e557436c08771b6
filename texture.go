package t2m

import (
	"bytes"
	"io"
	"strings"

	"github.com/google/uuid"
)

// TextureKind indicates how Unity should import a texture.
type TextureKind string

const (
	// TextureKindDefault represents a color texture.
	TextureKindDefault TextureKind = "default"
	// TextureKindNormalMap represents a tangent-space normal map.
	TextureKindNormalMap TextureKind = "normalmap"
)

// Unity object identifiers used in asset references.
const (
	textureFileID  = 2800000
	materialFileID = 2100000
)

// TextureRef references an imported texture asset.
type TextureRef struct {
	GUID string      `json:"guid" yaml:"guid"`                     // Asset GUID
	Path string      `json:"path,omitempty" yaml:"path,omitempty"` // Asset path
	Kind TextureKind `json:"kind,omitempty" yaml:"kind,omitempty"` // Import type
}

// NewTextureRef creates a texture reference with a fresh GUID.
func NewTextureRef(path string, kind TextureKind) TextureRef {
	if kind == "" {
		kind = TextureKindDefault
	}

	return TextureRef{GUID: NewGUID(), Path: path, Kind: kind}
}

// IsNormalMap reports whether the texture is imported as a normal map.
func (t TextureRef) IsNormalMap() bool { return t.Kind == TextureKindNormalMap }

// NewGUID returns a random Unity asset GUID (32 lowercase hex characters).
func NewGUID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// ValidGUID reports whether s is a Unity asset GUID.
func ValidGUID(s string) bool {
	if len(s) != 32 {
		return false
	}

	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}

	return true
}

// EncodeTextureMeta writes the importer .meta document of a texture.
func EncodeTextureMeta(w io.Writer, t TextureRef, opt *FormatOptions) error {
	if !ValidGUID(t.GUID) {
		return ErrInvalidGUID
	}

	wr := newWriter(w, opt.normalize())
	wr.line("fileFormatVersion", "2")
	wr.line("guid", t.GUID)
	wr.open("TextureImporter")
	wr.line("internalIDToNameTable", "[]")
	wr.line("externalObjects", "{}")
	wr.line("serializedVersion", "12")
	wr.open("mipmaps")
	wr.line("mipMapMode", "0")
	wr.line("enableMipMap", "1")
	// Normal maps store vectors, not colors.
	if t.IsNormalMap() {
		wr.line("sRGBTexture", "0")
	} else {
		wr.line("sRGBTexture", "1")
	}
	wr.close()
	wr.open("bumpmap")
	wr.line("convertToNormalMap", "0")
	wr.close()
	wr.line("isReadable", "0")
	wr.open("textureSettings")
	wr.line("serializedVersion", "2")
	wr.line("filterMode", "1")
	wr.line("aniso", "1")
	wr.line("wrapU", "0")
	wr.line("wrapV", "0")
	wr.close()
	if t.IsNormalMap() {
		wr.line("textureType", "1")
	} else {
		wr.line("textureType", "0")
	}
	wr.line("textureShape", "1")
	wr.line("userData", "")
	wr.line("assetBundleName", "")
	wr.line("assetBundleVariant", "")
	wr.close()

	return wr.flush()
}

// FormatTextureMeta renders a texture .meta document to bytes.
func FormatTextureMeta(t TextureRef, opt *FormatOptions) ([]byte, error) {
	var buf bytes.Buffer
	if err := EncodeTextureMeta(&buf, t, opt); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// EncodeMaterialMeta writes the importer .meta document of a material.
func EncodeMaterialMeta(w io.Writer, guid string, opt *FormatOptions) error {
	if !ValidGUID(guid) {
		return ErrInvalidGUID
	}

	wr := newWriter(w, opt.normalize())
	wr.line("fileFormatVersion", "2")
	wr.line("guid", guid)
	wr.open("NativeFormatImporter")
	wr.line("externalObjects", "{}")
	wr.line("mainObjectFileID", formatInt(materialFileID))
	wr.line("userData", "")
	wr.line("assetBundleName", "")
	wr.line("assetBundleVariant", "")
	wr.close()

	return wr.flush()
}

// Package assets writes generated textures and materials into a Unity asset folder.
package assets

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/woozymasta/t2m"
)

// DefaultDir is the asset folder used when Store.Root is empty.
const DefaultDir = "Assets/T2M Materials"

// StampLayout is the time layout appended to generated asset names.
const StampLayout = "2006_01_02_15_04_05"

// Name prefixes of generated assets.
const (
	TexturePrefix   = "T2M_Tex_"
	NormalMapPrefix = "T2M_Norm_"
	MaterialPrefix  = "T2M_Mat_"
)

// ErrEmptyName is returned when an asset name is empty or contains a path separator.
var ErrEmptyName = errors.New("invalid asset name")

// Names holds the file names of one generation run.
type Names struct {
	Texture   string `json:"texture" yaml:"texture"`     // Base texture name
	NormalMap string `json:"normalMap" yaml:"normalMap"` // Normal map name
	Material  string `json:"material" yaml:"material"`   // Material name
}

// NamesAt returns asset names stamped with t.
func NamesAt(t time.Time) Names {
	stamp := t.Format(StampLayout)
	return Names{
		Texture:   TexturePrefix + stamp,
		NormalMap: NormalMapPrefix + stamp,
		Material:  MaterialPrefix + stamp,
	}
}

// Store writes assets below Root.
type Store struct {
	Root string               // Asset directory
	Meta *t2m.FormatOptions   // Formatting of .mat and .meta documents
	PNG  png.CompressionLevel // PNG compression level
}

// New creates a Store rooted at dir; empty means DefaultDir.
func New(dir string) *Store {
	if strings.TrimSpace(dir) == "" {
		dir = DefaultDir
	}

	return &Store{Root: dir}
}

// dir returns the asset directory, creating it when missing.
func (s *Store) dir() (string, error) {
	root := s.Root
	if root == "" {
		root = DefaultDir
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return "", fmt.Errorf("create asset dir: %w", err)
	}

	return root, nil
}

// SaveTexture writes <name>.png and its importer <name>.png.meta.
func (s *Store) SaveTexture(name string, img image.Image, kind t2m.TextureKind) (t2m.TextureRef, error) {
	if err := checkName(name); err != nil {
		return t2m.TextureRef{}, err
	}
	if img == nil {
		return t2m.TextureRef{}, t2m.ErrEmptyImage
	}

	dir, err := s.dir()
	if err != nil {
		return t2m.TextureRef{}, err
	}

	var buf bytes.Buffer
	enc := png.Encoder{CompressionLevel: s.PNG}
	if err := enc.Encode(&buf, img); err != nil {
		return t2m.TextureRef{}, fmt.Errorf("encode %s: %w", name, err)
	}

	path := filepath.Join(dir, name+".png")
	ref := t2m.NewTextureRef(filepath.ToSlash(path), kind)
	meta, err := t2m.FormatTextureMeta(ref, s.Meta)
	if err != nil {
		return t2m.TextureRef{}, err
	}

	if err := writeFileAtomic(path, buf.Bytes(), 0o644); err != nil {
		return t2m.TextureRef{}, err
	}
	if err := writeFileAtomic(path+".meta", meta, 0o644); err != nil {
		return t2m.TextureRef{}, err
	}

	return ref, nil
}

// SaveMaterial writes <a.Name>.mat and its importer .mat.meta and returns the .mat path.
// A missing GUID is generated and stored back into a.
func (s *Store) SaveMaterial(a *t2m.MaterialAsset) (string, error) {
	if a == nil {
		return "", t2m.ErrNilMaterial
	}
	if err := checkName(a.Name); err != nil {
		return "", err
	}
	if a.GUID == "" {
		a.GUID = t2m.NewGUID()
	}

	mat, err := t2m.FormatMaterial(a, s.Meta)
	if err != nil {
		return "", err
	}

	var meta bytes.Buffer
	if err := t2m.EncodeMaterialMeta(&meta, a.GUID, s.Meta); err != nil {
		return "", err
	}

	dir, err := s.dir()
	if err != nil {
		return "", err
	}

	path := filepath.Join(dir, a.Name+".mat")
	if err := writeFileAtomic(path, mat, 0o644); err != nil {
		return "", err
	}
	if err := writeFileAtomic(path+".meta", meta.Bytes(), 0o644); err != nil {
		return "", err
	}

	return path, nil
}

// checkName rejects names that would escape the asset directory.
func checkName(name string) error {
	if strings.TrimSpace(name) == "" || strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return fmt.Errorf("%w: %q", ErrEmptyName, name)
	}

	return nil
}

// writeFileAtomic writes data next to path and renames it into place.
func writeFileAtomic(path string, data []byte, perm os.FileMode) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".t2m-*.tmp")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	cleanup := true
	defer func() {
		if cleanup {
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Chmod(perm); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("swap %s: %w", filepath.Base(path), err)
	}

	cleanup = false
	return nil
}

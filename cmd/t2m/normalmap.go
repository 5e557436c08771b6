package main

import (
	"fmt"
	"image"
	_ "image/jpeg" // register JPEG decoder
	"image/png"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	_ "golang.org/x/image/bmp"  // register BMP decoder
	_ "golang.org/x/image/webp" // register WebP decoder

	"github.com/woozymasta/t2m"
)

func (a *app) newNormalMapCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "normalmap <in> <out.png>",
		Short: "Derive a normal map from an image",
		Long:  "Normalmap reads a PNG, JPEG, WebP or BMP image, treats its luminance as height and writes a tangent-space normal map as PNG.",
		Args:  cobra.ExactArgs(2),
		RunE:  a.runNormalMap,
	}

	f := cmd.Flags()
	f.Float64("strength", t2m.DefaultNormalStrength, "Height multiplier")
	f.Int("workers", 0, "Parallel row workers (default is GOMAXPROCS)")
	f.Bool("flip-green", false, "Write Y-down (DirectX style) normals")
	f.Bool("meta", false, "Also write a Unity .meta importing the result as a normal map")

	return cmd
}

func (a *app) runNormalMap(cmd *cobra.Command, args []string) error {
	strength, _ := cmd.Flags().GetFloat64("strength")
	workers, _ := cmd.Flags().GetInt("workers")
	flipGreen, _ := cmd.Flags().GetBool("flip-green")
	writeMeta, _ := cmd.Flags().GetBool("meta")

	in, err := os.Open(args[0])
	if err != nil {
		return err
	}
	src, format, err := image.Decode(in)
	_ = in.Close()
	if err != nil {
		return fmt.Errorf("decode %s: %w", filepath.Base(args[0]), err)
	}

	dst, err := t2m.NormalMap(src, strength, &t2m.NormalMapOptions{Workers: workers, FlipGreen: flipGreen})
	if err != nil {
		return err
	}

	out, err := os.Create(args[1])
	if err != nil {
		return err
	}
	if err := png.Encode(out, dst); err != nil {
		_ = out.Close()
		return fmt.Errorf("encode %s: %w", filepath.Base(args[1]), err)
	}
	if err := out.Close(); err != nil {
		return err
	}

	if writeMeta {
		meta, err := t2m.FormatTextureMeta(t2m.NewTextureRef(args[1], t2m.TextureKindNormalMap), nil)
		if err != nil {
			return err
		}
		if err := os.WriteFile(args[1]+".meta", meta, 0o644); err != nil {
			return err
		}
	}

	a.logger.Info("normal map written",
		"in", args[0],
		"format", format,
		"out", args[1],
		"width", dst.Bounds().Dx(),
		"height", dst.Bounds().Dy(),
		"strength", strength,
	)
	return nil
}

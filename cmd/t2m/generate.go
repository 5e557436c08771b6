package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/woozymasta/t2m/internal/download"
	"github.com/woozymasta/t2m/internal/generator"
	"github.com/woozymasta/t2m/internal/openai"
	"github.com/woozymasta/t2m/internal/settings"
)

// generateFlags maps settings keys to generate flags.
var generateFlags = [][2]string{
	{"gpt_model", "gpt-model"},
	{"image_model", "image-model"},
	{"image_size", "image-size"},
	{"image_quality", "image-quality"},
	{"pipeline", "pipeline"},
	{"output_dir", "out"},
	{"normal_strength", "strength"},
	{"color_grammar", "grammar"},
	{"prompts_file", "prompts"},
}

func (a *app) newGenerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a material, texture and normal map",
		Long:  "Generate asks the chat model for material properties and the image model for a seamless texture, then writes the texture, its normal map and a Unity material.",
		Args:  cobra.NoArgs,
		RunE:  a.runGenerate,
	}

	f := cmd.Flags()
	f.String("material", "", "Material description sent to the chat model")
	f.String("texture", "", "Texture description sent to the image model (default is --material)")
	f.String("gpt-model", "", "Chat model: "+strings.Join(settings.GPTModels(), ", "))
	f.String("image-model", "", "Image model: "+strings.Join(settings.ImageModels(), ", "))
	f.String("image-size", "", "Image size supported by the image model")
	f.String("image-quality", "", "Image quality: "+strings.Join(settings.ImageQualities(), ", "))
	f.String("pipeline", "", "Render pipeline: standard, urp, hdrp")
	f.String("out", "", "Asset output directory")
	f.Float64("strength", 0, "Normal map strength")
	f.String("grammar", "", "Reply color grammar: floats, html")
	f.String("prompts", "", "Prompt template file")
	f.String("base-url", "", "OpenAI compatible API base URL")
	f.Bool("json", false, "Print the result as JSON")
	a.bind(f, append(generateFlags, [2]string{"base_url", "base-url"}))

	return cmd
}

func (a *app) runGenerate(cmd *cobra.Command, _ []string) error {
	material, _ := cmd.Flags().GetString("material")
	texture, _ := cmd.Flags().GetString("texture")
	asJSON, _ := cmd.Flags().GetBool("json")
	if strings.TrimSpace(material) == "" {
		return fmt.Errorf("--material is required")
	}
	if strings.TrimSpace(texture) == "" {
		texture = material
	}

	s, _, err := a.loadSettings()
	if err != nil {
		return err
	}
	for _, kv := range generateFlags {
		if !a.v.IsSet(kv[0]) {
			continue
		}
		if err := s.Set(kv[0], a.v.GetString(kv[0])); err != nil {
			return err
		}
	}
	if err := s.Validate(); err != nil {
		return err
	}

	key, err := s.LoadAPIKey(a.v.GetString("env_file"))
	if err != nil {
		return err
	}
	client, err := openai.New(key, &openai.Options{BaseURL: a.v.GetString("base_url")})
	if err != nil {
		return err
	}

	gen := generator.New(client, nil, a.logger, generator.WithProgress(func(p download.Progress) {
		a.logger.Debug("texture download", "bytes", p.DownloadedBytes, "total", p.TotalBytes)
	}))
	res, err := gen.Generate(cmd.Context(), s, generator.Request{MaterialPrompt: material, TexturePrompt: texture})
	if err != nil {
		return err
	}

	if asJSON {
		enc := json.NewEncoder(a.out)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}

	fmt.Fprintln(a.out, "material:  ", res.MaterialPath)
	fmt.Fprintln(a.out, "texture:   ", res.TexturePath)
	fmt.Fprintln(a.out, "normal map:", res.NormalMapPath)
	for _, is := range res.Issues {
		fmt.Fprintf(a.out, "%s: %s: %s\n", is.Level, is.Path, is.Message)
	}

	return nil
}

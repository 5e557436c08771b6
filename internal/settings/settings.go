// Package settings holds the user settings of a generation run.
//
// Settings are an explicit value passed into every generation; nothing is
// global. They persist as a JSON file written with an atomic swap.
package settings

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"github.com/woozymasta/t2m"
)

// Chat models offered to users.
var gptModels = []string{
	openai.GPT3Dot5Turbo,
	openai.GPT4,
	openai.GPT4Turbo1106,
}

// Image models offered to users.
var imageModels = []string{
	openai.CreateImageModelDallE2,
	openai.CreateImageModelDallE3,
}

// Image sizes per image model; the first entry is the model default.
var imageSizes = map[string][]string{
	openai.CreateImageModelDallE2: {
		openai.CreateImageSize256x256,
		openai.CreateImageSize512x512,
		openai.CreateImageSize1024x1024,
	},
	openai.CreateImageModelDallE3: {
		openai.CreateImageSize1024x1024,
		openai.CreateImageSize1792x1024,
		openai.CreateImageSize1024x1792,
	},
}

// Image qualities offered to users.
var imageQualities = []string{
	openai.CreateImageQualityStandard,
	openai.CreateImageQualityHD,
}

// Settings configures a generation run.
type Settings struct {
	GPTModel       string             `json:"gpt_model" yaml:"gpt_model"`                           // Chat model
	ImageModel     string             `json:"image_model" yaml:"image_model"`                       // Image model
	ImageSize      string             `json:"image_size" yaml:"image_size"`                         // Image size for ImageModel
	ImageQuality   string             `json:"image_quality" yaml:"image_quality"`                   // Image quality
	Pipeline       t2m.RenderPipeline `json:"pipeline" yaml:"pipeline"`                             // Target render pipeline
	OutputDir      string             `json:"output_dir" yaml:"output_dir"`                         // Asset directory
	NormalStrength float64            `json:"normal_strength" yaml:"normal_strength"`               // Normal map height multiplier
	ColorGrammar   t2m.ColorGrammar   `json:"color_grammar" yaml:"color_grammar"`                   // Reply color grammar
	PromptsFile    string             `json:"prompts_file,omitempty" yaml:"prompts_file,omitempty"` // Prompt template override
	APIKey         string             `json:"api_key,omitempty" yaml:"api_key,omitempty"`           // Persisted OpenAI key
}

// Default returns the default settings.
func Default() Settings {
	return Settings{
		GPTModel:       openai.GPT3Dot5Turbo,
		ImageModel:     openai.CreateImageModelDallE2,
		ImageSize:      openai.CreateImageSize256x256,
		ImageQuality:   openai.CreateImageQualityStandard,
		Pipeline:       t2m.PipelineHDRP,
		OutputDir:      "Assets/T2M Materials",
		NormalStrength: t2m.DefaultNormalStrength,
		ColorGrammar:   t2m.ColorGrammarFloats,
	}
}

// GPTModels returns the supported chat models.
func GPTModels() []string { return slices.Clone(gptModels) }

// ImageModels returns the supported image models.
func ImageModels() []string { return slices.Clone(imageModels) }

// ImageQualities returns the supported image qualities.
func ImageQualities() []string { return slices.Clone(imageQualities) }

// ImageSizes returns the sizes supported by an image model.
func ImageSizes(model string) []string { return slices.Clone(imageSizes[model]) }

// Normalize lowercases names and replaces empty or unsupported values with defaults.
// An image size the image model does not support is reset to the model default.
// NormalStrength is kept as is; zero is a valid strength.
func (s Settings) Normalize() Settings {
	def := Default()

	s.GPTModel = pick(s.GPTModel, gptModels, def.GPTModel)
	s.ImageModel = pick(s.ImageModel, imageModels, def.ImageModel)
	sizes := imageSizes[s.ImageModel]
	s.ImageSize = pick(s.ImageSize, sizes, sizes[0])
	s.ImageQuality = pick(s.ImageQuality, imageQualities, def.ImageQuality)

	if p, err := t2m.ParseRenderPipeline(string(s.Pipeline)); err == nil {
		s.Pipeline = p
	} else {
		s.Pipeline = def.Pipeline
	}
	if g, err := t2m.ParseColorGrammar(string(s.ColorGrammar)); err == nil {
		s.ColorGrammar = g
	} else {
		s.ColorGrammar = def.ColorGrammar
	}

	s.OutputDir = strings.TrimSpace(s.OutputDir)
	if s.OutputDir == "" {
		s.OutputDir = def.OutputDir
	}
	s.PromptsFile = strings.TrimSpace(s.PromptsFile)
	s.APIKey = strings.TrimSpace(s.APIKey)

	return s
}

// Validate reports unsupported names, with a suggestion when one is close.
// Empty values are valid and mean the default.
func (s Settings) Validate() error {
	var errs []error

	errs = append(errs, checkName("gpt_model", s.GPTModel, gptModels))
	errs = append(errs, checkName("image_model", s.ImageModel, imageModels))
	errs = append(errs, checkName("image_quality", s.ImageQuality, imageQualities))

	if model := strings.ToLower(strings.TrimSpace(s.ImageModel)); slices.Contains(imageModels, model) {
		errs = append(errs, checkName("image_size", s.ImageSize, imageSizes[model]))
	}
	if _, err := t2m.ParseRenderPipeline(string(s.Pipeline)); err != nil {
		errs = append(errs, fmt.Errorf("pipeline: %w", err))
	}
	if _, err := t2m.ParseColorGrammar(string(s.ColorGrammar)); err != nil {
		errs = append(errs, fmt.Errorf("color_grammar: %w", err))
	}
	if math.IsNaN(s.NormalStrength) || math.IsInf(s.NormalStrength, 0) {
		errs = append(errs, fmt.Errorf("normal_strength: %w", t2m.ErrInvalidStrength))
	}

	return errors.Join(errs...)
}

// pick returns the normalized v when it is one of allowed, otherwise def.
func pick(v string, allowed []string, def string) string {
	v = strings.ToLower(strings.TrimSpace(v))
	if slices.Contains(allowed, v) {
		return v
	}

	return def
}

// checkName validates a non-empty name against allowed values.
func checkName(field, v string, allowed []string) error {
	v = strings.ToLower(strings.TrimSpace(v))
	if v == "" || slices.Contains(allowed, v) {
		return nil
	}

	if hint := t2m.Suggest(v, allowed, 3); hint != "" {
		return fmt.Errorf("%w: %s %q (did you mean %q?)", ErrUnknownValue, field, v, hint)
	}

	return fmt.Errorf("%w: %s %q (one of %s)", ErrUnknownValue, field, v, strings.Join(allowed, ", "))
}

// Keys returns the keys accepted by Set in a stable order.
func Keys() []string {
	return []string{
		"gpt_model", "image_model", "image_size", "image_quality", "pipeline",
		"output_dir", "normal_strength", "color_grammar", "prompts_file", "api_key",
	}
}

// Set assigns one setting by key.
func (s *Settings) Set(key, value string) error {
	value = strings.TrimSpace(value)

	switch strings.ToLower(strings.TrimSpace(key)) {
	case "gpt_model":
		s.GPTModel = value
	case "image_model":
		s.ImageModel = value
	case "image_size":
		s.ImageSize = value
	case "image_quality":
		s.ImageQuality = value
	case "pipeline":
		s.Pipeline = t2m.RenderPipeline(value)
	case "output_dir":
		s.OutputDir = value
	case "normal_strength":
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("normal_strength: %w", err)
		}
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return fmt.Errorf("normal_strength: %w", t2m.ErrInvalidStrength)
		}
		s.NormalStrength = f
	case "color_grammar":
		s.ColorGrammar = t2m.ColorGrammar(value)
	case "prompts_file":
		s.PromptsFile = value
	case "api_key":
		s.APIKey = value
	default:
		if hint := t2m.Suggest(key, Keys(), 3); hint != "" {
			return fmt.Errorf("%w: %q (did you mean %q?)", ErrUnknownKey, key, hint)
		}
		return fmt.Errorf("%w: %q", ErrUnknownKey, key)
	}

	return nil
}

// Path returns the default settings file location.
func Path() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(dir, "t2m", "settings.json"), nil
}

// Load reads settings from the default location.
func Load() (Settings, error) {
	path, err := Path()
	if err != nil {
		return Settings{}, err
	}

	return LoadFrom(path)
}

// LoadFrom reads settings from path. A missing file yields Default
// and keys missing from the file keep their default values.
func LoadFrom(path string) (Settings, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return Settings{}, err
	}

	s := Default()
	if err := json.Unmarshal(data, &s); err != nil {
		return Settings{}, fmt.Errorf("parse settings: %w", err)
	}

	return s.Normalize(), nil
}

// Save writes settings to the default location.
func Save(s Settings) error {
	path, err := Path()
	if err != nil {
		return err
	}

	return SaveTo(path, s)
}

// SaveTo writes normalized settings to path with mode 0600.
func SaveTo(path string, s Settings) error {
	s = s.Normalize()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, "settings-*.tmp")
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
	if err := tmp.Chmod(0o600); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return err
	}

	cleanup = false
	return nil
}

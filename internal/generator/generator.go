// Package generator runs one text-to-material generation.
package generator

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/woozymasta/t2m"
	"github.com/woozymasta/t2m/internal/assets"
	"github.com/woozymasta/t2m/internal/download"
	"github.com/woozymasta/t2m/internal/openai"
	"github.com/woozymasta/t2m/internal/prompt"
	"github.com/woozymasta/t2m/internal/settings"
)

// Provider produces the chat reply and the texture URL.
type Provider interface {
	Chat(ctx context.Context, prompt, model string) (string, error)
	Image(ctx context.Context, prompt string, p openai.ImageParams) (string, error)
}

// Request is the user input of one generation.
type Request struct {
	MaterialPrompt string `json:"material" yaml:"material"` // Material description
	TexturePrompt  string `json:"texture" yaml:"texture"`   // Texture description
}

// Result describes the written assets.
type Result struct {
	Properties    t2m.MaterialProperties `json:"properties" yaml:"properties"`                 // Parsed properties
	Issues        []t2m.Issue            `json:"issues,omitempty" yaml:"issues,omitempty"`     // Validation issues
	Reply         string                 `json:"reply" yaml:"reply"`                           // Raw chat reply
	TextureURL    string                 `json:"textureUrl" yaml:"textureUrl"`                 // Generated image URL
	TexturePath   string                 `json:"texturePath" yaml:"texturePath"`               // Base texture file
	NormalMapPath string                 `json:"normalMapPath" yaml:"normalMapPath"`           // Normal map file
	MaterialPath  string                 `json:"materialPath" yaml:"materialPath"`             // Material file
	Pipeline      t2m.RenderPipeline     `json:"pipeline,omitempty" yaml:"pipeline,omitempty"` // Target pipeline
	Prompts       *Request               `json:"prompts,omitempty" yaml:"prompts,omitempty"`   // Expanded prompts sent to the models
	Duration      time.Duration          `json:"duration,omitempty" yaml:"duration,omitempty"` // Wall time of the run
}

// Generator turns requests into Unity assets.
type Generator struct {
	provider Provider
	store    *assets.Store
	logger   *slog.Logger
	client   *http.Client
	prompts  *prompt.Set
	progress func(download.Progress)
	now      func() time.Time
	workers  int
}

// Option configures a Generator.
type Option func(*Generator)

// WithHTTPClient sets the client used to download textures.
func WithHTTPClient(c *http.Client) Option {
	return func(g *Generator) { g.client = c }
}

// WithPrompts overrides the prompt templates chosen from settings.
func WithPrompts(s prompt.Set) Option {
	return func(g *Generator) { g.prompts = &s }
}

// WithProgress reports texture download progress.
func WithProgress(fn func(download.Progress)) Option {
	return func(g *Generator) { g.progress = fn }
}

// WithClock sets the clock used to stamp asset names.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) { g.now = now }
}

// WithWorkers bounds normal map workers.
func WithWorkers(n int) Option {
	return func(g *Generator) { g.workers = n }
}

// New creates a Generator. A nil store writes into each run's settings OutputDir.
func New(provider Provider, store *assets.Store, logger *slog.Logger, opts ...Option) *Generator {
	if logger == nil {
		logger = slog.Default()
	}

	g := &Generator{
		provider: provider,
		store:    store,
		logger:   logger,
		client:   http.DefaultClient,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}

	return g
}

// Generate requests properties and a texture, derives the normal map and writes the assets.
// Any collaborator failure aborts the run; validation issues are logged and returned.
func (g *Generator) Generate(ctx context.Context, s settings.Settings, req Request) (*Result, error) {
	start := g.now()
	s = s.Normalize()

	set, err := g.promptSet(s)
	if err != nil {
		return nil, err
	}
	expanded := Request{
		MaterialPrompt: set.Material(req.MaterialPrompt),
		TexturePrompt:  set.Texture(req.TexturePrompt),
	}

	// The download outlives the errgroup context, so it gets its own.
	dctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		reply string
		url   string
		task  *download.Task
	)
	eg, ectx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		g.logger.Info("requesting material properties", "model", s.GPTModel)
		r, err := g.provider.Chat(ectx, expanded.MaterialPrompt, s.GPTModel)
		if err != nil {
			return fmt.Errorf("material properties: %w", err)
		}
		reply = r
		return nil
	})
	eg.Go(func() error {
		g.logger.Info("requesting texture", "model", s.ImageModel, "size", s.ImageSize, "quality", s.ImageQuality)
		u, err := g.provider.Image(ectx, expanded.TexturePrompt, openai.ImageParams{
			Model:   s.ImageModel,
			Size:    s.ImageSize,
			Quality: s.ImageQuality,
		})
		if err != nil {
			return fmt.Errorf("texture: %w", err)
		}
		url = u
		task = download.Start(dctx, g.client, u, &download.Options{Progress: g.progress})
		return nil
	})
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	props := t2m.Parse(reply, &t2m.ParseOptions{ColorGrammar: s.ColorGrammar})
	issues := t2m.Validate(props, nil)
	for _, is := range issues {
		g.logger.Warn("material property issue", "path", is.Path, "code", is.Code, "message", is.Message)
	}
	g.logger.Debug("parsed material properties", "reply", reply, "metallic", props.Metallic, "smoothness", props.Smoothness)

	g.logger.Info("downloading texture", "url", url)
	img, err := task.Wait(ctx)
	if err != nil {
		return nil, fmt.Errorf("texture download: %w", err)
	}

	normal, err := t2m.NormalMap(img, s.NormalStrength, &t2m.NormalMapOptions{Workers: g.workers})
	if err != nil {
		return nil, fmt.Errorf("normal map: %w", err)
	}

	store := g.store
	if store == nil {
		store = assets.New(s.OutputDir)
	}
	names := assets.NamesAt(start)

	base, err := store.SaveTexture(names.Texture, img, t2m.TextureKindDefault)
	if err != nil {
		return nil, fmt.Errorf("save texture: %w", err)
	}
	norm, err := store.SaveTexture(names.NormalMap, normal, t2m.TextureKindNormalMap)
	if err != nil {
		return nil, fmt.Errorf("save normal map: %w", err)
	}
	matPath, err := store.SaveMaterial(&t2m.MaterialAsset{
		Name:       names.Material,
		Pipeline:   s.Pipeline,
		Properties: props,
		BaseMap:    &base,
		NormalMap:  &norm,
	})
	if err != nil {
		return nil, fmt.Errorf("save material: %w", err)
	}

	res := &Result{
		Properties:    props,
		Issues:        issues,
		Reply:         reply,
		TextureURL:    url,
		TexturePath:   base.Path,
		NormalMapPath: norm.Path,
		MaterialPath:  matPath,
		Pipeline:      s.Pipeline,
		Prompts:       &expanded,
		Duration:      g.now().Sub(start),
	}
	g.logger.Info("material generated", "material", res.MaterialPath, "pipeline", s.Pipeline, "duration", res.Duration)

	return res, nil
}

// promptSet picks the prompt templates for s.
func (g *Generator) promptSet(s settings.Settings) (prompt.Set, error) {
	if g.prompts != nil {
		return *g.prompts, nil
	}
	if s.PromptsFile != "" {
		return prompt.Load(s.PromptsFile)
	}

	return prompt.Default(s.ColorGrammar), nil
}

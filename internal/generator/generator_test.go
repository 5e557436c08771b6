package generator

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/woozymasta/t2m"
	"github.com/woozymasta/t2m/internal/assets"
	"github.com/woozymasta/t2m/internal/openai"
	"github.com/woozymasta/t2m/internal/prompt"
	"github.com/woozymasta/t2m/internal/settings"
)

// fakeProvider records prompts and returns canned answers.
type fakeProvider struct {
	mu        sync.Mutex
	reply     string
	url       string
	chatErr   error
	imageErr  error
	chatModel string
	image     openai.ImageParams
	prompts   []string
}

func (f *fakeProvider) Chat(_ context.Context, p, model string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prompts = append(f.prompts, p)
	f.chatModel = model
	return f.reply, f.chatErr
}

func (f *fakeProvider) Image(_ context.Context, p string, params openai.ImageParams) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prompts = append(f.prompts, p)
	f.image = params
	return f.url, f.imageErr
}

// textureServer serves a small gradient PNG.
func textureServer(t *testing.T) *httptest.Server {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 8, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 8; x++ {
			img.Set(x, y, color.NRGBA{R: uint8(x * 30), G: uint8(y * 60), B: 90, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode: %v", err)
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/tex.png" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(buf.Bytes())
	}))
	t.Cleanup(srv.Close)

	return srv
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func fixedClock() time.Time {
	return time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
}

func TestGenerate(t *testing.T) {
	srv := textureServer(t)
	fp := &fakeProvider{
		reply: "Albedo: 0.5 0.4 0.3 1, Metallic: 1.5, Smoothness: 0.2, Emission: 0 0 0 1, Tiling: 2 2, Offset: 0 0",
		url:   srv.URL + "/tex.png",
	}
	dir := t.TempDir()

	g := New(fp, nil, quietLogger(),
		WithHTTPClient(srv.Client()),
		WithPrompts(prompt.Set{MaterialTemplate: "mat<{0}>", TextureTemplate: "tex<{0}>"}),
		WithClock(fixedClock),
		WithWorkers(2),
	)

	s := settings.Default()
	s.OutputDir = dir
	s.ImageModel = "dall-e-3"
	s.ImageSize = "1792x1024"
	s.ImageQuality = "hd"
	s.GPTModel = "gpt-4"
	s.Pipeline = t2m.PipelineURP

	res, err := g.Generate(context.Background(), s, Request{MaterialPrompt: "rusty iron", TexturePrompt: "rust"})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if fp.chatModel != "gpt-4" {
		t.Fatalf("chat model %q", fp.chatModel)
	}
	if fp.image != (openai.ImageParams{Model: "dall-e-3", Size: "1792x1024", Quality: "hd"}) {
		t.Fatalf("image params %+v", fp.image)
	}
	if res.Prompts.MaterialPrompt != "mat<rusty iron>" || res.Prompts.TexturePrompt != "tex<rust>" {
		t.Fatalf("prompts %+v", res.Prompts)
	}

	if res.Properties.Metallic != 1.5 || res.Properties.Smoothness != 0.2 {
		t.Fatalf("properties %+v", res.Properties)
	}
	if len(res.Issues) != 1 || res.Issues[0].Path != "metallic" {
		t.Fatalf("issues %+v", res.Issues)
	}

	if filepath.Base(res.TexturePath) != "T2M_Tex_2024_01_02_03_04_05.png" {
		t.Fatalf("texture path %q", res.TexturePath)
	}
	if filepath.Base(res.NormalMapPath) != "T2M_Norm_2024_01_02_03_04_05.png" {
		t.Fatalf("normal map path %q", res.NormalMapPath)
	}
	if filepath.Base(res.MaterialPath) != "T2M_Mat_2024_01_02_03_04_05.mat" {
		t.Fatalf("material path %q", res.MaterialPath)
	}

	f, err := os.Open(filepath.FromSlash(res.NormalMapPath))
	if err != nil {
		t.Fatalf("open normal map: %v", err)
	}
	defer f.Close()
	nm, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode normal map: %v", err)
	}
	if nm.Bounds().Dx() != 8 || nm.Bounds().Dy() != 4 {
		t.Fatalf("normal map bounds %v", nm.Bounds())
	}

	mat, err := os.ReadFile(res.MaterialPath)
	if err != nil {
		t.Fatalf("read material: %v", err)
	}
	for _, w := range []string{"- _BaseMap:", "- _BumpMap:", "m_Scale: {x: 2, y: 2}", "_NORMALMAP"} {
		if !strings.Contains(string(mat), w) {
			t.Fatalf("material missing %q:\n%s", w, mat)
		}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 6 {
		t.Fatalf("expected 6 files, got %d", len(entries))
	}
}

func TestGenerateDefaultPrompts(t *testing.T) {
	srv := textureServer(t)
	fp := &fakeProvider{reply: "Metallic: 0.1", url: srv.URL + "/tex.png"}
	store := assets.New(t.TempDir())

	g := New(fp, store, quietLogger(), WithHTTPClient(srv.Client()))
	s := settings.Default()
	s.ColorGrammar = t2m.ColorGrammarHTML

	if _, err := g.Generate(context.Background(), s, Request{MaterialPrompt: "glass", TexturePrompt: "glass"}); err != nil {
		t.Fatalf("generate: %v", err)
	}

	want := prompt.Default(t2m.ColorGrammarHTML).Material("glass")
	found := false
	for _, p := range fp.prompts {
		if p == want {
			found = true
		}
	}
	if !found {
		t.Fatalf("html material prompt not sent: %q", fp.prompts)
	}
}

func TestGenerateErrors(t *testing.T) {
	srv := textureServer(t)
	boom := errors.New("boom")

	tests := []struct {
		name string
		fp   *fakeProvider
		want error
	}{
		{name: "chat", fp: &fakeProvider{chatErr: boom, url: srv.URL + "/tex.png"}, want: boom},
		{name: "image", fp: &fakeProvider{imageErr: boom}, want: boom},
		{name: "download", fp: &fakeProvider{url: srv.URL + "/missing.png"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			dir := t.TempDir()
			g := New(tc.fp, assets.New(dir), quietLogger(), WithHTTPClient(srv.Client()))

			_, err := g.Generate(context.Background(), settings.Default(), Request{MaterialPrompt: "m", TexturePrompt: "t"})
			if err == nil {
				t.Fatalf("expected error")
			}
			if tc.want != nil && !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}

			entries, _ := os.ReadDir(dir)
			if len(entries) != 0 {
				t.Fatalf("no assets expected after failure, got %d", len(entries))
			}
		})
	}
}

func TestGenerateMissingPromptsFile(t *testing.T) {
	g := New(&fakeProvider{}, assets.New(t.TempDir()), nil)
	s := settings.Default()
	s.PromptsFile = filepath.Join(t.TempDir(), "missing.txt")

	if _, err := g.Generate(context.Background(), s, Request{}); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected not exist, got %v", err)
	}
}

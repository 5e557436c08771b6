package settings

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/woozymasta/t2m"
)

func TestDefault(t *testing.T) {
	d := Default()
	if d.GPTModel != "gpt-3.5-turbo" || d.ImageModel != "dall-e-2" || d.ImageSize != "256x256" || d.ImageQuality != "standard" {
		t.Fatalf("unexpected model defaults %+v", d)
	}
	if d.Pipeline != t2m.PipelineHDRP || d.NormalStrength != 20 || d.ColorGrammar != t2m.ColorGrammarFloats {
		t.Fatalf("unexpected defaults %+v", d)
	}
	if d.Normalize() != d {
		t.Fatalf("defaults must be normalized")
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   Settings
		want func(Settings) bool
	}{
		{
			name: "empty becomes default except strength",
			in:   Settings{},
			want: func(s Settings) bool {
				d := Default()
				d.NormalStrength = 0
				return s == d
			},
		},
		{
			name: "names are lowercased",
			in:   Settings{GPTModel: " GPT-4 ", ImageModel: "DALL-E-3", ImageSize: "1792x1024", ImageQuality: "HD", Pipeline: "URP", ColorGrammar: "Html"},
			want: func(s Settings) bool {
				return s.GPTModel == "gpt-4" && s.ImageModel == "dall-e-3" && s.ImageSize == "1792x1024" &&
					s.ImageQuality == "hd" && s.Pipeline == t2m.PipelineURP && s.ColorGrammar == t2m.ColorGrammarHTML
			},
		},
		{
			name: "size of another model resets to model default",
			in:   Settings{ImageModel: "dall-e-3", ImageSize: "256x256"},
			want: func(s Settings) bool { return s.ImageSize == "1024x1024" },
		},
		{
			name: "unknown values fall back",
			in:   Settings{GPTModel: "gpt-9", ImageQuality: "ultra", Pipeline: "lwrp", ColorGrammar: "hex"},
			want: func(s Settings) bool {
				d := Default()
				return s.GPTModel == d.GPTModel && s.ImageQuality == d.ImageQuality && s.Pipeline == d.Pipeline && s.ColorGrammar == d.ColorGrammar
			},
		},
		{
			name: "negative strength is kept",
			in:   Settings{NormalStrength: -4},
			want: func(s Settings) bool { return s.NormalStrength == -4 },
		},
		{
			name: "zero strength is kept",
			in:   Settings{GPTModel: "gpt-4"},
			want: func(s Settings) bool { return s.NormalStrength == 0 },
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.in.Normalize(); !tc.want(got) {
				t.Fatalf("unexpected result %+v", got)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	if err := (Settings{}).Validate(); err != nil {
		t.Fatalf("empty settings: %v", err)
	}
	if err := Default().Validate(); err != nil {
		t.Fatalf("default settings: %v", err)
	}
	if err := (Settings{NormalStrength: math.Inf(1)}).Validate(); !errors.Is(err, t2m.ErrInvalidStrength) {
		t.Fatalf("expected ErrInvalidStrength, got %v", err)
	}

	err := Settings{GPTModel: "gpt4", ImageModel: "dall-e-3", ImageSize: "512x512"}.Validate()
	if !errors.Is(err, ErrUnknownValue) {
		t.Fatalf("expected ErrUnknownValue, got %v", err)
	}
	msg := err.Error()
	if !strings.Contains(msg, `did you mean "gpt-4"?`) {
		t.Fatalf("expected model suggestion in %q", msg)
	}
	if !strings.Contains(msg, "image_size") {
		t.Fatalf("expected size error in %q", msg)
	}

	if err := (Settings{Pipeline: "hdpr"}).Validate(); !errors.Is(err, t2m.ErrUnknownPipeline) {
		t.Fatalf("expected ErrUnknownPipeline, got %v", err)
	}
}

func TestSet(t *testing.T) {
	var s Settings
	for _, kv := range [][2]string{
		{"gpt_model", "gpt-4"},
		{"Normal_Strength", "12.5"},
		{"pipeline", "urp"},
		{"api_key", " sk-test "},
	} {
		if err := s.Set(kv[0], kv[1]); err != nil {
			t.Fatalf("set %s: %v", kv[0], err)
		}
	}
	if s.GPTModel != "gpt-4" || s.NormalStrength != 12.5 || s.Pipeline != t2m.PipelineURP || s.APIKey != "sk-test" {
		t.Fatalf("unexpected settings %+v", s)
	}

	if err := s.Set("normal_strength", "strong"); err == nil {
		t.Fatalf("expected number error")
	}
	for _, v := range []string{"NaN", "Inf", "-Inf"} {
		if err := s.Set("normal_strength", v); !errors.Is(err, t2m.ErrInvalidStrength) {
			t.Fatalf("set normal_strength=%s: %v", v, err)
		}
	}
	if s.NormalStrength != 12.5 {
		t.Fatalf("rejected value was stored: %v", s.NormalStrength)
	}
	if err := s.Set("normal_strength", "0"); err != nil || s.NormalStrength != 0 {
		t.Fatalf("set zero strength: %v %v", s.NormalStrength, err)
	}
	err := s.Set("pipline", "urp")
	if !errors.Is(err, ErrUnknownKey) || !strings.Contains(err.Error(), `"pipeline"`) {
		t.Fatalf("expected suggestion, got %v", err)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "settings.json")

	s := Default()
	s.GPTModel = "gpt-4-1106-preview"
	s.ImageModel = "dall-e-3"
	s.ImageSize = "1024x1792"
	s.ImageQuality = "hd"
	s.Pipeline = t2m.PipelineStandard
	s.OutputDir = "Assets/Generated"
	s.NormalStrength = 7
	s.APIKey = "sk-secret"

	if err := SaveTo(path, s); err != nil {
		t.Fatalf("save: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Fatalf("settings file mode %v", perm)
	}

	got, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got != s {
		t.Fatalf("round trip %+v != %+v", got, s)
	}

	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("temp files left behind: %d entries", len(entries))
	}
}

func TestZeroStrengthRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")

	s := Default()
	if err := s.Set("normal_strength", "0"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := SaveTo(path, s); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.NormalStrength != 0 {
		t.Fatalf("zero strength loaded as %v", got.NormalStrength)
	}
}

func TestLoadMissingKeysKeepDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	if err := os.WriteFile(path, []byte(`{"gpt_model":"gpt-4"}`), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	got, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.GPTModel != "gpt-4" || got.NormalStrength != t2m.DefaultNormalStrength || got.Pipeline != t2m.PipelineHDRP {
		t.Fatalf("unexpected settings %+v", got)
	}
}

func TestLoadMissingAndBroken(t *testing.T) {
	dir := t.TempDir()
	got, err := LoadFrom(filepath.Join(dir, "missing.json"))
	if err != nil || got != Default() {
		t.Fatalf("missing file: %+v %v", got, err)
	}

	broken := filepath.Join(dir, "broken.json")
	if err := os.WriteFile(broken, []byte("{"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := LoadFrom(broken); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestLoadAPIKey(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	if err := os.WriteFile(envFile, []byte("OPENAI_API_KEY=sk-from-file\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	t.Run("env wins over persisted", func(t *testing.T) {
		t.Setenv(APIKeyEnv, "sk-env")
		key, err := Settings{APIKey: "sk-stored"}.LoadAPIKey(filepath.Join(dir, "missing.env"))
		if err != nil || key != "sk-env" {
			t.Fatalf("key %q err %v", key, err)
		}
	})

	t.Run("dotenv file", func(t *testing.T) {
		t.Setenv(APIKeyEnv, "")
		if err := os.Unsetenv(APIKeyEnv); err != nil {
			t.Fatalf("unset: %v", err)
		}
		key, err := Settings{APIKey: "sk-stored"}.LoadAPIKey(envFile)
		if err != nil || key != "sk-from-file" {
			t.Fatalf("key %q err %v", key, err)
		}
	})

	t.Run("persisted fallback", func(t *testing.T) {
		t.Setenv(APIKeyEnv, "")
		key, err := Settings{APIKey: "sk-stored"}.LoadAPIKey(filepath.Join(dir, "missing.env"))
		if err != nil || key != "sk-stored" {
			t.Fatalf("key %q err %v", key, err)
		}
	})

	t.Run("nothing", func(t *testing.T) {
		t.Setenv(APIKeyEnv, "")
		if _, err := (Settings{}).LoadAPIKey(filepath.Join(dir, "missing.env")); !errors.Is(err, ErrNoAPIKey) {
			t.Fatalf("expected ErrNoAPIKey, got %v", err)
		}
	})
}

// Package prompt holds the templates that wrap user text before it is sent to the models.
//
// A prompt file has two lines: the material template and the texture template.
// Each template contains a {0} placeholder that is replaced by the user text.
package prompt

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/woozymasta/t2m"
)

// Placeholder is replaced by user text in both templates.
const Placeholder = "{0}"

// ErrIncomplete is returned when a prompt file has fewer than two templates.
var ErrIncomplete = errors.New("prompt file needs a material and a texture line")

var (
	//go:embed prompts_floats.txt
	floatsPrompts string

	//go:embed prompts_html.txt
	htmlPrompts string
)

// Set is a pair of prompt templates.
type Set struct {
	MaterialTemplate string `json:"material" yaml:"material"` // Chat prompt template
	TextureTemplate  string `json:"texture" yaml:"texture"`   // Image prompt template
}

// Default returns the embedded templates matching the reply color grammar.
func Default(g t2m.ColorGrammar) Set {
	if g == t2m.ColorGrammarHTML {
		s, _ := Parse(htmlPrompts)
		return s
	}

	s, _ := Parse(floatsPrompts)
	return s
}

// Load reads templates from a prompt file.
func Load(path string) (Set, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Set{}, fmt.Errorf("read prompts: %w", err)
	}

	s, err := Parse(string(b))
	if err != nil {
		return Set{}, fmt.Errorf("%s: %w", path, err)
	}

	return s, nil
}

// Parse reads templates from prompt file contents. Blank lines are skipped.
func Parse(text string) (Set, error) {
	var lines []string
	for _, line := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	if len(lines) < 2 {
		return Set{}, ErrIncomplete
	}

	return Set{MaterialTemplate: lines[0], TextureTemplate: lines[1]}, nil
}

// Material returns the chat prompt for text.
func (s Set) Material(text string) string {
	return strings.ReplaceAll(s.MaterialTemplate, Placeholder, strings.TrimSpace(text))
}

// Texture returns the image prompt for text.
func (s Set) Texture(text string) string {
	return strings.ReplaceAll(s.TextureTemplate, Placeholder, strings.TrimSpace(text))
}

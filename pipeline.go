package t2m

import (
	"fmt"
	"strings"
)

// RenderPipeline identifies the Unity render pipeline a material targets.
type RenderPipeline string

const (
	// PipelineStandard is the built-in render pipeline with the Standard shader.
	PipelineStandard RenderPipeline = "standard"
	// PipelineURP is the Universal Render Pipeline with the URP/Lit shader.
	PipelineURP RenderPipeline = "urp"
	// PipelineHDRP is the High Definition Render Pipeline with the HDRP/Lit shader.
	PipelineHDRP RenderPipeline = "hdrp"
)

// ShaderRef is a Unity object reference to a shader.
type ShaderRef struct {
	GUID   string `json:"guid" yaml:"guid"`     // Asset GUID
	FileID int64  `json:"fileId" yaml:"fileId"` // Local file identifier
	Type   int    `json:"type" yaml:"type"`     // Reference type (0 built-in, 3 asset)
}

// shaderProperties lists shader property names used by the material writer.
type shaderProperties struct {
	Shader          ShaderRef // Shader reference
	BaseMap         string    // Albedo texture slot
	NormalMap       string    // Normal map texture slot
	BaseColor       string    // Albedo tint
	Metallic        string    // Metallic factor
	Smoothness      string    // Smoothness factor
	Emission        string    // Emission color
	EmissionKeyword string    // Keyword enabled when emission is set
	NormalKeywords  []string  // Keywords enabled when a normal map is set
}

var pipelineProperties = map[RenderPipeline]shaderProperties{
	PipelineStandard: {
		Shader:          ShaderRef{FileID: 46, GUID: "0000000000000000f000000000000000", Type: 0},
		BaseMap:         "_MainTex",
		NormalMap:       "_BumpMap",
		BaseColor:       "_Color",
		Metallic:        "_Metallic",
		Smoothness:      "_Glossiness",
		Emission:        "_EmissionColor",
		EmissionKeyword: "_EMISSION",
		NormalKeywords:  []string{"_NORMALMAP"},
	},
	PipelineURP: {
		Shader:          ShaderRef{FileID: 4800000, GUID: "933532a4fcc9baf4fa0491de14d08ed7", Type: 3},
		BaseMap:         "_BaseMap",
		NormalMap:       "_BumpMap",
		BaseColor:       "_BaseColor",
		Metallic:        "_Metallic",
		Smoothness:      "_Smoothness",
		Emission:        "_EmissionColor",
		EmissionKeyword: "_EMISSION",
		NormalKeywords:  []string{"_NORMALMAP"},
	},
	PipelineHDRP: {
		Shader:          ShaderRef{FileID: 4800000, GUID: "6e4ae4064600d784cac1e41a9e6f2e59", Type: 3},
		BaseMap:         "_BaseColorMap",
		NormalMap:       "_NormalMap",
		BaseColor:       "_BaseColor",
		Metallic:        "_Metallic",
		Smoothness:      "_Smoothness",
		Emission:        "_EmissiveColor",
		EmissionKeyword: "_UseEmissiveIntensity",
		NormalKeywords:  []string{"_NORMALMAP", "_NORMALMAP_TANGENT_SPACE"},
	},
}

// RenderPipelines returns supported pipelines in a stable order.
func RenderPipelines() []RenderPipeline {
	return []RenderPipeline{PipelineStandard, PipelineURP, PipelineHDRP}
}

// ParseRenderPipeline parses a pipeline name; empty means PipelineHDRP.
func ParseRenderPipeline(s string) (RenderPipeline, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if name == "" {
		return PipelineHDRP, nil
	}

	p := RenderPipeline(name)
	if _, ok := pipelineProperties[p]; ok {
		return p, nil
	}

	names := make([]string, 0, len(pipelineProperties))
	for _, rp := range RenderPipelines() {
		names = append(names, string(rp))
	}
	if hint := Suggest(name, names, 2); hint != "" {
		return "", fmt.Errorf("%w: %q (did you mean %q?)", ErrUnknownPipeline, s, hint)
	}

	return "", fmt.Errorf("%w: %q", ErrUnknownPipeline, s)
}

// Shader returns the shader reference of the pipeline.
func (p RenderPipeline) Shader() ShaderRef {
	return p.properties().Shader
}

// properties returns shader property names; unknown pipelines fall back to HDRP.
func (p RenderPipeline) properties() shaderProperties {
	if sp, ok := pipelineProperties[p]; ok {
		return sp
	}

	return pipelineProperties[PipelineHDRP]
}

package t2m

import "gonum.org/v1/gonum/spatial/r2"

// MaterialProperties represents material parameters extracted from a generated reply.
// Fields missing from the reply keep their zero value.
type MaterialProperties struct {
	Albedo     Color   `json:"albedo" yaml:"albedo"`         // Base diffuse color
	Metallic   float64 `json:"metallic" yaml:"metallic"`     // Metallic factor
	Smoothness float64 `json:"smoothness" yaml:"smoothness"` // Smoothness factor
	Emission   Color   `json:"emission" yaml:"emission"`     // Emission color
	Tiling     r2.Vec  `json:"tiling" yaml:"tiling"`         // Texture coordinate scale
	Offset     r2.Vec  `json:"offset" yaml:"offset"`         // Texture coordinate shift
}

// MaterialAsset is the input of the Unity material writer.
type MaterialAsset struct {
	Name       string             `json:"name" yaml:"name"`                               // Material object name
	Pipeline   RenderPipeline     `json:"pipeline" yaml:"pipeline"`                       // Target render pipeline
	Properties MaterialProperties `json:"properties" yaml:"properties"`                   // Parsed material parameters
	BaseMap    *TextureRef        `json:"baseMap,omitempty" yaml:"baseMap,omitempty"`     // Albedo texture
	NormalMap  *TextureRef        `json:"normalMap,omitempty" yaml:"normalMap,omitempty"` // Normal map texture
	GUID       string             `json:"guid,omitempty" yaml:"guid,omitempty"`           // Material asset GUID
}

/*
Package t2m turns generated text and images into Unity material assets.

It parses loosely structured chat replies into MaterialProperties, derives
tangent-space normal maps from height images, validates the result, and
writes deterministic Unity .mat and .meta documents. The package does no
network I/O; see cmd/t2m for the end-to-end generator.

Reader example:

	props := t2m.Parse("Albedo: 0.8 0.2 0.2 1, Metallic: 0.5, Smoothness: 0.8", nil)
	_ = props.Metallic // 0.5

HTML color grammar:

	props := t2m.Parse("Albedo: #CC3333, Emission: black", &t2m.ParseOptions{
		ColorGrammar: t2m.ColorGrammarHTML,
	})

Normal map example:

	normal, err := t2m.NormalMap(img, t2m.DefaultNormalStrength, nil)
	if err != nil {
		// handle error
	}

Validator example:

	issues := t2m.Validate(props, nil)
	if len(issues) != 0 {
		// handle validation issues
	}

Writer example:

	base := t2m.NewTextureRef("Assets/T2M Materials/T2M_Tex.png", t2m.TextureKindDefault)
	out, err := t2m.FormatMaterial(&t2m.MaterialAsset{
		Name:       "T2M_Mat",
		Pipeline:   t2m.PipelineURP,
		Properties: props,
		BaseMap:    &base,
	}, nil)
	if err != nil {
		// handle error
	}
*/
package t2m

package t2m

import "errors"

var (
	// ErrEmptyImage indicates a nil or zero-sized source image.
	ErrEmptyImage = errors.New("empty image")

	// ErrInvalidStrength indicates a NaN or infinite normal map strength.
	ErrInvalidStrength = errors.New("normal strength must be finite")

	// ErrNilMaterial indicates a nil material asset.
	ErrNilMaterial = errors.New("nil material")

	// ErrUnknownPipeline indicates an unsupported render pipeline name.
	ErrUnknownPipeline = errors.New("unknown render pipeline")

	// ErrUnknownGrammar indicates an unsupported color grammar name.
	ErrUnknownGrammar = errors.New("unknown color grammar")

	// ErrInvalidGUID indicates an asset GUID that is not 32 hex characters.
	ErrInvalidGUID = errors.New("invalid guid")
)

package settings

import "errors"

var (
	// ErrUnknownValue indicates an unsupported model, size or quality.
	ErrUnknownValue = errors.New("unsupported value")

	// ErrUnknownKey indicates a setting key that does not exist.
	ErrUnknownKey = errors.New("unknown setting")

	// ErrNoAPIKey indicates that no OpenAI key was found.
	ErrNoAPIKey = errors.New("no OpenAI API key: set OPENAI_API_KEY, add it to .env or run \"t2m config set api_key=...\"")
)

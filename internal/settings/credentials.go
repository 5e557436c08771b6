package settings

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// APIKeyEnv is the environment variable holding the OpenAI key.
const APIKeyEnv = "OPENAI_API_KEY"

// LoadAPIKey resolves the OpenAI key. envFiles (default ".env") are loaded
// first without overriding the environment; missing files are skipped.
// The environment wins over the persisted key.
func (s Settings) LoadAPIKey(envFiles ...string) (string, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("load %s: %w", f, err)
		}
	}

	if key := strings.TrimSpace(os.Getenv(APIKeyEnv)); key != "" {
		return key, nil
	}
	if key := strings.TrimSpace(s.APIKey); key != "" {
		return key, nil
	}

	return "", ErrNoAPIKey
}

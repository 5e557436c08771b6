// Package openai wraps the chat and image generation endpoints used to build materials.
package openai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

var (
	// ErrNoChoices is returned when a chat completion has no choices.
	ErrNoChoices = errors.New("chat completion returned no choices")
	// ErrNoImage is returned when an image generation has no data.
	ErrNoImage = errors.New("image generation returned no data")
	// ErrMissingAPIKey is returned when a client is created without a key.
	ErrMissingAPIKey = errors.New("openai api key is empty")
)

// ImageParams selects the image model, size and quality.
type ImageParams struct {
	Model   string `json:"model" yaml:"model"`     // Image model (dall-e-2, dall-e-3)
	Size    string `json:"size" yaml:"size"`       // Image size, e.g. 1024x1024
	Quality string `json:"quality" yaml:"quality"` // Image quality (standard, hd)
}

// Options configures a Client.
type Options struct {
	// BaseURL overrides the API endpoint (default is the public OpenAI API).
	BaseURL string
	// HTTPClient overrides the HTTP client (default is http.DefaultClient).
	HTTPClient *http.Client
}

// Client sends chat and image requests.
type Client struct {
	api *openai.Client
}

// New creates a Client for the given API key.
func New(apiKey string, opt *Options) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, ErrMissingAPIKey
	}

	cfg := openai.DefaultConfig(apiKey)
	if opt != nil {
		if opt.BaseURL != "" {
			cfg.BaseURL = strings.TrimRight(opt.BaseURL, "/")
		}
		if opt.HTTPClient != nil {
			cfg.HTTPClient = opt.HTTPClient
		}
	}

	return &Client{api: openai.NewClientWithConfig(cfg)}, nil
}

// Chat sends prompt as a single user message and returns the first reply.
func (c *Client) Chat(ctx context.Context, prompt, model string) (string, error) {
	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrNoChoices
	}

	return resp.Choices[0].Message.Content, nil
}

// Image requests a single image and returns its URL.
func (c *Client) Image(ctx context.Context, prompt string, p ImageParams) (string, error) {
	req := openai.ImageRequest{
		Prompt:         prompt,
		Model:          p.Model,
		N:              1,
		Size:           p.Size,
		ResponseFormat: openai.CreateImageResponseFormatURL,
	}
	// dall-e-2 rejects the quality parameter.
	if p.Model == openai.CreateImageModelDallE3 {
		req.Quality = p.Quality
	}

	resp, err := c.api.CreateImage(ctx, req)
	if err != nil {
		return "", fmt.Errorf("image generation: %w", err)
	}
	if len(resp.Data) == 0 || resp.Data[0].URL == "" {
		return "", ErrNoImage
	}

	return resp.Data[0].URL, nil
}

// IsAuthError reports whether err is an API rejection of the credential.
func IsAuthError(err error) bool {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode == http.StatusUnauthorized
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.HTTPStatusCode == http.StatusUnauthorized
	}

	return false
}

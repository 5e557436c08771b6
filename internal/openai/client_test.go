package openai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

// newTestClient starts a server with h and returns a client pointed at it.
func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	c, err := New("test-key", &Options{BaseURL: srv.URL + "/v1/", HTTPClient: srv.Client()})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	return c
}

func TestNewMissingKey(t *testing.T) {
	if _, err := New("  ", nil); !errors.Is(err, ErrMissingAPIKey) {
		t.Fatalf("expected ErrMissingAPIKey, got %v", err)
	}
}

func TestChat(t *testing.T) {
	var got struct {
		Model    string `json:"model"`
		Messages []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
	}
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer test-key" {
			t.Errorf("unexpected auth header %q", auth)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"index":0,"message":{"role":"assistant","content":"Metallic: 0.5"}}]}`))
	})

	reply, err := c.Chat(context.Background(), "rusty iron", "gpt-4")
	if err != nil {
		t.Fatalf("chat: %v", err)
	}
	if reply != "Metallic: 0.5" {
		t.Fatalf("unexpected reply %q", reply)
	}
	if got.Model != "gpt-4" || len(got.Messages) != 1 || got.Messages[0].Role != "user" || got.Messages[0].Content != "rusty iron" {
		t.Fatalf("unexpected request %+v", got)
	}
}

func TestChatNoChoices(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[]}`))
	})

	if _, err := c.Chat(context.Background(), "x", "gpt-4"); !errors.Is(err, ErrNoChoices) {
		t.Fatalf("expected ErrNoChoices, got %v", err)
	}
}

func TestChatUnauthorized(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"Incorrect API key provided","type":"invalid_request_error"}}`))
	})

	_, err := c.Chat(context.Background(), "x", "gpt-4")
	if err == nil {
		t.Fatalf("expected error")
	}
	if !IsAuthError(err) {
		t.Fatalf("expected auth error, got %v", err)
	}
}

func TestImage(t *testing.T) {
	tests := []struct {
		name        string
		params      ImageParams
		wantQuality string
	}{
		{name: "dall-e-2 omits quality", params: ImageParams{Model: "dall-e-2", Size: "256x256", Quality: "hd"}},
		{name: "dall-e-3 sends quality", params: ImageParams{Model: "dall-e-3", Size: "1024x1792", Quality: "hd"}, wantQuality: "hd"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var body map[string]any
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/v1/images/generations" {
					t.Errorf("unexpected path %q", r.URL.Path)
				}
				if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
					t.Errorf("decode request: %v", err)
				}
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(`{"created":1,"data":[{"url":"https://img.example/tex.png"}]}`))
			})

			url, err := c.Image(context.Background(), "seamless bark", tc.params)
			if err != nil {
				t.Fatalf("image: %v", err)
			}
			if url != "https://img.example/tex.png" {
				t.Fatalf("unexpected url %q", url)
			}
			if body["model"] != tc.params.Model || body["size"] != tc.params.Size || body["response_format"] != "url" {
				t.Fatalf("unexpected request %v", body)
			}
			if n, _ := body["n"].(float64); n != 1 {
				t.Fatalf("expected n=1, got %v", body["n"])
			}
			q, _ := body["quality"].(string)
			if q != tc.wantQuality {
				t.Fatalf("quality %q want %q", q, tc.wantQuality)
			}
		})
	}
}

func TestImageNoData(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"created":1,"data":[]}`))
	})

	if _, err := c.Image(context.Background(), "x", ImageParams{Model: "dall-e-2"}); !errors.Is(err, ErrNoImage) {
		t.Fatalf("expected ErrNoImage, got %v", err)
	}
}

package recall

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Embedder turns text into a vector. Implementations may call a remote
// API or, in tests, return canned vectors.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float64, error)
}

const defaultEmbedTimeout = 30 * time.Second

// EmbeddingClient is an Embedder over an OpenAI-compatible embeddings API.
type EmbeddingClient struct {
	Model   string
	APIKey  string
	BaseURL string

	client *http.Client
}

// NewEmbeddingClient creates a client for the given model and key.
// baseURL may be empty for the public API.
func NewEmbeddingClient(model, apiKey, baseURL string) *EmbeddingClient {
	if baseURL == "" {
		baseURL = "https://api.openai.com"
	}
	return &EmbeddingClient{
		Model:   model,
		APIKey:  apiKey,
		BaseURL: baseURL,
		client:  &http.Client{Timeout: defaultEmbedTimeout},
	}
}

type embeddingRequest struct {
	Model string `json:"model"`
	Input string `json:"input"`
}

type embeddingResponse struct {
	Data []struct {
		Embedding []float64 `json:"embedding"`
	} `json:"data"`
}

// Embed requests one embedding for the given text.
func (c *EmbeddingClient) Embed(ctx context.Context, text string) ([]float64, error) {
	if c.APIKey == "" {
		return nil, fmt.Errorf("embeddings API key not configured")
	}

	body, err := json.Marshal(embeddingRequest{Model: c.Model, Input: text})
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/v1/embeddings", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.APIKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling embeddings API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return nil, fmt.Errorf("embeddings API returned %d: %s", resp.StatusCode, msg)
	}

	var parsed embeddingResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decoding embeddings response: %w", err)
	}
	if len(parsed.Data) == 0 {
		return nil, fmt.Errorf("embeddings response contained no data")
	}
	return parsed.Data[0].Embedding, nil
}

package extract

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// Outbound limiter defaults: 50 requests per minute with small bursts,
// enough headroom for a single-user session.
const (
	generatorRateLimit = 50.0 / 60.0
	generatorBurst     = 5
	generatorMaxTokens = 1024
	defaultGenTimeout  = 30 * time.Second
)

// AnthropicGenerator implements Generator over the Anthropic Messages API.
type AnthropicGenerator struct {
	Model   string
	APIKey  string
	BaseURL string

	client  *http.Client
	limiter *rate.Limiter
}

// NewAnthropicGenerator creates a generator for the given model and key.
// baseURL may be empty for the public API; timeout <= 0 uses the default.
func NewAnthropicGenerator(model, apiKey, baseURL string, timeout time.Duration) *AnthropicGenerator {
	if baseURL == "" {
		baseURL = "https://api.anthropic.com"
	}
	if timeout <= 0 {
		timeout = defaultGenTimeout
	}
	return &AnthropicGenerator{
		Model:   model,
		APIKey:  apiKey,
		BaseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
		limiter: rate.NewLimiter(rate.Limit(generatorRateLimit), generatorBurst),
	}
}

type anthropicRequest struct {
	Model     string             `json:"model"`
	MaxTokens int                `json:"max_tokens"`
	Messages  []anthropicMessage `json:"messages"`
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

// Generate sends one prompt and returns the model's raw text reply.
// Single request, no streaming, no retry.
func (g *AnthropicGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	if g.APIKey == "" {
		return "", fmt.Errorf("anthropic API key not configured")
	}

	if err := g.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("waiting for rate limiter: %w", err)
	}

	body, err := json.Marshal(anthropicRequest{
		Model:     g.Model,
		MaxTokens: generatorMaxTokens,
		Messages:  []anthropicMessage{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.BaseURL+"/v1/messages", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", g.APIKey)
	req.Header.Set("anthropic-version", "2023-06-01")

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("calling generation API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return "", fmt.Errorf("generation API returned %d: %s", resp.StatusCode, msg)
	}

	var parsed anthropicResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("decoding generation response: %w", err)
	}

	for _, block := range parsed.Content {
		if block.Type == "text" {
			return block.Text, nil
		}
	}
	return "", fmt.Errorf("no text content in generation response")
}

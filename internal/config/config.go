package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// Config holds application configuration.
type Config struct {
	// ModelName is the remote generation model used for journal extraction.
	ModelName string `json:"model_name,omitempty"`

	// ModelBaseURL overrides the generation API base URL (useful for tests
	// and self-hosted gateways).
	ModelBaseURL string `json:"model_base_url,omitempty"`

	// ModelAPIKey authenticates against the generation API.
	// The TEND_API_KEY environment variable takes precedence.
	ModelAPIKey string `json:"model_api_key,omitempty"`

	// ModelTimeoutSeconds bounds a single generation request.
	ModelTimeoutSeconds int `json:"model_timeout_seconds,omitempty"`

	// EmbedModel is the embedding model used for memory vectors.
	EmbedModel string `json:"embed_model,omitempty"`

	// EmbedBaseURL overrides the embedding API base URL.
	EmbedBaseURL string `json:"embed_base_url,omitempty"`

	// MaxExtractItems caps each category list in an extraction result.
	MaxExtractItems int `json:"max_extract_items,omitempty"`

	// ExtractWindowSeconds / ExtractCapacity configure the fixed-window
	// limiter on the extraction endpoint (hard 429 on exhaustion).
	ExtractWindowSeconds int `json:"extract_window_seconds,omitempty"`
	ExtractCapacity      int `json:"extract_capacity,omitempty"`

	// PromptsWindowSeconds / PromptsCapacity configure the limiter on the
	// journaling-prompt endpoint (soft-fail with canned prompts).
	PromptsWindowSeconds int `json:"prompts_window_seconds,omitempty"`
	PromptsCapacity      int `json:"prompts_capacity,omitempty"`

	// ReviewWindowDays is how far back the periodic review looks.
	ReviewWindowDays int `json:"review_window_days,omitempty"`

	// DBMaxOpenConns limits the maximum number of open database connections.
	// If set to 1, all database access is serialized (reduces "database is
	// locked" errors). 0 means use sql.DB default (unlimited).
	DBMaxOpenConns int `json:"db_max_open_conns,omitempty"`

	// DBMaxIdleConns limits the maximum number of idle database connections.
	// 0 means use sql.DB default. Typically set equal to DBMaxOpenConns.
	DBMaxIdleConns int `json:"db_max_idle_conns,omitempty"`

	// DisabledTools is a list of MCP tool names to exclude from registration.
	// Unknown tool names are logged as warnings.
	DisabledTools []string `json:"disabled_tools,omitempty"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		ModelName:            "claude-3-5-haiku-20241022",
		ModelBaseURL:         "https://api.anthropic.com",
		ModelTimeoutSeconds:  30,
		EmbedModel:           "text-embedding-3-small",
		EmbedBaseURL:         "https://api.openai.com",
		MaxExtractItems:      12,
		ExtractWindowSeconds: 60,
		ExtractCapacity:      30,
		PromptsWindowSeconds: 60,
		PromptsCapacity:      12,
		ReviewWindowDays:     7,
	}
}

// Load loads configuration from baseDir/config.json.
// Returns default config if the file doesn't exist.
// The baseDir parameter allows tests to use t.TempDir() instead of ~/.tend.
func Load(baseDir string) (*Config, error) {
	cfg, err := loadFileRaw(filepath.Join(baseDir, "config.json"))
	if err != nil {
		return nil, err
	}
	merged := Merge(DefaultConfig(), cfg)

	// Environment wins for the API key so it never has to live in a file.
	if key := os.Getenv("TEND_API_KEY"); key != "" {
		merged.ModelAPIKey = key
	}

	return merged, nil
}

// loadFileRaw loads configuration from a specific file path.
// Returns zero-valued config if the file doesn't exist (not defaults).
func loadFileRaw(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, err
	}

	cfg := &Config{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Merge combines base and overlay configs.
// Overlay values take precedence for scalars; arrays are merged and deduplicated.
func Merge(base, overlay *Config) *Config {
	result := &Config{}

	result.ModelName = overlayString(base.ModelName, overlay.ModelName)
	result.ModelBaseURL = overlayString(base.ModelBaseURL, overlay.ModelBaseURL)
	result.ModelAPIKey = overlayString(base.ModelAPIKey, overlay.ModelAPIKey)
	result.EmbedModel = overlayString(base.EmbedModel, overlay.EmbedModel)
	result.EmbedBaseURL = overlayString(base.EmbedBaseURL, overlay.EmbedBaseURL)

	result.ModelTimeoutSeconds = overlayInt(base.ModelTimeoutSeconds, overlay.ModelTimeoutSeconds)
	result.MaxExtractItems = overlayInt(base.MaxExtractItems, overlay.MaxExtractItems)
	result.ExtractWindowSeconds = overlayInt(base.ExtractWindowSeconds, overlay.ExtractWindowSeconds)
	result.ExtractCapacity = overlayInt(base.ExtractCapacity, overlay.ExtractCapacity)
	result.PromptsWindowSeconds = overlayInt(base.PromptsWindowSeconds, overlay.PromptsWindowSeconds)
	result.PromptsCapacity = overlayInt(base.PromptsCapacity, overlay.PromptsCapacity)
	result.ReviewWindowDays = overlayInt(base.ReviewWindowDays, overlay.ReviewWindowDays)
	result.DBMaxOpenConns = overlayInt(base.DBMaxOpenConns, overlay.DBMaxOpenConns)
	result.DBMaxIdleConns = overlayInt(base.DBMaxIdleConns, overlay.DBMaxIdleConns)

	result.DisabledTools = mergeStringSlice(base.DisabledTools, overlay.DisabledTools)

	return result
}

func overlayString(base, overlay string) string {
	if overlay != "" {
		return overlay
	}
	return base
}

func overlayInt(base, overlay int) int {
	if overlay != 0 {
		return overlay
	}
	return base
}

// mergeStringSlice combines two slices, trims whitespace, and removes duplicates.
func mergeStringSlice(a, b []string) []string {
	seen := make(map[string]bool)
	result := make([]string, 0, len(a)+len(b))

	for _, s := range a {
		s = strings.TrimSpace(s)
		if s != "" && !seen[s] {
			seen[s] = true
			result = append(result, s)
		}
	}
	for _, s := range b {
		s = strings.TrimSpace(s)
		if s != "" && !seen[s] {
			seen[s] = true
			result = append(result, s)
		}
	}

	if len(result) == 0 {
		return nil
	}
	return result
}

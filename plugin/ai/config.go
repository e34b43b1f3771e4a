package ai

import (
	"github.com/pkg/errors"

	"github.com/hrygo/ragcore/internal/profile"
)

// EmbeddingConfig represents vector embedding configuration.
type EmbeddingConfig struct {
	Provider   string  // openai, siliconflow
	Model      string  // BAAI/bge-m3
	Dimensions int     // 1024
	APIKey     string
	BaseURL    string
	RPS        float64 // client-side request rate toward the provider
}

// NewEmbeddingConfigFromProfile derives embedding config from the profile.
func NewEmbeddingConfigFromProfile(p *profile.Profile) *EmbeddingConfig {
	return &EmbeddingConfig{
		Provider:   p.EmbeddingProvider,
		Model:      p.EmbeddingModel,
		Dimensions: p.EmbeddingDimensions,
		APIKey:     p.EmbeddingAPIKey,
		BaseURL:    p.EmbeddingBaseURL,
		RPS:        p.EmbeddingRPS,
	}
}

// Validate rejects configurations the embedding service cannot run with.
// These are startup failures, not per-call ones: the vector dimensionality
// must match the store's vector column width for the lifetime of the process.
func (c *EmbeddingConfig) Validate() error {
	if c.Provider == "" {
		return errors.New("embedding provider is required")
	}
	if c.Model == "" {
		return errors.New("embedding model is required")
	}
	if c.Dimensions <= 0 {
		return errors.Errorf("embedding dimensions must be positive, got %d", c.Dimensions)
	}
	if c.APIKey == "" && c.BaseURL == "" {
		return errors.New("embedding provider requires an API key or a base URL")
	}
	return nil
}

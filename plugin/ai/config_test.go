package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hrygo/ragcore/internal/profile"
)

func TestEmbeddingConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     EmbeddingConfig
		wantErr bool
	}{
		{
			name: "valid openai",
			cfg:  EmbeddingConfig{Provider: "openai", Model: "BAAI/bge-m3", Dimensions: 1024, APIKey: "sk-test"},
		},
		{
			name: "valid base url only",
			cfg:  EmbeddingConfig{Provider: "siliconflow", Model: "BAAI/bge-m3", Dimensions: 1024, BaseURL: "http://localhost:8080/v1"},
		},
		{
			name:    "missing provider",
			cfg:     EmbeddingConfig{Model: "BAAI/bge-m3", Dimensions: 1024, APIKey: "sk-test"},
			wantErr: true,
		},
		{
			name:    "missing model",
			cfg:     EmbeddingConfig{Provider: "openai", Dimensions: 1024, APIKey: "sk-test"},
			wantErr: true,
		},
		{
			name:    "zero dimensions",
			cfg:     EmbeddingConfig{Provider: "openai", Model: "BAAI/bge-m3", APIKey: "sk-test"},
			wantErr: true,
		},
		{
			name:    "no credentials",
			cfg:     EmbeddingConfig{Provider: "openai", Model: "BAAI/bge-m3", Dimensions: 1024},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNewEmbeddingConfigFromProfile(t *testing.T) {
	p := &profile.Profile{
		EmbeddingProvider:   "siliconflow",
		EmbeddingModel:      "BAAI/bge-m3",
		EmbeddingDimensions: 1024,
		EmbeddingAPIKey:     "sk-test",
		EmbeddingBaseURL:    "https://api.siliconflow.cn/v1",
		EmbeddingRPS:        5,
	}

	cfg := NewEmbeddingConfigFromProfile(p)
	assert.Equal(t, "siliconflow", cfg.Provider)
	assert.Equal(t, 1024, cfg.Dimensions)
	assert.Equal(t, 5.0, cfg.RPS)
	assert.NoError(t, cfg.Validate())
}

func TestNewEmbeddingServiceRejectsUnknownProvider(t *testing.T) {
	_, err := NewEmbeddingService(&EmbeddingConfig{
		Provider: "ollama", Model: "nomic-embed-text", Dimensions: 768, BaseURL: "http://localhost:11434",
	})
	assert.Error(t, err)
}

func TestNewEmbeddingServiceDimensions(t *testing.T) {
	svc, err := NewEmbeddingService(&EmbeddingConfig{
		Provider: "openai", Model: "BAAI/bge-m3", Dimensions: 1024, APIKey: "sk-test",
	})
	assert.NoError(t, err)
	assert.Equal(t, 1024, svc.Dimensions())
}

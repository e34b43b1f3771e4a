package profile

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Defaults for the ingestion and retrieval knobs. They can all be overridden
// through RAGCORE_* environment variables.
const (
	DefaultChunkSize     = 1000
	DefaultChunkOverlap  = 150
	DefaultTopK          = 5
	DefaultMinSimilarity = 0.3
	DefaultDimensions    = 1024

	// MinChunkSize is the enforced floor for the chunk size setting.
	MinChunkSize = 100
)

// Profile is the configuration to start the ragcore service.
type Profile struct {
	// Mode can be "prod" or "dev" or "demo"
	Mode string
	// Data is the data directory (sqlite database location)
	Data string
	// DSN points to where ragcore stores its chunks
	DSN string
	// Driver is the database driver (sqlite or postgres)
	Driver string
	// Version is the current version of the service
	Version string

	// Embedding provider configuration
	EmbeddingProvider   string  // RAGCORE_EMBEDDING_PROVIDER (default: openai)
	EmbeddingModel      string  // RAGCORE_EMBEDDING_MODEL (default: BAAI/bge-m3)
	EmbeddingDimensions int     // RAGCORE_EMBEDDING_DIMENSIONS (default: 1024)
	EmbeddingAPIKey     string  // RAGCORE_EMBEDDING_API_KEY
	EmbeddingBaseURL    string  // RAGCORE_EMBEDDING_BASE_URL
	EmbeddingRPS        float64 // RAGCORE_EMBEDDING_RPS (default: 10)

	// Ingestion configuration
	ChunkSize    int // RAGCORE_CHUNK_SIZE (default: 1000)
	ChunkOverlap int // RAGCORE_CHUNK_OVERLAP (default: 150)

	// Retrieval configuration
	TopK          int     // RAGCORE_TOP_K (default: 5)
	MinSimilarity float64 // RAGCORE_MIN_SIMILARITY (default: 0.3), clamped to [0,1]
}

func (p *Profile) IsDev() bool {
	return p.Mode != "prod"
}

// getEnvOrDefault returns the environment variable value or the default value.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnvOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getFloatEnvOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

// FromEnv loads configuration from RAGCORE_* environment variables.
// Values already set on the profile act as defaults and are only
// overridden when the corresponding variable is non-empty.
func (p *Profile) FromEnv() {
	p.Mode = getEnvOrDefault("RAGCORE_MODE", p.Mode)
	p.Data = getEnvOrDefault("RAGCORE_DATA", p.Data)
	p.DSN = getEnvOrDefault("RAGCORE_DSN", p.DSN)
	p.Driver = getEnvOrDefault("RAGCORE_DRIVER", p.Driver)

	p.EmbeddingProvider = getEnvOrDefault("RAGCORE_EMBEDDING_PROVIDER", "openai")
	p.EmbeddingModel = getEnvOrDefault("RAGCORE_EMBEDDING_MODEL", "BAAI/bge-m3")
	p.EmbeddingDimensions = getIntEnvOrDefault("RAGCORE_EMBEDDING_DIMENSIONS", DefaultDimensions)
	p.EmbeddingAPIKey = os.Getenv("RAGCORE_EMBEDDING_API_KEY")
	p.EmbeddingBaseURL = os.Getenv("RAGCORE_EMBEDDING_BASE_URL")
	p.EmbeddingRPS = getFloatEnvOrDefault("RAGCORE_EMBEDDING_RPS", 10)

	p.ChunkSize = getIntEnvOrDefault("RAGCORE_CHUNK_SIZE", DefaultChunkSize)
	p.ChunkOverlap = getIntEnvOrDefault("RAGCORE_CHUNK_OVERLAP", DefaultChunkOverlap)

	p.TopK = getIntEnvOrDefault("RAGCORE_TOP_K", DefaultTopK)
	p.MinSimilarity = getFloatEnvOrDefault("RAGCORE_MIN_SIMILARITY", DefaultMinSimilarity)
}

func checkDataDir(dataDir string) (string, error) {
	// Convert to absolute path if relative path is supplied.
	if !filepath.IsAbs(dataDir) {
		relativeDir := filepath.Join(filepath.Dir(os.Args[0]), dataDir)
		absDir, err := filepath.Abs(relativeDir)
		if err != nil {
			return "", err
		}
		dataDir = absDir
	}

	// Trim trailing \ or / in case user supplies
	dataDir = strings.TrimRight(dataDir, "\\/")
	if _, err := os.Stat(dataDir); err != nil {
		return "", errors.Wrapf(err, "unable to access data folder %s", dataDir)
	}
	return dataDir, nil
}

// Validate normalizes the profile and rejects configurations the service
// cannot start with. A bad embedding dimension or an unknown driver is fatal
// here instead of surfacing per-call later.
func (p *Profile) Validate() error {
	if p.Mode != "demo" && p.Mode != "dev" && p.Mode != "prod" {
		p.Mode = "dev"
	}

	if p.Driver == "" {
		p.Driver = "sqlite"
	}
	if p.Driver != "sqlite" && p.Driver != "postgres" {
		return errors.Errorf("unknown driver %q: only 'postgres' and 'sqlite' are supported", p.Driver)
	}

	if p.EmbeddingDimensions <= 0 {
		return errors.Errorf("embedding dimensions must be positive, got %d", p.EmbeddingDimensions)
	}

	if p.ChunkSize < MinChunkSize {
		p.ChunkSize = MinChunkSize
	}
	if p.ChunkOverlap < 0 {
		p.ChunkOverlap = 0
	}
	if p.ChunkOverlap >= p.ChunkSize {
		p.ChunkOverlap = p.ChunkSize / 3
	}

	if p.TopK <= 0 {
		p.TopK = DefaultTopK
	}
	if p.MinSimilarity < 0 {
		p.MinSimilarity = 0
	}
	if p.MinSimilarity > 1 {
		p.MinSimilarity = 1
	}

	if p.Driver == "sqlite" {
		if p.Data == "" {
			p.Data = "."
		}
		dataDir, err := checkDataDir(p.Data)
		if err != nil {
			return err
		}
		p.Data = dataDir
		if p.DSN == "" {
			dbFile := fmt.Sprintf("ragcore_%s.db", p.Mode)
			p.DSN = filepath.Join(dataDir, dbFile)
		}
	} else if p.DSN == "" {
		return errors.New("postgres driver requires RAGCORE_DSN")
	}

	return nil
}

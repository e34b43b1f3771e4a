// Package retrieval serves similarity search over persisted chunks for
// question answering. The read path never returns an error to the caller;
// every failure degrades to an empty result list.
package retrieval

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/hrygo/ragcore/internal/observability"
	"github.com/hrygo/ragcore/internal/profile"
	"github.com/hrygo/ragcore/plugin/ai"
	"github.com/hrygo/ragcore/store"
)

// Result is one ranked chunk returned to the caller.
type Result struct {
	DocID      string  `json:"doc_id"`
	Title      string  `json:"title"`
	Source     string  `json:"source"`
	ChunkIndex int     `json:"chunk_index"`
	Content    string  `json:"content"`
	Distance   float64 `json:"distance"`
	Similarity float64 `json:"similarity"`
}

// Retriever ranks stored chunks by cosine distance to a question embedding.
// It is a read-only consumer of the chunk store.
type Retriever struct {
	store            *store.Store
	embeddingService ai.EmbeddingService
	logger           *slog.Logger

	topK          int
	minSimilarity float64
}

// NewRetriever creates a similarity query service.
func NewRetriever(st *store.Store, embeddingService ai.EmbeddingService, p *profile.Profile, logger *slog.Logger) *Retriever {
	if logger == nil {
		logger = slog.Default()
	}

	topK := p.TopK
	if topK <= 0 {
		topK = profile.DefaultTopK
	}
	minSimilarity := p.MinSimilarity
	if minSimilarity < 0 {
		minSimilarity = 0
	}
	if minSimilarity > 1 {
		minSimilarity = 1
	}

	return &Retriever{
		store:            st,
		embeddingService: embeddingService,
		logger:           logger,
		topK:             topK,
		minSimilarity:    minSimilarity,
	}
}

// Query embeds the question, fetches the topK nearest chunks and drops every
// candidate farther than the similarity threshold. The threshold is a filter
// applied after ranking, so fewer than topK results may return.
func (r *Retriever) Query(ctx context.Context, question string) []Result {
	if strings.TrimSpace(question) == "" {
		return []Result{}
	}

	start := time.Now()

	vector, err := r.embeddingService.Embed(ctx, question)
	if err != nil {
		r.logger.Warn("failed to embed question, returning no results", "error", err)
		return []Result{}
	}

	candidates, err := r.store.SearchChunks(ctx, vector, r.topK)
	if err != nil {
		r.logger.Error("chunk similarity scan failed, returning no results", "error", err)
		return []Result{}
	}

	// Cosine distance threshold derived from the configured similarity
	// floor: similarity = 1 - distance.
	threshold := 1 - r.minSimilarity

	results := make([]Result, 0, len(candidates))
	for _, candidate := range candidates {
		if candidate.Distance > threshold {
			continue
		}
		chunk := candidate.Chunk
		results = append(results, Result{
			DocID:      chunk.DocID,
			Title:      chunk.Title,
			Source:     chunk.Source,
			ChunkIndex: chunk.ChunkIndex,
			Content:    chunk.Content,
			Distance:   candidate.Distance,
			Similarity: 1 - candidate.Distance,
		})
	}

	r.logger.Debug("similarity query served",
		"candidates", len(candidates),
		"results", len(results),
		observability.LogFieldDuration, time.Since(start).Milliseconds())

	return results
}

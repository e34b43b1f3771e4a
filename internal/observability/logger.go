// Package observability provides shared structured logging conventions for
// the ingestion and retrieval paths.
package observability

import (
	"log/slog"
	"os"
	"strings"

	"github.com/google/uuid"
)

const (
	// LogFieldJobID is the field name for ingestion job ID.
	LogFieldJobID = "job_id"
	// LogFieldDocID is the field name for document ID.
	LogFieldDocID = "doc_id"
	// LogFieldChunkIndex is the field name for chunk index within a document.
	LogFieldChunkIndex = "chunk_index"
	// LogFieldChunkCount is the field name for chunk count.
	LogFieldChunkCount = "chunk_count"
	// LogFieldDuration is the field name for duration in milliseconds.
	LogFieldDuration = "duration_ms"
)

// NewJobID generates a short unique ID for tracing one ingestion job
// through the logs.
func NewJobID() string {
	id := uuid.New().String()
	// First segment is enough for log correlation.
	if idx := strings.Index(id, "-"); idx > 0 {
		return id[:idx]
	}
	return id
}

// NewLogger builds the process-wide slog logger. Dev mode keeps the default
// text handler for readability; prod emits JSON.
func NewLogger(dev bool) *slog.Logger {
	if dev {
		return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, nil))
}

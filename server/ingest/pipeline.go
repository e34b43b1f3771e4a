// Package ingest implements the asynchronous document ingestion pipeline:
// an unbounded FIFO job queue drained by a single lazily-started worker that
// embeds and persists chunks with per-chunk failure isolation.
package ingest

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/lithammer/shortuuid/v4"
	"github.com/pkg/errors"

	"github.com/hrygo/ragcore/internal/observability"
	"github.com/hrygo/ragcore/internal/profile"
	"github.com/hrygo/ragcore/plugin/ai"
	serverai "github.com/hrygo/ragcore/server/ai"
	"github.com/hrygo/ragcore/store"
)

// embedTimeout bounds a single embedding provider call. A timeout is treated
// like any other provider failure: the chunk is skipped.
const embedTimeout = 30 * time.Second

// Chunk is one bounded substring of a source document, the unit of embedding
// and persistence. Created once by Enqueue, consumed once by the worker.
type Chunk struct {
	DocID   string
	Title   string
	Source  string
	Index   int
	Content string
}

// Job is the unit of work enqueued per document: the document ID plus all of
// its chunks. A job is never retried as a whole; failed chunks require a
// fresh ingestion call.
type Job struct {
	ID     string // log correlation ID
	DocID  string
	Chunks []Chunk
}

// Status is the non-blocking snapshot exposed to callers. Pending counts
// queued jobs; the counters accumulate per-chunk outcomes since start.
type Status struct {
	Pending    int   `json:"pending"`
	Running    bool  `json:"running"`
	Embedded   int64 `json:"embedded"`
	Duplicates int64 `json:"duplicates"`
	Failed     int64 `json:"failed"`
}

// Pipeline owns the queue and the single ingestion worker. It is constructed
// once at the composition root and shared by reference; there is no package
// level state.
type Pipeline struct {
	store            *store.Store
	embeddingService ai.EmbeddingService
	logger           *slog.Logger

	chunkSize    int
	chunkOverlap int

	queue *jobQueue

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
	done    chan struct{}

	embedded   atomic.Int64
	duplicates atomic.Int64
	failed     atomic.Int64
}

// NewPipeline creates an ingestion pipeline. The worker is not started until
// the first Enqueue or an explicit Start.
func NewPipeline(st *store.Store, embeddingService ai.EmbeddingService, p *profile.Profile, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		store:            st,
		embeddingService: embeddingService,
		logger:           logger,
		chunkSize:        p.ChunkSize,
		chunkOverlap:     p.ChunkOverlap,
		queue:            newJobQueue(),
	}
}

// Enqueue chunks the text synchronously, queues one job for the document and
// returns the fresh document ID with the planned chunk count. It never blocks
// on embedding or persistence; downstream failures surface only through logs
// and Status. The worker is started lazily if it is not already running.
func (p *Pipeline) Enqueue(title, source, text string) (string, int) {
	docID := shortuuid.New()

	contents := serverai.Chunk(text, p.chunkSize, p.chunkOverlap)
	job := &Job{
		ID:     observability.NewJobID(),
		DocID:  docID,
		Chunks: make([]Chunk, 0, len(contents)),
	}
	for i, content := range contents {
		job.Chunks = append(job.Chunks, Chunk{
			DocID:   docID,
			Title:   title,
			Source:  source,
			Index:   i,
			Content: content,
		})
	}

	p.queue.push(job)
	p.Start()

	p.logger.Info("ingestion job enqueued",
		observability.LogFieldJobID, job.ID,
		observability.LogFieldDocID, docID,
		observability.LogFieldChunkCount, len(job.Chunks))

	return docID, len(job.Chunks)
}

// Start launches the worker if it is not already running. A second Start
// while the worker is alive is a no-op, so exactly one consumer ever drains
// the queue.
func (p *Pipeline) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.running {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	p.cancel = cancel
	p.done = make(chan struct{})
	p.running = true
	go p.run(ctx, p.done)
}

// Stop cancels the worker and waits for it to exit. The worker finishes its
// in-flight chunk before observing the cancellation; remaining chunks and
// queued jobs stay pending and are picked up by the next Start.
func (p *Pipeline) Stop() {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return
	}
	cancel, done := p.cancel, p.done
	p.mu.Unlock()

	cancel()
	<-done
}

// Status reports queue depth, worker liveness and accumulated chunk outcomes.
func (p *Pipeline) Status() Status {
	p.mu.Lock()
	running := p.running
	p.mu.Unlock()

	return Status{
		Pending:    p.queue.len(),
		Running:    running,
		Embedded:   p.embedded.Load(),
		Duplicates: p.duplicates.Load(),
		Failed:     p.failed.Load(),
	}
}

func (p *Pipeline) run(ctx context.Context, done chan struct{}) {
	defer func() {
		p.mu.Lock()
		p.running = false
		p.mu.Unlock()
		close(done)
	}()

	for {
		job, ok := p.queue.pop()
		if !ok {
			select {
			case <-ctx.Done():
				p.logger.Info("ingest worker stopped")
				return
			case <-p.queue.wake:
				continue
			}
		}

		p.processJob(ctx, job)

		select {
		case <-ctx.Done():
			p.logger.Info("ingest worker stopped")
			return
		default:
		}
	}
}

// processJob embeds and persists each chunk in index order. A chunk failure
// never aborts the job or the worker; outcomes are counted and logged.
func (p *Pipeline) processJob(ctx context.Context, job *Job) {
	start := time.Now()
	var embedded, duplicates, failed int

	for _, chunk := range job.Chunks {
		// Cancellation is observed between chunks only; the in-flight
		// chunk below always runs to completion.
		select {
		case <-ctx.Done():
			p.logger.Info("ingest worker cancelled mid-job, remaining chunks stay unprocessed",
				observability.LogFieldJobID, job.ID,
				observability.LogFieldDocID, job.DocID,
				observability.LogFieldChunkIndex, chunk.Index)
			return
		default:
		}

		switch err := p.processChunk(chunk); {
		case err == nil:
			embedded++
			p.embedded.Add(1)
		case errors.Is(err, store.ErrChunkExists):
			duplicates++
			p.duplicates.Add(1)
			p.logger.Info("duplicate chunk content already ingested, skipping",
				observability.LogFieldJobID, job.ID,
				observability.LogFieldDocID, job.DocID,
				observability.LogFieldChunkIndex, chunk.Index)
		default:
			failed++
			p.failed.Add(1)
			p.logger.Error("failed to process chunk",
				observability.LogFieldJobID, job.ID,
				observability.LogFieldDocID, job.DocID,
				observability.LogFieldChunkIndex, chunk.Index,
				"error", err)
		}
	}

	p.logger.Info("ingestion job processed",
		observability.LogFieldJobID, job.ID,
		observability.LogFieldDocID, job.DocID,
		"embedded", embedded,
		"duplicates", duplicates,
		"failed", failed,
		observability.LogFieldDuration, time.Since(start).Milliseconds())
}

// processChunk embeds one chunk and persists it in its own transaction.
// The call runs under a detached timeout context so stopping the pipeline
// never abandons a half-done provider or store call.
func (p *Pipeline) processChunk(chunk Chunk) error {
	ctx, cancel := context.WithTimeout(context.Background(), embedTimeout)
	defer cancel()

	vector, err := p.embeddingService.Embed(ctx, chunk.Content)
	if err != nil {
		return errors.Wrap(err, "embedding provider")
	}

	_, err = p.store.CreateChunk(ctx, &store.DocumentChunk{
		DocID:      chunk.DocID,
		Title:      chunk.Title,
		Source:     chunk.Source,
		ChunkIndex: chunk.Index,
		Content:    chunk.Content,
		Embedding:  vector,
		CreatedTs:  time.Now().Unix(),
	})
	return err
}

package main

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/hrygo/ragcore/internal/observability"
	"github.com/hrygo/ragcore/internal/profile"
	"github.com/hrygo/ragcore/plugin/ai"
	"github.com/hrygo/ragcore/server/ingest"
	"github.com/hrygo/ragcore/server/retrieval"
	"github.com/hrygo/ragcore/store"
	"github.com/hrygo/ragcore/store/db"
)

func main() {
	// Optional .env for local development; real deployments set env directly.
	_ = godotenv.Load()

	p := &profile.Profile{Mode: "dev"}
	p.FromEnv()
	if err := p.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(p.IsDev())
	slog.SetDefault(logger)

	dbDriver, err := db.NewDBDriver(p)
	if err != nil {
		logger.Error("failed to create db driver", "error", err)
		os.Exit(1)
	}
	st := store.New(dbDriver, p)
	defer st.Close()

	// Provider misconfiguration (including a bad vector dimensionality) is
	// fatal here, never per-call.
	embeddingService, err := ai.NewEmbeddingService(ai.NewEmbeddingConfigFromProfile(p))
	if err != nil {
		logger.Error("failed to create embedding service", "error", err)
		os.Exit(1)
	}

	pipeline := ingest.NewPipeline(st, embeddingService, p, logger)
	retriever := retrieval.NewRetriever(st, embeddingService, p, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		<-ctx.Done()
		// Let the in-flight chunk finish, then park the worker.
		pipeline.Stop()
		return nil
	})
	g.Go(func() error {
		defer stop()
		return repl(ctx, pipeline, retriever)
	})

	if err := g.Wait(); err != nil {
		logger.Error("shutdown with error", "error", err)
		os.Exit(1)
	}
	logger.Info("bye")
}

// repl is a line-oriented harness over the three caller-facing operations:
// ingest, query and status.
func repl(ctx context.Context, pipeline *ingest.Pipeline, retriever *retrieval.Retriever) error {
	fmt.Println("ragcore — commands: ingest <file>, query <question>, status, quit")

	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		line := strings.TrimSpace(scanner.Text())
		command, rest, _ := strings.Cut(line, " ")
		rest = strings.TrimSpace(rest)

		switch command {
		case "":
		case "quit", "exit":
			return nil

		case "ingest":
			if rest == "" {
				fmt.Println("usage: ingest <file>")
				continue
			}
			content, err := os.ReadFile(rest)
			if err != nil {
				fmt.Printf("read failed: %v\n", err)
				continue
			}
			docID, chunks := pipeline.Enqueue(filepath.Base(rest), rest, string(content))
			fmt.Printf("doc_id=%s chunks_enqueued=%d\n", docID, chunks)

		case "query":
			if rest == "" {
				fmt.Println("usage: query <question>")
				continue
			}
			results := retriever.Query(ctx, rest)
			if len(results) == 0 {
				fmt.Println("no results")
				continue
			}
			for i, result := range results {
				snippet := result.Content
				if len(snippet) > 120 {
					snippet = snippet[:120] + "..."
				}
				fmt.Printf("%d. [%.3f] %s#%d %s\n", i+1, result.Similarity, result.DocID, result.ChunkIndex, snippet)
			}

		case "status":
			s := pipeline.Status()
			fmt.Printf("pending=%d running=%t embedded=%d duplicates=%d failed=%d\n",
				s.Pending, s.Running, s.Embedded, s.Duplicates, s.Failed)

		default:
			fmt.Printf("unknown command: %s\n", command)
		}
	}
}

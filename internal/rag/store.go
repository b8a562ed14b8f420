package rag

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"ragdocs/internal/vector"
)

// ErrInconsistentState is returned when the persisted chunk store and the
// persisted index disagree on length. Initialization aborts rather than
// silently truncating either side.
var ErrInconsistentState = errors.New("chunk store and vector index are out of sync")

// Embedder is the narrow surface the store needs from an embedding
// provider. Empty input yields a zero-length vector, not an error.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

// IndexedChunk pairs a chunk's text with the identifier of the document it
// came from. Entry i corresponds to row i of the vector index.
type IndexedChunk struct {
	Content string
	Source  string
}

// ScoredChunk is a search hit, ordered by ascending squared L2 distance.
type ScoredChunk struct {
	Content  string
	Source   string
	Distance float32
}

// Store owns the vector index and the parallel chunk store, and keeps both
// persisted to two co-located files under a single base path. Additions are
// serialized by a writer lock; searches take a read lock so they never
// observe a half-applied batch. Persistence rewrites both files in full on
// every addition: no in-memory-only window survives a crash, at the cost of
// a full rewrite per batch. A crash between the two file writes can leave
// the artifacts desynchronized; that is detected (and rejected) at load.
type Store struct {
	mu       sync.RWMutex
	embedder Embedder
	index    *vector.Flat
	chunks   []IndexedChunk

	indexPath  string
	chunksPath string
}

// Open restores a store from disk if both persisted artifacts exist,
// otherwise starts empty with the given dimension. The chunk store lives in
// a sibling file of the index path.
func Open(indexPath string, dim int, embedder Embedder) (*Store, error) {
	s := &Store{
		embedder:   embedder,
		indexPath:  indexPath,
		chunksPath: filepath.Join(filepath.Dir(indexPath), "chunks.gob"),
	}

	_, idxErr := os.Stat(s.indexPath)
	_, chkErr := os.Stat(s.chunksPath)

	if idxErr == nil && chkErr == nil {
		idx, err := loadIndex(s.indexPath)
		if err != nil {
			return nil, fmt.Errorf("load vector index: %w", err)
		}
		chunks, err := loadChunks(s.chunksPath)
		if err != nil {
			return nil, fmt.Errorf("load chunk store: %w", err)
		}
		if idx.Count() != len(chunks) {
			return nil, fmt.Errorf("%w: %d vectors, %d chunks", ErrInconsistentState, idx.Count(), len(chunks))
		}
		if idx.Dimension() != dim {
			slog.Warn("persisted index dimension differs from configuration",
				"persisted", idx.Dimension(), "configured", dim)
		}
		s.index = idx
		s.chunks = chunks
		slog.Info("loaded vector index", "path", s.indexPath, "vectors", idx.Count())
		return s, nil
	}

	if idxErr == nil || chkErr == nil {
		slog.Warn("found only one of two persisted artifacts, starting fresh",
			"index_path", s.indexPath, "chunks_path", s.chunksPath)
	}
	s.index = vector.NewFlat(dim)
	slog.Info("created new vector index", "dimension", dim)
	return s, nil
}

// Count reports the number of indexed chunks.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.chunks)
}

// AddDocuments embeds texts and appends vector/chunk pairs in order, then
// persists both stores. An empty batch is a warned no-op. Texts whose
// embedding comes back zero-length are skipped on both sides, preserving
// index/chunk parity.
func (s *Store) AddDocuments(ctx context.Context, texts []string, source string) error {
	if len(texts) == 0 {
		slog.WarnContext(ctx, "no texts provided to add", "source", source)
		return nil
	}

	vectors, err := s.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return fmt.Errorf("embed %d texts: %w", len(texts), err)
	}

	kept := make([][]float32, 0, len(texts))
	chunks := make([]IndexedChunk, 0, len(texts))
	for i, v := range vectors {
		if len(v) == 0 {
			slog.WarnContext(ctx, "skipping text with no embedding", "source", source, "position", i)
			continue
		}
		kept = append(kept, v)
		chunks = append(chunks, IndexedChunk{Content: texts[i], Source: source})
	}
	if len(kept) == 0 {
		slog.WarnContext(ctx, "batch produced no embeddings", "source", source)
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.index.Add(kept); err != nil {
		return err
	}
	s.chunks = append(s.chunks, chunks...)
	slog.InfoContext(ctx, "documents added", "source", source, "added", len(chunks), "total", len(s.chunks))

	return s.persistLocked()
}

// Search embeds the query and returns up to k chunks ordered by ascending
// distance. An empty index yields an empty result, not an error.
func (s *Store) Search(ctx context.Context, query string, k int) ([]ScoredChunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.chunks) == 0 {
		slog.WarnContext(ctx, "search on empty index")
		return nil, nil
	}

	qv, err := s.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	if len(qv) == 0 {
		return nil, errors.New("query produced no embedding")
	}

	ids, dists, err := s.index.Search(qv, k)
	if err != nil {
		return nil, err
	}

	results := make([]ScoredChunk, 0, len(ids))
	for i, id := range ids {
		c := s.chunks[id]
		results = append(results, ScoredChunk{Content: c.Content, Source: c.Source, Distance: dists[i]})
	}
	return results, nil
}

// Persist writes both artifacts to disk, creating the directory if absent.
func (s *Store) Persist() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.persistLocked()
}

func (s *Store) persistLocked() error {
	if err := os.MkdirAll(filepath.Dir(s.indexPath), 0o750); err != nil {
		return fmt.Errorf("create index directory: %w", err)
	}
	if err := writeGob(s.indexPath, s.index.Save); err != nil {
		return fmt.Errorf("write vector index: %w", err)
	}
	if err := writeChunks(s.chunksPath, s.chunks); err != nil {
		return fmt.Errorf("write chunk store: %w", err)
	}
	return nil
}

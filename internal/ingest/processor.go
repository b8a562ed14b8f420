// Package ingest turns raw documents into indexed chunks: markdown cleanup,
// sentence-aware chunking, then handoff to the vector store. Directory
// ingestion isolates per-file failures so one bad document never aborts a
// batch.
package ingest

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"ragdocs/internal/text"
)

// Indexer is the write surface of the vector store.
type Indexer interface {
	AddDocuments(ctx context.Context, texts []string, source string) error
}

// FileError records one failed file of a batch.
type FileError struct {
	Path  string `json:"path"`
	Error string `json:"error"`
}

// Report aggregates the outcome of a directory ingestion.
type Report struct {
	TotalFiles     int         `json:"total_files"`
	ProcessedFiles int         `json:"processed_files"`
	TotalChunks    int         `json:"total_chunks"`
	FailedFiles    []FileError `json:"failed_files"`
}

type Processor struct {
	chunker *text.Chunker
	indexer Indexer
}

func NewProcessor(chunker *text.Chunker, indexer Indexer) *Processor {
	return &Processor{chunker: chunker, indexer: indexer}
}

// ProcessDocument cleans, chunks and indexes one document, returning the
// number of chunks produced.
func (p *Processor) ProcessDocument(ctx context.Context, content, source string) (int, error) {
	clean := text.CleanMarkdown(content)
	chunks := p.chunker.CreateChunks(clean)
	slog.InfoContext(ctx, "document chunked", "source", source, "chunks", len(chunks))

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Content
	}
	if err := p.indexer.AddDocuments(ctx, texts, source); err != nil {
		return 0, err
	}
	return len(chunks), nil
}

// ProcessFile reads one markdown file and indexes it under its path.
// Invalid UTF-8 is replaced rather than rejected.
func (p *Processor) ProcessFile(ctx context.Context, path string) (int, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- path comes from directory enumeration under the configured docs root
	if err != nil {
		return 0, fmt.Errorf("read %s: %w", path, err)
	}
	content := string(data)
	if !utf8.ValidString(content) {
		slog.WarnContext(ctx, "file is not valid UTF-8, replacing invalid bytes", "path", path)
		content = strings.ToValidUTF8(content, "�")
	}

	// carry the origin into the indexed text itself
	content = fmt.Sprintf("Source: %s\n\n%s", path, content)

	return p.ProcessDocument(ctx, content, path)
}

// FindMarkdownFiles recursively lists .md files under dir.
func FindMarkdownFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(path, ".md") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", dir, err)
	}
	return files, nil
}

// ProcessDirectory ingests every markdown file under dir. Individual file
// failures are recorded and skipped; only a failed enumeration makes the
// whole call fail.
func (p *Processor) ProcessDirectory(ctx context.Context, dir string) (*Report, error) {
	files, err := FindMarkdownFiles(dir)
	if err != nil {
		return nil, err
	}
	slog.InfoContext(ctx, "starting batch ingestion", "dir", dir, "files", len(files))

	report := &Report{TotalFiles: len(files), FailedFiles: []FileError{}}
	for _, path := range files {
		n, err := p.ProcessFile(ctx, path)
		if err != nil {
			slog.ErrorContext(ctx, "failed to process file", "path", path, "error", err)
			report.FailedFiles = append(report.FailedFiles, FileError{Path: path, Error: err.Error()})
			continue
		}
		report.ProcessedFiles++
		report.TotalChunks += n
	}

	slog.InfoContext(ctx, "batch ingestion completed",
		"processed", report.ProcessedFiles, "total", report.TotalFiles,
		"chunks", report.TotalChunks, "failed", len(report.FailedFiles))
	return report, nil
}
